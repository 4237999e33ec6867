package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"emotrack/internal/gateway"
	adviceinadapter "emotrack/internal/modules/advice/adapter/in"
	adviceoutadapter "emotrack/internal/modules/advice/adapter/out"
	adviceusecase "emotrack/internal/modules/advice/usecase"
	authinadapter "emotrack/internal/modules/auth/adapter/in"
	authoutadapter "emotrack/internal/modules/auth/adapter/out"
	authservice "emotrack/internal/modules/auth/service"
	authusecase "emotrack/internal/modules/auth/usecase"
	liveoutadapter "emotrack/internal/modules/live/adapter/out"
	livein "emotrack/internal/modules/live/port/in"
	liveusecase "emotrack/internal/modules/live/usecase"
	statsinadapter "emotrack/internal/modules/stats/adapter/in"
	statsoutadapter "emotrack/internal/modules/stats/adapter/out"
	statsservice "emotrack/internal/modules/stats/service"
	statsusecase "emotrack/internal/modules/stats/usecase"
	surveyinadapter "emotrack/internal/modules/survey/adapter/in"
	surveyoutadapter "emotrack/internal/modules/survey/adapter/out"
	surveyservice "emotrack/internal/modules/survey/service"
	surveyusecase "emotrack/internal/modules/survey/usecase"
	"emotrack/internal/platform/clock"
	"emotrack/internal/platform/config"
	apperrors "emotrack/internal/platform/errors"
	"emotrack/internal/platform/logging"
	uiapp "emotrack/internal/ui/app"
	"emotrack/internal/ui/chart"
)

type App struct {
	AuthCLI   authinadapter.CLIHandler
	StatsCLI  statsinadapter.CLIHandler
	SurveyCLI surveyinadapter.CLIHandler
	AdviceCLI adviceinadapter.CLIHandler
	LiveFeed  livein.Usecase
	Registry  *chart.Registry
	Log       *slog.Logger

	logFile *os.File
}

// New wires every module against the shared gateway. Logs go to a file
// under the state dir; stdout belongs to the TUI and the CLI output.
func New(cfg config.Config) (*App, error) {
	logFile, err := logging.OpenFile(cfg.StateDir)
	if err != nil {
		return nil, err
	}
	log := logging.New(logFile, cfg.Logging.Level, cfg.Logging.JSON)
	clk := clock.SystemClock{}

	client := gateway.New(cfg.Server.BaseURL, cfg.Server.Timeout.Std(), log)

	authUC := authusecase.NewInteractor(
		authservice.NewAuthService(),
		authoutadapter.NewFileSessionStore(cfg.StateDir),
		authoutadapter.NewGatewayAuthAPI(client),
		log,
	)
	statsUC := statsusecase.NewInteractor(
		statsservice.NewStatsService(),
		statsoutadapter.NewGatewayStatsAPI(client, clk),
		authUC,
		log,
	)
	surveyUC := surveyusecase.NewInteractor(
		surveyservice.NewSurveyService(),
		surveyoutadapter.NewGatewaySurveyAPI(client),
		authUC,
		log,
	)
	adviceUC := adviceusecase.NewInteractor(
		adviceoutadapter.NewGatewayAdviceAPI(client),
		authUC,
		log,
	)
	liveFeed := liveusecase.NewFeed(liveoutadapter.NewWebsocketDialer(client), authUC, log)

	renderer, err := chart.NewFileRenderer(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("new chart renderer: %w", err)
	}

	return &App{
		AuthCLI:   authinadapter.NewCLIHandler(authUC),
		StatsCLI:  statsinadapter.NewCLIHandler(statsUC),
		SurveyCLI: surveyinadapter.NewCLIHandler(surveyUC),
		AdviceCLI: adviceinadapter.NewCLIHandler(adviceUC),
		LiveFeed:  liveFeed,
		Registry:  chart.NewRegistry(renderer, log),
		Log:       log,
		logFile:   logFile,
	}, nil
}

func (a *App) Close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// RunTUI starts the dashboard. It refuses to start without a local
// session; identity verification against the server happens inside the
// model's Init.
func RunTUI(app *App) error {
	if _, err := app.AuthCLI.Current(context.Background()); err != nil {
		if errors.Is(err, apperrors.ErrNoSession) {
			return fmt.Errorf("no session: run `emotrack login` first")
		}
		return err
	}

	model := uiapp.NewModel(app.AuthCLI, app.StatsCLI, app.SurveyCLI, app.AdviceCLI, app.LiveFeed, app.Registry)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	app.Registry.DestroyAll()
	return err
}
