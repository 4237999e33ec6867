package advice

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	advicedto "emotrack/internal/modules/advice/dto"
	"emotrack/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type AdvicePort interface {
	Recommendation(ctx context.Context) (advicedto.RecommendationOutput, error)
	Alerts(ctx context.Context) (advicedto.AlertBoardOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type RecommendationLoadedMsg struct {
	Recommendation advicedto.RecommendationOutput
	Err            error
}

type AlertsLoadedMsg struct {
	Board advicedto.AlertBoardOutput
	Err   error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port AdvicePort

	recommendation advicedto.RecommendationOutput
	recErr         error
	recLoaded      bool

	board     advicedto.AlertBoardOutput
	boardErr  error
	boardSeen bool

	width  int
	height int
}

func New(port AdvicePort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.LoadRecommendationCmd(), m.LoadAlertsCmd())
}

func (m Model) LoadRecommendationCmd() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		rec, err := port.Recommendation(context.Background())
		return RecommendationLoadedMsg{Recommendation: rec, Err: err}
	}
}

func (m Model) LoadAlertsCmd() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		board, err := port.Alerts(context.Background())
		return AlertsLoadedMsg{Board: board, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case RecommendationLoadedMsg:
		m.recLoaded = true
		m.recErr = msg.Err
		if msg.Err == nil {
			m.recommendation = msg.Recommendation
		}

	case AlertsLoadedMsg:
		m.boardSeen = true
		m.boardErr = msg.Err
		if msg.Err == nil {
			m.board = msg.Board
		}
	}
	return m, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.renderRecommendation())
	sb.WriteString("\n\n")
	sb.WriteString(m.renderBoard())
	return theme.Pane.Width(max(m.width-4, 20)).Render(sb.String())
}

// A failed section degrades to a placeholder; the rest of the dashboard
// is unaffected.
func (m Model) renderRecommendation() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Recomendación personal") + "\n\n")
	switch {
	case !m.recLoaded:
		sb.WriteString(theme.Muted.Render("Cargando…"))
	case m.recErr != nil:
		sb.WriteString(theme.Warning.Render("⚠ No se pudo cargar la recomendación"))
	default:
		rec := m.recommendation
		tone := theme.ToneStyle(rec.Tone)
		sb.WriteString(rec.RiskIcon + " " + tone.Render("Riesgo: "+rec.RiskLevel) + "\n\n")
		sb.WriteString(rec.Recommendation + "\n")
		if len(rec.GeneralTips) > 0 {
			sb.WriteString("\n" + theme.Muted.Render("Consejos generales") + "\n")
			for _, tip := range rec.GeneralTips {
				sb.WriteString("  • " + tip + "\n")
			}
		}
	}
	return sb.String()
}

func (m Model) renderBoard() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Alertas") + "\n\n")
	switch {
	case !m.boardSeen:
		sb.WriteString(theme.Muted.Render("Cargando…"))
	case m.boardErr != nil:
		sb.WriteString(theme.Warning.Render("⚠ No se pudo cargar el tablero de alertas"))
	case len(m.board.Alerts) == 0:
		sb.WriteString(theme.Success.Render("Sin alertas activas"))
	default:
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d usuarios en seguimiento", m.board.TotalAlerts)) + "\n\n")
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("  %-16s %-12s %-8s %s", "usuario", "riesgo", "media", "tendencia")) + "\n")
		for _, a := range m.board.Alerts {
			tone := theme.ToneStyle(a.Tone)
			line := fmt.Sprintf("%s %-16s %-12s %-8.1f %s %s",
				a.RiskIcon, a.Username, a.RiskLevel, a.AvgScore, a.TrendIcon, a.TrendLabel)
			sb.WriteString(tone.Render(line) + "\n")
		}
	}
	return sb.String()
}
