package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"emotrack/internal/bootstrap"
	surveydto "emotrack/internal/modules/survey/dto"
	"emotrack/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "emotrack",
		Short:         "EmoTrack wellbeing dashboard client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: user config dir)")

	root.AddCommand(newDashboardCmd(&configPath))
	root.AddCommand(newRegisterCmd(&configPath))
	root.AddCommand(newLoginCmd(&configPath))
	root.AddCommand(newLogoutCmd(&configPath))
	root.AddCommand(newWhoamiCmd(&configPath))
	root.AddCommand(newSurveyCmd(&configPath))
	root.AddCommand(newStatsCmd(&configPath))
	root.AddCommand(newRecommendationsCmd(&configPath))
	root.AddCommand(newAlertsCmd(&configPath))
	root.AddCommand(newPlotCmd(&configPath))
	return root
}

func loadApp(configPath string) (*bootstrap.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newDashboardCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Run the terminal dashboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}

func newRegisterCmd(configPath *string) *cobra.Command {
	var username, email, password string
	register := &cobra.Command{
		Use:   "register --username <name> --email <addr> --password <pw>",
		Short: "Create an account and start a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.AuthCLI.Register(context.Background(), username, email, password)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "registered and logged in as %s\n", out.Username)
			return nil
		},
	}
	register.Flags().StringVar(&username, "username", "", "account username")
	register.Flags().StringVar(&email, "email", "", "account email")
	register.Flags().StringVar(&password, "password", "", "account password")
	return register
}

func newLoginCmd(configPath *string) *cobra.Command {
	var username, password string
	login := &cobra.Command{
		Use:   "login --username <name> --password <pw>",
		Short: "Authenticate and persist the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.AuthCLI.Login(context.Background(), username, password)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", out.Username)
			return nil
		},
	}
	login.Flags().StringVar(&username, "username", "", "account username")
	login.Flags().StringVar(&password, "password", "", "account password")
	return login
}

func newLogoutCmd(configPath *string) *cobra.Command {
	var yes bool
	logout := &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes && !confirm(cmd, "Clear the local session? [y/N] ") {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.AuthCLI.Logout(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session cleared")
			return nil
		},
	}
	logout.Flags().BoolVar(&yes, "yes", false, "skip confirmation")
	return logout
}

func newWhoamiCmd(configPath *string) *cobra.Command {
	var verify bool
	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			session, err := app.AuthCLI.Current(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "username: %s\n", session.Username)
			if session.Role != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "role: %s\n", session.Role)
			}
			if verify {
				profile, err := app.AuthCLI.Verify(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "verified: user_id=%d\n", profile.UserID)
			}
			return nil
		},
	}
	whoami.Flags().BoolVar(&verify, "verify", false, "confirm the session against the server")
	return whoami
}

func newSurveyCmd(configPath *string) *cobra.Command {
	survey := &cobra.Command{Use: "survey", Short: "Daily wellbeing survey"}

	var mood, appetite, concentration int
	var sleep float64
	var notes string
	submit := &cobra.Command{
		Use:   "submit --mood <1-10> --sleep <0-24> --appetite <0-10> --concentration <0-10>",
		Short: "Submit today's survey",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			input := surveydto.EntryInput{
				Mood:          mood,
				SleepHours:    sleep,
				Appetite:      appetite,
				Concentration: concentration,
				Notes:         notes,
			}
			if err := app.SurveyCLI.Submit(context.Background(), input); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "survey submitted")
			return nil
		},
	}
	submit.Flags().IntVar(&mood, "mood", 0, "mood score, 1 to 10")
	submit.Flags().Float64Var(&sleep, "sleep", 0, "hours slept, 0 to 24")
	submit.Flags().IntVar(&appetite, "appetite", 0, "appetite score, 0 to 10")
	submit.Flags().IntVar(&concentration, "concentration", 0, "concentration score, 0 to 10")
	submit.Flags().StringVar(&notes, "notes", "", "free-form notes")
	_ = submit.MarkFlagRequired("mood")
	_ = submit.MarkFlagRequired("sleep")
	_ = submit.MarkFlagRequired("appetite")
	_ = submit.MarkFlagRequired("concentration")

	survey.AddCommand(submit)
	return survey
}

func newStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show mood statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.StatsCLI.Load(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "average mood: %s\n", out.AverageLabel)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "entries: %d\n", out.TotalEntries)
			for _, p := range out.History {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.1f\n", p.Date, p.Mood)
			}
			return nil
		},
	}
}

func newRecommendationsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "recommendations",
		Short: "Show the personal recommendation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.AdviceCLI.Recommendation(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s risk: %s\n", out.RiskIcon, out.RiskLevel)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Recommendation)
			for _, tip := range out.GeneralTips {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", tip)
			}
			return nil
		},
	}
}

func newAlertsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Show the population alert board",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.AdviceCLI.Alerts(context.Background())
			if err != nil {
				return err
			}
			if len(out.Alerts) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no active alerts")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "total: %d\n", out.TotalAlerts)
			for _, a := range out.Alerts {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%.1f\t%s %s\n",
					a.RiskIcon, a.Username, a.RiskLevel, a.AvgScore, a.TrendIcon, a.TrendLabel)
			}
			return nil
		},
	}
}

func newPlotCmd(configPath *string) *cobra.Command {
	var kind, outPath string
	plot := &cobra.Command{
		Use:   "plot --kind <evolution|hist|sleep|summary> --out <file.png>",
		Short: "Fetch a server-rendered chart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(outPath) == "" {
				return fmt.Errorf("--out is required")
			}
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.StatsCLI.Plot(context.Background(), kind)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, out.PNG, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s chart to %s\n", out.Kind, outPath)
			return nil
		},
	}
	plot.Flags().StringVar(&kind, "kind", "evolution", "chart kind")
	plot.Flags().StringVar(&outPath, "out", "", "output file")
	return plot
}

func confirm(cmd *cobra.Command, prompt string) bool {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
