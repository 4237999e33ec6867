package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statsdomain "emotrack/internal/modules/stats/domain"
	statsdto "emotrack/internal/modules/stats/dto"
	"emotrack/internal/ui/chart"
	"emotrack/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type StatsPort interface {
	Load(ctx context.Context) (statsdto.SnapshotOutput, error)
	Plot(ctx context.Context, kind string) (statsdto.PlotOutput, error)
	Apply(payload []byte) (statsdto.SnapshotOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SnapshotLoadedMsg struct {
	Snapshot statsdto.SnapshotOutput
	Err      error
}

type ChartRenderedMsg struct {
	Handle *chart.Handle
	Err    error
}

type PlotLoadedMsg struct {
	Kind string
	Plot statsdto.PlotOutput
	Err  error
}

type PlotRenderedMsg struct {
	Kind   string
	Handle *chart.Handle
	Err    error
}

// ─── model ───────────────────────────────────────────────────────────────────

const (
	slotMood      = "mood-history"
	slotSecondary = "secondary"
)

type Model struct {
	port     StatsPort
	registry *chart.Registry

	snapshot statsdto.SnapshotOutput
	loadErr  error

	moodChart *chart.Handle
	plotChart *chart.Handle
	plotKind  statsdomain.PlotKind
	plotBusy  bool
	plotErr   error
	spinner   spinner.Model
	loading   bool
	width     int
	height    int
}

func New(port StatsPort, registry *chart.Registry) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{
		port:     port,
		registry: registry,
		plotKind: statsdomain.PlotEvolution,
		spinner:  sp,
		loading:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.LoadCmd(), m.spinner.Tick)
}

// LoadCmd fetches a fresh snapshot; it is also the entry point of the
// refresh cascade.
func (m Model) LoadCmd() tea.Cmd {
	return func() tea.Msg {
		snapshot, err := m.port.Load(context.Background())
		return SnapshotLoadedMsg{Snapshot: snapshot, Err: err}
	}
}

// ApplySnapshotCmd renders a live-channel payload directly, bypassing the
// REST fetch. A payload that fails to decode is already logged by the
// usecase; it is dropped here so the current snapshot stays on screen.
func (m Model) ApplySnapshotCmd(payload []byte) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		snapshot, err := port.Apply(payload)
		if err != nil {
			return nil
		}
		return SnapshotLoadedMsg{Snapshot: snapshot}
	}
}

// CyclePlotCmd advances the secondary chart kind and re-requests it. A
// render already in flight for the slot wins; the keypress is dropped.
func (m *Model) CyclePlotCmd() tea.Cmd {
	if m.plotBusy {
		return nil
	}
	m.plotKind = statsdomain.NextPlotKind(m.plotKind)
	return m.fetchPlotCmd()
}

// RefreshPlotCmd re-requests the current kind, for the refresh cascade.
func (m *Model) RefreshPlotCmd() tea.Cmd {
	if m.plotBusy {
		return nil
	}
	return m.fetchPlotCmd()
}

func (m *Model) fetchPlotCmd() tea.Cmd {
	m.plotBusy = true
	kind := string(m.plotKind)
	port := m.port
	return func() tea.Msg {
		plot, err := port.Plot(context.Background(), kind)
		return PlotLoadedMsg{Kind: kind, Plot: plot, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case SnapshotLoadedMsg:
		m.loading = false
		m.loadErr = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.snapshot = msg.Snapshot
		if len(msg.Snapshot.History) > 0 {
			cmds = append(cmds, m.renderMoodChartCmd(msg.Snapshot))
		}

	case ChartRenderedMsg:
		if msg.Err == nil {
			m.moodChart = msg.Handle
		}

	case PlotLoadedMsg:
		if msg.Err != nil {
			m.plotBusy = false
			m.plotErr = msg.Err
			return m, nil
		}
		m.plotErr = nil
		cmds = append(cmds, m.renderPlotCmd(msg.Kind, msg.Plot.PNG))

	case PlotRenderedMsg:
		m.plotBusy = false
		if msg.Err != nil {
			m.plotErr = msg.Err
			return m, nil
		}
		m.plotChart = msg.Handle

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) renderMoodChartCmd(snapshot statsdto.SnapshotOutput) tea.Cmd {
	registry := m.registry
	return func() tea.Msg {
		handle, err := registry.Render(slotMood, chart.Config{
			Title:   "Evolución del ánimo",
			History: snapshot.History,
		})
		return ChartRenderedMsg{Handle: handle, Err: err}
	}
}

func (m Model) renderPlotCmd(kind string, png []byte) tea.Cmd {
	registry := m.registry
	return func() tea.Msg {
		handle, err := registry.Render(slotSecondary, chart.Config{
			Title: kind,
			Image: png,
		})
		return PlotRenderedMsg{Kind: kind, Handle: handle, Err: err}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading stats…")
	}
	if m.loadErr != nil {
		return theme.Pane.Width(max(m.width-4, 20)).Render(
			theme.Danger.Render("Could not load statistics") + "\n" +
				theme.Muted.Render(m.loadErr.Error()) + "\n\n" +
				theme.Muted.Render("r: retry"))
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Estado emocional") + "\n\n")
	sb.WriteString(theme.Muted.Render("promedio:  ") + theme.Hot.Render(m.snapshot.AverageLabel) + "\n")
	sb.WriteString(theme.Muted.Render("registros: ") + fmt.Sprintf("%d", m.snapshot.TotalEntries) + "\n\n")

	if len(m.snapshot.History) == 0 {
		sb.WriteString(theme.Muted.Render("Sin historial todavía. Envía tu primera encuesta.") + "\n")
	} else {
		sb.WriteString(sparkline(m.snapshot.History) + "\n")
		first := m.snapshot.History[0].Date
		last := m.snapshot.History[len(m.snapshot.History)-1].Date
		sb.WriteString(theme.Muted.Render(first+" … "+last) + "\n")
		if m.moodChart != nil {
			sb.WriteString(theme.Muted.Render("png: "+m.moodChart.Path()) + "\n")
		}
	}

	sb.WriteString("\n" + theme.Title.Render("Gráfico: "+plotTitle(m.plotKind)) + "\n")
	switch {
	case m.plotBusy:
		sb.WriteString(m.spinner.View() + " rendering…\n")
	case m.plotErr != nil:
		sb.WriteString(theme.Warning.Render("plot unavailable: "+m.plotErr.Error()) + "\n")
	case m.plotChart != nil:
		sb.WriteString(theme.Muted.Render("png: "+m.plotChart.Path()) + "\n")
	default:
		sb.WriteString(theme.Muted.Render("p: fetch the server-rendered chart") + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("p: next chart  r: refresh"))

	return theme.Pane.Width(max(m.width-4, 20)).Render(sb.String())
}

func plotTitle(kind statsdomain.PlotKind) string {
	switch kind {
	case statsdomain.PlotEvolution:
		return "evolución"
	case statsdomain.PlotHistogram:
		return "histograma"
	case statsdomain.PlotSleep:
		return "sueño"
	case statsdomain.PlotSummary:
		return "resumen"
	default:
		return string(kind)
	}
}

var sparks = []rune("▁▂▃▄▅▆▇█")

// sparkline maps moods 1..10 onto eight block heights.
func sparkline(history []statsdto.HistoryPointOutput) string {
	var sb strings.Builder
	for _, p := range history {
		idx := int((p.Mood - 1) / 9 * float64(len(sparks)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparks) {
			idx = len(sparks) - 1
		}
		sb.WriteRune(sparks[idx])
	}
	return theme.Success.Render(sb.String())
}
