package app

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	advicedto "emotrack/internal/modules/advice/dto"
	authdto "emotrack/internal/modules/auth/dto"
	livedto "emotrack/internal/modules/live/dto"
	statsdto "emotrack/internal/modules/stats/dto"
	surveydto "emotrack/internal/modules/survey/dto"
	apperrors "emotrack/internal/platform/errors"
	"emotrack/internal/ui/chart"
	"emotrack/internal/ui/components"
	"emotrack/internal/ui/theme"
	adviceview "emotrack/internal/ui/views/advice"
	statsview "emotrack/internal/ui/views/stats"
	surveyview "emotrack/internal/ui/views/survey"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type authPort interface {
	Verify(ctx context.Context) (authdto.ProfileOutput, error)
	Logout(ctx context.Context) error
}

type statsPort interface {
	Load(ctx context.Context) (statsdto.SnapshotOutput, error)
	Plot(ctx context.Context, kind string) (statsdto.PlotOutput, error)
	Apply(payload []byte) (statsdto.SnapshotOutput, error)
}

type surveyPort interface {
	Submit(ctx context.Context, input surveydto.EntryInput) error
}

type advicePort interface {
	Recommendation(ctx context.Context) (advicedto.RecommendationOutput, error)
	Alerts(ctx context.Context) (advicedto.AlertBoardOutput, error)
}

type livePort interface {
	Open(ctx context.Context) error
	Updates() <-chan livedto.UpdateOutput
	Close() error
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabStats tabID = iota
	tabSurvey
	tabAdvice
	tabCount
)

var tabLabels = [tabCount]string{"Estado", "Encuesta", "Consejos"}

// ─── async messages ───────────────────────────────────────────────────────────

type verifiedMsg struct {
	profile authdto.ProfileOutput
	err     error
}

type liveOpenedMsg struct{ err error }

type liveUpdateMsg struct {
	update livedto.UpdateOutput
	open   bool
}

type loggedOutMsg struct{ err error }

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Refresh key.Binding
	Plot    key.Binding
	Logout  key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab", "ctrl+t"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Plot:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "next chart")),
		Logout:  key.NewBinding(key.WithKeys("l", "ctrl+l"), key.WithHelp("l", "logout")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Logout, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Refresh, k.Plot},
		{k.Help, k.Logout, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns identity verification, tab
// routing, the live feed, the logout confirmation, and the refresh
// cascade. Business logic lives behind port interfaces; rendering in the
// sub-views.
type Model struct {
	auth authPort
	live livePort

	statsView  statsview.Model
	surveyView surveyview.Model
	adviceView adviceview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	confirm   components.Confirm
	spinner   spinner.Model

	username   string
	verified   bool
	loggingOut bool
	exitMsg    string
	liveState  string
	status     string
	width      int
	height     int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(auth authPort, stats statsPort, survey surveyPort, advice advicePort, live livePort, registry *chart.Registry) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		auth:       auth,
		live:       live,
		statsView:  statsview.New(statsPortBridge{p: stats}, registry),
		surveyView: surveyview.New(surveyPortBridge{p: survey}),
		adviceView: adviceview.New(advicePortBridge{p: advice}),
		activeTab:  tabStats,
		keys:       defaultKeys(),
		help:       help.New(),
		confirm:    components.NewConfirm(),
		spinner:    sp,
		liveState:  "connecting",
		status:     "verifying session",
	}
}

func (m Model) Init() tea.Cmd {
	// Nothing loads before the identity check passes.
	return tea.Batch(m.verifyCmd(), m.spinner.Tick)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// After logout is accepted, late async results are discarded; they
	// must not repaint a dashboard that no longer has a session.
	if m.loggingOut && !isShutdownMsg(msg) {
		return m, nil
	}

	// The confirm modal intercepts all input while open.
	if m.confirm.Visible() {
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.Update(msg)
		return m, cmd
	}

	// A token the server stopped accepting invalidates the whole session,
	// whichever fetch noticed it first.
	if err := loadErrOf(msg); errors.Is(err, apperrors.ErrUnauthorized) {
		return m.expireSession()
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = m.width
		m.confirm.SetWidth(min(m.width-4, 60))
		m.propagateSize()
		return m, nil

	case verifiedMsg:
		if msg.err != nil {
			return m.failVerification(msg.err)
		}
		m.verified = true
		m.username = msg.profile.Username
		m.status = "ready"
		cmds = append(cmds,
			m.statsView.Init(),
			m.surveyView.Init(),
			m.adviceView.Init(),
			m.openLiveCmd(),
		)
		return m, tea.Batch(cmds...)

	case liveOpenedMsg:
		if msg.err != nil {
			m.liveState = "offline"
			m.status = "live channel unavailable"
			return m, nil
		}
		m.liveState = "live"
		return m, m.waitForUpdateCmd()

	case liveUpdateMsg:
		if !msg.open {
			m.liveState = "offline"
			m.status = "live channel closed"
			return m, nil
		}
		// The pushed payload renders directly; no REST fetch happens for
		// a live update.
		m.status = "updated from live feed"
		return m, tea.Batch(
			m.statsView.ApplySnapshotCmd(msg.update.Data),
			m.waitForUpdateCmd(),
		)

	case components.ConfirmAcceptMsg:
		m.loggingOut = true
		m.status = "logging out"
		return m, m.logoutCmd()

	case components.ConfirmCancelMsg:
		m.status = "ready"
		return m, nil

	case loggedOutMsg:
		// An exit message set earlier (expired session) wins over the
		// plain logout farewell.
		if m.exitMsg == "" {
			if msg.err != nil {
				m.exitMsg = "logout failed: " + msg.err.Error()
			} else {
				m.exitMsg = "Sesión cerrada."
			}
		}
		return m, tea.Quit

	case surveyview.SubmittedMsg:
		// The form handles its own rendering; a successful submission
		// also refreshes every data pane, stats first.
		var cmd tea.Cmd
		m.surveyView, cmd = m.surveyView.Update(msg)
		cmds = append(cmds, cmd)
		if msg.Err == nil {
			m.status = "encuesta registrada"
			cmds = append(cmds, m.refreshCascade()...)
		}
		return m, tea.Batch(cmds...)

	case statsview.SnapshotLoadedMsg, statsview.ChartRenderedMsg,
		statsview.PlotLoadedMsg, statsview.PlotRenderedMsg:
		var cmd tea.Cmd
		m.statsView, cmd = m.statsView.Update(msg)
		return m, cmd

	case adviceview.RecommendationLoadedMsg, adviceview.AlertsLoadedMsg:
		var cmd tea.Cmd
		m.adviceView, cmd = m.adviceView.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if !m.verified {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if handled, model, cmd := m.handleGlobalKey(msg); handled {
			return model, cmd
		}
	}

	// Everything else goes to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
	case tabSurvey:
		m.surveyView, tabCmd = m.surveyView.Update(msg)
	case tabAdvice:
		m.adviceView, tabCmd = m.adviceView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// handleGlobalKey routes dashboard-level shortcuts. On the survey tab the
// form owns plain keys, so only the ctrl variants stay global there.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	k := msg.String()
	formOwnsKeys := m.activeTab == tabSurvey && m.surveyView.Editing()

	switch k {
	case "ctrl+c":
		return true, m, m.quit()
	case "ctrl+t":
		m.activeTab = (m.activeTab + 1) % tabCount
		return true, m, nil
	case "ctrl+l":
		m.confirm.Open("¿Cerrar sesión?")
		return true, m, nil
	}
	if formOwnsKeys {
		return false, m, nil
	}

	switch k {
	case "q":
		return true, m, m.quit()
	case "tab":
		m.activeTab = (m.activeTab + 1) % tabCount
		return true, m, nil
	case "shift+tab":
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		return true, m, nil
	case "?":
		m.showHelp = true
		return true, m, nil
	case "l":
		m.confirm.Open("¿Cerrar sesión?")
		return true, m, nil
	case "r":
		m.status = "refreshing"
		return true, m, tea.Batch(m.refreshCascade()...)
	case "p":
		if m.activeTab == tabStats {
			return true, m, m.statsView.CyclePlotCmd()
		}
	}
	return false, m, nil
}

// quit ends the program without touching the session; only an explicit
// logout clears it.
func (m Model) quit() tea.Cmd {
	_ = m.live.Close()
	return tea.Quit
}

const sessionExpiredMsg = "Tu sesión expiró. Ejecuta `emotrack login` para entrar de nuevo."

func (m Model) failVerification(err error) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(err, apperrors.ErrNoSession),
		errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrMissingToken):
		// The session is already cleared by the auth module; this is the
		// single place that sends the user back to login.
		m.exitMsg = sessionExpiredMsg
	default:
		m.exitMsg = "No se pudo verificar la sesión: " + err.Error()
	}
	m.loggingOut = true
	return m, tea.Quit
}

// expireSession handles a mid-session token rejection: close the live feed,
// clear the stored session, and stop issuing authenticated calls. Results
// still in flight are discarded by the loggingOut guard.
func (m Model) expireSession() (tea.Model, tea.Cmd) {
	m.loggingOut = true
	m.exitMsg = sessionExpiredMsg
	auth, live := m.auth, m.live
	return m, func() tea.Msg {
		_ = live.Close()
		return loggedOutMsg{err: auth.Logout(context.Background())}
	}
}

// loadErrOf extracts the error of any data-loading result message.
func loadErrOf(msg tea.Msg) error {
	switch msg := msg.(type) {
	case statsview.SnapshotLoadedMsg:
		return msg.Err
	case statsview.PlotLoadedMsg:
		return msg.Err
	case adviceview.RecommendationLoadedMsg:
		return msg.Err
	case adviceview.AlertsLoadedMsg:
		return msg.Err
	case surveyview.SubmittedMsg:
		return msg.Err
	}
	return nil
}

// propagateSize forwards the current terminal size to every sub-view, not
// only the visible one, so tab switches land on correctly sized panes.
func (m *Model) propagateSize() {
	size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
	m.statsView, _ = m.statsView.Update(size)
	m.surveyView, _ = m.surveyView.Update(size)
	m.adviceView, _ = m.adviceView.Update(size)
}

// refreshCascade re-fetches every data pane in a fixed order: stats,
// recommendation, alerts, then the active secondary chart.
func (m *Model) refreshCascade() []tea.Cmd {
	cmds := []tea.Cmd{
		m.statsView.LoadCmd(),
		m.adviceView.LoadRecommendationCmd(),
		m.adviceView.LoadAlertsCmd(),
	}
	if cmd := m.statsView.RefreshPlotCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return cmds
}

func isShutdownMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case loggedOutMsg, tea.QuitMsg:
		return true
	}
	return false
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.exitMsg != "" {
		return m.exitMsg + "\n"
	}
	if !m.verified {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Verificando sesión…")
	}

	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.confirm.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.confirm.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabStats:
		return m.statsView.View()
	case tabSurvey:
		return m.surveyView.View()
	case tabAdvice:
		return m.adviceView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "emotrack  " + parts[0] + sep + parts[1] + sep + parts[2]
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := theme.Hot.Render("● "+m.username) + "  " + m.status
	liveTag := theme.Success.Render("⇅ live")
	if m.liveState != "live" {
		liveTag = theme.Neutral.Render("⇅ " + m.liveState)
	}
	right := liveTag + "  " + theme.Muted.Render("?:help  tab:switch  l:logout  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) verifyCmd() tea.Cmd {
	return func() tea.Msg {
		profile, err := m.auth.Verify(context.Background())
		return verifiedMsg{profile: profile, err: err}
	}
}

func (m Model) openLiveCmd() tea.Cmd {
	return func() tea.Msg {
		return liveOpenedMsg{err: m.live.Open(context.Background())}
	}
}

// waitForUpdateCmd blocks on the live feed and re-arms itself after each
// delivery, so updates keep flowing for the lifetime of the stream.
func (m Model) waitForUpdateCmd() tea.Cmd {
	updates := m.live.Updates()
	return func() tea.Msg {
		update, ok := <-updates
		return liveUpdateMsg{update: update, open: ok}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		_ = m.live.Close()
		return loggedOutMsg{err: m.auth.Logout(context.Background())}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed
// by a specific sub-view.

type statsPortBridge struct{ p statsPort }

func (b statsPortBridge) Load(ctx context.Context) (statsdto.SnapshotOutput, error) {
	return b.p.Load(ctx)
}
func (b statsPortBridge) Plot(ctx context.Context, kind string) (statsdto.PlotOutput, error) {
	return b.p.Plot(ctx, kind)
}
func (b statsPortBridge) Apply(payload []byte) (statsdto.SnapshotOutput, error) {
	return b.p.Apply(payload)
}

type surveyPortBridge struct{ p surveyPort }

func (b surveyPortBridge) Submit(ctx context.Context, input surveydto.EntryInput) error {
	return b.p.Submit(ctx, input)
}

type advicePortBridge struct{ p advicePort }

func (b advicePortBridge) Recommendation(ctx context.Context) (advicedto.RecommendationOutput, error) {
	return b.p.Recommendation(ctx)
}
func (b advicePortBridge) Alerts(ctx context.Context) (advicedto.AlertBoardOutput, error) {
	return b.p.Alerts(ctx)
}
