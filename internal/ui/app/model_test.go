package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

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
	adviceview "emotrack/internal/ui/views/advice"
	statsview "emotrack/internal/ui/views/stats"
	surveyview "emotrack/internal/ui/views/survey"
)

type fakeAuth struct {
	verifyErr error
	logouts   int
}

func (f *fakeAuth) Verify(context.Context) (authdto.ProfileOutput, error) {
	if f.verifyErr != nil {
		return authdto.ProfileOutput{}, f.verifyErr
	}
	return authdto.ProfileOutput{UserID: 1, Username: "ana"}, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	return nil
}

type fakeStats struct {
	mu      sync.Mutex
	loads   int
	plots   int
	applies int
	payload []byte
}

func (f *fakeStats) Load(context.Context) (statsdto.SnapshotOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	return statsdto.SnapshotOutput{AverageLabel: "N/A"}, nil
}

func (f *fakeStats) Plot(_ context.Context, kind string) (statsdto.PlotOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plots++
	return statsdto.PlotOutput{Kind: kind, PNG: []byte("png")}, nil
}

func (f *fakeStats) Apply(payload []byte) (statsdto.SnapshotOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applies++
	f.payload = append([]byte(nil), payload...)
	return statsdto.SnapshotOutput{AverageLabel: "9.9", TotalEntries: 4}, nil
}

func (f *fakeStats) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads, f.plots
}

func (f *fakeStats) applied() (int, []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applies, f.payload
}

type fakeSurvey struct{ submits int }

func (f *fakeSurvey) Submit(context.Context, surveydto.EntryInput) error {
	f.submits++
	return nil
}

type fakeAdvice struct {
	mu     sync.Mutex
	recs   int
	alerts int
}

func (f *fakeAdvice) Recommendation(context.Context) (advicedto.RecommendationOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs++
	return advicedto.RecommendationOutput{RiskLevel: "BAJO"}, nil
}

func (f *fakeAdvice) Alerts(context.Context) (advicedto.AlertBoardOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts++
	return advicedto.AlertBoardOutput{}, nil
}

func (f *fakeAdvice) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recs, f.alerts
}

type fakeLive struct {
	ch     chan livedto.UpdateOutput
	opens  int
	closes int
}

func (f *fakeLive) Open(context.Context) error {
	f.opens++
	return nil
}

func (f *fakeLive) Updates() <-chan livedto.UpdateOutput { return f.ch }

func (f *fakeLive) Close() error {
	f.closes++
	return nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(slot string, _ chart.Config) (string, error) { return "/tmp/" + slot, nil }
func (fakeRenderer) Destroy(string) error                               { return nil }

func newTestModel(auth *fakeAuth, stats *fakeStats, survey *fakeSurvey, advice *fakeAdvice, live *fakeLive) Model {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := chart.NewRegistry(fakeRenderer{}, log)
	return NewModel(auth, stats, survey, advice, live, registry)
}

// drain executes a command tree without feeding results back, so port
// call counts reflect exactly one pass.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, drain(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func verified(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(verifiedMsg{profile: authdto.ProfileOutput{UserID: 1, Username: "ana"}})
	return next.(Model)
}

func TestVerificationFailurePointsToLogin(t *testing.T) {
	t.Parallel()
	m := newTestModel(&fakeAuth{verifyErr: apperrors.ErrUnauthorized}, &fakeStats{}, &fakeSurvey{}, &fakeAdvice{}, &fakeLive{ch: make(chan livedto.UpdateOutput)})

	next, cmd := m.Update(verifiedMsg{err: apperrors.ErrUnauthorized})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	view := next.(Model).View()
	if !strings.Contains(view, "emotrack login") {
		t.Fatalf("expected login hint in final view, got %q", view)
	}
}

func TestSurveySuccessFiresCascadeOnceEach(t *testing.T) {
	t.Parallel()
	stats := &fakeStats{}
	advice := &fakeAdvice{}
	live := &fakeLive{ch: make(chan livedto.UpdateOutput)}
	m := newTestModel(&fakeAuth{}, stats, &fakeSurvey{}, advice, live)
	m = verified(t, m)

	_, cmd := m.Update(surveyview.SubmittedMsg{Err: nil})
	drain(cmd)

	if loads, plots := stats.counts(); loads != 1 || plots != 1 {
		t.Fatalf("expected one stats load and one plot refresh, got %d/%d", loads, plots)
	}
	if recs, alerts := advice.counts(); recs != 1 || alerts != 1 {
		t.Fatalf("expected one recommendation and one alerts fetch, got %d/%d", recs, alerts)
	}
}

func TestSurveyFailureDoesNotRefresh(t *testing.T) {
	t.Parallel()
	stats := &fakeStats{}
	advice := &fakeAdvice{}
	m := newTestModel(&fakeAuth{}, stats, &fakeSurvey{}, advice, &fakeLive{ch: make(chan livedto.UpdateOutput)})
	m = verified(t, m)

	_, cmd := m.Update(surveyview.SubmittedMsg{Err: errors.New("boom")})
	drain(cmd)

	if loads, _ := stats.counts(); loads != 0 {
		t.Fatalf("failed submit must not refresh stats, got %d loads", loads)
	}
	if recs, alerts := advice.counts(); recs != 0 || alerts != 0 {
		t.Fatalf("failed submit must not refresh advice, got %d/%d", recs, alerts)
	}
}

func TestLiveUpdateRendersPayloadDirectlyAndRearms(t *testing.T) {
	t.Parallel()
	stats := &fakeStats{}
	advice := &fakeAdvice{}
	ch := make(chan livedto.UpdateOutput, 1)
	close(ch)
	m := newTestModel(&fakeAuth{}, stats, &fakeSurvey{}, advice, &fakeLive{ch: ch})
	m = verified(t, m)

	payload := []byte(`{"average_mood":9.9,"total_entries":4}`)
	next, cmd := m.Update(liveUpdateMsg{update: livedto.UpdateOutput{Type: "stats_update", Data: payload}, open: true})
	msgs := drain(cmd)

	// The embedded payload goes straight to the stats render path; no
	// REST fetch fires for a live update.
	if applies, got := stats.applied(); applies != 1 || string(got) != string(payload) {
		t.Fatalf("expected one direct apply of the pushed payload, got %d (%q)", applies, got)
	}
	if loads, plots := stats.counts(); loads != 0 || plots != 0 {
		t.Fatalf("live update must not fetch over REST, got %d loads and %d plots", loads, plots)
	}
	if recs, alerts := advice.counts(); recs != 0 || alerts != 0 {
		t.Fatalf("live update must not refresh advice, got %d/%d", recs, alerts)
	}

	// The applied snapshot flows back in as a loaded message and lands on
	// screen, and the re-armed wait observed the closed channel.
	var closedMsg tea.Msg
	snapshotSeen := false
	for _, msg := range msgs {
		if u, ok := msg.(liveUpdateMsg); ok && !u.open {
			closedMsg = u
		}
		if s, ok := msg.(statsview.SnapshotLoadedMsg); ok {
			snapshotSeen = true
			next, _ = next.Update(s)
		}
	}
	if !snapshotSeen {
		t.Fatal("expected applied snapshot to reach the stats view")
	}
	if view := next.(Model).View(); !strings.Contains(view, "9.9") {
		t.Fatalf("expected pushed average on screen, got %q", view)
	}
	if closedMsg == nil {
		t.Fatal("expected re-armed wait to report the closed channel")
	}
	next, _ = next.Update(closedMsg)
	if applies, _ := stats.applied(); applies != 1 {
		t.Fatalf("closed channel must not apply again, got %d", applies)
	}
	_ = next
}

func TestUnauthorizedLoadClearsSessionAndExits(t *testing.T) {
	t.Parallel()
	rejected := fmt.Errorf("%w: GET /stats", apperrors.ErrUnauthorized)
	cases := []struct {
		name string
		msg  tea.Msg
	}{
		{"stats", statsview.SnapshotLoadedMsg{Err: rejected}},
		{"plot", statsview.PlotLoadedMsg{Err: rejected}},
		{"recommendation", adviceview.RecommendationLoadedMsg{Err: rejected}},
		{"alerts", adviceview.AlertsLoadedMsg{Err: rejected}},
		{"survey", surveyview.SubmittedMsg{Err: rejected}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			auth := &fakeAuth{}
			stats := &fakeStats{}
			live := &fakeLive{ch: make(chan livedto.UpdateOutput)}
			m := newTestModel(auth, stats, &fakeSurvey{}, &fakeAdvice{}, live)
			m = verified(t, m)

			next, cmd := m.Update(tc.msg)
			m = next.(Model)
			for _, msg := range drain(cmd) {
				next, _ = m.Update(msg)
				m = next.(Model)
			}

			if auth.logouts != 1 {
				t.Fatalf("expected rejected token to clear the session, got %d logouts", auth.logouts)
			}
			if live.closes == 0 {
				t.Fatal("expected live feed closed when the session expires")
			}
			if view := m.View(); !strings.Contains(view, "emotrack login") {
				t.Fatalf("expected login hint in final view, got %q", view)
			}

			// No further authenticated work in the same flow: late results
			// are discarded instead of repainting or refetching.
			if _, cmd := m.Update(surveyview.SubmittedMsg{Err: nil}); cmd != nil {
				t.Fatal("expected late results to be discarded after expiry")
			}
			if loads, _ := stats.counts(); loads != 0 {
				t.Fatalf("expected no stats fetch after expiry, got %d", loads)
			}
		})
	}
}

func TestWindowSizeReachesEverySubView(t *testing.T) {
	t.Parallel()
	m := newTestModel(&fakeAuth{}, &fakeStats{}, &fakeSurvey{}, &fakeAdvice{}, &fakeLive{ch: make(chan livedto.UpdateOutput)})
	m = verified(t, m)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)

	for m.activeTab = tabStats; m.activeTab < tabCount; m.activeTab++ {
		if w := lipgloss.Width(m.activeView()); w < 90 {
			t.Fatalf("tab %d did not receive the window size, rendered width %d", m.activeTab, w)
		}
	}
}

func TestLogoutConfirmClosesFeedAndClearsSession(t *testing.T) {
	t.Parallel()
	auth := &fakeAuth{}
	live := &fakeLive{ch: make(chan livedto.UpdateOutput)}
	m := newTestModel(auth, &fakeStats{}, &fakeSurvey{}, &fakeAdvice{}, live)
	m = verified(t, m)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	m = next.(Model)
	if !m.confirm.Visible() {
		t.Fatal("expected confirm modal after logout key")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = next.(Model)
	msgs := drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected accept message, got %v", msgs)
	}
	next, cmd = m.Update(msgs[0])
	m = next.(Model)
	for _, msg := range drain(cmd) {
		next, _ = m.Update(msg)
		m = next.(Model)
	}

	if auth.logouts != 1 {
		t.Fatalf("expected one logout, got %d", auth.logouts)
	}
	if live.closes == 0 {
		t.Fatal("expected live feed closed on logout")
	}
}

func TestPostLogoutResultsAreDiscarded(t *testing.T) {
	t.Parallel()
	stats := &fakeStats{}
	m := newTestModel(&fakeAuth{}, stats, &fakeSurvey{}, &fakeAdvice{}, &fakeLive{ch: make(chan livedto.UpdateOutput)})
	m = verified(t, m)

	next, _ := m.Update(components.ConfirmAcceptMsg{})
	m = next.(Model)

	_, cmd := m.Update(surveyview.SubmittedMsg{Err: nil})
	if cmd != nil {
		t.Fatal("expected late results to be discarded after logout")
	}
	if loads, _ := stats.counts(); loads != 0 {
		t.Fatalf("expected no refresh after logout, got %d loads", loads)
	}
}

func TestCancelLogoutKeepsDashboard(t *testing.T) {
	t.Parallel()
	auth := &fakeAuth{}
	m := newTestModel(auth, &fakeStats{}, &fakeSurvey{}, &fakeAdvice{}, &fakeLive{ch: make(chan livedto.UpdateOutput)})
	m = verified(t, m)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	m = next.(Model)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	for _, msg := range drain(cmd) {
		n, _ := m.Update(msg)
		m = n.(Model)
	}

	if m.confirm.Visible() {
		t.Fatal("expected modal dismissed")
	}
	if auth.logouts != 0 {
		t.Fatalf("cancel must not log out, got %d", auth.logouts)
	}
}
