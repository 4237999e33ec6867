package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	authdto "emotrack/internal/modules/auth/dto"
	"emotrack/internal/modules/stats/domain"
	"emotrack/internal/modules/stats/service"
	"emotrack/internal/modules/stats/usecase"
	apperrors "emotrack/internal/platform/errors"
)

type fakeAuth struct {
	session authdto.SessionOutput
	err     error
}

func (f *fakeAuth) Register(context.Context, authdto.RegisterInput) (authdto.SessionOutput, error) {
	panic("not used")
}

func (f *fakeAuth) Login(context.Context, authdto.LoginInput) (authdto.SessionOutput, error) {
	panic("not used")
}

func (f *fakeAuth) Logout(context.Context) error { panic("not used") }

func (f *fakeAuth) Current(context.Context) (authdto.SessionOutput, error) {
	return f.session, f.err
}

func (f *fakeAuth) Verify(context.Context) (authdto.ProfileOutput, error) { panic("not used") }

type fakeStatsAPI struct {
	snapshot   domain.Snapshot
	png        []byte
	err        error
	decodeErr  error
	plotCalls  []string
	gotToken   string
	gotPayload []byte
}

func (f *fakeStatsAPI) Stats(_ context.Context, token string) (domain.Snapshot, error) {
	f.gotToken = token
	return f.snapshot, f.err
}

func (f *fakeStatsAPI) UserPlot(_ context.Context, token, kind string) ([]byte, error) {
	f.gotToken = token
	f.plotCalls = append(f.plotCalls, kind)
	return f.png, f.err
}

func (f *fakeStatsAPI) DecodeSnapshot(raw []byte) (domain.Snapshot, error) {
	f.gotPayload = raw
	if f.decodeErr != nil {
		return domain.Snapshot{}, f.decodeErr
	}
	return f.snapshot, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadUsesSessionToken(t *testing.T) {
	t.Parallel()
	avg := 6.5
	api := &fakeStatsAPI{snapshot: domain.Snapshot{
		AverageMood:  &avg,
		TotalEntries: 3,
		History: []domain.HistoryPoint{
			{Date: "2026-08-30", Mood: 6},
			{Date: "2026-08-31", Mood: 7},
		},
	}}
	auth := &fakeAuth{session: authdto.SessionOutput{Token: "tok", Username: "ana"}}
	uc := usecase.NewInteractor(service.NewStatsService(), api, auth, discard())

	out, err := uc.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if api.gotToken != "tok" {
		t.Fatalf("expected session token on the wire, got %q", api.gotToken)
	}
	if out.AverageLabel != "6.5" {
		t.Fatalf("expected average label 6.5, got %q", out.AverageLabel)
	}
	if len(out.History) != 2 {
		t.Fatalf("expected 2 history points, got %d", len(out.History))
	}
}

func TestLoadWithoutHistoryLabelsAverageNA(t *testing.T) {
	t.Parallel()
	api := &fakeStatsAPI{snapshot: domain.Snapshot{}}
	auth := &fakeAuth{session: authdto.SessionOutput{Token: "tok"}}
	uc := usecase.NewInteractor(service.NewStatsService(), api, auth, discard())

	out, err := uc.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.AverageLabel != "N/A" {
		t.Fatalf("expected N/A label for empty stats, got %q", out.AverageLabel)
	}
	if out.TotalEntries != 0 || len(out.History) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", out)
	}
}

func TestLoadWithoutSessionFailsLocally(t *testing.T) {
	t.Parallel()
	api := &fakeStatsAPI{}
	auth := &fakeAuth{err: apperrors.ErrNoSession}
	uc := usecase.NewInteractor(service.NewStatsService(), api, auth, discard())

	if _, err := uc.Load(context.Background()); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if api.gotToken != "" {
		t.Fatal("expected no API call without a session")
	}
}

func TestApplyRendersPushedPayloadWithoutNetwork(t *testing.T) {
	t.Parallel()
	avg := 9.9
	api := &fakeStatsAPI{snapshot: domain.Snapshot{
		AverageMood:  &avg,
		TotalEntries: 4,
		History: []domain.HistoryPoint{
			{Date: "2026-08-31", Mood: 12},
			{Date: "", Mood: 5},
		},
	}}
	auth := &fakeAuth{err: apperrors.ErrNoSession}
	uc := usecase.NewInteractor(service.NewStatsService(), api, auth, discard())

	out, err := uc.Apply([]byte(`{"average_mood":9.9}`))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	// No session lookup and no fetch: the pushed payload is the snapshot.
	if api.gotToken != "" {
		t.Fatal("expected no API fetch for a pushed payload")
	}
	if string(api.gotPayload) != `{"average_mood":9.9}` {
		t.Fatalf("expected raw payload handed to the decoder, got %q", api.gotPayload)
	}
	if out.AverageLabel != "9.9" || out.TotalEntries != 4 {
		t.Fatalf("unexpected snapshot %+v", out)
	}
	// Normalization applies to pushed payloads too.
	if len(out.History) != 1 || out.History[0].Mood != 10 {
		t.Fatalf("expected clamped single-point history, got %+v", out.History)
	}
}

func TestApplyMalformedPayloadRejected(t *testing.T) {
	t.Parallel()
	api := &fakeStatsAPI{decodeErr: errors.New("bad json")}
	uc := usecase.NewInteractor(service.NewStatsService(), api, &fakeAuth{}, discard())

	if _, err := uc.Apply([]byte(`{`)); !errors.Is(err, apperrors.ErrMalformedMessage) {
		t.Fatalf("expected ErrMalformedMessage, got %v", err)
	}
}

func TestPlotRejectsUnknownKind(t *testing.T) {
	t.Parallel()
	api := &fakeStatsAPI{}
	auth := &fakeAuth{session: authdto.SessionOutput{Token: "tok"}}
	uc := usecase.NewInteractor(service.NewStatsService(), api, auth, discard())

	if _, err := uc.Plot(context.Background(), "pie"); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown kind, got %v", err)
	}
	if len(api.plotCalls) != 0 {
		t.Fatal("expected no plot request for an invalid kind")
	}
}

func TestPlotFetchesKnownKind(t *testing.T) {
	t.Parallel()
	api := &fakeStatsAPI{png: []byte("png-bytes")}
	auth := &fakeAuth{session: authdto.SessionOutput{Token: "tok"}}
	uc := usecase.NewInteractor(service.NewStatsService(), api, auth, discard())

	out, err := uc.Plot(context.Background(), "sleep")
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
	if out.Kind != "sleep" || string(out.PNG) != "png-bytes" {
		t.Fatalf("unexpected plot output %+v", out)
	}
	if len(api.plotCalls) != 1 || api.plotCalls[0] != "sleep" {
		t.Fatalf("expected one plot call for sleep, got %v", api.plotCalls)
	}
}

func TestPlotKindCycleWrapsAround(t *testing.T) {
	t.Parallel()
	kind := domain.PlotEvolution
	var seen []domain.PlotKind
	for range domain.PlotKinds {
		kind = domain.NextPlotKind(kind)
		seen = append(seen, kind)
	}
	if seen[len(seen)-1] != domain.PlotEvolution {
		t.Fatalf("expected cycle to return to evolution, got %v", seen)
	}
}
