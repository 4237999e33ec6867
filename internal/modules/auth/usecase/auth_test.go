package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	authout "emotrack/internal/modules/auth/adapter/out"
	"emotrack/internal/modules/auth/domain"
	"emotrack/internal/modules/auth/dto"
	authin "emotrack/internal/modules/auth/port/in"
	"emotrack/internal/modules/auth/service"
	"emotrack/internal/modules/auth/usecase"
	apperrors "emotrack/internal/platform/errors"
)

type fakeAuthAPI struct {
	session domain.Session
	meErr   error
	meCalls int
}

func (f *fakeAuthAPI) Register(context.Context, string, string, string) (domain.Session, error) {
	return f.session, nil
}

func (f *fakeAuthAPI) Login(_ context.Context, username, password string) (domain.Session, error) {
	if password != "pw" {
		return domain.Session{}, fmt.Errorf("%w: bad credentials", apperrors.ErrUnauthorized)
	}
	return f.session, nil
}

func (f *fakeAuthAPI) Me(context.Context, string) (domain.Profile, error) {
	f.meCalls++
	if f.meErr != nil {
		return domain.Profile{}, f.meErr
	}
	return domain.Profile{UserID: 7, Username: f.session.Username}, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newInteractor(t *testing.T, api *fakeAuthAPI) authin.Usecase {
	t.Helper()
	store := authout.NewFileSessionStore(t.TempDir())
	return usecase.NewInteractor(service.NewAuthService(), store, api, discard())
}

func TestLoginPersistsSessionAcrossInteractors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	api := &fakeAuthAPI{session: domain.Session{Token: "tok-1", Username: "ana", Role: "user"}}
	store := authout.NewFileSessionStore(dir)
	uc := usecase.NewInteractor(service.NewAuthService(), store, api, discard())

	out, err := uc.Login(context.Background(), dto.LoginInput{Username: "ana", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out.Token != "tok-1" || out.Username != "ana" {
		t.Fatalf("unexpected session output: %+v", out)
	}

	// A fresh interactor over the same state dir sees the session: the
	// backing store survives "reloads".
	again := usecase.NewInteractor(service.NewAuthService(), authout.NewFileSessionStore(dir), api, discard())
	current, err := again.Current(context.Background())
	if err != nil {
		t.Fatalf("current after reload: %v", err)
	}
	if current.Token != "tok-1" || current.Role != "user" {
		t.Fatalf("expected persisted session, got %+v", current)
	}
}

func TestLoginValidatesLocallyBeforeNetwork(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, &fakeAuthAPI{session: domain.Session{Token: "t", Username: "u"}})
	if _, err := uc.Login(context.Background(), dto.LoginInput{Username: "  ", Password: "pw"}); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := uc.Register(context.Background(), dto.RegisterInput{Username: "ana", Email: "not-an-email", Password: "pw"}); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad email, got %v", err)
	}
}

func TestVerifyUnauthorizedClearsWholeSession(t *testing.T) {
	t.Parallel()
	api := &fakeAuthAPI{
		session: domain.Session{Token: "tok-1", Username: "ana", Role: "admin"},
		meErr:   fmt.Errorf("%w: GET /me", apperrors.ErrUnauthorized),
	}
	uc := newInteractor(t, api)
	if _, err := uc.Login(context.Background(), dto.LoginInput{Username: "ana", Password: "pw"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := uc.Verify(context.Background()); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	// Token, username, and role must all be gone; there is no partial state.
	if _, err := uc.Current(context.Background()); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("expected cleared session, got %v", err)
	}

	// A second Verify fails locally; no further authenticated call happens.
	calls := api.meCalls
	if _, err := uc.Verify(context.Background()); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if api.meCalls != calls {
		t.Fatalf("expected no extra /me calls, got %d -> %d", calls, api.meCalls)
	}
}

func TestVerifyReturnsProfileWhileSessionIntact(t *testing.T) {
	t.Parallel()
	api := &fakeAuthAPI{session: domain.Session{Token: "tok-1", Username: "ana"}}
	uc := newInteractor(t, api)
	if _, err := uc.Login(context.Background(), dto.LoginInput{Username: "ana", Password: "pw"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	profile, err := uc.Verify(context.Background())
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if profile.Username != "ana" || profile.UserID != 7 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if _, err := uc.Current(context.Background()); err != nil {
		t.Fatalf("session must survive a successful verify: %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, &fakeAuthAPI{session: domain.Session{Token: "t", Username: "u"}})
	if err := uc.Logout(context.Background()); err != nil {
		t.Fatalf("logout without session: %v", err)
	}
	if _, err := uc.Login(context.Background(), dto.LoginInput{Username: "u", Password: "pw"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := uc.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := uc.Logout(context.Background()); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if _, err := uc.Current(context.Background()); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("expected no session after logout, got %v", err)
	}
}
