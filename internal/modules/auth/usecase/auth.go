package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"emotrack/internal/modules/auth/domain"
	"emotrack/internal/modules/auth/dto"
	authin "emotrack/internal/modules/auth/port/in"
	authout "emotrack/internal/modules/auth/port/out"
	"emotrack/internal/modules/auth/service"
	apperrors "emotrack/internal/platform/errors"
)

type Interactor struct {
	svc   *service.AuthService
	store authout.SessionStore
	api   authout.AuthAPI
	log   *slog.Logger
}

func NewInteractor(svc *service.AuthService, store authout.SessionStore, api authout.AuthAPI, log *slog.Logger) authin.Usecase {
	return &Interactor{svc: svc, store: store, api: api, log: log}
}

func (i *Interactor) Register(ctx context.Context, input dto.RegisterInput) (dto.SessionOutput, error) {
	if err := i.svc.ValidateRegistration(input.Username, input.Email, input.Password); err != nil {
		return dto.SessionOutput{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	session, err := i.api.Register(ctx, input.Username, input.Email, input.Password)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return i.persist(ctx, session)
}

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error) {
	if err := i.svc.ValidateCredentials(input.Username, input.Password); err != nil {
		return dto.SessionOutput{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	session, err := i.api.Login(ctx, input.Username, input.Password)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return i.persist(ctx, session)
}

func (i *Interactor) Logout(ctx context.Context) error {
	if err := i.store.Clear(ctx); err != nil {
		return err
	}
	i.log.Info("session cleared")
	return nil
}

func (i *Interactor) Current(ctx context.Context) (dto.SessionOutput, error) {
	session, err := i.store.Load(ctx)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return sessionOutput(session), nil
}

// Verify confirms the persisted token against /me. The identity check is
// never skipped during initialization: a token the server no longer accepts
// clears the session here, and the caller performs the one redirect.
func (i *Interactor) Verify(ctx context.Context) (dto.ProfileOutput, error) {
	session, err := i.store.Load(ctx)
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	profile, err := i.api.Me(ctx, session.Token)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrMissingToken) {
			if clearErr := i.store.Clear(ctx); clearErr != nil {
				i.log.Error("clear rejected session", "error", clearErr)
			}
		}
		return dto.ProfileOutput{}, err
	}
	return dto.ProfileOutput{UserID: profile.UserID, Username: profile.Username}, nil
}

func (i *Interactor) persist(ctx context.Context, session domain.Session) (dto.SessionOutput, error) {
	if err := i.store.Save(ctx, session); err != nil {
		return dto.SessionOutput{}, err
	}
	i.log.Info("session established", "username", session.Username)
	return sessionOutput(session), nil
}

func sessionOutput(s domain.Session) dto.SessionOutput {
	return dto.SessionOutput{Username: s.Username, Role: s.Role, Token: s.Token}
}
