package in

import (
	"context"

	"emotrack/internal/modules/auth/dto"
)

type Usecase interface {
	Register(ctx context.Context, input dto.RegisterInput) (dto.SessionOutput, error)
	Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error)
	// Logout clears the local session. It never fails on an already-absent
	// session.
	Logout(ctx context.Context) error
	// Current reads the local session without touching the network;
	// apperrors.ErrNoSession when none exists.
	Current(ctx context.Context) (dto.SessionOutput, error)
	// Verify confirms the session against the server. On
	// apperrors.ErrUnauthorized the local session has already been cleared
	// when Verify returns; the caller only decides where to send the user.
	Verify(ctx context.Context) (dto.ProfileOutput, error)
}
