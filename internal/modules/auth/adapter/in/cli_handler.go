package in

import (
	"context"

	authdto "emotrack/internal/modules/auth/dto"
	authin "emotrack/internal/modules/auth/port/in"
)

type CLIHandler struct {
	usecase authin.Usecase
}

func NewCLIHandler(usecase authin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Register(ctx context.Context, username, email, password string) (authdto.SessionOutput, error) {
	return h.usecase.Register(ctx, authdto.RegisterInput{Username: username, Email: email, Password: password})
}

func (h CLIHandler) Login(ctx context.Context, username, password string) (authdto.SessionOutput, error) {
	return h.usecase.Login(ctx, authdto.LoginInput{Username: username, Password: password})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (authdto.SessionOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Verify(ctx context.Context) (authdto.ProfileOutput, error) {
	return h.usecase.Verify(ctx)
}
