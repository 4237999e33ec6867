package out

import (
	"context"

	"emotrack/internal/modules/auth/domain"
)

// SessionStore persists the session across runs. Clear must be atomic: no
// partial session may survive it.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Load(ctx context.Context) (domain.Session, error)
	Clear(ctx context.Context) error
}

// AuthAPI is the slice of the remote service the auth module needs.
type AuthAPI interface {
	Register(ctx context.Context, username, email, password string) (domain.Session, error)
	Login(ctx context.Context, username, password string) (domain.Session, error)
	Me(ctx context.Context, token string) (domain.Profile, error)
}
