package out

import (
	"context"

	"emotrack/internal/gateway"
	"emotrack/internal/modules/auth/domain"
	authout "emotrack/internal/modules/auth/port/out"
)

type GatewayAuthAPI struct {
	client *gateway.Client
}

func NewGatewayAuthAPI(client *gateway.Client) authout.AuthAPI {
	return &GatewayAuthAPI{client: client}
}

func (a *GatewayAuthAPI) Register(ctx context.Context, username, email, password string) (domain.Session, error) {
	result, err := a.client.Register(ctx, username, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: result.Token, Username: result.Username, Role: result.Role}, nil
}

func (a *GatewayAuthAPI) Login(ctx context.Context, username, password string) (domain.Session, error) {
	result, err := a.client.Login(ctx, username, password)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: result.Token, Username: result.Username, Role: result.Role}, nil
}

func (a *GatewayAuthAPI) Me(ctx context.Context, token string) (domain.Profile, error) {
	profile, err := a.client.Me(ctx, token)
	if err != nil {
		return domain.Profile{}, err
	}
	return domain.Profile{UserID: profile.UserID, Username: profile.Username}, nil
}
