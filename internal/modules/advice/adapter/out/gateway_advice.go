package out

import (
	"context"

	"emotrack/internal/gateway"
	"emotrack/internal/modules/advice/domain"
	adviceout "emotrack/internal/modules/advice/port/out"
)

type GatewayAdviceAPI struct {
	client *gateway.Client
}

func NewGatewayAdviceAPI(client *gateway.Client) adviceout.AdviceAPI {
	return &GatewayAdviceAPI{client: client}
}

func (a *GatewayAdviceAPI) Recommendation(ctx context.Context, token string) (domain.Recommendation, error) {
	payload, err := a.client.Recommendations(ctx, token)
	if err != nil {
		return domain.Recommendation{}, err
	}
	return domain.Recommendation{
		Username:       payload.Username,
		RiskLevel:      payload.RiskLevel,
		Recommendation: payload.Recommendation,
		GeneralTips:    payload.GeneralTips,
	}, nil
}

func (a *GatewayAdviceAPI) Alerts(ctx context.Context, token string) (domain.AlertBoard, error) {
	payload, err := a.client.Alerts(ctx, token)
	if err != nil {
		return domain.AlertBoard{}, err
	}
	board := domain.AlertBoard{
		TotalAlerts: payload.TotalAlerts,
		Alerts:      make([]domain.Alert, 0, len(payload.Alerts)),
	}
	for _, e := range payload.Alerts {
		board.Alerts = append(board.Alerts, domain.Alert{
			Username:      e.Username,
			RiskLevel:     e.RiskLevel,
			AvgScore:      e.AvgScore,
			TrendNegative: e.TrendNegative,
		})
	}
	return board, nil
}
