package out

import (
	"context"

	"emotrack/internal/modules/advice/domain"
)

type AdviceAPI interface {
	Recommendation(ctx context.Context, token string) (domain.Recommendation, error)
	Alerts(ctx context.Context, token string) (domain.AlertBoard, error)
}
