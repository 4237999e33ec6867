package out

import (
	"context"

	"emotrack/internal/modules/survey/domain"
)

type SurveyAPI interface {
	Submit(ctx context.Context, token string, entry domain.Entry) error
}
