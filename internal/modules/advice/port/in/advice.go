package in

import (
	"context"

	"emotrack/internal/modules/advice/dto"
)

type Usecase interface {
	// Recommendation fetches the personal guidance for the current session.
	Recommendation(ctx context.Context) (dto.RecommendationOutput, error)
	// Alerts fetches the population alert board. The server decides
	// whether the caller may see it; a 403 surfaces as a StatusError.
	Alerts(ctx context.Context) (dto.AlertBoardOutput, error)
}
