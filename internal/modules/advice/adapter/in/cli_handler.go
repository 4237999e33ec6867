package in

import (
	"context"

	advicedto "emotrack/internal/modules/advice/dto"
	advicein "emotrack/internal/modules/advice/port/in"
)

type CLIHandler struct {
	usecase advicein.Usecase
}

func NewCLIHandler(usecase advicein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Recommendation(ctx context.Context) (advicedto.RecommendationOutput, error) {
	return h.usecase.Recommendation(ctx)
}

func (h CLIHandler) Alerts(ctx context.Context) (advicedto.AlertBoardOutput, error) {
	return h.usecase.Alerts(ctx)
}
