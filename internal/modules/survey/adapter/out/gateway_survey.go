package out

import (
	"context"

	"emotrack/internal/gateway"
	"emotrack/internal/modules/survey/domain"
	surveyout "emotrack/internal/modules/survey/port/out"
)

type GatewaySurveyAPI struct {
	client *gateway.Client
}

func NewGatewaySurveyAPI(client *gateway.Client) surveyout.SurveyAPI {
	return &GatewaySurveyAPI{client: client}
}

func (a *GatewaySurveyAPI) Submit(ctx context.Context, token string, entry domain.Entry) error {
	return a.client.SubmitSurvey(ctx, token, gateway.SurveyPayload{
		Mood:          entry.Mood,
		SleepHours:    entry.SleepHours,
		Appetite:      entry.Appetite,
		Concentration: entry.Concentration,
		Notes:         entry.Notes,
	})
}
