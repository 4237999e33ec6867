package usecase

import (
	"context"
	"log/slog"

	"emotrack/internal/modules/advice/domain"
	"emotrack/internal/modules/advice/dto"
	advicein "emotrack/internal/modules/advice/port/in"
	adviceout "emotrack/internal/modules/advice/port/out"
	authin "emotrack/internal/modules/auth/port/in"
)

type Interactor struct {
	api  adviceout.AdviceAPI
	auth authin.Usecase
	log  *slog.Logger
}

func NewInteractor(api adviceout.AdviceAPI, auth authin.Usecase, log *slog.Logger) advicein.Usecase {
	return &Interactor{api: api, auth: auth, log: log}
}

func (i *Interactor) Recommendation(ctx context.Context) (dto.RecommendationOutput, error) {
	session, err := i.auth.Current(ctx)
	if err != nil {
		return dto.RecommendationOutput{}, err
	}
	rec, err := i.api.Recommendation(ctx, session.Token)
	if err != nil {
		return dto.RecommendationOutput{}, err
	}
	return dto.RecommendationOutput{
		Username:       rec.Username,
		RiskLevel:      rec.RiskLevel,
		RiskIcon:       domain.RiskIcon(rec.RiskLevel),
		Tone:           string(domain.RiskTone(rec.RiskLevel)),
		Recommendation: rec.Recommendation,
		GeneralTips:    rec.GeneralTips,
	}, nil
}

func (i *Interactor) Alerts(ctx context.Context) (dto.AlertBoardOutput, error) {
	session, err := i.auth.Current(ctx)
	if err != nil {
		return dto.AlertBoardOutput{}, err
	}
	board, err := i.api.Alerts(ctx, session.Token)
	if err != nil {
		return dto.AlertBoardOutput{}, err
	}
	out := dto.AlertBoardOutput{
		TotalAlerts: board.TotalAlerts,
		Alerts:      make([]dto.AlertOutput, 0, len(board.Alerts)),
	}
	for _, a := range board.Alerts {
		out.Alerts = append(out.Alerts, dto.AlertOutput{
			Username:   a.Username,
			RiskLevel:  a.RiskLevel,
			RiskIcon:   domain.RiskIcon(a.RiskLevel),
			Tone:       string(domain.RiskTone(a.RiskLevel)),
			AvgScore:   a.AvgScore,
			TrendIcon:  domain.TrendIcon(a.TrendNegative),
			TrendLabel: domain.TrendLabel(a.TrendNegative),
		})
	}
	return out, nil
}
