package usecase

import (
	"context"
	"fmt"
	"log/slog"

	authin "emotrack/internal/modules/auth/port/in"
	"emotrack/internal/modules/survey/domain"
	"emotrack/internal/modules/survey/dto"
	surveyin "emotrack/internal/modules/survey/port/in"
	surveyout "emotrack/internal/modules/survey/port/out"
	"emotrack/internal/modules/survey/service"
	apperrors "emotrack/internal/platform/errors"
)

type Interactor struct {
	svc  *service.SurveyService
	api  surveyout.SurveyAPI
	auth authin.Usecase
	log  *slog.Logger
}

func NewInteractor(svc *service.SurveyService, api surveyout.SurveyAPI, auth authin.Usecase, log *slog.Logger) surveyin.Usecase {
	return &Interactor{svc: svc, api: api, auth: auth, log: log}
}

func (i *Interactor) Submit(ctx context.Context, input dto.EntryInput) error {
	entry, err := i.svc.Prepare(domain.Entry{
		Mood:          input.Mood,
		SleepHours:    input.SleepHours,
		Appetite:      input.Appetite,
		Concentration: input.Concentration,
		Notes:         input.Notes,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	session, err := i.auth.Current(ctx)
	if err != nil {
		return err
	}
	if err := i.api.Submit(ctx, session.Token, entry); err != nil {
		return err
	}
	i.log.Info("survey submitted", "mood", entry.Mood)
	return nil
}
