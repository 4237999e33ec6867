package usecase

import (
	"context"
	"fmt"
	"log/slog"

	authin "emotrack/internal/modules/auth/port/in"
	"emotrack/internal/modules/stats/domain"
	"emotrack/internal/modules/stats/dto"
	statsin "emotrack/internal/modules/stats/port/in"
	statsout "emotrack/internal/modules/stats/port/out"
	"emotrack/internal/modules/stats/service"
	apperrors "emotrack/internal/platform/errors"
)

type Interactor struct {
	svc  *service.StatsService
	api  statsout.StatsAPI
	auth authin.Usecase
	log  *slog.Logger
}

func NewInteractor(svc *service.StatsService, api statsout.StatsAPI, auth authin.Usecase, log *slog.Logger) statsin.Usecase {
	return &Interactor{svc: svc, api: api, auth: auth, log: log}
}

func (i *Interactor) Load(ctx context.Context) (dto.SnapshotOutput, error) {
	session, err := i.auth.Current(ctx)
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	snapshot, err := i.api.Stats(ctx, session.Token)
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	snapshot = i.svc.Normalize(snapshot)
	i.log.Debug("stats loaded", "entries", snapshot.TotalEntries, "points", len(snapshot.History))
	return snapshotOutput(snapshot), nil
}

// Apply turns a live-channel payload into a renderable snapshot. A payload
// that does not decode is reported as ErrMalformedMessage and logged; the
// caller drops it and keeps the current snapshot.
func (i *Interactor) Apply(payload []byte) (dto.SnapshotOutput, error) {
	snapshot, err := i.api.DecodeSnapshot(payload)
	if err != nil {
		i.log.Warn("malformed live stats payload dropped", "error", err)
		return dto.SnapshotOutput{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedMessage, err)
	}
	snapshot = i.svc.Normalize(snapshot)
	i.log.Debug("stats applied from live feed", "entries", snapshot.TotalEntries, "points", len(snapshot.History))
	return snapshotOutput(snapshot), nil
}

func (i *Interactor) Plot(ctx context.Context, kind string) (dto.PlotOutput, error) {
	if err := i.svc.ValidateKind(kind); err != nil {
		return dto.PlotOutput{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	session, err := i.auth.Current(ctx)
	if err != nil {
		return dto.PlotOutput{}, err
	}
	png, err := i.api.UserPlot(ctx, session.Token, kind)
	if err != nil {
		return dto.PlotOutput{}, err
	}
	return dto.PlotOutput{Kind: kind, PNG: png}, nil
}

func snapshotOutput(s domain.Snapshot) dto.SnapshotOutput {
	out := dto.SnapshotOutput{
		AverageMood:  s.AverageMood,
		TotalEntries: s.TotalEntries,
		AverageLabel: s.AverageLabel(),
		History:      make([]dto.HistoryPointOutput, 0, len(s.History)),
	}
	for _, p := range s.History {
		out.History = append(out.History, dto.HistoryPointOutput{Date: p.Date, Mood: p.Mood})
	}
	return out
}
