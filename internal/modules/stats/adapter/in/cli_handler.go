package in

import (
	"context"

	statsdto "emotrack/internal/modules/stats/dto"
	statsin "emotrack/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Load(ctx context.Context) (statsdto.SnapshotOutput, error) {
	return h.usecase.Load(ctx)
}

func (h CLIHandler) Plot(ctx context.Context, kind string) (statsdto.PlotOutput, error) {
	return h.usecase.Plot(ctx, kind)
}

func (h CLIHandler) Apply(payload []byte) (statsdto.SnapshotOutput, error) {
	return h.usecase.Apply(payload)
}
