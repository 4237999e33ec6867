package in

import (
	"context"

	"emotrack/internal/modules/stats/dto"
)

type Usecase interface {
	// Load fetches a fresh snapshot for the current session.
	Load(ctx context.Context) (dto.SnapshotOutput, error)
	// Plot fetches the server-rendered PNG for the given kind; it is
	// re-requested on every kind change, never cached.
	Plot(ctx context.Context, kind string) (dto.PlotOutput, error)
	// Apply renders a pushed statistics payload. No network call is made;
	// the payload replaces the current snapshot wholesale.
	Apply(payload []byte) (dto.SnapshotOutput, error)
}
