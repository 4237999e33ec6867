package out

import (
	"context"

	"emotrack/internal/modules/stats/domain"
)

type StatsAPI interface {
	Stats(ctx context.Context, token string) (domain.Snapshot, error)
	UserPlot(ctx context.Context, token, kind string) ([]byte, error)
	// DecodeSnapshot parses a pushed statistics payload without touching
	// the network; it shares the wire shape with Stats.
	DecodeSnapshot(raw []byte) (domain.Snapshot, error)
}
