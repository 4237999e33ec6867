package out

import (
	"context"

	"emotrack/internal/gateway"
	"emotrack/internal/modules/stats/domain"
	statsout "emotrack/internal/modules/stats/port/out"
	"emotrack/internal/platform/clock"
)

// GatewayStatsAPI adapts the REST client to the stats out-port. The clock
// supplies the cache-busting timestamp on plot requests.
type GatewayStatsAPI struct {
	client *gateway.Client
	clock  clock.Clock
}

func NewGatewayStatsAPI(client *gateway.Client, clk clock.Clock) statsout.StatsAPI {
	return &GatewayStatsAPI{client: client, clock: clk}
}

func (a *GatewayStatsAPI) Stats(ctx context.Context, token string) (domain.Snapshot, error) {
	payload, err := a.client.Stats(ctx, token)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return snapshotFromPayload(payload), nil
}

func (a *GatewayStatsAPI) DecodeSnapshot(raw []byte) (domain.Snapshot, error) {
	payload, err := gateway.DecodeStats(raw)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return snapshotFromPayload(payload), nil
}

func snapshotFromPayload(payload gateway.StatsPayload) domain.Snapshot {
	snapshot := domain.Snapshot{
		AverageMood:  payload.AverageMood,
		TotalEntries: payload.TotalEntries,
		History:      make([]domain.HistoryPoint, 0, len(payload.History)),
	}
	for _, p := range payload.History {
		snapshot.History = append(snapshot.History, domain.HistoryPoint{Date: p.Date, Mood: p.Mood})
	}
	return snapshot
}

func (a *GatewayStatsAPI) UserPlot(ctx context.Context, token, kind string) ([]byte, error) {
	return a.client.UserPlot(ctx, token, kind, a.clock.Now())
}
