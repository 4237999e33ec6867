package service

import (
	"fmt"

	"emotrack/internal/modules/stats/domain"
)

type StatsService struct{}

func NewStatsService() *StatsService {
	return &StatsService{}
}

// Normalize clamps served moods into the scoring range and drops points
// without a date. The server owns the numbers; this only guards rendering.
func (s *StatsService) Normalize(snapshot domain.Snapshot) domain.Snapshot {
	points := make([]domain.HistoryPoint, 0, len(snapshot.History))
	for _, p := range snapshot.History {
		if p.Date == "" {
			continue
		}
		if p.Mood < 1 {
			p.Mood = 1
		}
		if p.Mood > 10 {
			p.Mood = 10
		}
		points = append(points, p)
	}
	snapshot.History = points
	return snapshot
}

func (s *StatsService) ValidateKind(kind string) error {
	if !domain.ValidPlotKind(kind) {
		return fmt.Errorf("unknown plot kind %q", kind)
	}
	return nil
}
