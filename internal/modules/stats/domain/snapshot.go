package domain

import "fmt"

// HistoryPoint is one day of the mood trend, as served.
type HistoryPoint struct {
	Date string
	Mood float64
}

// Snapshot is one statistics payload. A snapshot is immutable once received
// and is superseded wholesale by the next one; there is no incremental merge.
type Snapshot struct {
	AverageMood  *float64
	TotalEntries int
	History      []HistoryPoint
}

func (s Snapshot) HasHistory() bool {
	return len(s.History) > 0
}

// AverageLabel renders the summary field: the served average, or a
// placeholder when the server had nothing to average.
func (s Snapshot) AverageLabel() string {
	if s.AverageMood == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *s.AverageMood)
}

// PlotKind names a server-rendered secondary chart.
type PlotKind string

const (
	PlotEvolution PlotKind = "evolution"
	PlotHistogram PlotKind = "hist"
	PlotSleep     PlotKind = "sleep"
	PlotSummary   PlotKind = "summary"
)

// PlotKinds is the user-selectable order; cycling wraps around.
var PlotKinds = []PlotKind{PlotEvolution, PlotHistogram, PlotSleep, PlotSummary}

func ValidPlotKind(kind string) bool {
	for _, k := range PlotKinds {
		if string(k) == kind {
			return true
		}
	}
	return false
}

// NextPlotKind returns the kind after the given one in selection order.
func NextPlotKind(kind PlotKind) PlotKind {
	for i, k := range PlotKinds {
		if k == kind {
			return PlotKinds[(i+1)%len(PlotKinds)]
		}
	}
	return PlotEvolution
}
