package dto

type HistoryPointOutput struct {
	Date string
	Mood float64
}

type SnapshotOutput struct {
	AverageMood  *float64
	TotalEntries int
	History      []HistoryPointOutput
	AverageLabel string
}

type PlotOutput struct {
	Kind string
	PNG  []byte
}
