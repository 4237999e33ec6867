package dto

type EntryInput struct {
	Mood          int
	SleepHours    float64
	Appetite      int
	Concentration int
	Notes         string
}
