package dto

type RecommendationOutput struct {
	Username       string
	RiskLevel      string
	RiskIcon       string
	Tone           string
	Recommendation string
	GeneralTips    []string
}

type AlertOutput struct {
	Username   string
	RiskLevel  string
	RiskIcon   string
	Tone       string
	AvgScore   float64
	TrendIcon  string
	TrendLabel string
}

type AlertBoardOutput struct {
	TotalAlerts int
	Alerts      []AlertOutput
}
