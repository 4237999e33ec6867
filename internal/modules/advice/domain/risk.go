package domain

// Risk levels as served by the backend. Unknown levels fall back to a
// neutral presentation instead of failing the render.
const (
	RiskHigh     = "ALTO"
	RiskModerate = "MODERADO"
	RiskLow      = "BAJO"
)

// Tone names the visual treatment of a risk level; the theme maps it to
// colors.
type Tone string

const (
	ToneDanger  Tone = "danger"
	ToneWarning Tone = "warning"
	ToneSuccess Tone = "success"
	ToneNeutral Tone = "neutral"
)

type Recommendation struct {
	Username       string
	RiskLevel      string
	Recommendation string
	GeneralTips    []string
}

type Alert struct {
	Username      string
	RiskLevel     string
	AvgScore      float64
	TrendNegative bool
}

type AlertBoard struct {
	TotalAlerts int
	Alerts      []Alert
}

func RiskTone(level string) Tone {
	switch level {
	case RiskHigh:
		return ToneDanger
	case RiskModerate:
		return ToneWarning
	case RiskLow:
		return ToneSuccess
	default:
		return ToneNeutral
	}
}

func RiskIcon(level string) string {
	switch level {
	case RiskHigh:
		return "🔴"
	case RiskModerate:
		return "🟡"
	case RiskLow:
		return "🟢"
	default:
		return "⚪"
	}
}

func TrendIcon(negative bool) string {
	if negative {
		return "📉"
	}
	return "📈"
}

func TrendLabel(negative bool) string {
	if negative {
		return "Negativa"
	}
	return "Positiva"
}
