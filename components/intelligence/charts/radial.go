package charts

import "math"

// HealthBreakdown is one contributor to an aggregate health score.
type HealthBreakdown struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
	Color string  `json:"color" yaml:"color"`
}

// HealthScore is the aggregate 0-100 score with its breakdown.
type HealthScore struct {
	Score     float64           `json:"score" yaml:"score"`
	Trend     float64           `json:"trend" yaml:"trend"`
	Breakdown []HealthBreakdown `json:"breakdown" yaml:"breakdown"`
}

// RadialScore is the circular progress geometry for a 0-100 score.
type RadialScore struct {
	Score         float64           `json:"score"`
	Radius        float64           `json:"radius"`
	StrokeWidth   float64           `json:"stroke_width"`
	Circumference float64           `json:"circumference"`
	DashOffset    float64           `json:"dash_offset"`
	Size          float64           `json:"size"`
	Display       string            `json:"display"`
	Trend         TrendBadge        `json:"trend"`
	Breakdown     []HealthBreakdown `json:"breakdown"`
	Delay         float64           `json:"delay"`
}

// RadialCenter is what the middle of the ring shows.
type RadialCenter struct {
	Score     string            `json:"score,omitempty"`
	Breakdown []HealthBreakdown `json:"breakdown,omitempty"`
}

const defaultRadialStroke = 12

// NewRadialScore computes the ring for score; values outside 0..100 are clamped.
func NewRadialScore(health HealthScore, radius, delay float64) RadialScore {
	if radius <= 0 {
		radius = 70
	}
	score := clamp(health.Score, 0, 100)
	circumference := 2 * math.Pi * radius
	frames := CountUp(score, DefaultCountUpFrames)
	return RadialScore{
		Score:         score,
		Radius:        radius,
		StrokeWidth:   defaultRadialStroke,
		Circumference: circumference,
		DashOffset:    circumference - circumference*score/100,
		Size:          2*radius + 2*defaultRadialStroke,
		Display:       FormatNumber(frames[len(frames)-1]),
		Trend:         Trend(health.Trend),
		Breakdown:     append([]HealthBreakdown(nil), health.Breakdown...),
		Delay:         delay,
	}
}

// Center swaps the aggregate score for the breakdown list while hovered.
func (r RadialScore) Center(hovered bool) RadialCenter {
	if hovered && len(r.Breakdown) > 0 {
		return RadialCenter{Breakdown: r.Breakdown}
	}
	return RadialCenter{Score: r.Display}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
