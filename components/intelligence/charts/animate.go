package charts

import "math"

// DefaultCountUpFrames is roughly one second of frames at 60fps.
const DefaultCountUpFrames = 60

// EaseOutCubic maps linear progress (0..1) onto an ease-out curve.
func EaseOutCubic(progress float64) float64 {
	if progress <= 0 {
		return 0
	}
	if progress >= 1 {
		return 1
	}
	inv := 1 - progress
	return 1 - inv*inv*inv
}

// Interpolate returns the animated value between from and to at progress.
func Interpolate(from, to, progress float64) float64 {
	return from + (to-from)*EaseOutCubic(progress)
}

// CountUp returns the frame values of a number animating from zero to target.
// The final frame is always exactly target so the settled display matches the data.
func CountUp(target float64, frames int) []float64 {
	if frames <= 0 {
		frames = DefaultCountUpFrames
	}
	out := make([]float64, frames)
	for i := 0; i < frames-1; i++ {
		progress := float64(i+1) / float64(frames)
		out[i] = math.Round(Interpolate(0, target, progress))
	}
	out[frames-1] = target
	return out
}

// MetricCard is the view of a summary card after its count-up settles.
type MetricCard struct {
	Label   string     `json:"label"`
	Value   float64    `json:"value"`
	Display string     `json:"display"`
	Trend   TrendBadge `json:"trend"`
	Frames  []float64  `json:"frames,omitempty"`
	Delay   float64    `json:"delay"`
}

// MetricSummary is a labelled value with a signed percent trend.
type MetricSummary struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
	Trend float64 `json:"trend" yaml:"trend"`
}

// NewMetricCard prepares a summary card; delay staggers the entrance animation.
func NewMetricCard(metric MetricSummary, delay float64) MetricCard {
	frames := CountUp(metric.Value, DefaultCountUpFrames)
	return MetricCard{
		Label:   metric.Label,
		Value:   metric.Value,
		Display: FormatNumber(frames[len(frames)-1]),
		Trend:   Trend(metric.Trend),
		Frames:  frames,
		Delay:   delay,
	}
}
