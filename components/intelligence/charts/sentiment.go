package charts

import "math"

// SentimentPoint is a signed sentiment reading in -1..1.
type SentimentPoint struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// SentimentTimeline draws a single signed series around a fixed zero baseline.
type SentimentTimeline struct {
	Frame        Frame            `json:"frame"`
	Baseline     float64          `json:"baseline"`
	Points       []Point          `json:"points"`
	Line         string           `json:"line"`
	PositiveArea string           `json:"positive_area"`
	NegativeArea string           `json:"negative_area"`
	Readings     []SentimentPoint `json:"readings"`
	StepX        float64          `json:"step_x"`
	Delay        float64          `json:"delay"`
}

// NewSentimentTimeline maps -1..1 onto the plot height with 0 at the centre.
// Fill regions are split by pixel position against the baseline.
func NewSentimentTimeline(frame Frame, readings []SentimentPoint, delay float64) SentimentTimeline {
	if frame.Width <= 0 || frame.Height <= 0 {
		frame = DefaultFrame
	}
	half := frame.plotHeight() / 2
	baseline := frame.Padding + half
	t := SentimentTimeline{
		Frame:    frame,
		Baseline: baseline,
		Readings: append([]SentimentPoint(nil), readings...),
		Delay:    delay,
	}
	n := len(readings)
	if n > 1 {
		t.StepX = frame.plotWidth() / float64(n-1)
	}
	points := make([]Point, n)
	above := make([]Point, n)
	below := make([]Point, n)
	for i, r := range readings {
		x := frame.Padding + frame.plotWidth()/2
		if n > 1 {
			x = frame.Padding + float64(i)*t.StepX
		}
		y := baseline - clamp(r.Value, -1, 1)*half
		points[i] = Point{X: x, Y: y}
		above[i] = Point{X: x, Y: math.Min(y, baseline)}
		below[i] = Point{X: x, Y: math.Max(y, baseline)}
	}
	t.Points = points
	t.Line = linePath(points)
	t.PositiveArea = areaPath(above, baseline)
	t.NegativeArea = areaPath(below, baseline)
	return t
}

// ToneAt reports which fill a reading sits in.
func (t SentimentTimeline) ToneAt(index int) Tone {
	if index < 0 || index >= len(t.Points) {
		return ToneNeutral
	}
	switch y := t.Points[index].Y; {
	case y < t.Baseline:
		return TonePositive
	case y > t.Baseline:
		return ToneNegative
	default:
		return ToneNeutral
	}
}
