package charts

// FunnelStep is a stage in a conversion funnel. Values are expected to be
// non-increasing but this is not enforced.
type FunnelStep struct {
	Label      string  `json:"label" yaml:"label"`
	Value      float64 `json:"value" yaml:"value"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
	Color      string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// FunnelBar is the rendered bar for one step.
type FunnelBar struct {
	Step    FunnelStep `json:"step"`
	Width   float64    `json:"width"`
	Display string     `json:"display"`
	Delay   float64    `json:"delay"`
}

// Funnel is the full set of bars plus hover state resolution.
type Funnel struct {
	Bars  []FunnelBar `json:"bars"`
	Delay float64     `json:"delay"`
}

const (
	funnelMinWidth   = 40
	funnelWidthRange = 60
	funnelStagger    = 0.1
)

// FunnelWidth compresses a percentage into the 40-100% visible range.
func FunnelWidth(percentage float64) float64 {
	return funnelMinWidth + (percentage/100)*funnelWidthRange
}

// NewFunnel derives bar widths from each step's percentage.
func NewFunnel(steps []FunnelStep, delay float64) Funnel {
	f := Funnel{Delay: delay, Bars: make([]FunnelBar, len(steps))}
	for i, step := range steps {
		f.Bars[i] = FunnelBar{
			Step:    step,
			Width:   FunnelWidth(step.Percentage),
			Display: FormatNumber(step.Value),
			Delay:   delay + float64(i)*funnelStagger,
		}
	}
	return f
}

// ConversionRate is the step-over-step rate shown on hover. The first step and
// steps following a zero value have no rate.
func (f Funnel) ConversionRate(index int) (float64, bool) {
	if index <= 0 || index >= len(f.Bars) {
		return 0, false
	}
	prev := f.Bars[index-1].Step.Value
	if prev == 0 {
		return 0, false
	}
	return f.Bars[index].Step.Value / prev * 100, true
}

// FunnelTooltip is the hover overlay for a step.
type FunnelTooltip struct {
	Label      string `json:"label"`
	Value      string `json:"value"`
	Conversion string `json:"conversion,omitempty"`
}

// Tooltip resolves the hover overlay; ok is false for out-of-range indexes.
func (f Funnel) Tooltip(index int) (FunnelTooltip, bool) {
	if index < 0 || index >= len(f.Bars) {
		return FunnelTooltip{}, false
	}
	bar := f.Bars[index]
	tip := FunnelTooltip{Label: bar.Step.Label, Value: bar.Display}
	if rate, ok := f.ConversionRate(index); ok {
		tip.Conversion = defaultPrinter.Sprintf("%.1f%%", rate)
	}
	return tip, true
}
