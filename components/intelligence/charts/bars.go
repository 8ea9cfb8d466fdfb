package charts

// BarDatum is a labelled value for a horizontal bar list.
type BarDatum struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
	Color string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// Bar is a rendered bar; Width is a percent of the widest bar, Share a percent of the total.
type Bar struct {
	Datum   BarDatum `json:"datum"`
	Width   float64  `json:"width"`
	Share   float64  `json:"share"`
	Display string   `json:"display"`
	Leader  bool     `json:"leader"`
	Delay   float64  `json:"delay"`
}

// BarChart is a horizontal bar list.
type BarChart struct {
	Bars  []Bar   `json:"bars"`
	Total float64 `json:"total"`
	Delay float64 `json:"delay"`
}

// NewBarChart scales bars against the maximum value.
func NewBarChart(data []BarDatum, delay float64) BarChart {
	chart := BarChart{Delay: delay, Bars: make([]Bar, len(data))}
	peak := 0.0
	for _, d := range data {
		chart.Total += d.Value
		if d.Value > peak {
			peak = d.Value
		}
	}
	for i, d := range data {
		bar := Bar{
			Datum:   d,
			Display: FormatNumber(d.Value),
			Leader:  peak > 0 && d.Value == peak,
			Delay:   delay + float64(i)*0.08,
		}
		if peak > 0 {
			bar.Width = d.Value / peak * 100
		}
		if chart.Total > 0 {
			bar.Share = d.Value / chart.Total * 100
		}
		chart.Bars[i] = bar
	}
	return chart
}
