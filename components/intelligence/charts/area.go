package charts

import (
	"math"
	"strconv"
	"strings"
)

// ActivityPoint is one month of community activity.
type ActivityPoint struct {
	Month   string  `json:"month" yaml:"month"`
	Members float64 `json:"members" yaml:"members"`
	Posts   float64 `json:"posts" yaml:"posts"`
	Events  float64 `json:"events" yaml:"events"`
}

// Series is a named sequence of values plotted on a shared axis.
type Series struct {
	Name   string    `json:"name"`
	Color  string    `json:"color,omitempty"`
	Values []float64 `json:"values"`
}

// Frame is the drawing box of a chart in SVG user units.
type Frame struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

// DefaultFrame matches the dashboard card size.
var DefaultFrame = Frame{Width: 600, Height: 240, Padding: 32}

func (f Frame) plotWidth() float64  { return f.Width - 2*f.Padding }
func (f Frame) plotHeight() float64 { return f.Height - 2*f.Padding }
func (f Frame) bottom() float64     { return f.Height - f.Padding }

// Point is an SVG coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SeriesPath is the geometry of one plotted series.
type SeriesPath struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
	Line   string  `json:"line"`
	Area   string  `json:"area"`
}

// AreaChart is a multi-series line/area chart on a shared y scale.
type AreaChart struct {
	Frame  Frame        `json:"frame"`
	Labels []string     `json:"labels"`
	Series []SeriesPath `json:"series"`
	Max    float64      `json:"max"`
	StepX  float64      `json:"step_x"`
	Delay  float64      `json:"delay"`

	values [][]float64
}

const areaHeadroom = 1.15

// NewAreaChart scales every series against max(all series)*1.15.
func NewAreaChart(frame Frame, labels []string, series []Series, delay float64) AreaChart {
	if frame.Width <= 0 || frame.Height <= 0 {
		frame = DefaultFrame
	}
	count := len(labels)
	for _, s := range series {
		if len(s.Values) > count {
			count = len(s.Values)
		}
	}
	chart := AreaChart{
		Frame:  frame,
		Labels: append([]string(nil), labels...),
		Delay:  delay,
		values: make([][]float64, len(series)),
	}
	if count > 1 {
		chart.StepX = frame.plotWidth() / float64(count-1)
	}
	peak := 0.0
	for _, s := range series {
		for _, v := range s.Values {
			peak = math.Max(peak, v)
		}
	}
	chart.Max = peak * areaHeadroom
	for i, s := range series {
		chart.values[i] = append([]float64(nil), s.Values...)
		points := make([]Point, len(s.Values))
		for j, v := range s.Values {
			points[j] = Point{X: chart.xAt(j, count), Y: chart.yAt(v)}
		}
		chart.Series = append(chart.Series, SeriesPath{
			Name:   s.Name,
			Color:  s.Color,
			Points: points,
			Line:   linePath(points),
			Area:   areaPath(points, frame.bottom()),
		})
	}
	return chart
}

func (c AreaChart) xAt(index, count int) float64 {
	if count <= 1 {
		return c.Frame.Padding + c.Frame.plotWidth()/2
	}
	return c.Frame.Padding + float64(index)*c.StepX
}

func (c AreaChart) yAt(value float64) float64 {
	if c.Max <= 0 {
		return c.Frame.bottom()
	}
	return c.Frame.bottom() - (value/c.Max)*c.Frame.plotHeight()
}

func (c AreaChart) pointCount() int {
	count := len(c.Labels)
	for _, v := range c.values {
		if len(v) > count {
			count = len(v)
		}
	}
	return count
}

// NearestIndex maps a pointer x back to the closest data index.
func (c AreaChart) NearestIndex(pointerX float64) (int, bool) {
	count := c.pointCount()
	if count == 0 {
		return 0, false
	}
	if count == 1 || c.StepX <= 0 {
		return 0, true
	}
	idx := int(math.Round((pointerX - c.Frame.Padding) / c.StepX))
	if idx < 0 {
		idx = 0
	}
	if idx > count-1 {
		idx = count - 1
	}
	return idx, true
}

// TooltipRow is one series' value inside the hover tooltip.
type TooltipRow struct {
	Name  string  `json:"name"`
	Color string  `json:"color,omitempty"`
	Value float64 `json:"value"`
}

// AreaTooltip is the synchronized guide line and value list at an index.
type AreaTooltip struct {
	Index  int          `json:"index"`
	Label  string       `json:"label"`
	GuideX float64      `json:"guide_x"`
	Rows   []TooltipRow `json:"rows"`
}

// Tooltip lists every series' value at index.
func (c AreaChart) Tooltip(index int) (AreaTooltip, bool) {
	count := c.pointCount()
	if index < 0 || index >= count {
		return AreaTooltip{}, false
	}
	tip := AreaTooltip{Index: index, GuideX: c.xAt(index, count)}
	if index < len(c.Labels) {
		tip.Label = c.Labels[index]
	}
	for i, s := range c.Series {
		if index >= len(c.values[i]) {
			continue
		}
		tip.Rows = append(tip.Rows, TooltipRow{Name: s.Name, Color: s.Color, Value: c.values[i][index]})
	}
	return tip, true
}

// Hover combines NearestIndex and Tooltip for a pointer position.
func (c AreaChart) Hover(pointerX float64) (AreaTooltip, bool) {
	idx, ok := c.NearestIndex(pointerX)
	if !ok {
		return AreaTooltip{}, false
	}
	return c.Tooltip(idx)
}

func linePath(points []Point) string {
	if len(points) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range points {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(coord(p.X))
		b.WriteByte(' ')
		b.WriteString(coord(p.Y))
	}
	return b.String()
}

func areaPath(points []Point, baseline float64) string {
	if len(points) == 0 {
		return ""
	}
	first, last := points[0], points[len(points)-1]
	return linePath(points) +
		" L " + coord(last.X) + " " + coord(baseline) +
		" L " + coord(first.X) + " " + coord(baseline) + " Z"
}

func coord(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
