package charts

import (
	"fmt"
	"math"
)

// RevenueSegment is one slice of a donut. Percentages are not normalised.
type RevenueSegment struct {
	Label      string  `json:"label" yaml:"label"`
	Value      float64 `json:"value" yaml:"value"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
	Color      string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// DonutArc is the stroke geometry for a single segment.
type DonutArc struct {
	Segment RevenueSegment `json:"segment"`
	Length  float64        `json:"length"`
	Gap     float64        `json:"gap"`
	Offset  float64        `json:"offset"`
	Start   float64        `json:"start_percent"`
}

// Donut holds contiguous arcs drawn clockwise from 12 o'clock.
type Donut struct {
	Radius            float64    `json:"radius"`
	StrokeWidth       float64    `json:"stroke_width"`
	Circumference     float64    `json:"circumference"`
	Rotation          float64    `json:"rotation"`
	Arcs              []DonutArc `json:"arcs"`
	Total             float64    `json:"total"`
	CumulativePercent float64    `json:"cumulative_percent"`
	Delay             float64    `json:"delay"`
}

// DonutCenter is the label stack in the middle of the donut.
type DonutCenter struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Percent string `json:"percent,omitempty"`
}

// String joins the visible lines, e.g. "$25,000 / Sponsorship / 25%".
func (c DonutCenter) String() string {
	if c.Percent == "" {
		return fmt.Sprintf("%s / %s", c.Value, c.Label)
	}
	return fmt.Sprintf("%s / %s / %s", c.Value, c.Label, c.Percent)
}

// NewDonut lays out segments from their own percentages, cumulatively.
// A set that does not sum to 100 leaves a gap or overlaps; it is not corrected here.
func NewDonut(segments []RevenueSegment, total, radius, delay float64) Donut {
	if radius <= 0 {
		radius = 60
	}
	circumference := 2 * math.Pi * radius
	d := Donut{
		Radius:        radius,
		StrokeWidth:   radius / 3,
		Circumference: circumference,
		Rotation:      -90,
		Total:         total,
		Delay:         delay,
		Arcs:          make([]DonutArc, 0, len(segments)),
	}
	cumulative := 0.0
	for _, seg := range segments {
		length := seg.Percentage / 100 * circumference
		d.Arcs = append(d.Arcs, DonutArc{
			Segment: seg,
			Length:  length,
			Gap:     circumference - length,
			Offset:  -cumulative / 100 * circumference,
			Start:   cumulative,
		})
		cumulative += seg.Percentage
	}
	d.CumulativePercent = cumulative
	return d
}

// Center returns the running total, or the hovered segment's value, label and share.
func (d Donut) Center(hovered int) DonutCenter {
	if hovered >= 0 && hovered < len(d.Arcs) {
		seg := d.Arcs[hovered].Segment
		return DonutCenter{
			Value:   FormatCurrency(seg.Value),
			Label:   seg.Label,
			Percent: FormatPercent(seg.Percentage),
		}
	}
	return DonutCenter{Value: FormatCurrency(d.Total), Label: "Total"}
}
