package charts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAreaChartSharedScale(t *testing.T) {
	frame := Frame{Width: 400, Height: 200, Padding: 20}
	chart := NewAreaChart(frame, []string{"Jan", "Feb", "Mar"}, []Series{
		{Name: "members", Values: []float64{10, 50, 100}},
		{Name: "posts", Values: []float64{5, 20, 40}},
	}, 0)

	require.Len(t, chart.Series, 2)
	assert.InDelta(t, 115, chart.Max, 1e-9)
	assert.InDelta(t, 180, chart.StepX, 1e-9)

	top := chart.Series[0].Points[2]
	assert.InDelta(t, 380, top.X, 1e-9)
	assert.InDelta(t, 180-100/115.0*160, top.Y, 1e-9)
	assert.True(t, strings.HasPrefix(chart.Series[0].Line, "M 20 "))
	assert.True(t, strings.HasSuffix(chart.Series[0].Area, " Z"))
}

func TestAreaChartHover(t *testing.T) {
	chart := NewAreaChart(DefaultFrame, []string{"Jan", "Feb", "Mar", "Apr"}, []Series{
		{Name: "members", Values: []float64{1, 2, 3, 4}},
		{Name: "events", Values: []float64{10, 20, 30, 40}},
	}, 0)

	idx, ok := chart.NearestIndex(DefaultFrame.Padding + chart.StepX*1.4)
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, _ = chart.NearestIndex(-500)
	assert.Equal(t, 0, idx)
	idx, _ = chart.NearestIndex(5000)
	assert.Equal(t, 3, idx)

	tip, ok := chart.Hover(DefaultFrame.Padding + chart.StepX*2)
	require.True(t, ok)
	assert.Equal(t, "Mar", tip.Label)
	require.Len(t, tip.Rows, 2)
	assert.Equal(t, 3.0, tip.Rows[0].Value)
	assert.Equal(t, 30.0, tip.Rows[1].Value)
}

func TestAreaChartDegenerateInput(t *testing.T) {
	single := NewAreaChart(DefaultFrame, []string{"Jan"}, []Series{{Name: "x", Values: []float64{5}}}, 0)
	p := single.Series[0].Points[0]
	assert.InDelta(t, DefaultFrame.Width/2, p.X, 1e-9)
	assert.NotContains(t, single.Series[0].Line, "NaN")

	flat := NewAreaChart(DefaultFrame, nil, []Series{{Name: "x", Values: []float64{0, 0}}}, 0)
	assert.Equal(t, DefaultFrame.bottom(), flat.Series[0].Points[1].Y)

	empty := NewAreaChart(Frame{}, nil, nil, 0)
	_, ok := empty.Hover(10)
	assert.False(t, ok)
}

func TestSentimentTimelineSplitsAtBaseline(t *testing.T) {
	timeline := NewSentimentTimeline(DefaultFrame, []SentimentPoint{
		{Label: "w1", Value: 0.5},
		{Label: "w2", Value: -0.4},
		{Label: "w3", Value: 0},
		{Label: "w4", Value: 3},
	}, 0)

	assert.InDelta(t, DefaultFrame.Height/2, timeline.Baseline, 1e-9)
	assert.Equal(t, TonePositive, timeline.ToneAt(0))
	assert.Equal(t, ToneNegative, timeline.ToneAt(1))
	assert.Equal(t, ToneNeutral, timeline.ToneAt(2))
	assert.InDelta(t, DefaultFrame.Padding, timeline.Points[3].Y, 1e-9, "values clamp to the scale")
	assert.NotEmpty(t, timeline.PositiveArea)
	assert.NotEmpty(t, timeline.NegativeArea)
}
