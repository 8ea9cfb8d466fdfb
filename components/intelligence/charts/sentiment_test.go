package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentimentTimelineSinglePointCentres(t *testing.T) {
	timeline := NewSentimentTimeline(Frame{}, []SentimentPoint{{Label: "now", Value: 0.2}}, 0)
	assert.Equal(t, DefaultFrame, timeline.Frame)
	require.Len(t, timeline.Points, 1)
	assert.InDelta(t, DefaultFrame.Width/2, timeline.Points[0].X, 1e-9)
	assert.Zero(t, timeline.StepX)
}
