package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeatmapCellAddressing(t *testing.T) {
	t.Parallel()

	cells := make([]EngagementCell, 28)
	for i := range cells {
		cells[i] = EngagementCell{Week: i / 7, Day: i % 7, Value: float64(i * 3)}
	}
	h := NewHeatmap(cells, 0)
	require.Equal(t, 4, h.Rows)
	require.Equal(t, 7, h.Cols)

	seen := make(map[[2]int]int, len(cells))
	for i, c := range h.Cells {
		if c.Row != i/7 || c.Col != i%7 {
			t.Fatalf("cell %d at (%d,%d)", i, c.Row, c.Col)
		}
		if prev, ok := seen[[2]int{c.Row, c.Col}]; ok {
			t.Fatalf("cells %d and %d share (%d,%d)", prev, i, c.Row, c.Col)
		}
		seen[[2]int{c.Row, c.Col}] = i
	}
	assert.Len(t, seen, 28)
}

func TestHeatmapShortDataset(t *testing.T) {
	h := NewHeatmap(make([]EngagementCell, 10), 0)
	assert.Equal(t, 2, h.Rows)
	assert.Len(t, h.Cells, 10)

	empty := NewHeatmap(nil, 0)
	_, ok := empty.Tooltip(0)
	assert.False(t, ok)
}

func TestBucketLadder(t *testing.T) {
	cases := map[float64]string{
		95: "peak", 90: "peak", 89.9: "high", 75: "high",
		60: "steady", 40: "low", 39: "quiet", 0: "quiet", -5: "quiet",
	}
	for value, want := range cases {
		assert.Equal(t, want, BucketFor(value).Name, "value %v", value)
	}
}

func TestHeatmapTooltipAnchor(t *testing.T) {
	h := NewHeatmap(make([]EngagementCell, 28), 0)
	tip, ok := h.Tooltip(9)
	require.True(t, ok)
	assert.Equal(t, "Wed", tip.Day)
	assert.InDelta(t, 2.5/7*100, tip.LeftPct, 1e-9)
	assert.InDelta(t, 1.5/4*100, tip.TopPct, 1e-9)
}
