package charts

// EngagementCell is one day of a 4x7 engagement grid.
type EngagementCell struct {
	Week   int     `json:"week" yaml:"week"`
	Day    int     `json:"day" yaml:"day"`
	Value  float64 `json:"value" yaml:"value"`
	Events int     `json:"events" yaml:"events"`
	Posts  int     `json:"posts" yaml:"posts"`
}

// HeatmapDays is the fixed column count (one per weekday).
const HeatmapDays = 7

var dayLabels = [HeatmapDays]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// HeatBucket is one rung of the colour ladder.
type HeatBucket struct {
	Min   float64 `json:"min"`
	Color string  `json:"color"`
	Name  string  `json:"name"`
}

// HeatLadder is ordered from the highest threshold down; the last rung catches everything.
var HeatLadder = []HeatBucket{
	{Min: 90, Color: "#059669", Name: "peak"},
	{Min: 75, Color: "#10b981", Name: "high"},
	{Min: 60, Color: "#34d399", Name: "steady"},
	{Min: 40, Color: "#a7f3d0", Name: "low"},
	{Min: 0, Color: "#e5e7eb", Name: "quiet"},
}

// BucketFor selects the colour rung for value.
func BucketFor(value float64) HeatBucket {
	for _, b := range HeatLadder[:len(HeatLadder)-1] {
		if value >= b.Min {
			return b
		}
	}
	return HeatLadder[len(HeatLadder)-1]
}

// HeatCell is a positioned grid cell.
type HeatCell struct {
	Cell   EngagementCell `json:"cell"`
	Row    int            `json:"row"`
	Col    int            `json:"col"`
	Bucket HeatBucket     `json:"bucket"`
	Delay  float64        `json:"delay"`
}

// Heatmap lays out cells by flat index.
type Heatmap struct {
	Rows      int        `json:"rows"`
	Cols      int        `json:"cols"`
	Cells     []HeatCell `json:"cells"`
	DayLabels []string   `json:"day_labels"`
	Delay     float64    `json:"delay"`
}

// CellPosition converts a flat index to grid coordinates.
func CellPosition(index int) (row, col int) {
	return index / HeatmapDays, index % HeatmapDays
}

// NewHeatmap places cells at row=i/7, col=i%7; short datasets leave the tail empty.
func NewHeatmap(cells []EngagementCell, delay float64) Heatmap {
	h := Heatmap{
		Cols:      HeatmapDays,
		Cells:     make([]HeatCell, len(cells)),
		DayLabels: dayLabels[:],
		Delay:     delay,
	}
	for i, cell := range cells {
		row, col := CellPosition(i)
		h.Cells[i] = HeatCell{
			Cell:   cell,
			Row:    row,
			Col:    col,
			Bucket: BucketFor(cell.Value),
			Delay:  delay + float64(i)*0.01,
		}
	}
	h.Rows = (len(cells) + HeatmapDays - 1) / HeatmapDays
	return h
}

// HeatTooltip is anchored proportionally to the hovered cell's grid position.
type HeatTooltip struct {
	Cell    EngagementCell `json:"cell"`
	Day     string         `json:"day"`
	LeftPct float64        `json:"left_pct"`
	TopPct  float64        `json:"top_pct"`
}

// Tooltip resolves the hover overlay for the cell at index.
func (h Heatmap) Tooltip(index int) (HeatTooltip, bool) {
	if index < 0 || index >= len(h.Cells) || h.Rows == 0 {
		return HeatTooltip{}, false
	}
	c := h.Cells[index]
	return HeatTooltip{
		Cell:    c.Cell,
		Day:     dayLabels[c.Col],
		LeftPct: (float64(c.Col) + 0.5) / float64(h.Cols) * 100,
		TopPct:  (float64(c.Row) + 0.5) / float64(h.Rows) * 100,
	}, true
}
