package assistant

import (
	"fmt"

	"github.com/goliatone/go-intelligence/components/intelligence/charts"
)

// CardType tags a data card variant.
type CardType string

const (
	CardMetric     CardType = "metric"
	CardMembers    CardType = "members"
	CardTrend      CardType = "trend"
	CardComparison CardType = "comparison"
)

// DataCard is implemented only by the card variants in this package.
type DataCard interface {
	CardType() CardType
	dataCard()
}

// MetricCard is a single headline number.
type MetricCard struct {
	Label string
	Value float64
	Trend float64
	Unit  string
}

// CardMember is one row of a MembersCard.
type CardMember struct {
	Name   string
	Detail string
	Score  float64
}

// MembersCard lists members with a score.
type MembersCard struct {
	Title   string
	Members []CardMember
}

// TrendPoint is a labelled value of a TrendCard.
type TrendPoint struct {
	Label string
	Value float64
}

// TrendCard is a small series with an overall change.
type TrendCard struct {
	Title  string
	Points []TrendPoint
	Change float64
}

// ComparisonItem compares a current and previous value.
type ComparisonItem struct {
	Label    string
	Current  float64
	Previous float64
}

// ComparisonCard shows period-over-period values.
type ComparisonCard struct {
	Title string
	Items []ComparisonItem
}

func (MetricCard) CardType() CardType     { return CardMetric }
func (MembersCard) CardType() CardType    { return CardMembers }
func (TrendCard) CardType() CardType      { return CardTrend }
func (ComparisonCard) CardType() CardType { return CardComparison }

func (MetricCard) dataCard()     {}
func (MembersCard) dataCard()    {}
func (TrendCard) dataCard()      {}
func (ComparisonCard) dataCard() {}

// CardRow is one rendered line of a card.
type CardRow struct {
	Label string      `json:"label"`
	Value string      `json:"value"`
	Tone  charts.Tone `json:"tone,omitempty"`
	Width float64     `json:"width,omitempty"`
}

// CardView is the render-ready form of any DataCard.
type CardView struct {
	Type  CardType           `json:"type"`
	Title string             `json:"title"`
	Value string             `json:"value,omitempty"`
	Trend *charts.TrendBadge `json:"trend,omitempty"`
	Rows  []CardRow          `json:"rows,omitempty"`
	Spark string             `json:"spark,omitempty"`
}

var sparkFrame = charts.Frame{Width: 160, Height: 48, Padding: 4}

// RenderCard converts a card into its view. Unknown implementations are rejected.
func RenderCard(card DataCard) (CardView, error) {
	switch c := card.(type) {
	case MetricCard:
		badge := charts.Trend(c.Trend)
		return CardView{
			Type:  CardMetric,
			Title: c.Label,
			Value: charts.FormatNumber(c.Value) + c.Unit,
			Trend: &badge,
		}, nil
	case MembersCard:
		view := CardView{Type: CardMembers, Title: c.Title}
		for _, m := range c.Members {
			view.Rows = append(view.Rows, CardRow{
				Label: m.Name,
				Value: m.Detail,
				Width: m.Score,
				Tone:  scoreTone(m.Score),
			})
		}
		return view, nil
	case TrendCard:
		badge := charts.Trend(c.Change)
		labels := make([]string, len(c.Points))
		values := make([]float64, len(c.Points))
		view := CardView{Type: CardTrend, Title: c.Title, Trend: &badge}
		for i, p := range c.Points {
			labels[i], values[i] = p.Label, p.Value
			view.Rows = append(view.Rows, CardRow{Label: p.Label, Value: charts.FormatNumber(p.Value)})
		}
		area := charts.NewAreaChart(sparkFrame, labels, []charts.Series{{Name: c.Title, Values: values}}, 0)
		if len(area.Series) > 0 {
			view.Spark = area.Series[0].Line
		}
		return view, nil
	case ComparisonCard:
		view := CardView{Type: CardComparison, Title: c.Title}
		for _, item := range c.Items {
			row := CardRow{
				Label: item.Label,
				Value: fmt.Sprintf("%s vs %s", charts.FormatNumber(item.Current), charts.FormatNumber(item.Previous)),
				Tone:  charts.ToneNeutral,
			}
			if item.Previous != 0 {
				row.Tone = charts.Trend((item.Current - item.Previous) / item.Previous * 100).Tone
			}
			view.Rows = append(view.Rows, row)
		}
		return view, nil
	case nil:
		return CardView{}, fmt.Errorf("assistant: nil data card")
	default:
		return CardView{}, fmt.Errorf("assistant: unsupported data card %T", card)
	}
}

func scoreTone(score float64) charts.Tone {
	switch {
	case score >= 70:
		return charts.TonePositive
	case score < 40:
		return charts.ToneNegative
	default:
		return charts.ToneNeutral
	}
}
