package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-intelligence/components/intelligence/charts"
)

var errMissingDataset = errors.New("intelligence: dataset not configured")

// ChartRenderer renders a chart spec to embeddable HTML.
type ChartRenderer interface {
	Render(ctx context.Context, spec ChartSpec) (string, error)
}

// ChartKind selects the chart family.
type ChartKind string

const (
	ChartGauge     ChartKind = "gauge"
	ChartPie       ChartKind = "pie"
	ChartFunnel    ChartKind = "funnel"
	ChartLine      ChartKind = "line"
	ChartHeatmap   ChartKind = "heatmap"
	ChartWordCloud ChartKind = "wordcloud"
	ChartGraph     ChartKind = "graph"
	ChartBar       ChartKind = "bar"
)

// ChartSeries represents a set of values plotted for a given legend entry.
type ChartSeries struct {
	Name   string       `json:"name"`
	Color  string       `json:"color,omitempty"`
	Points []ChartPoint `json:"points"`
}

// ChartPoint represents an individual value (optionally labeled).
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// ChartSpec is everything a renderer needs for one chart. Only the fields of
// the selected kind are read.
type ChartSpec struct {
	Kind   ChartKind             `json:"kind"`
	Key    string                `json:"key"`
	Title  string                `json:"title"`
	Theme  string                `json:"theme,omitempty"`
	Labels []string              `json:"labels,omitempty"`
	Series []ChartSeries         `json:"series,omitempty"`
	Signed bool                  `json:"signed,omitempty"`
	Cells  []charts.HeatCell     `json:"cells,omitempty"`
	Rows   int                   `json:"rows,omitempty"`
	Pills  []charts.TopicPill    `json:"pills,omitempty"`
	Nodes  []charts.TopicCluster `json:"nodes,omitempty"`
	Edges  []charts.ClusterEdge  `json:"edges,omitempty"`
}

type widgetOptions struct {
	title   string
	delay   float64
	echarts bool
	theme   string
	limit   int
}

func optionsFor(meta WidgetContext, fallbackTitle string) widgetOptions {
	cfg := meta.Instance.Configuration
	return widgetOptions{
		title:   stringValue(cfg["title"], fallbackTitle),
		delay:   floatValue(cfg["delay"]),
		echarts: boolOr(cfg["echarts"], true),
		theme:   strings.TrimSpace(stringValue(cfg["theme"], "")),
		limit:   int(floatValue(cfg["limit"])),
	}
}

func requireDataset(meta WidgetContext) (*Dataset, error) {
	if meta.Dataset == nil {
		return nil, errMissingDataset
	}
	return meta.Dataset, nil
}

// attachChart adds chart_html when a chart renderer is configured, unless the
// placement sets "echarts": false.
func attachChart(ctx context.Context, meta WidgetContext, opts widgetOptions, data WidgetData, spec ChartSpec) error {
	if !opts.echarts || meta.Charts == nil {
		return nil
	}
	spec.Title = opts.title
	spec.Theme = opts.theme
	if spec.Key == "" {
		spec.Key = meta.Instance.ID
	}
	html, err := meta.Charts.Render(ctx, spec)
	if err != nil {
		return fmt.Errorf("render %s chart: %w", spec.Kind, err)
	}
	data["chart_html"] = html
	return nil
}

func metricsProvider(pick func(*Dataset) []charts.MetricSummary) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		ds, err := requireDataset(meta)
		if err != nil {
			return nil, err
		}
		opts := optionsFor(meta, "Key Metrics")
		metrics := pick(ds)
		cards := make([]charts.MetricCard, len(metrics))
		for i, m := range metrics {
			cards[i] = charts.NewMetricCard(m, opts.delay+float64(i)*0.1)
			cards[i].Frames = nil
		}
		return WidgetData{"title": opts.title, "cards": cards}, nil
	})
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func floatValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func boolOr(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}
