package intelligence

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	viz "github.com/goliatone/go-intelligence/components/intelligence/charts"
)

const (
	defaultChartHeight = "320px"
	// DefaultEChartsAssetsHost serves the ECharts runtime and themes.
	DefaultEChartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
)

// EChartsRenderer renders chart specs to go-echarts markup.
type EChartsRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// EChartsRendererOption customizes renderer behavior.
type EChartsRendererOption func(*EChartsRenderer)

// WithChartCache injects a render cache. A nil cache renders every call.
func WithChartCache(cache RenderCache) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the default theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		if theme != "" {
			r.theme = theme
		}
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from elsewhere.
func WithChartAssetsHost(host string) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// NewEChartsRenderer builds a renderer with a five minute chart cache.
func NewEChartsRenderer(options ...EChartsRendererOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache:      NewChartCache(5*time.Minute, defaultChartCacheSize),
		theme:      types.ThemeWesteros,
		assetsHost: DefaultEChartsAssetsHost,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Render converts spec into chart HTML, reusing cached output for identical specs.
func (r *EChartsRenderer) Render(ctx context.Context, spec ChartSpec) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if spec.Theme == "" {
		spec.Theme = r.theme
	}
	renderFn := func() (string, error) {
		return r.render(spec)
	}
	if r.cache == nil {
		return renderFn()
	}
	key := fmt.Sprintf("%s:%s:%s", spec.Kind, spec.Key, configHash(spec))
	return r.cache.GetOrRender(key, renderFn)
}

func (r *EChartsRenderer) render(spec ChartSpec) (string, error) {
	switch spec.Kind {
	case ChartGauge:
		return r.renderGauge(spec)
	case ChartPie:
		return r.renderPie(spec)
	case ChartFunnel:
		return r.renderFunnel(spec)
	case ChartLine:
		return r.renderLine(spec)
	case ChartHeatmap:
		return r.renderHeatmap(spec)
	case ChartWordCloud:
		return r.renderWordCloud(spec)
	case ChartGraph:
		return r.renderGraph(spec)
	case ChartBar:
		return r.renderBar(spec)
	default:
		return "", fmt.Errorf("unsupported chart type: %s", spec.Kind)
	}
}

func (r *EChartsRenderer) renderGauge(spec ChartSpec) (string, error) {
	gauge := charts.NewGauge()
	gauge.SetGlobalOptions(r.globalChartOptions(spec)...)
	for _, s := range spec.Series {
		if len(s.Points) == 0 {
			continue
		}
		gauge.AddSeries(s.Name, []opts.GaugeData{{Name: s.Points[0].Label, Value: s.Points[0].Value}})
	}
	return renderChart(gauge)
}

func (r *EChartsRenderer) renderPie(spec ChartSpec) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalChartOptions(spec)...)
	for _, s := range spec.Series {
		data := make([]opts.PieData, len(s.Points))
		for i, p := range s.Points {
			data[i] = opts.PieData{Name: pointName(p, i), Value: p.Value, ItemStyle: itemStyle(p.Color)}
		}
		pie.AddSeries(s.Name, data, charts.WithPieChartOpts(opts.PieChart{Radius: []string{"55%", "75%"}}))
	}
	return renderChart(pie)
}

func (r *EChartsRenderer) renderFunnel(spec ChartSpec) (string, error) {
	funnel := charts.NewFunnel()
	funnel.SetGlobalOptions(r.globalChartOptions(spec)...)
	for _, s := range spec.Series {
		data := make([]opts.FunnelData, len(s.Points))
		for i, p := range s.Points {
			data[i] = opts.FunnelData{Name: pointName(p, i), Value: p.Value}
		}
		funnel.AddSeries(s.Name, data)
	}
	return renderChart(funnel)
}

func (r *EChartsRenderer) renderLine(spec ChartSpec) (string, error) {
	line := charts.NewLine()
	global := r.globalChartOptions(spec)
	if spec.Signed {
		global = append(global, charts.WithYAxisOpts(opts.YAxis{Min: -1, Max: 1}))
	}
	line.SetGlobalOptions(global...)
	line.SetXAxis(spec.Labels)
	for _, s := range spec.Series {
		data := make([]opts.LineData, len(s.Points))
		for i, p := range s.Points {
			data[i] = opts.LineData{Name: p.Label, Value: p.Value}
		}
		line.AddSeries(s.Name, data,
			charts.WithAreaStyleOpts(opts.AreaStyle{Color: s.Color, Opacity: 0.2}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		)
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func (r *EChartsRenderer) renderHeatmap(spec ChartSpec) (string, error) {
	heat := charts.NewHeatMap()
	weeks := make([]string, spec.Rows)
	for i := range weeks {
		weeks[i] = fmt.Sprintf("Week %d", i+1)
	}
	data := make([]opts.HeatMapData, len(spec.Cells))
	for i, c := range spec.Cells {
		data[i] = opts.HeatMapData{Value: [3]any{c.Col, c.Row, c.Cell.Value}}
	}
	global := append(r.globalChartOptions(spec),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: spec.Labels}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: weeks}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(false),
			Min:        0,
			Max:        100,
			InRange:    &opts.VisualMapInRange{Color: heatColors()},
		}),
	)
	heat.SetGlobalOptions(global...)
	heat.SetXAxis(spec.Labels)
	heat.AddSeries(spec.Title, data)
	return renderChart(heat)
}

func (r *EChartsRenderer) renderWordCloud(spec ChartSpec) (string, error) {
	cloud := charts.NewWordCloud()
	cloud.SetGlobalOptions(r.globalChartOptions(spec)...)
	data := make([]opts.WordCloudData, len(spec.Pills))
	for i, p := range spec.Pills {
		data[i] = opts.WordCloudData{Name: p.Topic.Label, Value: p.Topic.Volume}
	}
	cloud.AddSeries(spec.Title, data, charts.WithWorldCloudChartOpts(opts.WordCloudChart{
		SizeRange: []float32{14, 48},
	}))
	return renderChart(cloud)
}

func (r *EChartsRenderer) renderGraph(spec ChartSpec) (string, error) {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(r.globalChartOptions(spec)...)
	names := make(map[string]string, len(spec.Nodes))
	nodes := make([]opts.GraphNode, len(spec.Nodes))
	for i, n := range spec.Nodes {
		names[n.ID] = n.Label
		nodes[i] = opts.GraphNode{
			Name:       n.Label,
			X:          float32(n.X),
			Y:          float32(n.Y),
			Value:      float32(n.Size),
			SymbolSize: n.Size,
		}
	}
	links := make([]opts.GraphLink, 0, len(spec.Edges))
	for _, e := range spec.Edges {
		links = append(links, opts.GraphLink{Source: names[e.From], Target: names[e.To]})
	}
	graph.AddSeries(spec.Title, nodes, links, charts.WithGraphChartOpts(opts.GraphChart{
		Layout: "none",
		Roam:   opts.Bool(true),
	}))
	return renderChart(graph)
}

func (r *EChartsRenderer) renderBar(spec ChartSpec) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalChartOptions(spec)...)
	labels := spec.Labels
	if len(labels) == 0 {
		labels = inferredAxisLabels(spec.Series)
	}
	bar.SetXAxis(labels)
	for _, s := range spec.Series {
		data := make([]opts.BarData, len(s.Points))
		for i, p := range s.Points {
			data[i] = opts.BarData{Name: p.Label, Value: p.Value, ItemStyle: itemStyle(p.Color)}
		}
		bar.AddSeries(s.Name, data)
	}
	return renderChart(bar)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *EChartsRenderer) globalChartOptions(spec ChartSpec) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  spec.Theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(spec.Series) > 1)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

// heatColors orders the ladder from the quietest rung up.
func heatColors() []string {
	out := make([]string, 0, len(viz.HeatLadder))
	for i := len(viz.HeatLadder) - 1; i >= 0; i-- {
		out = append(out, viz.HeatLadder[i].Color)
	}
	return out
}

func itemStyle(color string) *opts.ItemStyle {
	if color == "" {
		return nil
	}
	return &opts.ItemStyle{Color: color}
}

func pointName(p ChartPoint, i int) string {
	if p.Label != "" {
		return p.Label
	}
	return fmt.Sprintf("Slice %d", i+1)
}

func inferredAxisLabels(series []ChartSeries) []string {
	var candidate []string
	longest := 0
	for _, s := range series {
		if len(s.Points) <= longest {
			continue
		}
		longest = len(s.Points)
		candidate = make([]string, len(s.Points))
		for i, p := range s.Points {
			if p.Label != "" {
				candidate[i] = p.Label
			} else {
				candidate[i] = fmt.Sprintf("Item %d", i+1)
			}
		}
	}
	return candidate
}
