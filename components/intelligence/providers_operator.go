package intelligence

import (
	"context"

	"github.com/goliatone/go-intelligence/components/intelligence/charts"
	"github.com/goliatone/go-intelligence/components/intelligence/interaction"
)

// activityEventScale lifts monthly event counts onto the member/post axis.
const activityEventScale = 25

func fetchHealth(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	ds, err := requireDataset(meta)
	if err != nil {
		return nil, err
	}
	opts := optionsFor(meta, "Community Health")
	radial := charts.NewRadialScore(ds.Operator.Health, 0, opts.delay)
	data := WidgetData{
		"title":   opts.title,
		"radial":  radial,
		"center":  radial.Center(false),
		"hovered": radial.Center(true),
	}
	err = attachChart(ctx, meta, opts, data, ChartSpec{
		Kind:   ChartGauge,
		Series: []ChartSeries{{Name: opts.title, Points: []ChartPoint{{Label: "Score", Value: radial.Score}}}},
	})
	return data, err
}

func fetchEngagement(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	ds, err := requireDataset(meta)
	if err != nil {
		return nil, err
	}
	opts := optionsFor(meta, "Engagement Heatmap")
	heatmap := charts.NewHeatmap(ds.Operator.Engagement, opts.delay)
	data := WidgetData{"title": opts.title, "heatmap": heatmap, "ladder": charts.HeatLadder}
	err = attachChart(ctx, meta, opts, data, ChartSpec{
		Kind:   ChartHeatmap,
		Labels: heatmap.DayLabels,
		Cells:  heatmap.Cells,
		Rows:   heatmap.Rows,
	})
	return data, err
}

func fetchActivity(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	ds, err := requireDataset(meta)
	if err != nil {
		return nil, err
	}
	opts := optionsFor(meta, "Community Activity")
	points := ds.Operator.Activity
	labels := make([]string, len(points))
	members := make([]float64, len(points))
	posts := make([]float64, len(points))
	events := make([]float64, len(points))
	for i, p := range points {
		labels[i] = p.Month
		members[i] = p.Members
		posts[i] = p.Posts
		events[i] = p.Events * activityEventScale
	}
	series := []charts.Series{
		{Name: "Members", Color: "#6366f1", Values: members},
		{Name: "Posts", Color: "#10b981", Values: posts},
		{Name: "Events", Color: "#f59e0b", Values: events},
	}
	chart := charts.NewAreaChart(charts.DefaultFrame, labels, series, opts.delay)
	data := WidgetData{"title": opts.title, "chart": chart}
	if tip, ok := chart.Tooltip(len(labels) - 1); ok {
		data["latest"] = tip
	}
	err = attachChart(ctx, meta, opts, data, ChartSpec{
		Kind:   ChartLine,
		Labels: labels,
		Series: toChartSeries(labels, series),
	})
	return data, err
}

func fetchAtRisk(_ context.Context, meta WidgetContext) (WidgetData, error) {
	ds, err := requireDataset(meta)
	if err != nil {
		return nil, err
	}
	opts := optionsFor(meta, "At-Risk Members")
	members := ds.Operator.AtRisk
	if meta.State != nil && meta.State.AtRisk != nil {
		members = meta.State.AtRisk.Items()
	}
	if opts.limit > 0 && len(members) > opts.limit {
		members = members[:opts.limit]
	}
	return WidgetData{
		"title":     opts.title,
		"members":   members,
		"threshold": interaction.DefaultDismissThreshold,
		"remaining": len(members),
		"total":     len(ds.Operator.AtRisk),
	}, nil
}

func toChartSeries(labels []string, series []charts.Series) []ChartSeries {
	out := make([]ChartSeries, len(series))
	for i, s := range series {
		points := make([]ChartPoint, len(s.Values))
		for j, v := range s.Values {
			label := ""
			if j < len(labels) {
				label = labels[j]
			}
			points[j] = ChartPoint{Label: label, Value: v}
		}
		out[i] = ChartSeries{Name: s.Name, Color: s.Color, Points: points}
	}
	return out
}
