package intelligence

import (
	"context"
	"sort"

	"github.com/goliatone/go-intelligence/components/intelligence/charts"
)

// BrandView is a sponsor brand with its tier styling.
type BrandView struct {
	SponsorBrand
	Style       TierStyle `json:"style"`
	RevenueText string    `json:"revenue_text"`
	ROIText     string    `json:"roi_text"`
	Reach       string    `json:"reach"`
}

// FunnelRow pairs a funnel bar with its hover tooltip.
type FunnelRow struct {
	Bar     charts.FunnelBar     `json:"bar"`
	Tooltip charts.FunnelTooltip `json:"tooltip"`
}

func fetchBrands(_ context.Context, meta WidgetContext) (WidgetData, error) {
	ds, err := requireDataset(meta)
	if err != nil {
		return nil, err
	}
	opts := optionsFor(meta, "Sponsor Brands")
	views := make([]BrandView, len(ds.Sponsor.Brands))
	for i, b := range ds.Sponsor.Brands {
		views[i] = BrandView{
			SponsorBrand: b,
			Style:        StyleForTier(b.Tier),
			RevenueText:  charts.FormatCurrency(b.Revenue),
			ROIText:      charts.FormatPercent(b.TotalROI),
			Reach:        charts.FormatCompact(b.Impressions),
		}
	}
	return WidgetData{"title": opts.title, "brands": views}, nil
}

func fetchRevenue(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	ds, err := requireDataset(meta)
	if err != nil {
		return nil, err
	}
	opts := optionsFor(meta, "Revenue Breakdown")
	donut := charts.NewDonut(ds.Sponsor.Revenue.Segments, ds.Sponsor.Revenue.Total, 0, opts.delay)
	hover := make([]charts.DonutCenter, len(donut.Arcs))
	points := make([]ChartPoint, len(donut.Arcs))
	for i, arc := range donut.Arcs {
		hover[i] = donut.Center(i)
		points[i] = ChartPoint{Label: arc.Segment.Label, Value: arc.Segment.Value, Color: arc.Segment.Color}
	}
	data := WidgetData{
		"title":  opts.title,
		"size":   2 * (donut.Radius + donut.StrokeWidth),
		"donut":  donut,
		"center": donut.Center(-1),
		"hover":  hover,
	}
	err = attachChart(ctx, meta, opts, data, ChartSpec{
		Kind:   ChartPie,
		Series: []ChartSeries{{Name: opts.title, Points: points}},
	})
	return data, err
}

func fetchFunnel(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	ds, err := requireDataset(meta)
	if err != nil {
		return nil, err
	}
	opts := optionsFor(meta, "Conversion Funnel")
	funnel := charts.NewFunnel(ds.Sponsor.Funnel, opts.delay)
	rows := make([]FunnelRow, len(funnel.Bars))
	points := make([]ChartPoint, len(funnel.Bars))
	for i, bar := range funnel.Bars {
		tip, _ := funnel.Tooltip(i)
		rows[i] = FunnelRow{Bar: bar, Tooltip: tip}
		points[i] = ChartPoint{Label: bar.Step.Label, Value: bar.Step.Value, Color: bar.Step.Color}
	}
	data := WidgetData{"title": opts.title, "funnel": funnel, "rows": rows}
	err = attachChart(ctx, meta, opts, data, ChartSpec{
		Kind:   ChartFunnel,
		Series: []ChartSeries{{Name: opts.title, Points: points}},
	})
	return data, err
}

func fetchROI(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	ds, err := requireDataset(meta)
	if err != nil {
		return nil, err
	}
	opts := optionsFor(meta, "Sponsor ROI")
	brands := append([]SponsorBrand(nil), ds.Sponsor.Brands...)
	sort.SliceStable(brands, func(i, j int) bool { return brands[i].TotalROI > brands[j].TotalROI })
	bars := make([]charts.BarDatum, len(brands))
	points := make([]ChartPoint, len(brands))
	for i, b := range brands {
		color := StyleForTier(b.Tier).Color
		bars[i] = charts.BarDatum{Label: b.Name, Value: b.TotalROI, Color: color}
		points[i] = ChartPoint{Label: b.Name, Value: b.TotalROI, Color: color}
	}
	chart := charts.NewBarChart(bars, opts.delay)
	data := WidgetData{"title": opts.title, "bars": chart, "unit": "%"}
	err = attachChart(ctx, meta, opts, data, ChartSpec{
		Kind:   ChartBar,
		Series: []ChartSeries{{Name: "ROI", Points: points}},
	})
	return data, err
}
