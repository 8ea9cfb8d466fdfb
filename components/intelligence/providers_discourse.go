package intelligence

import (
	"context"
	"math/rand/v2"

	"github.com/goliatone/go-intelligence/components/intelligence/charts"
)

// SentimentMarker is a plotted reading with the fill it sits in.
type SentimentMarker struct {
	Reading charts.SentimentPoint `json:"reading"`
	Point   charts.Point          `json:"point"`
	Tone    charts.Tone           `json:"tone"`
}

func fetchTopics(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	ds, err := requireDataset(meta)
	if err != nil {
		return nil, err
	}
	opts := optionsFor(meta, "Trending Topics")
	// the scatter is cosmetic; seeding per mount keeps a remount stable
	var seed uint64
	if meta.State != nil {
		seed = meta.State.Generation
	}
	cloud := charts.NewTopicCloud(ds.Discourse.Topics, rand.New(rand.NewPCG(seed, uint64(len(ds.Discourse.Topics)))), opts.delay)
	data := WidgetData{"title": opts.title, "cloud": cloud}
	err = attachChart(ctx, meta, opts, data, ChartSpec{Kind: ChartWordCloud, Pills: cloud.Pills})
	return data, err
}

func fetchSentiment(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	ds, err := requireDataset(meta)
	if err != nil {
		return nil, err
	}
	opts := optionsFor(meta, "Sentiment Timeline")
	timeline := charts.NewSentimentTimeline(charts.DefaultFrame, ds.Discourse.Sentiment, opts.delay)
	labels := make([]string, len(ds.Discourse.Sentiment))
	points := make([]ChartPoint, len(ds.Discourse.Sentiment))
	markers := make([]SentimentMarker, len(ds.Discourse.Sentiment))
	for i, p := range ds.Discourse.Sentiment {
		labels[i] = p.Label
		points[i] = ChartPoint{Label: p.Label, Value: p.Value}
		markers[i] = SentimentMarker{Reading: p, Point: timeline.Points[i], Tone: timeline.ToneAt(i)}
	}
	data := WidgetData{"title": opts.title, "timeline": timeline, "markers": markers}
	err = attachChart(ctx, meta, opts, data, ChartSpec{
		Kind:   ChartLine,
		Signed: true,
		Labels: labels,
		Series: []ChartSeries{{Name: "Sentiment", Points: points}},
	})
	return data, err
}

func fetchClusters(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	ds, err := requireDataset(meta)
	if err != nil {
		return nil, err
	}
	opts := optionsFor(meta, "Topic Clusters")
	m := charts.NewClusterMap(ds.Discourse.Clusters, opts.delay)
	data := WidgetData{"title": opts.title, "map": m}
	err = attachChart(ctx, meta, opts, data, ChartSpec{
		Kind:  ChartGraph,
		Nodes: m.Nodes,
		Edges: m.UniqueEdges(),
	})
	return data, err
}
