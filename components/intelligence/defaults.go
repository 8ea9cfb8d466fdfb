package intelligence

import "github.com/goliatone/go-intelligence/components/intelligence/charts"

// Widget codes for the built-in dashboards.
const (
	WidgetOperatorHealth     = "operator.health"
	WidgetOperatorMetrics    = "operator.metrics"
	WidgetOperatorEngagement = "operator.engagement"
	WidgetOperatorActivity   = "operator.activity"
	WidgetOperatorAtRisk     = "operator.at_risk"

	WidgetSponsorMetrics = "sponsor.metrics"
	WidgetSponsorBrands  = "sponsor.brands"
	WidgetSponsorRevenue = "sponsor.revenue"
	WidgetSponsorFunnel  = "sponsor.funnel"
	WidgetSponsorROI     = "sponsor.roi"

	WidgetDiscourseMetrics   = "discourse.metrics"
	WidgetDiscourseTopics    = "discourse.topics"
	WidgetDiscourseSentiment = "discourse.sentiment"
	WidgetDiscourseClusters  = "discourse.clusters"

	WidgetBotsPlatforms      = "bots.platforms"
	WidgetBotsPolls          = "bots.polls"
	WidgetBotsComposer       = "bots.composer"
	WidgetBotsMembers        = "bots.members"
	WidgetBotsCollaborations = "bots.collaborations"

	WidgetWilliamChat = "william.chat"
)

func widgetSchema(extra map[string]any) map[string]any {
	props := map[string]any{
		"title": map[string]any{"type": "string"},
		"delay": map[string]any{"type": "number", "minimum": 0},
	}
	for k, v := range extra {
		props[k] = v
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

var chartSchemaProps = map[string]any{
	"echarts": map[string]any{"type": "boolean"},
	"theme":   map[string]any{"type": "string"},
}

// DefaultWidgetDefinitions returns the widget catalogue for every dashboard.
func DefaultWidgetDefinitions() []WidgetDefinition {
	chart := func(code, name, desc, tmpl string) WidgetDefinition {
		return WidgetDefinition{Code: code, Name: name, Description: desc, Template: tmpl, Category: "chart", Schema: widgetSchema(chartSchemaProps)}
	}
	list := func(code, name, desc, tmpl string) WidgetDefinition {
		return WidgetDefinition{Code: code, Name: name, Description: desc, Template: tmpl, Category: "list", Schema: widgetSchema(nil)}
	}
	return []WidgetDefinition{
		chart(WidgetOperatorHealth, "Community Health", "Aggregate health score with breakdown", "widgets/radial.html"),
		list(WidgetOperatorMetrics, "Key Metrics", "Summary cards with trends", "widgets/metrics.html"),
		chart(WidgetOperatorEngagement, "Engagement Heatmap", "Four weeks of daily engagement", "widgets/heatmap.html"),
		chart(WidgetOperatorActivity, "Community Activity", "Members, posts and events over time", "widgets/area.html"),
		{
			Code: WidgetOperatorAtRisk, Name: "At-Risk Members", Description: "Members likely to churn; swipe right to dismiss",
			Template: "widgets/at_risk.html", Category: "list",
			Schema: widgetSchema(map[string]any{"limit": map[string]any{"type": "integer", "minimum": 1}}),
		},
		list(WidgetSponsorMetrics, "Sponsor Metrics", "Sponsor summary cards", "widgets/metrics.html"),
		list(WidgetSponsorBrands, "Sponsor Brands", "Brands by tier", "widgets/brands.html"),
		chart(WidgetSponsorRevenue, "Revenue Breakdown", "Revenue share by stream", "widgets/donut.html"),
		chart(WidgetSponsorFunnel, "Conversion Funnel", "Impressions to conversions", "widgets/funnel.html"),
		chart(WidgetSponsorROI, "Sponsor ROI", "Return on investment per brand", "widgets/bars.html"),
		list(WidgetDiscourseMetrics, "Discourse Metrics", "Conversation summary cards", "widgets/metrics.html"),
		chart(WidgetDiscourseTopics, "Trending Topics", "Topics sized by volume and coloured by sentiment", "widgets/cloud.html"),
		chart(WidgetDiscourseSentiment, "Sentiment Timeline", "Weekly sentiment around neutral", "widgets/sentiment.html"),
		chart(WidgetDiscourseClusters, "Topic Clusters", "How conversation topics connect", "widgets/clusters.html"),
		list(WidgetBotsPlatforms, "Platform Connections", "Bot integration status", "widgets/platforms.html"),
		list(WidgetBotsPolls, "Poll Results", "Expandable poll results", "widgets/polls.html"),
		list(WidgetBotsComposer, "Create Poll", "Draft and send a poll", "widgets/composer.html"),
		list(WidgetBotsMembers, "Member Intelligence", "Members surfaced by bots; swipe right to dismiss", "widgets/bot_members.html"),
		list(WidgetBotsCollaborations, "Collaborations", "Partnerships in flight", "widgets/collaborations.html"),
		list(WidgetWilliamChat, "Ask William", "Community assistant", "widgets/chat.html"),
	}
}

// DefaultTabLayouts returns the widgets placed on each tab.
func DefaultTabLayouts() map[Tab][]WidgetInstance {
	place := func(codes ...string) []WidgetInstance {
		out := make([]WidgetInstance, len(codes))
		for i, code := range codes {
			out[i] = WidgetInstance{
				ID:            code,
				DefinitionID:  code,
				Configuration: map[string]any{"delay": float64(i) * 0.1},
			}
		}
		return out
	}
	return map[Tab][]WidgetInstance{
		TabOperator: place(WidgetOperatorHealth, WidgetOperatorMetrics, WidgetOperatorEngagement,
			WidgetOperatorActivity, WidgetOperatorAtRisk),
		TabSponsor: place(WidgetSponsorMetrics, WidgetSponsorBrands, WidgetSponsorRevenue,
			WidgetSponsorFunnel, WidgetSponsorROI),
		TabDiscourse: place(WidgetDiscourseMetrics, WidgetDiscourseTopics, WidgetDiscourseSentiment,
			WidgetDiscourseClusters),
		TabBots: place(WidgetBotsPlatforms, WidgetBotsPolls, WidgetBotsComposer, WidgetBotsMembers,
			WidgetBotsCollaborations),
		TabWilliam: place(WidgetWilliamChat),
	}
}

func defaultProviders() map[string]Provider {
	return map[string]Provider{
		WidgetOperatorHealth:     ProviderFunc(fetchHealth),
		WidgetOperatorMetrics:    metricsProvider(func(d *Dataset) []charts.MetricSummary { return d.Operator.Metrics }),
		WidgetOperatorEngagement: ProviderFunc(fetchEngagement),
		WidgetOperatorActivity:   ProviderFunc(fetchActivity),
		WidgetOperatorAtRisk:     ProviderFunc(fetchAtRisk),

		WidgetSponsorMetrics: metricsProvider(func(d *Dataset) []charts.MetricSummary { return d.Sponsor.Metrics }),
		WidgetSponsorBrands:  ProviderFunc(fetchBrands),
		WidgetSponsorRevenue: ProviderFunc(fetchRevenue),
		WidgetSponsorFunnel:  ProviderFunc(fetchFunnel),
		WidgetSponsorROI:     ProviderFunc(fetchROI),

		WidgetDiscourseMetrics:   metricsProvider(func(d *Dataset) []charts.MetricSummary { return d.Discourse.Metrics }),
		WidgetDiscourseTopics:    ProviderFunc(fetchTopics),
		WidgetDiscourseSentiment: ProviderFunc(fetchSentiment),
		WidgetDiscourseClusters:  ProviderFunc(fetchClusters),

		WidgetBotsPlatforms:      ProviderFunc(fetchPlatforms),
		WidgetBotsPolls:          ProviderFunc(fetchPolls),
		WidgetBotsComposer:       ProviderFunc(fetchComposer),
		WidgetBotsMembers:        ProviderFunc(fetchBotMembers),
		WidgetBotsCollaborations: ProviderFunc(fetchCollaborations),

		WidgetWilliamChat: ProviderFunc(fetchChat),
	}
}
