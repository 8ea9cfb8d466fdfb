package intelligence

import (
	"fmt"

	"github.com/goliatone/go-intelligence/components/intelligence/assistant"
	"github.com/goliatone/go-intelligence/components/intelligence/charts"
)

// AtRiskMember is a member flagged by the churn model.
type AtRiskMember struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Avatar           string   `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Role             string   `json:"role,omitempty" yaml:"role,omitempty"`
	RiskFactors      []string `json:"risk_factors" yaml:"risk_factors"`
	ChurnProbability float64  `json:"churn_probability" yaml:"churn_probability"`
	LastActive       string   `json:"last_active" yaml:"last_active"`
}

// BotMember is a member discovered by a platform bot.
type BotMember struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Avatar          string   `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Source          string   `json:"source" yaml:"source"`
	Interests       []string `json:"interests" yaml:"interests"`
	EngagementScore float64  `json:"engagement_score" yaml:"engagement_score"`
}

// SponsorBrand is a sponsor with its campaign totals.
type SponsorBrand struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Tier        string  `json:"tier" yaml:"tier"`
	Impressions float64 `json:"impressions" yaml:"impressions"`
	Engagements float64 `json:"engagements" yaml:"engagements"`
	Conversions float64 `json:"conversions" yaml:"conversions"`
	Revenue     float64 `json:"revenue" yaml:"revenue"`
	TotalROI    float64 `json:"total_roi" yaml:"total_roi"`
}

// TierStyle is the fixed colour and icon for a sponsor tier.
type TierStyle struct {
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var tierStyles = map[string]TierStyle{
	"platinum": {Color: "#6366f1", Icon: "crown"},
	"gold":     {Color: "#f59e0b", Icon: "star"},
	"silver":   {Color: "#94a3b8", Icon: "award"},
}

// StyleForTier falls back to the silver style for unknown tiers.
func StyleForTier(tier string) TierStyle {
	if style, ok := tierStyles[tier]; ok {
		return style
	}
	return tierStyles["silver"]
}

// PlatformConnection is a bot integration's last known status.
type PlatformConnection struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Status   string `json:"status" yaml:"status"`
	Members  int    `json:"members" yaml:"members"`
	LastSync string `json:"last_sync" yaml:"last_sync"`
}

// PollOption is one answer of a poll.
type PollOption struct {
	Label string `json:"label" yaml:"label"`
	Votes int    `json:"votes" yaml:"votes"`
}

// PollResult is a completed or running poll.
type PollResult struct {
	ID         string       `json:"id" yaml:"id"`
	Question   string       `json:"question" yaml:"question"`
	Platform   string       `json:"platform" yaml:"platform"`
	Options    []PollOption `json:"options" yaml:"options"`
	TotalVotes int          `json:"total_votes" yaml:"total_votes"`
}

// Bars converts the poll options into a bar chart.
func (p PollResult) Bars() charts.BarChart {
	data := make([]charts.BarDatum, len(p.Options))
	for i, o := range p.Options {
		data[i] = charts.BarDatum{Label: o.Label, Value: float64(o.Votes)}
	}
	return charts.NewBarChart(data, 0)
}

// Collaboration is a partnership tracked by the bots.
type Collaboration struct {
	ID      string  `json:"id" yaml:"id"`
	Partner string  `json:"partner" yaml:"partner"`
	Kind    string  `json:"kind" yaml:"kind"`
	Status  string  `json:"status" yaml:"status"`
	Reach   float64 `json:"reach" yaml:"reach"`
}

// OperatorData feeds the operator dashboard.
type OperatorData struct {
	Health     charts.HealthScore      `json:"health" yaml:"health"`
	Metrics    []charts.MetricSummary  `json:"metrics" yaml:"metrics"`
	Engagement []charts.EngagementCell `json:"engagement" yaml:"engagement"`
	Activity   []charts.ActivityPoint  `json:"activity" yaml:"activity"`
	AtRisk     []AtRiskMember          `json:"at_risk" yaml:"at_risk"`
}

// RevenueBreakdown is the donut input.
type RevenueBreakdown struct {
	Total    float64                 `json:"total" yaml:"total"`
	Segments []charts.RevenueSegment `json:"segments" yaml:"segments"`
}

// SponsorData feeds the sponsor dashboard.
type SponsorData struct {
	Metrics []charts.MetricSummary `json:"metrics" yaml:"metrics"`
	Brands  []SponsorBrand         `json:"brands" yaml:"brands"`
	Revenue RevenueBreakdown       `json:"revenue" yaml:"revenue"`
	Funnel  []charts.FunnelStep    `json:"funnel" yaml:"funnel"`
}

// DiscourseData feeds the discourse dashboard.
type DiscourseData struct {
	Metrics   []charts.MetricSummary  `json:"metrics" yaml:"metrics"`
	Topics    []charts.TrendingTopic  `json:"topics" yaml:"topics"`
	Sentiment []charts.SentimentPoint `json:"sentiment" yaml:"sentiment"`
	Clusters  []charts.TopicCluster   `json:"clusters" yaml:"clusters"`
}

// BotsData feeds the bot command center.
type BotsData struct {
	Platforms      []PlatformConnection `json:"platforms" yaml:"platforms"`
	Polls          []PollResult         `json:"polls" yaml:"polls"`
	Members        []BotMember          `json:"members" yaml:"members"`
	Collaborations []Collaboration      `json:"collaborations" yaml:"collaborations"`
}

// CardSpec is the YAML form of an assistant data card.
type CardSpec struct {
	Type  assistant.CardType `json:"type" yaml:"type"`
	Title string             `json:"title,omitempty" yaml:"title,omitempty"`
	Value float64            `json:"value,omitempty" yaml:"value,omitempty"`
	Trend float64            `json:"trend,omitempty" yaml:"trend,omitempty"`
	Unit  string             `json:"unit,omitempty" yaml:"unit,omitempty"`
	Rows  []CardRowSpec      `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// CardRowSpec is a row of a members, trend or comparison card.
type CardRowSpec struct {
	Label    string  `json:"label" yaml:"label"`
	Detail   string  `json:"detail,omitempty" yaml:"detail,omitempty"`
	Value    float64 `json:"value" yaml:"value"`
	Previous float64 `json:"previous,omitempty" yaml:"previous,omitempty"`
}

// DataCard converts the spec into its assistant variant.
func (c CardSpec) DataCard() (assistant.DataCard, error) {
	switch c.Type {
	case assistant.CardMetric:
		return assistant.MetricCard{Label: c.Title, Value: c.Value, Trend: c.Trend, Unit: c.Unit}, nil
	case assistant.CardMembers:
		card := assistant.MembersCard{Title: c.Title}
		for _, r := range c.Rows {
			card.Members = append(card.Members, assistant.CardMember{Name: r.Label, Detail: r.Detail, Score: r.Value})
		}
		return card, nil
	case assistant.CardTrend:
		card := assistant.TrendCard{Title: c.Title, Change: c.Trend}
		for _, r := range c.Rows {
			card.Points = append(card.Points, assistant.TrendPoint{Label: r.Label, Value: r.Value})
		}
		return card, nil
	case assistant.CardComparison:
		card := assistant.ComparisonCard{Title: c.Title}
		for _, r := range c.Rows {
			card.Items = append(card.Items, assistant.ComparisonItem{Label: r.Label, Current: r.Value, Previous: r.Previous})
		}
		return card, nil
	default:
		return nil, fmt.Errorf("%w: unknown card type %q", ErrInvalidDataset, c.Type)
	}
}

// ScriptedResponse is a canned answer in a dataset.
type ScriptedResponse struct {
	Content string     `json:"content" yaml:"content"`
	Cards   []CardSpec `json:"cards,omitempty" yaml:"cards,omitempty"`
}

// AssistantData overrides the built-in assistant script when suggestions are present.
type AssistantData struct {
	Suggestions []assistant.SuggestedQuestion `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Responses   map[string]ScriptedResponse   `json:"responses,omitempty" yaml:"responses,omitempty"`
	Fallback    string                        `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// Script builds the assistant script, or the default one when none is configured.
func (a AssistantData) Script() (assistant.Script, error) {
	if len(a.Suggestions) == 0 {
		return assistant.DefaultScript(), nil
	}
	script := assistant.Script{
		Suggestions: a.Suggestions,
		Responses:   make(map[string]assistant.Response, len(a.Responses)),
		Fallback:    assistant.DefaultScript().Fallback,
	}
	if a.Fallback != "" {
		script.Fallback = assistant.Response{Content: a.Fallback}
	}
	for id, resp := range a.Responses {
		out := assistant.Response{Content: resp.Content}
		for _, spec := range resp.Cards {
			card, err := spec.DataCard()
			if err != nil {
				return assistant.Script{}, fmt.Errorf("response %s: %w", id, err)
			}
			out.Cards = append(out.Cards, card)
		}
		script.Responses[id] = out
	}
	return script, nil
}
