package intelligence

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-intelligence/components/intelligence/assistant"
	"github.com/goliatone/go-intelligence/components/intelligence/charts"
)

var platformTones = map[string]charts.Tone{
	"connected":    charts.TonePositive,
	"syncing":      charts.ToneNeutral,
	"disconnected": charts.ToneNegative,
}

// PlatformView is a platform row with its status tone.
type PlatformView struct {
	PlatformConnection
	Tone        charts.Tone `json:"tone"`
	MembersText string      `json:"members_text"`
}

// PollView is a poll row; Bars is only set while expanded.
type PollView struct {
	PollResult
	Expanded bool             `json:"expanded"`
	Bars     *charts.BarChart `json:"bars,omitempty"`
}

// BotMemberView is a bot-discovered member with an engagement tone.
type BotMemberView struct {
	BotMember
	Tone charts.Tone `json:"tone"`
}

func engagementTone(score float64) charts.Tone {
	switch {
	case score >= 70:
		return charts.TonePositive
	case score < 40:
		return charts.ToneNegative
	default:
		return charts.ToneNeutral
	}
}

func fetchPlatforms(_ context.Context, meta WidgetContext) (WidgetData, error) {
	ds, err := requireDataset(meta)
	if err != nil {
		return nil, err
	}
	opts := optionsFor(meta, "Platform Connections")
	views := make([]PlatformView, len(ds.Bots.Platforms))
	connected := 0
	for i, p := range ds.Bots.Platforms {
		tone, ok := platformTones[p.Status]
		if !ok {
			tone = charts.ToneNeutral
		}
		if p.Status == "connected" {
			connected++
		}
		views[i] = PlatformView{PlatformConnection: p, Tone: tone, MembersText: charts.FormatNumber(float64(p.Members))}
	}
	return WidgetData{"title": opts.title, "platforms": views, "connected": connected}, nil
}

func fetchPolls(_ context.Context, meta WidgetContext) (WidgetData, error) {
	ds, err := requireDataset(meta)
	if err != nil {
		return nil, err
	}
	opts := optionsFor(meta, "Poll Results")
	views := make([]PollView, len(ds.Bots.Polls))
	for i, p := range ds.Bots.Polls {
		views[i] = PollView{PollResult: p}
		if meta.State != nil && meta.State.Polls != nil && meta.State.Polls.Expanded(p.ID) {
			bars := p.Bars()
			views[i].Expanded = true
			views[i].Bars = &bars
		}
	}
	return WidgetData{"title": opts.title, "polls": views}, nil
}

func fetchComposer(_ context.Context, meta WidgetContext) (WidgetData, error) {
	ds, err := requireDataset(meta)
	if err != nil {
		return nil, err
	}
	opts := optionsFor(meta, "Create Poll")
	data := WidgetData{"title": opts.title, "platforms": ds.PollPlatforms()}
	if meta.State != nil && meta.State.Composer != nil {
		data["composer"] = meta.State.Composer.State()
	}
	return data, nil
}

func fetchBotMembers(_ context.Context, meta WidgetContext) (WidgetData, error) {
	ds, err := requireDataset(meta)
	if err != nil {
		return nil, err
	}
	opts := optionsFor(meta, "Member Intelligence")
	members := ds.Bots.Members
	if meta.State != nil && meta.State.BotMembers != nil {
		members = meta.State.BotMembers.Items()
	}
	views := make([]BotMemberView, len(members))
	for i, m := range members {
		views[i] = BotMemberView{BotMember: m, Tone: engagementTone(m.EngagementScore)}
	}
	return WidgetData{"title": opts.title, "members": views, "remaining": len(views)}, nil
}

func fetchCollaborations(_ context.Context, meta WidgetContext) (WidgetData, error) {
	ds, err := requireDataset(meta)
	if err != nil {
		return nil, err
	}
	opts := optionsFor(meta, "Collaborations")
	reach := 0.0
	for _, c := range ds.Bots.Collaborations {
		reach += c.Reach
	}
	return WidgetData{
		"title":          opts.title,
		"collaborations": ds.Bots.Collaborations,
		"reach":          charts.FormatCompact(reach),
	}, nil
}

func fetchChat(_ context.Context, meta WidgetContext) (WidgetData, error) {
	opts := optionsFor(meta, "Ask William")
	data := WidgetData{"title": opts.title}
	if meta.State == nil || meta.State.Chat == nil {
		return data, nil
	}
	chat := meta.State.Chat
	messages := chat.Messages()
	views := make([]ChatMessageView, len(messages))
	for i, m := range messages {
		view := ChatMessageView{ID: m.ID, Role: m.Role, Content: m.Content, Timestamp: m.Timestamp}
		for _, card := range m.Cards {
			cv, err := assistant.RenderCard(card)
			if err != nil {
				return nil, fmt.Errorf("message %s: %w", m.ID, err)
			}
			view.Cards = append(view.Cards, cv)
		}
		views[i] = view
	}
	data["messages"] = views
	data["suggestions"] = chat.Available()
	data["typing"] = chat.Typing()
	return data, nil
}

// ChatMessageView is a thread message with its cards rendered.
type ChatMessageView struct {
	ID        string               `json:"id"`
	Role      assistant.Role       `json:"role"`
	Content   string               `json:"content"`
	Timestamp time.Time            `json:"timestamp"`
	Cards     []assistant.CardView `json:"cards,omitempty"`
}
