package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	intelligence "github.com/goliatone/go-intelligence/components/intelligence"
	"github.com/goliatone/go-intelligence/components/intelligence/assistant"
	"github.com/goliatone/go-intelligence/components/intelligence/interaction"
)

var viewer = intelligence.ViewerContext{UserID: "operator-1"}

func TestSelectTabCommand(t *testing.T) {
	service := &stubService{}
	telemetry := &stubTelemetry{}
	cmd := NewSelectTabCommand(service, telemetry)
	if err := cmd.Execute(context.Background(), SelectTabInput{Viewer: viewer, Tab: "Sponsor"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.selected != intelligence.TabSponsor {
		t.Fatalf("expected sponsor tab, got %q", service.selected)
	}
	if telemetry.calls != 1 {
		t.Fatalf("expected telemetry event")
	}
	err := cmd.Execute(context.Background(), SelectTabInput{Viewer: viewer, Tab: "settings"})
	if !errors.Is(err, intelligence.ErrUnknownTab) {
		t.Fatalf("expected ErrUnknownTab, got %v", err)
	}
}

func TestMeasureIndicatorCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewMeasureIndicatorCommand(service, nil)
	if err := cmd.Execute(context.Background(), MeasureIndicatorInput{Viewer: viewer}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.measureCalls != 0 {
		t.Fatalf("empty rects must not reach the service")
	}
	rects := map[string]interaction.Rect{"operator": {Left: 0, Width: 80}}
	if err := cmd.Execute(context.Background(), MeasureIndicatorInput{Viewer: viewer, Rects: rects}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.measureCalls != 1 {
		t.Fatalf("expected measure call")
	}
}

func TestReleaseMemberCommand(t *testing.T) {
	service := &stubService{outcome: interaction.OutcomeDismiss}
	cmd := NewReleaseMemberCommand(service, nil)
	var outcome interaction.ReleaseOutcome
	if err := cmd.Execute(context.Background(), ReleaseMemberInput{Viewer: viewer, MemberID: " m-maya ", OffsetX: 150, Outcome: &outcome}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if outcome != interaction.OutcomeDismiss || service.member != "m-maya" {
		t.Fatalf("unexpected release %q for %q", outcome, service.member)
	}
	if err := cmd.Execute(context.Background(), ReleaseMemberInput{Viewer: viewer}); err == nil {
		t.Fatalf("expected missing id error")
	}
}

func TestAskCommand(t *testing.T) {
	service := &stubService{reply: assistant.Message{ID: "r1", Role: assistant.RoleJarvis}}
	cmd := NewAskCommand(service, nil)
	var reply assistant.Message
	if err := cmd.Execute(context.Background(), AskInput{Viewer: viewer, Text: "hi", Reply: &reply}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if reply.ID != "r1" {
		t.Fatalf("expected reply to be copied back, got %+v", reply)
	}
	if err := cmd.Execute(context.Background(), AskInput{Viewer: viewer, Text: "  "}); !errors.Is(err, assistant.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestTapSuggestionCommand(t *testing.T) {
	service := &stubService{reply: assistant.Message{ID: "r2"}}
	cmd := NewTapSuggestionCommand(service, nil)
	if err := cmd.Execute(context.Background(), TapSuggestionInput{Viewer: viewer, SuggestionID: "q-health"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.suggestion != "q-health" {
		t.Fatalf("expected suggestion to reach service")
	}
}

func TestPollCommands(t *testing.T) {
	service := &stubService{}
	toggle := NewTogglePollCommand(service, nil)
	var expanded bool
	if err := toggle.Execute(context.Background(), TogglePollInput{Viewer: viewer, PollID: "poll-venue", Expanded: &expanded}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !expanded {
		t.Fatalf("expected poll to expand")
	}

	send := NewSendPollCommand(service, nil)
	var sent interaction.SentPoll
	if err := send.Execute(context.Background(), SendPollInput{Viewer: viewer, Text: "Trivia?", Platform: "discord", Sent: &sent}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if sent.Platform != "discord" || sent.Text != "Trivia?" {
		t.Fatalf("unexpected sent poll %+v", sent)
	}
}

func TestCommandsRequireService(t *testing.T) {
	ctx := context.Background()
	checks := []error{
		NewSelectTabCommand(nil, nil).Execute(ctx, SelectTabInput{Tab: intelligence.TabBots}),
		NewMeasureIndicatorCommand(nil, nil).Execute(ctx, MeasureIndicatorInput{}),
		NewReleaseMemberCommand(nil, nil).Execute(ctx, ReleaseMemberInput{MemberID: "m"}),
		NewAskCommand(nil, nil).Execute(ctx, AskInput{Text: "hi"}),
		NewTapSuggestionCommand(nil, nil).Execute(ctx, TapSuggestionInput{}),
		NewTogglePollCommand(nil, nil).Execute(ctx, TogglePollInput{}),
		NewSendPollCommand(nil, nil).Execute(ctx, SendPollInput{}),
	}
	for i, err := range checks {
		if err == nil {
			t.Fatalf("command %d accepted a nil service", i)
		}
	}
}

func TestCommandsAgainstService(t *testing.T) {
	service, err := intelligence.NewService(intelligence.Options{
		ChatSleep: func(ctx context.Context, _ time.Duration) error { return ctx.Err() },
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	defer service.Close()
	ctx := context.Background()

	if err := NewSelectTabCommand(service, nil).Execute(ctx, SelectTabInput{Viewer: viewer, Tab: intelligence.TabWilliam}); err != nil {
		t.Fatalf("select: %v", err)
	}
	var reply assistant.Message
	if err := NewTapSuggestionCommand(service, nil).Execute(ctx, TapSuggestionInput{Viewer: viewer, SuggestionID: "q-sponsors", Reply: &reply}); err != nil {
		t.Fatalf("tap: %v", err)
	}
	if reply.Role != assistant.RoleJarvis || reply.Content == "" {
		t.Fatalf("unexpected reply %+v", reply)
	}
	err = NewTogglePollCommand(service, nil).Execute(ctx, TogglePollInput{Viewer: viewer, PollID: "poll-venue"})
	if !errors.Is(err, intelligence.ErrTabInactive) {
		t.Fatalf("expected ErrTabInactive, got %v", err)
	}
}

type stubService struct {
	selected     intelligence.Tab
	measureCalls int
	member       string
	outcome      interaction.ReleaseOutcome
	reply        assistant.Message
	suggestion   string
	expanded     bool
}

func (s *stubService) SelectTab(_ context.Context, _ intelligence.ViewerContext, tab intelligence.Tab) (intelligence.TabView, error) {
	s.selected = tab
	return intelligence.TabView{Tab: tab, Generation: 2}, nil
}

func (s *stubService) MeasureIndicator(context.Context, intelligence.ViewerContext, map[string]interaction.Rect) (*intelligence.Indicator, error) {
	s.measureCalls++
	return nil, nil
}

func (s *stubService) ReleaseMember(_ context.Context, _ intelligence.ViewerContext, id string, _ float64) (interaction.ReleaseOutcome, error) {
	s.member = id
	return s.outcome, nil
}

func (s *stubService) Ask(context.Context, intelligence.ViewerContext, string) (assistant.Message, error) {
	return s.reply, nil
}

func (s *stubService) TapSuggestion(_ context.Context, _ intelligence.ViewerContext, id string) (assistant.Message, error) {
	s.suggestion = id
	return s.reply, nil
}

func (s *stubService) TogglePoll(context.Context, intelligence.ViewerContext, string) (bool, error) {
	s.expanded = !s.expanded
	return s.expanded, nil
}

func (s *stubService) SendPoll(_ context.Context, _ intelligence.ViewerContext, text, platform string) (interaction.SentPoll, error) {
	return interaction.SentPoll{Text: text, Platform: platform}, nil
}

type stubTelemetry struct {
	calls int
}

func (s *stubTelemetry) Record(context.Context, string, map[string]any) {
	s.calls++
}
