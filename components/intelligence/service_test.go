package intelligence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-intelligence/components/intelligence/assistant"
	"github.com/goliatone/go-intelligence/components/intelligence/charts"
	"github.com/goliatone/go-intelligence/components/intelligence/interaction"
)

func instantSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()
	if opts.ChatSleep == nil {
		opts.ChatSleep = instantSleep
	}
	svc, err := NewService(opts)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func widgetByCode(t *testing.T, view TabView, code string) WidgetView {
	t.Helper()
	for _, w := range view.Widgets {
		if w.Code == code {
			return w
		}
	}
	t.Fatalf("widget %s not found in %s view", code, view.Tab)
	return WidgetView{}
}

func TestResolveTabOperatorEndToEnd(t *testing.T) {
	svc := newTestService(t, Options{})
	viewer := ViewerContext{UserID: "operator-1"}

	view, err := svc.ResolveTab(context.Background(), viewer)
	if err != nil {
		t.Fatalf("ResolveTab returned error: %v", err)
	}
	if view.Tab != TabOperator || view.Generation != 1 {
		t.Fatalf("expected operator generation 1, got %s/%d", view.Tab, view.Generation)
	}
	if len(view.Widgets) != len(DefaultTabLayouts()[TabOperator]) {
		t.Fatalf("expected every operator widget, got %d", len(view.Widgets))
	}

	health := widgetByCode(t, view, WidgetOperatorHealth)
	radial, ok := health.Data["radial"].(charts.RadialScore)
	if !ok {
		t.Fatalf("expected radial score, got %T", health.Data["radial"])
	}
	assert.Equal(t, "82", radial.Display)
	assert.Equal(t, "+5%", radial.Trend.Text)
	assert.Equal(t, charts.TonePositive, radial.Trend.Tone)
	assert.Equal(t, "82", health.Data["center"].(charts.RadialCenter).Score)

	engagement := widgetByCode(t, view, WidgetOperatorEngagement)
	heatmap := engagement.Data["heatmap"].(charts.Heatmap)
	assert.Equal(t, 4, heatmap.Rows)
	assert.Len(t, heatmap.Cells, 28)

	links := 0
	for _, link := range view.Tabs {
		if link.Active {
			links++
			assert.Equal(t, TabOperator, link.Tab)
		}
	}
	assert.Equal(t, 1, links)
}

func TestResolveTabSponsorDonutLabels(t *testing.T) {
	svc := newTestService(t, Options{})
	viewer := ViewerContext{UserID: "sponsor-1"}

	view, err := svc.SelectTab(context.Background(), viewer, TabSponsor)
	require.NoError(t, err)

	revenue := widgetByCode(t, view, WidgetSponsorRevenue)
	require.Empty(t, revenue.Error)
	center := revenue.Data["center"].(charts.DonutCenter)
	assert.Equal(t, "$100,000", center.Value)
	hover := revenue.Data["hover"].([]charts.DonutCenter)
	require.Len(t, hover, 3)
	assert.Equal(t, "$25,000 / Sponsorship / 25%", hover[1].String())

	donut := revenue.Data["donut"].(charts.Donut)
	assert.InDelta(t, 100, donut.CumulativePercent, 1e-9)
}

func TestSelectTabRemountResetsDismissals(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	viewer := ViewerContext{UserID: "remount"}

	outcome, err := svc.ReleaseMember(ctx, viewer, "m-maya", 121)
	require.NoError(t, err)
	require.Equal(t, interaction.OutcomeDismiss, outcome)

	view, err := svc.ResolveTab(ctx, viewer)
	require.NoError(t, err)
	atRisk := widgetByCode(t, view, WidgetOperatorAtRisk)
	assert.Equal(t, 2, atRisk.Data["remaining"])

	_, err = svc.SelectTab(ctx, viewer, TabSponsor)
	require.NoError(t, err)
	view, err = svc.SelectTab(ctx, viewer, TabOperator)
	require.NoError(t, err)

	assert.Equal(t, uint64(3), view.Generation)
	atRisk = widgetByCode(t, view, WidgetOperatorAtRisk)
	assert.Equal(t, 3, atRisk.Data["remaining"])
}

func TestSelectActiveTabDoesNotRemount(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	viewer := ViewerContext{UserID: "same-tab"}

	_, err := svc.ReleaseMember(ctx, viewer, "m-jordan", 200)
	require.NoError(t, err)
	view, err := svc.SelectTab(ctx, viewer, TabOperator)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), view.Generation)
	assert.Equal(t, 2, widgetByCode(t, view, WidgetOperatorAtRisk).Data["remaining"])
}

func TestReleaseMemberBelowThresholdSpringsBack(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	viewer := ViewerContext{UserID: "spring"}

	outcome, err := svc.ReleaseMember(ctx, viewer, "m-maya", 119)
	require.NoError(t, err)
	assert.Equal(t, interaction.OutcomeSpringBack, outcome)

	_, err = svc.ReleaseMember(ctx, viewer, "nobody", 300)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	_, err = svc.ReleaseMember(ctx, viewer, "m-maya", 121)
	require.NoError(t, err)
	outcome, err = svc.ReleaseMember(ctx, viewer, "m-maya", 500)
	require.NoError(t, err)
	assert.Equal(t, interaction.OutcomeIgnored, outcome)
}

func TestReleaseMemberRequiresMemberTab(t *testing.T) {
	svc := newTestService(t, Options{InitialTab: TabDiscourse})
	_, err := svc.ReleaseMember(context.Background(), ViewerContext{UserID: "u"}, "m-maya", 200)
	assert.ErrorIs(t, err, ErrTabInactive)
}

func TestChatRequiresWilliamTab(t *testing.T) {
	svc := newTestService(t, Options{})
	_, err := svc.Ask(context.Background(), ViewerContext{UserID: "u"}, "hello")
	if !errors.Is(err, ErrTabInactive) {
		t.Fatalf("expected ErrTabInactive, got %v", err)
	}
}

func TestAskReturnsScriptedResponse(t *testing.T) {
	hook := NewBroadcastHook()
	events, cancel := hook.Subscribe("chat-user")
	defer cancel()

	svc := newTestService(t, Options{InitialTab: TabWilliam, RefreshHook: hook})
	ctx := context.Background()
	viewer := ViewerContext{UserID: "chat-user"}
	question := assistant.DefaultScript().Suggestions[0]

	reply, err := svc.Ask(ctx, viewer, question.Text)
	require.NoError(t, err)
	want, _ := assistant.NewResponder(assistant.DefaultScript()).Resolve(question.Text)
	assert.Equal(t, assistant.RoleJarvis, reply.Role)
	assert.Equal(t, want.Content, reply.Content)

	select {
	case event := <-events:
		assert.Equal(t, EventChatMessage, event.Kind)
		assert.Equal(t, reply.ID, event.Subject)
	default:
		t.Fatalf("expected chat event")
	}

	view, err := svc.ResolveTab(ctx, viewer)
	require.NoError(t, err)
	chat := widgetByCode(t, view, WidgetWilliamChat)
	messages := chat.Data["messages"].([]ChatMessageView)
	require.Len(t, messages, 2)
	assert.Equal(t, assistant.RoleUser, messages[0].Role)
}

func TestTapSuggestionConsumesPill(t *testing.T) {
	svc := newTestService(t, Options{InitialTab: TabWilliam})
	ctx := context.Background()
	viewer := ViewerContext{UserID: "tapper"}

	_, err := svc.TapSuggestion(ctx, viewer, "q-churn")
	require.NoError(t, err)
	_, err = svc.TapSuggestion(ctx, viewer, "q-churn")
	assert.ErrorIs(t, err, assistant.ErrSuggestionUsed)

	view, err := svc.ResolveTab(ctx, viewer)
	require.NoError(t, err)
	suggestions := widgetByCode(t, view, WidgetWilliamChat).Data["suggestions"].([]assistant.SuggestedQuestion)
	for _, q := range suggestions {
		assert.NotEqual(t, "q-churn", q.ID)
	}
	assert.Len(t, suggestions, len(assistant.DefaultScript().Suggestions)-1)
}

func TestTogglePollExpandsBars(t *testing.T) {
	svc := newTestService(t, Options{InitialTab: TabBots})
	ctx := context.Background()
	viewer := ViewerContext{UserID: "bots"}

	_, err := svc.TogglePoll(ctx, viewer, "poll-missing")
	assert.ErrorIs(t, err, ErrPollNotFound)

	expanded, err := svc.TogglePoll(ctx, viewer, "poll-venue")
	require.NoError(t, err)
	assert.True(t, expanded)

	view, err := svc.ResolveTab(ctx, viewer)
	require.NoError(t, err)
	polls := widgetByCode(t, view, WidgetBotsPolls).Data["polls"].([]PollView)
	require.NotEmpty(t, polls)
	assert.True(t, polls[0].Expanded)
	require.NotNil(t, polls[0].Bars)
	assert.True(t, polls[0].Bars.Bars[0].Leader)
	assert.Nil(t, polls[1].Bars)
}

type manualScheduler struct {
	mu      sync.Mutex
	pending []func()
}

type manualTimer struct{}

func (manualTimer) Stop() bool { return true }

func (s *manualScheduler) AfterFunc(_ time.Duration, fn func()) interaction.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, fn)
	return manualTimer{}
}

func (s *manualScheduler) fireAll() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

func TestSendPollShowsBannerUntilCleared(t *testing.T) {
	scheduler := &manualScheduler{}
	svc := newTestService(t, Options{InitialTab: TabBots, Scheduler: scheduler})
	ctx := context.Background()
	viewer := ViewerContext{UserID: "composer"}

	_, err := svc.SendPoll(ctx, viewer, "   ", "")
	assert.ErrorIs(t, err, interaction.ErrEmptyPoll)
	_, err = svc.SendPoll(ctx, viewer, "Trivia night?", "myspace")
	assert.ErrorIs(t, err, interaction.ErrUnknownPlatform)

	sent, err := svc.SendPoll(ctx, viewer, "Trivia night?", "telegram")
	require.NoError(t, err)
	assert.Equal(t, "telegram", sent.Platform)

	view, err := svc.ResolveTab(ctx, viewer)
	require.NoError(t, err)
	state := widgetByCode(t, view, WidgetBotsComposer).Data["composer"].(interaction.ComposerState)
	assert.True(t, state.Sent)
	assert.Empty(t, state.Text)

	scheduler.fireAll()
	view, err = svc.ResolveTab(ctx, viewer)
	require.NoError(t, err)
	state = widgetByCode(t, view, WidgetBotsComposer).Data["composer"].(interaction.ComposerState)
	assert.False(t, state.Sent)
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingTelemetry) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

func TestResolveTabRecordsProviderErrors(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterProvider(WidgetOperatorHealth, ProviderFunc(func(context.Context, WidgetContext) (WidgetData, error) {
		return nil, errors.New("boom")
	})))
	telemetry := &recordingTelemetry{}
	svc := newTestService(t, Options{Providers: reg, Telemetry: telemetry})

	view, err := svc.ResolveTab(context.Background(), ViewerContext{UserID: "u"})
	require.NoError(t, err)
	health := widgetByCode(t, view, WidgetOperatorHealth)
	assert.Equal(t, "boom", health.Error)
	assert.Nil(t, health.Data)
	assert.NotEmpty(t, widgetByCode(t, view, WidgetOperatorMetrics).Data)
	assert.True(t, telemetry.has("intelligence.widget.provider_error"))
}

func TestResolveTabRejectsInvalidConfiguration(t *testing.T) {
	ds := DefaultDataset()
	ds.Layouts = map[Tab][]WidgetInstance{
		TabOperator: {{ID: "h", DefinitionID: WidgetOperatorHealth, Configuration: map[string]any{"colour": "red"}}},
	}
	telemetry := &recordingTelemetry{}
	svc := newTestService(t, Options{Dataset: ds, Telemetry: telemetry})

	view, err := svc.ResolveTab(context.Background(), ViewerContext{UserID: "u"})
	require.NoError(t, err)
	require.Len(t, view.Widgets, 1)
	assert.NotEmpty(t, view.Widgets[0].Error)
	assert.True(t, telemetry.has("intelligence.widget.config_error"))
	assert.Error(t, svc.ValidateLayouts())
}

func TestValidateLayoutsAcceptsDefaults(t *testing.T) {
	svc := newTestService(t, Options{})
	assert.NoError(t, svc.ValidateLayouts())
}

func TestWorkspaceRequiresViewer(t *testing.T) {
	svc := newTestService(t, Options{})
	_, err := svc.ResolveTab(context.Background(), ViewerContext{})
	assert.ErrorIs(t, err, ErrMissingViewer)
}

func TestWorkspaceEvictionClosesState(t *testing.T) {
	svc := newTestService(t, Options{MaxWorkspaces: 1})
	first, err := svc.Workspace(ViewerContext{UserID: "a"})
	require.NoError(t, err)
	_, err = svc.Workspace(ViewerContext{UserID: "b"})
	require.NoError(t, err)
	assert.Nil(t, first.State())
}

func TestSelectTabBroadcastsEvent(t *testing.T) {
	hook := NewBroadcastHook()
	events, cancel := hook.Subscribe("")
	defer cancel()
	svc := newTestService(t, Options{RefreshHook: hook})

	_, err := svc.SelectTab(context.Background(), ViewerContext{UserID: "u"}, TabDiscourse)
	require.NoError(t, err)
	select {
	case event := <-events:
		assert.Equal(t, EventTabSelected, event.Kind)
		assert.Equal(t, TabDiscourse, event.Tab)
		assert.Equal(t, uint64(2), event.Generation)
	default:
		t.Fatalf("expected tab event")
	}

	_, err = svc.SelectTab(context.Background(), ViewerContext{UserID: "u"}, Tab("settings"))
	assert.ErrorIs(t, err, ErrUnknownTab)
}

func TestMeasureIndicatorTracksActiveTab(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	viewer := ViewerContext{UserID: "u"}

	indicator, err := svc.MeasureIndicator(ctx, viewer, map[string]interaction.Rect{
		"operator": {Left: 4, Width: 90},
		"sponsor":  {Left: 98, Width: 80},
	})
	require.NoError(t, err)
	require.NotNil(t, indicator)
	assert.Equal(t, 4.0, indicator.Left)

	view, err := svc.SelectTab(ctx, viewer, TabSponsor)
	require.NoError(t, err)
	require.NotNil(t, view.Indicator)
	assert.Equal(t, 98.0, view.Indicator.Left)
	assert.Equal(t, 80.0, view.Indicator.Width)

	view, err = svc.SelectTab(ctx, viewer, TabBots)
	require.NoError(t, err)
	assert.Nil(t, view.Indicator)
}

func TestEveryTabResolvesWithoutErrors(t *testing.T) {
	svc := newTestService(t, Options{Charts: NewEChartsRenderer(WithChartCache(nil))})
	ctx := context.Background()
	viewer := ViewerContext{UserID: "tour"}
	for _, tab := range Tabs() {
		view, err := svc.SelectTab(ctx, viewer, tab)
		require.NoError(t, err)
		for _, w := range view.Widgets {
			assert.Empty(t, w.Error, "%s/%s", tab, w.ID)
		}
	}
}
