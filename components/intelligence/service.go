package intelligence

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-intelligence/components/intelligence/assistant"
	"github.com/goliatone/go-intelligence/components/intelligence/interaction"
)

const (
	defaultFetchConcurrency = 4
	defaultMaxWorkspaces    = 256
)

// Options configures the intelligence Service. Every collaborator is provided
// via interface so hosts can swap implementations.
type Options struct {
	Dataset          *Dataset
	Providers        ProviderRegistry
	ConfigValidator  ConfigValidator
	RefreshHook      RefreshHook
	Telemetry        Telemetry
	Charts           ChartRenderer
	FetchConcurrency int
	MaxWorkspaces    int
	InitialTab       Tab

	ChatMinDelay time.Duration
	ChatMaxDelay time.Duration
	ChatSleep    assistant.SleepFunc
	Scheduler    interaction.Scheduler
	Now          func() time.Time
}

// Service orchestrates per-viewer workspaces on top of a dataset.
type Service struct {
	opts      Options
	responder *assistant.Responder

	mu         sync.Mutex
	workspaces *lru.Cache[string, *Workspace]
}

// NewService builds a Service instance with safe defaults. It fails when the
// dataset's assistant script cannot be built.
func NewService(opts Options) (*Service, error) {
	if opts.Dataset == nil {
		opts.Dataset = DefaultDataset()
	}
	if opts.Providers == nil {
		opts.Providers = NewRegistry()
	}
	if opts.ConfigValidator == nil {
		opts.ConfigValidator = NewJSONSchemaValidator()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.FetchConcurrency <= 0 {
		opts.FetchConcurrency = defaultFetchConcurrency
	}
	if opts.MaxWorkspaces <= 0 {
		opts.MaxWorkspaces = defaultMaxWorkspaces
	}
	if opts.InitialTab == "" {
		opts.InitialTab = TabOperator
	}
	if _, err := ParseTab(string(opts.InitialTab)); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	script, err := opts.Dataset.Assistant.Script()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	workspaces, err := lru.NewWithEvict(opts.MaxWorkspaces, func(_ string, ws *Workspace) {
		ws.Close()
	})
	if err != nil {
		return nil, err
	}
	return &Service{
		opts:       opts,
		responder:  assistant.NewResponder(script),
		workspaces: workspaces,
	}, nil
}

// Dataset exposes the data the service renders.
func (s *Service) Dataset() *Dataset {
	return s.opts.Dataset
}

// Definitions lists the registered widget definitions.
func (s *Service) Definitions() []WidgetDefinition {
	return s.opts.Providers.Definitions()
}

// Workspace returns the viewer's workspace, mounting the initial tab on first use.
func (s *Service) Workspace(viewer ViewerContext) (*Workspace, error) {
	if viewer.UserID == "" {
		return nil, ErrMissingViewer
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ws, ok := s.workspaces.Get(viewer.UserID); ok {
		return ws, nil
	}
	ws := &Workspace{
		Viewer:   viewer,
		TabShell: NewTabShell(s.opts.InitialTab, s.mount()),
	}
	s.workspaces.Add(viewer.UserID, ws)
	return ws, nil
}

// ResolveTab fetches every widget of the viewer's active tab. Provider failures
// are reported through telemetry and leave the widget without data.
func (s *Service) ResolveTab(ctx context.Context, viewer ViewerContext) (TabView, error) {
	ws, err := s.Workspace(viewer)
	if err != nil {
		return TabView{}, err
	}
	state := ws.State()
	if state == nil {
		return TabView{}, fmt.Errorf("intelligence: workspace for %s is closed", viewer.UserID)
	}
	layout := s.layoutFor(state.Tab)
	widgets := make([]WidgetView, len(layout))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(s.opts.FetchConcurrency)
	for i, inst := range layout {
		group.Go(func() error {
			widgets[i] = s.fetchWidget(gctx, viewer, state, inst)
			return nil
		})
	}
	_ = group.Wait()
	if err := ctx.Err(); err != nil {
		return TabView{}, err
	}

	view := s.tabView(ws, state)
	view.Widgets = widgets
	s.recordTelemetry(ctx, "intelligence.tab.resolve", map[string]any{
		"viewer":  viewer.UserID,
		"tab":     string(state.Tab),
		"widgets": len(widgets),
	})
	return view, nil
}

// SelectTab switches the viewer to tab and returns the freshly mounted view.
// Selecting the active tab returns the current view without remounting.
func (s *Service) SelectTab(ctx context.Context, viewer ViewerContext, tab Tab) (TabView, error) {
	if _, err := ParseTab(string(tab)); err != nil {
		return TabView{}, err
	}
	ws, err := s.Workspace(viewer)
	if err != nil {
		return TabView{}, err
	}
	state, changed := ws.Select(tab)
	if changed {
		if err := s.notify(ctx, viewer, state, EventTabSelected, string(tab), nil); err != nil {
			return TabView{}, err
		}
		s.recordTelemetry(ctx, "intelligence.tab.select", map[string]any{
			"viewer":     viewer.UserID,
			"tab":        string(tab),
			"generation": state.Generation,
		})
	}
	return s.ResolveTab(ctx, viewer)
}

// MeasureIndicator stores the measured tab pill rectangles and returns the
// indicator position for the active tab, when known.
func (s *Service) MeasureIndicator(_ context.Context, viewer ViewerContext, rects map[string]interaction.Rect) (*Indicator, error) {
	ws, err := s.Workspace(viewer)
	if err != nil {
		return nil, err
	}
	ws.Indicator().Measure(rects)
	indicator, _ := ws.IndicatorPosition()
	return indicator, nil
}

// ReleaseMember applies a drag release to a member card on the active tab.
// The operator tab lists at-risk members and the bots tab lists bot members.
func (s *Service) ReleaseMember(ctx context.Context, viewer ViewerContext, memberID string, offsetX float64) (interaction.ReleaseOutcome, error) {
	ws, err := s.Workspace(viewer)
	if err != nil {
		return "", err
	}
	state := ws.State()
	var outcome interaction.ReleaseOutcome
	switch {
	case state != nil && state.AtRisk != nil:
		if !s.hasAtRisk(memberID) {
			return "", fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
		}
		outcome = state.AtRisk.Release(memberID, offsetX)
	case state != nil && state.BotMembers != nil:
		if !s.hasBotMember(memberID) {
			return "", fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
		}
		outcome = state.BotMembers.Release(memberID, offsetX)
	default:
		return "", fmt.Errorf("%w: no member list on %s", ErrTabInactive, ws.Active())
	}
	if outcome == interaction.OutcomeDismiss {
		if err := s.notify(ctx, viewer, state, EventMemberDismissed, memberID, nil); err != nil {
			return outcome, err
		}
	}
	s.recordTelemetry(ctx, "intelligence.member.release", map[string]any{
		"viewer":   viewer.UserID,
		"member":   memberID,
		"offset_x": offsetX,
		"outcome":  string(outcome),
	})
	return outcome, nil
}

// Ask sends a question to the assistant on the william tab and returns the reply.
func (s *Service) Ask(ctx context.Context, viewer ViewerContext, text string) (assistant.Message, error) {
	return s.chat(ctx, viewer, "ask", func(chat *assistant.Session) (assistant.Message, error) {
		return chat.Ask(ctx, text)
	})
}

// TapSuggestion asks a suggested question and retires its pill.
func (s *Service) TapSuggestion(ctx context.Context, viewer ViewerContext, suggestionID string) (assistant.Message, error) {
	return s.chat(ctx, viewer, "suggestion", func(chat *assistant.Session) (assistant.Message, error) {
		return chat.TapSuggestion(ctx, suggestionID)
	})
}

func (s *Service) chat(ctx context.Context, viewer ViewerContext, via string, ask func(*assistant.Session) (assistant.Message, error)) (assistant.Message, error) {
	ws, err := s.Workspace(viewer)
	if err != nil {
		return assistant.Message{}, err
	}
	state := ws.State()
	if state == nil || state.Chat == nil {
		return assistant.Message{}, fmt.Errorf("%w: chat lives on %s", ErrTabInactive, TabWilliam)
	}
	reply, err := ask(state.Chat)
	if err != nil {
		return assistant.Message{}, err
	}
	if err := s.notify(ctx, viewer, state, EventChatMessage, reply.ID, reply); err != nil {
		return reply, err
	}
	s.recordTelemetry(ctx, "intelligence.chat."+via, map[string]any{
		"viewer":   viewer.UserID,
		"messages": len(state.Chat.Messages()),
	})
	return reply, nil
}

// TogglePoll expands or collapses a poll on the bots tab and reports the new state.
func (s *Service) TogglePoll(ctx context.Context, viewer ViewerContext, pollID string) (bool, error) {
	state, err := s.botsState(viewer)
	if err != nil {
		return false, err
	}
	if _, ok := s.opts.Dataset.Poll(pollID); !ok {
		return false, fmt.Errorf("%w: %s", ErrPollNotFound, pollID)
	}
	expanded := state.Polls.Toggle(pollID)
	if err := s.notify(ctx, viewer, state, EventPollToggled, pollID, map[string]any{"expanded": expanded}); err != nil {
		return expanded, err
	}
	s.recordTelemetry(ctx, "intelligence.poll.toggle", map[string]any{
		"viewer":   viewer.UserID,
		"poll":     pollID,
		"expanded": expanded,
	})
	return expanded, nil
}

// SendPoll submits the composer draft. An empty platform keeps the current selection.
func (s *Service) SendPoll(ctx context.Context, viewer ViewerContext, text, platform string) (interaction.SentPoll, error) {
	state, err := s.botsState(viewer)
	if err != nil {
		return interaction.SentPoll{}, err
	}
	if platform != "" {
		if err := state.Composer.SelectPlatform(platform); err != nil {
			return interaction.SentPoll{}, fmt.Errorf("%w: %s", err, platform)
		}
	}
	state.Composer.SetText(text)
	sent, err := state.Composer.Send()
	if err != nil {
		return interaction.SentPoll{}, err
	}
	if err := s.notify(ctx, viewer, state, EventPollSent, sent.Platform, sent); err != nil {
		return sent, err
	}
	s.recordTelemetry(ctx, "intelligence.poll.send", map[string]any{
		"viewer":   viewer.UserID,
		"platform": sent.Platform,
	})
	return sent, nil
}

// ValidateLayouts checks every placed widget against its definition schema.
func (s *Service) ValidateLayouts() error {
	for _, tab := range Tabs() {
		for _, inst := range s.layoutFor(tab) {
			def, ok := s.opts.Providers.Definition(inst.DefinitionID)
			if !ok {
				return fmt.Errorf("intelligence: %s widget %s: definition %s not found", tab, inst.ID, inst.DefinitionID)
			}
			if err := s.opts.ConfigValidator.Validate(def, inst.Configuration); err != nil {
				return fmt.Errorf("intelligence: %s widget %s: %w", tab, inst.ID, err)
			}
		}
	}
	return nil
}

// Close unmounts every workspace.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces.Purge()
}

func (s *Service) mount() MountFunc {
	ds := s.opts.Dataset
	return func(tab Tab, generation uint64) *TabState {
		state := &TabState{Tab: tab, Generation: generation}
		switch tab {
		case TabOperator:
			state.AtRisk = interaction.NewDismissList(ds.Operator.AtRisk,
				func(m AtRiskMember) string { return m.ID }, interaction.DefaultDragGesture())
		case TabBots:
			state.BotMembers = interaction.NewDismissList(ds.Bots.Members,
				func(m BotMember) string { return m.ID }, interaction.DefaultDragGesture())
			state.Polls = interaction.NewAccordion()
			state.Composer = interaction.NewPollComposer(ds.PollPlatforms(),
				interaction.WithScheduler(s.opts.Scheduler),
				interaction.WithNow(s.opts.Now),
			)
		case TabWilliam:
			state.Chat = assistant.NewSession(assistant.Options{
				Responder: s.responder,
				MinDelay:  s.opts.ChatMinDelay,
				MaxDelay:  s.opts.ChatMaxDelay,
				Sleep:     s.opts.ChatSleep,
				Now:       s.opts.Now,
			})
		}
		return state
	}
}

func (s *Service) botsState(viewer ViewerContext) (*TabState, error) {
	ws, err := s.Workspace(viewer)
	if err != nil {
		return nil, err
	}
	state := ws.State()
	if state == nil || state.Polls == nil || state.Composer == nil {
		return nil, fmt.Errorf("%w: polls live on %s", ErrTabInactive, TabBots)
	}
	return state, nil
}

func (s *Service) layoutFor(tab Tab) []WidgetInstance {
	if layout, ok := s.opts.Dataset.Layouts[tab]; ok {
		return layout
	}
	return DefaultTabLayouts()[tab]
}

func (s *Service) fetchWidget(ctx context.Context, viewer ViewerContext, state *TabState, inst WidgetInstance) WidgetView {
	view := WidgetView{ID: inst.ID, Code: inst.DefinitionID}
	def, ok := s.opts.Providers.Definition(inst.DefinitionID)
	if !ok {
		view.Error = fmt.Sprintf("widget definition %s not found", inst.DefinitionID)
		return view
	}
	view.Name = def.Name
	view.Template = def.Template
	if err := s.opts.ConfigValidator.Validate(def, inst.Configuration); err != nil {
		s.recordTelemetry(ctx, "intelligence.widget.config_error", map[string]any{
			"definition_id": inst.DefinitionID,
			"error":         err.Error(),
		})
		view.Error = err.Error()
		return view
	}
	provider, ok := s.opts.Providers.Provider(inst.DefinitionID)
	if !ok || provider == nil {
		return view
	}
	data, err := provider.Fetch(ctx, WidgetContext{
		Instance: inst,
		Viewer:   viewer,
		Tab:      state.Tab,
		Dataset:  s.opts.Dataset,
		State:    state,
		Charts:   s.opts.Charts,
	})
	if err != nil {
		s.recordTelemetry(ctx, "intelligence.widget.provider_error", map[string]any{
			"definition_id": inst.DefinitionID,
			"error":         err.Error(),
		})
		view.Error = err.Error()
		return view
	}
	view.Data = data
	return view
}

func (s *Service) tabView(ws *Workspace, state *TabState) TabView {
	view := TabView{
		Tab:        state.Tab,
		Title:      state.Tab.Title(),
		Generation: state.Generation,
		Tabs:       make([]TabLink, 0, len(tabOrder)),
	}
	for _, tab := range tabOrder {
		view.Tabs = append(view.Tabs, TabLink{Tab: tab, Title: tab.Title(), Active: tab == state.Tab})
	}
	if indicator, ok := ws.IndicatorPosition(); ok {
		view.Indicator = indicator
	}
	return view
}

func (s *Service) hasAtRisk(id string) bool {
	for _, m := range s.opts.Dataset.Operator.AtRisk {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (s *Service) hasBotMember(id string) bool {
	for _, m := range s.opts.Dataset.Bots.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (s *Service) notify(ctx context.Context, viewer ViewerContext, state *TabState, kind EventKind, subject string, payload any) error {
	return s.opts.RefreshHook.DashboardUpdated(ctx, DashboardEvent{
		Kind:       kind,
		UserID:     viewer.UserID,
		Tab:        state.Tab,
		Generation: state.Generation,
		Subject:    subject,
		Payload:    payload,
		At:         s.opts.Now(),
	})
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}
