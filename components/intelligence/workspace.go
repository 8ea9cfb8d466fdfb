package intelligence

import (
	"sync"

	"github.com/goliatone/go-intelligence/components/intelligence/assistant"
	"github.com/goliatone/go-intelligence/components/intelligence/interaction"
)

// TabState is the local state of a mounted tab. It is discarded on every tab
// switch, so dismissed members, chat threads and poll drafts reset when the
// viewer navigates away and back. Only the fields used by the tab are set.
type TabState struct {
	Tab        Tab
	Generation uint64

	AtRisk     *interaction.DismissList[AtRiskMember]
	BotMembers *interaction.DismissList[BotMember]
	Polls      *interaction.Accordion
	Composer   *interaction.PollComposer
	Chat       *assistant.Session
}

func (s *TabState) close() {
	if s == nil {
		return
	}
	if s.Chat != nil {
		s.Chat.Close()
	}
	if s.Composer != nil {
		s.Composer.Close()
	}
}

// MountFunc builds fresh state for a tab.
type MountFunc func(tab Tab, generation uint64) *TabState

// TabShell holds the active tab and its mounted state.
type TabShell struct {
	mu         sync.Mutex
	active     Tab
	generation uint64
	state      *TabState
	indicator  *interaction.SlidingIndicator
	mount      MountFunc
}

// NewTabShell mounts initial immediately.
func NewTabShell(initial Tab, mount MountFunc) *TabShell {
	if mount == nil {
		mount = func(tab Tab, gen uint64) *TabState { return &TabState{Tab: tab, Generation: gen} }
	}
	s := &TabShell{
		active:     initial,
		generation: 1,
		indicator:  interaction.NewSlidingIndicator(),
		mount:      mount,
	}
	s.state = mount(initial, s.generation)
	return s
}

// Active returns the selected tab.
func (s *TabShell) Active() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// State returns the mounted tab's state.
func (s *TabShell) State() *TabState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Select switches to tab and remounts it. Selecting the active tab is a no-op
// and reports false.
func (s *TabShell) Select(tab Tab) (*TabState, bool) {
	s.mu.Lock()
	if tab == s.active {
		state := s.state
		s.mu.Unlock()
		return state, false
	}
	old := s.state
	s.generation++
	s.active = tab
	s.state = s.mount(tab, s.generation)
	state := s.state
	s.mu.Unlock()
	old.close()
	return state, true
}

// Indicator exposes the tab bar measurements.
func (s *TabShell) Indicator() *interaction.SlidingIndicator {
	return s.indicator
}

// IndicatorPosition is the pill position for the active tab, if measured.
func (s *TabShell) IndicatorPosition() (*Indicator, bool) {
	r, ok := s.indicator.Position(string(s.Active()))
	if !ok {
		return nil, false
	}
	return &Indicator{Left: r.Left, Width: r.Width}, true
}

// Close releases the mounted state.
func (s *TabShell) Close() {
	s.mu.Lock()
	old := s.state
	s.state = nil
	s.mu.Unlock()
	old.close()
}

// Workspace is one viewer's dashboard session.
type Workspace struct {
	Viewer ViewerContext
	*TabShell
}
