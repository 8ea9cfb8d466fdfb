package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownTab        = errors.New("intelligence: unknown tab")
	ErrTabInactive       = errors.New("intelligence: tab is not active")
	ErrMemberNotFound    = errors.New("intelligence: member not found")
	ErrPollNotFound      = errors.New("intelligence: poll not found")
	ErrMissingViewer     = errors.New("intelligence: viewer context missing user id")
	ErrInvalidDataset    = errors.New("intelligence: invalid dataset")
	ErrInvalidDefinition = errors.New("intelligence: widget definition code is required")
)

// Tab identifies one of the dashboards in the shell.
type Tab string

const (
	TabOperator  Tab = "operator"
	TabSponsor   Tab = "sponsor"
	TabDiscourse Tab = "discourse"
	TabBots      Tab = "bots"
	TabWilliam   Tab = "william"
)

var tabOrder = []Tab{TabOperator, TabSponsor, TabDiscourse, TabBots, TabWilliam}

var tabTitles = map[Tab]string{
	TabOperator:  "Operator",
	TabSponsor:   "Sponsors",
	TabDiscourse: "Discourse",
	TabBots:      "Bot Command",
	TabWilliam:   "Ask William",
}

// Tabs returns every tab in display order.
func Tabs() []Tab {
	return append([]Tab(nil), tabOrder...)
}

// ParseTab accepts a tab name in any case.
func ParseTab(value string) (Tab, error) {
	tab := Tab(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := tabTitles[tab]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTab, value)
	}
	return tab, nil
}

// Title is the tab's label in the pill bar.
func (t Tab) Title() string {
	return tabTitles[t]
}

// ViewerContext identifies whose workspace a request operates on.
type ViewerContext struct {
	UserID string
	Locale string
}

// WidgetDefinition describes a widget kind and its configuration schema.
type WidgetDefinition struct {
	Code        string
	Name        string
	Description string
	Template    string
	Schema      map[string]any
	Category    string
}

// WidgetInstance is a placed widget with its configuration.
type WidgetInstance struct {
	ID            string         `json:"id" yaml:"id"`
	DefinitionID  string         `json:"definition" yaml:"definition"`
	Configuration map[string]any `json:"configuration,omitempty" yaml:"configuration,omitempty"`
}

// WidgetView is a resolved widget ready for a template or JSON client.
type WidgetView struct {
	ID       string     `json:"id"`
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	Template string     `json:"template"`
	Data     WidgetData `json:"data,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// TabLink is one pill of the tab bar.
type TabLink struct {
	Tab    Tab    `json:"tab"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

// TabView is the mounted state of the active tab.
type TabView struct {
	Tab        Tab          `json:"tab"`
	Title      string       `json:"title"`
	Generation uint64       `json:"generation"`
	Tabs       []TabLink    `json:"tabs"`
	Indicator  *Indicator   `json:"indicator,omitempty"`
	Widgets    []WidgetView `json:"widgets"`
}

// Indicator is the sliding pill position under the active tab.
type Indicator struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// EventKind names what changed in a workspace.
type EventKind string

const (
	EventTabSelected     EventKind = "tab.selected"
	EventMemberDismissed EventKind = "member.dismissed"
	EventChatMessage     EventKind = "chat.message"
	EventPollToggled     EventKind = "poll.toggled"
	EventPollSent        EventKind = "poll.sent"
)

// DashboardEvent describes changes that transports might care about.
type DashboardEvent struct {
	Kind       EventKind `json:"kind"`
	UserID     string    `json:"user_id"`
	Tab        Tab       `json:"tab"`
	Generation uint64    `json:"generation"`
	Subject    string    `json:"subject,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	At         time.Time `json:"at"`
}

// RefreshHook notifies transports (WebSocket/SSE) about workspace changes.
type RefreshHook interface {
	DashboardUpdated(ctx context.Context, event DashboardEvent) error
}

type noopRefreshHook struct{}

func (noopRefreshHook) DashboardUpdated(context.Context, DashboardEvent) error { return nil }
