package assistant

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrTyping is returned while a previous question is still being answered.
	ErrTyping = errors.New("assistant: response in progress")
	// ErrEmptyMessage rejects blank input.
	ErrEmptyMessage = errors.New("assistant: message text is required")
	// ErrSuggestionNotFound is returned for an unknown suggested question id.
	ErrSuggestionNotFound = errors.New("assistant: suggestion not found")
	// ErrSuggestionUsed is returned when a suggestion pill was already tapped.
	ErrSuggestionUsed = errors.New("assistant: suggestion already used")
	// ErrClosed is returned once the session has been closed.
	ErrClosed = errors.New("assistant: session closed")
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser   Role = "user"
	RoleJarvis Role = "jarvis"
)

// Message is a single entry in the append-only thread.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
	Cards     []DataCard
}

// MarshalJSON renders cards through RenderCard so clients get a tagged shape.
func (m Message) MarshalJSON() ([]byte, error) {
	views := make([]CardView, 0, len(m.Cards))
	for _, card := range m.Cards {
		view, err := RenderCard(card)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return json.Marshal(struct {
		ID        string     `json:"id"`
		Role      Role       `json:"role"`
		Content   string     `json:"content"`
		Timestamp time.Time  `json:"timestamp"`
		Cards     []CardView `json:"cards,omitempty"`
	}{m.ID, m.Role, m.Content, m.Timestamp, views})
}

// SuggestedQuestion is a tappable prompt pill.
type SuggestedQuestion struct {
	ID       string `json:"id" yaml:"id"`
	Text     string `json:"text" yaml:"text"`
	Category string `json:"category" yaml:"category"`
}

// Response is a canned answer with optional data cards.
type Response struct {
	Content string
	Cards   []DataCard
}

// MatchKind records which resolution rule produced a response.
type MatchKind string

const (
	MatchExact    MatchKind = "exact"
	MatchFuzzy    MatchKind = "fuzzy"
	MatchFallback MatchKind = "fallback"
)
