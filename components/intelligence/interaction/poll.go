package interaction

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSentBannerTTL is how long the "sent" confirmation stays visible.
const DefaultSentBannerTTL = 2 * time.Second

var (
	ErrEmptyPoll       = errors.New("interaction: poll text is required")
	ErrUnknownPlatform = errors.New("interaction: unknown platform")
)

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn after d. time.AfterFunc satisfies it through SystemScheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, fn func()) Timer

func (f SchedulerFunc) AfterFunc(d time.Duration, fn func()) Timer {
	return f(d, fn)
}

// SystemScheduler uses wall-clock timers.
var SystemScheduler Scheduler = SchedulerFunc(func(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
})

// SentPoll is what a simulated send produced.
type SentPoll struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	Platform string    `json:"platform"`
	SentAt   time.Time `json:"sent_at"`
}

// ComposerState is a snapshot for rendering.
type ComposerState struct {
	Text      string    `json:"text"`
	Platform  string    `json:"platform"`
	Platforms []string  `json:"platforms"`
	Indicator *Rect     `json:"indicator,omitempty"`
	Sent      bool      `json:"sent"`
	LastSent  *SentPoll `json:"last_sent,omitempty"`
}

// ComposerOption customises a PollComposer.
type ComposerOption func(*PollComposer)

// WithScheduler replaces the timer source.
func WithScheduler(s Scheduler) ComposerOption {
	return func(c *PollComposer) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithBannerTTL overrides how long the sent banner is shown.
func WithBannerTTL(d time.Duration) ComposerOption {
	return func(c *PollComposer) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithNow replaces the clock used for SentAt.
func WithNow(now func() time.Time) ComposerOption {
	return func(c *PollComposer) {
		if now != nil {
			c.now = now
		}
	}
}

// PollComposer simulates drafting and sending a poll. Nothing leaves the process.
type PollComposer struct {
	mu        sync.Mutex
	platforms []string
	indicator *SlidingIndicator
	scheduler Scheduler
	ttl       time.Duration
	now       func() time.Time

	text     string
	platform string
	sent     bool
	lastSent *SentPoll
	pending  Timer
	gen      uint64
	closed   bool
}

// NewPollComposer starts with the first platform selected.
func NewPollComposer(platforms []string, opts ...ComposerOption) *PollComposer {
	c := &PollComposer{
		platforms: append([]string(nil), platforms...),
		indicator: NewSlidingIndicator(),
		scheduler: SystemScheduler,
		ttl:       DefaultSentBannerTTL,
		now:       time.Now,
	}
	if len(c.platforms) > 0 {
		c.platform = c.platforms[0]
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Indicator exposes the platform selector's measurements.
func (c *PollComposer) Indicator() *SlidingIndicator {
	return c.indicator
}

// SetText updates the draft.
func (c *PollComposer) SetText(text string) {
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
}

// SelectPlatform switches the target platform.
func (c *PollComposer) SelectPlatform(platform string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.platforms {
		if p == platform {
			c.platform = p
			return nil
		}
	}
	return ErrUnknownPlatform
}

// Send records the draft, clears the input and shows the banner until the TTL elapses.
// A second send restarts the TTL.
func (c *PollComposer) Send() (SentPoll, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text := strings.TrimSpace(c.text)
	if text == "" {
		return SentPoll{}, ErrEmptyPoll
	}
	poll := SentPoll{ID: uuid.NewString(), Text: text, Platform: c.platform, SentAt: c.now()}
	c.lastSent = &poll
	c.text = ""
	c.sent = true
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.gen++
	if !c.closed {
		gen := c.gen
		c.pending = c.scheduler.AfterFunc(c.ttl, func() { c.clearBanner(gen) })
	}
	return poll, nil
}

func (c *PollComposer) clearBanner(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.gen != gen {
		return
	}
	c.sent = false
	c.pending = nil
}

// State returns a snapshot of the composer.
func (c *PollComposer) State() ComposerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := ComposerState{
		Text:      c.text,
		Platform:  c.platform,
		Platforms: append([]string(nil), c.platforms...),
		Sent:      c.sent,
	}
	if c.lastSent != nil {
		sent := *c.lastSent
		state.LastSent = &sent
	}
	if r, ok := c.indicator.Position(c.platform); ok {
		state.Indicator = &r
	}
	return state
}

// Close stops a pending banner clear. The composer is unusable for timers afterwards.
func (c *PollComposer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}
