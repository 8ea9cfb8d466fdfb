package assistant

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMinDelay = 1200 * time.Millisecond
	DefaultMaxDelay = 2000 * time.Millisecond
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc backed by a timer.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	Responder *Responder
	MinDelay  time.Duration
	MaxDelay  time.Duration
	Sleep     SleepFunc
	Jitter    func() float64
	Now       func() time.Time
	NewID     func() string
	// OnMessage is called after a message is appended, outside the session lock.
	OnMessage func(Message)
}

// Session is one viewer's conversation. Only one question is answered at a time.
type Session struct {
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	messages []Message
	used     map[string]struct{}
	typing   bool
	closed   bool
}

// NewSession starts an idle session.
func NewSession(opts Options) *Session {
	if opts.Responder == nil {
		opts.Responder = NewResponder(DefaultScript())
	}
	if opts.MinDelay <= 0 {
		opts.MinDelay = DefaultMinDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = DefaultMaxDelay
	}
	if opts.MaxDelay < opts.MinDelay {
		opts.MaxDelay = opts.MinDelay
	}
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}
	if opts.Jitter == nil {
		opts.Jitter = rand.Float64
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		used:   make(map[string]struct{}),
	}
}

// Ask appends text as a user message, waits the simulated latency and appends the reply.
// The reply is dropped if ctx is cancelled or the session is closed during the wait.
func (s *Session) Ask(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	s.mu.Lock()
	if err := s.readyLocked(); err != nil {
		s.mu.Unlock()
		return Message{}, err
	}
	return s.askLocked(ctx, text)
}

// TapSuggestion asks a suggested question and hides its pill.
func (s *Session) TapSuggestion(ctx context.Context, id string) (Message, error) {
	q, ok := s.opts.Responder.Suggestion(id)
	if !ok {
		return Message{}, ErrSuggestionNotFound
	}
	s.mu.Lock()
	if _, used := s.used[id]; used {
		s.mu.Unlock()
		return Message{}, ErrSuggestionUsed
	}
	if err := s.readyLocked(); err != nil {
		s.mu.Unlock()
		return Message{}, err
	}
	s.used[id] = struct{}{}
	return s.askLocked(ctx, q.Text)
}

func (s *Session) readyLocked() error {
	if s.closed {
		return ErrClosed
	}
	if s.typing {
		return ErrTyping
	}
	return nil
}

// askLocked expects s.mu held and releases it.
func (s *Session) askLocked(ctx context.Context, text string) (Message, error) {
	question := s.appendLocked(RoleUser, text, nil)
	s.typing = true
	s.mu.Unlock()
	s.notify(question)

	waitCtx, stop := mergeContext(ctx, s.ctx)
	defer stop()
	err := s.opts.Sleep(waitCtx, s.delay())

	s.mu.Lock()
	s.typing = false
	if err == nil && s.closed {
		err = ErrClosed
	}
	if err != nil {
		s.mu.Unlock()
		if s.ctx.Err() != nil && ctx.Err() == nil {
			return Message{}, ErrClosed
		}
		return Message{}, err
	}
	resp, _ := s.opts.Responder.Resolve(text)
	reply := s.appendLocked(RoleJarvis, resp.Content, resp.Cards)
	s.mu.Unlock()
	s.notify(reply)
	return reply, nil
}

func (s *Session) appendLocked(role Role, content string, cards []DataCard) Message {
	msg := Message{
		ID:        s.opts.NewID(),
		Role:      role,
		Content:   content,
		Timestamp: s.opts.Now(),
		Cards:     cards,
	}
	s.messages = append(s.messages, msg)
	return msg
}

func (s *Session) notify(msg Message) {
	if s.opts.OnMessage != nil {
		s.opts.OnMessage(msg)
	}
}

func (s *Session) delay() time.Duration {
	span := s.opts.MaxDelay - s.opts.MinDelay
	if span <= 0 {
		return s.opts.MinDelay
	}
	return s.opts.MinDelay + time.Duration(s.opts.Jitter()*float64(span))
}

// Messages returns a copy of the thread in append order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Typing reports whether a reply is pending.
func (s *Session) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

// Available returns the suggestions not yet tapped, in source order.
func (s *Session) Available() []SuggestedQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.opts.Responder.Suggestions()
	out := make([]SuggestedQuestion, 0, len(all))
	for _, q := range all {
		if _, used := s.used[q.ID]; !used {
			out = append(out, q)
		}
	}
	return out
}

// Close cancels any pending reply. Further questions fail with ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// mergeContext is done when either parent is done.
func mergeContext(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(a)
	stop := context.AfterFunc(b, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
