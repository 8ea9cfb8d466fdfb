package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedSleep blocks every wait until release is closed or ctx ends.
type gatedSleep struct {
	started chan time.Duration
	release chan struct{}
}

func newGatedSleep() *gatedSleep {
	return &gatedSleep{started: make(chan time.Duration, 8), release: make(chan struct{})}
}

func (g *gatedSleep) Sleep(ctx context.Context, d time.Duration) error {
	g.started <- d
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g.release:
		return nil
	}
}

func instantSleep(context.Context, time.Duration) error { return nil }

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("msg-%d", n)
	}
}

func TestAskWhileTypingIsRejected(t *testing.T) {
	gate := newGatedSleep()
	s := NewSession(Options{Sleep: gate.Sleep, NewID: sequentialIDs()})

	done := make(chan error, 1)
	go func() {
		_, err := s.Ask(context.Background(), "How healthy is our community this month?")
		done <- err
	}()
	<-gate.started
	require.True(t, s.Typing())

	before := len(s.Messages())
	_, err := s.Ask(context.Background(), "second question")
	require.ErrorIs(t, err, ErrTyping)
	_, err = s.TapSuggestion(context.Background(), "q-churn")
	require.ErrorIs(t, err, ErrTyping)
	assert.Len(t, s.Messages(), before)
	assert.Len(t, s.Available(), 5, "a rejected tap keeps the pill")

	close(gate.release)
	require.NoError(t, <-done)
	assert.False(t, s.Typing())
	assert.Len(t, s.Messages(), 2)
}

func TestSuggestionExhaustion(t *testing.T) {
	s := NewSession(Options{Sleep: instantSleep})
	suggestions := s.Available()
	require.NotEmpty(t, suggestions)

	for i, q := range suggestions {
		before := len(s.Messages())
		_, err := s.TapSuggestion(context.Background(), q.ID)
		require.NoError(t, err)
		assert.Len(t, s.Messages(), before+2)
		assert.Len(t, s.Available(), len(suggestions)-i-1)
	}
	assert.Empty(t, s.Available())

	_, err := s.TapSuggestion(context.Background(), suggestions[0].ID)
	assert.ErrorIs(t, err, ErrSuggestionUsed)
	_, err = s.TapSuggestion(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSuggestionNotFound)

	// typing the same text is still allowed
	_, err = s.Ask(context.Background(), suggestions[0].Text)
	require.NoError(t, err)
}

func TestExactQuestionGetsCannedResponse(t *testing.T) {
	script := DefaultScript()
	s := NewSession(Options{Sleep: instantSleep})

	for _, q := range script.Suggestions {
		reply, err := s.Ask(context.Background(), q.Text)
		require.NoError(t, err)
		assert.Equal(t, script.Responses[q.ID].Content, reply.Content)
		assert.Equal(t, script.Responses[q.ID].Cards, reply.Cards)
		assert.NotEqual(t, script.Fallback.Content, reply.Content)
	}
}

func TestAskRecordsThreadInOrder(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	var notified []Role
	s := NewSession(Options{
		Sleep:     instantSleep,
		NewID:     sequentialIDs(),
		Now:       func() time.Time { return now },
		OnMessage: func(m Message) { notified = append(notified, m.Role) },
	})

	_, err := s.Ask(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyMessage)

	reply, err := s.Ask(context.Background(), "what's the weather")
	require.NoError(t, err)
	assert.Equal(t, DefaultScript().Fallback.Content, reply.Content)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, Message{ID: "msg-1", Role: RoleUser, Content: "what's the weather", Timestamp: now}, msgs[0])
	assert.Equal(t, "msg-2", msgs[1].ID)
	assert.Equal(t, []Role{RoleUser, RoleJarvis}, notified)
}

func TestCancelledWaitAppendsNothing(t *testing.T) {
	gate := newGatedSleep()
	s := NewSession(Options{Sleep: gate.Sleep})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := s.Ask(ctx, "Which members are at risk of churning?")
		done <- err
	}()
	<-gate.started
	cancel()

	err := <-done
	require.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.Len(t, s.Messages(), 1)
	assert.False(t, s.Typing())
}

func TestCloseDropsPendingReply(t *testing.T) {
	gate := newGatedSleep()
	s := NewSession(Options{Sleep: gate.Sleep})

	done := make(chan error, 1)
	go func() {
		_, err := s.Ask(context.Background(), "Which sponsor is delivering the best ROI?")
		done <- err
	}()
	<-gate.started
	s.Close()

	require.ErrorIs(t, <-done, ErrClosed)
	assert.Len(t, s.Messages(), 1)

	_, err := s.Ask(context.Background(), "hello there")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDelayWithinBounds(t *testing.T) {
	for _, jitter := range []float64{0, 0.5, 0.999} {
		gate := newGatedSleep()
		close(gate.release)
		s := NewSession(Options{Sleep: gate.Sleep, Jitter: func() float64 { return jitter }})
		_, err := s.Ask(context.Background(), "hi there friend")
		require.NoError(t, err)
		d := <-gate.started
		assert.GreaterOrEqual(t, d, DefaultMinDelay)
		assert.Less(t, d, DefaultMaxDelay+time.Millisecond)
	}
}
