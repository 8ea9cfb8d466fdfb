package interaction

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeScheduler struct {
	mu      sync.Mutex
	delays  []time.Duration
	pending []func()
	timers  []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer := &fakeTimer{}
	s.delays = append(s.delays, d)
	s.pending = append(s.pending, fn)
	s.timers = append(s.timers, timer)
	return timer
}

// fire runs the i-th scheduled callback unless its timer was stopped.
func (s *fakeScheduler) fire(i int) {
	s.mu.Lock()
	fn, timer := s.pending[i], s.timers[i]
	s.mu.Unlock()
	if !timer.stopped {
		fn()
	}
}

func TestPollComposerSendAndAutoClear(t *testing.T) {
	sched := &fakeScheduler{}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewPollComposer([]string{"discord", "telegram"}, WithScheduler(sched), WithNow(func() time.Time { return now }))

	_, err := c.Send()
	require.ErrorIs(t, err, ErrEmptyPoll)

	require.NoError(t, c.SelectPlatform("telegram"))
	c.SetText("  Next meetup venue?  ")
	sent, err := c.Send()
	require.NoError(t, err)
	assert.NotEmpty(t, sent.ID)
	sent.ID = ""
	assert.Equal(t, SentPoll{Text: "Next meetup venue?", Platform: "telegram", SentAt: now}, sent)

	state := c.State()
	assert.True(t, state.Sent)
	assert.Empty(t, state.Text)
	require.Len(t, sched.delays, 1)
	assert.Equal(t, DefaultSentBannerTTL, sched.delays[0])

	sched.fire(0)
	assert.False(t, c.State().Sent)
	assert.NotNil(t, c.State().LastSent)
}

func TestPollComposerResendRestartsBanner(t *testing.T) {
	sched := &fakeScheduler{}
	c := NewPollComposer([]string{"discord"}, WithScheduler(sched))

	c.SetText("one")
	_, err := c.Send()
	require.NoError(t, err)
	c.SetText("two")
	_, err = c.Send()
	require.NoError(t, err)

	assert.True(t, sched.timers[0].stopped)
	sched.pending[0]()
	assert.True(t, c.State().Sent, "a stale timer does not clear a newer banner")

	sched.fire(1)
	assert.False(t, c.State().Sent)
}

func TestPollComposerCloseCancelsClear(t *testing.T) {
	sched := &fakeScheduler{}
	c := NewPollComposer([]string{"discord"}, WithScheduler(sched))
	c.SetText("hello")
	_, err := c.Send()
	require.NoError(t, err)

	c.Close()
	assert.True(t, sched.timers[0].stopped)
}

func TestPollComposerPlatformIndicator(t *testing.T) {
	c := NewPollComposer([]string{"discord", "slack"}, WithScheduler(&fakeScheduler{}))
	assert.ErrorIs(t, c.SelectPlatform("myspace"), ErrUnknownPlatform)
	assert.Nil(t, c.State().Indicator)

	c.Indicator().Measure(map[string]Rect{"discord": {Left: 0, Width: 80}, "slack": {Left: 84, Width: 64}})
	require.NoError(t, c.SelectPlatform("slack"))
	assert.Equal(t, &Rect{Left: 84, Width: 64}, c.State().Indicator)
}

func TestAccordionToggle(t *testing.T) {
	a := NewAccordion()
	assert.False(t, a.Expanded("p1"))
	assert.True(t, a.Toggle("p1"))
	assert.False(t, a.Expanded("p2"))
	assert.False(t, a.Toggle("p1"))
}
