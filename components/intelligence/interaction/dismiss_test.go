package interaction

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type member struct {
	ID   string
	Name string
}

func memberKey(m member) string { return m.ID }

func testMembers() []member {
	return []member{{ID: "m1", Name: "Ada"}, {ID: "m2", Name: "Ben"}, {ID: "m3", Name: "Cy"}}
}

func TestDismissThreshold(t *testing.T) {
	source := testMembers()
	list := NewDismissList(source, memberKey, DefaultDragGesture())

	assert.Equal(t, OutcomeSpringBack, list.Release("m2", 119))
	assert.Equal(t, 3, list.Len())

	assert.Equal(t, OutcomeDismiss, list.Release("m2", 121))
	require.Equal(t, []member{{ID: "m1", Name: "Ada"}, {ID: "m3", Name: "Cy"}}, list.Items())

	assert.Equal(t, OutcomeIgnored, list.Release("m2", 500))
	assert.Equal(t, 2, list.Len())
	assert.Len(t, source, 3, "backing slice is untouched")
}

func TestDismissExactlyOnceUnderContention(t *testing.T) {
	list := NewDismissList(testMembers(), memberKey, DefaultDragGesture())

	var wg sync.WaitGroup
	var mu sync.Mutex
	dismissed := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if list.Release("m1", 200) == OutcomeDismiss {
				mu.Lock()
				dismissed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, dismissed)
	assert.Equal(t, 2, list.Len())
}

func TestDragGestureElasticLeft(t *testing.T) {
	g := DefaultDragGesture()
	assert.Equal(t, 0.0, g.Constrain(-80))
	assert.Equal(t, 80.0, g.Constrain(80))
	assert.Equal(t, OutcomeSpringBack, g.Release(-400))

	rubber := DragGesture{Threshold: 120, LeftElastic: 0.2}
	assert.InDelta(t, -20, rubber.Constrain(-100), 1e-9)
}

func TestDismissUnknownAndReset(t *testing.T) {
	list := NewDismissList(testMembers(), memberKey, DefaultDragGesture())
	assert.Equal(t, OutcomeIgnored, list.Release("nope", 300))
	assert.False(t, list.Dismiss("nope"))

	assert.True(t, list.Dismiss("m3"))
	assert.False(t, list.Dismiss("m3"))
	list.Reset()
	assert.Equal(t, 3, list.Len())
}
