package interaction

import (
	"math"
	"sync"
)

// DefaultDismissThreshold is the rightward release offset, in pixels, past which a card is dismissed.
const DefaultDismissThreshold = 120

// ReleaseOutcome is the result of letting go of a dragged card.
type ReleaseOutcome string

const (
	OutcomeSpringBack ReleaseOutcome = "spring_back"
	OutcomeDismiss    ReleaseOutcome = "dismiss"
	OutcomeIgnored    ReleaseOutcome = "ignored"
)

// DragGesture recognises a horizontal swipe. Movement to the right is free;
// movement to the left is scaled by LeftElastic, so 0 pins the card in place.
type DragGesture struct {
	Threshold   float64
	LeftElastic float64
}

// DefaultDragGesture mirrors the at-risk member cards.
func DefaultDragGesture() DragGesture {
	return DragGesture{Threshold: DefaultDismissThreshold}
}

// Constrain maps a raw pointer delta to the rendered card offset.
func (g DragGesture) Constrain(dx float64) float64 {
	if math.IsNaN(dx) {
		return 0
	}
	if dx >= 0 {
		return dx
	}
	return dx * math.Max(0, math.Min(1, g.LeftElastic))
}

// Release decides what happens when the pointer is let go at offset dx.
func (g DragGesture) Release(dx float64) ReleaseOutcome {
	threshold := g.Threshold
	if threshold <= 0 {
		threshold = DefaultDismissThreshold
	}
	if g.Constrain(dx) > threshold {
		return OutcomeDismiss
	}
	return OutcomeSpringBack
}

// DismissList is a view over a fixed slice whose items can be swiped away.
// The backing slice is never mutated; dismissed keys live in the list only.
type DismissList[T any] struct {
	mu        sync.RWMutex
	source    []T
	key       func(T) string
	gesture   DragGesture
	dismissed map[string]struct{}
}

// NewDismissList wraps items. key must return a stable, unique id per item.
func NewDismissList[T any](items []T, key func(T) string, gesture DragGesture) *DismissList[T] {
	return &DismissList[T]{
		source:    items,
		key:       key,
		gesture:   gesture,
		dismissed: make(map[string]struct{}),
	}
}

// Items returns the items still present, in source order.
func (l *DismissList[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, 0, len(l.source)-len(l.dismissed))
	for _, item := range l.source {
		if _, gone := l.dismissed[l.key(item)]; gone {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Len reports how many items are still present.
func (l *DismissList[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.source) - len(l.dismissed)
}

// Release applies a drag release for id. Unknown or already dismissed ids are ignored.
func (l *DismissList[T]) Release(id string, dx float64) ReleaseOutcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, gone := l.dismissed[id]; gone || !l.contains(id) {
		return OutcomeIgnored
	}
	outcome := l.gesture.Release(dx)
	if outcome == OutcomeDismiss {
		l.dismissed[id] = struct{}{}
	}
	return outcome
}

// Dismiss removes id outright. It reports whether anything changed.
func (l *DismissList[T]) Dismiss(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, gone := l.dismissed[id]; gone || !l.contains(id) {
		return false
	}
	l.dismissed[id] = struct{}{}
	return true
}

// Reset restores every dismissed item.
func (l *DismissList[T]) Reset() {
	l.mu.Lock()
	l.dismissed = make(map[string]struct{})
	l.mu.Unlock()
}

func (l *DismissList[T]) contains(id string) bool {
	for _, item := range l.source {
		if l.key(item) == id {
			return true
		}
	}
	return false
}
