package interaction

import "sync"

// Accordion tracks an independent expanded flag per item id.
type Accordion struct {
	mu       sync.RWMutex
	expanded map[string]bool
}

func NewAccordion() *Accordion {
	return &Accordion{expanded: make(map[string]bool)}
}

// Toggle flips id and returns the new state.
func (a *Accordion) Toggle(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.expanded[id] = !a.expanded[id]
	return a.expanded[id]
}

// Expanded reports whether id is open. Unknown ids are collapsed.
func (a *Accordion) Expanded(id string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.expanded[id]
}
