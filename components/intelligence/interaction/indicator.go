package interaction

import "sync"

// Rect is a measured element box relative to its container.
type Rect struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// SlidingIndicator stores the last measured rect per option so a pill can
// slide to the active one. Measurements come from the client after layout.
type SlidingIndicator struct {
	mu    sync.RWMutex
	rects map[string]Rect
}

func NewSlidingIndicator() *SlidingIndicator {
	return &SlidingIndicator{rects: make(map[string]Rect)}
}

// Measure records rects, replacing earlier values for the same keys.
// Negative widths are dropped.
func (s *SlidingIndicator) Measure(rects map[string]Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, r := range rects {
		if r.Width < 0 {
			continue
		}
		s.rects[key] = r
	}
}

// Position returns where the indicator should sit for key.
// ok is false until key has been measured.
func (s *SlidingIndicator) Position(key string) (Rect, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rects[key]
	return r, ok
}
