package collab

import (
	"context"
	"fmt"
	"sync"
)

// MockData seeds deterministic responses for tests or local demos.
type MockData struct {
	Profile         Profile
	Arcades         []Arcade
	Hosted          []string
	Recommendations []Recommendation
}

// MockClient implements Client using in-memory fixtures.
type MockClient struct {
	mu      sync.RWMutex
	data    MockData
	joined  map[string]bool
	tracked []RecommendationEvent
}

var _ Client = (*MockClient)(nil)

// NewMockClient builds a mock client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data, joined: map[string]bool{}}
}

func (c *MockClient) Profile(context.Context) (Profile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data.Profile.ID == "" {
		return Profile{}, ErrUnauthorized
	}
	return c.data.Profile, nil
}

func (c *MockClient) SignOut(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Profile = Profile{}
	return nil
}

func (c *MockClient) Arcade(_ context.Context, id string) (Arcade, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.data.Arcades {
		if a.ID == id {
			return cloneArcade(a), nil
		}
	}
	return Arcade{}, fmt.Errorf("collab: remote error 404: arcade %s", id)
}

func (c *MockClient) HostedArcades(context.Context) ([]Arcade, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Arcade, 0, len(c.data.Hosted))
	for _, id := range c.data.Hosted {
		for _, a := range c.data.Arcades {
			if a.ID == id {
				out = append(out, cloneArcade(a))
			}
		}
	}
	return out, nil
}

func (c *MockClient) Join(_ context.Context, arcadeID string) (Membership, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	status := "joined"
	if c.joined[arcadeID] {
		status = "member"
	}
	c.joined[arcadeID] = true
	return Membership{ArcadeID: arcadeID, Status: status}, nil
}

func (c *MockClient) Recommendations(context.Context) ([]Recommendation, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Recommendation(nil), c.data.Recommendations...), nil
}

func (c *MockClient) TrackRecommendation(_ context.Context, event RecommendationEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracked = append(c.tracked, event)
	return nil
}

// Tracked returns the recommendation events recorded so far.
func (c *MockClient) Tracked() []RecommendationEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]RecommendationEvent(nil), c.tracked...)
}

func cloneArcade(a Arcade) Arcade {
	a.Tags = append([]string(nil), a.Tags...)
	return a
}
