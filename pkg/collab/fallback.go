package collab

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-intelligence/components/intelligence"
)

// FallbackClient degrades read failures to defaults so the dashboard keeps
// rendering when the platform is unreachable. Writes still surface errors.
type FallbackClient struct {
	Client
	logger *slog.Logger
}

// WithFallbacks wraps client. A nil logger discards.
func WithFallbacks(client Client, logger *slog.Logger) *FallbackClient {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FallbackClient{Client: client, logger: logger}
}

// Profile returns an empty profile with the default city on failure.
func (c *FallbackClient) Profile(ctx context.Context) (Profile, error) {
	profile, err := c.Client.Profile(ctx)
	if err != nil {
		c.logger.Warn("collab profile unavailable", "error", err)
		return Profile{City: DefaultCity}, nil
	}
	if profile.City == "" {
		profile.City = DefaultCity
	}
	return profile, nil
}

// Arcade returns the default arcade name on failure.
func (c *FallbackClient) Arcade(ctx context.Context, id string) (Arcade, error) {
	arcade, err := c.Client.Arcade(ctx, id)
	if err != nil {
		c.logger.Warn("collab arcade unavailable", "arcade", id, "error", err)
		return Arcade{ID: id, Name: DefaultArcadeName}, nil
	}
	if arcade.Name == "" {
		arcade.Name = DefaultArcadeName
	}
	return arcade, nil
}

// HostedArcades returns an empty list on failure.
func (c *FallbackClient) HostedArcades(ctx context.Context) ([]Arcade, error) {
	arcades, err := c.Client.HostedArcades(ctx)
	if err != nil {
		c.logger.Warn("collab hosted arcades unavailable", "error", err)
		return []Arcade{}, nil
	}
	return arcades, nil
}

// Recommendations returns an empty list on failure.
func (c *FallbackClient) Recommendations(ctx context.Context) ([]Recommendation, error) {
	recs, err := c.Client.Recommendations(ctx)
	if err != nil {
		c.logger.Warn("collab recommendations unavailable", "error", err)
		return []Recommendation{}, nil
	}
	return recs, nil
}

type headerSource struct {
	profiles ProfileClient
	arcades  ArcadeClient
	arcadeID string
}

// NewHeaderSource resolves the dashboard header from the platform. Both
// lookups fall back to the Central Square defaults.
func NewHeaderSource(client Client, arcadeID string, logger *slog.Logger) intelligence.HeaderSource {
	fb := WithFallbacks(client, logger)
	return headerSource{profiles: fb, arcades: fb, arcadeID: arcadeID}
}

func (h headerSource) Header(ctx context.Context, viewer intelligence.ViewerContext) intelligence.PageHeader {
	header := intelligence.PageHeader{Arcade: DefaultArcadeName, City: DefaultCity, Viewer: viewer.UserID}
	if profile, err := h.profiles.Profile(ctx); err == nil {
		header.City = profile.City
		if profile.Name != "" {
			header.Viewer = profile.Name
		}
	}
	if h.arcadeID != "" {
		if arcade, err := h.arcades.Arcade(ctx, h.arcadeID); err == nil {
			header.Arcade = arcade.Name
		}
	}
	return header
}
