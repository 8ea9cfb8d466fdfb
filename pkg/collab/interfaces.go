package collab

import "context"

// ProfileClient loads and ends the member session.
type ProfileClient interface {
	Profile(ctx context.Context) (Profile, error)
	SignOut(ctx context.Context) error
}

// ArcadeClient reads and joins arcades.
type ArcadeClient interface {
	Arcade(ctx context.Context, id string) (Arcade, error)
	HostedArcades(ctx context.Context) ([]Arcade, error)
	Join(ctx context.Context, arcadeID string) (Membership, error)
}

// RecommendationClient talks to the AI host.
type RecommendationClient interface {
	Recommendations(ctx context.Context) ([]Recommendation, error)
	TrackRecommendation(ctx context.Context, event RecommendationEvent) error
}

// Client is a convenience union for services that implement every call.
type Client interface {
	ProfileClient
	ArcadeClient
	RecommendationClient
}
