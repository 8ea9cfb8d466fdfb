package collab

import "errors"

const (
	// DefaultArcadeName is shown when the arcade cannot be loaded.
	DefaultArcadeName = "Central Square Arcade"
	// DefaultCity is shown when the profile has no city or cannot be loaded.
	DefaultCity = "Boston, MA"
)

// ErrUnauthorized is returned when the profile endpoint answers 401.
var ErrUnauthorized = errors.New("collab: unauthorized")

// Profile is the signed-in member.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Handle    string `json:"handle"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Bio       string `json:"bio,omitempty"`
	City      string `json:"city,omitempty"`
}

// Arcade is a community workspace.
type Arcade struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Membership is the result of joining an arcade.
type Membership struct {
	ArcadeID string `json:"arcadeId"`
	Status   string `json:"status"`
}

// Recommendation is an arcade suggested by the AI host.
type Recommendation struct {
	ID       string  `json:"id"`
	ArcadeID string  `json:"arcadeId"`
	Name     string  `json:"name"`
	Reason   string  `json:"reason,omitempty"`
	Score    float64 `json:"score,omitempty"`
}

// RecommendationAction is what the member did with a recommendation.
type RecommendationAction string

const (
	ActionClick RecommendationAction = "click"
	ActionJoin  RecommendationAction = "join"
)

// RecommendationEvent reports interaction with a recommendation.
type RecommendationEvent struct {
	RecommendationID string               `json:"recommendationId"`
	Action           RecommendationAction `json:"action"`
}
