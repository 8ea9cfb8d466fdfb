package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPConfig configures the HTTP collaborator client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient calls the community platform's JSON endpoints.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the platform API rooted at BaseURL.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("collab: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// Profile implements ProfileClient.
func (c *HTTPClient) Profile(ctx context.Context) (Profile, error) {
	var resp struct {
		Profile Profile `json:"profile"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/profiles", nil, &resp); err != nil {
		return Profile{}, err
	}
	return resp.Profile, nil
}

// SignOut implements ProfileClient.
func (c *HTTPClient) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/signout", nil, nil)
}

// Arcade implements ArcadeClient.
func (c *HTTPClient) Arcade(ctx context.Context, id string) (Arcade, error) {
	var resp struct {
		Arcade Arcade `json:"arcade"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/arcades/"+url.PathEscape(id), nil, &resp); err != nil {
		return Arcade{}, err
	}
	return resp.Arcade, nil
}

// HostedArcades implements ArcadeClient.
func (c *HTTPClient) HostedArcades(ctx context.Context) ([]Arcade, error) {
	var resp struct {
		Arcades []Arcade `json:"arcades"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/hosted-arcades", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Arcades, nil
}

// Join implements ArcadeClient.
func (c *HTTPClient) Join(ctx context.Context, arcadeID string) (Membership, error) {
	var resp Membership
	if err := c.do(ctx, http.MethodPost, "/api/arcades/"+url.PathEscape(arcadeID)+"/join", struct{}{}, &resp); err != nil {
		return Membership{}, err
	}
	if resp.ArcadeID == "" {
		resp.ArcadeID = arcadeID
	}
	return resp, nil
}

// Recommendations implements RecommendationClient.
func (c *HTTPClient) Recommendations(ctx context.Context) ([]Recommendation, error) {
	var resp struct {
		Recommendations []Recommendation `json:"recommendations"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/ai-host/recommendations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Recommendations, nil
}

// TrackRecommendation implements RecommendationClient.
func (c *HTTPClient) TrackRecommendation(ctx context.Context, event RecommendationEvent) error {
	return c.do(ctx, http.MethodPost, "/api/ai-host/recommendations", event, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("collab: encode payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("collab: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("collab: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("collab: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("collab: decode response: %w", err)
	}
	return nil
}
