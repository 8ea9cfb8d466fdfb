package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	intelligence "github.com/goliatone/go-intelligence/components/intelligence"
)

type tabService interface {
	ResolveTab(ctx context.Context, viewer intelligence.ViewerContext) (intelligence.TabView, error)
}

// TabQuery resolves the viewer's active tab.
type TabQuery struct {
	service tabService
}

// NewTabQuery builds the query.
func NewTabQuery(service tabService) *TabQuery {
	return &TabQuery{service: service}
}

var _ gocommand.Querier[intelligence.ViewerContext, intelligence.TabView] = (*TabQuery)(nil)

// Query resolves every widget of the active tab.
func (q *TabQuery) Query(ctx context.Context, viewer intelligence.ViewerContext) (intelligence.TabView, error) {
	return q.service.ResolveTab(ctx, viewer)
}
