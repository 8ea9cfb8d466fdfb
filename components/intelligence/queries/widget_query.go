package queries

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	intelligence "github.com/goliatone/go-intelligence/components/intelligence"
)

// ErrWidgetNotFound is returned when the active tab has no widget with the id.
var ErrWidgetNotFound = errors.New("queries: widget not found on active tab")

// WidgetInput identifies one widget of the viewer's active tab.
type WidgetInput struct {
	Viewer   intelligence.ViewerContext
	WidgetID string
}

// WidgetQuery fetches a single widget, for partial refreshes.
type WidgetQuery struct {
	service tabService
}

// NewWidgetQuery builds the query.
func NewWidgetQuery(service tabService) *WidgetQuery {
	return &WidgetQuery{service: service}
}

var _ gocommand.Querier[WidgetInput, intelligence.WidgetView] = (*WidgetQuery)(nil)

// Query resolves the active tab and picks the widget out of it.
func (q *WidgetQuery) Query(ctx context.Context, input WidgetInput) (intelligence.WidgetView, error) {
	view, err := q.service.ResolveTab(ctx, input.Viewer)
	if err != nil {
		return intelligence.WidgetView{}, err
	}
	for _, w := range view.Widgets {
		if w.ID == input.WidgetID {
			return w, nil
		}
	}
	return intelligence.WidgetView{}, fmt.Errorf("%w: %s", ErrWidgetNotFound, input.WidgetID)
}
