package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	intelligence "github.com/goliatone/go-intelligence/components/intelligence"
	"github.com/goliatone/go-intelligence/components/intelligence/interaction"
)

// SelectTabInput switches the viewer's active dashboard.
type SelectTabInput struct {
	Viewer intelligence.ViewerContext
	Tab    intelligence.Tab
}

type tabSelector interface {
	SelectTab(ctx context.Context, viewer intelligence.ViewerContext, tab intelligence.Tab) (intelligence.TabView, error)
}

// SelectTabCommand remounts the requested tab for a viewer.
type SelectTabCommand struct {
	service   tabSelector
	telemetry Telemetry
}

// NewSelectTabCommand creates the command.
func NewSelectTabCommand(service tabSelector, telemetry Telemetry) *SelectTabCommand {
	return &SelectTabCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SelectTabInput] = (*SelectTabCommand)(nil)

// Execute parses the tab name and delegates to the service.
func (c *SelectTabCommand) Execute(ctx context.Context, msg SelectTabInput) error {
	if c.service == nil {
		return errors.New("select tab command requires service")
	}
	tab, err := intelligence.ParseTab(string(msg.Tab))
	if err != nil {
		return err
	}
	view, err := c.service.SelectTab(ctx, msg.Viewer, tab)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "intelligence.command.select_tab", map[string]any{
		"viewer":     msg.Viewer.UserID,
		"tab":        string(view.Tab),
		"generation": view.Generation,
	})
	return nil
}

// MeasureIndicatorInput carries the client-measured pill rectangles.
type MeasureIndicatorInput struct {
	Viewer intelligence.ViewerContext
	Rects  map[string]interaction.Rect
}

type indicatorMeasurer interface {
	MeasureIndicator(ctx context.Context, viewer intelligence.ViewerContext, rects map[string]interaction.Rect) (*intelligence.Indicator, error)
}

// MeasureIndicatorCommand stores tab bar measurements.
type MeasureIndicatorCommand struct {
	service   indicatorMeasurer
	telemetry Telemetry
}

// NewMeasureIndicatorCommand creates the command.
func NewMeasureIndicatorCommand(service indicatorMeasurer, telemetry Telemetry) *MeasureIndicatorCommand {
	return &MeasureIndicatorCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[MeasureIndicatorInput] = (*MeasureIndicatorCommand)(nil)

// Execute records the rectangles; an empty payload is a no-op.
func (c *MeasureIndicatorCommand) Execute(ctx context.Context, msg MeasureIndicatorInput) error {
	if c.service == nil {
		return errors.New("measure indicator command requires service")
	}
	if len(msg.Rects) == 0 {
		return nil
	}
	if _, err := c.service.MeasureIndicator(ctx, msg.Viewer, msg.Rects); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "intelligence.command.measure_indicator", map[string]any{
		"viewer": msg.Viewer.UserID,
		"rects":  len(msg.Rects),
	})
	return nil
}
