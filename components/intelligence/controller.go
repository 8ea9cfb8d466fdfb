package intelligence

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const (
	defaultPageTemplate = "intelligence.html"
	defaultPageTitle    = "Central Square Intelligence"
)

// TabResolver is the read side the controller needs.
type TabResolver interface {
	ResolveTab(ctx context.Context, viewer ViewerContext) (TabView, error)
}

// PageHeader is the community context shown above the tab bar.
type PageHeader struct {
	Arcade string `json:"arcade"`
	City   string `json:"city"`
	Viewer string `json:"viewer,omitempty"`
}

// HeaderSource resolves the page header for a viewer. Implementations are
// expected to fall back to defaults rather than fail.
type HeaderSource interface {
	Header(ctx context.Context, viewer ViewerContext) PageHeader
}

// ControllerOptions wires the controller collaborators.
type ControllerOptions struct {
	Service  TabResolver
	Renderer Renderer
	Headers  HeaderSource
	Template string
	Title    string
	// BasePath prefixes the action URLs emitted into the page.
	BasePath string
}

// Controller renders the intelligence shell for HTTP transports.
type Controller struct {
	opts ControllerOptions
}

// RenderedWidget is a widget view with its template output.
type RenderedWidget struct {
	WidgetView
	HTML string `json:"html"`
}

// NewController wires the service into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = defaultPageTemplate
	}
	if opts.Title == "" {
		opts.Title = defaultPageTitle
	}
	if opts.BasePath == "" {
		opts.BasePath = "/intelligence"
	}
	return &Controller{opts: opts}
}

// TabPayload resolves the active tab for JSON transports.
func (c *Controller) TabPayload(ctx context.Context, viewer ViewerContext) (map[string]any, error) {
	if c.opts.Service == nil {
		return nil, errors.New("intelligence: controller requires service")
	}
	view, err := c.opts.Service.ResolveTab(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return map[string]any{"tab": view}, nil
}

// RenderTemplate renders every widget of the active tab and then the page shell.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	if c.opts.Service == nil {
		return errors.New("intelligence: controller requires service")
	}
	if c.opts.Renderer == nil {
		return errors.New("intelligence: controller requires renderer")
	}
	view, err := c.opts.Service.ResolveTab(ctx, viewer)
	if err != nil {
		return err
	}
	widgets := make([]RenderedWidget, 0, len(view.Widgets))
	for _, w := range view.Widgets {
		rendered := RenderedWidget{WidgetView: w}
		if w.Template != "" && w.Error == "" {
			html, err := c.opts.Renderer.Render(w.Template, map[string]any{
				"widget": w,
				"data":   w.Data,
				"base":   c.opts.BasePath,
			})
			if err != nil {
				return fmt.Errorf("intelligence: render widget %s: %w", w.ID, err)
			}
			rendered.HTML = html
		}
		widgets = append(widgets, rendered)
	}
	page := map[string]any{
		"title":   c.opts.Title,
		"base":    c.opts.BasePath,
		"viewer":  viewer,
		"view":    view,
		"widgets": widgets,
	}
	if c.opts.Headers != nil {
		page["header"] = c.opts.Headers.Header(ctx, viewer)
	}
	_, err = c.opts.Renderer.Render(c.opts.Template, page, out)
	return err
}
