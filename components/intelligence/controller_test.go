package intelligence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	calls []string
	data  map[string]any
	err   error
}

func (s *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	s.calls = append(s.calls, name)
	if s.err != nil {
		return "", s.err
	}
	if m, ok := data.(map[string]any); ok {
		s.data = m
	}
	html := fmt.Sprintf("<%s>", name)
	for _, w := range out {
		_, _ = io.WriteString(w, html)
	}
	return html, nil
}

type stubResolver struct {
	view TabView
	err  error
}

func (s stubResolver) ResolveTab(context.Context, ViewerContext) (TabView, error) {
	return s.view, s.err
}

func TestControllerRenderTemplateRendersWidgetsThenPage(t *testing.T) {
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{
		Service: stubResolver{view: TabView{
			Tab: TabOperator,
			Widgets: []WidgetView{
				{ID: "health", Template: "widgets/radial.html", Data: WidgetData{"title": "Health"}},
				{ID: "broken", Template: "widgets/bars.html", Error: "boom"},
			},
		}},
		Renderer: renderer,
	})

	var buf bytes.Buffer
	require.NoError(t, controller.RenderTemplate(context.Background(), ViewerContext{UserID: "u"}, &buf))
	assert.Equal(t, []string{"widgets/radial.html", "intelligence.html"}, renderer.calls)
	assert.Equal(t, "<intelligence.html>", buf.String())

	widgets := renderer.data["widgets"].([]RenderedWidget)
	require.Len(t, widgets, 2)
	assert.Equal(t, "<widgets/radial.html>", widgets[0].HTML)
	assert.Empty(t, widgets[1].HTML)
	assert.Equal(t, "Central Square Intelligence", renderer.data["title"])
	assert.Equal(t, "/intelligence", renderer.data["base"])
}

func TestControllerPropagatesErrors(t *testing.T) {
	controller := NewController(ControllerOptions{Service: stubResolver{err: ErrMissingViewer}, Renderer: &stubRenderer{}})
	err := controller.RenderTemplate(context.Background(), ViewerContext{}, io.Discard)
	assert.ErrorIs(t, err, ErrMissingViewer)

	controller = NewController(ControllerOptions{
		Service:  stubResolver{view: TabView{Widgets: []WidgetView{{ID: "w", Template: "widgets/x.html"}}}},
		Renderer: &stubRenderer{err: errors.New("template missing")},
	})
	err = controller.RenderTemplate(context.Background(), ViewerContext{UserID: "u"}, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render widget w")

	_, err = NewController(ControllerOptions{}).TabPayload(context.Background(), ViewerContext{UserID: "u"})
	assert.Error(t, err)
}

type staticHeaders PageHeader

func (h staticHeaders) Header(context.Context, ViewerContext) PageHeader {
	return PageHeader(h)
}

func TestControllerAddsHeader(t *testing.T) {
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{
		Service:  stubResolver{view: TabView{Tab: TabOperator}},
		Renderer: renderer,
		Headers:  staticHeaders{Arcade: "Central Square Arcade", City: "Boston, MA"},
	})
	require.NoError(t, controller.RenderTemplate(context.Background(), ViewerContext{UserID: "u"}, io.Discard))
	header := renderer.data["header"].(PageHeader)
	assert.Equal(t, "Boston, MA", header.City)
}

func TestControllerTabPayload(t *testing.T) {
	controller := NewController(ControllerOptions{Service: stubResolver{view: TabView{Tab: TabBots, Generation: 2}}})
	payload, err := controller.TabPayload(context.Background(), ViewerContext{UserID: "u"})
	require.NoError(t, err)
	view := payload["tab"].(TabView)
	assert.Equal(t, TabBots, view.Tab)
}

func TestEmbeddedTemplatesRenderEveryTab(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)
	svc := newTestService(t, Options{})
	controller := NewController(ControllerOptions{Service: svc, Renderer: renderer})

	ctx := context.Background()
	viewer := ViewerContext{UserID: "templates"}
	for _, tab := range Tabs() {
		_, err := svc.SelectTab(ctx, viewer, tab)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, controller.RenderTemplate(ctx, viewer, &buf), tab)
		html := buf.String()
		assert.Contains(t, html, "<title>"+defaultPageTitle+" · "+tab.Title()+"</title>", tab)
		assert.NotContains(t, html, `id=""`, tab)
		assert.NotContains(t, html, `data-code=""`, tab)
	}
}

func TestEmbeddedTemplatesRenderWidgetContent(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)
	svc := newTestService(t, Options{})
	controller := NewController(ControllerOptions{
		Service:  svc,
		Renderer: renderer,
		Headers:  staticHeaders{Arcade: "Central Square Arcade", City: "Boston, MA"},
	})

	ctx := context.Background()
	viewer := ViewerContext{UserID: "content"}
	render := func(tab Tab) string {
		t.Helper()
		_, err := svc.SelectTab(ctx, viewer, tab)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, controller.RenderTemplate(ctx, viewer, &buf))
		return buf.String()
	}

	operator := render(TabOperator)
	assert.Contains(t, operator, "<strong>82</strong>")
	assert.Contains(t, operator, "+5%")
	assert.Contains(t, operator, `data-code="`+WidgetOperatorHealth+`"`)
	assert.Contains(t, operator, "Central Square Arcade · Boston, MA")
	assert.Contains(t, operator, "% churn risk")

	sponsor := render(TabSponsor)
	assert.Contains(t, sponsor, "$100,000")
	assert.Contains(t, sponsor, "Northside Coffee")

	bots := render(TabBots)
	assert.Contains(t, bots, "members · synced")
}
