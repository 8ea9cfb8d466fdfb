package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	intelligence "github.com/goliatone/go-intelligence/components/intelligence"
	"github.com/goliatone/go-intelligence/components/intelligence/assistant"
	"github.com/goliatone/go-intelligence/components/intelligence/commands"
	"github.com/goliatone/go-intelligence/components/intelligence/httpapi"
	"github.com/goliatone/go-intelligence/components/intelligence/interaction"
	"github.com/goliatone/go-intelligence/components/intelligence/queries"
)

// ViewerResolver converts a router.Context into an intelligence.ViewerContext.
type ViewerResolver func(router.Context) intelligence.ViewerContext

// Config wires go-router with the intelligence controller, API and hooks.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *intelligence.Controller
	API            httpapi.Executor
	Broadcast      *intelligence.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the paths, relative to BasePath, of every endpoint.
type RouteConfig struct {
	HTML       string
	Tab        string
	Widget     string
	SelectTab  string
	Indicator  string
	Release    string
	Chat       string
	Suggestion string
	TogglePoll string
	SendPoll   string
	WebSocket  string
}

// Register mounts the dashboard routes (HTML, JSON, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/intelligence"
	}
	resolver := cfg.ViewerResolver
	if resolver == nil {
		resolver = defaultViewerResolver
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), resolver(ctx), &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.Tab, router.WrapHandler(func(ctx router.Context) error {
		payload, err := cfg.Controller.TabPayload(ctx.Context(), resolver(ctx))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, resolver, routes)
	}
	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ViewerResolver, routes RouteConfig) {
	withTab := func(ctx router.Context, viewer intelligence.ViewerContext, status int, body map[string]any) error {
		view, err := api.Tab(ctx.Context(), viewer)
		if err != nil {
			return respondError(ctx, err)
		}
		body["tab"] = view
		return ctx.JSON(status, body)
	}

	r.Get(routes.Widget, router.WrapHandler(func(ctx router.Context) error {
		widget, err := api.Widget(ctx.Context(), queries.WidgetInput{Viewer: resolver(ctx), WidgetID: ctx.Param("id")})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"widget": widget})
	}))

	r.Post(routes.SelectTab, router.WrapHandler(func(ctx router.Context) error {
		viewer := resolver(ctx)
		input := commands.SelectTabInput{Viewer: viewer, Tab: intelligence.Tab(ctx.Param("tab"))}
		if err := api.SelectTab(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return withTab(ctx, viewer, http.StatusOK, map[string]any{})
	}))

	r.Post(routes.Indicator, router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			Rects map[string]interaction.Rect `json:"rects"`
		}
		if err := decodeBody(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		viewer := resolver(ctx)
		if err := api.Measure(ctx.Context(), commands.MeasureIndicatorInput{Viewer: viewer, Rects: payload.Rects}); err != nil {
			return respondError(ctx, err)
		}
		return withTab(ctx, viewer, http.StatusOK, map[string]any{})
	}))

	r.Post(routes.Release, router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			OffsetX float64 `json:"offset_x"`
		}
		if err := decodeBody(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		viewer := resolver(ctx)
		var outcome interaction.ReleaseOutcome
		input := commands.ReleaseMemberInput{Viewer: viewer, MemberID: ctx.Param("id"), OffsetX: payload.OffsetX, Outcome: &outcome}
		if err := api.Release(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return withTab(ctx, viewer, http.StatusOK, map[string]any{"outcome": outcome})
	}))

	r.Post(routes.Chat, router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			Text string `json:"text"`
		}
		if err := decodeBody(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		viewer := resolver(ctx)
		var reply assistant.Message
		if err := api.Ask(ctx.Context(), commands.AskInput{Viewer: viewer, Text: payload.Text, Reply: &reply}); err != nil {
			return respondError(ctx, err)
		}
		return withTab(ctx, viewer, http.StatusOK, map[string]any{"reply": reply})
	}))

	r.Post(routes.Suggestion, router.WrapHandler(func(ctx router.Context) error {
		viewer := resolver(ctx)
		var reply assistant.Message
		input := commands.TapSuggestionInput{Viewer: viewer, SuggestionID: ctx.Param("id"), Reply: &reply}
		if err := api.TapSuggestion(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return withTab(ctx, viewer, http.StatusOK, map[string]any{"reply": reply})
	}))

	r.Post(routes.TogglePoll, router.WrapHandler(func(ctx router.Context) error {
		viewer := resolver(ctx)
		var expanded bool
		input := commands.TogglePollInput{Viewer: viewer, PollID: ctx.Param("id"), Expanded: &expanded}
		if err := api.TogglePoll(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return withTab(ctx, viewer, http.StatusOK, map[string]any{"expanded": expanded})
	}))

	r.Post(routes.SendPoll, router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			Text     string `json:"text"`
			Platform string `json:"platform"`
		}
		if err := decodeBody(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		viewer := resolver(ctx)
		var sent interaction.SentPoll
		input := commands.SendPollInput{Viewer: viewer, Text: payload.Text, Platform: payload.Platform, Sent: &sent}
		if err := api.SendPoll(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return withTab(ctx, viewer, http.StatusCreated, map[string]any{"sent": sent})
	}))
}

// registerWebSocket streams every dashboard event; each carries its user_id.
func registerWebSocket[T any](r router.Router[T], hook *intelligence.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe("")
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

var errInvalidBody = errors.New("gorouter: invalid request body")

func decodeBody(ctx router.Context, dst any) error {
	body := ctx.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

func defaultViewerResolver(ctx router.Context) intelligence.ViewerContext {
	var viewer intelligence.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	}
	if viewer.UserID == "" {
		viewer.UserID = strings.TrimSpace(ctx.Header(httpapi.ViewerHeader))
	}
	if viewer.UserID == "" {
		viewer.UserID = strings.TrimSpace(ctx.Query("user"))
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	return parseAcceptLanguage(ctx.Header("Accept-Language"))
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func statusFor(err error) int {
	if errors.Is(err, errInvalidBody) {
		return http.StatusBadRequest
	}
	return httpapi.StatusFor(err)
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(statusFor(err), map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	defaults := map[*string]string{
		&routes.HTML:       "/",
		&routes.Tab:        "/_tab",
		&routes.Widget:     "/widgets/:id",
		&routes.SelectTab:  "/tabs/:tab",
		&routes.Indicator:  "/indicator",
		&routes.Release:    "/members/:id/release",
		&routes.Chat:       "/chat",
		&routes.Suggestion: "/chat/suggestions/:id",
		&routes.TogglePoll: "/polls/:id/toggle",
		&routes.SendPoll:   "/polls",
		&routes.WebSocket:  "/ws",
	}
	for field, value := range defaults {
		if *field == "" {
			*field = value
		}
	}
	return routes
}
