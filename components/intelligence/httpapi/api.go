package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	gocommand "github.com/goliatone/go-command"

	intelligence "github.com/goliatone/go-intelligence/components/intelligence"
	"github.com/goliatone/go-intelligence/components/intelligence/assistant"
	"github.com/goliatone/go-intelligence/components/intelligence/commands"
	"github.com/goliatone/go-intelligence/components/intelligence/interaction"
)

// ViewerHeader carries the viewer id when no resolver is configured.
const ViewerHeader = "X-User-ID"

// Handlers exposes HTTP endpoints backed by shared commands. Mutating
// handlers answer with the refreshed tab so clients can re-render in one trip.
type Handlers struct {
	Tab gocommand.Querier[intelligence.ViewerContext, intelligence.TabView]

	SelectTab     gocommand.Commander[commands.SelectTabInput]
	Measure       gocommand.Commander[commands.MeasureIndicatorInput]
	Release       gocommand.Commander[commands.ReleaseMemberInput]
	Ask           gocommand.Commander[commands.AskInput]
	TapSuggestion gocommand.Commander[commands.TapSuggestionInput]
	TogglePoll    gocommand.Commander[commands.TogglePollInput]
	SendPoll      gocommand.Commander[commands.SendPollInput]

	// Viewer resolves who is calling; defaults to ViewerHeader or ?user=.
	Viewer func(*http.Request) intelligence.ViewerContext
}

type releasePayload struct {
	OffsetX float64 `json:"offset_x"`
}

type askPayload struct {
	Text string `json:"text"`
}

type measurePayload struct {
	Rects map[string]interaction.Rect `json:"rects"`
}

type pollPayload struct {
	Text     string `json:"text"`
	Platform string `json:"platform"`
}

func (h *Handlers) HandleTab(w http.ResponseWriter, r *http.Request) {
	view, err := h.Tab.Query(r.Context(), h.viewer(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tab": view})
}

func (h *Handlers) HandleSelectTab(w http.ResponseWriter, r *http.Request, tab string) {
	viewer := h.viewer(r)
	if err := h.SelectTab.Execute(r.Context(), commands.SelectTabInput{Viewer: viewer, Tab: intelligence.Tab(tab)}); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithTab(w, r, viewer, http.StatusOK, nil)
}

func (h *Handlers) HandleMeasureIndicator(w http.ResponseWriter, r *http.Request) {
	var payload measurePayload
	if !decode(w, r, &payload) {
		return
	}
	viewer := h.viewer(r)
	if err := h.Measure.Execute(r.Context(), commands.MeasureIndicatorInput{Viewer: viewer, Rects: payload.Rects}); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithTab(w, r, viewer, http.StatusOK, nil)
}

func (h *Handlers) HandleReleaseMember(w http.ResponseWriter, r *http.Request, memberID string) {
	var payload releasePayload
	if !decode(w, r, &payload) {
		return
	}
	viewer := h.viewer(r)
	var outcome interaction.ReleaseOutcome
	input := commands.ReleaseMemberInput{Viewer: viewer, MemberID: memberID, OffsetX: payload.OffsetX, Outcome: &outcome}
	if err := h.Release.Execute(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithTab(w, r, viewer, http.StatusOK, map[string]any{"outcome": outcome})
}

func (h *Handlers) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var payload askPayload
	if !decode(w, r, &payload) {
		return
	}
	viewer := h.viewer(r)
	var reply assistant.Message
	if err := h.Ask.Execute(r.Context(), commands.AskInput{Viewer: viewer, Text: payload.Text, Reply: &reply}); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithTab(w, r, viewer, http.StatusOK, map[string]any{"reply": reply})
}

func (h *Handlers) HandleTapSuggestion(w http.ResponseWriter, r *http.Request, suggestionID string) {
	viewer := h.viewer(r)
	var reply assistant.Message
	input := commands.TapSuggestionInput{Viewer: viewer, SuggestionID: suggestionID, Reply: &reply}
	if err := h.TapSuggestion.Execute(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithTab(w, r, viewer, http.StatusOK, map[string]any{"reply": reply})
}

func (h *Handlers) HandleTogglePoll(w http.ResponseWriter, r *http.Request, pollID string) {
	viewer := h.viewer(r)
	var expanded bool
	if err := h.TogglePoll.Execute(r.Context(), commands.TogglePollInput{Viewer: viewer, PollID: pollID, Expanded: &expanded}); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithTab(w, r, viewer, http.StatusOK, map[string]any{"expanded": expanded})
}

func (h *Handlers) HandleSendPoll(w http.ResponseWriter, r *http.Request) {
	var payload pollPayload
	if !decode(w, r, &payload) {
		return
	}
	viewer := h.viewer(r)
	var sent interaction.SentPoll
	input := commands.SendPollInput{Viewer: viewer, Text: payload.Text, Platform: payload.Platform, Sent: &sent}
	if err := h.SendPoll.Execute(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithTab(w, r, viewer, http.StatusCreated, map[string]any{"sent": sent})
}

func (h *Handlers) respondWithTab(w http.ResponseWriter, r *http.Request, viewer intelligence.ViewerContext, status int, body map[string]any) {
	if body == nil {
		body = map[string]any{}
	}
	if h.Tab != nil {
		view, err := h.Tab.Query(r.Context(), viewer)
		if err != nil {
			writeError(w, err)
			return
		}
		body["tab"] = view
	}
	writeJSON(w, status, body)
}

func (h *Handlers) viewer(r *http.Request) intelligence.ViewerContext {
	if h.Viewer != nil {
		return h.Viewer(r)
	}
	id := strings.TrimSpace(r.Header.Get(ViewerHeader))
	if id == "" {
		id = strings.TrimSpace(r.URL.Query().Get("user"))
	}
	return intelligence.ViewerContext{UserID: id, Locale: r.Header.Get("Accept-Language")}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), map[string]string{"error": err.Error()})
}
