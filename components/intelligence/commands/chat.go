package commands

import (
	"context"
	"errors"
	"strings"

	gocommand "github.com/goliatone/go-command"

	intelligence "github.com/goliatone/go-intelligence/components/intelligence"
	"github.com/goliatone/go-intelligence/components/intelligence/assistant"
)

type chatService interface {
	Ask(ctx context.Context, viewer intelligence.ViewerContext, text string) (assistant.Message, error)
	TapSuggestion(ctx context.Context, viewer intelligence.ViewerContext, suggestionID string) (assistant.Message, error)
}

// AskInput is a free-text question for the assistant.
type AskInput struct {
	Viewer intelligence.ViewerContext
	Text   string
	// Reply, when set, receives the assistant's answer.
	Reply *assistant.Message
}

// AskCommand sends a typed question to the assistant.
type AskCommand struct {
	service   chatService
	telemetry Telemetry
}

// NewAskCommand creates the command.
func NewAskCommand(service chatService, telemetry Telemetry) *AskCommand {
	return &AskCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AskInput] = (*AskCommand)(nil)

// Execute blocks until the simulated reply arrives or ctx is done.
func (c *AskCommand) Execute(ctx context.Context, msg AskInput) error {
	if c.service == nil {
		return errors.New("ask command requires service")
	}
	if strings.TrimSpace(msg.Text) == "" {
		return assistant.ErrEmptyMessage
	}
	reply, err := c.service.Ask(ctx, msg.Viewer, msg.Text)
	if err != nil {
		return err
	}
	if msg.Reply != nil {
		*msg.Reply = reply
	}
	c.telemetry.Record(ctx, "intelligence.command.ask", map[string]any{
		"viewer": msg.Viewer.UserID,
		"cards":  len(reply.Cards),
	})
	return nil
}

// TapSuggestionInput asks one of the suggested questions.
type TapSuggestionInput struct {
	Viewer       intelligence.ViewerContext
	SuggestionID string
	Reply        *assistant.Message
}

// TapSuggestionCommand asks a suggested question by id.
type TapSuggestionCommand struct {
	service   chatService
	telemetry Telemetry
}

// NewTapSuggestionCommand creates the command.
func NewTapSuggestionCommand(service chatService, telemetry Telemetry) *TapSuggestionCommand {
	return &TapSuggestionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[TapSuggestionInput] = (*TapSuggestionCommand)(nil)

// Execute delegates to the service.
func (c *TapSuggestionCommand) Execute(ctx context.Context, msg TapSuggestionInput) error {
	if c.service == nil {
		return errors.New("tap suggestion command requires service")
	}
	reply, err := c.service.TapSuggestion(ctx, msg.Viewer, msg.SuggestionID)
	if err != nil {
		return err
	}
	if msg.Reply != nil {
		*msg.Reply = reply
	}
	c.telemetry.Record(ctx, "intelligence.command.tap_suggestion", map[string]any{
		"viewer":     msg.Viewer.UserID,
		"suggestion": msg.SuggestionID,
	})
	return nil
}
