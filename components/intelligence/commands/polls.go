package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	intelligence "github.com/goliatone/go-intelligence/components/intelligence"
	"github.com/goliatone/go-intelligence/components/intelligence/interaction"
)

type pollService interface {
	TogglePoll(ctx context.Context, viewer intelligence.ViewerContext, pollID string) (bool, error)
	SendPoll(ctx context.Context, viewer intelligence.ViewerContext, text, platform string) (interaction.SentPoll, error)
}

// TogglePollInput expands or collapses a poll card.
type TogglePollInput struct {
	Viewer   intelligence.ViewerContext
	PollID   string
	Expanded *bool
}

// TogglePollCommand flips a poll accordion.
type TogglePollCommand struct {
	service   pollService
	telemetry Telemetry
}

// NewTogglePollCommand creates the command.
func NewTogglePollCommand(service pollService, telemetry Telemetry) *TogglePollCommand {
	return &TogglePollCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[TogglePollInput] = (*TogglePollCommand)(nil)

// Execute delegates to the service.
func (c *TogglePollCommand) Execute(ctx context.Context, msg TogglePollInput) error {
	if c.service == nil {
		return errors.New("toggle poll command requires service")
	}
	expanded, err := c.service.TogglePoll(ctx, msg.Viewer, msg.PollID)
	if err != nil {
		return err
	}
	if msg.Expanded != nil {
		*msg.Expanded = expanded
	}
	c.telemetry.Record(ctx, "intelligence.command.toggle_poll", map[string]any{
		"poll":     msg.PollID,
		"expanded": expanded,
	})
	return nil
}

// SendPollInput submits the composer. Platform may be empty to keep the
// current selection.
type SendPollInput struct {
	Viewer   intelligence.ViewerContext
	Text     string
	Platform string
	Sent     *interaction.SentPoll
}

// SendPollCommand simulates sending a poll to a connected platform.
type SendPollCommand struct {
	service   pollService
	telemetry Telemetry
}

// NewSendPollCommand creates the command.
func NewSendPollCommand(service pollService, telemetry Telemetry) *SendPollCommand {
	return &SendPollCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SendPollInput] = (*SendPollCommand)(nil)

// Execute delegates to the service.
func (c *SendPollCommand) Execute(ctx context.Context, msg SendPollInput) error {
	if c.service == nil {
		return errors.New("send poll command requires service")
	}
	sent, err := c.service.SendPoll(ctx, msg.Viewer, msg.Text, msg.Platform)
	if err != nil {
		return err
	}
	if msg.Sent != nil {
		*msg.Sent = sent
	}
	c.telemetry.Record(ctx, "intelligence.command.send_poll", map[string]any{
		"platform": sent.Platform,
	})
	return nil
}
