package commands

import (
	"context"
	"errors"
	"strings"

	gocommand "github.com/goliatone/go-command"

	intelligence "github.com/goliatone/go-intelligence/components/intelligence"
	"github.com/goliatone/go-intelligence/components/intelligence/interaction"
)

// ReleaseMemberInput is a drag release on a member card. OffsetX is the
// horizontal distance, in pixels, from where the drag started.
type ReleaseMemberInput struct {
	Viewer   intelligence.ViewerContext
	MemberID string
	OffsetX  float64
	// Outcome, when set, receives what the release did.
	Outcome *interaction.ReleaseOutcome
}

type memberReleaser interface {
	ReleaseMember(ctx context.Context, viewer intelligence.ViewerContext, memberID string, offsetX float64) (interaction.ReleaseOutcome, error)
}

// ReleaseMemberCommand applies swipe-to-dismiss releases.
type ReleaseMemberCommand struct {
	service   memberReleaser
	telemetry Telemetry
}

// NewReleaseMemberCommand creates the command.
func NewReleaseMemberCommand(service memberReleaser, telemetry Telemetry) *ReleaseMemberCommand {
	return &ReleaseMemberCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ReleaseMemberInput] = (*ReleaseMemberCommand)(nil)

// Execute delegates to the service.
func (c *ReleaseMemberCommand) Execute(ctx context.Context, msg ReleaseMemberInput) error {
	if c.service == nil {
		return errors.New("release member command requires service")
	}
	id := strings.TrimSpace(msg.MemberID)
	if id == "" {
		return errors.New("release member command requires member id")
	}
	outcome, err := c.service.ReleaseMember(ctx, msg.Viewer, id, msg.OffsetX)
	if err != nil {
		return err
	}
	if msg.Outcome != nil {
		*msg.Outcome = outcome
	}
	c.telemetry.Record(ctx, "intelligence.command.release_member", map[string]any{
		"viewer":  msg.Viewer.UserID,
		"member":  id,
		"outcome": string(outcome),
	})
	return nil
}
