package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	intelligence "github.com/goliatone/go-intelligence/components/intelligence"
	"github.com/goliatone/go-intelligence/components/intelligence/commands"
	"github.com/goliatone/go-intelligence/components/intelligence/queries"
)

// Executor is the transport-neutral surface used by router adapters.
type Executor interface {
	Tab(ctx context.Context, viewer intelligence.ViewerContext) (intelligence.TabView, error)
	Widget(ctx context.Context, input queries.WidgetInput) (intelligence.WidgetView, error)
	SelectTab(ctx context.Context, input commands.SelectTabInput) error
	Measure(ctx context.Context, input commands.MeasureIndicatorInput) error
	Release(ctx context.Context, input commands.ReleaseMemberInput) error
	Ask(ctx context.Context, input commands.AskInput) error
	TapSuggestion(ctx context.Context, input commands.TapSuggestionInput) error
	TogglePoll(ctx context.Context, input commands.TogglePollInput) error
	SendPoll(ctx context.Context, input commands.SendPollInput) error
}

var errNotConfigured = errors.New("httpapi: command not configured")

// CommandExecutor adapts go-command commanders to Executor.
type CommandExecutor struct {
	TabQuerier             gocommand.Querier[intelligence.ViewerContext, intelligence.TabView]
	WidgetQuerier          gocommand.Querier[queries.WidgetInput, intelligence.WidgetView]
	SelectTabCommander     gocommand.Commander[commands.SelectTabInput]
	MeasureCommander       gocommand.Commander[commands.MeasureIndicatorInput]
	ReleaseCommander       gocommand.Commander[commands.ReleaseMemberInput]
	AskCommander           gocommand.Commander[commands.AskInput]
	TapSuggestionCommander gocommand.Commander[commands.TapSuggestionInput]
	TogglePollCommander    gocommand.Commander[commands.TogglePollInput]
	SendPollCommander      gocommand.Commander[commands.SendPollInput]
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) Tab(ctx context.Context, viewer intelligence.ViewerContext) (intelligence.TabView, error) {
	if e.TabQuerier == nil {
		return intelligence.TabView{}, errNotConfigured
	}
	return e.TabQuerier.Query(ctx, viewer)
}

func (e *CommandExecutor) Widget(ctx context.Context, input queries.WidgetInput) (intelligence.WidgetView, error) {
	if e.WidgetQuerier == nil {
		return intelligence.WidgetView{}, errNotConfigured
	}
	return e.WidgetQuerier.Query(ctx, input)
}

func (e *CommandExecutor) SelectTab(ctx context.Context, input commands.SelectTabInput) error {
	return execute(ctx, e.SelectTabCommander, input)
}

func (e *CommandExecutor) Measure(ctx context.Context, input commands.MeasureIndicatorInput) error {
	return execute(ctx, e.MeasureCommander, input)
}

func (e *CommandExecutor) Release(ctx context.Context, input commands.ReleaseMemberInput) error {
	return execute(ctx, e.ReleaseCommander, input)
}

func (e *CommandExecutor) Ask(ctx context.Context, input commands.AskInput) error {
	return execute(ctx, e.AskCommander, input)
}

func (e *CommandExecutor) TapSuggestion(ctx context.Context, input commands.TapSuggestionInput) error {
	return execute(ctx, e.TapSuggestionCommander, input)
}

func (e *CommandExecutor) TogglePoll(ctx context.Context, input commands.TogglePollInput) error {
	return execute(ctx, e.TogglePollCommander, input)
}

func (e *CommandExecutor) SendPoll(ctx context.Context, input commands.SendPollInput) error {
	return execute(ctx, e.SendPollCommander, input)
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], input T) error {
	if cmd == nil {
		return errNotConfigured
	}
	return cmd.Execute(ctx, input)
}

// NewCommandExecutor wires every command against service.
func NewCommandExecutor(service *intelligence.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		TabQuerier:             queries.NewTabQuery(service),
		WidgetQuerier:          queries.NewWidgetQuery(service),
		SelectTabCommander:     commands.NewSelectTabCommand(service, telemetry),
		MeasureCommander:       commands.NewMeasureIndicatorCommand(service, telemetry),
		ReleaseCommander:       commands.NewReleaseMemberCommand(service, telemetry),
		AskCommander:           commands.NewAskCommand(service, telemetry),
		TapSuggestionCommander: commands.NewTapSuggestionCommand(service, telemetry),
		TogglePollCommander:    commands.NewTogglePollCommand(service, telemetry),
		SendPollCommander:      commands.NewSendPollCommand(service, telemetry),
	}
}
