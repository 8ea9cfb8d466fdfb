package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/goliatone/go-intelligence/components/intelligence"
	"github.com/goliatone/go-intelligence/components/intelligence/assistant"
)

type cli struct {
	Dataset string `type:"path" help:"Dataset YAML (defaults to INTEL_DATASET or the built-in Central Square fixtures)."`

	Render   renderCmd   `cmd:"" help:"Render a tab as HTML or JSON."`
	Validate validateCmd `cmd:"" help:"Validate a dataset file and every tab layout."`
	Ask      askCmd      `cmd:"" help:"Ask William a question and print the reply."`
	Serve    serveCmd    `cmd:"" help:"Serve the dashboard over HTTP."`
}

type runtime struct {
	cfg    config
	logger *slog.Logger
	out    io.Writer
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	var root cli
	ctx := kong.Parse(&root,
		kong.Description("Community intelligence dashboard for Central Square."),
		kong.UsageOnError(),
	)
	if root.Dataset != "" {
		cfg.Dataset = root.Dataset
	}
	rt := &runtime{cfg: cfg, logger: newLogger(cfg.LogLevel, os.Stderr), out: os.Stdout}
	ctx.BindTo(context.Background(), (*context.Context)(nil))
	ctx.FatalIfErrorf(ctx.Run(rt))
}

func newLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func (rt *runtime) dataset() (*intelligence.Dataset, error) {
	if rt.cfg.Dataset == "" {
		return intelligence.DefaultDataset(), nil
	}
	return intelligence.ReadDataset(rt.cfg.Dataset)
}

func (rt *runtime) service(opts intelligence.Options) (*intelligence.Service, error) {
	dataset, err := rt.dataset()
	if err != nil {
		return nil, err
	}
	opts.Dataset = dataset
	if opts.ChatMinDelay == 0 && opts.ChatMaxDelay == 0 {
		opts.ChatMinDelay = rt.cfg.ChatMinDelay
		opts.ChatMaxDelay = rt.cfg.ChatMaxDelay
	}
	if opts.Telemetry == nil {
		opts.Telemetry = intelligence.NewSlogTelemetry(rt.logger)
	}
	return intelligence.NewService(opts)
}

type renderCmd struct {
	Tab    string `arg:"" optional:"" default:"operator" help:"Tab to render (operator, sponsor, discourse, bots, william)."`
	Format string `enum:"html,json" default:"html" help:"Output format."`
	User   string `default:"cli" help:"Viewer id used for the workspace."`
	Charts bool   `help:"Attach ECharts HTML to chart widgets."`
}

func (cmd *renderCmd) Run(ctx context.Context, rt *runtime) error {
	tab, err := intelligence.ParseTab(cmd.Tab)
	if err != nil {
		return err
	}
	opts := intelligence.Options{InitialTab: tab}
	if cmd.Charts {
		opts.Charts = newChartRenderer(rt.cfg)
	}
	service, err := rt.service(opts)
	if err != nil {
		return err
	}
	defer service.Close()

	viewer := intelligence.ViewerContext{UserID: cmd.User, Locale: "en"}
	if cmd.Format == "json" {
		view, err := service.ResolveTab(ctx, viewer)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(rt.out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	renderer, err := intelligence.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("intelctl: template renderer: %w", err)
	}
	controller := intelligence.NewController(intelligence.ControllerOptions{
		Service:  service,
		Renderer: renderer,
	})
	return controller.RenderTemplate(ctx, viewer, rt.out)
}

type validateCmd struct {
	Path string `arg:"" optional:"" type:"existingfile" help:"Dataset file to validate (defaults to the global dataset)."`
}

func (cmd *validateCmd) Run(_ context.Context, rt *runtime) error {
	if cmd.Path != "" {
		rt.cfg.Dataset = cmd.Path
	}
	service, err := rt.service(intelligence.Options{})
	if err != nil {
		return err
	}
	defer service.Close()
	if err := service.ValidateLayouts(); err != nil {
		return err
	}
	source := rt.cfg.Dataset
	if source == "" {
		source = "built-in dataset"
	}
	fmt.Fprintf(rt.out, "✓ %s is valid (%d tabs)\n", source, len(intelligence.Tabs()))
	return nil
}

type askCmd struct {
	Question []string `arg:"" help:"Question for William."`
	Instant  bool     `help:"Skip the typing delay."`
}

func (cmd *askCmd) Run(ctx context.Context, rt *runtime) error {
	opts := intelligence.Options{InitialTab: intelligence.TabWilliam}
	if cmd.Instant {
		opts.ChatSleep = func(context.Context, time.Duration) error { return nil }
	}
	service, err := rt.service(opts)
	if err != nil {
		return err
	}
	defer service.Close()

	reply, err := service.Ask(ctx, intelligence.ViewerContext{UserID: "cli"}, strings.Join(cmd.Question, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(rt.out, reply.Content)
	for _, card := range reply.Cards {
		view, err := assistant.RenderCard(card)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(view)
		if err != nil {
			return err
		}
		fmt.Fprintf(rt.out, "  %s\n", raw)
	}
	return nil
}

func newChartRenderer(cfg config) *intelligence.EChartsRenderer {
	var opts []intelligence.EChartsRendererOption
	if cfg.EChartsCDN != "" {
		opts = append(opts, intelligence.WithChartAssetsHost(cfg.EChartsCDN))
	}
	return intelligence.NewEChartsRenderer(opts...)
}
