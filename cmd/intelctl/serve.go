package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-intelligence/components/intelligence"
	"github.com/goliatone/go-intelligence/components/intelligence/gorouter"
	"github.com/goliatone/go-intelligence/components/intelligence/httpapi"
	"github.com/goliatone/go-intelligence/pkg/collab"
)

type serveCmd struct {
	Addr        string `help:"Listen address (overrides INTEL_ADDR)."`
	MetricsAddr string `help:"Metrics listen address (overrides INTEL_METRICS_ADDR); empty string disables."`
	Charts      bool   `default:"true" negatable:"" help:"Attach ECharts HTML to chart widgets."`
}

func (cmd *serveCmd) Run(parent context.Context, rt *runtime) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := firstNonEmpty(cmd.Addr, rt.cfg.Addr)
	metricsAddr := firstNonEmpty(cmd.MetricsAddr, rt.cfg.MetricsAddr)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := intelligence.NewPrometheusTelemetry(registry)
	if err != nil {
		return fmt.Errorf("intelctl: register metrics: %w", err)
	}
	telemetry := intelligence.MultiTelemetry{intelligence.NewSlogTelemetry(rt.logger), metrics}

	hook := intelligence.NewBroadcastHook()
	opts := intelligence.Options{RefreshHook: hook, Telemetry: telemetry}
	if cmd.Charts {
		opts.Charts = newChartRenderer(rt.cfg)
	}
	service, err := rt.service(opts)
	if err != nil {
		return err
	}
	defer service.Close()
	if err := service.ValidateLayouts(); err != nil {
		return err
	}

	renderer, err := intelligence.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("intelctl: template renderer: %w", err)
	}
	controllerOpts := intelligence.ControllerOptions{Service: service, Renderer: renderer}
	if rt.cfg.CollabURL != "" {
		client, err := collab.NewHTTPClient(collab.HTTPConfig{BaseURL: rt.cfg.CollabURL, APIKey: rt.cfg.CollabKey})
		if err != nil {
			return err
		}
		controllerOpts.Headers = collab.NewHeaderSource(client, rt.cfg.ArcadeID, rt.logger)
	}
	controller := intelligence.NewController(controllerOpts)

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		API:        httpapi.NewCommandExecutor(service, telemetry),
		Broadcast:  hook,
	}); err != nil {
		return fmt.Errorf("intelctl: register routes: %w", err)
	}

	var metricsServer *http.Server
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
		mux.HandleFunc("/events", hook.ServeSSE)
		metricsServer = &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				rt.logger.Error("metrics server stopped", "error", err)
			}
		}()
		rt.logger.Info("ops listener ready", "addr", metricsAddr, "paths", "/metrics /events")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(addr)
	}()
	rt.logger.Info("dashboard ready", "url", "http://localhost"+addr+"/intelligence")

	select {
	case err = <-errCh:
	case <-ctx.Done():
		rt.logger.Info("shutting down")
	}
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
