package intelligence

import (
	"context"
	"log/slog"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// SlogTelemetry writes every event as a structured log line.
type SlogTelemetry struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogTelemetry logs at info level; a nil logger uses slog.Default().
func NewSlogTelemetry(logger *slog.Logger) *SlogTelemetry {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogTelemetry{logger: logger, level: slog.LevelInfo}
}

// Record implements Telemetry. Events ending in _error are logged as warnings.
func (t *SlogTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, payload[k]))
	}
	level := t.level
	if isErrorEvent(event) {
		level = slog.LevelWarn
	}
	t.logger.LogAttrs(ctx, level, event, attrs...)
}

// PrometheusTelemetry counts events by name.
type PrometheusTelemetry struct {
	events *prometheus.CounterVec
	errors *prometheus.CounterVec
}

// NewPrometheusTelemetry registers the intelligence_* counters on reg.
// A nil reg uses the default registerer.
func NewPrometheusTelemetry(reg prometheus.Registerer) (*PrometheusTelemetry, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	t := &PrometheusTelemetry{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "intelligence",
				Name:      "events_total",
				Help:      "Dashboard events recorded by name.",
			},
			[]string{"event"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "intelligence",
				Name:      "widget_errors_total",
				Help:      "Widget provider failures by definition.",
			},
			[]string{"definition"},
		),
	}
	for _, c := range []prometheus.Collector{t.events, t.errors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Record implements Telemetry.
func (t *PrometheusTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	t.events.WithLabelValues(event).Inc()
	if isErrorEvent(event) {
		def, _ := payload["definition_id"].(string)
		t.errors.WithLabelValues(def).Inc()
	}
}

// MultiTelemetry forwards events to every sink.
type MultiTelemetry []Telemetry

// Record implements Telemetry.
func (m MultiTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	for _, t := range m {
		if t != nil {
			t.Record(ctx, event, payload)
		}
	}
}

func isErrorEvent(event string) bool {
	const suffix = "_error"
	return len(event) >= len(suffix) && event[len(event)-len(suffix):] == suffix
}
