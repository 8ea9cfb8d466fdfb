package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRuntime(t *testing.T) (*runtime, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &runtime{
		cfg:    config{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		out:    &out,
	}, &out
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9876", cfg.Addr)
	assert.Equal(t, ":9877", cfg.MetricsAddr)
	assert.Equal(t, 1200*time.Millisecond, cfg.ChatMinDelay)
	assert.Equal(t, 2*time.Second, cfg.ChatMaxDelay)
}

func TestLoadConfigRejectsInvertedDelays(t *testing.T) {
	t.Setenv("INTEL_CHAT_MIN_DELAY", "3s")
	t.Setenv("INTEL_CHAT_MAX_DELAY", "1s")
	_, err := loadConfig()
	require.Error(t, err)
}

func TestRenderJSON(t *testing.T) {
	rt, out := newTestRuntime(t)
	cmd := &renderCmd{Tab: "bots", Format: "json", User: "tester"}
	require.NoError(t, cmd.Run(context.Background(), rt))

	var view map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	assert.Equal(t, "bots", view["tab"])
}

func TestRenderHTML(t *testing.T) {
	rt, out := newTestRuntime(t)
	cmd := &renderCmd{Tab: "operator", Format: "html", User: "tester"}
	require.NoError(t, cmd.Run(context.Background(), rt))
	assert.Contains(t, out.String(), "<strong>82</strong>")
	assert.Contains(t, out.String(), `data-code="operator.health"`)
}

func TestRenderUnknownTab(t *testing.T) {
	rt, _ := newTestRuntime(t)
	cmd := &renderCmd{Tab: "nope", Format: "json"}
	require.Error(t, cmd.Run(context.Background(), rt))
}

func TestValidateBuiltInDataset(t *testing.T) {
	rt, out := newTestRuntime(t)
	require.NoError(t, (&validateCmd{}).Run(context.Background(), rt))
	assert.Contains(t, out.String(), "built-in dataset is valid")
}

func TestValidateRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte("operator: [not, a, map"), 0o644))

	rt, _ := newTestRuntime(t)
	require.Error(t, (&validateCmd{Path: path}).Run(context.Background(), rt))
}

func TestAskPrintsReply(t *testing.T) {
	rt, out := newTestRuntime(t)
	cmd := &askCmd{Question: []string{"how", "is", "community", "health?"}, Instant: true}
	require.NoError(t, cmd.Run(context.Background(), rt))
	assert.NotEmpty(t, strings.TrimSpace(out.String()))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
