package preview

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concatenator-dev/concatenator/internal/logging"
	"github.com/concatenator-dev/concatenator/internal/runtime"
	"github.com/concatenator-dev/concatenator/internal/stepbar"
)

func builtinRuntime(t *testing.T) *runtime.Runtime {
	t.Helper()
	t.Chdir(t.TempDir())
	return runtime.New(runtime.WithBuiltinFallback(true))
}

func TestNewModel(t *testing.T) {
	rt := builtinRuntime(t)
	obs := logging.NewObservableLogger(log.New(io.Discard))
	collector := logging.NewMetricsCollector()
	obs.AddHook(collector)

	model, err := NewModel(context.Background(), rt, "codons", obs, log.New(io.Discard))
	require.NoError(t, err)

	b := model.Bar()
	assert.Equal(t, 5, b.Len())
	assert.Equal(t, 2, b.Active())
	assert.Equal(t, stepbar.StatusActive, b.Statuses()[2])
	assert.Contains(t, model.View(), "Concatenator")
	assert.Positive(t, collector.Total(logging.MetricBarRepaints))
}

func TestNewModel_DefaultsToFirstStep(t *testing.T) {
	model, err := NewModel(context.Background(), builtinRuntime(t), "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, model.Bar().Active())
}

func TestNewModel_UnknownStep(t *testing.T) {
	_, err := NewModel(context.Background(), builtinRuntime(t), "nope", nil, nil)
	assert.ErrorContains(t, err, "invalid --active")
}

func TestNewModel_MissingDefinition(t *testing.T) {
	rt := runtime.New(runtime.WithManifestPath("does-not-exist.yaml"))
	_, err := NewModel(context.Background(), rt, "", nil, nil)
	assert.ErrorContains(t, err, "failed to load manifest")
}

func TestPreviewCommand_NoRuntime(t *testing.T) {
	cmd := New()
	cmd.SetArgs(nil)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.ErrorContains(t, cmd.ExecuteContext(context.Background()), "runtime not initialized")
}
