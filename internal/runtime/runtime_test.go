// Copyright 2025 The Concatenator Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package runtime

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/concatenator-dev/concatenator/internal/manifest"
	"github.com/concatenator-dev/concatenator/internal/render/raster"
	"github.com/concatenator-dev/concatenator/internal/render/term"
	"github.com/concatenator-dev/concatenator/internal/stepbar"
)

// MockManifestLoader is a mock implementation of ManifestLoader for testing
type MockManifestLoader struct {
	mock.Mock
}

func (m *MockManifestLoader) Load(ctx context.Context, path string, overrides []manifest.Override) (*manifest.Manifest, error) {
	args := m.Called(ctx, path, overrides)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manifest.Manifest), args.Error(1)
}

func (m *MockManifestLoader) Parse(ctx context.Context, data []byte, overrides []manifest.Override) (*manifest.Manifest, error) {
	args := m.Called(ctx, data, overrides)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manifest.Manifest), args.Error(1)
}

func (m *MockManifestLoader) Save(mf *manifest.Manifest, path string) error {
	args := m.Called(mf, path)
	return args.Error(0)
}

// MockFontLoader is a mock implementation of FontLoader for testing
type MockFontLoader struct {
	mock.Mock
}

func (m *MockFontLoader) LoadFonts(path string, size float64) (*raster.Fonts, error) {
	args := m.Called(path, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*raster.Fonts), args.Error(1)
}

// MockLoggerProvider is a mock implementation of LoggerProvider for testing
type MockLoggerProvider struct {
	mock.Mock
	logs []LogEntry
}

type LogEntry struct {
	Level   string
	Message string
	KeyVals []any
}

func (m *MockLoggerProvider) Debug(msg string, keyvals ...any) {
	m.logs = append(m.logs, LogEntry{Level: "debug", Message: msg, KeyVals: keyvals})
}

func (m *MockLoggerProvider) Info(msg string, keyvals ...any) {
	m.logs = append(m.logs, LogEntry{Level: "info", Message: msg, KeyVals: keyvals})
}

func (m *MockLoggerProvider) Warn(msg string, keyvals ...any) {
	m.logs = append(m.logs, LogEntry{Level: "warn", Message: msg, KeyVals: keyvals})
}

func (m *MockLoggerProvider) Error(msg string, keyvals ...any) {
	m.logs = append(m.logs, LogEntry{Level: "error", Message: msg, KeyVals: keyvals})
}

func (m *MockLoggerProvider) With(keyvals ...any) LoggerProvider {
	return m
}

func (m *MockLoggerProvider) GetLogs() []LogEntry {
	return m.logs
}

func testManifest() *manifest.Manifest {
	return &manifest.Manifest{
		APIVersion: "v1-alpha.1",
		Title:      "Test",
		Steps: []manifest.Step{
			{Key: "input", Label: "Input"},
			{Key: "align", Label: "Align", Weight: ptr.To(2)},
			{Key: "export", Label: "Export"},
		},
		Theme:  manifest.Theme{Bold: "#000000", Base: "#808080", Alert: "#ff0000"},
		Layout: manifest.Layout{TextPadding: 10, AnimationPeriod: "2s", TimerInterval: "20ms"},
		Font:   manifest.Font{Size: 11},
	}
}

func TestRuntimeWithDependencyInjection(t *testing.T) {
	t.Run("should use injected loader", func(t *testing.T) {
		loader := &MockManifestLoader{}
		expected := testManifest()
		loader.On("Load", mock.Anything, "custom.yaml", []manifest.Override(nil)).Return(expected, nil).Once()

		rt := New(WithManifestPath("custom.yaml"), WithManifestLoader(loader))

		m, err := rt.Manifest(context.Background())
		require.NoError(t, err)
		assert.Same(t, expected, m)
		loader.AssertExpectations(t)
	})

	t.Run("should use default configuration values", func(t *testing.T) {
		rt := New()

		assert.Equal(t, manifest.DefaultManifestPath, rt.ManifestPath())
		assert.False(t, rt.builtin)
		assert.NotNil(t, rt.Logger())
	})

	t.Run("should pass overrides to the loader", func(t *testing.T) {
		loader := &MockManifestLoader{}
		overrides := []manifest.Override{{Path: "title", Value: "X"}}
		loader.On("Load", mock.Anything, "a.yaml", overrides).Return(testManifest(), nil)

		rt := New(WithManifestPath("a.yaml"), WithOverrides(overrides...), WithManifestLoader(loader))

		_, err := rt.Manifest(context.Background())
		require.NoError(t, err)
		loader.AssertExpectations(t)
	})

	t.Run("should memoize the manifest", func(t *testing.T) {
		loader := &MockManifestLoader{}
		loader.On("Load", mock.Anything, mock.Anything, mock.Anything).Return(testManifest(), nil).Once()

		rt := New(WithManifestLoader(loader))

		m1, err1 := rt.Manifest(context.Background())
		m2, err2 := rt.Manifest(context.Background())

		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.Same(t, m1, m2)
		loader.AssertNumberOfCalls(t, "Load", 1)

		require.NoError(t, rt.Close())
		loader.On("Load", mock.Anything, mock.Anything, mock.Anything).Return(testManifest(), nil).Once()
		_, err := rt.Manifest(context.Background())
		assert.NoError(t, err)
		loader.AssertNumberOfCalls(t, "Load", 2)
	})

	t.Run("should handle loader errors", func(t *testing.T) {
		loader := &MockManifestLoader{}
		loader.On("Load", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		rt := New(WithManifestLoader(loader))

		m, err := rt.Manifest(context.Background())
		assert.Nil(t, m)
		assert.ErrorContains(t, err, "failed to load manifest: boom")
	})
}

func TestBuiltinFallback(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "concatenator.yaml")

	t.Run("missing default file uses the built-in wizard", func(t *testing.T) {
		logger := &MockLoggerProvider{}
		rt := New(WithBuiltinFallback(true), WithLogger(logger))
		rt.manifestPath = missing

		assert.True(t, rt.Builtin())
		m, err := rt.Manifest(context.Background())
		require.NoError(t, err)
		assert.Len(t, m.Steps, len(manifest.DefaultSteps()))
		assert.Equal(t, "Concatenator", m.Title)
		assert.NotEmpty(t, logger.GetLogs())
	})

	t.Run("overrides apply to the built-in wizard", func(t *testing.T) {
		rt := New(
			WithBuiltinFallback(true),
			WithOverrides(manifest.Override{Path: "title", Value: "Custom"}),
		)
		rt.manifestPath = missing

		m, err := rt.Manifest(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Custom", m.Title)
	})

	t.Run("explicit path disables the fallback", func(t *testing.T) {
		rt := New(WithBuiltinFallback(true), WithManifestPath(missing))

		assert.False(t, rt.Builtin())
		_, err := rt.Manifest(context.Background())
		assert.ErrorContains(t, err, "failed to read manifest")
	})

	t.Run("existing file wins over the fallback", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "concatenator.yaml")
		require.NoError(t, os.WriteFile(path, []byte("apiVersion: v1-alpha.1\nsteps:\n  - label: Only\n"), 0o600))

		rt := New(WithBuiltinFallback(true))
		rt.manifestPath = path

		assert.False(t, rt.Builtin())
		m, err := rt.Manifest(context.Background())
		require.NoError(t, err)
		assert.Len(t, m.Steps, 1)
	})
}

func TestFonts(t *testing.T) {
	t.Run("should load fonts from the definition", func(t *testing.T) {
		loader := &MockManifestLoader{}
		loader.On("Load", mock.Anything, mock.Anything, mock.Anything).Return(testManifest(), nil)
		fonts, err := raster.LoadFonts("", 11)
		require.NoError(t, err)
		fontLoader := &MockFontLoader{}
		fontLoader.On("LoadFonts", "", 11.0).Return(fonts, nil).Once()

		rt := New(WithManifestLoader(loader), WithFontLoader(fontLoader))

		f1, err := rt.Fonts(context.Background())
		require.NoError(t, err)
		f2, err := rt.Fonts(context.Background())
		require.NoError(t, err)
		assert.Same(t, f1, f2)
		fontLoader.AssertExpectations(t)
	})

	t.Run("should wrap font errors", func(t *testing.T) {
		loader := &MockManifestLoader{}
		loader.On("Load", mock.Anything, mock.Anything, mock.Anything).Return(testManifest(), nil)
		fontLoader := &MockFontLoader{}
		fontLoader.On("LoadFonts", mock.Anything, mock.Anything).Return(nil, errors.New("bad font"))

		rt := New(WithManifestLoader(loader), WithFontLoader(fontLoader))

		_, err := rt.Fonts(context.Background())
		assert.ErrorContains(t, err, "failed to load fonts")
	})
}

func TestBarFactories(t *testing.T) {
	newRuntime := func() *Runtime {
		loader := &MockManifestLoader{}
		loader.On("Load", mock.Anything, mock.Anything, mock.Anything).Return(testManifest(), nil)
		return New(WithManifestLoader(loader))
	}

	t.Run("terminal bar uses cell geometry", func(t *testing.T) {
		repaints := 0
		b, err := newRuntime().TerminalBar(context.Background(), stepbar.WithRepaint(func() { repaints++ }))
		require.NoError(t, err)

		require.Equal(t, 3, b.Len())
		g := b.Geometry()
		assert.Equal(t, term.DefaultGeometry().TextPadding, g.TextPadding)
		assert.Equal(t, term.DefaultGeometry().TimerInterval, g.TimerInterval)
		assert.Equal(t, 2*time.Second, g.AnimationPeriod)
		assert.Equal(t, "#000000", stepbar.Hex(b.Palette().Bold))

		b.ActivateIndex(0)
		assert.Equal(t, 1, repaints, "caller options are applied")
	})

	t.Run("factory binds the context", func(t *testing.T) {
		factory := newRuntime().TerminalBarFactory(context.Background())
		b, err := factory()
		require.NoError(t, err)
		s, _ := b.Step(1)
		assert.Equal(t, 2, s.Weight)
	})

	t.Run("raster bar uses pixel geometry", func(t *testing.T) {
		b, err := newRuntime().RasterBar(context.Background())
		require.NoError(t, err)

		g := b.Geometry()
		assert.Equal(t, 10.0, g.TextPadding)
		assert.Equal(t, 20*time.Millisecond, g.TimerInterval)
		assert.Greater(t, b.MinimumWidth(), 30.0)
	})

	t.Run("palette errors are reported", func(t *testing.T) {
		m := testManifest()
		m.Theme.Bold = "black"
		loader := &MockManifestLoader{}
		loader.On("Load", mock.Anything, mock.Anything, mock.Anything).Return(m, nil)

		_, err := New(WithManifestLoader(loader)).TerminalBar(context.Background())
		assert.ErrorContains(t, err, "invalid theme")
	})
}

func TestSaveUsesLoader(t *testing.T) {
	loader := &MockManifestLoader{}
	m := testManifest()
	loader.On("Save", m, "out.yaml").Return(nil).Once()
	loader.On("Save", m, "set.yaml").Return(nil).Once()

	rt := New(WithManifestLoader(loader), WithManifestPath("set.yaml"))

	require.NoError(t, rt.Save(m, "out.yaml"))
	require.NoError(t, rt.Save(m, ""))
	loader.AssertExpectations(t)
}

func TestConfigurationValidation(t *testing.T) {
	t.Run("should validate image sizes", func(t *testing.T) {
		assert.True(t, ValidateImageSize(0))
		assert.True(t, ValidateImageSize(MaxImageSide))
		assert.False(t, ValidateImageSize(-1))
		assert.False(t, ValidateImageSize(MaxImageSide+1))
	})

	t.Run("should validate frame counts", func(t *testing.T) {
		tests := []struct {
			frames   int
			expected bool
		}{
			{0, false},
			{1, true},
			{MaxFrames, true},
			{MaxFrames + 1, false},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.expected, ValidateFrames(tt.frames), "frames=%d", tt.frames)
		}
	})

	t.Run("should validate terminal widths", func(t *testing.T) {
		assert.True(t, ValidateTerminalWidth(0))
		assert.True(t, ValidateTerminalWidth(MinTerminalWidth))
		assert.False(t, ValidateTerminalWidth(MinTerminalWidth-1))
	})
}

func TestRuntimeProvider(t *testing.T) {
	t.Run("should implement RuntimeProvider interface", func(t *testing.T) {
		var provider RuntimeProvider = New()
		assert.NotNil(t, provider)
	})

	t.Run("should handle context operations", func(t *testing.T) {
		rt := New()
		ctx := WithRuntime(context.Background(), rt)
		assert.Same(t, rt, FromRuntime(ctx))
	})

	t.Run("should return nil for context without runtime", func(t *testing.T) {
		assert.Nil(t, FromRuntime(context.Background()))
	})
}

func TestLoggerAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	adapter := NewLoggerAdapter(logger).With("step", "align")
	adapter.Debug("activated")
	adapter.Warn("slow", "ms", 12)

	out := buf.String()
	assert.Contains(t, out, "activated")
	assert.Contains(t, out, "step=align")
	assert.Contains(t, out, "ms=12")

	assert.NotPanics(t, func() { NewLoggerAdapter(nil).Info("dropped") })
}
