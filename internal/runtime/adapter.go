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

// Package runtime holds the per-invocation state shared by the commands: the
// loaded definition, the raster fonts and the bar factories built from them.
package runtime

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/concatenator-dev/concatenator/internal/manifest"
	"github.com/concatenator-dev/concatenator/internal/render/raster"
)

// LoggerAdapter adapts the charmbracelet log.Logger to the LoggerProvider interface.
type LoggerAdapter struct {
	logger *log.Logger
}

// NewLoggerAdapter wraps logger. A nil logger discards everything.
func NewLoggerAdapter(logger *log.Logger) LoggerProvider {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &LoggerAdapter{logger: logger}
}

// Logger returns the wrapped logger.
func (la *LoggerAdapter) Logger() *log.Logger { return la.logger }

// Debug implements LoggerProvider.
func (la *LoggerAdapter) Debug(msg string, keyvals ...any) {
	la.logger.Debug(msg, keyvals...)
}

// Info implements LoggerProvider.
func (la *LoggerAdapter) Info(msg string, keyvals ...any) {
	la.logger.Info(msg, keyvals...)
}

// Warn implements LoggerProvider.
func (la *LoggerAdapter) Warn(msg string, keyvals ...any) {
	la.logger.Warn(msg, keyvals...)
}

// Error implements LoggerProvider.
func (la *LoggerAdapter) Error(msg string, keyvals ...any) {
	la.logger.Error(msg, keyvals...)
}

// With implements LoggerProvider.
func (la *LoggerAdapter) With(keyvals ...any) LoggerProvider {
	return &LoggerAdapter{logger: la.logger.With(keyvals...)}
}

// fileLoader is the ManifestLoader backed by the manifest package.
type fileLoader struct {
	logger *log.Logger
}

func (l fileLoader) options(overrides []manifest.Override) []manifest.LoadOption {
	return []manifest.LoadOption{
		manifest.WithOverrides(overrides...),
		manifest.WithLogger(l.logger),
	}
}

func (l fileLoader) Load(_ context.Context, path string, overrides []manifest.Override) (*manifest.Manifest, error) {
	return manifest.Load(path, l.options(overrides)...)
}

func (l fileLoader) Parse(_ context.Context, data []byte, overrides []manifest.Override) (*manifest.Manifest, error) {
	return manifest.Parse(data, l.options(overrides)...)
}

func (fileLoader) Save(m *manifest.Manifest, path string) error {
	return manifest.Save(m, path)
}

// fontLoader is the FontLoader backed by the raster package.
type fontLoader struct{}

func (fontLoader) LoadFonts(path string, size float64) (*raster.Fonts, error) {
	return raster.LoadFonts(path, size)
}
