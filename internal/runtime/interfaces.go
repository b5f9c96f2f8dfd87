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
	"context"

	"github.com/concatenator-dev/concatenator/internal/manifest"
	"github.com/concatenator-dev/concatenator/internal/render/raster"
	"github.com/concatenator-dev/concatenator/internal/stepbar"
)

// RuntimeProvider defines the interface for runtime dependency management.
// Commands depend on it rather than on Runtime so they can be tested with fakes.
type RuntimeProvider interface {
	// Manifest loads and returns the parsed wizard definition
	Manifest(ctx context.Context) (*manifest.Manifest, error)

	// Fonts returns the faces used by raster output
	Fonts(ctx context.Context) (*raster.Fonts, error)

	// TerminalBar builds a bar for the terminal hosts
	TerminalBar(ctx context.Context, options ...stepbar.Option) (*stepbar.Bar, error)

	// RasterBar builds a bar measured with the raster fonts
	RasterBar(ctx context.Context, options ...stepbar.Option) (*stepbar.Bar, error)

	// Close performs cleanup of resources held by the runtime
	Close() error
}

// ManifestLoader defines the interface for definition loading operations.
type ManifestLoader interface {
	// Load reads, validates and decodes the definition at path
	Load(ctx context.Context, path string, overrides []manifest.Override) (*manifest.Manifest, error)

	// Parse does the same for an in-memory definition
	Parse(ctx context.Context, data []byte, overrides []manifest.Override) (*manifest.Manifest, error)

	// Save writes a definition to a file
	Save(m *manifest.Manifest, path string) error
}

// FontLoader loads the raster faces described by a definition.
type FontLoader interface {
	LoadFonts(path string, size float64) (*raster.Fonts, error)
}

// LoggerProvider defines the interface for logging operations.
type LoggerProvider interface {
	// Debug logs a debug-level message
	Debug(msg string, keyvals ...any)

	// Info logs an info-level message
	Info(msg string, keyvals ...any)

	// Warn logs a warning-level message
	Warn(msg string, keyvals ...any)

	// Error logs an error-level message
	Error(msg string, keyvals ...any)

	// With returns a new logger with the given key-value pairs
	With(keyvals ...any) LoggerProvider
}
