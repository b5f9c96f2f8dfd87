package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"sigs.k8s.io/yaml"

	"github.com/concatenator-dev/concatenator/internal/manifest"
	"github.com/concatenator-dev/concatenator/internal/render/raster"
	"github.com/concatenator-dev/concatenator/internal/render/term"
	"github.com/concatenator-dev/concatenator/internal/stepbar"
)

// runtimeKey is a private context key for storing the Runtime in context
type runtimeKey struct{}

// Runtime holds per-invocation state and lazily loaded resources.
// It implements the RuntimeProvider interface for dependency injection.
type Runtime struct {
	manifestPath string
	overrides    []manifest.Override
	// builtin allows falling back to the built-in wizard when the default
	// definition file is missing
	builtin bool

	logger   LoggerProvider
	manifest *manifest.Manifest
	fonts    *raster.Fonts
	mu       sync.Mutex

	// Factories for loading resources (enables testing)
	loaderFactory func(*Runtime) ManifestLoader
	fontLoader    FontLoader
}

// Option defines a functional option for configuring Runtime.
type Option func(*Runtime)

// WithManifestPath sets the definition file path. An explicit path disables
// the built-in fallback.
func WithManifestPath(manifestPath string) Option {
	return func(r *Runtime) {
		if manifestPath != "" {
			r.manifestPath = manifestPath
			r.builtin = false
		}
	}
}

// WithOverrides sets the --set assignments applied while loading.
func WithOverrides(overrides ...manifest.Override) Option {
	return func(r *Runtime) {
		r.overrides = append(r.overrides, overrides...)
	}
}

// WithBuiltinFallback controls whether a missing default definition is
// replaced by the built-in wizard.
func WithBuiltinFallback(enabled bool) Option {
	return func(r *Runtime) {
		r.builtin = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger LoggerProvider) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithManifestLoader sets a custom definition loader for testing.
func WithManifestLoader(loader ManifestLoader) Option {
	return func(r *Runtime) {
		r.loaderFactory = func(*Runtime) ManifestLoader { return loader }
	}
}

// WithFontLoader sets a custom font loader for testing.
func WithFontLoader(loader FontLoader) Option {
	return func(r *Runtime) {
		r.fontLoader = loader
	}
}

// defaultLoaderFactory loads definitions from disk, logging through the
// runtime's logger when it wraps a charm logger.
func defaultLoaderFactory(r *Runtime) ManifestLoader {
	var logger *log.Logger
	if la, ok := r.logger.(*LoggerAdapter); ok {
		logger = la.Logger()
	}
	return fileLoader{logger: logger}
}

// New constructs a Runtime with functional options.
func New(options ...Option) *Runtime {
	r := &Runtime{
		manifestPath:  manifest.DefaultManifestPath,
		logger:        NewLoggerAdapter(nil),
		loaderFactory: defaultLoaderFactory,
		fontLoader:    fontLoader{},
	}

	for _, option := range options {
		option(r)
	}

	return r
}

// WithRuntime returns a new context carrying the provided runtime.
func WithRuntime(ctx context.Context, rt *Runtime) context.Context {
	return context.WithValue(ctx, runtimeKey{}, rt)
}

// FromRuntime extracts a Runtime from the command context, or nil if absent.
func FromRuntime(ctx context.Context) *Runtime {
	if ctx == nil {
		return nil
	}
	if v := ctx.Value(runtimeKey{}); v != nil {
		if rt, ok := v.(*Runtime); ok {
			return rt
		}
	}
	return nil
}

// ManifestPath returns the configured definition path.
func (r *Runtime) ManifestPath() string { return r.manifestPath }

// Builtin reports whether the built-in wizard is in use or would be.
func (r *Runtime) Builtin() bool {
	return r.builtin && !manifest.Exists(r.manifestPath)
}

// Manifest loads and memoizes the definition.
func (r *Runtime) Manifest(ctx context.Context) (*manifest.Manifest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.manifestLocked(ctx)
}

func (r *Runtime) manifestLocked(ctx context.Context) (*manifest.Manifest, error) {
	if r.manifest != nil {
		return r.manifest, nil
	}
	if r.manifestPath == "" {
		return nil, fmt.Errorf("manifest path must be set")
	}

	loader := r.loaderFactory(r)
	var (
		m   *manifest.Manifest
		err error
	)
	if r.builtin && !manifest.Exists(r.manifestPath) {
		r.logger.Debug("No definition found, using the built-in wizard", "file", r.manifestPath)
		m, err = r.loadBuiltin(ctx, loader)
	} else {
		m, err = loader.Load(ctx, r.manifestPath, r.overrides)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	r.logger.Debug("Loaded definition", "title", m.Title, "steps", len(m.Steps))
	r.manifest = m
	return m, nil
}

// loadBuiltin runs the built-in wizard through the same pipeline as a file
// so that overrides apply to it.
func (r *Runtime) loadBuiltin(ctx context.Context, loader ManifestLoader) (*manifest.Manifest, error) {
	def, err := manifest.DefaultManifest()
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal built-in definition: %w", err)
	}
	return loader.Parse(ctx, data, r.overrides)
}

// Fonts loads and memoizes the raster faces selected by the definition.
func (r *Runtime) Fonts(ctx context.Context) (*raster.Fonts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fonts != nil {
		return r.fonts, nil
	}

	m, err := r.manifestLocked(ctx)
	if err != nil {
		return nil, err
	}
	fonts, err := r.fontLoader.LoadFonts(m.Font.Path, m.Font.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to load fonts (path=%q, size=%v): %w", m.Font.Path, m.Font.Size, err)
	}
	r.fonts = fonts
	return fonts, nil
}

// TerminalBar builds a bar for the terminal hosts. Spacing comes from the
// cell geometry; only the animation period is taken from the definition
// since its layout is measured in pixels.
func (r *Runtime) TerminalBar(ctx context.Context, options ...stepbar.Option) (*stepbar.Bar, error) {
	m, err := r.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	palette, err := m.Palette()
	if err != nil {
		return nil, err
	}
	geometry, err := m.Geometry(stepbar.DefaultGeometry())
	if err != nil {
		return nil, err
	}
	cells := term.DefaultGeometry()
	cells.AnimationPeriod = geometry.AnimationPeriod

	options = append([]stepbar.Option{stepbar.WithPalette(palette), stepbar.WithGeometry(cells)}, options...)
	b := term.NewBar(options...)
	m.AddSteps(b)
	return b, nil
}

// RasterBar builds a bar measured with the definition's fonts and laid out
// with its pixel geometry.
func (r *Runtime) RasterBar(ctx context.Context, options ...stepbar.Option) (*stepbar.Bar, error) {
	m, err := r.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	fonts, err := r.Fonts(ctx)
	if err != nil {
		return nil, err
	}
	palette, err := m.Palette()
	if err != nil {
		return nil, err
	}
	geometry, err := m.Geometry(stepbar.DefaultGeometry())
	if err != nil {
		return nil, err
	}

	options = append([]stepbar.Option{stepbar.WithPalette(palette), stepbar.WithGeometry(geometry)}, options...)
	b := raster.NewBar(fonts, options...)
	m.AddSteps(b)
	return b, nil
}

// TerminalBarFactory binds TerminalBar to ctx, matching the factory the
// interactive preview expects.
func (r *Runtime) TerminalBarFactory(ctx context.Context) func(...stepbar.Option) (*stepbar.Bar, error) {
	return func(options ...stepbar.Option) (*stepbar.Bar, error) {
		return r.TerminalBar(ctx, options...)
	}
}

// Save writes m through the configured loader.
func (r *Runtime) Save(m *manifest.Manifest, path string) error {
	if path == "" {
		path = r.manifestPath
	}
	return r.loaderFactory(r).Save(m, path)
}

// Logger returns the runtime's logger.
func (r *Runtime) Logger() LoggerProvider { return r.logger }

// Close performs cleanup of resources held by the runtime.
// It's safe to call multiple times.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.manifest = nil
	r.fonts = nil
	return nil
}
