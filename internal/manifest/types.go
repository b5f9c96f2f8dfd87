package manifest

// Manifest is a wizard definition.
type Manifest struct {
	APIVersion string            `json:"apiVersion" yaml:"apiVersion"`
	Title      string            `json:"title,omitempty" yaml:"title,omitempty"`
	Variables  map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
	Steps      []Step            `json:"steps" yaml:"steps"`
	Theme      Theme             `json:"theme" yaml:"theme"`
	Layout     Layout            `json:"layout" yaml:"layout"`
	Font       Font              `json:"font" yaml:"font"`
}

// Step is one entry of the bar. Key is optional; steps without a key can
// only be activated by index.
type Step struct {
	Key    string `json:"key,omitempty" yaml:"key,omitempty"`
	Label  string `json:"label" yaml:"label"`
	Weight *int   `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Theme holds hex colours. An empty Weak is derived from Base.
type Theme struct {
	Bold       string `json:"bold,omitempty" yaml:"bold,omitempty"`
	Base       string `json:"base,omitempty" yaml:"base,omitempty"`
	Weak       string `json:"weak,omitempty" yaml:"weak,omitempty"`
	Alert      string `json:"alert,omitempty" yaml:"alert,omitempty"`
	Background string `json:"background,omitempty" yaml:"background,omitempty"`
}

// Layout holds the spacing constants in pixels and the animation timing as
// Go duration strings.
type Layout struct {
	TextPadding      float64 `json:"textPadding,omitempty" yaml:"textPadding,omitempty"`
	VerticalPadding  float64 `json:"verticalPadding,omitempty" yaml:"verticalPadding,omitempty"`
	IndicatorPadding float64 `json:"indicatorPadding,omitempty" yaml:"indicatorPadding,omitempty"`
	IndicatorRadius  float64 `json:"indicatorRadius,omitempty" yaml:"indicatorRadius,omitempty"`
	TimerInterval    string  `json:"timerInterval,omitempty" yaml:"timerInterval,omitempty"`
	AnimationPeriod  string  `json:"animationPeriod,omitempty" yaml:"animationPeriod,omitempty"`
}

// Font selects the label font of raster output. An empty Path uses the
// built-in Go fonts.
type Font struct {
	Path string  `json:"path,omitempty" yaml:"path,omitempty"`
	Size float64 `json:"size,omitempty" yaml:"size,omitempty"`
}
