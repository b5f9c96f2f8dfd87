package raster

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize is the label size in pixels.
const DefaultFontSize = 13

// Fonts holds the regular and bold faces used for labels. It implements
// stepbar.FontMetrics.
type Fonts struct {
	Regular font.Face
	Bold    font.Face
	size    float64
}

// LoadFonts parses the faces for labels. An empty path selects the
// embedded Go fonts; otherwise the TrueType file at path is used for both
// weights.
func LoadFonts(path string, size float64) (*Fonts, error) {
	if size <= 0 {
		size = DefaultFontSize
	}

	regularTTF, boldTTF := goregular.TTF, gobold.TTF
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font %s: %w", path, err)
		}
		regularTTF, boldTTF = data, data
	}

	regular, err := newFace(regularTTF, size)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := newFace(boldTTF, size)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	return &Fonts{Regular: regular, Bold: bold, size: size}, nil
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Size returns the font size in pixels.
func (f *Fonts) Size() float64 { return f.size }

// Advance returns the width of s in the regular face.
func (f *Fonts) Advance(s string) float64 {
	return toFloat(font.MeasureString(f.Regular, s))
}

// Height returns the line height.
func (f *Fonts) Height() float64 { return toFloat(f.Regular.Metrics().Height) }

// Ascent returns the distance from the top of the line to the baseline.
func (f *Fonts) Ascent() float64 { return toFloat(f.Regular.Metrics().Ascent) }

// Face picks the face for a bold or regular label.
func (f *Fonts) Face(bold bool) font.Face {
	if bold {
		return f.Bold
	}
	return f.Regular
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
