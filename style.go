package board

import (
	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"
)

// FillStyle selects how a closed shape's interior is painted.
type FillStyle uint8

// Fill styles.
const (
	// FillNone leaves the interior unpainted.
	FillNone FillStyle = iota
	// FillHachure fills with parallel sketchy lines.
	FillHachure
	// FillCrossHatch fills with two perpendicular hachure passes.
	FillCrossHatch
	// FillSolid fills the interior with the fill color.
	FillSolid
)

// String returns a human-readable fill style name.
func (f FillStyle) String() string {
	switch f {
	case FillNone:
		return "none"
	case FillHachure:
		return "hachure"
	case FillCrossHatch:
		return "cross-hatch"
	case FillSolid:
		return "solid"
	default:
		return "none"
	}
}

// Style holds an element's visual attributes. Colors are CSS hex strings
// ("#1e1e1e"); parse failures fall back to opaque black so a corrupt
// style never prevents the element from drawing at all.
type Style struct {
	StrokeColor string
	FillColor   string
	StrokeWidth float64
	Fill        FillStyle

	// Roughness scales the jitter of the sketchy geometry generator.
	// 0 produces clean lines, 1 is the default hand-drawn look.
	Roughness float64

	// Opacity multiplies the alpha of both stroke and fill, 0..1.
	Opacity float64
}

// DefaultStyle returns the style new elements start with.
func DefaultStyle() Style {
	return Style{
		StrokeColor: "#1e1e1e",
		FillColor:   "#a5d8ff",
		StrokeWidth: 2,
		Fill:        FillNone,
		Roughness:   1,
		Opacity:     1,
	}
}

// StrokeRGBA returns the stroke color with opacity applied.
func (s Style) StrokeRGBA() gg.RGBA {
	return parseHex(s.StrokeColor, s.Opacity)
}

// FillRGBA returns the fill color with opacity applied.
func (s Style) FillRGBA() gg.RGBA {
	return parseHex(s.FillColor, s.Opacity)
}

// parseHex converts a CSS hex color plus opacity to a gg color.
func parseHex(hex string, opacity float64) gg.RGBA {
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return gg.RGBA{R: 0, G: 0, B: 0, A: opacity}
	}
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: opacity}
}

// TintToward blends a hex color toward another color in RGB space.
// Used by the interactive layer to derive translucent selection fills
// from the accent color.
func TintToward(hex string, target gg.RGBA, t, alpha float64) gg.RGBA {
	base, err := colorful.Hex(hex)
	if err != nil {
		base = colorful.Color{R: 0.4, G: 0.4, B: 1}
	}
	mixed := base.BlendRgb(colorful.Color{R: target.R, G: target.G, B: target.B}, t)
	return gg.RGBA{R: mixed.R, G: mixed.G, B: mixed.B, A: alpha}
}
