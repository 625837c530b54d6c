package board

import (
	"testing"

	"github.com/gogpu/gg"
)

func TestStyleColors(t *testing.T) {
	tests := []struct {
		name    string
		style   Style
		want    gg.RGBA
		useFill bool
	}{
		{
			name:  "opaque red stroke",
			style: Style{StrokeColor: "#ff0000", Opacity: 1},
			want:  gg.RGBA{R: 1, G: 0, B: 0, A: 1},
		},
		{
			name:  "half opacity",
			style: Style{StrokeColor: "#ffffff", Opacity: 0.5},
			want:  gg.RGBA{R: 1, G: 1, B: 1, A: 0.5},
		},
		{
			name:  "garbage falls back to black",
			style: Style{StrokeColor: "not-a-color", Opacity: 1},
			want:  gg.RGBA{R: 0, G: 0, B: 0, A: 1},
		},
		{
			name:  "opacity above one clamps",
			style: Style{StrokeColor: "#000000", Opacity: 3},
			want:  gg.RGBA{R: 0, G: 0, B: 0, A: 1},
		},
		{
			name:  "negative opacity clamps to invisible",
			style: Style{StrokeColor: "#000000", Opacity: -1},
			want:  gg.RGBA{R: 0, G: 0, B: 0, A: 0},
		},
		{
			name:    "fill color parses independently",
			style:   Style{FillColor: "#00ff00", Opacity: 1},
			want:    gg.RGBA{R: 0, G: 1, B: 0, A: 1},
			useFill: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.style.StrokeRGBA()
			if tt.useFill {
				got = tt.style.FillRGBA()
			}
			if !rgbaNear(got, tt.want) {
				t.Errorf("color = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTintToward(t *testing.T) {
	white := gg.RGBA{R: 1, G: 1, B: 1, A: 1}

	got := TintToward("#000000", white, 1, 0.25)
	if !rgbaNear(got, gg.RGBA{R: 1, G: 1, B: 1, A: 0.25}) {
		t.Errorf("full blend = %+v, want white at alpha 0.25", got)
	}

	got = TintToward("#000000", white, 0, 1)
	if !rgbaNear(got, gg.RGBA{R: 0, G: 0, B: 0, A: 1}) {
		t.Errorf("zero blend = %+v, want the base color", got)
	}
}

func TestFillStyleString(t *testing.T) {
	tests := []struct {
		fill FillStyle
		want string
	}{
		{FillNone, "none"},
		{FillHachure, "hachure"},
		{FillCrossHatch, "cross-hatch"},
		{FillSolid, "solid"},
		{FillStyle(99), "none"},
	}
	for _, tt := range tests {
		if got := tt.fill.String(); got != tt.want {
			t.Errorf("FillStyle(%d).String() = %q, want %q", tt.fill, got, tt.want)
		}
	}
}

func rgbaNear(got, want gg.RGBA) bool {
	const eps = 1e-9
	return near(got.R, want.R) && near(got.G, want.G) &&
		near(got.B, want.B) && near(got.A, want.A)
}
