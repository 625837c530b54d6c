package board

import (
	"math"
	"testing"

	"github.com/gogpu/gg"
)

func TestElementKindString(t *testing.T) {
	tests := []struct {
		kind ElementKind
		want string
	}{
		{KindRectangle, "rectangle"},
		{KindEllipse, "ellipse"},
		{KindDiamond, "diamond"},
		{KindLine, "line"},
		{KindFreeDraw, "freedraw"},
		{KindText, "text"},
		{KindImage, "image"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewElement(t *testing.T) {
	a := NewElement(KindRectangle)
	b := NewElement(KindRectangle)

	if a.ID == "" || b.ID == "" {
		t.Fatal("NewElement should assign an identifier")
	}
	if a.ID == b.ID {
		t.Error("two elements should never share an identifier")
	}
	if a.Version != 1 {
		t.Errorf("Version = %d, want 1", a.Version)
	}
	if a.Style.Opacity != 1 {
		t.Errorf("default Opacity = %v, want 1", a.Style.Opacity)
	}
}

func TestBump(t *testing.T) {
	el := NewElement(KindEllipse)
	for i := 0; i < 10; i++ {
		version := el.Version
		nonce := el.VersionNonce
		el.Bump()
		if el.Version != version+1 {
			t.Fatalf("Version = %d, want %d", el.Version, version+1)
		}
		if el.VersionNonce == nonce {
			t.Fatal("VersionNonce should change whenever Version changes")
		}
	}
}

func TestClone(t *testing.T) {
	el := NewElement(KindLine)
	el.Points = []gg.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}

	c := el.Clone()
	c.Points[0].X = 99

	if el.Points[0].X != 1 {
		t.Error("Clone should deep-copy points")
	}
	if c.ID != el.ID {
		t.Error("Clone should preserve identity")
	}
}

func TestBounds(t *testing.T) {
	t.Run("unrotated box", func(t *testing.T) {
		el := NewElement(KindRectangle)
		el.X, el.Y, el.Width, el.Height = 10, 20, 100, 50

		got := el.Bounds()
		want := Rect{MinX: 10, MinY: 20, MaxX: 110, MaxY: 70}
		if got != want {
			t.Errorf("Bounds() = %+v, want %+v", got, want)
		}
	})

	t.Run("rotated quarter turn swaps extents", func(t *testing.T) {
		el := NewElement(KindRectangle)
		el.X, el.Y, el.Width, el.Height = 0, 0, 100, 50
		el.Angle = math.Pi / 2

		got := el.Bounds()
		if !near(got.Width(), 50) || !near(got.Height(), 100) {
			t.Errorf("rotated Bounds() = %v x %v, want 50 x 100",
				got.Width(), got.Height())
		}
		if !near(got.CenterX(), 50) || !near(got.CenterY(), 25) {
			t.Errorf("rotation should preserve the center, got (%v, %v)",
				got.CenterX(), got.CenterY())
		}
	})

	t.Run("path bounds from points", func(t *testing.T) {
		el := NewElement(KindLine)
		el.X, el.Y = 100, 100
		el.Points = []gg.Point{{X: 0, Y: 0}, {X: -20, Y: 30}, {X: 50, Y: 10}}

		got := el.Bounds()
		want := Rect{MinX: 80, MinY: 100, MaxX: 150, MaxY: 130}
		if got != want {
			t.Errorf("Bounds() = %+v, want %+v", got, want)
		}
	})

	t.Run("degenerate point", func(t *testing.T) {
		el := NewElement(KindRectangle)
		el.X, el.Y = 5, 7

		got := el.Bounds()
		if got.Width() != 0 || got.Height() != 0 {
			t.Errorf("degenerate Bounds() has extents %v x %v, want 0 x 0",
				got.Width(), got.Height())
		}
	})
}

func TestSortByOrder(t *testing.T) {
	a := NewElement(KindRectangle)
	a.FracIndex = "V"
	b := NewElement(KindRectangle)
	b.FracIndex = "F"
	c := NewElement(KindRectangle)
	c.FracIndex = "k"

	els := []*Element{a, b, c}
	SortByOrder(els)

	want := []*Element{b, a, c}
	for i := range want {
		if els[i] != want[i] {
			t.Fatalf("els[%d] = %q, want %q", i, els[i].FracIndex, want[i].FracIndex)
		}
	}
}

func near(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}
