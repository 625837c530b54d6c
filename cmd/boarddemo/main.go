// Command boarddemo renders a sample diagram scene headlessly and writes
// the static layer, interactive overlay, and composite to PNG files.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/gg"

	"github.com/gogpu/board"
	"github.com/gogpu/board/cache"
	"github.com/gogpu/board/render"
	"github.com/gogpu/board/scene"
)

func main() {
	var (
		width   = flag.Int("width", 800, "surface width")
		height  = flag.Int("height", 600, "surface height")
		zoom    = flag.Float64("zoom", 1, "viewport zoom")
		seed    = flag.Int64("seed", 7, "geometry seed")
		output  = flag.String("output", "board.png", "composite output file")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		board.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	store := scene.NewStore()
	store.ReplaceAll(sampleScene(*seed))

	static := render.NewPixmapTarget(*width, *height)
	overlay := render.NewPixmapTarget(*width, *height)
	r := render.NewRenderer(store,
		cache.NewShapeCache(), cache.NewRasterCache(0),
		static, overlay)
	defer r.Destroy()

	vp := render.Viewport{
		Zoom:   *zoom,
		Width:  float64(*width),
		Height: float64(*height),
	}
	r.RequestStatic(vp)
	r.RequestInteractive(vp, render.InteractiveState{
		SelectedIDs: []string{store.NonDeleted()[0].ID},
		Pointers:    []render.Pointer{{X: 420, Y: 300, Color: "#e03131"}},
	})
	r.Flush()

	if err := writePNG(*output, render.Composite(static, overlay)); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d)\n", *output, *width, *height)
}

// sampleScene builds a handful of elements showing each drawable kind.
func sampleScene(seed int64) []*board.Element {
	keys := board.OrderKeys(5)

	rect := board.NewElement(board.KindRectangle)
	rect.X, rect.Y, rect.Width, rect.Height = 60, 60, 220, 140
	rect.Seed = seed
	rect.Style.Fill = board.FillHachure
	rect.FracIndex = keys[0]

	ellipse := board.NewElement(board.KindEllipse)
	ellipse.X, ellipse.Y, ellipse.Width, ellipse.Height = 340, 80, 180, 180
	ellipse.Seed = seed + 1
	ellipse.Style.StrokeColor = "#2f9e44"
	ellipse.Style.Fill = board.FillCrossHatch
	ellipse.Style.FillColor = "#b2f2bb"
	ellipse.FracIndex = keys[1]

	diamond := board.NewElement(board.KindDiamond)
	diamond.X, diamond.Y, diamond.Width, diamond.Height = 120, 300, 160, 120
	diamond.Angle = math.Pi / 12
	diamond.Seed = seed + 2
	diamond.Style.StrokeColor = "#e8590c"
	diamond.FracIndex = keys[2]

	line := board.NewElement(board.KindLine)
	line.X, line.Y = 300, 340
	line.Points = []gg.Point{{X: 0, Y: 0}, {X: 120, Y: 60}, {X: 260, Y: 20}}
	line.Seed = seed + 3
	line.FracIndex = keys[3]

	free := board.NewElement(board.KindFreeDraw)
	free.X, free.Y = 480, 420
	free.Points = scribble(60, 40)
	free.Seed = seed + 4
	free.Style.StrokeColor = "#9c36b5"
	free.FracIndex = keys[4]

	return []*board.Element{rect, ellipse, diamond, line, free}
}

// scribble produces a small sine squiggle for the freedraw sample.
func scribble(w, h float64) []gg.Point {
	pts := make([]gg.Point, 0, 24)
	for i := 0; i < 24; i++ {
		t := float64(i) / 23
		pts = append(pts, gg.Pt(t*w, math.Sin(t*4*math.Pi)*h/2))
	}
	return pts
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return png.Encode(f, img)
}
