package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"racing-line-optimizer/internal/common"
	"racing-line-optimizer/internal/config"
	"racing-line-optimizer/internal/racingline"
	"racing-line-optimizer/internal/track"
)

// ============================================================================
// CONFIGURATION - Adjust these values to customize the viewer
// ============================================================================

// Default input used when neither -track nor -image is given
const DefaultTrackImage = "assets/track.png"

// Render window dimensions
const (
	WindowWidth  = 1200
	WindowHeight = 800
)

// View settings
const (
	ViewScaleMargin = 0.95 // Margin for fitting track in window (0.95 = 5% padding)
	RatioStep       = 0.05 // Ratio change per key press
)

// Track surface colors
var (
	ColorTarmac = color.RGBA{80, 80, 80, 255}
	ColorWall   = color.RGBA{10, 10, 10, 255}
	ColorStart  = color.RGBA{255, 0, 0, 255}
)

// Visualization colors
var (
	ColorChord       = color.RGBA{50, 155, 50, 40}
	ColorBorder      = color.RGBA{230, 230, 230, 255}
	ColorCenterline  = color.RGBA{120, 120, 120, 200}
	ColorRacingLine  = color.RGBA{255, 0, 255, 255}
	ColorLineMark    = color.RGBA{255, 255, 0, 255}
	ColorCursorChord = color.RGBA{0, 200, 255, 255}
)

// ============================================================================

type Game struct {
	Corridor   track.Corridor
	TrackImage *ebiten.Image
	FlipY      bool

	Ratio     float64
	LookAhead int
	Path      racingline.Path
	Score     racingline.Score
	BuildErr  error

	ShowChords     bool
	ShowCenterline bool

	// Cross-section under the mouse cursor, -1 when none
	Hover int

	// Rendering Scale
	ViewScale   float32
	ViewOffsetX float32
	ViewOffsetY float32
	worldMinY   float64
	worldMaxY   float64
}

// rebuild recomputes the racing line for the current parameters.
func (g *Game) rebuild() {
	p, err := racingline.BuildPath(g.Corridor, g.Ratio, g.LookAhead)
	g.BuildErr = err
	if err != nil {
		g.Path = racingline.Path{}
		g.Score = racingline.Score{}
		return
	}
	g.Path = p
	g.Score = racingline.TotalCurvature(p)
}

func (g *Game) Update() error {
	changed := false

	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.Ratio = math.Min(1, math.Round((g.Ratio+RatioStep)*100)/100)
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.Ratio = math.Max(0, math.Round((g.Ratio-RatioStep)*100)/100)
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.LookAhead++
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) && g.LookAhead > 0 {
		g.LookAhead--
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.ShowChords = !g.ShowChords
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.ShowCenterline = !g.ShowCenterline
	}
	if changed {
		g.rebuild()
	}

	cx, cy := ebiten.CursorPosition()
	g.Hover = g.Corridor.Nearest(g.toWorld(float32(cx), float32(cy)))
	return nil
}

// toScreen transforms world coordinates to screen coordinates.
func (g *Game) toScreen(p common.Vec2) (float32, float32) {
	y := p.Y
	if g.FlipY {
		y = g.worldMaxY - (y - g.worldMinY)
	}
	return float32(p.X)*g.ViewScale + g.ViewOffsetX, float32(y)*g.ViewScale + g.ViewOffsetY
}

func (g *Game) toWorld(sx, sy float32) common.Vec2 {
	x := float64((sx - g.ViewOffsetX) / g.ViewScale)
	y := float64((sy - g.ViewOffsetY) / g.ViewScale)
	if g.FlipY {
		y = g.worldMaxY - (y - g.worldMinY)
	}
	return common.Vec2{X: x, Y: y}
}

func (g *Game) strokePolyline(screen *ebiten.Image, pts []common.Vec2, width float32, clr color.Color) {
	for j := 0; j < len(pts)-1; j++ {
		p1x, p1y := g.toScreen(pts[j])
		p2x, p2y := g.toScreen(pts[j+1])
		vector.StrokeLine(screen, p1x, p1y, p2x, p2y, width, clr, true)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Draw Track Image
	if g.TrackImage != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(g.ViewScale), float64(g.ViewScale))
		op.GeoM.Translate(float64(g.ViewOffsetX), float64(g.ViewOffsetY))
		screen.DrawImage(g.TrackImage, op)
	}

	// Draw Chords (Debug)
	if g.ShowChords {
		for _, cs := range g.Corridor {
			p1x, p1y := g.toScreen(cs.Inner)
			p2x, p2y := g.toScreen(cs.Outer)
			vector.StrokeLine(screen, p1x, p1y, p2x, p2y, 1, ColorChord, true)
		}
	}

	g.strokePolyline(screen, g.Corridor.Inners(), 2, ColorBorder)
	g.strokePolyline(screen, g.Corridor.Outers(), 2, ColorBorder)
	if g.ShowCenterline {
		g.strokePolyline(screen, g.Corridor.Centers(), 1, ColorCenterline)
	}
	g.strokePolyline(screen, g.Path.Points, 3, ColorRacingLine)

	// Mark the cross-section under the cursor and where the line crosses it
	var lateral float64
	var onLine bool
	if g.Hover >= 0 {
		cs := g.Corridor[g.Hover]
		p1x, p1y := g.toScreen(cs.Inner)
		p2x, p2y := g.toScreen(cs.Outer)
		vector.StrokeLine(screen, p1x, p1y, p2x, p2y, 2, ColorCursorChord, true)

		var pt common.Vec2
		if pt, onLine = g.Path.At(g.Hover); onLine {
			lateral = g.Corridor.Lateral(g.Hover, pt)
			sx, sy := g.toScreen(pt)
			vector.FillCircle(screen, sx, sy, 4, ColorLineMark, true)
		}
	}

	// Draw HUD Background
	vector.FillRect(screen, 0, 0, 260, 190, color.RGBA{0, 0, 0, 180}, true)

	msg := "RACING LINE\n"
	msg += "----------------\n"
	msg += fmt.Sprintf("Ratio:      %.2f\n", g.Ratio)
	msg += fmt.Sprintf("Look-ahead: %d\n", g.LookAhead)
	if g.BuildErr != nil {
		msg += fmt.Sprintf("Error: %v\n", g.BuildErr)
	} else {
		msg += fmt.Sprintf("Total:      %.2f deg\n", g.Score.Total)
		msg += fmt.Sprintf("Average:    %.4f deg\n", g.Score.Average)
		msg += fmt.Sprintf("Clamped:    %d/%d\n", g.Path.Clamped, g.Path.Len())
	}
	if g.Hover >= 0 {
		msg += fmt.Sprintf("Section:    %d", g.Hover)
		if onLine {
			msg += fmt.Sprintf(" (d=%.1f)", lateral)
		}
		msg += "\n"
	}
	msg += "\nControls:\nLeft/Right = Ratio\nUp/Down = Look-ahead\nM = Chords  C = Centerline"

	ebitenutil.DebugPrint(screen, msg)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return WindowWidth, WindowHeight
}

func RenderGrid(g *track.Grid) *ebiten.Image {
	img := ebiten.NewImage(g.Width, g.Height)

	pixels := make([]byte, g.Width*g.Height*4)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			idx := (y*g.Width + x) * 4

			var c color.RGBA
			switch g.Get(x, y) {
			case track.CellTarmac:
				c = ColorTarmac
			case track.CellStart:
				c = ColorStart
			default:
				c = ColorWall
			}

			pixels[idx] = c.R
			pixels[idx+1] = c.G
			pixels[idx+2] = c.B
			pixels[idx+3] = 255
		}
	}

	img.WritePixels(pixels)
	return img
}

// fitView scales the world rectangle [lo, hi] into the window.
func (g *Game) fitView(lo, hi common.Vec2) {
	winW, winH := float64(WindowWidth), float64(WindowHeight)
	w := math.Max(hi.X-lo.X, 1)
	h := math.Max(hi.Y-lo.Y, 1)

	scale := math.Min(winW/w, winH/h) * ViewScaleMargin
	g.ViewScale = float32(scale)
	g.ViewOffsetX = float32((winW-w*scale)/2 - lo.X*scale)
	g.ViewOffsetY = float32((winH-h*scale)/2 - lo.Y*scale)
	g.worldMinY = lo.Y
	g.worldMaxY = hi.Y
}

func main() {
	configPath := flag.String("config", "", "JSON config file")
	csvPath := flag.String("track", "", "borders CSV (x,y,side)")
	imagePath := flag.String("image", "", "track image (white tarmac on black)")
	resample := flag.Int("resample", 0, "resample the corridor to N cross-sections")
	ratio := flag.Float64("ratio", config.DefaultRatio, "tangent weight in [0, 1]")
	lookAhead := flag.Int("look-ahead", config.DefaultLookAhead, "cross-sections ahead used as the centerline target")
	flag.Parse()

	cfg, err := config.LoadOrEmpty(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	o := config.Overrides{
		Set:        map[string]bool{},
		TrackCSV:   *csvPath,
		TrackImage: *imagePath,
		Resample:   *resample,
		Ratio:      *ratio,
		LookAhead:  *lookAhead,
	}
	flag.Visit(func(f *flag.Flag) { o.Set[f.Name] = true })
	if err := cfg.Apply(o); err != nil {
		log.Fatal(err)
	}

	src := track.Source{
		CSV:      config.Get(cfg.TrackCSV),
		Image:    config.Get(cfg.TrackImage),
		Resample: cfg.GetResample(),
	}
	if src.CSV == "" && src.Image == "" {
		src.Image = DefaultTrackImage
	}
	corridor, grid, err := src.Load()
	if err != nil {
		log.Fatal(err)
	}

	game := &Game{
		Corridor:       corridor,
		Ratio:          cfg.GetRatio(),
		LookAhead:      cfg.GetLookAhead(),
		ShowCenterline: true,
		Hover:          -1,
	}
	if grid != nil {
		// Image tracks share pixel coordinates with the background.
		game.TrackImage = RenderGrid(grid)
		game.fitView(common.Vec2{}, common.Vec2{X: float64(grid.Width), Y: float64(grid.Height)})
	} else {
		game.FlipY = true
		game.fitView(corridor.Bounds())
	}
	game.rebuild()
	if game.BuildErr != nil {
		log.Printf("WARNING: %v", game.BuildErr)
	}

	ebiten.SetWindowSize(WindowWidth, WindowHeight)
	ebiten.SetWindowTitle("Racing Line Optimizer - " + src.Name())

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
