// Command gen-track draws a synthetic oval track as an image and writes
// the same oval as a borders CSV.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"

	"racing-line-optimizer/internal/common"
	"racing-line-optimizer/internal/track"
)

// Oval geometry in pixels
const (
	Width        = 800
	Height       = 600
	RadiusX      = 300.0
	RadiusY      = 200.0
	InnerEllipse = 0.6 // Inner edge as a fraction of the normalized ellipse equation
	StartWidth   = 10  // Half-width of the start marker
)

func main() {
	imageOut := flag.String("image", "assets/track.png", "output track image")
	csvOut := flag.String("csv", "assets/track.csv", "output borders CSV (empty to skip)")
	sections := flag.Int("sections", 120, "cross-sections in the CSV")
	flag.Parse()

	if err := writeImage(*imageOut); err != nil {
		log.Fatal(err)
	}
	log.Printf("track image written to %s", *imageOut)

	if *csvOut != "" {
		if err := writeCSV(*csvOut, ovalCorridor(*sections)); err != nil {
			log.Fatal(err)
		}
		log.Printf("borders written to %s", *csvOut)
	}
}

func ovalImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))

	// Fill with Black (Wall)
	black := color.RGBA{0, 0, 0, 255}
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			img.Set(x, y, black)
		}
	}

	// Draw Tarmac (White) - A simple oval
	white := color.RGBA{255, 255, 255, 255}
	centerX, centerY := Width/2, Height/2
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			dx := float64(x - centerX)
			dy := float64(y - centerY)

			// Ellipse equation: (x/a)^2 + (y/b)^2 = 1
			dist := (dx*dx)/(RadiusX*RadiusX) + (dy*dy)/(RadiusY*RadiusY)

			// If inside the outer edge and outside the inner edge
			if dist <= 1.0 && dist >= InnerEllipse {
				img.Set(x, y, white)
			}
		}
	}

	// Draw Start Line (Red) across the top straight
	red := color.RGBA{255, 0, 0, 255}
	trackWidth := RadiusY * (1 - math.Sqrt(InnerEllipse))
	for y := centerY - int(RadiusY); y < centerY-int(RadiusY)+int(trackWidth)+1; y++ {
		for x := centerX - StartWidth; x < centerX+StartWidth; x++ {
			// Check if it's on tarmac before drawing
			if img.RGBAAt(x, y) == white {
				img.Set(x, y, red)
			}
		}
	}
	return img
}

// ovalCorridor samples the two ellipse edges along shared radial chords,
// starting at the top of the oval and running clockwise on screen.
func ovalCorridor(n int) track.Corridor {
	center := common.Vec2{X: Width / 2, Y: Height / 2}
	k := math.Sqrt(InnerEllipse)

	inner := make([]common.Vec2, n)
	outer := make([]common.Vec2, n)
	for i := 0; i < n; i++ {
		theta := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		edge := common.Vec2{X: RadiusX * math.Cos(theta), Y: RadiusY * math.Sin(theta)}
		inner[i] = center.Add(edge.Scale(k))
		outer[i] = center.Add(edge)
	}
	return track.FromBorders(inner, outer)
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

func writeImage(path string) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, ovalImage()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(path string, c track.Corridor) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	if err := track.WriteBordersCSV(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
