// Command debug-mesh overlays the detected track edges and the extracted
// cross-sections on a track image, to check how well the mesh follows the
// walls.
package main

import (
	"flag"
	"image"
	"image/color"
	"log"

	"gocv.io/x/gocv"

	"racing-line-optimizer/internal/common"
	"racing-line-optimizer/internal/racingline"
	"racing-line-optimizer/internal/track"
)

var (
	colorChord  = color.RGBA{50, 155, 50, 0}
	colorCenter = color.RGBA{128, 128, 128, 0}
	colorLine   = color.RGBA{255, 0, 255, 0}
)

func main() {
	in := flag.String("in", "assets/track.png", "track image")
	out := flag.String("out", "output_edges.png", "overlay image")
	low := flag.Float64("low", 50, "Canny low threshold")
	high := flag.Float64("high", 150, "Canny high threshold")
	ratio := flag.Float64("ratio", -1, "also draw the racing line for this ratio")
	lookAhead := flag.Int("look-ahead", 5, "look-ahead for -ratio")
	flag.Parse()

	// 1. Load the image
	img := gocv.IMRead(*in, gocv.IMReadColor)
	if img.Empty() {
		log.Fatalf("error reading image %s", *in)
	}
	defer img.Close()

	// 2. Convert to grayscale
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	// 3. Apply Canny edge detection
	// Weak edges connected to strong edges are kept (hysteresis thresholding)
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, float32(*low), float32(*high))

	overlay := gocv.NewMat()
	defer overlay.Close()
	gocv.CvtColor(edges, &overlay, gocv.ColorGrayToBGR)

	// 4. Draw the mesh on top of the edges
	corridor, _, err := track.Source{Image: *in}.Load()
	if err != nil {
		log.Fatal(err)
	}
	for _, cs := range corridor {
		gocv.Line(&overlay, pt(cs.Inner), pt(cs.Outer), colorChord, 1)
		gocv.Circle(&overlay, pt(cs.Center), 1, colorCenter, -1)
	}
	if *ratio >= 0 {
		p, err := racingline.BuildPath(corridor, *ratio, *lookAhead)
		if err != nil {
			log.Fatal(err)
		}
		for k := 0; k+1 < p.Len(); k++ {
			gocv.Line(&overlay, pt(p.Points[k]), pt(p.Points[k+1]), colorLine, 2)
		}
	}

	// 5. Save the result
	if ok := gocv.IMWrite(*out, overlay); !ok {
		log.Fatalf("error writing image %s", *out)
	}
	log.Printf("edges and %d cross-sections saved to %s", len(corridor), *out)
}

func pt(v common.Vec2) image.Point {
	return image.Pt(int(v.X+0.5), int(v.Y+0.5))
}
