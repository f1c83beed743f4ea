// Command optimize builds the racing line for one (ratio, look-ahead) pair
// and prints its curvature score.
package main

import (
	"flag"
	"fmt"
	"log"

	"racing-line-optimizer/internal/config"
	"racing-line-optimizer/internal/racingline"
	"racing-line-optimizer/internal/render"
	"racing-line-optimizer/internal/track"
)

func main() {
	configPath := flag.String("config", "", "JSON config file")
	csvPath := flag.String("track", "", "borders CSV (x,y,side)")
	imagePath := flag.String("image", "", "track image (white tarmac on black)")
	resample := flag.Int("resample", 0, "resample the corridor to N cross-sections")
	ratio := flag.Float64("ratio", config.DefaultRatio, "tangent weight in [0, 1]")
	lookAhead := flag.Int("look-ahead", config.DefaultLookAhead, "cross-sections ahead used as the centerline target")
	plotOut := flag.String("plot", "", "save the line as an image (.png, .svg, .pdf)")
	points := flag.Bool("points", false, "print every path point")
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
		PlotOut:    *plotOut,
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
	corridor, _, err := src.Load()
	if err != nil {
		log.Fatal(err)
	}

	p, err := racingline.BuildPath(corridor, cfg.GetRatio(), cfg.GetLookAhead())
	if err != nil {
		log.Fatal(err)
	}
	score := racingline.TotalCurvature(p)

	fmt.Printf("track:           %s (%d cross-sections)\n", src.Name(), len(corridor))
	fmt.Printf("ratio:           %g\n", p.Ratio)
	fmt.Printf("look-ahead:      %d\n", p.LookAhead)
	fmt.Printf("points:          %d (sections %d..%d, %d truncated)\n", p.Len(), p.Start, p.End(), p.Truncated())
	fmt.Printf("clamped:         %d\n", p.Clamped)
	fmt.Printf("degeneracies:    %d\n", p.Degeneracies)
	fmt.Printf("total curvature: %.4f deg\n", score.Total)
	fmt.Printf("avg curvature:   %.4f deg over %d samples\n", score.Average, score.Samples)
	fmt.Printf("max curvature:   %.4f deg (stddev %.4f)\n", score.Max, score.StdDev)

	if *points {
		for k, pt := range p.Points {
			fmt.Printf("%d,%.6f,%.6f\n", p.Start+k, pt.X, pt.Y)
		}
	}

	if out := config.Get(cfg.PlotOut); out != "" {
		if err := render.SavePlot(out, corridor, p, score); err != nil {
			log.Fatal(err)
		}
		log.Printf("line plotted to %s", out)
	}
}
