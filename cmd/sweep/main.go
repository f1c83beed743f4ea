// Command sweep scores every (ratio, look-ahead) pair on a track and
// reports the configurations with the lowest total and average curvature.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"racing-line-optimizer/internal/config"
	"racing-line-optimizer/internal/racingline"
	"racing-line-optimizer/internal/render"
	"racing-line-optimizer/internal/store"
	"racing-line-optimizer/internal/sweep"
	"racing-line-optimizer/internal/track"
)

func main() {
	configPath := flag.String("config", "", "JSON config file")
	csvPath := flag.String("track", "", "borders CSV (x,y,side)")
	imagePath := flag.String("image", "", "track image (white tarmac on black)")
	resample := flag.Int("resample", 0, "resample the corridor to N cross-sections")
	ratios := flag.String("ratios", "", "ratios as min:max:step or a comma list (default 0.1:0.9:0.1)")
	lookAheads := flag.String("look-aheads", "", "look-aheads as min:max:step or a comma list (default 0:9:1)")
	workers := flag.Int("workers", 0, "concurrent trials (0 = one per CPU)")
	csvOut := flag.String("csv", "", "write every trial to this CSV file")
	plotOut := flag.String("plot", "", "save the best-by-total line as an image")
	dbPath := flag.String("db", config.DefaultDBPath, "sqlite sweep history (empty to disable)")
	list := flag.Int("list", 0, "print the N most recent sweeps from the history and exit")
	quiet := flag.Bool("quiet", false, "do not log each trial")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.LoadOrEmpty(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	o := config.Overrides{
		Set:        map[string]bool{},
		TrackCSV:   *csvPath,
		TrackImage: *imagePath,
		Resample:   *resample,
		Ratios:     *ratios,
		LookAheads: *lookAheads,
		Workers:    *workers,
		CSVOut:     *csvOut,
		PlotOut:    *plotOut,
		DBPath:     *dbPath,
	}
	flag.Visit(func(f *flag.Flag) { o.Set[f.Name] = true })
	if err := cfg.Apply(o); err != nil {
		log.Fatal(err)
	}
	historyOff := o.Set["db"] && *dbPath == ""

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *list > 0 {
		if historyOff {
			log.Fatal("-list needs a history database")
		}
		if err := printHistory(ctx, cfg.GetDBPath(), *list); err != nil {
			log.Fatal(err)
		}
		return
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
	log.Printf("loaded %d cross-sections from %s", len(corridor), src.Name())

	candidates, horizons, err := cfg.Grid()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("sweeping %d ratios x %d look-aheads", len(candidates), len(horizons))

	opts := []sweep.Option{sweep.WithWorkers(cfg.GetWorkers())}
	if !*quiet {
		opts = append(opts, sweep.WithLogger(log.Default()))
	}
	res, err := sweep.Search(ctx, corridor, candidates, horizons, opts...)
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}
	fmt.Print(res.Summary())

	if out := config.Get(cfg.CSVOut); out != "" {
		if err := writeCSV(out, res.Trials); err != nil {
			log.Printf("WARNING: failed to write CSV: %v", err)
		} else {
			log.Printf("trials written to %s", out)
		}
	}

	if !historyOff {
		id, err := saveHistory(ctx, cfg.GetDBPath(), src.Name(), res)
		if err != nil {
			log.Printf("WARNING: failed to save sweep history: %v", err)
		} else {
			log.Printf("sweep %s saved to %s", id, cfg.GetDBPath())
		}
	}

	if out := config.Get(cfg.PlotOut); out != "" && res.BestByTotal != nil {
		best := res.BestByTotal
		p, err := racingline.BuildPath(corridor, best.Ratio, best.LookAhead)
		if err != nil {
			log.Fatalf("rebuild best line: %v", err)
		}
		if err := render.SavePlot(out, corridor, p, best.Score); err != nil {
			log.Fatal(err)
		}
		log.Printf("best line plotted to %s", out)
	}
}

func writeCSV(path string, trials []sweep.Trial) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := sweep.WriteTrialsCSV(f, trials); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func saveHistory(ctx context.Context, path, trackName string, res sweep.Result) (string, error) {
	s, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer s.Close()
	return s.SaveRun(ctx, store.Run{Track: trackName, Result: res})
}

func printHistory(ctx context.Context, path string, n int) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ListRuns(ctx, n)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  %s  trials=%d failed=%d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Track, r.TrialCount, r.FailedCount)
		if t := r.BestByTotal; t != nil {
			fmt.Printf("    min total: %.4f (ratio %g, look-ahead %d)\n", t.Score.Total, t.Ratio, t.LookAhead)
		}
		if t := r.BestByAverage; t != nil {
			fmt.Printf("    min avg:   %.4f (ratio %g, look-ahead %d)\n", t.Score.Average, t.Ratio, t.LookAhead)
		}
	}
	return nil
}
