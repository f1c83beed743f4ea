package sweep

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"racing-line-optimizer/internal/racingline"
	"racing-line-optimizer/internal/track"
)

// ErrNoCandidates is returned when either candidate list is empty.
var ErrNoCandidates = errors.New("empty candidate grid")

// Trial is one evaluated (ratio, look-ahead) configuration. Err is set when
// the path could not be built; Score is then zero.
type Trial struct {
	Ratio     float64
	LookAhead int
	Score     racingline.Score
	Clamped   int
	Err       error
}

// OK reports whether the trial produced a path.
func (t Trial) OK() bool { return t.Err == nil }

// Result is the outcome of a sweep. BestByTotal and BestByAverage are nil
// when every trial failed.
type Result struct {
	Trials        []Trial // In grid order: look-ahead outer, ratio inner
	BestByTotal   *Trial
	BestByAverage *Trial
	Failed        int
}

type options struct {
	workers int
	logger  *log.Logger
}

// Option configures Search.
type Option func(*options)

// WithWorkers sets how many trials run at once. Values below 1 mean
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLogger logs each finished trial to l.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Search builds and scores a path for every (ratio, look-ahead) pair.
// Trials that fail are kept in Result.Trials with Err set and do not take
// part in the reduction. The only errors returned are ErrNoCandidates and
// context cancellation.
func Search(ctx context.Context, c track.Corridor, ratios []float64, lookAheads []int, opts ...Option) (Result, error) {
	if len(ratios) == 0 || len(lookAheads) == 0 {
		return Result{}, fmt.Errorf("%w: %d ratios, %d look-aheads", ErrNoCandidates, len(ratios), len(lookAheads))
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	trials := make([]Trial, 0, len(ratios)*len(lookAheads))
	for _, la := range lookAheads {
		for _, r := range ratios {
			trials = append(trials, Trial{Ratio: r, LookAhead: la})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := range trials {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			trials[i] = Run(c, trials[i].Ratio, trials[i].LookAhead)
			if o.logger != nil {
				logTrial(o.logger, i+1, len(trials), trials[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	return Reduce(trials), nil
}

// Run evaluates a single configuration.
func Run(c track.Corridor, ratio float64, lookAhead int) Trial {
	t := Trial{Ratio: ratio, LookAhead: lookAhead}
	p, err := racingline.BuildPath(c, ratio, lookAhead)
	if err != nil {
		t.Err = err
		return t
	}
	t.Score = racingline.TotalCurvature(p)
	t.Clamped = p.Clamped
	return t
}

// Reduce picks the minimum total and minimum average curvature among the
// successful trials. Ties go to the lower look-ahead, then the lower ratio,
// which is the first of them in grid order, so the outcome does not depend on trial order.
func Reduce(trials []Trial) Result {
	res := Result{Trials: trials}
	for i := range trials {
		t := &trials[i]
		if !t.OK() {
			res.Failed++
			continue
		}
		if res.BestByTotal == nil || better(t.Score.Total, res.BestByTotal.Score.Total, t, res.BestByTotal) {
			res.BestByTotal = t
		}
		if res.BestByAverage == nil || better(t.Score.Average, res.BestByAverage.Score.Average, t, res.BestByAverage) {
			res.BestByAverage = t
		}
	}
	return res
}

func better(score, bestScore float64, t, best *Trial) bool {
	if score != bestScore {
		return score < bestScore
	}
	if t.LookAhead != best.LookAhead {
		return t.LookAhead < best.LookAhead
	}
	return t.Ratio < best.Ratio
}

func logTrial(l *log.Logger, n, total int, t Trial) {
	if !t.OK() {
		l.Printf("WARNING: trial %d/%d ratio=%.3f look_ahead=%d failed: %v", n, total, t.Ratio, t.LookAhead, t.Err)
		return
	}
	l.Printf("trial %d/%d ratio=%.3f look_ahead=%d total=%.4f avg=%.4f samples=%d",
		n, total, t.Ratio, t.LookAhead, t.Score.Total, t.Score.Average, t.Score.Samples)
}
