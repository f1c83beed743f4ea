// Package racingline builds a low-curvature line through a track corridor
// by repeatedly projecting a blended tangent onto the next cross-section.
package racingline

import (
	"errors"
	"fmt"
	"math"

	"racing-line-optimizer/internal/common"
	"racing-line-optimizer/internal/track"
)

var (
	// ErrInsufficientData is returned when the corridor is too short for the
	// requested look-ahead.
	ErrInsufficientData = errors.New("insufficient cross-sections")
	// ErrInvalidParams is returned for a ratio outside [0, 1] or a negative look-ahead.
	ErrInvalidParams = errors.New("invalid racing line parameters")
	// ErrDegenerateChord is returned when a cross-section's borders coincide.
	ErrDegenerateChord = errors.New("zero-length cross-section chord")
)

// SeedIndex is the cross-section index of the first path point. The points
// at SeedIndex and SeedIndex+1 are copied from the centerline.
const SeedIndex = 1

// Path is the optimized line. Points[k] belongs to cross-section Start+k.
// Cross-section 0 and the last LookAhead cross-sections have no point.
type Path struct {
	Start     int
	Points    []common.Vec2
	Ratio     float64
	LookAhead int

	// Sections is the length of the corridor the path was built on.
	Sections int
	// Clamped counts points pulled back inside the corridor.
	Clamped int
	// Degeneracies counts points that needed a geometric substitution:
	// a parallel tangent and chord, or a coincident-point slope.
	Degeneracies int
}

// Len returns the number of path points.
func (p Path) Len() int { return len(p.Points) }

// End returns the cross-section index of the last point, or Start-1 when
// the path is empty.
func (p Path) End() int { return p.Start + len(p.Points) - 1 }

// Truncated returns how many trailing cross-sections have no point.
func (p Path) Truncated() int {
	if p.Sections == 0 {
		return 0
	}
	return p.Sections - 1 - p.End()
}

// At returns the point of cross-section index i.
func (p Path) At(i int) (common.Vec2, bool) {
	k := i - p.Start
	if k < 0 || k >= len(p.Points) {
		return common.Vec2{}, false
	}
	return p.Points[k], true
}

// Xs returns the x coordinates of the path points.
func (p Path) Xs() []float64 {
	out := make([]float64, len(p.Points))
	for i, pt := range p.Points {
		out[i] = pt.X
	}
	return out
}

// Ys returns the y coordinates of the path points.
func (p Path) Ys() []float64 {
	out := make([]float64, len(p.Points))
	for i, pt := range p.Points {
		out[i] = pt.Y
	}
	return out
}

// MinSections returns the shortest corridor BuildPath accepts for lookAhead.
func MinSections(lookAhead int) int {
	return lookAhead + 3
}

// BuildPath computes the racing line for one (ratio, lookAhead) pair.
//
// The points at indices 1 and 2 are the centerline. Each following point j
// is the projection of the incline blended from the tangent P[j-2]→P[j-1]
// and the direction from P[j-1] to the centerline of cross-section
// j+lookAhead, onto cross-section j. The loop stops at the last j whose
// look-ahead target exists, so the final lookAhead cross-sections get no
// point.
//
// The corridor is never modified; identical inputs give identical paths.
func BuildPath(c track.Corridor, ratio float64, lookAhead int) (Path, error) {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return Path{}, fmt.Errorf("%w: ratio %g outside [0, 1]", ErrInvalidParams, ratio)
	}
	if lookAhead < 0 {
		return Path{}, fmt.Errorf("%w: negative look-ahead %d", ErrInvalidParams, lookAhead)
	}
	if need := MinSections(lookAhead); len(c) < need {
		return Path{}, fmt.Errorf("%w: look-ahead %d needs %d cross-sections, have %d",
			ErrInsufficientData, lookAhead, need, len(c))
	}

	last := len(c) - 1 - lookAhead
	path := Path{
		Start:     SeedIndex,
		Points:    make([]common.Vec2, 0, last-SeedIndex+1),
		Ratio:     ratio,
		LookAhead: lookAhead,
		Sections:  len(c),
	}
	path.Points = append(path.Points, c[SeedIndex].Center, c[SeedIndex+1].Center)

	for j := SeedIndex + 2; j <= last; j++ {
		n := len(path.Points)
		cur, prev := path.Points[n-1], path.Points[n-2]

		incline, ok := BlendIncline(cur, prev, c[j+lookAhead].Center, ratio)
		degenerate := !ok

		next, how, err := ProjectNextPoint(cur, c[j], incline)
		if err != nil {
			return Path{}, fmt.Errorf("build path (ratio %g, look-ahead %d): %w", ratio, lookAhead, err)
		}
		switch how {
		case ProjectionClamped:
			path.Clamped++
		case ProjectionFallback:
			degenerate = true
		}
		if degenerate {
			path.Degeneracies++
		}
		path.Points = append(path.Points, next)
	}
	return path, nil
}
