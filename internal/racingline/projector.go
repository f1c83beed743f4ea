package racingline

import (
	"errors"
	"fmt"
	"math"

	"racing-line-optimizer/internal/common"
	"racing-line-optimizer/internal/geom"
	"racing-line-optimizer/internal/track"
)

// Clamp weights applied when the raw intersection leaves the corridor.
const (
	NearBorderWeight = 0.8
	FarBorderWeight  = 1 - NearBorderWeight
)

const (
	// boxTolerance absorbs rounding in intersections that land on a border.
	boxTolerance = 1e-9
	// verticalTolerance is the run/rise ratio below which a chord is vertical.
	verticalTolerance = 1e-12
)

// Projection tells how ProjectNextPoint arrived at its result.
type Projection int

const (
	// ProjectionOnChord means the tangent met the chord between the borders.
	ProjectionOnChord Projection = iota
	// ProjectionClamped means the intersection fell outside the corridor and
	// the point was pulled to the 80/20 blend toward the nearer border.
	ProjectionClamped
	// ProjectionFallback means the tangent ran parallel to the chord and the
	// chord midpoint was used.
	ProjectionFallback
)

func (p Projection) String() string {
	switch p {
	case ProjectionOnChord:
		return "on-chord"
	case ProjectionClamped:
		return "clamped"
	case ProjectionFallback:
		return "fallback"
	default:
		return fmt.Sprintf("Projection(%d)", int(p))
	}
}

// BlendIncline mixes the tangent slope (prev to cur) with the slope from cur
// toward the look-ahead target:
//
//	ratio*tangent + (1-ratio)*center
//
// A term with zero weight is not evaluated, so ratio 1 returns the tangent
// slope and ratio 0 the centerline slope exactly. Vertical and
// near-vertical segments use ±geom.MaxSlope. ok is false when a weighted
// segment has coincident ends; that term then contributes 0.
func BlendIncline(cur, prev, target common.Vec2, ratio float64) (incline float64, ok bool) {
	ok = true
	if ratio != 0 {
		tangent, tOK := geom.BoundedSlope(prev, cur)
		incline += ratio * tangent
		ok = ok && tOK
	}
	if ratio != 1 {
		center, cOK := geom.BoundedSlope(cur, target)
		incline += (1 - ratio) * center
		ok = ok && cOK
	}
	return incline, ok
}

// ProjectNextPoint intersects the line through cur with slope incline and
// the chord of cs. An incline at least geom.VerticalSlope steep stands for
// the vertical line through cur. An intersection inside the box spanned by
// the two border points is returned unchanged; otherwise the result is 80%
// of the way to the border nearer the intersection.
func ProjectNextPoint(cur common.Vec2, cs track.CrossSection, incline float64) (common.Vec2, Projection, error) {
	if cs.Inner == cs.Outer {
		return common.Vec2{}, 0, fmt.Errorf("%w at cross-section %d", ErrDegenerateChord, cs.Index)
	}

	var p common.Vec2
	run, rise := cs.Outer.X-cs.Inner.X, cs.Outer.Y-cs.Inner.Y
	verticalChord := math.Abs(run) <= verticalTolerance*math.Abs(rise)
	switch {
	case verticalChord && geom.Steep(incline):
		return cs.Center, ProjectionFallback, nil
	case verticalChord:
		// Vertical chord: x is fixed, read y off the tangent.
		x := cs.Center.X
		p = common.Vec2{X: x, Y: cur.Y + incline*(x-cur.X)}
	case geom.Steep(incline):
		// Vertical tangent: x stays at cur.X, read y off the chord.
		p = common.Vec2{X: cur.X, Y: cs.Inner.Y + rise/run*(cur.X-cs.Inner.X)}
	default:
		chordSlope := rise / run
		var err error
		p, err = geom.LineIntersection(
			incline, geom.Intercept(cur, incline),
			chordSlope, geom.Intercept(cs.Inner, chordSlope),
		)
		if errors.Is(err, geom.ErrParallel) {
			return cs.Center, ProjectionFallback, nil
		}
		if err != nil {
			return common.Vec2{}, 0, err
		}
	}

	if p.IsNaN() || p.IsInf() {
		return cs.Center, ProjectionFallback, nil
	}
	if geom.InBox(p, cs.Inner, cs.Outer, boxTolerance) {
		return p, ProjectionOnChord, nil
	}

	near, far := cs.Inner, cs.Outer
	if geom.Distance(p, cs.Outer) < geom.Distance(p, cs.Inner) {
		near, far = cs.Outer, cs.Inner
	}
	return near.Scale(NearBorderWeight).Add(far.Scale(FarBorderWeight)), ProjectionClamped, nil
}
