// Package geom holds the slope/intercept primitives the racing line is
// built from. Degenerate inputs (vertical segments, parallel lines,
// coincident points) are reported as errors instead of leaking Inf or NaN.
package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"racing-line-optimizer/internal/common"
)

const (
	// MaxSlope is the magnitude substituted for the slope of a vertical segment.
	MaxSlope = 1e9
	// VerticalSlope is the magnitude from which a slope counts as vertical.
	VerticalSlope = 1e6
)

var (
	// ErrDegenerate matches every geometric degeneracy reported by this package.
	ErrDegenerate = errors.New("degenerate geometry")

	ErrVertical   = fmt.Errorf("%w: vertical segment", ErrDegenerate)
	ErrParallel   = fmt.Errorf("%w: parallel lines", ErrDegenerate)
	ErrCoincident = fmt.Errorf("%w: coincident points", ErrDegenerate)
)

// Distance returns the Euclidean distance between a and b.
func Distance(a, b common.Vec2) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Slope returns the slope of the line from a to b.
// It fails with ErrVertical when a and b share an x coordinate.
func Slope(a, b common.Vec2) (float64, error) {
	dx := b.X - a.X
	if dx == 0 {
		if b.Y == a.Y {
			return 0, ErrCoincident
		}
		return 0, ErrVertical
	}
	return (b.Y - a.Y) / dx, nil
}

// Steep reports whether a line of slope m counts as vertical.
func Steep(m float64) bool {
	return math.Abs(m) >= VerticalSlope
}

// NearVertical reports whether a→b rises at least VerticalSlope times its
// run. Coincident points are not vertical.
func NearVertical(a, b common.Vec2) bool {
	dy := b.Y - a.Y
	return dy != 0 && math.Abs(b.X-a.X)*VerticalSlope <= math.Abs(dy)
}

// BoundedSlope is Slope with vertical and near-vertical segments replaced
// by ±MaxSlope, signed by the rise. ok is false only when a and b coincide,
// in which case the returned slope is 0.
func BoundedSlope(a, b common.Vec2) (m float64, ok bool) {
	switch {
	case a == b:
		return 0, false
	case NearVertical(a, b):
		if b.Y > a.Y {
			return MaxSlope, true
		}
		return -MaxSlope, true
	default:
		return (b.Y - a.Y) / (b.X - a.X), true
	}
}

// Intercept returns the y-intercept of the line through p with slope m.
func Intercept(p common.Vec2, m float64) float64 {
	return p.Y - m*p.X
}

// LineIntersection returns the crossing point of y = m1*x + b1 and
// y = m2*x + b2. Parallel (or numerically singular) systems fail with
// ErrParallel.
func LineIntersection(m1, b1, m2, b2 float64) (common.Vec2, error) {
	if m1 == m2 {
		return common.Vec2{}, ErrParallel
	}

	a := mat.NewDense(2, 2, []float64{
		m1, -1,
		m2, -1,
	})
	b := mat.NewVecDense(2, []float64{-b1, -b2})

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return common.Vec2{}, fmt.Errorf("%w: %v", ErrParallel, err)
	}

	p := common.Vec2{X: x.AtVec(0), Y: x.AtVec(1)}
	if p.IsNaN() || p.IsInf() {
		return common.Vec2{}, ErrParallel
	}
	return p, nil
}

// InBox reports whether p lies inside the axis-aligned box spanned by a and b,
// boundaries included. tol widens the box on every side.
func InBox(p, a, b common.Vec2, tol float64) bool {
	xMin, xMax := math.Min(a.X, b.X), math.Max(a.X, b.X)
	yMin, yMax := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return p.X >= xMin-tol && p.X <= xMax+tol &&
		p.Y >= yMin-tol && p.Y <= yMax+tol
}
