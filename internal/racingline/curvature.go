package racingline

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"racing-line-optimizer/internal/common"
	"racing-line-optimizer/internal/geom"
)

// Score aggregates the curvature samples of a path. Curvature is in degrees.
type Score struct {
	Total   float64
	Average float64 // Total / Samples, 0 when Samples is 0
	Samples int     // Interior points with strictly positive curvature
	Max     float64
	StdDev  float64 // Sample standard deviation of the positive samples
}

// heading returns the direction angle of the segment a→b in degrees, in
// [-90, 90]. Near-vertical segments read as exactly ±90 by the sign of the
// rise, so rounding drift in x cannot flip them. ok is false when
// a and b coincide.
func heading(a, b common.Vec2) (float64, bool) {
	switch {
	case a == b:
		return 0, false
	case geom.NearVertical(a, b):
		if b.Y > a.Y {
			return 90, true
		}
		return -90, true
	default:
		return math.Atan((b.Y-a.Y)/(b.X-a.X)) * 180 / math.Pi, true
	}
}

// PointCurvature returns the absolute difference, in degrees, between the
// heading into cur (from prev) and the heading out of cur (to next).
// Headings come from the arctangent of each segment's slope, so a reversal
// reads as no change. Coincident points give 0.
func PointCurvature(cur, next, prev common.Vec2) float64 {
	in, okIn := heading(prev, cur)
	out, okOut := heading(cur, next)
	if !okIn || !okOut {
		return 0
	}
	return math.Abs(out - in)
}

// Samples returns the curvature at every interior point of p: all points
// except the first (the seed at index 1) and the last.
func Samples(p Path) []float64 {
	if len(p.Points) < 3 {
		return nil
	}
	out := make([]float64, 0, len(p.Points)-2)
	for k := 1; k < len(p.Points)-1; k++ {
		out = append(out, PointCurvature(p.Points[k], p.Points[k+1], p.Points[k-1]))
	}
	return out
}

// TotalCurvature sums the strictly positive interior samples of p and
// averages over their count. A path with no positive sample scores zero
// on every field.
func TotalCurvature(p Path) Score {
	var positive []float64
	for _, c := range Samples(p) {
		if c > 0 {
			positive = append(positive, c)
		}
	}
	if len(positive) == 0 {
		return Score{}
	}

	s := Score{
		Total:   floats.Sum(positive),
		Samples: len(positive),
		Max:     floats.Max(positive),
	}
	s.Average = s.Total / float64(s.Samples)
	if len(positive) > 1 {
		s.StdDev = stat.StdDev(positive, nil)
	}
	return s
}
