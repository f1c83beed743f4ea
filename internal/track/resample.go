package track

import (
	"fmt"

	"github.com/cnkei/gospline"

	"racing-line-optimizer/internal/common"
)

// Resample fits a natural cubic spline through each border coordinate,
// parametrized by cross-section ordinal, and evaluates it at n evenly spaced
// positions. The first and last cross-sections are preserved.
func Resample(c Corridor, n int) (Corridor, error) {
	if len(c) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 cross-sections to resample, got %d", ErrInvalidCorridor, len(c))
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: resample count must be at least 2, got %d", ErrInvalidCorridor, n)
	}

	t := make([]float64, len(c))
	for i := range t {
		t[i] = float64(i)
	}
	spline := func(pick func(CrossSection) float64) gospline.Spline {
		v := make([]float64, len(c))
		for i, cs := range c {
			v[i] = pick(cs)
		}
		return gospline.NewCubicSpline(t, v)
	}

	innerX := spline(func(cs CrossSection) float64 { return cs.Inner.X })
	innerY := spline(func(cs CrossSection) float64 { return cs.Inner.Y })
	outerX := spline(func(cs CrossSection) float64 { return cs.Outer.X })
	outerY := spline(func(cs CrossSection) float64 { return cs.Outer.Y })

	last := float64(len(c) - 1)
	inner := make([]common.Vec2, n)
	outer := make([]common.Vec2, n)
	for k := 0; k < n; k++ {
		s := last * float64(k) / float64(n-1)
		inner[k] = common.Vec2{X: innerX.At(s), Y: innerY.At(s)}
		outer[k] = common.Vec2{X: outerX.At(s), Y: outerY.At(s)}
	}
	inner[0], outer[0] = c[0].Inner, c[0].Outer
	inner[n-1], outer[n-1] = c[len(c)-1].Inner, c[len(c)-1].Outer

	return FromBorders(inner, outer), nil
}
