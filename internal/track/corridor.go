package track

import (
	"errors"
	"fmt"

	"racing-line-optimizer/internal/common"
)

// ErrInvalidCorridor is returned when border data cannot form a corridor.
var ErrInvalidCorridor = errors.New("invalid corridor")

// CrossSection is one index along the track: the inner and outer border
// points and the centerline point between them.
type CrossSection struct {
	Index  int
	Inner  common.Vec2 // Left border (x_left, y_left)
	Outer  common.Vec2 // Right border (x_right, y_right)
	Center common.Vec2 // Midpoint of Inner and Outer
}

// NewCrossSection builds a cross-section and derives its centerline point.
func NewCrossSection(index int, inner, outer common.Vec2) CrossSection {
	return CrossSection{
		Index:  index,
		Inner:  inner,
		Outer:  outer,
		Center: inner.Mid(outer),
	}
}

// Width returns the chord length between the borders.
func (cs CrossSection) Width() float64 {
	return cs.Outer.Sub(cs.Inner).Len()
}

// Corridor is the ordered sequence of cross-sections along the track.
// Consumers treat it as read-only.
type Corridor []CrossSection

// FromBorders aligns two border polylines by ordinal position. The longer
// border is truncated to the shorter one. Pairs with a NaN or infinite
// coordinate are dropped and the remaining cross-sections re-indexed.
func FromBorders(inner, outer []common.Vec2) Corridor {
	n := min(len(inner), len(outer))
	c := make(Corridor, 0, n)
	for i := 0; i < n; i++ {
		in, out := inner[i], outer[i]
		if in.IsNaN() || out.IsNaN() || in.IsInf() || out.IsInf() {
			continue
		}
		c = append(c, NewCrossSection(len(c), in, out))
	}
	return c
}

// Validate checks that indices are sequential and every point is finite.
func (c Corridor) Validate() error {
	for i, cs := range c {
		if cs.Index != i {
			return fmt.Errorf("%w: cross-section %d has index %d", ErrInvalidCorridor, i, cs.Index)
		}
		for _, p := range []common.Vec2{cs.Inner, cs.Outer, cs.Center} {
			if p.IsNaN() || p.IsInf() {
				return fmt.Errorf("%w: cross-section %d has non-finite point %v", ErrInvalidCorridor, i, p)
			}
		}
	}
	return nil
}

// Inners returns the inner border polyline.
func (c Corridor) Inners() []common.Vec2 {
	out := make([]common.Vec2, len(c))
	for i, cs := range c {
		out[i] = cs.Inner
	}
	return out
}

// Outers returns the outer border polyline.
func (c Corridor) Outers() []common.Vec2 {
	out := make([]common.Vec2, len(c))
	for i, cs := range c {
		out[i] = cs.Outer
	}
	return out
}

// Centers returns the centerline polyline.
func (c Corridor) Centers() []common.Vec2 {
	out := make([]common.Vec2, len(c))
	for i, cs := range c {
		out[i] = cs.Center
	}
	return out
}

// Bounds returns the min and max corners of the box containing both borders.
func (c Corridor) Bounds() (lo, hi common.Vec2) {
	if len(c) == 0 {
		return
	}
	lo, hi = c[0].Inner, c[0].Inner
	for _, cs := range c {
		for _, p := range []common.Vec2{cs.Inner, cs.Outer} {
			lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
			hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
		}
	}
	return lo, hi
}
