package track

import (
	"math"

	"racing-line-optimizer/internal/common"
)

// Waypoint is a point on the walked centerline together with the distance
// to the wall on either side of it.
type Waypoint struct {
	ID        int
	Position  common.Vec2 // World coordinates (x, y)
	Normal    common.Vec2 // Unit vector perpendicular to the track direction (pointing left)
	LeftDist  float64     // Distance to the wall along +Normal
	RightDist float64     // Distance to the wall along -Normal
}

// TrackMesh is the centerline recovered from a track image.
type TrackMesh struct {
	Waypoints []Waypoint
	StepSize  float64
}

// Corridor converts the mesh into cross-sections. The inner border is the
// left wall hit and the outer border the right wall hit.
func (m *TrackMesh) Corridor() Corridor {
	inner := make([]common.Vec2, 0, len(m.Waypoints))
	outer := make([]common.Vec2, 0, len(m.Waypoints))
	for _, wp := range m.Waypoints {
		inner = append(inner, wp.Position.Add(wp.Normal.Scale(wp.LeftDist)))
		outer = append(outer, wp.Position.Sub(wp.Normal.Scale(wp.RightDist)))
	}
	return FromBorders(inner, outer)
}

// Nearest finds the cross-section whose centerline point is closest to pos.
// Returns -1 for an empty corridor.
// Linear search; corridors here are a few thousand cross-sections at most.
func (c Corridor) Nearest(pos common.Vec2) int {
	minDistSq := math.MaxFloat64
	closestIdx := -1

	for i, cs := range c {
		dx := pos.X - cs.Center.X
		dy := pos.Y - cs.Center.Y
		distSq := dx*dx + dy*dy
		if distSq < minDistSq {
			minDistSq = distSq
			closestIdx = i
		}
	}
	return closestIdx
}

// Lateral returns the signed offset of pos from the centerline of
// cross-section i, measured along the chord. Positive is toward the inner
// border. This is the d coordinate of a Frenet frame.
func (c Corridor) Lateral(i int, pos common.Vec2) float64 {
	cs := c[i]
	dir := cs.Inner.Sub(cs.Outer).Normalize()
	d := pos.Sub(cs.Center)
	return d.X*dir.X + d.Y*dir.Y
}
