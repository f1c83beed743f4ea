package racingline

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racing-line-optimizer/internal/common"
	"racing-line-optimizer/internal/geom"
	"racing-line-optimizer/internal/track"
)

// straightCorridor is a corridor of width 2 along the x axis, inner border on y=0.
func straightCorridor(n int) track.Corridor {
	var inner, outer []common.Vec2
	for i := 0; i < n; i++ {
		inner = append(inner, common.Vec2{X: float64(i), Y: 0})
		outer = append(outer, common.Vec2{X: float64(i), Y: 2})
	}
	return track.FromBorders(inner, outer)
}

// verticalCorridor is straightCorridor turned upright: chords run from (0, i)
// to (2, i).
func verticalCorridor(n int) track.Corridor {
	var inner, outer []common.Vec2
	for i := 0; i < n; i++ {
		inner = append(inner, common.Vec2{X: 0, Y: float64(i)})
		outer = append(outer, common.Vec2{X: 2, Y: float64(i)})
	}
	return track.FromBorders(inner, outer)
}

// arcCorridor is a quarter annulus, from a horizontal chord at angle 0 to a
// vertical chord at angle pi/2.
func arcCorridor(n int, rInner, rOuter float64) track.Corridor {
	var inner, outer []common.Vec2
	for i := 0; i < n; i++ {
		theta := math.Pi / 2 * float64(i) / float64(n-1)
		dir := common.Vec2{X: math.Cos(theta), Y: math.Sin(theta)}
		inner = append(inner, dir.Scale(rInner))
		outer = append(outer, dir.Scale(rOuter))
	}
	return track.FromBorders(inner, outer)
}

func TestBlendInclineRatioBounds(t *testing.T) {
	cur := common.Vec2{X: 2, Y: 2}
	prev := common.Vec2{X: 1, Y: 1}
	target := common.Vec2{X: 6, Y: 0}

	tangent, err := geom.Slope(prev, cur)
	require.NoError(t, err)
	center, err := geom.Slope(cur, target)
	require.NoError(t, err)

	m, ok := BlendIncline(cur, prev, target, 1)
	assert.True(t, ok)
	assert.Equal(t, tangent, m)

	m, ok = BlendIncline(cur, prev, target, 0)
	assert.True(t, ok)
	assert.Equal(t, center, m)

	m, ok = BlendIncline(cur, prev, target, 0.25)
	assert.True(t, ok)
	assert.InDelta(t, 0.25*tangent+0.75*center, m, 1e-12)
}

func TestBlendInclineDegenerate(t *testing.T) {
	cur := common.Vec2{X: 2, Y: 2}

	// The unused tangent term never sees the coincident prev.
	m, ok := BlendIncline(cur, cur, common.Vec2{X: 4, Y: 3}, 0)
	assert.True(t, ok)
	assert.Equal(t, 0.5, m)

	_, ok = BlendIncline(cur, cur, common.Vec2{X: 4, Y: 3}, 0.5)
	assert.False(t, ok)

	m, ok = BlendIncline(cur, common.Vec2{X: 2, Y: 0}, common.Vec2{X: 4, Y: 2}, 1)
	assert.True(t, ok)
	assert.Equal(t, geom.MaxSlope, m)
}

func TestBlendInclineNearVertical(t *testing.T) {
	// A tangent drifting left of vertical still points up and agrees with a
	// vertical centerline term.
	cur := common.Vec2{X: 1, Y: 2}
	prev := common.Vec2{X: 1.000000001, Y: 1}
	m, ok := BlendIncline(cur, prev, common.Vec2{X: 1, Y: 3}, 0.5)
	assert.True(t, ok)
	assert.Equal(t, geom.MaxSlope, m)
}

func TestProjectNextPoint(t *testing.T) {
	testCases := []struct {
		name    string
		cur     common.Vec2
		cs      track.CrossSection
		incline float64
		want    common.Vec2
		how     Projection
	}{
		{
			name:    "vertical_chord",
			cur:     common.Vec2{X: 0, Y: 1},
			cs:      track.NewCrossSection(3, common.Vec2{X: 3, Y: 0}, common.Vec2{X: 3, Y: 2}),
			incline: 0,
			want:    common.Vec2{X: 3, Y: 1},
			how:     ProjectionOnChord,
		},
		{
			name:    "sloped_chord",
			cur:     common.Vec2{X: 0, Y: 0},
			cs:      track.NewCrossSection(3, common.Vec2{X: 4, Y: 0}, common.Vec2{X: 0, Y: 4}),
			incline: 1,
			want:    common.Vec2{X: 2, Y: 2},
			how:     ProjectionOnChord,
		},
		{
			name:    "clamped_toward_outer",
			cur:     common.Vec2{X: 0, Y: 0},
			cs:      track.NewCrossSection(3, common.Vec2{X: 5, Y: 0}, common.Vec2{X: 5, Y: 2}),
			incline: 1,
			want:    common.Vec2{X: 5, Y: 1.6},
			how:     ProjectionClamped,
		},
		{
			name:    "clamped_toward_inner",
			cur:     common.Vec2{X: 0, Y: 0},
			cs:      track.NewCrossSection(3, common.Vec2{X: 5, Y: 0}, common.Vec2{X: 5, Y: 2}),
			incline: -1,
			want:    common.Vec2{X: 5, Y: 0.4},
			how:     ProjectionClamped,
		},
		{
			name:    "vertical_tangent",
			cur:     common.Vec2{X: 1, Y: 2},
			cs:      track.NewCrossSection(3, common.Vec2{X: 0, Y: 3}, common.Vec2{X: 2, Y: 3}),
			incline: geom.MaxSlope,
			want:    common.Vec2{X: 1, Y: 3},
			how:     ProjectionOnChord,
		},
		{
			name:    "vertical_tangent_sloped_chord",
			cur:     common.Vec2{X: 1, Y: 0},
			cs:      track.NewCrossSection(3, common.Vec2{X: 0, Y: 2}, common.Vec2{X: 4, Y: 4}),
			incline: -geom.MaxSlope,
			want:    common.Vec2{X: 1, Y: 2.5},
			how:     ProjectionOnChord,
		},
		{
			name:    "vertical_tangent_vertical_chord",
			cur:     common.Vec2{X: 0, Y: 0},
			cs:      track.NewCrossSection(3, common.Vec2{X: 3, Y: 0}, common.Vec2{X: 3, Y: 2}),
			incline: geom.MaxSlope,
			want:    common.Vec2{X: 3, Y: 1},
			how:     ProjectionFallback,
		},
		{
			name:    "parallel_falls_back_to_center",
			cur:     common.Vec2{X: 0, Y: 1},
			cs:      track.NewCrossSection(3, common.Vec2{X: 1, Y: 0}, common.Vec2{X: 3, Y: 0}),
			incline: 0,
			want:    common.Vec2{X: 2, Y: 0},
			how:     ProjectionFallback,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, how, err := ProjectNextPoint(tc.cur, tc.cs, tc.incline)
			require.NoError(t, err)
			assert.Equal(t, tc.how, how)
			assert.InDelta(t, tc.want.X, got.X, 1e-9)
			assert.InDelta(t, tc.want.Y, got.Y, 1e-9)
		})
	}
}

func TestProjectNextPointDegenerateChord(t *testing.T) {
	p := common.Vec2{X: 1, Y: 1}
	_, _, err := ProjectNextPoint(common.Vec2{}, track.NewCrossSection(4, p, p), 1)
	assert.ErrorIs(t, err, ErrDegenerateChord)
}

func TestProjectionString(t *testing.T) {
	assert.Equal(t, "on-chord", ProjectionOnChord.String())
	assert.Equal(t, "clamped", ProjectionClamped.String())
	assert.Equal(t, "fallback", ProjectionFallback.String())
	assert.Equal(t, "Projection(9)", Projection(9).String())
}

func TestBuildPathStraightCorridor(t *testing.T) {
	c := straightCorridor(5)

	for _, ratio := range []float64{0, 0.1, 0.5, 0.9, 1} {
		p, err := BuildPath(c, ratio, 1)
		require.NoError(t, err)

		assert.Equal(t, 1, p.Start)
		assert.Equal(t, 3, p.End())
		assert.Equal(t, 1, p.Truncated())
		for i := p.Start; i <= p.End(); i++ {
			pt, ok := p.At(i)
			require.True(t, ok)
			assert.InDelta(t, 1.0, pt.Y, 1e-9, "ratio %g index %d", ratio, i)
			assert.InDelta(t, float64(i), pt.X, 1e-9)
		}

		s := TotalCurvature(p)
		assert.InDelta(t, 0.0, s.Total, 1e-9)
		assert.Equal(t, 0.0, s.Average)
	}
}

func TestBuildPathVerticalCorridor(t *testing.T) {
	c := verticalCorridor(8)

	for _, lookAhead := range []int{0, 1, 3} {
		for _, ratio := range []float64{0, 0.5, 1} {
			p, err := BuildPath(c, ratio, lookAhead)
			require.NoError(t, err)

			assert.Equal(t, len(c)-1-lookAhead, p.End())
			assert.Zero(t, p.Degeneracies)
			assert.Zero(t, p.Clamped)
			for i := p.Start; i <= p.End(); i++ {
				pt, ok := p.At(i)
				require.True(t, ok)
				assert.Equal(t, 1.0, pt.X, "ratio %g look-ahead %d index %d", ratio, lookAhead, i)
				assert.InDelta(t, float64(i), pt.Y, 1e-9)
			}

			s := TotalCurvature(p)
			assert.InDelta(t, 0.0, s.Total, 1e-9, "ratio %g look-ahead %d", ratio, lookAhead)
			assert.Zero(t, s.Samples)
		}
	}
}

func TestBuildPathSeedsAreCenterline(t *testing.T) {
	c := arcCorridor(20, 10, 14)
	p, err := BuildPath(c, 0.5, 2)
	require.NoError(t, err)

	assert.Equal(t, c[1].Center, p.Points[0])
	assert.Equal(t, c[2].Center, p.Points[1])
	_, ok := p.At(0)
	assert.False(t, ok, "cross-section 0 has no point")
	_, ok = p.At(c[len(c)-1].Index)
	assert.False(t, ok, "trailing look-ahead cross-sections have no point")
	assert.Equal(t, 2, p.Truncated())
	assert.Equal(t, len(c)-3, p.Len())
}

func TestBuildPathCorridorContainment(t *testing.T) {
	c := arcCorridor(40, 10, 14)

	for _, lookAhead := range []int{0, 1, 3, 8} {
		for _, ratio := range []float64{0, 0.3, 0.7, 1} {
			p, err := BuildPath(c, ratio, lookAhead)
			require.NoError(t, err)

			for i := p.Start + 2; i <= p.End(); i++ {
				pt, _ := p.At(i)
				cs := c[i]
				assert.True(t, geom.InBox(pt, cs.Inner, cs.Outer, 1e-6),
					"ratio %g look-ahead %d: point %v outside cross-section %d", ratio, lookAhead, pt, i)
			}
		}
	}
}

func TestBuildPathDeterministic(t *testing.T) {
	c := arcCorridor(60, 10, 13)
	before := append(track.Corridor(nil), c...)

	a, err := BuildPath(c, 0.6, 4)
	require.NoError(t, err)
	b, err := BuildPath(c, 0.6, 4)
	require.NoError(t, err)

	if d := cmp.Diff(a, b); d != "" {
		t.Errorf("paths differ:\n%s", d)
	}
	if d := cmp.Diff(before, c); d != "" {
		t.Errorf("corridor was modified:\n%s", d)
	}
}

func TestBuildPathPureCenterlineAtZeroLookAhead(t *testing.T) {
	// With ratio 0 and no look-ahead every step aims straight at the next
	// centerline point, so the path is the centerline.
	c := arcCorridor(30, 10, 14)
	p, err := BuildPath(c, 0, 0)
	require.NoError(t, err)

	for i := p.Start; i <= p.End(); i++ {
		pt, _ := p.At(i)
		assert.InDelta(t, c[i].Center.X, pt.X, 1e-6)
		assert.InDelta(t, c[i].Center.Y, pt.Y, 1e-6)
	}
	assert.Equal(t, 0, p.Truncated())
}

func TestBuildPathErrors(t *testing.T) {
	c := straightCorridor(4)

	_, err := BuildPath(c, 0.5, 2)
	require.ErrorIs(t, err, ErrInsufficientData)
	assert.Contains(t, err.Error(), "needs 5 cross-sections, have 4")

	_, err = BuildPath(c, -0.1, 0)
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = BuildPath(c, 1.5, 0)
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = BuildPath(c, math.NaN(), 0)
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = BuildPath(c, 0.5, -1)
	assert.ErrorIs(t, err, ErrInvalidParams)

	c[3].Outer = c[3].Inner
	_, err = BuildPath(c, 0.5, 0)
	assert.ErrorIs(t, err, ErrDegenerateChord)
}

func TestBuildPathMinimalCorridor(t *testing.T) {
	p, err := BuildPath(straightCorridor(MinSections(1)), 0.5, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len(), "only the seeds fit")
	assert.Equal(t, 1, p.Truncated())
	assert.Equal(t, Score{}, TotalCurvature(p))
}

func TestPathCoordinates(t *testing.T) {
	p, err := BuildPath(straightCorridor(6), 1, 0)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3, 4, 5}, p.Xs())
	for _, y := range p.Ys() {
		assert.InDelta(t, 1.0, y, 1e-9)
	}
}

func TestPointCurvature(t *testing.T) {
	testCases := []struct {
		name string
		prev common.Vec2
		cur  common.Vec2
		next common.Vec2
		want float64
	}{
		{"straight", common.Vec2{X: 0, Y: 0}, common.Vec2{X: 1, Y: 1}, common.Vec2{X: 2, Y: 2}, 0},
		{"right_angle", common.Vec2{X: 0, Y: 0}, common.Vec2{X: 1, Y: 0}, common.Vec2{X: 1, Y: 1}, 90},
		{"forty_five", common.Vec2{X: 0, Y: 0}, common.Vec2{X: 1, Y: 0}, common.Vec2{X: 2, Y: 1}, 45},
		{"vertical_in", common.Vec2{X: 0, Y: 0}, common.Vec2{X: 0, Y: 1}, common.Vec2{X: 1, Y: 2}, 45},
		{"vertical_drift", common.Vec2{X: 1, Y: 1}, common.Vec2{X: 1, Y: 2}, common.Vec2{X: 1.000000001, Y: 3}, 0},
		{"vertical_down_drift", common.Vec2{X: 1, Y: 3}, common.Vec2{X: 0.999999999, Y: 2}, common.Vec2{X: 1, Y: 1}, 0},
		{"coincident", common.Vec2{X: 1, Y: 1}, common.Vec2{X: 1, Y: 1}, common.Vec2{X: 2, Y: 5}, 0},
		{"turning_down", common.Vec2{X: 0, Y: 0}, common.Vec2{X: 1, Y: 1}, common.Vec2{X: 2, Y: 1}, 45},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := PointCurvature(tc.cur, tc.next, tc.prev)
			assert.InDelta(t, tc.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestTotalCurvature(t *testing.T) {
	p := Path{
		Start: 1,
		Points: []common.Vec2{
			{X: 0, Y: 0},
			{X: 1, Y: 0}, // 45 degrees
			{X: 2, Y: 1}, // 45 degrees
			{X: 3, Y: 1}, // 0, skipped
			{X: 4, Y: 1},
		},
	}

	s := TotalCurvature(p)
	assert.InDelta(t, 90.0, s.Total, 1e-9)
	assert.InDelta(t, 45.0, s.Average, 1e-9)
	assert.Equal(t, 2, s.Samples)
	assert.InDelta(t, 45.0, s.Max, 1e-9)
	assert.InDelta(t, 0.0, s.StdDev, 1e-9)
	assert.Len(t, Samples(p), 3)
}

func TestCurvatureNonNegative(t *testing.T) {
	c := arcCorridor(50, 10, 15)
	for _, lookAhead := range []int{0, 2, 5} {
		for _, ratio := range []float64{0.1, 0.5, 0.9} {
			p, err := BuildPath(c, ratio, lookAhead)
			require.NoError(t, err)

			for _, v := range Samples(p) {
				assert.GreaterOrEqual(t, v, 0.0)
			}
			s := TotalCurvature(p)
			assert.GreaterOrEqual(t, s.Total, 0.0)
			assert.GreaterOrEqual(t, s.Average, 0.0)
			assert.False(t, math.IsNaN(s.Average))
		}
	}
}
