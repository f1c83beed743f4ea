package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racing-line-optimizer/internal/common"
)

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance(common.Vec2{X: 0, Y: 0}, common.Vec2{X: 3, Y: 4}))
	assert.Equal(t, 0.0, Distance(common.Vec2{X: 2, Y: 2}, common.Vec2{X: 2, Y: 2}))
}

func TestSlope(t *testing.T) {
	testCases := []struct {
		name    string
		a, b    common.Vec2
		want    float64
		wantErr error
	}{
		{"rising", common.Vec2{X: 0, Y: 0}, common.Vec2{X: 2, Y: 4}, 2, nil},
		{"falling", common.Vec2{X: 0, Y: 0}, common.Vec2{X: 2, Y: -1}, -0.5, nil},
		{"flat", common.Vec2{X: 1, Y: 3}, common.Vec2{X: 5, Y: 3}, 0, nil},
		{"vertical", common.Vec2{X: 1, Y: 0}, common.Vec2{X: 1, Y: 5}, 0, ErrVertical},
		{"coincident", common.Vec2{X: 1, Y: 1}, common.Vec2{X: 1, Y: 1}, 0, ErrCoincident},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Slope(tc.a, tc.b)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.ErrorIs(t, err, ErrDegenerate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBoundedSlope(t *testing.T) {
	m, ok := BoundedSlope(common.Vec2{X: 1, Y: 0}, common.Vec2{X: 1, Y: 5})
	assert.True(t, ok)
	assert.Equal(t, MaxSlope, m)

	m, ok = BoundedSlope(common.Vec2{X: 1, Y: 5}, common.Vec2{X: 1, Y: 0})
	assert.True(t, ok)
	assert.Equal(t, -MaxSlope, m)

	m, ok = BoundedSlope(common.Vec2{X: 0, Y: 0}, common.Vec2{X: 2, Y: 1})
	assert.True(t, ok)
	assert.Equal(t, 0.5, m)

	m, ok = BoundedSlope(common.Vec2{X: 3, Y: 3}, common.Vec2{X: 3, Y: 3})
	assert.False(t, ok)
	assert.Equal(t, 0.0, m)

	// Drift to either side of vertical keeps the sign of the rise.
	m, ok = BoundedSlope(common.Vec2{X: 1, Y: 0}, common.Vec2{X: 0.999999999, Y: 1})
	assert.True(t, ok)
	assert.Equal(t, MaxSlope, m)

	m, ok = BoundedSlope(common.Vec2{X: 1, Y: 1}, common.Vec2{X: 0.999999999, Y: 0})
	assert.True(t, ok)
	assert.Equal(t, -MaxSlope, m)
}

func TestNearVertical(t *testing.T) {
	assert.True(t, NearVertical(common.Vec2{X: 1, Y: 0}, common.Vec2{X: 1, Y: 2}))
	assert.True(t, NearVertical(common.Vec2{X: 1, Y: 0}, common.Vec2{X: 1.000000001, Y: 1}))
	assert.False(t, NearVertical(common.Vec2{X: 1, Y: 0}, common.Vec2{X: 1.01, Y: 1}))
	assert.False(t, NearVertical(common.Vec2{X: 0, Y: 0}, common.Vec2{X: 5, Y: 0}))
	assert.False(t, NearVertical(common.Vec2{X: 2, Y: 2}, common.Vec2{X: 2, Y: 2}))

	assert.True(t, Steep(MaxSlope))
	assert.True(t, Steep(-VerticalSlope))
	assert.False(t, Steep(1e3))
}

func TestLineIntersection(t *testing.T) {
	// y = x and y = -x + 4 cross at (2, 2).
	p, err := LineIntersection(1, 0, -1, 4)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, p.X, 1e-12)
	assert.InDelta(t, 2.0, p.Y, 1e-12)

	// y = 1 and y = 3x - 5 cross at (2, 1).
	p, err = LineIntersection(0, 1, 3, -5)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, p.X, 1e-12)
	assert.InDelta(t, 1.0, p.Y, 1e-12)
}

func TestLineIntersectionParallel(t *testing.T) {
	_, err := LineIntersection(2, 0, 2, 1)
	assert.ErrorIs(t, err, ErrParallel)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestIntercept(t *testing.T) {
	assert.Equal(t, 1.0, Intercept(common.Vec2{X: 2, Y: 5}, 2))
	assert.Equal(t, 3.0, Intercept(common.Vec2{X: 7, Y: 3}, 0))
}

func TestInBox(t *testing.T) {
	a := common.Vec2{X: 0, Y: 2}
	b := common.Vec2{X: 4, Y: 0}

	assert.True(t, InBox(common.Vec2{X: 2, Y: 1}, a, b, 0))
	assert.True(t, InBox(common.Vec2{X: 0, Y: 0}, a, b, 0), "corners are inclusive")
	assert.False(t, InBox(common.Vec2{X: 5, Y: 1}, a, b, 0))
	assert.False(t, InBox(common.Vec2{X: 2, Y: -1e-6}, a, b, 0))
	assert.True(t, InBox(common.Vec2{X: 2, Y: -1e-10}, a, b, 1e-9))
	assert.False(t, InBox(common.Vec2{X: math.NaN(), Y: 1}, a, b, 0))
}
