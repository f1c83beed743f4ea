package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"racing-line-optimizer/internal/common"
	"racing-line-optimizer/internal/racingline"
	"racing-line-optimizer/internal/track"
)

func testCorridor() track.Corridor {
	var inner, outer []common.Vec2
	for i := 0; i < 12; i++ {
		x := float64(i)
		inner = append(inner, common.Vec2{X: x, Y: 0})
		outer = append(outer, common.Vec2{X: x, Y: 2 + 0.1*x})
	}
	return track.FromBorders(inner, outer)
}

func TestPoints(t *testing.T) {
	c := testCorridor()
	p, err := racingline.BuildPath(c, 0.5, 2)
	require.NoError(t, err)

	inner, err := Points(Inner, c, p)
	require.NoError(t, err)
	assert.Len(t, inner, 12)
	assert.Equal(t, plotter.XY{X: 3, Y: 0}, inner[3])

	outer, err := Points(Outer, c, p)
	require.NoError(t, err)
	assert.InDelta(t, 2.3, outer[3].Y, 1e-12)

	center, err := Points(Center, c, p)
	require.NoError(t, err)
	assert.InDelta(t, 1.15, center[3].Y, 1e-12)

	line, err := Points(Line, c, p)
	require.NoError(t, err)
	assert.Len(t, line, p.Len())
	assert.Equal(t, p.Xs()[0], line[0].X)
	assert.Equal(t, p.Ys()[0], line[0].Y)

	_, err = Points(Kind(9), c, p)
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "inner border", Inner.String())
	assert.Equal(t, "outer border", Outer.String())
	assert.Equal(t, "centerline", Center.String())
	assert.Equal(t, "racing line", Line.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}

func TestTitle(t *testing.T) {
	p := racingline.Path{Ratio: 0.25, LookAhead: 4}
	s := racingline.Score{Total: 12.5, Average: 0.5}
	assert.Equal(t, "ratio 0.25  look-ahead 4  total curvature 12.50°  average 0.5000°", Title(p, s))
}

func TestNewPlotSkipsEmptySeries(t *testing.T) {
	c := testCorridor()
	pl, err := NewPlot(c, racingline.Path{}, racingline.Score{}, DefaultSeries())
	require.NoError(t, err)
	require.NoError(t, pl.Save(4*vg.Inch, 4*vg.Inch, filepath.Join(t.TempDir(), "borders.png")))

	_, err = NewPlot(c, racingline.Path{}, racingline.Score{}, []Series{{Kind: Kind(5)}})
	assert.Error(t, err)
}

func TestSavePlot(t *testing.T) {
	c := testCorridor()
	p, err := racingline.BuildPath(c, 0.6, 1)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "line.png")
	require.NoError(t, SavePlot(path, c, p, racingline.TotalCurvature(p)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Greater(t, cfg.Width, 0)
	assert.Greater(t, cfg.Height, 0)
}
