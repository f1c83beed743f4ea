// Package render draws a corridor and its racing line as an annotated plot.
package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"racing-line-optimizer/internal/common"
	"racing-line-optimizer/internal/racingline"
	"racing-line-optimizer/internal/track"
)

// Kind selects which polyline a Series draws.
type Kind int

const (
	Inner Kind = iota
	Outer
	Center
	Line
)

func (k Kind) String() string {
	switch k {
	case Inner:
		return "inner border"
	case Outer:
		return "outer border"
	case Center:
		return "centerline"
	case Line:
		return "racing line"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Series is one drawn polyline.
type Series struct {
	Kind   Kind
	Color  color.Color
	Width  vg.Length
	Dashed bool
}

// DefaultSeries draws both borders in black, the centerline dashed grey and
// the racing line in red.
func DefaultSeries() []Series {
	return []Series{
		{Kind: Inner, Color: color.Black, Width: vg.Points(1)},
		{Kind: Outer, Color: color.Black, Width: vg.Points(1)},
		{Kind: Center, Color: color.Gray{Y: 150}, Width: vg.Points(0.75), Dashed: true},
		{Kind: Line, Color: color.RGBA{R: 220, A: 255}, Width: vg.Points(1.5)},
	}
}

// Points returns the data for kind k.
func Points(k Kind, c track.Corridor, p racingline.Path) (plotter.XYs, error) {
	switch k {
	case Inner:
		return toXYs(c.Inners()), nil
	case Outer:
		return toXYs(c.Outers()), nil
	case Center:
		return toXYs(c.Centers()), nil
	case Line:
		return toXYs(p.Points), nil
	default:
		return nil, fmt.Errorf("unknown series kind %d", int(k))
	}
}

func toXYs(pts []common.Vec2) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return xys
}

// Title returns the plot heading for a scored path.
func Title(p racingline.Path, s racingline.Score) string {
	return fmt.Sprintf("ratio %.2f  look-ahead %d  total curvature %.2f°  average %.4f°",
		p.Ratio, p.LookAhead, s.Total, s.Average)
}

// NewPlot builds the plot without saving it. Series with no points are
// skipped.
func NewPlot(c track.Corridor, p racingline.Path, s racingline.Score, series []Series) (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = Title(p, s)
	pl.X.Label.Text = "x"
	pl.Y.Label.Text = "y"

	for _, sr := range series {
		pts, err := Points(sr.Kind, c, p)
		if err != nil {
			return nil, err
		}
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sr.Kind, err)
		}
		line.Color = sr.Color
		line.Width = sr.Width
		if sr.Dashed {
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		}
		pl.Add(line)
		pl.Legend.Add(sr.Kind.String(), line)
	}

	pl.Legend.Top = true
	pl.Legend.Left = false
	pl.Legend.XOffs = -10
	pl.Legend.YOffs = -10
	return pl, nil
}

// SavePlot renders the default series to path. The format follows the file
// extension (.png, .svg, .pdf).
func SavePlot(path string, c track.Corridor, p racingline.Path, s racingline.Score) error {
	pl, err := NewPlot(c, p, s, DefaultSeries())
	if err != nil {
		return err
	}
	if err := pl.Save(10*vg.Inch, 10*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
