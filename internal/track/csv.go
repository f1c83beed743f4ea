package track

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"racing-line-optimizer/internal/common"
)

// Border side labels used in the CSV "side" column.
const (
	SideLeft  = "left"
	SideRight = "right"
)

// LoadBordersCSVFile opens path and parses it with LoadBordersCSV.
func LoadBordersCSVFile(path string) (Corridor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := LoadBordersCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadBordersCSV reads border points in "x,y,side" form. The header row
// locates the columns, so their order and any extra columns do not matter.
// Left rows form the inner border and right rows the outer border, each kept
// in file order and paired by ordinal. Values that fail to parse count as
// missing and their pair is dropped.
func LoadBordersCSV(r io.Reader) (Corridor, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty border file", ErrInvalidCorridor)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	xCol, yCol, sideCol := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "x":
			xCol = i
		case "y":
			yCol = i
		case "side":
			sideCol = i
		}
	}
	if xCol < 0 || yCol < 0 || sideCol < 0 {
		return nil, fmt.Errorf("%w: header %q must contain x, y and side columns", ErrInvalidCorridor, header)
	}

	var left, right []common.Vec2
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		p := common.Vec2{X: field(rec, xCol), Y: field(rec, yCol)}
		switch strings.ToLower(strings.TrimSpace(fieldString(rec, sideCol))) {
		case SideLeft:
			left = append(left, p)
		case SideRight:
			right = append(right, p)
		}
	}

	c := FromBorders(left, right)
	if len(c) == 0 {
		return nil, fmt.Errorf("%w: no complete left/right pairs (%d left, %d right)", ErrInvalidCorridor, len(left), len(right))
	}
	return c, nil
}

// WriteBordersCSV writes c in the format LoadBordersCSV reads: every inner
// point as a left row, then every outer point as a right row.
func WriteBordersCSV(w io.Writer, c Corridor) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "side"}); err != nil {
		return err
	}
	for _, side := range []string{SideLeft, SideRight} {
		for _, cs := range c {
			p := cs.Inner
			if side == SideRight {
				p = cs.Outer
			}
			row := []string{
				strconv.FormatFloat(p.X, 'f', -1, 64),
				strconv.FormatFloat(p.Y, 'f', -1, 64),
				side,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func fieldString(rec []string, col int) string {
	if col >= len(rec) {
		return ""
	}
	return rec[col]
}

// field parses a coordinate, mapping blanks and garbage to NaN.
func field(rec []string, col int) float64 {
	s := strings.TrimSpace(fieldString(rec, col))
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
