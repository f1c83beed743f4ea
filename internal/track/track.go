package track

import "image/color"

// CellType represents the surface found at one pixel of a track image.
type CellType int

const (
	CellWall CellType = iota
	CellTarmac
	CellStart
)

// Grid is a track image reduced to drivable and non-drivable cells.
type Grid struct {
	Width, Height int
	Cells         [][]CellType
}

// NewGrid creates a grid of walls with the given size.
func NewGrid(width, height int) *Grid {
	cells := make([][]CellType, width)
	for i := range cells {
		cells[i] = make([]CellType, height)
	}
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  cells,
	}
}

// Get returns the cell at (x, y). Returns CellWall if out of bounds.
func (g *Grid) Get(x, y int) CellType {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return CellWall
	}
	return g.Cells[x][y]
}

// Drivable reports whether (x, y) is tarmac or the start line.
func (g *Grid) Drivable(x, y int) bool {
	return g.Get(x, y) != CellWall
}

// ColorToCellType maps a pixel color to a cell type.
// Light pixels are tarmac, saturated red marks the start line and
// everything else is wall.
func ColorToCellType(c color.Color) CellType {
	r, g, b, _ := c.RGBA()
	r8, g8, b8 := r>>8, g>>8, b>>8

	if r8 > 200 && g8 < 100 && b8 < 100 {
		return CellStart
	}
	if r8 > 200 && g8 > 200 && b8 > 200 {
		return CellTarmac
	}
	// Mid-grey anti-aliased edges count as tarmac, dark pixels as wall.
	if r8 < 50 && g8 < 50 && b8 < 50 {
		return CellWall
	}
	if r8 > 120 && g8 > 120 && b8 > 120 {
		return CellTarmac
	}
	return CellWall
}
