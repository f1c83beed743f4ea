package track

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"racing-line-optimizer/internal/common"
)

// MeshOptions tunes the centerline walker.
type MeshOptions struct {
	StepSize  float64 // Distance between waypoints in pixels
	MaxSteps  int     // Upper bound on waypoints before giving up on loop closure
	BeamRange float64 // Look-ahead length of the direction-finding rays
	WallRange float64 // Maximum distance searched for a wall along the normal
}

// DefaultMeshOptions matches tracks rendered at roughly 1 px per metre.
func DefaultMeshOptions() MeshOptions {
	return MeshOptions{
		StepSize:  20,
		MaxSteps:  2000,
		BeamRange: 150,
		WallRange: 80,
	}
}

// ErrNoTarmac is returned when an image holds no drivable pixel.
var ErrNoTarmac = errors.New("track image has no tarmac")

// LoadGrid decodes a PNG or JPEG track image into a Grid.
func LoadGrid(path string) (*Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return GridFromImage(img), nil
}

// GridFromImage classifies every pixel of img.
func GridFromImage(img image.Image) *Grid {
	bounds := img.Bounds()
	grid := NewGrid(bounds.Dx(), bounds.Dy())
	for x := 0; x < grid.Width; x++ {
		for y := 0; y < grid.Height; y++ {
			grid.Cells[x][y] = ColorToCellType(img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return grid
}

// LoadCorridorFromImage loads a track image and extracts its corridor.
func LoadCorridorFromImage(path string, opts MeshOptions) (*Grid, Corridor, error) {
	grid, err := LoadGrid(path)
	if err != nil {
		return nil, nil, err
	}
	mesh, err := GenerateMesh(grid, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return grid, mesh.Corridor(), nil
}

// FindStart returns the first start-line cell, or the first tarmac cell
// scanning column by column when the image has no start marker.
func FindStart(grid *Grid) (int, int, error) {
	firstX, firstY, found := 0, 0, false
	for x := 0; x < grid.Width; x++ {
		for y := 0; y < grid.Height; y++ {
			switch grid.Cells[x][y] {
			case CellStart:
				return x, y, nil
			case CellTarmac:
				if !found {
					firstX, firstY, found = x, y, true
				}
			}
		}
	}
	if !found {
		return 0, 0, ErrNoTarmac
	}
	return firstX, firstY, nil
}

// GenerateMesh walks the tarmac from the start cell and records a waypoint
// every StepSize pixels until the walk closes the loop or MaxSteps is hit.
// Each waypoint is then measured against the walls on both sides.
func GenerateMesh(grid *Grid, opts MeshOptions) (*TrackMesh, error) {
	startX, startY, err := FindStart(grid)
	if err != nil {
		return nil, err
	}

	// 1. Center of the track on the start row
	leftX := startX
	for leftX > 0 && grid.Drivable(leftX-1, startY) {
		leftX--
	}
	rightX := startX
	for rightX < grid.Width-1 && grid.Drivable(rightX+1, startY) {
		rightX++
	}
	start := common.Vec2{X: float64(leftX+rightX) / 2, Y: float64(startY)}

	// 2. Walk, steering toward the deepest free ray
	positions := []common.Vec2{start}
	curr := start
	dir := common.Vec2{X: 1, Y: 0}
	for i := 0; i < opts.MaxSteps; i++ {
		bestAngle := math.Atan2(dir.Y, dir.X)
		maxDepth := 0.0
		baseAngle := bestAngle

		for angle := -math.Pi / 2; angle <= math.Pi/2; angle += math.Pi / 32 {
			checkAngle := baseAngle + angle
			if depth := beamDepth(grid, curr, checkAngle, opts.BeamRange); depth > maxDepth {
				maxDepth = depth
				bestAngle = checkAngle
			}
		}
		if maxDepth == 0 {
			break
		}

		newDir := common.Vec2{X: math.Cos(bestAngle), Y: math.Sin(bestAngle)}
		curr = curr.Add(newDir.Scale(opts.StepSize))
		positions = append(positions, curr)

		// Exponential moving average keeps the heading from jittering.
		dir = dir.Scale(0.2).Add(newDir.Scale(0.8)).Normalize()

		if i > 50 && curr.Sub(start).Len() < opts.StepSize*2 {
			break
		}
	}
	if len(positions) < 3 {
		return nil, fmt.Errorf("%w: walk stopped after %d waypoints", ErrInvalidCorridor, len(positions))
	}

	// 3. Normals from neighbours, then wall distances along them
	mesh := &TrackMesh{StepSize: opts.StepSize}
	for i, pos := range positions {
		prev := positions[max(i-1, 0)]
		next := positions[min(i+1, len(positions)-1)]
		tangent := next.Sub(prev)
		normal := common.Vec2{X: -tangent.Y, Y: tangent.X}.Normalize()
		if normal == (common.Vec2{}) {
			continue
		}

		dLeft, okLeft := wallDistance(grid, pos, normal, opts.WallRange)
		dRight, okRight := wallDistance(grid, pos, normal.Scale(-1), opts.WallRange)
		if !okLeft || !okRight {
			continue
		}
		mesh.Waypoints = append(mesh.Waypoints, Waypoint{
			ID:        len(mesh.Waypoints),
			Position:  pos,
			Normal:    normal,
			LeftDist:  dLeft,
			RightDist: dRight,
		})
	}
	return mesh, nil
}

// beamDepth returns how far a ray from p at angle travels before it hits a wall.
func beamDepth(grid *Grid, p common.Vec2, angle, maxRange float64) float64 {
	dx, dy := math.Cos(angle), math.Sin(angle)
	depth := 0.0
	for d := 5.0; d < maxRange; d += 5.0 {
		if !grid.Drivable(int(p.X+dx*d), int(p.Y+dy*d)) {
			break
		}
		depth = d
	}
	return depth
}

// wallDistance returns the distance from p to the last drivable pixel along dir.
func wallDistance(grid *Grid, p, dir common.Vec2, maxRange float64) (float64, bool) {
	for d := 1.0; d < maxRange; d += 1.0 {
		if !grid.Drivable(int(p.X+dir.X*d), int(p.Y+dir.Y*d)) {
			return d - 1, true
		}
	}
	return 0, false
}
