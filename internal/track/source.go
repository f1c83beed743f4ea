package track

import (
	"errors"
	"fmt"
)

// ErrNoSource is returned by Load when neither a CSV nor an image is given.
var ErrNoSource = errors.New("no track source: need a borders CSV or a track image")

// Source names where a corridor comes from. CSV wins when both are set.
type Source struct {
	CSV      string
	Image    string
	Mesh     MeshOptions
	Resample int // 0 keeps the input cross-sections
}

// Name returns the path the corridor is read from.
func (s Source) Name() string {
	if s.CSV != "" {
		return s.CSV
	}
	return s.Image
}

// Load reads the corridor and, for image sources, the classified grid.
// The grid is nil for CSV sources.
func (s Source) Load() (Corridor, *Grid, error) {
	var (
		c    Corridor
		grid *Grid
		err  error
	)
	switch {
	case s.CSV != "":
		c, err = LoadBordersCSVFile(s.CSV)
	case s.Image != "":
		opts := s.Mesh
		if opts == (MeshOptions{}) {
			opts = DefaultMeshOptions()
		}
		grid, c, err = LoadCorridorFromImage(s.Image, opts)
	default:
		return nil, nil, ErrNoSource
	}
	if err != nil {
		return nil, nil, err
	}

	if s.Resample > 0 {
		c, err = Resample(c, s.Resample)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", s.Name(), err)
		}
	}
	return c, grid, nil
}
