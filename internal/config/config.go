// Package config loads optimizer settings from a JSON file. Every field is
// optional; the Get* methods fall back to defaults for anything unset.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"racing-line-optimizer/internal/sweep"
)

const (
	DefaultRatio      = 0.5
	DefaultLookAhead  = 5
	DefaultLookAheads = 10 // Look-aheads 0..9 in a sweep
	DefaultDBPath     = "sweeps.db"

	maxFileSize = 1 * 1024 * 1024
)

// Config is the root configuration for the optimizer binaries.
type Config struct {
	// Single trial
	Ratio     *float64 `json:"ratio,omitempty"`
	LookAhead *int     `json:"look_ahead,omitempty"`

	// Sweep grid, "min:max:step" or a comma-separated list
	Ratios     *string `json:"ratios,omitempty"`
	LookAheads *string `json:"look_aheads,omitempty"`
	Workers    *int    `json:"workers,omitempty"`

	// Inputs
	TrackCSV   *string `json:"track_csv,omitempty"`
	TrackImage *string `json:"track_image,omitempty"`
	Resample   *int    `json:"resample,omitempty"` // 0 keeps the input spacing

	// Outputs
	PlotOut *string `json:"plot_out,omitempty"`
	CSVOut  *string `json:"csv_out,omitempty"`
	DBPath  *string `json:"db_path,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// Load reads a Config from a JSON file. The path must end in .json and the
// file must be under 1MB.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadOrEmpty loads path, or returns an empty Config when path is "".
func LoadOrEmpty(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	return Load(path)
}

// Validate checks the values that are set.
func (c *Config) Validate() error {
	if c.Ratio != nil && (*c.Ratio < 0 || *c.Ratio > 1) {
		return fmt.Errorf("ratio must be between 0 and 1, got %f", *c.Ratio)
	}
	if c.LookAhead != nil && *c.LookAhead < 0 {
		return fmt.Errorf("look_ahead must be non-negative, got %d", *c.LookAhead)
	}
	if c.Ratios != nil && *c.Ratios != "" {
		if _, err := sweep.ParseRatios(*c.Ratios); err != nil {
			return fmt.Errorf("invalid ratios '%s': %w", *c.Ratios, err)
		}
	}
	if c.LookAheads != nil && *c.LookAheads != "" {
		if _, err := sweep.ParseLookAheads(*c.LookAheads); err != nil {
			return fmt.Errorf("invalid look_aheads '%s': %w", *c.LookAheads, err)
		}
	}
	if c.Resample != nil && *c.Resample != 0 && *c.Resample < 2 {
		return fmt.Errorf("resample must be 0 or at least 2, got %d", *c.Resample)
	}
	return nil
}

// GetRatio returns the ratio value or the default.
func (c *Config) GetRatio() float64 {
	if c.Ratio == nil {
		return DefaultRatio
	}
	return *c.Ratio
}

// GetLookAhead returns the look_ahead value or the default.
func (c *Config) GetLookAhead() int {
	if c.LookAhead == nil {
		return DefaultLookAhead
	}
	return *c.LookAhead
}

// Grid expands the ratios and look_aheads values. Unset values select
// ratios 0.1..0.9 and look-aheads 0..DefaultLookAheads-1.
func (c *Config) Grid() ([]float64, []int, error) {
	return sweep.Grid(Get(c.Ratios), Get(c.LookAheads), DefaultLookAheads)
}

// GetWorkers returns the workers value; 0 means one per CPU.
func (c *Config) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// GetResample returns the resample value; 0 disables resampling.
func (c *Config) GetResample() int {
	if c.Resample == nil {
		return 0
	}
	return *c.Resample
}

// GetDBPath returns the db_path value or the default.
func (c *Config) GetDBPath() string {
	if c.DBPath == nil || *c.DBPath == "" {
		return DefaultDBPath
	}
	return *c.DBPath
}

// Get returns the string value or "" when unset.
func Get(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Overrides holds a binary's flag values. Set records which flags were
// given on the command line.
type Overrides struct {
	Set map[string]bool

	Ratio      float64
	LookAhead  int
	Ratios     string
	LookAheads string
	Workers    int
	TrackCSV   string
	TrackImage string
	Resample   int
	PlotOut    string
	CSVOut     string
	DBPath     string
}

// Apply copies every flag that was set onto c and revalidates.
func (c *Config) Apply(o Overrides) error {
	if o.Set["ratio"] {
		c.Ratio = ptrFloat64(o.Ratio)
	}
	if o.Set["look-ahead"] {
		c.LookAhead = ptrInt(o.LookAhead)
	}
	if o.Set["ratios"] {
		c.Ratios = ptrString(o.Ratios)
	}
	if o.Set["look-aheads"] {
		c.LookAheads = ptrString(o.LookAheads)
	}
	if o.Set["workers"] {
		c.Workers = ptrInt(o.Workers)
	}
	if o.Set["track"] {
		c.TrackCSV = ptrString(o.TrackCSV)
	}
	if o.Set["image"] {
		c.TrackImage = ptrString(o.TrackImage)
	}
	if o.Set["resample"] {
		c.Resample = ptrInt(o.Resample)
	}
	if o.Set["plot"] {
		c.PlotOut = ptrString(o.PlotOut)
	}
	if o.Set["csv"] {
		c.CSVOut = ptrString(o.CSVOut)
	}
	if o.Set["db"] {
		c.DBPath = ptrString(o.DBPath)
	}
	return c.Validate()
}
