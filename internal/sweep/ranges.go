// Package sweep runs exhaustive (ratio, look-ahead) grid searches over a
// corridor and reduces the trials to the best configurations.
package sweep

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxValues bounds how many candidates a single range may expand to.
const maxValues = 10000

// RangeSpec defines a floating-point candidate range.
type RangeSpec struct {
	Min  float64
	Max  float64
	Step float64
}

// IntRangeSpec defines an integer candidate range.
type IntRangeSpec struct {
	Min  int
	Max  int
	Step int
}

func splitRange(s string) ([]string, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid range format %q: expected min:max:step", s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

// ParseRangeSpec parses a "min:max:step" string into a RangeSpec.
func ParseRangeSpec(s string) (RangeSpec, error) {
	parts, err := splitRange(s)
	if err != nil {
		return RangeSpec{}, err
	}

	var vals [3]float64
	for i, name := range []string{"min", "max", "step"} {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return RangeSpec{}, fmt.Errorf("invalid %s value %q: %w", name, parts[i], err)
		}
		vals[i] = v
	}
	if vals[2] <= 0 {
		return RangeSpec{}, fmt.Errorf("step must be positive, got %g", vals[2])
	}
	return RangeSpec{Min: vals[0], Max: vals[1], Step: vals[2]}, nil
}

// ParseIntRangeSpec parses a "min:max:step" string into an IntRangeSpec.
func ParseIntRangeSpec(s string) (IntRangeSpec, error) {
	parts, err := splitRange(s)
	if err != nil {
		return IntRangeSpec{}, err
	}

	var vals [3]int
	for i, name := range []string{"min", "max", "step"} {
		v, err := strconv.Atoi(parts[i])
		if err != nil {
			return IntRangeSpec{}, fmt.Errorf("invalid %s value %q: %w", name, parts[i], err)
		}
		vals[i] = v
	}
	if vals[2] <= 0 {
		return IntRangeSpec{}, fmt.Errorf("step must be positive, got %d", vals[2])
	}
	return IntRangeSpec{Min: vals[0], Max: vals[1], Step: vals[2]}, nil
}

// Values expands the range, inclusive of Max. Values are rounded to 1e-6
// so 0.1 steps do not drift. Returns nil for an empty or oversized range.
func (r RangeSpec) Values() []float64 {
	if r.Step <= 0 || r.Min > r.Max {
		return nil
	}
	count := int(math.Floor((r.Max-r.Min)/r.Step+1e-9)) + 1
	if count > maxValues || count < 0 {
		return nil
	}

	out := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		v := math.Round((r.Min+float64(i)*r.Step)*1e6) / 1e6
		if v > r.Max {
			break
		}
		out = append(out, v)
	}
	return out
}

// Values expands the range, inclusive of Max.
func (r IntRangeSpec) Values() []int {
	if r.Step <= 0 || r.Min > r.Max {
		return nil
	}
	count := (r.Max-r.Min)/r.Step + 1
	if count > maxValues {
		return nil
	}

	out := make([]int, 0, count)
	for v := r.Min; v <= r.Max; v += r.Step {
		out = append(out, v)
	}
	return out
}

// ParseCSVFloat64s parses a comma-separated list of floats.
// Returns nil, nil for an empty string.
func ParseCSVFloat64s(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseCSVInts parses a comma-separated list of ints.
// Returns nil, nil for an empty string.
func ParseCSVInts(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid int '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseRatios accepts either "min:max:step" or a comma-separated list.
func ParseRatios(s string) ([]float64, error) {
	if strings.Contains(s, ":") {
		spec, err := ParseRangeSpec(s)
		if err != nil {
			return nil, err
		}
		return spec.Values(), nil
	}
	return ParseCSVFloat64s(s)
}

// ParseLookAheads accepts either "min:max:step" or a comma-separated list.
func ParseLookAheads(s string) ([]int, error) {
	if strings.Contains(s, ":") {
		spec, err := ParseIntRangeSpec(s)
		if err != nil {
			return nil, err
		}
		return spec.Values(), nil
	}
	return ParseCSVInts(s)
}

// DefaultRatios returns 0.1 through 0.9 in steps of 0.1.
func DefaultRatios() []float64 {
	return RangeSpec{Min: 0.1, Max: 0.9, Step: 0.1}.Values()
}

// DefaultLookAheads returns 0 through n-1.
func DefaultLookAheads(n int) []int {
	if n <= 0 {
		return nil
	}
	return IntRangeSpec{Min: 0, Max: n - 1, Step: 1}.Values()
}

// Grid parses both candidate lists. An empty string selects the default
// ratios, or look-aheads 0 through defaultLookAheads-1.
func Grid(ratioSpec, lookAheadSpec string, defaultLookAheads int) ([]float64, []int, error) {
	ratios := DefaultRatios()
	if strings.TrimSpace(ratioSpec) != "" {
		v, err := ParseRatios(ratioSpec)
		if err != nil {
			return nil, nil, fmt.Errorf("ratios: %w", err)
		}
		ratios = v
	}

	lookAheads := DefaultLookAheads(defaultLookAheads)
	if strings.TrimSpace(lookAheadSpec) != "" {
		v, err := ParseLookAheads(lookAheadSpec)
		if err != nil {
			return nil, nil, fmt.Errorf("look-aheads: %w", err)
		}
		lookAheads = v
	}
	return ratios, lookAheads, nil
}
