package joist

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"Concreteflow/internal/calc/calcerr"
)

// ResolveBand returns the first band whose load is at or above load. Loads
// between two bands take the heavier one; spans are never interpolated.
func ResolveBand(bands []Band, load float64) (Band, bool) {
	i := sort.Search(len(bands), func(i int) bool { return bands[i].LoadKgM2 >= load })
	if i == len(bands) {
		return Band{}, false
	}
	return bands[i], true
}

// ValidateBands requires at least one band, positive values and strictly
// increasing loads.
func ValidateBands(bands []Band) error {
	if msg := bandsProblem(bands); msg != "" {
		return calcerr.Invalid("%s", msg)
	}
	return nil
}

func bandsProblem(bands []Band) string {
	if len(bands) == 0 {
		return "no load band"
	}
	for i, b := range bands {
		if !finitePositive(b.LoadKgM2) || !finitePositive(b.SpanM) {
			return fmt.Sprintf("band %d: load and span must be positive and finite", i)
		}
		if i > 0 && b.LoadKgM2 <= bands[i-1].LoadKgM2 {
			return fmt.Sprintf("bands not strictly increasing at %g kg/m2", b.LoadKgM2)
		}
	}
	return ""
}

func finitePositive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

// BandsFromMap converts a {"load": span} table into sorted bands.
func BandsFromMap(m map[string]float64) ([]Band, error) {
	out := make([]Band, 0, len(m))
	for k, v := range m {
		load, err := strconv.ParseFloat(strings.TrimSpace(k), 64)
		if err != nil || math.IsNaN(load) || math.IsInf(load, 0) {
			return nil, calcerr.Invalid("load band %q is not a number", k)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, calcerr.Invalid("span %v of load band %q is not a number", v, k)
		}
		out = append(out, Band{LoadKgM2: load, SpanM: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LoadKgM2 < out[j].LoadKgM2 })
	if err := ValidateBands(out); err != nil {
		return nil, err
	}
	return out, nil
}
