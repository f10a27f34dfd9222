// Package rebar turns required steel areas into a practical bar layout.
package rebar

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"Concreteflow/internal/calc/calcerr"
)

// bar areas in mm2
var barAreas = map[int]float64{
	6:  28.3,
	8:  50.3,
	10: 78.5,
	12: 113.1,
	14: 153.9,
	16: 201.1,
	20: 314.2,
	25: 490.9,
	32: 804.2,
}

var standardSpacings = []float64{100, 150, 200, 250, 300}

const (
	sideCoverMM = 30.0
	minGapMM    = 50.0
	stirrupDiam = 8
)

type Input struct {
	AsBottomCM2    float64 `json:"as_bottom_cm2"`
	StirrupCM2PerM float64 `json:"stirrup_cm2_per_m"`
	WidthMM        float64 `json:"width_mm"`
	// Beam raises the smallest longitudinal bar to 10 mm.
	Beam bool `json:"beam"`
}

type Bars struct {
	DiameterMM int     `json:"diameter_mm"`
	Count      int     `json:"count"`
	AreaCM2    float64 `json:"area_cm2"`
	SurplusPct float64 `json:"surplus_pct"`
	Label      string  `json:"label"`
	Warning    string  `json:"warning,omitempty"`
}

type Stirrups struct {
	DiameterMM int     `json:"diameter_mm"`
	SpacingMM  float64 `json:"spacing_mm"`
	CM2PerM    float64 `json:"cm2_per_m"`
	Label      string  `json:"label"`
}

type Result struct {
	Bottom   *Bars     `json:"bottom,omitempty"`
	Top      Bars      `json:"top"`
	Stirrups *Stirrups `json:"stirrups,omitempty"`
	Summary  string    `json:"summary"`
}

func Calculate(in Input) (Result, error) {
	if in.WidthMM <= 0 || in.AsBottomCM2 < 0 || in.StirrupCM2PerM < 0 {
		return Result{}, calcerr.Invalid("width must be positive and steel areas must not be negative")
	}
	var res Result
	parts := make([]string, 0, 3)

	if in.AsBottomCM2 > 0 {
		minDiam := 8
		if in.Beam {
			minDiam = 10
		}
		b := ChooseBars(in.AsBottomCM2, in.WidthMM, minDiam, 25)
		res.Bottom = &b
		parts = append(parts, "bottom "+b.Label)
	}

	// constructive top steel: 20% of the bottom steel, at least 1 cm2
	res.Top = ChooseBars(math.Max(0.2*in.AsBottomCM2, 1.0), in.WidthMM, 8, 16)
	parts = append(parts, "top "+res.Top.Label)

	if in.StirrupCM2PerM > 0 {
		s := ChooseStirrups(in.StirrupCM2PerM, stirrupDiam)
		res.Stirrups = &s
		parts = append(parts, "stirrups "+s.Label)
	}
	res.Summary = strings.Join(parts, ", ")
	return res, nil
}

// ChooseBars picks the diameter in [minDiam, maxDiam] whose bar count gives
// the smallest surplus while fitting the width. When nothing fits, the
// largest diameter is returned with a warning.
func ChooseBars(asCM2, widthMM float64, minDiam, maxDiam int) Bars {
	need := asCM2 * 100
	var best *Bars
	for _, d := range diameters() {
		if d < minDiam || d > maxDiam {
			continue
		}
		area := barAreas[d]
		n := int(math.Ceil(need / area))
		if n < 2 {
			n = 2
		}
		width := float64(n*d) + float64(n-1)*minGapMM + 2*sideCoverMM
		if width > widthMM {
			continue
		}
		b := bars(d, n, need)
		if best == nil || b.SurplusPct < best.SurplusPct {
			best = &b
		}
	}
	if best != nil {
		return *best
	}

	d := maxDiam
	if _, ok := barAreas[d]; !ok {
		d = 25
	}
	n := int(math.Max(math.Ceil(need/barAreas[d]), 2))
	b := bars(d, n, need)
	b.Warning = fmt.Sprintf("%s does not fit %.0f mm with %.0f mm gaps; check bar spacing", b.Label, widthMM, minGapMM)
	return b
}

func bars(d, n int, needMM2 float64) Bars {
	total := float64(n) * barAreas[d]
	return Bars{
		DiameterMM: d,
		Count:      n,
		AreaCM2:    total / 100,
		SurplusPct: (total - needMM2) / needMM2 * 100,
		Label:      fmt.Sprintf("%dHA%d", n, d),
	}
}

// ChooseStirrups keeps the largest standard spacing that still provides the
// required area per metre, two legs per stirrup.
func ChooseStirrups(cm2PerM float64, diam int) Stirrups {
	area, ok := barAreas[diam]
	if !ok {
		diam, area = stirrupDiam, barAreas[stirrupDiam]
	}
	legs := 2 * area
	// s = A / (A/s) * 1000
	s := legs / (cm2PerM * 100) * 1000

	chosen := standardSpacings[0]
	for _, std := range standardSpacings {
		if std <= s {
			chosen = std
		}
	}
	return Stirrups{
		DiameterMM: diam,
		SpacingMM:  chosen,
		CM2PerM:    legs / chosen * 1000 / 100,
		Label:      fmt.Sprintf("HA%d@%.0f", diam, chosen),
	}
}

func diameters() []int {
	out := make([]int, 0, len(barAreas))
	for d := range barAreas {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
