// Package joist selects a prefabricated floor joist from a manufacturer's
// span table. Selection is pure: catalogs are read, never modified.
package joist

import "math"

const (
	DefaultToppingCM    = 5.0
	DefaultAlternatives = 4
	MaxSpanM            = 20.0
)

// Band is one column of a span table: the largest span allowed under a load.
type Band struct {
	LoadKgM2 float64 `json:"load_kg_m2" yaml:"load_kg_m2"`
	SpanM    float64 `json:"span_m" yaml:"span_m"`
}

// Entry is one row of a span table. Bands are sorted by strictly increasing load.
type Entry struct {
	Reference     string  `json:"reference" yaml:"reference"`
	BlockHeightCM int     `json:"block_height_cm" yaml:"block_height_cm"`
	SpacingCM     int     `json:"spacing_cm" yaml:"spacing_cm"`
	ToppingCM     float64 `json:"topping_cm,omitempty" yaml:"topping_cm,omitempty"`
	Bands         []Band  `json:"bands" yaml:"bands"`
	TotalHeightCM float64 `json:"total_height_cm,omitempty" yaml:"total_height_cm,omitempty"`
	WeightKgM     float64 `json:"weight_kg_m,omitempty" yaml:"weight_kg_m,omitempty"`
}

// joist depth by block class, cm
var joistHeights = map[int]float64{12: 11, 16: 13, 20: 15, 25: 18}

func (e Entry) Topping() float64 {
	if e.ToppingCM > 0 {
		return e.ToppingCM
	}
	return DefaultToppingCM
}

// TotalHeight is the declared floor depth, or max(joist, block) + topping.
func (e Entry) TotalHeight() float64 {
	if e.TotalHeightCM > 0 {
		return e.TotalHeightCM
	}
	j, ok := joistHeights[e.BlockHeightCM]
	if !ok {
		j = 13
	}
	return math.Max(j, float64(e.BlockHeightCM)) + e.Topping()
}

type Candidate struct {
	Entry          Entry   `json:"entry"`
	BandLoadKgM2   float64 `json:"band_load_kg_m2"`
	AllowedSpanM   float64 `json:"allowed_span_m"`
	UtilizationPct float64 `json:"utilization_pct"`
	ReserveM       float64 `json:"reserve_m"`
	TotalHeightCM  float64 `json:"total_height_cm"`
	Feasible       bool    `json:"feasible"`
}

type Request struct {
	SpanM    float64 `json:"span_m"`
	LoadKgM2 float64 `json:"load_kg_m2"`
	// zero means any class
	BlockHeightCM int    `json:"block_height_cm,omitempty"`
	SpacingCM     int    `json:"spacing_cm,omitempty"`
	Policy        string `json:"policy,omitempty"`
	// Alternatives defaults to DefaultAlternatives when zero.
	Alternatives int `json:"alternatives,omitempty"`
}

type Status string

const (
	StatusSelected          Status = "selected"
	StatusNoFeasible        Status = "no_feasible_candidate"
	StatusNoMatchingEntries Status = "no_matching_entries"
)

type Selection struct {
	Status       Status      `json:"status"`
	Message      string      `json:"message"`
	Policy       Policy      `json:"policy"`
	Selected     *Candidate  `json:"selected,omitempty"`
	Alternatives []Candidate `json:"alternatives"`
	NearMisses   []Candidate `json:"near_misses,omitempty"`
	Considered   int         `json:"considered"`
	Feasible     int         `json:"feasible"`
	// Uncovered counts considered rows whose heaviest band is below the load.
	Uncovered    int         `json:"uncovered"`
}

// LoadFromSurface converts G + Q in kN/m2 to the kg/m2 of span tables,
// taking 1 kN as 100 kg.
func LoadFromSurface(gKNM2, qKNM2 float64) float64 {
	return (gKNM2 + qKNM2) * 100
}
