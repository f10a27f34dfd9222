package joist

import (
	"strings"

	"Concreteflow/internal/calc/calcerr"
)

type Policy string

const (
	MaximizeUtilization Policy = "maximize-utilization"
	MinimizeTotalHeight Policy = "minimize-total-height"
	MaximizeReserve     Policy = "maximize-reserve"
)

var policyAliases = map[string]Policy{
	"":                      MaximizeUtilization,
	"maximize-utilization":  MaximizeUtilization,
	"economique":            MaximizeUtilization,
	"minimize-total-height": MinimizeTotalHeight,
	"minimal_hauteur":       MinimizeTotalHeight,
	"maximize-reserve":      MaximizeReserve,
	"maximal_reserve":       MaximizeReserve,
}

func ParsePolicy(s string) (Policy, error) {
	if p, ok := policyAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p, nil
	}
	return "", calcerr.Invalid("unknown optimization policy %q", s)
}

// Less orders two feasible candidates; the better one comes first.
func (p Policy) Less() func(a, b Candidate) bool {
	switch p {
	case MinimizeTotalHeight:
		return byHeight
	case MaximizeReserve:
		return byReserve
	}
	return byUtilization
}

// higher utilization first, then lower floor
func byUtilization(a, b Candidate) bool {
	if a.UtilizationPct != b.UtilizationPct {
		return a.UtilizationPct > b.UtilizationPct
	}
	return a.TotalHeightCM < b.TotalHeightCM
}

// lower floor first, then higher utilization
func byHeight(a, b Candidate) bool {
	if a.TotalHeightCM != b.TotalHeightCM {
		return a.TotalHeightCM < b.TotalHeightCM
	}
	return a.UtilizationPct > b.UtilizationPct
}

// larger reserve first, then lower floor
func byReserve(a, b Candidate) bool {
	if a.ReserveM != b.ReserveM {
		return a.ReserveM > b.ReserveM
	}
	return a.TotalHeightCM < b.TotalHeightCM
}
