package joist

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"Concreteflow/internal/calc/calcerr"
)

func (r Request) validate() (Policy, error) {
	// written so that NaN fails both checks
	if !(r.SpanM > 0 && r.SpanM <= MaxSpanM) {
		return "", calcerr.Invalid("span %.2f m outside (0, %.0f] m", r.SpanM, MaxSpanM)
	}
	if !(r.LoadKgM2 > 0) || math.IsInf(r.LoadKgM2, 1) {
		return "", calcerr.Invalid("load must be positive, got %g kg/m2", r.LoadKgM2)
	}
	if r.BlockHeightCM < 0 || r.SpacingCM < 0 || r.Alternatives < 0 {
		return "", calcerr.Invalid("filters and alternatives must not be negative")
	}
	return ParsePolicy(r.Policy)
}

func validateCatalog(entries []Entry) error {
	if len(entries) == 0 {
		return calcerr.New(calcerr.KindEmptyCatalog, "span table has no rows")
	}
	for i, e := range entries {
		if msg := bandsProblem(e.Bands); msg != "" {
			return calcerr.Invalid("row %d (%s): %s", i, e.Reference, msg)
		}
	}
	return nil
}

// Select picks the joist for one request. Only malformed input is an error;
// a request nothing can carry is reported through Selection.Status.
func Select(entries []Entry, req Request) (Selection, error) {
	if err := validateCatalog(entries); err != nil {
		return Selection{}, err
	}
	return selectValid(entries, req)
}

func selectValid(entries []Entry, req Request) (Selection, error) {
	policy, err := req.validate()
	if err != nil {
		return Selection{}, err
	}
	n := req.Alternatives
	if n == 0 {
		n = DefaultAlternatives
	}

	var feasible, misses []Candidate
	considered, uncovered := 0, 0
	for _, e := range entries {
		if req.BlockHeightCM != 0 && e.BlockHeightCM != req.BlockHeightCM {
			continue
		}
		if req.SpacingCM != 0 && e.SpacingCM != req.SpacingCM {
			continue
		}
		considered++

		c, covered := evaluate(e, req)
		switch {
		case c.Feasible:
			feasible = append(feasible, c)
		case covered:
			misses = append(misses, c)
		default:
			uncovered++
		}
	}

	sel := Selection{
		Policy:       policy,
		Alternatives: []Candidate{},
		Considered:   considered,
		Feasible:     len(feasible),
		Uncovered:    uncovered,
	}

	if considered == 0 {
		sel.Status = StatusNoMatchingEntries
		sel.Message = fmt.Sprintf("no catalog row matches %s", describeFilters(req))
		return sel, nil
	}

	if len(feasible) == 0 {
		sort.SliceStable(misses, func(i, j int) bool {
			return misses[i].UtilizationPct < misses[j].UtilizationPct
		})
		sel.Status = StatusNoFeasible
		sel.Message = fmt.Sprintf("span %.2f m exceeds all catalog capacities for %g kg/m2", req.SpanM, req.LoadKgM2)
		if uncovered > 0 {
			sel.Message += fmt.Sprintf(" (%d of %d rows have no band for this load)", uncovered, considered)
		}
		sel.NearMisses = misses[:min(n, len(misses))]
		return sel, nil
	}

	sort.SliceStable(feasible, func(i, j int) bool {
		return policy.Less()(feasible[i], feasible[j])
	})
	best := feasible[0]
	sel.Status = StatusSelected
	sel.Selected = &best
	sel.Alternatives = append(sel.Alternatives, feasible[1:min(n+1, len(feasible))]...)
	sel.Message = fmt.Sprintf("%s selected: block %d cm, spacing %d cm, %.1f%% of %.2f m allowed at %g kg/m2",
		best.Entry.Reference, best.Entry.BlockHeightCM, best.Entry.SpacingCM, best.UtilizationPct, best.AllowedSpanM, best.BandLoadKgM2)
	return sel, nil
}

// evaluate resolves the band of one entry. covered is false when the
// entry has no band heavy enough for the load.
func evaluate(e Entry, req Request) (Candidate, bool) {
	c := Candidate{Entry: e, TotalHeightCM: e.TotalHeight()}
	c.Entry.Bands = slices.Clone(e.Bands)

	b, ok := ResolveBand(e.Bands, req.LoadKgM2)
	if !ok {
		return c, false
	}
	c.BandLoadKgM2 = b.LoadKgM2
	c.AllowedSpanM = b.SpanM
	// utilization = S / allowed * 100
	c.UtilizationPct = req.SpanM / b.SpanM * 100
	c.ReserveM = b.SpanM - req.SpanM
	c.Feasible = b.SpanM >= req.SpanM
	return c, true
}

func describeFilters(req Request) string {
	switch {
	case req.BlockHeightCM != 0 && req.SpacingCM != 0:
		return fmt.Sprintf("block height %d cm and spacing %d cm", req.BlockHeightCM, req.SpacingCM)
	case req.BlockHeightCM != 0:
		return fmt.Sprintf("block height %d cm", req.BlockHeightCM)
	case req.SpacingCM != 0:
		return fmt.Sprintf("spacing %d cm", req.SpacingCM)
	}
	return "the request"
}
