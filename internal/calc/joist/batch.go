package joist

import (
	"fmt"

	"Concreteflow/internal/calc/calcerr"
)

type BatchInput struct {
	Entries  []Entry   `json:"entries"`
	Requests []Request `json:"requests"`
}

type BatchResult struct {
	Results []Selection `json:"results"`
}

// SelectBatch runs every request against the same catalog snapshot and
// stops at the first malformed request.
func SelectBatch(entries []Entry, reqs []Request) (BatchResult, error) {
	if len(reqs) == 0 {
		return BatchResult{}, calcerr.Invalid("no requests")
	}
	if err := validateCatalog(entries); err != nil {
		return BatchResult{}, err
	}
	out := BatchResult{Results: make([]Selection, 0, len(reqs))}
	for i, r := range reqs {
		sel, err := selectValid(entries, r)
		if err != nil {
			return BatchResult{}, fmt.Errorf("request %d: %w", i, err)
		}
		out.Results = append(out.Results, sel)
	}
	return out, nil
}
