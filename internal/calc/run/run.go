// Package run chains an element verification with an optional joist
// selection from a stored or inline catalog.
package run

import (
	"context"
	"time"

	"go.uber.org/zap"

	"Concreteflow/internal/calc/calcerr"
	"Concreteflow/internal/calc/joist"
	"Concreteflow/internal/calc/norms"
	"Concreteflow/internal/calc/verify"
	"Concreteflow/internal/catalog"
	"Concreteflow/internal/metrics"
)

type Request struct {
	Element verify.Input `json:"element"`
	// Catalog is the id of a stored catalog. Entries, when set, take precedence.
	Catalog string        `json:"catalog,omitempty"`
	Entries []joist.Entry `json:"entries,omitempty"`
	// Joist span and load default to the element span and G + Q.
	Joist joist.Request `json:"joist"`
}

type Response struct {
	Verification verify.Report    `json:"verification"`
	Selection    *joist.Selection `json:"selection,omitempty"`
}

type Runner struct {
	Registry *norms.Registry
	Catalogs catalog.Source
	Log      *zap.Logger
	Metrics  *metrics.Metrics
}

func (r Request) wantsSelection() bool {
	return r.Catalog != "" || len(r.Entries) > 0
}

func (rn *Runner) Run(ctx context.Context, req Request) (Response, error) {
	started := time.Now()
	resp, err := rn.run(ctx, req)
	outcome := "ok"
	if err != nil {
		outcome = string(calcerr.KindOf(err))
		if outcome == "" {
			outcome = "internal"
		}
		rn.Log.Warn("calculation run failed",
			zap.String("code", req.Element.Code),
			zap.String("catalog", req.Catalog),
			zap.Error(err))
	}
	rn.Metrics.ObserveRun(outcome, started)
	return resp, err
}

func (rn *Runner) run(ctx context.Context, req Request) (Response, error) {
	rep, err := verify.Verify(rn.Registry, req.Element)
	if err != nil {
		return Response{}, err
	}
	rn.Metrics.Verified(string(rep.Code), rep.Summary.Status)
	resp := Response{Verification: rep}

	if !req.wantsSelection() {
		rn.Log.Info("element verified",
			zap.String("code", string(rep.Code)),
			zap.String("status", rep.Summary.Status))
		return resp, nil
	}

	entries, err := rn.entries(ctx, req)
	if err != nil {
		return Response{}, err
	}
	jr := req.Joist
	if jr.SpanM == 0 {
		jr.SpanM = rep.Geometry.SpanM
	}
	if jr.LoadKgM2 == 0 {
		jr.LoadKgM2 = joist.LoadFromSurface(req.Element.Loads.G, req.Element.Loads.Q)
	}
	sel, err := joist.Select(entries, jr)
	if err != nil {
		return Response{}, err
	}
	rn.Metrics.Selected(string(sel.Policy), string(sel.Status))
	resp.Selection = &sel

	fields := []zap.Field{
		zap.String("code", string(rep.Code)),
		zap.String("status", rep.Summary.Status),
		zap.String("selection", string(sel.Status)),
		zap.Int("considered", sel.Considered),
		zap.Int("uncovered", sel.Uncovered),
		zap.Int("feasible", sel.Feasible),
	}
	if sel.Selected != nil {
		fields = append(fields, zap.String("joist", sel.Selected.Entry.Reference))
	}
	rn.Log.Info("element verified and joist selected", fields...)
	return resp, nil
}

func (rn *Runner) entries(ctx context.Context, req Request) ([]joist.Entry, error) {
	if len(req.Entries) > 0 {
		return req.Entries, nil
	}
	if rn.Catalogs == nil {
		return nil, catalog.NotFound(req.Catalog)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rn.Catalogs.Entries(ctx, req.Catalog)
}
