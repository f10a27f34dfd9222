package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"Concreteflow/internal/calc/joist"
	"Concreteflow/internal/calc/verify"
	"Concreteflow/internal/catalog"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readCatalog loads a span table by extension: .yaml/.yml or .xlsx.
func readCatalog(path string, log *zap.Logger) (catalog.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return catalog.Catalog{}, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return catalog.LoadYAML(f)
	case ".xlsx":
		res, err := catalog.ImportXLSX(f)
		if err != nil {
			return catalog.Catalog{}, err
		}
		for _, w := range res.Warnings {
			log.Info("import", zap.String("file", path), zap.String("note", w))
		}
		log.Info("span table read", zap.Int("rows", res.Imported), zap.Int("skipped", res.Skipped))
		return catalog.Catalog{Name: filepath.Base(path), Entries: res.Entries}, nil
	}
	return catalog.Catalog{}, fmt.Errorf("%s: unknown catalog format, want .yaml or .xlsx", path)
}

func printReport(w io.Writer, rep verify.Report) {
	fmt.Fprintf(w, "%s\n", rep.CodeName)
	fmt.Fprintf(w, "materials: %s / %s\n", rep.Materials.Concrete.Class, rep.Materials.Steel.Class)
	fmt.Fprintf(w, "actions:   M_ULS %.2f kNm, M_SLS %.2f kNm, V_ULS %.2f kN\n",
		rep.Actions.MomentULSKNM, rep.Actions.MomentSLSKNM, rep.Actions.ShearULSKN)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHECK\tDEMAND\tLIMIT\tOK")
	fmt.Fprintf(tw, "flexion\t%.3f\t%.3f\t%v\n", rep.Flexion.Demand, rep.Flexion.Limit, rep.Flexion.OK)
	fmt.Fprintf(tw, "deflection\t%.2f\t%.2f\t%v\n", rep.Deflection.Demand, rep.Deflection.Limit, rep.Deflection.OK)
	fmt.Fprintf(tw, "shear\t%.2f\t%.2f\t%v\n", rep.Shear.Demand, rep.Shear.Limit, rep.Shear.OK)
	tw.Flush()

	if rep.Rebar.Summary != "" {
		fmt.Fprintf(w, "rebar:     %s\n", rep.Rebar.Summary)
	}
	for _, m := range rep.Warnings {
		fmt.Fprintf(w, "warning:   %s\n", m)
	}
	fmt.Fprintf(w, "%s: %s\n", rep.Summary.Status, rep.Summary.Message)
}

func printSelection(w io.Writer, sel joist.Selection) {
	fmt.Fprintf(w, "%s (%s): %s\n", sel.Status, sel.Policy, sel.Message)
	rows := make([]joist.Candidate, 0, 1+len(sel.Alternatives)+len(sel.NearMisses))
	labels := make([]string, 0, cap(rows))
	if sel.Selected != nil {
		rows = append(rows, *sel.Selected)
		labels = append(labels, "selected")
	}
	for _, c := range sel.Alternatives {
		rows = append(rows, c)
		labels = append(labels, "alternative")
	}
	for _, c := range sel.NearMisses {
		rows = append(rows, c)
		labels = append(labels, "near miss")
	}
	if len(rows) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tREFERENCE\tBLOCK\tSPACING\tBAND\tALLOWED\tUTIL%\tHEIGHT")
	for i, c := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.0f\t%.2f\t%.1f\t%.0f\n", labels[i], c.Entry.Reference,
			c.Entry.BlockHeightCM, c.Entry.SpacingCM, c.BandLoadKgM2, c.AllowedSpanM, c.UtilizationPct, c.TotalHeightCM)
	}
	tw.Flush()
}
