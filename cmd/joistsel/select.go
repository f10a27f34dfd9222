package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Concreteflow/internal/calc/joist"
)

func newSelectCmd(a *app) *cobra.Command {
	var (
		req      joist.Request
		path     string
		gKN, qKN float64
	)
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Pick a joist for a span and a load",
		Example: `  joistsel select --catalog kp1.yaml --span 5.2 --load 450
  joistsel select --catalog table.xlsx --span 6 --g 3 --q 2.5 --block 20 --policy minimize-total-height`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return errors.New("--catalog is required")
			}
			if req.LoadKgM2 == 0 {
				req.LoadKgM2 = joist.LoadFromSurface(gKN, qKN)
			}
			c, err := readCatalog(path, a.log)
			if err != nil {
				return err
			}
			sel, err := joist.Select(c.Entries, req)
			if err != nil {
				return err
			}
			a.log.Info("selection", zap.String("status", string(sel.Status)), zap.Int("considered", sel.Considered), zap.Int("uncovered", sel.Uncovered))
			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), sel)
			}
			printSelection(cmd.OutOrStdout(), sel)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&path, "catalog", "", "span table, .yaml or .xlsx")
	f.Float64Var(&req.SpanM, "span", 0, "clear span, m")
	f.Float64Var(&req.LoadKgM2, "load", 0, "service load, kg/m2")
	f.Float64Var(&gKN, "g", 0, "permanent load, kN/m2, used when --load is not set")
	f.Float64Var(&qKN, "q", 0, "variable load, kN/m2, used when --load is not set")
	f.IntVar(&req.BlockHeightCM, "block", 0, "block height filter, cm")
	f.IntVar(&req.SpacingCM, "spacing", 0, "joist spacing filter, cm")
	f.StringVar(&req.Policy, "policy", "", "maximize-utilization, minimize-total-height or maximize-reserve")
	f.IntVar(&req.Alternatives, "alternatives", joist.DefaultAlternatives, "number of alternatives")
	return cmd
}
