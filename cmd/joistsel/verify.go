package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"Concreteflow/internal/calc/norms"
	"Concreteflow/internal/calc/verify"
)

func newVerifyCmd(a *app) *cobra.Command {
	var (
		in    verify.Input
		input string
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check an element under one design code",
		Example: `  joistsel verify --code EC2 --span 5 --width 0.3 --height 0.5 --g 5 --q 3
  joistsel verify --input element.json --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input != "" {
				b, err := os.ReadFile(input)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(b, &in); err != nil {
					return fmt.Errorf("%s: %w", input, err)
				}
			}
			rep, err := verify.Verify(norms.NewRegistry(), in)
			if err != nil {
				return err
			}
			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), rep)
			}
			printReport(cmd.OutOrStdout(), rep)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&input, "input", "", "JSON file holding the whole element")
	f.StringVar(&in.Code, "code", "EC2", "design code (EC2, ACI318, BAEL91)")
	f.Float64Var(&in.Geometry.SpanM, "span", 0, "span, m")
	f.Float64Var(&in.Geometry.WidthM, "width", 0, "section width, m")
	f.Float64Var(&in.Geometry.HeightM, "height", 0, "section height, m")
	f.Float64Var(&in.Geometry.CoverM, "cover", 0, "concrete cover, m (0 for the default)")
	f.Float64Var(&in.Loads.G, "g", 0, "permanent load, kN/m2")
	f.Float64Var(&in.Loads.Q, "q", 0, "variable load, kN/m2")
	f.StringVar(&in.Materials.Concrete, "concrete", "", "concrete class, code default when empty")
	f.StringVar(&in.Materials.Steel, "steel", "", "steel class, code default when empty")
	f.StringVar(&in.Exposure, "exposure", "", "exposure class for the cover check")
	return cmd
}

func newNormsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "norms",
		Short: "List the design codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := norms.NewRegistry().List()
			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), list)
			}
			w := cmd.OutOrStdout()
			for _, c := range list {
				state := "implemented"
				if !c.Implemented {
					state = "not implemented"
				}
				fmt.Fprintf(w, "%-8s %-45s %-15s %s (default %s / %s)\n",
					c.Code, c.Name, c.Region, state, c.Defaults.Concrete, c.Defaults.Steel)
			}
			return nil
		},
	}
}
