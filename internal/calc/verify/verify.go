// Package verify runs the three element checks of a design code and builds
// the global verdict.
package verify

import (
	"fmt"
	"strings"

	"Concreteflow/internal/calc/calcerr"
	"Concreteflow/internal/calc/loads"
	"Concreteflow/internal/calc/norms"
	"Concreteflow/internal/calc/rebar"
)

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
)

type Input struct {
	Code      string          `json:"code"`
	Geometry  norms.Geometry  `json:"geometry"`
	Loads     norms.Loads     `json:"loads"`
	Materials norms.Materials `json:"materials"`
	// Exposure is an optional exposure class (XC1, XS2, ...).
	Exposure string `json:"exposure,omitempty"`
	// BarDiameterMM feeds the bond part of the cover check, 12 when empty.
	BarDiameterMM float64 `json:"bar_diameter_mm,omitempty"`
}

type Summary struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	FlexionOK    bool   `json:"flexion_ok"`
	DeflectionOK bool   `json:"deflection_ok"`
	ShearOK      bool   `json:"shear_ok"`
}

type Report struct {
	Code         norms.DesignCode       `json:"code"`
	CodeName     string                 `json:"code_name"`
	Coefficients norms.Coefficients     `json:"coefficients"`
	Materials    norms.MaterialSet      `json:"materials"`
	Geometry     norms.Geometry         `json:"geometry"`
	Loads        norms.Loads            `json:"loads"`
	Actions      loads.Result           `json:"actions"`
	Flexion      norms.FlexionResult    `json:"flexion"`
	Deflection   norms.DeflectionResult `json:"deflection"`
	Shear        norms.ShearResult      `json:"shear"`
	Rebar        rebar.Result           `json:"rebar"`
	MinCoverMM   float64                `json:"min_cover_mm,omitempty"`
	Warnings     []string               `json:"warnings,omitempty"`
	Summary      Summary                `json:"summary"`
}

// Verify validates the input, resolves the code and its materials, then runs
// flexion, deflection and shear in that order. A failing check never stops
// the following ones.
func Verify(reg *norms.Registry, in Input) (Report, error) {
	if strings.TrimSpace(in.Code) == "" {
		return Report{}, calcerr.Invalid("design code is required")
	}
	g := in.Geometry.WithDefaults()
	if err := g.Validate(); err != nil {
		return Report{}, err
	}
	if err := in.Loads.Validate(); err != nil {
		return Report{}, err
	}
	e, err := reg.ResolveString(in.Code)
	if err != nil {
		return Report{}, err
	}
	el, err := e.Prepare(g, in.Loads, in.Materials)
	if err != nil {
		return Report{}, err
	}
	checks := e.Check(el)

	rep := Report{
		Code:         e.Code(),
		CodeName:     e.Name(),
		Coefficients: e.Coefficients(),
		Materials:    el.Materials,
		Geometry:     el.Geometry,
		Loads:        in.Loads,
		Actions:      el.Actions,
		Flexion:      checks.Flexion,
		Deflection:   checks.Deflection,
		Shear:        checks.Shear,
	}

	rep.Rebar, err = rebar.Calculate(rebar.Input{
		AsBottomCM2:    rep.Flexion.AsRequiredCM2,
		StirrupCM2PerM: rep.Shear.StirrupCM2PerM,
		WidthMM:        g.WidthM * 1000,
		Beam:           g.WidthM < g.HeightM,
	})
	if err != nil {
		return Report{}, err
	}

	if in.Exposure != "" {
		bar := in.BarDiameterMM
		if bar <= 0 {
			bar = 12
		}
		rep.MinCoverMM = e.MinCoverMM(in.Exposure, bar)
		if g.CoverM*1000 < rep.MinCoverMM {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf(
				"cover %.0f mm is below the %.0f mm required for exposure %s", g.CoverM*1000, rep.MinCoverMM, in.Exposure))
		}
	}
	if rep.Rebar.Bottom != nil && rep.Rebar.Bottom.Warning != "" {
		rep.Warnings = append(rep.Warnings, rep.Rebar.Bottom.Warning)
	}

	rep.Summary = summarize(rep.Flexion.Check, rep.Deflection.Check, rep.Shear.Check)
	return rep, nil
}

func summarize(flexion, deflection, shear norms.Check) Summary {
	s := Summary{
		Status:       StatusPass,
		Message:      "all checks satisfied",
		FlexionOK:    flexion.OK,
		DeflectionOK: deflection.OK,
		ShearOK:      shear.OK,
	}
	checks := []struct {
		name string
		c    norms.Check
	}{
		{"flexion", flexion},
		{"deflection", deflection},
		{"shear", shear},
	}
	for _, ch := range checks {
		if !ch.c.OK {
			s.Status = StatusFail
			s.Message = fmt.Sprintf("%s check failed: %s", ch.name, ch.c.Message)
			break
		}
	}
	return s
}

type Comparison struct {
	Code      norms.DesignCode    `json:"code"`
	Name      string              `json:"name"`
	Materials norms.Materials     `json:"materials"`
	Flexion   norms.FlexionResult `json:"flexion"`
}

// Compare designs one section for the same factored moment under every
// implemented code with that code's default materials.
func Compare(reg *norms.Registry, momentKNM float64, s norms.Section) ([]Comparison, error) {
	if momentKNM <= 0 {
		return nil, calcerr.Invalid("moment must be positive")
	}
	g := norms.Geometry{SpanM: 1, WidthM: s.WidthM, HeightM: s.HeightM, CoverM: s.CoverM}.WithDefaults()
	if err := g.Validate(); err != nil {
		return nil, err
	}

	out := make([]Comparison, 0, 3)
	for _, c := range reg.Implemented() {
		e, err := reg.Resolve(c)
		if err != nil {
			return nil, err
		}
		m := e.DefaultMaterials()
		ms, err := e.Resolve(m)
		if err != nil {
			return nil, err
		}
		out = append(out, Comparison{
			Code:      c,
			Name:      e.Name(),
			Materials: m,
			Flexion:   e.Flexion(ms, momentKNM, g.Section()),
		})
	}
	return out, nil
}
