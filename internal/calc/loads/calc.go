package loads

import (
	"fmt"

	"Concreteflow/internal/calc/calcerr"
)

// Factors are the partial factors of one design code for the fundamental combination.
type Factors struct {
	GammaG float64 `json:"gamma_g"`
	GammaQ float64 `json:"gamma_q"`
}

type Input struct {
	GKNM2  float64 `json:"g_kn_m2"`
	QKNM2  float64 `json:"q_kn_m2"`
	WidthM float64 `json:"width_m"`
	SpanM  float64 `json:"span_m"`
}

type Result struct {
	ULSKNM2      float64 `json:"uls_kn_m2"`
	SLSKNM2      float64 `json:"sls_kn_m2"`
	ULSLineKNM   float64 `json:"uls_line_kn_m"`
	SLSLineKNM   float64 `json:"sls_line_kn_m"`
	MomentULSKNM float64 `json:"moment_uls_knm"`
	MomentSLSKNM float64 `json:"moment_sls_knm"`
	ShearULSKN   float64 `json:"shear_uls_kn"`
	ComboName    string  `json:"combo_name"`
	Notes        string  `json:"notes"`
}

// Calculate builds the design actions of a simply supported element under a uniform load.
func Calculate(f Factors, in Input) (Result, error) {
	if in.SpanM <= 0 || in.WidthM <= 0 {
		return Result{}, calcerr.Invalid("span and width must be positive")
	}
	if in.GKNM2 < 0 || in.QKNM2 < 0 || in.GKNM2+in.QKNM2 <= 0 {
		return Result{}, calcerr.Invalid("loads must be >= 0 with G + Q > 0")
	}
	if f.GammaG <= 0 || f.GammaQ <= 0 {
		return Result{}, calcerr.Invalid("load factors must be positive")
	}

	uls := f.GammaG*in.GKNM2 + f.GammaQ*in.QKNM2
	sls := in.GKNM2 + in.QKNM2
	wu := uls * in.WidthM
	ws := sls * in.WidthM
	L := in.SpanM

	return Result{
		ULSKNM2:    uls,
		SLSKNM2:    sls,
		ULSLineKNM: wu,
		SLSLineKNM: ws,
		// M = w L^2 / 8
		MomentULSKNM: wu * L * L / 8.0,
		MomentSLSKNM: ws * L * L / 8.0,
		// V = w L / 2
		ShearULSKN: wu * L / 2.0,
		ComboName:  ComboName(f),
		Notes:      "Simply supported span, uniform load, SLS characteristic combination G + Q.",
	}, nil
}

func ComboName(f Factors) string {
	return fmt.Sprintf("%gG + %gQ", f.GammaG, f.GammaQ)
}
