package norms

import (
	"fmt"
	"math"
)

// fc28 classes of BAEL 91 rev. 99.
var baelTables = tables{
	code: BAEL91,
	concrete: map[string]Concrete{
		"B20": {"B20", 20, 27, 1.8, 1.3, 29, 3.5},
		"B25": {"B25", 25, 32, 2.1, 1.5, 32, 3.5},
		"B30": {"B30", 30, 38, 2.4, 1.7, 35, 3.5},
		"B35": {"B35", 35, 43, 2.7, 1.9, 37, 3.5},
		"B40": {"B40", 40, 48, 3.0, 2.1, 39, 3.5},
		"B45": {"B45", 45, 53, 3.3, 2.3, 41, 3.5},
		"B50": {"B50", 50, 58, 3.5, 2.5, 43, 3.5},
	},
	steel: map[string]Steel{
		"FeE400": {"FeE400", 400, 480, 200, 10},
		"FeE500": {"FeE500", 500, 550, 200, 10},
		"HA400":  {"HA400", 400, 480, 200, 10},
		"HA500":  {"HA500", 500, 550, 200, 10},
	},
}

var baelCover = map[string]float64{
	"XC1": 20, "XC2": 30, "XC3": 30, "XC4": 40,
	"XD1": 40, "XD2": 50, "XS1": 40, "XS2": 50,
	"1": 20, "2": 30, "3": 40, "4": 50,
}

type bael91 struct {
	// load duration: 1 beyond 24 h, 0.9 between 1 h and 24 h, 0.85 below 1 h
	theta float64
}

func (bael91) Code() DesignCode { return BAEL91 }
func (bael91) Name() string     { return "BAEL 91 rev. 99 (France)" }
func (bael91) Region() string   { return "France" }

func (bael91) Coefficients() Coefficients {
	return Coefficients{GammaC: 1.5, GammaS: 1.15, GammaG: 1.35, GammaQ: 1.5, PhiFlexure: 1, PhiShear: 1}
}

func (bael91) ConcreteClasses() []string { return keys(baelTables.concrete) }
func (bael91) SteelClasses() []string    { return keys(baelTables.steel) }

func (bael91) DefaultMaterials() Materials {
	return Materials{Concrete: "B30", Steel: "HA500"}
}

func (e bael91) Resolve(m Materials) (MaterialSet, error) {
	return baelTables.resolve(m, e.DefaultMaterials())
}

// fbu = 0.85 fc28 / (theta gamma_b), A.4.3.4
func (e bael91) fbu(ms MaterialSet) float64 {
	theta := e.theta
	if theta <= 0 {
		theta = 1
	}
	return 0.85 * ms.Concrete.Fck / (theta * e.Coefficients().GammaC)
}

func (e bael91) sigmaS(ms MaterialSet) float64 {
	return ms.Steel.Fy / e.Coefficients().GammaS
}

// Flexion follows A.4.3 with the simplified rectangular diagram.
func (e bael91) Flexion(ms MaterialSet, momentKNM float64, s Section) FlexionResult {
	b, _, d := dims(s)
	Mu := momentKNM * 1e6
	fbu := e.fbu(ms)
	sigmaS := e.sigmaS(ms)

	muBu := Mu / (b * d * d * fbu)
	// pivot AB: eps_bc = 3.5 permil, eps_s = 10 permil
	const epsBC, epsS = 3.5, 10.0
	alphaAB := epsBC / (epsBC + epsS)
	muLim := 0.8 * alphaAB * (1 - 0.4*alphaAB)

	if muBu > muLim {
		return FlexionResult{
			Check: newCheck(muBu, muLim, fmt.Sprintf(
				"insufficient section (BAEL): mu_bu = %.3f > mu_lim = %.3f; enlarge the section or add compression steel A'", muBu, muLim)),
			MomentKNM: momentKNM,
		}
	}

	alpha := 1.25 * (1 - math.Sqrt(1-2*muBu))
	z := d * (1 - 0.4*alpha)
	As := Mu / (z * sigmaS)

	return FlexionResult{
		Check:              newCheck(muBu, muLim, fmt.Sprintf("flexion verified (BAEL): mu_bu = %.3f <= mu_lim = %.3f", muBu, muLim)),
		MomentKNM:          momentKNM,
		ResistingMomentKNM: As * z * sigmaS / 1e6,
		AsRequiredCM2:      As / 100,
		NeutralAxisM:       alpha * d / 1000,
		LeverArmM:          z / 1000,
	}
}

// Shear follows A.5.1 for non-damaging cracking. Stresses are reported as the
// equivalent forces on b0 d so demand and limit stay in kN.
func (e bael91) Shear(ms MaterialSet, shearKN float64, s Section, asCM2 float64) ShearResult {
	b0, _, d := dims(s)
	fc28 := ms.Concrete.Fck
	gb := e.Coefficients().GammaC

	tauU := shearKN * 1000 / (b0 * d)
	tauLim := math.Min(0.2*fc28/gb, 5.0)
	vLim := tauLim * b0 * d / 1000

	res := ShearResult{ShearKN: shearKN}
	if tauU > tauLim {
		res.Check = newCheck(shearKN, vLim, fmt.Sprintf(
			"insufficient section for shear (BAEL): tau_u = %.2f MPa > tau_u,lim = %.2f MPa", tauU, tauLim))
		return res
	}

	tauU0 := 0.07 * fc28 / gb
	vU0 := tauU0 * b0 * d / 1000
	res.ConcreteKN = vU0
	if shearKN <= vU0 {
		res.Check = newCheck(shearKN, vU0, fmt.Sprintf(
			"shear carried by concrete (BAEL): Vu = %.1f kN <= Vu0 = %.1f kN", shearKN, vU0))
		return res
	}

	// stirrups limited to fe 400
	sigmaSt := math.Min(ms.Steel.Fy, 400) / e.Coefficients().GammaS
	atSt := (tauU - tauU0) * b0 / (0.9 * sigmaSt)
	st := stirrupSpacing(stirrupAreaMM2/atSt, math.Min(0.9*d, 400))
	vt := (stirrupAreaMM2 / st) * 0.9 * d * sigmaSt / 1000

	res.SteelKN = vt
	res.StirrupCM2PerM = atSt * 1000 / 100
	res.StirrupSpacingMM = st
	res.Check = newCheck(shearKN, math.Min(vU0+vt, vLim), fmt.Sprintf(
		"shear verified with stirrups (BAEL): Vu = %.1f kN <= Vn = %.1f kN, HA8 @ %.0f mm", shearKN, vU0+vt, st))
	return res
}

// Deflection follows B.6.5 with the mu coefficient method.
func (e bael91) Deflection(ms MaterialSet, spanM, momentKNM float64, s Section, asCM2 float64) DeflectionResult {
	b, h, d := dims(s)
	L := spanM * 1000
	As := asCM2 * 100
	M := momentKNM * 1e6
	fc28 := ms.Concrete.Fck

	// Ei = 11000 fc28^(1/3)
	Ei := 11000 * math.Cbrt(fc28)
	n := ms.Steel.EsGPa * 1000 / Ei
	i0 := b * h * h * h / 12
	ft28 := 0.6 + 0.06*fc28
	mCr := ft28 * i0 / (h / 2)

	res := DeflectionResult{LimitMM: e.DeflectionLimitMM(spanM)}
	iEff := i0
	switch {
	case M >= mCr && As > 0:
		rho := As / (b * d)
		y1 := crackedDepth(n, rho, d)
		iF := b*y1*y1*y1/3 + n*As*(d-y1)*(d-y1)
		sigmaS := M / (As * (d - y1/3))
		mu := math.Max(0, 1-1.75*ft28/(4*rho*sigmaS+ft28))
		iEff = 1.1 * i0 / (1 + (1.1*i0/iF-1)*mu)
		res.Cracked = true
	case M >= mCr:
		res.Cracked = true
		res.GrossInertia = true
	}

	res.InstantMM = udlDeflection(M, L, Ei, iEff)
	// long-term, lambda_v = 2
	res.LongTermMM = res.InstantMM * 2.0
	res.TotalMM = res.InstantMM + res.LongTermMM

	rel := "<="
	if res.TotalMM > res.LimitMM {
		rel = ">"
	}
	res.Check = newCheck(res.TotalMM, res.LimitMM, fmt.Sprintf("total deflection = %.1f mm %s L/500 = %.1f mm (BAEL)", res.TotalMM, rel, res.LimitMM))
	return res
}

// DeflectionLimitMM is L/500 with a 5 mm floor for floors (B.6.5.3).
func (bael91) DeflectionLimitMM(spanM float64) float64 {
	return math.Max(spanM*1000/500, 5)
}

func (bael91) MinCoverMM(exposure string, barMM float64) float64 {
	return math.Max(math.Max(barMM, 10), exposureCover(baelCover, exposure, 30))
}
