package norms

import (
	"fmt"
	"math"
)

// f'c in MPa, labels keep the psi equivalent.
var aciTables = tables{
	code: ACI318,
	concrete: map[string]Concrete{
		"C20": {"C20 (3000 psi)", 20, 26, 2.2, 1.5, 21.5, 3.0},
		"C25": {"C25 (3500 psi)", 25, 32, 2.5, 1.7, 23.5, 3.0},
		"C28": {"C28 (4000 psi)", 28, 35, 2.7, 1.9, 25.0, 3.0},
		"C30": {"C30 (4500 psi)", 30, 37, 2.9, 2.0, 26.0, 3.0},
		"C35": {"C35 (5000 psi)", 35, 42, 3.1, 2.2, 28.0, 3.0},
		"C40": {"C40 (6000 psi)", 40, 47, 3.4, 2.4, 30.0, 3.0},
		"C45": {"C45 (6500 psi)", 45, 52, 3.6, 2.5, 32.0, 3.0},
	},
	steel: map[string]Steel{
		"Grade40": {"Grade 40", 276, 414, 200, 12},
		"Grade60": {"Grade 60", 414, 620, 200, 12},
		"Grade75": {"Grade 75", 517, 690, 200, 10},
		"Grade80": {"Grade 80", 552, 689, 200, 10},
	},
}

var aciCover = map[string]float64{
	"XC1": 38, "XC2": 38, "XC3": 50, "XC4": 50,
	"XD1": 50, "XD2": 63, "XS1": 50, "XS2": 63,
	"F0": 38, "F1": 38, "F2": 50, "F3": 50,
	"S0": 38, "S1": 38, "S2": 50, "S3": 63,
	"C0": 38, "C1": 38, "C2": 50,
}

const (
	aciEpsCU   = 0.003
	aciEpsTMin = 0.005
)

// aci318 uses strength reduction factors on nominal resistance instead of
// partial factors on materials.
type aci318 struct{}

func (aci318) Code() DesignCode { return ACI318 }
func (aci318) Name() string     { return "ACI 318-19 (American Concrete Institute)" }
func (aci318) Region() string   { return "United States" }

func (aci318) Coefficients() Coefficients {
	return Coefficients{GammaC: 1, GammaS: 1, GammaG: 1.2, GammaQ: 1.6, PhiFlexure: 0.90, PhiShear: 0.75}
}

func (aci318) ConcreteClasses() []string { return keys(aciTables.concrete) }
func (aci318) SteelClasses() []string    { return keys(aciTables.steel) }

func (aci318) DefaultMaterials() Materials {
	return Materials{Concrete: "C28", Steel: "Grade60"}
}

func (e aci318) Resolve(m Materials) (MaterialSet, error) {
	return aciTables.resolve(m, e.DefaultMaterials())
}

// beta1 of the Whitney stress block, 22.2.2.4.3.
func beta1(fc float64) float64 {
	if fc <= 28 {
		return 0.85
	}
	return math.Max(0.85-0.05*(fc-28)/7, 0.65)
}

// Flexion follows 22.2: Mu <= phi Mn with a tension-controlled section.
// Demand is rho / rho_max against a limit of 1.
func (e aci318) Flexion(ms MaterialSet, momentKNM float64, s Section) FlexionResult {
	b, _, d := dims(s)
	Mu := momentKNM * 1e6
	fc := ms.Concrete.Fck
	fy := ms.Steel.Fy
	phi := e.Coefficients().PhiFlexure

	Rn := Mu / phi / (b * d * d)
	term := 2 * Rn / (0.85 * fc)
	if term > 1 {
		return FlexionResult{
			Check:     newCheck(term, 1, "insufficient section: concrete block cannot develop the required moment; enlarge the section"),
			MomentKNM: momentKNM,
		}
	}

	rho := (0.85 * fc / fy) * (1 - math.Sqrt(1-term))
	rhoMin := math.Max(0.25*math.Sqrt(fc)/fy, 1.4/fy)
	b1 := beta1(fc)
	rhoMax := 0.85 * b1 * (fc / fy) * (aciEpsCU / (aciEpsCU + aciEpsTMin))
	if rho < rhoMin {
		rho = rhoMin
	}
	if rho > rhoMax {
		return FlexionResult{
			Check: newCheck(rho/rhoMax, 1, fmt.Sprintf(
				"compression-controlled section (rho = %.4f > rho_max = %.4f); enlarge the section or add compression steel", rho, rhoMax)),
			MomentKNM:     momentKNM,
			AsRequiredCM2: rho * b * d / 100,
		}
	}

	As := rho * b * d
	a := As * fy / (0.85 * fc * b)
	c := a / b1
	z := d - a/2
	phiMn := phi * As * fy * z / 1e6
	epsT := aciEpsCU * (d - c) / c

	return FlexionResult{
		Check: newCheck(rho/rhoMax, 1, fmt.Sprintf(
			"flexion verified (ACI 318): phi Mn = %.1f kN.m >= Mu = %.1f kN.m, eps_t = %.4f", phiMn, momentKNM, epsT)),
		MomentKNM:          momentKNM,
		ResistingMomentKNM: phiMn,
		AsRequiredCM2:      As / 100,
		NeutralAxisM:       c / 1000,
		LeverArmM:          z / 1000,
	}
}

// Shear follows 22.5: Vu <= phi (Vc + Vs).
func (e aci318) Shear(ms MaterialSet, shearKN float64, s Section, asCM2 float64) ShearResult {
	bw, _, d := dims(s)
	fc := ms.Concrete.Fck
	fy := math.Min(ms.Steel.Fy, 420)
	phi := e.Coefficients().PhiShear

	// normal-weight concrete, lambda = 1
	vc := 0.17 * math.Sqrt(fc) * bw * d / 1000
	res := ShearResult{ShearKN: shearKN, ConcreteKN: phi * vc}
	if shearKN <= phi*vc {
		res.Check = newCheck(shearKN, phi*vc, fmt.Sprintf(
			"shear carried by concrete: Vu = %.1f kN <= phi Vc = %.1f kN", shearKN, phi*vc))
		return res
	}

	vsReq := shearKN/phi - vc
	vsMax := 0.66 * math.Sqrt(fc) * bw * d / 1000
	if vsReq > vsMax {
		res.Check = newCheck(shearKN, phi*(vc+vsMax), fmt.Sprintf(
			"insufficient section for shear: Vs required = %.1f kN > Vs,max = %.1f kN; enlarge the section", vsReq, vsMax))
		return res
	}

	avS := vsReq * 1000 / (fy * d)
	sMax := math.Min(d/2, 600)
	if vsReq > vsMax/2 {
		sMax = math.Min(d/4, 300)
	}
	sp := stirrupSpacing(stirrupAreaMM2/avS, sMax)
	vs := (stirrupAreaMM2 / sp) * fy * d / 1000

	res.SteelKN = phi * vs
	res.StirrupCM2PerM = avS * 1000 / 100
	res.StirrupSpacingMM = sp
	res.Check = newCheck(shearKN, phi*(vc+vs), fmt.Sprintf(
		"shear verified with stirrups: Vu = %.1f kN <= phi Vn = %.1f kN, stirrups @ %.0f mm", shearKN, phi*(vc+vs), sp))
	return res
}

// Deflection follows 24.2 with Branson's effective inertia.
func (e aci318) Deflection(ms MaterialSet, spanM, momentKNM float64, s Section, asCM2 float64) DeflectionResult {
	b, h, d := dims(s)
	L := spanM * 1000
	As := asCM2 * 100
	Ma := momentKNM * 1e6
	fc := ms.Concrete.Fck

	Ec := 4700 * math.Sqrt(fc)
	n := ms.Steel.EsGPa * 1000 / Ec
	ig := b * h * h * h / 12
	fr := 0.62 * math.Sqrt(fc)
	mCr := fr * ig / (h / 2)

	res := DeflectionResult{LimitMM: e.DeflectionLimitMM(spanM)}
	ie := ig
	switch {
	case Ma >= mCr && As > 0:
		kd := crackedDepth(n, As/(b*d), d)
		iCr := b*kd*kd*kd/3 + n*As*(d-kd)*(d-kd)
		ie = math.Min(iCr/(1-(1-iCr/ig)*math.Pow(mCr/Ma, 3)), ig)
		res.Cracked = true
	case Ma >= mCr:
		res.Cracked = true
		res.GrossInertia = true
	}

	res.InstantMM = udlDeflection(Ma, L, Ec, ie)
	// xi = 2 for five years or more, no compression steel
	res.LongTermMM = res.InstantMM * 2.0
	res.TotalMM = res.InstantMM + res.LongTermMM

	rel := "<="
	if res.TotalMM > res.LimitMM {
		rel = ">"
	}
	res.Check = newCheck(res.TotalMM, res.LimitMM, fmt.Sprintf("total deflection = %.1f mm %s L/240 = %.1f mm (ACI)", res.TotalMM, rel, res.LimitMM))
	return res
}

// DeflectionLimitMM is L/240 for floors (Table 24.2.2).
func (aci318) DeflectionLimitMM(spanM float64) float64 {
	return spanM * 1000 / 240
}

func (aci318) MinCoverMM(exposure string, _ float64) float64 {
	return exposureCover(aciCover, exposure, 50)
}
