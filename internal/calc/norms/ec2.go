package norms

import (
	"fmt"
	"math"
)

// EN 1992-1-1, Table 3.1.
var ec2Tables = tables{
	code: EC2,
	concrete: map[string]Concrete{
		"C20/25": {"C20/25", 20, 28, 2.2, 1.5, 30, 3.5},
		"C25/30": {"C25/30", 25, 33, 2.6, 1.8, 31, 3.5},
		"C30/37": {"C30/37", 30, 38, 2.9, 2.0, 33, 3.5},
		"C35/45": {"C35/45", 35, 43, 3.2, 2.2, 34, 3.5},
		"C40/50": {"C40/50", 40, 48, 3.5, 2.5, 35, 3.5},
		"C45/55": {"C45/55", 45, 53, 3.8, 2.7, 36, 3.5},
		"C50/60": {"C50/60", 50, 58, 4.1, 2.9, 37, 3.5},
	},
	steel: map[string]Steel{
		"S400":  {"S400", 400, 440, 200, 25},
		"S500":  {"S500", 500, 550, 200, 25},
		"S500B": {"S500B", 500, 540, 200, 50},
		"S500C": {"S500C", 500, 575, 200, 75},
	},
}

var ec2Cover = map[string]float64{
	"XC1": 15, "XC2": 25, "XC3": 25, "XC4": 30,
	"XD1": 35, "XD2": 40, "XD3": 45,
	"XS1": 35, "XS2": 40, "XS3": 45,
}

type eurocode2 struct{}

func (eurocode2) Code() DesignCode { return EC2 }
func (eurocode2) Name() string     { return "Eurocode 2 (EN 1992-1-1)" }
func (eurocode2) Region() string   { return "Europe" }

func (eurocode2) Coefficients() Coefficients {
	return Coefficients{GammaC: 1.5, GammaS: 1.15, GammaG: 1.35, GammaQ: 1.5, PhiFlexure: 1, PhiShear: 1}
}

func (eurocode2) ConcreteClasses() []string { return keys(ec2Tables.concrete) }
func (eurocode2) SteelClasses() []string    { return keys(ec2Tables.steel) }

func (eurocode2) DefaultMaterials() Materials {
	return Materials{Concrete: "C30/37", Steel: "S500"}
}

func (e eurocode2) Resolve(m Materials) (MaterialSet, error) {
	return ec2Tables.resolve(m, e.DefaultMaterials())
}

func (e eurocode2) fcd(ms MaterialSet) float64 {
	const alphaCC = 1.0
	return alphaCC * ms.Concrete.Fck / e.Coefficients().GammaC
}

func (e eurocode2) fyd(ms MaterialSet) float64 {
	return ms.Steel.Fy / e.Coefficients().GammaS
}

// Flexion follows section 6.1 with the simplified rectangular block of 3.1.7.
func (e eurocode2) Flexion(ms MaterialSet, momentKNM float64, s Section) FlexionResult {
	b, _, d := dims(s)
	Mu := momentKNM * 1e6
	fcd := e.fcd(ms)
	fyd := e.fyd(ms)

	// mu = M / (b d^2 fcd)
	mu := Mu / (b * d * d * fcd)
	// pivot B, concrete up to C50/60
	const muLim = 0.372

	if mu > muLim {
		return FlexionResult{
			Check: newCheck(mu, muLim, fmt.Sprintf(
				"insufficient section: mu = %.3f > mu_lim = %.3f; enlarge the section or add compression steel", mu, muLim)),
			MomentKNM: momentKNM,
		}
	}

	alpha := 1.25 * (1 - math.Sqrt(1-2*mu))
	z := d * (1 - 0.4*alpha)
	As := Mu / (z * fyd)

	return FlexionResult{
		Check:              newCheck(mu, muLim, fmt.Sprintf("flexion verified: mu = %.3f <= mu_lim = %.3f", mu, muLim)),
		MomentKNM:          momentKNM,
		ResistingMomentKNM: As * z * fyd / 1e6,
		AsRequiredCM2:      As / 100,
		NeutralAxisM:       alpha * d / 1000,
		LeverArmM:          z / 1000,
	}
}

// Shear follows 6.2.2 without stirrups and 6.2.3 with vertical stirrups, cot(theta) = 1.
func (e eurocode2) Shear(ms MaterialSet, shearKN float64, s Section, asCM2 float64) ShearResult {
	bw, _, d := dims(s)
	fck := ms.Concrete.Fck
	gc := e.Coefficients().GammaC
	Asl := asCM2 * 100

	rhoL := math.Min(Asl/(bw*d), 0.02)
	k := math.Min(1+math.Sqrt(200/d), 2.0)
	vMin := 0.035 * math.Pow(k, 1.5) * math.Sqrt(fck)
	cRdc := 0.18 / gc
	vRdc := math.Max(cRdc*k*math.Cbrt(100*rhoL*fck), vMin) * bw * d / 1000

	if shearKN <= vRdc {
		return ShearResult{
			Check:      newCheck(shearKN, vRdc, fmt.Sprintf("shear verified without stirrups: VEd = %.1f kN <= VRd,c = %.1f kN", shearKN, vRdc)),
			ShearKN:    shearKN,
			ConcreteKN: vRdc,
		}
	}

	const cotTheta = 1.0
	fywd := e.fyd(ms)
	z := 0.9 * d
	// Asw/s = VEd / (z fywd cot(theta))
	aswS := shearKN * 1000 / (z * fywd * cotTheta)
	sp := stirrupSpacing(stirrupAreaMM2/aswS, math.Min(0.75*d, 400))
	vRds := (stirrupAreaMM2 / sp) * z * fywd * cotTheta / 1000

	nu1 := 0.6 * (1 - fck/250)
	vRdMax := bw * z * nu1 * (fck / gc) / (cotTheta + 1/cotTheta) / 1000

	res := ShearResult{
		ShearKN:          shearKN,
		ConcreteKN:       vRdc,
		SteelKN:          vRds,
		StirrupCM2PerM:   aswS * 1000 / 100,
		StirrupSpacingMM: sp,
	}
	limit := math.Min(vRds, vRdMax)
	if shearKN > vRdMax {
		res.Check = newCheck(shearKN, limit, fmt.Sprintf(
			"compression strut insufficient: VEd = %.1f kN > VRd,max = %.1f kN; enlarge the section", shearKN, vRdMax))
		return res
	}
	res.Check = newCheck(shearKN, limit, fmt.Sprintf(
		"shear verified with stirrups: VEd = %.1f kN <= VRd,s = %.1f kN, HA8 @ %.0f mm", shearKN, vRds, sp))
	return res
}

// Deflection follows the simplified approach of 7.4 with a zeta interpolation.
func (e eurocode2) Deflection(ms MaterialSet, spanM, momentKNM float64, s Section, asCM2 float64) DeflectionResult {
	b, h, d := dims(s)
	L := spanM * 1000
	As := asCM2 * 100
	M := momentKNM * 1e6
	Ecm := ms.Concrete.EcmGPa * 1000
	Es := ms.Steel.EsGPa * 1000
	n := Es / Ecm

	iGross := b * h * h * h / 12
	mCr := ms.Concrete.Fctm * b * h * h / 6

	res := DeflectionResult{LimitMM: e.DeflectionLimitMM(spanM)}
	iEff := iGross
	switch {
	case M >= mCr && As > 0:
		x := crackedDepth(n, As/(b*d), d)
		iCr := b*x*x*x/3 + n*As*(d-x)*(d-x)
		// short-term loading, beta = 1
		zeta := math.Max(0, math.Min(1-(mCr/M)*(mCr/M), 1))
		iEff = iCr / (1 - zeta*(1-iCr/iGross))
		res.Cracked = true
	case M >= mCr:
		res.Cracked = true
		res.GrossInertia = true
	}

	res.InstantMM = udlDeflection(M, L, Ecm, iEff)
	// creep and shrinkage, phi = 2.5
	res.LongTermMM = res.InstantMM * 2.5 * 0.5
	res.TotalMM = res.InstantMM + res.LongTermMM

	rel := "<="
	if res.TotalMM > res.LimitMM {
		rel = ">"
	}
	res.Check = newCheck(res.TotalMM, res.LimitMM, fmt.Sprintf("total deflection = %.1f mm %s L/250 = %.1f mm", res.TotalMM, rel, res.LimitMM))
	return res
}

// DeflectionLimitMM is L/250 (7.4.1).
func (eurocode2) DeflectionLimitMM(spanM float64) float64 {
	return spanM * 1000 / 250
}

// MinCoverMM is c_min + delta_c_dev per 4.4.1 with the French annex tolerance.
func (eurocode2) MinCoverMM(exposure string, barMM float64) float64 {
	cDur := exposureCover(ec2Cover, exposure, 25)
	cMin := math.Max(math.Max(barMM, cDur), 10)
	const deltaCDev = 10
	return cMin + deltaCDev
}
