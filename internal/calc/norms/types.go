// Package norms implements the reinforced-concrete design codes used by the
// verifier. Every code carries its own coefficients and material tables; an
// engine never borrows another code's values.
package norms

import (
	"math"

	"Concreteflow/internal/calc/calcerr"
	"Concreteflow/internal/calc/loads"
)

type DesignCode string

const (
	EC2    DesignCode = "EC2"
	ACI318 DesignCode = "ACI318"
	BAEL91 DesignCode = "BAEL91"
	BS8110 DesignCode = "BS8110"
	CSAA23 DesignCode = "CSA_A23"
)

// MaxSpanM bounds every span the core accepts.
const MaxSpanM = 20.0

// DefaultCoverM is used when the caller leaves the cover empty.
const DefaultCoverM = 0.03

type Coefficients struct {
	GammaC     float64 `json:"gamma_c"`
	GammaS     float64 `json:"gamma_s"`
	GammaG     float64 `json:"gamma_g"`
	GammaQ     float64 `json:"gamma_q"`
	PhiFlexure float64 `json:"phi_flexure"`
	PhiShear   float64 `json:"phi_shear"`
}

type Concrete struct {
	Class   string  `json:"class"`
	Fck     float64 `json:"fck_mpa"`
	Fcm     float64 `json:"fcm_mpa"`
	Fctm    float64 `json:"fctm_mpa"`
	Fctk005 float64 `json:"fctk_005_mpa"`
	EcmGPa  float64 `json:"ecm_gpa"`
	EpsCU   float64 `json:"eps_cu_permil"`
}

type Steel struct {
	Class string  `json:"class"`
	Fy    float64 `json:"fy_mpa"`
	Fu    float64 `json:"fu_mpa"`
	EsGPa float64 `json:"es_gpa"`
	EpsUK float64 `json:"eps_uk_permil"`
}

// Materials names the classes requested by the caller.
type Materials struct {
	Concrete string `json:"concrete"`
	Steel    string `json:"steel"`
}

// MaterialSet is a pair of classes resolved against one code's tables.
type MaterialSet struct {
	Concrete Concrete `json:"concrete"`
	Steel    Steel    `json:"steel"`
}

type Geometry struct {
	SpanM   float64 `json:"span_m"`
	WidthM  float64 `json:"width_m"`
	HeightM float64 `json:"height_m"`
	CoverM  float64 `json:"cover_m"`
}

// Loads are surface loads in kN/m2.
type Loads struct {
	G float64 `json:"g_kn_m2"`
	Q float64 `json:"q_kn_m2"`
}

// Section is the rectangular cross-section seen by the section-level checks.
type Section struct {
	WidthM  float64 `json:"width_m"`
	HeightM float64 `json:"height_m"`
	CoverM  float64 `json:"cover_m"`
}

func (g Geometry) Section() Section {
	return Section{WidthM: g.WidthM, HeightM: g.HeightM, CoverM: g.CoverM}
}

// WithDefaults fills the cover when it was left empty.
func (g Geometry) WithDefaults() Geometry {
	if g.CoverM == 0 {
		g.CoverM = DefaultCoverM
	}
	return g
}

// positive rejects NaN and infinities along with zero and negatives.
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

func (g Geometry) Validate() error {
	if !positive(g.SpanM) || g.SpanM > MaxSpanM {
		return calcerr.Invalid("span %.3f m outside (0, %.0f] m", g.SpanM, MaxSpanM)
	}
	if !positive(g.WidthM) || !positive(g.HeightM) {
		return calcerr.Invalid("width and height must be positive")
	}
	if !positive(g.CoverM) || g.CoverM >= g.HeightM {
		return calcerr.Invalid("cover %.3f m must be positive and below the height %.3f m", g.CoverM, g.HeightM)
	}
	return nil
}

func (l Loads) Validate() error {
	if !(l.G >= 0) || !(l.Q >= 0) || math.IsInf(l.G, 1) || math.IsInf(l.Q, 1) {
		return calcerr.Invalid("loads must be finite and not negative (G=%.3f, Q=%.3f)", l.G, l.Q)
	}
	if l.G == 0 && l.Q == 0 {
		return calcerr.Invalid("at least one of G and Q must be positive")
	}
	return nil
}

// Check is the outcome of one verification: OK holds iff Demand <= Limit.
type Check struct {
	Demand  float64 `json:"demand"`
	Limit   float64 `json:"limit"`
	OK      bool    `json:"ok"`
	Message string  `json:"message"`
}

type FlexionResult struct {
	Check
	MomentKNM          float64 `json:"moment_knm"`
	ResistingMomentKNM float64 `json:"resisting_moment_knm"`
	AsRequiredCM2      float64 `json:"as_required_cm2"`
	NeutralAxisM       float64 `json:"neutral_axis_m"`
	LeverArmM          float64 `json:"lever_arm_m"`
}

type ShearResult struct {
	Check
	ShearKN          float64 `json:"shear_kn"`
	ConcreteKN       float64 `json:"concrete_resistance_kn"`
	SteelKN          float64 `json:"steel_resistance_kn"`
	StirrupCM2PerM   float64 `json:"stirrup_cm2_per_m"`
	StirrupSpacingMM float64 `json:"stirrup_spacing_mm"`
}

type DeflectionResult struct {
	Check
	InstantMM    float64 `json:"instant_mm"`
	LongTermMM   float64 `json:"long_term_mm"`
	TotalMM      float64 `json:"total_mm"`
	LimitMM      float64 `json:"limit_mm"`
	Cracked      bool    `json:"cracked"`
	GrossInertia bool    `json:"gross_inertia"`
}

// code is what a single design code provides: identity, tables and the
// section-level formulas.
type code interface {
	Code() DesignCode
	Name() string
	Region() string
	Coefficients() Coefficients
	ConcreteClasses() []string
	SteelClasses() []string
	DefaultMaterials() Materials
	Resolve(m Materials) (MaterialSet, error)
	Flexion(ms MaterialSet, momentKNM float64, s Section) FlexionResult
	Shear(ms MaterialSet, shearKN float64, s Section, asCM2 float64) ShearResult
	Deflection(ms MaterialSet, spanM, momentKNM float64, s Section, asCM2 float64) DeflectionResult
	DeflectionLimitMM(spanM float64) float64
	MinCoverMM(exposure string, barMM float64) float64
}

// Element is a validated element with resolved materials and design actions.
type Element struct {
	Geometry  Geometry
	Loads     Loads
	Materials MaterialSet
	Actions   loads.Result
}

type Checks struct {
	Flexion    FlexionResult
	Deflection DeflectionResult
	Shear      ShearResult
}

// Engine is a design code plus the element-level checks built on it.
type Engine interface {
	code
	Prepare(g Geometry, l Loads, m Materials) (Element, error)
	Check(el Element) Checks
	VerifyFlexion(g Geometry, l Loads, m Materials) (FlexionResult, error)
	VerifyDeflection(g Geometry, l Loads, m Materials) (DeflectionResult, error)
	VerifyShear(g Geometry, l Loads, m Materials) (ShearResult, error)
}
