package norms

import (
	"math"
	"sort"
	"strings"

	"Concreteflow/internal/calc/calcerr"
	"Concreteflow/internal/calc/loads"
)

// HA8 stirrup, two legs.
const stirrupAreaMM2 = 100.6

// relTol absorbs floating round-off when a designed resistance equals its demand.
const relTol = 1e-9

func within(demand, limit float64) bool {
	return demand <= limit+math.Abs(limit)*relTol
}

func newCheck(demand, limit float64, msg string) Check {
	return Check{Demand: demand, Limit: limit, OK: within(demand, limit), Message: msg}
}

// engine adds the element-level checks to a design code.
type engine struct {
	code
}

// Prepare validates an element, resolves its materials and computes its
// design actions with the code's own partial factors.
func (e engine) Prepare(g Geometry, l Loads, m Materials) (Element, error) {
	g = g.WithDefaults()
	if err := g.Validate(); err != nil {
		return Element{}, err
	}
	if err := l.Validate(); err != nil {
		return Element{}, err
	}
	ms, err := e.Resolve(m)
	if err != nil {
		return Element{}, err
	}
	c := e.Coefficients()
	act, err := loads.Calculate(loads.Factors{GammaG: c.GammaG, GammaQ: c.GammaQ}, loads.Input{
		GKNM2:  l.G,
		QKNM2:  l.Q,
		WidthM: g.WidthM,
		SpanM:  g.SpanM,
	})
	if err != nil {
		return Element{}, err
	}
	return Element{Geometry: g, Loads: l, Materials: ms, Actions: act}, nil
}

// Check runs flexion, deflection and shear. Deflection and shear use the
// tension steel the flexion design requires; a failing check stops nothing.
func (e engine) Check(el Element) Checks {
	s := el.Geometry.Section()
	var c Checks
	c.Flexion = e.Flexion(el.Materials, el.Actions.MomentULSKNM, s)
	c.Deflection = e.Deflection(el.Materials, el.Geometry.SpanM, el.Actions.MomentSLSKNM, s, c.Flexion.AsRequiredCM2)
	c.Shear = e.Shear(el.Materials, el.Actions.ShearULSKN, s, c.Flexion.AsRequiredCM2)
	return c
}

func (e engine) VerifyFlexion(g Geometry, l Loads, m Materials) (FlexionResult, error) {
	el, err := e.Prepare(g, l, m)
	if err != nil {
		return FlexionResult{}, err
	}
	return e.Flexion(el.Materials, el.Actions.MomentULSKNM, el.Geometry.Section()), nil
}

func (e engine) VerifyDeflection(g Geometry, l Loads, m Materials) (DeflectionResult, error) {
	el, err := e.Prepare(g, l, m)
	if err != nil {
		return DeflectionResult{}, err
	}
	return e.Check(el).Deflection, nil
}

func (e engine) VerifyShear(g Geometry, l Loads, m Materials) (ShearResult, error) {
	el, err := e.Prepare(g, l, m)
	if err != nil {
		return ShearResult{}, err
	}
	return e.Check(el).Shear, nil
}

// tables holds one code's material classes.
type tables struct {
	code     DesignCode
	concrete map[string]Concrete
	steel    map[string]Steel
}

func (t tables) resolve(m Materials, def Materials) (MaterialSet, error) {
	if m.Concrete == "" {
		m.Concrete = def.Concrete
	}
	if m.Steel == "" {
		m.Steel = def.Steel
	}
	c, ok := t.concrete[m.Concrete]
	if !ok {
		return MaterialSet{}, calcerr.New(calcerr.KindUnsupportedMaterial,
			"concrete class %q is not defined for %s (available: %s)", m.Concrete, t.code, strings.Join(keys(t.concrete), ", "))
	}
	s, ok := t.steel[m.Steel]
	if !ok {
		return MaterialSet{}, calcerr.New(calcerr.KindUnsupportedMaterial,
			"steel class %q is not defined for %s (available: %s)", m.Steel, t.code, strings.Join(keys(t.steel), ", "))
	}
	return MaterialSet{Concrete: c, Steel: s}, nil
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// dims converts a section to mm: width b, total height h, effective depth d.
func dims(s Section) (b, h, d float64) {
	b = s.WidthM * 1000.0
	h = s.HeightM * 1000.0
	d = (s.HeightM - s.CoverM) * 1000.0
	return
}

// stirrupSpacing rounds a spacing down to whole millimetres and caps it.
func stirrupSpacing(s, sMax float64) float64 {
	s = math.Min(s, sMax)
	return math.Max(math.Floor(s), 1)
}

// crackedDepth is the neutral axis depth of a cracked rectangular section.
func crackedDepth(n, rho, d float64) float64 {
	a := n * rho
	return d * (-a + math.Sqrt(a*a+2*a))
}

// udlDeflection is 5 w L^4 / (384 E I) with w taken from the midspan moment.
func udlDeflection(momentNmm, Lmm, E, I float64) float64 {
	w := 8 * momentNmm / (Lmm * Lmm)
	return 5 * w * math.Pow(Lmm, 4) / (384 * E * I)
}

func exposureCover(table map[string]float64, exposure string, def float64) float64 {
	if v, ok := table[strings.ToUpper(strings.TrimSpace(exposure))]; ok {
		return v
	}
	return def
}
