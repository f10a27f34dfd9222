package norms

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Concreteflow/internal/calc/calcerr"
)

var (
	beam = Geometry{SpanM: 5, WidthM: 0.3, HeightM: 0.5, CoverM: 0.03}
	slim = Geometry{SpanM: 8, WidthM: 0.2, HeightM: 0.2, CoverM: 0.03}
)

func mustResolve(t *testing.T, c DesignCode) Engine {
	t.Helper()
	e, err := NewRegistry().Resolve(c)
	require.NoError(t, err)
	return e
}

func TestCoefficientsArePerCode(t *testing.T) {
	tests := []struct {
		code DesignCode
		want Coefficients
	}{
		{EC2, Coefficients{GammaC: 1.5, GammaS: 1.15, GammaG: 1.35, GammaQ: 1.5, PhiFlexure: 1, PhiShear: 1}},
		{BAEL91, Coefficients{GammaC: 1.5, GammaS: 1.15, GammaG: 1.35, GammaQ: 1.5, PhiFlexure: 1, PhiShear: 1}},
		{ACI318, Coefficients{GammaC: 1, GammaS: 1, GammaG: 1.2, GammaQ: 1.6, PhiFlexure: 0.9, PhiShear: 0.75}},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, mustResolve(t, tt.code).Coefficients())
		})
	}
}

func TestCombinationUsesOwnFactors(t *testing.T) {
	l := Loads{G: 5, Q: 3}
	ec2 := mustResolve(t, EC2)
	aci := mustResolve(t, ACI318)

	fe, err := ec2.VerifyFlexion(beam, l, Materials{})
	require.NoError(t, err)
	fa, err := aci.VerifyFlexion(beam, l, Materials{})
	require.NoError(t, err)

	// 1.35*5 + 1.5*3 = 11.25 kN/m2 against 1.2*5 + 1.6*3 = 10.8 kN/m2
	assert.InDelta(t, 11.25*0.3*25/8, fe.MomentKNM, 1e-9)
	assert.InDelta(t, 10.8*0.3*25/8, fa.MomentKNM, 1e-9)
}

func TestUnsupportedMaterial(t *testing.T) {
	tests := []struct {
		code DesignCode
		m    Materials
	}{
		{EC2, Materials{Concrete: "B30"}},
		{EC2, Materials{Steel: "Grade60"}},
		{ACI318, Materials{Concrete: "C30/37"}},
		{BAEL91, Materials{Steel: "S500"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			_, err := mustResolve(t, tt.code).VerifyFlexion(beam, Loads{G: 5, Q: 3}, tt.m)
			require.Error(t, err)
			assert.True(t, errors.Is(err, calcerr.ErrUnsupportedMaterial))
		})
	}
}

func TestDefaultMaterialsResolve(t *testing.T) {
	for _, c := range NewRegistry().Implemented() {
		e := mustResolve(t, c)
		ms, err := e.Resolve(Materials{})
		require.NoError(t, err, c)
		assert.Positive(t, ms.Concrete.Fck)
		assert.Positive(t, ms.Steel.Fy)
	}
}

func TestInvalidGeometry(t *testing.T) {
	e := mustResolve(t, EC2)
	bad := []Geometry{
		{SpanM: 0, WidthM: 0.3, HeightM: 0.5},
		{SpanM: 21, WidthM: 0.3, HeightM: 0.5},
		{SpanM: 5, WidthM: 0, HeightM: 0.5},
		{SpanM: 5, WidthM: 0.3, HeightM: 0.5, CoverM: 0.6},
		{SpanM: math.NaN(), WidthM: 0.3, HeightM: 0.5},
		{SpanM: 5, WidthM: math.NaN(), HeightM: 0.5},
		{SpanM: 5, WidthM: 0.3, HeightM: math.Inf(1)},
		{SpanM: 5, WidthM: 0.3, HeightM: 0.5, CoverM: math.NaN()},
	}
	for _, g := range bad {
		_, err := e.VerifyShear(g, Loads{G: 5, Q: 3}, Materials{})
		assert.ErrorIs(t, err, calcerr.ErrInvalidInput, "%+v", g)
	}
	_, err := e.VerifyShear(beam, Loads{}, Materials{})
	assert.ErrorIs(t, err, calcerr.ErrInvalidInput)
	for _, l := range []Loads{{G: -1, Q: 3}, {G: math.NaN(), Q: 3}, {G: 5, Q: math.NaN()}, {G: math.Inf(1), Q: 3}} {
		_, err = e.VerifyShear(beam, l, Materials{})
		assert.ErrorIs(t, err, calcerr.ErrInvalidInput, "%+v", l)
	}
}

// The element-level checks and Prepare + Check are one computation.
func TestPrepareAndCheck(t *testing.T) {
	for _, c := range NewRegistry().Implemented() {
		e := mustResolve(t, c)
		el, err := e.Prepare(Geometry{SpanM: 5, WidthM: 0.3, HeightM: 0.5}, Loads{G: 5, Q: 3}, Materials{})
		require.NoError(t, err)
		assert.Equal(t, DefaultCoverM, el.Geometry.CoverM)
		assert.Equal(t, e.DefaultMaterials().Concrete, el.Materials.Concrete.Class)

		checks := e.Check(el)
		fl, err := e.VerifyFlexion(beam, Loads{G: 5, Q: 3}, Materials{})
		require.NoError(t, err)
		d, err := e.VerifyDeflection(beam, Loads{G: 5, Q: 3}, Materials{})
		require.NoError(t, err)
		sh, err := e.VerifyShear(beam, Loads{G: 5, Q: 3}, Materials{})
		require.NoError(t, err)
		assert.Equal(t, fl, checks.Flexion, c)
		assert.Equal(t, d, checks.Deflection, c)
		assert.Equal(t, sh, checks.Shear, c)
		assert.Equal(t, el.Actions.MomentULSKNM, checks.Flexion.MomentKNM, c)
	}
}

func TestFlexion(t *testing.T) {
	for _, c := range NewRegistry().Implemented() {
		t.Run(string(c), func(t *testing.T) {
			e := mustResolve(t, c)

			ok, err := e.VerifyFlexion(beam, Loads{G: 5, Q: 3}, Materials{})
			require.NoError(t, err)
			assert.True(t, ok.OK, ok.Message)
			assert.Positive(t, ok.AsRequiredCM2)
			assert.GreaterOrEqual(t, ok.ResistingMomentKNM, ok.MomentKNM*(1-1e-9))

			ko, err := e.VerifyFlexion(slim, Loads{G: 20, Q: 10}, Materials{})
			require.NoError(t, err)
			assert.False(t, ko.OK, ko.Message)
			assert.Greater(t, ko.Demand, ko.Limit)
		})
	}
}

func TestBAELMuLim(t *testing.T) {
	fl, err := mustResolve(t, BAEL91).VerifyFlexion(beam, Loads{G: 5, Q: 3}, Materials{})
	require.NoError(t, err)
	assert.InDelta(t, 0.186, fl.Limit, 1e-3)
}

func TestShearWithStirrups(t *testing.T) {
	g := Geometry{SpanM: 4, WidthM: 0.2, HeightM: 0.3, CoverM: 0.03}
	sh, err := mustResolve(t, EC2).VerifyShear(g, Loads{G: 60, Q: 40}, Materials{})
	require.NoError(t, err)

	assert.True(t, sh.OK, sh.Message)
	assert.Greater(t, sh.ShearKN, sh.ConcreteKN)
	assert.Positive(t, sh.StirrupSpacingMM)
	assert.LessOrEqual(t, sh.StirrupSpacingMM, 0.75*270)
	assert.GreaterOrEqual(t, sh.SteelKN, sh.ShearKN)
}

func TestShearWithoutStirrups(t *testing.T) {
	for _, c := range NewRegistry().Implemented() {
		sh, err := mustResolve(t, c).VerifyShear(beam, Loads{G: 5, Q: 3}, Materials{})
		require.NoError(t, err)
		assert.True(t, sh.OK, "%s: %s", c, sh.Message)
		assert.Zero(t, sh.StirrupSpacingMM, c)
	}
}

func TestDeflectionLimits(t *testing.T) {
	assert.InDelta(t, 20.0, mustResolve(t, EC2).DeflectionLimitMM(5), 1e-9)
	assert.InDelta(t, 5000.0/240, mustResolve(t, ACI318).DeflectionLimitMM(5), 1e-9)
	assert.InDelta(t, 10.0, mustResolve(t, BAEL91).DeflectionLimitMM(5), 1e-9)
	assert.InDelta(t, 5.0, mustResolve(t, BAEL91).DeflectionLimitMM(2), 1e-9)
}

func TestDeflectionFiniteWhenFlexionFails(t *testing.T) {
	for _, c := range NewRegistry().Implemented() {
		d, err := mustResolve(t, c).VerifyDeflection(slim, Loads{G: 20, Q: 10}, Materials{})
		require.NoError(t, err)
		assert.True(t, d.Cracked, c)
		assert.Positive(t, d.TotalMM, c)
		assert.False(t, d.OK, c)
	}
}

// Every check reports OK exactly when its demand stays within its limit.
func TestCheckAgreesWithDemand(t *testing.T) {
	reg := NewRegistry()
	spans := []float64{2, 4, 6, 8, 12}
	heights := []float64{0.2, 0.35, 0.6}
	for _, c := range reg.Implemented() {
		e := mustResolve(t, c)
		for _, s := range spans {
			for _, h := range heights {
				g := Geometry{SpanM: s, WidthM: 0.25, HeightM: h}
				l := Loads{G: 8, Q: 5}
				fl, err := e.VerifyFlexion(g, l, Materials{})
				require.NoError(t, err)
				de, err := e.VerifyDeflection(g, l, Materials{})
				require.NoError(t, err)
				sh, err := e.VerifyShear(g, l, Materials{})
				require.NoError(t, err)
				for _, ch := range []Check{fl.Check, de.Check, sh.Check} {
					assert.Equal(t, within(ch.Demand, ch.Limit), ch.OK, "%s %v %v: %s", c, s, h, ch.Message)
				}
			}
		}
	}
}

func TestMinCover(t *testing.T) {
	assert.InDelta(t, 25.0, mustResolve(t, EC2).MinCoverMM("XC1", 12), 1e-9)
	assert.InDelta(t, 35.0, mustResolve(t, EC2).MinCoverMM("", 12), 1e-9)
	assert.InDelta(t, 63.0, mustResolve(t, ACI318).MinCoverMM("xs2", 12), 1e-9)
	assert.InDelta(t, 40.0, mustResolve(t, BAEL91).MinCoverMM("3", 12), 1e-9)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	for _, c := range []DesignCode{BS8110, CSAA23, "EC7"} {
		_, err := reg.Resolve(c)
		assert.ErrorIs(t, err, calcerr.ErrUnsupportedDesignCode, c)
	}

	e, err := reg.ResolveString("Eurocode-2")
	require.NoError(t, err)
	assert.Equal(t, EC2, e.Code())

	e, err = reg.ResolveString("aci 318")
	require.NoError(t, err)
	assert.Equal(t, ACI318, e.Code())

	_, err = reg.ResolveString("csa_a23")
	assert.Equal(t, calcerr.KindUnsupportedDesignCode, calcerr.KindOf(err))

	list := reg.List()
	require.Len(t, list, 5)
	implemented := 0
	for _, ci := range list {
		if ci.Implemented {
			implemented++
			assert.NotNil(t, ci.Coefficients)
			assert.NotEmpty(t, ci.ConcreteClasses)
		}
	}
	assert.Equal(t, 3, implemented)

	m, err := reg.DefaultMaterials(CSAA23)
	require.NoError(t, err)
	assert.Equal(t, "400W", m.Steel)
}
