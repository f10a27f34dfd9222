package loads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Concreteflow/internal/calc/calcerr"
)

func TestCalculateEurocodeCombination(t *testing.T) {
	res, err := Calculate(Factors{GammaG: 1.35, GammaQ: 1.5}, Input{GKNM2: 5, QKNM2: 2.5, WidthM: 1, SpanM: 5})
	require.NoError(t, err)

	assert.InDelta(t, 10.5, res.ULSKNM2, 1e-9)
	assert.InDelta(t, 7.5, res.SLSKNM2, 1e-9)
	assert.InDelta(t, 10.5*25/8, res.MomentULSKNM, 1e-9)
	assert.InDelta(t, 7.5*25/8, res.MomentSLSKNM, 1e-9)
	assert.InDelta(t, 10.5*5/2, res.ShearULSKN, 1e-9)
	assert.Equal(t, "1.35G + 1.5Q", res.ComboName)
}

func TestCalculateScalesWithWidth(t *testing.T) {
	res, err := Calculate(Factors{GammaG: 1.2, GammaQ: 1.6}, Input{GKNM2: 4, QKNM2: 2, WidthM: 0.25, SpanM: 6})
	require.NoError(t, err)
	assert.InDelta(t, (1.2*4+1.6*2)*0.25, res.ULSLineKNM, 1e-9)
}

func TestCalculateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{"zero span", Input{GKNM2: 1, WidthM: 1}},
		{"no load", Input{WidthM: 1, SpanM: 4}},
		{"negative live load", Input{GKNM2: 3, QKNM2: -1, WidthM: 1, SpanM: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(Factors{GammaG: 1.35, GammaQ: 1.5}, tt.in)
			assert.ErrorIs(t, err, calcerr.ErrInvalidInput)
		})
	}
}
