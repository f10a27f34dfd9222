package verify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Concreteflow/internal/calc/calcerr"
	"Concreteflow/internal/calc/norms"
)

func passing(code string) Input {
	return Input{
		Code:     code,
		Geometry: norms.Geometry{SpanM: 5, WidthM: 0.3, HeightM: 0.5, CoverM: 0.03},
		Loads:    norms.Loads{G: 5, Q: 3},
	}
}

func TestVerifyPass(t *testing.T) {
	for _, code := range []string{"EC2", "ACI318", "BAEL91"} {
		t.Run(code, func(t *testing.T) {
			rep, err := Verify(norms.NewRegistry(), passing(code))
			require.NoError(t, err)
			assert.Equal(t, StatusPass, rep.Summary.Status, rep.Summary.Message)
			assert.True(t, rep.Summary.FlexionOK)
			assert.True(t, rep.Summary.DeflectionOK)
			assert.True(t, rep.Summary.ShearOK)
			require.NotNil(t, rep.Rebar.Bottom)
			assert.GreaterOrEqual(t, rep.Rebar.Bottom.AreaCM2, rep.Flexion.AsRequiredCM2)
		})
	}
}

func TestVerifyRunsEveryCheck(t *testing.T) {
	in := Input{
		Code:     "EC2",
		Geometry: norms.Geometry{SpanM: 8, WidthM: 0.2, HeightM: 0.2},
		Loads:    norms.Loads{G: 20, Q: 10},
	}
	rep, err := Verify(norms.NewRegistry(), in)
	require.NoError(t, err)

	assert.Equal(t, StatusFail, rep.Summary.Status)
	assert.False(t, rep.Summary.FlexionOK)
	assert.True(t, strings.HasPrefix(rep.Summary.Message, "flexion check failed"), rep.Summary.Message)
	// deflection and shear still ran
	assert.NotEmpty(t, rep.Deflection.Message)
	assert.NotEmpty(t, rep.Shear.Message)
	assert.Positive(t, rep.Shear.ShearKN)
	assert.Positive(t, rep.Deflection.TotalMM)
}

func TestSummaryNamesFirstFailure(t *testing.T) {
	ok := norms.Check{OK: true}
	ko := norms.Check{Message: "too much"}

	assert.Equal(t, StatusPass, summarize(ok, ok, ok).Status)
	assert.Equal(t, "deflection check failed: too much", summarize(ok, ko, ko).Message)
	assert.Equal(t, "shear check failed: too much", summarize(ok, ok, ko).Message)
}

func TestVerifyUnsupportedCode(t *testing.T) {
	for _, code := range []string{"BS8110", "CSA_A23", "NF-P18"} {
		rep, err := Verify(norms.NewRegistry(), passing(code))
		assert.ErrorIs(t, err, calcerr.ErrUnsupportedDesignCode, code)
		assert.Empty(t, rep.Summary.Status)
		assert.Zero(t, rep.Flexion)
	}
}

func TestVerifyRejectsBadInput(t *testing.T) {
	reg := norms.NewRegistry()

	in := passing("EC2")
	in.Geometry.SpanM = -1
	_, err := Verify(reg, in)
	assert.ErrorIs(t, err, calcerr.ErrInvalidInput)

	in = passing("EC2")
	in.Loads = norms.Loads{}
	_, err = Verify(reg, in)
	assert.ErrorIs(t, err, calcerr.ErrInvalidInput)

	in = passing("")
	_, err = Verify(reg, in)
	assert.ErrorIs(t, err, calcerr.ErrInvalidInput)

	in = passing("ACI318")
	in.Materials = norms.Materials{Steel: "S500"}
	_, err = Verify(reg, in)
	assert.ErrorIs(t, err, calcerr.ErrUnsupportedMaterial)
}

func TestCoverWarning(t *testing.T) {
	in := passing("EC2")
	in.Exposure = "XS3"
	rep, err := Verify(norms.NewRegistry(), in)
	require.NoError(t, err)

	assert.InDelta(t, 55.0, rep.MinCoverMM, 1e-9)
	require.Len(t, rep.Warnings, 1)
	assert.Contains(t, rep.Warnings[0], "XS3")
	assert.Equal(t, StatusPass, rep.Summary.Status)
}

func TestCompare(t *testing.T) {
	res, err := Compare(norms.NewRegistry(), 50, norms.Section{WidthM: 0.3, HeightM: 0.5})
	require.NoError(t, err)
	require.Len(t, res, 3)
	for _, c := range res {
		assert.True(t, c.Flexion.OK, c.Code)
		assert.Positive(t, c.Flexion.AsRequiredCM2, c.Code)
	}

	_, err = Compare(norms.NewRegistry(), 0, norms.Section{WidthM: 0.3, HeightM: 0.5})
	assert.ErrorIs(t, err, calcerr.ErrInvalidInput)
}

func TestHandlerErrors(t *testing.T) {
	h := &Handler{Registry: norms.NewRegistry()}

	body, _ := json.Marshal(passing("BS8110"))
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/verify/calc", bytes.NewReader(body)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var e calcerr.Error
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
	assert.Equal(t, calcerr.KindUnsupportedDesignCode, e.Kind)

	rec = httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/verify/calc", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body, _ = json.Marshal(passing("EC2"))
	rec = httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/verify/calc", bytes.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)
	var rep Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rep))
	assert.Equal(t, StatusPass, rep.Summary.Status)
}
