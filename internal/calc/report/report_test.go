package report

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Concreteflow/internal/calc/joist"
	"Concreteflow/internal/calc/norms"
	"Concreteflow/internal/calc/run"
	"Concreteflow/internal/calc/verify"
)

func request() run.Request {
	return run.Request{
		Element: verify.Input{
			Code:     "BAEL91",
			Geometry: norms.Geometry{SpanM: 5, WidthM: 0.3, HeightM: 0.5, CoverM: 0.03},
			Loads:    norms.Loads{G: 5, Q: 3},
			Exposure: "XS3",
		},
		Entries: []joist.Entry{
			{Reference: "Poutrelle 113-20", BlockHeightCM: 20, SpacingCM: 60, Bands: []joist.Band{{LoadKgM2: 800, SpanM: 5.2}}},
			{Reference: "P16", BlockHeightCM: 16, SpacingCM: 60, Bands: []joist.Band{{LoadKgM2: 800, SpanM: 4.6}}},
		},
	}
}

func newHandler() *Handler {
	return &Handler{Run: &run.Handler{Runner: &run.Runner{Registry: norms.NewRegistry(), Log: zap.NewNop()}}}
}

func TestRender(t *testing.T) {
	res, err := newHandler().Run.Runner.Run(context.Background(), request())
	require.NoError(t, err)
	require.NotNil(t, res.Selection)

	var buf bytes.Buffer
	err = Render(&buf, Meta{Project: "Résidence Les Pins", Author: "B. E.", Notes: "Hypothèses à confirmer."}, res, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestGenerate(t *testing.T) {
	h := newHandler()

	body, err := json.Marshal(Input{Meta: Meta{Project: "P"}, Request: request()})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/report/pdf", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	in := request()
	in.Element.Code = "CSA_A23"
	body, err = json.Marshal(Input{Request: in})
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/report/pdf", bytes.NewReader(body)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/report/pdf", bytes.NewReader([]byte("{"))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
