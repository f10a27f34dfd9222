package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"Concreteflow/internal/calc/calcerr"
	"Concreteflow/internal/calc/joist"
)

func spanTable(t *testing.T) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	rows := [][]any{
		{"Cahier de portées limites - Fabricant X"},
		{"Référence", "Hourdis (cm)", "Entraxe (cm)", "Table (cm)", "250", "350 kg/m²", "500"},
		{"BP 113-16", 16, 60, 5, "5,90", "5.40", 480},
		{"BP 113-20", "", "", "", 6.6, 6.1, 5.5},
		{"Total", "", "", "", 1, 2, 3},
		{"BP 99", 14, 90, "", 13, 0.5, ""},
	}
	for i, r := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, addr, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var wantEntries = []joist.Entry{
	{Reference: "BP 113-16", BlockHeightCM: 16, SpacingCM: 60, ToppingCM: 5, Bands: []joist.Band{{LoadKgM2: 250, SpanM: 5.9}, {LoadKgM2: 350, SpanM: 5.4}, {LoadKgM2: 500, SpanM: 4.8}}},
	{Reference: "BP 113-20", BlockHeightCM: 20, SpacingCM: 60, ToppingCM: 5, Bands: []joist.Band{{LoadKgM2: 250, SpanM: 6.6}, {LoadKgM2: 350, SpanM: 6.1}, {LoadKgM2: 500, SpanM: 5.5}}},
}

func TestImportXLSX(t *testing.T) {
	res, err := ImportXLSX(spanTable(t))
	require.NoError(t, err)

	assert.Equal(t, []float64{250, 350, 500}, res.Loads)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, res.Skipped)
	if diff := cmp.Diff(wantEntries, res.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestImportRowsLayout(t *testing.T) {
	_, err := ImportRows([][]string{{"a", "b"}, {"250", "350", "500"}})
	assert.ErrorIs(t, err, calcerr.ErrInvalidInput)

	_, err = ImportRows([][]string{{"Référence", "Hourdis"}, {"BP 1", "16"}})
	assert.ErrorIs(t, err, calcerr.ErrInvalidInput)

	// block suffix, unknown spacing, spans in centimetres
	res, err := ImportRows([][]string{
		{"Poutrelle", "Entraxe", "300", "400", "500daN"},
		{"RS 12", "95", "520", "470", "430"},
	})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	e := res.Entries[0]
	assert.Equal(t, 12, e.BlockHeightCM)
	assert.Equal(t, 60, e.SpacingCM)
	assert.Equal(t, []joist.Band{{LoadKgM2: 300, SpanM: 5.2}, {LoadKgM2: 400, SpanM: 4.7}, {LoadKgM2: 500, SpanM: 4.3}}, e.Bands)
}

func TestImportXLSXRejectsGarbage(t *testing.T) {
	_, err := ImportXLSX(strings.NewReader("not a workbook"))
	assert.ErrorIs(t, err, calcerr.ErrInvalidInput)
}

func TestParseSpan(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"5.20", 5.2, true},
		{"5,20", 5.2, true},
		{"520", 5.2, true},
		{"1", 0, false},
		{"12", 0, false},
		{"1250", 0, false},
		{"n/a", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-inf", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseSpan(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
}

func TestLoadYAML(t *testing.T) {
	doc := `
name: Fabricant X 2024
manufacturer: X
entries:
  - reference: BP 113-16
    block_height_cm: 16
    spacing_cm: 60
    spans: {"250": 5.90, "350": 5.40, "500": 4.80}
  - reference: BP 113-20
    block_height_cm: 20
    spacing_cm: 60
    topping_cm: 5
    spans:
      "500": 5.5
      "250": 6.6
      "350": 6.1
`
	c, err := LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Fabricant X 2024", c.Name)
	want := []joist.Entry{
		{Reference: "BP 113-16", BlockHeightCM: 16, SpacingCM: 60, Bands: wantEntries[0].Bands},
		wantEntries[1],
	}
	if diff := cmp.Diff(want, c.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	_, err = LoadYAML(strings.NewReader("entries:\n  - reference: A\n    spans: {}\n"))
	assert.ErrorIs(t, err, calcerr.ErrInvalidInput)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	id, err := m.Save(ctx, Catalog{Name: "x", Entries: wantEntries})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := m.Entries(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, wantEntries, got)

	got[0].Bands[0].SpanM = 99
	again, err := m.Entries(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 5.9, again[0].Bands[0].SpanM)

	_, err = m.Entries(ctx, "missing")
	assert.ErrorIs(t, err, calcerr.ErrEmptyCatalog)

	empty, err := m.Save(ctx, Catalog{Name: "empty"})
	require.NoError(t, err)
	_, err = m.Entries(ctx, empty)
	assert.ErrorIs(t, err, calcerr.ErrEmptyCatalog)
}

func TestImportHandler(t *testing.T) {
	store := NewMemory()
	h := &Handler{Store: store, Log: zap.NewNop()}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "portees.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(spanTable(t).Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("name", "Fabricant X"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/user/catalogs/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Import(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ImportResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Fabricant X", resp.Name)
	assert.Equal(t, 2, resp.Imported)

	entries, err := store.Entries(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
