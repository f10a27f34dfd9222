package catalog

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"Concreteflow/internal/httpjson"
	"Concreteflow/internal/metrics"
)

// 10 MB
const maxUpload = 10 << 20

type Handler struct {
	Store   Store
	Log     *zap.Logger
	Metrics *metrics.Metrics
}

type ImportResponse struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Imported int       `json:"imported"`
	Skipped  int       `json:"skipped"`
	Loads    []float64 `json:"loads_kg_m2"`
	Warnings []string  `json:"warnings,omitempty"`
}

// Import stores the span table uploaded as the multipart field "file".
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		httpjson.BadRequest(w, "multipart form required")
		return
	}
	file, fh, err := r.FormFile("file")
	if err != nil {
		httpjson.BadRequest(w, "File required")
		return
	}
	defer file.Close()

	res, err := ImportXLSX(file)
	if err != nil {
		h.Log.Warn("span table import failed", zap.String("file", fh.Filename), zap.Error(err))
		httpjson.Error(w, err)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = fh.Filename
	}
	id, err := h.Store.Save(r.Context(), Catalog{
		Name:         name,
		Manufacturer: strings.TrimSpace(r.FormValue("manufacturer")),
		Entries:      res.Entries,
	})
	if err != nil {
		h.Log.Error("save catalog", zap.String("name", name), zap.Error(err))
		httpjson.Error(w, err)
		return
	}

	h.Metrics.AddImported(res.Imported)
	h.Log.Info("catalog imported",
		zap.String("id", id),
		zap.String("name", name),
		zap.Int("rows", res.Imported),
		zap.Int("skipped", res.Skipped))
	httpjson.OK(w, ImportResponse{
		ID:       id,
		Name:     name,
		Imported: res.Imported,
		Skipped:  res.Skipped,
		Loads:    res.Loads,
		Warnings: res.Warnings,
	})
}
