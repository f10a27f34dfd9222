package report

import (
	"bytes"
	"net/http"
	"time"

	"go.uber.org/zap"

	"Concreteflow/internal/calc/run"
	"Concreteflow/internal/httpjson"
)

type Input struct {
	Meta
	Request run.Request `json:"request"`
}

type Handler struct {
	Run *run.Handler
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if !httpjson.Decode(w, r, &input) {
		return
	}
	h.Run.Clamp(&input.Request)
	res, err := h.Run.Runner.Run(r.Context(), input.Request)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, input.Meta, res, time.Now()); err != nil {
		h.Run.Runner.Log.Error("render report", zap.Error(err))
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	w.Write(buf.Bytes())
}
