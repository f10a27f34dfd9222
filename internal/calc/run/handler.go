package run

import (
	"net/http"

	"Concreteflow/internal/httpjson"
)

type Handler struct {
	Runner *Runner
	// MaxAlternatives caps the alternatives a caller may ask for.
	MaxAlternatives int
}

func (h *Handler) Clamp(req *Request) {
	if h.MaxAlternatives > 0 && req.Joist.Alternatives > h.MaxAlternatives {
		req.Joist.Alternatives = h.MaxAlternatives
	}
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Request
	if !httpjson.Decode(w, r, &input) {
		return
	}
	h.Clamp(&input)
	res, err := h.Runner.Run(r.Context(), input)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.OK(w, res)
}
