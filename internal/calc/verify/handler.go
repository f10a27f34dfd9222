package verify

import (
	"net/http"

	"Concreteflow/internal/calc/norms"
	"Concreteflow/internal/httpjson"
)

type Handler struct {
	Registry *norms.Registry
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if !httpjson.Decode(w, r, &input) {
		return
	}
	res, err := Verify(h.Registry, input)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.OK(w, res)
}

type CompareInput struct {
	MomentKNM float64       `json:"moment_knm"`
	Section   norms.Section `json:"section"`
}

func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var input CompareInput
	if !httpjson.Decode(w, r, &input) {
		return
	}
	res, err := Compare(h.Registry, input.MomentKNM, input.Section)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.OK(w, res)
}

// Norms lists the declared design codes.
func (h *Handler) Norms(w http.ResponseWriter, r *http.Request) {
	httpjson.OK(w, h.Registry.List())
}
