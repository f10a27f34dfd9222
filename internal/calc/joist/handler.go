package joist

import (
	"net/http"

	"Concreteflow/internal/httpjson"
)

type SelectInput struct {
	Entries []Entry `json:"entries"`
	Request
}

type Handler struct {
	// MaxAlternatives caps the alternatives a caller may ask for.
	MaxAlternatives int
}

func (h *Handler) clamp(r *Request) {
	if h.MaxAlternatives > 0 && r.Alternatives > h.MaxAlternatives {
		r.Alternatives = h.MaxAlternatives
	}
}

func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	var input SelectInput
	if !httpjson.Decode(w, r, &input) {
		return
	}
	h.clamp(&input.Request)
	res, err := Select(input.Entries, input.Request)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.OK(w, res)
}

func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var input BatchInput
	if !httpjson.Decode(w, r, &input) {
		return
	}
	for i := range input.Requests {
		h.clamp(&input.Requests[i])
	}
	res, err := SelectBatch(input.Entries, input.Requests)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.OK(w, res)
}
