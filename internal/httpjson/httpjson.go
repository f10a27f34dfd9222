// Package httpjson holds the response helpers shared by the HTTP handlers.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"Concreteflow/internal/calc/calcerr"
)

func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Error writes err as {kind, message}. Errors outside the calculation
// taxonomy are reported as internal without leaking their text.
func Error(w http.ResponseWriter, err error) {
	var ce *calcerr.Error
	if !errors.As(err, &ce) {
		Write(w, http.StatusInternalServerError, calcerr.Error{Kind: "internal", Msg: "internal error"})
		return
	}
	Write(w, Status(ce.Kind), ce)
}

func BadRequest(w http.ResponseWriter, msg string) {
	Write(w, http.StatusBadRequest, calcerr.Error{Kind: calcerr.KindInvalidInput, Msg: msg})
}

func Status(k calcerr.Kind) int {
	switch k {
	case calcerr.KindInvalidInput, calcerr.KindUnsupportedMaterial:
		return http.StatusBadRequest
	case calcerr.KindUnsupportedDesignCode:
		return http.StatusUnprocessableEntity
	case calcerr.KindEmptyCatalog:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Decode reads a JSON body, writing the error response itself on failure.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		BadRequest(w, "Invalid request payload")
		return false
	}
	return true
}
