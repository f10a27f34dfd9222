// Package calcerr holds the closed set of failures the calculation core reports.
package calcerr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnsupportedDesignCode Kind = "unsupported_design_code"
	KindUnsupportedMaterial   Kind = "unsupported_material"
	KindInvalidInput          Kind = "invalid_input"
	KindEmptyCatalog          Kind = "empty_catalog"
)

// Error is a fatal calculation failure with a machine-readable kind.
type Error struct {
	Kind Kind   `json:"kind"`
	Msg  string `json:"message"`
}

var (
	ErrUnsupportedDesignCode = &Error{Kind: KindUnsupportedDesignCode}
	ErrUnsupportedMaterial   = &Error{Kind: KindUnsupportedMaterial}
	ErrInvalidInput          = &Error{Kind: KindInvalidInput}
	ErrEmptyCatalog          = &Error{Kind: KindEmptyCatalog}
)

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is matches any error of the same kind, so the sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) *Error {
	return New(KindInvalidInput, format, args...)
}

// KindOf returns the kind of a calculation error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
