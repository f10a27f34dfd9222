package calcerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMatching(t *testing.T) {
	err := New(KindUnsupportedDesignCode, "design code %q is not implemented", "BS8110")

	assert.ErrorIs(t, err, ErrUnsupportedDesignCode)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, `unsupported_design_code: design code "BS8110" is not implemented`, err.Error())
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("load catalog: %w", New(KindEmptyCatalog, "catalog %s has no rows", "abc"))

	assert.Equal(t, KindEmptyCatalog, KindOf(err))
	assert.True(t, errors.Is(err, ErrEmptyCatalog))
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
}

func TestBareSentinelMessage(t *testing.T) {
	assert.Equal(t, "invalid_input", ErrInvalidInput.Error())
}
