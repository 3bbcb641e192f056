package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf_ErroresTipados(t *testing.T) {
	cases := []struct {
		err  error
		kind ErrorKind
	}{
		{Invalid("quantity", 0, "positive"), KindValidation},
		{&InsufficientStockError{PartID: 1, Requested: 10, Available: 5}, KindInsufficientStock},
		{&ConflictError{Resource: "part", ID: 1}, KindConflict},
		{NotFound("part", 9), KindNotFound},
		{&ExportIncompleteError{PagesFetched: 1, PagesExpected: 3}, KindExportIncomplete},
		{fmt.Errorf("envuelto: %w", NotFound("service", 2)), KindNotFound},
		{ErrForbidden, KindForbidden},
		{errors.New("boom"), KindInternal},
	}
	for _, c := range cases {
		assert.Equal(t, c.kind, KindOf(c.err), c.err.Error())
	}
}

func TestErroresTipados_EnvuelvenCentinelas(t *testing.T) {
	assert.ErrorIs(t, Invalid("x", 1, "positive"), ErrInvalidInput)
	assert.ErrorIs(t, &InsufficientStockError{}, ErrInsufficientStock)
	assert.ErrorIs(t, NotFound("part", 1), ErrNotFound)

	cause := errors.New("pagina 2 falló")
	exp := &ExportIncompleteError{PagesFetched: 1, PagesExpected: 3, Cause: cause}
	assert.ErrorIs(t, exp, ErrExportIncomplete)
	assert.ErrorIs(t, exp, cause)

	conflict := &ConflictError{Resource: "part", ID: 3, Cause: cause}
	assert.ErrorIs(t, conflict, ErrConflict)
	assert.True(t, IsRetryable(conflict))
	assert.False(t, IsRetryable(ErrInvalidInput))
}

func TestInsufficientStockError_Payload(t *testing.T) {
	var err error = fmt.Errorf("registrar salida: %w", &InsufficientStockError{PartID: 4, Requested: 10, Available: 5})

	var ise *InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 10, ise.Requested)
	assert.Equal(t, 5, ise.Available)
	assert.Contains(t, err.Error(), "requested=10 available=5")
}
