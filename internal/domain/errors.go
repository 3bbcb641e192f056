package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Los errores estructurados de abajo
// envuelven a estos centinelas para que errors.Is funcione en cualquier capa.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrExportIncomplete  = errors.New("exportación incompleta")
)

// ErrorKind identificador estable (legible por máquina) de cada tipo de error.
type ErrorKind string

const (
	KindValidation        ErrorKind = "VALIDATION"
	KindInsufficientStock ErrorKind = "INSUFFICIENT_STOCK"
	KindConflict          ErrorKind = "CONFLICT"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindExportIncomplete  ErrorKind = "EXPORT_INCOMPLETE"
	KindUnauthorized      ErrorKind = "UNAUTHORIZED"
	KindForbidden         ErrorKind = "FORBIDDEN"
	KindInternal          ErrorKind = "INTERNAL"
)

// ValidationError entrada mal formada. Field/Value/Limit forman el payload estructurado.
type ValidationError struct {
	Field string
	Value any
	Limit any
	Rule  string // positive, non_negative, required, range, one_of, mismatch, scale
}

func (e *ValidationError) Error() string {
	if e.Limit != nil {
		return fmt.Sprintf("validation: %s=%v rule=%s limit=%v", e.Field, e.Value, e.Rule, e.Limit)
	}
	return fmt.Sprintf("validation: %s=%v rule=%s", e.Field, e.Value, e.Rule)
}

func (e *ValidationError) Unwrap() error   { return ErrInvalidInput }
func (e *ValidationError) Kind() ErrorKind { return KindValidation }

// Invalid atajo para construir un ValidationError.
func Invalid(field string, value any, rule string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Rule: rule}
}

// InsufficientStockError una salida dejaría el stock en negativo. Nunca se recorta en silencio.
type InsufficientStockError struct {
	PartID    int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient_stock: part=%d requested=%d available=%d", e.PartID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error   { return ErrInsufficientStock }
func (e *InsufficientStockError) Kind() ErrorKind { return KindInsufficientStock }

// ConflictError modificación concurrente detectada al serializar escrituras sobre una refacción.
type ConflictError struct {
	Resource string
	ID       int64
	Cause    error
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("conflict: %s=%d: %v", e.Resource, e.ID, e.Cause)
	}
	return fmt.Sprintf("conflict: %s=%d", e.Resource, e.ID)
}

func (e *ConflictError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrConflict, e.Cause}
	}
	return []error{ErrConflict}
}
func (e *ConflictError) Kind() ErrorKind { return KindConflict }

// NotFoundError refacción, servicio o venta inexistente.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not_found: %s=%d", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error   { return ErrNotFound }
func (e *NotFoundError) Kind() ErrorKind { return KindNotFound }

// NotFound atajo para construir un NotFoundError.
func NotFound(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ExportIncompleteError el recorrido de todas las páginas no pudo completarse.
type ExportIncompleteError struct {
	PagesFetched  int
	PagesExpected int
	Cause         error
}

func (e *ExportIncompleteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export_incomplete: pages=%d/%d: %v", e.PagesFetched, e.PagesExpected, e.Cause)
	}
	return fmt.Sprintf("export_incomplete: pages=%d/%d", e.PagesFetched, e.PagesExpected)
}

func (e *ExportIncompleteError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrExportIncomplete, e.Cause}
	}
	return []error{ErrExportIncomplete}
}
func (e *ExportIncompleteError) Kind() ErrorKind { return KindExportIncomplete }

// KindOf devuelve el tipo estable de err. Los errores no tipados son INTERNAL.
func KindOf(err error) ErrorKind {
	var k interface{ Kind() ErrorKind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrExportIncomplete):
		return KindExportIncomplete
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	}
	return KindInternal
}

// IsRetryable true si el error puede resolverse reintentando con una lectura fresca.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
