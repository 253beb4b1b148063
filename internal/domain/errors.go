package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound   = errors.New("recurso no encontrado")
	ErrValidation = errors.New("validación de negocio")
	ErrConflict   = errors.New("conflicto con el estado actual")

	// ErrDuplicateNumber lo devuelven los repositorios cuando el INSERT choca con
	// el índice único de journal_entries.number. Solo CreateEntry lo reintenta.
	ErrDuplicateNumber = errors.New("número de comprobante duplicado")
)

// Error es un error de negocio con motivo legible para el cliente.
// Kind es uno de los sentinelas de arriba; errors.Is(err, ErrValidation) funciona.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewValidationError crea un error corregible por el cliente (400).
func NewValidationError(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError crea un error de recurso inexistente (404).
func NewNotFoundError(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewConflictError crea un error de carrera o conflicto de numeración (409).
func NewConflictError(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}
