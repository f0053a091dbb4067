package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrConcurrentModification = errors.New("modificación concurrente, reintente la operación")
	ErrStorageUnavailable     = errors.New("almacenamiento no disponible")
)

// LineError identifica la línea de un lote (GRN, salida, consumo) que hizo fallar la operación.
// Como los lotes son todo-o-nada, ninguna línea del lote quedó aplicada.
type LineError struct {
	Line   int
	ItemID string
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("línea %d (item %s): %v", e.Line, e.ItemID, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// NewLineError envuelve err con la posición de la línea (base 0) y el item afectado.
func NewLineError(line int, itemID string, err error) error {
	return &LineError{Line: line, ItemID: itemID, Err: err}
}

// Invalid devuelve ErrInvalidInput con un detalle legible para el cliente.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
