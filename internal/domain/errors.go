package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrCycleDetected      = errors.New("ciclo detectado en la lista de materiales")
)

// CycleError indica que la expansión de la BOM volvió a visitar un producto
// que ya está en la ruta actual. Incluye el ID del producto ofensor.
type CycleError struct {
	ProductID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("ciclo en la BOM: el producto %s es componente transitivo de sí mismo", e.ProductID)
}

// Unwrap permite errors.Is(err, ErrCycleDetected).
func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}
