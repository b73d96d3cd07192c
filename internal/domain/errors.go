package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio del libro de inventario (sin dependencias externas).
var (
	ErrStorageUnavailable   = errors.New("almacenamiento no disponible")
	ErrValidation           = errors.New("entrada inválida")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrInconsistentLotState = errors.New("estado de lote inconsistente")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrDuplicate            = errors.New("registro duplicado")

	// ErrNotFound y ErrReturnExceedsOutstanding también son errores de validación:
	// errors.Is(err, ErrValidation) es verdadero para ambos.
	ErrNotFound                 = fmt.Errorf("%w: recurso no encontrado", ErrValidation)
	ErrReturnExceedsOutstanding = fmt.Errorf("%w: la devolución excede la cantidad pendiente", ErrValidation)
)
