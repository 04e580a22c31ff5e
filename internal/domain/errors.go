package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicateComponent = errors.New("la receta repite un componente")
	ErrNestedComposite    = errors.New("la receta referencia un insumo compuesto")
	ErrAllocationMismatch = errors.New("la asignación por lotes no suma la cantidad solicitada")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrMovementReferenced = errors.New("el movimiento tiene movimientos dependientes")
)

// UnknownComponentError indica que la receta referencia un insumo
// ausente de los saldos suministrados.
type UnknownComponentError struct {
	MaterialID string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("componente desconocido: %s", e.MaterialID)
}

// InsufficientLotStockError indica que una línea de asignación excede
// lo disponible en el lote.
type InsufficientLotStockError struct {
	LotNumber string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientLotStockError) Error() string {
	return fmt.Sprintf("lote %s: solicitado %s, disponible %s",
		e.LotNumber, e.Requested.String(), e.Available.String())
}
