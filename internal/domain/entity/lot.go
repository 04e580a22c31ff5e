package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot es un agregado derivado (no persistido): la identidad es
// (ProductID, LotNumber) y todo lo demás se reconstruye desde los movimientos.
type Lot struct {
	ProductID      string
	ProductName    string
	LotNumber      string
	Produced       decimal.Decimal // acumulado de producción
	Sold           decimal.Decimal // acumulado de ventas/descartes asignados
	ProductionDate time.Time
	ExpirationDate time.Time
	Investment     decimal.Decimal // costo acumulado de producción del lote
}

// Remaining devuelve la cantidad disponible del lote (producido − vendido).
func (l *Lot) Remaining() decimal.Decimal {
	return l.Produced.Sub(l.Sold)
}

// SoldOut indica si el lote quedó en cero.
func (l *Lot) SoldOut() bool {
	return l.Remaining().LessThanOrEqual(decimal.Zero)
}
