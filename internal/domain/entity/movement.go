package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de movimiento.
const (
	DirectionIN  = "IN"  // compra (insumo) o producción (producto)
	DirectionOUT = "OUT" // consumo (insumo) o venta (producto)
)

// Origen de un movimiento de insumo. Se fija al crear el movimiento,
// nunca se infiere después por presencia de campos.
const (
	MovementManual   = "MANUAL"   // registrado a mano por el usuario
	MovementAssembly = "ASSEMBLY" // generado por una operación de armado
)

// MaterialMovement es un movimiento de stock de un insumo.
// Quantity siempre > 0; la dirección indica el signo.
// UnitPrice solo tiene valor en IN (precio de compra); en OUT queda en cero.
// AssemblyBatchID agrupa los movimientos generados por un mismo armado.
type MaterialMovement struct {
	ID              string
	MaterialID      string
	Direction       string // IN, OUT
	Kind            string // MANUAL, ASSEMBLY
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	Date            time.Time
	Description     string
	AssemblyBatchID string // vacío en movimientos manuales
}

// SaleLine es la asignación explícita de una venta a un lote concreto.
type SaleLine struct {
	LotNumber string
	Quantity  decimal.Decimal
}

// ProductMovement es un movimiento de stock de un producto terminado.
// En IN (producción): LotNumber generado + ExpirationDate obligatoria a futuro,
// UnitCost es el costo unitario de producción (inversión del lote).
// En OUT (venta): UnitPrice es el precio de venta y Lines puede detallar
// la distribución por lote; si Lines viene vacío la deducción queda sin asignar
// (ruta legada, ver ledger.WarnUnallocatedDeduction).
type ProductMovement struct {
	ID             string
	ProductID      string
	Direction      string // IN, OUT
	Quantity       decimal.Decimal
	Date           time.Time
	Description    string
	LotNumber      string          // solo IN
	ExpirationDate time.Time       // solo IN
	UnitCost       decimal.Decimal // solo IN
	UnitPrice      decimal.Decimal // solo OUT
	Lines          []SaleLine      // solo OUT, opcional
}
