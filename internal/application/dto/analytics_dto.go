package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummaryDTO es el resumen del panel financiero de inventario:
// valorización de insumos, lotes por vencer y advertencias de integridad,
// todo derivado de una misma foto de movimientos.
type DashboardSummaryDTO struct {
	GeneratedAt   time.Time
	DateLabel     string // etiqueta legible, ej: "Agosto 2026"
	TotalValue    decimal.Decimal
	LowStockCount int
	Materials     []MaterialValuationDTO
	ExpiringLots  []ExpiringLotDTO
	Warnings      []IntegrityWarningDTO
	HorizonDays   int
}
