// Package dto define los objetos de salida que consumen la capa de
// presentación y los reportes. Montos y cantidades van redondeados a 2
// decimales: este es el borde de presentación, el único punto donde se
// redondea.
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialValuationDTO es la fila de valorización de un insumo.
type MaterialValuationDTO struct {
	MaterialID    string
	Name          string
	UnitMeasure   string
	Kind          string
	Quantity      decimal.Decimal
	AvgUnitCost   decimal.Decimal
	TotalValue    decimal.Decimal // Quantity × AvgUnitCost
	MinStock      decimal.Decimal
	BelowMinStock bool
}

// ExpiringLotDTO es la fila del panel de vencimientos próximos.
type ExpiringLotDTO struct {
	ProductID      string
	ProductName    string
	LotNumber      string
	Remaining      decimal.Decimal
	Investment     decimal.Decimal
	ExpirationDate time.Time
	DaysLeft       int
	Class          string // EXPIRED, CRITICAL, WARNING, INFORMATIONAL
}

// IntegrityWarningDTO es una advertencia de integridad para mostrar al
// usuario sin detener el cálculo.
type IntegrityWarningDTO struct {
	Kind     string
	EntityID string
	Detail   string
}
