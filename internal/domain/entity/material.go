package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida admitidas para un insumo.
const (
	UnitMass   = "MASS"   // gramos/kilos
	UnitVolume = "VOLUME" // mililitros/litros
	UnitCount  = "COUNT"  // unidades
)

// Tipos de insumo.
const (
	MaterialSimple    = "SIMPLE"    // se compra directamente
	MaterialComposite = "COMPOSITE" // se arma a partir de insumos simples
)

// RecipeLine es una línea de la receta de un insumo compuesto o de un producto:
// cuánto del componente se consume por cada unidad armada/producida.
type RecipeLine struct {
	MaterialID string
	QtyPerUnit decimal.Decimal
}

// Material representa un insumo (materia prima), simple o compuesto.
// Recipe solo aplica cuando Kind == MaterialComposite y debe referenciar
// únicamente insumos simples, sin repetir componente.
type Material struct {
	ID          string
	Name        string
	UnitMeasure string // MASS, VOLUME, COUNT
	Kind        string // SIMPLE, COMPOSITE
	MinStock    decimal.Decimal
	Recipe      []RecipeLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsComposite indica si el insumo se arma por receta.
func (m *Material) IsComposite() bool { return m.Kind == MaterialComposite }
