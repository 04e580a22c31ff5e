// Package assembly resuelve el costo y el consumo de componentes al armar
// insumos compuestos (servicio de dominio, funciones puras).
//
// Resolver NO muta stock: solo reporta factibilidad y costo para que la
// capa de aplicación valide antes de enviar los movimientos al backend.
package assembly

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-engine/internal/domain"
	"github.com/jhoicas/Produccion-engine/internal/domain/entity"
	"github.com/jhoicas/Produccion-engine/internal/domain/ledger"
)

// ComponentRequirement es el consumo calculado de un componente de la receta.
type ComponentRequirement struct {
	MaterialID  string
	RequiredQty decimal.Decimal
}

// Shortage es un componente cuyo requerido excede el saldo disponible.
type Shortage struct {
	MaterialID string
	Required   decimal.Decimal
	Available  decimal.Decimal
}

// Resolution es el resultado de resolver un armado.
//
// TotalCost se calcula siempre, incluso con faltantes, para mostrarlo al
// usuario; si Shortages no está vacío el armado NO es ejecutable y el caller
// no debe enviarlo al backend.
type Resolution struct {
	TotalCost   decimal.Decimal
	Consumption []ComponentRequirement
	Shortages   []Shortage
}

// Feasible indica si el armado puede ejecutarse (sin faltantes).
func (r *Resolution) Feasible() bool { return len(r.Shortages) == 0 }

// UnitCost devuelve el costo unitario del compuesto armado (TotalCost / qty).
// Es el costo que se adjunta al movimiento IN del compuesto.
func (r *Resolution) UnitCost(requestedQty decimal.Decimal) decimal.Decimal {
	if requestedQty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return r.TotalCost.Div(requestedQty)
}

// Resolve calcula requerimientos, faltantes y costo total para armar
// requestedQty unidades del compuesto, contra los saldos suministrados.
//
// Precondiciones: requestedQty > 0, composite.Kind == COMPOSITE y todo
// componente de la receta presente en balances (si no, UnknownComponentError).
// Toda la aritmética es decimal; el redondeo queda para la capa de
// presentación, nunca entre pasos.
func Resolve(
	composite *entity.Material,
	requestedQty decimal.Decimal,
	balances map[string]ledger.MaterialBalance,
) (*Resolution, error) {
	if composite == nil || !composite.IsComposite() || len(composite.Recipe) == 0 {
		return nil, domain.ErrInvalidInput
	}
	return ResolveRecipe(composite.Recipe, requestedQty, balances)
}

// ResolveRecipe es la forma general de Resolve sobre cualquier receta:
// la usan tanto el armado de compuestos como la producción de productos
// terminados, que comparten la misma aritmética de consumo y faltantes.
func ResolveRecipe(
	recipe []entity.RecipeLine,
	requestedQty decimal.Decimal,
	balances map[string]ledger.MaterialBalance,
) (*Resolution, error) {
	if len(recipe) == 0 || !requestedQty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	res := &Resolution{
		TotalCost:   decimal.Zero,
		Consumption: make([]ComponentRequirement, 0, len(recipe)),
	}
	for _, line := range recipe {
		bal, ok := balances[line.MaterialID]
		if !ok {
			return nil, &domain.UnknownComponentError{MaterialID: line.MaterialID}
		}

		required := line.QtyPerUnit.Mul(requestedQty)
		res.Consumption = append(res.Consumption, ComponentRequirement{
			MaterialID:  line.MaterialID,
			RequiredQty: required,
		})
		if required.GreaterThan(bal.Quantity) {
			res.Shortages = append(res.Shortages, Shortage{
				MaterialID: line.MaterialID,
				Required:   required,
				Available:  bal.Quantity,
			})
		}
		res.TotalCost = res.TotalCost.Add(required.Mul(bal.WeightedAvgUnitCost))
	}
	return res, nil
}

// RecalculateConsumption recalcula el consumo de componentes de un armado
// editado, siempre desde las proporciones ORIGINALES de la receta y la nueva
// cantidad, nunca escalando el consumo registrado, para evitar deriva entre
// lo mostrado y lo persistido.
func RecalculateConsumption(composite *entity.Material, newQty decimal.Decimal) ([]ComponentRequirement, error) {
	if composite == nil || !composite.IsComposite() || !newQty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	out := make([]ComponentRequirement, 0, len(composite.Recipe))
	for _, line := range composite.Recipe {
		out = append(out, ComponentRequirement{
			MaterialID:  line.MaterialID,
			RequiredQty: line.QtyPerUnit.Mul(newQty),
		})
	}
	return out, nil
}

// ValidateRecipe aplica los invariantes de receta: sin componentes repetidos
// y, para compuestos, solo componentes simples (sin anidar compuestos).
// catalog mapea id → insumo; un componente ausente es UnknownComponentError.
func ValidateRecipe(recipe []entity.RecipeLine, catalog map[string]*entity.Material) error {
	seen := make(map[string]bool, len(recipe))
	for _, line := range recipe {
		if seen[line.MaterialID] {
			return domain.ErrDuplicateComponent
		}
		seen[line.MaterialID] = true

		if !line.QtyPerUnit.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		component, ok := catalog[line.MaterialID]
		if !ok {
			return &domain.UnknownComponentError{MaterialID: line.MaterialID}
		}
		if component.IsComposite() {
			return domain.ErrNestedComposite
		}
	}
	return nil
}
