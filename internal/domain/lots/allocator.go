// Package lots valida la distribución de ventas entre lotes y clasifica los
// lotes por urgencia de vencimiento (servicio de dominio, funciones puras).
package lots

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-engine/internal/domain"
	"github.com/jhoicas/Produccion-engine/internal/domain/entity"
)

// AllocationPolicy es la política con la que SuggestAllocation reparte una
// cantidad entre lotes. No existe política implícita: la venta siempre se
// confirma con una asignación explícita (AllocateSale); la sugerencia solo
// prellena el formulario de selección de lotes.
type AllocationPolicy string

const (
	// PolicyFIFO consume primero los lotes producidos antes.
	PolicyFIFO AllocationPolicy = "FIFO"
	// PolicyLIFO consume primero los lotes producidos después.
	PolicyLIFO AllocationPolicy = "LIFO"
	// PolicyExpiryFirst consume primero los lotes que vencen antes.
	PolicyExpiryFirst AllocationPolicy = "EXPIRY_FIRST"
)

// AllocateSale valida una asignación explícita de venta contra los lotes
// disponibles. Todo-o-nada: o la asignación completa es válida y se devuelve
// normalizada (una línea por lote), o se devuelve error sin asignación parcial.
//
//   - Σ cantidades != requestedQty        → domain.ErrAllocationMismatch
//   - línea sobre lote inexistente        → domain.ErrNotFound (envuelto)
//   - línea que excede el restante        → domain.InsufficientLotStockError
func AllocateSale(
	available []entity.Lot,
	requestedQty decimal.Decimal,
	explicit []entity.SaleLine,
) ([]entity.SaleLine, error) {
	if !requestedQty.GreaterThan(decimal.Zero) || len(explicit) == 0 {
		return nil, domain.ErrInvalidInput
	}

	byLot := make(map[string]entity.Lot, len(available))
	for _, lot := range available {
		byLot[lot.LotNumber] = lot
	}

	// Normalizar: sumar líneas repetidas del mismo lote antes de validar.
	perLot := make(map[string]decimal.Decimal, len(explicit))
	order := make([]string, 0, len(explicit))
	total := decimal.Zero
	for _, line := range explicit {
		if !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if _, seen := perLot[line.LotNumber]; !seen {
			order = append(order, line.LotNumber)
		}
		perLot[line.LotNumber] = perLot[line.LotNumber].Add(line.Quantity)
		total = total.Add(line.Quantity)
	}

	if !total.Equal(requestedQty) {
		return nil, domain.ErrAllocationMismatch
	}

	out := make([]entity.SaleLine, 0, len(order))
	for _, lotNumber := range order {
		qty := perLot[lotNumber]
		lot, ok := byLot[lotNumber]
		if !ok {
			return nil, fmt.Errorf("lote %s: %w", lotNumber, domain.ErrNotFound)
		}
		if qty.GreaterThan(lot.Remaining()) {
			return nil, &domain.InsufficientLotStockError{
				LotNumber: lotNumber,
				Requested: qty,
				Available: lot.Remaining(),
			}
		}
		out = append(out, entity.SaleLine{LotNumber: lotNumber, Quantity: qty})
	}
	return out, nil
}

// SuggestAllocation reparte requestedQty entre los lotes activos según la
// política indicada, en forma voraz. El resultado es una sugerencia para el
// formulario de venta; la confirmación pasa siempre por AllocateSale.
// Si el stock total no alcanza devuelve domain.ErrInsufficientStock.
func SuggestAllocation(
	available []entity.Lot,
	requestedQty decimal.Decimal,
	policy AllocationPolicy,
) ([]entity.SaleLine, error) {
	if !requestedQty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	candidates := make([]entity.Lot, 0, len(available))
	for _, lot := range available {
		if !lot.SoldOut() {
			candidates = append(candidates, lot)
		}
	}

	switch policy {
	case PolicyFIFO:
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].ProductionDate.Before(candidates[j].ProductionDate)
		})
	case PolicyLIFO:
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].ProductionDate.After(candidates[j].ProductionDate)
		})
	case PolicyExpiryFirst:
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].ExpirationDate.Before(candidates[j].ExpirationDate)
		})
	default:
		return nil, domain.ErrInvalidInput
	}

	var (
		out     []entity.SaleLine
		pending = requestedQty
	)
	for _, lot := range candidates {
		if pending.LessThanOrEqual(decimal.Zero) {
			break
		}
		take := decimal.Min(pending, lot.Remaining())
		out = append(out, entity.SaleLine{LotNumber: lot.LotNumber, Quantity: take})
		pending = pending.Sub(take)
	}
	if pending.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInsufficientStock
	}
	return out, nil
}
