// Package ledger reconstruye saldos e inventario por lote a partir de la
// secuencia de movimientos (servicio de dominio, funciones puras).
//
// Los movimientos son la fuente de verdad del backend; aquí solo se derivan
// agregados recalculables en memoria. Nada en este paquete muta estado ni
// hace I/O: misma entrada, misma salida.
package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-engine/internal/domain/entity"
)

// Tipos de advertencia de integridad. No detienen el cálculo: el saldo
// devuelto es el mejor esfuerzo y el caller decide cómo mostrarlas.
const (
	WarnNegativeBalance      = "NEGATIVE_BALANCE"      // el saldo quedó negativo
	WarnUnallocatedDeduction = "UNALLOCATED_DEDUCTION" // venta sin detalle de lote
	WarnUnknownLot           = "UNKNOWN_LOT"           // venta referencia un lote inexistente
)

// Warning es una advertencia de integridad de datos detectada al replay.
type Warning struct {
	Kind       string
	EntityID   string // insumo o producto afectado
	LotNumber  string // vacío si no aplica
	MovementID string
	Detail     string
}

// MaterialBalance es el saldo actual de un insumo.
// WeightedAvgUnitCost es el promedio histórico de compra:
// Σ(cantidad·precio de las entradas) / Σ(cantidad de las entradas).
// No depende del stock restante.
type MaterialBalance struct {
	Quantity            decimal.Decimal
	WeightedAvgUnitCost decimal.Decimal
}

// ComputeMaterialBalance acumula los movimientos de UN insumo en su saldo
// actual. El orden de la lista no afecta el resultado (sumas conmutativas);
// para saldos a una fecha el caller filtra antes con FilterUntil.
func ComputeMaterialBalance(movs []entity.MaterialMovement) (MaterialBalance, []Warning) {
	var (
		qty       = decimal.Zero
		costBasis = decimal.Zero
		purchased = decimal.Zero
	)
	for _, mv := range movs {
		switch mv.Direction {
		case entity.DirectionIN:
			qty = qty.Add(mv.Quantity)
			purchased = purchased.Add(mv.Quantity)
			costBasis = costBasis.Add(mv.Quantity.Mul(mv.UnitPrice))
		case entity.DirectionOUT:
			qty = qty.Sub(mv.Quantity)
		}
	}

	avg := decimal.Zero
	if purchased.GreaterThan(decimal.Zero) {
		avg = costBasis.Div(purchased)
	}

	var warnings []Warning
	if qty.LessThan(decimal.Zero) {
		materialID := ""
		if len(movs) > 0 {
			materialID = movs[0].MaterialID
		}
		warnings = append(warnings, Warning{
			Kind:     WarnNegativeBalance,
			EntityID: materialID,
			Detail:   fmt.Sprintf("saldo negativo: %s", qty.String()),
		})
	}
	return MaterialBalance{Quantity: qty, WeightedAvgUnitCost: avg}, warnings
}

// BalancesByMaterial agrupa los movimientos por insumo y calcula el saldo
// de cada uno. Conveniencia para el resolver de armado, que necesita los
// saldos de todos los componentes de una receta.
func BalancesByMaterial(movs []entity.MaterialMovement) (map[string]MaterialBalance, []Warning) {
	grouped := make(map[string][]entity.MaterialMovement)
	for _, mv := range movs {
		grouped[mv.MaterialID] = append(grouped[mv.MaterialID], mv)
	}

	balances := make(map[string]MaterialBalance, len(grouped))
	var warnings []Warning
	for id, ms := range grouped {
		b, ws := ComputeMaterialBalance(ms)
		balances[id] = b
		warnings = append(warnings, ws...)
	}
	return balances, warnings
}

// FilterUntil devuelve los movimientos con fecha <= cutoff, para calcular
// saldos "a una fecha" sin cambiar la semántica del acumulador.
func FilterUntil(movs []entity.MaterialMovement, cutoff time.Time) []entity.MaterialMovement {
	out := make([]entity.MaterialMovement, 0, len(movs))
	for _, mv := range movs {
		if !mv.Date.After(cutoff) {
			out = append(out, mv)
		}
	}
	return out
}

// ComputeLots reconstruye los lotes de UN producto desde sus movimientos.
//
//   - IN: agrupa por número de lote, acumulando cantidad e inversión
//     (cantidad × costo unitario de producción). La fecha de producción es
//     la del primer IN del lote.
//   - OUT con detalle de lote: descuenta de cada lote referenciado.
//   - OUT sin detalle (ruta legada, venta agregada): NO se adivina el lote;
//     se emite WarnUnallocatedDeduction y los lotes quedan intactos.
//
// Los lotes agotados (restante = 0) se conservan en el resultado para que
// la historia siga visible; ActiveLots los filtra.
func ComputeLots(movs []entity.ProductMovement) ([]entity.Lot, []Warning) {
	byLot := make(map[string]*entity.Lot)
	var warnings []Warning

	for _, mv := range movs {
		if mv.Direction != entity.DirectionIN {
			continue
		}
		lot, ok := byLot[mv.LotNumber]
		if !ok {
			lot = &entity.Lot{
				ProductID:      mv.ProductID,
				LotNumber:      mv.LotNumber,
				Produced:       decimal.Zero,
				Sold:           decimal.Zero,
				ProductionDate: mv.Date,
				ExpirationDate: mv.ExpirationDate,
				Investment:     decimal.Zero,
			}
			byLot[mv.LotNumber] = lot
		}
		lot.Produced = lot.Produced.Add(mv.Quantity)
		lot.Investment = lot.Investment.Add(mv.Quantity.Mul(mv.UnitCost))
		if mv.Date.Before(lot.ProductionDate) {
			lot.ProductionDate = mv.Date
		}
	}

	for _, mv := range movs {
		if mv.Direction != entity.DirectionOUT {
			continue
		}
		if len(mv.Lines) == 0 {
			warnings = append(warnings, Warning{
				Kind:       WarnUnallocatedDeduction,
				EntityID:   mv.ProductID,
				MovementID: mv.ID,
				Detail:     fmt.Sprintf("venta de %s sin detalle de lote", mv.Quantity.String()),
			})
			continue
		}
		for _, line := range mv.Lines {
			lot, ok := byLot[line.LotNumber]
			if !ok {
				warnings = append(warnings, Warning{
					Kind:       WarnUnknownLot,
					EntityID:   mv.ProductID,
					LotNumber:  line.LotNumber,
					MovementID: mv.ID,
					Detail:     "venta sobre un lote sin producción registrada",
				})
				continue
			}
			lot.Sold = lot.Sold.Add(line.Quantity)
			if lot.Remaining().LessThan(decimal.Zero) {
				warnings = append(warnings, Warning{
					Kind:       WarnNegativeBalance,
					EntityID:   mv.ProductID,
					LotNumber:  line.LotNumber,
					MovementID: mv.ID,
					Detail:     fmt.Sprintf("lote en negativo: %s", lot.Remaining().String()),
				})
			}
		}
	}

	lots := make([]entity.Lot, 0, len(byLot))
	for _, lot := range byLot {
		lots = append(lots, *lot)
	}
	// Orden determinista: fecha de producción, luego número de lote.
	sort.SliceStable(lots, func(i, j int) bool {
		if !lots[i].ProductionDate.Equal(lots[j].ProductionDate) {
			return lots[i].ProductionDate.Before(lots[j].ProductionDate)
		}
		return lots[i].LotNumber < lots[j].LotNumber
	})
	return lots, warnings
}

// ActiveLots devuelve solo los lotes con cantidad restante > 0.
func ActiveLots(lots []entity.Lot) []entity.Lot {
	out := make([]entity.Lot, 0, len(lots))
	for _, lot := range lots {
		if !lot.SoldOut() {
			out = append(out, lot)
		}
	}
	return out
}
