package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-engine/internal/domain/entity"
	"github.com/jhoicas/Produccion-engine/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fecha(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func entrada(materialID, qty, price, day string) entity.MaterialMovement {
	return entity.MaterialMovement{
		MaterialID: materialID,
		Direction:  entity.DirectionIN,
		Kind:       entity.MovementManual,
		Quantity:   d(qty),
		UnitPrice:  d(price),
		Date:       fecha(day),
	}
}

func salida(materialID, qty, day string) entity.MaterialMovement {
	return entity.MaterialMovement{
		MaterialID: materialID,
		Direction:  entity.DirectionOUT,
		Kind:       entity.MovementManual,
		Quantity:   d(qty),
		Date:       fecha(day),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeMaterialBalance
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de referencia: [IN 10 @ 8][OUT 3] → saldo 7 al costo promedio 8.
func TestComputeMaterialBalance_CompraVenta(t *testing.T) {
	movs := []entity.MaterialMovement{
		entrada("harina", "10", "8", "2024-01-01"),
		salida("harina", "3", "2024-01-02"),
	}

	bal, warnings := ledger.ComputeMaterialBalance(movs)

	require.Empty(t, warnings)
	assert.True(t, bal.Quantity.Equal(d("7")), "cantidad: %s", bal.Quantity)
	assert.True(t, bal.WeightedAvgUnitCost.Equal(d("8")), "costo: %s", bal.WeightedAvgUnitCost)
}

// El costo promedio es histórico de compra: Σ(qty·precio) / Σ(qty comprada),
// no una función del stock restante.
func TestComputeMaterialBalance_PromedioPonderado(t *testing.T) {
	movs := []entity.MaterialMovement{
		entrada("azucar", "10", "5", "2024-01-01"),
		entrada("azucar", "30", "9", "2024-01-05"),
		salida("azucar", "35", "2024-01-06"),
	}

	bal, _ := ledger.ComputeMaterialBalance(movs)

	// (10*5 + 30*9) / 40 = 320/40 = 8
	assert.True(t, bal.Quantity.Equal(d("5")))
	assert.True(t, bal.WeightedAvgUnitCost.Equal(d("8")))
}

// El saldo no depende del orden de la lista (sumas conmutativas).
func TestComputeMaterialBalance_InvarianteAlOrden(t *testing.T) {
	ordenado := []entity.MaterialMovement{
		entrada("m", "10", "8", "2024-01-01"),
		entrada("m", "4", "12", "2024-01-02"),
		salida("m", "3", "2024-01-03"),
	}
	invertido := []entity.MaterialMovement{ordenado[2], ordenado[1], ordenado[0]}

	balA, _ := ledger.ComputeMaterialBalance(ordenado)
	balB, _ := ledger.ComputeMaterialBalance(invertido)

	assert.True(t, balA.Quantity.Equal(balB.Quantity))
	assert.True(t, balA.WeightedAvgUnitCost.Equal(balB.WeightedAvgUnitCost))
}

// Sin compras no hay divisor: el costo promedio queda en 0, sin pánico.
func TestComputeMaterialBalance_SinCompras(t *testing.T) {
	movs := []entity.MaterialMovement{salida("m", "2", "2024-01-01")}

	bal, warnings := ledger.ComputeMaterialBalance(movs)

	assert.True(t, bal.WeightedAvgUnitCost.IsZero())
	assert.True(t, bal.Quantity.Equal(d("-2")))
	// Saldo negativo = advertencia de integridad, no error.
	require.Len(t, warnings, 1)
	assert.Equal(t, ledger.WarnNegativeBalance, warnings[0].Kind)
	assert.Equal(t, "m", warnings[0].EntityID)
}

// Misma entrada dos veces → salida bit a bit idéntica (función pura).
func TestComputeMaterialBalance_Idempotente(t *testing.T) {
	movs := []entity.MaterialMovement{
		entrada("m", "7", "3.50", "2024-01-01"),
		salida("m", "2.25", "2024-01-02"),
	}

	balA, _ := ledger.ComputeMaterialBalance(movs)
	balB, _ := ledger.ComputeMaterialBalance(movs)

	assert.Equal(t, balA, balB)
}

func TestBalancesByMaterial_AgrupaPorInsumo(t *testing.T) {
	movs := []entity.MaterialMovement{
		entrada("a", "10", "2", "2024-01-01"),
		entrada("b", "5", "4", "2024-01-01"),
		salida("a", "4", "2024-01-02"),
	}

	balances, warnings := ledger.BalancesByMaterial(movs)

	require.Empty(t, warnings)
	require.Len(t, balances, 2)
	assert.True(t, balances["a"].Quantity.Equal(d("6")))
	assert.True(t, balances["b"].Quantity.Equal(d("5")))
}

func TestFilterUntil_SaldoAFecha(t *testing.T) {
	movs := []entity.MaterialMovement{
		entrada("m", "10", "8", "2024-01-01"),
		salida("m", "3", "2024-02-15"),
	}

	bal, _ := ledger.ComputeMaterialBalance(ledger.FilterUntil(movs, fecha("2024-01-31")))

	assert.True(t, bal.Quantity.Equal(d("10")))
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeLots
// ──────────────────────────────────────────────────────────────────────────────

func produccion(productID, lote, qty, cost, day, vence string) entity.ProductMovement {
	return entity.ProductMovement{
		ProductID:      productID,
		Direction:      entity.DirectionIN,
		Quantity:       d(qty),
		UnitCost:       d(cost),
		Date:           fecha(day),
		LotNumber:      lote,
		ExpirationDate: fecha(vence),
	}
}

func venta(productID, qty, day string, lines ...entity.SaleLine) entity.ProductMovement {
	return entity.ProductMovement{
		ProductID: productID,
		Direction: entity.DirectionOUT,
		Quantity:  d(qty),
		Date:      fecha(day),
		Lines:     lines,
	}
}

func TestComputeLots_AgrupaYDescuenta(t *testing.T) {
	movs := []entity.ProductMovement{
		produccion("pan", "L1", "10", "2", "2024-01-01", "2024-01-08"),
		produccion("pan", "L1", "5", "2", "2024-01-02", "2024-01-08"),
		produccion("pan", "L2", "4", "3", "2024-01-03", "2024-01-10"),
		venta("pan", "6", "2024-01-04", entity.SaleLine{LotNumber: "L1", Quantity: d("6")}),
	}

	lots, warnings := ledger.ComputeLots(movs)

	require.Empty(t, warnings)
	require.Len(t, lots, 2)
	// Orden determinista: por fecha de producción.
	assert.Equal(t, "L1", lots[0].LotNumber)
	assert.True(t, lots[0].Produced.Equal(d("15")))
	assert.True(t, lots[0].Remaining().Equal(d("9")))
	// Inversión acumulada: 10*2 + 5*2 = 30.
	assert.True(t, lots[0].Investment.Equal(d("30")))
	assert.Equal(t, fecha("2024-01-01"), lots[0].ProductionDate)
	assert.True(t, lots[1].Remaining().Equal(d("4")))
}

// Venta agregada sin detalle de lote: advertencia, nunca adivinar el lote.
func TestComputeLots_VentaSinDetalleEsAdvertencia(t *testing.T) {
	movs := []entity.ProductMovement{
		produccion("pan", "L1", "10", "2", "2024-01-01", "2024-01-08"),
		venta("pan", "4", "2024-01-02"), // sin Lines
	}

	lots, warnings := ledger.ComputeLots(movs)

	require.Len(t, warnings, 1)
	assert.Equal(t, ledger.WarnUnallocatedDeduction, warnings[0].Kind)
	// El lote queda intacto: la fuente de verdad del descuento es el caller.
	require.Len(t, lots, 1)
	assert.True(t, lots[0].Remaining().Equal(d("10")))
}

func TestComputeLots_LoteDesconocido(t *testing.T) {
	movs := []entity.ProductMovement{
		produccion("pan", "L1", "10", "2", "2024-01-01", "2024-01-08"),
		venta("pan", "1", "2024-01-02", entity.SaleLine{LotNumber: "NOEXISTE", Quantity: d("1")}),
	}

	_, warnings := ledger.ComputeLots(movs)

	require.Len(t, warnings, 1)
	assert.Equal(t, ledger.WarnUnknownLot, warnings[0].Kind)
}

// Los lotes agotados se conservan en el resultado (historia visible) pero
// ActiveLots los excluye.
func TestComputeLots_AgotadoSeConservaPeroNoEsActivo(t *testing.T) {
	movs := []entity.ProductMovement{
		produccion("pan", "L1", "10", "2", "2024-01-01", "2024-01-08"),
		produccion("pan", "L2", "5", "2", "2024-01-02", "2024-01-09"),
		venta("pan", "10", "2024-01-03", entity.SaleLine{LotNumber: "L1", Quantity: d("10")}),
	}

	lots, warnings := ledger.ComputeLots(movs)

	require.Empty(t, warnings)
	require.Len(t, lots, 2)
	assert.True(t, lots[0].SoldOut())

	active := ledger.ActiveLots(lots)
	require.Len(t, active, 1)
	assert.Equal(t, "L2", active[0].LotNumber)
}

func TestComputeLots_SobreventaEsAdvertencia(t *testing.T) {
	movs := []entity.ProductMovement{
		produccion("pan", "L1", "5", "2", "2024-01-01", "2024-01-08"),
		venta("pan", "8", "2024-01-02", entity.SaleLine{LotNumber: "L1", Quantity: d("8")}),
	}

	lots, warnings := ledger.ComputeLots(movs)

	require.Len(t, warnings, 1)
	assert.Equal(t, ledger.WarnNegativeBalance, warnings[0].Kind)
	// Mejor esfuerzo: el saldo negativo se devuelve igual.
	assert.True(t, lots[0].Remaining().Equal(d("-3")))
}
