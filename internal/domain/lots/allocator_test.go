package lots_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-engine/internal/domain"
	"github.com/jhoicas/Produccion-engine/internal/domain/entity"
	"github.com/jhoicas/Produccion-engine/internal/domain/lots"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fecha(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func lote(numero, producido, vendido, prodDay, venceDay string) entity.Lot {
	return entity.Lot{
		ProductID:      "pan",
		LotNumber:      numero,
		Produced:       d(producido),
		Sold:           d(vendido),
		ProductionDate: fecha(prodDay),
		ExpirationDate: fecha(venceDay),
	}
}

func linea(numero, qty string) entity.SaleLine {
	return entity.SaleLine{LotNumber: numero, Quantity: d(qty)}
}

// ──────────────────────────────────────────────────────────────────────────────
// AllocateSale
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de referencia: L1 restante 10, L2 restante 4.
// 14 = [{L1,10},{L2,4}] → ok; [{L1,10},{L2,5}] → stock insuficiente en L2.
func TestAllocateSale_EscenarioReferencia(t *testing.T) {
	disponibles := []entity.Lot{
		lote("L1", "10", "0", "2024-01-01", "2024-02-01"),
		lote("L2", "4", "0", "2024-01-05", "2024-02-05"),
	}

	ok, err := lots.AllocateSale(disponibles, d("14"),
		[]entity.SaleLine{linea("L1", "10"), linea("L2", "4")})
	require.NoError(t, err)
	require.Len(t, ok, 2)

	_, err = lots.AllocateSale(disponibles, d("14"),
		[]entity.SaleLine{linea("L1", "10"), linea("L2", "5")})
	var insuf *domain.InsufficientLotStockError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, "L2", insuf.LotNumber)
	assert.True(t, insuf.Requested.Equal(d("5")))
	assert.True(t, insuf.Available.Equal(d("4")))
}

// Cualquier discrepancia entre la suma y la cantidad solicitada se rechaza.
func TestAllocateSale_SumaDistintaEsRechazo(t *testing.T) {
	disponibles := []entity.Lot{lote("L1", "100", "0", "2024-01-01", "2024-02-01")}

	casos := []string{"1", "9.99", "10.01", "50"}
	for _, qty := range casos {
		_, err := lots.AllocateSale(disponibles, d(qty), []entity.SaleLine{linea("L1", "10")})
		if qty == "10" {
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAllocationMismatch, "solicitado %s", qty)
	}
}

// Líneas repetidas del mismo lote se normalizan sumando antes de validar.
func TestAllocateSale_NormalizaLineasRepetidas(t *testing.T) {
	disponibles := []entity.Lot{lote("L1", "10", "0", "2024-01-01", "2024-02-01")}

	out, err := lots.AllocateSale(disponibles, d("7"),
		[]entity.SaleLine{linea("L1", "3"), linea("L1", "4")})

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Quantity.Equal(d("7")))
}

func TestAllocateSale_LoteInexistente(t *testing.T) {
	disponibles := []entity.Lot{lote("L1", "10", "0", "2024-01-01", "2024-02-01")}

	_, err := lots.AllocateSale(disponibles, d("2"), []entity.SaleLine{linea("NOEXISTE", "2")})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El restante considera lo ya vendido del lote.
func TestAllocateSale_RespetaVendido(t *testing.T) {
	disponibles := []entity.Lot{lote("L1", "10", "8", "2024-01-01", "2024-02-01")}

	_, err := lots.AllocateSale(disponibles, d("3"), []entity.SaleLine{linea("L1", "3")})

	var insuf *domain.InsufficientLotStockError
	require.ErrorAs(t, err, &insuf)
	assert.True(t, insuf.Available.Equal(d("2")))
}

func TestAllocateSale_EntradasInvalidas(t *testing.T) {
	disponibles := []entity.Lot{lote("L1", "10", "0", "2024-01-01", "2024-02-01")}

	// Sin asignación explícita no hay política implícita: entrada inválida.
	_, err := lots.AllocateSale(disponibles, d("5"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = lots.AllocateSale(disponibles, d("0"), []entity.SaleLine{linea("L1", "0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = lots.AllocateSale(disponibles, d("5"), []entity.SaleLine{linea("L1", "-5")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// SuggestAllocation: política explícita, sin default oculto
// ──────────────────────────────────────────────────────────────────────────────

func TestSuggestAllocation_Politicas(t *testing.T) {
	// L1: producido primero, vence último. L3: producido último, vence primero.
	disponibles := []entity.Lot{
		lote("L1", "10", "0", "2024-01-01", "2024-03-01"),
		lote("L2", "10", "0", "2024-01-10", "2024-02-10"),
		lote("L3", "10", "0", "2024-01-20", "2024-02-01"),
	}

	casos := []struct {
		politica lots.AllocationPolicy
		primero  string
	}{
		{lots.PolicyFIFO, "L1"},
		{lots.PolicyLIFO, "L3"},
		{lots.PolicyExpiryFirst, "L3"},
	}
	for _, tc := range casos {
		t.Run(string(tc.politica), func(t *testing.T) {
			out, err := lots.SuggestAllocation(disponibles, d("15"), tc.politica)
			require.NoError(t, err)
			require.Len(t, out, 2)
			assert.Equal(t, tc.primero, out[0].LotNumber)
			assert.True(t, out[0].Quantity.Equal(d("10")))
			assert.True(t, out[1].Quantity.Equal(d("5")))
		})
	}
}

func TestSuggestAllocation_StockInsuficiente(t *testing.T) {
	disponibles := []entity.Lot{lote("L1", "10", "4", "2024-01-01", "2024-02-01")}

	_, err := lots.SuggestAllocation(disponibles, d("7"), lots.PolicyFIFO)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestSuggestAllocation_PoliticaDesconocida(t *testing.T) {
	disponibles := []entity.Lot{lote("L1", "10", "0", "2024-01-01", "2024-02-01")}

	_, err := lots.SuggestAllocation(disponibles, d("5"), "ALFABETICO")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Los lotes agotados nunca entran en la sugerencia.
func TestSuggestAllocation_IgnoraAgotados(t *testing.T) {
	disponibles := []entity.Lot{
		lote("L1", "10", "10", "2024-01-01", "2024-02-01"),
		lote("L2", "10", "0", "2024-01-10", "2024-02-10"),
	}

	out, err := lots.SuggestAllocation(disponibles, d("5"), lots.PolicyFIFO)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "L2", out[0].LotNumber)
}
