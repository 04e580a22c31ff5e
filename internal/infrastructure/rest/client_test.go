package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-engine/internal/application/inventory"
	"github.com/jhoicas/Produccion-engine/internal/domain/entity"
	"github.com/jhoicas/Produccion-engine/internal/infrastructure/rest"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newClient(t *testing.T, handler http.Handler) (*rest.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return rest.New(srv.URL, 5*time.Second, zerolog.Nop()), srv
}

func TestListMaterials_MapeaPayload(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/insumos", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"harina","nombre":"Harina","unidad":"MASS","tipo":"SIMPLE","stock_minimo":"5"},
			{"id":"mezcla","nombre":"Mezcla","unidad":"COUNT","tipo":"COMPOSITE","stock_minimo":"0",
			 "receta":[{"insumo_id":"harina","cantidad_por_unidad":"2"}]}
		]`))
	}))

	materials, err := client.ListMaterials(context.Background())

	require.NoError(t, err)
	require.Len(t, materials, 2)
	assert.Equal(t, "Harina", materials[0].Name)
	assert.True(t, materials[0].MinStock.Equal(d("5")))
	assert.False(t, materials[0].IsComposite())
	require.Len(t, materials[1].Recipe, 1)
	assert.Equal(t, "harina", materials[1].Recipe[0].MaterialID)
	assert.True(t, materials[1].Recipe[0].QtyPerUnit.Equal(d("2")))
}

func TestListProductMovements_MapeaDetalleDeLotes(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/productos/movimientos", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"pm-1","producto_id":"pan","direccion":"IN","cantidad":"10",
			 "fecha":"2024-01-03T00:00:00Z","lote":"L1","vence_en":"2024-01-12T00:00:00Z",
			 "costo_unitario":"2","precio_unitario":"0"},
			{"id":"pm-2","producto_id":"pan","direccion":"OUT","cantidad":"4",
			 "fecha":"2024-01-06T00:00:00Z","costo_unitario":"0","precio_unitario":"9",
			 "detalle_lotes":[{"lote":"L1","cantidad":"4"}]}
		]`))
	}))

	movs, err := client.ListProductMovements(context.Background())

	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, "L1", movs[0].LotNumber)
	require.Len(t, movs[1].Lines, 1)
	assert.Equal(t, "L1", movs[1].Lines[0].LotNumber)
	assert.True(t, movs[1].Lines[0].Quantity.Equal(d("4")))
}

func TestSubmitAssembly_EnviaConsumoCompleto(t *testing.T) {
	var got map[string]any
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/armados", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"mov-1","insumo_id":"mezcla","direccion":"IN","origen":"ASSEMBLY",
			"cantidad":"3","precio_unitario":"16","fecha":"2024-01-10T00:00:00Z","armado_batch_id":"batch-1"}`))
	}))

	mov, err := client.SubmitAssembly(context.Background(), inventory.AssemblySubmission{
		CompositeID: "mezcla",
		Quantity:    d("3"),
		UnitCost:    d("16"),
		Date:        time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		BatchID:     "batch-1",
		Consumption: []inventory.ConsumptionLine{
			{MaterialID: "harina", Quantity: d("6")},
			{MaterialID: "azucar", Quantity: d("3")},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.Equal(t, entity.MovementAssembly, mov.Kind)
	assert.Equal(t, "batch-1", mov.AssemblyBatchID)

	assert.Equal(t, "mezcla", got["compuesto_id"])
	assert.Equal(t, "16", got["costo_unitario"])
	consumo, ok := got["consumo"].([]any)
	require.True(t, ok)
	assert.Len(t, consumo, 2)
}

func TestUpdateAssembly_UsaPutConBatch(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/armados/batch-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"mov-1","insumo_id":"mezcla","direccion":"IN","origen":"ASSEMBLY",
			"cantidad":"5","precio_unitario":"16","fecha":"2024-01-05T00:00:00Z","armado_batch_id":"batch-1"}`))
	}))

	mov, err := client.UpdateAssembly(context.Background(), "batch-1", inventory.AssemblySubmission{
		CompositeID: "mezcla",
		Quantity:    d("5"),
		UnitCost:    d("16"),
		BatchID:     "batch-1",
	})

	require.NoError(t, err)
	assert.True(t, mov.Quantity.Equal(d("5")))
}

func TestSubmitProductSale_EnviaDetalleDeLotes(t *testing.T) {
	var got map[string]any
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ventas", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pm-9","producto_id":"pan","direccion":"OUT","cantidad":"14",
			"fecha":"2024-01-10T00:00:00Z","costo_unitario":"0","precio_unitario":"9.5",
			"detalle_lotes":[{"lote":"L1","cantidad":"10"},{"lote":"L2","cantidad":"4"}]}`))
	}))

	mov, err := client.SubmitProductSale(context.Background(), inventory.SaleSubmission{
		ProductID: "pan",
		Quantity:  d("14"),
		UnitPrice: d("9.5"),
		Date:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Lines: []entity.SaleLine{
			{LotNumber: "L1", Quantity: d("10")},
			{LotNumber: "L2", Quantity: d("4")},
		},
	})

	require.NoError(t, err)
	require.Len(t, mov.Lines, 2)
	detalle, ok := got["detalle_lotes"].([]any)
	require.True(t, ok)
	assert.Len(t, detalle, 2)
}

// Los errores del backend se propagan con estado y cuerpo, sin reintentos.
func TestDoJSON_ErrorDeBackend(t *testing.T) {
	calls := 0
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"stock insuficiente"}`))
	}))

	_, err := client.ListMaterials(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "stock insuficiente")
	assert.Equal(t, 1, calls)
}

func TestDoJSON_RespetaContexto(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ListMaterials(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
