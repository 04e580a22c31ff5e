// Package rest implementa los puertos de acceso a datos contra el backend
// REST remoto (sistema de registro). El motor consume los resultados como
// datos planos: ningún tipo de red sale de este paquete.
//
// Sin reintentos ni interceptores: los errores de red/backend se propagan
// opacos hacia arriba y la UI decide qué mostrar.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Produccion-engine/internal/application/inventory"
	"github.com/jhoicas/Produccion-engine/internal/domain/entity"
)

// Client implementa inventory.MovementReader, inventory.CatalogReader,
// inventory.MovementWriter e inventory.AssemblyEditor sobre HTTP/JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// New construye el cliente. timeout acota cada request individual;
// la cancelación fina viene por el context de cada llamada.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "rest").Logger(),
	}
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

// ListMaterials trae el catálogo de insumos.
func (c *Client) ListMaterials(ctx context.Context) ([]entity.Material, error) {
	var payload []materialPayload
	if err := c.getJSON(ctx, "/api/insumos", &payload); err != nil {
		return nil, err
	}
	out := make([]entity.Material, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.toEntity())
	}
	return out, nil
}

// ListProducts trae el catálogo de productos.
func (c *Client) ListProducts(ctx context.Context) ([]entity.Product, error) {
	var payload []productPayload
	if err := c.getJSON(ctx, "/api/productos", &payload); err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.toEntity())
	}
	return out, nil
}

// ListMaterialMovements trae todos los movimientos de insumos.
func (c *Client) ListMaterialMovements(ctx context.Context) ([]entity.MaterialMovement, error) {
	var payload []materialMovementPayload
	if err := c.getJSON(ctx, "/api/insumos/movimientos", &payload); err != nil {
		return nil, err
	}
	out := make([]entity.MaterialMovement, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.toEntity())
	}
	return out, nil
}

// ListProductMovements trae todos los movimientos de productos.
func (c *Client) ListProductMovements(ctx context.Context) ([]entity.ProductMovement, error) {
	var payload []productMovementPayload
	if err := c.getJSON(ctx, "/api/productos/movimientos", &payload); err != nil {
		return nil, err
	}
	out := make([]entity.ProductMovement, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.toEntity())
	}
	return out, nil
}

// ── Escrituras ────────────────────────────────────────────────────────────────

// SubmitMaterialMovement envía un movimiento manual de insumo.
func (c *Client) SubmitMaterialMovement(ctx context.Context, mv entity.MaterialMovement) (*entity.MaterialMovement, error) {
	var created materialMovementPayload
	if err := c.postJSON(ctx, "/api/insumos/movimientos", fromMaterialMovement(mv), &created); err != nil {
		return nil, err
	}
	out := created.toEntity()
	return &out, nil
}

// SubmitAssembly envía un armado validado; el backend descuenta los
// componentes y registra la entrada del compuesto en una sola operación.
func (c *Client) SubmitAssembly(ctx context.Context, sub inventory.AssemblySubmission) (*entity.MaterialMovement, error) {
	var created materialMovementPayload
	if err := c.postJSON(ctx, "/api/armados", fromAssembly(sub), &created); err != nil {
		return nil, err
	}
	out := created.toEntity()
	return &out, nil
}

// UpdateAssembly reemplaza el consumo registrado del batch por el recalculado.
func (c *Client) UpdateAssembly(ctx context.Context, batchID string, sub inventory.AssemblySubmission) (*entity.MaterialMovement, error) {
	var updated materialMovementPayload
	path := fmt.Sprintf("/api/armados/%s", batchID)
	if err := c.doJSON(ctx, http.MethodPut, path, fromAssembly(sub), &updated); err != nil {
		return nil, err
	}
	out := updated.toEntity()
	return &out, nil
}

// SubmitProduction envía una producción (IN de producto con lote).
func (c *Client) SubmitProduction(ctx context.Context, mv entity.ProductMovement) (*entity.ProductMovement, error) {
	var created productMovementPayload
	if err := c.postJSON(ctx, "/api/productos/movimientos", fromProductMovement(mv), &created); err != nil {
		return nil, err
	}
	out := created.toEntity()
	return &out, nil
}

// SubmitProductSale envía una venta con su asignación por lotes ya validada.
func (c *Client) SubmitProductSale(ctx context.Context, sale inventory.SaleSubmission) (*entity.ProductMovement, error) {
	var created productMovementPayload
	if err := c.postJSON(ctx, "/api/ventas", fromSale(sale), &created); err != nil {
		return nil, err
	}
	out := created.toEntity()
	return &out, nil
}

// ── Plomería HTTP ─────────────────────────────────────────────────────────────

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("rest: serializar %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("rest: construir request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rest: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("request al backend")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("rest: %s %s: backend respondió %d: %s", method, path, resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("rest: decodificar respuesta de %s %s: %w", method, path, err)
	}
	return nil
}
