// Package analytics contiene los casos de uso del panel financiero de
// inventario: valorización de insumos y vencimientos próximos.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-engine/internal/application/dto"
	"github.com/jhoicas/Produccion-engine/internal/application/inventory"
	"github.com/jhoicas/Produccion-engine/internal/domain/entity"
	"github.com/jhoicas/Produccion-engine/internal/domain/ledger"
	"github.com/jhoicas/Produccion-engine/internal/domain/lots"
)

// DashboardUseCase genera el resumen financiero del inventario.
//
// Fuente de datos: una sola foto de catálogos + movimientos tomada al
// inicio; todos los agregados del resumen se derivan de esa misma foto para
// que los números sean coherentes entre sí.
type DashboardUseCase struct {
	catalog inventory.CatalogReader
	reader  inventory.MovementReader
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(catalog inventory.CatalogReader, reader inventory.MovementReader) *DashboardUseCase {
	return &DashboardUseCase{catalog: catalog, reader: reader}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro lecturas en paralelo sobre el backend:
//  1. ListMaterials          → catálogo de insumos
//  2. ListMaterialMovements  → saldos y costos promedio
//  3. ListProducts           → nombres para el panel de vencimientos
//  4. ListProductMovements   → lotes y restantes
func (uc *DashboardUseCase) GetSummary(ctx context.Context, today time.Time, horizonDays int) (*dto.DashboardSummaryDTO, error) {
	if horizonDays <= 0 {
		horizonDays = lots.DefaultHorizonDays
	}

	type materialsResult struct {
		items []entity.Material
		err   error
	}
	type matMovsResult struct {
		items []entity.MaterialMovement
		err   error
	}
	type productsResult struct {
		items []entity.Product
		err   error
	}
	type prodMovsResult struct {
		items []entity.ProductMovement
		err   error
	}

	materialsCh := make(chan materialsResult, 1)
	matMovsCh := make(chan matMovsResult, 1)
	productsCh := make(chan productsResult, 1)
	prodMovsCh := make(chan prodMovsResult, 1)

	go func() {
		items, err := uc.catalog.ListMaterials(ctx)
		materialsCh <- materialsResult{items, err}
	}()
	go func() {
		items, err := uc.reader.ListMaterialMovements(ctx)
		matMovsCh <- matMovsResult{items, err}
	}()
	go func() {
		items, err := uc.catalog.ListProducts(ctx)
		productsCh <- productsResult{items, err}
	}()
	go func() {
		items, err := uc.reader.ListProductMovements(ctx)
		prodMovsCh <- prodMovsResult{items, err}
	}()

	materials := <-materialsCh
	matMovs := <-matMovsCh
	products := <-productsCh
	prodMovs := <-prodMovsCh

	if materials.err != nil {
		return nil, fmt.Errorf("dashboard: insumos: %w", materials.err)
	}
	if matMovs.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos de insumos: %w", matMovs.err)
	}
	if products.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", products.err)
	}
	if prodMovs.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos de productos: %w", prodMovs.err)
	}

	summary := &dto.DashboardSummaryDTO{
		GeneratedAt: today,
		DateLabel:   monthLabel(today),
		TotalValue:  decimal.Zero,
		HorizonDays: horizonDays,
	}

	// ── Valorización de insumos ───────────────────────────────────────────────
	balances, warnings := ledger.BalancesByMaterial(matMovs.items)
	for _, m := range materials.items {
		bal := balances[m.ID] // cero si el insumo no tiene movimientos
		total := bal.Quantity.Mul(bal.WeightedAvgUnitCost)
		summary.Materials = append(summary.Materials, dto.MaterialValuationDTO{
			MaterialID:    m.ID,
			Name:          m.Name,
			UnitMeasure:   m.UnitMeasure,
			Kind:          m.Kind,
			Quantity:      bal.Quantity,
			AvgUnitCost:   bal.WeightedAvgUnitCost.Round(2),
			TotalValue:    total.Round(2),
			MinStock:      m.MinStock,
			BelowMinStock: bal.Quantity.LessThan(m.MinStock),
		})
		summary.TotalValue = summary.TotalValue.Add(total)
		if bal.Quantity.LessThan(m.MinStock) {
			summary.LowStockCount++
		}
	}
	summary.TotalValue = summary.TotalValue.Round(2)
	sort.SliceStable(summary.Materials, func(i, j int) bool {
		return summary.Materials[i].TotalValue.GreaterThan(summary.Materials[j].TotalValue)
	})

	// ── Lotes por vencer ──────────────────────────────────────────────────────
	nameByProduct := make(map[string]string, len(products.items))
	for _, p := range products.items {
		nameByProduct[p.ID] = p.Name
	}

	byProduct := make(map[string][]entity.ProductMovement)
	for _, mv := range prodMovs.items {
		byProduct[mv.ProductID] = append(byProduct[mv.ProductID], mv)
	}

	var allLots []entity.Lot
	for productID, movs := range byProduct {
		productLots, ws := ledger.ComputeLots(movs)
		warnings = append(warnings, ws...)
		for i := range productLots {
			productLots[i].ProductName = nameByProduct[productID]
		}
		allLots = append(allLots, ledger.ActiveLots(productLots)...)
	}

	for _, ranked := range lots.RankByUrgency(allLots, today, horizonDays) {
		summary.ExpiringLots = append(summary.ExpiringLots, dto.ExpiringLotDTO{
			ProductID:      ranked.Lot.ProductID,
			ProductName:    ranked.Lot.ProductName,
			LotNumber:      ranked.Lot.LotNumber,
			Remaining:      ranked.Lot.Remaining(),
			Investment:     ranked.Lot.Investment.Round(2),
			ExpirationDate: ranked.Lot.ExpirationDate,
			DaysLeft:       ranked.DaysLeft,
			Class:          ranked.Class,
		})
	}

	// ── Advertencias de integridad ────────────────────────────────────────────
	for _, w := range warnings {
		summary.Warnings = append(summary.Warnings, dto.IntegrityWarningDTO{
			Kind:     w.Kind,
			EntityID: w.EntityID,
			Detail:   w.Detail,
		})
	}

	return summary, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Agosto 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
