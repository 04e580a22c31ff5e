package rest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-engine/internal/application/inventory"
	"github.com/jhoicas/Produccion-engine/internal/domain/entity"
)

// Tipos de cable del backend. Se mapean explícitamente a/desde las
// entidades de dominio para que el contrato JSON pueda evolucionar sin
// tocar el motor.

type recipeLinePayload struct {
	MaterialID string          `json:"insumo_id"`
	QtyPerUnit decimal.Decimal `json:"cantidad_por_unidad"`
}

type materialPayload struct {
	ID          string              `json:"id"`
	Name        string              `json:"nombre"`
	UnitMeasure string              `json:"unidad"`
	Kind        string              `json:"tipo"`
	MinStock    decimal.Decimal     `json:"stock_minimo"`
	Recipe      []recipeLinePayload `json:"receta,omitempty"`
	CreatedAt   time.Time           `json:"creado_en"`
	UpdatedAt   time.Time           `json:"actualizado_en"`
}

func (p materialPayload) toEntity() entity.Material {
	return entity.Material{
		ID:          p.ID,
		Name:        p.Name,
		UnitMeasure: p.UnitMeasure,
		Kind:        p.Kind,
		MinStock:    p.MinStock,
		Recipe:      toRecipe(p.Recipe),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type productPayload struct {
	ID        string              `json:"id"`
	Name      string              `json:"nombre"`
	Recipe    []recipeLinePayload `json:"receta"`
	CreatedAt time.Time           `json:"creado_en"`
	UpdatedAt time.Time           `json:"actualizado_en"`
}

func (p productPayload) toEntity() entity.Product {
	return entity.Product{
		ID:        p.ID,
		Name:      p.Name,
		Recipe:    toRecipe(p.Recipe),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type materialMovementPayload struct {
	ID              string          `json:"id"`
	MaterialID      string          `json:"insumo_id"`
	Direction       string          `json:"direccion"`
	Kind            string          `json:"origen"`
	Quantity        decimal.Decimal `json:"cantidad"`
	UnitPrice       decimal.Decimal `json:"precio_unitario"`
	Date            time.Time       `json:"fecha"`
	Description     string          `json:"descripcion"`
	AssemblyBatchID string          `json:"armado_batch_id,omitempty"`
}

func (p materialMovementPayload) toEntity() entity.MaterialMovement {
	return entity.MaterialMovement{
		ID:              p.ID,
		MaterialID:      p.MaterialID,
		Direction:       p.Direction,
		Kind:            p.Kind,
		Quantity:        p.Quantity,
		UnitPrice:       p.UnitPrice,
		Date:            p.Date,
		Description:     p.Description,
		AssemblyBatchID: p.AssemblyBatchID,
	}
}

func fromMaterialMovement(mv entity.MaterialMovement) materialMovementPayload {
	return materialMovementPayload{
		ID:              mv.ID,
		MaterialID:      mv.MaterialID,
		Direction:       mv.Direction,
		Kind:            mv.Kind,
		Quantity:        mv.Quantity,
		UnitPrice:       mv.UnitPrice,
		Date:            mv.Date,
		Description:     mv.Description,
		AssemblyBatchID: mv.AssemblyBatchID,
	}
}

type saleLinePayload struct {
	LotNumber string          `json:"lote"`
	Quantity  decimal.Decimal `json:"cantidad"`
}

type productMovementPayload struct {
	ID             string            `json:"id"`
	ProductID      string            `json:"producto_id"`
	Direction      string            `json:"direccion"`
	Quantity       decimal.Decimal   `json:"cantidad"`
	Date           time.Time         `json:"fecha"`
	Description    string            `json:"descripcion"`
	LotNumber      string            `json:"lote,omitempty"`
	ExpirationDate time.Time         `json:"vence_en,omitempty"`
	UnitCost       decimal.Decimal   `json:"costo_unitario"`
	UnitPrice      decimal.Decimal   `json:"precio_unitario"`
	Lines          []saleLinePayload `json:"detalle_lotes,omitempty"`
}

func (p productMovementPayload) toEntity() entity.ProductMovement {
	lines := make([]entity.SaleLine, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, entity.SaleLine{LotNumber: l.LotNumber, Quantity: l.Quantity})
	}
	return entity.ProductMovement{
		ID:             p.ID,
		ProductID:      p.ProductID,
		Direction:      p.Direction,
		Quantity:       p.Quantity,
		Date:           p.Date,
		Description:    p.Description,
		LotNumber:      p.LotNumber,
		ExpirationDate: p.ExpirationDate,
		UnitCost:       p.UnitCost,
		UnitPrice:      p.UnitPrice,
		Lines:          lines,
	}
}

func fromProductMovement(mv entity.ProductMovement) productMovementPayload {
	return productMovementPayload{
		ID:             mv.ID,
		ProductID:      mv.ProductID,
		Direction:      mv.Direction,
		Quantity:       mv.Quantity,
		Date:           mv.Date,
		Description:    mv.Description,
		LotNumber:      mv.LotNumber,
		ExpirationDate: mv.ExpirationDate,
		UnitCost:       mv.UnitCost,
		UnitPrice:      mv.UnitPrice,
	}
}

type consumptionLinePayload struct {
	MaterialID string          `json:"insumo_id"`
	Quantity   decimal.Decimal `json:"cantidad"`
}

type assemblyPayload struct {
	CompositeID string                   `json:"compuesto_id"`
	Quantity    decimal.Decimal          `json:"cantidad"`
	UnitCost    decimal.Decimal          `json:"costo_unitario"`
	Date        time.Time                `json:"fecha"`
	Description string                   `json:"descripcion"`
	BatchID     string                   `json:"batch_id"`
	Consumption []consumptionLinePayload `json:"consumo"`
}

func fromAssembly(sub inventory.AssemblySubmission) assemblyPayload {
	consumption := make([]consumptionLinePayload, 0, len(sub.Consumption))
	for _, c := range sub.Consumption {
		consumption = append(consumption, consumptionLinePayload{
			MaterialID: c.MaterialID,
			Quantity:   c.Quantity,
		})
	}
	return assemblyPayload{
		CompositeID: sub.CompositeID,
		Quantity:    sub.Quantity,
		UnitCost:    sub.UnitCost,
		Date:        sub.Date,
		Description: sub.Description,
		BatchID:     sub.BatchID,
		Consumption: consumption,
	}
}

type salePayload struct {
	ProductID   string            `json:"producto_id"`
	Quantity    decimal.Decimal   `json:"cantidad"`
	UnitPrice   decimal.Decimal   `json:"precio_unitario"`
	Date        time.Time         `json:"fecha"`
	Description string            `json:"descripcion"`
	Lines       []saleLinePayload `json:"detalle_lotes,omitempty"`
}

func fromSale(sale inventory.SaleSubmission) salePayload {
	lines := make([]saleLinePayload, 0, len(sale.Lines))
	for _, l := range sale.Lines {
		lines = append(lines, saleLinePayload{LotNumber: l.LotNumber, Quantity: l.Quantity})
	}
	return salePayload{
		ProductID:   sale.ProductID,
		Quantity:    sale.Quantity,
		UnitPrice:   sale.UnitPrice,
		Date:        sale.Date,
		Description: sale.Description,
		Lines:       lines,
	}
}

func toRecipe(lines []recipeLinePayload) []entity.RecipeLine {
	if len(lines) == 0 {
		return nil
	}
	out := make([]entity.RecipeLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, entity.RecipeLine{MaterialID: l.MaterialID, QtyPerUnit: l.QtyPerUnit})
	}
	return out
}
