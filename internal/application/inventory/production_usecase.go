package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-engine/internal/domain"
	"github.com/jhoicas/Produccion-engine/internal/domain/assembly"
	"github.com/jhoicas/Produccion-engine/internal/domain/entity"
	"github.com/jhoicas/Produccion-engine/internal/domain/ledger"
)

// ProductionUseCase registra la producción de productos terminados:
// valida contra la receta el stock de insumos, calcula el costo unitario
// del lote y genera el número de lote con fecha de vencimiento obligatoria.
type ProductionUseCase struct {
	catalog  CatalogReader
	reader   MovementReader
	writer   MovementWriter
	notifier Notifier
}

// NewProductionUseCase construye el caso de uso.
func NewProductionUseCase(catalog CatalogReader, reader MovementReader, writer MovementWriter, notifier Notifier) *ProductionUseCase {
	return &ProductionUseCase{catalog: catalog, reader: reader, writer: writer, notifier: notifier}
}

// ProductionInput es la solicitud de producción del formulario.
type ProductionInput struct {
	ProductID      string
	Quantity       decimal.Decimal
	Date           time.Time
	ExpirationDate time.Time
	Description    string
}

// Register valida la producción y la envía al backend con el lote generado.
// La fecha de vencimiento es obligatoria y debe ser posterior a la fecha de
// producción. Con faltantes de insumos devuelve la resolución junto con
// domain.ErrInsufficientStock, sin enviar nada.
func (uc *ProductionUseCase) Register(ctx context.Context, in ProductionInput) (*assembly.Resolution, *entity.ProductMovement, error) {
	if in.ProductID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, nil, domain.ErrInvalidInput
	}
	if in.ExpirationDate.IsZero() || !in.ExpirationDate.After(in.Date) {
		return nil, nil, domain.ErrInvalidInput
	}

	products, err := uc.catalog.ListProducts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listar productos: %w", err)
	}
	var product *entity.Product
	for i := range products {
		if products[i].ID == in.ProductID {
			product = &products[i]
			break
		}
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}

	matMovs, err := uc.reader.ListMaterialMovements(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listar movimientos de insumos: %w", err)
	}
	balances, _ := ledger.BalancesByMaterial(matMovs)
	for _, line := range product.Recipe {
		if _, ok := balances[line.MaterialID]; !ok {
			balances[line.MaterialID] = ledger.MaterialBalance{
				Quantity:            decimal.Zero,
				WeightedAvgUnitCost: decimal.Zero,
			}
		}
	}

	res, err := assembly.ResolveRecipe(product.Recipe, in.Quantity, balances)
	if err != nil {
		return nil, nil, err
	}
	if !res.Feasible() {
		uc.notifier.Error(shortageMessage(product.Name, res.Shortages))
		return res, nil, domain.ErrInsufficientStock
	}

	mov, err := uc.writer.SubmitProduction(ctx, entity.ProductMovement{
		ID:             uuid.New().String(),
		ProductID:      in.ProductID,
		Direction:      entity.DirectionIN,
		Quantity:       in.Quantity,
		Date:           in.Date,
		Description:    in.Description,
		LotNumber:      newLotNumber(in.Date),
		ExpirationDate: in.ExpirationDate,
		UnitCost:       res.UnitCost(in.Quantity),
	})
	if err != nil {
		uc.notifier.Error("No se pudo registrar la producción")
		return res, nil, fmt.Errorf("registrar producción: %w", err)
	}
	uc.notifier.Success(fmt.Sprintf("Producción registrada, lote %s", mov.LotNumber))
	return res, mov, nil
}

// newLotNumber genera un número de lote legible: fecha de producción más un
// sufijo corto aleatorio para distinguir lotes del mismo día.
func newLotNumber(date time.Time) string {
	return fmt.Sprintf("L-%s-%s", date.Format("20060102"), uuid.New().String()[:8])
}
