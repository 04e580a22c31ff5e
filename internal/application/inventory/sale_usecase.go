package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-engine/internal/domain"
	"github.com/jhoicas/Produccion-engine/internal/domain/entity"
	"github.com/jhoicas/Produccion-engine/internal/domain/ledger"
	"github.com/jhoicas/Produccion-engine/internal/domain/lots"
)

// SaleUseCase valida y registra ventas de productos terminados con
// asignación explícita por lotes.
//
// La asignación se valida todo-o-nada ANTES de enviar: una venta con
// asignación inválida nunca llega al backend.
type SaleUseCase struct {
	reader   MovementReader
	writer   MovementWriter
	notifier Notifier
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(reader MovementReader, writer MovementWriter, notifier Notifier) *SaleUseCase {
	return &SaleUseCase{reader: reader, writer: writer, notifier: notifier}
}

// SaleInput es la solicitud de venta tal como llega del formulario.
// Allocation es obligatoria cuando el seguimiento por lote está activo;
// vacía delega la deducción completa al backend (ruta legada agregada).
type SaleInput struct {
	ProductID   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Date        time.Time
	Description string
	Allocation  []entity.SaleLine
}

// Register valida la venta y la envía al backend.
func (uc *SaleUseCase) Register(ctx context.Context, in SaleInput) (*entity.ProductMovement, error) {
	if in.ProductID == "" || !in.Quantity.GreaterThan(decimal.Zero) || in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var validated []entity.SaleLine
	if len(in.Allocation) > 0 {
		available, err := uc.productLots(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		validated, err = lots.AllocateSale(available, in.Quantity, in.Allocation)
		if err != nil {
			uc.notifier.Error("Asignación por lotes inválida")
			return nil, err
		}
	}

	mov, err := uc.writer.SubmitProductSale(ctx, SaleSubmission{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Date:        in.Date,
		Description: in.Description,
		Lines:       validated,
	})
	if err != nil {
		uc.notifier.Error("No se pudo registrar la venta")
		return nil, fmt.Errorf("registrar venta: %w", err)
	}
	uc.notifier.Success("Venta registrada")
	return mov, nil
}

// Suggest reparte la cantidad entre los lotes activos del producto con la
// política indicada, para prellenar el formulario de selección de lotes.
// La política es un parámetro explícito del caller: no hay default oculto.
func (uc *SaleUseCase) Suggest(
	ctx context.Context,
	productID string,
	qty decimal.Decimal,
	policy lots.AllocationPolicy,
) ([]entity.SaleLine, error) {
	available, err := uc.productLots(ctx, productID)
	if err != nil {
		return nil, err
	}
	return lots.SuggestAllocation(available, qty, policy)
}

// productLots reconstruye los lotes activos del producto desde la foto
// actual de movimientos.
func (uc *SaleUseCase) productLots(ctx context.Context, productID string) ([]entity.Lot, error) {
	movs, err := uc.reader.ListProductMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos de productos: %w", err)
	}
	own := make([]entity.ProductMovement, 0, len(movs))
	for _, mv := range movs {
		if mv.ProductID == productID {
			own = append(own, mv)
		}
	}
	all, _ := ledger.ComputeLots(own)
	return ledger.ActiveLots(all), nil
}
