package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-engine/internal/domain"
	"github.com/jhoicas/Produccion-engine/internal/domain/assembly"
	"github.com/jhoicas/Produccion-engine/internal/domain/entity"
	"github.com/jhoicas/Produccion-engine/internal/domain/ledger"
)

// AssemblyUseCase valida y registra armados de insumos compuestos.
//
// La resolución (costo + faltantes) ocurre SIEMPRE antes de tocar la red:
// un armado con faltantes se rechaza en línea sin viaje al backend.
// La mutación de stock es responsabilidad del backend al recibir el envío.
type AssemblyUseCase struct {
	catalog  CatalogReader
	reader   MovementReader
	writer   MovementWriter
	editor   AssemblyEditor
	notifier Notifier
}

// NewAssemblyUseCase construye el caso de uso.
func NewAssemblyUseCase(
	catalog CatalogReader,
	reader MovementReader,
	writer MovementWriter,
	editor AssemblyEditor,
	notifier Notifier,
) *AssemblyUseCase {
	return &AssemblyUseCase{
		catalog:  catalog,
		reader:   reader,
		writer:   writer,
		editor:   editor,
		notifier: notifier,
	}
}

// AssemblyInput es la solicitud de armado tal como llega del formulario.
type AssemblyInput struct {
	CompositeID string
	Quantity    decimal.Decimal
	Date        time.Time
	Description string
}

// Preview resuelve el armado sin enviarlo: costo total, consumo por
// componente y faltantes, para que el formulario valide antes de confirmar.
func (uc *AssemblyUseCase) Preview(ctx context.Context, in AssemblyInput) (*assembly.Resolution, error) {
	composite, balances, err := uc.loadContext(ctx, in.CompositeID)
	if err != nil {
		return nil, err
	}
	return assembly.Resolve(composite, in.Quantity, balances)
}

// Register resuelve el armado y, solo si es ejecutable, lo envía al backend
// con el costo unitario calculado y un identificador de batch generado.
// Con faltantes devuelve la resolución junto con domain.ErrInsufficientStock
// para que el caller muestre el detalle.
func (uc *AssemblyUseCase) Register(ctx context.Context, in AssemblyInput) (*assembly.Resolution, *entity.MaterialMovement, error) {
	composite, balances, err := uc.loadContext(ctx, in.CompositeID)
	if err != nil {
		return nil, nil, err
	}

	res, err := assembly.Resolve(composite, in.Quantity, balances)
	if err != nil {
		return nil, nil, err
	}
	if !res.Feasible() {
		uc.notifier.Error(shortageMessage(composite.Name, res.Shortages))
		return res, nil, domain.ErrInsufficientStock
	}

	sub := AssemblySubmission{
		CompositeID: in.CompositeID,
		Quantity:    in.Quantity,
		UnitCost:    res.UnitCost(in.Quantity),
		Date:        in.Date,
		Description: in.Description,
		BatchID:     uuid.New().String(),
		Consumption: consumptionLines(res),
	}
	mov, err := uc.writer.SubmitAssembly(ctx, sub)
	if err != nil {
		uc.notifier.Error("No se pudo registrar el armado")
		return res, nil, fmt.Errorf("registrar armado: %w", err)
	}
	uc.notifier.Success(fmt.Sprintf("Armado de %s x%s registrado", composite.Name, in.Quantity.String()))
	return res, mov, nil
}

// Edit recalcula el consumo de un armado existente desde las proporciones
// originales de la receta y la nueva cantidad; nunca escala el consumo
// registrado. Solo se permite mientras no exista producción posterior que
// dependa del stock generado por el armado.
func (uc *AssemblyUseCase) Edit(ctx context.Context, batchID string, newQty decimal.Decimal) (*entity.MaterialMovement, error) {
	matMovs, err := uc.reader.ListMaterialMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos de insumos: %w", err)
	}

	var original *entity.MaterialMovement
	for i := range matMovs {
		mv := &matMovs[i]
		if mv.AssemblyBatchID == batchID && mv.Direction == entity.DirectionIN {
			original = mv
			break
		}
	}
	if original == nil {
		return nil, domain.ErrNotFound
	}

	// Si ya hubo producción posterior al armado, el stock del compuesto pudo
	// haberse consumido: la edición queda bloqueada.
	prodMovs, err := uc.reader.ListProductMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos de productos: %w", err)
	}
	for _, mv := range prodMovs {
		if mv.Direction == entity.DirectionIN && mv.Date.After(original.Date) {
			return nil, domain.ErrMovementReferenced
		}
	}

	composite, balances, err := uc.loadContext(ctx, original.MaterialID)
	if err != nil {
		return nil, err
	}
	res, err := assembly.Resolve(composite, newQty, balances)
	if err != nil {
		return nil, err
	}
	if !res.Feasible() {
		uc.notifier.Error(shortageMessage(composite.Name, res.Shortages))
		return nil, domain.ErrInsufficientStock
	}

	sub := AssemblySubmission{
		CompositeID: original.MaterialID,
		Quantity:    newQty,
		UnitCost:    res.UnitCost(newQty),
		Date:        original.Date,
		Description: original.Description,
		BatchID:     batchID,
		Consumption: consumptionLines(res),
	}
	mov, err := uc.editor.UpdateAssembly(ctx, batchID, sub)
	if err != nil {
		uc.notifier.Error("No se pudo editar el armado")
		return nil, fmt.Errorf("editar armado %s: %w", batchID, err)
	}
	uc.notifier.Success("Armado actualizado")
	return mov, nil
}

// loadContext trae catálogo y movimientos y devuelve el compuesto pedido
// junto con los saldos actuales de todos los insumos.
func (uc *AssemblyUseCase) loadContext(ctx context.Context, compositeID string) (*entity.Material, map[string]ledger.MaterialBalance, error) {
	materials, err := uc.catalog.ListMaterials(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listar insumos: %w", err)
	}
	var composite *entity.Material
	for i := range materials {
		if materials[i].ID == compositeID {
			composite = &materials[i]
			break
		}
	}
	if composite == nil {
		return nil, nil, domain.ErrNotFound
	}

	movs, err := uc.reader.ListMaterialMovements(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listar movimientos de insumos: %w", err)
	}
	balances, _ := ledger.BalancesByMaterial(movs)

	// Componentes sin movimiento alguno cuentan como saldo cero, no como
	// desconocidos: el insumo existe en el catálogo.
	for _, line := range composite.Recipe {
		if _, ok := balances[line.MaterialID]; ok {
			continue
		}
		known := false
		for i := range materials {
			if materials[i].ID == line.MaterialID {
				known = true
				break
			}
		}
		if known {
			balances[line.MaterialID] = ledger.MaterialBalance{
				Quantity:            decimal.Zero,
				WeightedAvgUnitCost: decimal.Zero,
			}
		}
	}
	return composite, balances, nil
}

func consumptionLines(res *assembly.Resolution) []ConsumptionLine {
	lines := make([]ConsumptionLine, 0, len(res.Consumption))
	for _, c := range res.Consumption {
		lines = append(lines, ConsumptionLine{MaterialID: c.MaterialID, Quantity: c.RequiredQty})
	}
	return lines
}

func shortageMessage(name string, shortages []assembly.Shortage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stock insuficiente para armar %s:", name)
	for _, s := range shortages {
		fmt.Fprintf(&b, " %s (requiere %s, hay %s)", s.MaterialID, s.Required.String(), s.Available.String())
	}
	return b.String()
}
