package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-engine/internal/domain"
	"github.com/jhoicas/Produccion-engine/internal/domain/entity"
)

// MovementUseCase registra movimientos manuales de insumos (compras y
// consumos/mermas) y aplica la regla de edición: un movimiento solo es
// editable mientras no exista producción posterior que dependa de ese stock.
type MovementUseCase struct {
	catalog  CatalogReader
	reader   MovementReader
	writer   MovementWriter
	notifier Notifier
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(catalog CatalogReader, reader MovementReader, writer MovementWriter, notifier Notifier) *MovementUseCase {
	return &MovementUseCase{catalog: catalog, reader: reader, writer: writer, notifier: notifier}
}

// Register valida y envía un movimiento manual de insumo.
// Reglas: cantidad > 0; precio unitario obligatorio y >= 0 solo en IN;
// el insumo debe existir en el catálogo.
func (uc *MovementUseCase) Register(ctx context.Context, mv entity.MaterialMovement) (*entity.MaterialMovement, error) {
	if !mv.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	switch mv.Direction {
	case entity.DirectionIN:
		if mv.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	case entity.DirectionOUT:
		mv.UnitPrice = decimal.Zero
	default:
		return nil, domain.ErrInvalidInput
	}

	materials, err := uc.catalog.ListMaterials(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar insumos: %w", err)
	}
	found := false
	for i := range materials {
		if materials[i].ID == mv.MaterialID {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrNotFound
	}

	// El origen se fija aquí, al crear: los movimientos de armado salen por
	// AssemblyUseCase con su propio batch.
	mv.Kind = entity.MovementManual
	if mv.ID == "" {
		mv.ID = uuid.New().String()
	}

	out, err := uc.writer.SubmitMaterialMovement(ctx, mv)
	if err != nil {
		uc.notifier.Error("No se pudo registrar el movimiento")
		return nil, fmt.Errorf("registrar movimiento: %w", err)
	}
	uc.notifier.Success("Movimiento registrado")
	return out, nil
}

// CanEdit indica si el movimiento todavía admite edición: se bloquea en
// cuanto exista producción de producto posterior a su fecha, porque ese
// stock pudo haberse consumido.
func (uc *MovementUseCase) CanEdit(ctx context.Context, movementID string) (bool, error) {
	matMovs, err := uc.reader.ListMaterialMovements(ctx)
	if err != nil {
		return false, fmt.Errorf("listar movimientos de insumos: %w", err)
	}
	var target *entity.MaterialMovement
	for i := range matMovs {
		if matMovs[i].ID == movementID {
			target = &matMovs[i]
			break
		}
	}
	if target == nil {
		return false, domain.ErrNotFound
	}

	prodMovs, err := uc.reader.ListProductMovements(ctx)
	if err != nil {
		return false, fmt.Errorf("listar movimientos de productos: %w", err)
	}
	for _, mv := range prodMovs {
		if mv.Direction == entity.DirectionIN && mv.Date.After(target.Date) {
			return false, nil
		}
	}
	return true, nil
}
