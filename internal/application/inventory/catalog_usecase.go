package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Produccion-engine/internal/domain"
	"github.com/jhoicas/Produccion-engine/internal/domain/assembly"
	"github.com/jhoicas/Produccion-engine/internal/domain/entity"
)

// CatalogUseCase aplica las reglas de ciclo de vida del catálogo de insumos:
// invariantes de receta al crear/editar y la guarda de borrado.
type CatalogUseCase struct {
	catalog CatalogReader
	reader  MovementReader
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(catalog CatalogReader, reader MovementReader) *CatalogUseCase {
	return &CatalogUseCase{catalog: catalog, reader: reader}
}

// ValidateMaterial valida un insumo nuevo o editado contra el catálogo
// actual: unidad de medida y tipo conocidos; los compuestos llevan receta
// con componentes simples, sin repetir y con cantidades positivas.
func (uc *CatalogUseCase) ValidateMaterial(ctx context.Context, m *entity.Material) error {
	switch m.UnitMeasure {
	case entity.UnitMass, entity.UnitVolume, entity.UnitCount:
	default:
		return domain.ErrInvalidInput
	}

	switch m.Kind {
	case entity.MaterialSimple:
		if len(m.Recipe) > 0 {
			return domain.ErrInvalidInput
		}
		return nil
	case entity.MaterialComposite:
		if len(m.Recipe) == 0 {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}

	materials, err := uc.catalog.ListMaterials(ctx)
	if err != nil {
		return fmt.Errorf("listar insumos: %w", err)
	}
	byID := make(map[string]*entity.Material, len(materials))
	for i := range materials {
		byID[materials[i].ID] = &materials[i]
	}
	return assembly.ValidateRecipe(m.Recipe, byID)
}

// CanDeleteMaterial indica si el insumo puede borrarse: no debe estar
// referenciado por ningún movimiento ni por ninguna receta (de producto o
// de otro insumo compuesto).
func (uc *CatalogUseCase) CanDeleteMaterial(ctx context.Context, materialID string) (bool, error) {
	movs, err := uc.reader.ListMaterialMovements(ctx)
	if err != nil {
		return false, fmt.Errorf("listar movimientos de insumos: %w", err)
	}
	for _, mv := range movs {
		if mv.MaterialID == materialID {
			return false, nil
		}
	}

	products, err := uc.catalog.ListProducts(ctx)
	if err != nil {
		return false, fmt.Errorf("listar productos: %w", err)
	}
	for _, p := range products {
		for _, line := range p.Recipe {
			if line.MaterialID == materialID {
				return false, nil
			}
		}
	}

	materials, err := uc.catalog.ListMaterials(ctx)
	if err != nil {
		return false, fmt.Errorf("listar insumos: %w", err)
	}
	for _, m := range materials {
		for _, line := range m.Recipe {
			if line.MaterialID == materialID {
				return false, nil
			}
		}
	}
	return true, nil
}
