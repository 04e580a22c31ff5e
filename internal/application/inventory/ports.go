package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-engine/internal/domain/entity"
)

// Puertos de salida hacia el backend remoto (sistema de registro).
// El motor nunca llama la red directamente: consume y produce datos planos;
// la implementación concreta vive en internal/infrastructure/rest.

// MovementReader lee los movimientos ya registrados.
type MovementReader interface {
	ListMaterialMovements(ctx context.Context) ([]entity.MaterialMovement, error)
	ListProductMovements(ctx context.Context) ([]entity.ProductMovement, error)
}

// CatalogReader lee los catálogos de insumos y productos.
type CatalogReader interface {
	ListMaterials(ctx context.Context) ([]entity.Material, error)
	ListProducts(ctx context.Context) ([]entity.Product, error)
}

// ConsumptionLine es el consumo de un componente dentro de un armado.
type ConsumptionLine struct {
	MaterialID string
	Quantity   decimal.Decimal
}

// AssemblySubmission es el armado ya validado que se envía al backend.
// UnitCost es el costo unitario calculado por el resolver; BatchID agrupa
// los movimientos de consumo con la entrada del compuesto.
type AssemblySubmission struct {
	CompositeID string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Date        time.Time
	Description string
	BatchID     string
	Consumption []ConsumptionLine
}

// SaleSubmission es la venta ya validada (asignación por lotes incluida).
// Lines vacío delega la deducción completa al backend (ruta legada).
type SaleSubmission struct {
	ProductID   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Date        time.Time
	Description string
	Lines       []entity.SaleLine
}

// MovementWriter envía mutaciones al backend. El backend es quien descuenta
// stock y garantiza consistencia; aquí solo se valida antes de enviar.
// Los errores de red/backend se propagan opacos, sin reintentos.
type MovementWriter interface {
	SubmitMaterialMovement(ctx context.Context, mv entity.MaterialMovement) (*entity.MaterialMovement, error)
	SubmitAssembly(ctx context.Context, sub AssemblySubmission) (*entity.MaterialMovement, error)
	SubmitProduction(ctx context.Context, mv entity.ProductMovement) (*entity.ProductMovement, error)
	SubmitProductSale(ctx context.Context, sale SaleSubmission) (*entity.ProductMovement, error)
}

// Notifier es el sumidero de notificaciones hacia la capa de presentación.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// AssemblyEditor aplica la edición de un armado existente: el backend
// reemplaza el consumo registrado del batch por el recalculado.
type AssemblyEditor interface {
	UpdateAssembly(ctx context.Context, batchID string, sub AssemblySubmission) (*entity.MaterialMovement, error)
}
