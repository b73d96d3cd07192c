package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/domain/schema"
)

// TxRepos repositorios atados a una misma transacción y a las capacidades del esquema.
type TxRepos struct {
	Lots        repository.LotRepository
	Products    repository.ProductRepository
	History     repository.HistoryRepository
	Purchases   repository.PurchaseRepository
	Sales       repository.SaleRepository
	Devolutions repository.DevolutionRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Run hace Commit si fn no falla y Rollback en cualquier otro caso (incluida la cancelación de ctx).
// View abre una transacción de solo lectura.
type TxRunner interface {
	Run(ctx context.Context, caps *schema.Capabilities, fn func(TxRepos) error) error
	View(ctx context.Context, caps *schema.Capabilities, fn func(TxRepos) error) error
}

// CapabilityProvider devuelve las capacidades del esquema (en caché). Lo implementa *schema.Descriptor.
type CapabilityProvider interface {
	Describe(ctx context.Context) (*schema.Capabilities, error)
}

// StockCache caché de lectura del stock por producto. Se invalida después de cada commit.
type StockCache interface {
	GetProductStock(ctx context.Context, productID string) (*dto.ProductStockDTO, error) // nil si no está
	SetProductStock(ctx context.Context, stock *dto.ProductStockDTO) error
	Invalidate(ctx context.Context, productIDs ...string) error
}

// MetricsRecorder registra el resultado de cada operación del libro.
type MetricsRecorder interface {
	ObserveOperation(operation string, err error, elapsed time.Duration)
	AddUnits(operation string, units int64)
}
