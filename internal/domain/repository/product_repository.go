package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Stock y CostPrice no se modifican con Update: se manejan vía el kardex y la producción.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	List(ctx context.Context, f CatalogFilter) ([]*entity.Product, int, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateCostPrice(ctx context.Context, id string, cost decimal.Decimal) error
	// AddStock suma delta al stock si el resultado no queda negativo; si no, ErrInsufficientStock.
	// No escribe en el kardex: solo lo llama el motor de kardex.
	AddStock(ctx context.Context, id string, delta int64) error
	Delete(ctx context.Context, id string) error
}
