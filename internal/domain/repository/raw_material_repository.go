package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// RawMaterialRepository puerto de persistencia para materias primas.
type RawMaterialRepository interface {
	Create(ctx context.Context, m *entity.RawMaterial) error
	GetByID(ctx context.Context, id string) (*entity.RawMaterial, error)
	GetForUpdate(ctx context.Context, id string) (*entity.RawMaterial, error)
	GetByName(ctx context.Context, name string) (*entity.RawMaterial, error)
	List(ctx context.Context, f CatalogFilter) ([]*entity.RawMaterial, int, error)
	Update(ctx context.Context, m *entity.RawMaterial) error
	UpdatePrice(ctx context.Context, id string, price decimal.Decimal) error
	// AddStock igual que ProductRepository.AddStock.
	AddStock(ctx context.Context, id string, delta int64) error
	Delete(ctx context.Context, id string) error
}
