package repository

import (
	"context"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// SaleRepository puerto de ventas.
type SaleRepository interface {
	Create(ctx context.Context, s *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, int, error)
	Update(ctx context.Context, s *entity.Sale) error
	Delete(ctx context.Context, id string) error
}

// PurchaseRepository puerto de compras de materia prima.
type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	List(ctx context.Context, f PurchaseFilter) ([]*entity.Purchase, int, error)
	Update(ctx context.Context, p *entity.Purchase) error
	Delete(ctx context.Context, id string) error
}

// UsageRepository puerto de usos de materia prima.
type UsageRepository interface {
	Create(ctx context.Context, u *entity.Usage) error
	GetByID(ctx context.Context, id string) (*entity.Usage, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Usage, error)
	List(ctx context.Context, f UsageFilter) ([]*entity.Usage, int, error)
	Update(ctx context.Context, u *entity.Usage) error
	Delete(ctx context.Context, id string) error
}

// DeliveryRepository puerto de despachos.
type DeliveryRepository interface {
	Create(ctx context.Context, d *entity.Delivery) error
	GetByID(ctx context.Context, id string) (*entity.Delivery, error)
	GetBySale(ctx context.Context, saleID string) (*entity.Delivery, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Delivery, error)
	Update(ctx context.Context, d *entity.Delivery) error
}
