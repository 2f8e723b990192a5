package repository

import (
	"context"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// ProductionRepository puerto de órdenes de producción.
type ProductionRepository interface {
	Create(ctx context.Context, p *entity.Production) error
	GetByID(ctx context.Context, id string) (*entity.Production, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Production, error)
	List(ctx context.Context, f ProductionFilter) ([]*entity.Production, int, error)
	Update(ctx context.Context, p *entity.Production) error
	Delete(ctx context.Context, id string) error
}
