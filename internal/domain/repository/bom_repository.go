package repository

import (
	"context"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// BoMRepository puerto de la lista de materiales. (product_id, raw_material_id) es único.
type BoMRepository interface {
	Create(ctx context.Context, b *entity.BoM) error
	GetByID(ctx context.Context, id string) (*entity.BoM, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.BoM, error)
	// LinesByProduct devuelve la receta unida a sus materias primas, ordenada por raw_material_id.
	LinesByProduct(ctx context.Context, productID string) ([]entity.BoMLine, error)
	Update(ctx context.Context, b *entity.BoM) error
	Delete(ctx context.Context, id string) error
}
