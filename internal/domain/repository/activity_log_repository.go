package repository

import (
	"context"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// ActivityLogRepository puerto de auditoría, solo inserción.
type ActivityLogRepository interface {
	Create(ctx context.Context, l *entity.ActivityLog) error
	ListByTable(ctx context.Context, table string) ([]*entity.ActivityLog, error)
}
