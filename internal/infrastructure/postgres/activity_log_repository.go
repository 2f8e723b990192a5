package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo implementación de la bitácora de auditoría.
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

// Create inserta un registro.
func (r *ActivityLogRepo) Create(ctx context.Context, l *entity.ActivityLog) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO activity_logs (id, user_id, table_name, action, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, nullIfEmpty(l.UserID), l.Table, l.Action, l.Description, l.CreatedAt,
	)
	return mapError("insert activity log", err)
}

// ListByTable lista registros de una tabla ("" = todas) en orden de inserción.
func (r *ActivityLogRepo) ListByTable(ctx context.Context, table string) ([]*entity.ActivityLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, COALESCE(user_id::text, ''), table_name, action, description, created_at
		FROM activity_logs WHERE $1 = '' OR table_name = $1
		ORDER BY created_at, id`, table)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.ActivityLog
	for rows.Next() {
		var l entity.ActivityLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Table, &l.Action, &l.Description, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
