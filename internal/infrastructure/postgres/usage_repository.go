package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

var _ repository.UsageRepository = (*UsageRepo)(nil)

// UsageRepo implementación de UsageRepository sobre PostgreSQL.
type UsageRepo struct {
	q Querier
}

// NewUsageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUsageRepository(q Querier) *UsageRepo {
	return &UsageRepo{q: q}
}

const usageColumns = `id, raw_material_id, COALESCE(user_id::text, ''), qty, date, description, created_at, updated_at`

func scanUsage(row rowScanner) (*entity.Usage, error) {
	var u entity.Usage
	if err := row.Scan(&u.ID, &u.RawMaterialID, &u.UserID, &u.Qty, &u.Date, &u.Description, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un uso.
func (r *UsageRepo) Create(ctx context.Context, u *entity.Usage) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO usages (id, raw_material_id, user_id, qty, date, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.RawMaterialID, nullIfEmpty(u.UserID), u.Qty, u.Date, u.Description, u.CreatedAt, u.UpdatedAt,
	)
	return mapError("insert usage", err)
}

func (r *UsageRepo) getOne(ctx context.Context, op, query, id string) (*entity.Usage, error) {
	u, err := scanUsage(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetByID obtiene un uso.
func (r *UsageRepo) GetByID(ctx context.Context, id string) (*entity.Usage, error) {
	return r.getOne(ctx, "get usage", `SELECT `+usageColumns+` FROM usages WHERE id = $1`, id)
}

// GetForUpdate bloquea el uso.
func (r *UsageRepo) GetForUpdate(ctx context.Context, id string) (*entity.Usage, error) {
	return r.getOne(ctx, "lock usage", `SELECT `+usageColumns+` FROM usages WHERE id = $1 FOR UPDATE`, id)
}

// List lista usos por fecha descendente.
func (r *UsageRepo) List(ctx context.Context, f repository.UsageFilter) ([]*entity.Usage, int, error) {
	var w whereBuilder
	if f.Search != "" {
		w.add("description ILIKE ?", likePattern(f.Search))
	}
	if f.RawMaterialID != "" {
		w.add("raw_material_id = ?", f.RawMaterialID)
	}
	if f.From != nil {
		w.add("date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("date <= ?", *f.To)
	}
	where := w.sql()
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM usages`+where, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count usages: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+usageColumns+` FROM usages`+where+` ORDER BY date DESC, id`+w.page(f.Limit, f.Offset), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list usages: %w", err)
	}
	defer rows.Close()
	var list []*entity.Usage
	for rows.Next() {
		u, err := scanUsage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan usage: %w", err)
		}
		list = append(list, u)
	}
	return list, total, rows.Err()
}

// Update persiste cantidad, fecha y descripción.
func (r *UsageRepo) Update(ctx context.Context, u *entity.Usage) error {
	cmd, err := r.q.Exec(ctx, `UPDATE usages SET qty = $2, date = $3, description = $4, updated_at = $5 WHERE id = $1`,
		u.ID, u.Qty, u.Date, u.Description, u.UpdatedAt)
	if err != nil {
		return mapError("update usage", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un uso.
func (r *UsageRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM usages WHERE id = $1`, id)
	if err != nil {
		return mapError("delete usage", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
