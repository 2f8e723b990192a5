package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

var _ repository.RawMaterialRepository = (*RawMaterialRepo)(nil)

// RawMaterialRepo implementación de RawMaterialRepository sobre PostgreSQL.
type RawMaterialRepo struct {
	q Querier
}

// NewRawMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRawMaterialRepository(q Querier) *RawMaterialRepo {
	return &RawMaterialRepo{q: q}
}

const rawMaterialColumns = `id, name, unit, price, stock, is_active, created_at, updated_at`

func scanRawMaterial(row rowScanner) (*entity.RawMaterial, error) {
	var m entity.RawMaterial
	if err := row.Scan(&m.ID, &m.Name, &m.Unit, &m.Price, &m.Stock, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste una materia prima.
func (r *RawMaterialRepo) Create(ctx context.Context, m *entity.RawMaterial) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO raw_materials (id, name, unit, price, stock, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.Name, m.Unit, m.Price, m.Stock, m.IsActive, m.CreatedAt, m.UpdatedAt,
	)
	return mapError("insert raw material", err)
}

func (r *RawMaterialRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.RawMaterial, error) {
	m, err := scanRawMaterial(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// GetByID obtiene una materia prima por ID.
func (r *RawMaterialRepo) GetByID(ctx context.Context, id string) (*entity.RawMaterial, error) {
	return r.getOne(ctx, "get raw material", `SELECT `+rawMaterialColumns+` FROM raw_materials WHERE id = $1`, id)
}

// GetForUpdate obtiene la materia prima bloqueando la fila.
func (r *RawMaterialRepo) GetForUpdate(ctx context.Context, id string) (*entity.RawMaterial, error) {
	return r.getOne(ctx, "lock raw material", `SELECT `+rawMaterialColumns+` FROM raw_materials WHERE id = $1 FOR UPDATE`, id)
}

// GetByName busca por nombre sin distinguir mayúsculas.
func (r *RawMaterialRepo) GetByName(ctx context.Context, name string) (*entity.RawMaterial, error) {
	return r.getOne(ctx, "get raw material by name", `SELECT `+rawMaterialColumns+` FROM raw_materials WHERE lower(name) = lower($1)`, name)
}

// List lista materias primas con búsqueda y paginación.
func (r *RawMaterialRepo) List(ctx context.Context, f repository.CatalogFilter) ([]*entity.RawMaterial, int, error) {
	var w whereBuilder
	if f.Search != "" {
		w.add("name ILIKE ?", likePattern(f.Search))
	}
	where := w.sql()
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM raw_materials`+where, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count raw materials: %w", err)
	}
	query := `SELECT ` + rawMaterialColumns + ` FROM raw_materials` + where + ` ORDER BY created_at DESC, id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list raw materials: %w", err)
	}
	defer rows.Close()
	var list []*entity.RawMaterial
	for rows.Next() {
		m, err := scanRawMaterial(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan raw material: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

// Update actualiza nombre, unidad, precio y estado. No modifica stock.
func (r *RawMaterialRepo) Update(ctx context.Context, m *entity.RawMaterial) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE raw_materials SET name = $2, unit = $3, price = $4, is_active = $5, updated_at = $6
		WHERE id = $1`,
		m.ID, m.Name, m.Unit, m.Price, m.IsActive, m.UpdatedAt,
	)
	if err != nil {
		return mapError("update raw material", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePrice fija el último precio de compra.
func (r *RawMaterialRepo) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE raw_materials SET price = $2, updated_at = now() WHERE id = $1`, id, price)
	if err != nil {
		return mapError("update raw material price", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddStock suma delta solo si el resultado no queda negativo.
func (r *RawMaterialRepo) AddStock(ctx context.Context, id string, delta int64) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE raw_materials SET stock = stock + $2, updated_at = now() WHERE id = $1 AND stock + $2 >= 0`,
		id, delta,
	)
	if err != nil {
		return mapError("update raw material stock", err)
	}
	if cmd.RowsAffected() == 1 {
		return nil
	}
	return missingOrInsufficient(ctx, r.q, "raw_materials", id)
}

// Delete elimina una materia prima sin referencias.
func (r *RawMaterialRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM raw_materials WHERE id = $1`, id)
	if err != nil {
		return mapError("delete raw material", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
