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

var _ repository.ProductionRepository = (*ProductionRepo)(nil)

// ProductionRepo implementación de ProductionRepository sobre PostgreSQL.
type ProductionRepo struct {
	q Querier
}

// NewProductionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionRepository(q Querier) *ProductionRepo {
	return &ProductionRepo{q: q}
}

const productionSelect = `
	SELECT pr.id, pr.product_id, COALESCE(pr.user_id::text, ''), pr.qty, pr.production_date, pr.status,
		pr.notes, pr.hpp, pr.created_at, pr.updated_at, COALESCE(p.name, '')
	FROM productions pr
	LEFT JOIN products p ON p.id = pr.product_id`

func scanProduction(row rowScanner) (*entity.Production, error) {
	var p entity.Production
	err := row.Scan(&p.ID, &p.ProductID, &p.UserID, &p.Qty, &p.ProductionDate, &p.Status,
		&p.Notes, &p.HPP, &p.CreatedAt, &p.UpdatedAt, &p.ProductName)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste una orden de producción.
func (r *ProductionRepo) Create(ctx context.Context, p *entity.Production) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO productions (id, product_id, user_id, qty, production_date, status, notes, hpp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.ProductID, nullIfEmpty(p.UserID), p.Qty, p.ProductionDate, p.Status, p.Notes, p.HPP,
		p.CreatedAt, p.UpdatedAt,
	)
	return mapError("insert production", err)
}

func (r *ProductionRepo) getOne(ctx context.Context, op, query, id string) (*entity.Production, error) {
	p, err := scanProduction(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetByID obtiene una orden con el nombre del producto.
func (r *ProductionRepo) GetByID(ctx context.Context, id string) (*entity.Production, error) {
	return r.getOne(ctx, "get production", productionSelect+` WHERE pr.id = $1`, id)
}

// GetForUpdate bloquea la orden; es el primer bloqueo del procesamiento.
func (r *ProductionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Production, error) {
	return r.getOne(ctx, "lock production", productionSelect+` WHERE pr.id = $1 FOR UPDATE OF pr`, id)
}

// List lista órdenes filtradas por estado y producto.
func (r *ProductionRepo) List(ctx context.Context, f repository.ProductionFilter) ([]*entity.Production, int, error) {
	var w whereBuilder
	if f.Status != "" {
		w.add("pr.status = ?", f.Status)
	}
	if f.ProductID != "" {
		w.add("pr.product_id = ?", f.ProductID)
	}
	where := w.sql()
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM productions pr`+where, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count productions: %w", err)
	}
	rows, err := r.q.Query(ctx, productionSelect+where+` ORDER BY pr.created_at DESC, pr.id`+w.page(f.Limit, f.Offset), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list productions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Production
	for rows.Next() {
		p, err := scanProduction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan production: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// Update persiste los campos editables, el estado y el HPP.
func (r *ProductionRepo) Update(ctx context.Context, p *entity.Production) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE productions SET product_id = $2, qty = $3, production_date = $4, status = $5, notes = $6,
			hpp = $7, updated_at = $8
		WHERE id = $1`,
		p.ID, p.ProductID, p.Qty, p.ProductionDate, p.Status, p.Notes, p.HPP, p.UpdatedAt,
	)
	if err != nil {
		return mapError("update production", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una orden.
func (r *ProductionRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM productions WHERE id = $1`, id)
	if err != nil {
		return mapError("delete production", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
