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

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación del kardex (tabla stocks) sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// El dueño se guarda en dos columnas nullable con CHECK de exclusividad.
const stockSelect = `
	SELECT s.id, COALESCE(s.product_id::text, ''), COALESCE(s.raw_material_id::text, ''),
		s.type, s.stock, s.description, s.source, COALESCE(s.reference_id::text, ''),
		COALESCE(s.created_by::text, ''), s.created_at, s.updated_at,
		COALESCE(p.name, m.name, ''), COALESCE(m.unit, ''), COALESCE(p.stock, m.stock, 0)
	FROM stocks s
	LEFT JOIN products p ON p.id = s.product_id
	LEFT JOIN raw_materials m ON m.id = s.raw_material_id`

func scanStock(row rowScanner) (*entity.Stock, error) {
	var s entity.Stock
	var productID, materialID string
	err := row.Scan(&s.ID, &productID, &materialID, &s.Type, &s.Quantity, &s.Description, &s.Source,
		&s.ReferenceID, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt, &s.OwnerName, &s.OwnerUnit, &s.OwnerStock)
	if err != nil {
		return nil, err
	}
	if productID != "" {
		s.Owner = entity.ProductOwner(productID)
	} else {
		s.Owner = entity.RawMaterialOwner(materialID)
	}
	return &s, nil
}

func ownerColumns(o entity.StockOwner) (productID, materialID any) {
	if o.Kind == entity.OwnerProduct {
		return o.ID, nil
	}
	return nil, o.ID
}

func ownerCondition(o entity.StockOwner) string {
	if o.Kind == entity.OwnerProduct {
		return "product_id = $1"
	}
	return "raw_material_id = $1"
}

// Create inserta un movimiento. Un dueño inexistente viola la FK (ErrConstraint).
func (r *StockRepo) Create(ctx context.Context, s *entity.Stock) error {
	if !s.Owner.Valid() {
		return domain.ErrInvalidInput
	}
	productID, materialID := ownerColumns(s.Owner)
	_, err := r.q.Exec(ctx, `
		INSERT INTO stocks (id, product_id, raw_material_id, type, stock, description, source, reference_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, productID, materialID, s.Type, s.Quantity, s.Description, s.Source,
		nullIfEmpty(s.ReferenceID), nullIfEmpty(s.CreatedBy), s.CreatedAt, s.UpdatedAt,
	)
	return mapError("insert stock", err)
}

func (r *StockRepo) getOne(ctx context.Context, op, query, id string) (*entity.Stock, error) {
	s, err := scanStock(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// GetByID obtiene un movimiento con los datos de su dueño.
func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.Stock, error) {
	return r.getOne(ctx, "get stock", stockSelect+` WHERE s.id = $1`, id)
}

// GetForUpdate bloquea solo la fila del movimiento (no las del dueño).
func (r *StockRepo) GetForUpdate(ctx context.Context, id string) (*entity.Stock, error) {
	return r.getOne(ctx, "lock stock", stockSelect+` WHERE s.id = $1 FOR UPDATE OF s`, id)
}

// Update persiste tipo, cantidad y descripción.
func (r *StockRepo) Update(ctx context.Context, s *entity.Stock) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE stocks SET type = $2, stock = $3, description = $4, updated_at = $5 WHERE id = $1`,
		s.ID, s.Type, s.Quantity, s.Description, s.UpdatedAt,
	)
	if err != nil {
		return mapError("update stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un movimiento.
func (r *StockRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stocks WHERE id = $1`, id)
	if err != nil {
		return mapError("delete stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func stockWhere(f repository.StockFilter) whereBuilder {
	var w whereBuilder
	if f.Type != "" {
		w.add("s.type = ?", f.Type)
	}
	switch f.OwnerKind {
	case entity.OwnerProduct:
		w.conds = append(w.conds, "s.product_id IS NOT NULL")
	case entity.OwnerRawMaterial:
		w.conds = append(w.conds, "s.raw_material_id IS NOT NULL")
	}
	if f.OwnerID != "" {
		w.add("(s.product_id::text = ? OR s.raw_material_id::text = ?)", f.OwnerID)
	}
	if f.Search != "" {
		w.add("(s.description ILIKE ? OR COALESCE(p.name, m.name) ILIKE ?)", likePattern(f.Search))
	}
	if f.From != nil {
		w.add("s.created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("s.created_at <= ?", *f.To)
	}
	return w
}

const stockJoins = ` FROM stocks s
	LEFT JOIN products p ON p.id = s.product_id
	LEFT JOIN raw_materials m ON m.id = s.raw_material_id`

// List lista movimientos filtrados, más recientes primero.
func (r *StockRepo) List(ctx context.Context, f repository.StockFilter) ([]*entity.Stock, int, error) {
	w := stockWhere(f)
	where := w.sql()
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+stockJoins+where, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stocks: %w", err)
	}
	rows, err := r.q.Query(ctx, stockSelect+where+` ORDER BY s.created_at DESC, s.id`+w.page(f.Limit, f.Offset), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// Totals suma cantidades por tipo con los mismos filtros del listado.
func (r *StockRepo) Totals(ctx context.Context, f repository.StockFilter) (repository.StockTotals, error) {
	w := stockWhere(f)
	query := `
		SELECT
			COALESCE(SUM(s.stock) FILTER (WHERE s.type = 'in'), 0),
			COALESCE(SUM(s.stock) FILTER (WHERE s.type = 'out'), 0),
			COALESCE(SUM(s.stock) FILTER (WHERE s.type = 'expired'), 0),
			COALESCE(SUM(s.stock) FILTER (WHERE s.type = 'reject'), 0)` + stockJoins + w.sql()
	var t repository.StockTotals
	if err := r.q.QueryRow(ctx, query, w.args...).Scan(&t.StockIn, &t.StockOut, &t.Expired, &t.Rejected); err != nil {
		return t, fmt.Errorf("stock totals: %w", err)
	}
	return t, nil
}

// SumByOwner suma con signo: in suma, el resto resta.
func (r *StockRepo) SumByOwner(ctx context.Context, owner entity.StockOwner) (int64, error) {
	query := `SELECT COALESCE(SUM(CASE WHEN type = 'in' THEN stock ELSE -stock END), 0)::bigint FROM stocks WHERE ` + ownerCondition(owner)
	var sum int64
	if err := r.q.QueryRow(ctx, query, owner.ID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum stocks: %w", err)
	}
	return sum, nil
}

// CountByOwner cuenta los movimientos del dueño.
func (r *StockRepo) CountByOwner(ctx context.Context, owner entity.StockOwner) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stocks WHERE `+ownerCondition(owner), owner.ID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stocks: %w", err)
	}
	return n, nil
}
