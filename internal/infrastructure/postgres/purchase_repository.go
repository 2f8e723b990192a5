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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, raw_material_id, COALESCE(supplier_id::text, ''), COALESCE(user_id::text, ''), qty, price,
	total, date, status, invoice_number, notes, received_date, created_at, updated_at`

func scanPurchase(row rowScanner) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(&p.ID, &p.RawMaterialID, &p.SupplierID, &p.UserID, &p.Qty, &p.Price,
		&p.Total, &p.Date, &p.Status, &p.InvoiceNumber, &p.Notes, &p.ReceivedDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste una compra.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (id, raw_material_id, supplier_id, user_id, qty, price, total, date, status,
			invoice_number, notes, received_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.ID, p.RawMaterialID, nullIfEmpty(p.SupplierID), nullIfEmpty(p.UserID), p.Qty, p.Price, p.Total,
		p.Date, p.Status, p.InvoiceNumber, p.Notes, p.ReceivedDate, p.CreatedAt, p.UpdatedAt,
	)
	return mapError("insert purchase", err)
}

func (r *PurchaseRepo) getOne(ctx context.Context, op, query, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetByID obtiene una compra.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.getOne(ctx, "get purchase", `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id)
}

// GetForUpdate bloquea la compra.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.getOne(ctx, "lock purchase", `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, id)
}

// List lista compras por fecha descendente.
func (r *PurchaseRepo) List(ctx context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, int, error) {
	var w whereBuilder
	if f.Search != "" {
		w.add("(invoice_number ILIKE ? OR notes ILIKE ?)", likePattern(f.Search))
	}
	if f.RawMaterialID != "" {
		w.add("raw_material_id = ?", f.RawMaterialID)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.From != nil {
		w.add("date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("date <= ?", *f.To)
	}
	where := w.sql()
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM purchases`+where, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+purchaseColumns+` FROM purchases`+where+` ORDER BY date DESC, id`+w.page(f.Limit, f.Offset), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// Update persiste cantidad, precio y datos del documento.
func (r *PurchaseRepo) Update(ctx context.Context, p *entity.Purchase) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE purchases SET supplier_id = $2, qty = $3, price = $4, total = $5, date = $6, status = $7,
			invoice_number = $8, notes = $9, received_date = $10, updated_at = $11
		WHERE id = $1`,
		p.ID, nullIfEmpty(p.SupplierID), p.Qty, p.Price, p.Total, p.Date, p.Status,
		p.InvoiceNumber, p.Notes, p.ReceivedDate, p.UpdatedAt,
	)
	if err != nil {
		return mapError("update purchase", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una compra.
func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return mapError("delete purchase", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
