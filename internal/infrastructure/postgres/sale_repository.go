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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleSelect = `
	SELECT s.id, s.product_id, COALESCE(s.customer_id::text, ''), COALESCE(s.user_id::text, ''), s.qty, s.price,
		s.discount, s.shipping_cost, s.admin_fee, s.tax, s.total, s.payment_status, s.payment_date,
		s.payment_method, s.date, s.created_at, s.updated_at, COALESCE(p.name, '')
	FROM sales s
	LEFT JOIN products p ON p.id = s.product_id`

func scanSale(row rowScanner) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.ProductID, &s.CustomerID, &s.UserID, &s.Qty, &s.Price,
		&s.Discount, &s.ShippingCost, &s.AdminFee, &s.Tax, &s.Total, &s.PaymentStatus, &s.PaymentDate,
		&s.PaymentMethod, &s.Date, &s.CreatedAt, &s.UpdatedAt, &s.ProductName)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste una venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, product_id, customer_id, user_id, qty, price, discount, shipping_cost, admin_fee,
			tax, total, payment_status, payment_date, payment_method, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		s.ID, s.ProductID, nullIfEmpty(s.CustomerID), nullIfEmpty(s.UserID), s.Qty, s.Price, s.Discount,
		s.ShippingCost, s.AdminFee, s.Tax, s.Total, s.PaymentStatus, s.PaymentDate, s.PaymentMethod,
		s.Date, s.CreatedAt, s.UpdatedAt,
	)
	return mapError("insert sale", err)
}

func (r *SaleRepo) getOne(ctx context.Context, op, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// GetByID obtiene una venta con el nombre del producto.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, "get sale", saleSelect+` WHERE s.id = $1`, id)
}

// GetForUpdate bloquea la venta.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, "lock sale", saleSelect+` WHERE s.id = $1 FOR UPDATE OF s`, id)
}

// List lista ventas por fecha descendente con búsqueda por nombre de producto.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	var w whereBuilder
	if f.Search != "" {
		w.add("p.name ILIKE ?", likePattern(f.Search))
	}
	if f.ProductID != "" {
		w.add("s.product_id = ?", f.ProductID)
	}
	if f.PaymentStatus != "" {
		w.add("s.payment_status = ?", f.PaymentStatus)
	}
	if f.From != nil {
		w.add("s.date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("s.date <= ?", *f.To)
	}
	where := w.sql()
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales s LEFT JOIN products p ON p.id = s.product_id`+where, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	rows, err := r.q.Query(ctx, saleSelect+where+` ORDER BY s.date DESC, s.id`+w.page(f.Limit, f.Offset), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// Update persiste producto, cantidad, montos y pago.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET product_id = $2, customer_id = $3, qty = $4, price = $5, discount = $6,
			shipping_cost = $7, admin_fee = $8, tax = $9, total = $10, payment_status = $11,
			payment_date = $12, payment_method = $13, date = $14, updated_at = $15
		WHERE id = $1`,
		s.ID, s.ProductID, nullIfEmpty(s.CustomerID), s.Qty, s.Price, s.Discount, s.ShippingCost,
		s.AdminFee, s.Tax, s.Total, s.PaymentStatus, s.PaymentDate, s.PaymentMethod, s.Date, s.UpdatedAt,
	)
	if err != nil {
		return mapError("update sale", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la venta; despacho y factura caen en cascada.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return mapError("delete sale", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
