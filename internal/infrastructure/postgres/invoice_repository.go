package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, invoice_number, sale_id, COALESCE(user_id::text, ''), COALESCE(customer_id::text, ''),
	date, total, shipping_cost, admin_fee, tax, discount, payment_status, payment_date, payment_method,
	created_at, updated_at`

// Create persiste la cabecera y sus líneas. invoice_number y sale_id son únicos (ErrDuplicate).
// Debe ejecutarse dentro de una transacción para que cabecera y líneas queden juntas.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice, items []*entity.InvoiceItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoices (id, invoice_number, sale_id, user_id, customer_id, date, total, shipping_cost,
			admin_fee, tax, discount, payment_status, payment_date, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		inv.ID, inv.InvoiceNumber, inv.SaleID, nullIfEmpty(inv.UserID), nullIfEmpty(inv.CustomerID),
		inv.Date, inv.Total, inv.ShippingCost, inv.AdminFee, inv.Tax, inv.Discount,
		inv.PaymentStatus, inv.PaymentDate, inv.PaymentMethod, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return mapError("insert invoice", err)
	}
	for _, it := range items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO invoice_items (id, invoice_id, product_id, name_snapshot, price_snapshot, qty, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, inv.ID, nullIfEmpty(it.ProductID), it.NameSnapshot, it.PriceSnapshot, it.Qty, it.Subtotal,
		)
		if err != nil {
			return mapError("insert invoice item", err)
		}
	}
	return nil
}

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.SaleID, &inv.UserID, &inv.CustomerID,
		&inv.Date, &inv.Total, &inv.ShippingCost, &inv.AdminFee, &inv.Tax, &inv.Discount,
		&inv.PaymentStatus, &inv.PaymentDate, &inv.PaymentMethod, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// GetByID obtiene la cabecera de una factura.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
}

// GetBySale obtiene la factura de una venta.
func (r *InvoiceRepo) GetBySale(ctx context.Context, saleID string) (*entity.Invoice, error) {
	return scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE sale_id = $1`, saleID))
}

// Items obtiene las líneas de una factura.
func (r *InvoiceRepo) Items(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, COALESCE(product_id::text, ''), name_snapshot, price_snapshot, qty, subtotal
		FROM invoice_items WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.NameSnapshot, &it.PriceSnapshot, &it.Qty, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// LastNumber devuelve el mayor número INV-NNN emitido, comparando el sufijo como entero.
func (r *InvoiceRepo) LastNumber(ctx context.Context) (string, error) {
	var last string
	err := r.q.QueryRow(ctx,
		`SELECT invoice_number FROM invoices
		 WHERE invoice_number ~ '^INV-[0-9]+$'
		 ORDER BY substring(invoice_number FROM 5)::numeric DESC LIMIT 1`,
	).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last invoice number: %w", err)
	}
	return last, nil
}
