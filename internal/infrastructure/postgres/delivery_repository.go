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

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

// DeliveryRepo implementación de DeliveryRepository sobre PostgreSQL.
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

// Create persiste un despacho.
func (r *DeliveryRepo) Create(ctx context.Context, d *entity.Delivery) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO deliveries (id, sale_id, user_id, status, shipping_address, shipping_method, courier,
			tracking_number, scheduled_date, delivery_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		d.ID, d.SaleID, nullIfEmpty(d.UserID), d.Status, d.ShippingAddress, d.ShippingMethod, d.Courier,
		d.TrackingNumber, d.ScheduledDate, d.DeliveryDate, d.Notes, d.CreatedAt, d.UpdatedAt,
	)
	return mapError("insert delivery", err)
}

const deliveryColumns = `id, sale_id, COALESCE(user_id::text, ''), status, shipping_address, shipping_method,
	courier, tracking_number, scheduled_date, delivery_date, notes, created_at, updated_at`

func scanDelivery(row rowScanner) (*entity.Delivery, error) {
	var d entity.Delivery
	err := row.Scan(&d.ID, &d.SaleID, &d.UserID, &d.Status, &d.ShippingAddress, &d.ShippingMethod,
		&d.Courier, &d.TrackingNumber, &d.ScheduledDate, &d.DeliveryDate, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DeliveryRepo) getOne(ctx context.Context, op, query, arg string) (*entity.Delivery, error) {
	d, err := scanDelivery(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

// GetByID obtiene un despacho.
func (r *DeliveryRepo) GetByID(ctx context.Context, id string) (*entity.Delivery, error) {
	return r.getOne(ctx, "get delivery", `SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id)
}

// GetBySale obtiene el despacho más reciente de una venta.
func (r *DeliveryRepo) GetBySale(ctx context.Context, saleID string) (*entity.Delivery, error) {
	return r.getOne(ctx, "get sale delivery",
		`SELECT `+deliveryColumns+` FROM deliveries WHERE sale_id = $1 ORDER BY created_at DESC LIMIT 1`, saleID)
}

// GetForUpdate bloquea el despacho.
func (r *DeliveryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Delivery, error) {
	return r.getOne(ctx, "lock delivery", `SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste estado, transporte, fechas y notas.
func (r *DeliveryRepo) Update(ctx context.Context, d *entity.Delivery) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE deliveries SET status = $2, shipping_address = $3, shipping_method = $4, courier = $5,
			tracking_number = $6, scheduled_date = $7, delivery_date = $8, notes = $9, updated_at = $10
		WHERE id = $1`,
		d.ID, d.Status, d.ShippingAddress, d.ShippingMethod, d.Courier, d.TrackingNumber,
		d.ScheduledDate, d.DeliveryDate, d.Notes, d.UpdatedAt,
	)
	if err != nil {
		return mapError("update delivery", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
