package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-produccion/internal/application/audit"
	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// DeliveryService consulta y seguimiento de despachos.
type DeliveryService struct {
	uow   ports.UnitOfWork
	repos repository.TxRepos
	audit *audit.Recorder
	now   func() time.Time
}

// NewDeliveryService construye el servicio.
func NewDeliveryService(uow ports.UnitOfWork, repos repository.TxRepos, rec *audit.Recorder) *DeliveryService {
	return &DeliveryService{uow: uow, repos: repos, audit: rec, now: time.Now}
}

// Get obtiene un despacho por ID.
func (s *DeliveryService) Get(ctx context.Context, id string) (*entity.Delivery, error) {
	d, err := s.repos.Deliveries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// GetBySale obtiene el despacho de una venta.
func (s *DeliveryService) GetBySale(ctx context.Context, saleID string) (*entity.Delivery, error) {
	d, err := s.repos.Deliveries.GetBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("despacho de la venta %s: %w", saleID, domain.ErrNotFound)
	}
	return d, nil
}

// UpdateDeliveryInput cambios de un despacho; nil conserva el valor.
type UpdateDeliveryInput struct {
	Status          *string
	ShippingAddress *string
	ShippingMethod  *string
	Courier         *string
	TrackingNumber  *string
	ScheduledDate   *time.Time
	DeliveryDate    *time.Time
	Notes           *string
}

// Update avanza el estado y registra transporte y fechas. Un despacho entregado o cancelado
// no se modifica; al marcarlo entregado sin fecha se usa la actual.
func (s *DeliveryService) Update(ctx context.Context, actor, id string, in UpdateDeliveryInput) (*entity.Delivery, error) {
	var out *entity.Delivery
	err := s.uow.Run(ctx, func(r repository.TxRepos) error {
		d, err := r.Deliveries.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return fmt.Errorf("despacho %s: %w", id, domain.ErrNotFound)
		}
		if d.Terminal() {
			return fmt.Errorf("despacho en estado %s: %w", d.Status, domain.ErrConflict)
		}
		if in.Status != nil && !d.CanTransition(*in.Status) {
			return fmt.Errorf("transición %s -> %s no permitida: %w", d.Status, *in.Status, domain.ErrConflict)
		}
		now := s.now()
		if in.Status != nil {
			d.Status = *in.Status
		}
		if in.ShippingAddress != nil {
			d.ShippingAddress = *in.ShippingAddress
		}
		if in.ShippingMethod != nil {
			d.ShippingMethod = *in.ShippingMethod
		}
		if in.Courier != nil {
			d.Courier = *in.Courier
		}
		if in.TrackingNumber != nil {
			d.TrackingNumber = *in.TrackingNumber
		}
		if in.ScheduledDate != nil {
			d.ScheduledDate = in.ScheduledDate
		}
		if in.DeliveryDate != nil {
			d.DeliveryDate = in.DeliveryDate
		}
		if in.Notes != nil {
			d.Notes = *in.Notes
		}
		if d.Status == entity.DeliveryDelivered && d.DeliveryDate == nil {
			d.DeliveryDate = &now
		}
		d.UpdatedAt = now
		if err := r.Deliveries.Update(ctx, d); err != nil {
			return err
		}
		out = d
		return s.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableDelivery,
			Action:      "Update Delivery",
			Description: fmt.Sprintf("Despacho de la venta %s en estado %s", d.SaleID, d.Status),
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
