// Package billing genera despachos y facturas a partir de ventas confirmadas.
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-produccion/internal/application/audit"
	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/application/sales"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

var _ sales.AfterSale = (*Service)(nil)

// intentos ante colisión del número de factura entre transacciones concurrentes
const numberAttempts = 3

// Service despachos y facturas.
type Service struct {
	uow   ports.UnitOfWork
	audit *audit.Recorder
	now   func() time.Time
}

// NewService construye el servicio.
func NewService(uow ports.UnitOfWork, rec *audit.Recorder) *Service {
	return &Service{uow: uow, audit: rec, now: time.Now}
}

// CreatePendingDelivery crea el despacho en estado pending para la venta.
func (s *Service) CreatePendingDelivery(ctx context.Context, actor string, sale *entity.Sale, in sales.DeliveryInput) (*entity.Delivery, error) {
	now := s.now()
	d := &entity.Delivery{
		ID:              uuid.New().String(),
		SaleID:          sale.ID,
		UserID:          actor,
		Status:          entity.DeliveryPending,
		ShippingAddress: in.ShippingAddress,
		ShippingMethod:  in.ShippingMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if d.ShippingAddress == "" {
		d.ShippingAddress = "-"
	}
	err := s.uow.Run(ctx, func(r repository.TxRepos) error {
		return r.Deliveries.Create(ctx, d)
	})
	if err != nil {
		return nil, fmt.Errorf("crear despacho: %w", err)
	}
	return d, nil
}

// InvoiceFromSale genera la factura de la venta copiando montos y datos de pago, con una línea
// que guarda nombre y precio del producto al momento de facturar.
func (s *Service) InvoiceFromSale(ctx context.Context, actor, saleID string) (*entity.Invoice, error) {
	var (
		inv *entity.Invoice
		err error
	)
	for i := 0; i < numberAttempts; i++ {
		inv, err = s.invoiceFromSale(ctx, actor, saleID)
		if !errors.Is(err, domain.ErrDuplicate) {
			break
		}
	}
	return inv, err
}

func (s *Service) invoiceFromSale(ctx context.Context, actor, saleID string) (*entity.Invoice, error) {
	var inv *entity.Invoice
	err := s.uow.Run(ctx, func(r repository.TxRepos) error {
		sale, err := r.Sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("venta %s: %w", saleID, domain.ErrNotFound)
		}
		existing, err := r.Invoices.GetBySale(ctx, saleID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("la venta ya tiene la factura %s: %w", existing.InvoiceNumber, domain.ErrConflict)
		}
		last, err := r.Invoices.LastNumber(ctx)
		if err != nil {
			return err
		}
		number, err := NextInvoiceNumber(last)
		if err != nil {
			return err
		}
		now := s.now()
		inv = &entity.Invoice{
			ID:            uuid.New().String(),
			InvoiceNumber: number,
			SaleID:        sale.ID,
			UserID:        sale.UserID,
			CustomerID:    sale.CustomerID,
			Date:          sale.Date,
			Total:         sale.Total,
			ShippingCost:  sale.ShippingCost,
			AdminFee:      sale.AdminFee,
			Tax:           sale.Tax,
			Discount:      sale.Discount,
			PaymentStatus: sale.PaymentStatus,
			PaymentDate:   sale.PaymentDate,
			PaymentMethod: sale.PaymentMethod,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if inv.PaymentStatus == "" {
			inv.PaymentStatus = entity.PaymentUnpaid
		}
		item := &entity.InvoiceItem{
			ID:            uuid.New().String(),
			InvoiceID:     inv.ID,
			ProductID:     sale.ProductID,
			NameSnapshot:  sale.ProductName,
			PriceSnapshot: sale.Price,
			Qty:           sale.Qty,
			Subtotal:      sale.Price.Mul(decimal.NewFromInt(sale.Qty)),
		}
		if err := r.Invoices.Create(ctx, inv, []*entity.InvoiceItem{item}); err != nil {
			return err
		}
		return s.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableInvoice,
			Action:      "Auto Create Invoice",
			Description: fmt.Sprintf("Factura %s generada desde la venta %s", inv.InvoiceNumber, sale.ID),
		})
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}
