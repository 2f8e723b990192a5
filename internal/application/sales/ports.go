package sales

import (
	"context"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// DeliveryInput datos de despacho que acompañan a la venta.
type DeliveryInput struct {
	ShippingAddress string
	ShippingMethod  string
}

// AfterSale pasos posteriores a una venta confirmada: despacho pendiente y factura.
// Corren en sus propias transacciones; su fallo no revierte la venta.
type AfterSale interface {
	CreatePendingDelivery(ctx context.Context, actor string, sale *entity.Sale, in DeliveryInput) (*entity.Delivery, error)
	InvoiceFromSale(ctx context.Context, actor, saleID string) (*entity.Invoice, error)
}
