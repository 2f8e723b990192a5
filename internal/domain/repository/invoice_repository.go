package repository

import (
	"context"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// InvoiceRepository puerto de persistencia para facturas y sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice, items []*entity.InvoiceItem) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetBySale(ctx context.Context, saleID string) (*entity.Invoice, error)
	Items(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	// LastNumber devuelve el mayor número INV-NNN emitido ("" si no hay ninguno).
	LastNumber(ctx context.Context) (string, error)
}
