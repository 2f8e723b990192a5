package billing

import (
	"context"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// InvoiceDocument datos completos de una factura para su representación gráfica.
type InvoiceDocument struct {
	Issuer  string // nombre del negocio emisor (APP_NAME)
	Invoice *entity.Invoice
	Items   []*entity.InvoiceItem
}

// InvoicePDFGenerator genera el PDF de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}
