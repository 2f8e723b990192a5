package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// InvoiceView factura con sus líneas.
type InvoiceView struct {
	Invoice *entity.Invoice
	Items   []*entity.InvoiceItem
}

// PDFUseCase consulta facturas y genera su representación gráfica (PDF).
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	generator   InvoicePDFGenerator
	issuer      string
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(invoiceRepo repository.InvoiceRepository, generator InvoicePDFGenerator, issuer string) *PDFUseCase {
	return &PDFUseCase{invoiceRepo: invoiceRepo, generator: generator, issuer: issuer}
}

// GetInvoice devuelve la factura con sus líneas o domain.ErrNotFound.
func (uc *PDFUseCase) GetInvoice(ctx context.Context, invoiceID string) (*InvoiceView, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.Items(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("obtener líneas: %w", err)
	}
	return &InvoiceView{Invoice: inv, Items: items}, nil
}

// DownloadInvoicePDF genera el PDF de la factura.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	view, err := uc.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, InvoiceDocument{
		Issuer:  uc.issuer,
		Invoice: view.Invoice,
		Items:   view.Items,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", view.Invoice.InvoiceNumber), nil
}
