package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemResponse línea de factura.
type InvoiceItemResponse struct {
	ProductID     string          `json:"product_id"`
	NameSnapshot  string          `json:"name_snapshot"`
	PriceSnapshot decimal.Decimal `json:"price_snapshot"`
	Qty           int64           `json:"qty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse salida de una factura.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	SaleID        string                `json:"sale_id"`
	CustomerID    string                `json:"customer_id,omitempty"`
	Date          time.Time             `json:"date"`
	Total         decimal.Decimal       `json:"total"`
	ShippingCost  decimal.Decimal       `json:"shipping_cost"`
	AdminFee      decimal.Decimal       `json:"admin_fee"`
	Tax           decimal.Decimal       `json:"tax"`
	Discount      decimal.Decimal       `json:"discount"`
	PaymentStatus string                `json:"payment_status"`
	PaymentDate   *time.Time            `json:"payment_date"`
	PaymentMethod string                `json:"payment_method"`
	Items         []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}
