package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice representa la cabecera de una factura generada desde una venta.
type Invoice struct {
	ID            string
	InvoiceNumber string // INV-001, INV-002, ...
	SaleID        string
	UserID        string
	CustomerID    string
	Date          time.Time
	Total         decimal.Decimal
	ShippingCost  decimal.Decimal
	AdminFee      decimal.Decimal
	Tax           decimal.Decimal
	Discount      decimal.Decimal
	PaymentStatus string
	PaymentDate   *time.Time
	PaymentMethod string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
