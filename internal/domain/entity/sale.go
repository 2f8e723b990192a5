package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de una venta o factura.
const (
	PaymentUnpaid  = "unpaid"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
)

// Sale representa una venta de un producto.
type Sale struct {
	ID            string
	ProductID     string
	CustomerID    string
	UserID        string
	Qty           int64
	Price         decimal.Decimal
	Discount      decimal.Decimal
	ShippingCost  decimal.Decimal
	AdminFee      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentStatus string
	PaymentDate   *time.Time
	PaymentMethod string
	Date          time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	ProductName string // JOIN, no se persiste
}

// ComputeTotal calcula el total: precio * cantidad - descuento + envío + comisión + impuesto.
func (s *Sale) ComputeTotal() decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(s.Qty)).
		Sub(s.Discount).
		Add(s.ShippingCost).
		Add(s.AdminFee).
		Add(s.Tax)
}
