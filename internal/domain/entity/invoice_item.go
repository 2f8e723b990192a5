package entity

import "github.com/shopspring/decimal"

// InvoiceItem es una línea de factura con copia del nombre y precio al momento de facturar.
type InvoiceItem struct {
	ID            string
	InvoiceID     string
	ProductID     string
	NameSnapshot  string
	PriceSnapshot decimal.Decimal
	Qty           int64
	Subtotal      decimal.Decimal
}
