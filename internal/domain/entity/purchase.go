package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una compra.
const (
	PurchasePending   = "pending"
	PurchaseCompleted = "completed"
	PurchaseCanceled  = "canceled"
)

// Purchase representa una compra de materia prima a un proveedor.
type Purchase struct {
	ID            string
	RawMaterialID string
	SupplierID    string
	UserID        string
	Qty           int64
	Price         decimal.Decimal // precio unitario
	Total         decimal.Decimal
	Date          time.Time
	Status        string
	InvoiceNumber string
	Notes         string
	ReceivedDate  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
