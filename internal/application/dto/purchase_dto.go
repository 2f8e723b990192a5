package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest compra de materia prima.
type CreatePurchaseRequest struct {
	RawMaterialID string           `json:"raw_material_id" validate:"required,uuid"`
	SupplierID    string           `json:"supplier_id" validate:"omitempty,uuid"`
	Qty           int64            `json:"qty" validate:"required,min=1"`
	Price         *decimal.Decimal `json:"price"`
	Date          *time.Time       `json:"date"`
	Status        string           `json:"status" validate:"omitempty,oneof=pending completed canceled"`
	InvoiceNumber string           `json:"invoice_number" validate:"max=100"`
	Notes         string           `json:"notes" validate:"max=1000"`
	ReceivedDate  *time.Time       `json:"received_date"`
}

// UpdatePurchaseRequest cambios de una compra.
type UpdatePurchaseRequest struct {
	Qty           *int64           `json:"qty" validate:"omitempty,min=1"`
	Price         *decimal.Decimal `json:"price"`
	Date          *time.Time       `json:"date"`
	Status        *string          `json:"status" validate:"omitempty,oneof=pending completed canceled"`
	InvoiceNumber *string          `json:"invoice_number" validate:"omitempty,max=100"`
	Notes         *string          `json:"notes" validate:"omitempty,max=1000"`
	ReceivedDate  *time.Time       `json:"received_date"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID            string          `json:"id"`
	RawMaterialID string          `json:"raw_material_id"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	UserID        string          `json:"user_id"`
	Qty           int64           `json:"qty"`
	Price         decimal.Decimal `json:"price"`
	Total         decimal.Decimal `json:"total"`
	Date          time.Time       `json:"date"`
	Status        string          `json:"status"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	ReceivedDate  *time.Time      `json:"received_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// PurchaseListQuery filtros del listado de compras. search busca en número de factura y notas.
type PurchaseListQuery struct {
	Search        string `query:"search"`
	RawMaterialID string `query:"raw_material_id" validate:"omitempty,uuid"`
	Status        string `query:"status" validate:"omitempty,oneof=pending completed canceled"`
	From          string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To            string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	PageRequest
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
