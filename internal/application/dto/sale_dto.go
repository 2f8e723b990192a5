package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest entrada de una venta. Sin price se usa el precio del producto.
type CreateSaleRequest struct {
	ProductID       string           `json:"product_id" validate:"required,uuid"`
	CustomerID      string           `json:"customer_id" validate:"omitempty,uuid"`
	Qty             int64            `json:"qty" validate:"required,min=1"`
	Price           *decimal.Decimal `json:"price"`
	Discount        decimal.Decimal  `json:"discount"`
	ShippingCost    decimal.Decimal  `json:"shipping_cost"`
	AdminFee        decimal.Decimal  `json:"admin_fee"`
	Tax             decimal.Decimal  `json:"tax"`
	PaymentStatus   string           `json:"payment_status" validate:"omitempty,oneof=unpaid partial paid"`
	PaymentDate     *time.Time       `json:"payment_date"`
	PaymentMethod   string           `json:"payment_method" validate:"max=50"`
	Date            *time.Time       `json:"date"`
	ShippingAddress string           `json:"shipping_address" validate:"max=500"`
	ShippingMethod  string           `json:"shipping_method" validate:"max=100"`
}

// UpdateSaleRequest cambios de una venta.
type UpdateSaleRequest struct {
	ProductID     *string          `json:"product_id" validate:"omitempty,uuid"`
	CustomerID    *string          `json:"customer_id" validate:"omitempty,uuid"`
	Qty           *int64           `json:"qty" validate:"omitempty,min=1"`
	Price         *decimal.Decimal `json:"price"`
	Discount      *decimal.Decimal `json:"discount"`
	ShippingCost  *decimal.Decimal `json:"shipping_cost"`
	AdminFee      *decimal.Decimal `json:"admin_fee"`
	Tax           *decimal.Decimal `json:"tax"`
	PaymentStatus *string          `json:"payment_status" validate:"omitempty,oneof=unpaid partial paid"`
	PaymentDate   *time.Time       `json:"payment_date"`
	PaymentMethod *string          `json:"payment_method" validate:"omitempty,max=50"`
	Date          *time.Time       `json:"date"`
}

// SaleListQuery filtros del listado de ventas. search busca en el nombre del producto.
type SaleListQuery struct {
	Search        string `query:"search"`
	ProductID     string `query:"product_id" validate:"omitempty,uuid"`
	PaymentStatus string `query:"payment_status" validate:"omitempty,oneof=unpaid partial paid"`
	From          string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To            string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	PageRequest
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name,omitempty"`
	CustomerID    string          `json:"customer_id,omitempty"`
	UserID        string          `json:"user_id"`
	Qty           int64           `json:"qty"`
	Price         decimal.Decimal `json:"price"`
	Discount      decimal.Decimal `json:"discount"`
	ShippingCost  decimal.Decimal `json:"shipping_cost"`
	AdminFee      decimal.Decimal `json:"admin_fee"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	PaymentStatus string          `json:"payment_status"`
	PaymentDate   *time.Time      `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
	Date          time.Time       `json:"date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// UpdateDeliveryRequest seguimiento de un despacho.
type UpdateDeliveryRequest struct {
	Status          *string    `json:"status" validate:"omitempty,oneof=pending processing shipped delivered cancelled"`
	ShippingAddress *string    `json:"shipping_address" validate:"omitempty,max=500"`
	ShippingMethod  *string    `json:"shipping_method" validate:"omitempty,max=100"`
	Courier         *string    `json:"courier" validate:"omitempty,max=100"`
	TrackingNumber  *string    `json:"tracking_number" validate:"omitempty,max=100"`
	ScheduledDate   *time.Time `json:"scheduled_date"`
	DeliveryDate    *time.Time `json:"delivery_date"`
	Notes           *string    `json:"notes"`
}

// DeliveryResponse salida de un despacho.
type DeliveryResponse struct {
	ID              string     `json:"id"`
	SaleID          string     `json:"sale_id"`
	Status          string     `json:"status"`
	ShippingAddress string     `json:"shipping_address"`
	ShippingMethod  string     `json:"shipping_method"`
	Courier         string     `json:"courier,omitempty"`
	TrackingNumber  string     `json:"tracking_number,omitempty"`
	ScheduledDate   *time.Time `json:"scheduled_date,omitempty"`
	DeliveryDate    *time.Time `json:"delivery_date,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SaleCreatedResponse sobre de la creación de una venta: la venta más el despacho y la
// factura automáticos, o el aviso de que la factura debe crearse a mano.
type SaleCreatedResponse struct {
	Status       string            `json:"status"`
	Message      string            `json:"message,omitempty"`
	Data         SaleResponse      `json:"data"`
	Delivery     *DeliveryResponse `json:"delivery,omitempty"`
	Invoice      *InvoiceResponse  `json:"invoice,omitempty"`
	InvoiceError string            `json:"invoice_error,omitempty"`
}
