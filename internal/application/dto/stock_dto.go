package dto

import "time"

// CreateStockRequest movimiento manual del kardex. Exactamente uno de ProductID o RawMaterialID.
type CreateStockRequest struct {
	ProductID     string `json:"product_id" validate:"omitempty,uuid"`
	RawMaterialID string `json:"raw_material_id" validate:"omitempty,uuid"`
	Type          string `json:"type" validate:"required,oneof=in out expired reject"`
	Stock         int64  `json:"stock" validate:"required,min=1"`
	Description   string `json:"description" validate:"max=500"`
}

// UpdateStockRequest corrección de un movimiento manual.
type UpdateStockRequest struct {
	Type        *string `json:"type" validate:"omitempty,oneof=in out expired reject"`
	Stock       *int64  `json:"stock" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// StockListQuery filtros del kardex (query string).
type StockListQuery struct {
	Type      string `query:"type" validate:"omitempty,oneof=in out expired reject"`
	OwnerKind string `query:"owner_kind" validate:"omitempty,oneof=product raw_material"`
	OwnerID   string `query:"owner_id" validate:"omitempty,uuid"`
	Search    string `query:"search"`
	From      string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	PageRequest
}

// StockResponse salida de un movimiento.
type StockResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id,omitempty"`
	RawMaterialID string    `json:"raw_material_id,omitempty"`
	OwnerName     string    `json:"owner_name"`
	OwnerUnit     string    `json:"owner_unit,omitempty"`
	Type          string    `json:"type"`
	Stock         int64     `json:"stock"`
	Description   string    `json:"description"`
	Source        string    `json:"source"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StockListResponse lista paginada del kardex.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// StockTotalsResponse totales por tipo de movimiento.
type StockTotalsResponse struct {
	StockIn  int64 `json:"stock_in"`
	StockOut int64 `json:"stock_out"`
	Expired  int64 `json:"expired"`
	Rejected int64 `json:"rejected"`
}

// StockReportResponse reporte del kardex.
type StockReportResponse struct {
	Items  []StockResponse     `json:"items"`
	Page   PageResponse        `json:"page"`
	Totals StockTotalsResponse `json:"totals"`
}
