package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductionRequest orden de producción nueva (queda planned).
type CreateProductionRequest struct {
	ProductID      string     `json:"product_id" validate:"required,uuid"`
	Qty            int64      `json:"qty" validate:"required,min=1"`
	ProductionDate *time.Time `json:"production_date"`
	Notes          string     `json:"notes" validate:"max=1000"`
}

// UpdateProductionRequest cambios de una orden no procesada.
type UpdateProductionRequest struct {
	Qty            *int64     `json:"qty" validate:"omitempty,min=1"`
	ProductionDate *time.Time `json:"production_date"`
	Notes          *string    `json:"notes" validate:"omitempty,max=1000"`
	Status         *string    `json:"status" validate:"omitempty,oneof=planned in_progress canceled"`
}

// ProductionListQuery filtros del listado.
type ProductionListQuery struct {
	Status    string `query:"status" validate:"omitempty,oneof=planned in_progress done canceled"`
	ProductID string `query:"product_id" validate:"omitempty,uuid"`
	PageRequest
}

// ProductionResponse salida de una orden.
type ProductionResponse struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id"`
	ProductName    string           `json:"product_name,omitempty"`
	UserID         string           `json:"user_id"`
	Qty            int64            `json:"qty"`
	ProductionDate time.Time        `json:"production_date"`
	Status         string           `json:"status"`
	Notes          string           `json:"notes"`
	HPP            *decimal.Decimal `json:"hpp"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ProductionListResponse lista paginada de órdenes.
type ProductionListResponse struct {
	Items []ProductionResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// HppLineResponse costo de una materia prima dentro del HPP.
type HppLineResponse struct {
	RawMaterialID string          `json:"raw_material_id"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	QtyPerUnit    decimal.Decimal `json:"qty_per_unit"`
	QtyTotal      decimal.Decimal `json:"qty_total"`
	Consumed      int64           `json:"consumed"`
	Price         decimal.Decimal `json:"price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// HppBreakdownResponse desglose del costo de una orden.
type HppBreakdownResponse struct {
	ProductionID string            `json:"production_id"`
	ProductID    string            `json:"product_id"`
	ProductName  string            `json:"product_name"`
	Qty          int64             `json:"qty"`
	Status       string            `json:"status"`
	Items        []HppLineResponse `json:"items"`
	TotalCost    decimal.Decimal   `json:"total_cost"`
	UnitCost     decimal.Decimal   `json:"unit_cost"`
}

// ProcessProductionResponse resultado de procesar una orden.
type ProcessProductionResponse struct {
	Production ProductionResponse `json:"production"`
	Items      []HppLineResponse  `json:"items"`
	TotalCost  decimal.Decimal    `json:"total_cost"`
	UnitCost   decimal.Decimal    `json:"unit_cost"`
}
