package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBoMRequest línea de receta: cantidad de materia prima por unidad de producto.
type CreateBoMRequest struct {
	ProductID     string          `json:"product_id" validate:"required,uuid"`
	RawMaterialID string          `json:"raw_material_id" validate:"required,uuid"`
	Qty           decimal.Decimal `json:"qty"`
	Unit          string          `json:"unit" validate:"omitempty,max=20"`
}

// UpdateBoMRequest cambios de una línea de receta.
type UpdateBoMRequest struct {
	Qty  *decimal.Decimal `json:"qty"`
	Unit *string          `json:"unit" validate:"omitempty,max=20"`
}

// BoMResponse salida de una línea de receta.
type BoMResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	RawMaterialID string          `json:"raw_material_id"`
	Qty           decimal.Decimal `json:"qty"`
	Unit          string          `json:"unit"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
