package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRawMaterialRequest entrada para crear una materia prima.
type CreateRawMaterialRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Unit     string          `json:"unit" validate:"required,max=20"`
	Price    decimal.Decimal `json:"price"`
	Stock    int64           `json:"stock" validate:"min=0"`
	IsActive *bool           `json:"is_active"`
}

// UpdateRawMaterialRequest entrada para actualizar una materia prima.
type UpdateRawMaterialRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Unit     *string          `json:"unit" validate:"omitempty,max=20"`
	Price    *decimal.Decimal `json:"price"`
	Stock    *int64           `json:"stock" validate:"omitempty,min=0"`
	IsActive *bool            `json:"is_active"`
}

// RawMaterialResponse salida de una materia prima.
type RawMaterialResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Stock     int64           `json:"stock"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RawMaterialListResponse lista paginada de materias primas.
type RawMaterialListResponse struct {
	Items []RawMaterialResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
