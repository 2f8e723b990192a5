package dto

import "time"

// CreateUsageRequest uso directo de materia prima.
type CreateUsageRequest struct {
	RawMaterialID string     `json:"raw_material_id" validate:"required,uuid"`
	Qty           int64      `json:"qty" validate:"required,min=1"`
	Date          *time.Time `json:"date"`
	Description   string     `json:"description" validate:"max=500"`
}

// UpdateUsageRequest cambios de un uso.
type UpdateUsageRequest struct {
	Qty         *int64     `json:"qty" validate:"omitempty,min=1"`
	Date        *time.Time `json:"date"`
	Description *string    `json:"description" validate:"omitempty,max=500"`
}

// UsageResponse salida de un uso.
type UsageResponse struct {
	ID            string    `json:"id"`
	RawMaterialID string    `json:"raw_material_id"`
	UserID        string    `json:"user_id"`
	Qty           int64     `json:"qty"`
	Date          time.Time `json:"date"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UsageListQuery filtros del listado de usos. search busca en la descripción.
type UsageListQuery struct {
	Search        string `query:"search"`
	RawMaterialID string `query:"raw_material_id" validate:"omitempty,uuid"`
	From          string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To            string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	PageRequest
}

// UsageListResponse lista paginada de usos.
type UsageListResponse struct {
	Items []UsageResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
