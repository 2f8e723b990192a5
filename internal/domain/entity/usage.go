package entity

import "time"

// Usage representa un consumo directo de materia prima (fuera de producción).
type Usage struct {
	ID            string
	RawMaterialID string
	UserID        string
	Qty           int64
	Date          time.Time
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
