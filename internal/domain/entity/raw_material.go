package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawMaterial representa una materia prima consumida por producción o por uso directo.
type RawMaterial struct {
	ID        string
	Name      string // en minúsculas
	Unit      string
	Price     decimal.Decimal // último precio de compra
	Stock     int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
