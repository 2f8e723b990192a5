package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto terminado que se vende y se fabrica.
// Stock es la existencia autoritativa; solo cambia a través del motor de kardex.
// CostPrice lo calcula el procesamiento de producción (HPP), no el usuario.
type Product struct {
	ID          string
	Name        string // único, en minúsculas
	Description string
	SKU         string
	Price       decimal.Decimal // precio de venta
	Stock       int64
	CostPrice   decimal.Decimal
	CategoryID  string
	SupplierID  string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
