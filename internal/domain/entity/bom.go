package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BoM es una línea de la lista de materiales: cuánto de una materia prima requiere una unidad de producto.
type BoM struct {
	ID            string
	ProductID     string
	RawMaterialID string
	Qty           decimal.Decimal // cantidad por unidad producida
	Unit          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BoMLine es una línea de BoM unida a su materia prima (para producción y HPP).
type BoMLine struct {
	BoM
	Material RawMaterial
}
