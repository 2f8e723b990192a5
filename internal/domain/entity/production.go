package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de producción.
const (
	ProductionPlanned    = "planned"
	ProductionInProgress = "in_progress"
	ProductionDone       = "done"
	ProductionCanceled   = "canceled"
)

// Production es una orden de producción de un producto.
type Production struct {
	ID             string
	ProductID      string
	UserID         string
	Qty            int64
	ProductionDate time.Time
	Status         string
	Notes          string
	HPP            *decimal.Decimal // costo unitario; nil hasta procesar
	CreatedAt      time.Time
	UpdatedAt      time.Time

	ProductName string // JOIN, no se persiste
}

// Terminal indica si la orden ya no admite cambios.
func (p *Production) Terminal() bool {
	return p.Status == ProductionDone || p.Status == ProductionCanceled
}

// CanTransition valida las transiciones manuales de estado. done solo se alcanza procesando.
func (p *Production) CanTransition(to string) bool {
	if p.Status == to {
		return true
	}
	switch p.Status {
	case ProductionPlanned:
		return to == ProductionInProgress || to == ProductionCanceled
	case ProductionInProgress:
		return to == ProductionCanceled
	}
	return false
}
