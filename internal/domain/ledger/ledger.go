// Package ledger contiene las reglas puras del kardex: signo de cada tipo de movimiento,
// validación de tipos, descripción textual y cálculo de HPP.
package ledger

import (
	"fmt"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// ValidType indica si t es un tipo de movimiento conocido.
func ValidType(t string) bool {
	switch t {
	case entity.StockTypeIn, entity.StockTypeOut, entity.StockTypeExpired, entity.StockTypeReject:
		return true
	}
	return false
}

// IsOutflow indica si el tipo resta existencias.
func IsOutflow(t string) bool {
	return t == entity.StockTypeOut || t == entity.StockTypeExpired || t == entity.StockTypeReject
}

// SignedDelta devuelve la variación con signo que produce un movimiento: +qty para in, -qty para el resto.
func SignedDelta(t string, qty int64) (int64, error) {
	if !ValidType(t) {
		return 0, fmt.Errorf("tipo de movimiento %q: %w", t, domain.ErrInvalidInput)
	}
	if qty <= 0 {
		return 0, fmt.Errorf("cantidad debe ser mayor a 0: %w", domain.ErrInvalidInput)
	}
	if t == entity.StockTypeIn {
		return qty, nil
	}
	return -qty, nil
}

// Signed es SignedDelta para un registro ya persistido (tipo y cantidad válidos).
func Signed(s *entity.Stock) int64 {
	if s.Type == entity.StockTypeIn {
		return s.Quantity
	}
	return -s.Quantity
}

// CorrectionFor traduce una diferencia de existencias en el tipo y cantidad de un movimiento de corrección.
// ok es false cuando diff es 0 (no hay nada que registrar).
func CorrectionFor(diff int64) (typ string, qty int64, ok bool) {
	switch {
	case diff > 0:
		return entity.StockTypeIn, diff, true
	case diff < 0:
		return entity.StockTypeOut, -diff, true
	}
	return "", 0, false
}

// Balance suma los deltas con signo de una lista de movimientos.
func Balance(rows []*entity.Stock) int64 {
	var total int64
	for _, r := range rows {
		total += Signed(r)
	}
	return total
}
