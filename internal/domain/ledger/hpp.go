package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// HPPLine costo de una materia prima dentro de una orden de producción.
type HPPLine struct {
	RawMaterialID string
	Name          string
	Unit          string
	QtyPerUnit    decimal.Decimal
	QtyTotal      decimal.Decimal // QtyPerUnit * qty producida, sin redondear
	Consumed      int64           // unidades enteras descontadas del stock (techo de QtyTotal)
	Price         decimal.Decimal
	Subtotal      decimal.Decimal // Price * QtyTotal
}

// HPPResult desglose de costo de una producción.
type HPPResult struct {
	Lines     []HPPLine
	TotalCost decimal.Decimal
	// UnitCost es TotalCost / qty redondeado una sola vez a 0 decimales (mitad hacia arriba).
	UnitCost decimal.Decimal
}

// CalculateHPP arma el desglose de costo para producir qty unidades con la receta bom.
// La suma de subtotales no se redondea; solo el costo unitario final.
func CalculateHPP(bom []entity.BoMLine, qty int64) (*HPPResult, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("cantidad a producir debe ser mayor a 0: %w", domain.ErrInvalidInput)
	}
	if len(bom) == 0 {
		return nil, domain.ErrMissingBoM
	}
	q := decimal.NewFromInt(qty)
	res := &HPPResult{TotalCost: decimal.Zero}
	for _, l := range bom {
		total := l.Qty.Mul(q)
		sub := l.Material.Price.Mul(total)
		unit := l.Unit
		if unit == "" {
			unit = l.Material.Unit
		}
		res.Lines = append(res.Lines, HPPLine{
			RawMaterialID: l.RawMaterialID,
			Name:          l.Material.Name,
			Unit:          unit,
			QtyPerUnit:    l.Qty,
			QtyTotal:      total,
			Consumed:      total.Ceil().IntPart(),
			Price:         l.Material.Price,
			Subtotal:      sub,
		})
		res.TotalCost = res.TotalCost.Add(sub)
	}
	res.UnitCost = res.TotalCost.Div(q).Round(0)
	return res, nil
}
