package ledger

import (
	"fmt"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// DescribeInput datos para armar la descripción de un movimiento generado por el sistema.
type DescribeInput struct {
	Source    string // entity.StockSource*
	Type      string // entity.StockType*
	Qty       int64
	Owner     entity.StockOwner
	OwnerName string
	Extra     string // nombre del producto en consumos de producción, proveedor en compras
}

// Describe genera la descripción de un movimiento del kardex.
func Describe(in DescribeInput) string {
	switch in.Source {
	case entity.StockSourceSale:
		if in.Type == entity.StockTypeIn {
			return fmt.Sprintf("Devolución de stock por venta: %d unidades del producto %q", in.Qty, in.OwnerName)
		}
		return fmt.Sprintf("Salida de stock por venta: %d unidades del producto %q", in.Qty, in.OwnerName)
	case entity.StockSourcePurchase:
		if in.Type != entity.StockTypeIn {
			return fmt.Sprintf("Reverso de compra: %d unidades de materia prima %q", in.Qty, in.OwnerName)
		}
		s := fmt.Sprintf("Entrada de stock por compra: %d unidades de materia prima %q", in.Qty, in.OwnerName)
		if in.Extra != "" {
			s += fmt.Sprintf(" del proveedor %q", in.Extra)
		}
		return s
	case entity.StockSourceUsage:
		if in.Type == entity.StockTypeIn {
			return fmt.Sprintf("Devolución por uso de materia prima: %d unidades de %q", in.Qty, in.OwnerName)
		}
		return fmt.Sprintf("Salida de stock por uso de materia prima: %d unidades de %q", in.Qty, in.OwnerName)
	case entity.StockSourceProduction:
		if in.Owner.Kind == entity.OwnerProduct {
			return fmt.Sprintf("Entrada de stock por producción: %d unidades del producto %q", in.Qty, in.OwnerName)
		}
		return fmt.Sprintf("Salida de stock para producción: %d unidades de materia prima %q para el producto %q", in.Qty, in.OwnerName, orDash(in.Extra))
	case entity.StockSourceManual, entity.StockSourceCorrection:
		verb := "Salida"
		if in.Type == entity.StockTypeIn {
			verb = "Entrada"
		}
		kind := "producto"
		if in.Owner.Kind == entity.OwnerRawMaterial {
			kind = "materia prima"
		}
		return fmt.Sprintf("%s de stock (ajuste manual): %d unidades de %s %q", verb, in.Qty, kind, in.OwnerName)
	}
	return fmt.Sprintf("Cambio de stock: %d unidades", in.Qty)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
