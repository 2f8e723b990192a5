package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Signo de movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestSignedDelta_EntradaSumaYSalidasRestan(t *testing.T) {
	cases := map[string]int64{
		entity.StockTypeIn:      5,
		entity.StockTypeOut:     -5,
		entity.StockTypeExpired: -5,
		entity.StockTypeReject:  -5,
	}
	for typ, want := range cases {
		got, err := ledger.SignedDelta(typ, 5)
		require.NoError(t, err, typ)
		assert.Equal(t, want, got, typ)
	}
}

func TestSignedDelta_CantidadNoPositiva_ErrInvalidInput(t *testing.T) {
	_, err := ledger.SignedDelta(entity.StockTypeIn, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ledger.SignedDelta(entity.StockTypeOut, -3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSignedDelta_TipoDesconocido_ErrInvalidInput(t *testing.T) {
	_, err := ledger.SignedDelta("transfer", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCorrectionFor(t *testing.T) {
	typ, qty, ok := ledger.CorrectionFor(7)
	assert.True(t, ok)
	assert.Equal(t, entity.StockTypeIn, typ)
	assert.Equal(t, int64(7), qty)

	typ, qty, ok = ledger.CorrectionFor(-4)
	assert.True(t, ok)
	assert.Equal(t, entity.StockTypeOut, typ)
	assert.Equal(t, int64(4), qty)

	_, _, ok = ledger.CorrectionFor(0)
	assert.False(t, ok, "sin diferencia no se registra corrección")
}

func TestBalance(t *testing.T) {
	rows := []*entity.Stock{
		{Type: entity.StockTypeIn, Quantity: 10},
		{Type: entity.StockTypeOut, Quantity: 3},
		{Type: entity.StockTypeExpired, Quantity: 1},
		{Type: entity.StockTypeReject, Quantity: 2},
	}
	assert.Equal(t, int64(4), ledger.Balance(rows))
}

// ──────────────────────────────────────────────────────────────────────────────
// HPP
// ──────────────────────────────────────────────────────────────────────────────

func bomLine(id string, qty, price string) entity.BoMLine {
	return entity.BoMLine{
		BoM: entity.BoM{RawMaterialID: id, Qty: decimal.RequireFromString(qty), Unit: "kg"},
		Material: entity.RawMaterial{
			ID: id, Name: "mat-" + id, Unit: "kg", Price: decimal.RequireFromString(price),
		},
	}
}

func TestCalculateHPP_RedondeaSoloElCostoUnitario(t *testing.T) {
	// 3 unidades: 0.5*3*1001 + 2*3*333 = 1501.5 + 1998 = 3499.5; 3499.5/3 = 1166.5 -> 1167
	res, err := ledger.CalculateHPP([]entity.BoMLine{
		bomLine("a", "0.5", "1001"),
		bomLine("b", "2", "333"),
	}, 3)
	require.NoError(t, err)

	assert.True(t, res.TotalCost.Equal(decimal.RequireFromString("3499.5")), res.TotalCost.String())
	assert.True(t, res.UnitCost.Equal(decimal.NewFromInt(1167)), res.UnitCost.String())
	require.Len(t, res.Lines, 2)
	assert.True(t, res.Lines[0].QtyTotal.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, int64(2), res.Lines[0].Consumed, "el consumo fraccionario se redondea hacia arriba")
	assert.Equal(t, int64(6), res.Lines[1].Consumed)
}

func TestCalculateHPP_SinReceta_ErrMissingBoM(t *testing.T) {
	_, err := ledger.CalculateHPP(nil, 5)
	assert.ErrorIs(t, err, domain.ErrMissingBoM)
}

func TestCalculateHPP_CantidadCero_ErrInvalidInput(t *testing.T) {
	_, err := ledger.CalculateHPP([]entity.BoMLine{bomLine("a", "1", "10")}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDescribe_AjusteManual(t *testing.T) {
	s := ledger.Describe(ledger.DescribeInput{
		Source: entity.StockSourceManual, Type: entity.StockTypeIn, Qty: 4,
		Owner: entity.RawMaterialOwner("x"), OwnerName: "harina",
	})
	assert.Equal(t, `Entrada de stock (ajuste manual): 4 unidades de materia prima "harina"`, s)
}

func TestDescribe_DocumentosSinClausulaDeUsuario(t *testing.T) {
	product := entity.ProductOwner("p")
	material := entity.RawMaterialOwner("m")
	cases := []struct {
		in   ledger.DescribeInput
		want string
	}{
		{
			ledger.DescribeInput{Source: entity.StockSourceSale, Type: entity.StockTypeOut, Qty: 3, Owner: product, OwnerName: "Pan"},
			`Salida de stock por venta: 3 unidades del producto "Pan"`,
		},
		{
			ledger.DescribeInput{Source: entity.StockSourceUsage, Type: entity.StockTypeOut, Qty: 2, Owner: material, OwnerName: "harina"},
			`Salida de stock por uso de materia prima: 2 unidades de "harina"`,
		},
		{
			ledger.DescribeInput{Source: entity.StockSourceProduction, Type: entity.StockTypeIn, Qty: 10, Owner: product, OwnerName: "Pan"},
			`Entrada de stock por producción: 10 unidades del producto "Pan"`,
		},
	}
	for _, c := range cases {
		got := ledger.Describe(c.in)
		assert.Equal(t, c.want, got)
		assert.NotContains(t, got, "usuario")
	}
}
