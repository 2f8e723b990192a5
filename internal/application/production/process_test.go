package production_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-produccion/internal/application/audit"
	"github.com/jhoicas/inventario-produccion/internal/application/ledger"
	"github.com/jhoicas/inventario-produccion/internal/application/production"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testActor = "00000000-0000-0000-0000-000000000001"

type fixture struct {
	repos  repository.TxRepos
	engine *ledger.Engine
	svc    *production.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	rec := audit.NewRecorder()
	engine := ledger.NewEngine(store, repos, rec, nil)
	return &fixture{repos: repos, engine: engine, svc: production.NewService(store, repos, engine, rec)}
}

func (f *fixture) product(t *testing.T, name string) string {
	t.Helper()
	now := time.Now()
	p := &entity.Product{ID: uuid.New().String(), Name: name, Price: decimal.NewFromInt(5000), IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.repos.Products.Create(context.Background(), p))
	return p.ID
}

func (f *fixture) material(t *testing.T, name string, price int64, stock int64) string {
	t.Helper()
	now := time.Now()
	m := &entity.RawMaterial{ID: uuid.New().String(), Name: name, Unit: "kg", Price: decimal.NewFromInt(price), IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.repos.RawMaterials.Create(context.Background(), m))
	if stock > 0 {
		_, err := f.engine.RecordMovement(context.Background(), testActor, ledger.RecordInput{
			Owner: entity.RawMaterialOwner(m.ID), Type: entity.StockTypeIn, Qty: stock,
		})
		require.NoError(t, err)
	}
	return m.ID
}

func (f *fixture) bom(t *testing.T, productID, materialID, qty string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.repos.BoMs.Create(context.Background(), &entity.BoM{
		ID: uuid.New().String(), ProductID: productID, RawMaterialID: materialID,
		Qty: decimal.RequireFromString(qty), Unit: "kg", CreatedAt: now, UpdatedAt: now,
	}))
}

func (f *fixture) plan(t *testing.T, productID string, qty int64) *entity.Production {
	t.Helper()
	p, err := f.svc.Create(context.Background(), testActor, production.CreateInput{ProductID: productID, Qty: qty})
	require.NoError(t, err)
	return p
}

func (f *fixture) productStock(t *testing.T, id string) (int64, decimal.Decimal) {
	t.Helper()
	p, err := f.repos.Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock, p.CostPrice
}

func (f *fixture) materialStock(t *testing.T, id string) int64 {
	t.Helper()
	m, err := f.repos.RawMaterials.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m.Stock
}

func (f *fixture) assertBalanced(t *testing.T, owners ...entity.StockOwner) {
	t.Helper()
	ctx := context.Background()
	for _, o := range owners {
		sum, err := f.repos.Stocks.SumByOwner(ctx, o)
		require.NoError(t, err)
		qty, err := f.engine.OnHand(ctx, o)
		require.NoError(t, err)
		assert.Equal(t, qty, sum, "stock == suma del kardex para %s", o.ID)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Process
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_ConsumeMateriasYCalculaHPP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prod := f.product(t, "Torta")
	a := f.material(t, "Harina", 1000, 10)
	b := f.material(t, "Huevo", 500, 5)
	f.bom(t, prod, a, "2")
	f.bom(t, prod, b, "0.5")
	p := f.plan(t, prod, 4)

	res, err := f.svc.Process(ctx, testActor, p.ID)
	require.NoError(t, err)

	// 1000*8 + 500*2 = 9000; 9000/4 = 2250
	assert.Equal(t, entity.ProductionDone, res.Production.Status)
	require.NotNil(t, res.Production.HPP)
	assert.True(t, res.Production.HPP.Equal(decimal.NewFromInt(2250)), res.Production.HPP.String())

	stock, cost := f.productStock(t, prod)
	assert.Equal(t, int64(4), stock)
	assert.True(t, cost.Equal(*res.Production.HPP), "cost_price del producto igual al HPP")
	assert.Equal(t, int64(2), f.materialStock(t, a))
	assert.Equal(t, int64(3), f.materialStock(t, b))

	stored, err := f.svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionDone, stored.Status)

	logs, err := f.repos.Activity.ListByTable(ctx, audit.TableProduction)
	require.NoError(t, err)
	n := 0
	for _, l := range logs {
		if l.Action == "Process Production" {
			n++
		}
	}
	assert.Equal(t, 1, n)
	f.assertBalanced(t, entity.ProductOwner(prod), entity.RawMaterialOwner(a), entity.RawMaterialOwner(b))
}

func TestProcess_HPPRedondeaUnaVezAlFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prod := f.product(t, "Galleta")
	a := f.material(t, "Avena", 1001, 10)
	f.bom(t, prod, a, "0.5")
	p := f.plan(t, prod, 3)

	res, err := f.svc.Process(ctx, testActor, p.ID)
	require.NoError(t, err)

	// 0.5*3*1001 = 1501.5; /3 = 500.5 -> 501. Consumo entero: techo(1.5) = 2
	want := decimal.NewFromInt(501)
	assert.True(t, res.Production.HPP.Equal(want), res.Production.HPP.String())
	_, cost := f.productStock(t, prod)
	assert.True(t, cost.Equal(want))
	assert.True(t, res.HPP.TotalCost.Equal(decimal.RequireFromString("1501.5")))
	assert.Equal(t, int64(8), f.materialStock(t, a))
}

func TestProcess_MaterialInsuficiente_NadaCambia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prod := f.product(t, "Pan")
	a := f.material(t, "Harina", 1000, 100)
	b := f.material(t, "Levadura", 200, 1)
	c := f.material(t, "Sal", 50, 100)
	f.bom(t, prod, a, "1")
	f.bom(t, prod, b, "1")
	f.bom(t, prod, c, "1")
	p := f.plan(t, prod, 5)

	_, err := f.svc.Process(ctx, testActor, p.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientMaterial)
	assert.Contains(t, err.Error(), "Levadura", "el error nombra la materia prima")

	stock, cost := f.productStock(t, prod)
	assert.Equal(t, int64(0), stock)
	assert.True(t, cost.IsZero())
	assert.Equal(t, int64(100), f.materialStock(t, a))
	assert.Equal(t, int64(1), f.materialStock(t, b))
	assert.Equal(t, int64(100), f.materialStock(t, c))

	stored, err := f.svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionPlanned, stored.Status)
	assert.Nil(t, stored.HPP)

	n, err := f.repos.Stocks.CountByOwner(ctx, entity.ProductOwner(prod))
	require.NoError(t, err)
	assert.Zero(t, n, "no se registra entrada de producto")
	f.assertBalanced(t, entity.RawMaterialOwner(a), entity.RawMaterialOwner(b), entity.RawMaterialOwner(c))
}

func TestProcess_SinReceta_ErrMissingBoM(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prod := f.product(t, "Sin receta")
	p := f.plan(t, prod, 2)

	_, err := f.svc.Process(ctx, testActor, p.ID)
	require.ErrorIs(t, err, domain.ErrMissingBoM)

	stored, err := f.svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionPlanned, stored.Status)
}

func TestProcess_YaProcesada_ErrAlreadyProcessed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prod := f.product(t, "Arepa")
	a := f.material(t, "Maíz", 100, 10)
	f.bom(t, prod, a, "1")
	p := f.plan(t, prod, 2)

	_, err := f.svc.Process(ctx, testActor, p.ID)
	require.NoError(t, err)
	_, err = f.svc.Process(ctx, testActor, p.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assert.Equal(t, int64(8), f.materialStock(t, a), "no se consume dos veces")
}

func TestProcess_NoExiste_ErrNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Process(context.Background(), testActor, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados y CRUD
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_TransicionesDeEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prod := f.product(t, "Empanada")
	p := f.plan(t, prod, 1)

	inProgress := entity.ProductionInProgress
	got, err := f.svc.Update(ctx, testActor, p.ID, production.UpdateInput{Status: &inProgress})
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionInProgress, got.Status)

	done := entity.ProductionDone
	_, err = f.svc.Update(ctx, testActor, p.ID, production.UpdateInput{Status: &done})
	assert.ErrorIs(t, err, domain.ErrConflict, "done solo se alcanza procesando")

	canceled := entity.ProductionCanceled
	_, err = f.svc.Update(ctx, testActor, p.ID, production.UpdateInput{Status: &canceled})
	require.NoError(t, err)

	_, err = f.svc.Process(ctx, testActor, p.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "una producción cancelada no se procesa")

	qty := int64(3)
	_, err = f.svc.Update(ctx, testActor, p.ID, production.UpdateInput{Qty: &qty})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDelete_ProcesadaNoSeBorra(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prod := f.product(t, "Tamal")
	a := f.material(t, "Masa", 10, 5)
	f.bom(t, prod, a, "1")
	p := f.plan(t, prod, 1)
	_, err := f.svc.Process(ctx, testActor, p.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, testActor, p.ID), domain.ErrConflict)

	other := f.plan(t, prod, 1)
	require.NoError(t, f.svc.Delete(ctx, testActor, other.ID))
	_, err = f.svc.Get(ctx, other.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHppBreakdown_SoloLectura(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prod := f.product(t, "Pizza")
	a := f.material(t, "Queso", 300, 50)
	b := f.material(t, "Tomate", 100, 50)
	f.bom(t, prod, a, "2")
	f.bom(t, prod, b, "1")
	p := f.plan(t, prod, 5)

	br, err := f.svc.HppBreakdown(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, br.Lines, 2)
	// 300*10 + 100*5 = 3500; /5 = 700
	assert.True(t, br.TotalCost.Equal(decimal.NewFromInt(3500)))
	assert.True(t, br.UnitCost.Equal(decimal.NewFromInt(700)))
	for _, l := range br.Lines {
		assert.True(t, l.Subtotal.Equal(l.Price.Mul(l.QtyTotal)))
	}

	assert.Equal(t, int64(50), f.materialStock(t, a))
	stored, err := f.svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionPlanned, stored.Status)
}
