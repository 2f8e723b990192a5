package purchasing_test

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
	"github.com/jhoicas/inventario-produccion/internal/application/purchasing"
	"github.com/jhoicas/inventario-produccion/internal/application/usage"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/memory"
)

const testActor = "00000000-0000-0000-0000-000000000001"

type fixture struct {
	repos  repository.TxRepos
	svc    *purchasing.Service
	usages *usage.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	rec := audit.NewRecorder()
	engine := ledger.NewEngine(store, repos, rec, nil)
	return &fixture{
		repos:  repos,
		svc:    purchasing.NewService(store, repos, engine, rec),
		usages: usage.NewService(store, repos, engine, rec),
	}
}

func (f *fixture) material(t *testing.T, name string, price int64) string {
	t.Helper()
	now := time.Now()
	m := &entity.RawMaterial{ID: uuid.New().String(), Name: name, Unit: "kg", Price: decimal.NewFromInt(price), IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.repos.RawMaterials.Create(context.Background(), m))
	return m.ID
}

func (f *fixture) get(t *testing.T, id string) *entity.RawMaterial {
	t.Helper()
	m, err := f.repos.RawMaterials.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, m)
	sum, err := f.repos.Stocks.SumByOwner(context.Background(), entity.RawMaterialOwner(id))
	require.NoError(t, err)
	assert.Equal(t, m.Stock, sum, "el stock de la materia prima debe igualar la suma del kardex")
	return m
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_IngresaStockYRefrescaPrecio(t *testing.T) {
	f := newFixture(t)
	mid := f.material(t, "Harina", 10)
	price := decimal.NewFromInt(12)

	p, err := f.svc.Create(context.Background(), testActor, purchasing.CreateInput{RawMaterialID: mid, Qty: 8, Price: &price})
	require.NoError(t, err)

	m := f.get(t, mid)
	assert.Equal(t, int64(8), m.Stock)
	assert.True(t, price.Equal(m.Price), "el precio de la materia prima toma el de la compra")
	assert.True(t, decimal.NewFromInt(96).Equal(p.Total))
	assert.Equal(t, entity.PurchaseCompleted, p.Status)

	rows, _, err := f.repos.Stocks.List(context.Background(), repository.StockFilter{OwnerID: mid})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.StockSourcePurchase, rows[0].Source)
	assert.Equal(t, p.ID, rows[0].ReferenceID)
}

func TestCreate_SinPrecioUsaElDeLaMateriaPrima(t *testing.T) {
	f := newFixture(t)
	mid := f.material(t, "Azúcar", 7)

	p, err := f.svc.Create(context.Background(), testActor, purchasing.CreateInput{RawMaterialID: mid, Qty: 3})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(7).Equal(p.Price))
	assert.True(t, decimal.NewFromInt(21).Equal(p.Total))
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	mid := f.material(t, "Harina", 10)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, testActor, purchasing.CreateInput{RawMaterialID: mid, Qty: 0})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Create(ctx, testActor, purchasing.CreateInput{RawMaterialID: mid, Qty: 1, Status: "perdida"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Create(ctx, testActor, purchasing.CreateInput{RawMaterialID: uuid.New().String(), Qty: 1})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_AjustaPorDiferencia(t *testing.T) {
	f := newFixture(t)
	mid := f.material(t, "Harina", 10)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, testActor, purchasing.CreateInput{RawMaterialID: mid, Qty: 8})
	require.NoError(t, err)

	qty := int64(12)
	_, err = f.svc.Update(ctx, testActor, p.ID, purchasing.UpdateInput{Qty: &qty})
	require.NoError(t, err)
	assert.Equal(t, int64(12), f.get(t, mid).Stock)

	qty = 5
	updated, err := f.svc.Update(ctx, testActor, p.ID, purchasing.UpdateInput{Qty: &qty})
	require.NoError(t, err)
	assert.Equal(t, int64(5), f.get(t, mid).Stock)
	assert.True(t, decimal.NewFromInt(50).Equal(updated.Total))
}

func TestUpdate_ReduccionYaConsumida_Falla(t *testing.T) {
	f := newFixture(t)
	mid := f.material(t, "Harina", 10)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, testActor, purchasing.CreateInput{RawMaterialID: mid, Qty: 8})
	require.NoError(t, err)
	_, err = f.usages.Create(ctx, testActor, usage.CreateInput{RawMaterialID: mid, Qty: 6})
	require.NoError(t, err)

	qty := int64(1)
	_, err = f.svc.Update(ctx, testActor, p.ID, purchasing.UpdateInput{Qty: &qty})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(2), f.get(t, mid).Stock)
}

func TestDelete_RetiraLoComprado(t *testing.T) {
	f := newFixture(t)
	mid := f.material(t, "Harina", 10)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, testActor, purchasing.CreateInput{RawMaterialID: mid, Qty: 8})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, testActor, p.ID))
	assert.Equal(t, int64(0), f.get(t, mid).Stock)

	_, err = f.svc.Get(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_MaterialConsumido_Falla(t *testing.T) {
	f := newFixture(t)
	mid := f.material(t, "Harina", 10)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, testActor, purchasing.CreateInput{RawMaterialID: mid, Qty: 8})
	require.NoError(t, err)
	_, err = f.usages.Create(ctx, testActor, usage.CreateInput{RawMaterialID: mid, Qty: 3})
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.Delete(ctx, testActor, p.ID), domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), f.get(t, mid).Stock)

	_, err = f.svc.Get(ctx, p.ID)
	require.NoError(t, err, "la compra se conserva si el borrado falla")
}
