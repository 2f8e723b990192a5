package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-produccion/internal/application/audit"
	"github.com/jhoicas/inventario-produccion/internal/application/billing"
	"github.com/jhoicas/inventario-produccion/internal/application/ledger"
	"github.com/jhoicas/inventario-produccion/internal/application/sales"
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
	svc    *sales.Service
}

func newFixture(t *testing.T, after sales.AfterSale) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	rec := audit.NewRecorder()
	engine := ledger.NewEngine(store, repos, rec, nil)
	return &fixture{
		repos:  repos,
		engine: engine,
		svc:    sales.NewService(store, repos, engine, rec, after, nil),
	}
}

func newBillingFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	rec := audit.NewRecorder()
	engine := ledger.NewEngine(store, repos, rec, nil)
	return &fixture{
		repos:  repos,
		engine: engine,
		svc:    sales.NewService(store, repos, engine, rec, billing.NewService(store, rec), nil),
	}
}

func (f *fixture) product(t *testing.T, name string, price, stock int64) string {
	t.Helper()
	now := time.Now()
	p := &entity.Product{ID: uuid.New().String(), Name: name, Price: decimal.NewFromInt(price), IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.repos.Products.Create(context.Background(), p))
	if stock > 0 {
		_, err := f.engine.RecordMovement(context.Background(), testActor, ledger.RecordInput{
			Owner: entity.ProductOwner(p.ID), Type: entity.StockTypeIn, Qty: stock,
		})
		require.NoError(t, err)
	}
	return p.ID
}

func (f *fixture) stock(t *testing.T, productID string) int64 {
	t.Helper()
	p, err := f.repos.Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	sum, err := f.repos.Stocks.SumByOwner(context.Background(), entity.ProductOwner(productID))
	require.NoError(t, err)
	assert.Equal(t, p.Stock, sum, "el stock del producto debe igualar la suma del kardex")
	return p.Stock
}

func (f *fixture) logs(t *testing.T, action string) int {
	t.Helper()
	list, err := f.repos.Activity.ListByTable(context.Background(), "")
	require.NoError(t, err)
	n := 0
	for _, l := range list {
		if l.Action == action {
			n++
		}
	}
	return n
}

// failingAfter simula fallas del despacho y la factura automáticos.
type failingAfter struct{}

func (failingAfter) CreatePendingDelivery(context.Context, string, *entity.Sale, sales.DeliveryInput) (*entity.Delivery, error) {
	return nil, errors.New("despacho no disponible")
}

func (failingAfter) InvoiceFromSale(context.Context, string, string) (*entity.Invoice, error) {
	return nil, errors.New("facturación no disponible")
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_DescuentaStockYGeneraFactura(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()
	pid := f.product(t, "Pan", 10000, 10)

	res, err := f.svc.Create(ctx, testActor, sales.CreateInput{ProductID: pid, Qty: 3})
	require.NoError(t, err)

	assert.Equal(t, int64(7), f.stock(t, pid))
	assert.Equal(t, 1, f.logs(t, "Create Sale"), "exactamente una entrada de auditoría por venta")
	assert.True(t, decimal.NewFromInt(30000).Equal(res.Sale.Total), "total = precio × cantidad")
	assert.True(t, decimal.NewFromInt(10000).Equal(res.Sale.Price), "sin precio se usa el del producto")

	require.NotNil(t, res.Delivery)
	assert.Equal(t, entity.DeliveryPending, res.Delivery.Status)
	assert.Equal(t, "-", res.Delivery.ShippingAddress)

	require.NotNil(t, res.Invoice)
	assert.Equal(t, "INV-001", res.Invoice.InvoiceNumber)
	assert.Empty(t, res.InvoiceError)
	assert.Equal(t, 1, f.logs(t, "Auto Create Invoice"))

	items, err := f.repos.Invoices.Items(ctx, res.Invoice.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Pan", items[0].NameSnapshot)
	assert.True(t, decimal.NewFromInt(30000).Equal(items[0].Subtotal))

	rows, _, err := f.repos.Stocks.List(ctx, repository.StockFilter{OwnerKind: entity.OwnerProduct, OwnerID: pid, Type: entity.StockTypeOut})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.StockSourceSale, rows[0].Source)
	assert.Equal(t, res.Sale.ID, rows[0].ReferenceID)
}

func TestCreate_TotalConCargosYDescuento(t *testing.T) {
	f := newFixture(t, nil)
	pid := f.product(t, "Torta", 5000, 5)
	price := decimal.NewFromInt(4000)

	res, err := f.svc.Create(context.Background(), testActor, sales.CreateInput{
		ProductID: pid,
		Qty:       2,
		Amounts: sales.Amounts{
			Price:        &price,
			Discount:     decimal.NewFromInt(500),
			ShippingCost: decimal.NewFromInt(1000),
			AdminFee:     decimal.NewFromInt(200),
			Tax:          decimal.NewFromInt(300),
		},
	})
	require.NoError(t, err)
	// 4000×2 − 500 + 1000 + 200 + 300
	assert.True(t, decimal.NewFromInt(9000).Equal(res.Sale.Total), "total: %s", res.Sale.Total)
	assert.Nil(t, res.Invoice)
	assert.Empty(t, res.InvoiceError)
}

func TestCreate_StockInsuficiente_SinEfectos(t *testing.T) {
	f := newFixture(t, nil)
	pid := f.product(t, "Pan", 1000, 2)

	_, err := f.svc.Create(context.Background(), testActor, sales.CreateInput{ProductID: pid, Qty: 3})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(2), f.stock(t, pid))
	assert.Equal(t, 0, f.logs(t, "Create Sale"))
}

func TestCreate_ProductoInexistente(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Create(context.Background(), testActor, sales.CreateInput{ProductID: uuid.New().String(), Qty: 1})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t, nil)
	pid := f.product(t, "Pan", 1000, 5)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, testActor, sales.CreateInput{ProductID: pid, Qty: 0})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Create(ctx, testActor, sales.CreateInput{ProductID: pid, Qty: 1, PaymentStatus: "fiado"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Create(ctx, testActor, sales.CreateInput{ProductID: pid, Qty: 1, Amounts: sales.Amounts{Discount: decimal.NewFromInt(-1)}})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, int64(5), f.stock(t, pid))
}

func TestCreate_FallaFactura_VentaSeConserva(t *testing.T) {
	f := newFixture(t, failingAfter{})
	pid := f.product(t, "Pan", 1000, 10)

	res, err := f.svc.Create(context.Background(), testActor, sales.CreateInput{ProductID: pid, Qty: 4})
	require.NoError(t, err, "la venta no se revierte si falla la factura")
	assert.Equal(t, sales.InvoiceErrorMessage, res.InvoiceError)
	assert.Nil(t, res.Invoice)
	assert.Nil(t, res.Delivery)
	assert.Equal(t, int64(6), f.stock(t, pid))

	got, err := f.svc.Get(context.Background(), res.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Qty)
}

func TestCreate_FacturasConsecutivas(t *testing.T) {
	f := newBillingFixture(t)
	pid := f.product(t, "Pan", 1000, 10)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, testActor, sales.CreateInput{ProductID: pid, Qty: 1})
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, testActor, sales.CreateInput{ProductID: pid, Qty: 1})
	require.NoError(t, err)

	assert.Equal(t, "INV-001", first.Invoice.InvoiceNumber)
	assert.Equal(t, "INV-002", second.Invoice.InvoiceNumber)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_CambioDeCantidad_MueveSoloLaDiferencia(t *testing.T) {
	f := newFixture(t, nil)
	pid := f.product(t, "Pan", 1000, 10)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, testActor, sales.CreateInput{ProductID: pid, Qty: 3})
	require.NoError(t, err)

	qty := int64(5)
	sale, err := f.svc.Update(ctx, testActor, res.Sale.ID, sales.UpdateInput{Qty: &qty})
	require.NoError(t, err)
	assert.Equal(t, int64(5), f.stock(t, pid))
	assert.True(t, decimal.NewFromInt(5000).Equal(sale.Total))

	qty = 1
	_, err = f.svc.Update(ctx, testActor, res.Sale.ID, sales.UpdateInput{Qty: &qty})
	require.NoError(t, err)
	assert.Equal(t, int64(9), f.stock(t, pid))
	assert.Equal(t, 2, f.logs(t, "Update Sale"))
}

func TestUpdate_AumentoSinStock_Revierte(t *testing.T) {
	f := newFixture(t, nil)
	pid := f.product(t, "Pan", 1000, 4)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, testActor, sales.CreateInput{ProductID: pid, Qty: 3})
	require.NoError(t, err)

	qty := int64(6)
	_, err = f.svc.Update(ctx, testActor, res.Sale.ID, sales.UpdateInput{Qty: &qty})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(1), f.stock(t, pid))

	got, err := f.svc.Get(ctx, res.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Qty)
}

func TestUpdate_CambioDeProducto(t *testing.T) {
	f := newFixture(t, nil)
	pan := f.product(t, "Pan", 1000, 10)
	torta := f.product(t, "Torta", 8000, 5)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, testActor, sales.CreateInput{ProductID: pan, Qty: 3})
	require.NoError(t, err)
	require.Equal(t, int64(7), f.stock(t, pan))

	qty := int64(2)
	sale, err := f.svc.Update(ctx, testActor, res.Sale.ID, sales.UpdateInput{ProductID: &torta, Qty: &qty})
	require.NoError(t, err)

	assert.Equal(t, int64(10), f.stock(t, pan), "el producto anterior recupera la cantidad original")
	assert.Equal(t, int64(3), f.stock(t, torta))
	assert.Equal(t, torta, sale.ProductID)
	assert.True(t, decimal.NewFromInt(16000).Equal(sale.Total), "toma el precio del nuevo producto")
}

func TestDelete_RestauraStock(t *testing.T) {
	f := newBillingFixture(t)
	pid := f.product(t, "Pan", 1000, 10)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, testActor, sales.CreateInput{ProductID: pid, Qty: 3})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, testActor, res.Sale.ID))

	assert.Equal(t, int64(10), f.stock(t, pid))
	assert.Equal(t, 1, f.logs(t, "Delete Sale"))

	_, err = f.svc.Get(ctx, res.Sale.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, f.svc.Delete(ctx, testActor, res.Sale.ID), domain.ErrNotFound)
}

// lockRecorder anota el orden en que se bloquean los productos dentro de la transacción.
type lockRecorder struct {
	store  *memory.Store
	locked []string
}

type recordingProducts struct {
	repository.ProductRepository
	rec *lockRecorder
}

func (p recordingProducts) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p.rec.locked = append(p.rec.locked, id)
	return p.ProductRepository.GetForUpdate(ctx, id)
}

func (l *lockRecorder) Run(ctx context.Context, fn func(repository.TxRepos) error) error {
	return l.store.Run(ctx, func(r repository.TxRepos) error {
		r.Products = recordingProducts{ProductRepository: r.Products, rec: l}
		return fn(r)
	})
}

func TestUpdate_CambioDeProducto_BloqueaEnOrdenAscendente(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repos()
	rec := audit.NewRecorder()
	engine := ledger.NewEngine(store, repos, rec, nil)
	uow := &lockRecorder{store: store}
	f := &fixture{repos: repos, engine: engine, svc: sales.NewService(uow, repos, engine, rec, nil, nil)}
	ctx := context.Background()

	a := f.product(t, "Pan", 1000, 10)
	b := f.product(t, "Torta", 8000, 10)
	low, high := a, b
	if high < low {
		low, high = high, low
	}

	// venta sobre el id mayor que pasa al menor: el orden natural bloquearía high antes que low
	res, err := f.svc.Create(ctx, testActor, sales.CreateInput{ProductID: high, Qty: 2})
	require.NoError(t, err)
	uow.locked = nil

	_, err = f.svc.Update(ctx, testActor, res.Sale.ID, sales.UpdateInput{ProductID: &low})
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(uow.locked), 2)
	assert.Equal(t, []string{low, high}, uow.locked[:2], "ambos productos se bloquean en orden ascendente de id")
	assert.Equal(t, int64(10), f.stock(t, high))
	assert.Equal(t, int64(8), f.stock(t, low))
}
