package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/memory"
)

func newProduct(name string) *entity.Product {
	now := time.Now()
	return &entity.Product{ID: uuid.New().String(), Name: name, Price: decimal.NewFromInt(100), IsActive: true, CreatedAt: now, UpdatedAt: now}
}

func TestRun_ErrorDescartaCambios(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	p := newProduct("Pan")
	require.NoError(t, store.Repos().Products.Create(ctx, p))

	boom := errors.New("boom")
	err := store.Run(ctx, func(r repository.TxRepos) error {
		require.NoError(t, r.Products.AddStock(ctx, p.ID, 5))
		got, err := r.Products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(5), got.Stock, "dentro de la transacción se ve el cambio")
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Repos().Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Stock)
}

func TestRun_ContextoCancelado(t *testing.T) {
	store := memory.NewStore()
	p := newProduct("Pan")
	require.NoError(t, store.Repos().Products.Create(context.Background(), p))

	ctx, cancel := context.WithCancel(context.Background())
	err := store.Run(ctx, func(r repository.TxRepos) error {
		require.NoError(t, r.Products.AddStock(ctx, p.ID, 5))
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	got, err := store.Repos().Products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Stock, "un contexto cancelado no confirma")
}

func TestRun_Commit(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	p := newProduct("Pan")

	require.NoError(t, store.Run(ctx, func(r repository.TxRepos) error {
		if err := r.Products.Create(ctx, p); err != nil {
			return err
		}
		return r.Products.AddStock(ctx, p.ID, 3)
	}))

	got, err := store.Repos().Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.Stock)
}

func TestProducts_AddStockNoBajaDeCero(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	p := newProduct("Pan")
	repos := store.Repos()
	require.NoError(t, repos.Products.Create(ctx, p))

	require.ErrorIs(t, repos.Products.AddStock(ctx, p.ID, -1), domain.ErrInsufficientStock)
	require.ErrorIs(t, repos.Products.AddStock(ctx, uuid.New().String(), 1), domain.ErrNotFound)
}

func TestProducts_NombreUnicoSinDistinguirMayusculas(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repos := store.Repos()
	require.NoError(t, repos.Products.Create(ctx, newProduct("Pan Integral")))
	require.ErrorIs(t, repos.Products.Create(ctx, newProduct("pan integral")), domain.ErrDuplicate)
}

func TestProducts_BorradoConReferencias(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repos := store.Repos()
	p := newProduct("Pan")
	require.NoError(t, repos.Products.Create(ctx, p))
	require.NoError(t, repos.Stocks.Create(ctx, &entity.Stock{
		ID: uuid.New().String(), Owner: entity.ProductOwner(p.ID), Type: entity.StockTypeIn,
		Quantity: 1, Source: entity.StockSourceManual, CreatedAt: time.Now(),
	}))

	require.ErrorIs(t, repos.Products.Delete(ctx, p.ID), domain.ErrConstraint)
	require.ErrorIs(t, repos.Products.Delete(ctx, uuid.New().String()), domain.ErrNotFound)
}

func TestStocks_RechazaDuenoInexistente(t *testing.T) {
	store := memory.NewStore()
	err := store.Repos().Stocks.Create(context.Background(), &entity.Stock{
		ID: uuid.New().String(), Owner: entity.RawMaterialOwner(uuid.New().String()), Type: entity.StockTypeIn,
		Quantity: 1, Source: entity.StockSourceManual, CreatedAt: time.Now(),
	})
	require.ErrorIs(t, err, domain.ErrConstraint)
}

func TestInvoices_LastNumberPorValorNumerico(t *testing.T) {
	repos := memory.NewStore().Repos()
	ctx := context.Background()
	p := newProduct("Pan")
	require.NoError(t, repos.Products.Create(ctx, p))

	for _, number := range []string{"INV-999", "INV-1000", "MANUAL-7", "INV-050"} {
		sale := &entity.Sale{ID: uuid.New().String(), ProductID: p.ID, Qty: 1, Date: time.Now()}
		require.NoError(t, repos.Sales.Create(ctx, sale))
		inv := &entity.Invoice{ID: uuid.New().String(), InvoiceNumber: number, SaleID: sale.ID, Date: time.Now()}
		require.NoError(t, repos.Invoices.Create(ctx, inv, nil))
	}

	last, err := repos.Invoices.LastNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INV-1000", last, "el más reciente o con formato ajeno no manda")
}

func TestSales_ListFiltraPorFechaYPagina(t *testing.T) {
	repos := memory.NewStore().Repos()
	ctx := context.Background()
	p := newProduct("Pan")
	require.NoError(t, repos.Products.Create(ctx, p))
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		s := &entity.Sale{ID: uuid.New().String(), ProductID: p.ID, Qty: 1, PaymentStatus: entity.PaymentUnpaid, Date: base.AddDate(0, 0, i)}
		require.NoError(t, repos.Sales.Create(ctx, s))
	}

	from, to := base.AddDate(0, 0, 1), base.AddDate(0, 0, 3)
	list, total, err := repos.Sales.List(ctx, repository.SaleFilter{From: &from, To: &to, Page: repository.Page{Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 2)
	assert.True(t, list[0].Date.Equal(base.AddDate(0, 0, 3)), "más reciente primero")
	assert.Equal(t, "Pan", list[0].ProductName)

	list, _, err = repos.Sales.List(ctx, repository.SaleFilter{Search: "torta"})
	require.NoError(t, err)
	assert.Empty(t, list)
}
