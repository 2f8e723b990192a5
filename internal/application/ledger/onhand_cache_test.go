package ledger_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-produccion/internal/application/audit"
	"github.com/jhoicas/inventario-produccion/internal/application/ledger"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Cache de existencias con Redis
// ──────────────────────────────────────────────────────────────────────────────

// lectorTardio ejecuta beforeFill una sola vez justo antes de que la lectura llene el cache,
// reproduciendo un escritor que confirma entre la lectura en base y el llenado.
type lectorTardio struct {
	*cache.OnHandCache
	beforeFill func()
}

func (c *lectorTardio) SetIfAbsent(ctx context.Context, owner entity.StockOwner, qty int64) {
	if fn := c.beforeFill; fn != nil {
		c.beforeFill = nil
		fn()
	}
	c.OnHandCache.SetIfAbsent(ctx, owner, qty)
}

func newCachedEngine(t *testing.T) (*fixture, *lectorTardio, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := &lectorTardio{OnHandCache: cache.NewOnHandCache(client, time.Minute, logger.Nop())}
	store := memory.NewStore()
	repos := store.Repos()
	return &fixture{store: store, repos: repos, engine: ledger.NewEngine(store, repos, audit.NewRecorder(), c)}, c, mr
}

func TestOnHand_EscritorEntreLecturaYLlenado_CacheQuedaConValorConfirmado(t *testing.T) {
	f, c, mr := newCachedEngine(t)
	ctx := context.Background()
	owner := f.product(t, "Pan", 10)
	mr.FlushAll()

	c.beforeFill = func() {
		_, err := f.engine.RecordMovement(ctx, testActor, ledger.RecordInput{Owner: owner, Type: entity.StockTypeOut, Qty: 3})
		require.NoError(t, err)
	}

	first, err := f.engine.OnHand(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(10), first, "la lectura devuelve lo que leyó antes del commit")

	second, err := f.engine.OnHand(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(7), second, "la lectura tardía no debe dejar en cache el valor viejo")
	f.assertLedgerBalanced(t, owner)
}

func TestRefreshOnHand_EscribeValorConfirmadoTrasCommit(t *testing.T) {
	f, _, mr := newCachedEngine(t)
	ctx := context.Background()
	owner := f.product(t, "Pan", 10)

	_, err := f.engine.RecordMovement(ctx, testActor, ledger.RecordInput{Owner: owner, Type: entity.StockTypeOut, Qty: 4})
	require.NoError(t, err)

	got, err := mr.Get("onhand:product:" + owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "6", got)
}

func TestRefreshOnHand_DuenoInexistente_BorraEntrada(t *testing.T) {
	f, c, mr := newCachedEngine(t)
	ctx := context.Background()
	ghost := entity.ProductOwner("no-existe")

	c.Set(ctx, ghost, 9)
	f.engine.RefreshOnHand(ctx, ghost)

	assert.False(t, mr.Exists("onhand:product:no-existe"))
}
