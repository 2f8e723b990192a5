package ports

import (
	"context"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// UnitOfWork ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error se hace Rollback; si no, Commit.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(r repository.TxRepos) error) error
}

// OnHandCache cache de existencias para lecturas de pantalla. Nunca es fuente de verdad:
// después de cada commit que toca al dueño se reescribe con el valor confirmado (Set);
// las lecturas solo llenan entradas ausentes (SetIfAbsent).
type OnHandCache interface {
	Get(ctx context.Context, owner entity.StockOwner) (int64, bool)
	Set(ctx context.Context, owner entity.StockOwner, qty int64)
	SetIfAbsent(ctx context.Context, owner entity.StockOwner, qty int64)
	Invalidate(ctx context.Context, owners ...entity.StockOwner)
}

// NopOnHandCache cache vacío, usado cuando no hay Redis configurado.
type NopOnHandCache struct{}

func (NopOnHandCache) Get(context.Context, entity.StockOwner) (int64, bool) { return 0, false }
func (NopOnHandCache) Set(context.Context, entity.StockOwner, int64)         {}
func (NopOnHandCache) SetIfAbsent(context.Context, entity.StockOwner, int64) {}
func (NopOnHandCache) Invalidate(context.Context, ...entity.StockOwner)    {}
