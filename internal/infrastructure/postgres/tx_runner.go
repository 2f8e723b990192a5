package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

var _ ports.UnitOfWork = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con todos los repos atados a la tx
// y hace Commit o Rollback. Los bloqueos de fila (FOR UPDATE) viven hasta el Commit.
func (r *TxRunner) Run(ctx context.Context, fn func(repository.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(Repos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repos construye el juego completo de repositorios sobre q (pool o tx).
func Repos(q Querier) repository.TxRepos {
	return repository.TxRepos{
		Products:     NewProductRepository(q),
		RawMaterials: NewRawMaterialRepository(q),
		Stocks:       NewStockRepository(q),
		BoMs:         NewBoMRepository(q),
		Productions:  NewProductionRepository(q),
		Sales:        NewSaleRepository(q),
		Purchases:    NewPurchaseRepository(q),
		Usages:       NewUsageRepository(q),
		Deliveries:   NewDeliveryRepository(q),
		Invoices:     NewInvoiceRepository(q),
		Activity:     NewActivityLogRepository(q),
	}
}
