package repository

import (
	"context"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// StockTotals suma de cantidades por tipo de movimiento.
type StockTotals struct {
	StockIn  int64
	StockOut int64
	Expired  int64
	Rejected int64
}

// StockRepository puerto del kardex (tabla stocks). Usado dentro de transacciones.
type StockRepository interface {
	Create(ctx context.Context, s *entity.Stock) error
	GetByID(ctx context.Context, id string) (*entity.Stock, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Stock, error)
	// Update persiste tipo, cantidad y descripción.
	Update(ctx context.Context, s *entity.Stock) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f StockFilter) ([]*entity.Stock, int, error)
	Totals(ctx context.Context, f StockFilter) (StockTotals, error)
	// SumByOwner suma con signo todos los movimientos del dueño.
	SumByOwner(ctx context.Context, owner entity.StockOwner) (int64, error)
	CountByOwner(ctx context.Context, owner entity.StockOwner) (int, error)
}
