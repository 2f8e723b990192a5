package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-produccion/internal/application/audit"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	rules "github.com/jhoicas/inventario-produccion/internal/domain/ledger"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// RecordInput datos de un movimiento manual.
type RecordInput struct {
	Owner       entity.StockOwner
	Type        string
	Qty         int64
	Description string
}

// RetypeInput cambios sobre un movimiento existente. Type vacío o Qty 0 conservan el valor actual;
// Description nil conserva la descripción.
type RetypeInput struct {
	Type        string
	Qty         int64
	Description *string
}

// RecordMovement registra un movimiento manual en su propia transacción y escribe la auditoría.
func (e *Engine) RecordMovement(ctx context.Context, actor string, in RecordInput) (*entity.Stock, error) {
	if actor == "" {
		return nil, fmt.Errorf("usuario requerido: %w", domain.ErrInvalidInput)
	}
	if _, err := rules.SignedDelta(in.Type, in.Qty); err != nil {
		return nil, err
	}
	var out *entity.Stock
	err := e.uow.Run(ctx, func(r repository.TxRepos) error {
		row, err := e.PostInTx(ctx, r, Movement{
			Owner:       in.Owner,
			Type:        in.Type,
			Qty:         in.Qty,
			Description: in.Description,
			Source:      entity.StockSourceManual,
			Actor:       actor,
		})
		if err != nil {
			return err
		}
		out = row
		return e.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableStock,
			Action:      "Create Stock " + in.Type,
			Description: fmt.Sprintf("Stock %s: %d de %q", in.Type, in.Qty, row.OwnerName),
		})
	})
	if err != nil {
		return nil, err
	}
	e.RefreshOnHand(ctx, in.Owner)
	return out, nil
}

// ReverseOnDelete aplica el delta inverso del movimiento al dueño y borra el registro.
// Un segundo borrado del mismo registro falla con ErrNotFound.
func (e *Engine) ReverseOnDelete(ctx context.Context, actor, stockID string) error {
	if actor == "" {
		return fmt.Errorf("usuario requerido: %w", domain.ErrInvalidInput)
	}
	var owner entity.StockOwner
	err := e.uow.Run(ctx, func(r repository.TxRepos) error {
		row, err := r.Stocks.GetForUpdate(ctx, stockID)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("movimiento %s: %w", stockID, domain.ErrNotFound)
		}
		if !row.Editable() {
			return fmt.Errorf("movimiento generado por %s, se revierte desde su documento: %w", row.Source, domain.ErrConflict)
		}
		owner = row.Owner
		state, err := e.LockOwner(ctx, r, row.Owner)
		if err != nil {
			return err
		}
		inverse := -rules.Signed(row)
		if state.Stock+inverse < 0 {
			return fmt.Errorf("%s: revertir dejaría el stock en %d: %w", state.Name, state.Stock+inverse, domain.ErrInsufficientStock)
		}
		if err := setOwnerStockDirectly(ctx, r, row.Owner, inverse); err != nil {
			return err
		}
		if err := r.Stocks.Delete(ctx, row.ID); err != nil {
			return err
		}
		return e.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableStock,
			Action:      "Delete Stock",
			Description: fmt.Sprintf("Stock %s eliminado: %d de %q", row.Type, row.Quantity, state.Name),
		})
	})
	if err != nil {
		return err
	}
	e.RefreshOnHand(ctx, owner)
	return nil
}

// Retype cambia tipo y/o cantidad de un movimiento: revierte el original contra el dueño,
// valida la nueva salida contra el stock revertido y aplica el nuevo delta, todo en una transacción.
// Si tipo y cantidad no cambian solo se actualiza la descripción.
func (e *Engine) Retype(ctx context.Context, actor, stockID string, in RetypeInput) (*entity.Stock, error) {
	if actor == "" {
		return nil, fmt.Errorf("usuario requerido: %w", domain.ErrInvalidInput)
	}
	if in.Qty < 0 || (in.Type != "" && !rules.ValidType(in.Type)) {
		return nil, fmt.Errorf("tipo o cantidad inválidos: %w", domain.ErrInvalidInput)
	}
	var out *entity.Stock
	err := e.uow.Run(ctx, func(r repository.TxRepos) error {
		row, err := r.Stocks.GetForUpdate(ctx, stockID)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("movimiento %s: %w", stockID, domain.ErrNotFound)
		}
		newType, newQty := row.Type, row.Quantity
		if in.Type != "" {
			newType = in.Type
		}
		if in.Qty > 0 {
			newQty = in.Qty
		}
		if in.Description != nil {
			row.Description = *in.Description
		}
		row.UpdatedAt = e.now()

		if newType == row.Type && newQty == row.Quantity {
			if err := r.Stocks.Update(ctx, row); err != nil {
				return err
			}
			out = row
			return e.audit.Record(ctx, r.Activity, audit.Entry{
				UserID:      actor,
				Table:       audit.TableStock,
				Action:      "Update Stock Description",
				Description: fmt.Sprintf("Descripción del movimiento %s actualizada", row.ID),
			})
		}

		if !row.Editable() {
			return fmt.Errorf("movimiento generado por %s, se corrige desde su documento: %w", row.Source, domain.ErrConflict)
		}
		newDelta, err := rules.SignedDelta(newType, newQty)
		if err != nil {
			return err
		}
		state, err := e.LockOwner(ctx, r, row.Owner)
		if err != nil {
			return err
		}
		reverted := state.Stock - rules.Signed(row)
		if reverted < 0 || reverted+newDelta < 0 {
			return fmt.Errorf("%s: stock revertido %d, nuevo movimiento %s %d: %w",
				state.Name, reverted, newType, newQty, domain.ErrInsufficientStock)
		}
		// revertir el original y luego aplicar el nuevo; un fallo entre ambos deshace los dos
		if err := setOwnerStockDirectly(ctx, r, row.Owner, -rules.Signed(row)); err != nil {
			return err
		}
		if err := setOwnerStockDirectly(ctx, r, row.Owner, newDelta); err != nil {
			return err
		}
		oldType, oldQty := row.Type, row.Quantity
		row.Type, row.Quantity = newType, newQty
		if err := r.Stocks.Update(ctx, row); err != nil {
			return err
		}
		row.OwnerName, row.OwnerUnit, row.OwnerStock = state.Name, state.Unit, reverted+newDelta
		out = row
		return e.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableStock,
			Action:      "Update Stock " + newType,
			Description: fmt.Sprintf("Movimiento de %q: %s %d a %s %d", state.Name, oldType, oldQty, newType, newQty),
		})
	})
	if err != nil {
		return nil, err
	}
	e.RefreshOnHand(ctx, out.Owner)
	return out, nil
}

// Get obtiene un movimiento por ID.
func (e *Engine) Get(ctx context.Context, id string) (*entity.Stock, error) {
	row, err := e.repos.Stocks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	return row, nil
}

// List lista movimientos con filtros y paginación.
func (e *Engine) List(ctx context.Context, f repository.StockFilter) ([]*entity.Stock, int, error) {
	if f.Type != "" && !rules.ValidType(f.Type) {
		return nil, 0, fmt.Errorf("tipo %q: %w", f.Type, domain.ErrInvalidInput)
	}
	return e.repos.Stocks.List(ctx, f)
}

// Report listado del kardex más totales por tipo.
type Report struct {
	Rows   []*entity.Stock
	Total  int
	Totals repository.StockTotals
}

// Report arma el reporte de stock. Los totales ignoran la paginación.
func (e *Engine) Report(ctx context.Context, f repository.StockFilter) (*Report, error) {
	rows, total, err := e.List(ctx, f)
	if err != nil {
		return nil, err
	}
	totals, err := e.repos.Stocks.Totals(ctx, f)
	if err != nil {
		return nil, err
	}
	return &Report{Rows: rows, Total: total, Totals: totals}, nil
}

// OnHand devuelve la existencia actual del dueño, desde cache si está disponible.
func (e *Engine) OnHand(ctx context.Context, o entity.StockOwner) (int64, error) {
	if !o.Valid() {
		return 0, domain.ErrInvalidInput
	}
	if qty, ok := e.cache.Get(ctx, o); ok {
		return qty, nil
	}
	qty, found, err := e.committedStock(ctx, o)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, domain.ErrNotFound
	}
	// NX: si un escritor ya dejó el valor posterior a su commit, esta lectura no lo pisa
	e.cache.SetIfAbsent(ctx, o, qty)
	return qty, nil
}

// committedStock lee la existencia confirmada fuera de transacción.
func (e *Engine) committedStock(ctx context.Context, o entity.StockOwner) (int64, bool, error) {
	switch o.Kind {
	case entity.OwnerProduct:
		p, err := e.repos.Products.GetByID(ctx, o.ID)
		if err != nil || p == nil {
			return 0, false, err
		}
		return p.Stock, true, nil
	case entity.OwnerRawMaterial:
		m, err := e.repos.RawMaterials.GetByID(ctx, o.ID)
		if err != nil || m == nil {
			return 0, false, err
		}
		return m.Stock, true, nil
	}
	return 0, false, nil
}
