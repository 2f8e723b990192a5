// Package ledger es el motor del kardex: toda variación de existencias de productos y materias
// primas pasa por aquí como un registro en stocks más el ajuste del stock del dueño, en la misma
// transacción.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-produccion/internal/application/audit"
	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	rules "github.com/jhoicas/inventario-produccion/internal/domain/ledger"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// Engine registra, corrige y revierte movimientos del kardex.
type Engine struct {
	uow   ports.UnitOfWork
	repos repository.TxRepos // lecturas fuera de transacción
	audit *audit.Recorder
	cache ports.OnHandCache
	now   func() time.Time
}

// NewEngine construye el motor. cache puede ser nil.
func NewEngine(uow ports.UnitOfWork, repos repository.TxRepos, rec *audit.Recorder, cache ports.OnHandCache) *Engine {
	if cache == nil {
		cache = ports.NopOnHandCache{}
	}
	return &Engine{uow: uow, repos: repos, audit: rec, cache: cache, now: time.Now}
}

// Movement movimiento a registrar dentro de una transacción abierta por el caller.
type Movement struct {
	Owner       entity.StockOwner
	Type        string
	Qty         int64
	Description string
	Source      string
	ReferenceID string
	Actor       string
}

// OwnerState datos del dueño leídos con bloqueo.
type OwnerState struct {
	Name  string
	Unit  string
	Stock int64
}

// LockOwner bloquea la fila del dueño (SELECT FOR UPDATE) y devuelve su estado.
func (e *Engine) LockOwner(ctx context.Context, r repository.TxRepos, o entity.StockOwner) (*OwnerState, error) {
	switch o.Kind {
	case entity.OwnerProduct:
		p, err := r.Products.GetForUpdate(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("producto %s: %w", o.ID, domain.ErrNotFound)
		}
		return &OwnerState{Name: p.Name, Stock: p.Stock}, nil
	case entity.OwnerRawMaterial:
		m, err := r.RawMaterials.GetForUpdate(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, fmt.Errorf("materia prima %s: %w", o.ID, domain.ErrNotFound)
		}
		return &OwnerState{Name: m.Name, Unit: m.Unit, Stock: m.Stock}, nil
	}
	return nil, fmt.Errorf("dueño de movimiento inválido: %w", domain.ErrInvalidInput)
}

// setOwnerStockDirectly aplica delta al stock del dueño sin tocar el kardex.
// Solo se usa junto a la escritura del registro correspondiente.
func setOwnerStockDirectly(ctx context.Context, r repository.TxRepos, o entity.StockOwner, delta int64) error {
	if delta == 0 {
		return nil
	}
	if o.Kind == entity.OwnerProduct {
		return r.Products.AddStock(ctx, o.ID, delta)
	}
	return r.RawMaterials.AddStock(ctx, o.ID, delta)
}

// PostInTx registra m usando los repositorios de la transacción del caller: bloquea al dueño,
// rechaza salidas mayores a la existencia, inserta el registro y aplica el delta.
// No escribe auditoría; el caller registra su propia entrada.
func (e *Engine) PostInTx(ctx context.Context, r repository.TxRepos, m Movement) (*entity.Stock, error) {
	if !m.Owner.Valid() {
		return nil, fmt.Errorf("dueño de movimiento inválido: %w", domain.ErrInvalidInput)
	}
	delta, err := rules.SignedDelta(m.Type, m.Qty)
	if err != nil {
		return nil, err
	}
	owner, err := e.LockOwner(ctx, r, m.Owner)
	if err != nil {
		return nil, err
	}
	if owner.Stock+delta < 0 {
		return nil, fmt.Errorf("%s: existencia %d, solicitado %d: %w", owner.Name, owner.Stock, m.Qty, domain.ErrInsufficientStock)
	}
	source := m.Source
	if source == "" {
		source = entity.StockSourceManual
	}
	desc := m.Description
	if desc == "" {
		desc = rules.Describe(rules.DescribeInput{
			Source: source, Type: m.Type, Qty: m.Qty, Owner: m.Owner, OwnerName: owner.Name,
		})
	}
	now := e.now()
	row := &entity.Stock{
		ID:          uuid.New().String(),
		Owner:       m.Owner,
		Type:        m.Type,
		Quantity:    m.Qty,
		Description: desc,
		Source:      source,
		ReferenceID: m.ReferenceID,
		CreatedBy:   m.Actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.Stocks.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("insertar movimiento: %w", err)
	}
	if err := setOwnerStockDirectly(ctx, r, m.Owner, delta); err != nil {
		return nil, err
	}
	row.OwnerName, row.OwnerUnit, row.OwnerStock = owner.Name, owner.Unit, owner.Stock+delta
	return row, nil
}

// AdjustOwnerStockInTx convierte una edición directa del stock del dueño en un movimiento de
// corrección por la diferencia. Devuelve nil si el stock no cambia.
func (e *Engine) AdjustOwnerStockInTx(ctx context.Context, r repository.TxRepos, actor string, o entity.StockOwner, newStock int64) (*entity.Stock, error) {
	if newStock < 0 {
		return nil, fmt.Errorf("el stock no puede ser negativo: %w", domain.ErrInvalidInput)
	}
	owner, err := e.LockOwner(ctx, r, o)
	if err != nil {
		return nil, err
	}
	typ, qty, ok := rules.CorrectionFor(newStock - owner.Stock)
	if !ok {
		return nil, nil
	}
	return e.PostInTx(ctx, r, Movement{
		Owner:       o,
		Type:        typ,
		Qty:         qty,
		Source:      entity.StockSourceCorrection,
		Description: fmt.Sprintf("Corrección de stock de %q: %d a %d", owner.Name, owner.Stock, newStock),
		Actor:       actor,
	})
}

// RefreshOnHand reescribe en el cache la existencia confirmada de los dueños tocados por un
// commit. Se llama después del commit; si el dueño ya no existe o la lectura falla, la entrada
// se borra.
func (e *Engine) RefreshOnHand(ctx context.Context, owners ...entity.StockOwner) {
	for _, o := range owners {
		qty, found, err := e.committedStock(ctx, o)
		if err != nil || !found {
			e.cache.Invalidate(ctx, o)
			continue
		}
		e.cache.Set(ctx, o, qty)
	}
}
