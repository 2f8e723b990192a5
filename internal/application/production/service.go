// Package production maneja las órdenes de producción y su procesamiento contra la receta (BoM).
package production

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-produccion/internal/application/audit"
	"github.com/jhoicas/inventario-produccion/internal/application/ledger"
	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// Service casos de uso de producción.
type Service struct {
	uow    ports.UnitOfWork
	repos  repository.TxRepos
	engine *ledger.Engine
	audit  *audit.Recorder
	now    func() time.Time
}

// NewService construye el servicio.
func NewService(uow ports.UnitOfWork, repos repository.TxRepos, engine *ledger.Engine, rec *audit.Recorder) *Service {
	return &Service{uow: uow, repos: repos, engine: engine, audit: rec, now: time.Now}
}

// CreateInput datos para planificar una producción.
type CreateInput struct {
	ProductID      string
	Qty            int64
	ProductionDate time.Time
	Notes          string
}

// UpdateInput campos modificables; nil conserva el valor.
type UpdateInput struct {
	Qty            *int64
	ProductionDate *time.Time
	Notes          *string
	Status         *string
}

// Create registra una orden en estado planned.
func (s *Service) Create(ctx context.Context, actor string, in CreateInput) (*entity.Production, error) {
	if in.ProductID == "" || in.Qty <= 0 {
		return nil, fmt.Errorf("producto y cantidad mayor a 0 requeridos: %w", domain.ErrInvalidInput)
	}
	now := s.now()
	if in.ProductionDate.IsZero() {
		in.ProductionDate = now
	}
	p := &entity.Production{
		ID:             uuid.New().String(),
		ProductID:      in.ProductID,
		UserID:         actor,
		Qty:            in.Qty,
		ProductionDate: in.ProductionDate,
		Status:         entity.ProductionPlanned,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := s.uow.Run(ctx, func(r repository.TxRepos) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %s: %w", in.ProductID, domain.ErrNotFound)
		}
		if err := r.Productions.Create(ctx, p); err != nil {
			return err
		}
		p.ProductName = product.Name
		return s.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableProduction,
			Action:      "Create Production",
			Description: fmt.Sprintf("Producción planificada: %d de %q", p.Qty, product.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Get obtiene una producción por ID.
func (s *Service) Get(ctx context.Context, id string) (*entity.Production, error) {
	p, err := s.repos.Productions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// List lista producciones.
func (s *Service) List(ctx context.Context, f repository.ProductionFilter) ([]*entity.Production, int, error) {
	return s.repos.Productions.List(ctx, f)
}

// Update modifica cantidad, fecha o notas mientras la orden no sea terminal, y aplica
// transiciones de estado manuales. done solo se alcanza con Process.
func (s *Service) Update(ctx context.Context, actor, id string, in UpdateInput) (*entity.Production, error) {
	if in.Qty != nil && *in.Qty <= 0 {
		return nil, fmt.Errorf("cantidad debe ser mayor a 0: %w", domain.ErrInvalidInput)
	}
	var out *entity.Production
	err := s.uow.Run(ctx, func(r repository.TxRepos) error {
		p, err := r.Productions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("producción %s: %w", id, domain.ErrNotFound)
		}
		if p.Terminal() {
			return fmt.Errorf("producción en estado %s: %w", p.Status, domain.ErrConflict)
		}
		if in.Status != nil && !p.CanTransition(*in.Status) {
			return fmt.Errorf("transición %s -> %s no permitida: %w", p.Status, *in.Status, domain.ErrConflict)
		}
		if in.Qty != nil {
			p.Qty = *in.Qty
		}
		if in.ProductionDate != nil {
			p.ProductionDate = *in.ProductionDate
		}
		if in.Notes != nil {
			p.Notes = *in.Notes
		}
		if in.Status != nil {
			p.Status = *in.Status
		}
		p.UpdatedAt = s.now()
		if err := r.Productions.Update(ctx, p); err != nil {
			return err
		}
		out = p
		return s.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableProduction,
			Action:      "Update Production",
			Description: fmt.Sprintf("Producción %s actualizada: %d unidades, estado %s", p.ID, p.Qty, p.Status),
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete elimina una orden que no fue procesada.
func (s *Service) Delete(ctx context.Context, actor, id string) error {
	return s.uow.Run(ctx, func(r repository.TxRepos) error {
		p, err := r.Productions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("producción %s: %w", id, domain.ErrNotFound)
		}
		if p.Status == entity.ProductionDone {
			return fmt.Errorf("producción ya procesada: %w", domain.ErrConflict)
		}
		if err := r.Productions.Delete(ctx, id); err != nil {
			return err
		}
		return s.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableProduction,
			Action:      "Delete Production",
			Description: fmt.Sprintf("Producción %s eliminada", id),
		})
	})
}
