// Package usage coordina los usos directos de materia prima.
package usage

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
	rules "github.com/jhoicas/inventario-produccion/internal/domain/ledger"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// Service casos de uso de usos de materia prima.
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

// CreateInput datos de un uso.
type CreateInput struct {
	RawMaterialID string
	Qty           int64
	Date          time.Time
	Description   string
}

// UpdateInput cambios de un uso; nil conserva el valor.
type UpdateInput struct {
	Qty         *int64
	Date        *time.Time
	Description *string
}

func movement(typ string, m *entity.RawMaterial, u *entity.Usage, qty int64, actor string) ledger.Movement {
	owner := entity.RawMaterialOwner(m.ID)
	return ledger.Movement{
		Owner:  owner,
		Type:   typ,
		Qty:    qty,
		Source: entity.StockSourceUsage,
		Description: rules.Describe(rules.DescribeInput{
			Source: entity.StockSourceUsage, Type: typ, Qty: qty, Owner: owner, OwnerName: m.Name,
		}),
		ReferenceID: u.ID,
		Actor:       actor,
	}
}

// Create descuenta qty de la materia prima; falla con ErrInsufficientStock si qty supera la existencia.
func (s *Service) Create(ctx context.Context, actor string, in CreateInput) (*entity.Usage, error) {
	if in.RawMaterialID == "" || in.Qty <= 0 {
		return nil, fmt.Errorf("materia prima y cantidad mayor a 0 requeridas: %w", domain.ErrInvalidInput)
	}
	now := s.now()
	if in.Date.IsZero() {
		in.Date = now
	}
	u := &entity.Usage{
		ID:            uuid.New().String(),
		RawMaterialID: in.RawMaterialID,
		UserID:        actor,
		Qty:           in.Qty,
		Date:          in.Date,
		Description:   in.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := s.uow.Run(ctx, func(r repository.TxRepos) error {
		m, err := r.RawMaterials.GetForUpdate(ctx, in.RawMaterialID)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("materia prima %s: %w", in.RawMaterialID, domain.ErrNotFound)
		}
		if m.Stock < in.Qty {
			return fmt.Errorf("%s: existencia %d, solicitado %d: %w", m.Name, m.Stock, in.Qty, domain.ErrInsufficientStock)
		}
		if err := r.Usages.Create(ctx, u); err != nil {
			return err
		}
		if _, err := s.engine.PostInTx(ctx, r, movement(entity.StockTypeOut, m, u, u.Qty, actor)); err != nil {
			return err
		}
		return s.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableUsage,
			Action:      "Create Usage",
			Description: fmt.Sprintf("Uso de %d unidades de %q", u.Qty, m.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	s.engine.RefreshOnHand(ctx, entity.RawMaterialOwner(u.RawMaterialID))
	return u, nil
}

// Update aplica la diferencia de cantidad contra la existencia; un aumento mayor al stock falla.
func (s *Service) Update(ctx context.Context, actor, id string, in UpdateInput) (*entity.Usage, error) {
	if in.Qty != nil && *in.Qty <= 0 {
		return nil, fmt.Errorf("cantidad debe ser mayor a 0: %w", domain.ErrInvalidInput)
	}
	var out *entity.Usage
	err := s.uow.Run(ctx, func(r repository.TxRepos) error {
		u, err := r.Usages.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("uso %s: %w", id, domain.ErrNotFound)
		}
		m, err := r.RawMaterials.GetForUpdate(ctx, u.RawMaterialID)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("materia prima %s: %w", u.RawMaterialID, domain.ErrNotFound)
		}
		if in.Qty != nil && *in.Qty != u.Qty {
			delta := *in.Qty - u.Qty
			if delta > 0 && delta > m.Stock {
				return fmt.Errorf("%s: existencia %d, aumento %d: %w", m.Name, m.Stock, delta, domain.ErrInsufficientStock)
			}
			// más uso = salida adicional; menos uso = devolución
			typ, qty, _ := rules.CorrectionFor(-delta)
			if _, err := s.engine.PostInTx(ctx, r, movement(typ, m, u, qty, actor)); err != nil {
				return err
			}
			u.Qty = *in.Qty
		}
		if in.Date != nil {
			u.Date = *in.Date
		}
		if in.Description != nil {
			u.Description = *in.Description
		}
		u.UpdatedAt = s.now()
		if err := r.Usages.Update(ctx, u); err != nil {
			return err
		}
		out = u
		return s.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableUsage,
			Action:      "Update Usage",
			Description: fmt.Sprintf("Uso %s actualizado: %d unidades de %q", u.ID, u.Qty, m.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	s.engine.RefreshOnHand(ctx, entity.RawMaterialOwner(out.RawMaterialID))
	return out, nil
}

// Delete devuelve la cantidad usada a la materia prima y borra el uso.
func (s *Service) Delete(ctx context.Context, actor, id string) error {
	var owner entity.StockOwner
	err := s.uow.Run(ctx, func(r repository.TxRepos) error {
		u, err := r.Usages.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("uso %s: %w", id, domain.ErrNotFound)
		}
		m, err := r.RawMaterials.GetForUpdate(ctx, u.RawMaterialID)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("materia prima %s: %w", u.RawMaterialID, domain.ErrNotFound)
		}
		if _, err := s.engine.PostInTx(ctx, r, movement(entity.StockTypeIn, m, u, u.Qty, actor)); err != nil {
			return err
		}
		owner = entity.RawMaterialOwner(m.ID)
		if err := r.Usages.Delete(ctx, id); err != nil {
			return err
		}
		return s.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableUsage,
			Action:      "Delete Usage",
			Description: fmt.Sprintf("Uso %s eliminado: %d unidades de %q devueltas", id, u.Qty, m.Name),
		})
	})
	if err != nil {
		return err
	}
	s.engine.RefreshOnHand(ctx, owner)
	return nil
}

// Get obtiene un uso por ID.
func (s *Service) Get(ctx context.Context, id string) (*entity.Usage, error) {
	u, err := s.repos.Usages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// List lista usos de materia prima con filtros y paginación.
func (s *Service) List(ctx context.Context, f repository.UsageFilter) ([]*entity.Usage, int, error) {
	return s.repos.Usages.List(ctx, f)
}
