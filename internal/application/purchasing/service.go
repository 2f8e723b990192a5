// Package purchasing coordina compras de materia prima: ingresan stock por el kardex y
// refrescan el precio de la materia prima.
package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-produccion/internal/application/audit"
	"github.com/jhoicas/inventario-produccion/internal/application/ledger"
	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	rules "github.com/jhoicas/inventario-produccion/internal/domain/ledger"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// Service casos de uso de compras.
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

// CreateInput datos de una compra. Price nil toma el precio actual de la materia prima.
type CreateInput struct {
	RawMaterialID string
	SupplierID    string
	Qty           int64
	Price         *decimal.Decimal
	Date          time.Time
	Status        string
	InvoiceNumber string
	Notes         string
	ReceivedDate  *time.Time
}

// UpdateInput cambios de una compra; nil conserva el valor.
type UpdateInput struct {
	Qty           *int64
	Price         *decimal.Decimal
	Date          *time.Time
	Status        *string
	InvoiceNumber *string
	Notes         *string
	ReceivedDate  *time.Time
}

func validStatus(s string) bool {
	return s == entity.PurchasePending || s == entity.PurchaseCompleted || s == entity.PurchaseCanceled
}

func movement(typ string, m *entity.RawMaterial, p *entity.Purchase, qty int64, actor string) ledger.Movement {
	owner := entity.RawMaterialOwner(m.ID)
	return ledger.Movement{
		Owner:  owner,
		Type:   typ,
		Qty:    qty,
		Source: entity.StockSourcePurchase,
		Description: rules.Describe(rules.DescribeInput{
			Source: entity.StockSourcePurchase, Type: typ, Qty: qty, Owner: owner, OwnerName: m.Name,
		}),
		ReferenceID: p.ID,
		Actor:       actor,
	}
}

// Create registra la compra, ingresa la cantidad y fija el precio de la materia prima.
func (s *Service) Create(ctx context.Context, actor string, in CreateInput) (*entity.Purchase, error) {
	if in.RawMaterialID == "" || in.Qty <= 0 {
		return nil, fmt.Errorf("materia prima y cantidad mayor a 0 requeridas: %w", domain.ErrInvalidInput)
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, fmt.Errorf("precio negativo: %w", domain.ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = entity.PurchaseCompleted
	}
	if !validStatus(in.Status) {
		return nil, fmt.Errorf("estado %q: %w", in.Status, domain.ErrInvalidInput)
	}
	now := s.now()
	if in.Date.IsZero() {
		in.Date = now
	}
	p := &entity.Purchase{
		ID:            uuid.New().String(),
		RawMaterialID: in.RawMaterialID,
		SupplierID:    in.SupplierID,
		UserID:        actor,
		Qty:           in.Qty,
		Date:          in.Date,
		Status:        in.Status,
		InvoiceNumber: in.InvoiceNumber,
		Notes:         in.Notes,
		ReceivedDate:  in.ReceivedDate,
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
		p.Price = m.Price
		if in.Price != nil {
			p.Price = *in.Price
		}
		p.Total = p.Price.Mul(decimal.NewFromInt(p.Qty))
		if err := r.Purchases.Create(ctx, p); err != nil {
			return err
		}
		if _, err := s.engine.PostInTx(ctx, r, movement(entity.StockTypeIn, m, p, p.Qty, actor)); err != nil {
			return err
		}
		if err := r.RawMaterials.UpdatePrice(ctx, m.ID, p.Price); err != nil {
			return err
		}
		return s.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TablePurchase,
			Action:      "Create Purchase",
			Description: fmt.Sprintf("Compra de %d unidades de %q", p.Qty, m.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	s.engine.RefreshOnHand(ctx, entity.RawMaterialOwner(p.RawMaterialID))
	return p, nil
}

// Update ajusta el stock por la diferencia de cantidad y refresca el precio de la materia prima.
// Una reducción que deje el stock negativo falla con ErrInsufficientStock.
func (s *Service) Update(ctx context.Context, actor, id string, in UpdateInput) (*entity.Purchase, error) {
	if in.Qty != nil && *in.Qty <= 0 {
		return nil, fmt.Errorf("cantidad debe ser mayor a 0: %w", domain.ErrInvalidInput)
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, fmt.Errorf("precio negativo: %w", domain.ErrInvalidInput)
	}
	if in.Status != nil && !validStatus(*in.Status) {
		return nil, fmt.Errorf("estado %q: %w", *in.Status, domain.ErrInvalidInput)
	}
	var out *entity.Purchase
	err := s.uow.Run(ctx, func(r repository.TxRepos) error {
		p, err := r.Purchases.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("compra %s: %w", id, domain.ErrNotFound)
		}
		m, err := r.RawMaterials.GetForUpdate(ctx, p.RawMaterialID)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("materia prima %s: %w", p.RawMaterialID, domain.ErrNotFound)
		}
		if in.Qty != nil && *in.Qty != p.Qty {
			typ, qty, _ := rules.CorrectionFor(*in.Qty - p.Qty)
			if _, err := s.engine.PostInTx(ctx, r, movement(typ, m, p, qty, actor)); err != nil {
				return err
			}
			p.Qty = *in.Qty
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.Date != nil {
			p.Date = *in.Date
		}
		if in.Status != nil {
			p.Status = *in.Status
		}
		if in.InvoiceNumber != nil {
			p.InvoiceNumber = *in.InvoiceNumber
		}
		if in.Notes != nil {
			p.Notes = *in.Notes
		}
		if in.ReceivedDate != nil {
			p.ReceivedDate = in.ReceivedDate
		}
		p.Total = p.Price.Mul(decimal.NewFromInt(p.Qty))
		p.UpdatedAt = s.now()
		if err := r.Purchases.Update(ctx, p); err != nil {
			return err
		}
		if err := r.RawMaterials.UpdatePrice(ctx, m.ID, p.Price); err != nil {
			return err
		}
		out = p
		return s.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TablePurchase,
			Action:      "Update Purchase",
			Description: fmt.Sprintf("Compra %s actualizada: %d unidades de %q", p.ID, p.Qty, m.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	s.engine.RefreshOnHand(ctx, entity.RawMaterialOwner(out.RawMaterialID))
	return out, nil
}

// Delete retira del stock la cantidad comprada y borra la compra. Si la materia prima ya se
// consumió falla con ErrInsufficientStock.
func (s *Service) Delete(ctx context.Context, actor, id string) error {
	var owner entity.StockOwner
	err := s.uow.Run(ctx, func(r repository.TxRepos) error {
		p, err := r.Purchases.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("compra %s: %w", id, domain.ErrNotFound)
		}
		m, err := r.RawMaterials.GetForUpdate(ctx, p.RawMaterialID)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("materia prima %s: %w", p.RawMaterialID, domain.ErrNotFound)
		}
		if _, err := s.engine.PostInTx(ctx, r, movement(entity.StockTypeOut, m, p, p.Qty, actor)); err != nil {
			return err
		}
		owner = entity.RawMaterialOwner(m.ID)
		if err := r.Purchases.Delete(ctx, id); err != nil {
			return err
		}
		return s.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TablePurchase,
			Action:      "Delete Purchase",
			Description: fmt.Sprintf("Compra %s eliminada", id),
		})
	})
	if err != nil {
		return err
	}
	s.engine.RefreshOnHand(ctx, owner)
	return nil
}

// Get obtiene una compra por ID.
func (s *Service) Get(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := s.repos.Purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// List lista compras con filtros y paginación.
func (s *Service) List(ctx context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, int, error) {
	return s.repos.Purchases.List(ctx, f)
}
