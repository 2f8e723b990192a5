package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-produccion/internal/application/audit"
	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/application/ledger"
	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// RawMaterialUseCase casos de uso CRUD para materias primas.
type RawMaterialUseCase struct {
	uow    ports.UnitOfWork
	repo   repository.RawMaterialRepository
	engine *ledger.Engine
	audit  *audit.Recorder
}

// NewRawMaterialUseCase construye el caso de uso.
func NewRawMaterialUseCase(uow ports.UnitOfWork, repo repository.RawMaterialRepository, engine *ledger.Engine, rec *audit.Recorder) *RawMaterialUseCase {
	return &RawMaterialUseCase{uow: uow, repo: repo, engine: engine, audit: rec}
}

// Create crea una materia prima; el stock inicial queda como corrección en el kardex.
func (uc *RawMaterialUseCase) Create(ctx context.Context, actor string, in dto.CreateRawMaterialRequest) (*dto.RawMaterialResponse, error) {
	name := normalizeName(in.Name)
	if name == "" || in.Unit == "" || in.Price.IsNegative() || in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	m := &entity.RawMaterial{
		ID:        uuid.New().String(),
		Name:      name,
		Unit:      in.Unit,
		Price:     in.Price,
		IsActive:  in.IsActive == nil || *in.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := entity.RawMaterialOwner(m.ID)
	err := uc.uow.Run(ctx, func(r repository.TxRepos) error {
		if err := r.RawMaterials.Create(ctx, m); err != nil {
			return err
		}
		if _, err := uc.engine.AdjustOwnerStockInTx(ctx, r, actor, owner, in.Stock); err != nil {
			return err
		}
		m.Stock = in.Stock
		return uc.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableRawMaterial,
			Action:      "Create RawMaterial",
			Description: fmt.Sprintf("Materia prima %q creada", m.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	uc.engine.RefreshOnHand(ctx, owner)
	return toRawMaterialResponse(m), nil
}

// GetByID obtiene una materia prima por ID.
func (uc *RawMaterialUseCase) GetByID(ctx context.Context, id string) (*dto.RawMaterialResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return toRawMaterialResponse(m), nil
}

// Update actualiza una materia prima; un cambio de stock se registra como corrección.
func (uc *RawMaterialUseCase) Update(ctx context.Context, actor, id string, in dto.UpdateRawMaterialRequest) (*dto.RawMaterialResponse, error) {
	if in.Price != nil && in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.RawMaterial
	owner := entity.RawMaterialOwner(id)
	err := uc.uow.Run(ctx, func(r repository.TxRepos) error {
		m, err := r.RawMaterials.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			if m.Name = normalizeName(*in.Name); m.Name == "" {
				return domain.ErrInvalidInput
			}
		}
		if in.Unit != nil && *in.Unit != "" {
			m.Unit = *in.Unit
		}
		if in.Price != nil {
			m.Price = *in.Price
		}
		if in.IsActive != nil {
			m.IsActive = *in.IsActive
		}
		m.UpdatedAt = time.Now()
		if err := r.RawMaterials.Update(ctx, m); err != nil {
			return err
		}
		if in.Stock != nil {
			if _, err := uc.engine.AdjustOwnerStockInTx(ctx, r, actor, owner, *in.Stock); err != nil {
				return err
			}
		}
		if out, err = r.RawMaterials.GetByID(ctx, id); err != nil {
			return err
		}
		return uc.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableRawMaterial,
			Action:      "Update RawMaterial",
			Description: fmt.Sprintf("Materia prima %q actualizada", m.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	uc.engine.RefreshOnHand(ctx, owner)
	return toRawMaterialResponse(out), nil
}

// List lista materias primas con búsqueda y paginación.
func (uc *RawMaterialUseCase) List(ctx context.Context, search string, limit, offset int) (*dto.RawMaterialListResponse, error) {
	limit, offset = pageOf(limit, offset)
	list, total, err := uc.repo.List(ctx, repository.CatalogFilter{Search: search, Page: repository.Page{Limit: limit, Offset: offset}})
	if err != nil {
		return nil, err
	}
	items := make([]dto.RawMaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toRawMaterialResponse(m))
	}
	return &dto.RawMaterialListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Delete elimina una materia prima sin referencias (ErrConstraint si las tiene).
func (uc *RawMaterialUseCase) Delete(ctx context.Context, actor, id string) error {
	err := uc.uow.Run(ctx, func(r repository.TxRepos) error {
		m, err := r.RawMaterials.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if err := r.RawMaterials.Delete(ctx, id); err != nil {
			return err
		}
		return uc.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableRawMaterial,
			Action:      "Delete RawMaterial",
			Description: fmt.Sprintf("Materia prima %q eliminada", m.Name),
		})
	})
	if err != nil {
		return err
	}
	uc.engine.RefreshOnHand(ctx, entity.RawMaterialOwner(id))
	return nil
}

// OnHand existencia actual de la materia prima.
func (uc *RawMaterialUseCase) OnHand(ctx context.Context, id string) (*dto.OnHandResponse, error) {
	qty, err := uc.engine.OnHand(ctx, entity.RawMaterialOwner(id))
	if err != nil {
		return nil, err
	}
	return &dto.OnHandResponse{OwnerKind: entity.OwnerRawMaterial, OwnerID: id, Stock: qty}, nil
}

func toRawMaterialResponse(m *entity.RawMaterial) *dto.RawMaterialResponse {
	return &dto.RawMaterialResponse{
		ID:        m.ID,
		Name:      m.Name,
		Unit:      m.Unit,
		Price:     m.Price,
		Stock:     m.Stock,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
