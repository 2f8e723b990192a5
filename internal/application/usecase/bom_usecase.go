package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-produccion/internal/application/audit"
	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// BoMUseCase administra la receta (lista de materiales) de cada producto.
type BoMUseCase struct {
	uow   ports.UnitOfWork
	repo  repository.BoMRepository
	audit *audit.Recorder
}

// NewBoMUseCase construye el caso de uso.
func NewBoMUseCase(uow ports.UnitOfWork, repo repository.BoMRepository, rec *audit.Recorder) *BoMUseCase {
	return &BoMUseCase{uow: uow, repo: repo, audit: rec}
}

// Create agrega una materia prima a la receta. El par producto/materia prima es único
// (ErrDuplicate).
func (uc *BoMUseCase) Create(ctx context.Context, actor string, in dto.CreateBoMRequest) (*dto.BoMResponse, error) {
	if !in.Qty.IsPositive() {
		return nil, fmt.Errorf("cantidad por unidad debe ser mayor a 0: %w", domain.ErrInvalidInput)
	}
	now := time.Now()
	b := &entity.BoM{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		RawMaterialID: in.RawMaterialID,
		Qty:           in.Qty,
		Unit:          in.Unit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := uc.uow.Run(ctx, func(r repository.TxRepos) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %s: %w", in.ProductID, domain.ErrNotFound)
		}
		m, err := r.RawMaterials.GetByID(ctx, in.RawMaterialID)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("materia prima %s: %w", in.RawMaterialID, domain.ErrNotFound)
		}
		if b.Unit == "" {
			b.Unit = m.Unit
		}
		if err := r.BoMs.Create(ctx, b); err != nil {
			return err
		}
		return uc.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableBoM,
			Action:      "Create BoM",
			Description: fmt.Sprintf("Receta de %q: %s %s de %q", product.Name, b.Qty.String(), b.Unit, m.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	return toBoMResponse(b), nil
}

// ListByProduct devuelve la receta de un producto.
func (uc *BoMUseCase) ListByProduct(ctx context.Context, productID string) ([]dto.BoMResponse, error) {
	list, err := uc.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BoMResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBoMResponse(b))
	}
	return out, nil
}

// Update cambia la cantidad o la unidad de una línea de receta.
func (uc *BoMUseCase) Update(ctx context.Context, actor, id string, in dto.UpdateBoMRequest) (*dto.BoMResponse, error) {
	if in.Qty != nil && !in.Qty.IsPositive() {
		return nil, fmt.Errorf("cantidad por unidad debe ser mayor a 0: %w", domain.ErrInvalidInput)
	}
	var out *entity.BoM
	err := uc.uow.Run(ctx, func(r repository.TxRepos) error {
		b, err := r.BoMs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		if in.Qty != nil {
			b.Qty = *in.Qty
		}
		if in.Unit != nil && *in.Unit != "" {
			b.Unit = *in.Unit
		}
		b.UpdatedAt = time.Now()
		if err := r.BoMs.Update(ctx, b); err != nil {
			return err
		}
		out = b
		return uc.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableBoM,
			Action:      "Update BoM",
			Description: fmt.Sprintf("Línea de receta %s: %s %s", b.ID, b.Qty.String(), b.Unit),
		})
	})
	if err != nil {
		return nil, err
	}
	return toBoMResponse(out), nil
}

// Delete quita una línea de la receta.
func (uc *BoMUseCase) Delete(ctx context.Context, actor, id string) error {
	return uc.uow.Run(ctx, func(r repository.TxRepos) error {
		b, err := r.BoMs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		if err := r.BoMs.Delete(ctx, id); err != nil {
			return err
		}
		return uc.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableBoM,
			Action:      "Delete BoM",
			Description: fmt.Sprintf("Línea de receta %s eliminada", id),
		})
	})
}

func toBoMResponse(b *entity.BoM) *dto.BoMResponse {
	return &dto.BoMResponse{
		ID:            b.ID,
		ProductID:     b.ProductID,
		RawMaterialID: b.RawMaterialID,
		Qty:           b.Qty,
		Unit:          b.Unit,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
