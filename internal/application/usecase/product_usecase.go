package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-produccion/internal/application/audit"
	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/application/ledger"
	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia por el kardex:
// editarlo aquí genera un movimiento de corrección; el costo lo fija la producción.
type ProductUseCase struct {
	uow    ports.UnitOfWork
	repo   repository.ProductRepository
	engine *ledger.Engine
	audit  *audit.Recorder
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(uow ports.UnitOfWork, repo repository.ProductRepository, engine *ledger.Engine, rec *audit.Recorder) *ProductUseCase {
	return &ProductUseCase{uow: uow, repo: repo, engine: engine, audit: rec}
}

// Create crea un nuevo producto. CostPrice inicia en 0.
func (uc *ProductUseCase) Create(ctx context.Context, actor string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := normalizeName(in.Name)
	if name == "" || in.Price.IsNegative() || in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		SKU:         in.SKU,
		Price:       in.Price,
		CostPrice:   decimal.Zero,
		CategoryID:  in.CategoryID,
		SupplierID:  in.SupplierID,
		IsActive:    in.IsActive == nil || *in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	owner := entity.ProductOwner(product.ID)
	err := uc.uow.Run(ctx, func(r repository.TxRepos) error {
		if err := r.Products.Create(ctx, product); err != nil {
			return err
		}
		if _, err := uc.engine.AdjustOwnerStockInTx(ctx, r, actor, owner, in.Stock); err != nil {
			return err
		}
		product.Stock = in.Stock
		return uc.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableProduct,
			Action:      "Create Product",
			Description: fmt.Sprintf("Producto %q creado", product.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	uc.engine.RefreshOnHand(ctx, owner)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. Si cambia el stock se registra la diferencia como corrección.
func (uc *ProductUseCase) Update(ctx context.Context, actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Price != nil && in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Product
	owner := entity.ProductOwner(id)
	err := uc.uow.Run(ctx, func(r repository.TxRepos) error {
		product, err := r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			if product.Name = normalizeName(*in.Name); product.Name == "" {
				return domain.ErrInvalidInput
			}
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.SKU != nil {
			product.SKU = *in.SKU
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		if in.CategoryID != nil {
			product.CategoryID = *in.CategoryID
		}
		if in.SupplierID != nil {
			product.SupplierID = *in.SupplierID
		}
		if in.IsActive != nil {
			product.IsActive = *in.IsActive
		}
		product.UpdatedAt = time.Now()
		if err := r.Products.Update(ctx, product); err != nil {
			return err
		}
		if in.Stock != nil {
			if _, err := uc.engine.AdjustOwnerStockInTx(ctx, r, actor, owner, *in.Stock); err != nil {
				return err
			}
		}
		if out, err = r.Products.GetByID(ctx, id); err != nil {
			return err
		}
		return uc.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableProduct,
			Action:      "Update Product",
			Description: fmt.Sprintf("Producto %q actualizado", product.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	uc.engine.RefreshOnHand(ctx, owner)
	return toProductResponse(out), nil
}

// List lista productos con búsqueda por nombre o SKU y paginación.
func (uc *ProductUseCase) List(ctx context.Context, search string, limit, offset int) (*dto.ProductListResponse, error) {
	limit, offset = pageOf(limit, offset)
	list, total, err := uc.repo.List(ctx, repository.CatalogFilter{Search: search, Page: repository.Page{Limit: limit, Offset: offset}})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Delete elimina un producto. Con movimientos, ventas, recetas u órdenes asociadas falla con
// ErrConstraint.
func (uc *ProductUseCase) Delete(ctx context.Context, actor, id string) error {
	err := uc.uow.Run(ctx, func(r repository.TxRepos) error {
		product, err := r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if err := r.Products.Delete(ctx, id); err != nil {
			return err
		}
		return uc.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableProduct,
			Action:      "Delete Product",
			Description: fmt.Sprintf("Producto %q eliminado", product.Name),
		})
	})
	if err != nil {
		return err
	}
	uc.engine.RefreshOnHand(ctx, entity.ProductOwner(id))
	return nil
}

// OnHand existencia actual del producto.
func (uc *ProductUseCase) OnHand(ctx context.Context, id string) (*dto.OnHandResponse, error) {
	qty, err := uc.engine.OnHand(ctx, entity.ProductOwner(id))
	if err != nil {
		return nil, err
	}
	return &dto.OnHandResponse{OwnerKind: entity.OwnerProduct, OwnerID: id, Stock: qty}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		Price:       p.Price,
		Stock:       p.Stock,
		CostPrice:   p.CostPrice,
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
