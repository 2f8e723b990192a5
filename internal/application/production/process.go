package production

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-produccion/internal/application/audit"
	"github.com/jhoicas/inventario-produccion/internal/application/ledger"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	rules "github.com/jhoicas/inventario-produccion/internal/domain/ledger"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// ProcessResult resultado de procesar una producción.
type ProcessResult struct {
	Production *entity.Production
	HPP        *rules.HPPResult
}

// Process consume las materias primas de la receta, ingresa el producto terminado y fija el HPP.
// Todo ocurre en una transacción: si una sola materia prima no alcanza no se modifica nada.
func (s *Service) Process(ctx context.Context, actor, id string) (*ProcessResult, error) {
	if actor == "" {
		return nil, fmt.Errorf("usuario requerido: %w", domain.ErrInvalidInput)
	}
	var (
		res     *ProcessResult
		touched []entity.StockOwner
	)
	err := s.uow.Run(ctx, func(r repository.TxRepos) error {
		p, err := r.Productions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("producción %s: %w", id, domain.ErrNotFound)
		}
		switch p.Status {
		case entity.ProductionDone:
			return domain.ErrAlreadyProcessed
		case entity.ProductionCanceled:
			return fmt.Errorf("producción cancelada: %w", domain.ErrConflict)
		}
		product, err := r.Products.GetForUpdate(ctx, p.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %s: %w", p.ProductID, domain.ErrNotFound)
		}

		lines, err := r.BoMs.LinesByProduct(ctx, p.ProductID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return fmt.Errorf("producto %q: %w", product.Name, domain.ErrMissingBoM)
		}
		// bloquear materias primas en orden ascendente de id (LinesByProduct ya viene ordenado)
		for i := range lines {
			m, err := r.RawMaterials.GetForUpdate(ctx, lines[i].RawMaterialID)
			if err != nil {
				return err
			}
			if m == nil {
				return fmt.Errorf("materia prima %s: %w", lines[i].RawMaterialID, domain.ErrNotFound)
			}
			lines[i].Material = *m
		}
		hpp, err := rules.CalculateHPP(lines, p.Qty)
		if err != nil {
			return err
		}
		// validar todo antes de mover stock
		for i, l := range hpp.Lines {
			if lines[i].Material.Stock < l.Consumed {
				return fmt.Errorf("materia prima %q: requiere %d, disponible %d: %w",
					l.Name, l.Consumed, lines[i].Material.Stock, domain.ErrInsufficientMaterial)
			}
		}

		for _, l := range hpp.Lines {
			owner := entity.RawMaterialOwner(l.RawMaterialID)
			_, err := s.engine.PostInTx(ctx, r, ledger.Movement{
				Owner:  owner,
				Type:   entity.StockTypeOut,
				Qty:    l.Consumed,
				Source: entity.StockSourceProduction,
				Description: rules.Describe(rules.DescribeInput{
					Source: entity.StockSourceProduction, Type: entity.StockTypeOut, Qty: l.Consumed,
					Owner: owner, OwnerName: l.Name, Extra: product.Name,
				}),
				ReferenceID: p.ID,
				Actor:       actor,
			})
			if err != nil {
				return err
			}
			touched = append(touched, owner)
		}

		productOwner := entity.ProductOwner(p.ProductID)
		if _, err := s.engine.PostInTx(ctx, r, ledger.Movement{
			Owner:       productOwner,
			Type:        entity.StockTypeIn,
			Qty:         p.Qty,
			Source:      entity.StockSourceProduction,
			ReferenceID: p.ID,
			Actor:       actor,
		}); err != nil {
			return err
		}
		touched = append(touched, productOwner)
		if err := r.Products.UpdateCostPrice(ctx, p.ProductID, hpp.UnitCost); err != nil {
			return err
		}

		unit := hpp.UnitCost
		p.Status = entity.ProductionDone
		p.HPP = &unit
		p.UpdatedAt = s.now()
		if err := r.Productions.Update(ctx, p); err != nil {
			return err
		}
		p.ProductName = product.Name
		res = &ProcessResult{Production: p, HPP: hpp}
		return s.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableProduction,
			Action:      "Process Production",
			Description: fmt.Sprintf("Producción procesada: %d de %q, HPP %s", p.Qty, product.Name, unit.String()),
		})
	})
	if err != nil {
		return nil, err
	}
	s.engine.RefreshOnHand(ctx, touched...)
	return res, nil
}

// Breakdown desglose de HPP de una producción.
type Breakdown struct {
	ProductionID string
	ProductID    string
	ProductName  string
	Qty          int64
	Status       string
	Lines        []rules.HPPLine
	TotalCost    decimal.Decimal
	UnitCost     decimal.Decimal
}

// HppBreakdown calcula el costo por materia prima con los precios actuales. Solo lectura;
// no requiere que la producción esté procesada.
func (s *Service) HppBreakdown(ctx context.Context, id string) (*Breakdown, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.repos.BoMs.LinesByProduct(ctx, p.ProductID)
	if err != nil {
		return nil, err
	}
	hpp, err := rules.CalculateHPP(lines, p.Qty)
	if err != nil {
		return nil, err
	}
	return &Breakdown{
		ProductionID: p.ID,
		ProductID:    p.ProductID,
		ProductName:  p.ProductName,
		Qty:          p.Qty,
		Status:       p.Status,
		Lines:        hpp.Lines,
		TotalCost:    hpp.TotalCost,
		UnitCost:     hpp.UnitCost,
	}, nil
}
