package memory

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

var (
	_ repository.ProductRepository     = (*productRepo)(nil)
	_ repository.RawMaterialRepository = (*rawMaterialRepo)(nil)
)

type productRepo struct{ v *view }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, o := range st.products {
			if strings.EqualFold(o.Name, p.Name) {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		st.touch(p.ID)
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) GetByName(_ context.Context, name string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(func(st *state) error {
		for _, p := range st.products {
			if strings.EqualFold(p.Name, name) {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepo) List(_ context.Context, f repository.CatalogFilter) ([]*entity.Product, int, error) {
	var list []*entity.Product
	var total int
	err := r.v.do(func(st *state) error {
		ids := make([]string, 0, len(st.products))
		for id, p := range st.products {
			if f.Search == "" || containsFold(p.Name, f.Search) || containsFold(p.SKU, f.Search) {
				ids = append(ids, id)
			}
		}
		newestFirst(st, ids)
		total = len(ids)
		for _, id := range window(ids, f.Page) {
			p := st.products[id]
			list = append(list, &p)
		}
		return nil
	})
	return list, total, err
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for id, o := range st.products {
			if id != p.ID && strings.EqualFold(o.Name, p.Name) {
				return domain.ErrDuplicate
			}
		}
		cur.Name, cur.Description, cur.SKU = p.Name, p.Description, p.SKU
		cur.Price, cur.CategoryID, cur.SupplierID = p.Price, p.CategoryID, p.SupplierID
		cur.IsActive, cur.UpdatedAt = p.IsActive, p.UpdatedAt
		st.products[p.ID] = cur
		return nil
	})
}

func (r *productRepo) UpdateCostPrice(_ context.Context, id string, cost decimal.Decimal) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.CostPrice = cost
		cur.UpdatedAt = time.Now()
		st.products[id] = cur
		return nil
	})
}

func (r *productRepo) AddStock(_ context.Context, id string, delta int64) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		if cur.Stock+delta < 0 {
			return domain.ErrInsufficientStock
		}
		cur.Stock += delta
		cur.UpdatedAt = time.Now()
		st.products[id] = cur
		return nil
	})
}

func (r *productRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		if referencesOwner(st, entity.ProductOwner(id)) {
			return domain.ErrConstraint
		}
		delete(st.products, id)
		return nil
	})
}

type rawMaterialRepo struct{ v *view }

func (r *rawMaterialRepo) Create(_ context.Context, m *entity.RawMaterial) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.materials[m.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, o := range st.materials {
			if strings.EqualFold(o.Name, m.Name) {
				return domain.ErrDuplicate
			}
		}
		st.materials[m.ID] = *m
		st.touch(m.ID)
		return nil
	})
}

func (r *rawMaterialRepo) GetByID(_ context.Context, id string) (*entity.RawMaterial, error) {
	var out *entity.RawMaterial
	err := r.v.do(func(st *state) error {
		if m, ok := st.materials[id]; ok {
			out = &m
		}
		return nil
	})
	return out, err
}

func (r *rawMaterialRepo) GetForUpdate(ctx context.Context, id string) (*entity.RawMaterial, error) {
	return r.GetByID(ctx, id)
}

func (r *rawMaterialRepo) GetByName(_ context.Context, name string) (*entity.RawMaterial, error) {
	var out *entity.RawMaterial
	err := r.v.do(func(st *state) error {
		for _, m := range st.materials {
			if strings.EqualFold(m.Name, name) {
				m := m
				out = &m
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *rawMaterialRepo) List(_ context.Context, f repository.CatalogFilter) ([]*entity.RawMaterial, int, error) {
	var list []*entity.RawMaterial
	var total int
	err := r.v.do(func(st *state) error {
		ids := make([]string, 0, len(st.materials))
		for id, m := range st.materials {
			if f.Search == "" || containsFold(m.Name, f.Search) {
				ids = append(ids, id)
			}
		}
		newestFirst(st, ids)
		total = len(ids)
		for _, id := range window(ids, f.Page) {
			m := st.materials[id]
			list = append(list, &m)
		}
		return nil
	})
	return list, total, err
}

func (r *rawMaterialRepo) Update(_ context.Context, m *entity.RawMaterial) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.materials[m.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for id, o := range st.materials {
			if id != m.ID && strings.EqualFold(o.Name, m.Name) {
				return domain.ErrDuplicate
			}
		}
		cur.Name, cur.Unit, cur.Price = m.Name, m.Unit, m.Price
		cur.IsActive, cur.UpdatedAt = m.IsActive, m.UpdatedAt
		st.materials[m.ID] = cur
		return nil
	})
}

func (r *rawMaterialRepo) UpdatePrice(_ context.Context, id string, price decimal.Decimal) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.materials[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Price = price
		cur.UpdatedAt = time.Now()
		st.materials[id] = cur
		return nil
	})
}

func (r *rawMaterialRepo) AddStock(_ context.Context, id string, delta int64) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.materials[id]
		if !ok {
			return domain.ErrNotFound
		}
		if cur.Stock+delta < 0 {
			return domain.ErrInsufficientStock
		}
		cur.Stock += delta
		cur.UpdatedAt = time.Now()
		st.materials[id] = cur
		return nil
	})
}

func (r *rawMaterialRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.materials[id]; !ok {
			return domain.ErrNotFound
		}
		if referencesOwner(st, entity.RawMaterialOwner(id)) {
			return domain.ErrConstraint
		}
		delete(st.materials, id)
		return nil
	})
}

// referencesOwner emula las llaves foráneas RESTRICT de stocks, boms y documentos.
func referencesOwner(st *state, o entity.StockOwner) bool {
	for _, s := range st.stocks {
		if s.Owner == o {
			return true
		}
	}
	for _, b := range st.boms {
		if (o.Kind == entity.OwnerProduct && b.ProductID == o.ID) || (o.Kind == entity.OwnerRawMaterial && b.RawMaterialID == o.ID) {
			return true
		}
	}
	if o.Kind == entity.OwnerProduct {
		for _, s := range st.sales {
			if s.ProductID == o.ID {
				return true
			}
		}
		for _, p := range st.productions {
			if p.ProductID == o.ID {
				return true
			}
		}
		return false
	}
	for _, p := range st.purchases {
		if p.RawMaterialID == o.ID {
			return true
		}
	}
	for _, u := range st.usages {
		if u.RawMaterialID == o.ID {
			return true
		}
	}
	return false
}
