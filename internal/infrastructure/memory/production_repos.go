package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

var (
	_ repository.BoMRepository        = (*bomRepo)(nil)
	_ repository.ProductionRepository = (*productionRepo)(nil)
)

type bomRepo struct{ v *view }

func (r *bomRepo) Create(_ context.Context, b *entity.BoM) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.products[b.ProductID]; !ok {
			return domain.ErrConstraint
		}
		if _, ok := st.materials[b.RawMaterialID]; !ok {
			return domain.ErrConstraint
		}
		for _, o := range st.boms {
			if o.ProductID == b.ProductID && o.RawMaterialID == b.RawMaterialID {
				return domain.ErrDuplicate
			}
		}
		st.boms[b.ID] = *b
		st.touch(b.ID)
		return nil
	})
}

func (r *bomRepo) GetByID(_ context.Context, id string) (*entity.BoM, error) {
	var out *entity.BoM
	err := r.v.do(func(st *state) error {
		if b, ok := st.boms[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r *bomRepo) ListByProduct(_ context.Context, productID string) ([]*entity.BoM, error) {
	var list []*entity.BoM
	err := r.v.do(func(st *state) error {
		for _, b := range st.boms {
			if b.ProductID == productID {
				b := b
				list = append(list, &b)
			}
		}
		sort.Slice(list, func(i, j int) bool { return list[i].RawMaterialID < list[j].RawMaterialID })
		return nil
	})
	return list, err
}

func (r *bomRepo) LinesByProduct(_ context.Context, productID string) ([]entity.BoMLine, error) {
	var lines []entity.BoMLine
	err := r.v.do(func(st *state) error {
		for _, b := range st.boms {
			if b.ProductID != productID {
				continue
			}
			m, ok := st.materials[b.RawMaterialID]
			if !ok {
				continue
			}
			lines = append(lines, entity.BoMLine{BoM: b, Material: m})
		}
		sort.Slice(lines, func(i, j int) bool { return lines[i].RawMaterialID < lines[j].RawMaterialID })
		return nil
	})
	return lines, err
}

func (r *bomRepo) Update(_ context.Context, b *entity.BoM) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.boms[b.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.materials[b.RawMaterialID]; !ok {
			return domain.ErrConstraint
		}
		for id, o := range st.boms {
			if id != b.ID && o.ProductID == cur.ProductID && o.RawMaterialID == b.RawMaterialID {
				return domain.ErrDuplicate
			}
		}
		cur.RawMaterialID, cur.Qty, cur.Unit, cur.UpdatedAt = b.RawMaterialID, b.Qty, b.Unit, b.UpdatedAt
		st.boms[b.ID] = cur
		return nil
	})
}

func (r *bomRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.boms[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.boms, id)
		return nil
	})
}

type productionRepo struct{ v *view }

func (r *productionRepo) Create(_ context.Context, p *entity.Production) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.products[p.ProductID]; !ok {
			return domain.ErrConstraint
		}
		row := *p
		row.ProductName = ""
		st.productions[p.ID] = row
		st.touch(p.ID)
		return nil
	})
}

func (r *productionRepo) GetByID(_ context.Context, id string) (*entity.Production, error) {
	var out *entity.Production
	err := r.v.do(func(st *state) error {
		if p, ok := st.productions[id]; ok {
			p.ProductName = st.products[p.ProductID].Name
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *productionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Production, error) {
	return r.GetByID(ctx, id)
}

func (r *productionRepo) List(_ context.Context, f repository.ProductionFilter) ([]*entity.Production, int, error) {
	var list []*entity.Production
	var total int
	err := r.v.do(func(st *state) error {
		ids := make([]string, 0, len(st.productions))
		for id, p := range st.productions {
			if f.Status != "" && p.Status != f.Status {
				continue
			}
			if f.ProductID != "" && p.ProductID != f.ProductID {
				continue
			}
			ids = append(ids, id)
		}
		newestFirst(st, ids)
		total = len(ids)
		for _, id := range window(ids, f.Page) {
			p := st.productions[id]
			p.ProductName = st.products[p.ProductID].Name
			list = append(list, &p)
		}
		return nil
	})
	return list, total, err
}

func (r *productionRepo) Update(_ context.Context, p *entity.Production) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.productions[p.ID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.products[p.ProductID]; !ok {
			return domain.ErrConstraint
		}
		row := *p
		row.ProductName = ""
		st.productions[p.ID] = row
		return nil
	})
}

func (r *productionRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.productions[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.productions, id)
		return nil
	})
}
