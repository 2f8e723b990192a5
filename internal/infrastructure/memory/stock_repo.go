package memory

import (
	"context"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/ledger"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

var _ repository.StockRepository = (*stockRepo)(nil)

type stockRepo struct{ v *view }

func (r *stockRepo) Create(_ context.Context, s *entity.Stock) error {
	return r.v.do(func(st *state) error {
		if !s.Owner.Valid() || !ownerExists(st, s.Owner) {
			return domain.ErrConstraint
		}
		if s.Quantity <= 0 || !ledger.ValidType(s.Type) {
			return domain.ErrConstraint
		}
		if _, ok := st.stocks[s.ID]; ok {
			return domain.ErrDuplicate
		}
		row := *s
		row.OwnerName, row.OwnerUnit, row.OwnerStock = "", "", 0
		st.stocks[s.ID] = row
		st.touch(s.ID)
		return nil
	})
}

func (r *stockRepo) GetByID(_ context.Context, id string) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.v.do(func(st *state) error {
		if s, ok := st.stocks[id]; ok {
			out = joinOwner(st, s)
		}
		return nil
	})
	return out, err
}

func (r *stockRepo) GetForUpdate(ctx context.Context, id string) (*entity.Stock, error) {
	return r.GetByID(ctx, id)
}

func (r *stockRepo) Update(_ context.Context, s *entity.Stock) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.stocks[s.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if s.Quantity <= 0 || !ledger.ValidType(s.Type) {
			return domain.ErrConstraint
		}
		cur.Type, cur.Quantity, cur.Description = s.Type, s.Quantity, s.Description
		cur.Source, cur.UpdatedAt = s.Source, s.UpdatedAt
		st.stocks[s.ID] = cur
		return nil
	})
}

func (r *stockRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.stocks[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.stocks, id)
		return nil
	})
}

func (r *stockRepo) List(_ context.Context, f repository.StockFilter) ([]*entity.Stock, int, error) {
	var list []*entity.Stock
	var total int
	err := r.v.do(func(st *state) error {
		ids := matchingStocks(st, f)
		newestFirst(st, ids)
		total = len(ids)
		for _, id := range window(ids, f.Page) {
			list = append(list, joinOwner(st, st.stocks[id]))
		}
		return nil
	})
	return list, total, err
}

func (r *stockRepo) Totals(_ context.Context, f repository.StockFilter) (repository.StockTotals, error) {
	var t repository.StockTotals
	err := r.v.do(func(st *state) error {
		for _, id := range matchingStocks(st, f) {
			s := st.stocks[id]
			switch s.Type {
			case entity.StockTypeIn:
				t.StockIn += s.Quantity
			case entity.StockTypeOut:
				t.StockOut += s.Quantity
			case entity.StockTypeExpired:
				t.Expired += s.Quantity
			case entity.StockTypeReject:
				t.Rejected += s.Quantity
			}
		}
		return nil
	})
	return t, err
}

func (r *stockRepo) SumByOwner(_ context.Context, owner entity.StockOwner) (int64, error) {
	var sum int64
	err := r.v.do(func(st *state) error {
		for _, s := range st.stocks {
			if s.Owner == owner {
				s := s
				sum += ledger.Signed(&s)
			}
		}
		return nil
	})
	return sum, err
}

func (r *stockRepo) CountByOwner(_ context.Context, owner entity.StockOwner) (int, error) {
	var n int
	err := r.v.do(func(st *state) error {
		for _, s := range st.stocks {
			if s.Owner == owner {
				n++
			}
		}
		return nil
	})
	return n, err
}

func matchingStocks(st *state, f repository.StockFilter) []string {
	ids := make([]string, 0, len(st.stocks))
	for id, s := range st.stocks {
		if f.Type != "" && s.Type != f.Type {
			continue
		}
		if f.OwnerKind != "" && s.Owner.Kind != f.OwnerKind {
			continue
		}
		if f.OwnerID != "" && s.Owner.ID != f.OwnerID {
			continue
		}
		if f.From != nil && s.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && s.CreatedAt.After(*f.To) {
			continue
		}
		if f.Search != "" {
			name, _, _ := ownerInfo(st, s.Owner)
			if !containsFold(s.Description, f.Search) && !containsFold(name, f.Search) {
				continue
			}
		}
		ids = append(ids, id)
	}
	return ids
}

func ownerExists(st *state, o entity.StockOwner) bool {
	switch o.Kind {
	case entity.OwnerProduct:
		_, ok := st.products[o.ID]
		return ok
	case entity.OwnerRawMaterial:
		_, ok := st.materials[o.ID]
		return ok
	}
	return false
}

func ownerInfo(st *state, o entity.StockOwner) (name, unit string, stock int64) {
	switch o.Kind {
	case entity.OwnerProduct:
		p := st.products[o.ID]
		return p.Name, "", p.Stock
	case entity.OwnerRawMaterial:
		m := st.materials[o.ID]
		return m.Name, m.Unit, m.Stock
	}
	return "", "", 0
}

func joinOwner(st *state, s entity.Stock) *entity.Stock {
	s.OwnerName, s.OwnerUnit, s.OwnerStock = ownerInfo(st, s.Owner)
	return &s
}
