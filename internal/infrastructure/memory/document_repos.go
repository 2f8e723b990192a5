package memory

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

var (
	_ repository.SaleRepository        = (*saleRepo)(nil)
	_ repository.PurchaseRepository    = (*purchaseRepo)(nil)
	_ repository.UsageRepository       = (*usageRepo)(nil)
	_ repository.DeliveryRepository    = (*deliveryRepo)(nil)
	_ repository.InvoiceRepository     = (*invoiceRepo)(nil)
	_ repository.ActivityLogRepository = (*activityRepo)(nil)
	_ repository.UserRepository        = (*userRepo)(nil)
)

type saleRepo struct{ v *view }

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.products[s.ProductID]; !ok {
			return domain.ErrConstraint
		}
		row := *s
		row.ProductName = ""
		st.sales[s.ID] = row
		st.touch(s.ID)
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.v.do(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			s.ProductName = st.products[s.ProductID].Name
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *saleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	var list []*entity.Sale
	var total int
	err := r.v.do(func(st *state) error {
		ids := make([]string, 0, len(st.sales))
		for id, s := range st.sales {
			if f.ProductID != "" && s.ProductID != f.ProductID {
				continue
			}
			if f.PaymentStatus != "" && s.PaymentStatus != f.PaymentStatus {
				continue
			}
			if !inRange(s.Date, f.From, f.To) {
				continue
			}
			if f.Search != "" && !containsFold(st.products[s.ProductID].Name, f.Search) {
				continue
			}
			ids = append(ids, id)
		}
		byDateDesc(st, ids, func(id string) time.Time { return st.sales[id].Date })
		total = len(ids)
		for _, id := range window(ids, f.Page) {
			s := st.sales[id]
			s.ProductName = st.products[s.ProductID].Name
			list = append(list, &s)
		}
		return nil
	})
	return list, total, err
}

func (r *saleRepo) Update(_ context.Context, s *entity.Sale) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.sales[s.ID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.products[s.ProductID]; !ok {
			return domain.ErrConstraint
		}
		row := *s
		row.ProductName = ""
		st.sales[s.ID] = row
		return nil
	})
}

func (r *saleRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.sales[id]; !ok {
			return domain.ErrNotFound
		}
		// deliveries e invoices se borran en cascada
		for did, d := range st.deliveries {
			if d.SaleID == id {
				delete(st.deliveries, did)
			}
		}
		for iid, inv := range st.invoices {
			if inv.SaleID == id {
				delete(st.invoices, iid)
				delete(st.invoiceItems, iid)
			}
		}
		delete(st.sales, id)
		return nil
	})
}

type purchaseRepo struct{ v *view }

func (r *purchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.materials[p.RawMaterialID]; !ok {
			return domain.ErrConstraint
		}
		st.purchases[p.ID] = *p
		st.touch(p.ID)
		return nil
	})
}

func (r *purchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	err := r.v.do(func(st *state) error {
		if p, ok := st.purchases[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *purchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

func (r *purchaseRepo) List(_ context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, int, error) {
	var list []*entity.Purchase
	var total int
	err := r.v.do(func(st *state) error {
		ids := make([]string, 0, len(st.purchases))
		for id, p := range st.purchases {
			if f.RawMaterialID != "" && p.RawMaterialID != f.RawMaterialID {
				continue
			}
			if f.Status != "" && p.Status != f.Status {
				continue
			}
			if !inRange(p.Date, f.From, f.To) {
				continue
			}
			if f.Search != "" && !containsFold(p.InvoiceNumber, f.Search) && !containsFold(p.Notes, f.Search) {
				continue
			}
			ids = append(ids, id)
		}
		byDateDesc(st, ids, func(id string) time.Time { return st.purchases[id].Date })
		total = len(ids)
		for _, id := range window(ids, f.Page) {
			p := st.purchases[id]
			list = append(list, &p)
		}
		return nil
	})
	return list, total, err
}

func (r *purchaseRepo) Update(_ context.Context, p *entity.Purchase) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.purchases[p.ID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.materials[p.RawMaterialID]; !ok {
			return domain.ErrConstraint
		}
		st.purchases[p.ID] = *p
		return nil
	})
}

func (r *purchaseRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.purchases[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.purchases, id)
		return nil
	})
}

type usageRepo struct{ v *view }

func (r *usageRepo) Create(_ context.Context, u *entity.Usage) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.materials[u.RawMaterialID]; !ok {
			return domain.ErrConstraint
		}
		st.usages[u.ID] = *u
		st.touch(u.ID)
		return nil
	})
}

func (r *usageRepo) GetByID(_ context.Context, id string) (*entity.Usage, error) {
	var out *entity.Usage
	err := r.v.do(func(st *state) error {
		if u, ok := st.usages[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *usageRepo) GetForUpdate(ctx context.Context, id string) (*entity.Usage, error) {
	return r.GetByID(ctx, id)
}

func (r *usageRepo) List(_ context.Context, f repository.UsageFilter) ([]*entity.Usage, int, error) {
	var list []*entity.Usage
	var total int
	err := r.v.do(func(st *state) error {
		ids := make([]string, 0, len(st.usages))
		for id, u := range st.usages {
			if f.RawMaterialID != "" && u.RawMaterialID != f.RawMaterialID {
				continue
			}
			if !inRange(u.Date, f.From, f.To) {
				continue
			}
			if f.Search != "" && !containsFold(u.Description, f.Search) {
				continue
			}
			ids = append(ids, id)
		}
		byDateDesc(st, ids, func(id string) time.Time { return st.usages[id].Date })
		total = len(ids)
		for _, id := range window(ids, f.Page) {
			u := st.usages[id]
			list = append(list, &u)
		}
		return nil
	})
	return list, total, err
}

func (r *usageRepo) Update(_ context.Context, u *entity.Usage) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.usages[u.ID]; !ok {
			return domain.ErrNotFound
		}
		st.usages[u.ID] = *u
		return nil
	})
}

func (r *usageRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.usages[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.usages, id)
		return nil
	})
}

type deliveryRepo struct{ v *view }

func (r *deliveryRepo) Create(_ context.Context, d *entity.Delivery) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.sales[d.SaleID]; !ok {
			return domain.ErrConstraint
		}
		st.deliveries[d.ID] = *d
		st.touch(d.ID)
		return nil
	})
}

func (r *deliveryRepo) GetByID(_ context.Context, id string) (*entity.Delivery, error) {
	var out *entity.Delivery
	err := r.v.do(func(st *state) error {
		if d, ok := st.deliveries[id]; ok {
			out = &d
		}
		return nil
	})
	return out, err
}

// GetBySale devuelve el despacho más reciente de la venta.
func (r *deliveryRepo) GetBySale(_ context.Context, saleID string) (*entity.Delivery, error) {
	var out *entity.Delivery
	err := r.v.do(func(st *state) error {
		var ids []string
		for id, d := range st.deliveries {
			if d.SaleID == saleID {
				ids = append(ids, id)
			}
		}
		newestFirst(st, ids)
		if len(ids) > 0 {
			d := st.deliveries[ids[0]]
			out = &d
		}
		return nil
	})
	return out, err
}

func (r *deliveryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Delivery, error) {
	return r.GetByID(ctx, id)
}

func (r *deliveryRepo) Update(_ context.Context, d *entity.Delivery) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.deliveries[d.ID]; !ok {
			return domain.ErrNotFound
		}
		st.deliveries[d.ID] = *d
		return nil
	})
}

type invoiceRepo struct{ v *view }

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice, items []*entity.InvoiceItem) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.sales[inv.SaleID]; !ok {
			return domain.ErrConstraint
		}
		for _, o := range st.invoices {
			if o.InvoiceNumber == inv.InvoiceNumber {
				return domain.ErrDuplicate
			}
		}
		st.invoices[inv.ID] = *inv
		st.touch(inv.ID)
		rows := make([]entity.InvoiceItem, 0, len(items))
		for _, it := range items {
			rows = append(rows, *it)
		}
		st.invoiceItems[inv.ID] = rows
		return nil
	})
}

func (r *invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.v.do(func(st *state) error {
		if inv, ok := st.invoices[id]; ok {
			out = &inv
		}
		return nil
	})
	return out, err
}

func (r *invoiceRepo) GetBySale(_ context.Context, saleID string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.v.do(func(st *state) error {
		for _, inv := range st.invoices {
			if inv.SaleID == saleID {
				inv := inv
				out = &inv
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *invoiceRepo) Items(_ context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	var list []*entity.InvoiceItem
	err := r.v.do(func(st *state) error {
		for _, it := range st.invoiceItems[invoiceID] {
			it := it
			list = append(list, &it)
		}
		return nil
	})
	return list, err
}

// LastNumber mayor número INV-NNN por valor numérico del sufijo; ignora los que no siguen el formato.
func (r *invoiceRepo) LastNumber(_ context.Context) (string, error) {
	var (
		last string
		best = -1
	)
	err := r.v.do(func(st *state) error {
		for _, inv := range st.invoices {
			digits, ok := strings.CutPrefix(inv.InvoiceNumber, "INV-")
			if !ok || digits == "" || strings.Trim(digits, "0123456789") != "" {
				continue
			}
			if n, err := strconv.Atoi(digits); err == nil && n > best {
				best, last = n, inv.InvoiceNumber
			}
		}
		return nil
	})
	return last, err
}

type activityRepo struct{ v *view }

func (r *activityRepo) Create(_ context.Context, l *entity.ActivityLog) error {
	return r.v.do(func(st *state) error {
		st.logs = append(st.logs, *l)
		return nil
	})
}

func (r *activityRepo) ListByTable(_ context.Context, table string) ([]*entity.ActivityLog, error) {
	var list []*entity.ActivityLog
	err := r.v.do(func(st *state) error {
		for _, l := range st.logs {
			if table == "" || l.Table == table {
				l := l
				list = append(list, &l)
			}
		}
		return nil
	})
	return list, err
}

type userRepo struct{ v *view }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	return r.v.do(func(st *state) error {
		for _, o := range st.users {
			if o.Email == u.Email {
				return domain.ErrDuplicate
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.v.do(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.v.do(func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}
