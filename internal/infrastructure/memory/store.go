// Package memory implementa los repositorios sobre un estado en memoria con semántica
// transaccional: cada Run trabaja sobre una copia que solo reemplaza al estado confirmado
// si la función termina sin error.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

var _ ports.UnitOfWork = (*Store)(nil)

type state struct {
	products     map[string]entity.Product
	materials    map[string]entity.RawMaterial
	stocks       map[string]entity.Stock
	boms         map[string]entity.BoM
	productions  map[string]entity.Production
	sales        map[string]entity.Sale
	purchases    map[string]entity.Purchase
	usages       map[string]entity.Usage
	deliveries   map[string]entity.Delivery
	invoices     map[string]entity.Invoice
	invoiceItems map[string][]entity.InvoiceItem
	users        map[string]entity.User
	logs         []entity.ActivityLog
	// orden de inserción por ID, para listados estables
	order map[string]int64
	seq   int64
}

func newState() *state {
	return &state{
		products:     map[string]entity.Product{},
		materials:    map[string]entity.RawMaterial{},
		stocks:       map[string]entity.Stock{},
		boms:         map[string]entity.BoM{},
		productions:  map[string]entity.Production{},
		sales:        map[string]entity.Sale{},
		purchases:    map[string]entity.Purchase{},
		usages:       map[string]entity.Usage{},
		deliveries:   map[string]entity.Delivery{},
		invoices:     map[string]entity.Invoice{},
		invoiceItems: map[string][]entity.InvoiceItem{},
		users:        map[string]entity.User{},
		order:        map[string]int64{},
	}
}

func (s *state) clone() *state {
	c := &state{
		products:     maps.Clone(s.products),
		materials:    maps.Clone(s.materials),
		stocks:       maps.Clone(s.stocks),
		boms:         maps.Clone(s.boms),
		productions:  maps.Clone(s.productions),
		sales:        maps.Clone(s.sales),
		purchases:    maps.Clone(s.purchases),
		usages:       maps.Clone(s.usages),
		deliveries:   maps.Clone(s.deliveries),
		invoices:     maps.Clone(s.invoices),
		invoiceItems: make(map[string][]entity.InvoiceItem, len(s.invoiceItems)),
		users:        maps.Clone(s.users),
		logs:         append([]entity.ActivityLog(nil), s.logs...),
		order:        maps.Clone(s.order),
		seq:          s.seq,
	}
	for k, v := range s.invoiceItems {
		c.invoiceItems[k] = append([]entity.InvoiceItem(nil), v...)
	}
	return c
}

func (s *state) touch(id string) {
	if _, ok := s.order[id]; ok {
		return
	}
	s.seq++
	s.order[id] = s.seq
}

// Store estado en memoria. Las transacciones se serializan con un único mutex.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn sobre una copia del estado; si fn falla o el contexto se cancela antes
// del commit, la copia se descarta.
func (s *Store) Run(ctx context.Context, fn func(r repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(reposFor(&view{st: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repos devuelve repositorios fuera de transacción (cada llamada confirma de inmediato).
func (s *Store) Repos() repository.TxRepos {
	return reposFor(&view{store: s})
}

// Users devuelve el repositorio de usuarios fuera de transacción.
func (s *Store) Users() repository.UserRepository {
	return &userRepo{v: &view{store: s}}
}

// view resuelve el estado sobre el que opera un repositorio: la copia de la transacción
// o, fuera de ella, el estado confirmado bajo el mutex.
type view struct {
	store *Store
	st    *state
}

func (v *view) do(fn func(st *state) error) error {
	if v.st != nil {
		return fn(v.st)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

func reposFor(v *view) repository.TxRepos {
	return repository.TxRepos{
		Products:     &productRepo{v: v},
		RawMaterials: &rawMaterialRepo{v: v},
		Stocks:       &stockRepo{v: v},
		BoMs:         &bomRepo{v: v},
		Productions:  &productionRepo{v: v},
		Sales:        &saleRepo{v: v},
		Purchases:    &purchaseRepo{v: v},
		Usages:       &usageRepo{v: v},
		Deliveries:   &deliveryRepo{v: v},
		Invoices:     &invoiceRepo{v: v},
		Activity:     &activityRepo{v: v},
	}
}
