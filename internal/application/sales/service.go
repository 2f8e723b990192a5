// Package sales coordina ventas: cada alta, cambio o baja mueve el stock del producto a través
// del kardex en la misma transacción que la fila de la venta.
package sales

import (
	"context"
	"fmt"
	"slices"
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
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

// InvoiceErrorMessage texto devuelto cuando la factura automática falla.
const InvoiceErrorMessage = "No se pudo generar la factura automáticamente. Créela manualmente."

// Service casos de uso de ventas.
type Service struct {
	uow    ports.UnitOfWork
	repos  repository.TxRepos
	engine *ledger.Engine
	audit  *audit.Recorder
	after  AfterSale
	log    *logger.Logger
	now    func() time.Time
}

// NewService construye el servicio. after puede ser nil (sin despacho ni factura automática).
func NewService(uow ports.UnitOfWork, repos repository.TxRepos, engine *ledger.Engine, rec *audit.Recorder, after AfterSale, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{uow: uow, repos: repos, engine: engine, audit: rec, after: after, log: log, now: time.Now}
}

// Amounts montos de una venta. Price nil toma el precio del producto.
type Amounts struct {
	Price        *decimal.Decimal
	Discount     decimal.Decimal
	ShippingCost decimal.Decimal
	AdminFee     decimal.Decimal
	Tax          decimal.Decimal
}

func (a Amounts) validate() error {
	if a.Price != nil && a.Price.IsNegative() {
		return fmt.Errorf("precio negativo: %w", domain.ErrInvalidInput)
	}
	for _, d := range []decimal.Decimal{a.Discount, a.ShippingCost, a.AdminFee, a.Tax} {
		if d.IsNegative() {
			return fmt.Errorf("montos no pueden ser negativos: %w", domain.ErrInvalidInput)
		}
	}
	return nil
}

// CreateInput datos de una venta nueva.
type CreateInput struct {
	ProductID     string
	CustomerID    string
	Qty           int64
	Amounts       Amounts
	PaymentStatus string
	PaymentDate   *time.Time
	PaymentMethod string
	Date          time.Time
	Delivery      DeliveryInput
}

// CreateResult venta creada más el resultado de los pasos posteriores.
type CreateResult struct {
	Sale         *entity.Sale
	Delivery     *entity.Delivery
	Invoice      *entity.Invoice
	InvoiceError string
}

func validPaymentStatus(s string) bool {
	return s == entity.PaymentUnpaid || s == entity.PaymentPartial || s == entity.PaymentPaid
}

// Create registra la venta y descuenta el stock del producto en una transacción.
// Después del commit intenta crear el despacho y la factura; sus errores solo se registran.
func (s *Service) Create(ctx context.Context, actor string, in CreateInput) (*CreateResult, error) {
	if in.ProductID == "" || in.Qty <= 0 {
		return nil, fmt.Errorf("producto y cantidad mayor a 0 requeridos: %w", domain.ErrInvalidInput)
	}
	if err := in.Amounts.validate(); err != nil {
		return nil, err
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = entity.PaymentUnpaid
	}
	if !validPaymentStatus(in.PaymentStatus) {
		return nil, fmt.Errorf("estado de pago %q: %w", in.PaymentStatus, domain.ErrInvalidInput)
	}
	now := s.now()
	if in.Date.IsZero() {
		in.Date = now
	}
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		CustomerID:    in.CustomerID,
		UserID:        actor,
		Qty:           in.Qty,
		Discount:      in.Amounts.Discount,
		ShippingCost:  in.Amounts.ShippingCost,
		AdminFee:      in.Amounts.AdminFee,
		Tax:           in.Amounts.Tax,
		PaymentStatus: in.PaymentStatus,
		PaymentDate:   in.PaymentDate,
		PaymentMethod: in.PaymentMethod,
		Date:          in.Date,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := s.uow.Run(ctx, func(r repository.TxRepos) error {
		product, err := r.Products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %s: %w", in.ProductID, domain.ErrNotFound)
		}
		sale.Price = product.Price
		if in.Amounts.Price != nil {
			sale.Price = *in.Amounts.Price
		}
		sale.Total = sale.ComputeTotal()
		sale.ProductName = product.Name
		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}
		if _, err := s.engine.PostInTx(ctx, r, s.movement(entity.StockTypeOut, product, sale, sale.Qty, actor)); err != nil {
			return err
		}
		return s.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableSale,
			Action:      "Create Sale",
			Description: fmt.Sprintf("Venta creada: %d unidades de %q", sale.Qty, product.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	s.engine.RefreshOnHand(ctx, entity.ProductOwner(sale.ProductID))

	res := &CreateResult{Sale: sale}
	if s.after == nil {
		return res, nil
	}
	delivery, err := s.after.CreatePendingDelivery(ctx, actor, sale, in.Delivery)
	if err != nil {
		s.log.Warn().Err(err).Str("sale_id", sale.ID).Msg("no se pudo crear el despacho automático")
	} else {
		res.Delivery = delivery
	}
	invoice, err := s.after.InvoiceFromSale(ctx, actor, sale.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("sale_id", sale.ID).Msg("no se pudo generar la factura automática")
		res.InvoiceError = InvoiceErrorMessage
	} else {
		res.Invoice = invoice
	}
	return res, nil
}

func (s *Service) movement(typ string, product *entity.Product, sale *entity.Sale, qty int64, actor string) ledger.Movement {
	owner := entity.ProductOwner(product.ID)
	return ledger.Movement{
		Owner:  owner,
		Type:   typ,
		Qty:    qty,
		Source: entity.StockSourceSale,
		Description: rules.Describe(rules.DescribeInput{
			Source: entity.StockSourceSale, Type: typ, Qty: qty, Owner: owner, OwnerName: product.Name,
		}),
		ReferenceID: sale.ID,
		Actor:       actor,
	}
}

// UpdateInput cambios de una venta; nil conserva el valor.
type UpdateInput struct {
	ProductID     *string
	CustomerID    *string
	Qty           *int64
	Price         *decimal.Decimal
	Discount      *decimal.Decimal
	ShippingCost  *decimal.Decimal
	AdminFee      *decimal.Decimal
	Tax           *decimal.Decimal
	PaymentStatus *string
	PaymentDate   *time.Time
	PaymentMethod *string
	Date          *time.Time
}

// Update modifica la venta. Si cambia el producto devuelve la cantidad original al producto
// anterior y descuenta la nueva del nuevo; si solo cambia la cantidad mueve la diferencia.
func (s *Service) Update(ctx context.Context, actor, id string, in UpdateInput) (*entity.Sale, error) {
	if in.Qty != nil && *in.Qty <= 0 {
		return nil, fmt.Errorf("cantidad debe ser mayor a 0: %w", domain.ErrInvalidInput)
	}
	if in.PaymentStatus != nil && !validPaymentStatus(*in.PaymentStatus) {
		return nil, fmt.Errorf("estado de pago %q: %w", *in.PaymentStatus, domain.ErrInvalidInput)
	}
	for _, d := range []*decimal.Decimal{in.Price, in.Discount, in.ShippingCost, in.AdminFee, in.Tax} {
		if d != nil && d.IsNegative() {
			return nil, fmt.Errorf("montos no pueden ser negativos: %w", domain.ErrInvalidInput)
		}
	}
	var (
		out     *entity.Sale
		touched []entity.StockOwner
	)
	err := s.uow.Run(ctx, func(r repository.TxRepos) error {
		sale, err := r.Sales.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("venta %s: %w", id, domain.ErrNotFound)
		}
		ids := []string{sale.ProductID}
		if in.ProductID != nil && *in.ProductID != sale.ProductID {
			ids = append(ids, *in.ProductID)
		}
		locked, err := lockProducts(ctx, r, ids)
		if err != nil {
			return err
		}
		oldProduct := locked[sale.ProductID]
		newQty := sale.Qty
		if in.Qty != nil {
			newQty = *in.Qty
		}

		switch {
		case len(ids) == 2:
			newProduct := locked[*in.ProductID]
			if _, err := s.engine.PostInTx(ctx, r, s.movement(entity.StockTypeIn, oldProduct, sale, sale.Qty, actor)); err != nil {
				return err
			}
			if _, err := s.engine.PostInTx(ctx, r, s.movement(entity.StockTypeOut, newProduct, sale, newQty, actor)); err != nil {
				return err
			}
			touched = append(touched, entity.ProductOwner(oldProduct.ID), entity.ProductOwner(newProduct.ID))
			sale.ProductID = newProduct.ID
			sale.ProductName = newProduct.Name
			if in.Price == nil {
				sale.Price = newProduct.Price
			}
		case newQty != sale.Qty:
			typ, qty, _ := rules.CorrectionFor(sale.Qty - newQty)
			if _, err := s.engine.PostInTx(ctx, r, s.movement(typ, oldProduct, sale, qty, actor)); err != nil {
				return err
			}
			touched = append(touched, entity.ProductOwner(oldProduct.ID))
			sale.ProductName = oldProduct.Name
		default:
			sale.ProductName = oldProduct.Name
		}

		sale.Qty = newQty
		if in.CustomerID != nil {
			sale.CustomerID = *in.CustomerID
		}
		if in.Price != nil {
			sale.Price = *in.Price
		}
		if in.Discount != nil {
			sale.Discount = *in.Discount
		}
		if in.ShippingCost != nil {
			sale.ShippingCost = *in.ShippingCost
		}
		if in.AdminFee != nil {
			sale.AdminFee = *in.AdminFee
		}
		if in.Tax != nil {
			sale.Tax = *in.Tax
		}
		if in.PaymentStatus != nil {
			sale.PaymentStatus = *in.PaymentStatus
		}
		if in.PaymentDate != nil {
			sale.PaymentDate = in.PaymentDate
		}
		if in.PaymentMethod != nil {
			sale.PaymentMethod = *in.PaymentMethod
		}
		if in.Date != nil {
			sale.Date = *in.Date
		}
		sale.Total = sale.ComputeTotal()
		sale.UpdatedAt = s.now()
		if err := r.Sales.Update(ctx, sale); err != nil {
			return err
		}
		out = sale
		return s.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableSale,
			Action:      "Update Sale",
			Description: fmt.Sprintf("Venta actualizada: %s, %d unidades", sale.ID, sale.Qty),
		})
	})
	if err != nil {
		return nil, err
	}
	s.engine.RefreshOnHand(ctx, touched...)
	return out, nil
}

// lockProducts bloquea los productos en orden ascendente de id, igual que el proceso de
// producción con las materias primas, para que dos ediciones cruzadas no se bloqueen entre sí.
func lockProducts(ctx context.Context, r repository.TxRepos, ids []string) (map[string]*entity.Product, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	out := make(map[string]*entity.Product, len(sorted))
	for _, id := range sorted {
		p, err := r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
		out[id] = p
	}
	return out, nil
}

// Delete devuelve la cantidad vendida al producto y borra la venta.
func (s *Service) Delete(ctx context.Context, actor, id string) error {
	var owner entity.StockOwner
	err := s.uow.Run(ctx, func(r repository.TxRepos) error {
		sale, err := r.Sales.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("venta %s: %w", id, domain.ErrNotFound)
		}
		product, err := r.Products.GetForUpdate(ctx, sale.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %s: %w", sale.ProductID, domain.ErrNotFound)
		}
		if _, err := s.engine.PostInTx(ctx, r, s.movement(entity.StockTypeIn, product, sale, sale.Qty, actor)); err != nil {
			return err
		}
		owner = entity.ProductOwner(product.ID)
		if err := r.Sales.Delete(ctx, id); err != nil {
			return err
		}
		return s.audit.Record(ctx, r.Activity, audit.Entry{
			UserID:      actor,
			Table:       audit.TableSale,
			Action:      "Delete Sale",
			Description: fmt.Sprintf("Venta eliminada: %d unidades de %q devueltas al stock", sale.Qty, product.Name),
		})
	})
	if err != nil {
		return err
	}
	s.engine.RefreshOnHand(ctx, owner)
	return nil
}

// Get obtiene una venta por ID.
func (s *Service) Get(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := s.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// List lista ventas con filtros y paginación.
func (s *Service) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	return s.repos.Sales.List(ctx, f)
}
