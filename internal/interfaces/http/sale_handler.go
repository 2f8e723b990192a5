package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/application/sales"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

// SaleHandler ventas con descuento de stock, despacho y factura automáticos.
type SaleHandler struct {
	svc *sales.Service
	log *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(svc *sales.Service, log *logger.Logger) *SaleHandler {
	return &SaleHandler{svc: svc, log: log}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta el stock del producto. La factura se genera después del commit; si falla, invoice_error lo indica y la venta queda registrada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SaleCreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if done, err := bindBody(c, &in); !done {
		return err
	}
	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}
	res, err := h.svc.Create(c.UserContext(), GetUserID(c), sales.CreateInput{
		ProductID:  in.ProductID,
		CustomerID: in.CustomerID,
		Qty:        in.Qty,
		Amounts: sales.Amounts{
			Price:        in.Price,
			Discount:     in.Discount,
			ShippingCost: in.ShippingCost,
			AdminFee:     in.AdminFee,
			Tax:          in.Tax,
		},
		PaymentStatus: in.PaymentStatus,
		PaymentDate:   in.PaymentDate,
		PaymentMethod: in.PaymentMethod,
		Date:          date,
		Delivery: sales.DeliveryInput{
			ShippingAddress: in.ShippingAddress,
			ShippingMethod:  in.ShippingMethod,
		},
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaleCreatedResponse{
		Status:       dto.StatusSuccess,
		Message:      "Venta registrada",
		Data:         saleToResponse(res.Sale),
		Delivery:     deliveryToResponse(res.Delivery),
		Invoice:      invoiceToResponse(res.Invoice, nil),
		InvoiceError: res.InvoiceError,
	})
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SuccessResponse{data=dto.SaleResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", saleToResponse(s))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        search          query  string  false  "Nombre del producto"
// @Param        product_id      query  string  false  "ID del producto"
// @Param        payment_status  query  string  false  "unpaid, partial, paid"
// @Param        from            query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to              query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit           query  int     false  "Límite"  default(20)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SuccessResponse{data=dto.SaleListResponse}
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var q dto.SaleListQuery
	if done, err := bindQuery(c, &q); !done {
		return err
	}
	q.DefaultPage()
	f := repository.SaleFilter{
		Search:        q.Search,
		ProductID:     q.ProductID,
		PaymentStatus: q.PaymentStatus,
		Page:          repository.Page{Limit: q.Limit, Offset: q.Offset},
	}
	f.From, f.To = dateRange(q.From, q.To)
	list, total, err := h.svc.List(c.UserContext(), f)
	if err != nil {
		return fail(c, h.log, err)
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, saleToResponse(s))
	}
	return ok(c, fiber.StatusOK, "", dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	})
}

// Update godoc
// @Summary      Actualizar venta
// @Description  Un cambio de producto devuelve la cantidad al producto anterior; un cambio de cantidad mueve solo la diferencia.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.UpdateSaleRequest  true  "Cambios"
// @Success      200   {object}  dto.SuccessResponse{data=dto.SaleResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSaleRequest
	if done, err := bindBody(c, &in); !done {
		return err
	}
	s, err := h.svc.Update(c.UserContext(), GetUserID(c), c.Params("id"), sales.UpdateInput{
		ProductID:     in.ProductID,
		CustomerID:    in.CustomerID,
		Qty:           in.Qty,
		Price:         in.Price,
		Discount:      in.Discount,
		ShippingCost:  in.ShippingCost,
		AdminFee:      in.AdminFee,
		Tax:           in.Tax,
		PaymentStatus: in.PaymentStatus,
		PaymentDate:   in.PaymentDate,
		PaymentMethod: in.PaymentMethod,
		Date:          in.Date,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Venta actualizada", saleToResponse(s))
}

// Delete godoc
// @Summary      Eliminar venta
// @Description  Devuelve la cantidad vendida al stock del producto.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Venta eliminada", nil)
}
