package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/application/purchasing"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

// PurchaseHandler compras de materia prima.
type PurchaseHandler struct {
	svc *purchasing.Service
	log *logger.Logger
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(svc *purchasing.Service, log *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{svc: svc, log: log}
}

// Create godoc
// @Summary      Registrar compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Compra"
// @Success      201   {object}  dto.SuccessResponse{data=dto.PurchaseResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if done, err := bindBody(c, &in); !done {
		return err
	}
	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}
	p, err := h.svc.Create(c.UserContext(), GetUserID(c), purchasing.CreateInput{
		RawMaterialID: in.RawMaterialID,
		SupplierID:    in.SupplierID,
		Qty:           in.Qty,
		Price:         in.Price,
		Date:          date,
		Status:        in.Status,
		InvoiceNumber: in.InvoiceNumber,
		Notes:         in.Notes,
		ReceivedDate:  in.ReceivedDate,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, "Compra registrada", purchaseToResponse(p))
}

// List godoc
// @Summary      Listar compras
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        search           query  string  false  "Número de factura o notas"
// @Param        raw_material_id  query  string  false  "ID de la materia prima"
// @Param        status           query  string  false  "pending, completed, canceled"
// @Param        from             query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to               query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit            query  int     false  "Límite"  default(20)
// @Param        offset           query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SuccessResponse{data=dto.PurchaseListResponse}
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	var q dto.PurchaseListQuery
	if done, err := bindQuery(c, &q); !done {
		return err
	}
	q.DefaultPage()
	f := repository.PurchaseFilter{
		Search:        q.Search,
		RawMaterialID: q.RawMaterialID,
		Status:        q.Status,
		Page:          repository.Page{Limit: q.Limit, Offset: q.Offset},
	}
	f.From, f.To = dateRange(q.From, q.To)
	list, total, err := h.svc.List(c.UserContext(), f)
	if err != nil {
		return fail(c, h.log, err)
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, purchaseToResponse(p))
	}
	return ok(c, fiber.StatusOK, "", dto.PurchaseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	})
}

// GetByID godoc
// @Summary      Obtener compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.SuccessResponse{data=dto.PurchaseResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", purchaseToResponse(p))
}

// Update godoc
// @Summary      Actualizar compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la compra"
// @Param        body  body  dto.UpdatePurchaseRequest  true  "Cambios"
// @Success      200   {object}  dto.SuccessResponse{data=dto.PurchaseResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [put]
func (h *PurchaseHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePurchaseRequest
	if done, err := bindBody(c, &in); !done {
		return err
	}
	p, err := h.svc.Update(c.UserContext(), GetUserID(c), c.Params("id"), purchasing.UpdateInput{
		Qty:           in.Qty,
		Price:         in.Price,
		Date:          in.Date,
		Status:        in.Status,
		InvoiceNumber: in.InvoiceNumber,
		Notes:         in.Notes,
		ReceivedDate:  in.ReceivedDate,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Compra actualizada", purchaseToResponse(p))
}

// Delete godoc
// @Summary      Eliminar compra
// @Description  Retira del stock la cantidad comprada; falla si ya fue consumida.
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Compra eliminada", nil)
}
