package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-produccion/internal/application/billing"
	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

// DeliveryHandler consulta y seguimiento de despachos.
type DeliveryHandler struct {
	svc *billing.DeliveryService
	log *logger.Logger
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(svc *billing.DeliveryService, log *logger.Logger) *DeliveryHandler {
	return &DeliveryHandler{svc: svc, log: log}
}

// GetByID godoc
// @Summary      Obtener despacho
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del despacho"
// @Success      200  {object}  dto.SuccessResponse{data=dto.DeliveryResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [get]
func (h *DeliveryHandler) GetByID(c *fiber.Ctx) error {
	d, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", deliveryToResponse(d))
}

// GetBySale godoc
// @Summary      Despacho de una venta
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SuccessResponse{data=dto.DeliveryResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/delivery [get]
func (h *DeliveryHandler) GetBySale(c *fiber.Ctx) error {
	d, err := h.svc.GetBySale(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", deliveryToResponse(d))
}

// Update godoc
// @Summary      Actualizar despacho
// @Description  pending -> processing -> shipped -> delivered; se cancela antes de enviarse. Entregado o cancelado no se modifica.
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del despacho"
// @Param        body  body  dto.UpdateDeliveryRequest  true  "Cambios"
// @Success      200   {object}  dto.SuccessResponse{data=dto.DeliveryResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [put]
func (h *DeliveryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDeliveryRequest
	if done, err := bindBody(c, &in); !done {
		return err
	}
	d, err := h.svc.Update(c.UserContext(), GetUserID(c), c.Params("id"), billing.UpdateDeliveryInput{
		Status:          in.Status,
		ShippingAddress: in.ShippingAddress,
		ShippingMethod:  in.ShippingMethod,
		Courier:         in.Courier,
		TrackingNumber:  in.TrackingNumber,
		ScheduledDate:   in.ScheduledDate,
		DeliveryDate:    in.DeliveryDate,
		Notes:           in.Notes,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Despacho actualizado", deliveryToResponse(d))
}
