package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/application/usecase"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

// BoMHandler recetas (lista de materiales) por producto.
type BoMHandler struct {
	uc  *usecase.BoMUseCase
	log *logger.Logger
}

// NewBoMHandler construye el handler.
func NewBoMHandler(uc *usecase.BoMUseCase, log *logger.Logger) *BoMHandler {
	return &BoMHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Agregar línea de receta
// @Tags         boms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBoMRequest  true  "Línea"
// @Success      201   {object}  dto.SuccessResponse{data=dto.BoMResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/boms [post]
func (h *BoMHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBoMRequest
	if done, err := bindBody(c, &in); !done {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, "BoM creado", out)
}

// ListByProduct godoc
// @Summary      Receta de un producto
// @Tags         boms
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "ID del producto"
// @Success      200  {object}  dto.SuccessResponse{data=[]dto.BoMResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/boms [get]
func (h *BoMHandler) ListByProduct(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return badRequest(c, "VALIDATION_ERROR", "product_id es requerido")
	}
	out, err := h.uc.ListByProduct(c.UserContext(), productID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", out)
}

// Update godoc
// @Summary      Actualizar línea de receta
// @Tags         boms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la línea"
// @Param        body  body  dto.UpdateBoMRequest  true  "Cambios"
// @Success      200   {object}  dto.SuccessResponse{data=dto.BoMResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/boms/{id} [put]
func (h *BoMHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBoMRequest
	if done, err := bindBody(c, &in); !done {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "BoM actualizado", out)
}

// Delete godoc
// @Summary      Eliminar línea de receta
// @Tags         boms
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la línea"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boms/{id} [delete]
func (h *BoMHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "BoM eliminado", nil)
}
