package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/application/usage"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

// UsageHandler usos directos de materia prima.
type UsageHandler struct {
	svc *usage.Service
	log *logger.Logger
}

// NewUsageHandler construye el handler.
func NewUsageHandler(svc *usage.Service, log *logger.Logger) *UsageHandler {
	return &UsageHandler{svc: svc, log: log}
}

// Create godoc
// @Summary      Registrar uso de materia prima
// @Tags         usages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUsageRequest  true  "Uso"
// @Success      201   {object}  dto.SuccessResponse{data=dto.UsageResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/usages [post]
func (h *UsageHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUsageRequest
	if done, err := bindBody(c, &in); !done {
		return err
	}
	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}
	u, err := h.svc.Create(c.UserContext(), GetUserID(c), usage.CreateInput{
		RawMaterialID: in.RawMaterialID,
		Qty:           in.Qty,
		Date:          date,
		Description:   in.Description,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, "Uso registrado", usageToResponse(u))
}

// List godoc
// @Summary      Listar usos de materia prima
// @Tags         usages
// @Security     Bearer
// @Produce      json
// @Param        search           query  string  false  "Descripción"
// @Param        raw_material_id  query  string  false  "ID de la materia prima"
// @Param        from             query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to               query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit            query  int     false  "Límite"  default(20)
// @Param        offset           query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SuccessResponse{data=dto.UsageListResponse}
// @Router       /api/usages [get]
func (h *UsageHandler) List(c *fiber.Ctx) error {
	var q dto.UsageListQuery
	if done, err := bindQuery(c, &q); !done {
		return err
	}
	q.DefaultPage()
	f := repository.UsageFilter{
		Search:        q.Search,
		RawMaterialID: q.RawMaterialID,
		Page:          repository.Page{Limit: q.Limit, Offset: q.Offset},
	}
	f.From, f.To = dateRange(q.From, q.To)
	list, total, err := h.svc.List(c.UserContext(), f)
	if err != nil {
		return fail(c, h.log, err)
	}
	items := make([]dto.UsageResponse, 0, len(list))
	for _, u := range list {
		items = append(items, usageToResponse(u))
	}
	return ok(c, fiber.StatusOK, "", dto.UsageListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	})
}

// GetByID godoc
// @Summary      Obtener uso
// @Tags         usages
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del uso"
// @Success      200  {object}  dto.SuccessResponse{data=dto.UsageResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/usages/{id} [get]
func (h *UsageHandler) GetByID(c *fiber.Ctx) error {
	u, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", usageToResponse(u))
}

// Update godoc
// @Summary      Actualizar uso
// @Tags         usages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del uso"
// @Param        body  body  dto.UpdateUsageRequest  true  "Cambios"
// @Success      200   {object}  dto.SuccessResponse{data=dto.UsageResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/usages/{id} [put]
func (h *UsageHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUsageRequest
	if done, err := bindBody(c, &in); !done {
		return err
	}
	u, err := h.svc.Update(c.UserContext(), GetUserID(c), c.Params("id"), usage.UpdateInput{
		Qty:         in.Qty,
		Date:        in.Date,
		Description: in.Description,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Uso actualizado", usageToResponse(u))
}

// Delete godoc
// @Summary      Eliminar uso
// @Tags         usages
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del uso"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/usages/{id} [delete]
func (h *UsageHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Uso eliminado", nil)
}
