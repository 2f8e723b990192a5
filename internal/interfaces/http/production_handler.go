package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/application/production"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

// ProductionHandler órdenes de producción y su procesamiento.
type ProductionHandler struct {
	svc *production.Service
	log *logger.Logger
}

// NewProductionHandler construye el handler.
func NewProductionHandler(svc *production.Service, log *logger.Logger) *ProductionHandler {
	return &ProductionHandler{svc: svc, log: log}
}

// Create godoc
// @Summary      Planificar producción
// @Tags         productions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductionRequest  true  "Orden"
// @Success      201   {object}  dto.SuccessResponse{data=dto.ProductionResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/productions [post]
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductionRequest
	if done, err := bindBody(c, &in); !done {
		return err
	}
	date := time.Now()
	if in.ProductionDate != nil {
		date = *in.ProductionDate
	}
	p, err := h.svc.Create(c.UserContext(), GetUserID(c), production.CreateInput{
		ProductID:      in.ProductID,
		Qty:            in.Qty,
		ProductionDate: date,
		Notes:          in.Notes,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, "Producción creada", productionToResponse(p))
}

// GetByID godoc
// @Summary      Obtener producción
// @Tags         productions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la producción"
// @Success      200  {object}  dto.SuccessResponse{data=dto.ProductionResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productions/{id} [get]
func (h *ProductionHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", productionToResponse(p))
}

// List godoc
// @Summary      Listar producciones
// @Tags         productions
// @Security     Bearer
// @Produce      json
// @Param        status      query  string  false  "planned, in_progress, done, canceled"
// @Param        product_id  query  string  false  "ID del producto"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SuccessResponse{data=dto.ProductionListResponse}
// @Router       /api/productions [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	var q dto.ProductionListQuery
	if done, err := bindQuery(c, &q); !done {
		return err
	}
	q.DefaultPage()
	list, total, err := h.svc.List(c.UserContext(), repository.ProductionFilter{
		Status:    q.Status,
		ProductID: q.ProductID,
		Page:      repository.Page{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	items := make([]dto.ProductionResponse, 0, len(list))
	for _, p := range list {
		items = append(items, productionToResponse(p))
	}
	return ok(c, fiber.StatusOK, "", dto.ProductionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	})
}

// Update godoc
// @Summary      Actualizar producción
// @Description  done solo se alcanza procesando; órdenes terminadas no se modifican.
// @Tags         productions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la producción"
// @Param        body  body  dto.UpdateProductionRequest  true  "Cambios"
// @Success      200   {object}  dto.SuccessResponse{data=dto.ProductionResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/productions/{id} [put]
func (h *ProductionHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductionRequest
	if done, err := bindBody(c, &in); !done {
		return err
	}
	p, err := h.svc.Update(c.UserContext(), GetUserID(c), c.Params("id"), production.UpdateInput{
		Qty:            in.Qty,
		ProductionDate: in.ProductionDate,
		Notes:          in.Notes,
		Status:         in.Status,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Producción actualizada", productionToResponse(p))
}

// Delete godoc
// @Summary      Eliminar producción
// @Tags         productions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la producción"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/productions/{id} [delete]
func (h *ProductionHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Producción eliminada", nil)
}

// Process godoc
// @Summary      Procesar producción
// @Description  Consume la receta, ingresa el producto y fija el HPP. Todo o nada.
// @Tags         productions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la producción"
// @Success      200  {object}  dto.SuccessResponse{data=dto.ProcessProductionResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/productions/{id}/process [post]
func (h *ProductionHandler) Process(c *fiber.Ctx) error {
	res, err := h.svc.Process(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Producción procesada", dto.ProcessProductionResponse{
		Production: productionToResponse(res.Production),
		Items:      hppLinesToResponse(res.HPP.Lines),
		TotalCost:  res.HPP.TotalCost,
		UnitCost:   res.HPP.UnitCost,
	})
}

// HppBreakdown godoc
// @Summary      Desglose de HPP
// @Tags         productions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la producción"
// @Success      200  {object}  dto.SuccessResponse{data=dto.HppBreakdownResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/productions/{id}/hpp-breakdown [get]
func (h *ProductionHandler) HppBreakdown(c *fiber.Ctx) error {
	b, err := h.svc.HppBreakdown(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", dto.HppBreakdownResponse{
		ProductionID: b.ProductionID,
		ProductID:    b.ProductID,
		ProductName:  b.ProductName,
		Qty:          b.Qty,
		Status:       b.Status,
		Items:        hppLinesToResponse(b.Lines),
		TotalCost:    b.TotalCost,
		UnitCost:     b.UnitCost,
	})
}
