package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/application/ledger"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

// StockHandler expone el kardex: movimientos manuales, correcciones, listado y reporte.
type StockHandler struct {
	engine *ledger.Engine
	log    *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(engine *ledger.Engine, log *logger.Logger) *StockHandler {
	return &StockHandler{engine: engine, log: log}
}

// Create godoc
// @Summary      Registrar movimiento de stock
// @Description  Exactamente uno de product_id o raw_material_id.
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockRequest  true  "Movimiento"
// @Success      201   {object}  dto.SuccessResponse{data=dto.StockResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stocks [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockRequest
	if done, err := bindBody(c, &in); !done {
		return err
	}
	var owner entity.StockOwner
	switch {
	case in.ProductID != "" && in.RawMaterialID == "":
		owner = entity.ProductOwner(in.ProductID)
	case in.RawMaterialID != "" && in.ProductID == "":
		owner = entity.RawMaterialOwner(in.RawMaterialID)
	default:
		return badRequest(c, "VALIDATION_ERROR", "indique exactamente uno de product_id o raw_material_id")
	}
	row, err := h.engine.RecordMovement(c.UserContext(), GetUserID(c), ledger.RecordInput{
		Owner:       owner,
		Type:        in.Type,
		Qty:         in.Stock,
		Description: in.Description,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, "Stock registrado", stockToResponse(row))
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.SuccessResponse{data=dto.StockResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocks/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	row, err := h.engine.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", stockToResponse(row))
}

// Update godoc
// @Summary      Corregir movimiento
// @Description  Cambia tipo y/o cantidad revirtiendo el efecto original. Solo movimientos manuales o de corrección.
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.UpdateStockRequest  true  "Cambios"
// @Success      200   {object}  dto.SuccessResponse{data=dto.StockResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stocks/{id} [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if done, err := bindBody(c, &in); !done {
		return err
	}
	rt := ledger.RetypeInput{Description: in.Description}
	if in.Type != nil {
		rt.Type = *in.Type
	}
	if in.Stock != nil {
		rt.Qty = *in.Stock
	}
	row, err := h.engine.Retype(c.UserContext(), GetUserID(c), c.Params("id"), rt)
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Stock actualizado", stockToResponse(row))
}

// Delete godoc
// @Summary      Eliminar movimiento
// @Description  Revierte su efecto sobre el stock del dueño.
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/stocks/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	if err := h.engine.ReverseOnDelete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Stock eliminado", nil)
}

// List godoc
// @Summary      Listar kardex
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "in, out, expired, reject"
// @Param        owner_kind  query  string  false  "product, raw_material"
// @Param        owner_id    query  string  false  "ID del dueño"
// @Param        search      query  string  false  "Texto en descripción o nombre"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SuccessResponse{data=dto.StockListResponse}
// @Router       /api/stocks [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	f, done, err := h.filter(c)
	if !done {
		return err
	}
	rows, total, err := h.engine.List(c.UserContext(), f)
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", dto.StockListResponse{
		Items: stocksToResponse(rows),
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total},
	})
}

// Report godoc
// @Summary      Reporte de stock
// @Description  Listado filtrado más totales por tipo (los totales ignoran la paginación).
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "in, out, expired, reject"
// @Param        owner_kind  query  string  false  "product, raw_material"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.SuccessResponse{data=dto.StockReportResponse}
// @Router       /api/stocks/report [get]
func (h *StockHandler) Report(c *fiber.Ctx) error {
	f, done, err := h.filter(c)
	if !done {
		return err
	}
	rep, err := h.engine.Report(c.UserContext(), f)
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", dto.StockReportResponse{
		Items: stocksToResponse(rep.Rows),
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: rep.Total},
		Totals: dto.StockTotalsResponse{
			StockIn:  rep.Totals.StockIn,
			StockOut: rep.Totals.StockOut,
			Expired:  rep.Totals.Expired,
			Rejected: rep.Totals.Rejected,
		},
	})
}

func (h *StockHandler) filter(c *fiber.Ctx) (repository.StockFilter, bool, error) {
	var q dto.StockListQuery
	if done, err := bindQuery(c, &q); !done {
		return repository.StockFilter{}, false, err
	}
	q.DefaultPage()
	f := repository.StockFilter{
		Type:      q.Type,
		OwnerKind: q.OwnerKind,
		OwnerID:   q.OwnerID,
		Search:    q.Search,
		Page:      repository.Page{Limit: q.Limit, Offset: q.Offset},
	}
	f.From, f.To = dateRange(q.From, q.To)
	return f, true, nil
}

// dateRange convierte from/to (YYYY-MM-DD) en un rango que incluye el día to completo.
// El validador ya garantizó el formato.
func dateRange(from, to string) (*time.Time, *time.Time) {
	var f, t *time.Time
	if from != "" {
		d, _ := time.Parse(time.DateOnly, from)
		f = &d
	}
	if to != "" {
		d, _ := time.Parse(time.DateOnly, to)
		end := d.Add(24*time.Hour - time.Nanosecond)
		t = &end
	}
	return f, t
}
