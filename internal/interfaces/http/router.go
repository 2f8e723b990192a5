package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-produccion/internal/application/auth"
	"github.com/jhoicas/inventario-produccion/internal/application/billing"
	"github.com/jhoicas/inventario-produccion/internal/application/ledger"
	"github.com/jhoicas/inventario-produccion/internal/application/production"
	"github.com/jhoicas/inventario-produccion/internal/application/purchasing"
	"github.com/jhoicas/inventario-produccion/internal/application/sales"
	"github.com/jhoicas/inventario-produccion/internal/application/usage"
	"github.com/jhoicas/inventario-produccion/internal/application/usecase"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ProductUC     *usecase.ProductUseCase
	RawMaterialUC *usecase.RawMaterialUseCase
	BoMUC         *usecase.BoMUseCase
	Ledger        *ledger.Engine
	Productions   *production.Service
	Sales         *sales.Service
	Purchases     *purchasing.Service
	Usages        *usage.Service
	Deliveries    *billing.DeliveryService
	InvoicePDF    *billing.PDFUseCase
	JWTSecret     string
	Log           *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	const (
		admin     = entity.RoleAdmin
		bodeguero = entity.RoleBodeguero
		vendedor  = entity.RoleVendedor
	)

	// Auth: login público, alta de usuarios solo admin.
	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/register", AuthMiddleware(deps.JWTSecret), RequireRole(admin), authHandler.Register)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	warehouse := RequireRole(admin, bodeguero)

	// Kardex
	stocks := protected.Group("/stocks", warehouse)
	stockHandler := NewStockHandler(deps.Ledger, log)
	stocks.Post("/", stockHandler.Create)
	stocks.Get("/", stockHandler.List)
	stocks.Get("/report", stockHandler.Report)
	stocks.Get("/:id", stockHandler.GetByID)
	stocks.Put("/:id", stockHandler.Update)
	stocks.Delete("/:id", stockHandler.Delete)

	// Products: lectura también para vendedor
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, log)
	readProducts := RequireRole(admin, bodeguero, vendedor)
	products.Get("/", readProducts, productHandler.List)
	products.Get("/:id", readProducts, productHandler.GetByID)
	products.Get("/:id/on-hand", readProducts, productHandler.OnHand)
	products.Post("/", warehouse, productHandler.Create)
	products.Put("/:id", warehouse, productHandler.Update)
	products.Delete("/:id", warehouse, productHandler.Delete)

	rawMaterials := protected.Group("/raw-materials", warehouse)
	rmHandler := NewRawMaterialHandler(deps.RawMaterialUC, log)
	rawMaterials.Post("/", rmHandler.Create)
	rawMaterials.Get("/", rmHandler.List)
	rawMaterials.Get("/:id", rmHandler.GetByID)
	rawMaterials.Get("/:id/on-hand", rmHandler.OnHand)
	rawMaterials.Put("/:id", rmHandler.Update)
	rawMaterials.Delete("/:id", rmHandler.Delete)

	boms := protected.Group("/boms", warehouse)
	bomHandler := NewBoMHandler(deps.BoMUC, log)
	boms.Post("/", bomHandler.Create)
	boms.Get("/", bomHandler.ListByProduct)
	boms.Put("/:id", bomHandler.Update)
	boms.Delete("/:id", bomHandler.Delete)

	productions := protected.Group("/productions", warehouse)
	productionHandler := NewProductionHandler(deps.Productions, log)
	productions.Post("/", productionHandler.Create)
	productions.Get("/", productionHandler.List)
	productions.Get("/:id", productionHandler.GetByID)
	productions.Put("/:id", productionHandler.Update)
	productions.Delete("/:id", productionHandler.Delete)
	productions.Post("/:id/process", productionHandler.Process)
	productions.Get("/:id/hpp-breakdown", productionHandler.HppBreakdown)

	purchases := protected.Group("/purchases", warehouse)
	purchaseHandler := NewPurchaseHandler(deps.Purchases, log)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Put("/:id", purchaseHandler.Update)
	purchases.Delete("/:id", purchaseHandler.Delete)

	usages := protected.Group("/usages", warehouse)
	usageHandler := NewUsageHandler(deps.Usages, log)
	usages.Post("/", usageHandler.Create)
	usages.Get("/", usageHandler.List)
	usages.Get("/:id", usageHandler.GetByID)
	usages.Put("/:id", usageHandler.Update)
	usages.Delete("/:id", usageHandler.Delete)

	// Ventas y facturas
	seller := RequireRole(admin, vendedor)
	salesGroup := protected.Group("/sales", seller)
	saleHandler := NewSaleHandler(deps.Sales, log)
	deliveryHandler := NewDeliveryHandler(deps.Deliveries, log)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/delivery", deliveryHandler.GetBySale)
	salesGroup.Put("/:id", saleHandler.Update)
	salesGroup.Delete("/:id", saleHandler.Delete)

	deliveries := protected.Group("/deliveries", seller)
	deliveries.Get("/:id", deliveryHandler.GetByID)
	deliveries.Put("/:id", deliveryHandler.Update)

	invoices := protected.Group("/invoices", seller)
	invoiceHandler := NewInvoiceHandler(deps.InvoicePDF, log)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
}
