package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-produccion/internal/application/audit"
	"github.com/jhoicas/inventario-produccion/internal/application/auth"
	"github.com/jhoicas/inventario-produccion/internal/application/billing"
	"github.com/jhoicas/inventario-produccion/internal/application/ledger"
	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/application/production"
	"github.com/jhoicas/inventario-produccion/internal/application/purchasing"
	"github.com/jhoicas/inventario-produccion/internal/application/sales"
	"github.com/jhoicas/inventario-produccion/internal/application/usage"
	"github.com/jhoicas/inventario-produccion/internal/application/usecase"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-produccion/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-produccion/internal/interfaces/http"
	"github.com/jhoicas/inventario-produccion/pkg/config"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: PostgreSQL o store en memoria (desarrollo / demos).
	var (
		uow   ports.UnitOfWork
		repos repository.TxRepos
		users repository.UserRepository
	)
	switch cfg.App.Store {
	case config.StoreMemory:
		store := memory.NewStore()
		uow, repos, users = store, store.Repos(), store.Users()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		uow, repos, users = postgres.NewTxRunner(pool), postgres.Repos(pool), postgres.NewUserRepository(pool)
	}

	// Cache de existencias: opcional, nunca fuente de verdad.
	var onHand ports.OnHandCache = ports.NopOnHandCache{}
	if cfg.Redis.Addr != "" {
		client, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se sigue sin cache")
		} else {
			defer client.Close()
			onHand = cache.NewOnHandCache(client, cfg.Redis.TTL, log)
		}
	}

	rec := audit.NewRecorder()
	engine := ledger.NewEngine(uow, repos, rec, onHand)
	billingSvc := billing.NewService(uow, rec)

	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.Seed.AdminEmail != "" {
		created, err := authUC.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, cfg.Seed.AdminName)
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		if created {
			log.Info().Str("email", cfg.Seed.AdminEmail).Msg("administrador inicial creado")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    cfg.App.Name + " API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     usecase.NewProductUseCase(uow, repos.Products, engine, rec),
		RawMaterialUC: usecase.NewRawMaterialUseCase(uow, repos.RawMaterials, engine, rec),
		BoMUC:         usecase.NewBoMUseCase(uow, repos.BoMs, rec),
		Ledger:        engine,
		Productions:   production.NewService(uow, repos, engine, rec),
		Sales:         sales.NewService(uow, repos, engine, rec, billingSvc, log),
		Purchases:     purchasing.NewService(uow, repos, engine, rec),
		Usages:        usage.NewService(uow, repos, engine, rec),
		Deliveries:    billing.NewDeliveryService(uow, repos, rec),
		InvoicePDF:    billing.NewPDFUseCase(repos.Invoices, infrapdf.NewMarotoPDFGenerator(), cfg.App.Name),
		JWTSecret:     cfg.JWT.Secret,
		Log:           log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
