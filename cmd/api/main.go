package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/domain/schema"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/cache"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner    inventory.TxRunner
		prober      schema.Prober
		productRepo repository.ProductRepository
	)
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		shape, err := sqlite.ParseShape(cfg.Store.Shape)
		if err != nil {
			log.Fatal().Err(err).Msg("forma de lotes SQLite")
		}
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir SQLite")
		}
		defer db.Close()
		if err := sqlite.Migrate(ctx, db, shape); err != nil {
			log.Fatal().Err(err).Msg("migrar SQLite")
		}
		txRunner = sqlite.NewTxRunner(db)
		prober = sqlite.NewSchemaProber(db)
		productRepo = sqlite.NewProductRepository(db)
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
		prober = postgres.NewSchemaProber(pool)
		productRepo = postgres.NewProductRepository(pool)
	}

	// Las capacidades se resuelven una vez al arrancar; un esquema sin columnas de cantidad es fatal.
	desc := schema.NewDescriptor(prober)
	caps, err := desc.Describe(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("esquema de lotes")
	}
	log.Info().
		Str("form", caps.Form().String()).
		Bool("unit_factor", caps.HasUnitFactorCounter).
		Bool("deactivation_reason", caps.HasDeactivationReason).
		Msg("esquema de lotes detectado")

	ledger := inventory.NewLedger(txRunner, desc, log)

	if cfg.Redis.Enabled() {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			// sin caché el libro sigue funcionando contra la base
			log.Warn().Err(err).Msg("Redis no disponible, caché de stock deshabilitada")
		} else {
			defer client.Close()
			ledger.WithCache(cache.NewStockCache(client, cfg.Redis.StockTTL))
		}
	}

	var ledgerMetrics *metrics.Ledger
	if cfg.Metrics.Enabled {
		ledgerMetrics = metrics.NewLedger()
		ledger.WithMetrics(ledgerMetrics)
	}

	productUC := usecase.NewProductUseCase(productRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farmacia API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if ledgerMetrics != nil {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(ledgerMetrics.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:    ledger,
		ProductUC: productUC,
		JWTSecret: cfg.JWT.Secret,
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
