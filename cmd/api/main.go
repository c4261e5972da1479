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

	"github.com/Mihigojordan/Abysphere-sub003/internal/application/inventory"
	"github.com/Mihigojordan/Abysphere-sub003/internal/application/returns"
	"github.com/Mihigojordan/Abysphere-sub003/internal/infrastructure/memory"
	infrapdf "github.com/Mihigojordan/Abysphere-sub003/internal/infrastructure/pdf"
	"github.com/Mihigojordan/Abysphere-sub003/internal/infrastructure/postgres"
	httpRouter "github.com/Mihigojordan/Abysphere-sub003/internal/interfaces/http"
	"github.com/Mihigojordan/Abysphere-sub003/pkg/config"
	"github.com/Mihigojordan/Abysphere-sub003/pkg/docid"
	"github.com/Mihigojordan/Abysphere-sub003/pkg/logger"
)

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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		tx    inventory.TxRunner
		repos inventory.Repos
	)
	switch cfg.DB.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		tx, repos = store, store.Repos()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		tx, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	// Numeración de notas crédito: secuencia en Redis si está configurado.
	nextID := docid.Generator(docid.New)
	if cfg.Redis.Enabled() {
		client := docid.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer client.Close()
		nextID = docid.NewRedisSequence(client, "docid:seq").Generator()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("secuencia de notas crédito en Redis")
	}

	stockUC := inventory.NewStockUseCase(tx, repos.Stock, cfg.Returns.MaxConflictRetries, log.Component("stock"))
	stockOutUC := inventory.NewStockOutUseCase(tx, repos.StockOut, cfg.Returns.MaxConflictRetries, log.Component("stock_out"))
	ledgerUC := inventory.NewLedgerUseCase(repos.History)
	salesReturnUC := returns.NewSalesReturnUseCase(
		tx, repos.Returns, nextID,
		returns.Config{MaxConflictRetries: cfg.Returns.MaxConflictRetries},
		log.Component("sales_return"),
	)

	// PDF: representación gráfica de la nota crédito
	creditNotePDF := infrapdf.NewCreditNoteGenerator(cfg.App.Name)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); cfg.App.SwaggerFile != "" && err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:       stockUC,
		StockOutUC:    stockOutUC,
		LedgerUC:      ledgerUC,
		SalesReturnUC: salesReturnUC,
		CreditNotePDF: creditNotePDF,
		JWTSecret:     cfg.JWT.Secret,
		JWTCookieName: cfg.JWT.CookieName,
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
