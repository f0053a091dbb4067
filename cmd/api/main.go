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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/swaggo/swag"

	"github.com/jhoicas/obra-stock-api/docs"
	"github.com/jhoicas/obra-stock-api/internal/application/inventory"
	"github.com/jhoicas/obra-stock-api/internal/application/usecase"
	"github.com/jhoicas/obra-stock-api/internal/domain/repository"
	"github.com/jhoicas/obra-stock-api/internal/infrastructure/lock"
	"github.com/jhoicas/obra-stock-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/obra-stock-api/internal/infrastructure/pdf"
	"github.com/jhoicas/obra-stock-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/obra-stock-api/internal/interfaces/http"
	"github.com/jhoicas/obra-stock-api/pkg/config"
	"github.com/jhoicas/obra-stock-api/pkg/logger"
)

// storage repositorios y runner del driver elegido.
type storage struct {
	txRunner         inventory.TxRunner
	items            repository.ItemRepository
	projects         repository.ProjectRepository
	materialRequests repository.MaterialRequestRepository
	balances         repository.BalanceRepository
	ledger           repository.LedgerRepository
	grns             repository.GRNRepository
	issues           repository.StockIssueRepository
	pinger           httpRouter.Pinger
	close            func()
}

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
		Str("storage", cfg.Storage.Driver).
		Str("lock", cfg.Lock.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("abrir almacenamiento")
	}
	defer st.close()

	locker, closeLocker, err := openLocker(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Lock.Driver).Msg("abrir locker")
	}
	defer closeLocker()

	stockLedger := inventory.NewStockLedgerUseCase(inventory.StockLedgerDeps{
		TxRunner:         st.txRunner,
		Locker:           locker,
		Items:            st.items,
		Projects:         st.projects,
		MaterialRequests: st.materialRequests,
		Balances:         st.balances,
		Ledger:           st.ledger,
		GRNs:             st.grns,
		Issues:           st.issues,
		PDF:              infrapdf.NewMarotoGRNGenerator(),
		Logger:           log.Component("inventory"),
	})
	itemUC := usecase.NewItemUseCase(st.items)
	projectUC := usecase.NewProjectUseCase(st.projects)
	materialRequestUC := usecase.NewMaterialRequestUseCase(st.materialRequests, st.projects, st.items, locker)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerPath,
			Path:     "docs",
			Title:    "Obra Stock API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerPath).Msg("swagger.json no encontrado, /docs deshabilitado")
	}
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return c.SendStatus(fiber.StatusNotFound)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(doc)
	})

	app.Get("/health", httpRouter.Health(st.pinger, cfg.Storage.Driver))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:            itemUC,
		ProjectUC:         projectUC,
		MaterialRequestUC: materialRequestUC,
		StockLedger:       stockLedger,
		JWTSecret:         cfg.JWT.Secret,
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

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			txRunner:         memory.NewTxRunner(s),
			items:            memory.NewItemRepository(s),
			projects:         memory.NewProjectRepository(s),
			materialRequests: memory.NewMaterialRequestRepository(s),
			balances:         memory.NewBalanceRepository(s),
			ledger:           memory.NewLedgerRepository(s),
			grns:             memory.NewGRNRepository(s),
			issues:           memory.NewStockIssueRepository(s),
			pinger:           s,
			close:            func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("schema aplicado")
	}
	return &storage{
		txRunner:         postgres.NewTxRunner(pool, cfg.DB.TxRetries, log.Component("postgres")),
		items:            postgres.NewItemRepository(pool),
		projects:         postgres.NewProjectRepository(pool),
		materialRequests: postgres.NewMaterialRequestRepository(pool),
		balances:         postgres.NewBalanceRepository(pool),
		ledger:           postgres.NewLedgerRepository(pool),
		grns:             postgres.NewGRNRepository(pool),
		issues:           postgres.NewStockIssueRepository(pool),
		pinger:           pool,
		close:            pool.Close,
	}, nil
}

func openLocker(ctx context.Context, cfg *config.Config, log *logger.Logger) (inventory.Locker, func(), error) {
	if cfg.Lock.Driver != config.LockDriverRedis {
		return lock.NewKeyedLocker(), func() {}, nil
	}
	rdb, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	locker := lock.NewRedisLocker(rdb, lock.RedisOptions{
		TTL:        cfg.Lock.TTL,
		Retries:    cfg.Lock.Retries,
		RetryDelay: cfg.Lock.RetryDelay,
	}, log.Component("lock"))
	return locker, func() { _ = rdb.Close() }, nil
}
