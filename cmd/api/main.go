package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	_ "github.com/jhoicas/fulfillment-core/docs"
	"github.com/jhoicas/fulfillment-core/internal/application/alert"
	"github.com/jhoicas/fulfillment-core/internal/application/inventory"
	"github.com/jhoicas/fulfillment-core/internal/application/pickpack"
	"github.com/jhoicas/fulfillment-core/internal/application/reception"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
	infrakafka "github.com/jhoicas/fulfillment-core/internal/infrastructure/kafka"
	"github.com/jhoicas/fulfillment-core/internal/infrastructure/memory"
	"github.com/jhoicas/fulfillment-core/internal/infrastructure/metrics"
	"github.com/jhoicas/fulfillment-core/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/fulfillment-core/internal/infrastructure/pdf"
	"github.com/jhoicas/fulfillment-core/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/fulfillment-core/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/fulfillment-core/internal/interfaces/http"
	"github.com/jhoicas/fulfillment-core/pkg/config"
	"github.com/jhoicas/fulfillment-core/pkg/logger"
)

// stores repositorios según STORE_DRIVER.
type stores struct {
	tx         inventory.TxRunner
	products   repository.ProductRepository
	logs       repository.InventoryLogRepository
	receptions repository.StockReceptionRepository
	pickPack   repository.PickPackOrderRepository
	users      repository.UserRepository
	orders     repository.OrderRepository
	close      func()
}

// swaggerFile especificación servida en /docs (ver docs/docs.go para regenerarla).
const swaggerFile = "./docs/swagger.json"

// @title                       Fulfillment Core API
// @version                     1.0
// @description                 API de operadores: ledger de stock, recepciones, pick/pack/ship y alertas.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Token JWT: "Bearer <token>"
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
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStores(ctx, cfg, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir persistencia")
	}
	defer st.close()

	// Deduplicación de alertas: Redis si está configurado, si no en memoria (se pierde al reiniciar).
	var alertState repository.AlertStateStore = memory.NewAlertStateStore()
	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		alertState = infraredis.NewAlertStateStore(client, cfg.Redis.KeyPrefix)
	}

	// Notificaciones: Kafka si hay brokers, si no solo log. La entrega va por el dispatcher,
	// fuera del camino del ledger.
	var sink alert.Notifier = notify.NewLogNotifier(log.Component("notifier"))
	if cfg.Kafka.Enabled() {
		kn := infrakafka.NewNotifier(infrakafka.NewWriter(cfg.Kafka), log.Component("kafka"))
		defer kn.Close()
		sink = kn
	}
	notifier := notify.NewDispatcher(sink, notify.DispatcherConfig{
		QueueSize:   cfg.Alerts.NotifyQueueSize,
		Workers:     cfg.Alerts.NotifyWorkers,
		SendTimeout: cfg.Alerts.NotifyTimeout,
	}, log.Component("notify-dispatcher"))
	notifier.Start()

	m := metrics.New()
	monitor := alert.NewMonitor(st.products, st.users, alertState, notifier, m,
		cfg.Alerts.LowStockThreshold, log.Component("stock-monitor"))
	ledger := inventory.NewStockLedger(st.tx, st.logs, monitor, m, log.Component("ledger"))
	receptionUC := reception.NewStockReceptionUseCase(st.receptions, ledger, log.Component("reception"))
	pickPackUC := pickpack.NewPickPackUseCase(st.pickPack, st.orders, ledger,
		infrapdf.NewPackingSlipGenerator(cfg.App.Name), log.Component("pickpack"))

	if err := monitor.Initialize(ctx); err != nil {
		log.Warn().Err(err).Msg("barrido inicial de alertas con errores")
	}
	if cfg.Alerts.SweepInterval > 0 {
		go monitor.RunSweeper(ctx, cfg.Alerts.SweepInterval)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Fulfillment Core API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("especificación OpenAPI no encontrada, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:         ledger,
		Receptions:     receptionUC,
		PickPack:       pickPackUC,
		Monitor:        monitor,
		MetricsHandler: m.Handler(),
		JWTSecret:      cfg.JWT.Secret,
		AppName:        cfg.App.Name,
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
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := notifier.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("notificaciones pendientes al apagar")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		s := memory.NewStore()
		if cfg.App.MemorySeedFile == "" {
			log.Warn().Msg("STORE_DRIVER=memory sin MEMORY_SEED_FILE: catálogo y directorio vacíos, solo para pruebas")
		} else {
			seed, err := memory.LoadSeedFile(cfg.App.MemorySeedFile)
			if err != nil {
				return nil, err
			}
			if err := s.ApplySeed(seed); err != nil {
				return nil, fmt.Errorf("seed %s: %w", cfg.App.MemorySeedFile, err)
			}
			log.Info().
				Str("file", cfg.App.MemorySeedFile).
				Int("products", len(seed.Products)).
				Int("users", len(seed.Users)).
				Msg("store en memoria cargado")
		}
		return &stores{
			tx:         s.TxRunner(),
			products:   s.Products(),
			logs:       s.InventoryLogs(),
			receptions: s.Receptions(),
			pickPack:   s.PickPack(),
			users:      s.Users(),
			orders:     s.Orders(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &stores{
		tx:         postgres.NewTxRunner(pool),
		products:   postgres.NewProductRepository(pool),
		logs:       postgres.NewInventoryLogRepository(pool),
		receptions: postgres.NewStockReceptionRepository(pool),
		pickPack:   postgres.NewPickPackOrderRepository(pool),
		users:      postgres.NewUserRepository(pool),
		orders:     postgres.NewOrderRepository(pool),
		close:      pool.Close,
	}, nil
}
