package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dispatchapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/dispatch"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/application/notification"
	productionapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/production"
	registryapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/registry"
	salesapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/sales"
	seqapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/sequence"
	shiftapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/shift"
	transferapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/transfer"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sales"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/auth"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/config"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/event"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/lock"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/logger"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/migration"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/notify"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/telemetry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/interfaces/http/handler"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/interfaces/http/middleware"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/interfaces/http/router"
	"github.com/Deepasarathi10/Mobileapi-sub000/migrations"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting retail ERP service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing and metrics providers; no-op when telemetry is disabled
	providers, err := telemetry.Setup(rootCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	businessMetrics, err := telemetry.NewBusinessMetrics(providers.Meter())
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	// Database connection with a zap backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := applyMigrations(cfg.Database.DSN(), log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Redis backs distributed locks and cross-instance notification fan-out
	var rdb redis.UniversalClient
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(rootCtx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("Redis unavailable, continuing without it", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
			_ = client.Close()
		} else {
			rdb = client
			defer func() { _ = client.Close() }()
			log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		}
	}
	locker := lock.New(cfg.Lock, rdb, log)

	// Repositories
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	warehouseItemRepo := persistence.NewGormWarehouseItemRepository(db.DB)
	branchwiseRepo := persistence.NewGormBranchwiseItemRepository(db.DB)
	counterRepo := persistence.NewGormCounterRepository(db.DB)
	dispatchRepo := persistence.NewGormDispatchRepository(db.DB)
	transferRepo := persistence.NewGormItemTransferRepository(db.DB)
	productionRepo := persistence.NewGormProductionEntryRepository(db.DB)
	saleOrderRepo := persistence.NewGormSaleOrderRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	shiftRepo := persistence.NewGormShiftRepository(db.DB)
	dayEndRepo := persistence.NewGormDayEndRepository(db.DB)

	// Sequence allocator; master ids reconcile against the codes already in use
	sequences := seqapp.NewService(counterRepo, locker)
	sequences.RegisterSource(sequence.PrefixWarehouseItem, "", warehouseItemRepo)
	sequences.RegisterSource(sequence.PrefixWarehouse, "", warehouseRepo)

	stockService := registryapp.NewStockService(warehouseItemRepo, branchwiseRepo, locker, registryapp.StockOptions{
		MaxRetries: cfg.Stock.CASMaxRetries,
		Backoff:    cfg.Stock.CASBackoff,
		UseLocker:  cfg.Stock.UseLocker,
	})
	stockService.SetBusinessMetrics(businessMetrics)

	// Application services
	branchService := registryapp.NewBranchService(branchRepo)
	employeeService := registryapp.NewEmployeeService(employeeRepo)
	branchwiseService := registryapp.NewBranchwiseService(branchwiseRepo)
	warehouseService := registryapp.NewWarehouseService(warehouseRepo, sequences)
	warehouseItemService := registryapp.NewWarehouseItemService(warehouseItemRepo, sequences, stockService)
	dispatchService := dispatchapp.NewService(dispatchRepo, saleOrderRepo, branchService, employeeService, sequences, stockService)
	transferService := transferapp.NewService(transferRepo, branchService, sequences, stockService)
	productionService := productionapp.NewService(productionRepo, saleOrderRepo, branchService, sequences, stockService)
	orderService := salesapp.NewOrderService(saleOrderRepo, invoiceRepo, branchService, sequences)
	invoiceService := salesapp.NewInvoiceService(invoiceRepo, branchService, sequences)
	shiftService := shiftapp.NewService(shiftRepo, dayEndRepo, shiftapp.Ledgers{
		Invoices:   invoiceRepo,
		Orders:     saleOrderRepo,
		Dispatches: dispatchRepo,
		Transfers:  transferRepo,
	}, branchService, locker)

	// Notification hub. With redis every instance relays through one channel.
	hub := notify.NewHub(cfg.Notify, businessMetrics, log)
	defer hub.Close()

	var publisher notify.Publisher = hub
	if rdb != nil {
		relay := notify.NewRedisRelay(rdb, cfg.Redis.NotifyChannel, hub, log)
		publisher = relay
		go func() {
			if err := relay.Run(rootCtx); err != nil {
				log.Error("Notification relay stopped", zap.Error(err))
			}
		}()
	}

	// Event bus: dispatch lifecycle events fan out to websocket subscribers
	eventBus := event.NewInMemoryEventBus(log)
	dispatchEvents := notification.NewDispatchEventHandler(publisher, log).WithMetrics(businessMetrics)
	eventBus.Subscribe(dispatchEvents)
	log.Info("Event handlers registered", zap.Strings("dispatch_events", dispatchEvents.EventTypes()))

	if err := eventBus.Start(rootCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()
	dispatchService.SetEventPublisher(eventBus)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID and request logging
	// 2. Recovery
	// 3. Tracing and HTTP metrics
	// 4. Security headers, CORS and body limit
	// 5. Terminal authentication (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     providers.Enabled(),
	}))
	engine.Use(middleware.SpanEnricher())
	if cfg.Telemetry.MetricsEnabled {
		engine.Use(middleware.HTTPMetrics(providers.Meter()))
	}
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.Auth.Enabled {
		engine.Use(middleware.TerminalAuth(middleware.TerminalAuthConfig{
			Validator: auth.NewTokenService(cfg.Auth),
			SkipPaths: []string{"/health"},
			Logger:    log,
		}))
		log.Info("Terminal authentication enabled", zap.String("issuer", cfg.Auth.Issuer))
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to access database handle", zap.Error(err))
	}

	r := router.Mount(router.NewRouter(engine), router.Handlers{
		System:     handler.NewSystemHandler(cfg.App.Name, version, sqlDB, hub),
		Branch:     handler.NewBranchHandler(branchService),
		Branchwise: handler.NewBranchwiseHandler(branchwiseService),
		Employee:   handler.NewEmployeeHandler(employeeService),
		Warehouse:  handler.NewWarehouseHandler(warehouseService, warehouseItemService),
		Sequence:   handler.NewSequenceHandler(sequences),
		Dispatch:   handler.NewDispatchHandler(dispatchService, hub),
		Transfer:   handler.NewTransferHandler(transferService),
		Production: handler.NewProductionHandler(productionService),
		SaleOrder:  handler.NewOrderHandler(sales.KindSaleOrder, orderService),
		HeldOrder:  handler.NewOrderHandler(sales.KindHeldOrder, orderService),
		Invoice:    handler.NewInvoiceHandler(invoiceService),
		Shift:      handler.NewShiftHandler(shiftService),
	})
	r.Setup()
	log.Info("Routes registered", zap.Int("count", len(r.Routes())))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	<-rootCtx.Done()
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Server exited gracefully")
}

// applyMigrations brings the schema up to date with the embedded migrations.
// The migrator dials its own connection so closing it leaves the pool open.
func applyMigrations(dsn string, log *zap.Logger) error {
	m, err := migration.NewFromURL(dsn, migrations.FS, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Error closing migrator", zap.Error(err))
		}
	}()
	return m.Up()
}
