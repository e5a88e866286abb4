package bootstrap

import (
	"context"
	"log"
	"time"

	"cancel-flow-be/internal/config"
	"cancel-flow-be/internal/controller"
	"cancel-flow-be/internal/entity"
	"cancel-flow-be/internal/pkg/logger"
	"cancel-flow-be/internal/pkg/serverutils"
	"cancel-flow-be/internal/repository/memory"
	"cancel-flow-be/internal/repository/unitofwork"
	"cancel-flow-be/internal/service"
	"cancel-flow-be/pkg/cancelflow"
	"cancel-flow-be/pkg/events"
	"cancel-flow-be/pkg/flowevents"
	pktNats "cancel-flow-be/pkg/nats"
	"cancel-flow-be/pkg/redisstore"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// APIBasePath is where the server mounts every controller.
const APIBasePath = "/api"

type Container struct {
	// Controllers
	CancellationController controller.ICancellationController

	// Services
	CancellationFlowService service.ICancellationFlowService

	// Background Services (Exposed for main.go to run)
	EventRelayService service.IEventRelayService

	Logger     logger.ILogger
	Bus        *events.Bus
	UowFactory unitofwork.RepositoryFactory

	closers []func()
}

// Dependencies are the pieces that differ between the server, the tests and the CLIs.
type Dependencies struct {
	UowFactory  unitofwork.RepositoryFactory
	Picker      cancelflow.VariantPicker
	Logger      logger.ILogger
	RelayLogger logger.ILogger
	// Sink receives relayed events. Nil keeps them in the relay log only.
	Sink events.Publisher
	// CsrfStorage shares CSRF tokens between instances. Nil keeps them in process.
	CsrfStorage fiber.Storage
}

// NewContainer wires the application from configuration. db may be nil when
// DB_DRIVER=memory.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	var uowFactory unitofwork.RepositoryFactory
	if cfg.Database.Driver == config.DriverMemory {
		uowFactory = memory.NewRepositoryFactory(memory.NewStore())
		log.Printf("[INFO] Using in-memory store, data is lost on restart")
	} else {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	}
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	relayLogger := logger.NewIsolatedLogger(cfg.Events.RelayLogPath)

	// 2. Event sink
	var sink events.Publisher
	var closers []func()
	if cfg.Events.Bus == config.EventBusNats {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher, events stay in %s: %v", cfg.Events.RelayLogPath, err)
		} else {
			sink = natsPub
			closers = append(closers, natsPub.Close)
		}
	}

	// 3. Shared CSRF storage
	var csrfStorage fiber.Storage
	if cfg.App.RedisURL != "" {
		rdb, err := redisstore.NewClient(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] %v. CSRF tokens stay in process", err)
		} else {
			store := redisstore.New(rdb, redisstore.DefaultPrefix)
			csrfStorage = store
			closers = append(closers, func() { _ = store.Close() })
		}
	}

	c := Build(cfg, Dependencies{
		UowFactory:  uowFactory,
		Picker:      cancelflow.NewRandomPicker(),
		Logger:      sysLogger,
		RelayLogger: relayLogger,
		Sink:        sink,
		CsrfStorage: csrfStorage,
	})
	c.closers = append(c.closers, closers...)
	c.closers = append(c.closers, func() {
		_ = relayLogger.Sync()
		_ = sysLogger.Sync()
	})
	return c
}

// Build assembles the container from explicit dependencies.
func Build(cfg *config.Config, deps Dependencies) *Container {
	if deps.Picker == nil {
		deps.Picker = cancelflow.NewRandomPicker()
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	if deps.RelayLogger == nil {
		deps.RelayLogger = deps.Logger
	}

	// Event Bus
	bus := events.NewBus(cfg.Events.Topic)
	flowPublisher := flowevents.NewPublisher(bus, deps.Logger)

	// Services
	flowService := service.NewCancellationFlowService(
		deps.UowFactory,
		deps.Picker,
		flowPublisher,
		deps.Logger,
		cfg.Flow,
	)
	relayService := service.NewEventRelayService(bus, deps.Sink, deps.RelayLogger)

	// Middleware
	auth := serverutils.NewJwtMiddleware(cfg.Auth.JwtSecret)
	csrf := serverutils.NewCsrfMiddleware(serverutils.CsrfConfig{
		CookieName:   cfg.Auth.CsrfCookieName,
		CookieSecure: cfg.Auth.CsrfCookieSecure,
		Storage:      deps.CsrfStorage,
	})

	// Controllers
	cancellationController := controller.NewCancellationController(flowService, auth, csrf, APIBasePath)

	return &Container{
		CancellationController:  cancellationController,
		CancellationFlowService: flowService,
		EventRelayService:       relayService,
		Logger:                  deps.Logger,
		Bus:                     bus,
		UowFactory:              deps.UowFactory,
		closers:                 []func(){func() { _ = bus.Close() }},
	}
}

// SeedSubscription creates an active subscription for userId. A nil userId gets a fresh one.
func (c *Container) SeedSubscription(ctx context.Context, userId uuid.UUID, monthlyPrice int) (*entity.Subscription, error) {
	if userId == uuid.Nil {
		userId = uuid.New()
	}
	sub := &entity.Subscription{
		UserId:       userId,
		MonthlyPrice: monthlyPrice,
		Status:       entity.SubscriptionStatusActive,
		CreatedAt:    time.Now(),
	}
	uow := c.UowFactory.NewUnitOfWork(ctx)
	if err := uow.SubscriptionRepository().CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	c.Logger.Info("SEED", "Subscription created", map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"user_id":         sub.UserId.String(),
		"monthly_price":   sub.MonthlyPrice,
	})
	return sub, nil
}

// Close stops the bus before the NATS connection, then flushes the loggers.
func (c *Container) Close() {
	for _, closeFn := range c.closers {
		closeFn()
	}
}
