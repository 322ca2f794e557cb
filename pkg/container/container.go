package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"bayarcash-backend/internal/config"
	"bayarcash-backend/internal/domains/payment/gateway"
	"bayarcash-backend/internal/domains/payment/gateway/bayarcash"
	paymentHandler "bayarcash-backend/internal/domains/payment/handler"
	paymentJob "bayarcash-backend/internal/domains/payment/job"
	paymentRepo "bayarcash-backend/internal/domains/payment/repository"
	paymentService "bayarcash-backend/internal/domains/payment/service"
	"bayarcash-backend/internal/domains/payment/token"
	infraCache "bayarcash-backend/internal/infrastructure/cache"
	"bayarcash-backend/internal/infrastructure/database"
	"bayarcash-backend/pkg/jwt"
	"bayarcash-backend/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every long-lived dependency of the API, the worker and the CLI.
// Initialization order: config, infrastructure, repositories, services, handlers.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	AsynqClient *asynq.Client
	JWTManager  *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	Orders        paymentRepo.OrderStore
	Subscriptions paymentRepo.SubscriptionStore
	Settings      paymentRepo.SettingsStore
	CallbackLogs  paymentRepo.CallbackLogRepository
	Outbox        paymentRepo.OutboxRepository
	Carts         paymentRepo.CartRepository

	// ========================================
	// SERVICE LAYER
	// ========================================
	Provider   gateway.Provider
	Codec      *token.Codec
	Ledger     token.Ledger
	Locker     paymentService.Locker
	Engine     paymentService.ReconciliationService
	Dispatcher paymentService.DispatcherService
	Sweeper    paymentService.SweepService

	// ========================================
	// HANDLER LAYER
	// ========================================
	PaymentHandler *paymentHandler.PaymentHandler
}

// RedisOpt is the asynq connection derived from the Redis config.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer connects PostgreSQL and Redis and wires the payment domain.
// Both stores are required: the order lock and token ledger live in Redis.
func NewContainer() (*Container, error) {
	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Info("Config loaded", map[string]interface{}{
		"environment": cfg.App.Environment,
		"methods":     len(cfg.Bayarcash.Methods),
	})

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 3: INITIALIZE REDIS
	// ========================================
	redisClient := infraCache.NewRedisClient(cfg.Redis)
	if err := redisClient.Connect(ctx); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Redis = redisClient
	c.AsynqClient = asynq.NewClient(RedisOpt(cfg))
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer)

	// ========================================
	// STEP 4: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.initRepositories()

	if err := c.initServices(); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	c.PaymentHandler = paymentHandler.NewPaymentHandler(c.Dispatcher, c.Engine, c.Sweeper)

	logger.Info("Container initialized", nil)
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.Orders = paymentRepo.NewOrderRepository(pool)
	c.Subscriptions = paymentRepo.NewSubscriptionRepository(pool)
	c.CallbackLogs = paymentRepo.NewCallbackLogRepository(pool)
	c.Outbox = paymentRepo.NewOutboxRepository(pool)
	c.Carts = paymentRepo.NewCartRepository(pool)
	c.Settings = paymentRepo.NewSettingsStore(c.Config.Bayarcash.Methods, c.Config.Bayarcash.Channels)
}

func (c *Container) initServices() error {
	cfg := c.Config

	provider, err := bayarcash.NewClient(bayarcash.NewConfig(cfg.Bayarcash.HTTPTimeout))
	if err != nil {
		return fmt.Errorf("failed to create bayarcash client: %w", err)
	}
	c.Provider = provider

	codec, err := token.NewCodec(cfg.Token.Secret, cfg.Token.TTL)
	if err != nil {
		return fmt.Errorf("failed to create token codec: %w", err)
	}
	c.Codec = codec

	c.Ledger = infraCache.NewRedisLedger(c.Redis.Client)
	c.Locker = infraCache.NewRedisLocker(c.Redis.Client)

	// ----------------------------------------
	// RECONCILIATION ENGINE
	// ----------------------------------------
	c.Engine = paymentService.NewReconciliationService(
		c.Orders,
		c.Subscriptions,
		c.Settings,
		c.Locker,
		paymentService.NewOutboxPublisher(c.Outbox),
		paymentJob.NewCartClearer(c.AsynqClient),
	)

	// ----------------------------------------
	// DISPATCHER
	// ----------------------------------------
	c.Dispatcher = paymentService.NewDispatcherService(
		c.Orders,
		c.Subscriptions,
		c.Settings,
		c.CallbackLogs,
		c.Provider,
		c.Codec,
		c.Ledger,
		c.Engine,
		paymentService.DispatcherConfig{
			SiteURL:   cfg.Bayarcash.SiteURL,
			LedgerTTL: cfg.Token.LedgerTTL,
		},
	)

	// ----------------------------------------
	// SWEEPER
	// ----------------------------------------
	c.Sweeper = paymentService.NewSweepService(
		c.Orders,
		c.Settings,
		c.Provider,
		c.Engine,
		c.Locker,
		paymentService.SweepConfig{
			BatchSize:          cfg.Sweep.BatchSize,
			LeaseTTL:           cfg.Sweep.LeaseTTL,
			RequeriesPerSecond: cfg.Sweep.RequeryRPS,
		},
	)

	return nil
}

// ========================================
// CLEANUP
// ========================================

// Cleanup closes connections; safe on a partially built container
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("Failed to close asynq client", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("Failed to close Redis", err)
		}
	}

	if c.DB != nil {
		_ = c.DB.Close()
	}
}
