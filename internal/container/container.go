// Package container wires all application dependencies with ordered
// initialization and reverse-order teardown.
package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/peopleops/hris-lifecycle/internal/application/dispatcher"
	"github.com/peopleops/hris-lifecycle/internal/application/port"
	"github.com/peopleops/hris-lifecycle/internal/application/service"
	"github.com/peopleops/hris-lifecycle/internal/config"
	"github.com/peopleops/hris-lifecycle/internal/infrastructure/notification"
	mongopersist "github.com/peopleops/hris-lifecycle/internal/infrastructure/persistence/mongo"
	"github.com/peopleops/hris-lifecycle/internal/infrastructure/persistence/repository"
	"github.com/peopleops/hris-lifecycle/internal/infrastructure/storage"
	"github.com/peopleops/hris-lifecycle/internal/infrastructure/worker"
	"github.com/peopleops/hris-lifecycle/pkg/database"
)

// Container manages all application dependencies and their lifecycle.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure - data
	mongoDB         *mongodrv.Database
	mongoDisconnect func(context.Context) error
	outboxDB        *database.DB
	lifecycleRepo   port.LifecycleRepository
	directoryRepo   port.EmployeeDirectory
	outboxRepo      port.NotificationOutbox

	// Infrastructure - storage
	evidenceStorage port.EvidenceStorage
	gcsStorage      *storage.GCSEvidenceStorage

	// Application
	dispatcher dispatcher.Dispatcher
	services   *ServiceBundle

	// Workers
	workers *worker.Manager

	// Lifecycle
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Lifecycle    service.LifecycleService
	Directory    service.DirectoryService
	Notification service.NotificationService
	Report       service.ReportService
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components in dependency order:
// 1. Document store and repositories
// 2. Notification spool
// 3. Evidence storage
// 4. Dispatcher and services
// 5. Workers
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	if err := c.initPersistence(); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	c.logger.Info("Persistence initialized")

	if err := c.initOutbox(); err != nil {
		return fmt.Errorf("failed to initialize outbox: %w", err)
	}
	c.logger.Info("Outbox initialized")

	if err := c.initStorage(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.logger.Info("Storage initialized")

	if err := c.initServices(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Application services initialized")

	if err := c.initWorkers(); err != nil {
		return fmt.Errorf("failed to initialize workers: %w", err)
	}
	c.logger.Info("Workers initialized and started")

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

func (c *Container) initPersistence() error {
	db, disconnect, err := mongopersist.Connect(c.ctx, c.config.Mongo.URI, c.config.Mongo.Database, c.logger)
	if err != nil {
		return err
	}
	c.mongoDB = db
	c.mongoDisconnect = disconnect

	lifecycleRepo := mongopersist.NewLifecycleRepository(db, c.logger)
	if err := lifecycleRepo.EnsureIndexes(c.ctx); err != nil {
		return fmt.Errorf("failed to ensure lifecycle indexes: %w", err)
	}

	directoryRepo := mongopersist.NewEmployeeRepository(db, c.logger)
	if err := directoryRepo.EnsureIndexes(c.ctx); err != nil {
		return fmt.Errorf("failed to ensure employee indexes: %w", err)
	}

	c.lifecycleRepo = lifecycleRepo
	c.directoryRepo = directoryRepo
	return nil
}

func (c *Container) initOutbox() error {
	db, err := database.New(database.Config{
		Path:            c.config.Outbox.Path,
		MaxOpenConns:    c.config.Outbox.MaxOpenConns,
		MaxIdleConns:    c.config.Outbox.MaxIdleConns,
		ConnMaxLifetime: c.config.Outbox.ConnMaxLifetime,
	}, c.logger)
	if err != nil {
		return err
	}
	c.outboxDB = db

	migrator := database.NewMigrator(db, c.logger)
	if err := migrator.Run(repository.OutboxMigrations); err != nil {
		return fmt.Errorf("failed to run outbox migrations: %w", err)
	}

	c.outboxRepo = repository.NewOutboxRepository(db, c.logger)
	return nil
}

func (c *Container) initStorage() error {
	switch c.config.Storage.Backend {
	case "gcs":
		gcs, err := storage.NewGCSEvidenceStorage(c.ctx, c.config.Storage.GCSBucket, c.config.Storage.GCSCredentials, c.logger)
		if err != nil {
			return err
		}
		c.gcsStorage = gcs
		c.evidenceStorage = gcs
	default:
		c.evidenceStorage = storage.NewLocalEvidenceStorage(c.config.Storage.LocalDir, c.logger)
	}
	return nil
}

func (c *Container) initServices() error {
	sugared := &zapLoggerAdapter{logger: c.logger}

	c.dispatcher = dispatcher.NewDispatcher(dispatcher.WithLogger(sugared))

	automator := service.NewAutomator(c.directoryRepo, sugared)

	var sender service.Sender
	if c.config.Notification.SMTPHost != "" {
		sender = notification.NewSMTPSender(notification.SMTPConfig{
			Host:     c.config.Notification.SMTPHost,
			Port:     c.config.Notification.SMTPPort,
			Username: c.config.Notification.SMTPUsername,
			Password: c.config.Notification.SMTPPassword,
			From:     c.config.Notification.From,
		}, c.logger)
	} else {
		sender = notification.NewLogSender(c.logger)
	}

	notificationService := service.NewNotificationService(c.outboxRepo, sender, sugared)
	notificationService.Register(c.dispatcher)

	c.services = &ServiceBundle{
		Lifecycle:    service.NewLifecycleService(c.lifecycleRepo, c.evidenceStorage, automator, c.dispatcher, sugared),
		Directory:    service.NewDirectoryService(c.directoryRepo, sugared),
		Notification: notificationService,
		Report:       service.NewReportService(c.lifecycleRepo, sugared),
	}
	return nil
}

func (c *Container) initWorkers() error {
	c.workers = worker.NewManager(c.logger)

	outboxWorker := worker.NewOutboxWorker(worker.OutboxWorkerConfig{
		PollInterval: c.config.Outbox.PollInterval,
		BatchSize:    c.config.Outbox.BatchSize,
	}, c.services.Notification, c.logger)
	c.workers.Register(outboxWorker)

	return c.workers.StartAll(c.ctx)
}

// Services returns the application service bundle.
func (c *Container) Services() *ServiceBundle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.services
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.cancel != nil {
		c.cancel()
	}

	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		}
	}

	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		}
	}

	if c.gcsStorage != nil {
		if err := c.gcsStorage.Close(); err != nil {
			c.logger.Error("Failed to close GCS storage", zap.Error(err))
			errs = append(errs, fmt.Errorf("close gcs storage: %w", err))
		}
	}

	if c.outboxDB != nil {
		if err := c.outboxDB.Close(); err != nil {
			c.logger.Error("Failed to close outbox database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close outbox database: %w", err))
		}
	}

	if c.mongoDisconnect != nil {
		if err := c.mongoDisconnect(context.Background()); err != nil {
			c.logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
			errs = append(errs, fmt.Errorf("disconnect mongodb: %w", err))
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// IsReady reports whether the container finished initialization.
func (c *Container) IsReady() bool {
	return c.ready.Load()
}

// zapLoggerAdapter adapts zap.Logger to the minimal keysAndValues Logger
// interfaces the application layer declares.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
