package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/peopleops/hris-lifecycle/internal/application/service"
)

// OutboxWorkerConfig holds configuration for the outbox drain worker
type OutboxWorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// DefaultOutboxWorkerConfig returns default configuration
func DefaultOutboxWorkerConfig() OutboxWorkerConfig {
	return OutboxWorkerConfig{
		PollInterval: 15 * time.Second,
		BatchSize:    20,
	}
}

// OutboxWorker drains the notification spool on a fixed interval.
type OutboxWorker struct {
	config        OutboxWorkerConfig
	notifications service.NotificationService
	logger        *zap.Logger

	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	isRunning bool
	sentCount int
}

// NewOutboxWorker creates a new outbox drain worker
func NewOutboxWorker(config OutboxWorkerConfig, notifications service.NotificationService, logger *zap.Logger) *OutboxWorker {
	return &OutboxWorker{
		config:        config,
		notifications: notifications,
		logger:        logger,
	}
}

// Name returns the worker's name
func (w *OutboxWorker) Name() string {
	return "outbox-worker"
}

// Start begins the worker polling loop
func (w *OutboxWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker already running")
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.isRunning = true
	w.mu.Unlock()

	w.logger.Info("OutboxWorker started",
		zap.Duration("poll_interval", w.config.PollInterval),
		zap.Int("batch_size", w.config.BatchSize))

	go w.pollLoop()

	return nil
}

// Stop gracefully terminates the worker
func (w *OutboxWorker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	cancel := w.cancel
	sent := w.sentCount
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	w.logger.Info("OutboxWorker stopped", zap.Int("sent_count", sent))
	return nil
}

func (w *OutboxWorker) pollLoop() {
	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.drainOnce()
		}
	}
}

func (w *OutboxWorker) drainOnce() {
	sent, err := w.notifications.ProcessPending(w.ctx, w.config.BatchSize)
	if err != nil {
		w.logger.Error("Outbox drain failed", zap.Error(err))
		return
	}
	if sent > 0 {
		w.mu.Lock()
		w.sentCount += sent
		w.mu.Unlock()
		w.logger.Info("Notifications delivered", zap.Int("sent", sent))
	}
}

// Verify interface compliance
var _ Worker = (*OutboxWorker)(nil)
