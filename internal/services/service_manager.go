package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

// ServiceManagerConfig holds the dependencies shared by every service
type ServiceManagerConfig struct {
	Repo           repositories.Repository
	Cache          cache.CacheService
	CacheTTL       time.Duration
	EventPublisher events.EventPublisher
	Logger         *slog.Logger
	Validator      *validator.Validator
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger

	quizService     QuizService
	attemptService  AttemptService
	progressService ProgressService
	ratingService   RatingService
	exportService   ExportService

	shutdown bool
	mu       sync.RWMutex
}

// NewServiceManager wires every service against the same repository,
// cache and event publisher
func NewServiceManager(cfg ServiceManagerConfig) ServiceManager {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewRedisCache(nil, cfg.Logger)
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = cache.DefaultTTL
	}
	if cfg.Validator == nil {
		cfg.Validator = validator.New()
	}

	notifier := NewEventNotifier(cfg.EventPublisher, cfg.Logger)

	sm := &serviceManager{
		repo:            cfg.Repo,
		eventPublisher:  cfg.EventPublisher,
		logger:          cfg.Logger,
		quizService:     NewQuizService(cfg.Repo, cfg.Cache, cfg.CacheTTL, cfg.Logger, cfg.Validator),
		attemptService:  NewAttemptService(cfg.Repo, notifier, cfg.Logger, cfg.Validator),
		progressService: NewProgressService(cfg.Repo, notifier, cfg.Logger),
		ratingService:   NewRatingService(cfg.Repo, cfg.Cache, cfg.CacheTTL, notifier, cfg.Logger, cfg.Validator),
		exportService:   NewExportService(cfg.Repo, cfg.Logger),
	}

	sm.logger.Info("Service manager initialized")
	return sm
}

// Service getters
func (sm *serviceManager) Quiz() QuizService {
	return sm.quizService
}

func (sm *serviceManager) Attempt() AttemptService {
	return sm.attemptService
}

func (sm *serviceManager) Progress() ProgressService {
	return sm.progressService
}

func (sm *serviceManager) Rating() RatingService {
	return sm.ratingService
}

func (sm *serviceManager) Export() ExportService {
	return sm.exportService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	var errs []error
	if sm.eventPublisher != nil {
		if err := sm.eventPublisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close event publisher: %w", err))
		}
	}
	if err := sm.repo.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close repository: %w", err))
	}

	sm.shutdown = true
	return errors.Join(errs...)
}
