package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/learning-service/internal/testutil"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"github.com/alicebob/miniredis/v2"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	redis     *miniredis.Miniredis
	publisher *events.MockEventPublisher
	manager   ServiceManager
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	client, server := testutil.NewTestRedis(t)
	logger := discardLogger()
	publisher := events.NewMockEventPublisher(logger)

	manager := NewServiceManager(ServiceManagerConfig{
		Repo:           postgres.NewPostgreSQLRepository(db),
		Cache:          cache.NewRedisCache(client, logger),
		CacheTTL:       time.Minute,
		EventPublisher: publisher,
		Logger:         logger,
		Validator:      validator.New(),
	})

	return &testEnv{
		db:        db,
		redis:     server,
		publisher: publisher,
		manager:   manager,
	}
}

func intPtr(v int) *int {
	return &v
}

func strPtr(s string) *string {
	return &s
}
