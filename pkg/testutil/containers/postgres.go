//go:build integration

package containers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/sjperalta/salesdesk-api/internal/database"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// PostgresContainer wraps a testcontainers Postgres instance with a migrated
// GORM connection.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *gorm.DB
}

// Manager shares one Postgres container across the suites of a test binary.
type Manager struct {
	once     sync.Once
	postgres *PostgresContainer
	err      error
}

var manager = &Manager{}

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	return manager
}

// GetPostgres starts Postgres on first use and migrates the schema.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	m.once.Do(func() {
		m.postgres, m.err = startPostgres(context.Background())
	})
	if m.err != nil {
		t.Fatalf("failed to start postgres container: %v", m.err)
	}
	return m.postgres
}

func startPostgres(ctx context.Context) (*PostgresContainer, error) {
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("salesdesk_test"),
		tcpostgres.WithUsername("salesdesk"),
		tcpostgres.WithPassword("salesdesk"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("connection string: %w", err)
	}

	db, err := database.Connect(dsn, "test")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	// Ryuk removes the container when the test binary exits.
	return &PostgresContainer{Container: container, DSN: dsn, DB: db}, nil
}

// TruncateTables empties the given tables. Use between tests to ensure
// isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	stmt := "TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE"
	return p.DB.WithContext(ctx).Exec(stmt).Error
}
