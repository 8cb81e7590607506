// Package integration runs the persistence layer and services against a real
// PostgreSQL started with testcontainers and migrated with golang-migrate.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/migration"
	"github.com/appzetogit/indiankart-sub000/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const postgresImage = "postgres:16-alpine"

// One migrated container serves every test in the package. Tests get a
// fresh connection and start from empty tables.
var sharedDB struct {
	mu        sync.Mutex
	container *tcpostgres.PostgresContainer
	dsn       string
}

// TestDB is a connection to the package's PostgreSQL container
type TestDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	DSN   string
	t     *testing.T
}

// NewTestDB returns a connection to the shared container, starting and
// migrating it on first use. All application tables are truncated first.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := sharedDSN(t)
	db, sqlDB := connectToDatabase(t, dsn)

	testDB := &TestDB{DB: db, SqlDB: sqlDB, DSN: dsn, t: t}
	testDB.CleanTables()

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return testDB
}

func sharedDSN(t *testing.T) string {
	t.Helper()

	sharedDB.mu.Lock()
	defer sharedDB.mu.Unlock()

	if sharedDB.container != nil {
		return sharedDB.dsn
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		postgresImage,
		tcpostgres.WithDatabase("fulfillment_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	_, sqlDB := connectToDatabase(t, dsn)
	defer sqlDB.Close()

	migrator, err := migration.NewFromFS(sqlDB, migrations.FS, nil)
	require.NoError(t, err, "Failed to load migrations")
	require.NoError(t, migrator.Up(), "Failed to run migrations")

	sharedDB.container = container
	sharedDB.dsn = dsn
	return dsn
}

// TerminateContainer stops the shared container. TestMain calls it once
// every test has run.
func TerminateContainer() {
	sharedDB.mu.Lock()
	defer sharedDB.mu.Unlock()

	if sharedDB.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = sharedDB.container.Terminate(ctx)
	sharedDB.container = nil
	sharedDB.dsn = ""
}

// CleanTables truncates every table except the migration bookkeeping
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to list tables")

	for _, table := range tables {
		err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %q CASCADE", table)).Error
		require.NoError(tdb.t, err, "Failed to truncate %s", table)
	}
}

// connectToDatabase opens a GORM connection; set TEST_DB_DEBUG to see SQL
func connectToDatabase(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err, "Failed to get underlying SQL DB")

	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, sqlDB
}
