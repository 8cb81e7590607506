package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// tracedOrder is a minimal orders table for exercising the callbacks
type tracedOrder struct {
	ID        uint   `gorm:"primaryKey"`
	DisplayID string `gorm:"size:32;uniqueIndex"`
	Status    string `gorm:"size:20"`
}

func (tracedOrder) TableName() string { return "orders" }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedOrder{}))
	return db
}

// setupGlobalTracer installs a recording provider; otelgorm reads the global one
func setupGlobalTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func tracedDB(t *testing.T, threshold time.Duration) *gorm.DB {
	t.Helper()
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: threshold,
		DBSystem:        "sqlite",
	}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))
	return db
}

func findTableSpan(spans []sdktrace.ReadOnlySpan, table string) sdktrace.ReadOnlySpan {
	for _, s := range spans {
		for _, kv := range s.Attributes() {
			if kv.Key == "db.sql.table" && kv.Value.AsString() == table {
				return s
			}
		}
	}
	return nil
}

func hasAttr(span sdktrace.ReadOnlySpan, key attribute.Key) bool {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return true
		}
	}
	return false
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBSystemForDriver(t *testing.T) {
	assert.Equal(t, "sqlite", DBSystemForDriver("sqlite"))
	assert.Equal(t, "postgresql", DBSystemForDriver("postgres"))
	assert.Equal(t, "postgresql", DBSystemForDriver(""))
}

func TestDBTracingPlugin_RegisterOtelGorm_Disabled(t *testing.T) {
	db := setupTestDB(t)
	core, recorded := observer.New(zap.DebugLevel)

	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.New(core))
	require.NoError(t, plugin.RegisterOtelGorm(db))

	assert.Equal(t, 1, recorded.FilterMessage("Database tracing disabled, skipping otelgorm registration").Len())
	// nothing registered, so enabling later still works
	enabled := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, nil)
	assert.NoError(t, enabled.RegisterOtelGorm(db))
}

func TestDBTracingPlugin_RegisterOtelGorm_LogsConfiguration(t *testing.T) {
	db := setupTestDB(t)
	core, recorded := observer.New(zap.InfoLevel)

	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		LogFullSQL:      true,
		SlowQueryThresh: 150 * time.Millisecond,
		DBSystem:        "sqlite",
	}, zap.New(core))
	require.NoError(t, plugin.RegisterOtelGorm(db))

	logs := recorded.FilterMessage("Database tracing enabled").All()
	require.Len(t, logs, 1)
	fields := logs[0].ContextMap()
	assert.Equal(t, true, fields["log_full_sql"])
	assert.Equal(t, "sqlite", fields["db_system"])
}

func TestDBTracingPlugin_RegisterOtelGorm_DoubleRegistration(t *testing.T) {
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zap.NewNop())

	require.NoError(t, plugin.RegisterOtelGorm(db))
	assert.Error(t, plugin.RegisterOtelGorm(db))
}

func TestDBTracingPlugin_AnnotatesSpan(t *testing.T) {
	sr := setupGlobalTracer(t)
	db := tracedDB(t, time.Hour)

	err := db.WithContext(context.Background()).Create(&tracedOrder{DisplayID: "ORD-1", Status: "Pending"}).Error
	require.NoError(t, err)

	span := findTableSpan(sr.Ended(), "orders")
	require.NotNil(t, span, "insert span should carry the table name")
	assert.True(t, hasAttr(span, "db.rows_affected"))
	assert.False(t, hasAttr(span, "db.slow_query"))
	assert.NotEqual(t, codes.Error, span.Status().Code)
}

func TestDBTracingPlugin_SlowQuery(t *testing.T) {
	sr := setupGlobalTracer(t)
	db := tracedDB(t, time.Nanosecond)

	require.NoError(t, db.Create(&tracedOrder{DisplayID: "ORD-2", Status: "Packed"}).Error)

	span := findTableSpan(sr.Ended(), "orders")
	require.NotNil(t, span)
	assert.True(t, hasAttr(span, "db.slow_query"))

	var names []string
	for _, e := range span.Events() {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "slow_query_warning")
}

func TestDBTracingPlugin_RecordNotFoundIsNotAnError(t *testing.T) {
	sr := setupGlobalTracer(t)
	db := tracedDB(t, time.Hour)

	var order tracedOrder
	err := db.Where("display_id = ?", "ORD-MISSING").First(&order).Error
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	span := findTableSpan(sr.Ended(), "orders")
	require.NotNil(t, span)
	assert.NotEqual(t, codes.Error, span.Status().Code)
}

func TestDBTracingPlugin_MarksFailedStatement(t *testing.T) {
	sr := setupGlobalTracer(t)
	db := tracedDB(t, time.Hour)

	require.NoError(t, db.Create(&tracedOrder{DisplayID: "ORD-3", Status: "Pending"}).Error)
	// unique index on display_id
	require.Error(t, db.Create(&tracedOrder{DisplayID: "ORD-3", Status: "Pending"}).Error)

	var failed sdktrace.ReadOnlySpan
	for _, s := range sr.Ended() {
		if s.Status().Code == codes.Error {
			failed = s
		}
	}
	require.NotNil(t, failed)
	assert.Contains(t, failed.Status().Description, "UNIQUE")
}

func TestWithQueryStartTime(t *testing.T) {
	ctx := WithQueryStartTime(context.Background())

	startTime, ok := ctx.Value(queryStartTimeKey).(time.Time)
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now(), startTime, time.Second)
}

func TestAfterQuery_NonRecordingSpan(t *testing.T) {
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Nanosecond}, nil)

	tx := db.WithContext(WithQueryStartTime(context.Background()))
	assert.NotPanics(t, func() { plugin.afterQuery(tx) })
}
