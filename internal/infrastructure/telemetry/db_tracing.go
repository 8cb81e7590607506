package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool          // Enable database tracing
	LogFullSQL      bool          // Include query variables in spans (dev only)
	SlowQueryThresh time.Duration // Threshold for marking queries as slow
	DBSystem        string        // Database system name reported on spans
}

// DefaultDBTracingConfig returns default configuration for database tracing.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:         false,
		LogFullSQL:      false,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBSystemForDriver maps a configured database driver to its semantic-convention name
func DBSystemForDriver(driver string) string {
	if driver == "sqlite" {
		return "sqlite"
	}
	return "postgresql"
}

// DBTracingPlugin wraps otelgorm with slow query detection.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin with the given configuration.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

type gormRegister interface {
	Register(name string, fn func(*gorm.DB)) error
}

// RegisterOtelGorm registers otelgorm on db along with the timing callbacks
// that flag slow queries on the current span.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := p.registerCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

// registerCallbacks stamps the start time before each operation and inspects
// the result after it, while the otelgorm span is still open.
func (p *DBTracingPlugin) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		callback gormRegister
		hook     func(*gorm.DB)
		name     string
	}{
		{cb.Create().Before("gorm:create"), markQueryStart, "otel_timing:before_create"},
		{cb.Create().After("gorm:create").Before("otel:after:create"), p.afterQuery, "otel_slow_query:create"},

		{cb.Query().Before("gorm:query"), markQueryStart, "otel_timing:before_query"},
		{cb.Query().After("gorm:query").Before("otel:after:select"), p.afterQuery, "otel_slow_query:query"},

		{cb.Update().Before("gorm:update"), markQueryStart, "otel_timing:before_update"},
		{cb.Update().After("gorm:update").Before("otel:after:update"), p.afterQuery, "otel_slow_query:update"},

		{cb.Delete().Before("gorm:delete"), markQueryStart, "otel_timing:before_delete"},
		{cb.Delete().After("gorm:delete").Before("otel:after:delete"), p.afterQuery, "otel_slow_query:delete"},

		{cb.Row().Before("gorm:row"), markQueryStart, "otel_timing:before_row"},
		{cb.Row().After("gorm:row").Before("otel:after:row"), p.afterQuery, "otel_slow_query:row"},

		{cb.Raw().Before("gorm:raw"), markQueryStart, "otel_timing:before_raw"},
		{cb.Raw().After("gorm:raw").Before("otel:after:raw"), p.afterQuery, "otel_slow_query:raw"},
	}

	for _, h := range hooks {
		if err := h.callback.Register(h.name, h.hook); err != nil {
			return err
		}
	}
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = WithQueryStartTime(db.Statement.Context)
	}
}

// afterQuery annotates the current span with the statement outcome.
func (p *DBTracingPlugin) afterQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// a missing order or return request is an expected outcome
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		elapsed := time.Since(startTime)
		if elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// WithQueryStartTime returns a context carrying the current time as the query start.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}
