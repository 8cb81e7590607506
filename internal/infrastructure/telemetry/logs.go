package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerProvider ships zap entries to the collector as OTLP log records
type LoggerProvider struct {
	provider    *sdklog.LoggerProvider
	serviceName string
	logger      *zap.Logger
}

// NewLoggerProvider installs a batching OTLP/gRPC log provider as the otel
// global. The logger may be nil: the application logger is built from this
// provider's Core, so it does not exist yet when main calls this.
func NewLoggerProvider(ctx context.Context, cfg Config, logger *zap.Logger) (*LoggerProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	lp := &LoggerProvider{serviceName: cfg.ServiceName, logger: logger}

	if !cfg.Enabled {
		return lp, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}

	res, err := cfg.resource()
	if err != nil {
		return nil, err
	}

	lp.provider = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(lp.provider)
	return lp, nil
}

// Enabled reports whether log records are exported
func (lp *LoggerProvider) Enabled() bool {
	return lp != nil && lp.provider != nil
}

// Core returns a zapcore.Core forwarding entries at or above level to the
// collector, for logger.New to tee with the console core. Disabled providers
// return a no-op core.
func (lp *LoggerProvider) Core(level zapcore.Level) zapcore.Core {
	if !lp.Enabled() {
		return zapcore.NewNopCore()
	}

	core := otelzap.NewCore(lp.serviceName, otelzap.WithLoggerProvider(lp.provider))
	// otelzap has no minimum level of its own
	filtered, err := zapcore.NewIncreaseLevelCore(core, level)
	if err != nil {
		return core
	}
	return filtered
}

// WithLogger sets the logger used to report shutdown, once one exists
func (lp *LoggerProvider) WithLogger(logger *zap.Logger) *LoggerProvider {
	if logger != nil {
		lp.logger = logger
	}
	return lp
}

// Shutdown flushes pending records and stops the exporter
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if !lp.Enabled() {
		return nil
	}
	return shutdown(ctx, lp.logger, "logger", lp.provider.Shutdown)
}
