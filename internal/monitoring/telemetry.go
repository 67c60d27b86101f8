package monitoring

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"campushub/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"google.golang.org/grpc/credentials/insecure"
)

type Telemetry interface {
	RecordSignup(ctx context.Context, kind string, success bool)
	RecordEventRegistration(ctx context.Context, success bool)
	Logger() *slog.Logger
	Shutdown(ctx context.Context) error
}

type OpenTelemetry struct {
	meterProvider *sdkmetric.MeterProvider
	config        config.TelemetryConfig

	signups            metric.Int64Counter
	eventRegistrations metric.Int64Counter
}

// NewOpenTelemetry creates a telemetry instance with an OTLP gRPC metric
// exporter. With telemetry disabled it degrades to a no-op that still
// hands out a stderr logger.
func NewOpenTelemetry(cfg config.TelemetryConfig) (Telemetry, error) {
	if !cfg.Enabled || cfg.ExporterURL == "" {
		slog.Info("Telemetry disabled or no exporter URL provided")
		return &OpenTelemetry{config: cfg}, nil
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
		attribute.String("deployment.environment", cfg.Environment),
	)

	metricExporter, err := otlpmetricgrpc.New(context.Background(),
		otlpmetricgrpc.WithEndpoint(cfg.ExporterURL),
		otlpmetricgrpc.WithTLSCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
			sdkmetric.WithInterval(10*time.Second))),
	)
	otel.SetMeterProvider(mp)

	tel := &OpenTelemetry{
		meterProvider: mp,
		config:        cfg,
	}
	if err := tel.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	slog.Info("Telemetry initialized successfully",
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"environment", cfg.Environment,
		"endpoint", cfg.ExporterURL,
	)

	return tel, nil
}

func (t *OpenTelemetry) initMetrics() error {
	meter := otel.Meter("campushub")

	var err error
	t.signups, err = meter.Int64Counter(
		"campushub_signups_total",
		metric.WithDescription("Total number of account signups"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create signups counter: %w", err)
	}

	t.eventRegistrations, err = meter.Int64Counter(
		"campushub_event_registrations_total",
		metric.WithDescription("Total number of event registrations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create event registrations counter: %w", err)
	}

	return nil
}

// RecordSignup counts a signup attempt. Kind is "user" or "admin".
func (t *OpenTelemetry) RecordSignup(ctx context.Context, kind string, success bool) {
	if !t.IsEnabled() || t.signups == nil {
		return
	}
	t.signups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("success", success),
	))
}

func (t *OpenTelemetry) RecordEventRegistration(ctx context.Context, success bool) {
	if !t.IsEnabled() || t.eventRegistrations == nil {
		return
	}
	t.eventRegistrations.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("success", success),
	))
}

// Logger returns the service logger. Logs always go to stderr; the OTLP
// pipeline carries metrics only.
func (t *OpenTelemetry) Logger() *slog.Logger {
	if t.config.Environment == config.EnvironmentDevelopment {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{AddSource: true, Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func (t *OpenTelemetry) Shutdown(ctx context.Context) error {
	if t.meterProvider == nil {
		return nil
	}
	if err := t.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}
	return nil
}

func (t *OpenTelemetry) IsEnabled() bool {
	return t.config.Enabled && t.meterProvider != nil
}
