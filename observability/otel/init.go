package otel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const defaultEndpoint = "localhost:4318"

// Resource attribute keys describing the ledger a replay runs against.
const (
	LedgerBackendKey       = attribute.Key("unichain.ledger.backend")
	LedgerAddressPrefixKey = attribute.Key("unichain.ledger.address_prefix")
	DurationCheckKey       = attribute.Key("unichain.actuator.check_frozen_time")
)

// Config selects which block-processing signals leave the process over OTLP.
// Spans come from the state processor (apply_block, apply_contract); metrics
// mirror the actuator counters.
type Config struct {
	ServiceName string
	Environment string
	Endpoint    string
	Insecure    bool
	Headers     map[string]string
	Metrics     bool
	Traces      bool
	// SampleRatio is the fraction of block spans kept. Zero keeps all.
	SampleRatio float64

	LedgerBackend   string
	AddressPrefix   byte
	CheckFrozenTime int
}

// Enabled reports whether any exporter is requested.
func (c Config) Enabled() bool {
	return c.Traces || c.Metrics
}

// Resource describes the replaying process and the ledger it writes.
func (c Config) Resource() (*resource.Resource, error) {
	if strings.TrimSpace(c.ServiceName) == "" {
		return nil, fmt.Errorf("service name required for telemetry")
	}
	attrs := []attribute.KeyValue{
		semconv.ServiceNameKey.String(c.ServiceName),
		LedgerAddressPrefixKey.String(fmt.Sprintf("0x%02x", c.AddressPrefix)),
		DurationCheckKey.Bool(c.CheckFrozenTime == 1),
	}
	if c.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironmentKey.String(c.Environment))
	}
	if c.LedgerBackend != "" {
		attrs = append(attrs, LedgerBackendKey.String(c.LedgerBackend))
	}
	return resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
}

// Init installs global providers for the replay's spans and actuator metrics
// and returns their shutdown hook. With nothing enabled the no-op providers
// stay in place and the hook does nothing.
func Init(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	if !cfg.Enabled() {
		return func(context.Context) error { return nil }, nil
	}
	res, err := cfg.Resource()
	if err != nil {
		return nil, err
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}

	var shutdownFns []func(context.Context) error
	if cfg.Traces {
		tp, err := newTracerProvider(ctx, cfg, res)
		if err != nil {
			return nil, err
		}
		otel.SetTracerProvider(tp)
		shutdownFns = append(shutdownFns, tp.Shutdown)
	}
	if cfg.Metrics {
		mp, err := newMeterProvider(ctx, cfg, res)
		if err != nil {
			return nil, joinShutdown(shutdownFns)(ctx, err)
		}
		otel.SetMeterProvider(mp)
		shutdownFns = append(shutdownFns, mp.Shutdown)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return func(ctx context.Context) error {
		return joinShutdown(shutdownFns)(ctx, nil)
	}, nil
}

func newTracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create block span exporter: %w", err)
	}
	// Contract spans follow their block's sampling decision.
	sampler := sdktrace.AlwaysSample()
	if cfg.SampleRatio > 0 && cfg.SampleRatio < 1 {
		sampler = sdktrace.TraceIDRatioBased(cfg.SampleRatio)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(2*time.Second),
			sdktrace.WithMaxExportBatchSize(512),
		),
	), nil
}

func newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(cfg.Headers))
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create actuator metric exporter: %w", err)
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second))),
	), nil
}

// joinShutdown stops providers in reverse order, returning cause if set and
// otherwise the first shutdown error.
func joinShutdown(fns []func(context.Context) error) func(context.Context, error) error {
	return func(ctx context.Context, cause error) error {
		for i := len(fns) - 1; i >= 0; i-- {
			if err := fns[i](ctx); err != nil && cause == nil {
				cause = err
			}
		}
		return cause
	}
}

// ParseHeaders converts a comma-separated OTEL header string (key=value,foo=bar)
// into a map suitable for the exporter configuration.
func ParseHeaders(raw string) map[string]string {
	headers := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			continue
		}
		if key = strings.TrimSpace(key); key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers
}
