package observability

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Tracer is the package-wide tracer that StartAnalyzeSpan starts spans
// from. Analyze, LoadRuleFile and VerifyRules do not start spans
// themselves.
var Tracer = otel.Tracer("github.com/surfaceguard/ruleanalyzer")

// InitOpenTelemetry dials the OTLP collector named by
// OTEL_EXPORTER_OTLP_ENDPOINT (default localhost:4317), registers a
// batch span processor and an always-on sampler, and installs the
// tracecontext+baggage propagator globally. The returned func flushes
// and shuts the pipeline down; callers should defer it.
func InitOpenTelemetry(ctx context.Context, serviceName, serviceVersion string) (func(context.Context) error, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:4317"
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("building otel resource: %w", err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	conn, err := grpc.DialContext(dialCtx, endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	if err != nil {
		return nil, fmt.Errorf("dialing otlp collector at %s: %w", endpoint, err)
	}

	exporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(otlptracegrpc.WithGRPCConn(conn)))
	if err != nil {
		return nil, fmt.Errorf("creating otlp trace exporter: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(exporter)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	Tracer = tp.Tracer("github.com/surfaceguard/ruleanalyzer")

	return func(shutdownCtx context.Context) error {
		if err := tp.ForceFlush(shutdownCtx); err != nil {
			Warn(shutdownCtx, "otel force flush failed: %v", err)
		}
		if err := tp.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return conn.Close()
	}, nil
}

// InitOpenTelemetryOrNoop wraps InitOpenTelemetry, downgrading a dial or
// export-setup failure to a warning and a no-op shutdown func rather
// than a fatal error, since tracing is strictly ambient: the analyzer
// itself works correctly with no collector present.
func InitOpenTelemetryOrNoop(ctx context.Context, serviceName, serviceVersion string) func(context.Context) error {
	shutdown, err := InitOpenTelemetry(ctx, serviceName, serviceVersion)
	if err != nil {
		Warn(ctx, "tracing disabled: %v", err)
		return func(context.Context) error { return nil }
	}
	return shutdown
}

// StartAnalyzeSpan starts a span around one Analyze call.
func StartAnalyzeSpan(ctx context.Context, resultType string) (context.Context, trace.Span) {
	return Tracer.Start(ctx, "ruleanalyzer.Analyze", trace.WithAttributes(
		attribute.String("result_type", resultType),
	))
}
