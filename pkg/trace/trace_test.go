package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	"github.com/luminahq/lumina/internal/common/config"
)

func TestInitTracing_HTTPDefaults(t *testing.T) {
	// http protocol avoids opening a gRPC connection in tests; the
	// batcher only connects on export, which never happens here
	cfg := &config.TracingConfig{
		Enabled:     true,
		ServiceName: "lumina-test",
		Protocol:    "http",
		Insecure:    true,
		SamplerRate: 1.5, // clamped to 1
	}

	shutdown, err := InitTracing(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))
}

func TestBuilderSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(resource.Empty()),
	)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	scope := Tracer("test").Start(context.Background(), "approve").
		WithAttrs(attribute.String("tenant_id", "t1"))
	require.NotNil(t, scope.Ctx)
	scope.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, "approve", spans[0].Name)
	require.Contains(t, spans[0].Attributes, attribute.String("tenant_id", "t1"))

	// nil scope helpers must not panic
	var nilScope *SpanScope
	nilScope.WithAttrs(attribute.Bool("x", true))
	nilScope.End()
}
