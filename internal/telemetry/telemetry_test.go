package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/cr8s/cr8sapi/internal/config"
)

func TestInit_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := Init(context.Background(), config.ObservabilityConfig{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_RejectsGRPC(t *testing.T) {
	_, err := Init(context.Background(), config.ObservabilityConfig{
		OTLPEndpoint: "localhost:4317",
		OTLPProtocol: "grpc",
		ServiceName:  "cr8sapi",
	})
	assert.ErrorContains(t, err, "unsupported OTLP protocol")
}

func TestRecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := tp.Tracer("test").Start(context.Background(), "op")

	RecordError(span, nil)
	RecordError(span, errors.New("boom"))
	AddEvent(span, "checked")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 2)
	assert.Equal(t, "checked", spans[0].Events()[1].Name)
}

func TestMetricsConstructors(t *testing.T) {
	server, err := NewServerMetrics()
	require.NoError(t, err)
	server.RecordRequest(context.Background(), "GET", "/rustaceans", "500", 1.5)

	db, err := NewDatabaseMetrics()
	require.NoError(t, err)
	db.RecordQuery(context.Background(), "SELECT", 0.2, nil)

	auth, err := NewAuthMetrics()
	require.NoError(t, err)
	auth.RecordAuth(context.Background(), "password", false, 3)

	var nilAuth *AuthMetrics
	assert.NotPanics(t, func() {
		nilAuth.RecordAuth(context.Background(), "password", true, 1)
	})
}

func newTestMeterProvider() (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), reader
}

// counterTotal sums every data point of the named int64 counter.
func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 counter", name)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestServerMetrics_CountsServerErrors(t *testing.T) {
	mp, reader := newTestMeterProvider()
	m, err := newServerMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordRequest(ctx, "GET", "/crates/{id}", "200", 3)
	m.RecordRequest(ctx, "POST", "/crates", "404", 4)
	m.RecordRequest(ctx, "GET", "/rustaceans", "503", 12)

	assert.Equal(t, int64(3), counterTotal(t, reader, "cr8s.api.requests"))
	assert.Equal(t, int64(1), counterTotal(t, reader, "cr8s.api.server_errors"))
}

func TestDatabaseMetrics_CountsQueryErrors(t *testing.T) {
	mp, reader := newTestMeterProvider()
	m, err := newDatabaseMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordQuery(ctx, "INSERT", 1, nil)
	m.RecordQuery(ctx, "INSERT", 1, errors.New("constraint"))

	assert.Equal(t, int64(2), counterTotal(t, reader, "cr8s.store.queries"))
	assert.Equal(t, int64(1), counterTotal(t, reader, "cr8s.store.query_errors"))
}

func TestAuthMetrics_CountsRejections(t *testing.T) {
	mp, reader := newTestMeterProvider()
	m, err := newAuthMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordAuth(ctx, "password", true, 40)
	m.RecordAuth(ctx, "bearer", false, 1)
	m.RecordAuth(ctx, "role", false, 2)

	assert.Equal(t, int64(3), counterTotal(t, reader, "cr8s.iam.checks"))
	assert.Equal(t, int64(2), counterTotal(t, reader, "cr8s.iam.rejections"))
}
