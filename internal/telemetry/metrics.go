package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "cr8sapi"

// Latency buckets in milliseconds. Password checks run a full argon2
// derivation, so the auth histogram reaches further than the query one.
var (
	requestBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}
	queryBuckets   = []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250}
	authBuckets    = []float64{1, 5, 25, 50, 100, 250, 500, 1000, 2000}
)

// instruments is the count/latency/failure triple every recorder here keeps.
type instruments struct {
	total    metric.Int64Counter
	latency  metric.Float64Histogram
	failures metric.Int64Counter
}

type instrumentNames struct {
	total, latency, failures string
	subject                  string
	buckets                  []float64
}

func newInstruments(mp metric.MeterProvider, n instrumentNames) (instruments, error) {
	meter := mp.Meter(meterName)

	total, err := meter.Int64Counter(n.total,
		metric.WithDescription("Number of "+n.subject),
		metric.WithUnit("1"))
	if err != nil {
		return instruments{}, err
	}

	latency, err := meter.Float64Histogram(n.latency,
		metric.WithDescription("Latency of "+n.subject),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(n.buckets...))
	if err != nil {
		return instruments{}, err
	}

	failures, err := meter.Int64Counter(n.failures,
		metric.WithDescription("Number of failed "+n.subject),
		metric.WithUnit("1"))
	if err != nil {
		return instruments{}, err
	}

	return instruments{total: total, latency: latency, failures: failures}, nil
}

func (i instruments) record(ctx context.Context, durationMs float64, failed bool, attrs ...attribute.KeyValue) {
	opt := metric.WithAttributes(attrs...)
	i.total.Add(ctx, 1, opt)
	i.latency.Record(ctx, durationMs, opt)
	if failed {
		i.failures.Add(ctx, 1, opt)
	}
}

// ServerMetrics records API requests per route. Failures are 5xx responses.
type ServerMetrics struct {
	instruments
}

// NewServerMetrics registers the request instruments on the global meter
// provider.
func NewServerMetrics() (*ServerMetrics, error) {
	return newServerMetrics(otel.GetMeterProvider())
}

func newServerMetrics(mp metric.MeterProvider) (*ServerMetrics, error) {
	in, err := newInstruments(mp, instrumentNames{
		total:    "cr8s.api.requests",
		latency:  "cr8s.api.request.latency",
		failures: "cr8s.api.server_errors",
		subject:  "API requests served",
		buckets:  requestBuckets,
	})
	if err != nil {
		return nil, err
	}
	return &ServerMetrics{in}, nil
}

// RecordRequest records one request; status is the decimal status code.
func (m *ServerMetrics) RecordRequest(ctx context.Context, method, route, status string, durationMs float64) {
	m.record(ctx, durationMs, len(status) > 0 && status[0] == '5',
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrHTTPRoute, route),
		attribute.String(AttrHTTPStatusCode, status),
	)
}

// DatabaseMetrics records store queries by bun operation.
type DatabaseMetrics struct {
	instruments
}

// NewDatabaseMetrics registers the query instruments on the global meter
// provider.
func NewDatabaseMetrics() (*DatabaseMetrics, error) {
	return newDatabaseMetrics(otel.GetMeterProvider())
}

func newDatabaseMetrics(mp metric.MeterProvider) (*DatabaseMetrics, error) {
	in, err := newInstruments(mp, instrumentNames{
		total:    "cr8s.store.queries",
		latency:  "cr8s.store.query.latency",
		failures: "cr8s.store.query_errors",
		subject:  "record store queries",
		buckets:  queryBuckets,
	})
	if err != nil {
		return nil, err
	}
	return &DatabaseMetrics{in}, nil
}

// RecordQuery records one query; operation is SELECT, INSERT, UPDATE or DELETE.
func (d *DatabaseMetrics) RecordQuery(ctx context.Context, operation string, durationMs float64, err error) {
	d.record(ctx, durationMs, err != nil, attribute.String(AttrDBOperation, operation))
}

// AuthMetrics records identity checks: password logins, bearer resolution
// and role checks.
type AuthMetrics struct {
	instruments
}

// NewAuthMetrics registers the identity instruments on the global meter
// provider.
func NewAuthMetrics() (*AuthMetrics, error) {
	return newAuthMetrics(otel.GetMeterProvider())
}

func newAuthMetrics(mp metric.MeterProvider) (*AuthMetrics, error) {
	in, err := newInstruments(mp, instrumentNames{
		total:    "cr8s.iam.checks",
		latency:  "cr8s.iam.check.latency",
		failures: "cr8s.iam.rejections",
		subject:  "identity checks (login, bearer, role)",
		buckets:  authBuckets,
	})
	if err != nil {
		return nil, err
	}
	return &AuthMetrics{in}, nil
}

// RecordAuth records one check. A nil receiver is a no-op so the IAM service
// runs without metrics in tests.
func (a *AuthMetrics) RecordAuth(ctx context.Context, method string, success bool, durationMs float64) {
	if a == nil {
		return
	}
	a.record(ctx, durationMs, !success,
		attribute.String(AttrAuthMethod, method),
		attribute.Bool(AttrAuthSuccess, success),
	)
}

// Metric attribute keys.
const (
	AttrHTTPMethod     = "http.method"
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatusCode = "http.status_code"

	AttrDBOperation = "db.operation"

	// password, bearer or role
	AttrAuthMethod  = "auth.method"
	AttrAuthSuccess = "auth.success"
)
