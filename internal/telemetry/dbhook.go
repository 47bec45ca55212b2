package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// QueryHook feeds bun query events into DatabaseMetrics.
type QueryHook struct {
	metrics *DatabaseMetrics
}

var _ bun.QueryHook = (*QueryHook)(nil)

// NewQueryHook returns a hook to register with bun.DB.AddQueryHook.
func NewQueryHook(metrics *DatabaseMetrics) *QueryHook {
	return &QueryHook{metrics: metrics}
}

func (h *QueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	err := event.Err
	// An empty result is not a failed query.
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}

	durationMs := float64(time.Since(event.StartTime).Microseconds()) / 1000
	h.metrics.RecordQuery(ctx, event.Operation(), durationMs, err)
}
