package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricQueriesTotal    = "filmfilter.queries.total"
	metricQueryDuration   = "filmfilter.query.duration.seconds"
	metricErrorsTotal     = "filmfilter.errors.total"
	metricInflightQueries = "filmfilter.inflight.queries"

	attrOp     = "op"
	attrStatus = "status"

	statusError = "error"

	// StatusOK marks a successful query.
	StatusOK = "ok"
)

// durationBucketBoundaries covers 1ms to 10s; pipeline runs are in-memory
// transforms that complete well under a second on realistic datasets.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// QueryMetrics holds the OTel instruments for Rate, Error, Duration metrics
// of pipeline queries.
type QueryMetrics struct {
	queriesTotal    metric.Int64Counter
	queryDuration   metric.Float64Histogram
	errorsTotal     metric.Int64Counter
	inflightQueries metric.Int64UpDownCounter
}

// NewQueryMetrics creates the query metric instruments from the given meter.
func NewQueryMetrics(mt metric.Meter) (*QueryMetrics, error) {
	total, err := mt.Int64Counter(metricQueriesTotal,
		metric.WithDescription("Total number of pipeline queries"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricQueriesTotal, err)
	}

	duration, err := mt.Float64Histogram(metricQueryDuration,
		metric.WithDescription("Pipeline query duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricQueryDuration, err)
	}

	errTotal, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Total number of query errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightQueries,
		metric.WithDescription("Number of in-flight queries"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightQueries, err)
	}

	return &QueryMetrics{
		queriesTotal:    total,
		queryDuration:   duration,
		errorsTotal:     errTotal,
		inflightQueries: inflight,
	}, nil
}

// RecordQuery records a completed query with its operation, status, and
// duration.
func (qm *QueryMetrics) RecordQuery(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	qm.queriesTotal.Add(ctx, 1, attrs)
	qm.queryDuration.Record(ctx, duration.Seconds(), attrs)

	if status == statusError {
		qm.errorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrOp, op),
		))
	}
}

// TrackInflight increments the in-flight gauge and returns a function to
// decrement it.
func (qm *QueryMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	qm.inflightQueries.Add(ctx, 1, attrs)

	return func() {
		qm.inflightQueries.Add(ctx, -1, attrs)
	}
}
