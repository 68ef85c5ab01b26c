package observability

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// dashboardRoutes is the fixed route set the dashboard server exposes. Spans
// are named by route template so traces group by endpoint; anything else is
// collapsed into a single "unmatched" bucket.
var dashboardRoutes = map[string]struct{}{
	"/":                {},
	"/api/projections": {},
	"/api/cache":       {},
	"/healthz":         {},
	"/metrics":         {},
}

// filterParams are the selection query parameters recorded on request spans,
// so a trace shows which filter produced it.
var filterParams = []string{
	"genre", "year_min", "year_max", "score_min", "score_max", "unknown_years",
}

func routeTemplate(path string) string {
	if _, ok := dashboardRoutes[path]; ok {
		return path
	}

	return "unmatched"
}

func selectionAttrs(hr *http.Request) []attribute.KeyValue {
	query := hr.URL.Query()

	attrs := make([]attribute.KeyValue, 0, len(filterParams))

	for _, p := range filterParams {
		if v := query.Get(p); v != "" {
			attrs = append(attrs, attribute.String("filter."+p, v))
		}
	}

	return attrs
}

// responseRecorder wraps [http.ResponseWriter] to capture the status code.
// A zero code means the handler never wrote; status() reports that as 200,
// matching net/http's implicit behavior.
type responseRecorder struct {
	http.ResponseWriter

	code int
}

func (rr *responseRecorder) WriteHeader(code int) {
	if rr.code == 0 {
		rr.code = code
	}

	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(buf []byte) (int, error) {
	if rr.code == 0 {
		rr.code = http.StatusOK
	}

	n, err := rr.ResponseWriter.Write(buf)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}

	return n, nil
}

func (rr *responseRecorder) status() int {
	if rr.code == 0 {
		return http.StatusOK
	}

	return rr.code
}

// HTTPMiddleware traces each dashboard request. Spans are named
// "METHOD <route template>", carry the filter query parameters as
// attributes, and are marked failed on 5xx responses.
func HTTPMiddleware(tracer trace.Tracer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		route := routeTemplate(hr.URL.Path)

		// Extract W3C traceparent/tracestate/baggage from incoming headers.
		parentCtx := otel.GetTextMapPropagator().Extract(hr.Context(), propagation.HeaderCarrier(hr.Header))

		ctx, span := tracer.Start(parentCtx, hr.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(hr.Method),
				semconv.HTTPRouteKey.String(route),
			),
			trace.WithAttributes(selectionAttrs(hr)...),
		)
		defer span.End()

		rec := &responseRecorder{ResponseWriter: rw}
		next.ServeHTTP(rec, hr.WithContext(ctx))

		span.SetAttributes(semconv.HTTPResponseStatusCode(rec.status()))

		if rec.status() >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status()))
		}
	})
}
