package telemetry

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/bodhitab/quote-service/internal/platform/logging"
)

const instrumentationName = "github.com/bodhitab/quote-service/internal/platform/telemetry"

// HeaderTraceID echoes the active trace id so the new-tab page can report it.
const HeaderTraceID = "X-Trace-ID"

// unmatchedRoute labels requests that hit no registered route.
const unmatchedRoute = "unmatched"

type serverInstruments struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	inflight metric.Int64UpDownCounter
}

func newServerInstruments(meter metric.Meter) (*serverInstruments, error) {
	duration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requests, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	inflight, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &serverInstruments{duration: duration, requests: requests, inflight: inflight}, nil
}

// Middleware records request metrics to both OpenTelemetry and the
// Prometheus registry, echoes the trace id in X-Trace-ID, and adds trace_id
// to the request logger. Install it after TracingMiddleware.
func Middleware() gin.HandlerFunc {
	inst, err := newServerInstruments(otel.Meter(instrumentationName))
	if err != nil {
		otel.Handle(err)
		inst = nil
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Header(HeaderTraceID, traceID)
			ctx = logging.WithTraceID(ctx, traceID)
			c.Request = c.Request.WithContext(ctx)
		}

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		method := c.Request.Method
		routeAttrs := metric.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", route),
		)

		if inst != nil {
			inst.inflight.Add(ctx, 1, routeAttrs)
			defer inst.inflight.Add(ctx, -1, routeAttrs)
		}

		start := time.Now()

		c.Next()

		elapsed := time.Since(start).Seconds()
		status := c.Writer.Status()

		HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(method, route).Observe(elapsed)

		if inst != nil {
			attrs := metric.WithAttributes(
				attribute.String("http.method", method),
				attribute.String("http.route", route),
				attribute.Int("http.status_code", status),
			)
			inst.duration.Record(ctx, elapsed, attrs)
			inst.requests.Add(ctx, 1, attrs)
		}
	}
}

// TracingMiddleware returns the otelgin tracing middleware.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}
