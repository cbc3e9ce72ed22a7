// internal/middleware/accesslog.go
//
// Access log and request metrics.
//
// One INFO line per request through the request-scoped zap logger (so the
// request ID rides along), plus the Prometheus request counter and latency
// histogram.  The route label is chi's matched pattern, read after the
// handler ran, so "/static/*" stays one series however many files exist.
//
// Must sit inside requestinfo.Middleware to see UA and geo fields.

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yanizio/folio/internal/logger"
	"github.com/yanizio/folio/internal/metrics"
	"github.com/yanizio/folio/internal/requestinfo"
)

// AccessLog logs and measures every request.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		route := ""
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		metrics.ObserveRequest(r.Method, route, status, elapsed.Seconds())

		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
		}
		if info := requestinfo.FromContext(r.Context()); info != nil {
			fields = append(fields,
				"browser", info.UA.Browser,
				"device", info.UA.Device,
				"bot", info.UA.IsBot,
				"country", info.Geo.CountryISO,
			)
		}
		logger.FromContext(r.Context()).Infow("http request", fields...)
	})
}
