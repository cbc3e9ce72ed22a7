// internal/requestinfo/requestinfo.go
//
// HTTP middleware that enriches each request with *Info.
//
/*
Context
--------
This handler sits high in the chain, right after panic recovery and before
access logging.  For every request it:

  1. Assigns a request ID (honouring a well-formed inbound X-Request-ID).
  2. Parses the User-Agent header and Accept-Language list.
  3. Extracts the left-most client IP from X-Forwarded-For or X-Real-IP,
     falling back to `r.RemoteAddr`.
  4. Performs a GeoLite2 lookup when a reader is configured.
  5. Stores the `*Info` value in `request.Context` and attaches a
     request-scoped zap logger carrying the request ID.

Notes
-----
  • All look-ups are read-only, so the middleware is safe under heavy
    concurrency.
  • The geo reader is optional.  Without one, Geo carries only the IP.
  • Oxford commas, two spaces after periods.  No em dash.
*/
package requestinfo

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/logger"
)

// HeaderRequestID is read from inbound requests and echoed on responses.
const HeaderRequestID = "X-Request-ID"

/*──────────────────────────── types ────────────────────────────────────────*/

// Geo holds IP-based geolocation hints.  These are best-effort and may be
// empty if the DB has no match.
type Geo struct {
	IP         net.IP
	CountryISO string // "US", "CA", "FR", ...
	City       string // "Chicago", "Paris", ...
}

// Info is inert: no pointers to handles or large buffers, so it is safe to
// log or JSON-encode.
type Info struct {
	ID        string
	UA        UA
	Geo       Geo
	Lang      string   // first Accept-Language tag, lower-cased
	URL       *url.URL // pointer copy, read-only
	Timestamp time.Time
}

// GeoLookup is the subset of *geoip2.Reader the enricher needs.
type GeoLookup interface {
	City(ip net.IP) (*geoip2.City, error)
}

// OpenGeo opens a GeoLite2-City database.  Callers keep the reader open for
// the life of the process and Close it on shutdown.
func OpenGeo(path string) (*geoip2.Reader, error) {
	return geoip2.Open(path)
}

/*──────────────────────────── enricher ─────────────────────────────────────*/

// Enricher builds *Info for each request.
type Enricher struct {
	geo GeoLookup
	log *zap.SugaredLogger
}

// NewEnricher returns an Enricher.  geo may be nil.
func NewEnricher(geo GeoLookup, log *zap.SugaredLogger) *Enricher {
	if log == nil {
		log = zap.S()
	}
	return &Enricher{geo: geo, log: log}
}

// Middleware wraps next, attaches *Info and a request logger, and forwards.
func (e *Enricher) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := e.Build(r)
		w.Header().Set(HeaderRequestID, info.ID)

		reqLog := e.log.With("request_id", info.ID)
		reqLog.Debugw("request info",
			"ip", info.Geo.IP,
			"country", info.Geo.CountryISO,
			"browser", info.UA.Browser,
			"device", info.UA.Device,
			"bot", info.UA.IsBot,
			"path", r.URL.Path,
		)

		ctx := WithInfo(r.Context(), info)
		ctx = logger.WithContext(ctx, reqLog)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Build collects Info for r without touching its context.
func (e *Enricher) Build(r *http.Request) *Info {
	id := r.Header.Get(HeaderRequestID)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	return &Info{
		ID:        id,
		UA:        ParseUA(r.UserAgent()),
		Geo:       e.lookupGeo(clientIP(r)),
		Lang:      primaryLang(r.Header.Get("Accept-Language")),
		URL:       r.URL,
		Timestamp: time.Now().UTC(),
	}
}

func (e *Enricher) lookupGeo(ip net.IP) Geo {
	if e.geo == nil || ip == nil {
		return Geo{IP: ip}
	}
	rec, err := e.geo.City(ip)
	if err != nil {
		return Geo{IP: ip}
	}
	return Geo{
		IP:         ip,
		CountryISO: rec.Country.IsoCode,
		City:       rec.City.Names["en"],
	}
}

/*──────────────────────────── context ──────────────────────────────────────*/

type ctxKey struct{}

// WithInfo stores info in ctx.
func WithInfo(ctx context.Context, info *Info) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

// FromContext returns the pointer stored by the middleware, or nil.
func FromContext(ctx context.Context) *Info {
	v, _ := ctx.Value(ctxKey{}).(*Info)
	return v
}

/*──────────────────────────── client IP helper ─────────────────────────────*/

// clientIP extracts the left-most address from X-Forwarded-For or
// X-Real-IP, falling back to r.RemoteAddr ("ip:port").
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return nil
}
