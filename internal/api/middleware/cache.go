package middleware

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/canvord/blog-api/internal/api/metrics"
	"github.com/canvord/blog-api/internal/core/ports"
)

const DefaultCacheTTL = 60 * time.Second

// RequestView is the read-only slice of a request that cache strategies see.
type RequestView struct {
	Method   string
	Path     string // escaped path
	RawQuery string // without the leading '?'
}

// RequestURI returns the path followed by the raw query, if any.
func (v RequestView) RequestURI() string {
	if v.RawQuery == "" {
		return v.Path
	}
	return v.Path + "?" + v.RawQuery
}

// KeyGenerator derives the cache key for a request.
type KeyGenerator func(RequestView) string

// Filter reports whether a request takes part in caching.
type Filter func(RequestView) bool

// RequestURIKey keys on the full request URI, query included verbatim.
func RequestURIKey(v RequestView) string {
	return v.RequestURI()
}

// CanonicalQueryKey keys on the path plus the query fragments that contain
// exactly one '=', in their original order. Malformed fragments are dropped,
// so "?page=1&per=10&junk" and "?page=1&per=10" share a key.
func CanonicalQueryKey(v RequestView) string {
	if v.RawQuery == "" {
		return v.Path
	}
	kept := make([]string, 0, strings.Count(v.RawQuery, "&")+1)
	for _, frag := range strings.Split(v.RawQuery, "&") {
		if strings.Count(frag, "=") == 1 {
			kept = append(kept, frag)
		}
	}
	if len(kept) == 0 {
		return v.Path
	}
	return v.Path + "?" + strings.Join(kept, "&")
}

// GetOnly admits GET requests.
func GetOnly(v RequestView) bool {
	return v.Method == http.MethodGet
}

// CacheConfig configures the response cache. It is read-only once Cache is called.
type CacheConfig struct {
	// Store holds cached bodies. Required.
	Store ports.ResponseStore
	// TTL is the store-side expiry of each entry. Defaults to DefaultCacheTTL.
	TTL time.Duration
	// KeyGenerator defaults to RequestURIKey.
	KeyGenerator KeyGenerator
	// Filter defaults to GetOnly. Rejected requests go straight to the handler.
	Filter Filter
	// ContentType is sent with cache hits. Defaults to application/json.
	ContentType string
	// MaxBodyBytes caps the size of a cacheable body. Zero means no limit;
	// larger bodies are still returned but never stored.
	MaxBodyBytes int
	// FailOpenOnWrite returns the fresh response when the store write fails
	// instead of answering 500.
	FailOpenOnWrite bool
	// Coalesce lets concurrent misses on one key share a single handler call.
	// Without it every concurrent miss invokes the handler and overwrites the entry.
	// The shared call runs on the first request's context, so if that client
	// goes away the handler may fail for every waiter; the store write is
	// detached from cancellation. A panic in the shared call is reported to
	// all waiters as a 500.
	Coalesce bool
	Logger   zerolog.Logger
}

// Cache serves GET responses from cfg.Store and fills it on misses.
//
// Only 200 responses from handlers that return no error are stored. Store
// failures surface as 500 with a generic message; the cause is logged.
// Response bodies are buffered in memory in full.
func Cache(cfg CacheConfig) echo.MiddlewareFunc {
	if cfg.Store == nil {
		panic("cache middleware requires a store")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	if cfg.KeyGenerator == nil {
		cfg.KeyGenerator = RequestURIKey
	}
	if cfg.Filter == nil {
		cfg.Filter = GetOnly
	}
	if cfg.ContentType == "" {
		cfg.ContentType = echo.MIMEApplicationJSON
	}

	m := &responseCache{cfg: cfg, log: cfg.Logger.With().Str("component", "cache").Logger()}
	if cfg.Coalesce {
		m.inflight = &singleflight.Group{}
	}
	return m.handle
}

type responseCache struct {
	cfg      CacheConfig
	log      zerolog.Logger
	inflight *singleflight.Group
}

// capturedResponse is a fully buffered downstream response.
type capturedResponse struct {
	status      int
	contentType string
	body        []byte
}

func (m *responseCache) handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		view := RequestView{Method: req.Method, Path: req.URL.EscapedPath(), RawQuery: req.URL.RawQuery}
		route := c.Path()

		if !m.cfg.Filter(view) {
			metrics.CacheRequestsTotal.WithLabelValues(route, "bypass").Inc()
			return next(c)
		}

		key := m.cfg.KeyGenerator(view)
		cached, hit, err := m.cfg.Store.Get(req.Context(), key)
		if err != nil {
			metrics.CacheStoreErrorsTotal.WithLabelValues("get").Inc()
			m.log.Error().Err(err).Str("op", "get").Str("key", key).Msg("cache store unreachable")
			return internalError(err)
		}
		if hit {
			metrics.CacheRequestsTotal.WithLabelValues(route, "hit").Inc()
			return c.Blob(http.StatusOK, m.cfg.ContentType, cached)
		}
		metrics.CacheRequestsTotal.WithLabelValues(route, "miss").Inc()

		var resp *capturedResponse
		if m.inflight == nil {
			resp, err = m.fill(c, next, key)
		} else {
			var v interface{}
			v, err, _ = m.inflight.Do(key, func() (filled interface{}, fillErr error) {
				defer func() {
					if r := recover(); r != nil {
						m.log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Str("key", key).
							Msg("cached handler panicked")
						fillErr = internalError(fmt.Errorf("cached handler panicked: %v", r))
					}
				}()
				return m.fill(c, next, key)
			})
			if err == nil {
				resp = v.(*capturedResponse)
			}
		}
		if err != nil {
			return err
		}

		contentType := resp.contentType
		if contentType == "" {
			contentType = m.cfg.ContentType
		}
		return c.Blob(resp.status, contentType, resp.body)
	}
}

// fill runs the handler against a buffer and stores a cacheable result.
func (m *responseCache) fill(c echo.Context, next echo.HandlerFunc, key string) (*capturedResponse, error) {
	resp, err := capture(c, next)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.status != http.StatusOK:
		metrics.CacheSkippedTotal.WithLabelValues("status").Inc()
	case m.cfg.MaxBodyBytes > 0 && len(resp.body) > m.cfg.MaxBodyBytes:
		metrics.CacheSkippedTotal.WithLabelValues("too_large").Inc()
	default:
		ctx := context.WithoutCancel(c.Request().Context())
		if err := m.cfg.Store.Set(ctx, key, resp.body, m.cfg.TTL); err != nil {
			metrics.CacheStoreErrorsTotal.WithLabelValues("set").Inc()
			m.log.Error().Err(err).Str("op", "set").Str("key", key).Bool("fail_open", m.cfg.FailOpenOnWrite).
				Msg("cache store write failed")
			if !m.cfg.FailOpenOnWrite {
				return nil, internalError(err)
			}
		}
	}
	return resp, nil
}

// capture runs next with the response writer swapped for a buffer. Nothing
// reaches the client; the echo response is reset so the caller (or the error
// handler, also after a panic) can write it afresh.
func capture(c echo.Context, next echo.HandlerFunc) (*capturedResponse, error) {
	res := c.Response()
	buf := &bufferedWriter{ResponseWriter: res.Writer}
	res.Writer = buf

	defer func() {
		res.Writer = buf.ResponseWriter
		res.Committed = false
		res.Size = 0
	}()

	err := next(c)

	status := res.Status
	if status == 0 {
		status = http.StatusOK
	}
	if err != nil {
		return nil, err
	}
	return &capturedResponse{
		status:      status,
		contentType: res.Header().Get(echo.HeaderContentType),
		body:        buf.body.Bytes(),
	}, nil
}

func internalError(cause error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(cause)
}

// bufferedWriter holds the body in memory. Headers go to the
// wrapped writer's header map and are sent when the response is replayed.
type bufferedWriter struct {
	http.ResponseWriter
	body bytes.Buffer
}

// WriteHeader is a no-op; echo.Response already records the status.
func (w *bufferedWriter) WriteHeader(int) {}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *bufferedWriter) Flush() {}
