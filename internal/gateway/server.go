package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/saiisback/search-engine/internal/cache/memory"
	"github.com/saiisback/search-engine/internal/metrics"
	"github.com/saiisback/search-engine/internal/ratelimit"
	"github.com/saiisback/search-engine/internal/repository"
	"github.com/saiisback/search-engine/internal/scrape"
)

type Config struct {
	Addr string
}

// Server is the HTTP gateway: it scrapes search engines and web pages on
// behalf of API clients, with caching, rate limiting and optional archiving.
type Server struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	cache   *memory.Cache
	limiter *ratelimit.Limiter
	scraper *scrape.Scraper
	archive repository.Archive // nil when no database is configured

	httpServer *http.Server
}

type Deps struct {
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Cache   *memory.Cache
	Limiter *ratelimit.Limiter
	Scraper *scrape.Scraper
	Archive repository.Archive
}

func New(cfg Config, deps Deps) *Server {
	s := &Server{
		logger:  deps.Logger,
		metrics: deps.Metrics,
		cache:   deps.Cache,
		limiter: deps.Limiter,
		scraper: deps.Scraper,
		archive: deps.Archive,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler builds the route table. Exposed separately so tests can drive the
// gateway through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/api/search", s.limited(s.instrumented("search", s.handleSearch)))
	mux.Handle("/api/image-search", s.limited(s.instrumented("image_search", s.handleImageSearch)))
	mux.Handle("/api/content", s.limited(s.instrumented("content", s.handleContent)))
	mux.Handle("/api/healthcheck", s.instrumented("healthcheck", s.handleHealthcheck))
	mux.Handle("/api/clear-cache", s.instrumented("clear_cache", s.handleClearCache))
	mux.Handle("/metrics", metrics.Handler())

	return mux
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gateway listening", zap.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) instrumented(endpoint string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.metrics.IncRequestsInFlight()
		defer s.metrics.DecRequestsInFlight()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)

		duration := time.Since(start)
		s.metrics.RecordHTTPRequest(endpoint, strconv.Itoa(rec.status), duration)
		s.logger.Info("request",
			zap.String("endpoint", endpoint),
			zap.String("client", clientIP(r)),
			zap.Int("status", rec.status),
			zap.Duration("duration", duration),
		)
	})
}

func (s *Server) limited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientIP(r)) {
			s.metrics.RecordRateLimited()
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "rate limit exceeded",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func clientIP(r *http.Request) string {
	// X-Forwarded-For accumulates one entry per hop; the first is the
	// originating client, so appended entries cannot move a caller into a
	// fresh rate-limit bucket.
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
