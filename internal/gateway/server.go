// Package gateway implements the aggregation HTTP server fronting the
// banking services. It serves a pre-merged dashboard per user, proxies the
// AI assistant, and publishes activity events for the audit trail.
package gateway

import (
	"context"
	"net/http"
	"sync"
	"time"

	"vbank/internal/api"
	"vbank/internal/cache"
	"vbank/internal/core"
	"vbank/internal/middleware/ratelimit"
	"vbank/internal/middleware/security"
	"vbank/internal/middleware/trace"
	"vbank/internal/notify"
)

// SnapshotBuilder assembles a dashboard snapshot for one user.
type SnapshotBuilder interface {
	Build(ctx context.Context, userID string) (*core.DashboardSnapshot, error)
}

// ChatService forwards a user message to the AI assistant.
type ChatService interface {
	Chat(ctx context.Context, userID, message string) (*api.ChatResponse, error)
}

// ActivityPublisher emits activity events. Publishing is best-effort: the
// gateway logs failures and serves the response anyway.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, event *notify.ActivityEvent) error
}

type Server struct {
	http.Server

	snapshots SnapshotBuilder
	chat      ChatService
	publisher ActivityPublisher

	snapshotCache *cache.LRU[*core.DashboardSnapshot]
	janitor       *cache.Janitor
	limiter       *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. publisher may be nil when no broker is configured.
func NewServer(addr string, snapshots SnapshotBuilder, chat ChatService, publisher ActivityPublisher, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		snapshots: snapshots,
		chat:      chat,
		publisher: publisher,

		// Max 500 cached dashboards; beyond that the least recently viewed
		// user falls out.
		snapshotCache: cache.NewLRU[*core.DashboardSnapshot](500, cacheTTL),
		limiter:       ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}
	s.janitor = cache.NewJanitor(s.snapshotCache)
	s.janitor.Start(10 * time.Minute)

	mux.HandleFunc("GET /bff/dashboard/{userId}", s.handleDashboard)
	mux.HandleFunc("POST /bff/chat", s.handleChat)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(trace.ClientIP)
	limited := s.limiter.Middleware(trace.ClientIP, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded, retry later")
	})

	s.Server = http.Server{
		Addr:    addr,
		Handler: headers.Handler(tracer.Handler(limited(mux))),
	}
	return s
}

// Shutdown stops the background routines, then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.janitor.Stop()
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// InvalidateDashboard drops one user's cached snapshot.
func (s *Server) InvalidateDashboard(userID string) {
	s.snapshotCache.Delete(userID)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
