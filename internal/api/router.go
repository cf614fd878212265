package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/dbpool"
	"github.com/crewline/crewline/internal/events"
	"github.com/crewline/crewline/internal/middleware"
	"github.com/crewline/crewline/internal/rbac"
	"github.com/crewline/crewline/internal/session"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log           *logrus.Logger
	Pool          *dbpool.Pool
	Hub           *events.Hub
	Sessions      session.Provider
	SessionPing   SessionPinger
	Auth          AuthService
	Calls         CallService
	Jobs          JobService
	Contacts      ContactService
	FollowUps     FollowUpService
	Audit         AuditService
	Members       MemberService
	Stats         StatsService
	CORSOrigins   []string
	Version       string
	SessionTTL    time.Duration
	SecureCookies bool
	RetentionDays int
}

// Router-level limits.
const (
	maxBodySize = 1 << 20 // 1 MB
	rateLimit   = 100     // requests per second per IP
	rateBurst   = 200     // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: true,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, deps.SessionPing, deps.Hub, log, deps.Version)
	auth := NewAuthHandler(deps.Auth, log, deps.SessionTTL, deps.SecureCookies)
	calls := NewCallHandler(deps.Calls, log)
	jobs := NewJobHandler(deps.Jobs, log)
	contacts := NewContactHandler(deps.Contacts, log)
	followUps := NewFollowUpHandler(deps.FollowUps, log)
	audit := NewAuditHandler(deps.Audit, log, deps.RetentionDays)
	members := NewMemberHandler(deps.Members, log)
	stats := NewStatsHandler(deps.Stats, log)

	// Health, readiness, and login are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)
	api.POST("/auth/login", auth.Login)

	// All other API routes require an authenticated session.
	api.Use(middleware.SessionAuth(deps.Sessions, log))

	viewer := middleware.RequireRole(rbac.RoleViewer, log)
	dispatcher := middleware.RequireRole(rbac.RoleDispatcher, log)
	admin := middleware.RequireRole(rbac.RoleAdmin, log)
	owner := middleware.RequireRole(rbac.RoleOwner, log)

	// Session.
	api.POST("/auth/logout", auth.Logout)
	api.GET("/auth/me", auth.Me)

	// Calls.
	api.GET("/calls", viewer, calls.List)
	api.GET("/calls/:id", viewer, calls.Get)
	api.PATCH("/calls/:id", dispatcher, calls.Update)
	api.GET("/calls/:id/history", admin, audit.History("call"))

	// Jobs.
	api.GET("/jobs", viewer, jobs.List)
	api.GET("/jobs/:id", viewer, jobs.Get)
	api.POST("/jobs", dispatcher, jobs.Create)
	api.PATCH("/jobs/:id", dispatcher, jobs.Update)
	api.GET("/jobs/:id/history", admin, audit.History("job"))

	// Contacts.
	api.GET("/contacts", viewer, contacts.List)
	api.GET("/contacts/:id", viewer, contacts.Get)
	api.POST("/contacts", dispatcher, contacts.Create)
	api.PATCH("/contacts/:id", dispatcher, contacts.Update)
	api.GET("/contacts/:id/history", admin, audit.History("contact"))

	// Follow-ups.
	api.GET("/followups", viewer, followUps.List)
	api.GET("/followups/:id", viewer, followUps.Get)
	api.POST("/followups", dispatcher, followUps.Create)
	api.PATCH("/followups/:id", dispatcher, followUps.Update)
	api.GET("/followups/:id/history", admin, audit.History("followup"))

	// Audit trail.
	api.GET("/audit", admin, audit.Query)
	api.DELETE("/audit", owner, audit.Purge)

	// Workspace.
	api.GET("/members", admin, members.List)
	api.GET("/stats", viewer, stats.Overview)

	// WebSocket feed.
	api.GET("/ws", viewer, wsHandler(ctx, log, deps.Hub, deps.CORSOrigins, deps.Sessions))
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
