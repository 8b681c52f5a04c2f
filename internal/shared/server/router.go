package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-analyzer/internal/analyses"
	"cv-analyzer/internal/services/health"
	"cv-analyzer/internal/shared/config"
	"cv-analyzer/internal/shared/metrics"
	"cv-analyzer/internal/shared/server/middleware"
	"cv-analyzer/internal/shared/server/respond"
)

// Rate limit groups.
const (
	GroupAnalyze = "ANALYZE"
	GroupRead    = "READ"
)

// RouterDeps are the handlers mounted by NewRouter.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	Health          *health.Service
	Limiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = deps.Config.MaxUploadBytes

	r.Use(
		middleware.RequestID(),
		middleware.Session(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		ok, checks := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, gin.H{"ok": ok, "checks": checks})
	})

	if deps.AnalysisHandler != nil {
		limited := api.Group("")
		limited.Use(middleware.RateLimit(rateLimitConfig(deps.Config, deps.Limiter)))
		deps.AnalysisHandler.RegisterRoutes(limited)
	}

	return r
}

func rateLimitConfig(cfg config.Config, limiter *middleware.RateLimiter) middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			GroupAnalyze: {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
			GroupRead:    {Rate: cfg.RateLimitRPS * 5, Burst: cfg.RateLimitBurst * 5},
		},
		DefaultGroup: GroupAnalyze,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet {
				return GroupRead
			}
			return GroupAnalyze
		},
		Limiter: limiter,
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
