package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smart-resume/internal/resumes"
	"smart-resume/internal/services/health"
	"smart-resume/internal/shared/config"
	"smart-resume/internal/shared/metrics"
	"smart-resume/internal/shared/server/middleware"
	"smart-resume/internal/shared/server/respond"
)

// RouterDeps carries the handlers mounted on the engine.
type RouterDeps struct {
	Config         config.Config
	ResumesHandler *resumes.Handler
	UploadLimiter  *middleware.RateLimiter
	Health         *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = maxMultipartMemory(deps.Config.MaxUploadBytes)

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/ping", func(c *gin.Context) {
		respond.OK(c, gin.H{"message": "pong"})
	})
	r.GET("/metrics", metrics.Handler())
	if deps.Health != nil {
		r.GET("/healthz", func(c *gin.Context) {
			respond.OK(c, deps.Health.Status())
		})
	}

	if deps.ResumesHandler != nil {
		var uploadMiddleware []gin.HandlerFunc
		rule := middleware.RateLimitRule{Rate: deps.Config.UploadRate(), Burst: deps.Config.UploadBurst}
		if rule.Enabled() {
			uploadMiddleware = append(uploadMiddleware, middleware.RateLimit(rule, deps.UploadLimiter))
		}
		deps.ResumesHandler.RegisterRoutes(r, uploadMiddleware...)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "Not Found")
	})

	return r
}

func maxMultipartMemory(limit int64) int64 {
	if limit <= 0 {
		return 10 << 20
	}
	return limit
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
