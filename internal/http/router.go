package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/schoolatlas/schoolatlas-backend/internal/http/handlers"
	httpMW "github.com/schoolatlas/schoolatlas-backend/internal/http/middleware"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler       *httpH.AuthHandler
	AuthMiddleware    *httpMW.AuthMiddleware
	DirectoryHandler  *httpH.DirectoryHandler
	IntakeHandler     *httpH.IntakeHandler
	MatcherHandler    *httpH.MatcherHandler
	ModerationHandler *httpH.ModerationHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("schoolatlas"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/login", cfg.AuthHandler.Login)
		}

		// Public directory reads
		if cfg.DirectoryHandler != nil {
			api.GET("/schools/:slug", cfg.DirectoryHandler.GetSchool)
			api.GET("/cities", cfg.DirectoryHandler.ListCities)
			api.GET("/cities/:id", cfg.DirectoryHandler.GetCity)
		}

		// Public community intake
		if cfg.IntakeHandler != nil {
			api.POST("/reviews", cfg.IntakeHandler.SubmitReview)
			api.POST("/schools/suggest", cfg.IntakeHandler.SuggestSchool)
		}
	}

	admin := api.Group("/admin")
	{
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireAdmin())
		}

		// Merge pipeline
		if cfg.MatcherHandler != nil {
			admin.GET("/cities/:id/match-candidates", cfg.MatcherHandler.MatchCandidates)
			admin.POST("/merges", cfg.MatcherHandler.ExecuteMerge)
			admin.POST("/bulk-merges", cfg.MatcherHandler.BulkMerge)
			admin.POST("/schools/:id/publish", cfg.MatcherHandler.PublishStandalone)
		}

		// Moderation
		if cfg.ModerationHandler != nil {
			admin.GET("/submissions", cfg.ModerationHandler.ListSubmissions)
			admin.POST("/submissions/:id/approve", cfg.ModerationHandler.Approve)
			admin.POST("/submissions/:id/reject", cfg.ModerationHandler.Reject)
		}
	}

	return r
}
