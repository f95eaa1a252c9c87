package app

import (
	"github.com/gin-gonic/gin"

	atlashttp "github.com/schoolatlas/schoolatlas-backend/internal/http"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	return atlashttp.NewRouter(atlashttp.RouterConfig{
		Log:               log,
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		DirectoryHandler:  handlers.Directory,
		IntakeHandler:     handlers.Intake,
		MatcherHandler:    handlers.Matcher,
		ModerationHandler: handlers.Moderation,
		HealthHandler:     handlers.Health,
	})
}
