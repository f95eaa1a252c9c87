package app

import (
	httpH "github.com/schoolatlas/schoolatlas-backend/internal/http/handlers"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	Directory  *httpH.DirectoryHandler
	Intake     *httpH.IntakeHandler
	Matcher    *httpH.MatcherHandler
	Moderation *httpH.ModerationHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Auth:       httpH.NewAuthHandler(s.Auth),
		Directory:  httpH.NewDirectoryHandler(s.Directory),
		Intake:     httpH.NewIntakeHandler(s.Intake),
		Matcher:    httpH.NewMatcherHandler(s.Matcher),
		Moderation: httpH.NewModerationHandler(s.Moderation),
	}
}
