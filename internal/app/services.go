package app

import (
	"gorm.io/gorm"

	"github.com/schoolatlas/schoolatlas-backend/internal/config"
	"github.com/schoolatlas/schoolatlas-backend/internal/modules/aggregation"
	"github.com/schoolatlas/schoolatlas-backend/internal/modules/matcher"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/cache"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/envutil"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/openai"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/sendgrid"
	"github.com/schoolatlas/schoolatlas-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Directory  services.DirectoryService
	Intake     services.IntakeService
	Moderation services.ModerationService

	Matcher     matcher.Usecases
	Aggregation aggregation.Usecases

	PageCache cache.Cache
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg config.Config, r Repos) (Services, error) {
	log.Info("Wiring services...")

	authService, err := services.NewAuthService(log)
	if err != nil {
		return Services{}, err
	}

	// Optional infrastructure degrades to no-ops so a local instance runs
	// with nothing but Postgres.
	var pageCache cache.Cache = cache.Noop{}
	if envutil.String("REDIS_ADDR", "") != "" {
		pageCache, err = cache.NewRedisCache(log)
		if err != nil {
			log.Warn("Redis unavailable; page caching disabled", "error", err)
			pageCache = cache.Noop{}
		}
	}

	var summarizer aggregation.Summarizer
	if envutil.String("OPENAI_API_KEY", "") != "" {
		aiClient, err := openai.NewClient(log)
		if err != nil {
			log.Warn("OpenAI unavailable; narrative resynthesis disabled", "error", err)
		} else {
			summarizer = services.NewNarrativeAI(log, aiClient, cfg.Aggregation.NarrativeModel, cfg.Aggregation.NarrativeMaxTokens)
		}
	} else {
		log.Warn("OPENAI_API_KEY not set; narrative resynthesis disabled")
	}

	var mailer sendgrid.Client
	if envutil.String("SENDGRID_API_KEY", "") != "" {
		mailer, err = sendgrid.NewFromEnv(log)
		if err != nil {
			log.Warn("SendGrid unavailable; submitter notifications disabled", "error", err)
			mailer = nil
		}
	} else {
		log.Warn("SENDGRID_API_KEY not set; submitter notifications disabled")
	}

	matcherUsecases := matcher.New(matcher.UsecasesDeps{
		DB:      db,
		Log:     log,
		Schools: r.School,
		Cities:  r.City,
		Cfg:     cfg.Matcher,
	})

	aggregationUsecases := aggregation.New(aggregation.UsecasesDeps{
		DB:          db,
		Log:         log,
		Schools:     r.School,
		Cities:      r.City,
		Reviews:     r.Review,
		Submissions: r.Submission,
		Summarizer:  summarizer,
		Cfg:         cfg.Aggregation,
	})

	return Services{
		Auth:        authService,
		Directory:   services.NewDirectoryService(log, r.School, r.City, r.Review, pageCache),
		Intake:      services.NewIntakeService(db, log, r.School, r.Review, r.Submission),
		Moderation:  services.NewModerationService(log, r.Submission, r.School, r.City, aggregationUsecases, pageCache, mailer),
		Matcher:     matcherUsecases,
		Aggregation: aggregationUsecases,
		PageCache:   pageCache,
	}, nil
}
