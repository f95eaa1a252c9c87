package app

import (
	"gorm.io/gorm"

	"github.com/schoolatlas/schoolatlas-backend/internal/data/repos"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
)

type Repos struct {
	School     repos.SchoolRepo
	City       repos.CityRepo
	Review     repos.ReviewRepo
	Submission repos.SubmissionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		School:     repos.NewSchoolRepo(db, log),
		City:       repos.NewCityRepo(db, log),
		Review:     repos.NewReviewRepo(db, log),
		Submission: repos.NewSubmissionRepo(db, log),
	}
}
