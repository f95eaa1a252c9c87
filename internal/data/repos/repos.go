package repos

import (
	"gorm.io/gorm"

	"github.com/schoolatlas/schoolatlas-backend/internal/data/repos/community"
	"github.com/schoolatlas/schoolatlas-backend/internal/data/repos/directory"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
)

type SchoolRepo = directory.SchoolRepo
type CityRepo = directory.CityRepo

type ReviewRepo = community.ReviewRepo
type SubmissionRepo = community.SubmissionRepo

func NewSchoolRepo(db *gorm.DB, log *logger.Logger) SchoolRepo { return directory.NewSchoolRepo(db, log) }
func NewCityRepo(db *gorm.DB, log *logger.Logger) CityRepo     { return directory.NewCityRepo(db, log) }

func NewReviewRepo(db *gorm.DB, log *logger.Logger) ReviewRepo { return community.NewReviewRepo(db, log) }
func NewSubmissionRepo(db *gorm.DB, log *logger.Logger) SubmissionRepo {
	return community.NewSubmissionRepo(db, log)
}
