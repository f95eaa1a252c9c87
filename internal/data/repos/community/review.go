package community

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolatlas/schoolatlas-backend/internal/domain/community"
	pkgerrors "github.com/schoolatlas/schoolatlas-backend/internal/pkg/errors"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
)

type ReviewRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reviews []*community.Review) ([]*community.Review, error)
	GetByID(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID) (*community.Review, error)
	ListBySchool(ctx context.Context, tx *gorm.DB, schoolID uuid.UUID) ([]*community.Review, error)
	ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) ([]*community.Review, error)
	ListApprovedBySchool(ctx context.Context, tx *gorm.DB, schoolID uuid.UUID) ([]*community.Review, error)
	ListApprovedByCity(ctx context.Context, tx *gorm.DB, cityID uuid.UUID) ([]*community.Review, error)
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	repoLog := baseLog.With("repo", "ReviewRepo")
	return &reviewRepo{db: db, log: repoLog}
}

func (r *reviewRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *reviewRepo) Create(ctx context.Context, tx *gorm.DB, reviews []*community.Review) ([]*community.Review, error) {
	if len(reviews) == 0 {
		return []*community.Review{}, nil
	}
	if err := r.conn(tx).WithContext(ctx).Create(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepo) GetByID(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID) (*community.Review, error) {
	var result community.Review
	if err := r.conn(tx).WithContext(ctx).
		Where("id = ?", reviewID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review %s: %w", reviewID, pkgerrors.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (r *reviewRepo) ListBySchool(ctx context.Context, tx *gorm.DB, schoolID uuid.UUID) ([]*community.Review, error) {
	var results []*community.Review
	if err := r.conn(tx).WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reviewRepo) ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) ([]*community.Review, error) {
	var results []*community.Review
	if err := r.conn(tx).WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListApprovedBySchool returns the school's reviews whose parent submission
// has been approved, newest first.
func (r *reviewRepo) ListApprovedBySchool(ctx context.Context, tx *gorm.DB, schoolID uuid.UUID) ([]*community.Review, error) {
	var results []*community.Review
	if err := r.conn(tx).WithContext(ctx).
		Joins("JOIN submission ON submission.id = review.submission_id AND submission.status = ?", community.SubmissionStatusApproved).
		Where("review.school_id = ?", schoolID).
		Order("review.created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListApprovedByCity returns approved reviews across every school of the
// city, newest first.
func (r *reviewRepo) ListApprovedByCity(ctx context.Context, tx *gorm.DB, cityID uuid.UUID) ([]*community.Review, error) {
	var results []*community.Review
	if err := r.conn(tx).WithContext(ctx).
		Joins("JOIN submission ON submission.id = review.submission_id AND submission.status = ?", community.SubmissionStatusApproved).
		Joins("JOIN school ON school.id = review.school_id").
		Where("school.city_id = ?", cityID).
		Order("review.created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
