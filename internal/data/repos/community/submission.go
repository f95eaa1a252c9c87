package community

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolatlas/schoolatlas-backend/internal/domain/community"
	pkgerrors "github.com/schoolatlas/schoolatlas-backend/internal/pkg/errors"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
)

type SubmissionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, submissions []*community.Submission) ([]*community.Submission, error)
	GetByID(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (*community.Submission, error)
	ListByStatus(ctx context.Context, tx *gorm.DB, status string, limit int) ([]*community.Submission, error)
	SetStatus(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, status string, moderatedBy string) error
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	repoLog := baseLog.With("repo", "SubmissionRepo")
	return &submissionRepo{db: db, log: repoLog}
}

func (r *submissionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *submissionRepo) Create(ctx context.Context, tx *gorm.DB, submissions []*community.Submission) ([]*community.Submission, error) {
	if len(submissions) == 0 {
		return []*community.Submission{}, nil
	}
	if err := r.conn(tx).WithContext(ctx).Create(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepo) GetByID(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (*community.Submission, error) {
	var result community.Submission
	if err := r.conn(tx).WithContext(ctx).
		Where("id = ?", submissionID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission %s: %w", submissionID, pkgerrors.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (r *submissionRepo) ListByStatus(ctx context.Context, tx *gorm.DB, status string, limit int) ([]*community.Submission, error) {
	var results []*community.Submission
	q := r.conn(tx).WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *submissionRepo) SetStatus(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, status string, moderatedBy string) error {
	now := time.Now().UTC()
	fields := map[string]interface{}{
		"status":       status,
		"moderated_at": now,
	}
	if moderatedBy != "" {
		fields["moderated_by"] = moderatedBy
	}
	res := r.conn(tx).WithContext(ctx).
		Model(&community.Submission{}).
		Where("id = ?", submissionID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("submission %s: %w", submissionID, pkgerrors.ErrNotFound)
	}
	return nil
}
