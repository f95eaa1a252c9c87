package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolatlas/schoolatlas-backend/internal/domain/directory"
	pkgerrors "github.com/schoolatlas/schoolatlas-backend/internal/pkg/errors"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
)

type SchoolRepo interface {
	Create(ctx context.Context, tx *gorm.DB, schools []*directory.School) ([]*directory.School, error)
	GetByID(ctx context.Context, tx *gorm.DB, schoolID uuid.UUID) (*directory.School, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, schoolIDs []uuid.UUID) ([]*directory.School, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*directory.School, error)
	ListByCity(ctx context.Context, tx *gorm.DB, cityID uuid.UUID) ([]*directory.School, error)
	ListPipelineOnlyByCity(ctx context.Context, tx *gorm.DB, cityID uuid.UUID) ([]*directory.School, error)
	ListDirectoryOnlyMatchingAddress(ctx context.Context, tx *gorm.DB, addressFragment string) ([]*directory.School, error)
	SlugExists(ctx context.Context, tx *gorm.DB, slug string) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, school *directory.School) error
	UpdateFields(ctx context.Context, tx *gorm.DB, schoolID uuid.UUID, fields map[string]interface{}) error
	FullDeleteByID(ctx context.Context, tx *gorm.DB, schoolID uuid.UUID) error
}

type schoolRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSchoolRepo(db *gorm.DB, baseLog *logger.Logger) SchoolRepo {
	repoLog := baseLog.With("repo", "SchoolRepo")
	return &schoolRepo{db: db, log: repoLog}
}

func (r *schoolRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *schoolRepo) Create(ctx context.Context, tx *gorm.DB, schools []*directory.School) ([]*directory.School, error) {
	if len(schools) == 0 {
		return []*directory.School{}, nil
	}
	if err := r.conn(tx).WithContext(ctx).Create(&schools).Error; err != nil {
		return nil, err
	}
	return schools, nil
}

func (r *schoolRepo) GetByID(ctx context.Context, tx *gorm.DB, schoolID uuid.UUID) (*directory.School, error) {
	var result directory.School
	if err := r.conn(tx).WithContext(ctx).
		Where("id = ?", schoolID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("school %s: %w", schoolID, pkgerrors.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (r *schoolRepo) GetByIDs(ctx context.Context, tx *gorm.DB, schoolIDs []uuid.UUID) ([]*directory.School, error) {
	var results []*directory.School
	if len(schoolIDs) == 0 {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("id IN ?", schoolIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *schoolRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*directory.School, error) {
	var result directory.School
	if err := r.conn(tx).WithContext(ctx).
		Where("slug = ?", slug).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("school slug %q: %w", slug, pkgerrors.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (r *schoolRepo) ListByCity(ctx context.Context, tx *gorm.DB, cityID uuid.UUID) ([]*directory.School, error) {
	var results []*directory.School
	if err := r.conn(tx).WithContext(ctx).
		Where("city_id = ?", cityID).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *schoolRepo) ListPipelineOnlyByCity(ctx context.Context, tx *gorm.DB, cityID uuid.UUID) ([]*directory.School, error) {
	var results []*directory.School
	if err := r.conn(tx).WithContext(ctx).
		Where("city_id = ? AND slug IS NULL", cityID).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListDirectoryOnlyMatchingAddress returns browsable schools with no city
// association whose address contains the fragment, case-insensitively.
func (r *schoolRepo) ListDirectoryOnlyMatchingAddress(ctx context.Context, tx *gorm.DB, addressFragment string) ([]*directory.School, error) {
	var results []*directory.School
	if err := r.conn(tx).WithContext(ctx).
		Where("slug IS NOT NULL AND city_id IS NULL").
		Where("LOWER(address) LIKE LOWER(?)", "%"+addressFragment+"%").
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *schoolRepo) SlugExists(ctx context.Context, tx *gorm.DB, slug string) (bool, error) {
	var count int64
	if err := r.conn(tx).WithContext(ctx).
		Model(&directory.School{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *schoolRepo) Update(ctx context.Context, tx *gorm.DB, school *directory.School) error {
	if school == nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Save(school).Error
}

func (r *schoolRepo) UpdateFields(ctx context.Context, tx *gorm.DB, schoolID uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).
		Model(&directory.School{}).
		Where("id = ?", schoolID).
		Updates(fields).Error
}

func (r *schoolRepo) FullDeleteByID(ctx context.Context, tx *gorm.DB, schoolID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).
		Unscoped().
		Where("id = ?", schoolID).
		Delete(&directory.School{}).Error
}
