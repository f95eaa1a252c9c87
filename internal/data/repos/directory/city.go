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

type CityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, cities []*directory.City) ([]*directory.City, error)
	GetByID(ctx context.Context, tx *gorm.DB, cityID uuid.UUID) (*directory.City, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*directory.City, error)
	List(ctx context.Context, tx *gorm.DB) ([]*directory.City, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, cityID uuid.UUID, fields map[string]interface{}) error
}

type cityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCityRepo(db *gorm.DB, baseLog *logger.Logger) CityRepo {
	repoLog := baseLog.With("repo", "CityRepo")
	return &cityRepo{db: db, log: repoLog}
}

func (r *cityRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *cityRepo) Create(ctx context.Context, tx *gorm.DB, cities []*directory.City) ([]*directory.City, error) {
	if len(cities) == 0 {
		return []*directory.City{}, nil
	}
	if err := r.conn(tx).WithContext(ctx).Create(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *cityRepo) GetByID(ctx context.Context, tx *gorm.DB, cityID uuid.UUID) (*directory.City, error) {
	var result directory.City
	if err := r.conn(tx).WithContext(ctx).
		Where("id = ?", cityID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("city %s: %w", cityID, pkgerrors.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (r *cityRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*directory.City, error) {
	var result directory.City
	if err := r.conn(tx).WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("city %q: %w", name, pkgerrors.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (r *cityRepo) List(ctx context.Context, tx *gorm.DB) ([]*directory.City, error) {
	var results []*directory.City
	if err := r.conn(tx).WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *cityRepo) UpdateFields(ctx context.Context, tx *gorm.DB, cityID uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).
		Model(&directory.City{}).
		Where("id = ?", cityID).
		Updates(fields).Error
}
