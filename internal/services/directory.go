package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/schoolatlas/schoolatlas-backend/internal/data/repos"
	types "github.com/schoolatlas/schoolatlas-backend/internal/domain"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/cache"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
)

// SchoolPage is the public school profile: the merged record plus its
// approved reviews.
type SchoolPage struct {
	School  *types.School   `json:"school"`
	Reviews []*types.Review `json:"reviews"`
}

// CityOverview is the public city page: the denormalized salary breakdown
// plus the city's browsable schools.
type CityOverview struct {
	City    *types.City     `json:"city"`
	Schools []*types.School `json:"schools"`
}

// DirectoryService serves the public read surface. Whole pages are cached;
// moderation invalidates them on approval and the TTL covers anything a
// missed invalidation leaves behind.
type DirectoryService interface {
	GetSchoolBySlug(ctx context.Context, slug string) (*SchoolPage, error)
	GetCityOverview(ctx context.Context, cityID uuid.UUID) (*CityOverview, error)
	ListCities(ctx context.Context) ([]*types.City, error)
}

type directoryService struct {
	log       *logger.Logger
	schools   repos.SchoolRepo
	cities    repos.CityRepo
	reviews   repos.ReviewRepo
	pageCache cache.Cache
}

func NewDirectoryService(
	log *logger.Logger,
	schools repos.SchoolRepo,
	cities repos.CityRepo,
	reviews repos.ReviewRepo,
	pageCache cache.Cache,
) DirectoryService {
	if pageCache == nil {
		pageCache = cache.Noop{}
	}
	return &directoryService{
		log:       log.With("service", "DirectoryService"),
		schools:   schools,
		cities:    cities,
		reviews:   reviews,
		pageCache: pageCache,
	}
}

func (ds *directoryService) GetSchoolBySlug(ctx context.Context, slug string) (*SchoolPage, error) {
	key := cache.SchoolKey(slug)
	if raw, ok, err := ds.pageCache.Get(ctx, key); err == nil && ok {
		var page SchoolPage
		if json.Unmarshal(raw, &page) == nil {
			return &page, nil
		}
	} else if err != nil {
		ds.log.Warn("School page cache read failed", "slug", slug, "error", err)
	}

	school, err := ds.schools.GetBySlug(ctx, nil, slug)
	if err != nil {
		return nil, err
	}
	reviews, err := ds.reviews.ListApprovedBySchool(ctx, nil, school.ID)
	if err != nil {
		return nil, err
	}

	page := &SchoolPage{School: school, Reviews: reviews}
	ds.storePage(ctx, key, page)
	return page, nil
}

func (ds *directoryService) GetCityOverview(ctx context.Context, cityID uuid.UUID) (*CityOverview, error) {
	key := cache.CityKey(cityID.String())
	if raw, ok, err := ds.pageCache.Get(ctx, key); err == nil && ok {
		var overview CityOverview
		if json.Unmarshal(raw, &overview) == nil {
			return &overview, nil
		}
	} else if err != nil {
		ds.log.Warn("City page cache read failed", "city_id", cityID, "error", err)
	}

	city, err := ds.cities.GetByID(ctx, nil, cityID)
	if err != nil {
		return nil, err
	}
	schools, err := ds.schools.ListByCity(ctx, nil, city.ID)
	if err != nil {
		return nil, err
	}

	// Only browsable schools appear on the public page; pipeline-only rows
	// stay hidden until merged or published.
	browsable := make([]*types.School, 0, len(schools))
	for _, s := range schools {
		if s.Slug != nil {
			browsable = append(browsable, s)
		}
	}

	overview := &CityOverview{City: city, Schools: browsable}
	ds.storePage(ctx, key, overview)
	return overview, nil
}

func (ds *directoryService) ListCities(ctx context.Context) ([]*types.City, error) {
	return ds.cities.List(ctx, nil)
}

func (ds *directoryService) storePage(ctx context.Context, key string, page any) {
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := ds.pageCache.Set(ctx, key, raw, 0); err != nil {
		ds.log.Warn("Page cache write failed", "key", key, "error", err)
	}
}
