package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/schoolatlas/schoolatlas-backend/internal/domain"
	"github.com/schoolatlas/schoolatlas-backend/internal/pkg/pointers"
)

func SeedCity(tb testing.TB, ctx context.Context, tx *gorm.DB, name, country string) *types.City {
	tb.Helper()
	c := &types.City{
		ID:      uuid.New(),
		Name:    name,
		Country: country,
		Slug:    name + "-" + uuid.NewString()[:8],
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed city: %v", err)
	}
	return c
}

// SeedPipelineSchool creates a school with community statistics but no
// public slug.
func SeedPipelineSchool(tb testing.TB, ctx context.Context, tx *gorm.DB, cityID uuid.UUID, name string) *types.School {
	tb.Helper()
	s := &types.School{
		ID:     uuid.New(),
		Name:   name,
		CityID: pointers.Ptr(cityID),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed pipeline school: %v", err)
	}
	return s
}

// SeedDirectorySchool creates a browsable school with no city association.
func SeedDirectorySchool(tb testing.TB, ctx context.Context, tx *gorm.DB, name, slug, address string) *types.School {
	tb.Helper()
	s := &types.School{
		ID:      uuid.New(),
		Name:    name,
		Slug:    pointers.String(slug),
		Address: address,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed directory school: %v", err)
	}
	return s
}

func SeedSubmission(tb testing.TB, ctx context.Context, tx *gorm.DB, schoolID uuid.UUID, status string) *types.Submission {
	tb.Helper()
	sub := &types.Submission{
		ID:       uuid.New(),
		Kind:     types.SubmissionKindReview,
		Status:   status,
		SchoolID: pointers.Ptr(schoolID),
	}
	if err := tx.WithContext(ctx).Create(sub).Error; err != nil {
		tb.Fatalf("seed submission: %v", err)
	}
	return sub
}

func SeedReview(tb testing.TB, ctx context.Context, tx *gorm.DB, schoolID, submissionID uuid.UUID, mutate func(*types.Review)) *types.Review {
	tb.Helper()
	r := &types.Review{
		ID:           uuid.New(),
		SchoolID:     schoolID,
		SubmissionID: submissionID,
	}
	if mutate != nil {
		mutate(r)
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed review: %v", err)
	}
	return r
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
