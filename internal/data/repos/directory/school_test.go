package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/schoolatlas/schoolatlas-backend/internal/data/repos/testutil"
	pkgerrors "github.com/schoolatlas/schoolatlas-backend/internal/pkg/errors"
)

func TestSchoolRepoGetByIDNotFound(t *testing.T) {
	repo := NewSchoolRepo(testutil.DB(t), testutil.Logger(t))
	tx := testutil.Tx(t, testutil.DB(t))

	_, err := repo.GetByID(context.Background(), tx, uuid.New())
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSchoolRepoListPipelineOnlyByCity(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewSchoolRepo(db, testutil.Logger(t))
	tx := testutil.Tx(t, db)

	city := testutil.SeedCity(t, ctx, tx, "Bangkok", "Thailand")
	pipeline := testutil.SeedPipelineSchool(t, ctx, tx, city.ID, "Bangkok Prep")
	testutil.SeedDirectorySchool(t, ctx, tx, "Bangkok Prep International", "bangkok-prep-intl", "77 Sukhumvit, Bangkok, Thailand")

	// A merged school (slug and city) must not count as pipeline-only.
	merged := testutil.SeedPipelineSchool(t, ctx, tx, city.ID, "Merged School")
	if err := repo.UpdateFields(ctx, tx, merged.ID, map[string]interface{}{"slug": "merged-school"}); err != nil {
		t.Fatalf("set slug: %v", err)
	}

	got, err := repo.ListPipelineOnlyByCity(ctx, tx, city.ID)
	if err != nil {
		t.Fatalf("list pipeline-only: %v", err)
	}
	if len(got) != 1 || got[0].ID != pipeline.ID {
		t.Fatalf("expected only the unslugged pipeline school, got %d rows", len(got))
	}
}

func TestSchoolRepoListDirectoryOnlyMatchingAddress(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewSchoolRepo(db, testutil.Logger(t))
	tx := testutil.Tx(t, db)

	match := testutil.SeedDirectorySchool(t, ctx, tx, "Harrow Bangkok", "harrow-bangkok", "45 Don Mueang, BANGKOK")
	testutil.SeedDirectorySchool(t, ctx, tx, "Harrow Shanghai", "harrow-shanghai", "88 Pudong, Shanghai")

	// Directory schools already claimed by a city are excluded.
	city := testutil.SeedCity(t, ctx, tx, "Bangkok-Addr", "Thailand")
	claimed := testutil.SeedDirectorySchool(t, ctx, tx, "Claimed School", "claimed-school", "1 Silom, Bangkok")
	if err := repo.UpdateFields(ctx, tx, claimed.ID, map[string]interface{}{"city_id": city.ID}); err != nil {
		t.Fatalf("claim school: %v", err)
	}

	got, err := repo.ListDirectoryOnlyMatchingAddress(ctx, tx, "bangkok")
	if err != nil {
		t.Fatalf("list by address: %v", err)
	}
	if len(got) != 1 || got[0].ID != match.ID {
		t.Fatalf("expected case-insensitive address match only, got %d rows", len(got))
	}
}

func TestSchoolRepoSlugExists(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewSchoolRepo(db, testutil.Logger(t))
	tx := testutil.Tx(t, db)

	testutil.SeedDirectorySchool(t, ctx, tx, "Slugged", "taken-slug", "somewhere")

	taken, err := repo.SlugExists(ctx, tx, "taken-slug")
	if err != nil {
		t.Fatalf("slug exists: %v", err)
	}
	if !taken {
		t.Fatalf("expected slug to be taken")
	}
	free, err := repo.SlugExists(ctx, tx, "free-slug")
	if err != nil {
		t.Fatalf("slug exists: %v", err)
	}
	if free {
		t.Fatalf("expected slug to be free")
	}
}

func TestSchoolRepoUpdateFieldsAndFullDelete(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewSchoolRepo(db, testutil.Logger(t))
	tx := testutil.Tx(t, db)

	city := testutil.SeedCity(t, ctx, tx, "Hanoi", "Vietnam")
	pipeline := testutil.SeedPipelineSchool(t, ctx, tx, city.ID, "Hanoi Intl")
	dir := testutil.SeedDirectorySchool(t, ctx, tx, "Hanoi International School", "hanoi-intl", "12 Ba Dinh, Hanoi")

	if err := repo.UpdateFields(ctx, tx, dir.ID, map[string]interface{}{
		"city_id": city.ID,
		"rating":  7.4,
	}); err != nil {
		t.Fatalf("update fields: %v", err)
	}
	updated, err := repo.GetByID(ctx, tx, dir.ID)
	if err != nil {
		t.Fatalf("get updated: %v", err)
	}
	if updated.CityID == nil || *updated.CityID != city.ID {
		t.Fatalf("city_id not written")
	}
	if updated.Rating == nil || *updated.Rating != 7.4 {
		t.Fatalf("rating not written: %v", updated.Rating)
	}

	if err := repo.FullDeleteByID(ctx, tx, pipeline.ID); err != nil {
		t.Fatalf("full delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, tx, pipeline.ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("deleted school still readable: %v", err)
	}
}
