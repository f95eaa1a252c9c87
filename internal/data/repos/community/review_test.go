package community

import (
	"context"
	"testing"

	"github.com/schoolatlas/schoolatlas-backend/internal/data/repos/testutil"
	types "github.com/schoolatlas/schoolatlas-backend/internal/domain"
	"github.com/schoolatlas/schoolatlas-backend/internal/pkg/pointers"
)

func TestReviewRepoListApprovedBySchool(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewReviewRepo(db, testutil.Logger(t))
	tx := testutil.Tx(t, db)

	city := testutil.SeedCity(t, ctx, tx, "Lisbon", "Portugal")
	school := testutil.SeedPipelineSchool(t, ctx, tx, city.ID, "Lisbon Intl")

	approved := testutil.SeedSubmission(t, ctx, tx, school.ID, types.SubmissionStatusApproved)
	pending := testutil.SeedSubmission(t, ctx, tx, school.ID, types.SubmissionStatusPending)
	rejected := testutil.SeedSubmission(t, ctx, tx, school.ID, types.SubmissionStatusRejected)

	want := testutil.SeedReview(t, ctx, tx, school.ID, approved.ID, func(r *types.Review) {
		r.OverallRating = pointers.Float64(8.0)
	})
	testutil.SeedReview(t, ctx, tx, school.ID, pending.ID, nil)
	testutil.SeedReview(t, ctx, tx, school.ID, rejected.ID, nil)

	got, err := repo.ListApprovedBySchool(ctx, tx, school.ID)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(got) != 1 || got[0].ID != want.ID {
		t.Fatalf("expected only the approved-submission review, got %d rows", len(got))
	}
}

func TestReviewRepoListApprovedByCity(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewReviewRepo(db, testutil.Logger(t))
	tx := testutil.Tx(t, db)

	city := testutil.SeedCity(t, ctx, tx, "Porto", "Portugal")
	otherCity := testutil.SeedCity(t, ctx, tx, "Faro", "Portugal")

	inCity := testutil.SeedPipelineSchool(t, ctx, tx, city.ID, "Porto A")
	outOfCity := testutil.SeedPipelineSchool(t, ctx, tx, otherCity.ID, "Faro B")

	subIn := testutil.SeedSubmission(t, ctx, tx, inCity.ID, types.SubmissionStatusApproved)
	subOut := testutil.SeedSubmission(t, ctx, tx, outOfCity.ID, types.SubmissionStatusApproved)

	want := testutil.SeedReview(t, ctx, tx, inCity.ID, subIn.ID, func(r *types.Review) {
		r.RoleLevel = pointers.String(types.RoleLevelClassroomTeacher)
		r.SalaryMonthly = pointers.Int(2800)
	})
	testutil.SeedReview(t, ctx, tx, outOfCity.ID, subOut.ID, nil)

	got, err := repo.ListApprovedByCity(ctx, tx, city.ID)
	if err != nil {
		t.Fatalf("list approved by city: %v", err)
	}
	if len(got) != 1 || got[0].ID != want.ID {
		t.Fatalf("expected only the in-city review, got %d rows", len(got))
	}
}
