package aggregation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/schoolatlas/schoolatlas-backend/internal/config"
	"github.com/schoolatlas/schoolatlas-backend/internal/data/repos"
	"github.com/schoolatlas/schoolatlas-backend/internal/data/repos/testutil"
	types "github.com/schoolatlas/schoolatlas-backend/internal/domain"
	pkgerrors "github.com/schoolatlas/schoolatlas-backend/internal/pkg/errors"
	"github.com/schoolatlas/schoolatlas-backend/internal/pkg/pointers"
)

type fakeSummarizer struct {
	narrative *Narrative
	err       error
	calls     int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, in SummarizeInput) (*Narrative, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.narrative, nil
}

func TestOnSubmissionApprovedRequiresApprovedStatus(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	city := testutil.SeedCity(t, ctx, tx, "Geneva", "Switzerland")
	school := testutil.SeedPipelineSchool(t, ctx, tx, city.ID, "Geneva Intl")
	sub := testutil.SeedSubmission(t, ctx, tx, school.ID, types.SubmissionStatusPending)

	u := New(UsecasesDeps{
		DB:          tx,
		Log:         log,
		Schools:     repos.NewSchoolRepo(tx, log),
		Cities:      repos.NewCityRepo(tx, log),
		Reviews:     repos.NewReviewRepo(tx, log),
		Submissions: repos.NewSubmissionRepo(tx, log),
		Cfg:         config.Default().Aggregation,
	})

	if _, err := u.OnSubmissionApproved(ctx, sub.ID); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for pending submission, got %v", err)
	}
	if _, err := u.OnSubmissionApproved(ctx, uuid.New()); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing submission, got %v", err)
	}
}

func TestRecalculateRatingBlendsBaseline(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	schoolRepo := repos.NewSchoolRepo(tx, log)

	city := testutil.SeedCity(t, ctx, tx, "Zurich", "Switzerland")
	school := testutil.SeedPipelineSchool(t, ctx, tx, city.ID, "Zurich Intl")
	if err := schoolRepo.UpdateFields(ctx, tx, school.ID, map[string]interface{}{
		"isr_rating":       7.0,
		"isr_review_count": 10,
	}); err != nil {
		t.Fatalf("seed baseline: %v", err)
	}

	approved := testutil.SeedSubmission(t, ctx, tx, school.ID, types.SubmissionStatusApproved)
	testutil.SeedReview(t, ctx, tx, school.ID, approved.ID, func(r *types.Review) {
		r.OverallRating = pointers.Float64(9.0)
	})
	// Pending reviews never count.
	pending := testutil.SeedSubmission(t, ctx, tx, school.ID, types.SubmissionStatusPending)
	testutil.SeedReview(t, ctx, tx, school.ID, pending.ID, func(r *types.Review) {
		r.OverallRating = pointers.Float64(1.0)
	})

	u := New(UsecasesDeps{
		DB: tx, Log: log,
		Schools:     schoolRepo,
		Cities:      repos.NewCityRepo(tx, log),
		Reviews:     repos.NewReviewRepo(tx, log),
		Submissions: repos.NewSubmissionRepo(tx, log),
		Cfg:         config.Default().Aggregation,
	})

	if err := u.RecalculateRating(ctx, school.ID); err != nil {
		t.Fatalf("recalculate rating: %v", err)
	}

	got, err := schoolRepo.GetByID(ctx, tx, school.ID)
	if err != nil {
		t.Fatalf("get school: %v", err)
	}
	if got.Rating == nil || *got.Rating != 7.2 {
		t.Fatalf("rating = %v, want 7.2", got.Rating)
	}
	if got.ReviewCount == nil || *got.ReviewCount != 11 {
		t.Fatalf("review_count = %v, want 11", got.ReviewCount)
	}
	if got.CommunityRating == nil || *got.CommunityRating != 9.0 {
		t.Fatalf("community_rating = %v, want 9.0", got.CommunityRating)
	}
}

func TestRecalculateSchoolSalaryNoDisclosuresLeavesBand(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	schoolRepo := repos.NewSchoolRepo(tx, log)

	city := testutil.SeedCity(t, ctx, tx, "Vienna", "Austria")
	school := testutil.SeedPipelineSchool(t, ctx, tx, city.ID, "Vienna Intl")
	if err := schoolRepo.UpdateFields(ctx, tx, school.ID, map[string]interface{}{
		"salary_range": "$30K - $40K",
	}); err != nil {
		t.Fatalf("seed band: %v", err)
	}

	// One approved review with no salary disclosure.
	approved := testutil.SeedSubmission(t, ctx, tx, school.ID, types.SubmissionStatusApproved)
	testutil.SeedReview(t, ctx, tx, school.ID, approved.ID, func(r *types.Review) {
		r.Pros = pointers.String("good")
	})

	u := New(UsecasesDeps{
		DB: tx, Log: log,
		Schools:     schoolRepo,
		Cities:      repos.NewCityRepo(tx, log),
		Reviews:     repos.NewReviewRepo(tx, log),
		Submissions: repos.NewSubmissionRepo(tx, log),
		Cfg:         config.Default().Aggregation,
	})

	if err := u.RecalculateSchoolSalary(ctx, school.ID); err != nil {
		t.Fatalf("recalculate salary: %v", err)
	}
	got, err := schoolRepo.GetByID(ctx, tx, school.ID)
	if err != nil {
		t.Fatalf("get school: %v", err)
	}
	if got.SalaryRange == nil || *got.SalaryRange != "$30K - $40K" {
		t.Fatalf("stored band should be untouched, got %v", got.SalaryRange)
	}
}

func TestResynthesizeNarrativeFailureLeavesText(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	schoolRepo := repos.NewSchoolRepo(tx, log)

	city := testutil.SeedCity(t, ctx, tx, "Madrid", "Spain")
	school := testutil.SeedPipelineSchool(t, ctx, tx, city.ID, "Madrid Intl")
	if err := schoolRepo.UpdateFields(ctx, tx, school.ID, map[string]interface{}{
		"summary": "Original summary.",
	}); err != nil {
		t.Fatalf("seed summary: %v", err)
	}

	approved := testutil.SeedSubmission(t, ctx, tx, school.ID, types.SubmissionStatusApproved)
	testutil.SeedReview(t, ctx, tx, school.ID, approved.ID, func(r *types.Review) {
		r.Pros = pointers.String("Great community")
	})

	failing := &fakeSummarizer{err: fmt.Errorf("model unavailable")}
	u := New(UsecasesDeps{
		DB: tx, Log: log,
		Schools:     schoolRepo,
		Cities:      repos.NewCityRepo(tx, log),
		Reviews:     repos.NewReviewRepo(tx, log),
		Submissions: repos.NewSubmissionRepo(tx, log),
		Summarizer:  failing,
		Cfg:         config.Default().Aggregation,
	})

	if err := u.ResynthesizeNarrative(ctx, school.ID); err == nil {
		t.Fatalf("expected summarizer error to surface")
	}
	got, err := schoolRepo.GetByID(ctx, tx, school.ID)
	if err != nil {
		t.Fatalf("get school: %v", err)
	}
	if got.Summary == nil || *got.Summary != "Original summary." {
		t.Fatalf("summary should be untouched, got %v", got.Summary)
	}
	if failing.calls != 1 {
		t.Fatalf("summarizer calls = %d, want 1", failing.calls)
	}
}

func TestResynthesizeNarrativeSkipsWithoutWrittenContent(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	schoolRepo := repos.NewSchoolRepo(tx, log)

	city := testutil.SeedCity(t, ctx, tx, "Oslo", "Norway")
	school := testutil.SeedPipelineSchool(t, ctx, tx, city.ID, "Oslo Intl")

	// Rating-only review: no written content, so no summarizer call.
	approved := testutil.SeedSubmission(t, ctx, tx, school.ID, types.SubmissionStatusApproved)
	testutil.SeedReview(t, ctx, tx, school.ID, approved.ID, func(r *types.Review) {
		r.OverallRating = pointers.Float64(8.0)
	})

	summarizer := &fakeSummarizer{narrative: &Narrative{Summary: pointers.String("new")}}
	u := New(UsecasesDeps{
		DB: tx, Log: log,
		Schools:     schoolRepo,
		Cities:      repos.NewCityRepo(tx, log),
		Reviews:     repos.NewReviewRepo(tx, log),
		Submissions: repos.NewSubmissionRepo(tx, log),
		Summarizer:  summarizer,
		Cfg:         config.Default().Aggregation,
	})

	if err := u.ResynthesizeNarrative(ctx, school.ID); err != nil {
		t.Fatalf("resynthesize: %v", err)
	}
	if summarizer.calls != 0 {
		t.Fatalf("summarizer should not be called without written reviews")
	}
}

func TestRecalculateCitySalary(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	cityRepo := repos.NewCityRepo(tx, log)

	city := testutil.SeedCity(t, ctx, tx, "Prague", "Czechia")
	school := testutil.SeedPipelineSchool(t, ctx, tx, city.ID, "Prague Intl")

	approved := testutil.SeedSubmission(t, ctx, tx, school.ID, types.SubmissionStatusApproved)
	testutil.SeedReview(t, ctx, tx, school.ID, approved.ID, func(r *types.Review) {
		r.RoleLevel = pointers.String(types.RoleLevelClassroomTeacher)
		r.SalaryMonthly = pointers.Int(3000)
	})

	u := New(UsecasesDeps{
		DB: tx, Log: log,
		Schools:     repos.NewSchoolRepo(tx, log),
		Cities:      cityRepo,
		Reviews:     repos.NewReviewRepo(tx, log),
		Submissions: repos.NewSubmissionRepo(tx, log),
		Cfg:         config.Default().Aggregation,
	})

	if err := u.RecalculateCitySalary(ctx, city.ID); err != nil {
		t.Fatalf("recalculate city salary: %v", err)
	}

	got, err := cityRepo.GetByID(ctx, tx, city.ID)
	if err != nil {
		t.Fatalf("get city: %v", err)
	}
	if got.EntrySalary == nil || *got.EntrySalary != 36000 {
		t.Fatalf("entry_salary = %v, want 36000", got.EntrySalary)
	}
	if got.MidSalary != nil || got.SeniorSalary != nil {
		t.Fatalf("empty buckets must stay untouched")
	}
	if got.SalarySampleSize != 1 {
		t.Fatalf("sample size = %d, want 1", got.SalarySampleSize)
	}
}
