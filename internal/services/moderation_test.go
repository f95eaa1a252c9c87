package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/schoolatlas/schoolatlas-backend/internal/config"
	"github.com/schoolatlas/schoolatlas-backend/internal/data/repos"
	"github.com/schoolatlas/schoolatlas-backend/internal/data/repos/testutil"
	types "github.com/schoolatlas/schoolatlas-backend/internal/domain"
	"github.com/schoolatlas/schoolatlas-backend/internal/modules/aggregation"
	pkgerrors "github.com/schoolatlas/schoolatlas-backend/internal/pkg/errors"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/cache"
)

type moderationFixture struct {
	tx      *gorm.DB
	service ModerationService
	schools repos.SchoolRepo
	cities  repos.CityRepo
	subs    repos.SubmissionRepo
}

func newModerationFixture(t *testing.T) moderationFixture {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	schools := repos.NewSchoolRepo(tx, log)
	cities := repos.NewCityRepo(tx, log)
	reviews := repos.NewReviewRepo(tx, log)
	subs := repos.NewSubmissionRepo(tx, log)

	aggregator := aggregation.New(aggregation.UsecasesDeps{
		DB:          tx,
		Log:         log,
		Schools:     schools,
		Cities:      cities,
		Reviews:     reviews,
		Submissions: subs,
		Cfg:         config.Default().Aggregation,
	})

	return moderationFixture{
		tx:      tx,
		service: NewModerationService(log, subs, schools, cities, aggregator, cache.Noop{}, nil),
		schools: schools,
		cities:  cities,
		subs:    subs,
	}
}

func seedSuggestion(t *testing.T, ctx context.Context, f moderationFixture, in SchoolSuggestion) *types.Submission {
	t.Helper()
	payload, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal suggestion: %v", err)
	}
	sub := &types.Submission{
		Kind:    types.SubmissionKindNewSchool,
		Status:  types.SubmissionStatusPending,
		Payload: payload,
	}
	if _, err := f.subs.Create(ctx, f.tx, []*types.Submission{sub}); err != nil {
		t.Fatalf("seed suggestion: %v", err)
	}
	return sub
}

func TestApproveNewSchoolMaterializesPipelineRecord(t *testing.T) {
	ctx := context.Background()
	f := newModerationFixture(t)

	city := testutil.SeedCity(t, ctx, f.tx, "Hanoi", "Vietnam")
	sub := seedSuggestion(t, ctx, f, SchoolSuggestion{
		Name:    "Hanoi Intl Academy",
		City:    "Hanoi",
		Country: "Vietnam",
		Website: "https://hanoi-intl.example.com",
	})

	report, err := f.service.ApproveSubmission(ctx, sub.ID, "ops@schoolatlas.com")
	if err != nil {
		t.Fatalf("approve suggestion: %v", err)
	}
	if report.SchoolID == nil {
		t.Fatalf("report should carry the materialized school id")
	}

	school, err := f.schools.GetByID(ctx, f.tx, *report.SchoolID)
	if err != nil {
		t.Fatalf("get materialized school: %v", err)
	}
	if school.Name != "Hanoi Intl Academy" {
		t.Fatalf("name = %q", school.Name)
	}
	if !school.IsPipelineOnly() {
		t.Fatalf("materialized school must be pipeline-only (city set, no slug)")
	}
	if school.CityID == nil || *school.CityID != city.ID {
		t.Fatalf("city_id = %v, want %s", school.CityID, city.ID)
	}
	if school.Website == nil || *school.Website != "https://hanoi-intl.example.com" {
		t.Fatalf("website = %v", school.Website)
	}

	stored, err := f.subs.GetByID(ctx, f.tx, sub.ID)
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}
	if stored.Status != types.SubmissionStatusApproved {
		t.Fatalf("submission status = %q, want approved", stored.Status)
	}
}

func TestApproveNewSchoolCreatesUnknownCity(t *testing.T) {
	ctx := context.Background()
	f := newModerationFixture(t)

	sub := seedSuggestion(t, ctx, f, SchoolSuggestion{
		Name:    "Da Nang Global School",
		City:    "Da Nang",
		Country: "Vietnam",
	})

	report, err := f.service.ApproveSubmission(ctx, sub.ID, "ops@schoolatlas.com")
	if err != nil {
		t.Fatalf("approve suggestion: %v", err)
	}
	if report.CityID == nil {
		t.Fatalf("report should carry the created city id")
	}

	city, err := f.cities.GetByName(ctx, f.tx, "Da Nang")
	if err != nil {
		t.Fatalf("created city not found: %v", err)
	}
	if city.Country != "Vietnam" {
		t.Fatalf("city country = %q", city.Country)
	}
	if city.Slug != "da-nang" {
		t.Fatalf("city slug = %q, want da-nang", city.Slug)
	}
}

func TestApproveNewSchoolBadPayloadStaysPending(t *testing.T) {
	ctx := context.Background()
	f := newModerationFixture(t)

	sub := &types.Submission{
		Kind:    types.SubmissionKindNewSchool,
		Status:  types.SubmissionStatusPending,
		Payload: []byte(`{"name": ""}`),
	}
	if _, err := f.subs.Create(ctx, f.tx, []*types.Submission{sub}); err != nil {
		t.Fatalf("seed suggestion: %v", err)
	}

	if _, err := f.service.ApproveSubmission(ctx, sub.ID, "ops@schoolatlas.com"); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("nameless suggestion: got %v, want ErrInvalidArgument", err)
	}
	stored, err := f.subs.GetByID(ctx, f.tx, sub.ID)
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}
	if stored.Status != types.SubmissionStatusPending {
		t.Fatalf("failed materialization must leave the submission pending, got %q", stored.Status)
	}
}

func TestListSubmissionsRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	f := newModerationFixture(t)

	if _, err := f.service.ListSubmissions(ctx, "bogus", 10); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("unknown status: got %v, want ErrInvalidArgument", err)
	}
	if _, err := f.service.ListSubmissions(ctx, "", 10); err != nil {
		t.Fatalf("empty status should default to pending, got %v", err)
	}
}
