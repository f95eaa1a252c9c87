package community

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/schoolatlas/schoolatlas-backend/internal/data/repos/testutil"
	types "github.com/schoolatlas/schoolatlas-backend/internal/domain"
	pkgerrors "github.com/schoolatlas/schoolatlas-backend/internal/pkg/errors"
)

func TestSubmissionRepoSetStatus(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewSubmissionRepo(db, testutil.Logger(t))
	tx := testutil.Tx(t, db)

	city := testutil.SeedCity(t, ctx, tx, "Dubai", "UAE")
	school := testutil.SeedPipelineSchool(t, ctx, tx, city.ID, "Dubai Intl")
	sub := testutil.SeedSubmission(t, ctx, tx, school.ID, types.SubmissionStatusPending)

	if err := repo.SetStatus(ctx, tx, sub.ID, types.SubmissionStatusApproved, "mod@schoolatlas.io"); err != nil {
		t.Fatalf("set status: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, sub.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != types.SubmissionStatusApproved {
		t.Fatalf("status = %q, want approved", got.Status)
	}
	if got.ModeratedAt == nil {
		t.Fatalf("moderated_at not written")
	}
	if got.ModeratedBy == nil || *got.ModeratedBy != "mod@schoolatlas.io" {
		t.Fatalf("moderated_by = %v", got.ModeratedBy)
	}
}

func TestSubmissionRepoSetStatusMissing(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewSubmissionRepo(db, testutil.Logger(t))
	tx := testutil.Tx(t, db)

	err := repo.SetStatus(ctx, tx, uuid.New(), types.SubmissionStatusApproved, "mod@schoolatlas.io")
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmissionRepoListByStatus(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewSubmissionRepo(db, testutil.Logger(t))
	tx := testutil.Tx(t, db)

	city := testutil.SeedCity(t, ctx, tx, "Doha", "Qatar")
	school := testutil.SeedPipelineSchool(t, ctx, tx, city.ID, "Doha Intl")

	testutil.SeedSubmission(t, ctx, tx, school.ID, types.SubmissionStatusPending)
	testutil.SeedSubmission(t, ctx, tx, school.ID, types.SubmissionStatusPending)
	testutil.SeedSubmission(t, ctx, tx, school.ID, types.SubmissionStatusApproved)

	pending, err := repo.ListByStatus(ctx, tx, types.SubmissionStatusPending, 0)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}

	limited, err := repo.ListByStatus(ctx, tx, types.SubmissionStatusPending, 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limited = %d, want 1", len(limited))
	}
}
