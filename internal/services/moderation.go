package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/schoolatlas/schoolatlas-backend/internal/data/repos"
	types "github.com/schoolatlas/schoolatlas-backend/internal/domain"
	"github.com/schoolatlas/schoolatlas-backend/internal/modules/aggregation"
	matchsteps "github.com/schoolatlas/schoolatlas-backend/internal/modules/matcher/steps"
	pkgerrors "github.com/schoolatlas/schoolatlas-backend/internal/pkg/errors"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/cache"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/sendgrid"
)

// ModerationService drives the submission lifecycle. Approval is the only
// path that lets community content influence public statistics, so the
// recalculation fan-out and cache invalidation hang off it.
type ModerationService interface {
	ListSubmissions(ctx context.Context, status string, limit int) ([]*types.Submission, error)
	ApproveSubmission(ctx context.Context, submissionID uuid.UUID, moderator string) (*aggregation.ApprovalReport, error)
	RejectSubmission(ctx context.Context, submissionID uuid.UUID, moderator string) error
}

type moderationService struct {
	log         *logger.Logger
	submissions repos.SubmissionRepo
	schools     repos.SchoolRepo
	cities      repos.CityRepo
	aggregator  aggregation.Usecases
	pageCache   cache.Cache
	mailer      sendgrid.Client
}

func NewModerationService(
	log *logger.Logger,
	submissions repos.SubmissionRepo,
	schools repos.SchoolRepo,
	cities repos.CityRepo,
	aggregator aggregation.Usecases,
	pageCache cache.Cache,
	mailer sendgrid.Client,
) ModerationService {
	return &moderationService{
		log:         log.With("service", "ModerationService"),
		submissions: submissions,
		schools:     schools,
		cities:      cities,
		aggregator:  aggregator,
		pageCache:   pageCache,
		mailer:      mailer,
	}
}

func (ms *moderationService) ListSubmissions(ctx context.Context, status string, limit int) ([]*types.Submission, error) {
	switch status {
	case "":
		status = types.SubmissionStatusPending
	case types.SubmissionStatusPending, types.SubmissionStatusApproved, types.SubmissionStatusRejected:
	default:
		return nil, fmt.Errorf("unknown submission status %q: %w", status, pkgerrors.ErrInvalidArgument)
	}
	return ms.submissions.ListByStatus(ctx, nil, status, limit)
}

// ApproveSubmission flips the submission to approved, recalculates every
// derived statistic it touches, drops the affected cached pages, and
// notifies the submitter. Only the status flip and the recalculation are
// load-bearing; cache and email failures are logged and swallowed.
func (ms *moderationService) ApproveSubmission(ctx context.Context, submissionID uuid.UUID, moderator string) (*aggregation.ApprovalReport, error) {
	sub, err := ms.submissions.GetByID(ctx, nil, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.Status != types.SubmissionStatusPending {
		return nil, fmt.Errorf("submission %s is %s, only pending submissions can be approved: %w",
			sub.ID, sub.Status, pkgerrors.ErrInvalidArgument)
	}

	// A new-school suggestion materializes before the status flips, so a
	// failed create leaves the submission pending and retryable.
	var report *aggregation.ApprovalReport
	if sub.Kind == types.SubmissionKindNewSchool {
		school, err := ms.materializeSuggestedSchool(ctx, sub)
		if err != nil {
			return nil, fmt.Errorf("materialize suggested school: %w", err)
		}
		if err := ms.submissions.SetStatus(ctx, nil, sub.ID, types.SubmissionStatusApproved, moderator); err != nil {
			return nil, fmt.Errorf("approve submission: %w", err)
		}
		// Nothing to recalculate yet: the new record has no reviews.
		report = &aggregation.ApprovalReport{SubmissionID: sub.ID, SchoolID: &school.ID, CityID: school.CityID}
	} else {
		if err := ms.submissions.SetStatus(ctx, nil, sub.ID, types.SubmissionStatusApproved, moderator); err != nil {
			return nil, fmt.Errorf("approve submission: %w", err)
		}
		report, err = ms.aggregator.OnSubmissionApproved(ctx, sub.ID)
		if err != nil {
			// The approval itself stuck; recalculation self-heals on the next
			// approval touching the same records.
			ms.log.Error("Recalculation failed after approval",
				"submission_id", sub.ID, "error", err)
			report = &aggregation.ApprovalReport{SubmissionID: sub.ID, SchoolID: sub.SchoolID, CityID: sub.CityID}
		}
	}

	ms.invalidatePages(ctx, report)
	ms.notifySubmitter(ctx, sub, "approved")

	ms.log.Info("Submission approved",
		"submission_id", sub.ID, "moderator", moderator, "steps_failed", report.Failed())
	return report, nil
}

func (ms *moderationService) RejectSubmission(ctx context.Context, submissionID uuid.UUID, moderator string) error {
	sub, err := ms.submissions.GetByID(ctx, nil, submissionID)
	if err != nil {
		return err
	}
	if sub.Status != types.SubmissionStatusPending {
		return fmt.Errorf("submission %s is %s, only pending submissions can be rejected: %w",
			sub.ID, sub.Status, pkgerrors.ErrInvalidArgument)
	}

	if err := ms.submissions.SetStatus(ctx, nil, sub.ID, types.SubmissionStatusRejected, moderator); err != nil {
		return fmt.Errorf("reject submission: %w", err)
	}

	ms.notifySubmitter(ctx, sub, "rejected")
	ms.log.Info("Submission rejected", "submission_id", sub.ID, "moderator", moderator)
	return nil
}

// materializeSuggestedSchool turns an approved new-school suggestion into a
// pipeline-only school record: no slug, so it stays invisible to the public
// directory until an operator merges or publishes it. An unknown city named
// in the suggestion is created on the fly.
func (ms *moderationService) materializeSuggestedSchool(ctx context.Context, sub *types.Submission) (*types.School, error) {
	var suggestion SchoolSuggestion
	if err := json.Unmarshal(sub.Payload, &suggestion); err != nil {
		return nil, fmt.Errorf("decode suggestion payload: %w", err)
	}
	if strings.TrimSpace(suggestion.Name) == "" {
		return nil, fmt.Errorf("suggestion has no school name: %w", pkgerrors.ErrInvalidArgument)
	}

	school := &types.School{Name: strings.TrimSpace(suggestion.Name)}
	if v := strings.TrimSpace(suggestion.Country); v != "" {
		school.Country = &v
	}
	if v := strings.TrimSpace(suggestion.Website); v != "" {
		school.Website = &v
	}

	if cityName := strings.TrimSpace(suggestion.City); cityName != "" {
		city, err := ms.cities.GetByName(ctx, nil, cityName)
		if errors.Is(err, pkgerrors.ErrNotFound) {
			created, cerr := ms.cities.Create(ctx, nil, []*types.City{{
				Name:    cityName,
				Country: strings.TrimSpace(suggestion.Country),
				Slug:    matchsteps.Slugify(cityName),
			}})
			if cerr != nil {
				return nil, fmt.Errorf("create city %q: %w", cityName, cerr)
			}
			city = created[0]
		} else if err != nil {
			return nil, fmt.Errorf("resolve city %q: %w", cityName, err)
		}
		school.CityID = &city.ID
	}

	created, err := ms.schools.Create(ctx, nil, []*types.School{school})
	if err != nil {
		return nil, fmt.Errorf("create school: %w", err)
	}
	ms.log.Info("Materialized suggested school",
		"submission_id", sub.ID, "school_id", created[0].ID, "city", suggestion.City)
	return created[0], nil
}

func (ms *moderationService) invalidatePages(ctx context.Context, report *aggregation.ApprovalReport) {
	if ms.pageCache == nil {
		return
	}
	if report.SchoolID != nil {
		school, err := ms.schools.GetByID(ctx, nil, *report.SchoolID)
		if err == nil && school.Slug != nil {
			if err := ms.pageCache.InvalidateSchool(ctx, *school.Slug); err != nil {
				ms.log.Warn("School page invalidation failed; TTL will expire it",
					"slug", *school.Slug, "error", err)
			}
		}
	}
	if report.CityID != nil {
		if err := ms.pageCache.InvalidateCity(ctx, report.CityID.String()); err != nil {
			ms.log.Warn("City page invalidation failed; TTL will expire it",
				"city_id", report.CityID, "error", err)
		}
	}
}

func (ms *moderationService) notifySubmitter(ctx context.Context, sub *types.Submission, outcome string) {
	if ms.mailer == nil || sub.SubmitterEmail == nil || *sub.SubmitterEmail == "" {
		return
	}
	_, err := ms.mailer.Send(ctx, sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: *sub.SubmitterEmail}},
		Subject: fmt.Sprintf("Your SchoolAtlas submission was %s", outcome),
		Text: fmt.Sprintf(
			"Thanks for contributing to SchoolAtlas.\n\nYour %s submission has been %s by our moderation team.\n",
			sub.Kind, outcome),
	})
	if err != nil {
		ms.log.Warn("Submitter notification failed", "submission_id", sub.ID, "error", err)
	}
}
