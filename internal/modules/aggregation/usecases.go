package aggregation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/schoolatlas/schoolatlas-backend/internal/config"
	"github.com/schoolatlas/schoolatlas-backend/internal/data/repos"
	"github.com/schoolatlas/schoolatlas-backend/internal/domain/community"
	"github.com/schoolatlas/schoolatlas-backend/internal/modules/aggregation/steps"
	pkgerrors "github.com/schoolatlas/schoolatlas-backend/internal/pkg/errors"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Schools     repos.SchoolRepo
	Cities      repos.CityRepo
	Reviews     repos.ReviewRepo
	Submissions repos.SubmissionRepo

	Summarizer Summarizer

	Cfg config.AggregationConfig
}

// Usecases recomputes a school's and city's derived statistics from approved
// reviews. Every recalculation is idempotent over current state, so a failed
// sub-step heals on the next approval touching the same records.
type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log != nil {
		deps.Log = deps.Log.With("module", "aggregation")
	}
	return Usecases{deps: deps}
}

// StepResult records one sub-step of an approval fan-out.
type StepResult struct {
	Step  string `json:"step"`
	Error string `json:"error,omitempty"`
}

// ApprovalReport summarizes the recalculations run after one approval.
type ApprovalReport struct {
	SubmissionID uuid.UUID    `json:"submission_id"`
	SchoolID     *uuid.UUID   `json:"school_id,omitempty"`
	CityID       *uuid.UUID   `json:"city_id,omitempty"`
	Steps        []StepResult `json:"steps"`
}

// Failed reports whether any sub-step errored.
func (r *ApprovalReport) Failed() bool {
	for _, s := range r.Steps {
		if s.Error != "" {
			return true
		}
	}
	return false
}

// OnSubmissionApproved runs the full recalculation fan-out for an approved
// submission: school rating, school salary band, school narrative, and city
// salary breakdown, concurrently. Sub-step failures are logged and recorded
// on the report but never abort the other sub-steps; only structural
// problems (missing submission, not approved) return an error.
func (u Usecases) OnSubmissionApproved(ctx context.Context, submissionID uuid.UUID) (*ApprovalReport, error) {
	sub, err := u.deps.Submissions.GetByID(ctx, nil, submissionID)
	if err != nil {
		return nil, err
	}
	if !sub.IsApproved() {
		return nil, fmt.Errorf("submission %s is %s, not approved: %w", sub.ID, sub.Status, pkgerrors.ErrInvalidArgument)
	}

	report := &ApprovalReport{SubmissionID: sub.ID, SchoolID: sub.SchoolID, CityID: sub.CityID}

	// A review submission may not carry the city directly; resolve it from
	// the school so the city rollup still runs.
	if report.CityID == nil && sub.SchoolID != nil {
		school, err := u.deps.Schools.GetByID(ctx, nil, *sub.SchoolID)
		if err == nil {
			report.CityID = school.CityID
		} else {
			u.deps.Log.Warn("City resolution failed; skipping city salary rollup",
				"submission_id", sub.ID, "school_id", *sub.SchoolID, "error", err)
		}
	}

	var (
		results = make(chan StepResult, 4)
		g       errgroup.Group
	)
	runStep := func(name string, fn func(context.Context) error) {
		g.Go(func() error {
			res := StepResult{Step: name}
			if err := fn(ctx); err != nil {
				res.Error = err.Error()
				u.deps.Log.Error("Aggregation sub-step failed; will self-heal on next approval",
					"step", name, "submission_id", sub.ID, "error", err)
			}
			results <- res
			return nil
		})
	}

	if report.SchoolID != nil {
		schoolID := *report.SchoolID
		runStep("school_rating", func(ctx context.Context) error {
			return u.RecalculateRating(ctx, schoolID)
		})
		runStep("school_salary", func(ctx context.Context) error {
			return u.RecalculateSchoolSalary(ctx, schoolID)
		})
		runStep("school_narrative", func(ctx context.Context) error {
			return u.ResynthesizeNarrative(ctx, schoolID)
		})
	}
	if report.CityID != nil {
		cityID := *report.CityID
		runStep("city_salary", func(ctx context.Context) error {
			return u.RecalculateCitySalary(ctx, cityID)
		})
	}

	g.Wait()
	close(results)
	for res := range results {
		report.Steps = append(report.Steps, res)
	}

	u.deps.Log.Info("Approval recalculation finished",
		"submission_id", sub.ID, "steps", len(report.Steps), "failed", report.Failed())
	return report, nil
}

// RecalculateRating blends the school's static ISR baseline with all
// approved community ratings and writes back the blended rating, the
// combined count, and the community-only average.
func (u Usecases) RecalculateRating(ctx context.Context, schoolID uuid.UUID) error {
	school, err := u.deps.Schools.GetByID(ctx, nil, schoolID)
	if err != nil {
		return err
	}
	reviews, err := u.deps.Reviews.ListApprovedBySchool(ctx, nil, schoolID)
	if err != nil {
		return fmt.Errorf("list approved reviews: %w", err)
	}

	ratings := make([]float64, 0, len(reviews))
	for _, r := range reviews {
		if r.OverallRating != nil {
			ratings = append(ratings, *r.OverallRating)
		}
	}

	var baselineRating float64
	var baselineCount int
	if school.ISRRating != nil {
		baselineRating = *school.ISRRating
	}
	if school.ISRReviewCount != nil {
		baselineCount = *school.ISRReviewCount
	}

	blended, total := steps.BlendRating(baselineRating, baselineCount, ratings)
	fields := map[string]interface{}{
		"rating":       blended,
		"review_count": total,
	}
	if avg, ok := steps.CommunityAverage(ratings); ok {
		fields["community_rating"] = avg
	}
	if err := u.deps.Schools.UpdateFields(ctx, nil, school.ID, fields); err != nil {
		return fmt.Errorf("write rating: %w", err)
	}
	u.deps.Log.Info("Recalculated rating",
		"school_id", school.ID, "rating", blended, "review_count", total)
	return nil
}

// RecalculateSchoolSalary recomputes the school's displayed salary band as
// the widest band across all approved disclosures. No disclosure means no
// mutation.
func (u Usecases) RecalculateSchoolSalary(ctx context.Context, schoolID uuid.UUID) error {
	reviews, err := u.deps.Reviews.ListApprovedBySchool(ctx, nil, schoolID)
	if err != nil {
		return fmt.Errorf("list approved reviews: %w", err)
	}

	band, ok := steps.WidestBand(reviews)
	if !ok {
		u.deps.Log.Debug("No salary disclosures; school band unchanged", "school_id", schoolID)
		return nil
	}

	fields := map[string]interface{}{
		"salary_range": steps.FormatBand(band),
		"salary_min":   band.Min,
		"salary_max":   band.Max,
	}
	if err := u.deps.Schools.UpdateFields(ctx, nil, schoolID, fields); err != nil {
		return fmt.Errorf("write salary band: %w", err)
	}
	u.deps.Log.Info("Recalculated salary band",
		"school_id", schoolID, "min", band.Min, "max", band.Max)
	return nil
}

// RecalculateCitySalary recomputes the city's per-seniority salary averages
// from every approved, salary-bearing review across its schools. Buckets
// with no qualifying review keep their stored value.
func (u Usecases) RecalculateCitySalary(ctx context.Context, cityID uuid.UUID) error {
	reviews, err := u.deps.Reviews.ListApprovedByCity(ctx, nil, cityID)
	if err != nil {
		return fmt.Errorf("list approved city reviews: %w", err)
	}

	breakdown := steps.CitySalaryBreakdown(reviews)
	if breakdown.SampleSize == 0 {
		u.deps.Log.Debug("No qualifying salary reviews; city breakdown unchanged", "city_id", cityID)
		return nil
	}

	fields := map[string]interface{}{"salary_sample_size": breakdown.SampleSize}
	if breakdown.Entry != nil {
		fields["entry_salary"] = *breakdown.Entry
	}
	if breakdown.Mid != nil {
		fields["mid_salary"] = *breakdown.Mid
	}
	if breakdown.Senior != nil {
		fields["senior_salary"] = *breakdown.Senior
	}
	if err := u.deps.Cities.UpdateFields(ctx, nil, cityID, fields); err != nil {
		return fmt.Errorf("write city breakdown: %w", err)
	}
	u.deps.Log.Info("Recalculated city salary breakdown",
		"city_id", cityID, "sample_size", breakdown.SampleSize)
	return nil
}

// ResynthesizeNarrative rebuilds the school's summary, pros, and cons by
// feeding the approved review transcript and the current text to the
// summarizer. Runs only when at least one approved review carries written
// content; a summarizer failure leaves the stored text untouched.
func (u Usecases) ResynthesizeNarrative(ctx context.Context, schoolID uuid.UUID) error {
	if u.deps.Summarizer == nil {
		u.deps.Log.Debug("No summarizer configured; narrative unchanged", "school_id", schoolID)
		return nil
	}

	school, err := u.deps.Schools.GetByID(ctx, nil, schoolID)
	if err != nil {
		return err
	}
	reviews, err := u.deps.Reviews.ListApprovedBySchool(ctx, nil, schoolID)
	if err != nil {
		return fmt.Errorf("list approved reviews: %w", err)
	}
	if !anyWritten(reviews) {
		u.deps.Log.Debug("No written reviews; narrative unchanged", "school_id", schoolID)
		return nil
	}

	transcript := steps.RenderTranscript(steps.BuildTranscript(reviews, u.deps.Cfg.TranscriptLimit))
	in := SummarizeInput{
		SchoolName: school.Name,
		Transcript: transcript,
	}
	if school.Summary != nil {
		in.BaselineSummary = *school.Summary
	}
	if school.Pros != nil {
		in.BaselinePros = *school.Pros
	}
	if school.Cons != nil {
		in.BaselineCons = *school.Cons
	}

	narrative, err := u.deps.Summarizer.Summarize(ctx, in)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	if narrative.IsEmpty() {
		u.deps.Log.Debug("Summarizer returned no changes", "school_id", schoolID)
		return nil
	}

	fields := map[string]interface{}{}
	if narrative.Summary != nil {
		fields["summary"] = *narrative.Summary
	}
	if narrative.Pros != nil {
		fields["pros"] = *narrative.Pros
	}
	if narrative.Cons != nil {
		fields["cons"] = *narrative.Cons
	}
	if err := u.deps.Schools.UpdateFields(ctx, nil, school.ID, fields); err != nil {
		return fmt.Errorf("write narrative: %w", err)
	}
	u.deps.Log.Info("Resynthesized narrative", "school_id", school.ID, "fields", len(fields))
	return nil
}

func anyWritten(reviews []*community.Review) bool {
	for _, r := range reviews {
		if r.HasWrittenContent() {
			return true
		}
	}
	return false
}
