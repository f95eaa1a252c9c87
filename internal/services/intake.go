package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/schoolatlas/schoolatlas-backend/internal/data/repos"
	types "github.com/schoolatlas/schoolatlas-backend/internal/domain"
	"github.com/schoolatlas/schoolatlas-backend/internal/domain/community"
	pkgerrors "github.com/schoolatlas/schoolatlas-backend/internal/pkg/errors"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
)

// ReviewInput is the public review submission payload.
type ReviewInput struct {
	SchoolSlug     string   `json:"school_slug" binding:"required"`
	SubmitterEmail string   `json:"submitter_email,omitempty"`
	Position       *string  `json:"position,omitempty"`
	RoleLevel      *string  `json:"role_level,omitempty"`
	YearsAtSchool  *string  `json:"years_at_school,omitempty"`
	OverallRating  *float64 `json:"overall_rating,omitempty"`

	SalaryMonthly   *int `json:"salary_monthly,omitempty"`
	SalaryAnnualMin *int `json:"salary_annual_min,omitempty"`
	SalaryAnnualMax *int `json:"salary_annual_max,omitempty"`

	Pros   *string `json:"pros,omitempty"`
	Cons   *string `json:"cons,omitempty"`
	Advice *string `json:"advice,omitempty"`
}

// SchoolSuggestion is the public new-school suggestion payload. It never
// creates a school row directly; it lands as a pending submission for an
// operator to act on.
type SchoolSuggestion struct {
	Name           string `json:"name" binding:"required"`
	City           string `json:"city,omitempty"`
	Country        string `json:"country,omitempty"`
	Website        string `json:"website,omitempty"`
	Notes          string `json:"notes,omitempty"`
	SubmitterEmail string `json:"submitter_email,omitempty"`
}

// IntakeService accepts public community contributions. Everything enters
// through a pending submission; nothing it writes is publicly visible until
// moderation approves it.
type IntakeService interface {
	SubmitReview(ctx context.Context, in ReviewInput) (*types.Submission, error)
	SuggestSchool(ctx context.Context, in SchoolSuggestion) (*types.Submission, error)
}

type intakeService struct {
	db          *gorm.DB
	log         *logger.Logger
	schools     repos.SchoolRepo
	reviews     repos.ReviewRepo
	submissions repos.SubmissionRepo
}

func NewIntakeService(
	db *gorm.DB,
	log *logger.Logger,
	schools repos.SchoolRepo,
	reviews repos.ReviewRepo,
	submissions repos.SubmissionRepo,
) IntakeService {
	return &intakeService{
		db:          db,
		log:         log.With("service", "IntakeService"),
		schools:     schools,
		reviews:     reviews,
		submissions: submissions,
	}
}

var validRoleLevels = map[string]bool{
	types.RoleLevelClassroomTeacher: true,
	types.RoleLevelTeacherLeader:    true,
	types.RoleLevelSeniorLeadership: true,
}

func (is *intakeService) SubmitReview(ctx context.Context, in ReviewInput) (*types.Submission, error) {
	if err := validateReviewInput(in); err != nil {
		return nil, err
	}

	school, err := is.schools.GetBySlug(ctx, nil, strings.TrimSpace(in.SchoolSlug))
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal review payload: %w", err)
	}

	sub := &types.Submission{
		Kind:     types.SubmissionKindReview,
		Status:   types.SubmissionStatusPending,
		SchoolID: &school.ID,
		CityID:   school.CityID,
		Payload:  payload,
	}
	if email := strings.TrimSpace(in.SubmitterEmail); email != "" {
		sub.SubmitterEmail = &email
	}

	err = is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := is.submissions.Create(ctx, tx, []*types.Submission{sub}); err != nil {
			return fmt.Errorf("create submission: %w", err)
		}
		review := &community.Review{
			SchoolID:        school.ID,
			SubmissionID:    sub.ID,
			Position:        in.Position,
			RoleLevel:       in.RoleLevel,
			YearsAtSchool:   in.YearsAtSchool,
			OverallRating:   in.OverallRating,
			SalaryMonthly:   in.SalaryMonthly,
			SalaryAnnualMin: in.SalaryAnnualMin,
			SalaryAnnualMax: in.SalaryAnnualMax,
			Pros:            in.Pros,
			Cons:            in.Cons,
			Advice:          in.Advice,
		}
		if _, err := is.reviews.Create(ctx, tx, []*community.Review{review}); err != nil {
			return fmt.Errorf("create review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	is.log.Info("Review submitted", "submission_id", sub.ID, "school_id", school.ID)
	return sub, nil
}

func (is *intakeService) SuggestSchool(ctx context.Context, in SchoolSuggestion) (*types.Submission, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("school name required: %w", pkgerrors.ErrInvalidArgument)
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal suggestion payload: %w", err)
	}

	sub := &types.Submission{
		Kind:    types.SubmissionKindNewSchool,
		Status:  types.SubmissionStatusPending,
		Payload: payload,
	}
	if email := strings.TrimSpace(in.SubmitterEmail); email != "" {
		sub.SubmitterEmail = &email
	}

	if _, err := is.submissions.Create(ctx, nil, []*types.Submission{sub}); err != nil {
		return nil, fmt.Errorf("create suggestion: %w", err)
	}

	is.log.Info("School suggested", "submission_id", sub.ID, "name", in.Name)
	return sub, nil
}

func validateReviewInput(in ReviewInput) error {
	if strings.TrimSpace(in.SchoolSlug) == "" {
		return fmt.Errorf("school_slug required: %w", pkgerrors.ErrInvalidArgument)
	}
	if in.OverallRating != nil && (*in.OverallRating < 0 || *in.OverallRating > 10) {
		return fmt.Errorf("overall_rating must be between 0 and 10: %w", pkgerrors.ErrInvalidArgument)
	}
	if in.RoleLevel != nil && !validRoleLevels[*in.RoleLevel] {
		return fmt.Errorf("unknown role_level %q: %w", *in.RoleLevel, pkgerrors.ErrInvalidArgument)
	}
	for name, v := range map[string]*int{
		"salary_monthly":    in.SalaryMonthly,
		"salary_annual_min": in.SalaryAnnualMin,
		"salary_annual_max": in.SalaryAnnualMax,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must be non-negative: %w", name, pkgerrors.ErrInvalidArgument)
		}
	}
	hasContent := in.OverallRating != nil ||
		in.SalaryMonthly != nil || in.SalaryAnnualMin != nil || in.SalaryAnnualMax != nil ||
		hasText(in.Pros) || hasText(in.Cons) || hasText(in.Advice)
	if !hasContent {
		return fmt.Errorf("review must carry a rating, a salary disclosure, or written content: %w", pkgerrors.ErrInvalidArgument)
	}
	return nil
}

func hasText(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
