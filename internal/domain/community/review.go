package community

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolatlas/schoolatlas-backend/internal/domain/directory"
)

// Role levels carried on reviews. The city salary rollup buckets by these.
const (
	RoleLevelClassroomTeacher = "classroom_teacher"
	RoleLevelTeacherLeader    = "teacher_leader"
	RoleLevelSeniorLeadership = "senior_leadership"
)

// Review is a single community submission's structured ratings and free
// text. It only counts toward aggregation once its parent submission is
// approved. Reviews are immutable except by administrative edit and are
// never deleted by the aggregation logic.
type Review struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	SchoolID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"school_id"`
	School       *directory.School `gorm:"constraint:OnDelete:CASCADE;foreignKey:SchoolID;references:ID" json:"school,omitempty"`
	SubmissionID uuid.UUID         `gorm:"type:uuid;not null;index" json:"submission_id"`
	Submission   *Submission       `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubmissionID;references:ID" json:"submission,omitempty"`

	Position      *string  `gorm:"column:position" json:"position,omitempty"`
	RoleLevel     *string  `gorm:"column:role_level;index" json:"role_level,omitempty"`
	YearsAtSchool *string  `gorm:"column:years_at_school" json:"years_at_school,omitempty"`
	OverallRating *float64 `gorm:"column:overall_rating" json:"overall_rating,omitempty"`

	// Either a single monthly figure or an annual min/max pair.
	SalaryMonthly   *int `gorm:"column:salary_monthly" json:"salary_monthly,omitempty"`
	SalaryAnnualMin *int `gorm:"column:salary_annual_min" json:"salary_annual_min,omitempty"`
	SalaryAnnualMax *int `gorm:"column:salary_annual_max" json:"salary_annual_max,omitempty"`

	Pros   *string `gorm:"column:pros;type:text" json:"pros,omitempty"`
	Cons   *string `gorm:"column:cons;type:text" json:"cons,omitempty"`
	Advice *string `gorm:"column:advice;type:text" json:"advice,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Review) TableName() string { return "review" }

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// HasWrittenContent reports whether the review carries any narrative text.
// Only reviews with written content trigger narrative resynthesis.
func (r *Review) HasWrittenContent() bool {
	if r == nil {
		return false
	}
	for _, f := range []*string{r.Pros, r.Cons, r.Advice} {
		if f != nil && *f != "" {
			return true
		}
	}
	return false
}
