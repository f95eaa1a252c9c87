package community

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SubmissionKindReview    = "review"
	SubmissionKindNewSchool = "new_school"

	SubmissionStatusPending  = "pending"
	SubmissionStatusApproved = "approved"
	SubmissionStatusRejected = "rejected"
)

// Submission is the moderation envelope around a community contribution.
// Flipping its status to approved is what makes the linked review rows
// count toward aggregation.
type Submission struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Kind   string    `gorm:"column:kind;not null" json:"kind"`
	Status string    `gorm:"column:status;not null;default:'pending';index" json:"status"`

	SchoolID *uuid.UUID `gorm:"type:uuid;index" json:"school_id,omitempty"`
	CityID   *uuid.UUID `gorm:"type:uuid;index" json:"city_id,omitempty"`

	SubmitterEmail *string        `gorm:"column:submitter_email" json:"submitter_email,omitempty"`
	Payload        datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload,omitempty"`

	ModeratedAt *time.Time `gorm:"column:moderated_at" json:"moderated_at,omitempty"`
	ModeratedBy *string    `gorm:"column:moderated_by" json:"moderated_by,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Submission) TableName() string { return "submission" }

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *Submission) IsApproved() bool {
	return s != nil && s.Status == SubmissionStatusApproved
}
