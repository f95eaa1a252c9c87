package directory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// School is the central directory entity. Its fields come from two
// provenances that may coexist on one row after a merge: profile data
// imported from the accreditation registry, and community statistics
// accumulated by the review pipeline.
//
// A row with CityID set and Slug null is pipeline-only (not publicly
// browsable). A row with Slug set and CityID null is directory-only
// (browsable, no statistics). A row with both is merged.
type School struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"column:name;not null;index" json:"name"`
	Slug       *string   `gorm:"column:slug;uniqueIndex" json:"slug,omitempty"`
	CityID     *uuid.UUID `gorm:"type:uuid;index" json:"city_id,omitempty"`
	City       *City      `gorm:"constraint:OnDelete:SET NULL;foreignKey:CityID;references:ID" json:"city,omitempty"`
	Country    *string    `gorm:"column:country" json:"country,omitempty"`
	SchoolType *string    `gorm:"column:school_type" json:"school_type,omitempty"`

	// Directory provenance (accreditation registry import).
	Address        string         `gorm:"column:address;type:text" json:"address,omitempty"`
	Website        *string        `gorm:"column:website" json:"website,omitempty"`
	Phone          *string        `gorm:"column:phone" json:"phone,omitempty"`
	Mission        string         `gorm:"column:mission;type:text" json:"mission,omitempty"`
	Curricula      datatypes.JSON `gorm:"column:curricula;type:jsonb" json:"curricula,omitempty"`
	Accreditations datatypes.JSON `gorm:"column:accreditations;type:jsonb" json:"accreditations,omitempty"`

	// Pipeline provenance (community statistics).
	Rating          *float64 `gorm:"column:rating" json:"rating,omitempty"`
	ReviewCount     *int     `gorm:"column:review_count" json:"review_count,omitempty"`
	SalaryRange     *string  `gorm:"column:salary_range" json:"salary_range,omitempty"`
	SalaryMin       *int     `gorm:"column:salary_min" json:"salary_min,omitempty"`
	SalaryMax       *int     `gorm:"column:salary_max" json:"salary_max,omitempty"`
	Summary         *string  `gorm:"column:summary;type:text" json:"summary,omitempty"`
	Pros            *string  `gorm:"column:pros;type:text" json:"pros,omitempty"`
	Cons            *string  `gorm:"column:cons;type:text" json:"cons,omitempty"`
	CommunityRating *float64 `gorm:"column:community_rating" json:"community_rating,omitempty"`

	// Legacy ISR import: a static prior that dilutes but never disappears
	// as community reviews accumulate.
	ISRRating      *float64 `gorm:"column:isr_rating" json:"isr_rating,omitempty"`
	ISRReviewCount *int     `gorm:"column:isr_review_count" json:"isr_review_count,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (School) TableName() string { return "school" }

func (s *School) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *School) IsPipelineOnly() bool {
	return s != nil && s.CityID != nil && s.Slug == nil
}

func (s *School) IsDirectoryOnly() bool {
	return s != nil && s.Slug != nil && s.CityID == nil
}

func (s *School) IsMerged() bool {
	return s != nil && s.Slug != nil && s.CityID != nil
}
