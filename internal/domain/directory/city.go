package directory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// City groups schools by metropolitan area. The salary breakdown columns
// are denormalized: the aggregation pipeline recomputes them from approved
// reviews, page rendering only reads them.
type City struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string    `gorm:"column:name;not null;index" json:"name"`
	Country string    `gorm:"column:country;not null" json:"country"`
	Slug    string    `gorm:"column:slug;uniqueIndex" json:"slug"`

	// Annual USD averages per role level plus the qualifying sample size.
	EntrySalary      *int `gorm:"column:entry_salary" json:"entry_salary,omitempty"`
	MidSalary        *int `gorm:"column:mid_salary" json:"mid_salary,omitempty"`
	SeniorSalary     *int `gorm:"column:senior_salary" json:"senior_salary,omitempty"`
	SalarySampleSize int  `gorm:"column:salary_sample_size;not null;default:0" json:"salary_sample_size"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (City) TableName() string { return "city" }

func (c *City) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
