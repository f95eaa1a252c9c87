package steps

import (
	"github.com/google/uuid"

	"github.com/schoolatlas/schoolatlas-backend/internal/domain/directory"
)

// MergeProjection is the closed set of fields a merge may copy from a
// pipeline record onto a directory record. Restricting the copy to this
// projection prevents provenance bleed: pipeline data must never overwrite
// directory fields that have no pipeline equivalent (accreditations,
// address, mission).
//
// Every field is a pointer; nil means "absent on the pipeline side, leave
// the directory value untouched".
type MergeProjection struct {
	CityID          *uuid.UUID
	Rating          *float64
	ReviewCount     *int
	SalaryRange     *string
	SalaryMin       *int
	SalaryMax       *int
	Summary         *string
	Pros            *string
	Cons            *string
	CommunityRating *float64
	ISRRating       *float64
	ISRReviewCount  *int
	SchoolType      *string

	// Backfill-only: applied when the directory record has no value of its
	// own. Directory data for these is considered more authoritative.
	Website *string
	Phone   *string
}

// BuildMergeProjection selects the copyable, non-null pipeline fields, plus
// website/phone backfill where the directory side is empty.
func BuildMergeProjection(pipeline, dir *directory.School) MergeProjection {
	p := MergeProjection{
		CityID:          pipeline.CityID,
		Rating:          pipeline.Rating,
		ReviewCount:     pipeline.ReviewCount,
		SalaryRange:     pipeline.SalaryRange,
		SalaryMin:       pipeline.SalaryMin,
		SalaryMax:       pipeline.SalaryMax,
		Summary:         pipeline.Summary,
		Pros:            pipeline.Pros,
		Cons:            pipeline.Cons,
		CommunityRating: pipeline.CommunityRating,
		ISRRating:       pipeline.ISRRating,
		ISRReviewCount:  pipeline.ISRReviewCount,
		SchoolType:      pipeline.SchoolType,
	}
	if dir != nil {
		if dir.Website == nil {
			p.Website = pipeline.Website
		}
		if dir.Phone == nil {
			p.Phone = pipeline.Phone
		}
	}
	return p
}

// Fields renders the projection as a column update map, skipping nil
// entries so absent pipeline fields never null out directory values.
func (p MergeProjection) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if p.CityID != nil {
		fields["city_id"] = *p.CityID
	}
	if p.Rating != nil {
		fields["rating"] = *p.Rating
	}
	if p.ReviewCount != nil {
		fields["review_count"] = *p.ReviewCount
	}
	if p.SalaryRange != nil {
		fields["salary_range"] = *p.SalaryRange
	}
	if p.SalaryMin != nil {
		fields["salary_min"] = *p.SalaryMin
	}
	if p.SalaryMax != nil {
		fields["salary_max"] = *p.SalaryMax
	}
	if p.Summary != nil {
		fields["summary"] = *p.Summary
	}
	if p.Pros != nil {
		fields["pros"] = *p.Pros
	}
	if p.Cons != nil {
		fields["cons"] = *p.Cons
	}
	if p.CommunityRating != nil {
		fields["community_rating"] = *p.CommunityRating
	}
	if p.ISRRating != nil {
		fields["isr_rating"] = *p.ISRRating
	}
	if p.ISRReviewCount != nil {
		fields["isr_review_count"] = *p.ISRReviewCount
	}
	if p.SchoolType != nil {
		fields["school_type"] = *p.SchoolType
	}
	if p.Website != nil {
		fields["website"] = *p.Website
	}
	if p.Phone != nil {
		fields["phone"] = *p.Phone
	}
	return fields
}
