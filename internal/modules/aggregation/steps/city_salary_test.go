package steps

import (
	"testing"

	"github.com/schoolatlas/schoolatlas-backend/internal/domain/community"
	"github.com/schoolatlas/schoolatlas-backend/internal/pkg/pointers"
)

func roleReview(role string, monthly int) *community.Review {
	return &community.Review{
		RoleLevel:     pointers.String(role),
		SalaryMonthly: pointers.Int(monthly),
	}
}

func TestCitySalaryBreakdownBuckets(t *testing.T) {
	reviews := []*community.Review{
		roleReview(community.RoleLevelClassroomTeacher, 2500), // 30000
		roleReview(community.RoleLevelClassroomTeacher, 3500), // 42000
		roleReview(community.RoleLevelTeacherLeader, 4000),    // 48000
		roleReview(community.RoleLevelSeniorLeadership, 7000), // 84000
	}

	b := CitySalaryBreakdown(reviews)
	if b.SampleSize != 4 {
		t.Fatalf("sample size = %d, want 4", b.SampleSize)
	}
	if b.Entry == nil || *b.Entry != 36000 {
		t.Fatalf("entry = %v, want 36000", b.Entry)
	}
	if b.Mid == nil || *b.Mid != 48000 {
		t.Fatalf("mid = %v, want 48000", b.Mid)
	}
	if b.Senior == nil || *b.Senior != 84000 {
		t.Fatalf("senior = %v, want 84000", b.Senior)
	}
}

func TestCitySalaryBreakdownEmptyBucketStaysNil(t *testing.T) {
	reviews := []*community.Review{
		roleReview(community.RoleLevelClassroomTeacher, 3000),
	}
	b := CitySalaryBreakdown(reviews)
	if b.Entry == nil {
		t.Fatalf("entry should be set")
	}
	if b.Mid != nil || b.Senior != nil {
		t.Fatalf("mid/senior should stay nil with no qualifying reviews")
	}
	if b.SampleSize != 1 {
		t.Fatalf("sample size = %d, want 1", b.SampleSize)
	}
}

func TestCitySalaryBreakdownSkipsNonQualifying(t *testing.T) {
	reviews := []*community.Review{
		{RoleLevel: pointers.String(community.RoleLevelTeacherLeader)}, // no salary
		{SalaryMonthly: pointers.Int(3000)},                           // no role
		roleReview("head_of_it", 5000),                                // unknown role
		nil,
	}
	b := CitySalaryBreakdown(reviews)
	if b.SampleSize != 0 {
		t.Fatalf("sample size = %d, want 0", b.SampleSize)
	}
	if b.Entry != nil || b.Mid != nil || b.Senior != nil {
		t.Fatalf("no bucket should be set: %+v", b)
	}
}

func TestCitySalaryBreakdownUsesBandMidpoint(t *testing.T) {
	reviews := []*community.Review{
		{
			RoleLevel:       pointers.String(community.RoleLevelTeacherLeader),
			SalaryAnnualMin: pointers.Int(40000),
			SalaryAnnualMax: pointers.Int(50000),
		},
	}
	b := CitySalaryBreakdown(reviews)
	if b.Mid == nil || *b.Mid != 45000 {
		t.Fatalf("mid = %v, want midpoint 45000", b.Mid)
	}
}
