package steps

import (
	"math"

	"github.com/schoolatlas/schoolatlas-backend/internal/domain/community"
)

// roleBuckets maps a reviewer's role level to the city salary bucket it
// contributes to.
var roleBuckets = map[string]string{
	community.RoleLevelClassroomTeacher: "entry",
	community.RoleLevelTeacherLeader:    "mid",
	community.RoleLevelSeniorLeadership: "senior",
}

// CityBreakdown holds per-seniority average annual salaries for a city.
// A nil bucket means no qualifying review contributed to it and the stored
// value must be left untouched.
type CityBreakdown struct {
	Entry      *int
	Mid        *int
	Senior     *int
	SampleSize int
}

// CitySalaryBreakdown buckets salary-bearing reviews by the reviewer's role
// level and averages each bucket's annual midpoint. Reviews with no salary
// disclosure or an unrecognized role level do not count toward the sample.
func CitySalaryBreakdown(reviews []*community.Review) CityBreakdown {
	sums := map[string]int{}
	counts := map[string]int{}

	for _, r := range reviews {
		if r == nil || r.RoleLevel == nil {
			continue
		}
		bucket, ok := roleBuckets[*r.RoleLevel]
		if !ok {
			continue
		}
		band, ok := ReviewAnnualBand(r)
		if !ok {
			continue
		}
		sums[bucket] += bandMidpoint(band)
		counts[bucket]++
	}

	var out CityBreakdown
	if n := counts["entry"]; n > 0 {
		v := sums["entry"] / n
		out.Entry = &v
	}
	if n := counts["mid"]; n > 0 {
		v := sums["mid"] / n
		out.Mid = &v
	}
	if n := counts["senior"]; n > 0 {
		v := sums["senior"] / n
		out.Senior = &v
	}
	out.SampleSize = counts["entry"] + counts["mid"] + counts["senior"]
	return out
}

func bandMidpoint(b SalaryBand) int {
	return int(math.Round(float64(b.Min+b.Max) / 2))
}
