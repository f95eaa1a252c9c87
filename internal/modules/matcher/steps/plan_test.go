package steps

import (
	"testing"

	"github.com/google/uuid"

	"github.com/schoolatlas/schoolatlas-backend/internal/domain/directory"
	"github.com/schoolatlas/schoolatlas-backend/internal/pkg/pointers"
)

func pipelineSchool(name string) *directory.School {
	cityID := uuid.New()
	return &directory.School{ID: uuid.New(), Name: name, CityID: &cityID}
}

func directorySchool(name string) *directory.School {
	return &directory.School{ID: uuid.New(), Name: name, Slug: pointers.String(Slugify(name))}
}

func TestPlanBulkMergeNeverDoubleAssigns(t *testing.T) {
	// Two near-identical pipeline schools compete for one directory school.
	p1 := pipelineSchool("Saigon South International School")
	p2 := pipelineSchool("Saigon South International School Primary")
	d1 := directorySchool("Saigon South International School")

	plan := PlanBulkMerge([]*directory.School{p1, p2}, []*directory.School{d1}, 0.7)

	if len(plan.Merges) != 1 {
		t.Fatalf("merges = %d, want 1", len(plan.Merges))
	}
	if plan.Merges[0].Pipeline.ID != p1.ID {
		t.Fatalf("greedy pass should assign in pipeline iteration order")
	}
	if len(plan.Skipped) != 1 || plan.Skipped[0].Pipeline.ID != p2.ID {
		t.Fatalf("second pipeline school should be skipped once the directory school is claimed")
	}

	seen := map[uuid.UUID]bool{}
	for _, m := range plan.Merges {
		if seen[m.Directory.ID] {
			t.Fatalf("directory school %s assigned twice", m.Directory.ID)
		}
		seen[m.Directory.ID] = true
	}
}

func TestPlanBulkMergeThreshold(t *testing.T) {
	p := pipelineSchool("Harbor View Academy")
	d := directorySchool("Completely Different Name School")

	plan := PlanBulkMerge([]*directory.School{p}, []*directory.School{d}, 0.7)
	if len(plan.Merges) != 0 {
		t.Fatalf("low-similarity pair should not merge")
	}
	if len(plan.Skipped) != 1 {
		t.Fatalf("skipped = %d, want 1", len(plan.Skipped))
	}
	// The rejected best candidate is reported for operator review.
	if plan.Skipped[0].Best == nil || plan.Skipped[0].Best.School.ID != d.ID {
		t.Fatalf("skipped entry should carry the best rejected candidate")
	}
}

func TestPlanBulkMergeNoDirectorySchools(t *testing.T) {
	p := pipelineSchool("Harbor View Academy")
	plan := PlanBulkMerge([]*directory.School{p}, nil, 0.7)
	if len(plan.Skipped) != 1 || plan.Skipped[0].Best != nil {
		t.Fatalf("expected skip with nil best when no directory schools exist")
	}
}
