package steps

import (
	"github.com/google/uuid"

	"github.com/schoolatlas/schoolatlas-backend/internal/domain/directory"
)

// PlannedMerge is one accepted pipeline→directory assignment.
type PlannedMerge struct {
	Pipeline  *directory.School
	Directory *directory.School
	Score     float64
}

// SkippedSchool is a pipeline school left unmatched, carrying its best
// rejected candidate for operator review. Best is nil when the city had no
// unclaimed directory schools left.
type SkippedSchool struct {
	Pipeline *directory.School
	Best     *Candidate
}

// MergePlan is the output of one bulk-merge planning pass.
type MergePlan struct {
	Merges  []PlannedMerge
	Skipped []SkippedSchool
}

// PlanBulkMerge greedily assigns each pipeline school to its best-scoring
// unclaimed directory school at or above threshold. The claimed set is
// explicit and local to the call, so planning is a pure function of its
// inputs.
//
// The pass is single and order-dependent: ties and near-ties resolve by
// pipeline iteration order rather than globally optimal assignment. That is
// an accepted tradeoff of simplicity over optimality, not a bug; a directory
// school is never assigned twice within one plan.
func PlanBulkMerge(pipelineSchools, directorySchools []*directory.School, threshold float64) MergePlan {
	plan := MergePlan{}
	claimed := make(map[uuid.UUID]struct{}, len(directorySchools))

	for _, ps := range pipelineSchools {
		best := bestUnclaimed(ps, directorySchools, claimed)
		if best == nil || best.Score < threshold {
			plan.Skipped = append(plan.Skipped, SkippedSchool{Pipeline: ps, Best: best})
			continue
		}
		claimed[best.School.ID] = struct{}{}
		plan.Merges = append(plan.Merges, PlannedMerge{
			Pipeline:  ps,
			Directory: best.School,
			Score:     best.Score,
		})
	}
	return plan
}

func bestUnclaimed(pipeline *directory.School, directorySchools []*directory.School, claimed map[uuid.UUID]struct{}) *Candidate {
	pipelineKey := NormalizeName(pipeline.Name)

	var best *Candidate
	for _, ds := range directorySchools {
		if _, taken := claimed[ds.ID]; taken {
			continue
		}
		score := Similarity(pipelineKey, NormalizeName(ds.Name))
		if best == nil || score > best.Score {
			best = &Candidate{School: ds, Score: score}
		}
	}
	return best
}
