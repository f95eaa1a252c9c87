package steps

import (
	"sort"

	"github.com/schoolatlas/schoolatlas-backend/internal/domain/directory"
)

// Candidate pairs a directory-only school with its similarity to a pipeline
// school. Candidates are transient values, never persisted.
type Candidate struct {
	School *directory.School
	Score  float64
}

// Proposal is one pipeline school's ranked shortlist, presented to a human
// operator. Top duplicates the first candidate as a convenience.
type Proposal struct {
	Pipeline   *directory.School
	Candidates []Candidate
	Top        *Candidate
}

// RankCandidates scores a pipeline school against every directory school
// and returns up to limit candidates by descending similarity. Ties keep
// the input order (stable sort) so results are deterministic per catalog
// snapshot.
func RankCandidates(pipeline *directory.School, directorySchools []*directory.School, limit int) []Candidate {
	if pipeline == nil || len(directorySchools) == 0 {
		return nil
	}
	pipelineKey := NormalizeName(pipeline.Name)

	candidates := make([]Candidate, 0, len(directorySchools))
	for _, ds := range directorySchools {
		candidates = append(candidates, Candidate{
			School: ds,
			Score:  Similarity(pipelineKey, NormalizeName(ds.Name)),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// BuildProposal assembles the operator-facing shortlist for one pipeline
// school.
func BuildProposal(pipeline *directory.School, directorySchools []*directory.School, limit int) Proposal {
	p := Proposal{Pipeline: pipeline}
	p.Candidates = RankCandidates(pipeline, directorySchools, limit)
	if len(p.Candidates) > 0 {
		p.Top = &p.Candidates[0]
	}
	return p
}
