package matcher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolatlas/schoolatlas-backend/internal/config"
	"github.com/schoolatlas/schoolatlas-backend/internal/data/repos"
	types "github.com/schoolatlas/schoolatlas-backend/internal/domain"
	"github.com/schoolatlas/schoolatlas-backend/internal/modules/matcher/steps"
	pkgerrors "github.com/schoolatlas/schoolatlas-backend/internal/pkg/errors"
	"github.com/schoolatlas/schoolatlas-backend/internal/pkg/pointers"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Schools repos.SchoolRepo
	Cities  repos.CityRepo

	Cfg config.MatcherConfig
}

// Usecases is the entity matcher and merge coordinator: it proposes and
// executes merges of pipeline-only school records into directory-only ones.
type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log != nil {
		deps.Log = deps.Log.With("module", "matcher")
	}
	return Usecases{deps: deps}
}

type (
	Candidate = steps.Candidate
	Proposal  = steps.Proposal
)

// MergeResult reports what one merge execution changed.
type MergeResult struct {
	PipelineID    uuid.UUID `json:"pipeline_id"`
	DirectoryID   uuid.UUID `json:"directory_id"`
	UpdatedFields []string  `json:"updated_fields"`
}

// BulkMergeReport summarizes one bulk auto-merge run. The run favors
// forward progress over atomicity: each entry reflects an independently
// idempotent record mutation.
type BulkMergeReport struct {
	Merged  []MergedEntry  `json:"merged"`
	Skipped []SkippedEntry `json:"skipped"`
	Errors  []string       `json:"errors"`
}

type MergedEntry struct {
	PipelineID   uuid.UUID `json:"pipeline_id"`
	PipelineName string    `json:"pipeline_name"`
	DirectoryID  uuid.UUID `json:"directory_id"`
	Slug         string    `json:"slug"`
	Score        float64   `json:"score"`
}

type SkippedEntry struct {
	PipelineID   uuid.UUID `json:"pipeline_id"`
	PipelineName string    `json:"pipeline_name"`
	BestName     string    `json:"best_name,omitempty"`
	BestScore    float64   `json:"best_score"`
}

// FindCandidates proposes, for every pipeline-only school of the city, up
// to MaxCandidates directory-only schools whose address mentions the city,
// ranked by similarity. Read-only; never mutates data.
func (u Usecases) FindCandidates(ctx context.Context, cityID uuid.UUID) ([]Proposal, error) {
	city, err := u.deps.Cities.GetByID(ctx, nil, cityID)
	if err != nil {
		return nil, err
	}

	pipelineSchools, err := u.deps.Schools.ListPipelineOnlyByCity(ctx, nil, city.ID)
	if err != nil {
		return nil, fmt.Errorf("list pipeline schools: %w", err)
	}
	directorySchools, err := u.deps.Schools.ListDirectoryOnlyMatchingAddress(ctx, nil, city.Name)
	if err != nil {
		return nil, fmt.Errorf("list directory schools: %w", err)
	}

	proposals := make([]Proposal, 0, len(pipelineSchools))
	for _, ps := range pipelineSchools {
		proposals = append(proposals, steps.BuildProposal(ps, directorySchools, u.deps.Cfg.MaxCandidates))
	}
	return proposals, nil
}

// ExecuteMerge folds the pipeline record into the directory record: copy
// the allow-listed non-null pipeline fields, backfill website/phone where
// the directory side is empty, then delete the pipeline record.
//
// A failed delete is logged and swallowed: the directory record already
// holds the data, and a leftover slugless pipeline record stays invisible
// to the public directory until a future run removes it.
func (u Usecases) ExecuteMerge(ctx context.Context, pipelineID, directoryID uuid.UUID) (*MergeResult, error) {
	if pipelineID == uuid.Nil || directoryID == uuid.Nil {
		return nil, fmt.Errorf("merge requires both school ids: %w", pkgerrors.ErrInvalidArgument)
	}

	pipeline, err := u.deps.Schools.GetByID(ctx, nil, pipelineID)
	if err != nil {
		return nil, err
	}
	dir, err := u.deps.Schools.GetByID(ctx, nil, directoryID)
	if err != nil {
		return nil, err
	}
	// A slugged record is live to the public directory and may carry
	// approved reviews; deleting one as the "pipeline side" would cascade
	// them away.
	if !pipeline.IsPipelineOnly() {
		return nil, fmt.Errorf("school %s is not a pipeline-only record: %w", pipeline.ID, pkgerrors.ErrInvalidArgument)
	}
	if !dir.IsDirectoryOnly() {
		return nil, fmt.Errorf("school %s is not a directory-only record: %w", dir.ID, pkgerrors.ErrInvalidArgument)
	}

	projection := steps.BuildMergeProjection(pipeline, dir)
	fields := projection.Fields()
	if err := u.deps.Schools.UpdateFields(ctx, nil, dir.ID, fields); err != nil {
		return nil, fmt.Errorf("update directory school: %w", err)
	}

	if err := u.deps.Schools.FullDeleteByID(ctx, nil, pipeline.ID); err != nil {
		u.deps.Log.Warn("Pipeline record delete failed after merge; record stays hidden and self-heals on a future run",
			"pipeline_id", pipeline.ID, "directory_id", dir.ID, "error", err)
	}

	result := &MergeResult{PipelineID: pipeline.ID, DirectoryID: dir.ID}
	for name := range fields {
		result.UpdatedFields = append(result.UpdatedFields, name)
	}
	u.deps.Log.Info("Merged pipeline school into directory school",
		"pipeline_id", pipeline.ID, "directory_id", dir.ID, "fields", len(fields))
	return result, nil
}

// BulkMerge plans greedy assignments for the city at the given threshold
// (<= 0 uses the configured default) and executes them sequentially. The
// plan's claimed set guarantees a directory school is assigned at most once
// per run; concurrent runs on the same city are not coordinated.
func (u Usecases) BulkMerge(ctx context.Context, cityID uuid.UUID, threshold float64) (*BulkMergeReport, error) {
	if threshold <= 0 {
		threshold = u.deps.Cfg.DefaultThreshold
	}

	city, err := u.deps.Cities.GetByID(ctx, nil, cityID)
	if err != nil {
		return nil, err
	}
	pipelineSchools, err := u.deps.Schools.ListPipelineOnlyByCity(ctx, nil, city.ID)
	if err != nil {
		return nil, fmt.Errorf("list pipeline schools: %w", err)
	}
	directorySchools, err := u.deps.Schools.ListDirectoryOnlyMatchingAddress(ctx, nil, city.Name)
	if err != nil {
		return nil, fmt.Errorf("list directory schools: %w", err)
	}

	plan := steps.PlanBulkMerge(pipelineSchools, directorySchools, threshold)

	report := &BulkMergeReport{}
	for _, m := range plan.Merges {
		if _, err := u.ExecuteMerge(ctx, m.Pipeline.ID, m.Directory.ID); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", m.Pipeline.Name, err))
			continue
		}
		slug := ""
		if m.Directory.Slug != nil {
			slug = *m.Directory.Slug
		}
		report.Merged = append(report.Merged, MergedEntry{
			PipelineID:   m.Pipeline.ID,
			PipelineName: m.Pipeline.Name,
			DirectoryID:  m.Directory.ID,
			Slug:         slug,
			Score:        m.Score,
		})
	}
	for _, s := range plan.Skipped {
		entry := SkippedEntry{PipelineID: s.Pipeline.ID, PipelineName: s.Pipeline.Name}
		if s.Best != nil {
			entry.BestName = s.Best.School.Name
			entry.BestScore = s.Best.Score
		}
		report.Skipped = append(report.Skipped, entry)
	}

	u.deps.Log.Info("Bulk merge finished",
		"city", city.Name, "threshold", threshold,
		"merged", len(report.Merged), "skipped", len(report.Skipped), "errors", len(report.Errors))
	return report, nil
}

// PublishStandalone makes a pipeline-only school publicly browsable without
// merging it into any directory entity: it assigns a collision-safe slug
// and backfills the country from the city record when missing.
func (u Usecases) PublishStandalone(ctx context.Context, schoolID uuid.UUID) (*types.School, error) {
	school, err := u.deps.Schools.GetByID(ctx, nil, schoolID)
	if err != nil {
		return nil, err
	}
	if school.Slug != nil {
		return school, nil
	}

	slug := steps.Slugify(school.Name)
	taken, err := u.deps.Schools.SlugExists(ctx, nil, slug)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if taken {
		slug = steps.DisambiguateSlug(slug, time.Now().UTC())
	}

	fields := map[string]interface{}{"slug": slug}
	if school.Country == nil && school.CityID != nil {
		city, err := u.deps.Cities.GetByID(ctx, nil, *school.CityID)
		if err == nil && city.Country != "" {
			fields["country"] = city.Country
		}
	}
	if err := u.deps.Schools.UpdateFields(ctx, nil, school.ID, fields); err != nil {
		return nil, fmt.Errorf("publish school: %w", err)
	}

	school.Slug = pointers.String(slug)
	if v, ok := fields["country"].(string); ok {
		school.Country = pointers.String(v)
	}
	u.deps.Log.Info("Published standalone school", "school_id", school.ID, "slug", slug)
	return school, nil
}
