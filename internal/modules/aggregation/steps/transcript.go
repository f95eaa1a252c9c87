package steps

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/schoolatlas/schoolatlas-backend/internal/domain/community"
)

// Priority tags attached to transcript entries so the summarizer weights
// recent voices more heavily.
const (
	PriorityHighest  = "highest"
	PriorityElevated = "elevated"
	PriorityNormal   = "normal"
)

// TranscriptEntry is one review flattened for the narrative prompt.
type TranscriptEntry struct {
	Position string
	Tenure   string
	Rating   *float64
	Pros     string
	Cons     string
	Advice   string
	Date     time.Time
	Priority string
}

// BuildTranscript orders approved reviews newest first, truncates to limit
// (limit <= 0 means unlimited), and tags the newest entry highest priority,
// the next two elevated, and the rest normal.
func BuildTranscript(reviews []*community.Review, limit int) []TranscriptEntry {
	sorted := make([]*community.Review, 0, len(reviews))
	for _, r := range reviews {
		if r != nil {
			sorted = append(sorted, r)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]TranscriptEntry, 0, len(sorted))
	for i, r := range sorted {
		e := TranscriptEntry{
			Rating:   r.OverallRating,
			Date:     r.CreatedAt,
			Priority: priorityForIndex(i),
		}
		if r.Position != nil {
			e.Position = *r.Position
		}
		if r.YearsAtSchool != nil {
			e.Tenure = *r.YearsAtSchool
		}
		if r.Pros != nil {
			e.Pros = *r.Pros
		}
		if r.Cons != nil {
			e.Cons = *r.Cons
		}
		if r.Advice != nil {
			e.Advice = *r.Advice
		}
		out = append(out, e)
	}
	return out
}

func priorityForIndex(i int) string {
	switch {
	case i == 0:
		return PriorityHighest
	case i <= 2:
		return PriorityElevated
	default:
		return PriorityNormal
	}
}

// RenderTranscript formats entries as a plain-text block for the prompt.
func RenderTranscript(entries []TranscriptEntry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "--- Review %d (%s, priority: %s) ---\n", i+1, e.Date.Format("2006-01-02"), e.Priority)
		if e.Position != "" {
			fmt.Fprintf(&b, "Position: %s\n", e.Position)
		}
		if e.Tenure != "" {
			fmt.Fprintf(&b, "Tenure: %s\n", e.Tenure)
		}
		if e.Rating != nil {
			fmt.Fprintf(&b, "Rating: %.1f/10\n", *e.Rating)
		}
		if e.Pros != "" {
			fmt.Fprintf(&b, "Pros: %s\n", e.Pros)
		}
		if e.Cons != "" {
			fmt.Fprintf(&b, "Cons: %s\n", e.Cons)
		}
		if e.Advice != "" {
			fmt.Fprintf(&b, "Advice: %s\n", e.Advice)
		}
	}
	return b.String()
}
