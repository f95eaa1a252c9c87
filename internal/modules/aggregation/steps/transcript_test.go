package steps

import (
	"strings"
	"testing"
	"time"

	"github.com/schoolatlas/schoolatlas-backend/internal/domain/community"
	"github.com/schoolatlas/schoolatlas-backend/internal/pkg/pointers"
)

func datedReview(daysAgo int, pros string) *community.Review {
	return &community.Review{
		Pros:      pointers.String(pros),
		CreatedAt: time.Now().AddDate(0, 0, -daysAgo),
	}
}

func TestBuildTranscriptNewestFirst(t *testing.T) {
	entries := BuildTranscript([]*community.Review{
		datedReview(30, "oldest"),
		datedReview(1, "newest"),
		datedReview(10, "middle"),
	}, 0)

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Pros != "newest" || entries[1].Pros != "middle" || entries[2].Pros != "oldest" {
		t.Fatalf("wrong order: %q, %q, %q", entries[0].Pros, entries[1].Pros, entries[2].Pros)
	}
}

func TestBuildTranscriptPriorityTags(t *testing.T) {
	reviews := make([]*community.Review, 5)
	for i := range reviews {
		reviews[i] = datedReview(i, "r")
	}
	entries := BuildTranscript(reviews, 0)

	want := []string{PriorityHighest, PriorityElevated, PriorityElevated, PriorityNormal, PriorityNormal}
	for i, w := range want {
		if entries[i].Priority != w {
			t.Fatalf("entry %d priority = %q, want %q", i, entries[i].Priority, w)
		}
	}
}

func TestBuildTranscriptLimit(t *testing.T) {
	reviews := []*community.Review{
		datedReview(3, "d"),
		datedReview(0, "a"),
		datedReview(1, "b"),
		datedReview(2, "c"),
	}
	entries := BuildTranscript(reviews, 2)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// Truncation keeps the newest entries.
	if entries[0].Pros != "a" || entries[1].Pros != "b" {
		t.Fatalf("truncation dropped the wrong entries: %q, %q", entries[0].Pros, entries[1].Pros)
	}
}

func TestBuildTranscriptSkipsNil(t *testing.T) {
	entries := BuildTranscript([]*community.Review{nil, datedReview(0, "only")}, 0)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
}

func TestRenderTranscript(t *testing.T) {
	r := datedReview(0, "Great colleagues")
	r.Position = pointers.String("Math Teacher")
	r.OverallRating = pointers.Float64(8.5)
	r.Cons = pointers.String("Long hours")

	out := RenderTranscript(BuildTranscript([]*community.Review{r}, 0))
	for _, want := range []string{
		"priority: highest",
		"Position: Math Teacher",
		"Rating: 8.5/10",
		"Pros: Great colleagues",
		"Cons: Long hours",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("transcript missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Advice:") {
		t.Fatalf("transcript should omit empty fields:\n%s", out)
	}
}
