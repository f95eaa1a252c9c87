package steps

import (
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"St. Mary's, Intl.", "st-marys-intl"},
		{"D’Overbroeck's Intl. School", "doverbroecks-intl-school"},
		{"Saigon South International School", "saigon-south-international-school"},
		{"--Already--Hyphenated--", "already-hyphenated"},
		{"École Privée", "cole-priv-e"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDisambiguateSlug(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	got := DisambiguateSlug("st-marys-intl", now)
	if !strings.HasPrefix(got, "st-marys-intl-") {
		t.Fatalf("suffix slug = %q, want st-marys-intl- prefix", got)
	}
	if got == "st-marys-intl-" {
		t.Fatalf("suffix missing")
	}
	if other := DisambiguateSlug("st-marys-intl", now.Add(time.Second)); other == got {
		t.Fatalf("different timestamps produced identical slugs")
	}
}
