package steps

import (
	"testing"

	"github.com/schoolatlas/schoolatlas-backend/internal/domain/community"
	"github.com/schoolatlas/schoolatlas-backend/internal/pkg/pointers"
)

func monthlyReview(monthly int) *community.Review {
	return &community.Review{SalaryMonthly: pointers.Int(monthly)}
}

func annualReview(min, max int) *community.Review {
	r := &community.Review{}
	if min > 0 {
		r.SalaryAnnualMin = pointers.Int(min)
	}
	if max > 0 {
		r.SalaryAnnualMax = pointers.Int(max)
	}
	return r
}

func TestReviewAnnualBandMonthly(t *testing.T) {
	band, ok := ReviewAnnualBand(monthlyReview(3000))
	if !ok {
		t.Fatalf("expected a band")
	}
	if band.Min != 36000 || band.Max != 36000 {
		t.Fatalf("band = %+v, want 36000/36000", band)
	}
}

func TestReviewAnnualBandRange(t *testing.T) {
	band, ok := ReviewAnnualBand(annualReview(32000, 48000))
	if !ok {
		t.Fatalf("expected a band")
	}
	if band.Min != 32000 || band.Max != 48000 {
		t.Fatalf("band = %+v, want 32000/48000", band)
	}
}

func TestReviewAnnualBandSingleEnd(t *testing.T) {
	band, ok := ReviewAnnualBand(annualReview(40000, 0))
	if !ok {
		t.Fatalf("expected a band")
	}
	if band.Min != 40000 || band.Max != 40000 {
		t.Fatalf("band = %+v, want collapsed point band", band)
	}
}

func TestReviewAnnualBandInvertedRange(t *testing.T) {
	band, ok := ReviewAnnualBand(annualReview(50000, 30000))
	if !ok {
		t.Fatalf("expected a band")
	}
	if band.Min != 30000 || band.Max != 50000 {
		t.Fatalf("band = %+v, want normalized 30000/50000", band)
	}
}

func TestReviewAnnualBandNoDisclosure(t *testing.T) {
	if _, ok := ReviewAnnualBand(&community.Review{}); ok {
		t.Fatalf("expected ok=false without a disclosure")
	}
	if _, ok := ReviewAnnualBand(nil); ok {
		t.Fatalf("expected ok=false for nil review")
	}
}

func TestWidestBand(t *testing.T) {
	band, ok := WidestBand([]*community.Review{
		annualReview(35000, 45000),
		monthlyReview(2500), // 30000 annual
		annualReview(40000, 52000),
		{}, // no disclosure, ignored
	})
	if !ok {
		t.Fatalf("expected a band")
	}
	if band.Min != 30000 || band.Max != 52000 {
		t.Fatalf("band = %+v, want widest 30000/52000", band)
	}
}

func TestWidestBandEmpty(t *testing.T) {
	if _, ok := WidestBand(nil); ok {
		t.Fatalf("expected ok=false with no reviews")
	}
	if _, ok := WidestBand([]*community.Review{{}}); ok {
		t.Fatalf("expected ok=false with no disclosures")
	}
}

func TestFormatBand(t *testing.T) {
	tests := []struct {
		band SalaryBand
		want string
	}{
		{SalaryBand{Min: 32000, Max: 48000}, "$32K - $48K"},
		{SalaryBand{Min: 32500, Max: 47400}, "$33K - $47K"},
		{SalaryBand{Min: 36000, Max: 36000}, "$36K - $36K"},
	}
	for _, tc := range tests {
		if got := FormatBand(tc.band); got != tc.want {
			t.Fatalf("FormatBand(%+v) = %q, want %q", tc.band, got, tc.want)
		}
	}
}
