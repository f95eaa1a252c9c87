package steps

import (
	"fmt"
	"math"

	"github.com/schoolatlas/schoolatlas-backend/internal/domain/community"
)

// SalaryBand is an annual USD salary range. Min == Max for reviews that
// reported a single figure.
type SalaryBand struct {
	Min int
	Max int
}

// ReviewAnnualBand normalizes one review's salary disclosure to an annual
// band. Monthly figures are annualized (x12). A review that carries only one
// end of a range collapses to a single-point band. ok is false when the
// review disclosed nothing usable.
func ReviewAnnualBand(r *community.Review) (SalaryBand, bool) {
	if r == nil {
		return SalaryBand{}, false
	}
	if r.SalaryMonthly != nil && *r.SalaryMonthly > 0 {
		annual := *r.SalaryMonthly * 12
		return SalaryBand{Min: annual, Max: annual}, true
	}
	var min, max int
	if r.SalaryAnnualMin != nil && *r.SalaryAnnualMin > 0 {
		min = *r.SalaryAnnualMin
	}
	if r.SalaryAnnualMax != nil && *r.SalaryAnnualMax > 0 {
		max = *r.SalaryAnnualMax
	}
	if min == 0 && max == 0 {
		return SalaryBand{}, false
	}
	if min == 0 {
		min = max
	}
	if max == 0 {
		max = min
	}
	if min > max {
		min, max = max, min
	}
	return SalaryBand{Min: min, Max: max}, true
}

// WidestBand folds every salary-bearing review into the widest band seen:
// the lowest min and the highest max across all disclosures. ok is false
// when no review disclosed a salary.
func WidestBand(reviews []*community.Review) (SalaryBand, bool) {
	var out SalaryBand
	found := false
	for _, r := range reviews {
		band, ok := ReviewAnnualBand(r)
		if !ok {
			continue
		}
		if !found {
			out = band
			found = true
			continue
		}
		if band.Min < out.Min {
			out.Min = band.Min
		}
		if band.Max > out.Max {
			out.Max = band.Max
		}
	}
	return out, found
}

// FormatBand renders a band for display, rounding each end to the nearest
// thousand: "$32K - $48K".
func FormatBand(b SalaryBand) string {
	return fmt.Sprintf("$%dK - $%dK", roundK(b.Min), roundK(b.Max))
}

func roundK(v int) int {
	return int(math.Round(float64(v) / 1000))
}
