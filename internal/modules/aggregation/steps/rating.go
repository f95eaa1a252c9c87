package steps

import "math"

// BlendRating folds approved community ratings into the static ISR
// baseline, treating the baseline as a fixed set of pre-existing reviews
// whose influence dilutes but never disappears. Returns the blended rating
// rounded to one decimal and the combined review count.
//
// A zero denominator (no baseline, no approved reviews) blends to 0 rather
// than erroring.
func BlendRating(baselineRating float64, baselineCount int, communityRatings []float64) (float64, int) {
	if baselineCount < 0 {
		baselineCount = 0
	}
	total := baselineCount + len(communityRatings)
	if total == 0 {
		return 0, 0
	}

	sum := baselineRating * float64(baselineCount)
	for _, r := range communityRatings {
		sum += r
	}
	return round1(sum / float64(total)), total
}

// CommunityAverage averages only the community ratings, rounded to one
// decimal. ok is false when there are none.
func CommunityAverage(communityRatings []float64) (float64, bool) {
	if len(communityRatings) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, r := range communityRatings {
		sum += r
	}
	return round1(sum / float64(len(communityRatings))), true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
