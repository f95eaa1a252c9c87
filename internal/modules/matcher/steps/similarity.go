package steps

import "strings"

// containmentFloor is the minimum effective similarity when one normalized
// name contains the other as a substring. Containment is strong evidence
// even when token overlap alone scores lower ("saigon south international
// school" vs "saigon south international school primary campus").
const containmentFloor = 0.7

func tokenSet(key string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, tok := range strings.Fields(key) {
		if len(tok) > 1 {
			set[tok] = struct{}{}
		}
	}
	return set
}

// Similarity scores two normalized name keys in [0,1] using the Dice
// coefficient over their token sets, with a containment floor. Symmetric;
// a key compared with itself scores 1.
func Similarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	dice := 2 * float64(intersection) / float64(len(setA)+len(setB))

	if strings.Contains(a, b) || strings.Contains(b, a) {
		if dice < containmentFloor {
			return containmentFloor
		}
	}
	return dice
}

// NameSimilarity is the convenience form over raw, unnormalized names.
func NameSimilarity(a, b string) float64 {
	return Similarity(NormalizeName(a), NormalizeName(b))
}
