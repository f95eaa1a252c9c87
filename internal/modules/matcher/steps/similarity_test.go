package steps

import (
	"math"
	"testing"
)

func TestSimilaritySelf(t *testing.T) {
	key := NormalizeName("Saigon South International School")
	if got := Similarity(key, key); got != 1.0 {
		t.Fatalf("self similarity = %v, want 1.0", got)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a := NormalizeName("Western Academy of Beijing")
	b := NormalizeName("Beijing Western Academy Campus")
	if ab, ba := Similarity(a, b), Similarity(b, a); ab != ba {
		t.Fatalf("similarity not symmetric: %v vs %v", ab, ba)
	}
}

func TestSimilarityEmptySets(t *testing.T) {
	if got := Similarity("", "abc school"); got != 0 {
		t.Fatalf("empty vs nonempty = %v, want 0", got)
	}
	// Tokens of length 1 are discarded, leaving an empty set.
	if got := Similarity("a b c", "abc school"); got != 0 {
		t.Fatalf("single-char tokens = %v, want 0", got)
	}
}

func TestSimilarityContainmentFloor(t *testing.T) {
	a := NormalizeName("abc international school")
	b := NormalizeName("abc international school primary campus extension program")
	got := Similarity(a, b)
	if got < 0.7 {
		t.Fatalf("containment similarity = %v, want >= 0.7", got)
	}
}

func TestSimilarityDice(t *testing.T) {
	// {alpha, beta} vs {beta, gamma}: 2*1/(2+2) = 0.5, no containment.
	got := Similarity("alpha beta", "beta gamma")
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("dice = %v, want 0.5", got)
	}
}

func TestNameSimilarityNormalizes(t *testing.T) {
	got := NameSimilarity("The International School of Bangkok", "International School Bangkok")
	if got != 1.0 {
		t.Fatalf("similarity after normalization = %v, want 1.0", got)
	}
}
