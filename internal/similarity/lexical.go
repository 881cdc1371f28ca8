package similarity

// Jaccard computes the Jaccard index between the token sets of two
// normalized texts: |intersection| / |union|. Jaccard was chosen over the
// overlap coefficient because it is symmetric and bounded to [0,1]. Empty
// inputs score 0 rather than dividing by zero.
func Jaccard(a, b NormalizedText) float64 {
	if len(a.Set) == 0 || len(b.Set) == 0 {
		return 0
	}

	small, large := a.Set, b.Set
	if len(small) > len(large) {
		small, large = large, small
	}

	intersection := 0
	for token := range small {
		if _, ok := large[token]; ok {
			intersection++
		}
	}

	union := len(a.Set) + len(b.Set) - intersection
	return float64(intersection) / float64(union)
}
