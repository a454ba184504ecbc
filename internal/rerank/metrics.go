package rerank

import "math"

// NDCGAt returns the normalised discounted cumulative gain of ranked against
// relevant, cut off at k. Relevance is binary. With no relevant ids the
// ideal DCG degenerates to 1 and the score is 0.
func NDCGAt(ranked []string, relevant map[string]bool, k int) float64 {
	dcg := func(ids []string) float64 {
		var s float64
		for i, id := range ids {
			if i >= k {
				break
			}
			if relevant[id] {
				s += 1 / math.Log2(float64(i)+2)
			}
		}
		return s
	}

	ideal := math.Min(float64(len(relevant)), float64(k))
	var idcg float64
	for i := 0; i < int(ideal); i++ {
		idcg += 1 / math.Log2(float64(i)+2)
	}
	if idcg == 0 {
		idcg = 1
	}
	return dcg(ranked) / idcg
}

// MRRAt returns the reciprocal rank of the first relevant id within the top
// k of ranked, or 0 when none appears.
func MRRAt(ranked []string, relevant map[string]bool, k int) float64 {
	for i, id := range ranked {
		if i >= k {
			break
		}
		if relevant[id] {
			return 1 / float64(i+1)
		}
	}
	return 0
}
