package quiz

import "math/rand/v2"

// DefaultDistractors is the number of wrong options offered next to the answer.
const DefaultDistractors = 3

// Shuffle permutes s in place with Fisher-Yates.
func Shuffle[T any](r *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// BuildOptions returns correct plus up to k distinct distractors from pool in
// random order. Pool entries equal to correct are skipped. When the pool has
// fewer than k usable values all of them are used.
func BuildOptions(r *rand.Rand, correct string, pool []string, k int) []string {
	candidates := distinct(pool, correct)
	Shuffle(r, candidates)
	if k < 0 {
		k = 0
	}
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	options := append(candidates, correct)
	Shuffle(r, options)
	return options
}

func distinct(pool []string, exclude string) []string {
	seen := map[string]bool{exclude: true}
	out := make([]string, 0, len(pool))
	for _, v := range pool {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
