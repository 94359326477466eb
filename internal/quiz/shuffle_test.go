package quiz

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestShuffleIsPermutation(t *testing.T) {
	r := testRand()
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}
	got := slices.Clone(in)
	Shuffle(r, got)
	slices.Sort(got)
	require.Equal(t, in, got)
}

func TestShuffleUniform(t *testing.T) {
	r := testRand()
	counts := make(map[int]int)
	const rounds = 30000
	for range rounds {
		s := []int{0, 1, 2}
		Shuffle(r, s)
		counts[s[0]]++
	}
	for v := range 3 {
		share := float64(counts[v]) / rounds
		require.InDelta(t, 1.0/3, share, 0.02, "value %d first with share %.3f", v, share)
	}
}

func TestBuildOptions(t *testing.T) {
	tests := []struct {
		name    string
		correct string
		pool    []string
		k       int
		wantLen int
	}{
		{"standard", "a", []string{"a", "b", "c", "d", "e", "f"}, 3, 4},
		{"pool contains correct many times", "a", []string{"a", "a", "b", "c", "d"}, 3, 4},
		{"duplicates in pool", "a", []string{"b", "b", "b", "c"}, 3, 3},
		{"single distractor", "a", []string{"a", "b"}, 3, 2},
		{"no distractors", "a", []string{"a"}, 3, 1},
		{"empty pool", "a", nil, 3, 1},
		{"zero k", "a", []string{"b", "c"}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildOptions(testRand(), tt.correct, tt.pool, tt.k)
			require.Len(t, got, tt.wantLen)
			q := Question{Answer: tt.correct, Options: got}
			require.NoError(t, q.Validate())
		})
	}
}

func TestBuildOptionsDoesNotMutatePool(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e"}
	orig := slices.Clone(pool)
	BuildOptions(testRand(), "a", pool, 3)
	require.Equal(t, orig, pool)
}

func TestQuestionValidate(t *testing.T) {
	require.Error(t, Question{Answer: "a"}.Validate())
	require.Error(t, Question{Answer: "a", Options: []string{"b", "c"}}.Validate())
	require.Error(t, Question{Answer: "a", Options: []string{"a", "b", "a"}}.Validate())
	require.NoError(t, Question{Answer: "a", Options: []string{"b", "a"}}.Validate())
}
