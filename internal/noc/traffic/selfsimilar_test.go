package traffic

import (
	"math/rand"
	"testing"
)

func TestSelfSimilarShaper_ClampsToRange(t *testing.T) {
	shaper := DefaultSelfSimilarShaper(2, 10)
	r := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		size := shaper.Sample(r)
		if size < 2 || size > 10 {
			t.Fatalf("sample %d out of clamp range [2,10]", size)
		}
	}
}

func TestSelfSimilarShaper_DeterministicGivenSeed(t *testing.T) {
	shaper := DefaultSelfSimilarShaper(2, 64)

	r1 := rand.New(rand.NewSource(99))
	r2 := rand.New(rand.NewSource(99))

	for i := 0; i < 20; i++ {
		a := shaper.Sample(r1)
		b := shaper.Sample(r2)
		if a != b {
			t.Fatalf("sample %d diverged: %d vs %d", i, a, b)
		}
	}
}
