package lpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestStabilizeEnforcesOrderingAndMinimumDeltas(t *testing.T) {
	order := 10
	deltaMin := make([]int16, order+1)
	for i := range deltaMin {
		deltaMin[i] = 250
	}

	// Deliberately out-of-order and too-close-together input.
	nlsf := []int16{100, 90, 95, 95, 30000, 30010, 31000, 31200, 31400, 31450}

	Stabilize(nlsf, deltaMin, order)

	for i := 1; i < order; i++ {
		assert.GreaterOrEqualf(t, int32(nlsf[i])-int32(nlsf[i-1]), int32(deltaMin[i]),
			"coefficient %d violates minimum spacing after stabilization", i)
	}
	assert.GreaterOrEqual(t, int32(nlsf[0]), int32(deltaMin[0]))
	assert.LessOrEqual(t, int32(nlsf[order-1]), int32(1<<15)-int32(deltaMin[order]))
}

func TestStabilizeIsIdempotentOnAlreadyValidInput(t *testing.T) {
	order := 4
	deltaMin := []int16{100, 100, 100, 100, 100}
	nlsf := []int16{1000, 3000, 5000, 7000}

	before := append([]int16(nil), nlsf...)
	Stabilize(nlsf, deltaMin, order)
	assert.Equal(t, before, nlsf, "an already-valid vector should be left untouched")
}

func TestStabilizeNeverProducesOutOfOrderVectors(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		order := 10
		deltaMin := make([]int16, order+1)
		for i := range deltaMin {
			deltaMin[i] = int16(rapid.IntRange(50, 400).Draw(t, "deltaMin"))
		}
		nlsf := make([]int16, order)
		for i := range nlsf {
			nlsf[i] = int16(rapid.IntRange(0, 32767).Draw(t, "nlsf"))
		}

		Stabilize(nlsf, deltaMin, order)

		for i := 1; i < order; i++ {
			assert.GreaterOrEqual(t, int32(nlsf[i]), int32(nlsf[i-1]))
		}
	})
}

func TestInsertionSortSortsAscending(t *testing.T) {
	a := []int16{5, 3, 8, 1, 9, 2}
	insertionSort(a, len(a))
	assert.True(t, isSortedAsc(a))
}

func isSortedAsc(a []int16) bool {
	for i := 1; i < len(a); i++ {
		if a[i] < a[i-1] {
			return false
		}
	}
	return true
}
