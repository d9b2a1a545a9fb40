package silk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyHPFilterAttenuatesSustainedDC(t *testing.T) {
	st := &State{fsKHz: 16}
	pcm := make([]int16, 400)
	for i := range pcm {
		pcm[i] = 10000
	}

	applyHPFilter(st, pcm)

	early := int(abs16(pcm[1]))
	late := int(abs16(pcm[len(pcm)-1]))
	assert.Lessf(t, late, early, "a high-pass filter should drive a sustained DC input toward zero over time (early=%d late=%d)", early, late)
}

func TestApplyHPFilterIsNoOpForUnknownSampleRate(t *testing.T) {
	st := &State{fsKHz: 11}
	pcm := []int16{100, -200, 300, -400}
	before := append([]int16(nil), pcm...)

	applyHPFilter(st, pcm)

	assert.Equal(t, before, pcm, "an unsupported sample rate must leave the samples untouched rather than panic or corrupt")
}

func TestApplyHPFilterPersistsStateAcrossCalls(t *testing.T) {
	st := &State{fsKHz: 16}
	first := make([]int16, 40)
	for i := range first {
		first[i] = 5000
	}
	applyHPFilter(st, first)
	assert.NotZero(t, st.hp.x1, "filter state should carry forward after processing a non-silent frame")

	second := make([]int16, 40)
	applyHPFilter(st, second)
	// Residual energy from the first frame's state should still show up
	// in the first few samples of an otherwise-silent second frame.
	assert.NotEqual(t, int16(0), second[0])
}

func abs16(x int16) int16 {
	if x < 0 {
		return -x
	}
	return x
}
