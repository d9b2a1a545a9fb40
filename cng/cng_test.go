package cng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateFromGoodFrameInitializesFromFirstFrame(t *testing.T) {
	s := NewState(10)
	nlsf := make([]int16, 10)
	for i := range nlsf {
		nlsf[i] = int16(1000 * (i + 1))
	}
	gains := []int32{1 << 16, 2 << 16, 3 << 16, 1 << 16}

	s.UpdateFromGoodFrame(nlsf, gains)

	assert.Equal(t, int32(3<<16), s.smthGainQ16, "the first good frame seeds the smoother with the largest subframe gain")
	assert.Equal(t, nlsf, s.smthNLSFQ15[:10])
}

func TestUpdateFromGoodFrameSmoothsTowardNewGain(t *testing.T) {
	s := NewState(10)
	nlsf := make([]int16, 10)
	for i := range nlsf {
		nlsf[i] = int16(1000 * (i + 1))
	}
	s.UpdateFromGoodFrame(nlsf, []int32{1 << 16})

	before := s.smthGainQ16
	// A rise of 0.5 in Q16 stays under the snap threshold, so it is smoothed.
	s.UpdateFromGoodFrame(nlsf, []int32{(1 << 16) + (1 << 15)})

	assert.Greater(t, s.smthGainQ16, before, "gain should move toward a larger new value")
	assert.Less(t, s.smthGainQ16, int32((1<<16)+(1<<15)), "a single update should not jump all the way to the new gain")
}

func TestUpdateFromGoodFrameSnapsOnLargeGainJump(t *testing.T) {
	s := NewState(10)
	nlsf := make([]int16, 10)
	s.UpdateFromGoodFrame(nlsf, []int32{1 << 10})

	s.UpdateFromGoodFrame(nlsf, []int32{1 << 10, gainSmthThresholdQ16 + (1 << 20)})

	assert.Equal(t, int32(gainSmthThresholdQ16+(1<<20)), s.smthGainQ16, "a jump beyond the threshold should snap instead of smoothing")
}

func TestGenerateIsNoOpWhenGainNeverSeeded(t *testing.T) {
	s := NewState(10)
	out := make([]int16, 20)
	for i := range out {
		out[i] = int16(i)
	}
	before := append([]int16(nil), out...)

	s.Generate(out, len(out))

	assert.Equal(t, before, out, "comfort noise must not be mixed in before any good frame has seeded the smoother")
}

func TestGenerateMixesNoiseAdditivelyIntoExistingSamples(t *testing.T) {
	s := NewState(10)
	nlsf := make([]int16, 10)
	for i := range nlsf {
		nlsf[i] = int16(500 * (i + 1))
	}
	s.UpdateFromGoodFrame(nlsf, []int32{1 << 16})

	out := make([]int16, 40)
	for i := range out {
		out[i] = 1000
	}

	s.Generate(out, len(out))

	changed := false
	for _, v := range out {
		if v != 1000 {
			changed = true
			break
		}
	}
	assert.True(t, changed, "generated noise should perturb the pre-filled samples rather than overwrite them with silence")
}
