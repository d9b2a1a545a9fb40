package plc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateUnvoicedResetsLTPTaps(t *testing.T) {
	s := NewState(16, 16)
	s.LTPCoefQ14 = [ltpOrder]int16{100, 200, 300, 200, 100}

	s.Update(false, make([]int16, 16), nil, nil, nil, 0, 80)

	for i, c := range s.LTPCoefQ14 {
		assert.Equalf(t, int16(0), c, "tap %d should be cleared on an unvoiced update", i)
	}
	assert.Equal(t, int32(maxPitchLagMs*s.FsKHz)<<8, s.PitchLQ8)
}

func TestUpdateVoicedPicksEnergyWeightedSubframeAndSavesState(t *testing.T) {
	s := NewState(16, 16)
	lpcQ12 := make([]int16, 16)
	for i := range lpcQ12 {
		lpcQ12[i] = int16(100 + i)
	}
	ltpCoefQ14 := [][ltpOrder]int16{
		{10, 10, 10, 10, 10},
		{5000, 5000, 5000, 5000, 5000},
	}
	pitchL := []int{50, 120}
	gainsQ16 := []int32{1 << 16, 1 << 16}

	s.Update(true, lpcQ12, ltpCoefQ14, pitchL, gainsQ16, 1<<14, 40)

	assert.Equal(t, lpcQ12, s.PrevLPCQ12[:16])
	assert.Equal(t, int32(1<<14), s.PrevLTPScaleQ14)
	// Both subframes start before lastLag 120 (at 0 and 40), so the
	// higher-energy subframe, index 1, is picked; its centre tap must have
	// been clamped into the documented voiced gain range.
	sum := int32(0)
	for _, c := range s.LTPCoefQ14 {
		sum += int32(c)
	}
	assert.GreaterOrEqual(t, sum, int32(vPitchGainStartMinQ14)-10)
	assert.LessOrEqual(t, sum, int32(vPitchGainStartMaxQ14)+10)
}

func TestConcealProducesFullFrameWithoutPanicking(t *testing.T) {
	s := NewState(16, 16)
	for i := range s.PrevLPCQ12 {
		s.PrevLPCQ12[i] = int16(10 - i)
	}
	s.PitchLQ8 = 100 << 8
	s.LTPCoefQ14 = [ltpOrder]int16{100, 200, 4000, 200, 100}

	out := make([]int16, 80)
	prevExc := make([]int32, 160)
	for i := range prevExc {
		prevExc[i] = int32(i % 50)
	}

	s.Conceal(out, prevExc, 40, 2, 16, 1)
	s.Conceal(out, prevExc, 40, 2, 16, 2)

	// Attenuation must not have blown up the random scale into something
	// absurd after two consecutive losses.
	assert.GreaterOrEqual(t, s.RandScaleQ14, int32(0))
}

func TestGlueFramesAttenuatesLouderRecoveryFrame(t *testing.T) {
	s := NewState(16, 16)

	quiet := make([]int16, 80)
	for i := range quiet {
		quiet[i] = 10
	}
	s.GlueFrames(quiet, 1) // record concealed-frame energy as "quiet"
	assert.True(t, s.LastFrameLost)

	loud := make([]int16, 80)
	for i := range loud {
		loud[i] = 20000
	}
	before := append([]int16(nil), loud...)
	s.GlueFrames(loud, 0)

	assert.False(t, s.LastFrameLost)
	// The recovered frame was much louder than the concealed one, so the
	// ramp must have scaled the first sample down from its original value.
	assert.Less(t, int(abs16(loud[0])), int(abs16(before[0])))
}

func TestGlueFramesLeavesQuietRecoveryUnchanged(t *testing.T) {
	s := NewState(16, 16)

	loud := make([]int16, 80)
	for i := range loud {
		loud[i] = 20000
	}
	s.GlueFrames(loud, 1)

	quiet := make([]int16, 80)
	for i := range quiet {
		quiet[i] = 10
	}
	before := append([]int16(nil), quiet...)
	s.GlueFrames(quiet, 0)

	assert.Equal(t, before, quiet, "a recovery frame quieter than the concealment should be left alone")
}

func abs16(x int16) int16 {
	if x < 0 {
		return -x
	}
	return x
}
