package silk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLPCAnalysisFilterIsIdentityForZeroCoefficients(t *testing.T) {
	order := 4
	in := []int16{100, -200, 300, -400, 500, -600, 700, -800}
	out := make([]int16, len(in))
	aQ12 := make([]int16, order)

	lpcAnalysisFilter(out, in, aQ12, len(in), order)

	for i := 0; i < order; i++ {
		assert.Equalf(t, int16(0), out[i], "the first `order` samples are always zeroed")
	}
	for i := order; i < len(in); i++ {
		assert.Equalf(t, in[i], out[i], "a zero filter must pass samples through unchanged at index %d", i)
	}
}

func TestRandLCGMatchesSharedExcitationDither(t *testing.T) {
	seed := int32(12345)
	next := rand(seed)
	assert.Equal(t, seed*196314165+907633515, next)
}

func TestUpdateOutBufRotatesFrameIntoTail(t *testing.T) {
	st := &State{ltpMemLength: 20, frameLength: 8}
	for i := range st.outBuf {
		st.outBuf[i] = int16(i)
	}
	frame := make([]int16, 8)
	for i := range frame {
		frame[i] = int16(1000 + i)
	}

	updateOutBuf(st, frame)

	// The last frameLength samples of the first ltpMemLength slots must now
	// hold the new frame, with the earlier history shifted down.
	got := st.outBuf[st.ltpMemLength-st.frameLength : st.ltpMemLength]
	assert.Equal(t, frame, got)
}

func TestUpdateOutBufIsNoOpWhenMemShorterThanFrame(t *testing.T) {
	st := &State{ltpMemLength: 4, frameLength: 8}
	before := st.outBuf
	updateOutBuf(st, make([]int16, 8))
	assert.Equal(t, before, st.outBuf)
}
