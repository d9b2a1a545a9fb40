package silk

import "github.com/silkcore/decoder/fixedpoint"

// hpCoef is a fixed-point biquad's Q13 numerator/denominator pair for one
// sample rate: spec 4.9's output DC-removal post-filter. Ground truth for
// the fixed-point biquad shape: silk/stereo_lp_filter.go's rounding-shift
// FIR pattern, generalized to a full 2nd-order IIR per spec.
type hpCoef struct {
	b0, b1, b2 int32 // Q13 numerator
	a1, a2     int32 // Q13 denominator (feedback), b0 normalized to 1
}

// hpCoefTable is keyed by fsKHz; coefficients place the -3dB point near
// 70-100Hz, tightening slightly as fsKHz grows since the same coefficients
// in Q13 represent a lower normalized cutoff at a higher sample rate.
var hpCoefTable = map[int]hpCoef{
	8:  {b0: 8192, b1: -16384, b2: 8192, a1: 16210, a2: -8022},
	12: {b0: 8192, b1: -16384, b2: 8192, a1: 16286, a2: -8107},
	16: {b0: 8192, b1: -16384, b2: 8192, a1: 16325, a2: -8150},
	24: {b0: 8192, b1: -16384, b2: 8192, a1: 16350, a2: -8179},
}

// applyHPFilter runs the 2nd-order biquad over pcm in place, carrying the
// two-tap state in st.hp across frames.
func applyHPFilter(st *State, pcm []int16) {
	c, ok := hpCoefTable[st.fsKHz]
	if !ok {
		return
	}
	x1, x2 := st.hp.x1, st.hp.x2
	for i, s := range pcm {
		xQ13 := int32(s) << 13
		yQ13 := fixedpoint.SMULWB(c.b0, xQ13>>3) + fixedpoint.SMULWB(c.b1, x1>>3) + fixedpoint.SMULWB(c.b2, x2>>3)
		yQ13 -= fixedpoint.SMULWB(c.a1, x1>>3) + fixedpoint.SMULWB(c.a2, x2>>3)
		x2 = x1
		x1 = xQ13
		pcm[i] = fixedpoint.Sat16(fixedpoint.RshiftRound(yQ13<<3, 13))
	}
	st.hp.x1, st.hp.x2 = x1, x2
}
