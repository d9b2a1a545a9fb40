package silk

import "github.com/silkcore/decoder/fixedpoint"

// dequantGains maps each subframe's gain index to Gains_Q16 via spec 4.5's
// log-domain grid: LastGainIndex tracks across frames, non-delta decode
// clamps to a minimum step above the previous index, delta decode adds and
// saturates. Ground truth: internal/silk/libopus_gain.go's
// silkGainsDequant.
func dequantGains(gainsQ16 *[maxNbSubfr]int32, indices *[maxNbSubfr]int8, prevIndex *int8, conditional bool, nbSubfr int) {
	prev := int(*prevIndex)
	for k := 0; k < nbSubfr; k++ {
		if k == 0 && !conditional {
			base := prev - 16
			if base < int(indices[k]) {
				base = int(indices[k])
			}
			prev = base
		} else {
			indTmp := int(indices[k]) + minDeltaGainQuant
			doubleStep := 2*maxDeltaGainQuant - nLevelsQGain + prev
			if indTmp > doubleStep {
				prev += (indTmp << 1) - doubleStep
			} else {
				prev += indTmp
			}
		}
		prev = fixedpoint.LimitInt(prev, 0, nLevelsQGain-1)
		logGainQ7 := fixedpoint.SMULWB(int32(invScaleQ16Val), int32(prev)) + int32(gainOffsetQ7)
		if logGainQ7 > 3967 {
			logGainQ7 = 3967
		}
		gainsQ16[k] = fixedpoint.Log2Lin(logGainQ7)
	}
	*prevIndex = int8(prev)
}
