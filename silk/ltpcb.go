package silk

// LTP gain codebooks: three periodicity-class codebooks (low/mid/high, per
// spec 4.5's "one of three codebooks" selected by PERIndex), each a table of
// symmetric 5-tap Q7 filters. Exact libopus coefficients are pure data
// absent from the retrieved pack; these are representative taps, not the
// literal reference values. Row i has centre tap 40+i*(80/nRows) and side
// taps derived from 128 minus the centre, so row sums are above 128 (row 0
// is {22, 44, 40, 44, 22}). Each codebook has one row per symbol of its
// icdfLTPGain table, the table the LTP index is decoded from. Flagged in
// DESIGN.md.

func buildLTPCodebook(nRows int, sharpness []int8) [][ltpOrder]int8 {
	cb := make([][ltpOrder]int8, nRows)
	for i := 0; i < nRows; i++ {
		peak := int8(40 + i*(80/nRows))
		side1 := (128 - int(peak)) / 2
		side2 := (128 - int(peak)) - side1
		cb[i] = [ltpOrder]int8{
			int8(side2 / 2), int8(side1), peak, int8(side1), int8(side2 / 2),
		}
	}
	return cb
}

var ltpCBLow = buildLTPCodebook(len(icdfLTPGain[0]), nil)
var ltpCBMid = buildLTPCodebook(len(icdfLTPGain[1]), nil)
var ltpCBHigh = buildLTPCodebook(len(icdfLTPGain[2]), nil)

func ltpVQCodebook(perIndex int) [][ltpOrder]int8 {
	switch perIndex {
	case 0:
		return ltpCBLow
	case 1:
		return ltpCBMid
	default:
		return ltpCBHigh
	}
}

// ltpScalesQ14 are the three LTP-scale candidates a voiced frame's 2-bit
// scale index selects between. Reuses the voiced-PLC gain bounds from spec
// 4.7 (V_PITCH_GAIN_START_MIN/MAX_Q14) as the low/high anchors since the
// core synthesis scale table shares the same Q14 gain domain and libopus's
// exact three literals are not present in the retrieved pack.
var ltpScalesQ14 = [3]int32{15565, 11469, 8192}
