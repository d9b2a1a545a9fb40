package silk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDequantGainsIndependentIsMonotonicInIndex(t *testing.T) {
	var gainsLow, gainsHigh [maxNbSubfr]int32
	indicesLow := [maxNbSubfr]int8{5, 0, 0, 0}
	indicesHigh := [maxNbSubfr]int8{40, 0, 0, 0}

	var prevLow, prevHigh int8
	dequantGains(&gainsLow, &indicesLow, &prevLow, false, maxNbSubfr)
	dequantGains(&gainsHigh, &indicesHigh, &prevHigh, false, maxNbSubfr)

	assert.Greater(t, gainsHigh[0], gainsLow[0], "a higher gain index must dequantize to a larger linear gain")
}

func TestDequantGainsClampsToValidRange(t *testing.T) {
	var gains [maxNbSubfr]int32
	indices := [maxNbSubfr]int8{127, 127, 127, 127}
	var prev int8
	dequantGains(&gains, &indices, &prev, false, maxNbSubfr)

	for _, g := range gains {
		assert.Greater(t, g, int32(0))
	}
	assert.GreaterOrEqual(t, int8(nLevelsQGain-1), prev)
}

func TestDequantGainsConditionalTracksPrevious(t *testing.T) {
	var gains [maxNbSubfr]int32
	indices := [maxNbSubfr]int8{10, 0, 0, 0}
	prev := int8(20)
	dequantGains(&gains, &indices, &prev, true, maxNbSubfr)

	assert.NotEqual(t, int8(20), prev, "conditional decode must update the running gain index")
}
