package silk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodePitchStaysWithinLagBoundsAcrossContourRange(t *testing.T) {
	fsKHz, nbSubfr := 16, maxNbSubfr
	_, cbkSize := pitchLagCodebook(fsKHz, nbSubfr)
	minLag := peMinLagMs * fsKHz
	maxLag := peMaxLagMs * fsKHz

	for contour := int8(0); int(contour) < cbkSize; contour++ {
		pitchL := make([]int, nbSubfr)
		decodePitch(50, contour, pitchL, fsKHz, nbSubfr)
		for k, lag := range pitchL {
			assert.GreaterOrEqualf(t, lag, minLag, "subframe %d contour %d", k, contour)
			assert.LessOrEqualf(t, lag, maxLag, "subframe %d contour %d", k, contour)
		}
	}
}

func TestDecodePitchClampsOutOfRangeContourIndex(t *testing.T) {
	fsKHz, nbSubfr := 8, maxNbSubfr
	pitchL := make([]int, nbSubfr)

	// A contour index far beyond the codebook's size must not panic and
	// must still land within the documented lag range.
	assert.NotPanics(t, func() {
		decodePitch(20, 127, pitchL, fsKHz, nbSubfr)
	})
	minLag := peMinLagMs * fsKHz
	maxLag := peMaxLagMs * fsKHz
	for _, lag := range pitchL {
		assert.GreaterOrEqual(t, lag, minLag)
		assert.LessOrEqual(t, lag, maxLag)
	}
}

func TestDecodePitchClampsNegativeContourIndex(t *testing.T) {
	fsKHz, nbSubfr := 16, maxNbSubfr
	pitchL := make([]int, nbSubfr)

	assert.NotPanics(t, func() {
		decodePitch(50, -1, pitchL, fsKHz, nbSubfr)
	})
}
