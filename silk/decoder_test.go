package silk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetFsRejectsIllegalSampleRate(t *testing.T) {
	d := NewDecoder()
	err := d.SetFs(11, 20)
	assert.ErrorIs(t, err, ErrIllegalSamplingRate)
}

func TestSetFsConfiguresFrameGeometry(t *testing.T) {
	tests := []struct {
		name            string
		fsKHz, frameMs  int
		wantNbSubfr     int
		wantFrameLength int
	}{
		{"8kHz 20ms", 8, 20, 4, 8 * 20},
		{"16kHz 20ms", 16, 20, 4, 16 * 20},
		{"16kHz 10ms", 16, 10, 2, 16 * 10},
		{"24kHz 20ms", 24, 20, 4, 24 * 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()
			err := d.SetFs(tt.fsKHz, tt.frameMs)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantNbSubfr, d.st.nbSubfr)
			assert.Equal(t, tt.wantFrameLength, d.st.frameLength)
		})
	}
}

func TestDecodeFrameConcealsOnLostPayload(t *testing.T) {
	d := NewDecoder()
	err := d.SetFs(16, 20)
	assert.NoError(t, err)

	out := make([]int16, d.st.frameLength)
	err = d.DecodeFrame(nil, codeIndependently, out)
	assert.NoError(t, err)
	assert.Equal(t, 1, d.st.lossCnt)

	// A second consecutive loss should still produce a full frame and
	// advance the loss counter further, exercising the CNG mixing path.
	err = d.DecodeFrame(nil, codeIndependently, out)
	assert.NoError(t, err)
	assert.Equal(t, 2, d.st.lossCnt)
}

func TestDecodeFrameRejectsShortOutputBuffer(t *testing.T) {
	d := NewDecoder()
	assert.NoError(t, d.SetFs(16, 20))

	out := make([]int16, 10) // far shorter than one 16kHz/20ms frame
	err := d.DecodeFrame(nil, codeIndependently, out)
	assert.ErrorIs(t, err, ErrPayloadError)
}

func TestDecodeFrameRejectsOversizedPayload(t *testing.T) {
	d := NewDecoder()
	assert.NoError(t, d.SetFs(16, 20))

	out := make([]int16, d.st.frameLength)
	oversized := make([]byte, maxFrameLength+1)
	err := d.DecodeFrame(oversized, codeIndependently, out)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}
