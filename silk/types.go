package silk

import "github.com/silkcore/decoder/lpc"

// sideInfoIndices holds the per-frame indices recovered by the parameter
// decoder (spec 3's "Decoded per-frame control" minus the dequantized
// values, which live in decoderControl).
type sideInfoIndices struct {
	gainsIndices     [maxNbSubfr]int8
	ltpIndex         [maxNbSubfr]int8
	nlsfIndices      [maxLPCOrder + 1]int8
	lagIndex         int16
	contourIndex     int8
	signalType       int8
	quantOffsetType  int8
	nlsfInterpCoefQ2 int8
	perIndex         int8
	ltpScaleIndex    int8
	seed             int8
}

// decoderControl is the dequantized per-frame parameter set (spec 3's
// "Decoded per-frame control"), scratch for the lifetime of one frame.
type decoderControl struct {
	pitchL      [maxNbSubfr]int
	gainsQ16    [maxNbSubfr]int32
	predCoefQ12 [2][maxLPCOrder]int16
	ltpCoefQ14  [ltpOrder * maxNbSubfr]int16
	ltpScaleQ14 int32
}

// State is the persistent per-instance decoder state of spec 3's "Decoder
// state": everything that survives across frames. PLC and CNG keep their
// own state structs (sibling packages) referenced by the top-level Decoder,
// not embedded here, to avoid an import cycle back into silk.
type State struct {
	fsKHz       int
	nbSubfr     int
	frameLength int
	subfrLength int
	ltpMemLength int
	lpcOrder    int

	prevNLSFQ15   [maxLPCOrder]int16
	prevGainQ16   int32
	sLPCQ14Buf    [maxLPCOrder]int32
	excQ14        [maxFrameLength]int32
	outBuf        [maxFrameLength + 2*maxSubFrameLength]int16

	lagPrev              int
	lastGainIndex        int8
	prevSignalType       int
	ecPrevSignalType     int
	ecPrevLagIndex       int
	firstFrameAfterReset bool
	lossCnt              int
	nFramesDecoded       int
	nBytesLeft           int

	pitchLagLowBitsICDF []uint8
	pitchContourICDF    []uint8
	nlsfCB              *lpc.Codebook

	indices sideInfoIndices

	hp hpFilterState
}

// hpFilterState holds the 2-tap biquad state for the output post-filter
// (spec 4.9), keyed to the current fsKHz.
type hpFilterState struct {
	x1, x2 int32
}

// NewState allocates a zeroed decoder state. Callers must call SetFs
// before decoding any frame.
func NewState() *State {
	return &State{}
}
