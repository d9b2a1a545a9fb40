package silk

import "errors"

// Sentinel errors surfaced at the Decoder API boundary; see spec 7's error
// taxonomy. On a range-coder failure or an oversized payload the frame
// driver returns ErrDecoderCheckFailed or ErrPayloadTooLarge without
// writing output and without running concealment; a caller conceals the
// frame by calling DecodeFrame again with a nil payload.
var (
	ErrPayloadTooLarge       = errors.New("silk: payload exceeds range-coder buffer")
	ErrPayloadError          = errors.New("silk: malformed bitstream")
	ErrIllegalSamplingRate   = errors.New("silk: illegal sampling rate code")
	ErrDecoderCheckFailed    = errors.New("silk: trailing-bits invariant violated")
)
