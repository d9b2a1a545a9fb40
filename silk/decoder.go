package silk

import (
	"github.com/silkcore/decoder/cng"
	"github.com/silkcore/decoder/plc"
	"github.com/silkcore/decoder/rangecoding"
)

// Decoder is the public, single-stream SILK core decoder of spec 2/4.10:
// one instance decodes one independent audio channel's bitstream into PCM,
// carrying concealment and comfort-noise state across calls.
type Decoder struct {
	st  *State
	plc *plc.State
	cng *cng.State
}

// NewDecoder allocates a decoder; call SetFs before the first DecodeFrame.
func NewDecoder() *Decoder {
	return &Decoder{st: NewState()}
}

// SetFs (re)configures the decoder for a sample rate in kHz and a frame
// duration in ms (10 or 20), resetting history buffers whenever fsKHz
// changes. Ground truth: internal/silk/libopus_decode.go's
// silkDecoderSetFs.
func (d *Decoder) SetFs(fsKHz, frameDurationMs int) error {
	if fsKHz != 8 && fsKHz != 12 && fsKHz != 16 && fsKHz != 24 {
		return ErrIllegalSamplingRate
	}
	nbSubfr := maxNbSubfr
	if frameDurationMs == 10 {
		nbSubfr = maxNbSubfr / 2
	}

	changed := fsKHz != d.st.fsKHz
	st := d.st
	st.fsKHz = fsKHz
	st.nbSubfr = nbSubfr
	st.subfrLength = subFrameLengthMs * fsKHz
	st.frameLength = st.subfrLength * nbSubfr
	st.ltpMemLength = ltpMemLengthMs * fsKHz
	if fsKHz == 8 {
		st.lpcOrder = minLPCOrder
		st.nlsfCB = nlsfCBNBMB
	} else {
		st.lpcOrder = maxLPCOrder
		st.nlsfCB = nlsfCBWB
	}

	switch {
	case fsKHz == 8:
		st.pitchLagLowBitsICDF = icdfUniform4
	case fsKHz <= 16:
		st.pitchLagLowBitsICDF = icdfUniform6
	default:
		st.pitchLagLowBitsICDF = icdfUniform8
	}
	st.pitchContourICDF, _ = pitchContourTable(fsKHz, nbSubfr)

	if changed || d.plc == nil {
		for i := range st.prevNLSFQ15 {
			st.prevNLSFQ15[i] = 0
		}
		st.prevGainQ16 = 65536
		for i := range st.sLPCQ14Buf {
			st.sLPCQ14Buf[i] = 0
		}
		for i := range st.outBuf {
			st.outBuf[i] = 0
		}
		st.lagPrev = 100
		st.lastGainIndex = 10
		st.prevSignalType = typeNoVoiceActivity
		st.ecPrevSignalType = typeNoVoiceActivity
		st.ecPrevLagIndex = 0
		st.firstFrameAfterReset = true
		st.lossCnt = 0
		st.hp = hpFilterState{}

		d.plc = plc.NewState(st.lpcOrder, fsKHz)
		d.cng = cng.NewState(st.lpcOrder)
	}
	return nil
}

// DecodeFrame runs spec 4.10's per-frame driver: initialize the range
// decoder over payload, recover indices and dequantized parameters, run
// core synthesis, apply the output HP filter, and maintain PLC/CNG state.
// On a lost frame (payload is nil), it runs concealment instead and mixes
// in comfort noise on every lost frame (the CNG generator stays silent
// until it has been trained by an inactive good frame). condCoding follows spec 6's independent/conditional coding flag
// for a frame's position within a multi-frame packet.
func (d *Decoder) DecodeFrame(payload []byte, condCoding int, out []int16) error {
	st := d.st
	if len(out) < st.frameLength {
		return ErrPayloadError
	}

	if payload == nil {
		st.lossCnt++
		d.plc.Conceal(out[:st.frameLength], st.excQ14[:st.frameLength], st.subfrLength, st.nbSubfr, st.lpcOrder, st.lossCnt)
		// CNG mixing is gated purely on lossCnt != 0, with no check of
		// whether the concealed signal is actually inactive speech --
		// preserved from the reference rather than "fixed".
		if st.lossCnt > 0 {
			d.cng.Generate(out[:st.frameLength], st.frameLength)
		}
		applyHPFilter(st, out[:st.frameLength])
		d.plc.GlueFrames(out[:st.frameLength], st.lossCnt)
		updateOutBuf(st, out[:st.frameLength])
		st.nFramesDecoded++
		return nil
	}

	if len(payload) > maxFrameLength {
		return ErrPayloadTooLarge
	}

	rd := rangecoding.NewDecoder(payload)

	vadFlag := rd.DecodeICDF(icdfVADFlag, 8) == 1

	decodeIndices(st, rd, vadFlag, condCoding)

	var ctrl decoderControl
	decodeParameters(st, &ctrl, condCoding)

	pulses := make([]int16, st.frameLength)
	decodePulses(rd, pulses, int(st.indices.signalType), int(st.indices.quantOffsetType), st.frameLength)

	if !rd.CheckTrailingOnes() || rd.Error() != nil {
		return ErrDecoderCheckFailed
	}

	frame := out[:st.frameLength]
	decodeCore(st, &ctrl, frame, pulses)
	applyHPFilter(st, frame)
	d.plc.GlueFrames(frame, st.lossCnt)

	if st.indices.signalType == typeNoVoiceActivity {
		d.cng.UpdateFromGoodFrame(st.prevNLSFQ15[:st.lpcOrder], ctrl.gainsQ16[:st.nbSubfr])
	}
	d.plc.Update(st.indices.signalType == typeVoiced, ctrl.predCoefQ12[1][:st.lpcOrder], ltpRows(&ctrl), ctrl.pitchL[:st.nbSubfr], ctrl.gainsQ16[:st.nbSubfr], ctrl.ltpScaleQ14, st.subfrLength)

	st.prevSignalType = int(st.indices.signalType)
	if st.nbSubfr > 0 {
		st.lagPrev = ctrl.pitchL[st.nbSubfr-1]
	}
	st.lossCnt = 0
	st.firstFrameAfterReset = false
	st.nFramesDecoded++

	updateOutBuf(st, frame)
	return nil
}

// ltpRows reshapes the flat per-subframe*ltpOrder control array into the
// [][ltpOrder]int16 rows plc.State.Update expects.
func ltpRows(ctrl *decoderControl) [][ltpOrder]int16 {
	rows := make([][ltpOrder]int16, maxNbSubfr)
	for k := 0; k < maxNbSubfr; k++ {
		var row [ltpOrder]int16
		copy(row[:], ctrl.ltpCoefQ14[k*ltpOrder:(k+1)*ltpOrder])
		rows[k] = row
	}
	return rows
}
