package silk

import (
	"github.com/silkcore/decoder/fixedpoint"
	"github.com/silkcore/decoder/lpc"
	"github.com/silkcore/decoder/rangecoding"
)

// decodeIndices drives the range decoder through the fixed bitstream field
// order of spec 6/4.5: joint (sigtype, quantOffsetType), four gain indices,
// NLSF multi-stage indices, interpolation factor, and (voiced only) pitch
// lag/contour/LTP indices, ending with the dither seed. Ground truth:
// internal/silk/libopus_decode.go's silkDecodeIndices.
func decodeIndices(st *State, rd *rangecoding.Decoder, vadFlag bool, condCoding int) {
	var ix int
	if vadFlag {
		ix = rd.DecodeICDF(icdfTypeOffsetVAD, 8) + 2
	} else {
		ix = rd.DecodeICDF(icdfTypeOffsetNoVAD, 8)
	}
	st.indices.signalType = int8(ix >> 1)
	st.indices.quantOffsetType = int8(ix & 1)

	if condCoding == codeConditionally {
		st.indices.gainsIndices[0] = int8(rd.DecodeICDF(icdfDeltaGain, 8))
	} else {
		msb := rd.DecodeICDF(icdfGainMSB[st.indices.signalType], 8)
		lsb := rd.DecodeICDF(icdfUniform8, 8)
		st.indices.gainsIndices[0] = int8((msb << 3) + lsb)
	}
	for i := 1; i < st.nbSubfr; i++ {
		st.indices.gainsIndices[i] = int8(rd.DecodeICDF(icdfDeltaGain, 8))
	}

	cb := st.nlsfCB
	stypeBand := int(st.indices.signalType) >> 1
	cb1Offset := stypeBand * cb.NVectors
	st.indices.nlsfIndices[0] = int8(rd.DecodeICDF(cb.Cb1ICDF[cb1Offset:], 8))

	var ecIx [maxLPCOrder]int16
	var predQ8 [maxLPCOrder]uint8
	lpc.Unpack(ecIx[:], predQ8[:], cb, int(st.indices.nlsfIndices[0]))

	for i := 0; i < cb.Order; i++ {
		idx := rd.DecodeICDF(cb.EcICDF[int(ecIx[i]):], 8)
		if idx == 0 {
			idx -= rd.DecodeICDF(icdfNLSFExt, 8)
		} else if idx == 2*nlsfQuantMaxAmplitude {
			idx += rd.DecodeICDF(icdfNLSFExt, 8)
		}
		st.indices.nlsfIndices[i+1] = int8(idx - nlsfQuantMaxAmplitude)
	}

	if st.nbSubfr == maxNbSubfr {
		st.indices.nlsfInterpCoefQ2 = int8(rd.DecodeICDF(icdfLSFInterpolation, 8))
	} else {
		st.indices.nlsfInterpCoefQ2 = 4
	}

	if st.indices.signalType == typeVoiced {
		decodeAbsolute := true
		if condCoding == codeConditionally && st.ecPrevSignalType == typeVoiced {
			deltaLag := rd.DecodeICDF(icdfPitchDelta, 8)
			if deltaLag > 0 {
				deltaLag -= 9
				st.indices.lagIndex = int16(st.ecPrevLagIndex + deltaLag)
				decodeAbsolute = false
			}
		}
		if decodeAbsolute {
			lagTable := icdfPitchLagNB
			switch {
			case st.fsKHz > 8 && st.fsKHz <= 12:
				lagTable = icdfPitchLagMB
			case st.fsKHz > 12:
				lagTable = icdfPitchLagWB
			}
			st.indices.lagIndex = int16(rd.DecodeICDF(lagTable, 8) * (st.fsKHz >> 1))
			st.indices.lagIndex += int16(rd.DecodeICDF(st.pitchLagLowBitsICDF, 8))
		}
		st.ecPrevLagIndex = int(st.indices.lagIndex)
		st.indices.contourIndex = int8(rd.DecodeICDF(st.pitchContourICDF, 8))

		st.indices.perIndex = int8(rd.DecodeICDF(icdfLTPPerIndex, 8))
		for k := 0; k < st.nbSubfr; k++ {
			st.indices.ltpIndex[k] = int8(rd.DecodeICDF(icdfLTPGain[st.indices.perIndex], 8))
		}
		if condCoding == codeIndependently {
			st.indices.ltpScaleIndex = int8(rd.DecodeICDF(icdfLTPScale, 8))
		} else {
			st.indices.ltpScaleIndex = 0
		}
	}
	st.ecPrevSignalType = int(st.indices.signalType)

	st.indices.seed = int8(rd.DecodeICDF(icdfUniform4, 8))
}

// icdfNLSFExt is the +-1 extension used when a residual stage index lands
// on either extreme of its table, per spec 4.5's NLSF residual coding.
var icdfNLSFExt = []uint8{128, 0}

func decodePitch(lagIndex int16, contourIndex int8, pitchL []int, fsKHz, nbSubfr int) {
	lagCB, cbkSize := pitchLagCodebook(fsKHz, nbSubfr)
	minLag := peMinLagMs * fsKHz
	maxLag := peMaxLagMs * fsKHz
	lag := minLag + int(lagIndex)
	idx := int(contourIndex)
	if idx < 0 {
		idx = 0
	}
	if idx >= cbkSize {
		idx = cbkSize - 1
	}
	for k := 0; k < nbSubfr; k++ {
		pitchL[k] = fixedpoint.LimitInt(lag+int(lagCB[k][idx]), minLag, maxLag)
	}
}

// decodeParameters turns the recovered indices into the dequantized
// per-frame control block: gains, NLSF->AR (current and, if interpolating,
// the previous-blend filter), pitch lags, and LTP taps/scale. Ground truth:
// internal/silk/libopus_decode.go's silkDecodeParameters.
func decodeParameters(st *State, ctrl *decoderControl, condCoding int) {
	dequantGains(&ctrl.gainsQ16, &st.indices.gainsIndices, &st.lastGainIndex, condCoding == codeConditionally, st.nbSubfr)

	var nlsfQ15 [maxLPCOrder]int16
	lpc.Decode(nlsfQ15[:], st.indices.nlsfIndices[:], st.nlsfCB)

	lpc.NLSF2AStable(ctrl.predCoefQ12[1][:st.lpcOrder], nlsfQ15[:st.lpcOrder], st.lpcOrder)

	if st.firstFrameAfterReset {
		st.indices.nlsfInterpCoefQ2 = 4
	}
	if st.indices.nlsfInterpCoefQ2 < 4 {
		var nlsf0 [maxLPCOrder]int16
		for i := 0; i < st.lpcOrder; i++ {
			diff := int32(nlsfQ15[i]) - int32(st.prevNLSFQ15[i])
			nlsf0[i] = int16(int32(st.prevNLSFQ15[i]) + (int32(st.indices.nlsfInterpCoefQ2)*diff)>>2)
		}
		lpc.NLSF2AStable(ctrl.predCoefQ12[0][:st.lpcOrder], nlsf0[:st.lpcOrder], st.lpcOrder)
	} else {
		copy(ctrl.predCoefQ12[0][:], ctrl.predCoefQ12[1][:])
	}

	copy(st.prevNLSFQ15[:], nlsfQ15[:])

	if st.lossCnt != 0 {
		lpc.BWExpander16(ctrl.predCoefQ12[0][:st.lpcOrder], bweAfterLossQ16)
		lpc.BWExpander16(ctrl.predCoefQ12[1][:st.lpcOrder], bweAfterLossQ16)
	}

	if st.indices.signalType == typeVoiced {
		decodePitch(st.indices.lagIndex, st.indices.contourIndex, ctrl.pitchL[:], st.fsKHz, st.nbSubfr)
		cbk := ltpVQCodebook(int(st.indices.perIndex))
		for k := 0; k < st.nbSubfr; k++ {
			row := cbk[st.indices.ltpIndex[k]]
			for i := 0; i < ltpOrder; i++ {
				ctrl.ltpCoefQ14[k*ltpOrder+i] = int16(int32(row[i]) << 7)
			}
		}
		ctrl.ltpScaleQ14 = ltpScalesQ14[st.indices.ltpScaleIndex]
	} else {
		for i := range ctrl.pitchL {
			ctrl.pitchL[i] = 0
		}
		for i := range ctrl.ltpCoefQ14 {
			ctrl.ltpCoefQ14[i] = 0
		}
		st.indices.perIndex = 0
		ctrl.ltpScaleQ14 = 0
	}
}
