package silk

import "github.com/silkcore/decoder/fixedpoint"

// rand advances the excitation-dither LCG: seed = seed*196314165 +
// 907633515 (32-bit wraparound), shared by core synthesis and CNG.
func rand(seed int32) int32 {
	return seed*196314165 + 907633515
}

// lpcAnalysisFilter runs the AR analysis filter (the inverse of synthesis)
// over in[] to regenerate out[], used to rewhiten LTP history at the start
// of a voiced frame and when the NLSF interpolation block boundary falls
// mid-frame. Ground truth:
// internal/silk/libopus_decode.go's silkLPCAnalysisFilter.
func lpcAnalysisFilter(out, in, aQ12 []int16, length, order int) {
	for i := 0; i < order; i++ {
		out[i] = 0
	}
	for ix := order; ix < length; ix++ {
		outQ12 := fixedpoint.SMULBB(int32(in[ix-1]), int32(aQ12[0]))
		for j := 1; j < order; j++ {
			outQ12 = fixedpoint.SMLABB(outQ12, int32(in[ix-1-j]), int32(aQ12[j]))
		}
		outQ12 = int32(in[ix])<<12 - outQ12
		out[ix] = fixedpoint.Sat16(fixedpoint.RshiftRound(outQ12, 12))
	}
}

// decodeCore runs spec 4.6's full per-frame synthesis: excitation
// reconstruction (dithered pulses), then per-subframe gain-scaling,
// rewhitening on interpolation-block boundaries, long-term prediction, and
// short-term LPC synthesis. Ground truth: internal/silk/libopus_decode.go's
// silkDecodeCore.
func decodeCore(st *State, ctrl *decoderControl, out, pulses []int16) {
	offsetQ10 := quantizationOffsetsQ10[int(st.indices.signalType)>>1][int(st.indices.quantOffsetType)]
	interpFlag := st.indices.nlsfInterpCoefQ2 < 4

	seed := int32(st.indices.seed)
	for i := 0; i < st.frameLength; i++ {
		seed = rand(seed)
		exc := int32(pulses[i]) << 14
		if exc > 0 {
			exc -= quantLevelAdjustQ10 << 4
		} else if exc < 0 {
			exc += quantLevelAdjustQ10 << 4
		}
		exc += int32(offsetQ10) << 4
		if seed < 0 {
			exc = -exc
		}
		st.excQ14[i] = exc
		seed += int32(pulses[i])
	}

	sLPC := make([]int32, st.subfrLength+maxLPCOrder)
	copy(sLPC, st.sLPCQ14Buf[:])
	pexc := st.excQ14[:]
	pxq := out

	sLTP := make([]int16, st.ltpMemLength)
	sLTPQ15 := make([]int32, st.ltpMemLength+st.frameLength)
	sLTPBufIdx := st.ltpMemLength

	var gainAdjQ16 int32 = 1 << 16

	for k := 0; k < st.nbSubfr; k++ {
		aQ12 := ctrl.predCoefQ12[k>>1][:]
		bQ14 := ctrl.ltpCoefQ14[k*ltpOrder : (k+1)*ltpOrder]
		signalType := int(st.indices.signalType)

		gainQ10 := ctrl.gainsQ16[k] >> 6
		invGainQ31 := fixedpoint.Inverse32VarQ(ctrl.gainsQ16[k], 47)

		if ctrl.gainsQ16[k] != st.prevGainQ16 {
			gainAdjQ16 = fixedpoint.Div32VarQ(st.prevGainQ16, ctrl.gainsQ16[k], 16)
			for i := 0; i < maxLPCOrder; i++ {
				sLPC[i] = fixedpoint.SMULWW(gainAdjQ16, sLPC[i])
			}
		} else {
			gainAdjQ16 = 1 << 16
		}
		st.prevGainQ16 = ctrl.gainsQ16[k]

		if st.lossCnt != 0 && st.prevSignalType == typeVoiced && signalType != typeVoiced && k < maxNbSubfr/2 {
			for i := 0; i < ltpOrder; i++ {
				bQ14[i] = 0
			}
			bQ14[ltpOrder/2] = int16(1 << 12) // 0.25 in Q14
			signalType = typeVoiced
			ctrl.pitchL[k] = st.lagPrev
		}

		if signalType == typeVoiced {
			lag := ctrl.pitchL[k]
			if k == 0 || (k == 2 && interpFlag) {
				startIdx := st.ltpMemLength - lag - st.lpcOrder - ltpOrder/2
				if startIdx < 0 {
					startIdx = 0
				}
				if k == 2 {
					copy(st.outBuf[st.ltpMemLength:], out[:2*st.subfrLength])
				}
				lpcAnalysisFilter(sLTP[startIdx:], st.outBuf[startIdx+k*st.subfrLength:], aQ12, st.ltpMemLength-startIdx, st.lpcOrder)
				if k == 0 {
					invGainQ31 = fixedpoint.SMULWB(invGainQ31, ctrl.ltpScaleQ14) << 2
				}
				for i := 0; i < lag+ltpOrder/2; i++ {
					sLTPQ15[sLTPBufIdx-i-1] = fixedpoint.SMULWB(invGainQ31, int32(sLTP[st.ltpMemLength-i-1]))
				}
			} else if gainAdjQ16 != 1<<16 {
				for i := 0; i < lag+ltpOrder/2; i++ {
					sLTPQ15[sLTPBufIdx-i-1] = fixedpoint.SMULWW(gainAdjQ16, sLTPQ15[sLTPBufIdx-i-1])
				}
			}
		}

		var presQ14 []int32
		if signalType == typeVoiced {
			lag := ctrl.pitchL[k]
			predLagPtr := sLTPBufIdx - lag + ltpOrder/2
			presQ14 = make([]int32, st.subfrLength)
			for i := 0; i < st.subfrLength; i++ {
				ltpPredQ13 := int32(2)
				ltpPredQ13 = fixedpoint.SMLAWB(ltpPredQ13, sLTPQ15[predLagPtr+0], int32(bQ14[0]))
				ltpPredQ13 = fixedpoint.SMLAWB(ltpPredQ13, sLTPQ15[predLagPtr-1], int32(bQ14[1]))
				ltpPredQ13 = fixedpoint.SMLAWB(ltpPredQ13, sLTPQ15[predLagPtr-2], int32(bQ14[2]))
				ltpPredQ13 = fixedpoint.SMLAWB(ltpPredQ13, sLTPQ15[predLagPtr-3], int32(bQ14[3]))
				ltpPredQ13 = fixedpoint.SMLAWB(ltpPredQ13, sLTPQ15[predLagPtr-4], int32(bQ14[4]))
				predLagPtr++
				presQ14[i] = fixedpoint.AddLshift32(pexc[i], ltpPredQ13, 1)
				sLTPQ15[sLTPBufIdx] = presQ14[i] << 1
				sLTPBufIdx++
			}
		} else {
			presQ14 = pexc[:st.subfrLength]
		}

		for i := 0; i < st.subfrLength; i++ {
			lpcPredQ10 := int32(st.lpcOrder >> 1)
			for j := 0; j < st.lpcOrder; j++ {
				lpcPredQ10 = fixedpoint.SMLAWB(lpcPredQ10, sLPC[maxLPCOrder+i-j-1], int32(aQ12[j]))
			}
			sLPC[maxLPCOrder+i] = fixedpoint.AddSat32(presQ14[i], fixedpoint.LshiftSat32(lpcPredQ10, 4))
			pxq[i] = fixedpoint.Sat16(fixedpoint.RshiftRound(fixedpoint.SMULWW(sLPC[maxLPCOrder+i], gainQ10), 8))
		}

		copy(sLPC, sLPC[st.subfrLength:st.subfrLength+maxLPCOrder])
		pexc = pexc[st.subfrLength:]
		pxq = pxq[st.subfrLength:]
	}

	copy(st.sLPCQ14Buf[:], sLPC[:maxLPCOrder])
}

// updateOutBuf rotates the just-decoded frame into the tail of outBuf,
// keeping the last ltpMemLength samples available for next frame's
// rewhitening.
func updateOutBuf(st *State, frame []int16) {
	if st.ltpMemLength == 0 || st.frameLength == 0 || st.ltpMemLength < st.frameLength {
		return
	}
	mvLen := st.ltpMemLength - st.frameLength
	buf := st.outBuf[:]
	if mvLen > 0 {
		copy(buf, buf[st.frameLength:st.frameLength+mvLen])
	}
	copy(buf[mvLen:mvLen+st.frameLength], frame)
}
