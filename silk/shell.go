package silk

import "github.com/silkcore/decoder/rangecoding"

// shellDecode recovers one 16-pulse shell block's per-sample magnitudes
// from its root pulse sum via the balanced binary-tree split of spec 4.4:
// 1 -> 2 -> 4 -> 8 -> 16. Ground truth: internal/silk/libopus_decode.go's
// silkShellDecoder.
func shellDecode(pulses []int16, rd *rangecoding.Decoder, pulses4 int) {
	var pulses3 [2]int16
	var pulses2 [4]int16
	var pulses1 [8]int16

	split := func(c1, c2 *int16, p int) {
		if p > 0 {
			*c1 = int16(rd.DecodeICDF(shellSplitTable(p), 8))
			*c2 = int16(p - int(*c1))
		} else {
			*c1 = 0
			*c2 = 0
		}
	}

	split(&pulses3[0], &pulses3[1], pulses4)
	split(&pulses2[0], &pulses2[1], int(pulses3[0]))

	split(&pulses1[0], &pulses1[1], int(pulses2[0]))
	split(&pulses[0], &pulses[1], int(pulses1[0]))
	split(&pulses[2], &pulses[3], int(pulses1[1]))

	split(&pulses1[2], &pulses1[3], int(pulses2[1]))
	split(&pulses[4], &pulses[5], int(pulses1[2]))
	split(&pulses[6], &pulses[7], int(pulses1[3]))

	split(&pulses2[2], &pulses2[3], int(pulses3[1]))

	split(&pulses1[4], &pulses1[5], int(pulses2[2]))
	split(&pulses[8], &pulses[9], int(pulses1[4]))
	split(&pulses[10], &pulses[11], int(pulses1[5]))

	split(&pulses1[6], &pulses1[7], int(pulses2[3]))
	split(&pulses[12], &pulses[13], int(pulses1[6]))
	split(&pulses[14], &pulses[15], int(pulses1[7]))
}

// decodeSigns flips the sign of every nonzero pulse magnitude, one
// Bernoulli bit per pulse, indexed by (sigtype, quantOffsetType, clamped
// shell-block pulse count). Ground truth: silkDecodeSigns.
func decodeSigns(rd *rangecoding.Decoder, pulses []int16, length int, signalType, quantOffsetType int, sumPulses []int) {
	qPtr := 0
	blocks := (length + shellCodecFrameLength/2) >> log2ShellCodecFrameLength
	for i := 0; i < blocks; i++ {
		p := sumPulses[i]
		if p > 0 {
			classIdx := p & 0x1F
			if classIdx > 6 {
				classIdx = 6
			}
			icdf := icdfExcitationSign[signalType][quantOffsetType][classIdx]
			for j := 0; j < shellCodecFrameLength; j++ {
				if pulses[qPtr+j] > 0 {
					sign := rd.DecodeICDF(icdf, 8)
					if sign == 0 {
						pulses[qPtr+j] = -pulses[qPtr+j]
					}
				}
			}
		}
		qPtr += shellCodecFrameLength
	}
}

// decodePulses is the full excitation-pulse recovery of spec 4.4/4.5's
// shell-coding contract: rate-level index, per-block pulse-count (with
// LSB-escape extension), shell splits, LSB bits, then signs. Ground truth:
// silkDecodePulses.
func decodePulses(rd *rangecoding.Decoder, pulses []int16, signalType, quantOffsetType, frameLength int) {
	rateLevel := rd.DecodeICDF(icdfRateLevel[signalType>>1], 8)
	iter := frameLength >> log2ShellCodecFrameLength
	if iter*shellCodecFrameLength < frameLength {
		iter++
	}

	sumPulses := make([]int, iter)
	nLShifts := make([]int, iter)

	for i := 0; i < iter; i++ {
		nLShifts[i] = 0
		sumPulses[i] = rd.DecodeICDF(icdfPulseCount[rateLevel], 8)
		for sumPulses[i] == maxPulses+1 {
			nLShifts[i]++
			table := icdfPulseCount[nRateLevels-1]
			if nLShifts[i] == 10 {
				table = table[1:]
			}
			sumPulses[i] = rd.DecodeICDF(table, 8)
		}
	}

	for i := 0; i < iter; i++ {
		off := i * shellCodecFrameLength
		if sumPulses[i] > 0 {
			shellDecode(pulses[off:off+shellCodecFrameLength], rd, sumPulses[i])
		} else {
			for j := 0; j < shellCodecFrameLength; j++ {
				pulses[off+j] = 0
			}
		}
	}

	for i := 0; i < iter; i++ {
		if nLShifts[i] > 0 {
			nLS := nLShifts[i]
			off := i * shellCodecFrameLength
			for k := 0; k < shellCodecFrameLength; k++ {
				absQ := int32(pulses[off+k])
				for j := 0; j < nLS; j++ {
					absQ <<= 1
					absQ += int32(rd.DecodeICDF(icdfExcitationLSB, 8))
				}
				pulses[off+k] = int16(absQ)
			}
			sumPulses[i] |= nLS << 5
		}
	}

	decodeSigns(rd, pulses, frameLength, signalType, quantOffsetType, sumPulses)
}
