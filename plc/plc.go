// Package plc implements spec 4.7's packet-loss concealment: harmonic +
// noise extrapolation with progressive attenuation on successive losses,
// and the glue-frame energy cross-fade on recovery. It takes plain slices
// and values from the caller rather than importing the silk decoder
// state type, keeping the package dependency graph acyclic.
package plc

import "github.com/silkcore/decoder/fixedpoint"

const (
	ltpOrder      = 5
	maxLPCOrder   = 16
	nbAtt         = 2
	randBufSize   = 128
	randBufMask   = 127
	useSingleTap  = true
	bweCoefQ16    = 64880
	pitchDriftFacQ16          = 655
	maxPitchLagMs             = 18
	vPitchGainStartMinQ14     = 11469
	vPitchGainStartMaxQ14     = 15565
	log2InvLPCGainHighThres   = 3
	log2InvLPCGainLowThres    = 8
)

// harmAttQ15/randAttenuateV/UVQ15 are indexed by min(lossCnt-1, nbAtt-1)
// (lossCnt is 1 on the first lost frame of a run), per
// spec 4.7's attenuation schedule. Ground truth: original_source's
// SKP_Silk_PLC.c HARM_ATT_Q15 / PLC_RAND_ATTENUATE_V_Q15 /
// PLC_RAND_ATTENUATE_UV_Q15 constant tables.
var harmAttQ15 = [nbAtt]int32{32440, 31130}
var randAttenuateVQ15 = [nbAtt]int32{31130, 26214}
var randAttenuateUVQ15 = [nbAtt]int32{32440, 29491}

// State is the per-decoder-instance PLC state of spec 3's "PLC state":
// everything concealment needs that survives across frames.
type State struct {
	PitchLQ8       int32
	RandScaleQ14   int32
	RandSeed       int32
	PrevLPCQ12     [maxLPCOrder]int16
	PrevGainQ16    [4]int32
	PrevLTPScaleQ14 int32
	LTPCoefQ14     [ltpOrder]int16
	ConcEnergy     int32
	ConcEnergyShift int
	LastFrameLost  bool
	FsKHz          int

	order int

	glueConcEnergy      int32
	glueConcEnergyShift int

	// concealHistoryQ14 carries the last maxLPCOrder synthesized samples
	// across Conceal calls. Per-instance: two decoders concealing
	// concurrently or interleaved must not share this history.
	concealHistoryQ14 [maxLPCOrder]int32
}

// NewState allocates a zeroed PLC state for the given LPC order/fs.
func NewState(order, fsKHz int) *State {
	return &State{order: order, FsKHz: fsKHz, RandSeed: 1}
}

// Update runs spec 4.7's "Update" step on a successful decode: picks the
// subframe whose LTP energy is largest (subject to its start preceding the
// final lag), clamps the voiced gain into the documented range, and saves
// the AR filter/LTP scale/gains for the next concealment. Ground truth:
// SKP_Silk_PLC.c's silk_PLC_update plus spec 4.7's prose ("find the
// subframe index j... clamp voiced LTP gain").
func (s *State) Update(voiced bool, lpcQ12 []int16, ltpCoefQ14 [][ltpOrder]int16, pitchL []int, gainsQ16 []int32, ltpScaleQ14 int32, subfrLength int) {
	copy(s.PrevLPCQ12[:], lpcQ12)
	for i := range s.PrevGainQ16 {
		if i < len(gainsQ16) {
			s.PrevGainQ16[i] = gainsQ16[i]
		}
	}
	s.PrevLTPScaleQ14 = ltpScaleQ14

	if !voiced {
		s.PitchLQ8 = int32(maxPitchLagMs*s.FsKHz) << 8
		for i := range s.LTPCoefQ14 {
			s.LTPCoefQ14[i] = 0
		}
		return
	}

	lastLag := pitchL[len(pitchL)-1]
	best := len(pitchL) - 1
	bestEnergy := int32(-1)
	for j := len(pitchL) - 1; j >= 0; j-- {
		if j*subfrLength >= lastLag {
			continue
		}
		energy := int32(0)
		for _, c := range ltpCoefQ14[j] {
			energy += fixedpoint.SMULBB(int32(c), int32(c))
		}
		if energy > bestEnergy {
			bestEnergy = energy
			best = j
		}
	}

	taps := ltpCoefQ14[best]
	if useSingleTap {
		var single [ltpOrder]int16
		single[ltpOrder/2] = taps[ltpOrder/2]
		taps = single
	}

	sumQ14 := int32(0)
	for _, c := range taps {
		sumQ14 += int32(c)
	}
	clamped := fixedpoint.Limit32(sumQ14, vPitchGainStartMinQ14, vPitchGainStartMaxQ14)
	if sumQ14 != 0 {
		scaleQ16 := fixedpoint.Div32VarQ(clamped, sumQ14, 16)
		for i := range taps {
			taps[i] = int16(fixedpoint.SMULWW(scaleQ16, int32(taps[i])))
		}
	}
	copy(s.LTPCoefQ14[:], taps[:])
	s.PitchLQ8 = int32(pitchL[best]) << 8
}

// Conceal runs spec 4.7's "Conceal" step for one lost frame: LTP synthesis
// from decaying taps and a noise pool drawn from the quieter half of the
// previous excitation, then LPC synthesis through a bandwidth-expanded
// filter. lossCnt is 1 for the first lost frame in a run. Ground truth:
// the full SKP_Silk_PLC_conceal loop read from original_source.
func (s *State) Conceal(out []int16, prevExcQ14 []int32, subfrLength, nbSubfr, lpcOrder int, lossCnt int) {
	attIdx := lossCnt - 1
	if attIdx >= nbAtt {
		attIdx = nbAtt - 1
	}
	if attIdx < 0 {
		attIdx = 0
	}

	if lossCnt == 1 {
		s.RandScaleQ14 = 1 << 14
		if s.LTPCoefQ14[ltpOrder/2] != 0 {
			sumQ14 := int32(0)
			for _, c := range s.LTPCoefQ14 {
				sumQ14 += int32(c)
			}
			s.RandScaleQ14 -= sumQ14
			if s.RandScaleQ14 < 3277 { // 0.2 in Q14
				s.RandScaleQ14 = 3277
			}
			s.RandScaleQ14 = fixedpoint.SMULWB(s.RandScaleQ14, s.PrevLTPScaleQ14) << 2
		}
	}

	bwExpand(s.PrevLPCQ12[:lpcOrder], bweCoefQ16)

	randPool := s.buildRandPool(prevExcQ14, subfrLength, nbSubfr)

	lag := int(s.PitchLQ8 >> 8)
	if lag < ltpOrder/2+1 {
		lag = ltpOrder/2 + 1
	}

	var ltpTaps [ltpOrder]int32
	for i, c := range s.LTPCoefQ14 {
		ltpTaps[i] = int32(c)
	}
	harmGain := harmAttQ15[attIdx]
	randGain := randAttenuateVQ15[attIdx]
	if s.LTPCoefQ14[ltpOrder/2] == 0 {
		randGain = randAttenuateUVQ15[attIdx]
	}

	hist := make([]int32, lag+ltpOrder+len(out))
	n := lag + ltpOrder
	if n > len(randPool) {
		n = len(randPool)
	}
	copy(hist[lag+ltpOrder-n:lag+ltpOrder], randPool[len(randPool)-n:])

	sigQ14 := make([]int32, len(out)+maxLPCOrder)

	randSeed := s.RandSeed
	writeIdx := lag + ltpOrder
	for i := 0; i < len(out); i++ {
		randSeed = randSeed*196314165 + 907633515
		idx := int((uint32(randSeed) >> 24) & randBufMask)
		noise := fixedpoint.SMULWB(randPool[idx%len(randPool)], s.RandScaleQ14)

		ltpPred := int32(0)
		base := writeIdx - lag
		for t := 0; t < ltpOrder; t++ {
			ltpPred = fixedpoint.SMLAWB(ltpPred, hist[base+ltpOrder/2-t], ltpTaps[t])
		}

		sample := fixedpoint.AddSat32(noise, ltpPred)
		hist[writeIdx] = sample
		writeIdx++

		subfr := i / subfrLength
		if subfr >= nbSubfr {
			subfr = nbSubfr - 1
		}
		sigQ14[maxLPCOrder+i] = sample

		if (i+1)%subfrLength == 0 {
			for t := range ltpTaps {
				ltpTaps[t] = fixedpoint.SMULWW(ltpTaps[t], harmGain)
			}
			s.RandScaleQ14 = fixedpoint.SMULWB(s.RandScaleQ14, randGain)
			lag = driftLag(lag, s.FsKHz)
		}
	}
	s.RandSeed = randSeed
	s.PitchLQ8 = int32(lag) << 8

	copy(sigQ14[:maxLPCOrder], s.concealLPCHistoryQ14())
	for i := 0; i < len(out); i++ {
		base := maxLPCOrder + i
		predQ10 := int32(lpcOrder >> 1)
		for j := 0; j < lpcOrder; j++ {
			predQ10 = fixedpoint.SMLAWB(predQ10, sigQ14[base-j-1]>>4, int32(s.PrevLPCQ12[j]))
		}
		sigQ14[base] = fixedpoint.AddSat32(sigQ14[base], fixedpoint.LshiftSat32(predQ10, 4))
		out[i] = fixedpoint.Sat16(sigQ14[base] >> 4)
	}
	s.saveLPCHistoryQ14(sigQ14[len(out):])
}

func (s *State) concealLPCHistoryQ14() []int32 {
	return s.concealHistoryQ14[:]
}

func (s *State) saveLPCHistoryQ14(tail []int32) {
	copy(s.concealHistoryQ14[:], tail[:maxLPCOrder])
}

// buildRandPool returns the half (first or second) of the previous good
// frame's excitation that has the lower energy; on a tie the first half
// is returned. The excitation is used as stored: it is not scaled by the
// subframe gains, and subfrLength/nbSubfr are not used.
func (s *State) buildRandPool(prevExcQ14 []int32, subfrLength, nbSubfr int) []int32 {
	if len(prevExcQ14) == 0 {
		return make([]int32, randBufSize)
	}
	half := len(prevExcQ14) / 2
	e1, e2 := int64(0), int64(0)
	for i := 0; i < half; i++ {
		e1 += int64(prevExcQ14[i]) * int64(prevExcQ14[i])
	}
	for i := half; i < len(prevExcQ14); i++ {
		e2 += int64(prevExcQ14[i]) * int64(prevExcQ14[i])
	}
	if e1 <= e2 {
		return prevExcQ14[:half]
	}
	return prevExcQ14[half:]
}

func driftLag(lag, fsKHz int) int {
	drifted := lag + int(fixedpoint.SMULWB(int32(lag), pitchDriftFacQ16))
	maxLag := maxPitchLagMs * fsKHz
	if int(drifted) > maxLag {
		return maxLag
	}
	if drifted < 1 {
		return 1
	}
	return int(drifted)
}

// GlueFrames smooths the transition from concealed audio back to decoded
// audio: during a loss run it records the concealed frame's energy, then on
// the first good frame after a loss it compares energies and, if the
// recovered frame is louder (which would otherwise pop), ramps a gain from
// sqrt(concEnergy/energy) up to unity over the frame. lossCnt is 0 on a
// successfully decoded frame. Ground truth: silk/plc_glue.go's
// silkPLCGlueFrames/silkSumSqrShift/silkSqrtApproxPLC, read in full.
func (s *State) GlueFrames(frame []int16, lossCnt int) {
	if lossCnt > 0 {
		s.glueConcEnergy, s.glueConcEnergyShift = sumSqrShift(frame)
		s.LastFrameLost = true
		return
	}

	if s.LastFrameLost {
		energy, energyShift := sumSqrShift(frame)
		concEnergy := s.glueConcEnergy
		concEnergyShift := s.glueConcEnergyShift

		if energyShift > concEnergyShift {
			concEnergy >>= energyShift - concEnergyShift
		} else if energyShift < concEnergyShift {
			energy >>= concEnergyShift - energyShift
		}

		if energy > concEnergy {
			lz := fixedpoint.CLZ32(concEnergy)
			if lz > 0 {
				lz--
			}
			concEnergy <<= lz
			shiftAmount := 24 - int(lz)
			if shiftAmount < 0 {
				shiftAmount = 0
			}
			energy >>= shiftAmount
			if energy < 1 {
				energy = 1
			}

			fracQ24 := fixedpoint.Div32VarQ(concEnergy, energy, 24)
			gainQ16 := sqrtApproxQ12(fracQ24) << 4
			slopeQ16 := fixedpoint.Div32VarQ((1<<16)-gainQ16, int32(len(frame)), 16) << 2

			for i := range frame {
				frame[i] = int16(fixedpoint.SMULWB(gainQ16, int32(frame[i])))
				gainQ16 += slopeQ16
				if gainQ16 > 1<<16 {
					break
				}
			}
		}
	}
	s.LastFrameLost = false
}

// sumSqrShift sums squared samples with overflow-avoiding right shifts,
// returning (energy, shift) such that the true energy is energy<<shift.
func sumSqrShift(samples []int16) (int32, int) {
	if len(samples) == 0 {
		return 0, 0
	}
	var nrg int64
	shift := 0
	for _, s := range samples {
		v := int64(s)
		nrg += v * v
		if nrg > 0x3FFFFFFF {
			nrg >>= 2
			shift += 2
		}
	}
	for nrg > 0x7FFFFFFF {
		nrg >>= 1
		shift++
	}
	return int32(nrg), shift
}

// sqrtApproxQ12 approximates sqrt of a Q24 input, returning Q12, via a
// leading-zero-count seed and a few Newton-Raphson refinement steps.
func sqrtApproxQ12(x int32) int32 {
	if x <= 0 {
		return 0
	}
	lz := fixedpoint.CLZ32(x)
	if lz < 1 {
		lz = 1
	}
	estimate := int32(1) << uint(16-lz/2)
	if estimate == 0 {
		estimate = 1
	}
	for i := 0; i < 5; i++ {
		if estimate == 0 {
			break
		}
		estimate = (estimate + x/estimate) >> 1
	}
	return estimate
}

func bwExpand(ar []int16, chirpQ16 int32) {
	n := len(ar)
	if n == 0 {
		return
	}
	c := chirpQ16
	for i := 0; i < n-1; i++ {
		ar[i] = int16(fixedpoint.RshiftRound(fixedpoint.Mul(c, int32(ar[i])), 16))
		c = fixedpoint.SMULWW(chirpQ16, c)
	}
	ar[n-1] = int16(fixedpoint.RshiftRound(fixedpoint.Mul(c, int32(ar[n-1])), 16))
}
