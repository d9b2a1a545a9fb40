package lpc

import "github.com/silkcore/decoder/fixedpoint"

const nlsfQuantMaxAmplitude = 4
const nlsfQuantLevelAdjQ10 = 102 // 0.1 in Q10

// Codebook is the multi-stage NLSF vector quantizer schedule for one
// (signal-type, order) pair: spec 4.5's psNLSF_CB, selected by the
// parameter decoder from the frame's signal type and LPC order.
type Codebook struct {
	NVectors           int
	Order              int
	QuantStepSizeQ16   int
	Cb1NLSFQ8          []uint8
	Cb1WghtQ9          []int16
	Cb1ICDF            []uint8
	PredQ8             []uint8
	EcSel              []uint8
	EcICDF             []uint8
	DeltaMinQ15        []int16
}

// Unpack splits the per-coefficient-pair selector byte EcSel into the
// residual-decode table index and predictor-weight flip used by
// ResidualDequant, per spec 4.5's multi-stage codebook schedule.
func Unpack(ecIx []int16, predQ8 []uint8, cb *Codebook, stage0Index int) {
	sel := cb.EcSel[stage0Index*cb.Order/2:]
	for i := 0; i < cb.Order; i += 2 {
		entry := sel[0]
		sel = sel[1:]
		ecIx[i] = int16(fixedpoint.SMULBB(int32(entry>>1&7), 2*nlsfQuantMaxAmplitude+1))
		predQ8[i] = cb.PredQ8[i+int(entry&1)*(cb.Order-1)]
		ecIx[i+1] = int16(fixedpoint.SMULBB(int32(entry>>5&7), 2*nlsfQuantMaxAmplitude+1))
		predQ8[i+1] = cb.PredQ8[i+int((entry>>4)&1)*(cb.Order-1)+1]
	}
}

// ResidualDequant reconstructs the Q10 backward-predicted residual
// chain: each coefficient is predicted from the next-higher one.
func ResidualDequant(xQ10 []int16, indices []int8, predQ8 []uint8, quantStepSizeQ16 int, order int) {
	var outQ10 int32
	for i := order - 1; i >= 0; i-- {
		predQ10 := fixedpoint.RshiftRound(fixedpoint.SMULBB(outQ10, int32(predQ8[i])), 8)
		outQ10 = int32(indices[i]) << 10
		if outQ10 > 0 {
			outQ10 -= nlsfQuantLevelAdjQ10
		} else if outQ10 < 0 {
			outQ10 += nlsfQuantLevelAdjQ10
		}
		outQ10 = fixedpoint.SMLAWB(predQ10, outQ10, int32(quantStepSizeQ16))
		xQ10[i] = int16(outQ10)
	}
}

// Decode reconstructs the Q15 NLSF vector from its stage-0 index plus
// per-coefficient residual indices, then stabilizes it. This is the
// whole of spec 4.5's "NLSF decoding" paragraph.
func Decode(nlsfQ15 []int16, indices []int8, cb *Codebook) {
	var ecIx [maxLPCOrder]int16
	var predQ8 [maxLPCOrder]uint8
	var resQ10 [maxLPCOrder]int16

	Unpack(ecIx[:], predQ8[:], cb, int(indices[0]))
	ResidualDequant(resQ10[:cb.Order], indices[1:], predQ8[:cb.Order], cb.QuantStepSizeQ16, cb.Order)

	baseIdx := int(indices[0]) * cb.Order
	cbBase := cb.Cb1NLSFQ8[baseIdx:]
	cbWght := cb.Cb1WghtQ9[baseIdx:]
	for i := 0; i < cb.Order; i++ {
		wght := int32(cbWght[i])
		if wght == 0 {
			wght = 1
		}
		val := fixedpoint.AddLshift32(int32(resQ10[i])<<14/wght, int32(cbBase[i]), 7)
		nlsfQ15[i] = int16(fixedpoint.Limit32(val, 0, 32767))
	}

	Stabilize(nlsfQ15[:cb.Order], cb.DeltaMinQ15, cb.Order)
}

// Stabilize enforces spec 4.5/3's NLSF invariants: strictly ordered,
// each pairwise delta at or above the codebook minimum, bounds clamped
// to [0, 32767]. Two-pass "find worst violation, push it apart" loop
// with a guaranteed-convergent sort-and-clamp fallback.
func Stabilize(nlsfQ15 []int16, deltaMinQ15 []int16, order int) {
	const maxLoops = 20
	for loop := 0; loop < maxLoops; loop++ {
		minDiff := int32(nlsfQ15[0]) - int32(deltaMinQ15[0])
		idx := 0
		for i := 1; i < order; i++ {
			diff := int32(nlsfQ15[i]) - (int32(nlsfQ15[i-1]) + int32(deltaMinQ15[i]))
			if diff < minDiff {
				minDiff = diff
				idx = i
			}
		}
		diff := int32(1<<15) - (int32(nlsfQ15[order-1]) + int32(deltaMinQ15[order]))
		if diff < minDiff {
			minDiff = diff
			idx = order
		}
		if minDiff >= 0 {
			return
		}

		switch {
		case idx == 0:
			nlsfQ15[0] = deltaMinQ15[0]
		case idx == order:
			nlsfQ15[order-1] = int16((1 << 15) - int32(deltaMinQ15[order]))
		default:
			minCenter := int32(0)
			for k := 0; k < idx; k++ {
				minCenter += int32(deltaMinQ15[k])
			}
			minCenter += int32(deltaMinQ15[idx]) >> 1

			maxCenter := int32(1 << 15)
			for k := order; k > idx; k-- {
				maxCenter -= int32(deltaMinQ15[k])
			}
			maxCenter -= int32(deltaMinQ15[idx]) >> 1

			center := fixedpoint.RshiftRound(int32(nlsfQ15[idx-1])+int32(nlsfQ15[idx]), 1)
			center = fixedpoint.Limit32(center, minCenter, maxCenter)
			nlsfQ15[idx-1] = int16(center - (int32(deltaMinQ15[idx]) >> 1))
			nlsfQ15[idx] = int16(int32(nlsfQ15[idx-1]) + int32(deltaMinQ15[idx]))
		}
	}

	insertionSort(nlsfQ15, order)
	if nlsfQ15[0] < deltaMinQ15[0] {
		nlsfQ15[0] = deltaMinQ15[0]
	}
	for i := 1; i < order; i++ {
		minVal := int16(int32(nlsfQ15[i-1]) + int32(deltaMinQ15[i]))
		if nlsfQ15[i] < minVal {
			nlsfQ15[i] = minVal
		}
	}
	lastMax := int16((1 << 15) - int32(deltaMinQ15[order]))
	if nlsfQ15[order-1] > lastMax {
		nlsfQ15[order-1] = lastMax
	}
	for i := order - 2; i >= 0; i-- {
		maxVal := int16(int32(nlsfQ15[i+1]) - int32(deltaMinQ15[i+1]))
		if nlsfQ15[i] > maxVal {
			nlsfQ15[i] = maxVal
		}
	}
}

func insertionSort(a []int16, n int) {
	for i := 1; i < n; i++ {
		key := a[i]
		j := i - 1
		for j >= 0 && a[j] > key {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = key
	}
}
