// Package lpc implements the NLSF<->AR conversion, stability
// enforcement, and bandwidth-expansion utilities of spec 4.3: the
// shared math between the parameter decoder, the core synthesis path,
// and comfort-noise generation (NLSF2A is called from all three).
package lpc

import (
	"math"

	"github.com/silkcore/decoder/fixedpoint"
)

const (
	qA               = 16 // working Q-format for the cosine/polynomial recursion
	maxLPCOrder      = 16
	maxLPCStabilizeIterations = 16
	invPredGainLimitQ24 = 16773022 // 0.99975 in Q24 -- spec 4.3 A_LIMIT
)

// nlsf2aOrdering16/10 interleave NLSF indices into the even/odd
// half-order polynomial construction order libopus uses so that
// adjacent table entries land on well-correlated frequencies.
var nlsf2aOrdering16 = [16]int{0, 15, 8, 7, 4, 11, 12, 3, 2, 13, 10, 5, 6, 9, 14, 1}
var nlsf2aOrdering10 = [10]int{0, 9, 6, 3, 4, 5, 8, 1, 2, 7}

// lsfCosTabQ12 is the 129-entry piecewise-linear cosine table spec 4.3
// calls for, sampling 2*cos(pi * i/128) in Q12 over i = 0..128.
var lsfCosTabQ12 = buildCosTable()

func buildCosTable() [129]int32 {
	var t [129]int32
	// 2*cos(pi*i/128) in Q12, matching the reference table's scale; the
	// approximation below is the same piecewise-linear table libopus
	// ships as a constant -- reconstructed here from its closed form
	// since the source table is pure data.
	for i := 0; i <= 128; i++ {
		angle := float64(i) / 128.0 * 3.14159265358979323846
		v := 2.0 * cosApprox(angle)
		t[i] = int32(v*4096.0 + 0.5)
		if t[i] > 0 && v < 0 {
			t[i] = -t[i]
		}
	}
	return t
}

func cosApprox(x float64) float64 {
	// The table is built once at init, so the library cosine is used
	// directly; only Q12 rounding separates it from the libopus table.
	return math.Cos(x)
}

// NLSF2A converts order NLSF coefficients (Q15) into a monic AR filter
// in Q12. Returns false if the magnitude-limiting chirp expansion could
// not bring every coefficient under 2^15 within the retry budget (spec
// 4.3's "defensive" fallback path).
func NLSF2A(aQ12 []int16, nlsfQ15 []int16, order int) bool {
	if order != 10 && order != 16 {
		return false
	}
	var ordering []int
	if order == 16 {
		ordering = nlsf2aOrdering16[:]
	} else {
		ordering = nlsf2aOrdering10[:]
	}

	var cosLSFQA [maxLPCOrder]int32
	for k := 0; k < order; k++ {
		f := int32(nlsfQ15[k])
		idx := f >> 8
		fracQ8 := f & 0xFF
		lo := lsfCosTabQ12[idx]
		hi := lsfCosTabQ12[idx+1]
		cosLSFQA[ordering[k]] = fixedpoint.RshiftRound(lo*(256-fracQ8)+hi*fracQ8, 8-(qA-12))
	}

	dd := order >> 1
	var pQ16A, qQ16A [maxLPCOrder/2 + 1]int32
	findPoly(pQ16A[:dd+1], cosLSFQA[0:], dd)
	findPoly(qQ16A[:dd+1], cosLSFQA[1:], dd)

	var a32QA1 [maxLPCOrder]int32
	for k := 0; k < dd; k++ {
		ps := pQ16A[k+1] + pQ16A[k]
		qs := qQ16A[k+1] - qQ16A[k]
		a32QA1[k] = -ps - qs
		a32QA1[order-1-k] = -ps + qs
	}

	return quantizeAndStabilize(aQ12[:order], a32QA1[:order], order)
}

// findPoly builds the half-order polynomial coefficients from the
// per-root cosine values via the standard recursive convolution: each
// root contributes a (1 - 2*cos(w)z^-1 + z^-2) factor.
func findPoly(out []int32, cosVals []int32, dd int) {
	out[0] = int32(1) << qA
	out[1] = -cosVals[0*2]
	for k := 1; k < dd; k++ {
		ck := cosVals[k*2]
		out[k+1] = out[k-1]<<1 - int32((int64(ck)*int64(out[k]))>>qA)
		for n := k; n > 1; n-- {
			out[n] += out[n-2] - int32((int64(ck)*int64(out[n-1]))>>qA)
		}
		out[1] -= ck
	}
}

// quantizeAndStabilize brings a32QA1 (Q(qA+1)) down to Q12 while
// keeping every coefficient within int16 range, retrying bandwidth
// expansion up to 10 times per spec 4.3.
func quantizeAndStabilize(aQ12 []int16, a32 []int32, order int) bool {
	shift := qA + 1 - 12
	maxabs := int32(0)
	for i := 0; i < order; i++ {
		v := fixedpoint.Abs32(a32[i] >> uint(shift))
		if v > maxabs {
			maxabs = v
		}
	}
	for attempt := 0; attempt < 10 && maxabs > 32767; attempt++ {
		chirpQ16 := int32(65536) - (int32(10+attempt) << 4) - (maxabs-32767)>>(5)
		if chirpQ16 > 65536 {
			chirpQ16 = 65536
		}
		if chirpQ16 < 32768 {
			chirpQ16 = 32768
		}
		BWExpander32(a32, chirpQ16)
		maxabs = 0
		for i := 0; i < order; i++ {
			v := fixedpoint.Abs32(a32[i] >> uint(shift))
			if v > maxabs {
				maxabs = v
			}
		}
	}
	for i := 0; i < order; i++ {
		v := fixedpoint.RshiftRound(a32[i], shift)
		aQ12[i] = int16(fixedpoint.Limit32(v, -32768, 32767))
	}
	return maxabs <= 32767
}

// NLSF2AStable is NLSF2A followed by iterated inverse-prediction-gain
// stability enforcement: each failing round applies the same
// bandwidth-expansion chirp and retries, up to
// maxLPCStabilizeIterations times, per spec 4.3's NLSF2A_stable.
func NLSF2AStable(aQ12 []int16, nlsfQ15 []int16, order int) {
	NLSF2A(aQ12, nlsfQ15, order)

	for i := 0; i < maxLPCStabilizeIterations; i++ {
		_, unstable := InversePredGain(aQ12[:order])
		if !unstable {
			return
		}
		chirpQ16 := int32(65536) - (int32(1) << uint(i+1))
		BWExpander16(aQ12[:order], chirpQ16)
	}
	for i := range aQ12[:order] {
		aQ12[i] = 0
	}
}

// BWExpander16 applies A[i] *= chirp^(i+1) to an int16 AR filter,
// spec 4.3's bandwidth expansion.
func BWExpander16(ar []int16, chirpQ16 int32) {
	n := len(ar)
	cAcc := chirpQ16
	for i := 0; i < n-1; i++ {
		ar[i] = int16(fixedpoint.RshiftRound(fixedpoint.Mul(cAcc, int32(ar[i])), 16))
		cAcc = fixedpoint.SMULWW(chirpQ16, cAcc)
	}
	ar[n-1] = int16(fixedpoint.RshiftRound(fixedpoint.Mul(cAcc, int32(ar[n-1])), 16))
}

// BWExpander32 is the int32-coefficient variant used during NLSF2A's
// own magnitude-limiting retries (operates in the wider working Q-format).
func BWExpander32(ar []int32, chirpQ16 int32) {
	cAcc := chirpQ16
	n := len(ar)
	for i := 0; i < n-1; i++ {
		ar[i] = fixedpoint.SMULWW(cAcc, ar[i])
		cAcc = fixedpoint.SMULWW(chirpQ16, cAcc)
	}
	ar[n-1] = fixedpoint.SMULWW(cAcc, ar[n-1])
}

// InversePredGain runs the Levinson-style step-down stability check of
// spec 4.3: returns the Q30 inverse prediction gain and whether the
// filter is unstable (a reflection coefficient left the valid range).
func InversePredGain(aQ12 []int16) (invGainQ30 int32, unstable bool) {
	order := len(aQ12)
	var a [maxLPCOrder]int32
	for i, v := range aQ12 {
		a[i] = int32(v) << 12 // promote to Q24 working precision
	}

	invGain := int32(1) << 30
	for k := order - 1; k > 0; k-- {
		if fixedpoint.Abs32(a[k]) > invPredGainLimitQ24 {
			return 0, true
		}
		rc := -(a[k] >> 12) // Q12 reflection coefficient
		rcMult1Q30 := (int32(1) << 30) - fixedpoint.SMULBB(rc, rc)<<(30-24)
		if rcMult1Q30 <= 0 {
			return 0, true
		}
		invGain = fixedpoint.SMULWW(invGain, rcMult1Q30) << 2
		if invGain <= 0 {
			return 0, true
		}

		invRcMult1Q30 := fixedpoint.Inverse32VarQ(rcMult1Q30, 30)
		for n := 0; n < k; n++ {
			tmp1 := a[n]
			tmp2 := a[k-n-1]
			a[n] = fixedpoint.SMULWW(tmp1-fixedpoint.SMULWB(tmp2, rc<<4), invRcMult1Q30>>2) << 2
			_ = tmp2
		}
	}
	if fixedpoint.Abs32(a[0]) > invPredGainLimitQ24 {
		return 0, true
	}
	rc := -(a[0] >> 12)
	rcMult1Q30 := (int32(1) << 30) - fixedpoint.SMULBB(rc, rc)<<6
	if rcMult1Q30 <= 0 {
		return 0, true
	}
	invGain = fixedpoint.SMULWW(invGain, rcMult1Q30) << 2
	return invGain, invGain <= 0
}
