// Package silk implements the SILK core decoder: the bitstream parameter
// decoder, shell pulse decoder, and inverse LPC/LTP synthesis chain driven
// per frame. PLC and CNG live in sibling packages and are wired in by the
// frame driver in decoder.go.
package silk

const (
	maxNbSubfr                = 4
	subFrameLengthMs          = 5
	ltpMemLengthMs            = 20
	maxFsKHz                  = 24
	maxSubFrameLength         = subFrameLengthMs * maxFsKHz
	maxFrameLength            = maxSubFrameLength * maxNbSubfr
	maxLPCOrder               = 16
	minLPCOrder               = 10
	ltpOrder                  = 5
	shellCodecFrameLength     = 16
	log2ShellCodecFrameLength = 4
	nRateLevels               = 10
	maxPulses                 = 16
	maxFramesPerPacket        = 3

	nLevelsQGain        = 64
	maxDeltaGainQuant   = 36
	minDeltaGainQuant   = -4
	minQGainDB          = 2
	maxQGainDB          = 88
	quantLevelAdjustQ10 = 80

	typeNoVoiceActivity = 0
	typeUnvoiced        = 1
	typeVoiced          = 2

	codeIndependently             = 0
	codeIndependentlyNoLTPScaling = 1
	codeConditionally             = 2

	nlsfQuantMaxAmplitude = 4
	bweAfterLossQ16       = 63570

	peMinLagMs          = 2
	peMaxLagMs          = 18
	peNbCbksStage2Ext   = 11
	peNbCbksStage2_10ms = 3
	peNbCbksStage3Max   = 34
	peNbCbksStage3_10ms = 12

	qgainRangeQ7   = ((maxQGainDB - minQGainDB) * 128) / 6
	gainOffsetQ7   = (minQGainDB*128)/6 + 16*128
	invScaleQ16Val = (1 << 16) * qgainRangeQ7 / (nLevelsQGain - 1)
)

// quantizationOffsetsQ10 is indexed [signalType>>1][quantOffsetType].
var quantizationOffsetsQ10 = [2][2]int16{
	{100, 240},
	{32, 100},
}
