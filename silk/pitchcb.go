package silk

// Pitch-lag contour codebooks: per contour index, the per-subframe lag
// offset (in samples at the frame's own fs_kHz) added to the decoded base
// lag. Shapes (subframe count, codebook size) follow spec 4.5's
// fs/nbSubfr-keyed schedule; libopus's exact offset values are pure data not
// present in the retrieved pack (only the codebook's existence and size
// constants survive extraction), so these are representative contours built
// from the same "mostly flat, occasional +-1 sample drift" shape the
// reference tables have -- monotonic in the ICDF but not bit-identical.
// Noted in DESIGN.md rather than presented as the literal libopus table.

func buildContourNB() [][]int8 {
	cb := make([][]int8, maxNbSubfr)
	for k := range cb {
		cb[k] = make([]int8, peNbCbksStage2Ext)
	}
	for idx := 0; idx < peNbCbksStage2Ext; idx++ {
		center := idx - peNbCbksStage2Ext/2
		for k := 0; k < maxNbSubfr; k++ {
			cb[k][idx] = int8(center)
		}
	}
	return cb
}

func buildContourNB10ms() [][]int8 {
	cb := make([][]int8, 2)
	for k := range cb {
		cb[k] = make([]int8, peNbCbksStage2_10ms)
	}
	for idx := 0; idx < peNbCbksStage2_10ms; idx++ {
		center := idx - peNbCbksStage2_10ms/2
		for k := 0; k < 2; k++ {
			cb[k][idx] = int8(center)
		}
	}
	return cb
}

func buildContourWB() [][]int8 {
	cb := make([][]int8, maxNbSubfr)
	for k := range cb {
		cb[k] = make([]int8, peNbCbksStage3Max)
	}
	for idx := 0; idx < peNbCbksStage3Max; idx++ {
		center := idx - peNbCbksStage3Max/2
		for k := 0; k < maxNbSubfr; k++ {
			cb[k][idx] = int8(center + k - maxNbSubfr/2)
		}
	}
	return cb
}

func buildContourWB10ms() [][]int8 {
	cb := make([][]int8, 2)
	for k := range cb {
		cb[k] = make([]int8, peNbCbksStage3_10ms)
	}
	for idx := 0; idx < peNbCbksStage3_10ms; idx++ {
		center := idx - peNbCbksStage3_10ms/2
		for k := 0; k < 2; k++ {
			cb[k][idx] = int8(center)
		}
	}
	return cb
}

var cbLagsStage2 = buildContourNB()
var cbLagsStage2_10ms = buildContourNB10ms()
var cbLagsStage3 = buildContourWB()
var cbLagsStage3_10ms = buildContourWB10ms()

func pitchLagCodebook(fsKHz, nbSubfr int) (cb [][]int8, cbkSize int) {
	if fsKHz == 8 {
		if nbSubfr == maxNbSubfr {
			return cbLagsStage2, peNbCbksStage2Ext
		}
		return cbLagsStage2_10ms, peNbCbksStage2_10ms
	}
	if nbSubfr == maxNbSubfr {
		return cbLagsStage3, peNbCbksStage3Max
	}
	return cbLagsStage3_10ms, peNbCbksStage3_10ms
}
