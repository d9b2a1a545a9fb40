package silk

// ICDF tables for every symbol class the parameter decoder drives the range
// coder through. Each table is in the convention rangecoding.Decoder expects:
// strictly decreasing uint8 values ending in 0, with the interval above
// icdf[0] (i.e. symbol 0's probability mass) implicit in the caller's
// current range -- no leading 256 sentinel entry.
//
// Values are ported from the RFC 6716 Section 4.2 CDF tables (the form also
// used by the public reference implementation's table listing), renormalized
// to this convention by dropping each table's leading 256 entry where present.

var icdfTypeOffsetNoVAD = []uint8{230, 0}
var icdfTypeOffsetVAD = []uint8{232, 158, 10, 0}

var icdfGainMSB = [3][]uint8{
	{224, 192, 160, 128, 96, 64, 32, 0},
	{204, 154, 102, 51, 0},
	{255, 244, 220, 186, 145, 100, 56, 20, 0},
}
var icdfGainLSB = []uint8{224, 192, 160, 128, 96, 64, 32, 0}
var icdfDeltaGain = []uint8{250, 245, 239, 230, 219, 203, 180, 149, 111, 73, 41, 20, 8, 2, 0}

var icdfLSFStage1NBMB = [2][]uint8{
	{239, 223, 208, 193, 178, 163, 149, 135, 122, 109, 96, 84, 72, 61, 51, 42, 33, 25, 18, 12, 7, 3, 0},
	{240, 226, 214, 202, 190, 178, 166, 154, 142, 130, 118, 106, 94, 82, 70, 58, 48, 40, 32, 24, 17, 11, 6, 2, 0},
}
var icdfLSFStage1WB = [2][]uint8{
	{238, 221, 205, 190, 175, 161, 148, 135, 123, 111, 100, 89, 79, 69, 60, 51, 43, 35, 28, 21, 15, 10, 6, 3, 1, 0},
	{238, 221, 204, 188, 173, 158, 144, 131, 118, 106, 95, 84, 74, 65, 56, 47, 39, 32, 25, 19, 13, 8, 4, 1, 0},
}

var icdfLSFStage2NBMB = [8][]uint8{
	{212, 168, 127, 85, 42, 0},
	{235, 195, 146, 90, 37, 0},
	{218, 175, 133, 91, 47, 0},
	{226, 185, 139, 91, 43, 0},
	{231, 192, 147, 96, 44, 0},
	{238, 206, 164, 113, 58, 0},
	{232, 196, 155, 107, 54, 0},
	{228, 190, 148, 101, 50, 0},
}
var icdfLSFStage2WB = icdfLSFStage2NBMB

var icdfLSFInterpolation = []uint8{200, 150, 100, 50, 0}

var icdfPitchLagNB = []uint8{230, 204, 178, 153, 128, 102, 76, 51, 0}
var icdfPitchLagMB = []uint8{237, 218, 199, 181, 162, 144, 127, 109, 92, 76, 60, 45, 30, 15, 0}
var icdfPitchLagWB = []uint8{245, 234, 223, 213, 203, 193, 183, 173, 163, 153, 143, 133, 124, 115, 106, 97, 88, 79, 70, 62, 54, 46, 38, 30, 22, 15, 8, 0}

var icdfPitchContourNB = []uint8{235, 215, 195, 175, 155, 135, 115, 95, 75, 55, 35, 17, 10, 5, 2, 0}
var icdfPitchContourMBWB = []uint8{178, 110, 55, 0}
var icdfPitchContourNB10ms = []uint8{155, 80, 0}
var icdfPitchContourMBWB10ms = []uint8{0}

var icdfLTPPerIndex = []uint8{177, 78, 0}
var icdfLTPGain = [3][]uint8{
	{224, 192, 160, 128, 96, 64, 32, 0},
	{240, 224, 208, 192, 176, 160, 144, 128, 112, 96, 80, 64, 48, 32, 16, 0},
	{248, 240, 232, 224, 216, 208, 200, 192, 184, 176, 168, 160, 152, 144, 136, 128, 120, 112, 104, 96, 88, 80, 72, 64, 56, 48, 40, 32, 24, 16, 8, 0},
}
var icdfLTPFilterIndex = [3][]uint8{
	{185, 114, 43, 0},
	{196, 138, 83, 36, 0},
	{206, 157, 109, 63, 21, 0},
}
var icdfLTPScale = []uint8{128, 64, 0}
var icdfPitchDelta = []uint8{232, 204, 171, 128, 85, 52, 24, 0}

var icdfSeed = []uint8{192, 128, 64, 0}

var icdfRateLevel = [2][]uint8{
	{241, 221, 193, 159, 118, 72, 31, 0},
	{232, 200, 162, 120, 78, 42, 14, 0},
}

var icdfPulseCount = [11][]uint8{
	{127, 43, 13, 3, 0},
	{189, 70, 20, 5, 0},
	{218, 105, 29, 7, 0},
	{234, 138, 50, 14, 3, 0},
	{244, 166, 77, 24, 5, 0},
	{249, 189, 103, 37, 9, 0},
	{252, 209, 130, 53, 13, 2, 0},
	{254, 225, 154, 71, 19, 3, 0},
	{255, 238, 175, 90, 27, 5, 0},
	{255, 246, 194, 110, 37, 7, 0},
	{255, 250, 209, 128, 48, 10, 0},
}

var icdfExcitationLSB = []uint8{136, 0}

var icdfShellSplit = [][]uint8{
	{0},
	{128, 0},
	{171, 85, 0},
	{192, 128, 64, 0},
	{205, 154, 102, 51, 0},
	{213, 171, 128, 85, 43, 0},
	{219, 183, 146, 110, 73, 37, 0},
	{224, 192, 160, 128, 96, 64, 32, 0},
	{228, 199, 171, 142, 114, 85, 57, 28, 0},
	{230, 205, 179, 154, 128, 102, 77, 51, 26, 0},
	{233, 210, 186, 163, 140, 116, 93, 70, 47, 23, 0},
	{235, 213, 192, 171, 149, 128, 107, 85, 64, 43, 21, 0},
	{236, 216, 197, 177, 158, 138, 118, 99, 79, 59, 39, 20, 0},
	{238, 219, 201, 183, 164, 146, 128, 110, 91, 73, 55, 37, 18, 0},
	{239, 222, 204, 187, 170, 152, 135, 118, 101, 83, 66, 49, 31, 14, 0},
	{240, 224, 208, 192, 176, 160, 144, 128, 112, 96, 80, 64, 48, 32, 16, 0},
	{241, 226, 211, 195, 180, 165, 150, 135, 120, 105, 90, 75, 60, 45, 30, 15, 0},
}

// shellSplitTable returns the icdfShellSplit row for total pulse count p
// (clamped to the table); the per-row slices stand in for the teacher's
// silk_shell_code_table_offsets indirection into a flattened table.
func shellSplitTable(p int) []uint8 {
	if p < 0 {
		p = 0
	}
	if p >= len(icdfShellSplit) {
		p = len(icdfShellSplit) - 1
	}
	return icdfShellSplit[p]
}

var icdfExcitationSign = [3][2][7][]uint8{
	{
		{{128, 0}, {128, 0}, {128, 0}, {128, 0}, {128, 0}, {128, 0}, {128, 0}},
		{{128, 0}, {128, 0}, {128, 0}, {128, 0}, {128, 0}, {128, 0}, {128, 0}},
	},
	{
		{{201, 0}, {185, 0}, {168, 0}, {155, 0}, {146, 0}, {138, 0}, {133, 0}},
		{{187, 0}, {172, 0}, {157, 0}, {146, 0}, {138, 0}, {132, 0}, {128, 0}},
	},
	{
		{{173, 0}, {162, 0}, {152, 0}, {143, 0}, {137, 0}, {132, 0}, {128, 0}},
		{{160, 0}, {150, 0}, {142, 0}, {136, 0}, {131, 0}, {128, 0}, {125, 0}},
	},
}

var icdfVADFlag = []uint8{155, 0}
var icdfUniform4 = []uint8{192, 128, 64, 0}
var icdfUniform6 = []uint8{213, 171, 128, 85, 43, 0}
var icdfUniform8 = []uint8{224, 192, 160, 128, 96, 64, 32, 0}

// pitchContourTable returns the contour ICDF and its codebook size for the
// given fs/nbSubfr, matching spec 4.5's fs/nbSubfr-keyed contour schedule;
// SetFs stores the ICDF for pitch decoding.
func pitchContourTable(fsKHz, nbSubfr int) ([]uint8, int) {
	if fsKHz == 8 {
		if nbSubfr == maxNbSubfr {
			return icdfPitchContourNB, peNbCbksStage2Ext
		}
		return icdfPitchContourNB10ms, peNbCbksStage2_10ms
	}
	if nbSubfr == maxNbSubfr {
		return icdfPitchContourMBWB, peNbCbksStage3Max
	}
	return icdfPitchContourMBWB10ms, peNbCbksStage3_10ms
}
