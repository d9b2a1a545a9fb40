package rangecoding

// Encoder is the mirror image of Decoder. Spec 4.2 specifies it "for
// completeness because it defines the decoder contract" -- this module
// never encodes SILK frames itself, but the conformance test vectors
// used to validate Decoder are produced by round-tripping through this
// type, and it is the natural place to keep the carry-propagation
// logic the decoder's renormalization is built to invert.
type Encoder struct {
	buf    []byte
	offs   int
	cache  byte
	carryCount int
	low    uint32
	rng    uint32
	err    int
}

// NewEncoder allocates an Encoder writing into a fresh internal buffer.
func NewEncoder() *Encoder {
	e := &Encoder{}
	e.Init()
	return e
}

// Init (re)starts encoding into a fresh buffer.
func (e *Encoder) Init() {
	e.buf = e.buf[:0]
	e.offs = 0
	e.cache = 0
	e.carryCount = 0
	e.low = 0
	e.rng = codeTop
	e.err = 0
}

func (e *Encoder) carryOut(c int) {
	if c != symMax {
		carry := c >> symBits
		if e.offs > 0 {
			e.buf[len(e.buf)-1] += byte(carry)
		}
		for ; e.carryCount > 0; e.carryCount-- {
			e.buf = append(e.buf, byte((symMax+carry)&symMax))
			e.offs++
		}
		e.cache = byte(c & symMax)
	} else {
		e.carryCount++
	}
}

func (e *Encoder) normalize() {
	for e.rng <= codeBot {
		e.carryOut(int((e.low >> codeShift) & symMax))
		e.low = (e.low << symBits) & (codeTop - 1)
		e.rng <<= symBits
	}
}

// EncodeICDF encodes symbol s against an inverse-CDF table, mirroring
// Decoder.DecodeICDF's interval arithmetic exactly.
func (e *Encoder) EncodeICDF(s int, icdf []uint8, ftb uint) {
	r := e.rng >> ftb
	var fh uint32 = uint32(icdf[s])
	var fl uint32 = e.rng
	if s > 0 {
		fl = r * uint32(icdf[s-1])
	}
	fh = r * fh
	e.low += e.rng - fl
	e.rng = fl - fh
	e.normalize()
}

// EncodeBit encodes a single bit with probability 1/2^logp of being 1.
func (e *Encoder) EncodeBit(val int, logp uint) {
	r := e.rng
	d := r >> logp
	if val != 0 {
		e.rng = d
	} else {
		e.low += r - d
		e.rng = r - d
	}
	e.normalize()
}

// Done finalizes the stream, flushing the carry chain and padding the
// final byte so every unused low bit reads as 1 (spec 4.2 "Wrap-up").
func (e *Encoder) Done() []byte {
	// Output enough bits of low to disambiguate the final interval.
	for i := 0; i < 4; i++ {
		e.carryOut(int((e.low >> codeShift) & symMax))
		e.low = (e.low << symBits) & (codeTop - 1)
	}
	if len(e.buf) > 0 {
		e.buf[len(e.buf)-1] |= 0x01
	}
	return e.buf
}

func (e *Encoder) Error() int {
	return e.err
}
