package rangecoding

import "testing"

func TestDecodeICDFSelectsCorrectSymbol(t *testing.T) {
	// A 4-symbol uniform ICDF: {192, 128, 64, 0}.
	icdf := []uint8{192, 128, 64, 0}

	enc := NewEncoder()
	for _, sym := range []int{0, 1, 2, 3, 1, 0, 3} {
		enc.EncodeICDF(sym, icdf, 8)
	}
	buf := enc.Done()

	dec := NewDecoder(buf)
	want := []int{0, 1, 2, 3, 1, 0, 3}
	for i, w := range want {
		got := dec.DecodeICDF(icdf, 8)
		if got != w {
			t.Fatalf("symbol %d: got %d, want %d", i, got, w)
		}
	}
	if dec.Error() != nil {
		t.Fatalf("unexpected decode error: %v", dec.Error())
	}
}

func TestDecodeBitRoundTrip(t *testing.T) {
	enc := NewEncoder()
	bits := []int{1, 0, 1, 1, 0, 0, 1, 0}
	for _, b := range bits {
		enc.EncodeBit(b, 1)
	}
	buf := enc.Done()

	dec := NewDecoder(buf)
	for i, want := range bits {
		got := dec.DecodeBit(1)
		if got != want {
			t.Fatalf("bit %d: got %d, want %d", i, got, want)
		}
	}
}

func TestDecodeICDFOutOfRangeSetsError(t *testing.T) {
	// Force d.val above every cumulative frequency a single-entry,
	// nonzero-floor ICDF can produce, so the probe walks off the table
	// end and the decoder records ErrCDFOutOfRange rather than panicking.
	dec := NewDecoder(make([]byte, 4))
	dec.rng = 1 << 16
	dec.val = 0

	dec.DecodeICDF([]uint8{255}, 8)
	if dec.Error() != ErrCDFOutOfRange {
		t.Fatalf("got error %v, want ErrCDFOutOfRange", dec.Error())
	}
}

func TestCheckTrailingOnes(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want bool
	}{
		{"all ones after offset", []byte{0x00, 0xFF, 0xFF}, true},
		{"non-one byte after offset", []byte{0x00, 0xFF, 0x00}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewDecoder(tt.buf)
			dec.offs = 1
			if got := dec.CheckTrailingOnes(); got != tt.want {
				t.Errorf("CheckTrailingOnes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeUniformStaysWithinRange(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		ft   uint32
	}{
		{"small ft simple path", []byte{0x12, 0x34, 0x56, 0x78}, 6},
		{"large ft split path", []byte{0xAB, 0xCD, 0xEF, 0x01, 0x23, 0x45}, 1000},
		{"ft just past the uintBits boundary", []byte{0x00, 0xFF, 0x55, 0xAA}, 257},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewDecoder(tt.buf)
			got := dec.DecodeUniform(tt.ft)
			if got >= tt.ft {
				t.Fatalf("DecodeUniform(%d) = %d, want < %d", tt.ft, got, tt.ft)
			}
		})
	}
}

func TestDecodeUniformZeroAndOneAreNoOps(t *testing.T) {
	dec := NewDecoder(make([]byte, 4))
	if got := dec.DecodeUniform(0); got != 0 {
		t.Fatalf("DecodeUniform(0) = %d, want 0", got)
	}
	if got := dec.DecodeUniform(1); got != 0 {
		t.Fatalf("DecodeUniform(1) = %d, want 0", got)
	}
}

func TestTellIncreasesAsBitsAreConsumed(t *testing.T) {
	enc := NewEncoder()
	icdf := []uint8{128, 0}
	for i := 0; i < 20; i++ {
		enc.EncodeICDF(i%2, icdf, 8)
	}
	buf := enc.Done()

	dec := NewDecoder(buf)
	prev := dec.Tell()
	for i := 0; i < 20; i++ {
		dec.DecodeICDF(icdf, 8)
		cur := dec.Tell()
		if cur < prev {
			t.Fatalf("Tell() went backwards: %d -> %d", prev, cur)
		}
		prev = cur
	}
}
