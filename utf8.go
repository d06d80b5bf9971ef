package terminol

import "unicode/utf8"

// Seq is a single UTF-8 encoded code point, at most four bytes. Unused
// trailing bytes are zero, so Seq values compare structurally with ==.
type Seq [4]byte

// NewSeq encodes a rune as a Seq. Invalid runes encode as U+FFFD.
func NewSeq(r rune) Seq {
	var s Seq
	utf8.EncodeRune(s[:], r)
	return s
}

// Lead returns the lead byte of the sequence.
func (s Seq) Lead() byte {
	return s[0]
}

// Len returns the byte length of the sequence (1..4), derived from the
// lead byte.
func (s Seq) Len() int {
	return seqLength(s[0])
}

// Bytes returns the meaningful prefix of the sequence.
func (s Seq) Bytes() []byte {
	return s[:s.Len()]
}

// Rune decodes the sequence back to a rune.
func (s Seq) Rune() rune {
	r, _ := utf8.DecodeRune(s[:s.Len()])
	return r
}

func (s Seq) String() string {
	return string(s.Bytes())
}

// seqLength maps a lead byte to the expected sequence length. Bytes that
// cannot start a sequence map to 1 so that callers always make progress.
func seqLength(lead byte) int {
	switch {
	case lead < 0x80:
		return 1
	case lead >= 0xC2 && lead < 0xE0:
		return 2
	case lead >= 0xE0 && lead < 0xF0:
		return 3
	case lead >= 0xF0 && lead < 0xF5:
		return 4
	default:
		return 1
	}
}

// DecodeState is the result of feeding one byte to a Decoder.
type DecodeState int

const (
	// DecodeContinue means the byte was consumed and more are needed.
	DecodeContinue DecodeState = iota
	// DecodeAccept means a complete sequence is available via Seq/Length.
	DecodeAccept
	// DecodeReject means the input was malformed: an overlong encoding, a
	// surrogate code point, a stray continuation byte, or a sequence
	// truncated by a new lead byte. The decoder has reset itself.
	DecodeReject
)

// Decoder is a byte-at-a-time UTF-8 state machine. It allocates nothing and
// knows nothing about terminals: bytes go in, ACCEPT/REJECT verdicts come
// out. A REJECT is reported once for the truncated or malformed prefix;
// the byte that triggered it is reprocessed as a fresh lead so it is never
// lost — see Rescued.
type Decoder struct {
	seq     Seq
	index   int
	length  int
	rescued bool
	// Bounds on the first continuation byte, which carry the overlong and
	// surrogate restrictions (e.g. E0 requires A0..BF, ED requires 80..9F).
	lower byte
	upper byte
}

// Consume feeds one byte and returns the resulting state.
func (d *Decoder) Consume(b byte) DecodeState {
	d.rescued = false
	if d.index == 0 {
		return d.lead(b)
	}

	lower, upper := byte(0x80), byte(0xBF)
	if d.index == 1 {
		lower, upper = d.lower, d.upper
	}

	if b < lower || b > upper {
		// The sequence was truncated. Reprocess the interrupting byte as
		// a fresh lead: a new multi-byte sequence continues from here, and
		// a plain ASCII byte completes immediately (reported via Rescued).
		d.reset()
		d.rescued = d.lead(b) == DecodeAccept
		return DecodeReject
	}

	d.seq[d.index] = b
	d.index++

	if d.index == d.length {
		d.index = 0
		return DecodeAccept
	}

	return DecodeContinue
}

// Seq returns the last accepted sequence. Valid only after DecodeAccept.
func (d *Decoder) Seq() Seq {
	return d.seq
}

// Length returns the byte length of the last accepted sequence.
func (d *Decoder) Length() int {
	return d.length
}

// Rescued reports whether the byte that caused the last REJECT formed a
// complete sequence of its own; Seq and Length describe it while true.
func (d *Decoder) Rescued() bool {
	return d.rescued
}

// Reset returns the decoder to its ground state, discarding any partial
// sequence.
func (d *Decoder) Reset() {
	d.reset()
	d.rescued = false
}

func (d *Decoder) lead(b byte) DecodeState {
	d.seq = Seq{}
	d.seq[0] = b
	d.lower, d.upper = 0x80, 0xBF

	switch {
	case b < 0x80:
		d.length = 1
		return DecodeAccept
	case b < 0xC2:
		// Continuation byte with no lead, or the C0/C1 overlong leads.
		d.reset()
		return DecodeReject
	case b < 0xE0:
		d.length = 2
	case b < 0xF0:
		d.length = 3
		if b == 0xE0 {
			d.lower = 0xA0 // reject overlong
		} else if b == 0xED {
			d.upper = 0x9F // reject surrogates
		}
	case b < 0xF5:
		d.length = 4
		if b == 0xF0 {
			d.lower = 0x90 // reject overlong
		} else if b == 0xF4 {
			d.upper = 0x8F // reject > U+10FFFF
		}
	default:
		d.reset()
		return DecodeReject
	}

	d.index = 1
	return DecodeContinue
}

func (d *Decoder) reset() {
	d.index = 0
	d.length = 0
}
