package terminol

// CharSet selects one of the two character set slots a cursor carries.
type CharSet int

const (
	CharSetG0 CharSet = iota
	CharSetG1
)

// CharSub is a substitution table mapping 7-bit codes to replacement
// sequences. Substitution applies only to single-byte input.
type CharSub map[byte]Seq

// Translate returns the replacement for a single-byte sequence, or the
// input unchanged if the table has no entry for it.
func (cs CharSub) Translate(seq Seq) Seq {
	if rep, ok := cs[seq[0]]; ok {
		return rep
	}
	return seq
}

// CharSubUS is the US-ASCII table: the identity mapping.
var CharSubUS = CharSub{}

// CharSubUK differs from US only in the pound sign.
var CharSubUK = CharSub{
	'#': {0xC2, 0xA3}, // £
}

// CharSubSpecial is the DEC special graphics set used for line drawing.
var CharSubSpecial = CharSub{
	'`': {0xE2, 0x99, 0xA6}, // ♦
	'a': {0xE2, 0x96, 0x92}, // ▒
	'b': {0xE2, 0x90, 0x89}, // ␉
	'c': {0xE2, 0x90, 0x8C}, // ␌
	'd': {0xE2, 0x90, 0x8D}, // ␍
	'e': {0xE2, 0x90, 0x8A}, // ␊
	'f': {0xC2, 0xB0},       // °
	'g': {0xC2, 0xB1},       // ±
	'h': {0xE2, 0x90, 0xA4}, // ␤
	'i': {0xE2, 0x90, 0x8B}, // ␋
	'j': {0xE2, 0x94, 0x98}, // ┘
	'k': {0xE2, 0x94, 0x90}, // ┐
	'l': {0xE2, 0x94, 0x8C}, // ┌
	'm': {0xE2, 0x94, 0x94}, // └
	'n': {0xE2, 0x94, 0xBC}, // ┼
	'o': {0xE2, 0x8E, 0xBA}, // ⎺
	'p': {0xE2, 0x8E, 0xBB}, // ⎻
	'q': {0xE2, 0x94, 0x80}, // ─
	'r': {0xE2, 0x8E, 0xBC}, // ⎼
	's': {0xE2, 0x8E, 0xBD}, // ⎽
	't': {0xE2, 0x94, 0x9C}, // ├
	'u': {0xE2, 0x94, 0xA4}, // ┤
	'v': {0xE2, 0x94, 0xB4}, // ┴
	'w': {0xE2, 0x94, 0xAC}, // ┬
	'x': {0xE2, 0x94, 0x82}, // │
	'y': {0xE2, 0x89, 0xA4}, // ≤
	'z': {0xE2, 0x89, 0xA5}, // ≥
	'{': {0xCF, 0x80},       // π
	'|': {0xE2, 0x89, 0xA0}, // ≠
	'}': {0xC2, 0xA3},       // £
	'~': {0xE2, 0x8B, 0x85}, // ⋅
}
