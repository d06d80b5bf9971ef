package terminol

// C0 control bytes the parser and controller care about by name.
const (
	ctrlNUL = 0x00
	ctrlENQ = 0x05
	ctrlBEL = 0x07
	ctrlBS  = 0x08
	ctrlHT  = 0x09
	ctrlLF  = 0x0A
	ctrlVT  = 0x0B
	ctrlFF  = 0x0C
	ctrlCR  = 0x0D
	ctrlSO  = 0x0E
	ctrlSI  = 0x0F
	ctrlDC1 = 0x11
	ctrlDC3 = 0x13
	ctrlCAN = 0x18
	ctrlSUB = 0x1A
	ctrlESC = 0x1B
	ctrlDEL = 0x7F
)

// ParserHandler receives the typed events raised by the Parser. Exactly one
// event is raised per dispatched sequence; malformed input raises nothing.
type ParserHandler interface {
	// Normal is a printable code point.
	Normal(seq Seq, length int)
	// Control is a C0/C1 control byte seen outside a string sequence.
	Control(c byte)
	// Escape is a single-byte escape final (ESC D, ESC M, ...).
	Escape(c byte)
	// CSI carries an optional private '?' marker, the semicolon-separated
	// parameters (missing entries read as zero) and the final byte.
	CSI(private bool, params []int32, final byte)
	// OSC carries the ';'-split arguments of an operating system command,
	// terminated by BEL or ST.
	OSC(args []string)
	// DCS carries the raw body of a device control string.
	DCS(data []byte)
	// Special is a two-byte escape with an intermediate from "#()".
	Special(lead, code byte)
}

type parserState int

const (
	parserGround parserState = iota
	parserEscape
	parserEscapeInt
	parserCSIEntry
	parserCSIParam
	parserOSCString
	parserDCSPassthrough
)

// Parameter clamps, per the VT500 series recommendation. Extra parameters
// and extra digits are discarded, not errors.
const (
	maxCSIParams      = 16
	maxCSIParamDigits = 16
)

// Parser is the VT state machine. It consumes decoded code points and
// raises typed events on its handler. It never fails: unrecognized input
// falls out of the state machine and is logged by the handler, and CAN/SUB
// abort any sequence in progress.
type Parser struct {
	handler ParserHandler

	state   parserState
	escInt  byte // intermediate for ESC_INT ("#", "(" or ")")
	private bool
	params  []int32
	digits  int
	osc     []byte
	oscEsc  bool // saw ESC inside a string, waiting for '\' to form ST
	dcs     []byte
}

// NewParser creates a parser dispatching to the given handler.
func NewParser(handler ParserHandler) *Parser {
	return &Parser{
		handler: handler,
		params:  make([]int32, 0, maxCSIParams),
	}
}

// Reset aborts any sequence in progress and returns to ground.
func (p *Parser) Reset() {
	p.state = parserGround
	p.private = false
	p.params = p.params[:0]
	p.digits = 0
	p.osc = nil
	p.oscEsc = false
	p.dcs = nil
}

// Consume feeds one decoded code point into the machine.
func (p *Parser) Consume(seq Seq, length int) {
	if length > 1 {
		p.consumeMultiByte(seq, length)
		return
	}
	p.consumeByte(seq[0])
}

// consumeMultiByte handles non-ASCII code points. Inside string sequences
// they are accumulated; inside control sequences they are discarded. C1
// controls arriving as two-byte code points are folded onto their single
// byte form.
func (p *Parser) consumeMultiByte(seq Seq, length int) {
	if r := seq.Rune(); r >= 0x80 && r <= 0x9F {
		p.consumeC1(byte(r))
		return
	}

	switch p.state {
	case parserGround:
		p.handler.Normal(seq, length)
	case parserOSCString:
		p.osc = append(p.osc, seq.Bytes()...)
	case parserDCSPassthrough:
		p.dcs = append(p.dcs, seq.Bytes()...)
	default:
		// A printable mid-sequence is a protocol violation; drop it.
		Logger.Printf("printable %q inside escape sequence", seq.String())
	}
}

func (p *Parser) consumeByte(b byte) {
	// CAN and SUB abort from any state without dispatch.
	if b == ctrlCAN || b == ctrlSUB {
		p.Reset()
		p.handler.Control(b)
		return
	}

	switch p.state {
	case parserGround:
		p.ground(b)
	case parserEscape:
		p.escape(b)
	case parserEscapeInt:
		p.escapeInt(b)
	case parserCSIEntry, parserCSIParam:
		p.csi(b)
	case parserOSCString:
		p.oscString(b)
	case parserDCSPassthrough:
		p.dcsPassthrough(b)
	}
}

// consumeC1 folds C1 controls onto their ESC-Fe equivalents.
func (p *Parser) consumeC1(c byte) {
	switch c {
	case 0x90: // DCS
		p.start(parserDCSPassthrough)
	case 0x9B: // CSI
		p.start(parserCSIEntry)
	case 0x9C: // ST
		p.terminateString()
	case 0x9D: // OSC
		p.start(parserOSCString)
	default:
		if p.state == parserGround {
			p.handler.Control(c)
		}
	}
}

func (p *Parser) start(state parserState) {
	p.Reset()
	p.state = state
}

func (p *Parser) ground(b byte) {
	switch {
	case b == ctrlESC:
		p.state = parserEscape
	case b < 0x20 || b == ctrlDEL:
		p.handler.Control(b)
	default:
		var seq Seq
		seq[0] = b
		p.handler.Normal(seq, 1)
	}
}

func (p *Parser) escape(b byte) {
	switch {
	case b == '[':
		p.start(parserCSIEntry)
	case b == ']':
		p.start(parserOSCString)
	case b == 'P':
		p.start(parserDCSPassthrough)
	case b == '#' || b == '(' || b == ')':
		p.escInt = b
		p.state = parserEscapeInt
	case b == ctrlESC:
		// Stay; the new ESC restarts the sequence.
	case b < 0x20:
		// C0 controls execute from within an escape sequence.
		p.handler.Control(b)
	default:
		p.state = parserGround
		p.handler.Escape(b)
	}
}

func (p *Parser) escapeInt(b byte) {
	if b < 0x20 {
		p.handler.Control(b)
		return
	}
	lead := p.escInt
	p.state = parserGround
	p.handler.Special(lead, b)
}

func (p *Parser) csi(b byte) {
	switch {
	case b == '?' && p.state == parserCSIEntry && len(p.params) == 0 && p.digits == 0:
		p.private = true
		p.state = parserCSIParam
	case b >= '0' && b <= '9':
		p.state = parserCSIParam
		if len(p.params) == 0 {
			p.params = append(p.params, 0)
		}
		if p.digits < maxCSIParamDigits {
			i := len(p.params) - 1
			p.params[i] = p.params[i]*10 + int32(b-'0')
			p.digits++
		}
	case b == ';':
		p.state = parserCSIParam
		if len(p.params) == 0 {
			p.params = append(p.params, 0)
		}
		if len(p.params) < maxCSIParams {
			p.params = append(p.params, 0)
			p.digits = 0
		} else {
			Logger.Printf("CSI parameter count clamped at %d", maxCSIParams)
			// The digits of a discarded parameter must not run on into
			// the last kept one.
			p.digits = maxCSIParamDigits
		}
	case b >= 0x40 && b <= 0x7E:
		private, params := p.private, p.params
		p.state = parserGround
		p.private = false
		p.digits = 0
		p.handler.CSI(private, params, b)
		p.params = p.params[:0]
	case b == ctrlESC:
		p.state = parserEscape
	case b < 0x20:
		p.handler.Control(b)
	default:
		// Intermediates and ':' sub-parameters are not supported; drop
		// the whole sequence rather than misinterpret it.
		Logger.Printf("aborting CSI on byte %#02x", b)
		p.Reset()
	}
}

func (p *Parser) oscString(b byte) {
	switch {
	case p.oscEsc:
		p.oscEsc = false
		if b == '\\' {
			p.terminateString()
		} else {
			// Not ST: abandon the string, reprocess as a fresh escape.
			p.Reset()
			p.state = parserEscape
			p.escape(b)
		}
	case b == ctrlBEL:
		p.terminateString()
	case b == ctrlESC:
		p.oscEsc = true
	default:
		p.osc = append(p.osc, b)
	}
}

func (p *Parser) dcsPassthrough(b byte) {
	switch {
	case p.oscEsc:
		p.oscEsc = false
		if b == '\\' {
			p.terminateString()
		} else {
			p.Reset()
			p.state = parserEscape
			p.escape(b)
		}
	case b == ctrlESC:
		p.oscEsc = true
	default:
		p.dcs = append(p.dcs, b)
	}
}

// terminateString dispatches the OSC or DCS accumulated so far.
func (p *Parser) terminateString() {
	switch p.state {
	case parserOSCString:
		args := splitOSC(p.osc)
		p.Reset()
		p.handler.OSC(args)
	case parserDCSPassthrough:
		data := p.dcs
		p.Reset()
		p.handler.DCS(data)
	default:
		p.Reset()
	}
}

func splitOSC(data []byte) []string {
	var args []string
	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == ';' {
			args = append(args, string(data[start:i]))
			start = i + 1
		}
	}
	return args
}
