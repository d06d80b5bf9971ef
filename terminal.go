package terminol

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultRows is the default number of terminal rows.
	DefaultRows = 24
	// DefaultCols is the default number of terminal columns.
	DefaultCols = 80
	// DefaultHistoryLimit is the default scroll-back depth in rows.
	DefaultHistoryLimit = 4096
	// DefaultFramesPerSecond bounds how long a single Read may keep
	// draining the pty before a frame is drawn.
	DefaultFramesPerSecond = 50

	tabSize     = 8
	readBufSize = 8192
)

// MouseButton identifies a pointer button.
type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonMiddle
	ButtonRight
)

// ScrollDir is a wheel direction.
type ScrollDir int

const (
	ScrollUp ScrollDir = iota
	ScrollDown
)

// damager says why a frame is being drawn; it decides whether buffer
// damage is consulted and whether the scrollbar is refreshed.
type damager int

const (
	damagerTTY damager = iota
	damagerExposure
	damagerScroll
)

// Terminal connects the parser to buffer mutations, mode state, cursor and
// charset logic, and mouse/keyboard encoding. It owns two buffers (primary
// with history, alternate without) sharing one deduper.
//
// All methods must be called from the single owner goroutine; the internal
// mutex only guards against accidental cross-goroutine use of the public
// surface.
type Terminal struct {
	mu sync.Mutex

	observer  Observer
	renderer  Renderer
	pty       Pty
	recording RecordingProvider
	keyMap    KeyMap
	scheme    ColorScheme

	dedupe *Deduper
	pri    *Buffer
	alt    *Buffer
	buffer *Buffer // the buffer in play, pri or alt

	modes ModeSet
	tabs  []bool

	decoder Decoder
	parser  *Parser

	writeBuffer []byte
	dumpWrites  bool

	dispatching bool
	childExited bool
	focused     bool

	pressed    bool
	button     MouseButton
	pointerPos Pos

	scrollOnTtyKeyPress bool
	scrollOnTtyOutput   bool
	scrollOnPaste       bool
	framesPerSecond     int
	historyLimit        int
	cutChars            string

	rows int
	cols int
}

// Option configures a Terminal during construction.
type Option func(*Terminal)

// WithSize sets the terminal dimensions. Values <= 0 fall back to 24x80.
func WithSize(rows, cols int) Option {
	if rows <= 0 {
		rows = DefaultRows
	}
	if cols <= 0 {
		cols = DefaultCols
	}
	return func(t *Terminal) {
		t.rows = rows
		t.cols = cols
	}
}

// WithObserver sets the handler for out-of-band events (title, bell,
// clipboard, child exit). Defaults to a no-op.
func WithObserver(o Observer) Option {
	return func(t *Terminal) {
		t.observer = o
	}
}

// WithRenderer sets the renderer frames are dispatched to after each Read.
// Defaults to a no-op; Redraw accepts an explicit renderer regardless.
func WithRenderer(r Renderer) Option {
	return func(t *Terminal) {
		t.renderer = r
	}
}

// WithPty connects the terminal to a pseudo-terminal. Defaults to a
// childless no-op pty.
func WithPty(p Pty) Option {
	return func(t *Terminal) {
		t.pty = p
	}
}

// WithRecording tees raw pty bytes into a recording before parsing.
func WithRecording(r RecordingProvider) Option {
	return func(t *Terminal) {
		t.recording = r
	}
}

// WithHistoryLimit bounds the primary buffer scroll-back in rows.
func WithHistoryLimit(limit int) Option {
	return func(t *Terminal) {
		if limit >= 0 {
			t.historyLimit = limit
		}
	}
}

// WithColorScheme selects one of the built-in palettes by name. Unknown
// names keep the default (solarized-dark).
func WithColorScheme(name string) Option {
	return func(t *Terminal) {
		if s, ok := LookupColorScheme(name); ok {
			t.scheme = s
		} else {
			Logger.Printf("no such color scheme: %q", name)
		}
	}
}

// WithCutChars sets the word-delimiter characters for double-click
// selection.
func WithCutChars(chars string) Option {
	return func(t *Terminal) {
		t.cutChars = chars
	}
}

// WithScrollOnKeyPress controls snapping to the bottom of history when a
// key is sent to the pty. Default on.
func WithScrollOnKeyPress(on bool) Option {
	return func(t *Terminal) {
		t.scrollOnTtyKeyPress = on
	}
}

// WithScrollOnTtyOutput controls snapping to the bottom when the child
// produces output. Default off.
func WithScrollOnTtyOutput(on bool) Option {
	return func(t *Terminal) {
		t.scrollOnTtyOutput = on
	}
}

// WithScrollOnPaste controls snapping to the bottom on paste. Default on.
func WithScrollOnPaste(on bool) Option {
	return func(t *Terminal) {
		t.scrollOnPaste = on
	}
}

// WithFramesPerSecond bounds the per-Read time budget. Default 50.
func WithFramesPerSecond(fps int) Option {
	return func(t *Terminal) {
		if fps > 0 {
			t.framesPerSecond = fps
		}
	}
}

// New creates a terminal with the given options.
func New(opts ...Option) *Terminal {
	t := &Terminal{
		observer:            NoopObserver{},
		renderer:            NoopRenderer{},
		pty:                 NoopPty{},
		recording:           NoopRecording{},
		rows:                DefaultRows,
		cols:                DefaultCols,
		historyLimit:        DefaultHistoryLimit,
		framesPerSecond:     DefaultFramesPerSecond,
		scrollOnTtyKeyPress: true,
		scrollOnPaste:       true,
		focused:             true,
	}
	t.scheme, _ = LookupColorScheme("solarized-dark")
	t.cutChars = DefaultCutChars

	for _, opt := range opts {
		opt(t)
	}

	t.dedupe = NewDeduper()
	t.pri = NewBuffer(t.rows, t.cols, t.historyLimit, t.dedupe)
	t.alt = NewBuffer(t.rows, t.cols, 0, t.dedupe)
	t.buffer = t.pri
	t.pri.SetCutChars(t.cutChars)
	t.alt.SetCutChars(t.cutChars)

	t.modes = defaultModes()
	t.resetTabs()
	t.parser = NewParser(t)
	return t
}

// Rows returns the terminal height in character rows.
func (t *Terminal) Rows() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rows
}

// Cols returns the terminal width in character columns.
func (t *Terminal) Cols() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cols
}

// CursorPos returns the cursor position in the active buffer (0-based).
func (t *Terminal) CursorPos() (row, col int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pos := t.buffer.CursorPos()
	return pos.Row, pos.Col
}

// HasMode returns true if the given mode flag is active.
func (t *Terminal) HasMode(mode Mode) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.modes.Has(mode)
}

// AltActive reports whether the alternate screen is in use.
func (t *Terminal) AltActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buffer == t.alt
}

// Scheme returns the configured color scheme.
func (t *Terminal) Scheme() ColorScheme {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scheme
}

// SetFocused records window focus, which affects how the cursor is drawn.
func (t *Terminal) SetFocused(focused bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.focused = focused
}

// Cell returns the cell at an active-region position.
func (t *Terminal) Cell(row, col int) Cell {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buffer.Cell(Pos{row, col})
}

// LineContent returns the text of an active row with trailing blanks
// trimmed.
func (t *Terminal) LineContent(row int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if row < 0 || row >= t.rows {
		return ""
	}
	cells, _, wrap := t.buffer.lineAtAbs(row)
	var sb strings.Builder
	for c := 0; c < wrap && c < len(cells); c++ {
		if cells[c].IsWideSpacer() {
			continue
		}
		sb.Write(cells[c].Seq.Bytes())
	}
	return strings.TrimRight(sb.String(), " ")
}

// GetSelectedText returns the current selection, if any.
func (t *Terminal) GetSelectedText() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buffer.GetSelectedText()
}

// --- Byte input (pty output) ---

// Write processes raw bytes from the child: UTF-8 decoding, escape
// parsing, buffer mutation. Implements io.Writer. Damage accumulates; it
// is not dispatched here.
func (t *Terminal) Write(data []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recording.Record(data)
	t.processRead(data)
	return len(data), nil
}

// WriteString converts the string to bytes and calls Write.
func (t *Terminal) WriteString(s string) (int, error) {
	return t.Write([]byte(s))
}

func (t *Terminal) processRead(data []byte) {
	for _, b := range data {
		switch t.decoder.Consume(b) {
		case DecodeAccept:
			t.parser.Consume(t.decoder.Seq(), t.decoder.Length())
		case DecodeReject:
			Logger.Printf("rejecting malformed UTF-8 prefix at byte %#02x", b)
			if t.decoder.Rescued() {
				t.parser.Consume(t.decoder.Seq(), t.decoder.Length())
			}
		}
	}
}

// Read drains the pty for at most one frame interval, feeding the decoder,
// then dispatches the accumulated damage to the configured renderer.
// A dead child makes Read a no-op after the one-shot ChildExited event.
func (t *Terminal) Read() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dispatching {
		Logger.Print("nested Read ignored")
		return
	}
	if t.childExited {
		return
	}

	t.dispatching = true
	deadline := time.Now().Add(time.Second / time.Duration(t.framesPerSecond))
	buf := make([]byte, readBufSize)
	for {
		n, err := t.pty.Read(buf)
		if n > 0 {
			t.recording.Record(buf[:n])
			t.processRead(buf[:n])
		}
		if err != nil {
			if err != ErrWouldBlock {
				t.childExited = true
				t.dumpWrites = true
				t.writeBuffer = nil
				status := -1
				if exited, ok := err.(ExitedError); ok {
					status = exited.Status
				}
				t.observer.ChildExited(status)
			}
			break
		}
		if time.Now().After(deadline) {
			break
		}
	}
	t.dispatching = false

	t.fixDamage(damagerTTY)
}

// --- Byte output (writing to the pty) ---

// NeedsFlush reports whether queued bytes are waiting for the pty to
// become writable.
func (t *Terminal) NeedsFlush() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.writeBuffer) > 0
}

// Flush retries the queued writes. On a fatal pty error the terminal
// enters dump mode and discards all future writes.
func (t *Terminal) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dispatching {
		Logger.Print("Flush during dispatch ignored")
		return
	}
	for len(t.writeBuffer) > 0 {
		n, err := t.pty.Write(t.writeBuffer)
		t.writeBuffer = t.writeBuffer[n:]
		if err == ErrWouldBlock {
			return
		}
		if err != nil {
			t.dumpWrites = true
			t.writeBuffer = nil
			return
		}
	}
}

// writePty sends bytes to the child, queueing whatever does not fit.
func (t *Terminal) writePty(data []byte) {
	if t.dumpWrites {
		return
	}
	if len(t.writeBuffer) > 0 {
		// The pipe was full last time; keep ordering by queueing.
		t.writeBuffer = append(t.writeBuffer, data...)
		return
	}
	for len(data) > 0 {
		n, err := t.pty.Write(data)
		data = data[n:]
		if err == ErrWouldBlock {
			t.writeBuffer = append(t.writeBuffer, data...)
			return
		}
		if err != nil {
			t.dumpWrites = true
			t.writeBuffer = nil
			return
		}
	}
}

// --- Keyboard ---

// KeyPress handles one key: bindings first (history scrolling, clipboard,
// debug dump), then translation to pty bytes.
func (t *Terminal) KeyPress(sym Keysym, mods ModifierSet) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.handleKeyBinding(sym, mods) {
		return
	}
	if t.modes.Has(ModeKbdLock) {
		return
	}

	if t.scrollOnTtyKeyPress && t.buffer.ScrollBottomHistory() {
		t.fixDamage(damagerScroll)
	}

	out, ok := t.keyMap.Convert(sym, mods, convertOptions{
		appKeypad:      t.modes.Has(ModeAppKeypad),
		appCursor:      t.modes.Has(ModeAppCursor),
		crOnLf:         t.modes.Has(ModeCROnLF),
		deleteSendsDel: t.modes.Has(ModeDeleteSendsDel),
		altSendsEsc:    t.modes.Has(ModeAltSendsEsc),
	})
	if ok {
		t.writePty(out)
	}
}

func (t *Terminal) handleKeyBinding(sym Keysym, mods ModifierSet) bool {
	if mods.Has(ModShift) && mods.Has(ModControl) {
		switch sym {
		case 'X', 'x':
			if text, ok := t.buffer.GetSelectedText(); ok {
				t.observer.Copy(text, false)
			}
			return true
		case 'C', 'c':
			if text, ok := t.buffer.GetSelectedText(); ok {
				t.observer.Copy(text, true)
			}
			return true
		case 'V', 'v':
			t.observer.Paste(true)
			return true
		}
	}

	if mods.Has(ModShift) && !mods.Has(ModControl) {
		switch sym {
		case KeyUp:
			t.scrollHistory(t.buffer.ScrollUpHistory(1))
			return true
		case KeyDown:
			t.scrollHistory(t.buffer.ScrollDownHistory(1))
			return true
		case KeyPageUp:
			t.scrollHistory(t.buffer.ScrollUpHistory(t.rows))
			return true
		case KeyPageDown:
			t.scrollHistory(t.buffer.ScrollDownHistory(t.rows))
			return true
		case KeyHome:
			t.scrollHistory(t.buffer.ScrollTopHistory())
			return true
		case KeyEnd:
			t.scrollHistory(t.buffer.ScrollBottomHistory())
			return true
		case KeyF9:
			Logger.Print("\n" + t.snapshotLocked(SnapshotFull))
			return true
		}
	}

	return false
}

func (t *Terminal) scrollHistory(changed bool) {
	if changed {
		t.fixDamage(damagerScroll)
	}
}

// --- Mouse ---

// ButtonPress handles a pointer press at a viewport position. count is
// the click multiplicity (1 click, 2 double, 3 triple).
func (t *Terminal) ButtonPress(button MouseButton, count int, mods ModifierSet, pos Pos) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mouseReporting() {
		num := int(button)
		num += mouseModifiers(mods)
		t.sendMouseReport(num, pos, false)
	} else {
		switch button {
		case ButtonLeft:
			if count <= 1 {
				t.buffer.MarkSelection(pos)
			} else {
				level := clamp(count, ExpandChar, ExpandLine)
				t.buffer.ExpandSelection(pos, level)
				if text, ok := t.buffer.GetSelectedText(); ok {
					t.observer.Copy(text, false)
				}
			}
			t.fixDamage(damagerScroll)
		case ButtonMiddle:
			t.observer.Paste(false)
		case ButtonRight:
			t.buffer.AdjustSelection(pos)
			t.fixDamage(damagerScroll)
		}
	}

	t.pressed = true
	t.button = button
	t.pointerPos = pos
}

// ButtonMotion handles pointer drag. within reports whether the pointer
// is still inside the window.
func (t *Terminal) ButtonMotion(mods ModifierSet, within bool, pos Pos) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.pressed {
		return
	}

	if t.modes.Has(ModeMouseMotion) {
		if within {
			num := int(t.button) + 32
			num += mouseModifiers(mods)
			t.sendMouseReport(num, pos, false)
		}
	} else if !t.modes.Has(ModeMouseButton) {
		if t.button == ButtonLeft {
			t.buffer.DelimitSelection(pos, true)
			t.fixDamage(damagerScroll)
		}
	}

	t.pointerPos = pos
}

// ButtonRelease completes a press: a mouse report or a selection copy to
// the primary selection.
func (t *Terminal) ButtonRelease(mods ModifierSet) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.pressed {
		return
	}

	if t.mouseReporting() {
		num := 3 // legacy release code
		if t.modes.Has(ModeMouseSGR) {
			num = int(t.button)
		}
		num += mouseModifiers(mods)
		t.sendMouseReport(num, t.pointerPos, true)
	} else if text, ok := t.buffer.GetSelectedText(); ok {
		t.observer.Copy(text, false)
	}

	t.pressed = false
}

// ScrollWheel scrolls the viewport through history by a quarter screen.
func (t *Terminal) ScrollWheel(dir ScrollDir) {
	t.mu.Lock()
	defer t.mu.Unlock()
	step := max(1, t.rows/4)
	switch dir {
	case ScrollUp:
		t.scrollHistory(t.buffer.ScrollUpHistory(step))
	case ScrollDown:
		t.scrollHistory(t.buffer.ScrollDownHistory(step))
	}
}

func (t *Terminal) mouseReporting() bool {
	return t.modes.Has(ModeMouseButton) || t.modes.Has(ModeMouseMotion)
}

func mouseModifiers(mods ModifierSet) int {
	n := 0
	if mods.Has(ModShift) {
		n += 4
	}
	if mods.Has(ModAlt) {
		n += 8
	}
	if mods.Has(ModControl) {
		n += 16
	}
	return n
}

// sendMouseReport emits either an SGR or a legacy report. Legacy reports
// cannot express coordinates >= 223 and are dropped.
func (t *Terminal) sendMouseReport(num int, pos Pos, release bool) {
	if t.modes.Has(ModeMouseSGR) {
		final := byte('M')
		if release {
			final = 'm'
		}
		t.writePty([]byte(csif("<%d;%d;%d%c", num, pos.Col+1, pos.Row+1, final)))
		return
	}
	if pos.Row >= 223 || pos.Col >= 223 {
		return
	}
	t.writePty([]byte{ctrlESC, '[', 'M', byte(32 + num), byte(32 + pos.Col + 1), byte(32 + pos.Row + 1)})
}

// --- Paste ---

// Paste sends pasted bytes to the child, wrapped in bracketed paste
// markers when that mode is on.
func (t *Terminal) Paste(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.scrollOnPaste && t.buffer.ScrollBottomHistory() {
		t.fixDamage(damagerScroll)
	}

	if t.modes.Has(ModeBracketedPaste) {
		t.writePty([]byte("\x1b[200~"))
		t.writePty(data)
		t.writePty([]byte("\x1b[201~"))
		return
	}
	t.writePty(data)
}

// --- Resize ---

// Resize changes the geometry of both buffers: the primary reflows its
// content, the alternate clips. Geometry below 1x1 is a caller bug.
func (t *Terminal) Resize(rows, cols int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resizeLocked(rows, cols)
}

func (t *Terminal) resizeLocked(rows, cols int) {
	if rows < 1 || cols < 1 {
		panic("terminol: resize to zero")
	}

	t.pri.ResizeReflow(rows, cols)
	t.alt.ResizeClip(rows, cols)
	t.rows = rows
	t.cols = cols
	t.resetTabs()
	t.pty.Resize(rows, cols)
}

func (t *Terminal) resetTabs() {
	t.tabs = make([]bool, t.cols)
	for i := tabSize; i < t.cols; i += tabSize {
		t.tabs[i] = true
	}
}

// --- Searching ---

// BeginSearch starts a scroll-back search for a regular expression and
// jumps to the most recent match.
func (t *Terminal) BeginSearch(pattern string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buffer.BeginSearch(pattern)
	if t.buffer.NextSearch() {
		t.fixDamage(damagerScroll)
	}
}

// SearchNext moves to the next match away from the bottom.
func (t *Terminal) SearchNext() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buffer.NextSearch() {
		t.fixDamage(damagerScroll)
	}
}

// SearchPrev moves back toward the bottom.
func (t *Terminal) SearchPrev() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buffer.PrevSearch() {
		t.fixDamage(damagerScroll)
	}
}

// EndSearch abandons the search.
func (t *Terminal) EndSearch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buffer.EndSearch()
}

// --- Rendering ---

// Redraw dispatches a full frame to the renderer, ignoring accumulated
// damage (exposure redraw).
func (t *Terminal) Redraw(r Renderer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	saved := t.renderer
	t.renderer = r
	t.fixDamage(damagerExposure)
	t.renderer = saved
}

// fixDamage draws a frame with the configured renderer. TTY frames consult
// per-row damage and reset it afterwards; scroll and exposure frames
// redraw everything.
func (t *Terminal) fixDamage(d damager) {
	if d == damagerTTY && t.scrollOnTtyOutput && t.buffer.ScrollBottomHistory() {
		d = damagerScroll
	}

	if !t.renderer.FixDamageBegin() {
		// Not ready: skip the frame, damage stays accumulated.
		return
	}

	scrollbar := d == damagerScroll || d == damagerExposure ||
		(d == damagerTTY && t.buffer.BarDamage())

	t.dispatching = true
	opts := dispatchOptions{
		reverse:    t.modes.Has(ModeReverse),
		showCursor: t.modes.Has(ModeShowCursor),
		focused:    t.focused,
		full:       d != damagerTTY,
		scrollbar:  scrollbar,
	}
	damaged := t.buffer.dispatch(t.renderer, opts)
	t.renderer.FixDamageEnd(damaged, scrollbar)

	if d == damagerTTY {
		t.buffer.ResetDamage()
	}
	t.dispatching = false
}

// csif formats a CSI sequence: ESC [ + the formatted body.
func csif(format string, args ...interface{}) string {
	return "\x1b[" + fmt.Sprintf(format, args...)
}
