// Package terminol implements the core of a VT-compatible terminal emulator.
//
// The package consumes the byte stream produced by a pseudo-terminal child
// process, interprets it as ECMA-48 / DEC VT / xterm control sequences, and
// maintains the logical screen state: a cell grid with a reflow-capable,
// deduplicated scroll-back history. User input (keys, mouse, selection,
// paste) is encoded and written back to the pty. Drawing is expressed as a
// stream of primitives against an abstract Renderer, driven by per-row
// damage tracking so redraws stay minimal.
//
// The core is single-threaded and cooperative: one owner goroutine drives
// Read, Flush and Redraw. Windowing, fonts, clipboard transport and pty
// spawning live outside the package; only their interfaces (Pty, Renderer,
// Observer) appear here, together with ready-made adapters (ProcessPty,
// TcellRenderer).
//
// Basic usage:
//
//	term := terminol.New(
//		terminol.WithSize(24, 80),
//		terminol.WithObserver(obs),
//	)
//	term.Write(ptyOutput) // parse escape sequences, update the grid
//	term.Redraw(renderer) // emit draw calls for the whole viewport
package terminol
