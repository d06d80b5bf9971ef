package terminol

import (
	"io"
	"log"
)

// Logger receives diagnostics for conditions the emulator tolerates but does
// not act on: rejected UTF-8, unknown escape finals, clamped parameters.
// It is silent by default; point it at os.Stderr to trace a misbehaving
// application.
var Logger = log.New(io.Discard, "terminol: ", 0)
