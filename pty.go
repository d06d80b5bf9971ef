//go:build !windows

package terminol

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// ProcessPty runs a child process behind a real pseudo-terminal and
// exposes it through the Pty interface. The descriptor is non-blocking;
// the event loop is expected to select on Fd for readiness.
type ProcessPty struct {
	file   *os.File
	cmd    *exec.Cmd
	exited bool
	status int
}

// StartProcessPty spawns the command on a new pty of the given size. TERM
// is set for the child.
func StartProcessPty(name string, args []string, rows, cols int) (*ProcessPty, error) {
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	file, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, err
	}

	if err := unix.SetNonblock(int(file.Fd()), true); err != nil {
		file.Close()
		cmd.Process.Kill()
		return nil, err
	}

	return &ProcessPty{file: file, cmd: cmd}, nil
}

// Fd returns the master descriptor for readiness polling.
func (p *ProcessPty) Fd() int {
	return int(p.file.Fd())
}

// Read pulls pending child output. A closed pty (child gone) reaps the
// child and reports ExitedError once; later calls repeat it.
func (p *ProcessPty) Read(buf []byte) (int, error) {
	if p.exited {
		return 0, ExitedError{Status: p.status}
	}
	n, err := unix.Read(p.Fd(), buf)
	if n > 0 {
		return n, nil
	}
	if err == unix.EAGAIN {
		return 0, ErrWouldBlock
	}
	// EOF or EIO: the slave side is gone.
	p.exited = true
	p.status = p.reap()
	return 0, ExitedError{Status: p.status}
}

// Write pushes bytes toward the child without blocking.
func (p *ProcessPty) Write(buf []byte) (int, error) {
	if p.exited {
		return 0, ExitedError{Status: p.status}
	}
	n, err := unix.Write(p.Fd(), buf)
	if n < 0 {
		n = 0
	}
	if err == unix.EAGAIN {
		return n, ErrWouldBlock
	}
	return n, err
}

// Resize propagates a new window size to the child.
func (p *ProcessPty) Resize(rows, cols int) error {
	return pty.Setsize(p.file, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
}

// Close tears the pty down, killing the child if it is still running.
func (p *ProcessPty) Close() error {
	if !p.exited {
		p.cmd.Process.Kill()
		p.reap()
		p.exited = true
	}
	return p.file.Close()
}

func (p *ProcessPty) reap() int {
	err := p.cmd.Wait()
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			return ws.ExitStatus()
		}
	}
	return -1
}

var _ Pty = (*ProcessPty)(nil)
