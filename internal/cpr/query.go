// Package cpr queries a terminal for its cursor position with the ECMA-48
// Cursor Position Report sequence.
//
// The exchange runs with the terminal in a quiet noncanonical mode so the
// reply is neither echoed nor line-buffered, and a one-shot alarm bounds the
// wait for terminals that never answer. Whatever happens, the original
// terminal settings are restored before control returns to the caller.
package cpr

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/termquery-dev/termquery/internal/alarm"
	"github.com/termquery-dev/termquery/internal/termios"
)

const (
	// request is the CPR query, ESC [ 6 n.
	request = "\x1b[6n"

	defaultTimeout = 250 * time.Millisecond
)

// settingsGuard is the slice of termios.Guard the query needs.
type settingsGuard interface {
	SetRaw() error
	Restore() error
}

// Seams for the tests, which run the full exchange over pipe pairs.
var (
	isTerminal = term.IsTerminal
	newGuard   = func(fd int) (settingsGuard, error) { return termios.Save(fd) }
	flushInput = termios.FlushInput
	openWriter = dupWriter
)

// Options configure a Query. The zero value selects the defaults.
type Options struct {
	// Timeout bounds how long the terminal gets to answer the query.
	// Defaults to 250ms.
	Timeout time.Duration
}

// Query asks the terminal on in for its cursor position and returns the
// 1-based row and column it reports. The terminal's attribute set is
// restored before Query returns, on every path; a failed restoration is
// logged but never displaces the primary error.
func Query(in *os.File, opts Options) (Position, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	fd := int(in.Fd())
	if !isTerminal(fd) {
		return Position{}, ErrNotATty
	}

	guard, err := newGuard(fd)
	if err != nil {
		return Position{}, fail(ErrAttrRead, err)
	}
	defer func() {
		if rerr := guard.Restore(); rerr != nil {
			log.Warn("could not restore the terminal settings", "err", rerr)
		}
	}()

	if err := guard.SetRaw(); err != nil {
		return Position{}, fail(ErrAttrWrite, err)
	}
	if err := flushInput(fd); err != nil {
		return Position{}, fail(ErrFlush, err)
	}
	if err := sendRequest(in); err != nil {
		return Position{}, err
	}

	rd, done, err := reopenReader(in)
	if err != nil {
		return Position{}, fail(ErrReopen, err)
	}
	defer done()

	// Without deadline support the alarm would have nothing to unstick
	// the read with, and a mute terminal could hang us forever.
	if err := rd.SetReadDeadline(time.Time{}); err != nil {
		return Position{}, fail(ErrTimerSetup, err)
	}

	a := alarm.Set(timeout, func() {
		// Timer goroutine: nothing happens here beyond the deadline
		// poke that unsticks the blocked read.
		_ = rd.SetReadDeadline(time.Now())
	})
	pos, err := awaitReport(rd, a)
	a.Stop()
	if err != nil {
		return Position{}, err
	}
	if !pos.Valid() {
		return Position{}, ErrNoPosition
	}
	return pos, nil
}

// sendRequest writes the CPR query over its own descriptor so the read side
// stays free to keep consuming input after the write completes.
func sendRequest(in *os.File) error {
	out, err := openWriter(in)
	if err != nil {
		return err
	}
	if n, werr := out.WriteString(request); werr != nil || n != len(request) {
		out.Close()
		return fail(ErrWrite, werr)
	}
	if err := out.Close(); err != nil {
		return fail(ErrWriteClose, err)
	}
	return nil
}

func dupWriter(in *os.File) (*os.File, error) {
	fd, err := unix.Dup(int(in.Fd()))
	if err != nil {
		return nil, fail(ErrDup, err)
	}
	return os.NewFile(uintptr(fd), in.Name()), nil
}

// reopenReader re-wraps the input descriptor so reads can carry a deadline;
// the runtime only registers nonblocking descriptors with its poller. The
// nonblocking flag lives on the shared open file description, so the
// returned cleanup puts it back before the program exits.
func reopenReader(in *os.File) (*os.File, func(), error) {
	orig := int(in.Fd())
	if err := unix.SetNonblock(orig, true); err != nil {
		return nil, nil, err
	}
	fd, err := unix.Dup(orig)
	if err != nil {
		_ = unix.SetNonblock(orig, false)
		return nil, nil, err
	}
	f := os.NewFile(uintptr(fd), in.Name())
	cleanup := func() {
		_ = f.Close()
		_ = unix.SetNonblock(orig, false)
	}
	return f, cleanup, nil
}
