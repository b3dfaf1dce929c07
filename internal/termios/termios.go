// Package termios saves, modifies, and restores the attribute set of a
// terminal device.
package termios

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// ioctl entry points, replaceable in tests.
var (
	getAttr = unix.IoctlGetTermios
	setAttr = unix.IoctlSetTermios
	flush   = flushInput
)

// Guard holds the attribute set captured from a terminal so it can be
// restored later. The captured snapshot is never modified.
type Guard struct {
	fd       int
	saved    unix.Termios
	restored bool
}

// Save captures the current attributes of the terminal on fd.
func Save(fd int) (*Guard, error) {
	state, err := getAttr(fd, ioctlGetAttr)
	if err != nil {
		return nil, fmt.Errorf("reading terminal attributes: %w", err)
	}
	return &Guard{fd: fd, saved: *state}, nil
}

// SetRaw derives a modified attribute set from the saved snapshot and
// applies it: echo off, noncanonical mode, and a read that blocks for the
// first byte but waits at most one decisecond between subsequent bytes.
func (g *Guard) SetRaw() error {
	raw := g.saved
	raw.Lflag &^= unix.ECHO | unix.ECHOE | unix.ECHOK | unix.ECHONL
	raw.Lflag &^= unix.ICANON
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 1
	if err := setAttr(g.fd, ioctlSetAttr, &raw); err != nil {
		return fmt.Errorf("writing terminal attributes: %w", err)
	}
	return nil
}

// Restore re-applies the attributes captured by Save. Only the first call
// makes an attempt; later calls are no-ops.
func (g *Guard) Restore() error {
	if g.restored {
		return nil
	}
	g.restored = true
	if err := setAttr(g.fd, ioctlSetAttr, &g.saved); err != nil {
		return fmt.Errorf("restoring terminal attributes: %w", err)
	}
	return nil
}

// FlushInput discards any input already queued on fd.
func FlushInput(fd int) error {
	if err := flush(fd); err != nil {
		return fmt.Errorf("flushing terminal input: %w", err)
	}
	return nil
}
