//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package termios

import "golang.org/x/sys/unix"

const (
	ioctlGetAttr = unix.TIOCGETA
	ioctlSetAttr = unix.TIOCSETA
)

func flushInput(fd int) error {
	return unix.IoctlSetPointerInt(fd, unix.TIOCFLUSH, unix.FREAD)
}
