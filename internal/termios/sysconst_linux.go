//go:build linux

package termios

import "golang.org/x/sys/unix"

const (
	ioctlGetAttr = unix.TCGETS
	ioctlSetAttr = unix.TCSETS
)

func flushInput(fd int) error {
	return unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH)
}
