//go:build linux

package consoletype

import (
	"unsafe"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// Unix98 pty slaves sit on majors 136-143; major 3 is the legacy BSD pty
// range.
const (
	ptyMajorLow  = 136
	ptyMajorHigh = 143
	bsdPtyMajor  = 3

	// TIOCL_GETFGCONSOLE
	tioclGetFgConsole = 12
)

// classifyDevice falls back to the device major number and, for the
// remaining candidates, a TIOCLINUX probe: only a Linux virtual console
// answers it.
func classifyDevice(fd int) Type {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		log.Debug("could not stat the terminal", "fd", fd, "err", err)
		return Unknown
	}
	maj := unix.Major(uint64(st.Rdev))
	if maj == bsdPtyMajor || (maj >= ptyMajorLow && maj <= ptyMajorHigh) {
		return PTY
	}
	arg := byte(tioclGetFgConsole)
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), unix.TIOCLINUX, uintptr(unsafe.Pointer(&arg))); errno != 0 {
		return Serial
	}
	return VT
}
