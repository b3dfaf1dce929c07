// Package consoletype tells virtual consoles, serial lines, and
// pseudo-terminals apart.
package consoletype

import (
	"fmt"
	"os"
	"strings"
)

// Type labels the kind of terminal a descriptor is attached to. The
// ordinals are part of the CLI contract: consoletype exits with the ordinal
// of the detected type.
type Type int

const (
	VT Type = iota
	Serial
	PTY
	Unknown
)

var typeNames = [...]string{"vt", "serial", "pty", "unknown"}

func (t Type) String() string {
	if t < VT || t > Unknown {
		return typeNames[Unknown]
	}
	return typeNames[t]
}

// ttyName resolves fd to its device path. Replaceable in tests.
var ttyName = func(fd int) string {
	name, err := os.Readlink(fmt.Sprintf("/proc/self/fd/%d", fd))
	if err != nil {
		return ""
	}
	return name
}

// Classify inspects the device name of the terminal on fd, falling back to
// its device numbers when the name is inconclusive.
func Classify(fd int) Type {
	if t := classifyName(ttyName(fd)); t != Unknown {
		return t
	}
	return classifyDevice(fd)
}

func classifyName(tty string) Type {
	name := strings.TrimPrefix(tty, "/dev/")
	switch {
	case name == "":
		return Unknown
	case strings.HasPrefix(name, "ttyS"), strings.HasPrefix(name, "cuaa"):
		return Serial
	case strings.HasPrefix(name, "pts/"), strings.HasPrefix(name, "ttyp"):
		return PTY
	case strings.HasPrefix(name, "tty"):
		return VT
	}
	return Unknown
}
