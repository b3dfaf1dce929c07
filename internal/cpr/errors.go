package cpr

import (
	"errors"
	"fmt"
)

// Every failure of a query resolves to exactly one of these. Syscall-level
// causes are flattened into the message so errors.Is still matches the kind.
var (
	ErrNotATty    = errors.New("cannot determine the cursor position because stdin is not a tty")
	ErrDup        = errors.New("failed to dup the tty for writing")
	ErrReopen     = errors.New("failed to re-open the tty for reading")
	ErrAttrRead   = errors.New("failed to obtain the current terminal settings")
	ErrAttrWrite  = errors.New("failed to modify the terminal settings")
	ErrFlush      = errors.New("failed to flush the terminal's input queue")
	ErrWrite      = errors.New("failed to write the CPR sequence to the terminal")
	ErrWriteClose = errors.New("failed to flush the tty after writing the CPR sequence")
	ErrTimerSetup = errors.New("failed to arrange the response timeout")
	ErrTimedOut   = errors.New("timed out waiting for the terminal to respond to CPR")
	ErrNoReply    = errors.New("gave up waiting for a CPR reply from the terminal")
	ErrNoPosition = errors.New("failed to read the cursor position")
)

func fail(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %v", kind, cause)
}
