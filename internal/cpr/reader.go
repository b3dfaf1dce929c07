package cpr

import (
	"os"

	"github.com/termquery-dev/termquery/internal/alarm"
)

const (
	// replyBufSize bounds the bytes accepted while hunting for the reply;
	// the write cursor stops one byte short of it.
	replyBufSize = 100

	// maxReads bounds the number of read iterations. Terminals that keep
	// streaming input without ever producing a reply must not hold the
	// program hostage.
	maxReads = 20
)

// awaitReport reads from in until a complete CPR reply appears in the
// accumulated buffer, the alarm fires, the iteration budget runs out, or the
// read fails. A fired alarm wins over everything else, including a reply
// that arrived in the same iteration.
func awaitReport(in *os.File, a *alarm.Alarm) (Position, error) {
	buf := make([]byte, replyBufSize)
	filled := 0
	for loops := maxReads; loops > 0; loops-- {
		free := buf[filled : replyBufSize-1]
		if len(free) == 0 {
			break
		}
		n, err := in.Read(free)
		if n > 0 {
			filled += n
			// A partial match is left in place: the next read may
			// complete it.
			if pos, ok := scanReport(buf[:filled]); ok {
				if a.Fired() {
					return Position{}, ErrTimedOut
				}
				return pos, nil
			}
		}
		if err != nil || n <= 0 {
			if a.Fired() {
				return Position{}, ErrTimedOut
			}
			return Position{}, fail(ErrNoReply, err)
		}
	}
	if a.Fired() {
		return Position{}, ErrTimedOut
	}
	return Position{}, ErrNoReply
}
