package cpr

import "bytes"

const esc = 0x1b

// Position is a cursor row/column pair as reported by the terminal,
// 1-based.
type Position struct {
	Row, Col int
}

// Valid reports whether both coordinates are plausible. Terminals number
// rows and columns from 1; a zero in either field means the reply cannot be
// trusted.
func (p Position) Valid() bool {
	return p.Row >= 1 && p.Col >= 1
}

// scanReport scans buf for a complete ECMA-48 CPR reply, ESC [ row ; col R.
// Terminals may interleave other escape sequences with the reply, so a
// candidate that stops matching is abandoned and scanning resumes at the
// next ESC byte. The returned position is syntactically complete but not
// necessarily plausible; callers check Valid separately.
func scanReport(buf []byte) (Position, bool) {
	for i := bytes.IndexByte(buf, esc); i >= 0; {
		if pos, ok := matchReport(buf[i:]); ok {
			return pos, true
		}
		next := bytes.IndexByte(buf[i+1:], esc)
		if next < 0 {
			break
		}
		i += 1 + next
	}
	return Position{}, false
}

// matchReport attempts to match a full CPR reply anchored at b[0], which the
// caller guarantees is ESC.
func matchReport(b []byte) (Position, bool) {
	if len(b) < 2 || b[1] != '[' {
		return Position{}, false
	}
	row, i, ok := takeNumber(b, 2)
	if !ok || i >= len(b) || b[i] != ';' {
		return Position{}, false
	}
	col, i, ok := takeNumber(b, i+1)
	if !ok || i >= len(b) || b[i] != 'R' {
		return Position{}, false
	}
	return Position{Row: row, Col: col}, true
}

// takeNumber consumes a run of ASCII digits starting at b[start].
func takeNumber(b []byte, start int) (n, end int, ok bool) {
	i := start
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		n = n*10 + int(b[i]-'0')
		i++
	}
	return n, i, i > start
}
