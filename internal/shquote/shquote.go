// Package shquote renders strings safe for reuse as shell input.
//
// Strings that need no quoting pass through verbatim. Shell metacharacters
// push a string into single quotes; control bytes, DEL, single quotes, and
// invalid UTF-8 push it into $'...' dollar quoting, whose escapes survive
// dumb copy-paste better than a raw byte would. Strictly POSIX shells lack
// dollar quoting, so callers can cap the escalation at single quoting.
package shquote

import (
	"fmt"
	"strings"
)

type escLevel int

const (
	escNone escLevel = iota
	escSingle
	escDollar
)

// metachars are the bytes the shell gives meaning to outside quotes. A
// string containing any of them needs at least single quoting.
const metachars = "`^#*[]=|\\?${}()\"<>&;~ "

// Quote returns s quoted for safe reuse as shell input. When allowDollar is
// false, dollar-single quoting degrades to plain single quoting and control
// bytes are carried raw.
func Quote(s string, allowDollar bool) string {
	limit := escSingle
	if allowDollar {
		limit = escDollar
	}

	esc := escNone
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c < 32 || c == '\'' || c == 0x7f:
			esc = limit
		case strings.IndexByte(metachars, c) >= 0:
			// Bias towards single quoting; keep scanning in case a
			// later byte forces dollar quoting.
			esc = escSingle
			if limit > escSingle {
				i++
				continue
			}
		default:
			l := u8len(s[i:])
			if l < 0 {
				esc = limit
				break
			}
			i += l
			continue
		}
		break
	}

	switch esc {
	case escSingle:
		return singleQuote(s)
	case escDollar:
		return dollarQuote(s)
	}
	return s
}

// Join quotes each argument and joins them with single spaces.
func Join(args []string, allowDollar bool) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = Quote(a, allowDollar)
	}
	return strings.Join(quoted, " ")
}

func singleQuote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			b.WriteString(`'\''`)
		} else {
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func dollarQuote(s string) string {
	var b strings.Builder
	b.WriteString("$'")
	for i := 0; i < len(s); {
		c := s[i]
		switch c {
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case 0x1b:
			b.WriteString(`\e`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\v':
			b.WriteString(`\v`)
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		default:
			if l := u8len(s[i:]); c >= 32 && c != 0x7f && l > 0 {
				b.WriteString(s[i : i+l])
				i += l
				continue
			}
			fmt.Fprintf(&b, `\%03o`, c)
		}
		i++
	}
	b.WriteByte('\'')
	return b.String()
}
