package shquote

// u8len returns the byte length of the UTF-8 sequence starting s, or -1 if
// it is invalid. Continuation-lead bytes, overlong encodings, surrogates,
// and codepoints above U+10FFFF are all rejected, so every byte a shell
// could choke on gets escaped instead of copied.
func u8len(s string) int {
	c := s[0]
	switch {
	case c < 0x80:
		return 1
	case c < 0xc2:
		// continuation byte or overlong 2-byte lead
		return -1
	case c < 0xe0:
		return contLen(s, 2)
	case c < 0xf0:
		if len(s) > 1 {
			if c == 0xe0 && s[1]&0xe0 == 0x80 { // overlong
				return -1
			}
			if c == 0xed && s[1]&0xe0 == 0xa0 { // surrogate
				return -1
			}
		}
		return contLen(s, 3)
	case c < 0xf5:
		if len(s) > 1 {
			if c == 0xf0 && s[1]&0xf0 == 0x80 { // overlong
				return -1
			}
			if c == 0xf4 && s[1] > 0x8f { // above U+10FFFF
				return -1
			}
		}
		return contLen(s, 4)
	}
	return -1
}

func contLen(s string, n int) int {
	if len(s) < n {
		return -1
	}
	for i := 1; i < n; i++ {
		if s[i]&0xc0 != 0x80 {
			return -1
		}
	}
	return n
}
