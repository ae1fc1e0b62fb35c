package jsdata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// unquote decodes a single- or double-quoted JavaScript string literal.
func unquote(lit string) (string, error) {
	if len(lit) < 2 {
		return "", errors.New("truncated string literal")
	}
	quote := lit[0]
	if (quote != '"' && quote != '\'') || lit[len(lit)-1] != quote {
		return "", fmt.Errorf("bad string literal %s", lit)
	}
	body := lit[1 : len(lit)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", errors.New("trailing backslash in string literal")
		}
		switch c = body[i]; c {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case 'x':
			if i+2 >= len(body) {
				return "", errors.New("short \\x escape")
			}
			n, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("bad \\x escape: %w", err)
			}
			b.WriteRune(rune(n))
			i += 2
		case 'u':
			r, width, err := decodeUnicodeEscape(body[i+1:])
			if err != nil {
				return "", err
			}
			i += width
			// Surrogate pairs arrive as two consecutive \u escapes.
			if utf16.IsSurrogate(r) && strings.HasPrefix(body[i+1:], `\u`) {
				if r2, w2, err := decodeUnicodeEscape(body[i+3:]); err == nil {
					if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
						r = dec
						i += 2 + w2
					}
				}
			}
			b.WriteRune(r)
		default:
			// \' \" \\ \/ and any other character stand for themselves.
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// decodeUnicodeEscape decodes the part after `\u`: either four hex digits or
// a braced code point. It returns the rune and the number of bytes consumed.
func decodeUnicodeEscape(s string) (rune, int, error) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return 0, 0, errors.New("unterminated \\u{ escape")
		}
		n, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || n > utf8.MaxRune {
			return 0, 0, fmt.Errorf("bad \\u{%s} escape", s[1:end])
		}
		return rune(n), end + 1, nil
	}
	if len(s) < 4 {
		return 0, 0, errors.New("short \\u escape")
	}
	n, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("bad \\u escape: %w", err)
	}
	return rune(n), 4, nil
}
