package canvas

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// toWinAnsi converts UTF-8 text to the Windows-1252 bytes expected by the
// PDF core fonts. Runes outside the code page become '?'.
func toWinAnsi(s string) string {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}

	buf := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		buf = append(buf, b)
	}
	return string(buf)
}
