package fdl

import (
	"io"
	"os"
	"unicode/utf8"
)

// ProbeSize is the number of leading bytes inspected by IsEncodable.
const ProbeSize = 1024

// IsEncodable reports whether the file at path looks like UTF-8 text. Only the
// first ProbeSize bytes are decoded; a file that cannot be opened or read is
// not encodable.
func IsEncodable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, ProbeSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false
	}

	return ProbeBytes(buf[:n], n == ProbeSize)
}

// ProbeBytes reports whether head decodes as UTF-8. When truncated is true,
// head was cut at the probe limit and an incomplete rune at its end is
// tolerated.
func ProbeBytes(head []byte, truncated bool) bool {
	if truncated {
		head = trimPartialRune(head)
	}
	return utf8.Valid(head)
}

// trimPartialRune drops a multi-byte sequence that was cut off at the end of b.
func trimPartialRune(b []byte) []byte {
	// a rune is at most utf8.UTFMax bytes, so only the tail needs checking
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if utf8.RuneStart(c) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			return b
		}
	}
	return b
}
