package term

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

const esc = 0x1b

// Decode turns raw terminal input into key messages. Control bytes map onto
// the tea.KeyType of the same value, CSI and SS3 sequences onto navigation
// keys, and an ESC followed by anything else onto an Alt-modified key.
// Sequences that are not recognized are dropped.
func Decode(b []byte) []tea.KeyMsg {
	var keys []tea.KeyMsg
	for len(b) > 0 {
		key, n := decodeOne(b)
		b = b[n:]
		if key != nil {
			keys = append(keys, *key)
		}
	}
	return keys
}

func decodeOne(b []byte) (*tea.KeyMsg, int) {
	c := b[0]
	switch {
	case c == esc:
		return decodeEscape(b)
	case c == ' ':
		return &tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, 1
	case c < 0x20 || c == 0x7f:
		// ctrl+c, tab, enter, backspace... share their byte value
		return &tea.KeyMsg{Type: tea.KeyType(c)}, 1
	}

	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return nil, 1
	}
	return &tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, size
}

func decodeEscape(b []byte) (*tea.KeyMsg, int) {
	if len(b) == 1 {
		return &tea.KeyMsg{Type: tea.KeyEsc}, 1
	}

	switch b[1] {
	case '[':
		return decodeCSI(b)
	case 'O':
		if len(b) < 3 {
			return &tea.KeyMsg{Type: tea.KeyEsc}, 2
		}
		if t, ok := finals[b[2]]; ok {
			return &tea.KeyMsg{Type: t}, 3
		}
		return nil, 3
	case esc:
		return &tea.KeyMsg{Type: tea.KeyEsc}, 1
	}

	// alt+key
	key, n := decodeOne(b[1:])
	if key == nil {
		return nil, 1 + n
	}
	key.Alt = true
	return key, 1 + n
}

// finals maps the final byte of a CSI or SS3 sequence without parameters.
var finals = map[byte]tea.KeyType{
	'A': tea.KeyUp,
	'B': tea.KeyDown,
	'C': tea.KeyRight,
	'D': tea.KeyLeft,
	'H': tea.KeyHome,
	'F': tea.KeyEnd,
	'Z': tea.KeyShiftTab,
}

// tildes maps the parameter of a "CSI n ~" sequence.
var tildes = map[string]tea.KeyType{
	"1": tea.KeyHome,
	"2": tea.KeyInsert,
	"3": tea.KeyDelete,
	"4": tea.KeyEnd,
	"5": tea.KeyPgUp,
	"6": tea.KeyPgDown,
	"7": tea.KeyHome,
	"8": tea.KeyEnd,
}

func decodeCSI(b []byte) (*tea.KeyMsg, int) {
	// ESC [ params... final, final in 0x40..0x7e
	i := 2
	for i < len(b) && (b[i] < 0x40 || b[i] > 0x7e) {
		i++
	}
	if i == len(b) {
		// truncated sequence
		return nil, len(b)
	}

	params := string(b[2:i])
	final := b[i]
	n := i + 1

	if final == '~' {
		// a modifier may follow the key number: "5;3~"
		if semi := strings.IndexByte(params, ';'); semi >= 0 {
			params = params[:semi]
		}
		if t, ok := tildes[params]; ok {
			return &tea.KeyMsg{Type: t}, n
		}
		return nil, n
	}

	if t, ok := finals[final]; ok {
		return &tea.KeyMsg{Type: t}, n
	}
	return nil, n
}
