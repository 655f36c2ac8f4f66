package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS control bytes
const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

// Align is a line justification.
type Align byte

const (
	Left   Align = 0
	Center Align = 1
	Right  Align = 2
)

// Size is a character magnification (GS !).
type Size byte

const (
	Normal Size = 0x00
	Double Size = 0x11
	Wide   Size = 0x10
	Tall   Size = 0x01
)

// Widths in characters of the common paper rolls.
const (
	Width58mm = 32
	Width80mm = 48
)

// Ticket accumulates an ESC/POS job. Layout helpers measure text in runes
// so accented product names keep their columns.
type Ticket struct {
	buf   bytes.Buffer
	width int
}

// NewTicket starts a job for a roll that fits width characters per line.
func NewTicket(width int) *Ticket {
	if width <= 0 {
		width = Width58mm
	}
	t := &Ticket{width: width}
	t.buf.Write([]byte{esc, '@'})
	return t
}

// Width returns the characters per line.
func (t *Ticket) Width() int { return t.width }

func (t *Ticket) Align(a Align) *Ticket {
	t.buf.Write([]byte{esc, 'a', byte(a)})
	return t
}

func (t *Ticket) Bold(on bool) *Ticket {
	var b byte
	if on {
		b = 1
	}
	t.buf.Write([]byte{esc, 'E', b})
	return t
}

func (t *Ticket) Size(s Size) *Ticket {
	t.buf.Write([]byte{gs, '!', byte(s)})
	return t
}

// Line writes s and ends the line. Text wider than the roll is wrapped.
func (t *Ticket) Line(s string) *Ticket {
	for _, part := range Wrap(s, t.width) {
		t.buf.WriteString(part)
		t.buf.WriteByte(lf)
	}
	return t
}

func (t *Ticket) Linef(format string, args ...interface{}) *Ticket {
	return t.Line(fmt.Sprintf(format, args...))
}

func (t *Ticket) Feed(n int) *Ticket {
	for i := 0; i < n; i++ {
		t.buf.WriteByte(lf)
	}
	return t
}

func (t *Ticket) Rule(ch rune) *Ticket {
	t.buf.WriteString(strings.Repeat(string(ch), t.width))
	t.buf.WriteByte(lf)
	return t
}

// Pair prints label flush left and value flush right on one line.
func (t *Ticket) Pair(label, value string) *Ticket {
	t.buf.WriteString(Columns(label, value, t.width))
	t.buf.WriteByte(lf)
	return t
}

// Item prints "qty x name" with the amount right aligned. Long names are
// truncated so the amount stays on the same line.
func (t *Ticket) Item(qty int, name, amount string) *Ticket {
	left := fmt.Sprintf("%dx %s", qty, name)
	room := t.width - utf8.RuneCountInString(amount) - 1
	left = Truncate(left, room)
	return t.Pair(left, amount)
}

func (t *Ticket) Cut() *Ticket {
	t.buf.Write([]byte{gs, 'V', 0x01})
	return t
}

// Bytes returns the job accumulated so far.
func (t *Ticket) Bytes() []byte {
	return t.buf.Bytes()
}

// Columns joins left and right padded to width with at least one space.
func Columns(left, right string, width int) string {
	gap := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Wrap splits s into lines of at most width runes, breaking on spaces
// where possible.
func Wrap(s string, width int) []string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return []string{s}
	}
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
