package intcode

import (
	"fmt"
	"strconv"
	"strings"
)

// Memory is the flat, zero-indexed memory of an IntCode machine.
type Memory []int64

// ParseMemory parses a program written as comma-separated decimal
// integers. Whitespace around the text and around each value is ignored.
func ParseMemory(text string) (Memory, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Memory{}, nil
	}
	fields := strings.Split(text, ",")
	m := make(Memory, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, &ParseError{Index: i, Token: f, Err: err}
		}
		m[i] = v
	}
	return m, nil
}

// Extend grows m to exactly capacity cells, zeroing the new cells.
// It does nothing if m already holds at least capacity cells.
func (m *Memory) Extend(capacity int) {
	if n := len(*m); n < capacity {
		*m = append(*m, make(Memory, capacity-n)...)
	}
}

// Clone returns a copy of m that shares no storage with it.
func (m Memory) Clone() Memory {
	return append(Memory(nil), m...)
}

// Load returns the value at addr.
func (m Memory) Load(addr int64) (int64, error) {
	if addr < 0 || addr >= int64(len(m)) {
		return 0, outOfBounds(addr)
	}
	return m[addr], nil
}

// Store sets the value at addr.
func (m Memory) Store(addr, v int64) error {
	if addr < 0 || addr >= int64(len(m)) {
		return outOfBounds(addr)
	}
	m[addr] = v
	return nil
}

func (m Memory) String() string {
	var b strings.Builder
	for i, v := range m {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(v, 10))
	}
	return b.String()
}

// ParseError is returned by ParseMemory for a value that is not a
// decimal integer.
type ParseError struct {
	Index int // position of the value in the program
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing value %d (%q): %v", e.Index, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
