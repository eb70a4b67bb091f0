package intcode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TerminalIO exchanges values with a user as lines of decimal text.
type TerminalIO struct {
	r *bufio.Reader
	w io.Writer

	// Prompt, if non-empty, is written before each Read.
	Prompt string
}

// NewTerminalIO returns a TerminalIO reading from r and writing to w.
func NewTerminalIO(r io.Reader, w io.Writer) *TerminalIO {
	return &TerminalIO{r: bufio.NewReader(r), w: w}
}

func (t *TerminalIO) Read() (int64, error) {
	if t.Prompt != "" {
		if _, err := io.WriteString(t.w, t.Prompt); err != nil {
			return 0, err
		}
	}
	line, err := readLine(t.r)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("reading input: %w", err)
	}
	return v, nil
}

func (t *TerminalIO) Write(v int64) error {
	_, err := fmt.Fprintln(t.w, v)
	return err
}

// ASCIIIO exchanges text with a user one character at a time. Read
// reads a whole line and returns its bytes, newline included, one per
// call. Write prints values up to 128 as characters and anything else,
// such as a final answer, as a decimal line.
type ASCIIIO struct {
	r   *bufio.Reader
	w   io.Writer
	buf []byte
}

// NewASCIIIO returns an ASCIIIO reading from r and writing to w.
func NewASCIIIO(r io.Reader, w io.Writer) *ASCIIIO {
	return &ASCIIIO{r: bufio.NewReader(r), w: w}
}

func (a *ASCIIIO) Read() (int64, error) {
	if len(a.buf) == 0 {
		line, err := readLine(a.r)
		if err != nil {
			return 0, err
		}
		a.buf = append(a.buf, strings.TrimRight(line, "\r\n")...)
		a.buf = append(a.buf, '\n')
	}
	b := a.buf[0]
	a.buf = a.buf[1:]
	return int64(b), nil
}

func (a *ASCIIIO) Write(v int64) error {
	var err error
	if 0 <= v && v <= 128 {
		_, err = a.w.Write([]byte{byte(v)})
	} else {
		_, err = fmt.Fprintf(a.w, "\n%d\n", v)
	}
	return err
}

// readLine reads a line from r. A final line without a newline is
// returned without error; io.EOF is only returned when nothing is left.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return line, err
}
