package intcode

import (
	"errors"
	"fmt"
)

// ErrHalted is returned by Process methods when the program halts
// before reaching the requested input or output.
var ErrHalted = errors.New("program halted")

// SequenceError is returned by Process methods when the program
// suspends for the opposite operation to the one requested, for example
// when Output is called while the program waits for input.
type SequenceError struct {
	Want, Got Suspension
	Addr      int64
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("program suspended with %v at %d, want %v", e.Got, e.Addr, e.Want)
}

// Process runs a program as a subroutine: each call to Input or Output
// steps the Machine until it reaches the matching I/O instruction.
// The caller must call them in the order the program performs input
// and output.
type Process struct {
	M  *Machine
	io StepIO
}

// NewProcess returns a Process executing mem.
func NewProcess(mem Memory) *Process {
	p := &Process{}
	p.M = NewMachine(&p.io, mem)
	return p
}

// Halted reports whether the program has halted.
func (p *Process) Halted() bool { return p.M.State() == Halted }

// Input runs the program until it reads, and supplies v to that read.
func (p *Process) Input(v int64) error {
	if err := p.until(ReadPending); err != nil {
		return err
	}
	p.io.Feed(v)
	_, err := p.M.Step()
	return err
}

// Output runs the program until it writes, and returns the value
// written.
func (p *Process) Output() (int64, error) {
	for {
		if v, ok := p.io.Take(); ok {
			return v, nil
		}
		ok, err := p.M.Step()
		if err != nil {
			if s, suspended := Suspended(err); suspended {
				return 0, &SequenceError{Want: WritePending, Got: s, Addr: p.M.IP}
			}
			return 0, err
		}
		if !ok {
			return 0, ErrHalted
		}
	}
}

// Run runs the program until it halts, returning any values it writes.
// It fails with a SequenceError if the program waits for input.
func (p *Process) Run() ([]int64, error) {
	var out []int64
	for {
		v, err := p.Output()
		if err == ErrHalted {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}

// until steps the program until it suspends with want.
func (p *Process) until(want Suspension) error {
	for {
		ok, err := p.M.Step()
		if err != nil {
			s, suspended := Suspended(err)
			if !suspended {
				return err
			}
			if s != want {
				return &SequenceError{Want: want, Got: s, Addr: p.M.IP}
			}
			return nil
		}
		if !ok {
			return ErrHalted
		}
	}
}
