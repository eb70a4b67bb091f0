// Package intcode provides an implementation of the IntCode computer,
// called Machine, that can be used to execute IntCode programs.
package intcode

import (
	"fmt"
)

// Machine is an implementation of an IntCode computer.
type Machine struct {
	Mem Memory
	IP  int64 // instruction pointer
	BP  int64 // base pointer for relative mode parameters
	IO  IO

	state State
	err   error
	steps int
}

// IO connects a Machine to the outside world. Read supplies the value
// for an Input instruction and Write receives the value of an Output
// instruction.
//
// An IO may return a Suspension to indicate that the operation cannot
// complete yet; the Machine then leaves the instruction unexecuted so
// that the next Step retries it.
type IO interface {
	Read() (int64, error)
	Write(v int64) error
}

// State is the execution state of a Machine.
type State byte

const (
	Running State = iota
	Halted
	Failed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", byte(s))
}

// NewMachine returns a Machine that executes mem from address 0 and
// performs I/O through io. The Machine owns mem until it halts.
func NewMachine(io IO, mem Memory) *Machine {
	return &Machine{Mem: mem, IO: io}
}

// State reports the execution state of m.
func (m *Machine) State() State { return m.state }

// Steps reports the number of instructions executed so far.
func (m *Machine) Steps() int { return m.steps }

// Run executes instructions until the program halts or an error occurs.
func (m *Machine) Run() error {
	for {
		ok, err := m.Step()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

// Step executes the instruction at m.IP. It reports whether there are
// more instructions to execute, which is false only once the program
// has executed Halt.
//
// Any error leaves IP, BP and memory as they were before the step. An
// error that is not a Suspension is final: the Machine enters the
// Failed state and every later Step returns the same error.
func (m *Machine) Step() (ok bool, err error) {
	switch m.state {
	case Halted:
		return false, nil
	case Failed:
		return false, m.err
	}
	ok, err = m.exec()
	if err != nil {
		if _, suspended := Suspended(err); !suspended {
			m.state, m.err = Failed, err
		}
		return false, err
	}
	m.steps++
	if !ok {
		m.state = Halted
	}
	return ok, nil
}

// fault is raised by the helpers used by exec and turned into an
// *Error once the failing instruction is known.
type fault struct {
	*Error
}

func (m *Machine) exec() (ok bool, err error) {
	in, err := Decode(m.Mem, m.IP)
	if err != nil {
		return false, err
	}
	defer func() {
		if e := recover(); e != nil {
			f, isFault := e.(fault)
			if !isFault {
				panic(e)
			}
			f.Op, f.Addr = in.Op, m.IP
			if f.Fault == IOFailure {
				if s, suspended := Suspended(f.Err); suspended {
					err = s
					return
				}
			}
			err = f.Error
		}
	}()

	p := in.Params
	next := m.IP + in.Len()

	switch in.Op {
	case Halt:
		return false, nil
	case Add:
		m.store(p[2], m.load(p[0])+m.load(p[1]))
	case Multiply:
		m.store(p[2], m.load(p[0])*m.load(p[1]))
	case LessThan:
		m.store(p[2], boolInt(m.load(p[0]) < m.load(p[1])))
	case Equals:
		m.store(p[2], boolInt(m.load(p[0]) == m.load(p[1])))
	case Input:
		// Check the destination first so that a bad address does not
		// consume a value.
		m.addr(p[0])
		v, err := m.IO.Read()
		if err != nil {
			panic(fault{&Error{Fault: IOFailure, Err: err}})
		}
		m.store(p[0], v)
	case Output:
		if err := m.IO.Write(m.load(p[0])); err != nil {
			panic(fault{&Error{Fault: IOFailure, Err: err}})
		}
	case JumpIfTrue, JumpIfFalse:
		if (m.load(p[0]) != 0) == (in.Op == JumpIfTrue) {
			next = m.load(p[1])
		}
	case AdjustBase:
		m.BP += m.load(p[0])
	default:
		panic(fmt.Errorf("internal error: %v not implemented", in.Op))
	}
	m.IP = next
	return true, nil
}

func (m *Machine) addr(p Param) int64 {
	a, ok := p.Addr(m.BP)
	if !ok {
		panic(fault{&Error{Fault: ImmediateAddress}})
	}
	if a < 0 || a >= int64(len(m.Mem)) {
		panic(fault{outOfBounds(a)})
	}
	return a
}

func (m *Machine) load(p Param) int64 {
	if p.Mode == Immediate {
		return p.Raw
	}
	return m.Mem[m.addr(p)]
}

func (m *Machine) store(p Param, v int64) {
	m.Mem[m.addr(p)] = v
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
