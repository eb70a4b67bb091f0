package intcode

import (
	"errors"
	"fmt"
)

// Fault signifies the type of condition that stopped execution.
type Fault byte

const (
	OutOfBounds      Fault = 0x01
	InvalidOpcode    Fault = 0x02
	InvalidMode      Fault = 0x03
	ImmediateAddress Fault = 0x04 // store destination in immediate mode
	IOFailure        Fault = 0x05
)

func (f Fault) String() string {
	if s, ok := map[Fault]string{
		OutOfBounds:      "address out of bounds",
		InvalidOpcode:    "invalid opcode",
		InvalidMode:      "invalid parameter mode",
		ImmediateAddress: "immediate mode address",
		IOFailure:        "i/o failure",
	}[f]; ok {
		return s
	}
	return fmt.Sprintf("unknown (%.2x)", byte(f))
}

// Error is returned by Step and Run when an instruction cannot be
// executed. Addr is the address of the instruction, or -1 if the
// error did not arise while executing one.
type Error struct {
	Fault
	Op    Op
	Addr  int64
	Value int64 // offending address, opcode or mode
	Err   error // underlying I/O error, if any
}

func (e *Error) Error() string {
	var s string
	switch e.Fault {
	case OutOfBounds, InvalidOpcode, InvalidMode:
		s = fmt.Sprintf("%s %d", e.Fault, e.Value)
	case IOFailure:
		s = fmt.Sprintf("%s: %v", e.Fault, e.Err)
	default:
		s = e.Fault.String()
	}
	if e.Addr < 0 {
		return s
	}
	if e.Op.Valid() {
		return fmt.Sprintf("%s executing %s at %d", s, e.Op, e.Addr)
	}
	return fmt.Sprintf("%s at %d", s, e.Addr)
}

func (e *Error) Unwrap() error { return e.Err }

func outOfBounds(addr int64) *Error {
	return &Error{Fault: OutOfBounds, Addr: -1, Value: addr}
}

// Suspension is returned by an IO that cannot complete a Read or Write
// yet. It is not a failure: the instruction that observed it has not
// executed and runs again on the next Step.
type Suspension byte

const (
	ReadPending  Suspension = 0x01
	WritePending Suspension = 0x02
)

func (s Suspension) Error() string {
	switch s {
	case ReadPending:
		return "read pending"
	case WritePending:
		return "write pending"
	}
	return fmt.Sprintf("suspension (%.2x)", byte(s))
}

// Suspended reports whether err is a Suspension, and which.
func Suspended(err error) (Suspension, bool) {
	var s Suspension
	ok := errors.As(err, &s)
	return s, ok
}
