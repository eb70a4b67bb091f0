package intcode

import "io"

// BufferIO reads from a queue of input values and records every output.
// Read returns io.EOF once the queue is empty.
type BufferIO struct {
	in  []int64
	out []int64
}

// NewBufferIO returns a BufferIO that reads the given values in order.
func NewBufferIO(input ...int64) *BufferIO {
	return &BufferIO{in: append([]int64(nil), input...)}
}

// Push appends values to the input queue.
func (b *BufferIO) Push(v ...int64) { b.in = append(b.in, v...) }

// Pending returns the number of unread input values.
func (b *BufferIO) Pending() int { return len(b.in) }

// Output returns the values written so far.
func (b *BufferIO) Output() []int64 { return b.out }

func (b *BufferIO) Read() (int64, error) {
	if len(b.in) == 0 {
		return 0, io.EOF
	}
	v := b.in[0]
	b.in = b.in[1:]
	return v, nil
}

func (b *BufferIO) Write(v int64) error {
	b.out = append(b.out, v)
	return nil
}

// SlotIO holds a single value shared by Read and Write. It never blocks
// or fails; instead a driver steps the Machine and polls ClearRead and
// ClearWrite to learn when the slot was consumed or filled.
//
// A single SlotIO may be shared by several machines driven from one
// goroutine.
type SlotIO struct {
	v       int64
	read    bool
	written bool
}

// Set stores v in the slot for the next Read.
func (s *SlotIO) Set(v int64) { s.v = v }

// Get returns the value in the slot.
func (s *SlotIO) Get() int64 { return s.v }

// ClearRead reports whether the slot was read since the last call.
func (s *SlotIO) ClearRead() bool {
	r := s.read
	s.read = false
	return r
}

// ClearWrite reports whether the slot was written since the last call.
func (s *SlotIO) ClearWrite() bool {
	w := s.written
	s.written = false
	return w
}

func (s *SlotIO) Read() (int64, error) {
	s.read = true
	return s.v, nil
}

func (s *SlotIO) Write(v int64) error {
	s.v = v
	s.written = true
	return nil
}

// StepIO is a single-slot IO that suspends the Machine instead of
// blocking: Read returns ReadPending until a value is fed, and Write
// returns WritePending while the previous output is still untaken.
type StepIO struct {
	in, out       int64
	hasIn, hasOut bool
}

// Feed loads v for the next Read, replacing any value not yet read.
func (s *StepIO) Feed(v int64) {
	s.in, s.hasIn = v, true
}

// Take removes and returns the pending output, if any.
func (s *StepIO) Take() (int64, bool) {
	if !s.hasOut {
		return 0, false
	}
	s.hasOut = false
	return s.out, true
}

func (s *StepIO) Read() (int64, error) {
	if !s.hasIn {
		return 0, ReadPending
	}
	s.hasIn = false
	return s.in, nil
}

func (s *StepIO) Write(v int64) error {
	if s.hasOut {
		return WritePending
	}
	s.out, s.hasOut = v, true
	return nil
}
