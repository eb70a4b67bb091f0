package intcode

import (
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestBufferIO(t *testing.T) {
	b := NewBufferIO(1, 2)
	b.Push(3)
	if g := b.Pending(); g != 3 {
		t.Errorf("Pending() = %d, want 3", g)
	}
	for _, w := range []int64{1, 2, 3} {
		if v, err := b.Read(); err != nil || v != w {
			t.Errorf("Read() = %d, %v; want %d", v, err, w)
		}
	}
	if _, err := b.Read(); err != io.EOF {
		t.Errorf("Read() on empty queue returned %v, want io.EOF", err)
	}
	b.Write(4)
	b.Write(-5)
	if g, w := b.Output(), []int64{4, -5}; !reflect.DeepEqual(g, w) {
		t.Errorf("Output() = %v, want %v", g, w)
	}
}

func TestSlotIO(t *testing.T) {
	var s SlotIO
	if s.ClearRead() || s.ClearWrite() {
		t.Fatal("new SlotIO reports activity")
	}
	s.Set(7)
	if v, _ := s.Read(); v != 7 {
		t.Errorf("Read() = %d, want 7", v)
	}
	if !s.ClearRead() || s.ClearRead() {
		t.Errorf("ClearRead does not report a single read")
	}
	s.Write(9)
	if !s.ClearWrite() || s.ClearWrite() {
		t.Errorf("ClearWrite does not report a single write")
	}
	if g := s.Get(); g != 9 {
		t.Errorf("Get() = %d, want 9", g)
	}
}

// A hull painting robot: each turn the program reads the colour under
// the robot and writes a colour and a turn direction.
func TestSlotIODriver(t *testing.T) {
	prog := Memory{
		3, 100, // in @100
		1001, 100, 10, 100, // @100 += 10
		4, 100, // out @100
		104, 1, // out #1
		1105, 1, 0, // jmp 0
	}
	prog.Extend(101)
	var slot SlotIO
	m := NewMachine(&slot, prog)
	step := func(done func() bool) {
		t.Helper()
		for !done() {
			if ok, err := m.Step(); err != nil || !ok {
				t.Fatalf("Step returned %v, %v", ok, err)
			}
		}
	}
	for turn := int64(0); turn < 3; turn++ {
		slot.Set(turn)
		step(slot.ClearRead)
		step(slot.ClearWrite)
		if g := slot.Get(); g != turn+10 {
			t.Errorf("turn %d: colour %d, want %d", turn, g, turn+10)
		}
		step(slot.ClearWrite)
		if g := slot.Get(); g != 1 {
			t.Errorf("turn %d: direction %d, want 1", turn, g)
		}
	}
}

func TestStepIO(t *testing.T) {
	var s StepIO
	if _, err := s.Read(); err != ReadPending {
		t.Errorf("Read() on empty slot returned %v, want %v", err, ReadPending)
	}
	s.Feed(1)
	s.Feed(2)
	if v, err := s.Read(); err != nil || v != 2 {
		t.Errorf("Read() = %d, %v; want 2", v, err)
	}
	if _, err := s.Read(); err != ReadPending {
		t.Errorf("second Read() returned %v, want %v", err, ReadPending)
	}
	if _, ok := s.Take(); ok {
		t.Errorf("Take() on empty slot succeeded")
	}
	if err := s.Write(3); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(4); err != WritePending {
		t.Errorf("Write() on full slot returned %v, want %v", err, WritePending)
	}
	if v, ok := s.Take(); !ok || v != 3 {
		t.Errorf("Take() = %d, %v; want 3, true", v, ok)
	}
}

func TestTerminalIO(t *testing.T) {
	var out strings.Builder
	term := NewTerminalIO(strings.NewReader("5\n -12 \n42"), &out)
	term.Prompt = "> "
	for _, w := range []int64{5, -12, 42} {
		v, err := term.Read()
		if err != nil || v != w {
			t.Errorf("Read() = %d, %v; want %d", v, err, w)
		}
	}
	if _, err := term.Read(); err != io.EOF {
		t.Errorf("Read() at end returned %v, want io.EOF", err)
	}
	term.Write(1219070632396864)
	if g, w := out.String(), "> > > > 1219070632396864\n"; g != w {
		t.Errorf("output is %q, want %q", g, w)
	}

	term = NewTerminalIO(strings.NewReader("abc\n"), &out)
	if _, err := term.Read(); err == nil {
		t.Errorf("Read() of non-integer succeeded")
	}
}

func TestASCIIIO(t *testing.T) {
	var out strings.Builder
	a := NewASCIIIO(strings.NewReader("NOT A J\r\nWALK"), &out)
	var got []byte
	for {
		v, err := a.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, byte(v))
	}
	if g, w := string(got), "NOT A J\nWALK\n"; g != w {
		t.Errorf("read %q, want %q", g, w)
	}
	for _, v := range []int64{'H', 'i', '\n', 19350938} {
		a.Write(v)
	}
	if g, w := out.String(), "Hi\n\n19350938\n"; g != w {
		t.Errorf("output is %q, want %q", g, w)
	}
}

func TestASCIIMachine(t *testing.T) {
	// Echo one line back, then halt once the newline is seen.
	prog := Memory{
		3, 100, // 0: in @100
		4, 100, // 2: out @100
		1008, 100, 10, 101, // 4: @101 = @100 == '\n'
		1006, 101, 0, // 8: jz @101, 0
		99, // 11
	}
	prog.Extend(102)
	var out strings.Builder
	m := NewMachine(NewASCIIIO(strings.NewReader("hello\nworld\n"), &out), prog)
	if err := m.Run(); err != nil {
		t.Fatal(err)
	}
	if g, w := out.String(), "hello\n"; g != w {
		t.Errorf("output is %q, want %q", g, w)
	}
}
