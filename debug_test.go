package main

import (
	"strings"
	"testing"

	"github.com/nf/intcode/intcode"
)

func TestParseCommand(t *testing.T) {
	for _, c := range []struct {
		in   string
		want command
		ok   bool
	}{
		{"s", command{kind: cmdStep, n: 1}, true},
		{"step 10", command{kind: cmdStep, n: 10}, true},
		{"step 0", command{}, false},
		{"s x", command{}, false},
		{"c", command{kind: cmdContinue}, true},
		{"continue", command{kind: cmdContinue}, true},
		{"b 12", command{kind: cmdBreak, addr: 12}, true},
		{"break -1", command{}, false},
		{"w 100", command{kind: cmdWatch, addr: 100}, true},
		{"watch", command{}, false},
		{" exit ", command{kind: cmdExit}, true},
		{"p", command{kind: cmdPause}, true},
		{"pause", command{kind: cmdPause}, true},
		{"jump 3", command{}, false},
	} {
		got, err := parseCommand(c.in)
		if (err == nil) != c.ok {
			t.Errorf("parseCommand(%q) error = %v, want ok %v", c.in, err, c.ok)
			continue
		}
		if got != c.want {
			t.Errorf("parseCommand(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

// count adds 1 to @9 forever.
var count = intcode.Memory{
	1001, 9, 1, 9, // 0: @9 = @9 + #1
	1105, 1, 0, // 4: jmp 0
	99, 99, // 7
	0, // 9
}

func TestDebuggerExec(t *testing.T) {
	d := &debugger{breaks: map[int64]bool{4: true}}
	m := intcode.NewMachine(intcode.NewBufferIO(), count.Clone())

	d.exec(m, 3)
	if m.Steps() != 3 || m.Mem[9] != 2 {
		t.Errorf("after 3 steps: steps %d, @9 = %d; want 3, 2", m.Steps(), m.Mem[9])
	}

	d.exec(m, -1)
	if m.IP != 4 || m.Mem[9] != 3 {
		t.Errorf("after continue: ip %d, @9 = %d; want 4, 3", m.IP, m.Mem[9])
	}

	m = intcode.NewMachine(intcode.NewBufferIO(), intcode.Memory{1101, 1, 1, 5, 99, 0})
	d.exec(m, -1)
	if m.State() != intcode.Halted {
		t.Errorf("after continue: state %v, want halted", m.State())
	}
}

func TestDebuggerInterrupt(t *testing.T) {
	d := &debugger{breaks: map[int64]bool{}}
	m := intcode.NewMachine(intcode.NewBufferIO(), count.Clone())

	d.interrupt.Store(true)
	d.exec(m, -1)
	if m.Steps() != 0 {
		t.Errorf("interrupted continue ran %d steps, want 0", m.Steps())
	}

	d.interrupt.Store(false)
	d.exec(m, 2)
	d.quit.Store(true)
	d.exec(m, -1)
	if m.Steps() != 2 {
		t.Errorf("continue after quit ran to %d steps, want 2", m.Steps())
	}
}

func TestDebuggerLoopReturns(t *testing.T) {
	d := newDebugger()
	m := intcode.NewMachine(intcode.NewBufferIO(), count.Clone())
	go d.loop(m)
	d.cmds <- command{kind: cmdStep, n: 3}
	d.quit.Store(true)
	close(d.cmds)
	<-d.done
	if m.Steps() > 3 {
		t.Errorf("machine ran %d steps, want at most 3", m.Steps())
	}
}

func TestListing(t *testing.T) {
	m := intcode.NewMachine(nil, count.Clone())
	m.IP = 4
	got := listing(m, 3)
	want := "" +
		">     4  JNZ #1, #0\n" +
		"      7  HLT\n" +
		"      8  HLT\n"
	if got != want {
		t.Errorf("listing:\n%s\nwant:\n%s", got, want)
	}

	m.IP = 9
	if got, want := listing(m, 5), ">     9  DATA 0\n"; got != want {
		t.Errorf("listing of data = %q, want %q", got, want)
	}
}

func TestWatchContent(t *testing.T) {
	d := &debugger{
		breaks:  map[int64]bool{7: true, 0: true},
		watches: []int64{9, 50},
	}
	m := intcode.NewMachine(nil, count.Clone())
	got := d.watchContent(m)
	want := "[0] brk!\n[7] brk!\n[9] 0\n[50] -\n"
	if got != want {
		t.Errorf("watchContent = %q, want %q", got, want)
	}
	if s := stateMsg(m); !strings.Contains(s, "ip 0") || !strings.Contains(s, "running") {
		t.Errorf("stateMsg = %q", s)
	}
}
