package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/intcode/intcode"
)

type debugger struct {
	code  *tview.TextView
	watch *tview.TextView
	log   *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	cmds chan command
	done chan bool // closed when loop returns

	// interrupt stops a running step or continue command; quit also
	// stops it, and is never cleared.
	interrupt, quit atomic.Bool

	mu      sync.Mutex
	breaks  map[int64]bool
	watches []int64
}

type cmdKind byte

const (
	cmdStep cmdKind = iota
	cmdContinue
	cmdBreak
	cmdWatch
	cmdPause
	cmdExit
)

type command struct {
	kind cmdKind
	n    int   // number of steps
	addr int64 // break or watch address
}

var commandNames = []string{"b", "break", "c", "continue", "exit", "p", "pause", "s", "step", "w", "watch"}

func parseCommand(s string) (command, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(s), " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "s", "step":
		c := command{kind: cmdStep, n: 1}
		if arg != "" {
			n, err := strconv.Atoi(arg)
			if err != nil || n < 1 {
				return command{}, fmt.Errorf("invalid step count %q", arg)
			}
			c.n = n
		}
		return c, nil
	case "c", "continue":
		return command{kind: cmdContinue}, nil
	case "p", "pause":
		return command{kind: cmdPause}, nil
	case "exit":
		return command{kind: cmdExit}, nil
	case "b", "break", "w", "watch":
		addr, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || addr < 0 {
			return command{}, fmt.Errorf("invalid address %q", arg)
		}
		if name[0] == 'b' {
			return command{kind: cmdBreak, addr: addr}, nil
		}
		return command{kind: cmdWatch, addr: addr}, nil
	}
	return command{}, fmt.Errorf("unknown command %q", name)
}

func newDebugger() *debugger {
	d := &debugger{
		code: tview.NewTextView().
			SetWrap(false),
		watch: tview.NewTextView().
			SetWrap(false).
			SetTextAlign(tview.AlignRight),
		log: tview.NewTextView().
			SetMaxLines(1000),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app:    tview.NewApplication(),
		cmds:   make(chan command),
		done:   make(chan bool),
		breaks: make(map[int64]bool),
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.watch.SetBackgroundColor(tcell.ColorDarkBlue)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.code, 0, 2, false).
		AddItem(d.watch, 0, 1, false).
		AddItem(d.log, 0, 2, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 1, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetAutocompleteFunc(func(t string) (entries []string) {
		if t == "" || strings.Contains(t, " ") {
			return nil
		}
		for _, name := range commandNames {
			if strings.HasPrefix(name, t) {
				entries = append(entries, name)
			}
		}
		return
	})
	d.input.SetAutocompletedFunc(func(t string, index, src int) bool {
		if src != tview.AutocompletedNavigate {
			d.input.SetText(t)
		}
		return src == tview.AutocompletedEnter || src == tview.AutocompletedClick
	})
	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := d.input.GetText()
		if text == "" {
			return
		}
		d.input.SetText("")
		c, err := parseCommand(text)
		if err != nil {
			log.Print(err)
			return
		}
		switch c.kind {
		case cmdExit:
			d.quit.Store(true)
			d.app.Stop()
		case cmdPause:
			d.interrupt.Store(true)
		case cmdBreak:
			d.mu.Lock()
			set := !d.breaks[c.addr]
			if set {
				d.breaks[c.addr] = true
			} else {
				delete(d.breaks, c.addr)
			}
			d.mu.Unlock()
			if set {
				log.Printf("set break %d", c.addr)
			} else {
				log.Printf("cleared break %d", c.addr)
			}
		case cmdWatch:
			d.mu.Lock()
			d.watches = append(d.watches, c.addr)
			d.mu.Unlock()
			log.Printf("watching %d", c.addr)
		default:
			// Dropped if the machine is still busy with the last one.
			d.interrupt.Store(false)
			select {
			case d.cmds <- c:
			default:
				log.Print("busy")
			}
		}
	})
	return d
}

// loop executes m in response to step and continue commands,
// updating the views after each one. It returns when cmds is closed.
func (d *debugger) loop(m *intcode.Machine) {
	defer close(d.done)
	d.refresh(m)
	for c := range d.cmds {
		n := c.n
		if c.kind == cmdContinue {
			n = -1
		}
		d.exec(m, n)
		if d.quit.Load() {
			continue
		}
		d.refresh(m)
	}
}

// exec steps m n times, or until a breakpoint if n is negative. It
// stops early if interrupted.
func (d *debugger) exec(m *intcode.Machine, n int) {
	for i := 0; n < 0 || i < n; i++ {
		if d.quit.Load() {
			return
		}
		if d.interrupt.Load() {
			log.Printf("paused at %d", m.IP)
			return
		}
		ok, err := m.Step()
		if err != nil {
			log.Printf("error: %v", err)
			return
		}
		if !ok {
			log.Printf("halted after %d steps", m.Steps())
			return
		}
		if n < 0 && d.isBreak(m.IP) {
			log.Printf("break at %d", m.IP)
			return
		}
	}
}

func (d *debugger) isBreak(addr int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.breaks[addr]
}

func (d *debugger) refresh(m *intcode.Machine) {
	var (
		code  = listing(m, 32)
		watch = d.watchContent(m)
		state = stateMsg(m)
		st    = m.State()
	)
	d.app.QueueUpdateDraw(func() {
		switch st {
		case intcode.Running:
			d.state.SetTextColor(tcell.ColorBlack)
			d.state.SetBackgroundColor(tcell.ColorDarkGrey)
		case intcode.Halted:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case intcode.Failed:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkRed)
		}
		d.code.SetText(code)
		d.watch.SetText(watch)
		d.state.SetText(state)
	})
}

func (d *debugger) watchContent(m *intcode.Machine) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	brks := make([]int64, 0, len(d.breaks))
	for a := range d.breaks {
		brks = append(brks, a)
	}
	sort.Slice(brks, func(i, j int) bool { return brks[i] < brks[j] })
	for _, a := range brks {
		fmt.Fprintf(&b, "[%d] brk!\n", a)
	}
	for _, a := range d.watches {
		if v, err := m.Mem.Load(a); err != nil {
			fmt.Fprintf(&b, "[%d] -\n", a)
		} else {
			fmt.Fprintf(&b, "[%d] %d\n", a, v)
		}
	}
	return b.String()
}

func stateMsg(m *intcode.Machine) string {
	return fmt.Sprintf("ip %d  bp %d  steps %d  %s", m.IP, m.BP, m.Steps(), m.State())
}

// listing disassembles up to n instructions starting at m.IP.
func listing(m *intcode.Machine, n int) string {
	var b strings.Builder
	for i, l := range intcode.Disassemble(m.Mem, m.IP, n) {
		mark := "  "
		if i == 0 {
			mark = "> "
		}
		b.WriteString(mark + l + "\n")
	}
	return b.String()
}

// logIO traces the values a program reads and writes.
type logIO struct {
	intcode.IO
}

func (l logIO) Read() (int64, error) {
	v, err := l.IO.Read()
	if err == nil {
		log.Printf("in: %d", v)
	}
	return v, err
}

func (l logIO) Write(v int64) error {
	log.Printf("out: %d", v)
	return l.IO.Write(v)
}

// debugMode runs the program in file under the debugger. Input comes
// from the configured input values whatever the mode.
func debugMode(file string, cfg config) error {
	mem, err := loadProgram(file, cfg)
	if err != nil {
		return err
	}
	buf := intcode.NewBufferIO(cfg.Input...)
	m := intcode.NewMachine(logIO{buf}, mem)

	d := newDebugger()
	log.SetPrefix("")
	log.SetOutput(d.log)
	go d.loop(m)
	err = d.app.Run()
	d.quit.Store(true)
	close(d.cmds)
	<-d.done
	log.SetOutput(os.Stderr)
	log.SetPrefix("intcode: ")
	if out := buf.Output(); len(out) > 0 {
		fmt.Println(intcode.Memory(out))
	}
	return err
}
