// Command intcode runs IntCode programs.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"

	"github.com/nf/intcode/display"
	"github.com/nf/intcode/intcode"
)

func main() {
	log.SetPrefix("intcode: ")
	log.SetFlags(0)

	var (
		fv         flagValues
		configFlag = flag.String("config", "", "read settings from TOML `file`; flags override it")
	)
	fv.register(flag.CommandLine)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <program.txt | ->\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}

	cfg := defaultConfig()
	if f := *configFlag; f != "" {
		if err := cfg.load(f); err != nil {
			log.Fatal(err)
		}
	}
	if err := fv.override(flag.CommandLine, &cfg); err != nil {
		log.Fatal(err)
	}
	if err := cfg.validate(); err != nil {
		log.Fatal(err)
	}

	file := flag.Arg(0)
	var err error
	switch {
	case cfg.Watch:
		if file == "-" {
			log.Fatal("cannot watch standard input")
		}
		err = watchMode(file, cfg)
	case cfg.Debug:
		err = debugMode(file, cfg)
	default:
		err = runFile(file, cfg)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// loadProgram reads and prepares the program in file, or standard input
// if file is "-".
func loadProgram(file string, cfg config) (intcode.Memory, error) {
	var (
		b   []byte
		err error
	)
	if file == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, err
	}
	mem, err := intcode.ParseMemory(string(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return cfg.prepare(mem)
}

func runFile(file string, cfg config) error {
	mem, err := loadProgram(file, cfg)
	if err != nil {
		return err
	}
	var stdin io.Reader = os.Stdin
	if file == "-" {
		stdin = eofReader{}
	}
	return run(mem, cfg, stdin, os.Stdout)
}

// run executes mem with the I/O selected by cfg.Mode.
func run(mem intcode.Memory, cfg config, stdin io.Reader, stdout io.Writer) error {
	var (
		m      *intcode.Machine
		screen *display.Screen
		buf    *intcode.BufferIO
	)
	switch cfg.Mode {
	case "buffer":
		buf = intcode.NewBufferIO(cfg.Input...)
		m = intcode.NewMachine(buf, mem)
	case "terminal":
		t := intcode.NewTerminalIO(stdin, stdout)
		t.Prompt = "> "
		m = intcode.NewMachine(t, mem)
	case "ascii":
		m = intcode.NewMachine(intcode.NewASCIIIO(stdin, stdout), mem)
	case "screen", "gui":
		screen = display.New()
		m = intcode.NewMachine(screen, mem)
	default:
		return fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	var err error
	if cfg.Mode == "gui" {
		err = display.RunGUI(screen, !cfg.Autopilot, m.Run)
	} else {
		err = m.Run()
	}

	if buf != nil && len(buf.Output()) > 0 {
		fmt.Fprintln(stdout, intcode.Memory(buf.Output()))
	}
	if screen != nil {
		fmt.Fprint(stdout, screen)
		if cfg.PNG != "" {
			if perr := writePNG(cfg.PNG, screen); perr != nil && err == nil {
				err = perr
			}
		}
	}
	if err != nil {
		return err
	}
	if len(m.Mem) > 0 {
		log.Printf("halted after %d steps; mem[0] = %d", m.Steps(), m.Mem[0])
	}
	return nil
}

func writePNG(file string, s *display.Screen) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := png.Encode(f, s.Image(8)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// eofReader is the standard input of a program that was itself read
// from standard input.
type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
