package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nf/intcode/intcode"
)

// config holds the settings of a run. It may be read from a TOML file,
// whose keys match the command-line flags:
//
//	mode = "buffer"
//	input = [1, 2, 3]
//	mem = 4096
//	set = ["1=12", "2=2"]
type config struct {
	Mode      string   `toml:"mode"`
	Input     []int64  `toml:"input"`
	Mem       int      `toml:"mem"`
	Set       []string `toml:"set"`
	Debug     bool     `toml:"debug"`
	Watch     bool     `toml:"watch"`
	PNG       string   `toml:"png"`
	Autopilot bool     `toml:"autopilot"`
}

var modes = []string{"buffer", "terminal", "ascii", "screen", "gui"}

func defaultConfig() config {
	return config{Mode: "buffer"}
}

// load reads the TOML file into c. Keys absent from the file keep
// their current values.
func (c *config) load(file string) error {
	md, err := toml.DecodeFile(file, c)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return fmt.Errorf("config: %s: unknown key %q", file, keys[0].String())
	}
	return nil
}

// flagValues holds the raw flag values before they are merged into a
// config.
type flagValues struct {
	config
	input string
	set   string
}

func (fv *flagValues) register(fs *flag.FlagSet) {
	fs.StringVar(&fv.Mode, "mode", "buffer", "I/O `mode`: "+strings.Join(modes, ", "))
	fs.StringVar(&fv.input, "input", "", "comma-separated input `values` (buffer mode)")
	fs.IntVar(&fv.Mem, "mem", 0, "extend memory to `n` cells")
	fs.StringVar(&fv.set, "set", "", "comma-separated `addr=value` patches applied before running")
	fs.BoolVar(&fv.Debug, "debug", false, "run the program in the step debugger")
	fs.BoolVar(&fv.Watch, "watch", false, "re-run the program whenever its file changes")
	fs.StringVar(&fv.PNG, "png", "", "write the final screen to `file` (screen and gui modes)")
	fs.BoolVar(&fv.Autopilot, "autopilot", false, "let the paddle follow the ball (gui mode)")
}

// override copies the flags that were set on the command line into c.
func (fv *flagValues) override(fs *flag.FlagSet, c *config) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "mode":
			c.Mode = fv.Mode
		case "input":
			var in intcode.Memory
			if in, err = intcode.ParseMemory(fv.input); err == nil {
				c.Input = in
			}
		case "mem":
			c.Mem = fv.Mem
		case "set":
			c.Set = nil
			if s := strings.TrimSpace(fv.set); s != "" {
				c.Set = strings.Split(s, ",")
			}
		case "debug":
			c.Debug = fv.Debug
		case "watch":
			c.Watch = fv.Watch
		case "png":
			c.PNG = fv.PNG
		case "autopilot":
			c.Autopilot = fv.Autopilot
		}
	})
	if err != nil {
		return fmt.Errorf("-input: %w", err)
	}
	return nil
}

func (c *config) validate() error {
	ok := false
	for _, m := range modes {
		ok = ok || m == c.Mode
	}
	if !ok {
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Watch && c.Mode == "gui" {
		return fmt.Errorf("cannot watch in gui mode")
	}
	if c.Mem < 0 {
		return fmt.Errorf("invalid memory size %d", c.Mem)
	}
	_, err := c.patches()
	return err
}

type patch struct {
	addr, value int64
}

func (c *config) patches() ([]patch, error) {
	var ps []patch
	for _, s := range c.Set {
		a, v, ok := strings.Cut(strings.TrimSpace(s), "=")
		if !ok {
			return nil, fmt.Errorf("invalid patch %q: want addr=value", s)
		}
		addr, err := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid patch %q: %w", s, err)
		}
		value, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid patch %q: %w", s, err)
		}
		ps = append(ps, patch{addr, value})
	}
	return ps, nil
}

// prepare extends mem to the configured size and applies the patches.
func (c *config) prepare(mem intcode.Memory) (intcode.Memory, error) {
	mem.Extend(c.Mem)
	ps, err := c.patches()
	if err != nil {
		return nil, err
	}
	for _, p := range ps {
		if err := mem.Store(p.addr, p.value); err != nil {
			return nil, fmt.Errorf("patching %d: %w", p.addr, err)
		}
	}
	return mem, nil
}
