package intcode

import (
	"fmt"
	"strings"
)

// Op represents an IntCode opcode, the low two decimal digits of an
// instruction.
type Op byte

const (
	Add         Op = 1
	Multiply    Op = 2
	Input       Op = 3
	Output      Op = 4
	JumpIfTrue  Op = 5
	JumpIfFalse Op = 6
	LessThan    Op = 7
	Equals      Op = 8
	AdjustBase  Op = 9
	Halt        Op = 99
)

var opInfo = map[Op]struct {
	name  string
	arity int
	dst   int // index+1 of the parameter that is written, or 0
}{
	Add:         {"ADD", 3, 3},
	Multiply:    {"MUL", 3, 3},
	Input:       {"IN", 1, 1},
	Output:      {"OUT", 1, 0},
	JumpIfTrue:  {"JNZ", 2, 0},
	JumpIfFalse: {"JZ", 2, 0},
	LessThan:    {"LT", 3, 3},
	Equals:      {"EQ", 3, 3},
	AdjustBase:  {"ARB", 1, 0},
	Halt:        {"HLT", 0, 0},
}

// Valid reports whether o is a known opcode.
func (o Op) Valid() bool {
	_, ok := opInfo[o]
	return ok
}

// Arity returns the number of parameters taken by o.
func (o Op) Arity() int { return opInfo[o].arity }

func (o Op) String() string {
	if i, ok := opInfo[o]; ok {
		return i.name
	}
	return fmt.Sprintf("op(%d)", byte(o))
}

// Mode is a parameter addressing mode.
type Mode byte

const (
	Position  Mode = 0 // value at address Raw
	Immediate Mode = 1 // Raw itself
	Relative  Mode = 2 // value at address BP+Raw
)

func (m Mode) String() string {
	switch m {
	case Position:
		return "@"
	case Immediate:
		return "#"
	case Relative:
		return "r"
	}
	return fmt.Sprintf("mode(%d)", byte(m))
}

// Param is an instruction parameter: a raw memory cell tagged with the
// mode used to interpret it.
type Param struct {
	Mode Mode
	Raw  int64
}

// Addr returns the memory address p refers to, given base pointer bp.
// Immediate parameters have no address.
func (p Param) Addr(bp int64) (int64, bool) {
	switch p.Mode {
	case Position:
		return p.Raw, true
	case Relative:
		return bp + p.Raw, true
	}
	return 0, false
}

func (p Param) String() string { return fmt.Sprintf("%s%d", p.Mode, p.Raw) }

// Instr is a decoded instruction.
type Instr struct {
	Op     Op
	Params [3]Param // only the first Op.Arity() are used
}

// Len returns the number of memory cells occupied by the instruction.
func (in Instr) Len() int64 { return 1 + int64(in.Op.Arity()) }

func (in Instr) String() string {
	var b strings.Builder
	b.WriteString(in.Op.String())
	for i, p := range in.Params[:in.Op.Arity()] {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	return b.String()
}

// Decode decodes the instruction at ip.
func Decode(mem Memory, ip int64) (Instr, error) {
	cell, err := mem.Load(ip)
	if err != nil {
		return Instr{}, err
	}
	in := Instr{Op: Op(cell % 100)}
	if cell < 0 || !in.Op.Valid() {
		return Instr{}, &Error{Fault: InvalidOpcode, Addr: ip, Value: cell % 100}
	}
	modes := cell / 100
	info := opInfo[in.Op]
	for i := 0; i < info.arity; i++ {
		mode := Mode(modes % 10)
		modes /= 10
		switch mode {
		case Position, Immediate, Relative:
		default:
			return Instr{}, &Error{Fault: InvalidMode, Op: in.Op, Addr: ip, Value: int64(mode)}
		}
		if mode == Immediate && info.dst == i+1 {
			return Instr{}, &Error{Fault: ImmediateAddress, Op: in.Op, Addr: ip}
		}
		raw, err := mem.Load(ip + 1 + int64(i))
		if err != nil {
			e := err.(*Error)
			e.Op, e.Addr = in.Op, ip
			return Instr{}, e
		}
		in.Params[i] = Param{Mode: mode, Raw: raw}
	}
	return in, nil
}

// Disassemble returns a listing of up to n instructions of mem starting
// at ip, or of everything from ip on if n is negative. Cells that do
// not decode as instructions are listed as data.
func Disassemble(mem Memory, ip int64, n int) []string {
	var lines []string
	for ip >= 0 && ip < int64(len(mem)) && (n < 0 || len(lines) < n) {
		if in, err := Decode(mem, ip); err == nil {
			lines = append(lines, fmt.Sprintf("%5d  %s", ip, in))
			ip += in.Len()
		} else {
			lines = append(lines, fmt.Sprintf("%5d  DATA %d", ip, mem[ip]))
			ip++
		}
	}
	return lines
}
