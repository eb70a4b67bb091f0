package network

import (
	"errors"
	"fmt"

	"github.com/nf/intcode/intcode"
)

// Chain is a series of machines where each one's output is the next
// one's input, and the last one's output is fed back to the first.
type Chain struct {
	procs []*intcode.Process
}

// NewChain returns a Chain of len(phases) copies of prog, each of which
// has already been given its phase setting as its first input.
func NewChain(prog intcode.Memory, phases []int64) (*Chain, error) {
	if len(phases) == 0 {
		return nil, errors.New("chain has no machines")
	}
	c := &Chain{}
	for i, phase := range phases {
		p := intcode.NewProcess(prog.Clone())
		if err := p.Input(phase); err != nil {
			return nil, fmt.Errorf("machine %d: setting phase %d: %w", i, phase, err)
		}
		c.procs = append(c.procs, p)
	}
	return c, nil
}

// Run sends signal into the first machine and passes values around the
// chain until the first machine halts. It returns the last value output
// by the final machine.
func (c *Chain) Run(signal int64) (int64, error) {
	var (
		last int64
		seen bool
	)
	for {
		for i, p := range c.procs {
			err := p.Input(signal)
			if err == intcode.ErrHalted && i == 0 && seen {
				return last, nil
			}
			if err != nil {
				return 0, fmt.Errorf("machine %d: %w", i, err)
			}
			if signal, err = p.Output(); err != nil {
				return 0, fmt.Errorf("machine %d: %w", i, err)
			}
		}
		last, seen = signal, true
	}
}

// MaxSignal runs a Chain for every ordering of phases and returns the
// highest signal produced, and the ordering that produced it.
func MaxSignal(prog intcode.Memory, phases []int64) (best int64, order []int64, err error) {
	found := false
	err = permute(append([]int64(nil), phases...), func(p []int64) error {
		c, err := NewChain(prog, p)
		if err != nil {
			return err
		}
		v, err := c.Run(0)
		if err != nil {
			return err
		}
		if !found || v > best {
			best, order, found = v, append([]int64(nil), p...), true
		}
		return nil
	})
	return best, order, err
}

// permute calls f with every permutation of xs, generated in place by
// Heap's algorithm.
func permute(xs []int64, f func([]int64) error) error {
	var gen func(k int) error
	gen = func(k int) error {
		if k <= 1 {
			return f(xs)
		}
		for i := 0; i < k-1; i++ {
			if err := gen(k - 1); err != nil {
				return err
			}
			if k%2 == 0 {
				xs[i], xs[k-1] = xs[k-1], xs[i]
			} else {
				xs[0], xs[k-1] = xs[k-1], xs[0]
			}
		}
		return gen(k - 1)
	}
	return gen(len(xs))
}
