// Package network runs groups of IntCode machines that talk to each
// other, driving them in turn from a single goroutine.
package network

import (
	"context"
	"fmt"

	"github.com/nf/intcode/intcode"
)

// NATAddr is the address of the NAT that watches the network.
const NATAddr = 255

// DefaultQuantum is the number of instructions each node executes per
// turn if Network.Quantum is zero.
const DefaultQuantum = 10

// Node is a machine attached to the network.
type Node struct {
	M   *intcode.Machine
	NIC *NIC
}

// Network is a set of machines exchanging packets. Packets sent to
// NATAddr are kept by the NAT, which sends the last one it received to
// node 0 whenever the network goes idle.
type Network struct {
	Nodes []*Node

	// Quantum is the number of instructions a node executes per turn.
	Quantum int

	// Logf, if set, is called to trace packet traffic.
	Logf func(format string, args ...any)

	nat, first *Packet
}

// New returns a Network of n nodes, each running its own copy of prog
// extended to capacity cells.
func New(prog intcode.Memory, n, capacity int) *Network {
	nw := &Network{}
	for addr := 0; addr < n; addr++ {
		mem := prog.Clone()
		mem.Extend(capacity)
		nic := &NIC{Addr: int64(addr)}
		nw.Nodes = append(nw.Nodes, &Node{M: intcode.NewMachine(nic, mem), NIC: nic})
	}
	return nw
}

// FirstNAT returns the first packet sent to the NAT.
func (nw *Network) FirstNAT() (Packet, bool) {
	if nw.first == nil {
		return Packet{}, false
	}
	return *nw.first, true
}

// Run drives the network until the NAT sends node 0 a packet with the
// same Y value as the packet it sent before, and returns that packet.
func (nw *Network) Run(ctx context.Context) (Packet, error) {
	var (
		quantum  = nw.Quantum
		idle     = 0
		lastSent *Packet
	)
	if quantum <= 0 {
		quantum = DefaultQuantum
	}
	for {
		if err := ctx.Err(); err != nil {
			return Packet{}, err
		}
		sent := false
		for _, n := range nw.Nodes {
			n.NIC.BeginTurn()
			for i := 0; i < quantum; i++ {
				ok, err := n.M.Step()
				if err != nil {
					return Packet{}, fmt.Errorf("node %d: %w", n.NIC.Addr, err)
				}
				if !ok {
					break
				}
			}
			for _, p := range n.NIC.Sent() {
				sent = true
				if err := nw.route(n.NIC.Addr, p); err != nil {
					return Packet{}, err
				}
			}
		}
		if sent || nw.nat == nil || !nw.idle() {
			idle = 0
			continue
		}
		if idle++; idle < 2 {
			continue
		}
		idle = 0
		p := *nw.nat
		p.Dest = 0
		nw.logf("nat: idle, sending %v", p)
		if lastSent != nil && lastSent.Y == p.Y {
			return p, nil
		}
		lastSent = &p
		nw.Nodes[0].NIC.Deliver(p)
	}
}

func (nw *Network) idle() bool {
	for _, n := range nw.Nodes {
		if n.M.State() == intcode.Running && !n.NIC.Idle() {
			return false
		}
	}
	return true
}

func (nw *Network) route(from int64, p Packet) error {
	nw.logf("%d: sent %v", from, p)
	if p.Dest == NATAddr {
		p := p
		nw.nat = &p
		if nw.first == nil {
			nw.first = &p
		}
		return nil
	}
	if p.Dest < 0 || p.Dest >= int64(len(nw.Nodes)) {
		return fmt.Errorf("node %d: packet %v to unknown address", from, p)
	}
	nw.Nodes[p.Dest].NIC.Deliver(p)
	return nil
}

func (nw *Network) logf(format string, args ...any) {
	if nw.Logf != nil {
		nw.Logf(format, args...)
	}
}
