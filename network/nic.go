package network

import "fmt"

// Packet is a pair of values sent to the node at address Dest.
type Packet struct {
	Dest, X, Y int64
}

func (p Packet) String() string { return fmt.Sprintf("%d<-(%d, %d)", p.Dest, p.X, p.Y) }

// NIC is the network interface of one node. It implements intcode.IO.
//
// The first Read returns the node's address. After that each received
// packet is read as X then Y, and a Read with nothing queued returns -1.
// Values written are grouped in threes into outgoing packets.
type NIC struct {
	Addr int64

	booted bool
	recv   []Packet
	y      int64
	hasY   bool
	polled bool // read an empty queue during this turn

	partial []int64
	sent    []Packet
}

// Deliver queues p for reading by the node.
func (n *NIC) Deliver(p Packet) {
	n.recv = append(n.recv, p)
	n.polled = false
}

// BeginTurn marks the start of the node's turn. Only a poll of the
// empty queue during the turn makes the node idle.
func (n *NIC) BeginTurn() {
	n.polled = false
}

// Idle reports whether the node has nothing to read, is not part way
// through sending a packet, and has polled its empty queue this turn.
func (n *NIC) Idle() bool {
	return n.polled && len(n.recv) == 0 && !n.hasY && len(n.partial) == 0
}

// Sent removes and returns the packets written by the node.
func (n *NIC) Sent() []Packet {
	s := n.sent
	n.sent = nil
	return s
}

func (n *NIC) Read() (int64, error) {
	switch {
	case !n.booted:
		n.booted = true
		return n.Addr, nil
	case n.hasY:
		n.hasY = false
		return n.y, nil
	case len(n.recv) == 0:
		n.polled = true
		return -1, nil
	}
	p := n.recv[0]
	n.recv = n.recv[1:]
	n.y, n.hasY = p.Y, true
	return p.X, nil
}

func (n *NIC) Write(v int64) error {
	n.partial = append(n.partial, v)
	if len(n.partial) == 3 {
		n.sent = append(n.sent, Packet{Dest: n.partial[0], X: n.partial[1], Y: n.partial[2]})
		n.partial = n.partial[:0]
	}
	return nil
}
