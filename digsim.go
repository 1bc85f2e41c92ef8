// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package digsim

import "strconv"

// A SignalID is a handle to a signal in a Model.
//
type SignalID int

// A NodeID is a handle to a node in a Model.
//
type NodeID int

// NoSignal and NoNode are the invalid handles. Lookups return them when
// they find nothing.
//
const (
	NoSignal SignalID = -1
	NoNode   NodeID   = -1
)

// Kind identifies the function computed by a node. The set of kinds is
// closed: evaluation, rewriting and analysis each handle every case
// with a plain switch.
//
type Kind int8

// Node kinds.
//
const (
	Invalid Kind = iota
	And          // out = in0 & in1 & ...
	Nand
	Or // out = in0 | in1 | ...
	Nor
	Xor // out = in0 ^ in1 ^ ...
	Xnor
	Not // out = ^in0
	Buf // out = in0
	Splitter
	FlipFlopD
	FlipFlopJK
	FlipFlopT
	Clock
)

var kindNames = [...]string{
	Invalid:    "invalid",
	And:        "and",
	Nand:       "nand",
	Or:         "or",
	Nor:        "nor",
	Xor:        "xor",
	Xnor:       "xnor",
	Not:        "not",
	Buf:        "buf",
	Splitter:   "split",
	FlipFlopD:  "dff",
	FlipFlopJK: "jkff",
	FlipFlopT:  "tff",
	Clock:      "clock",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Stateful reports whether nodes of kind k carry internal state across
// steps. Clocks are not stateful: their output is driven by the caller.
//
func (k Kind) Stateful() bool {
	switch k {
	case FlipFlopD, FlipFlopJK, FlipFlopT:
		return true
	}
	return false
}

// A Node describes one circuit element: the function it computes, the
// signals wired to its input and output pins, and, for flip-flops, a
// label and an initial state.
//
// Pin order by kind:
//
//	And, Nand, Or, Nor, Xor, Xnor: In: operands (1 or more), Out: result
//	Not, Buf:                      In: operand, Out: result
//	Splitter:                      In, Out: slices, least significant first
//	FlipFlopD:                     In: D, C. Out: Q, ~Q
//	FlipFlopJK:                    In: J, C, K. Out: Q, ~Q
//	FlipFlopT:                     In: [T,] C. Out: Q, ~Q
//	Clock:                         Out: C
//
type Node struct {
	Kind  Kind
	Label string
	In    []SignalID
	Out   []SignalID
	Init  uint64 // initial flip-flop state
}

// D returns the data input of a d flip-flop.
//
func (n *Node) D() SignalID { return n.In[0] }

// J returns the set input of a jk flip-flop.
//
func (n *Node) J() SignalID { return n.In[0] }

// K returns the reset input of a jk flip-flop.
//
func (n *Node) K() SignalID { return n.In[2] }

// T returns the enable input of a t flip-flop, or NoSignal if the
// flip-flop toggles on every clock edge.
//
func (n *Node) T() SignalID {
	if n.Kind == FlipFlopT && len(n.In) == 2 {
		return n.In[0]
	}
	return NoSignal
}

// C returns the clock signal of a flip-flop or clock node.
//
func (n *Node) C() SignalID {
	switch n.Kind {
	case FlipFlopD, FlipFlopJK:
		return n.In[1]
	case FlipFlopT:
		return n.In[len(n.In)-1]
	case Clock:
		return n.Out[0]
	}
	return NoSignal
}

// Q returns the state output of a flip-flop.
//
func (n *Node) Q() SignalID { return n.Out[0] }

// NQ returns the complemented state output of a flip-flop.
//
func (n *Node) NQ() SignalID { return n.Out[1] }
