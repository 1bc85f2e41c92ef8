// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package digsim

import "github.com/pkg/errors"

// Builder methods for common circuit structures. They allocate output
// signals themselves and panic on wiring errors: circuits are usually
// wired by hand or by generated code, where a bad pin is a bug, not a
// runtime condition. Use Add directly to handle errors instead.

// mustAdd wraps Add for the builder methods.
func (m *Model) mustAdd(n Node) NodeID {
	id, err := m.Add(n)
	if err != nil {
		panic(err)
	}
	return id
}

// Input allocates a 1 bit signal and registers it as a circuit input
// named name.
//
func (m *Model) Input(name string) SignalID {
	s := m.NewSignal(name, 1)
	m.AddInput(name, s)
	return s
}

// InputN allocates a signal of the given width and registers it as a
// circuit input named name.
//
func (m *Model) InputN(name string, bits int) SignalID {
	s := m.NewSignal(name, bits)
	m.AddInput(name, s)
	return s
}

// Output registers signal s as a circuit output named name.
//
func (m *Model) Output(name string, s SignalID) {
	m.AddOutput(name, s)
}

// Clock allocates a 1 bit signal named name and wires a clock node to
// it. The signal is driven by the caller with Set; the clock node only
// claims it so that nothing else can. Clocks are not circuit inputs.
//
func (m *Model) Clock(name string) SignalID {
	s := m.NewSignal(name, 1)
	m.mustAdd(Node{Kind: Clock, Label: name, Out: []SignalID{s}})
	return s
}

// Const allocates a signal of the given width holding v. Nothing drives
// it, so it keeps its value across steps.
//
func (m *Model) Const(v uint64, bits int) SignalID {
	s := m.NewSignal("", bits)
	m.Set(s, v)
	return s
}

func (m *Model) gate(k Kind, ins []SignalID) SignalID {
	if len(ins) == 0 {
		panic(errors.Errorf("%s: no inputs", k))
	}
	out := m.NewSignal("", m.sigs[ins[0]].bits)
	m.mustAdd(Node{Kind: k, In: ins, Out: []SignalID{out}})
	return out
}

// And returns a new signal driven by the conjunction of the given
// signals.
//
func (m *Model) And(ins ...SignalID) SignalID { return m.gate(And, ins) }

// Nand returns a new signal driven by the negated conjunction of the
// given signals.
//
func (m *Model) Nand(ins ...SignalID) SignalID { return m.gate(Nand, ins) }

// Or returns a new signal driven by the disjunction of the given
// signals.
//
func (m *Model) Or(ins ...SignalID) SignalID { return m.gate(Or, ins) }

// Nor returns a new signal driven by the negated disjunction of the
// given signals.
//
func (m *Model) Nor(ins ...SignalID) SignalID { return m.gate(Nor, ins) }

// Xor returns a new signal driven by the exclusive or of the given
// signals.
//
func (m *Model) Xor(ins ...SignalID) SignalID { return m.gate(Xor, ins) }

// Xnor returns a new signal driven by the negated exclusive or of the
// given signals.
//
func (m *Model) Xnor(ins ...SignalID) SignalID { return m.gate(Xnor, ins) }

// Not returns a new signal driven by the complement of a.
//
func (m *Model) Not(a SignalID) SignalID { return m.gate(Not, []SignalID{a}) }

// Buf returns a new signal following a.
//
func (m *Model) Buf(a SignalID) SignalID { return m.gate(Buf, []SignalID{a}) }

// ffOuts allocates the Q and ~Q signals for a flip-flop labelled label.
func (m *Model) ffOuts(label string, bits int) (q, nq SignalID) {
	qn, nqn := label, ""
	if label != "" {
		nqn = "~" + label
	}
	return m.NewSignal(qn, bits), m.NewSignal(nqn, bits)
}

// FlipFlopD wires a d flip-flop latching d on the rising edge of clk
// and returns its Q and ~Q outputs, as wide as d.
//
func (m *Model) FlipFlopD(label string, d, clk SignalID) (q, nq SignalID) {
	q, nq = m.ffOuts(label, m.sigs[d].bits)
	m.mustAdd(Node{Kind: FlipFlopD, Label: label, In: []SignalID{d, clk}, Out: []SignalID{q, nq}})
	return q, nq
}

// FlipFlopJK wires a jk flip-flop and returns its Q and ~Q outputs. On
// the rising edge of clk, j sets the state, k resets it, and both
// toggle it.
//
func (m *Model) FlipFlopJK(label string, j, k, clk SignalID) (q, nq SignalID) {
	q, nq = m.ffOuts(label, 1)
	m.mustAdd(Node{Kind: FlipFlopJK, Label: label, In: []SignalID{j, clk, k}, Out: []SignalID{q, nq}})
	return q, nq
}

// FlipFlopT wires a t flip-flop toggling on every rising edge of clk
// and returns its Q and ~Q outputs.
//
func (m *Model) FlipFlopT(label string, clk SignalID) (q, nq SignalID) {
	q, nq = m.ffOuts(label, 1)
	m.mustAdd(Node{Kind: FlipFlopT, Label: label, In: []SignalID{clk}, Out: []SignalID{q, nq}})
	return q, nq
}

// FlipFlopTE wires a t flip-flop toggling on the rising edges of clk
// where t reads true, and returns its Q and ~Q outputs.
//
func (m *Model) FlipFlopTE(label string, t, clk SignalID) (q, nq SignalID) {
	q, nq = m.ffOuts(label, 1)
	m.mustAdd(Node{Kind: FlipFlopT, Label: label, In: []SignalID{t, clk}, Out: []SignalID{q, nq}})
	return q, nq
}

// Split fans signal s out over the given narrower signals, least
// significant bits first.
//
func (m *Model) Split(s SignalID, outs ...SignalID) {
	m.mustAdd(Node{Kind: Splitter, In: []SignalID{s}, Out: outs})
}

// Combine drives signal s from the given narrower signals, least
// significant bits first.
//
func (m *Model) Combine(s SignalID, ins ...SignalID) {
	m.mustAdd(Node{Kind: Splitter, In: ins, Out: []SignalID{s}})
}
