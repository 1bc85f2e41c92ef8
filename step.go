// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package digsim

import "sort"

// Init resets the model to its initial state: flip-flops take their
// configured initial value, clocks go low, and every node is marked for
// recomputation. It then runs Step to settle the circuit.
//
func (m *Model) Init() error {
	for i := range m.nodes {
		n := &m.nodes[i]
		if n.dead {
			continue
		}
		switch n.Kind {
		case FlipFlopD, FlipFlopJK, FlipFlopT:
			n.state = n.Init & m.sigs[n.Q()].mask
			n.lastClk = false
			if !n.off {
				m.Set(n.Q(), n.state)
				m.Set(n.NQ(), ^n.state)
			}
		case Clock:
			if !n.off {
				m.Set(n.C(), 0)
			}
		}
		if !n.off {
			m.enqueue(NodeID(i))
		}
	}
	return m.Step()
}

// Step propagates pending signal changes through the circuit until no
// signal changes anymore. Nodes woken by one wave are evaluated in the
// following one, so changes spread in breadth first order. If the
// circuit has not settled after maxGenerations waves, Step clears the
// pending work and returns an OscillationError.
//
func (m *Model) Step() error {
	for gen := 0; gen < maxGenerations; gen++ {
		if len(m.next) == 0 {
			return nil
		}
		m.queue, m.next = m.next, m.queue[:0]
		for _, id := range m.queue {
			m.dirty.Clear(uint(id))
			m.eval(id)
		}
	}
	if len(m.next) == 0 {
		return nil
	}

	// Report the signals still changing and leave the model quiescent.
	var names []string
	seen := make(map[string]bool)
	for _, id := range m.next {
		for _, o := range m.nodes[id].Out {
			if name := m.sigs[o].name; name != "" && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		m.dirty.Clear(uint(id))
	}
	m.next = m.next[:0]
	sort.Strings(names)
	return &OscillationError{Signals: names}
}

// eval recomputes the outputs of a single node from its current inputs.
func (m *Model) eval(id NodeID) {
	n := &m.nodes[id]
	if n.dead || n.off {
		return
	}
	switch n.Kind {
	case And, Nand, Or, Nor, Xor, Xnor:
		m.evalGate(n)
	case Not:
		m.Set(n.Out[0], ^m.Value(n.In[0]))
	case Buf:
		m.Set(n.Out[0], m.Value(n.In[0]))
	case Splitter:
		m.evalSplitter(n)
	case FlipFlopD, FlipFlopJK, FlipFlopT:
		m.evalFF(n)
	case Clock:
		// driven by the caller
	}
}

func (m *Model) evalGate(n *node) {
	v := m.Value(n.In[0])
	switch n.Kind {
	case And, Nand:
		for _, in := range n.In[1:] {
			v &= m.Value(in)
		}
	case Or, Nor:
		for _, in := range n.In[1:] {
			v |= m.Value(in)
		}
	case Xor, Xnor:
		for _, in := range n.In[1:] {
			v ^= m.Value(in)
		}
	}
	switch n.Kind {
	case Nand, Nor, Xnor:
		v = ^v
	}
	m.Set(n.Out[0], v)
}

// evalSplitter concatenates the input signals, least significant first,
// and slices the result over the output signals in the same order.
func (m *Model) evalSplitter(n *node) {
	var v uint64
	shift := uint(0)
	for _, in := range n.In {
		v |= m.Value(in) << shift
		shift += uint(m.sigs[in].bits)
	}
	for _, o := range n.Out {
		m.Set(o, v)
		v >>= uint(m.sigs[o].bits)
	}
}

// evalFF latches flip-flop state on the rising edge of the clock input
// and drives the Q and ~Q outputs.
func (m *Model) evalFF(n *node) {
	c := m.Bool(n.C())
	rise := c && !n.lastClk
	n.lastClk = c
	if rise {
		switch n.Kind {
		case FlipFlopD:
			n.state = m.Value(n.D())
		case FlipFlopJK:
			j, k := m.Bool(n.J()), m.Bool(n.K())
			q := n.state != 0
			switch {
			case j && k:
				q = !q
			case j:
				q = true
			case k:
				q = false
			}
			n.state = 0
			if q {
				n.state = 1
			}
		case FlipFlopT:
			if t := n.T(); t == NoSignal || m.Bool(t) {
				n.state ^= 1
			}
		}
		n.state &= m.sigs[n.Q()].mask
	}
	m.Set(n.Q(), n.state)
	m.Set(n.NQ(), ^n.state)
}
