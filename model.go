// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package digsim

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

// signal is an arena entry. driver is the node claiming the signal as
// an output, NoNode if the signal is only ever set from the outside.
type signal struct {
	name   string
	bits   int
	mask   uint64
	value  uint64
	highz  bool
	driver NodeID
	obs    []NodeID
}

// node is an arena entry wrapping the public description with the
// simulation state. Entries are never reused: removal leaves a
// tombstone so that handles stay valid.
type node struct {
	Node
	state   uint64 // flip-flop state
	lastClk bool
	dead    bool // removed
	off     bool // disabled: present in the arena but not simulated
}

// A Record ties an externally visible name to a signal. Models keep one
// per declared input and output; Pin carries an optional physical pin
// number.
//
type Record struct {
	Name string
	Sig  SignalID
	Pin  string
}

// A Model is a self contained circuit: a flat arena of signals, a flat
// arena of nodes wired to them, the input and output records naming its
// boundary, and the queue of nodes awaiting recomputation.
//
type Model struct {
	sigs  []signal
	nodes []node
	ins   []Record
	outs  []Record

	dirty *bitset.BitSet // nodes queued in next
	queue []NodeID       // wave being evaluated
	next  []NodeID       // wave woken by the current one
}

// New returns an empty model.
//
func New() *Model {
	return &Model{dirty: bitset.New(64)}
}

// NewSignal allocates a signal of the given width in bits, from 1 to
// 64. The name may be empty for internal wires.
//
func (m *Model) NewSignal(name string, bits int) SignalID {
	if bits < 1 || bits > 64 {
		panic(errors.Errorf("signal %q: invalid width %d", name, bits))
	}
	id := SignalID(len(m.sigs))
	m.sigs = append(m.sigs, signal{
		name:   name,
		bits:   bits,
		mask:   ^uint64(0) >> (64 - uint(bits)),
		driver: NoNode,
	})
	return id
}

// Name returns the name of signal s.
//
func (m *Model) Name(s SignalID) string { return m.sigs[s].name }

// Bits returns the width of signal s.
//
func (m *Model) Bits(s SignalID) int { return m.sigs[s].bits }

// Value returns the current value of signal s. High impedance signals
// read as 0.
//
func (m *Model) Value(s SignalID) uint64 {
	sig := &m.sigs[s]
	if sig.highz {
		return 0
	}
	return sig.value
}

// Bool returns true if signal s reads non zero.
//
func (m *Model) Bool(s SignalID) bool { return m.Value(s) != 0 }

// IsHighZ reports whether signal s is in the high impedance state.
//
func (m *Model) IsHighZ(s SignalID) bool { return m.sigs[s].highz }

// Set drives signal s to v, truncated to the signal width, and marks
// its observers for recomputation if the value changed. Setting a
// signal clears its high impedance state.
//
func (m *Model) Set(s SignalID, v uint64) {
	sig := &m.sigs[s]
	v &= sig.mask
	if !sig.highz && sig.value == v {
		return
	}
	sig.highz = false
	sig.value = v
	for _, n := range sig.obs {
		m.enqueue(n)
	}
}

// SetBool drives signal s to 0 or 1.
//
func (m *Model) SetBool(s SignalID, b bool) {
	if b {
		m.Set(s, 1)
	} else {
		m.Set(s, 0)
	}
}

// SetHighZ puts signal s in the high impedance state and marks its
// observers for recomputation.
//
func (m *Model) SetHighZ(s SignalID) {
	sig := &m.sigs[s]
	if sig.highz {
		return
	}
	sig.highz = true
	for _, n := range sig.obs {
		m.enqueue(n)
	}
}

// Signal looks up a signal by name and returns NoSignal when no signal
// carries that name. When several do, the first allocated wins.
//
func (m *Model) Signal(name string) SignalID {
	if name == "" {
		return NoSignal
	}
	for i := range m.sigs {
		if m.sigs[i].name == name {
			return SignalID(i)
		}
	}
	return NoSignal
}

// Driver returns the node driving signal s, or NoNode.
//
func (m *Model) Driver(s SignalID) NodeID { return m.sigs[s].driver }

// AddInput registers signal s as a circuit input named name.
//
func (m *Model) AddInput(name string, s SignalID) {
	m.ins = append(m.ins, Record{Name: name, Sig: s})
}

// AddOutput registers signal s as a circuit output named name.
//
func (m *Model) AddOutput(name string, s SignalID) {
	m.outs = append(m.outs, Record{Name: name, Sig: s})
}

// Inputs returns a copy of the input records in declaration order.
//
func (m *Model) Inputs() []Record { return append([]Record(nil), m.ins...) }

// Outputs returns a copy of the output records in declaration order.
//
func (m *Model) Outputs() []Record { return append([]Record(nil), m.outs...) }

// SetPin assigns a pin number to the input or output record named name.
// It reports whether a record matched.
//
func (m *Model) SetPin(name, pin string) bool {
	for i := range m.ins {
		if m.ins[i].Name == name {
			m.ins[i].Pin = pin
			return true
		}
	}
	for i := range m.outs {
		if m.outs[i].Name == name {
			m.outs[i].Pin = pin
			return true
		}
	}
	return false
}

// Node returns a copy of the description of node id. The pin slices are
// shared with the model and must not be modified.
//
func (m *Model) Node(id NodeID) Node { return m.nodes[id].Node }

// FindNodes returns the handles of all live nodes of the given kind, in
// insertion order.
//
func (m *Model) FindNodes(k Kind) []NodeID {
	var ids []NodeID
	for i := range m.nodes {
		if n := &m.nodes[i]; !n.dead && n.Kind == k {
			ids = append(ids, NodeID(i))
		}
	}
	return ids
}

// Add validates the description n against the arena and adds the node
// to the model: its output signals record it as their driver and it
// subscribes to its input signals. The new node is marked for
// recomputation on the next Step.
//
func (m *Model) Add(n Node) (NodeID, error) {
	if err := m.check(&n); err != nil {
		return NoNode, err
	}
	id := NodeID(len(m.nodes))
	for _, o := range n.Out {
		m.sigs[o].driver = id
	}
	for _, in := range n.In {
		m.sigs[in].obs = append(m.sigs[in].obs, id)
	}
	nd := node{Node: n}
	if n.Kind.Stateful() {
		nd.state = n.Init & m.sigs[n.Out[0]].mask
	}
	m.nodes = append(m.nodes, nd)
	m.enqueue(id)
	return id, nil
}

func (m *Model) validSignal(s SignalID) bool {
	return s >= 0 && int(s) < len(m.sigs)
}

// check validates pin counts, pin widths and driver claims for n.
func (m *Model) check(n *Node) error {
	for _, s := range n.In {
		if !m.validSignal(s) {
			return errors.Errorf("%s: invalid input signal handle %d", n.Kind, s)
		}
	}
	for _, s := range n.Out {
		if !m.validSignal(s) {
			return errors.Errorf("%s: invalid output signal handle %d", n.Kind, s)
		}
	}
	switch n.Kind {
	case And, Nand, Or, Nor, Xor, Xnor:
		if len(n.In) < 1 || len(n.Out) != 1 {
			return errors.Errorf("%s: want 1+ inputs and 1 output, got %d and %d", n.Kind, len(n.In), len(n.Out))
		}
		w := m.sigs[n.Out[0]].bits
		for _, in := range n.In {
			if m.sigs[in].bits != w {
				return errors.Errorf("%s: input %q is %d bits, want %d", n.Kind, m.sigs[in].name, m.sigs[in].bits, w)
			}
		}
	case Not, Buf:
		if len(n.In) != 1 || len(n.Out) != 1 {
			return errors.Errorf("%s: want 1 input and 1 output, got %d and %d", n.Kind, len(n.In), len(n.Out))
		}
		if m.sigs[n.In[0]].bits != m.sigs[n.Out[0]].bits {
			return errors.Errorf("%s: input is %d bits, output %d", n.Kind, m.sigs[n.In[0]].bits, m.sigs[n.Out[0]].bits)
		}
	case Splitter:
		if len(n.In) < 1 || len(n.Out) < 1 {
			return errors.Errorf("%s: want 1+ inputs and 1+ outputs, got %d and %d", n.Kind, len(n.In), len(n.Out))
		}
		var wi, wo int
		for _, in := range n.In {
			wi += m.sigs[in].bits
		}
		for _, o := range n.Out {
			wo += m.sigs[o].bits
		}
		if wi != wo || wi > 64 {
			return errors.Errorf("%s: input width %d, output width %d", n.Kind, wi, wo)
		}
	case FlipFlopD:
		if len(n.In) != 2 || len(n.Out) != 2 {
			return errors.Errorf("%s: want inputs D, C and outputs Q, ~Q", n.Kind)
		}
		if m.sigs[n.C()].bits != 1 {
			return errors.Errorf("%s: clock input must be 1 bit", n.Kind)
		}
		w := m.sigs[n.D()].bits
		if m.sigs[n.Q()].bits != w || m.sigs[n.NQ()].bits != w {
			return errors.Errorf("%s: data is %d bits, outputs %d and %d", n.Kind, w, m.sigs[n.Q()].bits, m.sigs[n.NQ()].bits)
		}
	case FlipFlopJK:
		if len(n.In) != 3 || len(n.Out) != 2 {
			return errors.Errorf("%s: want inputs J, C, K and outputs Q, ~Q", n.Kind)
		}
		for _, s := range append(n.In[:len(n.In):len(n.In)], n.Out...) {
			if m.sigs[s].bits != 1 {
				return errors.Errorf("%s: all pins must be 1 bit", n.Kind)
			}
		}
	case FlipFlopT:
		if len(n.In) < 1 || len(n.In) > 2 || len(n.Out) != 2 {
			return errors.Errorf("%s: want inputs [T,] C and outputs Q, ~Q", n.Kind)
		}
		for _, s := range append(n.In[:len(n.In):len(n.In)], n.Out...) {
			if m.sigs[s].bits != 1 {
				return errors.Errorf("%s: all pins must be 1 bit", n.Kind)
			}
		}
	case Clock:
		if len(n.In) != 0 || len(n.Out) != 1 {
			return errors.Errorf("%s: want no input and 1 output", n.Kind)
		}
		if m.sigs[n.Out[0]].bits != 1 {
			return errors.Errorf("%s: output must be 1 bit", n.Kind)
		}
	default:
		return errors.Errorf("invalid node kind %d", n.Kind)
	}
	for i, o := range n.Out {
		if d := m.sigs[o].driver; d != NoNode {
			return errors.Errorf("signal %q: already driven by %s", m.sigs[o].name, m.nodes[d].Kind)
		}
		for _, p := range n.Out[:i] {
			if p == o {
				return errors.Errorf("%s: signal %q wired to two output pins", n.Kind, m.sigs[o].name)
			}
		}
	}
	return nil
}

// Remove deletes node id from the model: it releases the driver claims
// on its outputs and stops observing its inputs. The handle becomes a
// tombstone; it is never reused.
//
func (m *Model) Remove(id NodeID) {
	n := &m.nodes[id]
	if n.dead {
		return
	}
	n.dead = true
	m.unwire(id)
}

// Disable takes node id out of the simulation without removing it: the
// node stays in the arena but stops observing its inputs and releases
// its outputs, which can then be driven by other nodes or from the
// outside.
//
func (m *Model) Disable(id NodeID) {
	n := &m.nodes[id]
	if n.dead || n.off {
		return
	}
	n.off = true
	m.unwire(id)
}

// Detach removes node id from the observers of signal s. The node keeps
// driving its outputs but no longer recomputes when s changes.
//
func (m *Model) Detach(id NodeID, s SignalID) {
	removeObs(&m.sigs[s], id)
}

// Replace swaps node old for the description n in a single operation:
// n may claim the output signals that old was driving. On error the
// model is left unchanged.
//
func (m *Model) Replace(old NodeID, n Node) (NodeID, error) {
	o := &m.nodes[old]
	if o.dead {
		return NoNode, errors.Errorf("replace %s: node already removed", o.Kind)
	}
	var released []SignalID
	for _, s := range o.Out {
		if m.sigs[s].driver == old {
			m.sigs[s].driver = NoNode
			released = append(released, s)
		}
	}
	if err := m.check(&n); err != nil {
		for _, s := range released {
			m.sigs[s].driver = old
		}
		return NoNode, errors.Wrapf(err, "replace %s", o.Kind)
	}
	o.dead = true
	for _, in := range o.In {
		removeObs(&m.sigs[in], old)
	}
	m.dirty.Clear(uint(old))
	return m.Add(n)
}

// unwire disconnects node id from the signal arena.
func (m *Model) unwire(id NodeID) {
	n := &m.nodes[id]
	for _, in := range n.In {
		removeObs(&m.sigs[in], id)
	}
	for _, o := range n.Out {
		if m.sigs[o].driver == id {
			m.sigs[o].driver = NoNode
		}
	}
	m.dirty.Clear(uint(id))
}

func removeObs(sig *signal, id NodeID) {
	w := 0
	for _, o := range sig.obs {
		if o != id {
			sig.obs[w] = o
			w++
		}
	}
	sig.obs = sig.obs[:w]
}

// enqueue marks node id for recomputation in the next wave.
func (m *Model) enqueue(id NodeID) {
	n := &m.nodes[id]
	if n.dead || n.off || m.dirty.Test(uint(id)) {
		return
	}
	m.dirty.Set(uint(id))
	m.next = append(m.next, id)
}
