// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package analyse

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/db47h/digsim"
)

func pins(ids ...digsim.SignalID) []digsim.SignalID { return ids }

// rewriteT replaces every t flip-flop. Without an enable input the
// flip-flop becomes a d flip-flop fed back from its own ~Q; with an
// enable input it becomes a jk flip-flop with J = K = T, picked up by
// the jk rewrite that runs next.
func (a *analyser) rewriteT() error {
	ids := a.m.FindNodes(digsim.FlipFlopT)
	for _, id := range ids {
		n := a.m.Node(id)
		var repl digsim.Node
		if t := n.T(); t == digsim.NoSignal {
			repl = digsim.Node{
				Kind:  digsim.FlipFlopD,
				Label: n.Label,
				Init:  n.Init,
				In:    pins(n.NQ(), n.C()),
				Out:   pins(n.Q(), n.NQ()),
			}
		} else {
			repl = digsim.Node{
				Kind:  digsim.FlipFlopJK,
				Label: n.Label,
				Init:  n.Init,
				In:    pins(t, n.C(), t),
				Out:   pins(n.Q(), n.NQ()),
			}
		}
		if _, err := a.m.Replace(id, repl); err != nil {
			return err
		}
	}
	if len(ids) > 0 {
		log.Debugf("rewrote %d t flip-flop(s)", len(ids))
	}
	return nil
}

// rewriteJK replaces every jk flip-flop with a d flip-flop computing
// D = J&~Q | ~K&Q from the flip-flop's own Q and ~Q outputs.
func (a *analyser) rewriteJK() error {
	m := a.m
	ids := m.FindNodes(digsim.FlipFlopJK)
	for _, id := range ids {
		n := m.Node(id)
		kn := m.NewSignal("", 1)
		set := m.NewSignal("", 1)
		hold := m.NewSignal("", 1)
		d := m.NewSignal("", 1)
		for _, g := range []digsim.Node{
			{Kind: digsim.Not, In: pins(n.K()), Out: pins(kn)},
			{Kind: digsim.And, In: pins(n.J(), n.NQ()), Out: pins(set)},
			{Kind: digsim.And, In: pins(kn, n.Q()), Out: pins(hold)},
			{Kind: digsim.Or, In: pins(set, hold), Out: pins(d)},
		} {
			if _, err := m.Add(g); err != nil {
				return errors.Wrapf(err, "flip-flop %q", n.Label)
			}
		}
		repl := digsim.Node{
			Kind:  digsim.FlipFlopD,
			Label: n.Label,
			Init:  n.Init,
			In:    pins(d, n.C()),
			Out:   pins(n.Q(), n.NQ()),
		}
		if _, err := m.Replace(id, repl); err != nil {
			return err
		}
	}
	if len(ids) > 0 {
		log.Debugf("rewrote %d jk flip-flop(s)", len(ids))
	}
	return nil
}

// binaryInputs rewrites every multi-bit input into 1 bit inputs named
// <name>0 (least significant) through <name><W-1>, driving the original
// signal through a combiner.
func (a *analyser) binaryInputs() error {
	m := a.m
	var ins []digsim.Record
	for _, rec := range a.ins {
		w := m.Bits(rec.Sig)
		if w == 1 {
			ins = append(ins, rec)
			continue
		}
		bits := make([]digsim.SignalID, w)
		for i := range bits {
			s := m.NewSignal(rec.Name+strconv.Itoa(i), 1)
			bits[i] = s
			ins = append(ins, digsim.Record{Name: m.Name(s), Sig: s, Pin: rec.Pin})
		}
		if _, err := m.Add(digsim.Node{Kind: digsim.Splitter, In: bits, Out: pins(rec.Sig)}); err != nil {
			return errors.Wrapf(err, "input %s", rec.Name)
		}
	}
	a.ins = ins
	return nil
}

// binaryOutputs rewrites every multi-bit output into 1 bit outputs
// named <name>0 (least significant) through <name><W-1>, driven from
// the original signal through a splitter.
func (a *analyser) binaryOutputs() error {
	m := a.m
	var outs []digsim.Record
	for _, rec := range a.outs {
		w := m.Bits(rec.Sig)
		if w == 1 {
			outs = append(outs, rec)
			continue
		}
		bits := make([]digsim.SignalID, w)
		for i := range bits {
			s := m.NewSignal(rec.Name+strconv.Itoa(i), 1)
			bits[i] = s
			outs = append(outs, digsim.Record{Name: m.Name(s), Sig: s, Pin: rec.Pin})
		}
		if _, err := m.Add(digsim.Node{Kind: digsim.Splitter, In: pins(rec.Sig), Out: bits}); err != nil {
			return errors.Wrapf(err, "output %s", rec.Name)
		}
	}
	a.outs = outs
	return nil
}

// checkUnique verifies that no two inputs share a name.
func (a *analyser) checkUnique() error {
	seen := make(map[string]bool, len(a.ins))
	for _, rec := range a.ins {
		if seen[rec.Name] {
			return errors.Wrap(ErrDuplicateName, rec.Name)
		}
		seen[rec.Name] = true
	}
	return nil
}

// checkStateful verifies that after the rewrites, d flip-flops are the
// only stateful elements left.
func (a *analyser) checkStateful() error {
	for _, k := range []digsim.Kind{digsim.FlipFlopJK, digsim.FlipFlopT} {
		if ids := a.m.FindNodes(k); len(ids) > 0 {
			return errors.Wrapf(ErrStateful, "%d %s node(s)", len(ids), k)
		}
	}
	return nil
}

// singleClock returns the clock signal, requiring exactly one clock
// node in the model.
func (a *analyser) singleClock() (digsim.SignalID, error) {
	clocks := a.m.FindNodes(digsim.Clock)
	switch len(clocks) {
	case 0:
		return digsim.NoSignal, ErrNoClock
	case 1:
		n := a.m.Node(clocks[0])
		return n.C(), nil
	}
	return digsim.NoSignal, errors.Wrapf(ErrManyClocks, "%d clocks", len(clocks))
}

// checkClock verifies that flip-flop n is clocked by the circuit clock.
func (a *analyser) checkClock(n *digsim.Node) error {
	if n.C() != a.clock {
		return errors.Wrapf(ErrNotOnClock, "flip-flop %q", n.Label)
	}
	return nil
}

// hasInput reports whether an input record carries the given name.
func (a *analyser) hasInput(name string) bool {
	for _, rec := range a.ins {
		if rec.Name == name {
			return true
		}
	}
	return false
}

// uniqueName names an unlabelled flip-flop: if an output record is
// wired to its Q the flip-flop takes that name, otherwise it gets a
// fresh Z<n> name not colliding with any input.
func (a *analyser) uniqueName(n *digsim.Node) string {
	for _, rec := range a.outs {
		if rec.Sig == n.Q() {
			return rec.Name
		}
	}
	for {
		name := "Z" + strconv.Itoa(a.zseq)
		a.zseq++
		if !a.hasInput(name) {
			return name
		}
	}
}

// splitMultiBit rewrites every multi-bit d flip-flop into 1 bit
// flip-flops labelled <label><W-1> (most significant) through
// <label>0, sharing the original clock. The original Q and ~Q signals
// stay driven through a combiner and an inverter. It returns the d
// flip-flop list with each original replaced by its per-bit
// flip-flops, most significant first.
func (a *analyser) splitMultiBit(ffs []digsim.NodeID) ([]digsim.NodeID, error) {
	m := a.m
	out := ffs[:0:0]
	for _, id := range ffs {
		n := m.Node(id)
		w := m.Bits(n.Q())
		if w == 1 {
			out = append(out, id)
			continue
		}
		if err := a.checkClock(&n); err != nil {
			return nil, err
		}
		label := n.Label
		if label == "" {
			label = a.uniqueName(&n)
		}
		d, c, q, nq, init := n.D(), n.C(), n.Q(), n.NQ(), n.Init
		m.Remove(id)
		dbits := make([]digsim.SignalID, w)
		qbits := make([]digsim.SignalID, w)
		for i := range dbits {
			dbits[i] = m.NewSignal("", 1)
			qbits[i] = m.NewSignal(label+strconv.Itoa(i), 1)
		}
		if _, err := m.Add(digsim.Node{Kind: digsim.Splitter, In: pins(d), Out: dbits}); err != nil {
			return nil, errors.Wrapf(err, "flip-flop %q", label)
		}
		for i := w - 1; i >= 0; i-- {
			ff, err := m.Add(digsim.Node{
				Kind:  digsim.FlipFlopD,
				Label: label + strconv.Itoa(i),
				Init:  init >> uint(i) & 1,
				In:    pins(dbits[i], c),
				Out:   pins(qbits[i], m.NewSignal("", 1)),
			})
			if err != nil {
				return nil, errors.Wrapf(err, "flip-flop %q", label)
			}
			out = append(out, ff)
		}
		if _, err := m.Add(digsim.Node{Kind: digsim.Splitter, In: qbits, Out: pins(q)}); err != nil {
			return nil, errors.Wrapf(err, "flip-flop %q", label)
		}
		if _, err := m.Add(digsim.Node{Kind: digsim.Not, In: pins(q), Out: pins(nq)}); err != nil {
			return nil, errors.Wrapf(err, "flip-flop %q", label)
		}
		log.Debugf("split %d bit flip-flop %q", w, label)
	}
	return out, nil
}

// sequential prepares the clocked part of the circuit for enumeration.
// Each d flip-flop is disabled; its Q output becomes a table variable
// named after the flip-flop and its D input becomes a next state
// output named <label>+1, inserted in front of the circuit outputs.
// The ~Q output keeps following Q through an inverter.
func (a *analyser) sequential(ffs []digsim.NodeID) error {
	m := a.m
	state := 0
	for _, id := range ffs {
		n := m.Node(id)
		if err := a.checkClock(&n); err != nil {
			return err
		}
		label := n.Label
		if label == "" {
			label = a.uniqueName(&n)
		}
		if !strings.HasSuffix(label, "n") {
			label += "n"
		}
		a.outs = append(a.outs, digsim.Record{})
		copy(a.outs[state+1:], a.outs[state:])
		a.outs[state] = digsim.Record{Name: label + "+1", Sig: n.D()}
		state++
		if a.hasInput(label) {
			return errors.Wrap(ErrDuplicateName, label)
		}
		a.ins = append(a.ins, digsim.Record{Name: label, Sig: n.Q()})
		m.Disable(id)
		if _, err := m.Add(digsim.Node{Kind: digsim.Not, In: pins(n.Q()), Out: pins(n.NQ())}); err != nil {
			return errors.Wrapf(err, "flip-flop %q", label)
		}
	}
	return nil
}
