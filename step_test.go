package digsim_test

import (
	"testing"

	"github.com/pkg/errors"

	dg "github.com/db47h/digsim"
)

// A single Step drains the whole propagation, however deep the circuit.
func Test_propagation(t *testing.T) {
	m := dg.New()
	a := m.Input("a")
	s := a
	for i := 0; i < 7; i++ {
		s = m.Not(s)
	}
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	for _, v := range []uint64{1, 0, 1} {
		m.Set(a, v)
		if err := m.Step(); err != nil {
			t.Fatal(err)
		}
		if got := m.Value(s); got != v^1 {
			t.Errorf("chain(%d) = %d, want %d", v, got, v^1)
		}
	}
}

// Stable feedback loops settle: once a latches the or gate high, it
// keeps itself high.
func Test_feedback(t *testing.T) {
	m := dg.New()
	a := m.Input("a")
	s := m.NewSignal("s", 1)
	if _, err := m.Add(dg.Node{Kind: dg.Or, In: []dg.SignalID{a, s}, Out: []dg.SignalID{s}}); err != nil {
		t.Fatal(err)
	}
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	if m.Bool(s) {
		t.Fatal("latch set before a")
	}
	m.Set(a, 1)
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if !m.Bool(s) {
		t.Fatal("latch not set")
	}
	m.Set(a, 0)
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if !m.Bool(s) {
		t.Fatal("latch did not hold")
	}
}

func Test_oscillation(t *testing.T) {
	m := dg.New()
	s := m.NewSignal("osc", 1)
	if _, err := m.Add(dg.Node{Kind: dg.Not, In: []dg.SignalID{s}, Out: []dg.SignalID{s}}); err != nil {
		t.Fatal(err)
	}
	err := m.Init()
	oe, ok := errors.Cause(err).(*dg.OscillationError)
	if !ok {
		t.Fatalf("got %v, want oscillation error", err)
	}
	if len(oe.Signals) != 1 || oe.Signals[0] != "osc" {
		t.Errorf("unstable signals = %v, want [osc]", oe.Signals)
	}
	// the model is left quiescent
	if err := m.Step(); err != nil {
		t.Errorf("Step after oscillation: %v", err)
	}
}

// The edge triggered latch scenario: (C, D) stimulus pairs against the
// expected (Q, ~Q) outputs.
func Test_latch(t *testing.T) {
	m := dg.New()
	c := m.Clock("C")
	d := m.Input("D")
	q, nq := m.FlipFlopD("Q", d, c)
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	td := []struct {
		c, d, q, nq uint64
	}{
		{1, 0, 0, 1},
		{0, 0, 0, 1},
		{0, 1, 0, 1},
		{0, 0, 0, 1},
		{1, 1, 1, 0},
		{0, 1, 1, 0},
		{0, 0, 1, 0},
		{1, 0, 0, 1},
		{0, 0, 0, 1},
	}
	for i, s := range td {
		m.Set(c, s.c)
		m.Set(d, s.d)
		if err := m.Step(); err != nil {
			t.Fatal(err)
		}
		if got := m.Value(q); got != s.q {
			t.Errorf("step %d (C=%d, D=%d): Q = %d, want %d", i, s.c, s.d, got, s.q)
		}
		if got := m.Value(nq); got != s.nq {
			t.Errorf("step %d (C=%d, D=%d): ~Q = %d, want %d", i, s.c, s.d, got, s.nq)
		}
	}
}

// Setting a signal to its current value must not wake its observers:
// an unstable loop behind a gate only runs when the gate input really
// changes.
func Test_no_change_no_work(t *testing.T) {
	m := dg.New()
	a := m.Input("a")
	s := m.NewSignal("s", 1)
	if _, err := m.Add(dg.Node{Kind: dg.Xor, In: []dg.SignalID{a, s}, Out: []dg.SignalID{s}}); err != nil {
		t.Fatal(err)
	}
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	// a is already 0: this must not start the xor loop
	m.Set(a, 0)
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	m.Set(a, 1)
	err := m.Step()
	if _, ok := errors.Cause(err).(*dg.OscillationError); !ok {
		t.Fatalf("got %v, want oscillation error", err)
	}
}
