package digsim_test

import (
	"testing"

	dg "github.com/db47h/digsim"
)

// tick pulses the clock signal through a full cycle.
func tick(t *testing.T, m *dg.Model, clk dg.SignalID) {
	t.Helper()
	m.Set(clk, 1)
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	m.Set(clk, 0)
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
}

func TestFlipFlopD(t *testing.T) {
	for _, bits := range []int{1, 4, 16, 64} {
		m := dg.New()
		clk := m.Clock("C")
		d := m.NewSignal("d", bits)
		q, nq := m.FlipFlopD("Q", d, clk)
		if err := m.Init(); err != nil {
			t.Fatal(err)
		}
		mask := ^uint64(0) >> (64 - uint(bits))
		for _, v := range []uint64{0, 0xa5a5a5a5a5a5a5a5, mask, 1} {
			m.Set(d, v)
			if err := m.Step(); err != nil {
				t.Fatal(err)
			}
			m.Set(clk, 1)
			if err := m.Step(); err != nil {
				t.Fatal(err)
			}
			if got := m.Value(q); got != v&mask {
				t.Errorf("%d bits: Q = %x, want %x", bits, got, v&mask)
			}
			if got := m.Value(nq); got != ^v&mask {
				t.Errorf("%d bits: ~Q = %x, want %x", bits, got, ^v&mask)
			}
			m.Set(clk, 0)
			if err := m.Step(); err != nil {
				t.Fatal(err)
			}
		}
	}
}

// The data input must not be latched while the clock is high or on the
// falling edge.
func Test_dff_edge_only(t *testing.T) {
	m := dg.New()
	clk := m.Clock("C")
	d := m.Input("d")
	q, _ := m.FlipFlopD("Q", d, clk)
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	m.Set(clk, 1)
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	// clock is high: changing d must not show on q
	m.Set(d, 1)
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if m.Bool(q) {
		t.Error("Q latched while clock high")
	}
	// falling edge must not latch either
	m.Set(clk, 0)
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if m.Bool(q) {
		t.Error("Q latched on falling edge")
	}
	tick(t, m, clk)
	if !m.Bool(q) {
		t.Error("Q not latched on rising edge")
	}
}

func TestFlipFlopJK(t *testing.T) {
	m := dg.New()
	clk := m.Clock("C")
	j, k := m.Input("j"), m.Input("k")
	q, nq := m.FlipFlopJK("Q", j, k, clk)
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	td := []struct {
		j, k uint64
		want uint64
	}{
		{1, 0, 1}, // set
		{0, 0, 1}, // hold
		{1, 1, 0}, // toggle
		{1, 1, 1}, // toggle
		{0, 1, 0}, // reset
		{0, 0, 0}, // hold
	}
	for i, s := range td {
		m.Set(j, s.j)
		m.Set(k, s.k)
		tick(t, m, clk)
		if got := m.Value(q); got != s.want {
			t.Errorf("step %d: j=%d k=%d: Q = %d, want %d", i, s.j, s.k, got, s.want)
		}
		if got := m.Value(nq); got != s.want^1 {
			t.Errorf("step %d: j=%d k=%d: ~Q = %d, want %d", i, s.j, s.k, got, s.want^1)
		}
	}
}

func TestFlipFlopT(t *testing.T) {
	m := dg.New()
	clk := m.Clock("C")
	q, _ := m.FlipFlopT("Q", clk)
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	want := uint64(0)
	for i := 0; i < 5; i++ {
		tick(t, m, clk)
		want ^= 1
		if got := m.Value(q); got != want {
			t.Errorf("cycle %d: Q = %d, want %d", i, got, want)
		}
	}
}

func Test_tff_enable(t *testing.T) {
	m := dg.New()
	clk := m.Clock("C")
	en := m.Input("en")
	q, _ := m.FlipFlopTE("Q", en, clk)
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	td := []struct {
		en, want uint64
	}{
		{0, 0},
		{1, 1},
		{1, 0},
		{0, 0},
		{1, 1},
	}
	for i, s := range td {
		m.Set(en, s.en)
		tick(t, m, clk)
		if got := m.Value(q); got != s.want {
			t.Errorf("cycle %d: en=%d: Q = %d, want %d", i, s.en, got, s.want)
		}
	}
}

// Flip-flops start in their configured initial state after Init.
func Test_ff_init_state(t *testing.T) {
	m := dg.New()
	clk := m.Clock("C")
	d := m.NewSignal("d", 4)
	q := m.NewSignal("q", 4)
	nq := m.NewSignal("nq", 4)
	if _, err := m.Add(dg.Node{
		Kind:  dg.FlipFlopD,
		Label: "R",
		Init:  0b1010,
		In:    []dg.SignalID{d, clk},
		Out:   []dg.SignalID{q, nq},
	}); err != nil {
		t.Fatal(err)
	}
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	if got := m.Value(q); got != 0b1010 {
		t.Errorf("Q = %04b, want 1010", got)
	}
	if got := m.Value(nq); got != 0b0101 {
		t.Errorf("~Q = %04b, want 0101", got)
	}
	// Init resets state after the flip-flop ran
	m.Set(d, 0b1111)
	tick(t, m, clk)
	if got := m.Value(q); got != 0b1111 {
		t.Errorf("Q = %04b, want 1111", got)
	}
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	if got := m.Value(q); got != 0b1010 {
		t.Errorf("Q after second Init = %04b, want 1010", got)
	}
}
