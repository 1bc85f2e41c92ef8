package digtest_test

import (
	"testing"

	dg "github.com/db47h/digsim"
	"github.com/db47h/digsim/digtest"
)

func halfAdder() *dg.Model {
	m := dg.New()
	a, b := m.Input("a"), m.Input("b")
	m.Output("s", m.Xor(a, b))
	m.Output("c", m.And(a, b))
	return m
}

func TestDrive(t *testing.T) {
	digtest.Drive(t, halfAdder(), []digtest.Vector{
		{Set: map[string]uint64{"a": 0, "b": 0}, Want: map[string]uint64{"s": 0, "c": 0}},
		{Set: map[string]uint64{"a": 1}, Want: map[string]uint64{"s": 1, "c": 0}},
		{Set: map[string]uint64{"b": 1}, Want: map[string]uint64{"s": 0, "c": 1}},
		{Set: map[string]uint64{"a": 0}, Want: map[string]uint64{"s": 1, "c": 0}},
	})
}

// Drive resolves clock and flip-flop signals by raw signal name.
func Test_drive_clocked(t *testing.T) {
	m := dg.New()
	clk := m.Clock("C")
	d := m.Input("d")
	q, _ := m.FlipFlopD("Q", d, clk)
	m.Output("q", q)
	digtest.Drive(t, m, []digtest.Vector{
		{Set: map[string]uint64{"d": 1}, Want: map[string]uint64{"q": 0}},
		{Set: map[string]uint64{"C": 1}, Want: map[string]uint64{"q": 1, "~Q": 0}},
		{Set: map[string]uint64{"C": 0, "d": 0}, Want: map[string]uint64{"q": 1}},
		{Set: map[string]uint64{"C": 1}, Want: map[string]uint64{"q": 0, "~Q": 1}},
	})
}

func TestCompareCircuits(t *testing.T) {
	digtest.CompareCircuits(t, halfAdder(), halfAdder())
}

func TestTrace(t *testing.T) {
	digtest.Trace(t, nil) // must not fail the test
}
