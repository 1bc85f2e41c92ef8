// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package digtest provides utilities for testing digsim circuits: a
// stimulus driver and truth table based equivalence checks.
//
package digtest

import (
	"sort"
	"testing"

	"github.com/pkg/errors"

	"github.com/db47h/digsim"
	"github.com/db47h/digsim/analyse"
)

// maxDiffs caps the number of rows reported by a table comparison.
const maxDiffs = 10

// A Vector is one step of a test sequence: the signals to set, by
// name, and the values expected once the circuit has settled again.
//
type Vector struct {
	Set  map[string]uint64
	Want map[string]uint64
}

// Drive initialises the model, runs it through the given vectors and
// reports every mismatch. Signal names resolve against the input and
// output records first, then against raw signal names, so clocks and
// flip-flop outputs can be driven and checked directly.
//
func Drive(t *testing.T, m *digsim.Model, vecs []Vector) {
	t.Helper()
	if err := m.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	for i, v := range vecs {
		for _, name := range sortedKeys(v.Set) {
			s := lookup(m, name)
			if s == digsim.NoSignal {
				t.Fatalf("vector %d: unknown signal %q", i, name)
			}
			m.Set(s, v.Set[name])
		}
		if err := m.Step(); err != nil {
			t.Fatalf("vector %d: %v", i, err)
		}
		for _, name := range sortedKeys(v.Want) {
			s := lookup(m, name)
			if s == digsim.NoSignal {
				t.Fatalf("vector %d: unknown signal %q", i, name)
			}
			if got := m.Value(s); got != v.Want[name] {
				t.Errorf("vector %d: %s = %d, want %d", i, name, got, v.Want[name])
			}
		}
	}
}

// CompareCircuits analyses both models and reports the rows where
// their truth tables differ.
//
func CompareCircuits(t *testing.T, got, want *digsim.Model) {
	t.Helper()
	tg, err := analyse.Run(got)
	if err != nil {
		t.Fatalf("analyse: %v", err)
	}
	tw, err := analyse.Run(want)
	if err != nil {
		t.Fatalf("analyse reference: %v", err)
	}
	CompareTables(t, tg, tw)
}

// CompareTables reports the rows where two truth tables differ. The
// tables must agree on variables and outputs.
//
func CompareTables(t *testing.T, got, want *analyse.TruthTable) {
	t.Helper()
	if gv, wv := got.Vars(), want.Vars(); !equalStrings(gv, wv) {
		t.Fatalf("variables: got %v, want %v", gv, wv)
	}
	outs := got.Outputs()
	if wo := want.Outputs(); !equalStrings(outs, wo) {
		t.Fatalf("outputs: got %v, want %v", outs, wo)
	}
	if got.Rows() != want.Rows() {
		t.Fatalf("rows: got %d, want %d", got.Rows(), want.Rows())
	}
	diffs := 0
	for r := 0; r < got.Rows(); r++ {
		for c := range outs {
			if got.Get(r, c) == want.Get(r, c) {
				continue
			}
			if diffs++; diffs > maxDiffs {
				t.Errorf("more rows differ, giving up")
				return
			}
			t.Errorf("row %d: %s = %v, want %v", r, outs[c], got.Get(r, c), want.Get(r, c))
		}
	}
}

// Trace fails the test with err. If err carries a stack trace, the
// trace is included.
//
func Trace(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		return
	}
	type tracer interface {
		StackTrace() errors.StackTrace
	}
	if st, ok := err.(tracer); ok {
		t.Fatalf("%v%+v", err, st.StackTrace())
	}
	t.Fatal(err)
}

// lookup resolves a name against the model records first, then against
// the signal names.
func lookup(m *digsim.Model, name string) digsim.SignalID {
	for _, r := range m.Inputs() {
		if r.Name == name {
			return r.Sig
		}
	}
	for _, r := range m.Outputs() {
		if r.Name == name {
			return r.Sig
		}
	}
	return m.Signal(name)
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
