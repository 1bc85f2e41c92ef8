// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package analyse

import (
	"fmt"
	"io"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/db47h/digsim"
)

// A TruthTable holds the exhaustive behaviour of a circuit: one row per
// assignment of its variables, one column per output. Row r assigns
// variable i the bit (r >> (n-1-i)) & 1 of r, n being the number of
// variables: variable 0 is the most significant bit of the row index,
// and row 0 sets every variable to 0.
//
type TruthTable struct {
	vars    []digsim.Record
	outs    []digsim.Record
	rows    int
	pinless int              // circuit records without a pin number
	cols    []*bitset.BitSet // one per output, bit r holds the row r value
}

func newTable(vars, outs []digsim.Record, rows, pinless int) *TruthTable {
	cols := make([]*bitset.BitSet, len(outs))
	for i := range cols {
		cols[i] = bitset.New(uint(rows))
	}
	return &TruthTable{vars: vars, outs: outs, rows: rows, pinless: pinless, cols: cols}
}

func (t *TruthTable) set(row, col int, v bool) {
	t.cols[col].SetTo(uint(row), v)
}

// Rows returns the number of rows in the table.
//
func (t *TruthTable) Rows() int { return t.rows }

// Vars returns the variable names, in column order.
//
func (t *TruthTable) Vars() []string {
	names := make([]string, len(t.vars))
	for i, r := range t.vars {
		names[i] = r.Name
	}
	return names
}

// Outputs returns the output names, in column order.
//
func (t *TruthTable) Outputs() []string {
	names := make([]string, len(t.outs))
	for i, r := range t.outs {
		names[i] = r.Name
	}
	return names
}

// Input returns the value assigned to variable i in row row.
//
func (t *TruthTable) Input(row, i int) bool {
	return row>>(uint(len(t.vars)-1-i))&1 != 0
}

// Get returns the value of output col in row row.
//
func (t *TruthTable) Get(row, col int) bool {
	return t.cols[col].Test(uint(row))
}

// Pin returns the pin number assigned to the named variable or output,
// or the empty string.
//
func (t *TruthTable) Pin(name string) string {
	for _, r := range t.vars {
		if r.Name == name {
			return r.Pin
		}
	}
	for _, r := range t.outs {
		if r.Name == name {
			return r.Pin
		}
	}
	return ""
}

// PinsWithoutNumber returns the number of circuit inputs and outputs
// that have no pin number assigned. The count reflects the records as
// the circuit declared them: columns synthesized by the analysis, like
// flip-flop state variables, do not add to it.
//
func (t *TruthTable) PinsWithoutNumber() int { return t.pinless }

// Equal reports whether two tables describe the same behaviour: same
// variable and output names in the same order and identical rows. Pin
// numbers are ignored.
//
func (t *TruthTable) Equal(o *TruthTable) bool {
	if t.rows != o.rows || len(t.vars) != len(o.vars) || len(t.outs) != len(o.outs) {
		return false
	}
	for i := range t.vars {
		if t.vars[i].Name != o.vars[i].Name {
			return false
		}
	}
	for i := range t.outs {
		if t.outs[i].Name != o.outs[i].Name {
			return false
		}
	}
	for i := range t.cols {
		if !t.cols[i].Equal(o.cols[i]) {
			return false
		}
	}
	return true
}

// WriteText writes the table to w, one line per row:
//
//	A B | S C
//	0 0 | 0 0
//	0 1 | 1 0
//
func (t *TruthTable) WriteText(w io.Writer) error {
	names := make([]string, 0, len(t.vars)+len(t.outs))
	names = append(names, t.Vars()...)
	names = append(names, t.Outputs()...)
	if _, err := fmt.Fprintf(w, "%s | %s\n",
		strings.Join(names[:len(t.vars)], " "),
		strings.Join(names[len(t.vars):], " ")); err != nil {
		return err
	}
	cell := func(name string, v bool) string {
		b := "0"
		if v {
			b = "1"
		}
		if len(name) > 1 {
			b = strings.Repeat(" ", len(name)-1) + b
		}
		return b
	}
	row := make([]string, 0, len(names))
	for r := 0; r < t.rows; r++ {
		row = row[:0]
		for i, name := range names[:len(t.vars)] {
			row = append(row, cell(name, t.Input(r, i)))
		}
		out := make([]string, 0, len(t.outs))
		for i, name := range names[len(t.vars):] {
			out = append(out, cell(name, t.Get(r, i)))
		}
		if _, err := fmt.Fprintf(w, "%s | %s\n",
			strings.Join(row, " "), strings.Join(out, " ")); err != nil {
			return err
		}
	}
	return nil
}

// String renders the table as returned by WriteText.
//
func (t *TruthTable) String() string {
	var sb strings.Builder
	_ = t.WriteText(&sb)
	return sb.String()
}
