// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package analyse builds truth tables from digsim models.

Run first rewrites the model into canonical form: t and jk flip-flops
become d flip-flops computing the same transition, and multi-bit
inputs, outputs and flip-flops are decomposed into 1 bit ones. Clocked
circuits are then unrolled by one step: every d flip-flop is frozen,
its state becomes an extra table variable and its data input an extra
next state column. What remains is a pure function of the table
variables, enumerated row by row into a TruthTable.

The rewrites modify the model in place; a model passed to Run should
not be simulated afterwards.
*/
package analyse

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/db47h/digsim"
)

// MaxInputs is the largest number of table variables, free inputs and
// flip-flop states combined, that Run accepts. The table grows with
// the power of two of this number.
const MaxInputs = 24

// analyser carries the analysis state: the model being rewritten, the
// working copies of its input and output records, and the sequence
// number for synthesized Z<n> names.
type analyser struct {
	m       *digsim.Model
	ins     []digsim.Record
	outs    []digsim.Record
	clock   digsim.SignalID
	zseq    int
	pinless int // records without a pin number, counted before rewriting
}

// Run rewrites model m into canonical form and enumerates its truth
// table. The table variables are the 1 bit circuit inputs followed by
// the flip-flop states; the columns are the flip-flop next states
// followed by the 1 bit circuit outputs.
//
func Run(m *digsim.Model) (*TruthTable, error) {
	a := &analyser{m: m, ins: m.Inputs(), outs: m.Outputs(), clock: digsim.NoSignal}
	for _, rec := range append(m.Inputs(), m.Outputs()...) {
		if rec.Pin == "" {
			a.pinless++
		}
	}
	if err := a.rewriteT(); err != nil {
		return nil, err
	}
	if err := a.rewriteJK(); err != nil {
		return nil, err
	}
	if err := a.binaryInputs(); err != nil {
		return nil, err
	}
	if err := a.checkUnique(); err != nil {
		return nil, err
	}
	if err := a.binaryOutputs(); err != nil {
		return nil, err
	}
	if err := a.checkStateful(); err != nil {
		return nil, err
	}
	ffs := a.m.FindNodes(digsim.FlipFlopD)
	if len(ffs) > 0 {
		clk, err := a.singleClock()
		if err != nil {
			return nil, err
		}
		a.clock = clk
		if ffs, err = a.splitMultiBit(ffs); err != nil {
			return nil, err
		}
		if err = a.sequential(ffs); err != nil {
			return nil, err
		}
	}
	return a.enumerate()
}

// enumerate drives every assignment of the table variables through the
// settled model and collects the outputs.
func (a *analyser) enumerate() (*TruthTable, error) {
	m := a.m
	n := len(a.ins)
	if n == 0 {
		return nil, ErrNoInputs
	}
	if n > MaxInputs {
		return nil, errors.Wrapf(ErrTooManyInputs, "%d variables, max %d", n, MaxInputs)
	}
	if len(a.outs) == 0 {
		return nil, ErrNoOutputs
	}
	if err := m.Init(); err != nil {
		return nil, errors.Wrap(err, "initial settle")
	}
	rows := 1 << uint(n)
	log.Debugf("enumerating %d rows over %d variables, %d outputs", rows, n, len(a.outs))
	start := time.Now()
	t := newTable(a.ins, a.outs, rows, a.pinless)
	for r := 0; r < rows; r++ {
		for i, rec := range a.ins {
			m.Set(rec.Sig, uint64(r>>uint(n-1-i)&1))
		}
		if err := m.Step(); err != nil {
			return nil, errors.Wrapf(err, "row %d", r)
		}
		for c, rec := range a.outs {
			t.set(r, c, m.Bool(rec.Sig))
		}
	}
	log.Debugf("enumeration done in %s", time.Since(start))
	return t, nil
}
