// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import "github.com/db47h/digsim"

type sample struct {
	name  string
	desc  string
	build func() *digsim.Model
}

var samples = []*sample{
	{"xor", "exclusive or of two inputs", buildXor},
	{"mux", "2-way multiplexer", buildMux},
	{"halfadder", "1 bit half adder", buildHalfAdder},
	{"fulladder", "1 bit full adder", buildFullAdder},
	{"dff", "d flip-flop", buildDFF},
	{"jk", "jk flip-flop", buildJK},
	{"counter", "2 bit counter built from jk flip-flops", buildCounter},
	{"register", "2 bit register", buildRegister},
}

func findSample(name string) *sample {
	for _, s := range samples {
		if s.name == name {
			return s
		}
	}
	return nil
}

func buildXor() *digsim.Model {
	m := digsim.New()
	a, b := m.Input("a"), m.Input("b")
	m.Output("s", m.Xor(a, b))
	return m
}

func buildMux() *digsim.Model {
	m := digsim.New()
	sel, a, b := m.Input("sel"), m.Input("a"), m.Input("b")
	m.Output("s", m.Or(m.And(a, m.Not(sel)), m.And(b, sel)))
	return m
}

func buildHalfAdder() *digsim.Model {
	m := digsim.New()
	a, b := m.Input("a"), m.Input("b")
	m.Output("s", m.Xor(a, b))
	m.Output("c", m.And(a, b))
	return m
}

func buildFullAdder() *digsim.Model {
	m := digsim.New()
	a, b, cin := m.Input("a"), m.Input("b"), m.Input("cin")
	s1 := m.Xor(a, b)
	c1 := m.And(a, b)
	m.Output("s", m.Xor(s1, cin))
	m.Output("cout", m.Or(c1, m.And(s1, cin)))
	return m
}

func buildDFF() *digsim.Model {
	m := digsim.New()
	clk := m.Clock("C")
	d := m.Input("d")
	q, nq := m.FlipFlopD("Q", d, clk)
	m.Output("q", q)
	m.Output("nq", nq)
	return m
}

func buildJK() *digsim.Model {
	m := digsim.New()
	clk := m.Clock("C")
	j, k := m.Input("j"), m.Input("k")
	q, _ := m.FlipFlopJK("Q", j, k, clk)
	m.Output("q", q)
	return m
}

// buildCounter chains two jk flip-flops with J = K: the first toggles
// on every clock, the second only when the first reads 1.
func buildCounter() *digsim.Model {
	m := digsim.New()
	clk := m.Clock("C")
	one := m.Const(1, 1)
	q0, _ := m.FlipFlopJK("Q0", one, one, clk)
	q1, _ := m.FlipFlopJK("Q1", q0, q0, clk)
	m.Output("Q0", q0)
	m.Output("Q1", q1)
	return m
}

func buildRegister() *digsim.Model {
	m := digsim.New()
	clk := m.Clock("C")
	d := m.InputN("D", 2)
	q, _ := m.FlipFlopD("R", d, clk)
	m.Output("S", q)
	return m
}
