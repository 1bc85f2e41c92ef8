/*
Package digsim provides an event driven simulation core for digital
logic circuits, together with tools to rewrite circuits into canonical
form and to enumerate their truth tables (see the analyse package).

A circuit is built inside a Model: a flat arena of signals and nodes
addressed by integer handles. Signals carry values up to 64 bits wide
and keep track of the nodes observing them; nodes compute a function of
their input signals and drive their output signals. The set of node
kinds is closed, which keeps evaluation a simple switch and lets
rewriting passes reason about every case.

Changing a signal, either from the outside with Set or from a node
being evaluated, marks its observers for recomputation. Step drains
marked nodes wave by wave until no signal changes anymore. Each wave
picks up only the nodes woken by the previous one, so a change
propagates through the circuit in breadth first order regardless of
node insertion order. Circuits with unstable feedback never settle;
Step gives up after a fixed number of waves and returns an
OscillationError naming the offending signals.

Models are wired with the builder methods (Input, And, FlipFlopD, ...)
which panic on structural errors, or with Add which returns them. A
minimal gate looks like this:

	m := digsim.New()
	a, b := m.Input("a"), m.Input("b")
	m.Output("out", m.Xor(a, b))
	m.Init()

Flip-flops latch their data input on the rising edge of their clock
input and expose both the latched state and its complement. Clock
signals are declared with Clock and driven by the caller; the model
itself has no notion of time beyond settling between two pokes.
*/
package digsim
