// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package digsim

import "strings"

// maxGenerations bounds the number of waves a single Step may run
// before the circuit is declared unstable.
const maxGenerations = 1000

// An OscillationError is returned by Step when a circuit fails to
// settle. Signals holds the names of the signals still changing when
// the simulation gave up, sorted and without duplicates.
//
type OscillationError struct {
	Signals []string
}

func (e *OscillationError) Error() string {
	if len(e.Signals) == 0 {
		return "circuit oscillates"
	}
	return "circuit oscillates: unstable signals: " + strings.Join(e.Signals, ", ")
}
