// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package analyse

import "github.com/pkg/errors"

// Analysis preconditions. Run wraps these with context; use
// errors.Cause to test for them.
var (
	ErrNoInputs      = errors.New("circuit has no inputs")
	ErrNoOutputs     = errors.New("circuit has no outputs")
	ErrTooManyInputs = errors.New("too many inputs")
	ErrDuplicateName = errors.New("duplicate signal name")
	ErrNoClock       = errors.New("circuit has no clock")
	ErrManyClocks    = errors.New("more than one clock")
	ErrNotOnClock    = errors.New("flip-flop not driven by the clock")
	ErrStateful      = errors.New("stateful element cannot be analysed")
)
