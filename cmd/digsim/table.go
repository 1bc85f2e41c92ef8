// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/db47h/digsim/analyse"
)

// printTable writes t to stdout, warning when the rendering is wider
// than the terminal.
func printTable(t *analyse.TruthTable) error {
	if w := termWidth(); w > 0 {
		line := 1 // separator
		for _, n := range t.Vars() {
			line += len(n) + 1
		}
		for _, n := range t.Outputs() {
			line += len(n) + 1
		}
		if line > w {
			log.Warnf("table is %d columns wide, terminal only %d", line, w)
		}
	}
	return t.WriteText(os.Stdout)
}

// termWidth returns the width of the terminal attached to stdout, or 0.
func termWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
