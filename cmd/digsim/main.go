// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command digsim simulates built-in sample circuits and prints their
// truth tables.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/db47h/digsim"
	"github.com/db47h/digsim/analyse"
)

var rootCmd = &cobra.Command{
	Use:   "digsim",
	Short: "digital logic circuit simulation and analysis",
	Long: `digsim simulates small digital logic circuits and derives their truth
tables. Clocked circuits are analysed as state transition tables: each
flip-flop contributes a state variable and a next state column.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			log.SetLevel(log.DebugLevel)
		}
	},
}

var tableCmd = &cobra.Command{
	Use:   "table <sample>",
	Short: "print the truth table of a sample circuit",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		s := findSample(args[0])
		if s == nil {
			return errors.Errorf("unknown sample %q", args[0])
		}
		t, err := analyse.Run(s.build())
		if err != nil {
			return errors.Wrap(err, args[0])
		}
		return printTable(t)
	},
}

var runCmd = &cobra.Command{
	Use:   "run <sample>",
	Short: "clock a sample circuit and print its outputs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := findSample(args[0])
		if s == nil {
			return errors.Errorf("unknown sample %q", args[0])
		}
		cycles, _ := cmd.Flags().GetInt("cycles")
		return run(s, cycles)
	},
}

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "list the sample circuits",
	Args:  cobra.NoArgs,
	Run: func(*cobra.Command, []string) {
		for _, s := range samples {
			fmt.Printf("%-12s %s\n", s.name, s.desc)
		}
	},
}

// run clocks the sample for the given number of cycles and prints the
// outputs after each falling edge.
func run(s *sample, cycles int) error {
	m := s.build()
	if err := m.Init(); err != nil {
		return err
	}
	clk := m.Signal("C")
	if clk == digsim.NoSignal {
		return errors.Errorf("sample %q has no clock; try the table command", s.name)
	}
	outs := m.Outputs()
	fmt.Print("cycle")
	for _, o := range outs {
		fmt.Printf(" %s", o.Name)
	}
	fmt.Println()
	for i := 0; i < cycles; i++ {
		m.Set(clk, 1)
		if err := m.Step(); err != nil {
			return err
		}
		m.Set(clk, 0)
		if err := m.Step(); err != nil {
			return err
		}
		fmt.Printf("%5d", i)
		for _, o := range outs {
			fmt.Printf(" %*d", len(o.Name), m.Value(o.Sig))
		}
		fmt.Println()
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	runCmd.Flags().IntP("cycles", "n", 8, "number of clock cycles")
	rootCmd.AddCommand(tableCmd, runCmd, samplesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
