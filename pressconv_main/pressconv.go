/*
	Copyright (c) 2024 The baro Authors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	pressconv.go: Command line pressure unit converter and data log plotter.
*/

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const pressconvLong = `Convert pressure values between Pa, bar, psi, atm, at and Torr.

Units are accepted by id, full name or symbol, case sensitive. The pascal is
used when no unit is given.`

func NewCommandPressconv(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pressconv",
		Short:         "Pressure unit converter",
		Long:          pressconvLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)

	cmd.AddCommand(NewCommandConvert(out))
	cmd.AddCommand(NewCommandUnits(out))
	cmd.AddCommand(NewCommandUnit(out))
	cmd.AddCommand(NewCommandPlot(out))
	cmd.AddCommand(NewCommandRead(out))
	return cmd
}

func main() {
	if err := NewCommandPressconv(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
