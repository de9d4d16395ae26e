package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/b3nn0/baro/pressure"
)

func NewCommandUnits(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List the supported units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printUnits(out, pressure.Units())
		},
	}
}

func NewCommandUnit(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:     "unit ALIAS",
		Short:   "Show the unit an id, name or symbol resolves to",
		Example: "  pressconv unit \"Pound Per Square Inch\"",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := pressure.Describe(args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(out, 0, 8, 1, ' ', 0)
			fmt.Fprintf(w, "ID:\t%s\n", meta.ID)
			fmt.Fprintf(w, "Names:\t%s\n", strings.Join(meta.Names, ", "))
			fmt.Fprintf(w, "Symbols:\t%s\n", strings.Join(meta.Symbols, ", "))
			fmt.Fprintf(w, "Reference:\t%t\n", meta.IsReference)
			return w.Flush()
		},
	}
}

func printUnits(out io.Writer, units []pressure.UnitMeta) error {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAMES\tSYMBOLS\tREFERENCE")
	for _, u := range units {
		ref := ""
		if u.IsReference {
			ref = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, strings.Join(u.Names, ", "), strings.Join(u.Symbols, ", "), ref)
	}
	return w.Flush()
}
