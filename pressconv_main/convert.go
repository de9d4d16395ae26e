package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/b3nn0/baro/common"
	"github.com/b3nn0/baro/pressure"
)

const convertExample = `  # 1 standard atmosphere in pascal
  pressconv convert 1 --from atm --to Pa

  # a tyre pressure in every unit, digits grouped
  pressconv convert 32 --from psi --all --human

  # negative values go after --
  pressconv convert --from bar -- -0.25`

type ConvertOptions struct {
	Value float64
	From  string
	To    string
	All   bool
	Human bool

	Out io.Writer
}

func NewCommandConvert(out io.Writer) *cobra.Command {
	o := &ConvertOptions{Out: out}

	cmd := &cobra.Command{
		Use:     "convert VALUE",
		Short:   "Convert a value from one unit to another",
		Example: convertExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(args); err != nil {
				return err
			}
			return o.Run()
		},
	}
	cmd.Flags().StringVarP(&o.From, "from", "f", "", "unit of VALUE (default Pa)")
	cmd.Flags().StringVarP(&o.To, "to", "t", "", "target unit (default Pa)")
	cmd.Flags().BoolVarP(&o.All, "all", "a", false, "print VALUE in every unit")
	cmd.Flags().BoolVarP(&o.Human, "human", "H", false, "group digits")
	return cmd
}

func (o *ConvertOptions) Complete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected one value as an argument, got %q", args)
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("`%s` is not a number", args[0])
	}
	o.Value = v
	return nil
}

func (o *ConvertOptions) Run() error {
	p, err := pressure.New(o.Value, o.From)
	if err != nil {
		return err
	}

	if !o.All {
		line, err := o.format(p, o.To)
		if err != nil {
			return err
		}
		fmt.Fprintln(o.Out, line)
		return nil
	}

	w := tabwriter.NewWriter(o.Out, 0, 8, 2, ' ', 0)
	for _, u := range pressure.Units() {
		line, err := o.format(p, u.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", u.ID, line)
	}
	return w.Flush()
}

func (o *ConvertOptions) format(p *pressure.Pressure, to string) (string, error) {
	if !o.Human {
		return p.Format(to)
	}
	v, err := p.Value(to)
	if err != nil {
		return "", err
	}
	if to == "" {
		to = pressure.ReferenceUnit
	}
	u, err := pressure.Resolve(to)
	if err != nil {
		return "", err
	}
	return common.HumanizeValue(v) + " " + u.Symbol(), nil
}
