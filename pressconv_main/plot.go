package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/b3nn0/baro/chart"
	"github.com/b3nn0/baro/common"
	"github.com/b3nn0/baro/datalog"
	"github.com/b3nn0/baro/pressure"
)

type PlotOptions struct {
	DB    string
	Unit  string
	Since time.Duration
	Path  string

	Out io.Writer
	now func() time.Time
}

func NewCommandPlot(out io.Writer) *cobra.Command {
	o := &PlotOptions{Out: out, now: time.Now}

	cmd := &cobra.Command{
		Use:     "plot",
		Short:   "Plot the pressure history recorded by barod",
		Example: "  pressconv plot --db /var/lib/barod/barod.db --unit Torr --since 72h --out week.png",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run()
		},
	}
	cmd.Flags().StringVar(&o.DB, "db", "", "barod data log")
	cmd.Flags().StringVarP(&o.Unit, "unit", "u", "bar", "unit of the y axis")
	cmd.Flags().DurationVar(&o.Since, "since", 24*time.Hour, "how far back to plot")
	cmd.Flags().StringVarP(&o.Path, "out", "o", "pressure.png", "output file, .png, .svg or .pdf")
	cmd.MarkFlagRequired("db")
	return cmd
}

func (o *PlotOptions) Validate() error {
	if o.DB == "" {
		return errors.New("--db is required")
	}
	if o.Since <= 0 {
		return fmt.Errorf("--since must be positive, got %s", o.Since)
	}
	_, err := pressure.Resolve(o.Unit)
	return err
}

func (o *PlotOptions) Run() error {
	l, err := datalog.Open(o.DB)
	if err != nil {
		return err
	}
	defer l.Close()

	now := o.now()
	from := now.Add(-o.Since)
	samples, err := l.Since(from)
	if err != nil {
		return err
	}
	if err := chart.Save(samples, o.Unit, o.Path); err != nil {
		return err
	}
	fmt.Fprintf(o.Out, "wrote %s samples since %s to %s\n",
		humanize.Comma(int64(len(samples))), common.HumanizeAge(from, now), o.Path)
	return nil
}
