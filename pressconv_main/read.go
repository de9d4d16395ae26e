package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all"
	"github.com/spf13/cobra"

	"github.com/b3nn0/baro/pressure"
	"github.com/b3nn0/baro/sensors"
)

const readExample = `  # record ten minutes of BMP388/BMP280 samples
  pressconv read --unit bar --interval 1s --count 600 > session.csv

  # replay the recording later
  barod --replay session.csv --replay-unit bar`

type ReadOptions struct {
	Bus        byte
	Replay     string
	ReplayUnit string
	Unit       string
	Interval   time.Duration
	Count      int

	Out io.Writer
}

func NewCommandRead(out io.Writer) *cobra.Command {
	o := &ReadOptions{Out: out}

	cmd := &cobra.Command{
		Use:     "read",
		Short:   "Print sensor samples as CSV, in the format barod --replay reads",
		Example: readExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run()
		},
	}
	cmd.Flags().Uint8Var(&o.Bus, "bus", 1, "I2C bus of the sensor")
	cmd.Flags().StringVar(&o.Replay, "replay", "", "read from a CSV log instead of the sensor")
	cmd.Flags().StringVar(&o.ReplayUnit, "replay-unit", pressure.ReferenceUnit, "pressure unit of the replay log")
	cmd.Flags().StringVarP(&o.Unit, "unit", "u", pressure.ReferenceUnit, "output unit")
	cmd.Flags().DurationVarP(&o.Interval, "interval", "i", time.Second, "time between two samples")
	cmd.Flags().IntVarP(&o.Count, "count", "n", 0, "stop after this many samples, 0 reads forever")
	return cmd
}

func (o *ReadOptions) Validate() error {
	if o.Interval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", o.Interval)
	}
	if o.Count < 0 {
		return errors.New("--count must not be negative")
	}
	_, err := pressure.Resolve(o.Unit)
	return err
}

func (o *ReadOptions) open() (sensors.PressureReader, error) {
	if o.Replay != "" {
		f, err := os.Open(o.Replay)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return sensors.NewReplay(f, o.ReplayUnit)
	}
	return sensors.Detect(embd.NewI2CBus(o.Bus), o.Interval)
}

func (o *ReadOptions) Run() error {
	reader, err := o.open()
	if err != nil {
		return err
	}
	defer reader.Close()

	fmt.Fprintf(o.Out, "# %s, pressure in %s\n", reader.Name(), o.Unit)
	fmt.Fprintln(o.Out, "pressure,temperature")

	clock := time.NewTicker(o.Interval)
	defer clock.Stop()
	for n := 0; o.Count == 0 || n < o.Count; n++ {
		<-clock.C
		r, err := sensors.Read(reader, time.Now())
		if err != nil {
			return err
		}
		v, err := r.Pressure.Value(o.Unit)
		if err != nil {
			return err
		}
		fmt.Fprintf(o.Out, "%s,%s\n", pressure.FormatNumber(v), strconv.FormatFloat(r.Temperature, 'f', -1, 64))
	}
	return nil
}
