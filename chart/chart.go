// Package chart draws the pressure history of a data log in any supported unit.
package chart

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/b3nn0/baro/datalog"
	"github.com/b3nn0/baro/pressure"
)

const (
	width  = 10 * vg.Inch
	height = 5 * vg.Inch
)

var ErrNoSamples = errors.New("chart: no samples to plot")

// points converts the samples to unit, x is unix seconds.
func points(samples []datalog.Sample, unit string) (plotter.XYs, error) {
	xys := make(plotter.XYs, len(samples))
	for i, s := range samples {
		p, err := s.Pressure()
		if err != nil {
			return nil, fmt.Errorf("chart: sample %d: %w", s.ID(), err)
		}
		v, err := p.Value(unit)
		if err != nil {
			return nil, err
		}
		xys[i].X = float64(s.UnixNano) / 1e9
		xys[i].Y = v
	}
	return xys, nil
}

// New builds a line plot of samples expressed in unit.
func New(samples []datalog.Sample, unit string) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	meta, err := pressure.Describe(unit)
	if err != nil {
		return nil, err
	}
	xys, err := points(samples, unit)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = "Pressure"
	p.X.Label.Text = "Time"
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02 15:04"}
	p.Y.Label.Text = fmt.Sprintf("%s (%s)", meta.Names[0], meta.Symbols[0])
	p.Add(plotter.NewGrid())

	if err := plotutil.AddLines(p, samples[0].Sensor, xys); err != nil {
		return nil, err
	}
	return p, nil
}

// Save renders the plot to path; the extension selects the format (.png, .svg, .pdf).
func Save(samples []datalog.Sample, unit, path string) error {
	p, err := New(samples, unit)
	if err != nil {
		return err
	}
	return p.Save(width, height, path)
}

// WritePNG renders the plot as PNG to w.
func WritePNG(w io.Writer, samples []datalog.Sample, unit string) error {
	p, err := New(samples, unit)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
