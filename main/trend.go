/*
	Copyright (c) 2024 The baro Authors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	trend.go: Pressure tendency over a window of logged samples. Least squares
	 slope plus the usual summary statistics, in any supported unit.
*/

package main

import (
	"errors"
	"math"
	"time"

	"github.com/b3nn0/baro/datalog"
	"github.com/b3nn0/baro/pressure"
)

// Changes below 0.1 hPa per three hours count as steady.
const steadyPascalPer3h = 10

var errTooFewSamples = errors.New("need at least two samples for a trend")

type trend struct {
	Unit      string
	Samples   int
	From      time.Time
	To        time.Time
	Min       float64
	Max       float64
	Mean      float64
	Stdev     float64
	PerHour   float64 // slope in Unit per hour
	Tendency  string  // rising, falling or steady
	Formatted string  // PerHour with unit symbol
}

// linReg calculates slope and intercept for a least squares linear regression of y[] vs x[]
func linReg(x, y []float64) (slope, intercept float64, valid bool) {
	n := len(x)
	if n != len(y) || n < 2 {
		return math.NaN(), math.NaN(), false
	}
	nf := float64(n)

	var Sx, Sy, Sxx, Sxy float64
	for i := range x {
		Sx += x[i]
		Sy += y[i]
		Sxx += x[i] * x[i]
		Sxy += x[i] * y[i]
	}

	if nf*Sxx == Sx*Sx {
		return math.NaN(), math.NaN(), false
	}

	slope = (nf*Sxy - Sx*Sy) / (nf*Sxx - Sx*Sx)
	intercept = Sy/nf - slope*Sx/nf
	return slope, intercept, true
}

func arrayMin(x []float64) (float64, bool) {
	if len(x) < 1 {
		return math.NaN(), false
	}
	v := x[0]
	for _, xi := range x[1:] {
		v = math.Min(v, xi)
	}
	return v, true
}

func arrayMax(x []float64) (float64, bool) {
	if len(x) < 1 {
		return math.NaN(), false
	}
	v := x[0]
	for _, xi := range x[1:] {
		v = math.Max(v, xi)
	}
	return v, true
}

// mean returns the arithmetic mean of array x
func mean(x []float64) (float64, bool) {
	if len(x) < 1 {
		return math.NaN(), false
	}
	sum := 0.0
	for _, xi := range x {
		sum += xi
	}
	return sum / float64(len(x)), true
}

// stdev estimates the sample standard deviation of array x
func stdev(x []float64) (float64, bool) {
	if len(x) < 2 {
		return math.NaN(), false
	}
	xbar, _ := mean(x)
	sumsq := 0.0
	for _, xi := range x {
		sumsq += (xi - xbar) * (xi - xbar)
	}
	return math.Sqrt(sumsq / float64(len(x)-1)), true
}

// computeTrend fits the samples against time. The slope is fitted in pascal and
// converted to unit afterwards, since every unit is a linear scale of pascal.
func computeTrend(samples []datalog.Sample, unit string) (trend, error) {
	u, err := pressure.Resolve(unit)
	if err != nil {
		return trend{}, err
	}
	if len(samples) < 2 {
		return trend{}, errTooFewSamples
	}

	t0 := samples[0].Time()
	hours := make([]float64, len(samples))
	pascal := make([]float64, len(samples))
	values := make([]float64, len(samples))
	for i, s := range samples {
		p, err := s.Pressure()
		if err != nil {
			return trend{}, err
		}
		hours[i] = s.Time().Sub(t0).Hours()
		pascal[i], _ = p.Value(pressure.ReferenceUnit)
		values[i], _ = p.Value(u.ID)
	}

	slope, _, ok := linReg(hours, pascal)
	if !ok {
		return trend{}, errTooFewSamples
	}

	tr := trend{
		Unit:    u.ID,
		Samples: len(samples),
		From:    t0,
		To:      samples[len(samples)-1].Time(),
	}
	tr.Min, _ = arrayMin(values)
	tr.Max, _ = arrayMax(values)
	tr.Mean, _ = mean(values)
	tr.Stdev, _ = stdev(values)
	tr.PerHour = u.FromReference(slope)
	tr.Formatted = pressure.FormatNumber(tr.PerHour) + " " + u.Symbol() + "/h"

	switch {
	case math.Abs(slope*3) < steadyPascalPer3h:
		tr.Tendency = "steady"
	case slope > 0:
		tr.Tendency = "rising"
	default:
		tr.Tendency = "falling"
	}
	return tr, nil
}
