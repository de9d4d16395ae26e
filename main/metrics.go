/*
	Copyright (c) 2024 The baro Authors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	metrics.go: Prometheus metrics served on /metrics.
*/

package main

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/b3nn0/baro/pressure"
)

var (
	currentPressure = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "barod_pressure",
			Help: "Last measured pressure, one series per unit.",
		},
		[]string{"unit"},
	)

	currentTemp = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "barod_temperature_celsius",
		Help: "Last temperature reported by the pressure sensor.",
	})

	totalReadings = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "barod_readings_total",
		Help: "Pressure samples read from the sensor.",
	})

	totalReadErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "barod_read_errors_total",
		Help: "Failed sensor reads.",
	})

	totalConversions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barod_conversions_total",
			Help: "Conversions served by the management interface, by outcome.",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

func registerMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(currentPressure)
		prometheus.MustRegister(currentTemp)
		prometheus.MustRegister(totalReadings)
		prometheus.MustRegister(totalReadErrors)
		prometheus.MustRegister(totalConversions)
	})
}

func updatePressureMetrics(p *pressure.Pressure, temp float64) {
	for unit, v := range p.ToMap() {
		currentPressure.With(prometheus.Labels{"unit": unit}).Set(v)
	}
	currentTemp.Set(temp)
	totalReadings.Inc()
}

// conversionResult labels a conversion outcome for totalConversions.
func conversionResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, pressure.ErrInvalidNumber):
		return "invalid_number"
	case errors.Is(err, pressure.ErrUnsupportedUnit):
		return "unsupported_unit"
	default:
		return "error"
	}
}
