// Package sensors reads barometric pressure sensors and hands every sample out as
// a pressure conversion state.
package sensors

import (
	"errors"
	"fmt"
	"time"

	"github.com/b3nn0/baro/pressure"
)

// hectopascal is the scale of the millibar values some drivers report.
const hectopascal = 100

var (
	ErrNotRunning = errors.New("sensors: sensor is not running")
	ErrNoData     = errors.New("sensors: no measurement yet")
)

// PressureReader provides an interface to a sensor reading pressure and maybe
// temperature, like the BMP280 or BMP388.
type PressureReader interface {
	// Name identifies the sensor model.
	Name() string
	// Temperature returns the temperature in degrees C.
	Temperature() (temp float64, tempError error)
	// Pressure returns the last measured pressure.
	Pressure() (press *pressure.Pressure, pressError error)
	// Close stops reading from the sensor.
	Close()
}

// Reading is one sample taken from a PressureReader.
type Reading struct {
	Time        time.Time
	Sensor      string
	Temperature float64
	Pressure    *pressure.Pressure
}

// Read samples r once. A temperature failure is not fatal, the reading then
// carries a zero temperature.
func Read(r PressureReader, now time.Time) (Reading, error) {
	temp, _ := r.Temperature()
	press, err := r.Pressure()
	if err != nil {
		return Reading{}, fmt.Errorf("%s: %w", r.Name(), err)
	}
	return Reading{Time: now, Sensor: r.Name(), Temperature: temp, Pressure: press}, nil
}

func fromMillibar(v float64) (*pressure.Pressure, error) {
	return pressure.New(v*hectopascal, pressure.ReferenceUnit)
}
