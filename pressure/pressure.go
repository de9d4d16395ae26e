package pressure

import (
	"math"
	"strconv"
	"strings"
)

// Pressure holds one value in every supported unit. It is computed once by New and
// never modified afterwards, so it can be shared between goroutines.
type Pressure struct {
	values []float64 // indexed like units
	source int
}

// New converts value, expressed in fromUnit, to every supported unit. An empty
// fromUnit selects the pascal. The slot of fromUnit keeps value exactly; the others
// are derived from the pascal value.
func New(value float64, fromUnit string) (*Pressure, error) {
	if math.IsNaN(value) {
		return nil, &InvalidNumberError{Value: value}
	}
	if fromUnit == "" {
		fromUnit = ReferenceUnit
	}
	from, err := resolve("fromUnit", fromUnit)
	if err != nil {
		return nil, err
	}

	pascal := value
	if !IsReference(units[from].ID) {
		pascal = units[from].ToReference(value)
	}

	p := &Pressure{values: make([]float64, len(units)), source: from}
	for i := range units {
		switch {
		case i == from:
			p.values[i] = value
		case IsReference(units[i].ID):
			p.values[i] = pascal
		default:
			p.values[i] = units[i].FromReference(pascal)
		}
	}
	return p, nil
}

// Convert returns value, expressed in fromUnit, in toUnit.
func Convert(value float64, fromUnit, toUnit string) (float64, error) {
	p, err := New(value, fromUnit)
	if err != nil {
		return 0, err
	}
	return p.Value(toUnit)
}

func (p *Pressure) lookup(toUnit string) (*Unit, float64, error) {
	if toUnit == "" {
		toUnit = ReferenceUnit
	}
	i, err := resolve("toUnit", toUnit)
	if err != nil {
		return nil, 0, err
	}
	return &units[i], p.values[i], nil
}

// Value returns the pressure in toUnit. An empty toUnit selects the pascal.
func (p *Pressure) Value(toUnit string) (float64, error) {
	_, v, err := p.lookup(toUnit)
	return v, err
}

// Format returns the pressure in toUnit followed by the standard symbol of the
// unit, e.g. "1 bar".
func (p *Pressure) Format(toUnit string) (string, error) {
	u, v, err := p.lookup(toUnit)
	if err != nil {
		return "", err
	}
	return FormatNumber(v) + " " + u.Symbol(), nil
}

func (p *Pressure) String() string {
	s, _ := p.Format(ReferenceUnit)
	return s
}

// ToMap returns a copy of all values keyed by unit identifier.
func (p *Pressure) ToMap() map[string]float64 {
	m := make(map[string]float64, len(units))
	for i := range units {
		m[units[i].ID] = p.values[i]
	}
	return m
}

// Source returns the unit and value p was created from.
func (p *Pressure) Source() (Unit, float64) {
	return units[p.source].clone(), p.values[p.source]
}

// FormatNumber renders v the way an ECMAScript engine converts a Number to a
// string: shortest round-trip digits, plain notation for 1e-6 <= |v| < 1e21.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	s := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}
