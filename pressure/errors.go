package pressure

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidNumber   = errors.New("pressure: invalid number")
	ErrUnsupportedUnit = errors.New("pressure: unsupported unit")
)

// InvalidNumberError is returned when a conversion is requested for NaN.
type InvalidNumberError struct {
	Value float64
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("`%v` (parameter `fromValue`) is not a number", e.Value)
}

func (e *InvalidNumberError) Is(target error) bool {
	return target == ErrInvalidNumber
}

// UnsupportedUnitError is returned when an alias matches no unit. Parameter names
// the argument the alias was given for, Valid lists every accepted alias.
type UnsupportedUnitError struct {
	Input     string
	Parameter string
	Valid     []string
}

func (e *UnsupportedUnitError) Error() string {
	return fmt.Sprintf("`%s` (parameter `%s`) is not a supported pressure unit, only accept these values: %s",
		e.Input, e.Parameter, strings.Join(e.Valid, ", "))
}

func (e *UnsupportedUnitError) Is(target error) bool {
	return target == ErrUnsupportedUnit
}
