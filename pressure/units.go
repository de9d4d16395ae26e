// Package pressure converts a pressure value between the supported units,
// using the pascal as reference unit.
package pressure

import (
	"golang.org/x/exp/slices"
)

// ReferenceUnit is the identifier of the SI unit every conversion is chained through.
const ReferenceUnit = "Pa"

const (
	atmInPascal  = 101325
	atInPascal   = 98066.5 // kilogram-force per square centimetre
	torrInPascal = atmInPascal / 760.0
)

// Evaluated in float64 rather than as an exact constant expression, so the factor
// carries the rounding of each step of the definition.
var (
	avoirdupoisPound float64 = 0.45359237
	standardGravity  float64 = 9.80665
	inch             float64 = 0.0254

	psiInPascal = (avoirdupoisPound * standardGravity) / (inch * inch)
)

// Unit describes one supported pressure unit.
type Unit struct {
	ID      string   // ASCII identifier, used as key of the conversion tables.
	Names   []string // Standard name first.
	Symbols []string // Standard symbol first.

	toPascal   func(v float64) float64
	fromPascal func(v float64) float64
}

// ToReference converts v, expressed in u, to pascal.
func (u Unit) ToReference(v float64) float64 {
	return u.toPascal(v)
}

// FromReference converts v, expressed in pascal, to u.
func (u Unit) FromReference(v float64) float64 {
	return u.fromPascal(v)
}

// Name returns the standard name of the unit.
func (u Unit) Name() string {
	return u.Names[0]
}

// Symbol returns the standard symbol of the unit.
func (u Unit) Symbol() string {
	return u.Symbols[0]
}

// clone copies u without sharing the alias slices of the registry.
func (u *Unit) clone() Unit {
	c := *u
	c.Names = slices.Clone(u.Names)
	c.Symbols = slices.Clone(u.Symbols)
	return c
}

func (u Unit) matches(alias string) bool {
	return alias == u.ID || slices.Contains(u.Names, alias) || slices.Contains(u.Symbols, alias)
}

func identity(v float64) float64 { return v }

func scale(factor float64) (to, from func(float64) float64) {
	return func(v float64) float64 { return v * factor },
		func(v float64) float64 { return v / factor }
}

func newUnit(id string, names, symbols []string, factor float64) Unit {
	to, from := scale(factor)
	return Unit{ID: id, Names: names, Symbols: symbols, toPascal: to, fromPascal: from}
}

var units = []Unit{
	{ID: "Pa", Names: []string{"Pascal"}, Symbols: []string{"Pa"}, toPascal: identity, fromPascal: identity},
	newUnit("bar", []string{"Bar"}, []string{"bar"}, 1e5),
	newUnit("psi", []string{"Pound Per Square Inch"}, []string{"psi"}, psiInPascal),
	newUnit("atm", []string{"Standard Atmosphere"}, []string{"atm"}, atmInPascal),
	newUnit("at", []string{"Technical Atmosphere"}, []string{"at"}, atInPascal),
	newUnit("Torr", []string{"Torr"}, []string{"Torr"}, torrInPascal),
}

// validAliases is every identifier, name and symbol of the registry, sorted and
// deduplicated. It is rebuilt from units so both stay in sync.
var validAliases = collectAliases(units)

func collectAliases(us []Unit) []string {
	aliases := make([]string, 0, len(us)*3)
	for _, u := range us {
		aliases = append(aliases, u.ID)
		aliases = append(aliases, u.Names...)
		aliases = append(aliases, u.Symbols...)
	}
	slices.Sort(aliases)
	return slices.Compact(aliases)
}

// UnitMeta is a read-only description of a unit.
type UnitMeta struct {
	ID          string   `json:"id"`
	Names       []string `json:"names"`
	Symbols     []string `json:"symbols"`
	IsReference bool     `json:"isReference"`
}

// resolve returns the registry index of the unit known as alias. parameter names
// the argument alias was supplied for, for the error message.
func resolve(parameter, alias string) (int, error) {
	for i := range units {
		if units[i].matches(alias) {
			return i, nil
		}
	}
	return -1, &UnsupportedUnitError{Input: alias, Parameter: parameter, Valid: Aliases()}
}

func describe(u *Unit) UnitMeta {
	return UnitMeta{
		ID:          u.ID,
		Names:       slices.Clone(u.Names),
		Symbols:     slices.Clone(u.Symbols),
		IsReference: IsReference(u.ID),
	}
}

// Resolve looks up the unit whose identifier, name or symbol is exactly alias.
func Resolve(alias string) (Unit, error) {
	i, err := resolve("unit", alias)
	if err != nil {
		return Unit{}, err
	}
	return units[i].clone(), nil
}

// Describe returns the metadata of the unit known as alias. An empty alias
// describes the reference unit.
func Describe(alias string) (UnitMeta, error) {
	if alias == "" {
		alias = ReferenceUnit
	}
	i, err := resolve("unit", alias)
	if err != nil {
		return UnitMeta{}, err
	}
	return describe(&units[i]), nil
}

// Units returns the metadata of every supported unit, in registry order.
func Units() []UnitMeta {
	metas := make([]UnitMeta, len(units))
	for i := range units {
		metas[i] = describe(&units[i])
	}
	return metas
}

// Aliases returns every accepted unit alias, sorted.
func Aliases() []string {
	return slices.Clone(validAliases)
}

// IsReference reports whether id identifies the reference unit.
func IsReference(id string) bool {
	return id == ReferenceUnit
}
