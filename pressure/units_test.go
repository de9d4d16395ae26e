package pressure

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAliases(t *testing.T) {
	for _, u := range units {
		aliases := append([]string{u.ID}, u.Names...)
		aliases = append(aliases, u.Symbols...)
		for _, alias := range aliases {
			got, err := Resolve(alias)
			require.NoError(t, err, alias)
			assert.Equal(t, u.ID, got.ID, "alias %q", alias)
		}
	}
}

func TestResolveIsCaseSensitive(t *testing.T) {
	for _, alias := range []string{"pa", "BAR", "torr", " Pa", "Pa ", ""} {
		_, err := Resolve(alias)
		assert.ErrorIs(t, err, ErrUnsupportedUnit, "alias %q", alias)
	}
}

func TestResolveUnsupported(t *testing.T) {
	_, err := Resolve("XYZ")
	require.Error(t, err)

	var unsupported *UnsupportedUnitError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "XYZ", unsupported.Input)
	assert.Equal(t, "unit", unsupported.Parameter)

	expected := []string{
		"Bar", "Pa", "Pascal", "Pound Per Square Inch", "Standard Atmosphere",
		"Technical Atmosphere", "Torr", "at", "atm", "bar", "psi",
	}
	assert.Equal(t, expected, unsupported.Valid)
	assert.True(t, sort.StringsAreSorted(unsupported.Valid))
	assert.Equal(t,
		"`XYZ` (parameter `unit`) is not a supported pressure unit, only accept these values: "+
			"Bar, Pa, Pascal, Pound Per Square Inch, Standard Atmosphere, Technical Atmosphere, Torr, at, atm, bar, psi",
		err.Error())
}

func TestRegistryHasNoCollisions(t *testing.T) {
	owner := map[string]string{}
	for _, u := range units {
		seen := map[string]bool{}
		for _, alias := range append(append([]string{u.ID}, u.Names...), u.Symbols...) {
			if seen[alias] {
				continue
			}
			seen[alias] = true
			prev, ok := owner[alias]
			assert.False(t, ok, "alias %q used by %s and %s", alias, prev, u.ID)
			owner[alias] = u.ID
		}
	}
	assert.Len(t, validAliases, len(owner))
}

func TestReferenceUnitIsIdentity(t *testing.T) {
	ref, err := Resolve(ReferenceUnit)
	require.NoError(t, err)
	for _, v := range []float64{0, 1, -3.5, 101325, 1e300} {
		assert.Equal(t, v, ref.ToReference(v))
		assert.Equal(t, v, ref.FromReference(v))
	}
}

func TestUnitFactors(t *testing.T) {
	testCases := []struct {
		alias  string
		pascal float64
	}{
		{"Pa", 1},
		{"bar", 100000},
		{"psi", 0.45359237 * 9.80665 / (0.0254 * 0.0254)},
		{"atm", 101325},
		{"at", 98066.5},
		{"Torr", 101325.0 / 760},
	}
	for _, tc := range testCases {
		t.Run(tc.alias, func(t *testing.T) {
			u, err := Resolve(tc.alias)
			require.NoError(t, err)
			assert.InEpsilon(t, tc.pascal, u.ToReference(1), 1e-15)
			assert.InEpsilon(t, 1, u.FromReference(tc.pascal), 1e-15)
		})
	}
}

func TestUnits(t *testing.T) {
	metas := Units()
	require.Len(t, metas, 6)

	var ids []string
	references := 0
	for _, m := range metas {
		ids = append(ids, m.ID)
		if m.IsReference {
			references++
			assert.Equal(t, "Pa", m.ID)
		}
	}
	assert.Equal(t, []string{"Pa", "bar", "psi", "atm", "at", "Torr"}, ids)
	assert.Equal(t, 1, references)
}

func TestDescribe(t *testing.T) {
	meta, err := Describe("Pound Per Square Inch")
	require.NoError(t, err)
	assert.Equal(t, UnitMeta{
		ID:      "psi",
		Names:   []string{"Pound Per Square Inch"},
		Symbols: []string{"psi"},
	}, meta)

	meta.Names[0] = "changed"
	again, err := Describe("psi")
	require.NoError(t, err)
	assert.Equal(t, "Pound Per Square Inch", again.Names[0], "metadata must not alias the registry")

	_, err = Describe("hPa")
	assert.ErrorIs(t, err, ErrUnsupportedUnit)

	meta, err = Describe("")
	require.NoError(t, err)
	assert.Equal(t, ReferenceUnit, meta.ID)
	assert.True(t, meta.IsReference)
}

func TestResolvedUnitIsACopy(t *testing.T) {
	u, err := Resolve("bar")
	require.NoError(t, err)
	u.Names[0] = "Gone"
	u.Symbols[0] = "changed"

	p, err := New(1, "Bar")
	require.NoError(t, err)
	s, err := p.Format("bar")
	require.NoError(t, err)
	assert.Equal(t, "1 bar", s)

	src, _ := p.Source()
	src.Names[0] = "Gone"
	src.Symbols[0] = "changed"

	again, err := Resolve("Bar")
	require.NoError(t, err)
	assert.Equal(t, "bar", again.Symbol())
	assert.Equal(t, []string{"bar"}, Units()[1].Symbols)
	assert.Contains(t, Aliases(), "Bar")
}

func TestAliasesIsACopy(t *testing.T) {
	a := Aliases()
	a[0] = "mutated"
	assert.NotEqual(t, "mutated", Aliases()[0])
}
