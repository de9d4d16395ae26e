package pressure

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBar(t *testing.T) {
	p, err := New(1, "Bar")
	require.NoError(t, err)

	v, err := p.Value("Pa")
	require.NoError(t, err)
	assert.Equal(t, float64(100000), v)
	assert.Equal(t, "100000 Pa", p.String())

	s, err := p.Format("")
	require.NoError(t, err)
	assert.Equal(t, "100000 Pa", s)
}

func TestFromDefaultUnit(t *testing.T) {
	p, err := New(100000, "")
	require.NoError(t, err)

	v, err := p.Value("Bar")
	require.NoError(t, err)
	assert.Equal(t, float64(1), v)

	s, err := p.Format("Bar")
	require.NoError(t, err)
	assert.Equal(t, "1 bar", s)
}

func TestToPascal(t *testing.T) {
	testCases := []struct {
		value float64
		unit  string
		want  float64
	}{
		{1, "atm", 101325},
		{1, "Standard Atmosphere", 101325},
		{1, "Torr", 101325.0 / 760},
		{1, "at", 98066.5},
		{2, "Technical Atmosphere", 196133},
		{0, "psi", 0},
	}
	for _, tc := range testCases {
		t.Run(tc.unit, func(t *testing.T) {
			v, err := Convert(tc.value, tc.unit, "Pa")
			require.NoError(t, err)
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestTorrValue(t *testing.T) {
	v, err := Convert(1, "Torr", "")
	require.NoError(t, err)
	assert.InDelta(t, 133.322368, v, 1e-6)
}

func TestPsiToPascal(t *testing.T) {
	v, err := Convert(14.6959, "psi", "Pa")
	require.NoError(t, err)
	assert.InDelta(t, 101325, v, 1)

	back, err := Convert(101325, "Pa", "psi")
	require.NoError(t, err)
	assert.InDelta(t, 14.6959, back, 1e-4)
}

func TestSourceValueIsPreserved(t *testing.T) {
	values := []float64{0, 1, 0.1, 14.6959, 1013.25, -42.42, 1e-9, 6.02214076e23}
	for _, u := range units {
		for _, x := range values {
			p, err := New(x, u.ID)
			require.NoError(t, err)
			got, err := p.Value(u.ID)
			require.NoError(t, err)
			assert.Equal(t, x, got, "%v %s", x, u.ID)

			src, sv := p.Source()
			assert.Equal(t, u.ID, src.ID)
			assert.Equal(t, x, sv)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	values := []float64{1, 0.1, 3.14159, 760, 14.6959, 101325, 1e-7, 1e12, -250}
	for _, from := range units {
		for _, to := range units {
			for _, x := range values {
				there, err := Convert(x, from.ID, to.ID)
				require.NoError(t, err)
				back, err := Convert(there, to.ID, from.ID)
				require.NoError(t, err)
				assert.InEpsilon(t, x, back, 1e-9, "%v %s -> %s", x, from.ID, to.ID)
			}
		}
	}
}

func TestAliasEquivalence(t *testing.T) {
	for _, u := range units {
		byID, err := New(3, u.ID)
		require.NoError(t, err)
		for _, alias := range append(append([]string{}, u.Names...), u.Symbols...) {
			p, err := New(3, alias)
			require.NoError(t, err)
			assert.Equal(t, byID.ToMap(), p.ToMap(), "alias %q", alias)
		}
	}
}

func TestToMapCoversRegistry(t *testing.T) {
	p, err := New(42, "psi")
	require.NoError(t, err)
	m := p.ToMap()
	require.Len(t, m, len(units))
	for _, u := range units {
		_, ok := m[u.ID]
		assert.True(t, ok, u.ID)
	}

	m["Pa"] = -1
	v, err := p.Value("Pa")
	require.NoError(t, err)
	assert.NotEqual(t, float64(-1), v)
}

func TestNaNIsRejected(t *testing.T) {
	for _, u := range append([]string{""}, Aliases()...) {
		_, err := New(math.NaN(), u)
		require.Error(t, err)
		var invalid *InvalidNumberError
		require.True(t, errors.As(err, &invalid), u)
		assert.True(t, math.IsNaN(invalid.Value))
		assert.ErrorIs(t, err, ErrInvalidNumber)
	}
	_, err := New(math.NaN(), "XYZ")
	assert.ErrorIs(t, err, ErrInvalidNumber, "number is checked before the unit")
	assert.Equal(t, "`NaN` (parameter `fromValue`) is not a number", err.Error())
}

func TestInfinityPropagates(t *testing.T) {
	p, err := New(math.Inf(1), "bar")
	require.NoError(t, err)
	for _, v := range p.ToMap() {
		assert.True(t, math.IsInf(v, 1))
	}
	assert.Equal(t, "Infinity Pa", p.String())

	p, err = New(math.Inf(-1), "")
	require.NoError(t, err)
	s, err := p.Format("psi")
	require.NoError(t, err)
	assert.Equal(t, "-Infinity psi", s)
}

func TestUnsupportedUnitParameter(t *testing.T) {
	_, err := New(1, "XYZ")
	var unsupported *UnsupportedUnitError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "fromUnit", unsupported.Parameter)

	p, err := New(1, "")
	require.NoError(t, err)
	_, err = p.Value("XYZ")
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "toUnit", unsupported.Parameter)

	_, err = p.Format("kPa")
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "toUnit", unsupported.Parameter)
	assert.Equal(t, "kPa", unsupported.Input)

	_, err = Convert(1, "Pa", "XYZ")
	assert.ErrorIs(t, err, ErrUnsupportedUnit)
}

func TestFormatNumber(t *testing.T) {
	tenth, fifth := 0.1, 0.2
	testCases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{100000, "100000"},
		{-2.5, "-2.5"},
		{101325.0 / 760, "133.32236842105263"},
		{tenth + fifth, "0.30000000000000004"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.5e300, "1.5e+300"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{-1.25e-10, "-1.25e-10"},
		{math.Inf(1), "Infinity"},
		{math.NaN(), "NaN"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, FormatNumber(tc.in), "%v", tc.in)
	}
}
