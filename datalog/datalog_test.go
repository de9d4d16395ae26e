package datalog

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/b3nn0/baro/pressure"
	"github.com/b3nn0/baro/sensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DataLog {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "baro.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func reading(t *testing.T, at time.Time, value float64, unit string) sensors.Reading {
	t.Helper()
	p, err := pressure.New(value, unit)
	require.NoError(t, err)
	return sensors.Reading{Time: at, Sensor: "BMP388", Temperature: 18.5, Pressure: p}
}

func TestNewSample(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewSample(reading(t, at, 29.92, "Torr"))

	assert.Equal(t, at.UnixNano(), s.UnixNano)
	assert.Equal(t, "Torr", s.SourceUnit)
	assert.Equal(t, 29.92, s.SourceValue)
	assert.InDelta(t, 3989.0, s.Pascal, 0.5)
	assert.Equal(t, 18.5, s.Temperature)
}

func TestInsertAndSince(t *testing.T) {
	l := openTemp(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, v := range []float64{1.01325, 1.0131, 1.0129} {
		id, err := l.Insert(NewSample(reading(t, base.Add(time.Duration(i)*time.Minute), v, "bar")))
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), id)
	}

	n, err := l.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	samples, err := l.Since(base.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, int64(2), samples[0].ID())
	assert.True(t, samples[0].Time().Equal(base.Add(time.Minute)))
	assert.Equal(t, "BMP388", samples[0].Sensor)

	p, err := samples[1].Pressure()
	require.NoError(t, err)
	v, err := p.Value("bar")
	require.NoError(t, err)
	assert.Equal(t, 1.0129, v, "source value survives storage exactly")

	removed, err := l.Prune(base.Add(90 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	n, err = l.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baro.db")
	l, err := Open(path)
	require.NoError(t, err)
	_, err = l.Insert(NewSample(reading(t, time.Unix(100, 0), 101325, "Pa")))
	require.NoError(t, err)
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()
	samples, err := l.Since(time.Unix(0, 0))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 101325.0, samples[0].Pascal)
}

type tableProbe struct {
	id      int64
	Name    string
	Enabled bool
	Level   uint8
	Ratio   float32
	Tags    []string
}

func TestMakeTableSkipsUnsupportedFields(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "probe.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, makeTable(db, "probe", tableProbe{}))
	_, err = insertData(db, "probe", tableProbe{Name: "x", Enabled: true, Level: 3, Ratio: 0.5, Tags: []string{"a"}})
	require.NoError(t, err)

	var name string
	var enabled bool
	var level int
	require.NoError(t, db.QueryRow("SELECT Name, Enabled, Level FROM probe").Scan(&name, &enabled, &level))
	assert.Equal(t, "x", name)
	assert.True(t, enabled)
	assert.Equal(t, 3, level)
}
