package sensors

import (
	"strings"
	"testing"
	"time"

	"github.com/b3nn0/baro/pressure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const replayLog = `press,temp
1.01325,15.0
# sensor reconnect
1.0128,14.5
1.0121
`

func TestReplay(t *testing.T) {
	r, err := NewReplay(strings.NewReader(replayLog), "Pressure")
	require.Error(t, err)
	assert.ErrorIs(t, err, pressure.ErrUnsupportedUnit)
	assert.Nil(t, r)

	r, err = NewReplay(strings.NewReader(replayLog), "bar")
	require.NoError(t, err)
	require.Equal(t, 3, r.Len())

	temp, err := r.Temperature()
	require.NoError(t, err)
	assert.Equal(t, 15.0, temp)

	p, err := r.Pressure()
	require.NoError(t, err)
	v, err := p.Value("bar")
	require.NoError(t, err)
	assert.Equal(t, 1.01325, v)
	pa, err := p.Value("Pa")
	require.NoError(t, err)
	assert.InDelta(t, 101325, pa, 1e-6)

	_, _ = r.Pressure()
	temp, err = r.Temperature()
	require.NoError(t, err)
	assert.Equal(t, 0.0, temp, "missing temperature column")
	_, _ = r.Pressure()

	p, err = r.Pressure()
	require.NoError(t, err)
	v, _ = p.Value("bar")
	assert.Equal(t, 1.01325, v, "playback wraps around")

	r.Close()
	_, err = r.Pressure()
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestReplayRejectsBadRows(t *testing.T) {
	_, err := NewReplay(strings.NewReader("1013\nabc\n"), "Pa")
	assert.Error(t, err)

	_, err = NewReplay(strings.NewReader("press,temp\n"), "Pa")
	assert.EqualError(t, err, "replay: no samples")
}

func TestRead(t *testing.T) {
	r, err := NewReplay(strings.NewReader("101325,21.5\n"), "Pa")
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	reading, err := Read(r, now)
	require.NoError(t, err)
	assert.Equal(t, now, reading.Time)
	assert.Equal(t, "replay", reading.Sensor)
	assert.Equal(t, 21.5, reading.Temperature)
	atm, err := reading.Pressure.Value("atm")
	require.NoError(t, err)
	assert.Equal(t, 1.0, atm)

	r.Close()
	_, err = Read(r, now)
	assert.ErrorIs(t, err, ErrNotRunning)
	assert.Contains(t, err.Error(), "replay: ")
}

func TestFromMillibar(t *testing.T) {
	p, err := fromMillibar(1013.25)
	require.NoError(t, err)
	assert.Equal(t, "101325 Pa", p.String())
}
