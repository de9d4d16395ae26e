package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b3nn0/baro/datalog"
	"github.com/b3nn0/baro/pressure"
	"github.com/b3nn0/baro/sensors"
)

func testReading(t *testing.T, at time.Time, bar float64) sensors.Reading {
	t.Helper()
	p, err := pressure.New(bar, "bar")
	require.NoError(t, err)
	return sensors.Reading{Time: at, Sensor: "test", Pressure: p}
}

func newTestSample(t *testing.T, at time.Time) datalog.Sample {
	return datalog.NewSample(testReading(t, at, 1))
}

func TestLogReadingWritesSamples(t *testing.T) {
	require.NoError(t, startDataLog(filepath.Join(t.TempDir(), "db", "barod.db")))
	defer stopDataLog()
	assert.True(t, dataLogEnabled())
	require.NoError(t, startDataLog("ignored"), "second start is a no-op")

	now := time.Now()
	logReading(testReading(t, now, 1))
	logReading(testReading(t, now.Add(time.Second), 1.02))

	assert.Eventually(t, func() bool {
		samples, err := dataLogSince(now.Add(-time.Minute))
		return err == nil && len(samples) == 2
	}, 5*time.Second, 10*time.Millisecond)

	samples, err := dataLogSince(now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "bar", samples[1].SourceUnit)
	assert.Equal(t, 1.02, samples[1].SourceValue)
}

func TestLogReadingWithoutDataLog(t *testing.T) {
	stopDataLog()
	assert.False(t, dataLogEnabled())
	logReading(testReading(t, time.Now(), 1))

	_, err := dataLogSince(time.Time{})
	assert.ErrorIs(t, err, errDataLogDisabled)
}

func TestPruneDataLog(t *testing.T) {
	useTempSettings(t)
	require.NoError(t, startDataLog(filepath.Join(t.TempDir(), "barod.db")))
	defer stopDataLog()

	now := time.Now()
	_, err := dataLog.Insert(newTestSample(t, now.AddDate(0, 0, -40)))
	require.NoError(t, err)
	_, err = dataLog.Insert(newTestSample(t, now.AddDate(0, 0, -1)))
	require.NoError(t, err)

	pruneDataLog(now)

	samples, err := dataLogSince(time.Time{})
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.WithinDuration(t, now.AddDate(0, 0, -1), samples[0].Time(), time.Millisecond)
}

func TestDataLogSinceDuringStop(t *testing.T) {
	require.NoError(t, startDataLog(filepath.Join(t.TempDir(), "barod.db")))
	defer stopDataLog()

	now := time.Now()
	for i := 0; i < 200; i++ {
		_, err := dataLog.Insert(newTestSample(t, now.Add(-time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}

	errs := make(chan error, 100)
	for i := 0; i < cap(errs); i++ {
		go func() {
			_, err := dataLogSince(now.Add(-time.Hour))
			errs <- err
		}()
	}
	stopDataLog()

	for i := 0; i < cap(errs); i++ {
		if err := <-errs; err != nil {
			assert.ErrorIs(t, err, errDataLogDisabled)
		}
	}
}
