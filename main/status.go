/*
	Copyright (c) 2024 The baro Authors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	status.go: Runtime status of barod and the last pressure reading.
*/

package main

import (
	"sync"
	"time"

	"github.com/b3nn0/baro/sensors"
)

type status struct {
	Version          string
	Uptime           int64 // seconds
	SensorConnected  bool
	SensorName       string
	Readings         uint64
	ReadErrors       uint64
	LastReadingTime  time.Time
	LastReadingAge   string
	DataLogEnabled   bool
	DataLogDropped   uint64
	WebsocketClients int
	WebsocketDropped uint64
}

var (
	barodVersion = "dev"
	barodClock   = NewMonotonic(10 * time.Millisecond)

	globalStatus     status
	statusMu         sync.Mutex
	lastReadingClock time.Time // barodClock time of the last reading

	lastReading   *sensors.Reading
	lastReadingMu sync.RWMutex
)

func setLastReading(r sensors.Reading) {
	lastReadingMu.Lock()
	lastReading = &r
	lastReadingMu.Unlock()

	statusMu.Lock()
	globalStatus.Readings++
	globalStatus.LastReadingTime = r.Time
	lastReadingClock = barodClock.Now()
	statusMu.Unlock()
}

func getLastReading() (sensors.Reading, bool) {
	lastReadingMu.RLock()
	defer lastReadingMu.RUnlock()
	if lastReading == nil {
		return sensors.Reading{}, false
	}
	return *lastReading, true
}

func setSensorState(connected bool, name string) {
	statusMu.Lock()
	globalStatus.SensorConnected = connected
	globalStatus.SensorName = name
	statusMu.Unlock()
}

func sensorConnected() bool {
	statusMu.Lock()
	defer statusMu.Unlock()
	return globalStatus.SensorConnected
}

func countReadError() {
	statusMu.Lock()
	globalStatus.ReadErrors++
	statusMu.Unlock()
	totalReadErrors.Inc()
}

func countDataLogDrop() {
	statusMu.Lock()
	globalStatus.DataLogDropped++
	statusMu.Unlock()
}

// snapshotStatus returns a copy of the status with the derived fields filled in.
// Ages are measured on barodClock, they survive the system clock being set.
func snapshotStatus() status {
	statusMu.Lock()
	s := globalStatus
	last := lastReadingClock
	statusMu.Unlock()

	s.Version = barodVersion
	s.Uptime = int64(barodClock.Uptime().Seconds())
	s.LastReadingAge = "never"
	if s.Readings > 0 {
		s.LastReadingAge = barodClock.HumanizeTime(last)
	}
	s.DataLogEnabled = dataLogEnabled()
	if readingsBroadcaster != nil {
		s.WebsocketClients = readingsBroadcaster.Clients()
		s.WebsocketDropped = readingsBroadcaster.Dropped()
	}
	return s
}
