/*
	Copyright (c) 2024 The baro Authors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	monotonic.go: Uptime clock that keeps counting when the real time clock is
	 set, e.g. by NTP after boot on boards without an RTC.
*/

package main

import (
	"sync"
	"time"

	humanize "github.com/dustin/go-humanize"
)

type monotonic struct {
	mu     sync.Mutex
	Time   time.Time // zero at start
	tick   time.Duration
	ticker *time.Ticker
}

func (m *monotonic) Watcher() {
	for range m.ticker.C {
		m.advance(m.tick)
	}
}

func (m *monotonic) advance(d time.Duration) {
	m.mu.Lock()
	m.Time = m.Time.Add(d)
	m.mu.Unlock()
}

func (m *monotonic) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Time
}

func (m *monotonic) Since(t time.Time) time.Duration {
	return m.Now().Sub(t)
}

func (m *monotonic) HumanizeTime(t time.Time) string {
	return humanize.RelTime(t, m.Now(), "ago", "from now")
}

// Uptime is the time elapsed since the clock was created.
func (m *monotonic) Uptime() time.Duration {
	return m.Since(time.Time{})
}

func NewMonotonic(tick time.Duration) *monotonic {
	t := &monotonic{tick: tick, ticker: time.NewTicker(tick)}
	go t.Watcher()
	return t
}
