/*
	Copyright (c) 2024 The baro Authors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	datalog.go: Queue sensor readings and write them to the sqlite data log
	 on a single writer goroutine. Old samples are pruned once an hour.
*/

package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/b3nn0/baro/datalog"
	"github.com/b3nn0/baro/sensors"
)

const dataLogQueueLen = 10240

var errDataLogDisabled = errors.New("data log is disabled")

var (
	dataLog     *datalog.DataLog
	dataLogChan chan datalog.Sample
	dataLogMu   sync.RWMutex
)

func dataLogEnabled() bool {
	dataLogMu.RLock()
	defer dataLogMu.RUnlock()
	return dataLog != nil
}

// startDataLog opens the database at path and starts the writer. Calling it
// while the log is open is a no-op.
func startDataLog(path string) error {
	dataLogMu.Lock()
	defer dataLogMu.Unlock()
	if dataLog != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	l, err := datalog.Open(path)
	if err != nil {
		return err
	}
	dataLog = l
	dataLogChan = make(chan datalog.Sample, dataLogQueueLen)
	go dataLogWriter(l, dataLogChan)
	log.Printf("Datalog Info: writing samples to %s\n", path)
	return nil
}

// stopDataLog closes the queue. The writer closes the database once the queue is drained.
func stopDataLog() {
	dataLogMu.Lock()
	defer dataLogMu.Unlock()
	if dataLog == nil {
		return
	}
	close(dataLogChan)
	dataLog = nil
	dataLogChan = nil
}

func dataLogWriter(l *datalog.DataLog, samples <-chan datalog.Sample) {
	defer l.Close()
	for s := range samples {
		if _, err := l.Insert(s); err != nil {
			log.Printf("Datalog Error: %s\n", err.Error())
		}
	}
}

// logReading queues r for the writer. Never blocks; a full queue drops the sample.
func logReading(r sensors.Reading) {
	dataLogMu.RLock()
	defer dataLogMu.RUnlock()
	if dataLogChan == nil {
		return
	}
	select {
	case dataLogChan <- datalog.NewSample(r):
	default:
		countDataLogDrop()
	}
}

// dataLogSince holds the read lock for the whole query, so stopDataLog can't
// close the database underneath it.
func dataLogSince(t time.Time) ([]datalog.Sample, error) {
	dataLogMu.RLock()
	defer dataLogMu.RUnlock()
	if dataLog == nil {
		return nil, errDataLogDisabled
	}
	return dataLog.Since(t)
}

func pruneDataLog(now time.Time) {
	days := currentSettings().DataLog_Days
	if days == 0 {
		return
	}
	dataLogMu.RLock()
	defer dataLogMu.RUnlock()
	if dataLog == nil {
		return
	}
	n, err := dataLog.Prune(now.AddDate(0, 0, -days))
	if err != nil {
		log.Printf("Datalog Error: %s\n", err.Error())
	} else if n > 0 {
		logDbg("Datalog Info: pruned %d samples older than %d days\n", n, days)
	}
}

func dataLogPruner() {
	timer := time.NewTicker(time.Hour)
	for {
		pruneDataLog(time.Now())
		<-timer.C
	}
}
