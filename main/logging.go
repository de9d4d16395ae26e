/*
	Copyright (c) 2024 The baro Authors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	logging.go: Initialize go logging, watch log file size and rotate, delete old logs
*/

package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ricochet2200/go-disk-usage/du"

	"github.com/b3nn0/baro/common"
)

const (
	debugLogFile = "barod.log"
	maxLogSize   = 10 * 1024 * 1024 // rotate above 10mb
	minFreeBytes = 50 * 1024 * 1024 // leave 50mb free
	maxLogNum    = 9
)

var (
	logDir        string
	debugLogf     string
	logFileHandle *os.File
)

// rotatedLogFiles returns barod.log.1 .. barod.log.N, oldest last.
func rotatedLogFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	logs := make([]string, 0)
	if err != nil {
		return logs
	}

	for _, e := range entries {
		if n, ok := logNumber(e.Name()); ok && n > 0 {
			logs = append(logs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Slice(logs, func(i, j int) bool {
		a, _ := logNumber(filepath.Base(logs[i]))
		b, _ := logNumber(filepath.Base(logs[j]))
		return a < b
	})
	return logs
}

func logNumber(name string) (int, bool) {
	if !strings.HasPrefix(name, debugLogFile+".") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(name, debugLogFile+"."))
	return n, err == nil
}

func rotateLogs(dir string) {
	logs := rotatedLogFiles(dir)

	// rename suffix, remove if > maxLogNum
	for i := len(logs) - 1; i >= 0; i-- {
		logNum, _ := logNumber(filepath.Base(logs[i]))
		if logNum >= maxLogNum {
			os.Remove(logs[i])
		} else {
			os.Rename(logs[i], filepath.Join(dir, debugLogFile+"."+strconv.Itoa(logNum+1)))
		}
	}

	current := filepath.Join(dir, debugLogFile)
	os.Rename(current, current+".1")
}

func deleteOldestLog(dir string) int64 {
	logs := rotatedLogFiles(dir)
	if len(logs) == 0 {
		return 0
	}
	oldest := logs[len(logs)-1]
	stat, err := os.Stat(oldest)
	if err != nil {
		return 0
	}
	if err := os.Remove(oldest); err != nil {
		return 0
	}
	return stat.Size()
}

func logFileWatcher() {
	for {
		logSize, err := os.Stat(debugLogf)
		if err == nil && logSize.Size() > maxLogSize {
			rotateLogs(logDir)
			openLogFile()
		}

		usage := du.NewDiskUsage(logDir)
		freeBytes := int64(usage.Free())
		for freeBytes < minFreeBytes {
			deleted := deleteOldestLog(logDir)
			if deleted == 0 {
				break
			}
			log.Printf("Log Info: low disk space, deleted %s of old logs\n", common.HumanizeBytes(uint64(deleted)))
			freeBytes += deleted
		}

		time.Sleep(30 * time.Second)
	}
}

func openLogFile() {
	oldFp := logFileHandle
	debugLogf = filepath.Join(logDir, debugLogFile)
	fp, err := os.OpenFile(debugLogf, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Log Error: failed to open '%s': %s\n", debugLogf, err.Error())
		return
	}
	logFileHandle = fp
	log.SetOutput(io.MultiWriter(fp, os.Stdout))
	if oldFp != nil {
		oldFp.Close()
	}
}

func initLogging(dir string) {
	logDir = dir
	openLogFile()
	go logFileWatcher()
}

func logDbg(msg string, args ...any) {
	if currentSettings().DEBUG {
		log.Printf(msg, args...)
	}
}
