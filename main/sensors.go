/*
	Copyright (c) 2024 The baro Authors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	sensors.go: Connect to the barometer (or a replay log) and hand every
	 reading to the status, metrics, websocket and data log consumers.
*/

package main

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all"

	"github.com/b3nn0/baro/sensors"
)

const numRetries uint8 = 5

var (
	i2cbus              embd.I2CBus
	readingsBroadcaster *uibroadcaster
)

func initSensors() {
	s := currentSettings()
	if s.Replay_File == "" {
		i2cbus = embd.NewI2CBus(s.I2C_Bus)
	}
	go pollSensors()
}

func pollSensors() {
	timer := time.NewTicker(4 * time.Second)
	for {
		// If it's not currently connected, try connecting to the pressure sensor
		if currentSettings().Sensor_Enabled && !sensorConnected() {
			log.Println("Sensor Info: attempting pressure sensor connection.")
			if reader, ok := initPressureSensor(); ok {
				setSensorState(true, reader.Name())
				go tempAndPressureSender(reader)
			}
		}
		<-timer.C
	}
}

func initPressureSensor() (sensors.PressureReader, bool) {
	s := currentSettings()
	interval := time.Duration(s.Sensor_Interval) * time.Millisecond

	if s.Replay_File != "" {
		f, err := os.Open(s.Replay_File)
		if err != nil {
			log.Printf("Sensor Error: %s\n", err.Error())
			return nil, false
		}
		defer f.Close()
		replay, err := sensors.NewReplay(f, s.Replay_Unit)
		if err != nil {
			log.Printf("Sensor Error: %s: %s\n", s.Replay_File, err.Error())
			return nil, false
		}
		log.Printf("Sensor Info: replaying %d samples from %s\n", replay.Len(), s.Replay_File)
		return replay, true
	}

	reader, err := sensors.Detect(i2cbus, interval)
	if err != nil {
		return nil, false
	}
	return reader, true
}

func tempAndPressureSender(reader sensors.PressureReader) {
	var failnum uint8

	interval := time.Duration(currentSettings().Sensor_Interval) * time.Millisecond
	timer := time.NewTicker(interval)
	defer timer.Stop()

	for currentSettings().Sensor_Enabled {
		<-timer.C

		r, err := sensors.Read(reader, time.Now())
		if err != nil {
			log.Printf("Sensor Error: Couldn't read pressure from sensor: %s\n", err)
			countReadError()
			failnum++
			if failnum > numRetries {
				log.Printf("Sensor Error: Couldn't read pressure from sensor %d times, closing %s\n", failnum, reader.Name())
				break
			}
			continue
		}
		failnum = 0
		handleReading(r)
	}
	reader.Close()
	setSensorState(false, "") // Try reconnecting a little later
}

func handleReading(r sensors.Reading) {
	setLastReading(r)
	updatePressureMetrics(r.Pressure, r.Temperature)
	logReading(r)

	if readingsBroadcaster == nil {
		return
	}
	msg, err := json.Marshal(newReadingMessage(r, currentSettings().DisplayUnit))
	if err != nil {
		logDbg("Sensor Error: can't encode reading: %s\n", err.Error())
		return
	}
	readingsBroadcaster.Send(msg)
}
