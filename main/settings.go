/*
	Copyright (c) 2024 The baro Authors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	settings.go: barod settings file. JSON on disk, BAROD_* environment variables override it.
*/

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/spf13/viper"

	"github.com/b3nn0/baro/pressure"
)

const defaultConfigLocation = "/etc/barod.conf"

var configLocation = defaultConfigLocation

type settings struct {
	Sensor_Enabled  bool
	Sensor_Interval int // ms between two samples
	I2C_Bus         byte
	Replay_File     string
	Replay_Unit     string
	DisplayUnit     string
	DataLog_Enabled bool
	DataLog_Path    string
	DataLog_Days    int // samples older than this are pruned, 0 keeps all
	LogDir          string
	ListenAddr      string
	DEBUG           bool
}

var (
	globalSettings = defaultSettings()
	settingsMu     sync.RWMutex
)

func defaultSettings() settings {
	return settings{
		Sensor_Enabled:  true,
		Sensor_Interval: 1000,
		I2C_Bus:         1,
		Replay_Unit:     pressure.ReferenceUnit,
		DisplayUnit:     "bar",
		DataLog_Enabled: true,
		DataLog_Path:    "/var/lib/barod/barod.db",
		DataLog_Days:    30,
		LogDir:          "/var/log",
		ListenAddr:      ":8080",
	}
}

func (s settings) validate() error {
	if _, err := pressure.Resolve(s.DisplayUnit); err != nil {
		return err
	}
	if s.Replay_File != "" {
		if _, err := pressure.Resolve(s.Replay_Unit); err != nil {
			return err
		}
	}
	if s.Sensor_Interval <= 0 {
		return fmt.Errorf("Sensor_Interval must be positive, got %d", s.Sensor_Interval)
	}
	if s.DataLog_Days < 0 {
		return fmt.Errorf("DataLog_Days must not be negative, got %d", s.DataLog_Days)
	}
	return nil
}

// loadSettings reads path on top of the defaults. A missing file is not an error.
func loadSettings(path string) (settings, error) {
	defaults := defaultSettings()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix("barod")
	v.AutomaticEnv()

	var m map[string]interface{}
	buf, _ := json.Marshal(defaults)
	_ = json.Unmarshal(buf, &m)
	for k, val := range m {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return defaults, err
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return defaults, err
	}
	if err := s.validate(); err != nil {
		return defaults, err
	}
	return s, nil
}

func readSettings() {
	s, err := loadSettings(configLocation)
	if err != nil {
		log.Printf("can't read settings %s: %s\n", configLocation, err.Error())
	} else {
		log.Printf("read in settings.\n")
	}
	settingsMu.Lock()
	globalSettings = s
	settingsMu.Unlock()
}

func currentSettings() settings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return globalSettings
}

func writeSettings(path string, s settings) error {
	jsonSettings, err := json.MarshalIndent(&s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, jsonSettings, 0644)
}

// updateSettings applies a partial JSON document to the current settings,
// validates the result and saves it.
func updateSettings(patch []byte) (settings, error) {
	settingsMu.Lock()
	defer settingsMu.Unlock()

	s := globalSettings
	if err := json.Unmarshal(patch, &s); err != nil {
		return globalSettings, err
	}
	if err := s.validate(); err != nil {
		return globalSettings, err
	}
	globalSettings = s

	if err := writeSettings(configLocation, s); err != nil {
		log.Printf("can't save settings %s: %s\n", configLocation, err.Error())
	} else {
		log.Printf("wrote settings.\n")
	}
	return s, nil
}
