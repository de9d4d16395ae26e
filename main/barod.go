/*
	Copyright (c) 2024 The baro Authors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	barod.go: Barometer daemon. Reads the pressure sensor, converts every sample
	 into all supported units and serves the results over HTTP.
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/takama/daemon"

	"github.com/b3nn0/baro/common"
)

const (
	// name of the service
	name        = "barod"
	description = "barometric pressure sensor daemon with unit conversion"
)

var (
	stdlog, errlog *log.Logger
)

// Service has embedded daemon
type Service struct {
	daemon.Daemon
}

type options struct {
	config     string
	listen     string
	replay     string
	replayUnit string
	command    string
}

func parseOptions(args []string) (options, error) {
	var o options
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVarP(&o.config, "config", "c", defaultConfigLocation, "settings file")
	fs.StringVarP(&o.listen, "listen", "l", "", "management interface address, overrides ListenAddr")
	fs.StringVar(&o.replay, "replay", "", "replay a CSV pressure log instead of reading the sensor")
	fs.StringVar(&o.replayUnit, "replay-unit", "", "pressure unit of the replay log")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 1 {
		return o, fmt.Errorf("unexpected arguments %v", fs.Args()[1:])
	}
	if fs.NArg() == 1 {
		o.command = fs.Arg(0)
	}
	return o, nil
}

// applyOptions overrides the loaded settings with command line flags.
func applyOptions(o options) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	if o.listen != "" {
		globalSettings.ListenAddr = o.listen
	}
	if o.replay != "" {
		globalSettings.Replay_File = o.replay
	}
	if o.replayUnit != "" {
		globalSettings.Replay_Unit = o.replayUnit
	}
}

// applySettings starts or stops the parts of the daemon that depend on a changed setting.
func applySettings(before, after settings) {
	if after.DataLog_Enabled && (!before.DataLog_Enabled || before.DataLog_Path != after.DataLog_Path) {
		stopDataLog()
		if err := startDataLog(after.DataLog_Path); err != nil {
			log.Printf("Datalog Error: %s\n", err.Error())
		}
	} else if !after.DataLog_Enabled && before.DataLog_Enabled {
		stopDataLog()
	}
	if after.Sensor_Enabled && !before.Sensor_Enabled {
		log.Println("Sensor Info: sensor enabled")
	}
}

// Manage by daemon commands or run the daemon
func (service *Service) Manage() (string, error) {
	usage := "Usage: " + name + " [--config PATH] [--listen ADDR] [--replay CSV] install | remove | start | stop | status"

	o, err := parseOptions(os.Args[1:])
	if err != nil {
		return usage, err
	}

	// if received any kind of command, do it
	switch o.command {
	case "":
	case "install":
		if !common.IsRunningAsRoot() {
			return "", errors.New("install must be run as root")
		}
		args := []string{}
		if o.config != defaultConfigLocation {
			args = append(args, "--config", o.config)
		}
		return service.Install(args...)
	case "remove":
		return service.Remove()
	case "start":
		return service.Start()
	case "stop":
		return service.Stop()
	case "status":
		return service.Status()
	default:
		return usage, nil
	}

	configLocation = o.config
	readSettings()
	applyOptions(o)
	s := currentSettings()

	initLogging(s.LogDir)
	log.Printf("barod %s starting\n", barodVersion)

	registerMetrics()
	readingsBroadcaster = NewUIBroadcaster()

	if s.DataLog_Enabled {
		if err := startDataLog(s.DataLog_Path); err != nil {
			log.Printf("Datalog Error: %s\n", err.Error())
		}
	}
	go dataLogPruner()

	initSensors()
	go managementInterface(s.ListenAddr)

	// Set up channel on which to send signal notifications.
	// We must use a buffered channel or risk missing the signal
	// if we're not ready to receive when the signal is sent.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)

	// interrupt by system signal
	for {
		killSignal := <-interrupt
		log.Println("Got signal:", killSignal)
		switch killSignal {
		case syscall.SIGUSR1:
			before := currentSettings()
			readSettings()
			applyOptions(o)
			applySettings(before, currentSettings())
		case syscall.SIGINT:
			stopDataLog()
			return "Daemon was interrupted by system signal", nil
		default:
			stopDataLog()
			return "Daemon was killed", nil
		}
	}
}

func init() {
	stdlog = log.New(os.Stdout, "", 0)
	errlog = log.New(os.Stderr, "", 0)
}

func main() {
	srv, err := daemon.New(name, description, daemon.SystemDaemon)
	if err != nil {
		errlog.Println("Error: ", err)
		os.Exit(1)
	}
	service := &Service{srv}
	status, err := service.Manage()
	if err != nil {
		errlog.Println(status, "\nError: ", err)
		os.Exit(1)
	}
	stdlog.Println(status)
}
