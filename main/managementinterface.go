/*
	Copyright (c) 2024 The baro Authors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	managementinterface.go: HTTP API for unit conversion, readings, history,
	 settings and status. Live readings are pushed over the /readings websocket.
*/

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/websocket"

	"github.com/b3nn0/baro/chart"
	"github.com/b3nn0/baro/pressure"
	"github.com/b3nn0/baro/sensors"
)

const (
	defaultHistory     = 24 * time.Hour
	defaultTrendWindow = 3 * time.Hour
)

type conversionResponse struct {
	Value   float64            `json:"value"`
	From    string             `json:"from"`
	To      string             `json:"to"`
	Result  float64            `json:"result"`
	Display string             `json:"display"`
	All     map[string]float64 `json:"all"`
}

type readingMessage struct {
	Time        time.Time          `json:"time"`
	Sensor      string             `json:"sensor"`
	Temperature float64            `json:"temperature"`
	Values      map[string]float64 `json:"values"`
	Display     string             `json:"display"`
}

type historySample struct {
	Time        time.Time `json:"time"`
	Sensor      string    `json:"sensor"`
	Temperature float64   `json:"temperature"`
	Value       float64   `json:"value"`
}

type errorMessage struct {
	Error string `json:"error"`
}

func newReadingMessage(r sensors.Reading, displayUnit string) readingMessage {
	msg := readingMessage{
		Time:        r.Time,
		Sensor:      r.Sensor,
		Temperature: r.Temperature,
		Values:      r.Pressure.ToMap(),
	}
	msg.Display, _ = r.Pressure.Format(displayUnit)
	return msg
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	buf, err := json.Marshal(v)
	if err != nil {
		// encoding/json has no representation for +-Inf and NaN
		code = http.StatusUnprocessableEntity
		buf, _ = json.Marshal(errorMessage{Error: err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, "%s\n", buf)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorMessage{Error: err.Error()})
}

func setCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next(w, r)
	}
}

// AJAX call - /getUnits. Responds with every supported unit.
func handleUnitsRequest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pressure.Units())
}

// AJAX call - /getUnit?unit=A. Responds with the unit A resolves to.
func handleUnitRequest(w http.ResponseWriter, r *http.Request) {
	meta, err := pressure.Describe(r.URL.Query().Get("unit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// AJAX call - /convert?value=V&from=A&to=B.
func handleConvertRequest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")

	p, err := parseConversion(q.Get("value"), from)
	if err != nil {
		totalConversions.WithLabelValues(conversionResult(err)).Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := p.Value(to)
	totalConversions.WithLabelValues(conversionResult(err)).Inc()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	display, _ := p.Format(to)
	_, value := p.Source()

	writeJSON(w, http.StatusOK, conversionResponse{
		Value:   value,
		From:    from,
		To:      to,
		Result:  result,
		Display: display,
		All:     p.ToMap(),
	})
}

func parseConversion(value, from string) (*pressure.Pressure, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, fmt.Errorf("`%s` (parameter `value`) is not a number: %w", value, pressure.ErrInvalidNumber)
	}
	if math.IsInf(v, 0) {
		return nil, fmt.Errorf("`%s` (parameter `value`) is not finite: %w", value, pressure.ErrInvalidNumber)
	}
	return pressure.New(v, from)
}

// AJAX call - /getReading. Responds with the latest sensor reading, 204 before the first one.
func handleReadingRequest(w http.ResponseWriter, r *http.Request) {
	reading, ok := getLastReading()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, newReadingMessage(reading, currentSettings().DisplayUnit))
}

// AJAX call - /getHistory?since=DURATION&unit=A[&format=png].
func handleHistoryRequest(w http.ResponseWriter, r *http.Request) {
	since, unit, err := historyWindow(r, "since", defaultHistory)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	samples, err := dataLogSince(time.Now().Add(-since))
	if errors.Is(err, errDataLogDisabled) {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if r.URL.Query().Get("format") == "png" {
		var buf bytes.Buffer
		err := chart.WritePNG(&buf, samples, unit)
		if errors.Is(err, chart.ErrNoSamples) {
			w.WriteHeader(http.StatusNoContent)
			return
		} else if err != nil {
			log.Printf("handleHistoryRequest: %s\n", err.Error())
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
		return
	}

	history := make([]historySample, 0, len(samples))
	for _, s := range samples {
		p, err := s.Pressure()
		if err != nil {
			continue
		}
		v, _ := p.Value(unit)
		history = append(history, historySample{Time: s.Time(), Sensor: s.Sensor, Temperature: s.Temperature, Value: v})
	}
	writeJSON(w, http.StatusOK, history)
}

// historyWindow parses the since/window query parameter and the unit, falling
// back to the display unit.
func historyWindow(r *http.Request, param string, def time.Duration) (time.Duration, string, error) {
	q := r.URL.Query()
	d := def
	if s := q.Get(param); s != "" {
		var err error
		if d, err = time.ParseDuration(s); err != nil {
			return 0, "", err
		}
	}
	unit := q.Get("unit")
	if unit == "" {
		unit = currentSettings().DisplayUnit
	}
	if _, err := pressure.Resolve(unit); err != nil {
		return 0, "", err
	}
	return d, unit, nil
}

// AJAX call - /getTrend?window=DURATION&unit=A. Pressure tendency over the window.
func handleTrendRequest(w http.ResponseWriter, r *http.Request) {
	window, unit, err := historyWindow(r, "window", defaultTrendWindow)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	samples, err := dataLogSince(time.Now().Add(-window))
	if errors.Is(err, errDataLogDisabled) {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	tr, err := computeTrend(samples, unit)
	if errors.Is(err, errTooFewSamples) {
		w.WriteHeader(http.StatusNoContent)
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

// AJAX call - /getSettings. Responds with all barod.conf data.
func handleSettingsGetRequest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentSettings())
}

// AJAX call - /setSettings. Receives via POST any subset of barod.conf data.
func handleSettingsSetRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, errors.New("use POST"))
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	before := currentSettings()
	s, err := updateSettings(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	applySettings(before, s)
	writeJSON(w, http.StatusOK, s)
}

// AJAX call - /getStatus.
func handleStatusRequest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, snapshotStatus())
}

func newManagementMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/getUnits", setCORS(handleUnitsRequest))
	mux.HandleFunc("/getUnit", setCORS(handleUnitRequest))
	mux.HandleFunc("/convert", setCORS(handleConvertRequest))
	mux.HandleFunc("/getReading", setCORS(handleReadingRequest))
	mux.HandleFunc("/getHistory", setCORS(handleHistoryRequest))
	mux.HandleFunc("/getTrend", setCORS(handleTrendRequest))
	mux.HandleFunc("/getSettings", setCORS(handleSettingsGetRequest))
	mux.HandleFunc("/setSettings", setCORS(handleSettingsSetRequest))
	mux.HandleFunc("/getStatus", setCORS(handleStatusRequest))
	mux.HandleFunc("/readings",
		func(w http.ResponseWriter, req *http.Request) {
			s := websocket.Server{
				Handler: websocket.Handler(handleReadingsConnection)}
			s.ServeHTTP(w, req)
		})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func managementInterface(addr string) {
	log.Printf("Management Info: listening on %s\n", addr)
	err := http.ListenAndServe(addr, newManagementMux())
	if err != nil {
		log.Printf("managementInterface ListenAndServe: %s\n", err.Error())
	}
}
