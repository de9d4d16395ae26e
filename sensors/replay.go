package sensors

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/b3nn0/baro/pressure"
)

type replayRow struct {
	press float64
	temp  float64
}

// Replay plays back a recorded CSV log as if it came from a sensor. Each row is
// "pressure[,temperature]", pressure expressed in the unit given to NewReplay.
// A leading header row is skipped. Every Pressure call advances to the next row
// and playback wraps around at the end.
type Replay struct {
	unit string
	rows []replayRow

	mu     sync.Mutex
	pos    int
	closed bool
}

// NewReplay reads the whole log from r. unit is any accepted pressure unit alias.
func NewReplay(r io.Reader, unit string) (*Replay, error) {
	if _, err := pressure.Resolve(unit); err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	rp := &Replay{unit: unit}
	for i, rec := range records {
		row, err := parseReplayRow(rec)
		if err != nil {
			if i == 0 {
				continue // header
			}
			return nil, fmt.Errorf("replay: line %d: %w", i+1, err)
		}
		rp.rows = append(rp.rows, row)
	}
	if len(rp.rows) == 0 {
		return nil, errors.New("replay: no samples")
	}
	return rp, nil
}

func parseReplayRow(rec []string) (replayRow, error) {
	var row replayRow
	if len(rec) == 0 {
		return row, errors.New("empty row")
	}
	p, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
	if err != nil {
		return row, err
	}
	row.press = p
	if len(rec) > 1 {
		t, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return row, err
		}
		row.temp = t
	}
	return row, nil
}

func (r *Replay) Name() string { return "replay" }

// Len returns the number of samples in the log.
func (r *Replay) Len() int { return len(r.rows) }

// Temperature returns the temperature of the current row.
func (r *Replay) Temperature() (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, ErrNotRunning
	}
	return r.rows[r.pos].temp, nil
}

// Pressure returns the pressure of the current row and moves to the next one.
func (r *Replay) Pressure() (*pressure.Pressure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrNotRunning
	}
	row := r.rows[r.pos]
	r.pos = (r.pos + 1) % len(r.rows)
	return pressure.New(row.press, r.unit)
}

func (r *Replay) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}
