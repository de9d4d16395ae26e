// Package datalog stores pressure samples in a sqlite database. Tables are
// derived from the exported fields of the stored struct.
package datalog

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/b3nn0/baro/pressure"
	"github.com/b3nn0/baro/sensors"
)

const samplesTable = "samples"

// Sample is one stored pressure reading. The pressure is kept both in pascal and
// in the unit the sensor reported, so it can be rebuilt without drift.
type Sample struct {
	id          int64
	UnixNano    int64
	Sensor      string
	Pascal      float64
	SourceUnit  string
	SourceValue float64
	Temperature float64
}

// NewSample flattens a sensor reading for storage.
func NewSample(r sensors.Reading) Sample {
	unit, value := r.Pressure.Source()
	pa, _ := r.Pressure.Value(pressure.ReferenceUnit)
	return Sample{
		UnixNano:    r.Time.UnixNano(),
		Sensor:      r.Sensor,
		Pascal:      pa,
		SourceUnit:  unit.ID,
		SourceValue: value,
		Temperature: r.Temperature,
	}
}

func (s Sample) ID() int64 { return s.id }

func (s Sample) Time() time.Time { return time.Unix(0, s.UnixNano) }

// Pressure rebuilds the conversion state from the value the sensor reported.
func (s Sample) Pressure() (*pressure.Pressure, error) {
	return pressure.New(s.SourceValue, s.SourceUnit)
}

type sqliteType struct {
	FieldType string
	Marshal   func(v reflect.Value) interface{}
}

var sqliteTypes = map[reflect.Kind]sqliteType{
	reflect.Bool:    {"INTEGER", func(v reflect.Value) interface{} { return v.Bool() }},
	reflect.Int:     {"INTEGER", func(v reflect.Value) interface{} { return v.Int() }},
	reflect.Int8:    {"INTEGER", func(v reflect.Value) interface{} { return v.Int() }},
	reflect.Int16:   {"INTEGER", func(v reflect.Value) interface{} { return v.Int() }},
	reflect.Int32:   {"INTEGER", func(v reflect.Value) interface{} { return v.Int() }},
	reflect.Int64:   {"INTEGER", func(v reflect.Value) interface{} { return v.Int() }},
	reflect.Uint8:   {"INTEGER", func(v reflect.Value) interface{} { return int64(v.Uint()) }},
	reflect.Uint16:  {"INTEGER", func(v reflect.Value) interface{} { return int64(v.Uint()) }},
	reflect.Uint32:  {"INTEGER", func(v reflect.Value) interface{} { return int64(v.Uint()) }},
	reflect.Float32: {"REAL", func(v reflect.Value) interface{} { return v.Float() }},
	reflect.Float64: {"REAL", func(v reflect.Value) interface{} { return v.Float() }},
	reflect.String:  {"TEXT", func(v reflect.Value) interface{} { return v.String() }},
}

// columns lists the storable exported fields of a struct value, in field order.
func columns(val reflect.Value) []int {
	var idx []int
	for i := 0; i < val.NumField(); i++ {
		f := val.Type().Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		if _, ok := sqliteTypes[f.Type.Kind()]; !ok {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

func makeTable(db *sql.DB, tbl string, i interface{}) error {
	val := reflect.ValueOf(i)
	fields := make([]string, 0)
	for _, n := range columns(val) {
		f := val.Type().Field(n)
		fields = append(fields, f.Name+" "+sqliteTypes[f.Type.Kind()].FieldType)
	}
	tblCreate := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT, %s)",
		tbl, strings.Join(fields, ", "))
	if _, err := db.Exec(tblCreate); err != nil {
		return fmt.Errorf("datalog: create %s: %w", tbl, err)
	}
	return nil
}

func insertData(db *sql.DB, tbl string, i interface{}) (int64, error) {
	val := reflect.ValueOf(i)
	keys := make([]string, 0)
	values := make([]interface{}, 0)
	for _, n := range columns(val) {
		f := val.Type().Field(n)
		keys = append(keys, f.Name)
		values = append(values, sqliteTypes[f.Type.Kind()].Marshal(val.Field(n)))
	}

	tblInsert := fmt.Sprintf("INSERT INTO %s (%s) VALUES(%s)", tbl, strings.Join(keys, ","),
		strings.TrimSuffix(strings.Repeat("?,", len(keys)), ","))
	res, err := db.Exec(tblInsert, values...)
	if err != nil {
		return 0, fmt.Errorf("datalog: insert into %s: %w", tbl, err)
	}
	return res.LastInsertId()
}

// DataLog is a sqlite backed sample store, safe for concurrent use.
type DataLog struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*DataLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("datalog: open %s: %w", path, err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	if err := makeTable(db, samplesTable, Sample{}); err != nil {
		db.Close()
		return nil, err
	}
	return &DataLog{db: db}, nil
}

// Insert stores s and returns its row id.
func (l *DataLog) Insert(s Sample) (int64, error) {
	return insertData(l.db, samplesTable, s)
}

// Since returns the samples taken at or after t, oldest first.
func (l *DataLog) Since(t time.Time) ([]Sample, error) {
	rows, err := l.db.Query("SELECT id, UnixNano, Sensor, Pascal, SourceUnit, SourceValue, Temperature FROM "+
		samplesTable+" WHERE UnixNano >= ? ORDER BY UnixNano, id", t.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("datalog: query: %w", err)
	}
	defer rows.Close()

	samples := make([]Sample, 0)
	for rows.Next() {
		var s Sample
		if err := rows.Scan(&s.id, &s.UnixNano, &s.Sensor, &s.Pascal, &s.SourceUnit, &s.SourceValue, &s.Temperature); err != nil {
			return nil, fmt.Errorf("datalog: scan: %w", err)
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// Count returns the number of stored samples.
func (l *DataLog) Count() (int, error) {
	var n int
	err := l.db.QueryRow("SELECT COUNT(*) FROM " + samplesTable).Scan(&n)
	return n, err
}

// Prune deletes the samples older than t and returns how many were removed.
func (l *DataLog) Prune(t time.Time) (int64, error) {
	res, err := l.db.Exec("DELETE FROM "+samplesTable+" WHERE UnixNano < ?", t.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("datalog: prune: %w", err)
	}
	return res.RowsAffected()
}

func (l *DataLog) Close() error {
	return l.db.Close()
}
