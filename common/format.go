package common

import (
	"math"
	"strconv"
	"time"

	humanize "github.com/dustin/go-humanize"
)

// HumanizeValue groups the integer digits of v, e.g. 101325 becomes "101,325".
// Non-finite values fall back to strconv.
func HumanizeValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return humanize.Commaf(v)
}

// HumanizeAge describes how long before now t happened ("3 seconds ago").
func HumanizeAge(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func HumanizeBytes(n uint64) string {
	return humanize.Bytes(n)
}
