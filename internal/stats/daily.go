// Package stats turns a flat hourly series into per-day min/max/mean buckets.
package stats

import (
	"time"
)

// HoursPerDay is the number of consecutive samples folded into one day bucket
const HoursPerDay = 24

// DateLayout is the calendar-date format used for day keys
const DateLayout = "2006-01-02"

// DailyStat summarizes one calendar day of samples
type DailyStat struct {
	Date    time.Time
	Min     float64
	Max     float64
	Mean    float64
	Samples int
}

// Day returns the bucket date formatted as YYYY-MM-DD
func (d DailyStat) Day() string {
	return d.Date.Format(DateLayout)
}

// Daily holds one DailyStat per day, ascending by date
type Daily []DailyStat

// Clone returns an independent copy
func (d Daily) Clone() Daily {
	if d == nil {
		return nil
	}
	out := make(Daily, len(d))
	copy(out, d)
	return out
}

// DaysInMonth returns the length of the month containing t
func DaysInMonth(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return firstOfNext.AddDate(0, 0, -1).Day()
}

// Summarize buckets series into consecutive 24-sample days starting at start.
//
// The bucket count never exceeds the length of the start date's month. A
// trailing partial window becomes a shorter final bucket. An empty series
// yields an empty (non-nil) result.
func Summarize(series []float64, start time.Time) Daily {
	out := Daily{}
	if len(series) == 0 {
		return out
	}

	anchor := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	days := DaysInMonth(anchor)

	for day := 0; day < days; day++ {
		lo := day * HoursPerDay
		if lo >= len(series) {
			break
		}
		hi := lo + HoursPerDay
		if hi > len(series) {
			hi = len(series)
		}

		out = append(out, summarizeBucket(anchor.AddDate(0, 0, day), series[lo:hi]))
	}

	return out
}

// summarizeBucket computes min, max and mean over a non-empty window
func summarizeBucket(date time.Time, values []float64) DailyStat {
	min, max := values[0], values[0]
	var sum float64
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}

	return DailyStat{
		Date:    date,
		Min:     min,
		Max:     max,
		Mean:    sum / float64(len(values)),
		Samples: len(values),
	}
}
