// Package rhythm finds the weekday and hour slots in which a user acts at
// the fastest recurring cadence.
package rhythm

import (
	"sort"
	"time"
)

// Event is one timestamped user action.
type Event struct {
	Type       string
	OccurredAt time.Time
}

// Bin is the cadence statistic of one weekday×hour slot.
type Bin struct {
	Weekday       time.Weekday `json:"weekday"`
	Hour          int          `json:"hour"`
	MedianMinutes float64      `json:"median_minutes"`
	Count         int          `json:"count"`
}

type slot struct {
	weekday time.Weekday
	hour    int
}

// ComputeFastestBins buckets the gap (in minutes) between each pair of
// consecutive events by the weekday and hour of the later event, counting
// only pairs whose later event has one of targetTypes. Buckets with fewer
// than minCount gaps are dropped. Bins are ranked by ascending median gap,
// then by descending count, then by weekday and hour. topN ≤ 0 returns all.
//
// Slots are read in each event's own location. Convert the events to the
// user's time zone first; activity read back from storage is in UTC.
//
// events need not be sorted and are not modified.
func ComputeFastestBins(events []Event, targetTypes []string, minCount, topN int) []Bin {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
	})

	targets := make(map[string]bool, len(targetTypes))
	for _, t := range targetTypes {
		targets[t] = true
	}

	gaps := make(map[slot][]float64)
	for i := 1; i < len(sorted); i++ {
		later := sorted[i]
		if !targets[later.Type] {
			continue
		}
		key := slot{weekday: later.OccurredAt.Weekday(), hour: later.OccurredAt.Hour()}
		gaps[key] = append(gaps[key], later.OccurredAt.Sub(sorted[i-1].OccurredAt).Minutes())
	}

	bins := make([]Bin, 0, len(gaps))
	for key, samples := range gaps {
		if len(samples) < minCount {
			continue
		}
		bins = append(bins, Bin{
			Weekday:       key.weekday,
			Hour:          key.hour,
			MedianMinutes: Median(samples),
			Count:         len(samples),
		})
	}

	sort.Slice(bins, func(i, j int) bool {
		a, b := bins[i], bins[j]
		if a.MedianMinutes != b.MedianMinutes {
			return a.MedianMinutes < b.MedianMinutes
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Weekday != b.Weekday {
			return a.Weekday < b.Weekday
		}
		return a.Hour < b.Hour
	})

	if topN > 0 && len(bins) > topN {
		bins = bins[:topN]
	}
	return bins
}

// Median returns the middle value of values, averaging the two central
// values for an even count. It returns 0 for no values and does not modify
// values.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
