package entry

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Stats is the dashboard aggregate computed client-side from history rows.
type Stats struct {
	Entries         int
	ConnectionsSent int
	Accepted        int
	Replies         int
	CallsBooked     int
}

// ConversionRate is the overall accepted/sent percentage across all rows.
func (s Stats) ConversionRate() string {
	return ConversionRate(s.ConnectionsSent, s.Accepted)
}

// ComputeStats totals the count columns of the history rows the backend
// returned. Missing or non-numeric cells contribute zero.
func ComputeStats(rows []map[string]any) Stats {
	stats := Stats{Entries: len(rows)}
	for _, row := range rows {
		stats.ConnectionsSent += cellCount(row["connections_sent"])
		stats.Accepted += cellCount(row["connections_accepted"])
		stats.Replies += cellCount(row["replies_received"])
		stats.CallsBooked += cellCount(row["calls_booked"])
	}
	return stats
}

// cellCount coerces a history cell to a non-negative int. Sheets round-trip
// numbers as float64 and sometimes as strings.
func cellCount(value any) int {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0
		}
		return int(v)
	case int:
		if v < 0 {
			return 0
		}
		return v
	case json.Number:
		f, err := v.Float64()
		if err != nil || f < 0 {
			return 0
		}
		return int(f)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || parsed < 0 {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
