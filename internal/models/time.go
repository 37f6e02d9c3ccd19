package models

import "time"

// TimeLayout is the ISO-8601 text format used for every timestamp column.
const TimeLayout = "2006-01-02 15:04:05"

// Now returns the current local time formatted for storage.
func Now() string {
	return time.Now().Format(TimeLayout)
}
