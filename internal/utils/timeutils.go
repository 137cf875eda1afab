package utils

import (
	"fmt"
	"time"
)

// ParseRFC3339 returns a time parsed from the provided string, or an error.
// Used for query parameters on the history endpoints.
func ParseRFC3339(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time: %w", err)
	}
	return t, nil
}
