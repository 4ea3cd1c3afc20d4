package analytics

import (
	"fmt"
	"time"
)

// ParseWindow parses a duration string. It accepts Go duration syntax
// ("36h", "90m") plus "Xd" for whole days.
func ParseWindow(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("window must not be empty")
	}

	// time.ParseDuration has no day unit.
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err != nil {
			return 0, fmt.Errorf("invalid window %q: %w", s, err)
		}
		if days <= 0 {
			return 0, fmt.Errorf("window must be positive, got %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid window %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("window must be positive, got %q", s)
	}
	return d, nil
}

// LookbackCutoff returns the earliest purchase time included in a backfill
// of lookbackDays ending at now.
func LookbackCutoff(now time.Time, lookbackDays int) time.Time {
	return now.Add(-time.Duration(lookbackDays) * 24 * time.Hour)
}
