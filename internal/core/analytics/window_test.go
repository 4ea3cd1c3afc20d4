package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      time.Duration
		wantError bool
	}{
		{name: "hours", input: "36h", want: 36 * time.Hour},
		{name: "days suffix", input: "7d", want: 7 * 24 * time.Hour},
		{name: "empty invalid", input: "", wantError: true},
		{name: "negative invalid", input: "-1h", wantError: true},
		{name: "zero days invalid", input: "0d", wantError: true},
		{name: "bad day format invalid", input: "xd", wantError: true},
		{name: "unknown unit invalid", input: "10x", wantError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseWindow(tc.input)
			if tc.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestLookbackCutoff(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), LookbackCutoff(now, 90))
}
