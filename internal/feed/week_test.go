package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestWeekStart(t *testing.T) {
	t.Parallel()
	utc := time.UTC

	tests := []struct {
		name string
		now  time.Time
		loc  *time.Location
		want time.Time
	}{
		{
			name: "Midweek Truncates To Monday",
			now:  time.Date(2026, 8, 27, 15, 30, 0, 0, utc), // a Thursday
			loc:  utc,
			want: time.Date(2026, 8, 24, 0, 0, 0, 0, utc),
		},
		{
			name: "Monday Is Its Own Week Start",
			now:  time.Date(2026, 8, 24, 0, 0, 1, 0, utc),
			loc:  utc,
			want: time.Date(2026, 8, 24, 0, 0, 0, 0, utc),
		},
		{
			name: "Sunday Belongs To Previous Monday",
			now:  time.Date(2026, 8, 30, 23, 59, 0, 0, utc),
			loc:  utc,
			want: time.Date(2026, 8, 24, 0, 0, 0, 0, utc),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := WeekStart(tt.now, tt.loc)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

// The same instant can land in different weeks depending on the caller's
// timezone. 05:00 UTC on a Monday is already Monday in New York but still
// Sunday evening in Los Angeles.
func TestWeekStartTimezoneSensitivity(t *testing.T) {
	t.Parallel()
	ny := mustLoad(t, "America/New_York")
	la := mustLoad(t, "America/Los_Angeles")

	// Monday 2026-08-24 05:00 UTC == Mon 01:00 EDT == Sun 22:00 PDT.
	instant := time.Date(2026, 8, 24, 5, 0, 0, 0, time.UTC)

	nyStart := WeekStart(instant, ny)
	laStart := WeekStart(instant, la)

	assert.Equal(t, time.Monday, nyStart.Weekday())
	assert.Equal(t, time.Monday, laStart.Weekday())

	// New York is already in the new week; Los Angeles is still in the old one.
	assert.Equal(t, 24, nyStart.Day())
	assert.Equal(t, 17, laStart.Day())
	assert.True(t, nyStart.After(laStart.Add(6*24*time.Hour)))
}

func TestResolveLocation(t *testing.T) {
	t.Parallel()
	def := mustLoad(t, DefaultTimezone)

	assert.Equal(t, mustLoad(t, "Europe/Berlin").String(), ResolveLocation("Europe/Berlin").String())
	assert.Equal(t, def.String(), ResolveLocation("").String())
	assert.Equal(t, def.String(), ResolveLocation("Not/AZone").String())
}
