package feed

import "time"

// DefaultTimezone is the fallback week-boundary timezone when a caller does
// not supply one. Leaderboard windows are computed in the caller's timezone
// on purpose: two viewers whose local weeks start at different instants can
// see different counts for the same underlying doros.
const DefaultTimezone = "America/New_York"

// ResolveLocation loads the IANA timezone, falling back to DefaultTimezone
// for an empty or unknown name.
func ResolveLocation(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WeekStart truncates now to the start of its week (Monday 00:00) in loc.
func WeekStart(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	// Days since Monday; time.Weekday has Sunday == 0.
	back := (int(local.Weekday()) + 6) % 7
	y, m, d := local.AddDate(0, 0, -back).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
