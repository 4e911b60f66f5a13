package utils

import "time"

// Calendar-date helpers. All daily state is partitioned by UTC day so the
// reset job's single global trigger and user requests agree on "today".

// DateLayout is the date-only format used as the UserTask partition key.
const DateLayout = "2006-01-02"

// TodayUTC returns the current UTC date truncated to midnight.
func TodayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDateOnly converts a time to its YYYY-MM-DD form.
func FormatDateOnly(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// CurrentWeekBounds returns the Sunday 00:00 and Saturday 23:59:59.999 UTC
// instants bracketing the current week.
func CurrentWeekBounds() (start, end time.Time) {
	now := time.Now().UTC()
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start = start.AddDate(0, 0, -int(now.Weekday()))
	end = start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return start, end
}

// Greeting builds a time-of-day greeting for the dashboard.
func Greeting(firstName string) string {
	hour := time.Now().UTC().Hour()
	switch {
	case hour < 12:
		return "Good morning, " + firstName
	case hour < 18:
		return "Good afternoon, " + firstName
	default:
		return "Good evening, " + firstName
	}
}
