// internal/timefmt/timefmt.go
// Human-readable relative and absolute time formatting.
// The *At variants take the reference time explicitly so callers and
// tests control the clock; the plain variants use time.Now().

package timefmt

import (
	"fmt"
	"time"
)

// TimeAgo formats t relative to the current wall clock
func TimeAgo(t time.Time) string {
	return TimeAgoAt(t, time.Now())
}

// TimeAgoAt formats t relative to now with unit-by-unit granularity
func TimeAgoAt(t, now time.Time) string {
	diff := now.Sub(t)

	seconds := int64(diff / time.Second)
	minutes := int64(diff / time.Minute)
	hours := int64(diff / time.Hour)
	days := int64(diff / (24 * time.Hour))
	weeks := days / 7
	months := days / 30
	years := days / 365

	switch {
	case seconds < 5:
		return "just now"
	case seconds < 60:
		return fmt.Sprintf("%d seconds ago", seconds)
	case minutes == 1:
		return "1 minute ago"
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	case hours == 1:
		return "1 hour ago"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case weeks == 1:
		return "1 week ago"
	case weeks < 4:
		return fmt.Sprintf("%d weeks ago", weeks)
	case months == 1:
		return "1 month ago"
	case months < 12:
		return fmt.Sprintf("%d months ago", months)
	case years == 1:
		return "1 year ago"
	default:
		return fmt.Sprintf("%d years ago", years)
	}
}

// TimeAgoShort formats t relative to the current wall clock using
// abbreviated units
func TimeAgoShort(t time.Time) string {
	return TimeAgoShortAt(t, time.Now())
}

// TimeAgoShortAt formats t relative to now as now/m/h/d/w/mo/y
func TimeAgoShortAt(t, now time.Time) string {
	diff := now.Sub(t)

	seconds := int64(diff / time.Second)
	minutes := int64(diff / time.Minute)
	hours := int64(diff / time.Hour)
	days := int64(diff / (24 * time.Hour))
	weeks := days / 7
	months := days / 30
	years := days / 365

	switch {
	case seconds < 60:
		return "now"
	case minutes < 60:
		return fmt.Sprintf("%dm", minutes)
	case hours < 24:
		return fmt.Sprintf("%dh", hours)
	case days < 7:
		return fmt.Sprintf("%dd", days)
	case weeks < 4:
		return fmt.Sprintf("%dw", weeks)
	case months < 12:
		return fmt.Sprintf("%dmo", months)
	default:
		return fmt.Sprintf("%dy", years)
	}
}

// FormatDate formats t as an absolute calendar date, e.g. "Jan 2, 2006"
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// FormatDateTime formats t as an absolute date and time
func FormatDateTime(t time.Time) string {
	return t.Format("Jan 2, 2006, 3:04 PM")
}

// IsToday reports whether t falls on the current wall-clock day
func IsToday(t time.Time) bool {
	return IsTodayAt(t, time.Now())
}

// IsTodayAt reports whether t and now fall on the same calendar day
func IsTodayAt(t, now time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsYesterday reports whether t falls on the day before the current
// wall-clock day
func IsYesterday(t time.Time) bool {
	return IsYesterdayAt(t, time.Now())
}

// IsYesterdayAt reports whether t falls on the calendar day before now
func IsYesterdayAt(t, now time.Time) bool {
	return IsTodayAt(t, now.AddDate(0, 0, -1))
}

// RelativeDate formats t as "Today at HH:MM", "Yesterday at HH:MM", or
// an absolute date-time fallback, against the current wall clock
func RelativeDate(t time.Time) string {
	return RelativeDateAt(t, time.Now())
}

// RelativeDateAt is RelativeDate with an explicit reference time
func RelativeDateAt(t, now time.Time) string {
	if IsTodayAt(t, now) {
		return "Today at " + t.Format("3:04 PM")
	}
	if IsYesterdayAt(t, now) {
		return "Yesterday at " + t.Format("3:04 PM")
	}
	return FormatDateTime(t)
}
