package timefmt

import (
	"testing"
	"time"
)

var ref = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestTimeAgoAt(t *testing.T) {
	cases := []struct {
		delta time.Duration
		want  string
	}{
		{4 * time.Second, "just now"},
		{5 * time.Second, "5 seconds ago"},
		{59 * time.Second, "59 seconds ago"},
		{90 * time.Second, "1 minute ago"},
		{30 * time.Minute, "30 minutes ago"},
		{90 * time.Minute, "1 hour ago"},
		{5 * time.Hour, "5 hours ago"},
		{24 * time.Hour, "yesterday"},
		{25 * time.Hour, "yesterday"},
		{47 * time.Hour, "yesterday"},
		{3 * 24 * time.Hour, "3 days ago"},
		{8 * 24 * time.Hour, "1 week ago"},
		{20 * 24 * time.Hour, "2 weeks ago"},
		{35 * 24 * time.Hour, "1 month ago"},
		{100 * 24 * time.Hour, "3 months ago"},
		{400 * 24 * time.Hour, "1 year ago"},
		{800 * 24 * time.Hour, "2 years ago"},
	}
	for i, c := range cases {
		if got := TimeAgoAt(ref.Add(-c.delta), ref); got != c.want {
			t.Fatalf("case %d (-%v): expected %q, got %q", i, c.delta, c.want, got)
		}
	}
}

func TestTimeAgoShortAt(t *testing.T) {
	cases := []struct {
		delta time.Duration
		want  string
	}{
		{4 * time.Second, "now"},
		{59 * time.Second, "now"},
		{90 * time.Second, "1m"},
		{59 * time.Minute, "59m"},
		{2 * time.Hour, "2h"},
		{26 * time.Hour, "1d"},
		{10 * 24 * time.Hour, "1w"},
		{40 * 24 * time.Hour, "1mo"},
		{400 * 24 * time.Hour, "1y"},
	}
	for i, c := range cases {
		if got := TimeAgoShortAt(ref.Add(-c.delta), ref); got != c.want {
			t.Fatalf("case %d (-%v): expected %q, got %q", i, c.delta, c.want, got)
		}
	}
}

func TestDayBoundaries(t *testing.T) {
	sameDay := time.Date(2024, time.June, 15, 0, 30, 0, 0, time.UTC)
	prevDay := time.Date(2024, time.June, 14, 23, 30, 0, 0, time.UTC)
	twoBack := time.Date(2024, time.June, 13, 23, 30, 0, 0, time.UTC)

	if !IsTodayAt(sameDay, ref) {
		t.Fatal("same calendar day should be today")
	}
	if IsTodayAt(prevDay, ref) {
		t.Fatal("previous day should not be today")
	}
	if !IsYesterdayAt(prevDay, ref) {
		t.Fatal("previous calendar day should be yesterday")
	}
	if IsYesterdayAt(sameDay, ref) || IsYesterdayAt(twoBack, ref) {
		t.Fatal("only the immediately preceding day counts as yesterday")
	}
}

func TestRelativeDateAt(t *testing.T) {
	today := time.Date(2024, time.June, 15, 9, 5, 0, 0, time.UTC)
	if got := RelativeDateAt(today, ref); got != "Today at 9:05 AM" {
		t.Fatalf("expected Today form, got %q", got)
	}

	yesterday := time.Date(2024, time.June, 14, 18, 45, 0, 0, time.UTC)
	if got := RelativeDateAt(yesterday, ref); got != "Yesterday at 6:45 PM" {
		t.Fatalf("expected Yesterday form, got %q", got)
	}

	older := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	if got := RelativeDateAt(older, ref); got != "Mar 1, 2024, 8:00 AM" {
		t.Fatalf("expected absolute fallback, got %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(ref); got != "Jun 15, 2024" {
		t.Fatalf("expected Jun 15, 2024, got %q", got)
	}
}
