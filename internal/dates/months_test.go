package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"plain", day(2024, 1, 15), 3, day(2024, 4, 15)},
		{"leap february clamp", day(2024, 1, 31), 1, day(2024, 2, 29)},
		{"non leap february clamp", day(2023, 1, 31), 1, day(2023, 2, 28)},
		{"thirty day month clamp", day(2024, 3, 31), 1, day(2024, 4, 30)},
		{"year rollover", day(2024, 11, 30), 3, day(2025, 2, 28)},
		{"full year", day(2024, 2, 29), 12, day(2025, 2, 28)},
		{"chained extension", day(2024, 4, 15), 2, day(2024, 6, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.start, tt.months))
		})
	}
}

func TestAddMonthsKeepsClock(t *testing.T) {
	start := time.Date(2024, 1, 31, 17, 45, 12, 500, time.UTC)
	got := AddMonths(start, 1)
	assert.Equal(t, time.Date(2024, 2, 29, 17, 45, 12, 500, time.UTC), got)
}

func TestAddMonthsProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		year := rapid.IntRange(1970, 2200).Draw(t, "year")
		month := time.Month(rapid.IntRange(1, 12).Draw(t, "month"))
		d := rapid.IntRange(1, DaysIn(year, month)).Draw(t, "day")
		hour := rapid.IntRange(0, 23).Draw(t, "hour")
		n := rapid.IntRange(1, 12).Draw(t, "months")

		start := time.Date(year, month, d, hour, 0, 0, 0, time.UTC)
		got := AddMonths(start, n)

		offset := (got.Year()*12 + int(got.Month())) - (start.Year()*12 + int(start.Month()))
		if offset != n {
			t.Fatalf("month offset %d, want %d (start %s, got %s)", offset, n, start, got)
		}
		last := DaysIn(got.Year(), got.Month())
		if got.Day() > last {
			t.Fatalf("day %d exceeds last day %d", got.Day(), last)
		}
		if d <= last && got.Day() != d {
			t.Fatalf("day changed without clamping: %d -> %d", d, got.Day())
		}
		if d > last && got.Day() != last {
			t.Fatalf("clamped day %d, want %d", got.Day(), last)
		}
		if !got.After(start) {
			t.Fatalf("result %s not after %s", got, start)
		}
	})
}

func TestDayWindow(t *testing.T) {
	now := time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC)
	start, end := DayWindow(now, 5, time.UTC)
	assert.Equal(t, day(2024, 6, 15), start)
	assert.Equal(t, day(2024, 6, 16), end)
}

func TestDayWindowUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	now := time.Date(2024, 6, 10, 20, 0, 0, 0, time.UTC) // 01:00 on the 11th in loc
	start, _ := DayWindow(now, 0, loc)
	assert.Equal(t, time.Date(2024, 6, 11, 0, 0, 0, 0, loc), start)
}
