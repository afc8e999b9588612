package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/leave-calendar/internal/timecalc"
)

func TestFullDate(t *testing.T) {
	tests := []struct {
		year, month, day int
		want             string
	}{
		{2026, 1, 5, "2026-01-05"},
		{2025, 12, 31, "2025-12-31"},
		{2026, 2, 16, "2026-02-16"},
		{999, 3, 1, "0999-03-01"},
	}
	for _, tt := range tests {
		got := timecalc.FullDate(tt.year, tt.month, tt.day)
		if got != tt.want {
			t.Errorf("FullDate(%d, %d, %d) = %q, want %q", tt.year, tt.month, tt.day, got, tt.want)
		}
	}
}

func TestFullDateRoundTrip(t *testing.T) {
	for _, year := range []int{2024, 2025, 2026} {
		for month := 1; month <= 12; month++ {
			for day := 1; day <= timecalc.DaysInMonth(year, month); day++ {
				key := timecalc.FullDate(year, month, day)
				if len(key) != 10 {
					t.Fatalf("FullDate(%d, %d, %d) = %q, want 10 characters", year, month, day, key)
				}
				y, m, d, err := timecalc.ParseFullDate(key)
				if err != nil {
					t.Fatalf("ParseFullDate(%q): %v", key, err)
				}
				if y != year || m != month || d != day {
					t.Fatalf("ParseFullDate(%q) = %d-%d-%d, want %d-%d-%d", key, y, m, d, year, month, day)
				}
			}
		}
	}
}

func TestParseFullDateInvalid(t *testing.T) {
	for _, s := range []string{"", "2026-1-5", "2026-02-30", "05/01/2026"} {
		if _, _, _, err := timecalc.ParseFullDate(s); err == nil {
			t.Errorf("ParseFullDate(%q): expected error", s)
		}
	}
}

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want [3]timecalc.YearMonth
	}{
		{
			name: "january rolls back to previous december",
			now:  time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
			want: [3]timecalc.YearMonth{{2025, 12}, {2026, 1}, {2026, 2}},
		},
		{
			name: "december rolls forward to next january",
			now:  time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC),
			want: [3]timecalc.YearMonth{{2025, 11}, {2025, 12}, {2026, 1}},
		},
		{
			name: "month end does not skip short months",
			now:  time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC),
			want: [3]timecalc.YearMonth{{2026, 2}, {2026, 3}, {2026, 4}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timecalc.MonthWindow(tt.now)
			if got != tt.want {
				t.Errorf("MonthWindow(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2026, 1, 31},
		{2026, 2, 28},
		{2024, 2, 29},
		{2026, 4, 30},
	}
	for _, tt := range tests {
		if got := timecalc.DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestValidDay(t *testing.T) {
	if !timecalc.ValidDay(2024, 2, 29) {
		t.Error("2024-02-29 should be valid")
	}
	if timecalc.ValidDay(2026, 2, 29) {
		t.Error("2026-02-29 should be invalid")
	}
	if timecalc.ValidDay(2026, 13, 1) {
		t.Error("month 13 should be invalid")
	}
}

func TestIsWeekend(t *testing.T) {
	// 2026-01-03 is a Saturday, 2026-01-05 a Monday.
	if !timecalc.IsWeekend(2026, 1, 3) {
		t.Error("2026-01-03 should be a weekend")
	}
	if timecalc.IsWeekend(2026, 1, 5) {
		t.Error("2026-01-05 should not be a weekend")
	}
}

func TestMonthName(t *testing.T) {
	if got := timecalc.MonthName(2); got != "February" {
		t.Errorf("MonthName(2) = %q, want %q", got, "February")
	}
	if got := timecalc.MonthName(0); got != "" {
		t.Errorf("MonthName(0) = %q, want empty", got)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}
