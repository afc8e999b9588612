package cmd

import (
	"testing"
	"time"

	"github.com/Tiliavir/leave-calendar/internal/timecalc"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"Tan, Mei Ling", `"Tan, Mei Ling"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMdEscape(t *testing.T) {
	if got := mdEscape("Annual | Half"); got != `Annual \| Half` {
		t.Errorf("mdEscape = %q", got)
	}
}

func TestParseMonth(t *testing.T) {
	now := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		input   string
		want    timecalc.YearMonth
		wantErr bool
	}{
		{"", timecalc.YearMonth{Year: 2026, Month: 3}, false},
		{"2025-12", timecalc.YearMonth{Year: 2025, Month: 12}, false},
		{"2026-01", timecalc.YearMonth{Year: 2026, Month: 1}, false},
		{"2026-13", timecalc.YearMonth{}, true},
		{"March", timecalc.YearMonth{}, true},
	}
	for _, tt := range tests {
		got, err := parseMonth(tt.input, now)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMonth(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseMonth(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
