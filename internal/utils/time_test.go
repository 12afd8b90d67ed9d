package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{
			name:     "empty string returns local",
			timezone: "",
			wantErr:  false,
		},
		{
			name:     "Local returns local",
			timezone: "Local",
			wantErr:  false,
		},
		{
			name:     "valid timezone UTC",
			timezone: "UTC",
			wantErr:  false,
		},
		{
			name:     "valid timezone America/New_York",
			timezone: "America/New_York",
			wantErr:  false,
		},
		{
			name:     "valid timezone Europe/London",
			timezone: "Europe/London",
			wantErr:  false,
		},
		{
			name:     "valid timezone Asia/Tokyo",
			timezone: "Asia/Tokyo",
			wantErr:  false,
		},
		{
			name:     "invalid timezone",
			timezone: "Invalid/Timezone",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{name: "monday is its own week start", date: "2024-05-06", want: "2024-05-06"},
		{name: "thursday", date: "2024-05-09", want: "2024-05-06"},
		{name: "sunday belongs to previous monday", date: "2024-05-12", want: "2024-05-06"},
		{name: "crosses month boundary", date: "2024-06-01", want: "2024-05-27"},
		{name: "crosses year boundary", date: "2025-01-01", want: "2024-12-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDateInLocation(tt.date, time.UTC)
			if err != nil {
				t.Fatalf("ParseDateInLocation() error = %v", err)
			}
			if got := FormatDate(WeekStart(d)); got != tt.want {
				t.Errorf("WeekStart(%s) = %s, want %s", tt.date, got, tt.want)
			}
		})
	}
}

func TestAddDaysAcrossDST(t *testing.T) {
	loc, err := LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// 2024-03-10 is the spring-forward day in New York.
	start := time.Date(2024, 3, 9, 0, 0, 0, 0, loc)
	next := AddDays(start, 2)
	if FormatDate(next) != "2024-03-11" {
		t.Errorf("AddDays() = %s, want 2024-03-11", FormatDate(next))
	}
	if next.Hour() != 0 {
		t.Errorf("AddDays() hour = %d, want 0", next.Hour())
	}
	if got := DaysBetween(start, next); got != 2 {
		t.Errorf("DaysBetween() = %d, want 2", got)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 30, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 2, 2, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 3 {
		t.Errorf("DaysBetween() = %d, want 3", got)
	}
	if got := DaysBetween(b, a); got != -3 {
		t.Errorf("DaysBetween() reversed = %d, want -3", got)
	}
}
