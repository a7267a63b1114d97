package models

import (
	"testing"
	"time"
)

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		date, clock string
		want        time.Time
	}{
		{"2024-11-19", "10:30 AM", time.Date(2024, 11, 19, 10, 30, 0, 0, time.UTC)},
		{"13/09/2025", "02:00 PM", time.Date(2025, 9, 13, 14, 0, 0, 0, time.UTC)},
		{"2024-11-19", "9:00 am", time.Date(2024, 11, 19, 9, 0, 0, 0, time.UTC)},
		{"2024-11-19", "18:45", time.Date(2024, 11, 19, 18, 45, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseSchedule(tt.date, tt.clock, time.UTC)
		if err != nil {
			t.Fatalf("ParseSchedule(%q, %q): unexpected error: %v", tt.date, tt.clock, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseSchedule(%q, %q): expected %v, got %v", tt.date, tt.clock, tt.want, got)
		}
	}
}

func TestParseSchedule_Invalid(t *testing.T) {
	if _, err := ParseSchedule("tomorrow", "10:30 AM", time.UTC); err == nil {
		t.Error("expected error for invalid date")
	}
	if _, err := ParseSchedule("2024-11-19", "half past ten", time.UTC); err == nil {
		t.Error("expected error for invalid time")
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2024-11-19"); got != "Tuesday, November 19, 2024" {
		t.Errorf("unexpected format: %s", got)
	}
	if got := FormatDate("someday"); got != "someday" {
		t.Errorf("expected passthrough, got %s", got)
	}
}

func TestFormatTime(t *testing.T) {
	tests := map[string]string{
		"14:30":    "2:30 PM",
		"00:15":    "12:15 AM",
		"09:00":    "9:00 AM",
		"09:30 AM": "9:30 AM",
		"3:15 pm":  "3:15 PM",
		"later":    "later",
	}
	for in, want := range tests {
		if got := FormatTime(in); got != want {
			t.Errorf("FormatTime(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestCountdownLabel(t *testing.T) {
	now := time.Date(2024, 11, 19, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		start time.Time
		want  string
	}{
		{now.Add(-time.Minute), "Appointment time has passed"},
		{now, "Appointment time has passed"},
		{now.Add(45 * time.Minute), "45 minutes remaining"},
		{now.Add(3*time.Hour + 52*time.Minute), "3h 52m remaining"},
		{now.Add(30 * time.Hour), "1 day remaining"},
		{now.Add(72 * time.Hour), "3 days remaining"},
	}
	for _, tt := range tests {
		if got := CountdownLabel(now, tt.start); got != tt.want {
			t.Errorf("CountdownLabel(+%v): expected %q, got %q", tt.start.Sub(now), tt.want, got)
		}
	}
}

func TestJoinWindowOpen(t *testing.T) {
	start := time.Date(2024, 11, 19, 10, 30, 0, 0, time.UTC)
	lead := 10 * time.Minute
	dur := 30 * time.Minute

	if JoinWindowOpen(start.Add(-11*time.Minute), start, dur, lead) {
		t.Error("expected window closed before lead time")
	}
	if !JoinWindowOpen(start.Add(-10*time.Minute), start, dur, lead) {
		t.Error("expected window open at lead time")
	}
	if !JoinWindowOpen(start.Add(29*time.Minute), start, dur, lead) {
		t.Error("expected window open during consultation")
	}
	if JoinWindowOpen(start.Add(30*time.Minute), start, dur, lead) {
		t.Error("expected window closed after consultation")
	}
}
