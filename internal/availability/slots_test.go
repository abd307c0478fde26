package availability

import (
	"reflect"
	"testing"
	"time"

	"barberbook/internal/model"
)

func scheduleWith(day time.Weekday, ranges ...model.TimeRange) *model.WeeklySchedule {
	s := &model.WeeklySchedule{}
	s.SetRangesFor(day, ranges)
	return s
}

// 2024-06-03 is a Monday.
var monday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func TestSlotsForDay(t *testing.T) {
	tests := []struct {
		name     string
		ranges   []model.TimeRange
		opts     SlotOptions
		expected []string
	}{
		{
			name:   "single morning range excludes end boundary",
			ranges: []model.TimeRange{{Start: "09:30", End: "13:30"}},
			expected: []string{
				"09:30", "10:00", "10:30", "11:00",
				"11:30", "12:00", "12:30", "13:00",
			},
		},
		{
			name: "split day contributes both ranges",
			ranges: []model.TimeRange{
				{Start: "09:30", End: "11:00"},
				{Start: "16:00", End: "17:30"},
			},
			expected: []string{"09:30", "10:00", "10:30", "16:00", "16:30", "17:00"},
		},
		{
			name:     "closed day yields nothing",
			ranges:   nil,
			expected: nil,
		},
		{
			name:     "malformed range start after end yields nothing",
			ranges:   []model.TimeRange{{Start: "15:00", End: "12:00"}},
			expected: nil,
		},
		{
			name:     "unparsable range is skipped",
			ranges:   []model.TimeRange{{Start: "morning", End: "13:00"}, {Start: "16:00", End: "17:00"}},
			expected: []string{"16:00", "16:30"},
		},
		{
			name: "overlapping ranges deduped and sorted in client mode",
			ranges: []model.TimeRange{
				{Start: "16:00", End: "17:00"},
				{Start: "16:30", End: "17:30"},
			},
			opts:     SlotOptions{Dedupe: true},
			expected: []string{"16:00", "16:30", "17:00"},
		},
		{
			name: "overlapping ranges kept raw in admin mode",
			ranges: []model.TimeRange{
				{Start: "16:00", End: "17:00"},
				{Start: "16:30", End: "17:30"},
			},
			expected: []string{"16:00", "16:30", "16:30", "17:00"},
		},
		{
			name:   "not-before drops earlier slots",
			ranges: []model.TimeRange{{Start: "09:30", End: "12:00"}},
			opts: SlotOptions{
				NotBefore: time.Date(2024, 6, 3, 10, 15, 0, 0, time.UTC),
			},
			expected: []string{"10:30", "11:00", "11:30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := scheduleWith(time.Monday, tt.ranges...)
			got := SlotsForDay(schedule, monday, tt.opts)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSlotsForDayCountMatchesRangeWidths(t *testing.T) {
	// For disjoint ranges the slot count is the sum of floor(width/30).
	schedule := scheduleWith(time.Monday,
		model.TimeRange{Start: "09:30", End: "13:30"}, // 8 slots
		model.TimeRange{Start: "16:00", End: "21:00"}, // 10 slots
	)
	got := SlotsForDay(schedule, monday, SlotOptions{Dedupe: true})
	if len(got) != 18 {
		t.Fatalf("expected 18 slots, got %d: %v", len(got), got)
	}
	for _, s := range got {
		if s == "13:30" || s == "21:00" {
			t.Errorf("range end boundary %s must not be a slot start", s)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"1 hora 30 mins", 90},
		{"2 horas", 120},
		{"30 mins", 30},
		{"45 min", 45},
		{"1 hora", 60},
		{"algo raro", 0},
		{"", 0},
		{"90", 0}, // value without a unit contributes nothing
	}

	for _, tt := range tests {
		if got := ParseDuration(tt.input); got != tt.expected {
			t.Errorf("ParseDuration(%q) = %d, expected %d", tt.input, got, tt.expected)
		}
	}
}

func TestFormatDurationRoundTrips(t *testing.T) {
	for _, minutes := range []int{30, 45, 60, 90, 120, 150} {
		formatted := FormatDuration(minutes)
		if got := ParseDuration(formatted); got != minutes {
			t.Errorf("FormatDuration(%d) = %q parses back to %d", minutes, formatted, got)
		}
	}
}
