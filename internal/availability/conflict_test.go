package availability

import (
	"testing"
	"time"

	"barberbook/internal/model"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 3, hour, minute, 0, 0, time.UTC)
}

func TestConflicts(t *testing.T) {
	existing := []Interval{{Start: at(10, 0), End: at(11, 0)}}

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		conflict bool
	}{
		{"start strictly inside", at(10, 15), at(11, 15), true},
		{"end strictly inside", at(9, 30), at(10, 30), true},
		{"identical start", at(10, 0), at(10, 30), true},
		{"identical end", at(10, 30), at(11, 0), true},
		{"identical interval", at(10, 0), at(11, 0), true},
		{"after with no shared boundary", at(11, 0), at(12, 0), false},
		{"before ending at start", at(9, 0), at(10, 0), false},
		// The historical rule misses full containment without a shared
		// endpoint. Asserted as current behavior, not fixed.
		{"contains existing without shared endpoint", at(9, 30), at(11, 30), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Conflicts(tt.start, tt.end, existing); got != tt.conflict {
				t.Errorf("Conflicts(%v, %v) = %v, expected %v",
					tt.start.Format("15:04"), tt.end.Format("15:04"), got, tt.conflict)
			}
		})
	}
}

func TestIntervalsFor(t *testing.T) {
	durations := map[string]int{"cut": 60, "shave": 30}
	lookup := func(id string) (int, bool) {
		d, ok := durations[id]
		return d, ok
	}

	appointments := []model.Appointment{
		{ServiceID: "cut", Date: "2024-06-03", Hour: "10:00", Status: model.StatusPending},
		{ServiceID: "shave", Date: "2024-06-03", Hour: "12:00", Status: model.StatusCanceled},
		{ServiceID: "gone", Date: "2024-06-03", Hour: "13:00", Status: model.StatusPending},
		{ServiceID: "cut", Date: "2024-06-03", Hour: "bad", Status: model.StatusPending},
	}

	intervals := IntervalsFor(appointments, lookup, time.UTC)
	if len(intervals) != 1 {
		t.Fatalf("expected 1 blocking interval, got %d", len(intervals))
	}
	if !intervals[0].Start.Equal(at(10, 0)) || !intervals[0].End.Equal(at(11, 0)) {
		t.Errorf("unexpected interval %v", intervals[0])
	}
}

func TestBookingScenario(t *testing.T) {
	// Existing: stylist A, 2024-06-03 10:00, 60 min service.
	lookup := func(string) (int, bool) { return 60, true }
	existing := IntervalsFor([]model.Appointment{
		{ServiceID: "cut", Date: "2024-06-03", Hour: "10:00", Status: model.StatusPending},
	}, lookup, time.UTC)

	// 10:15 falls inside 10:00-11:00 and is rejected.
	if !Conflicts(at(10, 15), at(11, 15), existing) {
		t.Error("10:15 booking should conflict with 10:00-11:00")
	}
	// 11:00 shares no boundary and contains nothing: accepted.
	if Conflicts(at(11, 0), at(12, 0), existing) {
		t.Error("11:00 booking should not conflict with 10:00-11:00")
	}
}

func TestOccupiedSlots(t *testing.T) {
	durations := map[string]int{"cut": 60, "long": 100, "gone": 0}
	lookup := func(id string) (int, bool) {
		d, ok := durations[id]
		return d, ok
	}

	appointments := []model.Appointment{
		{ServiceID: "cut", Date: "2024-06-03", Hour: "10:00", Status: model.StatusPending},
		{ServiceID: "long", Date: "2024-06-03", Hour: "20:30", Status: model.StatusPending},
		{ServiceID: "cut", Date: "2024-06-03", Hour: "16:00", Status: model.StatusCanceled},
		{ServiceID: "missing", Date: "2024-06-03", Hour: "17:00", Status: model.StatusPending},
	}

	occupied := OccupiedSlots(appointments, lookup)

	// 60 min occupies ceil(60/30) = 2 slots.
	for _, want := range []string{"10:00", "10:30"} {
		if _, ok := occupied[want]; !ok {
			t.Errorf("expected %s occupied", want)
		}
	}
	// 100 min occupies ceil(100/30) = 4 slots, running past the schedule.
	for _, want := range []string{"20:30", "21:00", "21:30", "22:00"} {
		if _, ok := occupied[want]; !ok {
			t.Errorf("expected %s occupied by long appointment", want)
		}
	}
	if _, ok := occupied["16:00"]; ok {
		t.Error("canceled appointment must not occupy its slot")
	}
	if _, ok := occupied["17:00"]; ok {
		t.Error("appointment with unresolved service must not occupy its slot")
	}
	if len(occupied) != 6 {
		t.Errorf("expected 6 occupied labels, got %d: %v", len(occupied), occupied)
	}
}

func TestIsContinuation(t *testing.T) {
	occupied := map[string]struct{}{"10:00": {}, "10:30": {}}
	startsAt := func(hour string) bool { return hour == "10:00" }

	if IsContinuation("10:00", occupied, startsAt) {
		t.Error("an appointment's own start slot is not a continuation")
	}
	if !IsContinuation("10:30", occupied, startsAt) {
		t.Error("covered slot with no appointment starting there is a continuation")
	}
	if IsContinuation("11:00", occupied, startsAt) {
		t.Error("free slot is not a continuation")
	}
}

func TestOutOfHours(t *testing.T) {
	schedule := scheduleWith(time.Monday,
		model.TimeRange{Start: "09:30", End: "13:30"},
		model.TimeRange{Start: "16:00", End: "21:00"},
	)

	appointments := []model.Appointment{
		{ID: "in", Date: "2024-06-03", Hour: "10:00", Status: model.StatusPending},
		{ID: "lunch", Date: "2024-06-03", Hour: "14:00", Status: model.StatusPending},
		{ID: "early", Date: "2024-06-03", Hour: "08:00", Status: model.StatusPending},
		{ID: "boundary", Date: "2024-06-03", Hour: "13:30", Status: model.StatusPending},
	}

	out := OutOfHours(appointments, schedule, monday)
	if len(out) != 3 {
		t.Fatalf("expected 3 out-of-hours appointments, got %d", len(out))
	}
	// Sorted by hour; 13:30 is outside because range ends are exclusive.
	for i, want := range []string{"early", "boundary", "lunch"} {
		if out[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, out[i].ID)
		}
	}

	closed := &model.WeeklySchedule{}
	if got := OutOfHours(appointments, closed, monday); len(got) != 4 {
		t.Errorf("closed day: expected all 4 out of hours, got %d", len(got))
	}
}
