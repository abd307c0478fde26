package availability

import (
	"time"

	"barberbook/internal/model"
)

// Interval is a booked time span. End is start plus the service duration.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Conflicts reports whether the proposed [newStart, newEnd) collides with
// any existing interval under the shop's historical boundary rule: the
// new start strictly inside an existing interval, the new end strictly
// inside one, an exactly shared start, or an exactly shared end.
//
// This is intentionally not a standard half-open overlap test: a new
// interval that fully contains an existing one without sharing an
// endpoint passes. The rule is preserved as found for behavioral parity.
func Conflicts(newStart, newEnd time.Time, existing []Interval) bool {
	for _, ex := range existing {
		if (newStart.After(ex.Start) && newStart.Before(ex.End)) ||
			(newEnd.After(ex.Start) && newEnd.Before(ex.End)) ||
			newStart.Equal(ex.Start) ||
			newEnd.Equal(ex.End) {
			return true
		}
	}
	return false
}

// IntervalsFor builds the blocking intervals from a stylist's same-day
// appointments. Canceled appointments never block. An appointment whose
// service cannot be resolved has no known duration and is skipped, so it
// does not block.
func IntervalsFor(appointments []model.Appointment, durationOf DurationLookup, loc *time.Location) []Interval {
	var intervals []Interval
	for i := range appointments {
		a := &appointments[i]
		if !a.IsActive() {
			continue
		}
		minutes, ok := durationOf(a.ServiceID)
		if !ok {
			continue
		}
		start, err := a.StartAt(loc)
		if err != nil {
			continue
		}
		intervals = append(intervals, Interval{
			Start: start,
			End:   start.Add(time.Duration(minutes) * time.Minute),
		})
	}
	return intervals
}
