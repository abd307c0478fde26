package availability

import (
	"sort"
	"time"

	"barberbook/internal/model"
)

// OutOfHours returns the appointments on date whose start falls outside
// every declared schedule range for that weekday, sorted by hour. These
// bookings are permitted and tracked; they are listed apart from the
// regular agenda grid instead of being rejected. On a closed day every
// appointment is out of hours.
func OutOfHours(appointments []model.Appointment, schedule *model.WeeklySchedule, date time.Time) []model.Appointment {
	ranges := schedule.RangesFor(date.Weekday())

	var out []model.Appointment
	for i := range appointments {
		a := appointments[i]
		start, err := a.StartAt(date.Location())
		if err != nil {
			continue
		}
		if !withinAnyRange(start, date, ranges) {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Hour < out[j].Hour
	})
	return out
}

// withinAnyRange tests half-open [start, end) membership.
func withinAnyRange(t, date time.Time, ranges []model.TimeRange) bool {
	for _, r := range ranges {
		start, err := ParseHourOnDate(date, r.Start)
		if err != nil {
			continue
		}
		end, err := ParseHourOnDate(date, r.End)
		if err != nil {
			continue
		}
		if !t.Before(start) && t.Before(end) {
			return true
		}
	}
	return false
}
