package availability

import (
	"time"

	"barberbook/internal/model"
)

// DurationLookup resolves a service id to its duration in minutes.
// The second return is false when the service no longer exists.
type DurationLookup func(serviceID string) (int, bool)

// OccupiedSlots marks, for a list of same-stylist same-day appointments,
// every 30-minute slot label covered by an appointment's duration:
// ceil(duration/30) consecutive labels starting at the appointment's
// hour. Labels may fall outside the declared schedule; out-of-hours
// bookings still block their time. Canceled appointments and
// appointments whose service cannot be resolved mark nothing.
func OccupiedSlots(appointments []model.Appointment, durationOf DurationLookup) map[string]struct{} {
	occupied := make(map[string]struct{})
	for i := range appointments {
		a := &appointments[i]
		if !a.IsActive() {
			continue
		}
		minutes, ok := durationOf(a.ServiceID)
		if !ok {
			continue
		}
		start, err := a.StartAt(time.UTC)
		if err != nil {
			continue
		}
		numSlots := (minutes + 29) / 30
		for cursor, n := start, 0; n < numSlots; cursor, n = cursor.Add(SlotDuration), n+1 {
			occupied[cursor.Format(model.HourLayout)] = struct{}{}
		}
	}
	return occupied
}

// IsContinuation reports whether hour is covered by some appointment's
// duration without any appointment literally starting there. Continuation
// slots are not bookable and must not render as a second appointment.
func IsContinuation(hour string, occupied map[string]struct{}, startsAt func(hour string) bool) bool {
	if _, ok := occupied[hour]; !ok {
		return false
	}
	return !startsAt(hour)
}
