// Package availability computes bookable time slots, occupancy and
// booking conflicts for one stylist and one calendar day. It is pure:
// callers fetch schedules, appointments and services and pass them in.
package availability

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"barberbook/internal/model"
)

// SlotDuration is the booking granularity.
const SlotDuration = 30 * time.Minute

// SlotOptions controls slot generation.
type SlotOptions struct {
	// Dedupe removes duplicate labels from overlapping ranges and sorts
	// the result ascending. The client surface uses this; the admin grid
	// keeps the raw per-range order.
	Dedupe bool

	// NotBefore, when non-zero, drops slots starting before this instant.
	// The client surface passes the current time when the target date is
	// today so past slots are not offered.
	NotBefore time.Time
}

// SlotsForDay expands the weekly schedule into the ordered 30-minute slot
// start labels ("HH:mm") for the given date. A day with no ranges yields
// nil (closed). A malformed range (start >= end or unparsable) yields no
// slots for that range and no error.
func SlotsForDay(schedule *model.WeeklySchedule, date time.Time, opts SlotOptions) []string {
	ranges := schedule.RangesFor(date.Weekday())
	if len(ranges) == 0 {
		return nil
	}

	var slots []string
	for _, r := range ranges {
		start, err := ParseHourOnDate(date, r.Start)
		if err != nil {
			continue
		}
		end, err := ParseHourOnDate(date, r.End)
		if err != nil {
			continue
		}
		for cursor := start; cursor.Before(end); cursor = cursor.Add(SlotDuration) {
			if !opts.NotBefore.IsZero() && cursor.Before(opts.NotBefore) {
				continue
			}
			slots = append(slots, cursor.Format(model.HourLayout))
		}
	}

	if !opts.Dedupe {
		return slots
	}

	seen := make(map[string]struct{}, len(slots))
	deduped := slots[:0]
	for _, s := range slots {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		deduped = append(deduped, s)
	}
	sort.Strings(deduped)
	return deduped
}

// ParseHourOnDate combines a calendar date with an "HH:mm" wall-clock
// label in the date's location.
func ParseHourOnDate(date time.Time, hour string) (time.Time, error) {
	parts := strings.Split(hour, ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid hour format: %s", hour)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return time.Time{}, fmt.Errorf("invalid hour in %q", hour)
	}

	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return time.Time{}, fmt.Errorf("invalid minute in %q", hour)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location()), nil
}

// ValidHour reports whether s is a well-formed "HH:mm" label.
func ValidHour(s string) bool {
	_, err := ParseHourOnDate(time.Now(), s)
	return err == nil
}
