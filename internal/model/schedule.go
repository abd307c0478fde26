package model

import "time"

// TimeRange is one open interval of the shop day, wall-clock HH:mm,
// same calendar day, start < end for a well-formed range.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeklySchedule maps weekday index ("0"=Sunday .. "6"=Saturday) to the
// ordered open ranges for that day. A day with no ranges is closed.
type WeeklySchedule struct {
	Days map[string][]TimeRange `json:"days"`
}

// RangesFor returns the ranges for a weekday. Nil for a closed day.
func (w *WeeklySchedule) RangesFor(day time.Weekday) []TimeRange {
	if w == nil || w.Days == nil {
		return nil
	}
	return w.Days[weekdayKey(day)]
}

// SetRangesFor replaces the ranges for a weekday.
func (w *WeeklySchedule) SetRangesFor(day time.Weekday, ranges []TimeRange) {
	if w.Days == nil {
		w.Days = make(map[string][]TimeRange, 7)
	}
	w.Days[weekdayKey(day)] = ranges
}

func weekdayKey(day time.Weekday) string {
	return string(rune('0' + int(day)))
}
