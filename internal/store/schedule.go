package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"barberbook/internal/events"
	"barberbook/internal/model"
)

// GetSchedule loads the shop's weekly schedule. Days with no stored
// ranges come back absent, which the availability package treats as
// closed.
func (s *Store) GetSchedule(ctx context.Context) (*model.WeeklySchedule, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT day, start_hour, end_hour
		FROM shop_schedule ORDER BY day, position`)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	defer rows.Close()

	schedule := &model.WeeklySchedule{Days: make(map[string][]model.TimeRange, 7)}
	for rows.Next() {
		var day, start, end string
		if err := rows.Scan(&day, &start, &end); err != nil {
			return nil, err
		}
		schedule.Days[day] = append(schedule.Days[day], model.TimeRange{Start: start, End: end})
	}
	return schedule, rows.Err()
}

// PutDaySchedule replaces the ranges for one weekday. An empty slice
// closes the day.
func (s *Store) PutDaySchedule(ctx context.Context, day time.Weekday, ranges []model.TimeRange) error {
	key := strconv.Itoa(int(day))

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schedule tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM shop_schedule WHERE day = ?`, key); err != nil {
		return fmt.Errorf("clear day schedule: %w", err)
	}
	for i, r := range ranges {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO shop_schedule (day, position, start_hour, end_hour)
			VALUES (?, ?, ?, ?)`,
			key, i, r.Start, r.End); err != nil {
			return fmt.Errorf("insert day range: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schedule: %w", err)
	}

	s.publish(events.TopicSchedule, "updated", key)
	return nil
}

// EnsureDefaultSchedule seeds the shop's opening hours when the schedule
// table is empty: weekday mornings and evenings, Saturday mornings,
// Sunday closed.
func (s *Store) EnsureDefaultSchedule(ctx context.Context) error {
	var count int
	if err := s.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shop_schedule`).Scan(&count); err != nil {
		return fmt.Errorf("check schedule: %w", err)
	}
	if count > 0 {
		return nil
	}

	weekday := []model.TimeRange{
		{Start: "09:30", End: "13:30"},
		{Start: "16:00", End: "21:00"},
	}
	defaults := map[time.Weekday][]model.TimeRange{
		time.Monday:    weekday,
		time.Tuesday:   weekday,
		time.Wednesday: weekday,
		time.Thursday:  weekday,
		time.Friday:    weekday,
		time.Saturday:  {{Start: "09:00", End: "14:00"}},
	}
	for day, ranges := range defaults {
		if err := s.PutDaySchedule(ctx, day, ranges); err != nil {
			return err
		}
	}
	return nil
}
