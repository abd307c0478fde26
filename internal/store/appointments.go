package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"barberbook/internal/events"
	"barberbook/internal/model"
)

const appointmentColumns = `id, stylist_id, service_id, client_id, client_name,
	booking_name, client_phone, date, hour, status, payment_method,
	created_at, updated_at`

// CreateAppointment inserts the appointment, assigning its document id
// and creation timestamp from the store clock.
func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := s.now()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = model.StatusPending
	}

	_, err := s.ExecContext(ctx, `
		INSERT INTO appointments (
			id, stylist_id, service_id, client_id, client_name,
			booking_name, client_phone, date, hour, status, payment_method,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.StylistID, a.ServiceID, nullable(a.ClientID), a.ClientName,
		nullable(a.BookingName), nullable(a.ClientPhone), a.Date, a.Hour,
		a.Status, nullable(a.PaymentMethod), a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}

	s.publish(events.TopicAppointments, "created", a.ID)
	return nil
}

// AppointmentByID returns one appointment or sql.ErrNoRows.
func (s *Store) AppointmentByID(ctx context.Context, id string) (*model.Appointment, error) {
	row := s.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id)
	return scanAppointment(row)
}

// AppointmentsForStylistDay returns the stylist's appointments on a date,
// excluding canceled ones, ordered by hour. This is the blocking set for
// availability and conflict checks.
func (s *Store) AppointmentsForStylistDay(ctx context.Context, stylistID, date string) ([]model.Appointment, error) {
	return s.queryAppointments(ctx, `
		SELECT `+appointmentColumns+` FROM appointments
		WHERE stylist_id = ? AND date = ? AND status != ?
		ORDER BY hour`,
		stylistID, date, model.StatusCanceled)
}

// AppointmentsForDay returns every appointment on a date, canceled
// included, ordered by stylist then hour. The agenda renders canceled
// entries with their own style instead of hiding them.
func (s *Store) AppointmentsForDay(ctx context.Context, date string) ([]model.Appointment, error) {
	return s.queryAppointments(ctx, `
		SELECT `+appointmentColumns+` FROM appointments
		WHERE date = ?
		ORDER BY stylist_id, hour`,
		date)
}

// AppointmentsByClient returns a client's appointments, newest first.
func (s *Store) AppointmentsByClient(ctx context.Context, clientID string) ([]model.Appointment, error) {
	return s.queryAppointments(ctx, `
		SELECT `+appointmentColumns+` FROM appointments
		WHERE client_id = ?
		ORDER BY created_at DESC`,
		clientID)
}

// CountRecentByClient counts the client's appointments created at or
// after since, by the store-assigned creation timestamp. Used for the
// trailing-window booking cap.
func (s *Store) CountRecentByClient(ctx context.Context, clientID string, since time.Time) (int, error) {
	var count int
	err := s.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE client_id = ? AND created_at >= ?`,
		clientID, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count recent appointments: %w", err)
	}
	return count, nil
}

// UpdateAppointmentStatus transitions the appointment's status.
func (s *Store) UpdateAppointmentStatus(ctx context.Context, id, status string) error {
	res, err := s.ExecContext(ctx, `
		UPDATE appointments SET status = ?, updated_at = ? WHERE id = ?`,
		status, s.now(), id)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	s.publish(events.TopicAppointments, "updated", id)
	return nil
}

// CompleteAppointment marks the appointment completed with its payment
// method.
func (s *Store) CompleteAppointment(ctx context.Context, id, paymentMethod string) error {
	res, err := s.ExecContext(ctx, `
		UPDATE appointments SET status = ?, payment_method = ?, updated_at = ?
		WHERE id = ?`,
		model.StatusCompleted, paymentMethod, s.now(), id)
	if err != nil {
		return fmt.Errorf("complete appointment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	s.publish(events.TopicAppointments, "updated", id)
	return nil
}

// CompletedBetween returns completed appointments in the inclusive date
// range, for revenue reporting.
func (s *Store) CompletedBetween(ctx context.Context, from, to string) ([]model.Appointment, error) {
	return s.queryAppointments(ctx, `
		SELECT `+appointmentColumns+` FROM appointments
		WHERE status = ? AND date >= ? AND date <= ?
		ORDER BY date, hour`,
		model.StatusCompleted, from, to)
}

// PendingWithoutReminder returns pending appointments on or after date
// that have not had a reminder dispatched.
func (s *Store) PendingWithoutReminder(ctx context.Context, date string) ([]model.Appointment, error) {
	return s.queryAppointments(ctx, `
		SELECT `+appointmentColumns+` FROM appointments
		WHERE status = ? AND date >= ? AND reminder_sent = 0
		ORDER BY date, hour`,
		model.StatusPending, date)
}

// MarkReminderSent records that the appointment's reminder went out.
func (s *Store) MarkReminderSent(ctx context.Context, id string) error {
	_, err := s.ExecContext(ctx, `
		UPDATE appointments SET reminder_sent = 1, updated_at = ? WHERE id = ?`,
		s.now(), id)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}

func (s *Store) queryAppointments(ctx context.Context, query string, args ...any) ([]model.Appointment, error) {
	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	var appointments []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, *a)
	}
	return appointments, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*model.Appointment, error) {
	var a model.Appointment
	var clientID, bookingName, clientPhone, paymentMethod sql.NullString
	err := row.Scan(
		&a.ID, &a.StylistID, &a.ServiceID, &clientID, &a.ClientName,
		&bookingName, &clientPhone, &a.Date, &a.Hour, &a.Status,
		&paymentMethod, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ClientID = clientID.String
	a.BookingName = bookingName.String
	a.ClientPhone = clientPhone.String
	a.PaymentMethod = paymentMethod.String
	return &a, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
