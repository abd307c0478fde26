// Package notify dispatches appointment reminders. The trigger rule
// comes from the shop's client app: morning appointments are reminded
// the evening before, afternoon ones five hours ahead.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"barberbook/internal/metrics"
	"barberbook/internal/model"
)

// Notifier delivers one reminder. Implementations push to whatever
// channel the deployment uses.
type Notifier interface {
	SendReminder(ctx context.Context, appointment model.Appointment) error
}

// Repository is the slice of the store the reminder loop needs.
type Repository interface {
	PendingWithoutReminder(ctx context.Context, date string) ([]model.Appointment, error)
	MarkReminderSent(ctx context.Context, id string) error
}

// TriggerTime computes when the reminder for an appointment starting at
// start should fire: before 14:00, the previous day at 18:00; otherwise
// five hours before the appointment.
func TriggerTime(start time.Time) time.Time {
	if start.Hour() < 14 {
		previous := start.AddDate(0, 0, -1)
		return time.Date(previous.Year(), previous.Month(), previous.Day(),
			18, 0, 0, 0, start.Location())
	}
	return start.Add(-5 * time.Hour)
}

// Service periodically scans pending appointments and dispatches due
// reminders. Failures are logged and retried on the next scan; there is
// no per-send retry.
type Service struct {
	repo     Repository
	notifier Notifier
	interval time.Duration
	loc      *time.Location
	logger   zerolog.Logger
	clock    func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewService creates a reminder service. interval defaults to 5 minutes.
func NewService(repo Repository, notifier Notifier, interval time.Duration, loc *time.Location, logger zerolog.Logger) *Service {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		interval: interval,
		loc:      loc,
		logger:   logger,
		clock:    time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the scan loop. Idempotent.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info().Dur("interval", s.interval).Msg("reminder service started")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight scan.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()
	s.wg.Wait()
}

// RunOnce performs one scan: every pending appointment from today on
// whose trigger time has passed gets its reminder dispatched and marked.
func (s *Service) RunOnce(ctx context.Context) {
	now := s.clock().In(s.loc)
	today := now.Format(model.DateLayout)

	pending, err := s.repo.PendingWithoutReminder(ctx, today)
	if err != nil {
		s.logger.Error().Err(err).Msg("reminder scan failed")
		return
	}

	for _, appointment := range pending {
		start, err := appointment.StartAt(s.loc)
		if err != nil {
			s.logger.Warn().
				Str("appointment_id", appointment.ID).
				Msg("reminder skipped: unparsable start")
			continue
		}
		if now.Before(TriggerTime(start)) {
			continue
		}

		if err := s.notifier.SendReminder(ctx, appointment); err != nil {
			s.logger.Error().Err(err).
				Str("appointment_id", appointment.ID).
				Msg("reminder send failed")
			continue
		}
		if err := s.repo.MarkReminderSent(ctx, appointment.ID); err != nil {
			s.logger.Error().Err(err).
				Str("appointment_id", appointment.ID).
				Msg("could not mark reminder sent")
			continue
		}
		metrics.IncReminderSent()
		s.logger.Info().
			Str("appointment_id", appointment.ID).
			Str("date", appointment.Date).
			Str("hour", appointment.Hour).
			Msg("reminder sent")
	}
}

// LogNotifier is the default Notifier: it only records the reminder.
// Deployments plug a real push channel in its place.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) SendReminder(_ context.Context, appointment model.Appointment) error {
	n.Logger.Info().
		Str("appointment_id", appointment.ID).
		Str("client", appointment.BookingName).
		Str("hour", appointment.Hour).
		Msg("reminder")
	return nil
}
