// Package booking implements the appointment lifecycle: validated,
// rate-limited, conflict-checked creation, plus cancellation, checkout
// and no-show transitions.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"barberbook/internal/availability"
	"barberbook/internal/metrics"
	"barberbook/internal/model"
)

// Repository is the slice of the store the booking service needs.
type Repository interface {
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	AppointmentByID(ctx context.Context, id string) (*model.Appointment, error)
	AppointmentsForStylistDay(ctx context.Context, stylistID, date string) ([]model.Appointment, error)
	CountRecentByClient(ctx context.Context, clientID string, since time.Time) (int, error)
	UpdateAppointmentStatus(ctx context.Context, id, status string) error
	CompleteAppointment(ctx context.Context, id, paymentMethod string) error

	GetStylist(ctx context.Context, id string) (*model.Stylist, error)
	GetService(ctx context.Context, id string) (*model.Service, error)
	ListServices(ctx context.Context) ([]model.Service, error)
	GetSchedule(ctx context.Context) (*model.WeeklySchedule, error)

	GetClient(ctx context.Context, id string) (*model.Client, error)
	UpdateClientReputation(ctx context.Context, id, reputation string) error
	ConsumeVoucherSession(ctx context.Context, id string) (int, error)
}

// Rules are the booking policy knobs.
type Rules struct {
	// RateWindow and RateLimit cap client bookings: at most RateLimit
	// appointments created within the trailing RateWindow.
	RateWindow time.Duration
	RateLimit  int
	// CancelPenalty is how close to the start a cancellation must be to
	// degrade the client's reputation.
	CancelPenalty time.Duration
}

// DefaultRules mirrors the shop's historical limits.
func DefaultRules() Rules {
	return Rules{
		RateWindow:    30 * time.Minute,
		RateLimit:     4,
		CancelPenalty: 24 * time.Hour,
	}
}

// Service coordinates booking operations against the store.
type Service struct {
	repo   Repository
	rules  Rules
	loc    *time.Location
	logger zerolog.Logger
	clock  func() time.Time
}

// NewService creates a booking service. loc defaults to UTC.
func NewService(repo Repository, rules Rules, loc *time.Location, logger zerolog.Logger) *Service {
	if rules.RateWindow <= 0 {
		rules.RateWindow = 30 * time.Minute
	}
	if rules.RateLimit <= 0 {
		rules.RateLimit = 4
	}
	if rules.CancelPenalty <= 0 {
		rules.CancelPenalty = 24 * time.Hour
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:   repo,
		rules:  rules,
		loc:    loc,
		logger: logger,
		clock:  time.Now,
	}
}

// Request is a proposed new appointment.
type Request struct {
	StylistID   string
	ServiceID   string
	ClientID    string
	ClientName  string
	BookingName string
	ClientPhone string
	Date        string // YYYY-MM-DD
	Hour        string // HH:mm
	// Origin tags metrics: "client" or "admin". Admin bookings skip the
	// client rate limit.
	Origin string
}

// Book validates, rate-limits and conflict-checks the request, re-checks
// against a fresh read at commit time, and inserts the appointment as
// pending. The returned appointment carries the store-assigned id and
// creation timestamp.
func (s *Service) Book(ctx context.Context, req Request) (*model.Appointment, error) {
	start, duration, err := s.validate(ctx, &req)
	if err != nil {
		metrics.IncBookingRejected("validation")
		return nil, err
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	if req.Origin != "admin" && req.ClientID != "" {
		if err := s.checkRateLimit(ctx, req.ClientID); err != nil {
			metrics.IncBookingRejected("rate_limit")
			return nil, err
		}
	}

	// Pre-check on the current view.
	if err := s.checkConflict(ctx, req.StylistID, req.Date, start, end); err != nil {
		metrics.IncBookingRejected("conflict")
		return nil, err
	}

	// Concurrent sessions may have booked between the pre-check and now;
	// re-validate against a fresh read just before the write. Optimistic,
	// not transactional: a narrow race window remains.
	if err := s.checkConflict(ctx, req.StylistID, req.Date, start, end); err != nil {
		metrics.IncBookingRejected("conflict")
		return nil, err
	}

	appointment := &model.Appointment{
		StylistID:   req.StylistID,
		ServiceID:   req.ServiceID,
		ClientID:    req.ClientID,
		ClientName:  req.ClientName,
		BookingName: req.BookingName,
		ClientPhone: req.ClientPhone,
		Date:        req.Date,
		Hour:        req.Hour,
		Status:      model.StatusPending,
	}
	if err := s.repo.CreateAppointment(ctx, appointment); err != nil {
		return nil, transientErr("could not save the booking", err)
	}

	origin := req.Origin
	if origin == "" {
		origin = "client"
	}
	metrics.IncBookingCreated(origin)
	s.logger.Info().
		Str("appointment_id", appointment.ID).
		Str("stylist_id", appointment.StylistID).
		Str("date", appointment.Date).
		Str("hour", appointment.Hour).
		Str("origin", origin).
		Msg("booking created")

	return appointment, nil
}

func (s *Service) validate(ctx context.Context, req *Request) (time.Time, int, error) {
	if req.StylistID == "" {
		return time.Time{}, 0, validationErr("select a stylist")
	}
	if req.ServiceID == "" {
		return time.Time{}, 0, validationErr("select a service")
	}
	if req.Hour == "" {
		return time.Time{}, 0, validationErr("select an available hour")
	}
	if !availability.ValidHour(req.Hour) {
		return time.Time{}, 0, validationErr("malformed hour %q", req.Hour)
	}
	if req.BookingName == "" {
		req.BookingName = req.ClientName
	}
	if req.BookingName == "" {
		return time.Time{}, 0, validationErr("a booking needs a name")
	}

	date, err := time.ParseInLocation(model.DateLayout, req.Date, s.loc)
	if err != nil {
		return time.Time{}, 0, validationErr("malformed date %q", req.Date)
	}
	now := s.clock().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	if date.Before(today) {
		return time.Time{}, 0, validationErr("cannot book a past date")
	}

	if _, err := s.repo.GetStylist(ctx, req.StylistID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, 0, validationErr("stylist not found")
		}
		return time.Time{}, 0, transientErr("could not load the stylist", err)
	}

	service, err := s.repo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, 0, validationErr("service not found")
		}
		return time.Time{}, 0, transientErr("could not load the service", err)
	}
	// Deactivated services still resolve for existing appointments, but
	// new bookings cannot reference them.
	if !service.Active {
		return time.Time{}, 0, validationErr("service %q is no longer offered", service.Name)
	}
	duration := availability.ParseDuration(service.Duration)
	if duration <= 0 {
		return time.Time{}, 0, validationErr("service %q has no usable duration", service.Name)
	}

	start, err := availability.ParseHourOnDate(date, req.Hour)
	if err != nil {
		return time.Time{}, 0, validationErr("malformed hour %q", req.Hour)
	}
	return start, duration, nil
}

func (s *Service) checkRateLimit(ctx context.Context, clientID string) error {
	since := s.clock().Add(-s.rules.RateWindow)
	count, err := s.repo.CountRecentByClient(ctx, clientID, since)
	if err != nil {
		return transientErr("could not check the booking limit", err)
	}
	if count >= s.rules.RateLimit {
		return rateLimitErr(s.rules.RateLimit, int(s.rules.RateWindow.Minutes()))
	}
	return nil
}

func (s *Service) checkConflict(ctx context.Context, stylistID, date string, start, end time.Time) error {
	existing, err := s.repo.AppointmentsForStylistDay(ctx, stylistID, date)
	if err != nil {
		return transientErr("could not load existing bookings", err)
	}
	lookup, err := s.durationLookup(ctx)
	if err != nil {
		return err
	}
	intervals := availability.IntervalsFor(existing, lookup, s.loc)
	if availability.Conflicts(start, end, intervals) {
		return conflictErr("the stylist already has an appointment during this time")
	}
	return nil
}

func (s *Service) durationLookup(ctx context.Context) (availability.DurationLookup, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, transientErr("could not load services", err)
	}
	durations := make(map[string]int, len(services))
	for _, sv := range services {
		durations[sv.ID] = availability.ParseDuration(sv.Duration)
	}
	return func(id string) (int, bool) {
		d, ok := durations[id]
		return d, ok
	}, nil
}
