package booking

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"barberbook/internal/availability"
	"barberbook/internal/metrics"
	"barberbook/internal/model"
)

// Cancel marks a pending appointment canceled. A cancellation closer to
// the start than the penalty window degrades the client's reputation one
// level. Terminal appointments stay as they are; book again instead.
func (s *Service) Cancel(ctx context.Context, id string) error {
	appointment, err := s.loadPending(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateAppointmentStatus(ctx, id, model.StatusCanceled); err != nil {
		return transientErr("could not cancel the booking", err)
	}
	metrics.IncBookingCancelled()

	if appointment.ClientID != "" {
		s.applyCancelPenalty(ctx, appointment)
	}

	s.logger.Info().Str("appointment_id", id).Msg("booking canceled")
	return nil
}

func (s *Service) applyCancelPenalty(ctx context.Context, appointment *model.Appointment) {
	start, err := appointment.StartAt(s.loc)
	if err != nil {
		return
	}
	if start.Sub(s.clock()) >= s.rules.CancelPenalty {
		return
	}

	client, err := s.repo.GetClient(ctx, appointment.ClientID)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("client_id", appointment.ClientID).
			Msg("late cancellation: could not load client for penalty")
		return
	}
	degraded := model.DegradeReputation(client.Reputation)
	if degraded == client.Reputation {
		return
	}
	if err := s.repo.UpdateClientReputation(ctx, client.ID, degraded); err != nil {
		s.logger.Warn().Err(err).
			Str("client_id", client.ID).
			Msg("late cancellation: could not degrade reputation")
		return
	}
	s.logger.Info().
		Str("client_id", client.ID).
		Str("reputation", degraded).
		Msg("reputation degraded after late cancellation")
}

// Complete checks a pending appointment out with its payment method.
// Paying with a voucher consumes one session from the client's pack.
func (s *Service) Complete(ctx context.Context, id, paymentMethod string) error {
	if !model.ValidPaymentMethod(paymentMethod) {
		return validationErr("unknown payment method %q", paymentMethod)
	}

	appointment, err := s.loadPending(ctx, id)
	if err != nil {
		return err
	}

	if paymentMethod == model.PaymentVoucher {
		if err := s.redeemVoucher(ctx, appointment); err != nil {
			return err
		}
	}

	if err := s.repo.CompleteAppointment(ctx, id, paymentMethod); err != nil {
		return transientErr("could not complete the booking", err)
	}
	metrics.IncBookingCompleted(paymentMethod)
	s.logger.Info().
		Str("appointment_id", id).
		Str("method", paymentMethod).
		Msg("booking completed")
	return nil
}

func (s *Service) redeemVoucher(ctx context.Context, appointment *model.Appointment) error {
	if appointment.ClientID == "" {
		return validationErr("voucher payment needs a registered client")
	}
	client, err := s.repo.GetClient(ctx, appointment.ClientID)
	if err != nil {
		return transientErr("could not load the client", err)
	}
	if client.VoucherID == "" {
		return validationErr("client has no active voucher")
	}
	if _, err := s.repo.ConsumeVoucherSession(ctx, client.VoucherID); err != nil {
		return transientErr("could not redeem the voucher", err)
	}
	return nil
}

// MarkNoShow records that the client did not attend.
func (s *Service) MarkNoShow(ctx context.Context, id string) error {
	if _, err := s.loadPending(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateAppointmentStatus(ctx, id, model.StatusNoShow); err != nil {
		return transientErr("could not mark the booking as no-show", err)
	}
	s.logger.Info().Str("appointment_id", id).Msg("booking marked no-show")
	return nil
}

func (s *Service) loadPending(ctx context.Context, id string) (*model.Appointment, error) {
	appointment, err := s.repo.AppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, validationErr("booking not found")
		}
		return nil, transientErr("could not load the booking", err)
	}
	if appointment.IsTerminal() {
		return nil, validationErr("booking is already finalized")
	}
	return appointment, nil
}

// DayView is the bookable picture of one stylist's day.
type DayView struct {
	Hours    []string `json:"horasDisponibles"`
	Occupied []string `json:"horasOcupadas"`
}

// SlotsForStylist computes the client-facing slot picker for a stylist
// and date: deduped sorted hours from the shop schedule (past hours
// dropped when the date is today) and the occupied labels derived from
// non-canceled appointments and their durations.
func (s *Service) SlotsForStylist(ctx context.Context, stylistID string, date time.Time) (*DayView, error) {
	schedule, err := s.repo.GetSchedule(ctx)
	if err != nil {
		return nil, transientErr("could not load the shop schedule", err)
	}

	opts := availability.SlotOptions{Dedupe: true}
	now := s.clock().In(s.loc)
	if date.Year() == now.Year() && date.YearDay() == now.YearDay() {
		opts.NotBefore = now
	}
	hours := availability.SlotsForDay(schedule, date, opts)

	appointments, err := s.repo.AppointmentsForStylistDay(ctx, stylistID, date.Format(model.DateLayout))
	if err != nil {
		return nil, transientErr("could not load existing bookings", err)
	}
	lookup, err := s.durationLookup(ctx)
	if err != nil {
		return nil, err
	}

	occupied := availability.OccupiedSlots(appointments, lookup)
	labels := make([]string, 0, len(occupied))
	for label := range occupied {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	return &DayView{Hours: hours, Occupied: labels}, nil
}
