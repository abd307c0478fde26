package model

import (
	"fmt"
	"time"
)

// Appointment statuses. Stored values mirror the original document store
// so existing data stays readable.
const (
	StatusPending   = "pendiente"
	StatusCompleted = "completada"
	StatusCanceled  = "cancelada"
	StatusNoShow    = "no asistido"
)

// Payment methods recorded on completion.
const (
	PaymentCard    = "tarjeta"
	PaymentCash    = "efectivo"
	PaymentVoucher = "bono"
)

// DateLayout is the calendar-date wire format.
const DateLayout = "2006-01-02"

// HourLayout is the wall-clock wire format for slot labels.
const HourLayout = "15:04"

// Appointment represents one booked slot for a stylist.
type Appointment struct {
	ID            string    `json:"id"`
	StylistID     string    `json:"peluqueroId"`
	ServiceID     string    `json:"servicioId"`
	ClientID      string    `json:"clienteId,omitempty"`
	ClientName    string    `json:"clienteNombre"`
	BookingName   string    `json:"nombreReserva,omitempty"`
	ClientPhone   string    `json:"clienteTelefono,omitempty"`
	Date          string    `json:"fecha"` // YYYY-MM-DD
	Hour          string    `json:"hora"`  // HH:mm, 30-minute aligned
	Status        string    `json:"estado"`
	PaymentMethod string    `json:"metodoPago,omitempty"`
	CreatedAt     time.Time `json:"creadoEn"` // assigned by the store clock
	UpdatedAt     time.Time `json:"actualizadoEn"`
}

// StartAt returns the appointment's start instant in loc.
func (a *Appointment) StartAt(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+"T"+HourLayout, a.Date+"T"+a.Hour, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse appointment start: %w", err)
	}
	return t, nil
}

// IsActive reports whether the appointment still blocks its slot.
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCanceled
}

// IsTerminal reports whether the appointment reached a final state.
// Terminal appointments are never resurrected; a new one must be created.
func (a *Appointment) IsTerminal() bool {
	switch a.Status {
	case StatusCompleted, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known appointment status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCard, PaymentCash, PaymentVoucher:
		return true
	}
	return false
}
