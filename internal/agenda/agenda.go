// Package agenda builds the admin day view: one column per stylist over
// the shop's slot grid, with appointments grouped into their start slot,
// duration continuations suppressed, and out-of-hours bookings listed
// apart.
package agenda

import (
	"context"
	"fmt"
	"time"

	"barberbook/internal/availability"
	"barberbook/internal/model"
)

// Repository is the slice of the store the agenda needs.
type Repository interface {
	AppointmentsForDay(ctx context.Context, date string) ([]model.Appointment, error)
	ListStylists(ctx context.Context) ([]model.Stylist, error)
	ListServices(ctx context.Context) ([]model.Service, error)
	GetSchedule(ctx context.Context) (*model.WeeklySchedule, error)
}

// Cell is one slot in a stylist's column.
type Cell struct {
	Hour string `json:"hora"`
	// Appointments start exactly at this hour. Grouped, not merged: the
	// grid renders double-booked slots side by side.
	Appointments []model.Appointment `json:"reservas,omitempty"`
	// Continuation marks a slot covered by an earlier appointment's
	// duration with nothing starting here. The grid suppresses it
	// instead of rendering a second, phantom booking.
	Continuation bool `json:"continuacion,omitempty"`
}

// Column is one stylist's day.
type Column struct {
	Stylist model.Stylist `json:"peluquero"`
	Cells   []Cell        `json:"celdas"`
}

// Grid is the whole agenda for one date.
type Grid struct {
	Date string `json:"fecha"`
	// Hours come from the schedule in raw per-range order, no dedupe,
	// the way the admin grid has always rendered them.
	Hours      []string            `json:"horas"`
	Columns    []Column            `json:"columnas"`
	OutOfHours []model.Appointment `json:"fueraDeHorario,omitempty"`
}

// Service assembles agenda grids.
type Service struct {
	repo Repository
}

// NewService creates an agenda service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Build assembles the grid for a date.
func (s *Service) Build(ctx context.Context, date time.Time) (*Grid, error) {
	schedule, err := s.repo.GetSchedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	stylists, err := s.repo.ListStylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stylists: %w", err)
	}
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}

	dateStr := date.Format(model.DateLayout)
	appointments, err := s.repo.AppointmentsForDay(ctx, dateStr)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	durations := make(map[string]int, len(services))
	for _, sv := range services {
		durations[sv.ID] = availability.ParseDuration(sv.Duration)
	}
	lookup := func(id string) (int, bool) {
		d, ok := durations[id]
		return d, ok
	}

	hours := availability.SlotsForDay(schedule, date, availability.SlotOptions{})

	grid := &Grid{
		Date:       dateStr,
		Hours:      hours,
		OutOfHours: availability.OutOfHours(appointments, schedule, date),
	}

	byStylist := make(map[string][]model.Appointment)
	for _, a := range appointments {
		byStylist[a.StylistID] = append(byStylist[a.StylistID], a)
	}

	for _, stylist := range stylists {
		own := byStylist[stylist.ID]
		occupied := availability.OccupiedSlots(own, lookup)

		column := Column{Stylist: stylist, Cells: make([]Cell, 0, len(hours))}
		for _, hour := range hours {
			cell := Cell{Hour: hour}
			for _, a := range own {
				if a.Hour == hour {
					cell.Appointments = append(cell.Appointments, a)
				}
			}
			cell.Continuation = availability.IsContinuation(hour, occupied, func(h string) bool {
				for _, a := range own {
					if a.Hour == h {
						return true
					}
				}
				return false
			})
			column.Cells = append(column.Cells, cell)
		}
		grid.Columns = append(grid.Columns, column)
	}

	return grid, nil
}
