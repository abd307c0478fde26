// Package api exposes the booking system over HTTP: a client surface
// for browsing the catalog and booking slots, and an admin surface for
// the agenda grid, checkout, schedule and catalog management.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"barberbook/internal/agenda"
	"barberbook/internal/booking"
	"barberbook/internal/model"
	"barberbook/internal/report"
)

// Booker is the booking service surface the handlers call.
type Booker interface {
	Book(ctx context.Context, req booking.Request) (*model.Appointment, error)
	Cancel(ctx context.Context, id string) error
	Complete(ctx context.Context, id, paymentMethod string) error
	MarkNoShow(ctx context.Context, id string) error
	SlotsForStylist(ctx context.Context, stylistID string, date time.Time) (*booking.DayView, error)
}

// AgendaBuilder assembles the admin day grid.
type AgendaBuilder interface {
	Build(ctx context.Context, date time.Time) (*agenda.Grid, error)
}

// Reporter aggregates revenue for a date range.
type Reporter interface {
	Build(ctx context.Context, from, to string) (*report.Report, error)
}

// CatalogReader serves the read side of the catalog, normally through
// the Redis cache.
type CatalogReader interface {
	ListStylists(ctx context.Context) ([]model.Stylist, error)
	ListServices(ctx context.Context) ([]model.Service, error)
	GetSchedule(ctx context.Context) (*model.WeeklySchedule, error)
}

// AdminStore is the write side plus the per-client reads the handlers
// need directly from the store.
type AdminStore interface {
	AppointmentsByClient(ctx context.Context, clientID string) ([]model.Appointment, error)

	CreateStylist(ctx context.Context, st *model.Stylist) error
	UpdateStylist(ctx context.Context, st *model.Stylist) error
	DeactivateStylist(ctx context.Context, id string) error
	CreateService(ctx context.Context, sv *model.Service) error
	UpdateService(ctx context.Context, sv *model.Service) error
	DeactivateService(ctx context.Context, id string) error

	ListClients(ctx context.Context) ([]model.Client, error)
	GetClient(ctx context.Context, id string) (*model.Client, error)
	UpsertClient(ctx context.Context, c *model.Client) error
	CreateVoucher(ctx context.Context, v *model.Voucher) error
	GetVoucher(ctx context.Context, id string) (*model.Voucher, error)

	PutDaySchedule(ctx context.Context, day time.Weekday, ranges []model.TimeRange) error
}

// Invalidator drops cached catalog entries after an admin write. May be
// nil when no cache is configured.
type Invalidator interface {
	InvalidateCatalog(ctx context.Context)
}

// Options configure the router.
type Options struct {
	// RequestsPerMin caps per-IP request rate; <=0 uses 60.
	RequestsPerMin int
	Location       *time.Location
}

// Server holds the handler dependencies.
type Server struct {
	booking Booker
	agenda  AgendaBuilder
	reports Reporter
	catalog CatalogReader
	store   AdminStore
	invalid Invalidator
	opts    Options
	loc     *time.Location
	logger  zerolog.Logger
}

// NewServer wires the handler dependencies together.
func NewServer(b Booker, a AgendaBuilder, rep Reporter, catalog CatalogReader, store AdminStore, invalid Invalidator, logger zerolog.Logger, opts Options) *Server {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Server{
		booking: b,
		agenda:  a,
		reports: rep,
		catalog: catalog,
		store:   store,
		invalid: invalid,
		opts:    opts,
		loc:     loc,
		logger:  logger,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))
	r.Use(newIPLimiter(s.opts.RequestsPerMin, time.Minute).Limit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/stylists", s.listStylists)
		r.Get("/services", s.listServices)
		r.Get("/stylists/{stylistID}/slots", s.stylistSlots)
		r.Post("/appointments", s.bookClient)
		r.Post("/appointments/{id}/cancel", s.cancelAppointment)
		r.Get("/clients/{clientID}/appointments", s.clientAppointments)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/agenda", s.agendaGrid)
			r.Post("/appointments", s.bookAdmin)
			r.Post("/appointments/{id}/complete", s.completeAppointment)
			r.Post("/appointments/{id}/no-show", s.markNoShow)
			r.Post("/appointments/{id}/cancel", s.cancelAppointment)

			r.Get("/schedule", s.getSchedule)
			r.Put("/schedule/{day}", s.putDaySchedule)

			r.Get("/clients", s.listClients)
			r.Put("/clients/{id}", s.upsertClient)
			r.Post("/clients/{id}/vouchers", s.createVoucher)

			r.Post("/stylists", s.createStylist)
			r.Put("/stylists/{id}", s.updateStylist)
			r.Delete("/stylists/{id}", s.deactivateStylist)
			r.Post("/services", s.createService)
			r.Put("/services/{id}", s.updateService)
			r.Delete("/services/{id}", s.deactivateService)

			r.Get("/reports", s.buildReport)
			r.Get("/reports/export", s.exportReport)
		})
	})

	return r
}

func (s *Server) invalidateCatalog(ctx context.Context) {
	if s.invalid != nil {
		s.invalid.InvalidateCatalog(ctx)
	}
}

// parseDate reads a query date (YYYY-MM-DD) in the server's timezone.
func (s *Server) parseDate(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(model.DateLayout, raw, s.loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
