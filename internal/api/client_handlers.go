package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"barberbook/internal/booking"
	"barberbook/internal/model"
)

func (s *Server) listStylists(w http.ResponseWriter, r *http.Request) {
	stylists, err := s.catalog.ListStylists(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "could not load stylists")
		return
	}
	if stylists == nil {
		stylists = []model.Stylist{}
	}
	respondJSON(w, http.StatusOK, stylists)
}

func (s *Server) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.catalog.ListServices(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "could not load services")
		return
	}
	if services == nil {
		services = []model.Service{}
	}
	respondJSON(w, http.StatusOK, services)
}

func (s *Server) stylistSlots(w http.ResponseWriter, r *http.Request) {
	date, ok := s.parseDate(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "date query parameter is required (YYYY-MM-DD)")
		return
	}
	view, err := s.booking.SlotsForStylist(r.Context(), chi.URLParam(r, "stylistID"), date)
	if err != nil {
		respondBookingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

type bookRequest struct {
	StylistID   string `json:"peluqueroId"`
	ServiceID   string `json:"servicioId"`
	ClientID    string `json:"clienteId"`
	ClientName  string `json:"clienteNombre"`
	BookingName string `json:"nombreReserva"`
	ClientPhone string `json:"clienteTelefono"`
	Date        string `json:"fecha"`
	Hour        string `json:"hora"`
}

func (s *Server) bookClient(w http.ResponseWriter, r *http.Request) {
	s.book(w, r, "client")
}

func (s *Server) bookAdmin(w http.ResponseWriter, r *http.Request) {
	s.book(w, r, "admin")
}

func (s *Server) book(w http.ResponseWriter, r *http.Request, origin string) {
	var body bookRequest
	if !decodeBody(w, r, &body) {
		return
	}
	appointment, err := s.booking.Book(r.Context(), booking.Request{
		StylistID:   body.StylistID,
		ServiceID:   body.ServiceID,
		ClientID:    body.ClientID,
		ClientName:  body.ClientName,
		BookingName: body.BookingName,
		ClientPhone: body.ClientPhone,
		Date:        body.Date,
		Hour:        body.Hour,
		Origin:      origin,
	})
	if err != nil {
		respondBookingError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, appointment)
}

func (s *Server) cancelAppointment(w http.ResponseWriter, r *http.Request) {
	if err := s.booking.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondBookingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"estado": model.StatusCanceled})
}

func (s *Server) clientAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := s.store.AppointmentsByClient(r.Context(), chi.URLParam(r, "clientID"))
	if err != nil {
		respondError(w, http.StatusBadGateway, "could not load appointments")
		return
	}
	if appointments == nil {
		appointments = []model.Appointment{}
	}
	respondJSON(w, http.StatusOK, appointments)
}
