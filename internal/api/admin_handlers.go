package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"barberbook/internal/model"
	"barberbook/internal/report"
)

func (s *Server) agendaGrid(w http.ResponseWriter, r *http.Request) {
	date, ok := s.parseDate(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "date query parameter is required (YYYY-MM-DD)")
		return
	}
	grid, err := s.agenda.Build(r.Context(), date)
	if err != nil {
		respondError(w, http.StatusBadGateway, "could not build the agenda")
		return
	}
	respondJSON(w, http.StatusOK, grid)
}

type completeRequest struct {
	PaymentMethod string `json:"metodoPago"`
}

func (s *Server) completeAppointment(w http.ResponseWriter, r *http.Request) {
	var body completeRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.booking.Complete(r.Context(), chi.URLParam(r, "id"), body.PaymentMethod); err != nil {
		respondBookingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"estado": model.StatusCompleted})
}

func (s *Server) markNoShow(w http.ResponseWriter, r *http.Request) {
	if err := s.booking.MarkNoShow(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondBookingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"estado": model.StatusNoShow})
}

func (s *Server) getSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := s.catalog.GetSchedule(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "could not load the schedule")
		return
	}
	respondJSON(w, http.StatusOK, schedule)
}

func (s *Server) putDaySchedule(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil || day < 0 || day > 6 {
		respondError(w, http.StatusBadRequest, "day must be 0 (Sunday) through 6 (Saturday)")
		return
	}

	var ranges []model.TimeRange
	if !decodeBody(w, r, &ranges) {
		return
	}
	for _, rng := range ranges {
		if rng.Start >= rng.End {
			respondError(w, http.StatusUnprocessableEntity, "range start must precede end")
			return
		}
	}

	if err := s.store.PutDaySchedule(r.Context(), time.Weekday(day), ranges); err != nil {
		respondError(w, http.StatusBadGateway, "could not save the schedule")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"dia": day})
}

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.store.ListClients(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "could not load clients")
		return
	}
	if clients == nil {
		clients = []model.Client{}
	}
	respondJSON(w, http.StatusOK, clients)
}

func (s *Server) upsertClient(w http.ResponseWriter, r *http.Request) {
	var client model.Client
	if !decodeBody(w, r, &client) {
		return
	}
	client.ID = chi.URLParam(r, "id")
	if client.Name == "" {
		respondError(w, http.StatusUnprocessableEntity, "a client needs a name")
		return
	}
	if err := s.store.UpsertClient(r.Context(), &client); err != nil {
		respondError(w, http.StatusBadGateway, "could not save the client")
		return
	}
	respondJSON(w, http.StatusOK, client)
}

type voucherRequest struct {
	Sessions int `json:"sesiones"`
}

func (s *Server) createVoucher(w http.ResponseWriter, r *http.Request) {
	var body voucherRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Sessions <= 0 {
		respondError(w, http.StatusUnprocessableEntity, "a voucher needs at least one session")
		return
	}
	clientID := chi.URLParam(r, "id")
	if _, err := s.store.GetClient(r.Context(), clientID); err != nil {
		respondError(w, http.StatusNotFound, "client not found")
		return
	}
	voucher := &model.Voucher{ClientID: clientID, Sessions: body.Sessions}
	if err := s.store.CreateVoucher(r.Context(), voucher); err != nil {
		respondError(w, http.StatusBadGateway, "could not create the voucher")
		return
	}
	respondJSON(w, http.StatusCreated, voucher)
}

func (s *Server) createStylist(w http.ResponseWriter, r *http.Request) {
	var stylist model.Stylist
	if !decodeBody(w, r, &stylist) {
		return
	}
	if stylist.Name == "" {
		respondError(w, http.StatusUnprocessableEntity, "a stylist needs a name")
		return
	}
	if err := s.store.CreateStylist(r.Context(), &stylist); err != nil {
		respondError(w, http.StatusBadGateway, "could not create the stylist")
		return
	}
	s.invalidateCatalog(r.Context())
	respondJSON(w, http.StatusCreated, stylist)
}

func (s *Server) updateStylist(w http.ResponseWriter, r *http.Request) {
	var stylist model.Stylist
	if !decodeBody(w, r, &stylist) {
		return
	}
	stylist.ID = chi.URLParam(r, "id")
	if err := s.store.UpdateStylist(r.Context(), &stylist); err != nil {
		respondError(w, http.StatusNotFound, "stylist not found")
		return
	}
	s.invalidateCatalog(r.Context())
	respondJSON(w, http.StatusOK, stylist)
}

func (s *Server) deactivateStylist(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeactivateStylist(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusBadGateway, "could not deactivate the stylist")
		return
	}
	s.invalidateCatalog(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createService(w http.ResponseWriter, r *http.Request) {
	var service model.Service
	if !decodeBody(w, r, &service) {
		return
	}
	if service.Name == "" {
		respondError(w, http.StatusUnprocessableEntity, "a service needs a name")
		return
	}
	if err := s.store.CreateService(r.Context(), &service); err != nil {
		respondError(w, http.StatusBadGateway, "could not create the service")
		return
	}
	s.invalidateCatalog(r.Context())
	respondJSON(w, http.StatusCreated, service)
}

func (s *Server) updateService(w http.ResponseWriter, r *http.Request) {
	var service model.Service
	if !decodeBody(w, r, &service) {
		return
	}
	service.ID = chi.URLParam(r, "id")
	if err := s.store.UpdateService(r.Context(), &service); err != nil {
		respondError(w, http.StatusNotFound, "service not found")
		return
	}
	s.invalidateCatalog(r.Context())
	respondJSON(w, http.StatusOK, service)
}

func (s *Server) deactivateService(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeactivateService(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusBadGateway, "could not deactivate the service")
		return
	}
	s.invalidateCatalog(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reportRange(r *http.Request) (string, string, bool) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		return "", "", false
	}
	if _, err := time.Parse(model.DateLayout, from); err != nil {
		return "", "", false
	}
	if _, err := time.Parse(model.DateLayout, to); err != nil {
		return "", "", false
	}
	return from, to, true
}

func (s *Server) buildReport(w http.ResponseWriter, r *http.Request) {
	from, to, ok := s.reportRange(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "from and to query parameters are required (YYYY-MM-DD)")
		return
	}
	rep, err := s.reports.Build(r.Context(), from, to)
	if err != nil {
		respondError(w, http.StatusBadGateway, "could not build the report")
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

func (s *Server) exportReport(w http.ResponseWriter, r *http.Request) {
	from, to, ok := s.reportRange(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "from and to query parameters are required (YYYY-MM-DD)")
		return
	}
	rep, err := s.reports.Build(r.Context(), from, to)
	if err != nil {
		respondError(w, http.StatusBadGateway, "could not build the report")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="informe_`+from+`_`+to+`.xlsx"`)
	if err := report.ExportExcel(rep, w); err != nil {
		s.logger.Error().Err(err).Msg("report export failed")
	}
}
