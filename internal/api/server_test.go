package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barberbook/internal/agenda"
	"barberbook/internal/booking"
	"barberbook/internal/model"
	"barberbook/internal/report"
)

type stubBooker struct {
	bookErr    error
	lastOrigin string
}

func (b *stubBooker) Book(_ context.Context, req booking.Request) (*model.Appointment, error) {
	b.lastOrigin = req.Origin
	if b.bookErr != nil {
		return nil, b.bookErr
	}
	return &model.Appointment{ID: "apt1", StylistID: req.StylistID, Date: req.Date, Hour: req.Hour, Status: model.StatusPending}, nil
}

func (b *stubBooker) Cancel(context.Context, string) error              { return nil }
func (b *stubBooker) Complete(context.Context, string, string) error   { return nil }
func (b *stubBooker) MarkNoShow(context.Context, string) error         { return nil }
func (b *stubBooker) SlotsForStylist(context.Context, string, time.Time) (*booking.DayView, error) {
	return &booking.DayView{Hours: []string{"09:30", "10:00"}, Occupied: []string{"09:30"}}, nil
}

type stubAgenda struct{}

func (stubAgenda) Build(_ context.Context, date time.Time) (*agenda.Grid, error) {
	return &agenda.Grid{Date: date.Format(model.DateLayout)}, nil
}

type stubReporter struct{}

func (stubReporter) Build(_ context.Context, from, to string) (*report.Report, error) {
	return &report.Report{From: from, To: to}, nil
}

type stubCatalog struct{}

func (stubCatalog) ListStylists(context.Context) ([]model.Stylist, error) {
	return []model.Stylist{{ID: "sty1", Name: "Ana"}}, nil
}
func (stubCatalog) ListServices(context.Context) ([]model.Service, error) { return nil, nil }
func (stubCatalog) GetSchedule(context.Context) (*model.WeeklySchedule, error) {
	return &model.WeeklySchedule{}, nil
}

type stubStore struct{ AdminStore }

func (stubStore) AppointmentsByClient(context.Context, string) ([]model.Appointment, error) {
	return nil, nil
}

func newTestServer(b Booker) http.Handler {
	s := NewServer(b, stubAgenda{}, stubReporter{}, stubCatalog{}, stubStore{}, nil,
		zerolog.Nop(), Options{Location: time.UTC, RequestsPerMin: 1000})
	return s.Router()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "203.0.113.7:40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBookClientEndpoint(t *testing.T) {
	b := &stubBooker{}
	h := newTestServer(b)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/appointments",
		`{"peluqueroId":"sty1","servicioId":"cut","fecha":"2024-06-03","hora":"10:00","nombreReserva":"Marta"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "client", b.lastOrigin)
	assert.Contains(t, rec.Body.String(), `"id":"apt1"`)
}

func TestBookAdminEndpointTagsOrigin(t *testing.T) {
	b := &stubBooker{}
	h := newTestServer(b)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/appointments",
		`{"peluqueroId":"sty1","servicioId":"cut","fecha":"2024-06-03","hora":"10:00","nombreReserva":"Marta"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "admin", b.lastOrigin)
}

func TestBookErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation maps to 422", &booking.Error{Kind: booking.KindValidation, Message: "select a stylist"}, http.StatusUnprocessableEntity},
		{"conflict maps to 409", &booking.Error{Kind: booking.KindConflict, Message: "slot taken"}, http.StatusConflict},
		{"rate limit maps to 429", &booking.Error{Kind: booking.KindRateLimit, Message: "too many bookings"}, http.StatusTooManyRequests},
		{"transient maps to 502", &booking.Error{Kind: booking.KindTransient, Message: "store down"}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(&stubBooker{bookErr: tt.err})
			rec := doRequest(t, h, http.MethodPost, "/api/v1/appointments",
				`{"peluqueroId":"sty1"}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestStylistSlotsRequiresDate(t *testing.T) {
	h := newTestServer(&stubBooker{})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/stylists/sty1/slots", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/stylists/sty1/slots?date=2024-06-03", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"horasDisponibles"`)
	assert.Contains(t, rec.Body.String(), `"horasOcupadas"`)
}

func TestAgendaEndpoint(t *testing.T) {
	h := newTestServer(&stubBooker{})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/admin/agenda?date=2024-06-03", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fecha":"2024-06-03"`)
}

func TestReportRequiresRange(t *testing.T) {
	h := newTestServer(&stubBooker{})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/admin/reports?from=2024-06-01", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/admin/reports?from=2024-06-01&to=2024-06-30", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIPRateLimiter(t *testing.T) {
	limiter := newIPLimiter(2, time.Minute)
	h := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.9:40000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
