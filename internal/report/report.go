// Package report aggregates revenue over completed appointments. It
// produces totals only; presentation beyond a spreadsheet export is out
// of scope.
package report

import (
	"context"
	"fmt"
	"sort"

	"barberbook/internal/model"
)

// Repository is the slice of the store reporting reads from.
type Repository interface {
	CompletedBetween(ctx context.Context, from, to string) ([]model.Appointment, error)
	ListServices(ctx context.Context) ([]model.Service, error)
	ListStylists(ctx context.Context) ([]model.Stylist, error)
}

// ServiceStats is one service's share of the period.
type ServiceStats struct {
	ServiceID string  `json:"servicioId"`
	Name      string  `json:"nombre"`
	Count     int     `json:"citas"`
	Revenue   float64 `json:"ingresos"`
}

// StylistStats is one stylist's share of the period.
type StylistStats struct {
	StylistID   string  `json:"peluqueroId"`
	Name        string  `json:"nombre"`
	Count       int     `json:"citas"`
	Revenue     float64 `json:"ingresos"`
	CardRevenue float64 `json:"ingresosTarjeta"`
	CashRevenue float64 `json:"ingresosEfectivo"`
}

// Report is the revenue summary for an inclusive date range.
type Report struct {
	From            string         `json:"desde"`
	To              string         `json:"hasta"`
	Appointments    int            `json:"citas"`
	TotalRevenue    float64        `json:"ingresosTotales"`
	CardRevenue     float64        `json:"ingresosTarjeta"`
	CashRevenue     float64        `json:"ingresosEfectivo"`
	VoucherSessions int            `json:"sesionesBono"`
	Services        []ServiceStats `json:"servicios"`
	Stylists        []StylistStats `json:"peluqueros"`
}

// Service computes revenue reports.
type Service struct {
	repo Repository
}

// NewService creates a report service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Build aggregates completed appointments between from and to
// (YYYY-MM-DD, inclusive). Appointments whose service no longer
// resolves contribute a visit but no revenue. Voucher checkouts count
// sessions, not cash.
func (s *Service) Build(ctx context.Context, from, to string) (*Report, error) {
	completed, err := s.repo.CompletedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load completed appointments: %w", err)
	}
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}
	stylists, err := s.repo.ListStylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stylists: %w", err)
	}

	priceOf := make(map[string]model.Service, len(services))
	for _, sv := range services {
		priceOf[sv.ID] = sv
	}
	stylistName := make(map[string]string, len(stylists))
	for _, st := range stylists {
		stylistName[st.ID] = st.Name
	}

	report := &Report{From: from, To: to}
	byService := make(map[string]*ServiceStats)
	byStylist := make(map[string]*StylistStats)

	for _, a := range completed {
		report.Appointments++

		sv, ok := priceOf[a.ServiceID]
		if !ok {
			continue
		}

		st := byStylist[a.StylistID]
		if st == nil {
			st = &StylistStats{StylistID: a.StylistID, Name: stylistName[a.StylistID]}
			byStylist[a.StylistID] = st
		}
		st.Count++

		ss := byService[a.ServiceID]
		if ss == nil {
			ss = &ServiceStats{ServiceID: sv.ID, Name: sv.Name}
			byService[a.ServiceID] = ss
		}
		ss.Count++

		switch a.PaymentMethod {
		case model.PaymentVoucher:
			report.VoucherSessions++
		case model.PaymentCard:
			report.TotalRevenue += sv.Price
			report.CardRevenue += sv.Price
			ss.Revenue += sv.Price
			st.Revenue += sv.Price
			st.CardRevenue += sv.Price
		case model.PaymentCash:
			report.TotalRevenue += sv.Price
			report.CashRevenue += sv.Price
			ss.Revenue += sv.Price
			st.Revenue += sv.Price
			st.CashRevenue += sv.Price
		}
	}

	for _, ss := range byService {
		report.Services = append(report.Services, *ss)
	}
	sort.Slice(report.Services, func(i, j int) bool {
		return report.Services[i].Revenue > report.Services[j].Revenue
	})

	for _, st := range byStylist {
		report.Stylists = append(report.Stylists, *st)
	}
	sort.Slice(report.Stylists, func(i, j int) bool {
		return report.Stylists[i].Revenue > report.Stylists[j].Revenue
	})

	return report, nil
}
