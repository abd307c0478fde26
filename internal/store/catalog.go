package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/google/uuid"

	"barberbook/internal/model"
)

// ListStylists returns active stylists in name order.
func (s *Store) ListStylists(ctx context.Context) ([]model.Stylist, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, name, image_url, is_active, created_at, updated_at
		FROM stylists WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list stylists: %w", err)
	}
	defer rows.Close()

	var stylists []model.Stylist
	for rows.Next() {
		var st model.Stylist
		var imageURL sql.NullString
		if err := rows.Scan(&st.ID, &st.Name, &imageURL, &st.Active, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		st.ImageURL = imageURL.String
		stylists = append(stylists, st)
	}
	return stylists, rows.Err()
}

// GetStylist returns one stylist or sql.ErrNoRows.
func (s *Store) GetStylist(ctx context.Context, id string) (*model.Stylist, error) {
	var st model.Stylist
	var imageURL sql.NullString
	err := s.QueryRowContext(ctx, `
		SELECT id, name, image_url, is_active, created_at, updated_at
		FROM stylists WHERE id = ?`, id,
	).Scan(&st.ID, &st.Name, &imageURL, &st.Active, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	st.ImageURL = imageURL.String
	return &st, nil
}

// CreateStylist inserts a stylist with a fresh document id.
func (s *Store) CreateStylist(ctx context.Context, st *model.Stylist) error {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	now := s.now()
	st.CreatedAt = now
	st.UpdatedAt = now
	st.Active = true

	_, err := s.ExecContext(ctx, `
		INSERT INTO stylists (id, name, image_url, is_active, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)`,
		st.ID, st.Name, nullable(st.ImageURL), st.CreatedAt, st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert stylist: %w", err)
	}
	return nil
}

// UpdateStylist updates name and image.
func (s *Store) UpdateStylist(ctx context.Context, st *model.Stylist) error {
	res, err := s.ExecContext(ctx, `
		UPDATE stylists SET name = ?, image_url = ?, updated_at = ? WHERE id = ?`,
		st.Name, nullable(st.ImageURL), s.now(), st.ID)
	if err != nil {
		return fmt.Errorf("update stylist: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeactivateStylist hides the stylist from booking without touching
// existing appointments.
func (s *Store) DeactivateStylist(ctx context.Context, id string) error {
	_, err := s.ExecContext(ctx, `
		UPDATE stylists SET is_active = 0, updated_at = ? WHERE id = ?`,
		s.now(), id)
	return err
}

// ListServices returns active services in name order.
func (s *Store) ListServices(ctx context.Context) ([]model.Service, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, name, price, duration, is_active, created_at, updated_at
		FROM services WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []model.Service
	for rows.Next() {
		var sv model.Service
		if err := rows.Scan(&sv.ID, &sv.Name, &sv.Price, &sv.Duration, &sv.Active, &sv.CreatedAt, &sv.UpdatedAt); err != nil {
			return nil, err
		}
		services = append(services, sv)
	}
	return services, rows.Err()
}

// GetService returns one service or sql.ErrNoRows. Inactive services
// resolve too: existing appointments keep referencing them.
func (s *Store) GetService(ctx context.Context, id string) (*model.Service, error) {
	var sv model.Service
	err := s.QueryRowContext(ctx, `
		SELECT id, name, price, duration, is_active, created_at, updated_at
		FROM services WHERE id = ?`, id,
	).Scan(&sv.ID, &sv.Name, &sv.Price, &sv.Duration, &sv.Active, &sv.CreatedAt, &sv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sv, nil
}

// CreateService inserts a service. Prices are rounded to 2 decimal
// places on write.
func (s *Store) CreateService(ctx context.Context, sv *model.Service) error {
	if sv.ID == "" {
		sv.ID = uuid.NewString()
	}
	now := s.now()
	sv.CreatedAt = now
	sv.UpdatedAt = now
	sv.Active = true
	sv.Price = roundPrice(sv.Price)

	_, err := s.ExecContext(ctx, `
		INSERT INTO services (id, name, price, duration, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)`,
		sv.ID, sv.Name, sv.Price, sv.Duration, sv.CreatedAt, sv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

// UpdateService updates name, price and duration.
func (s *Store) UpdateService(ctx context.Context, sv *model.Service) error {
	sv.Price = roundPrice(sv.Price)
	res, err := s.ExecContext(ctx, `
		UPDATE services SET name = ?, price = ?, duration = ?, updated_at = ?
		WHERE id = ?`,
		sv.Name, sv.Price, sv.Duration, s.now(), sv.ID)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeactivateService hides the service from booking.
func (s *Store) DeactivateService(ctx context.Context, id string) error {
	_, err := s.ExecContext(ctx, `
		UPDATE services SET is_active = 0, updated_at = ? WHERE id = ?`,
		s.now(), id)
	return err
}

func roundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}
