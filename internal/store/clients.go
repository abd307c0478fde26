package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"barberbook/internal/events"
	"barberbook/internal/model"
)

// GetClient returns one client or sql.ErrNoRows.
func (s *Store) GetClient(ctx context.Context, id string) (*model.Client, error) {
	var c model.Client
	var phone, voucherID sql.NullString
	err := s.QueryRowContext(ctx, `
		SELECT id, name, phone, reputation, voucher_id, created_at, updated_at
		FROM clients WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &phone, &c.Reputation, &voucherID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Phone = phone.String
	c.VoucherID = voucherID.String
	return &c, nil
}

// ListClients returns all clients in name order.
func (s *Store) ListClients(ctx context.Context) ([]model.Client, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, name, phone, reputation, voucher_id, created_at, updated_at
		FROM clients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		var c model.Client
		var phone, voucherID sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &phone, &c.Reputation, &voucherID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Phone = phone.String
		c.VoucherID = voucherID.String
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// UpsertClient creates or refreshes a client record.
func (s *Store) UpsertClient(ctx context.Context, c *model.Client) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Reputation == "" {
		c.Reputation = model.ReputationRegular
	}
	now := s.now()
	c.UpdatedAt = now

	_, err := s.ExecContext(ctx, `
		INSERT INTO clients (id, name, phone, reputation, voucher_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			updated_at = excluded.updated_at`,
		c.ID, c.Name, nullable(c.Phone), c.Reputation, nullable(c.VoucherID), now, now)
	if err != nil {
		return fmt.Errorf("upsert client: %w", err)
	}
	return nil
}

// UpdateClientReputation sets the client's reputation level.
func (s *Store) UpdateClientReputation(ctx context.Context, id, reputation string) error {
	res, err := s.ExecContext(ctx, `
		UPDATE clients SET reputation = ?, updated_at = ? WHERE id = ?`,
		reputation, s.now(), id)
	if err != nil {
		return fmt.Errorf("update reputation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateVoucher inserts a session pack and attaches it to the client.
func (s *Store) CreateVoucher(ctx context.Context, v *model.Voucher) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := s.now()
	v.CreatedAt = now
	v.UpdatedAt = now
	if v.Remaining == 0 {
		v.Remaining = v.Sessions
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin voucher tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO vouchers (id, client_id, sessions, remaining, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.ClientID, v.Sessions, v.Remaining, v.CreatedAt, v.UpdatedAt); err != nil {
		return fmt.Errorf("insert voucher: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE clients SET voucher_id = ?, updated_at = ? WHERE id = ?`,
		v.ID, now, v.ClientID); err != nil {
		return fmt.Errorf("attach voucher: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit voucher: %w", err)
	}

	s.publish(events.TopicVouchers, "created", v.ID)
	return nil
}

// GetVoucher returns one voucher or sql.ErrNoRows.
func (s *Store) GetVoucher(ctx context.Context, id string) (*model.Voucher, error) {
	var v model.Voucher
	err := s.QueryRowContext(ctx, `
		SELECT id, client_id, sessions, remaining, created_at, updated_at
		FROM vouchers WHERE id = ?`, id,
	).Scan(&v.ID, &v.ClientID, &v.Sessions, &v.Remaining, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ConsumeVoucherSession decrements the voucher and detaches it from the
// client when exhausted. Returns the remaining session count.
func (s *Store) ConsumeVoucherSession(ctx context.Context, id string) (int, error) {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin consume tx: %w", err)
	}
	defer tx.Rollback()

	var clientID string
	var remaining int
	err = tx.QueryRowContext(ctx,
		`SELECT client_id, remaining FROM vouchers WHERE id = ?`, id,
	).Scan(&clientID, &remaining)
	if err != nil {
		return 0, err
	}
	if remaining <= 0 {
		return 0, fmt.Errorf("voucher %s has no sessions left", id)
	}

	remaining--
	now := s.now()
	if _, err := tx.ExecContext(ctx, `
		UPDATE vouchers SET remaining = ?, updated_at = ? WHERE id = ?`,
		remaining, now, id); err != nil {
		return 0, fmt.Errorf("decrement voucher: %w", err)
	}
	if remaining == 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE clients SET voucher_id = NULL, updated_at = ? WHERE id = ?`,
			now, clientID); err != nil {
			return 0, fmt.Errorf("detach exhausted voucher: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit consume: %w", err)
	}

	s.publish(events.TopicVouchers, "updated", id)
	return remaining, nil
}
