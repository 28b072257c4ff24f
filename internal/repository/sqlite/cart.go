// Package sqlite provides a file-backed cart store for single-node
// deployments that run without Redis.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/utafrali/BookingGo/internal/domain"
	apperrors "github.com/utafrali/BookingGo/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS carts (
    guest_id TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// CartStore implements repository.CartStore using SQLite.
type CartStore struct {
	db *sql.DB
}

// NewCartStore opens (or creates) the database at dbPath and ensures the
// schema exists. The parent directory is created if missing.
func NewCartStore(dbPath string) (*CartStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &CartStore{db: db}, nil
}

// Close closes the database connection.
func (s *CartStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *CartStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Get retrieves the cart for a guest.
func (s *CartStore) Get(ctx context.Context, guestID string) (*domain.Cart, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM carts WHERE guest_id = ?", guestID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("cart", guestID)
		}
		return nil, fmt.Errorf("query cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(payload), &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	return &cart, nil
}

// Save persists a cart, replacing any existing snapshot for the guest.
func (s *CartStore) Save(ctx context.Context, cart *domain.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO carts (guest_id, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(guest_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		cart.GuestID, string(payload), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}

	return nil
}

// Delete removes the cart for a guest.
func (s *CartStore) Delete(ctx context.Context, guestID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM carts WHERE guest_id = ?", guestID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
