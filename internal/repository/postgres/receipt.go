// Package postgres provides the PostgreSQL-backed booking receipt archive.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/BookingGo/internal/domain"
	"github.com/utafrali/BookingGo/pkg/database"
	apperrors "github.com/utafrali/BookingGo/pkg/errors"
)

// ReceiptArchive implements repository.ReceiptArchive using PostgreSQL.
type ReceiptArchive struct {
	pool database.DBTX
}

// NewReceiptArchive creates a new PostgreSQL-backed receipt archive.
func NewReceiptArchive(pool database.DBTX) *ReceiptArchive {
	return &ReceiptArchive{pool: pool}
}

// Save records a receipt for a guest. Replaying the same confirmation number
// is a no-op so archiving stays idempotent.
func (a *ReceiptArchive) Save(ctx context.Context, guestID string, receipt *domain.BookingReceipt) error {
	query := `
		INSERT INTO booking_receipts (
			confirmation_number, guest_id, customer_name, hotel_name,
			room_type, room_number, total_cost, payment_method, status, booked_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (confirmation_number) DO NOTHING`

	_, err := a.pool.Exec(ctx, query,
		receipt.ConfirmationNumber,
		guestID,
		receipt.CustomerName,
		receipt.HotelName,
		receipt.RoomType,
		receipt.RoomNumber,
		receipt.TotalCost,
		receipt.PaymentMethod,
		receipt.Status,
		receipt.BookedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking receipt: %w", err)
	}

	return nil
}

// ListByGuest returns a guest's receipts, most recent first.
func (a *ReceiptArchive) ListByGuest(ctx context.Context, guestID string) ([]domain.BookingReceipt, error) {
	query := `
		SELECT confirmation_number, customer_name, hotel_name, room_type,
			room_number, total_cost, payment_method, status, booked_at
		FROM booking_receipts
		WHERE guest_id = $1
		ORDER BY booked_at DESC`

	rows, err := a.pool.Query(ctx, query, guestID)
	if err != nil {
		return nil, fmt.Errorf("query booking receipts: %w", err)
	}
	defer rows.Close()

	receipts := []domain.BookingReceipt{}
	for rows.Next() {
		var r domain.BookingReceipt
		if err := rows.Scan(
			&r.ConfirmationNumber,
			&r.CustomerName,
			&r.HotelName,
			&r.RoomType,
			&r.RoomNumber,
			&r.TotalCost,
			&r.PaymentMethod,
			&r.Status,
			&r.BookedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking receipt: %w", err)
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking receipts: %w", err)
	}

	return receipts, nil
}

// GetByConfirmation returns one of the guest's receipts by confirmation
// number. The guest scope keeps one guest from reading another's bookings.
func (a *ReceiptArchive) GetByConfirmation(ctx context.Context, guestID, confirmationNumber string) (*domain.BookingReceipt, error) {
	query := `
		SELECT confirmation_number, customer_name, hotel_name, room_type,
			room_number, total_cost, payment_method, status, booked_at
		FROM booking_receipts
		WHERE guest_id = $1 AND confirmation_number = $2`

	var r domain.BookingReceipt
	err := a.pool.QueryRow(ctx, query, guestID, confirmationNumber).Scan(
		&r.ConfirmationNumber,
		&r.CustomerName,
		&r.HotelName,
		&r.RoomType,
		&r.RoomNumber,
		&r.TotalCost,
		&r.PaymentMethod,
		&r.Status,
		&r.BookedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("booking receipt", confirmationNumber)
		}
		return nil, fmt.Errorf("query booking receipt: %w", err)
	}

	return &r, nil
}
