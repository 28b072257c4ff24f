// Package repository defines the persistence ports for the storefront.
package repository

import (
	"context"

	"github.com/utafrali/BookingGo/internal/domain"
)

// CartStore defines the interface for cart persistence operations. Backends
// report absence with apperrors.ErrNotFound and corruption with an unmarshal
// error; the service layer decides how to degrade.
type CartStore interface {
	// Get retrieves the cart snapshot for a guest.
	Get(ctx context.Context, guestID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing snapshot for the guest.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the cart snapshot for a guest. Deleting an absent cart
	// is not an error.
	Delete(ctx context.Context, guestID string) error
}

// ReceiptArchive defines the interface for the booking receipt archive.
type ReceiptArchive interface {
	// Save records a receipt for a guest.
	Save(ctx context.Context, guestID string, receipt *domain.BookingReceipt) error

	// ListByGuest returns a guest's receipts, most recent first.
	ListByGuest(ctx context.Context, guestID string) ([]domain.BookingReceipt, error)

	// GetByConfirmation returns one of the guest's receipts by confirmation
	// number, or apperrors.ErrNotFound.
	GetByConfirmation(ctx context.Context, guestID, confirmationNumber string) (*domain.BookingReceipt, error)
}
