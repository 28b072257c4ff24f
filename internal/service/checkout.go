package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/BookingGo/internal/domain"
	"github.com/utafrali/BookingGo/internal/event"
	"github.com/utafrali/BookingGo/internal/repository"
	apperrors "github.com/utafrali/BookingGo/pkg/errors"
)

// BookingSubmitter sends a captured cart snapshot to the booking backend.
type BookingSubmitter interface {
	SubmitBooking(ctx context.Context, customerName, paymentMethod string, totalCost int64, items []domain.LineItem) (*domain.BookingReceipt, error)
}

// SubmitInput holds the guest-provided checkout details.
type SubmitInput struct {
	CustomerName  string `json:"customer_name" validate:"required,min=1,max=200"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=credit_card debit_card paypal"`
}

// CheckoutResult is returned to the guest after a successful submission.
type CheckoutResult struct {
	Receipt *domain.BookingReceipt `json:"receipt"`
	Totals  domain.CheckoutTotals  `json:"totals"`
}

// OrderSummary is the pre-submission totals preview for the guest's cart.
type OrderSummary struct {
	Cart   *domain.Cart          `json:"cart"`
	Totals domain.CheckoutTotals `json:"totals"`
}

// CheckoutService orchestrates the submission flow. It holds no booking state
// of its own: the cart snapshot is captured at submission start, and the only
// durable outcome is the receipt handed back by the booking backend.
//
// One submission may be in flight per guest at a time. While a submission is
// running, a second submit for the same guest is rejected with a conflict;
// cart mutations stay allowed and cannot revise the captured snapshot.
type CheckoutService struct {
	store         repository.CartStore
	archive       repository.ReceiptArchive
	backend       BookingSubmitter
	producer      *event.Producer
	logger        *slog.Logger
	pricing       domain.PricingConfig
	submitTimeout time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewCheckoutService creates a new checkout service. archive may be nil when
// the receipt archive is not configured.
func NewCheckoutService(
	store repository.CartStore,
	archive repository.ReceiptArchive,
	backend BookingSubmitter,
	producer *event.Producer,
	logger *slog.Logger,
	pricing domain.PricingConfig,
	submitTimeout time.Duration,
) *CheckoutService {
	return &CheckoutService{
		store:         store,
		archive:       archive,
		backend:       backend,
		producer:      producer,
		logger:        logger,
		pricing:       pricing,
		submitTimeout: submitTimeout,
		inFlight:      make(map[string]struct{}),
	}
}

// Summary returns the guest's cart together with the checkout totals that a
// submission started now would carry.
func (s *CheckoutService) Summary(ctx context.Context, guestID string) (*OrderSummary, error) {
	if guestID == "" {
		return nil, apperrors.InvalidInput("guest id is required")
	}

	cart, err := s.store.Get(ctx, guestID)
	if err != nil {
		cart = domain.NewEmptyCart(guestID)
	} else {
		cart.Recalculate()
	}

	return &OrderSummary{
		Cart:   cart,
		Totals: s.pricing.Totals(cart.TotalPrice),
	}, nil
}

// Submit runs the checkout flow for a guest: capture the cart snapshot,
// submit it to the booking backend, and on success clear the cart
// unconditionally. On failure the cart is left exactly as it was.
func (s *CheckoutService) Submit(ctx context.Context, guestID string, input SubmitInput) (*CheckoutResult, error) {
	if guestID == "" {
		return nil, apperrors.InvalidInput("guest id is required")
	}
	if input.CustomerName == "" {
		return nil, apperrors.InvalidInput("customer name is required")
	}
	if input.PaymentMethod == "" {
		return nil, apperrors.InvalidInput("payment method is required")
	}

	if !s.beginSubmission(guestID) {
		return nil, apperrors.Conflict("a checkout is already in progress for this guest")
	}
	defer s.endSubmission(guestID)

	cart, err := s.store.Get(ctx, guestID)
	if err != nil {
		// Absent or unreadable cart degrades to empty, and an empty cart
		// cannot be checked out.
		return nil, apperrors.InvalidInput("cart is empty")
	}
	cart.Recalculate()
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	// The snapshot is what gets booked. Concurrent cart mutations after this
	// point affect the stored cart only, never the in-flight request.
	snapshot := cart.Clone()
	totals := s.pricing.Totals(snapshot.TotalPrice)

	submitCtx := ctx
	if s.submitTimeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, s.submitTimeout)
		defer cancel()
	}

	receipt, err := s.backend.SubmitBooking(submitCtx, input.CustomerName, input.PaymentMethod, totals.Total, snapshot.Items)
	if err != nil {
		s.publishFailed(ctx, guestID, err.Error(), totals.Total)
		s.logger.WarnContext(ctx, "checkout submission failed, cart preserved",
			slog.String("guest_id", guestID),
			slog.Int64("total", totals.Total),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	// Success clears the cart no matter what; the receipt is the source of
	// truth from here on.
	if err := s.store.Delete(ctx, guestID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after successful booking",
			slog.String("guest_id", guestID),
			slog.String("error", err.Error()),
		)
	}

	s.archiveReceipt(ctx, guestID, receipt)
	s.publishConfirmed(ctx, guestID, receipt)

	if err := s.producer.PublishCartCleared(ctx, guestID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("guest_id", guestID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "checkout succeeded",
		slog.String("guest_id", guestID),
		slog.String("confirmation_number", receipt.ConfirmationNumber),
		slog.Int64("total", totals.Total),
	)

	return &CheckoutResult{
		Receipt: receipt,
		Totals:  totals,
	}, nil
}

// ListReceipts returns the guest's archived booking receipts.
func (s *CheckoutService) ListReceipts(ctx context.Context, guestID string) ([]domain.BookingReceipt, error) {
	if guestID == "" {
		return nil, apperrors.InvalidInput("guest id is required")
	}
	if s.archive == nil {
		return nil, apperrors.Unavailable("receipt archive is not configured")
	}
	receipts, err := s.archive.ListByGuest(ctx, guestID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return receipts, nil
}

// GetReceipt returns one of the guest's archived receipts by confirmation
// number.
func (s *CheckoutService) GetReceipt(ctx context.Context, guestID, confirmationNumber string) (*domain.BookingReceipt, error) {
	if guestID == "" {
		return nil, apperrors.InvalidInput("guest id is required")
	}
	if confirmationNumber == "" {
		return nil, apperrors.InvalidInput("confirmation number is required")
	}
	if s.archive == nil {
		return nil, apperrors.Unavailable("receipt archive is not configured")
	}
	receipt, err := s.archive.GetByConfirmation(ctx, guestID, confirmationNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, apperrors.Internal(err)
	}
	return receipt, nil
}

func (s *CheckoutService) beginSubmission(guestID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[guestID]; busy {
		return false
	}
	s.inFlight[guestID] = struct{}{}
	return true
}

func (s *CheckoutService) endSubmission(guestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, guestID)
}

func (s *CheckoutService) archiveReceipt(ctx context.Context, guestID string, receipt *domain.BookingReceipt) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Save(ctx, guestID, receipt); err != nil {
		s.logger.ErrorContext(ctx, "failed to archive booking receipt",
			slog.String("guest_id", guestID),
			slog.String("confirmation_number", receipt.ConfirmationNumber),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CheckoutService) publishConfirmed(ctx context.Context, guestID string, receipt *domain.BookingReceipt) {
	if err := s.producer.PublishBookingConfirmed(ctx, guestID, receipt); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish booking.confirmed event",
			slog.String("guest_id", guestID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CheckoutService) publishFailed(ctx context.Context, guestID, reason string, total int64) {
	if err := s.producer.PublishBookingFailed(ctx, guestID, reason, total); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish booking.failed event",
			slog.String("guest_id", guestID),
			slog.String("error", err.Error()),
		)
	}
}
