// Package event publishes storefront domain events to Kafka. Publishing is
// best-effort: callers log failures and carry on.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/BookingGo/internal/domain"
	pkgkafka "github.com/utafrali/BookingGo/pkg/kafka"
)

// Kafka topics for cart and booking domain events.
const (
	TopicCartUpdated      = "storefront.cart.updated"
	TopicCartCleared      = "storefront.cart.cleared"
	TopicBookingConfirmed = "storefront.booking.confirmed"
	TopicBookingFailed    = "storefront.booking.failed"
)

// Aggregate type constants.
const (
	AggregateTypeCart    = "cart"
	AggregateTypeBooking = "booking"
)

// Source identifier for events originating from the storefront.
const SourceStorefront = "storefront"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	GuestID    string         `json:"guest_id"`
	Items      []CartItemData `json:"items"`
	TotalItems int            `json:"total_items"`
	TotalPrice int64          `json:"total_price"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ItemID       string `json:"item_id"`
	HotelID      int64  `json:"hotel_id"`
	HotelName    string `json:"hotel_name"`
	RoomID       int64  `json:"room_id"`
	RoomType     string `json:"room_type"`
	Price        int64  `json:"price"`
	CheckInDate  string `json:"check_in_date,omitempty"`
	CheckOutDate string `json:"check_out_date,omitempty"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	GuestID string `json:"guest_id"`
}

// BookingConfirmedData is the payload for a booking.confirmed event.
type BookingConfirmedData struct {
	GuestID            string `json:"guest_id"`
	ConfirmationNumber string `json:"confirmation_number"`
	TotalCost          int64  `json:"total_cost"`
	PaymentMethod      string `json:"payment_method"`
}

// BookingFailedData is the payload for a booking.failed event.
type BookingFailedData struct {
	GuestID string `json:"guest_id"`
	Reason  string `json:"reason"`
	Total   int64  `json:"total"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	items := make([]CartItemData, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemData{
			ItemID:       item.ID,
			HotelID:      item.HotelID,
			HotelName:    item.HotelName,
			RoomID:       item.Room.ID,
			RoomType:     item.Room.Type,
			Price:        item.Room.Price,
			CheckInDate:  item.CheckInDate,
			CheckOutDate: item.CheckOutDate,
		}
	}

	data := CartUpdatedData{
		GuestID:    cart.GuestID,
		Items:      items,
		TotalItems: cart.TotalItems,
		TotalPrice: cart.TotalPrice,
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, cart.GuestID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("guest_id", cart.GuestID),
		slog.Int("total_items", cart.TotalItems),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, guestID string) error {
	data := CartClearedData{GuestID: guestID}

	event, err := pkgkafka.NewEvent(TopicCartCleared, guestID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("guest_id", guestID),
	)

	return nil
}

// PublishBookingConfirmed publishes a booking.confirmed event.
func (p *Producer) PublishBookingConfirmed(ctx context.Context, guestID string, receipt *domain.BookingReceipt) error {
	data := BookingConfirmedData{
		GuestID:            guestID,
		ConfirmationNumber: receipt.ConfirmationNumber,
		TotalCost:          receipt.TotalCost,
		PaymentMethod:      receipt.PaymentMethod,
	}

	event, err := pkgkafka.NewEvent(TopicBookingConfirmed, guestID, AggregateTypeBooking, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create booking.confirmed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicBookingConfirmed, event); err != nil {
		return fmt.Errorf("publish booking.confirmed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published booking.confirmed event",
		slog.String("guest_id", guestID),
		slog.String("confirmation_number", receipt.ConfirmationNumber),
	)

	return nil
}

// PublishBookingFailed publishes a booking.failed event.
func (p *Producer) PublishBookingFailed(ctx context.Context, guestID, reason string, total int64) error {
	data := BookingFailedData{
		GuestID: guestID,
		Reason:  reason,
		Total:   total,
	}

	event, err := pkgkafka.NewEvent(TopicBookingFailed, guestID, AggregateTypeBooking, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create booking.failed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicBookingFailed, event); err != nil {
		return fmt.Errorf("publish booking.failed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published booking.failed event",
		slog.String("guest_id", guestID),
		slog.String("reason", reason),
	)

	return nil
}
