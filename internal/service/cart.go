// Package service implements the storefront business logic for cart and
// checkout operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/BookingGo/internal/domain"
	"github.com/utafrali/BookingGo/internal/event"
	"github.com/utafrali/BookingGo/internal/repository"
	apperrors "github.com/utafrali/BookingGo/pkg/errors"
)

// MaxItemsPerCart is the maximum number of distinct room selections allowed
// in a cart.
const MaxItemsPerCart = 50

// lockStripes is the size of the striped mutex table guarding per-guest
// read-modify-write cycles.
const lockStripes = 64

// guestLocks serializes cart mutations per guest. Striping keeps the table
// bounded regardless of how many guests are active.
type guestLocks [lockStripes]sync.Mutex

func (l *guestLocks) forGuest(guestID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(guestID))
	return &l[h.Sum32()%lockStripes]
}

// AddItemInput holds the parameters for adding a room selection to the cart.
type AddItemInput struct {
	HotelID        int64    `json:"hotel_id" validate:"required,gt=0"`
	HotelName      string   `json:"hotel_name" validate:"required,min=1,max=500"`
	RoomID         int64    `json:"room_id" validate:"required,gt=0"`
	RoomType       string   `json:"room_type" validate:"required"`
	Price          int64    `json:"price" validate:"gte=0"`
	Capacity       int      `json:"capacity" validate:"gte=0"`
	RoomImage      string   `json:"room_image"`
	HotelAmenities []string `json:"hotel_amenities"`
	CheckInDate    string   `json:"check_in_date"`
	CheckOutDate   string   `json:"check_out_date"`
}

// CartService implements the business logic for cart operations.
//
// Persistence is best-effort: a cart read that fails for any reason degrades
// to the empty cart, and a save that fails is logged and swallowed. Guests
// keep shopping; they never see a storage error.
type CartService struct {
	store    repository.CartStore
	producer *event.Producer
	logger   *slog.Logger
	locks    guestLocks
}

// NewCartService creates a new cart service.
func NewCartService(store repository.CartStore, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		store:    store,
		producer: producer,
		logger:   logger,
	}
}

// GetCart retrieves the cart for a guest. An absent or unreadable snapshot
// yields the empty cart, never an error.
func (s *CartService) GetCart(ctx context.Context, guestID string) (*domain.Cart, error) {
	if guestID == "" {
		return nil, apperrors.InvalidInput("guest id is required")
	}
	return s.loadCart(ctx, guestID), nil
}

// AddItem adds a room selection to the guest's cart. Adding a hotel/room pair
// that is already present is a silent no-op: the stored item wins and the
// cart is returned unchanged.
func (s *CartService) AddItem(ctx context.Context, guestID string, input AddItemInput) (*domain.Cart, error) {
	if guestID == "" {
		return nil, apperrors.InvalidInput("guest id is required")
	}
	if input.HotelID <= 0 {
		return nil, apperrors.InvalidInput("hotel id is required")
	}
	if input.RoomID <= 0 {
		return nil, apperrors.InvalidInput("room id is required")
	}
	if input.HotelName == "" {
		return nil, apperrors.InvalidInput("hotel name is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if (input.CheckInDate == "") != (input.CheckOutDate == "") {
		return nil, apperrors.InvalidInput("check-in and check-out dates must be provided together")
	}
	if input.CheckInDate != "" {
		if err := domain.ValidateStayDates(input.CheckInDate, input.CheckOutDate); err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
	}

	mu := s.locks.forGuest(guestID)
	mu.Lock()
	defer mu.Unlock()

	cart := s.loadCart(ctx, guestID)

	if cart.Contains(input.HotelID, input.RoomID) {
		s.logger.DebugContext(ctx, "room already in cart, ignoring add",
			slog.String("guest_id", guestID),
			slog.String("item_id", domain.ItemID(input.HotelID, input.RoomID)),
		)
		return cart, nil
	}

	if len(cart.Items) >= MaxItemsPerCart {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
	}

	item := domain.LineItem{
		ID:             domain.ItemID(input.HotelID, input.RoomID),
		HotelID:        input.HotelID,
		HotelName:      input.HotelName,
		Room: domain.Room{
			ID:       input.RoomID,
			Type:     input.RoomType,
			Price:    input.Price,
			Capacity: input.Capacity,
		},
		RoomImage:      input.RoomImage,
		HotelAmenities: input.HotelAmenities,
		CheckInDate:    input.CheckInDate,
		CheckOutDate:   input.CheckOutDate,
	}
	item.NumberOfNights = item.Nights()

	cart.Items = append(cart.Items, item)
	cart.Recalculate()
	cart.UpdatedAt = time.Now().UTC()

	s.persist(ctx, cart)
	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("guest_id", guestID),
		slog.String("item_id", item.ID),
		slog.Int64("price", item.Room.Price),
	)

	return cart, nil
}

// RemoveItem removes the item with the given id from the cart. Removing an
// absent item leaves the cart unchanged.
func (s *CartService) RemoveItem(ctx context.Context, guestID, itemID string) (*domain.Cart, error) {
	if guestID == "" {
		return nil, apperrors.InvalidInput("guest id is required")
	}
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}

	mu := s.locks.forGuest(guestID)
	mu.Lock()
	defer mu.Unlock()

	cart := s.loadCart(ctx, guestID)

	idx := cart.FindItemIndex(itemID)
	if idx < 0 {
		return cart, nil
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	cart.Recalculate()
	cart.UpdatedAt = time.Now().UTC()

	s.persist(ctx, cart)
	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("guest_id", guestID),
		slog.String("item_id", itemID),
	)

	return cart, nil
}

// UpdateStayDates sets the check-in and check-out dates on an existing item
// and refreshes its night count. Updating an absent item leaves the cart
// unchanged, like RemoveItem.
func (s *CartService) UpdateStayDates(ctx context.Context, guestID, itemID, checkIn, checkOut string) (*domain.Cart, error) {
	if guestID == "" {
		return nil, apperrors.InvalidInput("guest id is required")
	}
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}
	if err := domain.ValidateStayDates(checkIn, checkOut); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	mu := s.locks.forGuest(guestID)
	mu.Lock()
	defer mu.Unlock()

	cart := s.loadCart(ctx, guestID)

	idx := cart.FindItemIndex(itemID)
	if idx < 0 {
		s.logger.DebugContext(ctx, "item not in cart, ignoring date update",
			slog.String("guest_id", guestID),
			slog.String("item_id", itemID),
		)
		return cart, nil
	}

	cart.Items[idx].CheckInDate = checkIn
	cart.Items[idx].CheckOutDate = checkOut
	cart.Items[idx].NumberOfNights = cart.Items[idx].Nights()
	cart.Recalculate()
	cart.UpdatedAt = time.Now().UTC()

	s.persist(ctx, cart)
	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart item dates updated",
		slog.String("guest_id", guestID),
		slog.String("item_id", itemID),
		slog.String("check_in", checkIn),
		slog.String("check_out", checkOut),
	)

	return cart, nil
}

// IsInCart reports whether the guest's cart holds the hotel/room pair.
func (s *CartService) IsInCart(ctx context.Context, guestID string, hotelID, roomID int64) (bool, error) {
	if guestID == "" {
		return false, apperrors.InvalidInput("guest id is required")
	}
	cart := s.loadCart(ctx, guestID)
	return cart.Contains(hotelID, roomID), nil
}

// ClearCart removes all items from the guest's cart.
func (s *CartService) ClearCart(ctx context.Context, guestID string) error {
	if guestID == "" {
		return apperrors.InvalidInput("guest id is required")
	}

	mu := s.locks.forGuest(guestID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.store.Delete(ctx, guestID); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete cart, guest will see it empty until the snapshot expires",
			slog.String("guest_id", guestID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishCartCleared(ctx, guestID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("guest_id", guestID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("guest_id", guestID),
	)

	return nil
}

// loadCart reads the guest's cart, degrading to the empty cart when the
// snapshot is absent or unreadable.
func (s *CartService) loadCart(ctx context.Context, guestID string) *domain.Cart {
	cart, err := s.store.Get(ctx, guestID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "cart snapshot unreadable, starting from empty cart",
				slog.String("guest_id", guestID),
				slog.String("error", err.Error()),
			)
		}
		return domain.NewEmptyCart(guestID)
	}
	// Recompute aggregates so a stale snapshot cannot misreport totals.
	cart.Recalculate()
	return cart
}

// persist saves the cart, logging and swallowing failures.
func (s *CartService) persist(ctx context.Context, cart *domain.Cart) {
	if err := s.store.Save(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart, continuing with in-memory state",
			slog.String("guest_id", cart.GuestID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) publishUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("guest_id", cart.GuestID),
			slog.String("error", err.Error()),
		)
	}
}
