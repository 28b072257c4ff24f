package domain

import (
	"fmt"
	"time"
)

// dateLayout is the wire format for check-in/check-out dates.
const dateLayout = "2006-01-02"

// Room is the descriptor snapshot captured when a room is added to the cart.
// It is treated as immutable once stored; re-adding the same hotel/room pair
// does not refresh it.
type Room struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Price    int64  `json:"price"`
	Capacity int    `json:"capacity"`
}

// LineItem is one selected room booking held in the cart, uniquely identified
// by its hotel/room pair.
type LineItem struct {
	ID             string   `json:"id"`
	HotelID        int64    `json:"hotel_id"`
	HotelName      string   `json:"hotel_name"`
	Room           Room     `json:"room"`
	RoomImage      string   `json:"room_image,omitempty"`
	HotelAmenities []string `json:"hotel_amenities,omitempty"`
	CheckInDate    string   `json:"check_in_date,omitempty"`
	CheckOutDate   string   `json:"check_out_date,omitempty"`
	NumberOfNights int      `json:"number_of_nights,omitempty"`
}

// ItemID derives the cart-assigned identity for a hotel/room pair.
func ItemID(hotelID, roomID int64) string {
	return fmt.Sprintf("%d-%d", hotelID, roomID)
}

// Nights returns the number of nights between the item's dates, or 0 when
// either date is absent or unparsable. Display-only: it never feeds the cart
// aggregates.
func (li *LineItem) Nights() int {
	if li.CheckInDate == "" || li.CheckOutDate == "" {
		return 0
	}
	in, err := time.Parse(dateLayout, li.CheckInDate)
	if err != nil {
		return 0
	}
	out, err := time.Parse(dateLayout, li.CheckOutDate)
	if err != nil {
		return 0
	}
	nights := int(out.Sub(in).Hours() / 24)
	if nights < 0 {
		return 0
	}
	return nights
}

// Cart is the full observable cart state for one storefront guest. TotalItems
// and TotalPrice are derived from Items and must never be set directly; call
// Recalculate after any change to Items.
type Cart struct {
	GuestID    string     `json:"guest_id"`
	Items      []LineItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice int64      `json:"total_price"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewEmptyCart returns the canonical empty cart for a guest. It is also the
// fallback shape when a persisted snapshot is absent or unreadable.
func NewEmptyCart(guestID string) *Cart {
	return &Cart{
		GuestID:    guestID,
		Items:      []LineItem{},
		TotalItems: 0,
		TotalPrice: 0,
		UpdatedAt:  time.Now().UTC(),
	}
}

// Recalculate recomputes the derived aggregates from Items. The total is a
// flat sum of per-item room prices; the tracked date range does not multiply
// in (per-stay pricing, kept for compatibility with the storefront).
func (c *Cart) Recalculate() {
	c.TotalItems = len(c.Items)
	var total int64
	for i := range c.Items {
		total += c.Items[i].Room.Price
	}
	c.TotalPrice = total
}

// FindItemIndex returns the index of the item with the given cart-assigned id,
// or -1 if no such item exists.
func (c *Cart) FindItemIndex(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// Contains reports whether the cart holds an item for the hotel/room pair.
func (c *Cart) Contains(hotelID, roomID int64) bool {
	return c.FindItemIndex(ItemID(hotelID, roomID)) >= 0
}

// Clone returns a deep copy of the cart. Checkout captures its submission
// snapshot from a clone so concurrent cart mutations cannot revise an
// in-flight booking request.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Items = make([]LineItem, len(c.Items))
	copy(cp.Items, c.Items)
	for i := range cp.Items {
		if c.Items[i].HotelAmenities != nil {
			cp.Items[i].HotelAmenities = append([]string(nil), c.Items[i].HotelAmenities...)
		}
	}
	return &cp
}

// ValidateStayDates checks that both dates parse as ISO dates and that
// check-out falls strictly after check-in. Availability itself is the booking
// backend's concern.
func ValidateStayDates(checkIn, checkOut string) error {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return fmt.Errorf("invalid check-in date %q: expected YYYY-MM-DD", checkIn)
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return fmt.Errorf("invalid check-out date %q: expected YYYY-MM-DD", checkOut)
	}
	if !out.After(in) {
		return fmt.Errorf("check-out date %s must be after check-in date %s", checkOut, checkIn)
	}
	return nil
}
