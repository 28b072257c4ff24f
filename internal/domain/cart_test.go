package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(hotelID, roomID, price int64) LineItem {
	return LineItem{
		ID:        ItemID(hotelID, roomID),
		HotelID:   hotelID,
		HotelName: "Hotel",
		Room:      Room{ID: roomID, Type: "double", Price: price, Capacity: 2},
	}
}

func TestItemID(t *testing.T) {
	assert.Equal(t, "12-7", ItemID(12, 7))
	assert.Equal(t, "1-204", ItemID(1, 204))
}

func TestRecalculate(t *testing.T) {
	cart := NewEmptyCart("guest-1")
	cart.Items = []LineItem{item(1, 10, 10000), item(2, 20, 15000)}

	cart.Recalculate()

	assert.Equal(t, 2, cart.TotalItems)
	assert.Equal(t, int64(25000), cart.TotalPrice)
}

func TestRecalculate_Empty(t *testing.T) {
	cart := NewEmptyCart("guest-1")
	cart.Recalculate()

	assert.Equal(t, 0, cart.TotalItems)
	assert.Equal(t, int64(0), cart.TotalPrice)
}

func TestRecalculate_IgnoresNights(t *testing.T) {
	// Per-stay pricing: a long date range must not change the aggregate.
	li := item(1, 10, 10000)
	li.CheckInDate = "2026-09-01"
	li.CheckOutDate = "2026-09-08"

	cart := NewEmptyCart("guest-1")
	cart.Items = []LineItem{li}
	cart.Recalculate()

	assert.Equal(t, int64(10000), cart.TotalPrice)
	assert.Equal(t, 7, cart.Items[0].Nights())
}

func TestFindItemIndex(t *testing.T) {
	cart := NewEmptyCart("guest-1")
	cart.Items = []LineItem{item(1, 10, 10000), item(2, 20, 15000)}

	assert.Equal(t, 0, cart.FindItemIndex("1-10"))
	assert.Equal(t, 1, cart.FindItemIndex("2-20"))
	assert.Equal(t, -1, cart.FindItemIndex("3-30"))
}

func TestContains(t *testing.T) {
	cart := NewEmptyCart("guest-1")
	cart.Items = []LineItem{item(1, 10, 10000)}

	assert.True(t, cart.Contains(1, 10))
	assert.False(t, cart.Contains(1, 11))
	assert.False(t, cart.Contains(2, 10))
}

func TestClone_Independent(t *testing.T) {
	cart := NewEmptyCart("guest-1")
	li := item(1, 10, 10000)
	li.HotelAmenities = []string{"wifi", "pool"}
	cart.Items = []LineItem{li}
	cart.Recalculate()

	cp := cart.Clone()
	cp.Items[0].Room.Price = 99999
	cp.Items[0].HotelAmenities[0] = "spa"
	cp.Items = append(cp.Items, item(2, 20, 15000))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(10000), cart.Items[0].Room.Price)
	assert.Equal(t, "wifi", cart.Items[0].HotelAmenities[0])
}

func TestNights(t *testing.T) {
	li := item(1, 10, 10000)
	assert.Equal(t, 0, li.Nights())

	li.CheckInDate = "2026-09-01"
	li.CheckOutDate = "2026-09-04"
	assert.Equal(t, 3, li.Nights())

	li.CheckOutDate = "not-a-date"
	assert.Equal(t, 0, li.Nights())

	// Reversed range clamps to zero.
	li.CheckInDate = "2026-09-04"
	li.CheckOutDate = "2026-09-01"
	assert.Equal(t, 0, li.Nights())
}

func TestValidateStayDates(t *testing.T) {
	require.NoError(t, ValidateStayDates("2026-09-01", "2026-09-04"))

	assert.Error(t, ValidateStayDates("09/01/2026", "2026-09-04"))
	assert.Error(t, ValidateStayDates("2026-09-01", "tomorrow"))
	assert.Error(t, ValidateStayDates("2026-09-04", "2026-09-01"))
	assert.Error(t, ValidateStayDates("2026-09-01", "2026-09-01"))
}
