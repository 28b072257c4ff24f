package domain

import "time"

// Booking receipt status constants, as reported by the booking backend.
const (
	ReceiptStatusConfirmed = "confirmed"
	ReceiptStatusPending   = "pending"
)

// BookingReceipt is the confirmation returned by the booking backend on a
// successful submission. It is immutable once received; the checkout flow
// hands it downstream (archive, confirmation view) and otherwise does not
// hold on to it.
type BookingReceipt struct {
	ConfirmationNumber string    `json:"confirmation_number"`
	CustomerName       string    `json:"customer_name"`
	HotelName          string    `json:"hotel_name"`
	RoomType           string    `json:"room_type"`
	RoomNumber         string    `json:"room_number,omitempty"`
	TotalCost          int64     `json:"total_cost"`
	PaymentMethod      string    `json:"payment_method"`
	Status             string    `json:"status"`
	BookedAt           time.Time `json:"booked_at"`
}
