package models

import (
	"strings"

	"github.com/goccy/go-json"
)

// BookingStatus is the lifecycle state of a booking as reported by the backend.
type BookingStatus string

const (
	BookingBooked     BookingStatus = "BOOKED"
	BookingCheckedIn  BookingStatus = "CHECKED_IN"
	BookingCheckedOut BookingStatus = "CHECKED_OUT"
	BookingCancelled  BookingStatus = "CANCELLED"
	BookingUnknown    BookingStatus = "UNKNOWN"
)

// BookingStatuses lists the statuses an administrator may assign.
var BookingStatuses = []BookingStatus{BookingBooked, BookingCheckedIn, BookingCheckedOut, BookingCancelled}

// ParseBookingStatus normalizes a wire value. Unrecognized values map to BookingUnknown.
func ParseBookingStatus(s string) BookingStatus {
	switch st := BookingStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case BookingBooked, BookingCheckedIn, BookingCheckedOut, BookingCancelled:
		return st
	}
	return BookingUnknown
}

func (s *BookingStatus) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || *raw == "" {
		*s = ""
		return nil
	}
	*s = ParseBookingStatus(*raw)
	return nil
}

// PaymentStatus is the payment state attached to a booking.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentCancelled PaymentStatus = "CANCELLED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
	PaymentUnknown   PaymentStatus = "UNKNOWN"
)

// PaymentStatuses lists the payment statuses an administrator may assign.
var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed, PaymentCancelled, PaymentRefunded}

// ParsePaymentStatus normalizes a wire value. Unrecognized values map to PaymentUnknown.
func ParsePaymentStatus(s string) PaymentStatus {
	switch st := PaymentStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentCancelled, PaymentRefunded:
		return st
	}
	return PaymentUnknown
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || *raw == "" {
		*s = ""
		return nil
	}
	*s = ParsePaymentStatus(*raw)
	return nil
}

// Guest is one occupant registered under a booking.
type Guest struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	PhoneNumber    string `json:"phoneNumber" validate:"required"`
	IdentityNumber string `json:"identityNumber" validate:"required"`
}

// FullName returns "First Last".
func (g Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

// Booking is the client copy of a server-owned booking.
type Booking struct {
	ID               int64         `json:"id"`
	BookingReference string        `json:"bookingReference"`
	CheckInDate      Date          `json:"checkInDate"`
	CheckOutDate     Date          `json:"checkOutDate"`
	CreatedAt        string        `json:"createdAt,omitempty"`
	BookingStatus    BookingStatus `json:"bookingStatus"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	PricePerNight    float64       `json:"pricePerNightAtBooking,omitempty"`
	TotalPrice       float64       `json:"totalPrice,omitempty"`
	Room             *Room         `json:"room,omitempty"`
	User             *User         `json:"user,omitempty"`
	Guests           []Guest       `json:"guests,omitempty"`
}

// Nights returns the number of nights between check-in and check-out.
func (b *Booking) Nights() int {
	return DaysBetween(b.CheckInDate.Time, b.CheckOutDate.Time)
}
