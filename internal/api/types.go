package api

import (
	"io"

	"hotelbook/internal/models"
)

// Response is the common envelope returned by most backend endpoints.
type Response struct {
	Status   int              `json:"status"`
	Message  string           `json:"message"`
	Token    string           `json:"token,omitempty"`
	Role     string           `json:"role,omitempty"`
	User     *models.User     `json:"user,omitempty"`
	Room     *models.Room     `json:"room,omitempty"`
	Rooms    []models.Room    `json:"rooms,omitempty"`
	Booking  *models.Booking  `json:"booking,omitempty"`
	Bookings []models.Booking `json:"bookings,omitempty"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the credentials issued by the backend.
type LoginResult struct {
	Token   string
	Role    string
	Message string
}

// RegisterRequest is the body of POST /auth/register. Role is only set by
// administrators registering other accounts.
type RegisterRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Role        string `json:"role,omitempty"`
}

// AvailabilityQuery is encoded into the query string of GET /rooms/available.
type AvailabilityQuery struct {
	CheckInDate  string `url:"checkInDate"`
	CheckOutDate string `url:"checkOutDate"`
	RoomType     string `url:"roomType"`
}

// RoomForm is sent as multipart form data to /rooms/add and /rooms/update.
type RoomForm struct {
	ID            int64
	RoomNumber    string
	Type          string
	PricePerNight float64
	Capacity      int
	Description   string

	// Optional image upload.
	ImageName string
	Image     io.Reader
}

// BookingRequest is the body of POST /bookings.
type BookingRequest struct {
	CheckInDate  models.Date    `json:"checkInDate"`
	CheckOutDate models.Date    `json:"checkOutDate"`
	Room         *models.Room   `json:"room"`
	RoomID       int64          `json:"roomId,omitempty"`
	Guests       []models.Guest `json:"guests"`
}

// BookingUpdate is the body of PUT /bookings/update.
type BookingUpdate struct {
	ID            int64                `json:"id"`
	BookingStatus models.BookingStatus `json:"bookingStatus,omitempty"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus,omitempty"`
}

// PaymentLinkStatus is the result of validating a payment token.
type PaymentLinkStatus struct {
	Status           string  `json:"status"`
	Message          string  `json:"message"`
	Amount           float64 `json:"amount"`
	BookingReference string  `json:"bookingReference"`
}

// OK reports whether the token was accepted.
func (p *PaymentLinkStatus) OK() bool {
	return p != nil && p.Status == "OK"
}

// PaymentRequest is sent to the card and wallet endpoints.
type PaymentRequest struct {
	BookingReference string  `json:"bookingReference"`
	Amount           float64 `json:"amount"`
	TransactionID    string  `json:"transactionId,omitempty"`
	Success          *bool   `json:"success,omitempty"`
	FailureReason    string  `json:"failureReason,omitempty"`
}

// PaymentResult is returned by the wallet capture endpoint.
type PaymentResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
