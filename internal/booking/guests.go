package booking

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"hotelbook/internal/models"
)

// ErrCapacityExceeded marks a guest list larger than the room allows.
var ErrCapacityExceeded = errors.New("guest count exceeds room capacity")

// ValidationError is a form error caught before any network call.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator returns the shared struct validator.
func Validator() *validator.Validate {
	return validate
}

// EffectiveCapacity treats an unknown capacity as one guest.
func EffectiveCapacity(capacity int) int {
	if capacity < 1 {
		return 1
	}
	return capacity
}

// ValidateGuests checks the guest list against the room capacity. The
// capacity check runs before per-guest field checks.
func ValidateGuests(guests []models.Guest, capacity int) error {
	if len(guests) == 0 {
		return &ValidationError{Message: "Please add at least one guest"}
	}
	if len(guests) > EffectiveCapacity(capacity) {
		return &ValidationError{
			Message: fmt.Sprintf("Number of guests cannot exceed room capacity (%d)", capacity),
			Err:     ErrCapacityExceeded,
		}
	}
	for i, g := range guests {
		if err := validateGuest(g); err != "" {
			return &ValidationError{Message: fmt.Sprintf("%s for Guest %d", err, i+1)}
		}
	}
	return nil
}

func validateGuest(g models.Guest) string {
	err := validate.Struct(g)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid guest details"
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return "Please fill all required fields"
		}
	}
	return "Invalid email format"
}

// GuestList is the editable guest list of a pending booking: at least one
// entry and at most the room capacity.
type GuestList struct {
	Guests   []models.Guest
	Capacity int
}

// NewGuestList seeds the list with first, or an empty guest.
func NewGuestList(capacity int, first *models.Guest) *GuestList {
	g := models.Guest{}
	if first != nil {
		g = *first
	}
	return &GuestList{Guests: []models.Guest{g}, Capacity: capacity}
}

// Add appends an empty guest if capacity allows.
func (l *GuestList) Add() bool {
	if len(l.Guests) >= EffectiveCapacity(l.Capacity) {
		return false
	}
	l.Guests = append(l.Guests, models.Guest{})
	return true
}

// Remove drops the guest at i, keeping at least one.
func (l *GuestList) Remove(i int) bool {
	if len(l.Guests) <= 1 || i < 0 || i >= len(l.Guests) {
		return false
	}
	l.Guests = append(l.Guests[:i], l.Guests[i+1:]...)
	return true
}

// Set replaces the guest at i.
func (l *GuestList) Set(i int, g models.Guest) bool {
	if i < 0 || i >= len(l.Guests) {
		return false
	}
	l.Guests[i] = g
	return true
}

// Validate runs ValidateGuests over the list.
func (l *GuestList) Validate() error {
	return ValidateGuests(l.Guests, l.Capacity)
}
