package booking

import (
	"hotelbook/internal/models"
)

// UpdateForm is the admin status edit of one booking.
type UpdateForm struct {
	ID            int64
	Current       models.BookingStatus
	BookingStatus models.BookingStatus
	PaymentStatus models.PaymentStatus
}

// Validate requires at least one field and rejects impossible status changes.
func (f UpdateForm) Validate() error {
	if f.BookingStatus == "" && f.PaymentStatus == "" {
		return &ValidationError{Message: "Please update at least one field."}
	}
	if f.BookingStatus != "" && f.Current != "" && f.Current != models.BookingUnknown {
		if err := Transition(f.Current, f.BookingStatus); err != nil {
			return &ValidationError{
				Message: "Cannot change booking status from " + string(f.Current) + " to " + string(f.BookingStatus),
				Err:     err,
			}
		}
	}
	return nil
}
