package booking

import (
	"time"

	"hotelbook/internal/models"
)

// Cancellation refusal reasons, in evaluation order.
const (
	ReasonAlreadyCancelled = "Booking already cancelled"
	ReasonCheckedIn        = "Cannot cancel a booking that has already been checked in"
	ReasonCompleted        = "Cannot cancel a booking that has already been completed"
	ReasonDatePassed       = "Cannot cancel booking after check-in date has passed"
	ReasonTooLate          = "Cancellation must be made at least 24 hours before check-in date"
	ReasonNoCheckInDate    = "Booking has no check-in date"
)

// PolicyError is a domain rule violation. It is shown to the user and never
// sent to the backend.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string {
	return e.Reason
}

// CanCancel reports whether b may be cancelled at now and, if not, why.
// Dates are compared as calendar days in the location of the check-in date.
func CanCancel(b *models.Booking, now time.Time) (bool, string) {
	if b == nil {
		return false, ReasonNoCheckInDate
	}
	switch b.BookingStatus {
	case models.BookingCancelled:
		return false, ReasonAlreadyCancelled
	case models.BookingCheckedIn:
		return false, ReasonCheckedIn
	case models.BookingCheckedOut:
		return false, ReasonCompleted
	}
	if b.CheckInDate.IsZero() {
		return false, ReasonNoCheckInDate
	}

	checkIn := b.CheckInDate.Time
	today := models.StartOfDay(now.In(checkIn.Location()))
	days := models.DaysBetween(today, checkIn)
	switch {
	case days < 0:
		return false, ReasonDatePassed
	case days < 1:
		return false, ReasonTooLate
	}
	return true, ""
}

// CheckCancel is CanCancel as an error.
func CheckCancel(b *models.Booking, now time.Time) error {
	if ok, reason := CanCancel(b, now); !ok {
		return &PolicyError{Reason: reason}
	}
	return nil
}
