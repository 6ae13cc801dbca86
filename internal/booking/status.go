// Package booking holds the client-side booking rules: status transitions,
// cancellation eligibility, guest validation and stay arithmetic.
package booking

import (
	"errors"
	"fmt"

	"hotelbook/internal/models"
)

// ErrInvalidTransition is returned for a status change the lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid booking status transition")

var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingBooked:     {models.BookingCheckedIn, models.BookingCancelled, models.BookingCheckedOut},
	models.BookingCheckedIn:  {models.BookingCheckedOut},
	models.BookingCheckedOut: {},
	models.BookingCancelled:  {},
}

// CanTransition reports whether a booking may move from one status to another.
// Keeping the current status is always allowed.
func CanTransition(from, to models.BookingStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition validates a status change.
func Transition(from, to models.BookingStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// IsTerminal reports whether no further status change is possible.
func IsTerminal(s models.BookingStatus) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// Tone is a presentation hint for a status badge.
type Tone string

const (
	ToneInfo    Tone = "info"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneMuted   Tone = "muted"
)

// BookingTone maps a booking status to its badge tone.
func BookingTone(s models.BookingStatus) Tone {
	switch s {
	case models.BookingBooked:
		return ToneInfo
	case models.BookingCheckedIn:
		return ToneSuccess
	case models.BookingCancelled:
		return ToneDanger
	default:
		return ToneMuted
	}
}

// PaymentTone maps a payment status to its badge tone.
func PaymentTone(s models.PaymentStatus) Tone {
	switch s {
	case models.PaymentPaid:
		return ToneSuccess
	case models.PaymentPending:
		return ToneWarning
	case models.PaymentCancelled, models.PaymentFailed:
		return ToneDanger
	case models.PaymentRefunded:
		return ToneInfo
	default:
		return ToneMuted
	}
}
