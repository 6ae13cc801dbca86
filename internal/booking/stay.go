package booking

import (
	"time"

	"hotelbook/internal/models"
)

// Stay is the date range and price of a booking being prepared.
type Stay struct {
	CheckIn       models.Date
	CheckOut      models.Date
	PricePerNight float64
}

// Nights is the number of whole days between check-in and check-out.
func (s Stay) Nights() int {
	if s.CheckIn.IsZero() || s.CheckOut.IsZero() {
		return 0
	}
	return models.DaysBetween(s.CheckIn.Time, s.CheckOut.Time)
}

// Total is PricePerNight times Nights, or zero for an incomplete range.
func (s Stay) Total() float64 {
	n := s.Nights()
	if n <= 0 {
		return 0
	}
	return s.PricePerNight * float64(n)
}

// Validate checks the date range against now.
func (s Stay) Validate(now time.Time) error {
	if s.CheckIn.IsZero() || s.CheckOut.IsZero() {
		return &ValidationError{Message: "Please select both check-in and check-out dates"}
	}
	today := models.StartOfDay(now.In(s.CheckIn.Location()))
	if models.DaysBetween(today, s.CheckIn.Time) < 0 {
		return &ValidationError{Message: "Check in date cannot be before today"}
	}
	if s.Nights() <= 0 {
		return &ValidationError{Message: "Check out date must be after check in date"}
	}
	return nil
}

// Preview is the summary shown before a booking is accepted.
type Preview struct {
	Nights int
	Total  float64
}

// Preview validates the stay and guests and returns the summary.
func (s Stay) Preview(now time.Time, guests *GuestList) (Preview, error) {
	if err := s.Validate(now); err != nil {
		return Preview{}, err
	}
	if err := guests.Validate(); err != nil {
		return Preview{}, err
	}
	return Preview{Nights: s.Nights(), Total: s.Total()}, nil
}
