package views

import (
	"context"
	"errors"
	"fmt"
	"io"

	"hotelbook/internal/api"
	"hotelbook/internal/booking"
	"hotelbook/internal/models"
	"hotelbook/internal/ui"
)

const bookingSuccessMessage = "Your Booking is Successful.\nAn Email of your booking details and the payment link has been sent to you"

// RoomDetails shows one room and lets the user book it: pick dates, enter
// guests, preview the price and accept.
type RoomDetails struct {
	base
	ID      int64
	Room    *models.Room
	Guests  *booking.GuestList
	Stay    booking.Stay
	Preview *booking.Preview
}

func NewRoomDetails(env *Env, id int64) *RoomDetails {
	return &RoomDetails{base: newBase(env), ID: id}
}

// Mount loads the room, then pre-fills the first guest from the profile.
func (v *RoomDetails) Mount(ctx context.Context) error {
	room, err := v.env.API.RoomByID(ctx, v.ID)
	if err != nil {
		v.fail(api.MessageOf(err, "Unable to fetch room details"))
	} else {
		v.Room = room
		v.Stay.PricePerNight = room.PricePerNight
	}

	var first *models.Guest
	if user, err := v.env.API.MyProfile(ctx, v.env.Session); err == nil {
		g := user.AsGuest()
		first = &g
	} else {
		v.env.Logger.Debug().Err(err).Msg("profile unavailable, starting with an empty guest")
	}
	v.Guests = booking.NewGuestList(v.capacity(), first)
	return nil
}

func (v *RoomDetails) capacity() int {
	if v.Room == nil {
		return 0
	}
	return v.Room.Capacity
}

// Loading reports whether the room has not been fetched yet.
func (v *RoomDetails) Loading() bool { return v.Room == nil }

// SetDates parses the check-in and check-out dates.
func (v *RoomDetails) SetDates(checkIn, checkOut string) {
	loc := v.env.now().Location()
	in, errIn := models.ParseDate(checkIn, loc)
	out, errOut := models.ParseDate(checkOut, loc)
	if errIn != nil || errOut != nil {
		v.fail("Invalid Date selected")
		return
	}
	v.Stay.CheckIn, v.Stay.CheckOut = in, out
	v.Preview = nil
}

func (v *RoomDetails) AddGuest() bool {
	return v.Guests != nil && v.Guests.Add()
}

func (v *RoomDetails) RemoveGuest(i int) bool {
	return v.Guests != nil && v.Guests.Remove(i)
}

func (v *RoomDetails) SetGuest(i int, g models.Guest) bool {
	return v.Guests != nil && v.Guests.Set(i, g)
}

// Confirm validates dates and guests and shows the booking preview.
func (v *RoomDetails) Confirm() error {
	if v.Guests == nil {
		return ErrNotLoaded
	}
	p, err := v.Stay.Preview(v.env.now(), v.Guests)
	if err != nil {
		v.fail(validationText(err))
		return nil
	}
	v.Preview = &p
	return nil
}

// CancelPreview hides the preview and returns to editing.
func (v *RoomDetails) CancelPreview() {
	v.Preview = nil
}

// Accept books the room. Guests are validated again before sending.
func (v *RoomDetails) Accept(ctx context.Context) error {
	if v.Room == nil || v.Guests == nil {
		return nil
	}
	if err := v.Guests.Validate(); err != nil {
		v.fail(validationText(err))
		return nil
	}

	_, err := v.env.API.CreateBooking(ctx, v.env.Session, api.BookingRequest{
		CheckInDate:  v.Stay.CheckIn,
		CheckOutDate: v.Stay.CheckOut,
		Room:         v.Room,
		Guests:       v.Guests.Guests,
	})
	if err != nil {
		v.fail(api.MessageOf(err, "Unable to make a booking"))
		return nil
	}
	v.Preview = nil
	v.succeed(bookingSuccessMessage, v.env.Timing.LongSuccess)
	v.after("/rooms", v.env.Timing.LongSuccess)
	return nil
}

func (v *RoomDetails) Render(w io.Writer) {
	v.header(w, "Room Details")
	if v.Room == nil {
		fmt.Fprintln(w, "Loading room details...")
		return
	}
	r := v.Room
	fmt.Fprintf(w, "Room %s (%s)\n%s per night, up to %d guests\n", r.RoomNumber, r.Type, ui.Money(r.PricePerNight), r.Capacity)
	if r.Description != "" {
		fmt.Fprintln(w, r.Description)
	}
	if v.Guests != nil {
		for i, g := range v.Guests.Guests {
			fmt.Fprintf(w, "Guest %d: %s <%s>\n", i+1, g.FullName(), g.Email)
		}
	}
	if p := v.Preview; p != nil {
		fmt.Fprintf(w, "Check-in:  %s\nCheck-out: %s\nNights:    %d\nTotal:     %s\n",
			v.Stay.CheckIn, v.Stay.CheckOut, p.Nights, ui.Money(p.Total))
	}
}

func validationText(err error) string {
	var verr *booking.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}
