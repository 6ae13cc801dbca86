package views

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"hotelbook/internal/api"
	"hotelbook/internal/booking"
	"hotelbook/internal/metrics"
	"hotelbook/internal/models"
	"hotelbook/internal/ui"
)

const (
	cancelQuestion        = "Are you sure you want to cancel this booking?"
	cancelSuccessMessage  = "Your booking has been successfully cancelled.\nAn Email of Booking Cancellation Confirmation has been sent to you."
	deleteAccountQuestion = "Are you sure you want to delete your account? If you delete your account, you will lose access to your profile and booking history."
)

// FindBooking looks a booking up by its confirmation code and can cancel it.
type FindBooking struct {
	base
	Code    string
	Booking *models.Booking
}

func NewFindBooking(env *Env) *FindBooking {
	return &FindBooking{base: newBase(env)}
}

func (v *FindBooking) Mount(context.Context) error { return nil }

// Search fetches the booking for code.
func (v *FindBooking) Search(ctx context.Context, code string) error {
	v.Code = strings.TrimSpace(code)
	if v.Code == "" {
		v.fail("Please enter the booking confirmation Code")
		return nil
	}
	b, err := v.env.API.BookingByReference(ctx, v.env.Session, v.Code)
	if err != nil {
		v.Booking = nil
		v.fail(api.MessageOf(err, "Error fetching booking details"))
		return nil
	}
	v.Booking = b
	return nil
}

// CanCancel evaluates the local cancellation policy for the loaded booking.
func (v *FindBooking) CanCancel() (bool, string) {
	return booking.CanCancel(v.Booking, v.env.now())
}

// Cancel checks the policy locally, asks for confirmation, then cancels.
func (v *FindBooking) Cancel(ctx context.Context) error {
	if v.Booking == nil {
		return ErrNotLoaded
	}
	if err := booking.CheckCancel(v.Booking, v.env.now()); err != nil {
		v.fail(err.Error())
		return nil
	}
	if !v.env.confirm(cancelQuestion) {
		return nil
	}

	if _, err := v.env.API.CancelBooking(ctx, v.env.Session, v.Booking.BookingReference); err != nil {
		v.fail(api.MessageOf(err, "Error Cancel Booking"))
		return nil
	}
	metrics.IncBookingCancelled()
	v.Booking.BookingStatus = models.BookingCancelled
	v.succeed(cancelSuccessMessage, v.env.Timing.LongSuccess)
	v.after("/profile", v.env.Timing.LongSuccess)
	return nil
}

func (v *FindBooking) Render(w io.Writer) {
	v.header(w, "Find Booking")
	if v.Booking == nil {
		return
	}
	renderBooking(w, v.Booking)
	if ok, reason := v.CanCancel(); !ok {
		fmt.Fprintf(w, "Cannot cancel: %s\n", reason)
	}
}

// Profile shows the account and its bookings. Bookings are fetched only
// after the profile loaded.
type Profile struct {
	base
	User     *models.User
	Bookings []models.Booking
}

func NewProfile(env *Env) *Profile {
	return &Profile{base: newBase(env)}
}

func (v *Profile) Mount(ctx context.Context) error {
	user, err := v.env.API.MyProfile(ctx, v.env.Session)
	if err != nil {
		v.fail(api.MessageOf(err, "Error getting my profile info"))
		return nil
	}
	v.User = user

	bookings, err := v.env.API.MyBookings(ctx, v.env.Session)
	if err != nil {
		v.fail(api.MessageOf(err, "Error getting my bookings"))
		return nil
	}
	v.Bookings = bookings
	return nil
}

// CancelHint explains why a booking cannot be cancelled, or returns "".
func (v *Profile) CancelHint(b *models.Booking) string {
	_, reason := booking.CanCancel(b, v.env.now())
	return reason
}

// Logout clears the session without asking.
func (v *Profile) Logout(ctx context.Context) error {
	if err := v.env.Sessions.Clear(ctx, v.env.Session); err != nil {
		return err
	}
	v.env.Nav.Navigate("/home")
	return nil
}

func (v *Profile) EditProfile() {
	v.env.Nav.Navigate("/edit-profile")
}

func (v *Profile) Render(w io.Writer) {
	v.header(w, "Profile")
	if v.User == nil {
		return
	}
	renderUser(w, v.User)
	if len(v.Bookings) == 0 {
		fmt.Fprintln(w, "No bookings yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REFERENCE\tCHECK-IN\tCHECK-OUT\tSTATUS\tPAYMENT\tTOTAL\tNOTE")
	for i := range v.Bookings {
		b := &v.Bookings[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", b.BookingReference, b.CheckInDate, b.CheckOutDate,
			b.BookingStatus, b.PaymentStatus, ui.Money(b.TotalPrice), v.CancelHint(b))
	}
	tw.Flush()
}

// EditProfile shows the account with logout and delete actions.
type EditProfile struct {
	base
	User *models.User
}

func NewEditProfile(env *Env) *EditProfile {
	return &EditProfile{base: newBase(env)}
}

func (v *EditProfile) Mount(ctx context.Context) error {
	user, err := v.env.API.MyProfile(ctx, v.env.Session)
	if err != nil {
		v.fail(api.MessageOf(err, "Error fetching user profile"))
		return nil
	}
	v.User = user
	return nil
}

// Delete removes the account after confirmation and signs out.
func (v *EditProfile) Delete(ctx context.Context) error {
	if !v.env.confirm(deleteAccountQuestion) {
		return nil
	}
	if _, err := v.env.API.DeleteAccount(ctx, v.env.Session); err != nil {
		v.fail(api.MessageOf(err, "Error Deleting account"))
		return nil
	}
	if err := v.env.Sessions.Clear(ctx, v.env.Session); err != nil {
		return err
	}
	v.env.Nav.Navigate("/login")
	return nil
}

// Logout asks for confirmation before signing out.
func (v *EditProfile) Logout(ctx context.Context) error {
	_, err := v.env.Logout(ctx)
	return err
}

func (v *EditProfile) Render(w io.Writer) {
	v.header(w, "Edit Profile")
	if v.User != nil {
		renderUser(w, v.User)
	}
}

func renderUser(w io.Writer, u *models.User) {
	fmt.Fprintf(w, "Name:  %s %s\nEmail: %s\nPhone: %s\n", u.FirstName, u.LastName, u.Email, u.PhoneNumber)
}

func renderBooking(w io.Writer, b *models.Booking) {
	fmt.Fprintf(w, "Reference: %s\n", b.BookingReference)
	fmt.Fprintf(w, "Dates:     %s to %s (%d nights)\n", b.CheckInDate, b.CheckOutDate, b.Nights())
	fmt.Fprintf(w, "Status:    %s [%s]\n", b.BookingStatus, booking.BookingTone(b.BookingStatus))
	fmt.Fprintf(w, "Payment:   %s [%s]\n", b.PaymentStatus, booking.PaymentTone(b.PaymentStatus))
	if b.TotalPrice > 0 {
		fmt.Fprintf(w, "Total:     %s\n", ui.Money(b.TotalPrice))
	}
	if b.Room != nil {
		fmt.Fprintf(w, "Room:      %s (%s)\n", b.Room.RoomNumber, b.Room.Type)
	}
	for i, g := range b.Guests {
		fmt.Fprintf(w, "Guest %d:   %s <%s>\n", i+1, g.FullName(), g.Email)
	}
}
