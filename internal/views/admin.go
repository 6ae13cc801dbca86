package views

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"hotelbook/internal/api"
	"hotelbook/internal/booking"
	"hotelbook/internal/export"
	"hotelbook/internal/guard"
	"hotelbook/internal/listing"
	"hotelbook/internal/models"
	"hotelbook/internal/ui"
)

// AdminHome greets the administrator and links to the admin screens.
type AdminHome struct {
	base
	AdminName string
}

func NewAdminHome(env *Env) *AdminHome {
	return &AdminHome{base: newBase(env)}
}

func (v *AdminHome) Mount(ctx context.Context) error {
	user, err := v.env.API.MyProfile(ctx, v.env.Session)
	if err != nil {
		v.env.Logger.Error().Err(err).Msg("error fetching admin name")
		v.fail(err.Error())
		return nil
	}
	v.AdminName = user.FirstName
	return nil
}

func (v *AdminHome) ManageRooms()    { v.env.Nav.Navigate("/" + guard.ManageRooms) }
func (v *AdminHome) ManageBookings() { v.env.Nav.Navigate("/" + guard.ManageBookings) }
func (v *AdminHome) RegisterUser()   { v.env.Nav.Navigate("/" + guard.AdminRegister) }

func (v *AdminHome) Render(w io.Writer) {
	v.header(w, "Admin Dashboard")
	fmt.Fprintf(w, "Welcome, %s\n", v.AdminName)
}

// ManageRooms lists rooms for administration with a type filter.
type ManageRooms struct {
	base
	Types        []string
	SelectedType string
	pager        *listing.Pager[models.Room]
}

func NewManageRooms(env *Env) *ManageRooms {
	return &ManageRooms{base: newBase(env), pager: listing.NewPager[models.Room](env.Pages.AdminRooms)}
}

func (v *ManageRooms) Mount(ctx context.Context) error {
	rooms, err := v.env.API.AllRooms(ctx)
	if err != nil {
		v.fail("Error fetching rooms: " + err.Error())
	} else {
		v.pager.SetItems(rooms)
	}

	types, err := v.env.API.RoomTypes(ctx)
	if err != nil {
		v.fail("Error fetching room types: " + err.Error())
		return nil
	}
	v.Types = types
	return nil
}

func (v *ManageRooms) FilterType(t string) {
	v.SelectedType = t
	v.pager.SetFilter(listing.ByRoomType(t))
}

func (v *ManageRooms) Page(n int) bool                    { return v.pager.GoTo(n) }
func (v *ManageRooms) Items() []models.Room               { return v.pager.Items() }
func (v *ManageRooms) Pager() *listing.Pager[models.Room] { return v.pager }

func (v *ManageRooms) AddRoom() { v.env.Nav.Navigate("/" + guard.AddRoom) }

func (v *ManageRooms) Edit(id int64) {
	v.env.Nav.Navigate(guard.Build(guard.EditRoom, nil, strconv.FormatInt(id, 10)))
}

func (v *ManageRooms) Render(w io.Writer) {
	v.header(w, "Manage Rooms")
	if v.SelectedType != "" {
		fmt.Fprintf(w, "Type: %s\n", v.SelectedType)
	}
	renderRooms(w, v.pager.Items())
	renderPager(w, v.pager.Current(), v.pager.Pages())
}

// RoomFields is the room form as typed by the administrator.
type RoomFields struct {
	RoomNumber    string
	Type          string
	PricePerNight string
	Capacity      string
	Description   string
	ImagePath     string
}

type roomInput struct {
	RoomNumber    string  `validate:"required"`
	Type          string  `validate:"required"`
	PricePerNight float64 `validate:"gt=0"`
	Capacity      int     `validate:"gte=1"`
	Description   string  `validate:"required"`
}

// parse converts and validates the fields. Room number is only required when
// adding a room.
func (f RoomFields) parse(requireNumber bool) (api.RoomForm, string) {
	number := f.RoomNumber
	if !requireNumber && number == "" {
		number = "-"
	}
	if blank(number, f.Type, f.PricePerNight, f.Capacity, f.Description) {
		return api.RoomForm{}, "All room details must be provided."
	}
	price, errP := strconv.ParseFloat(strings.TrimSpace(f.PricePerNight), 64)
	capacity, errC := strconv.Atoi(strings.TrimSpace(f.Capacity))
	if errP != nil || errC != nil {
		return api.RoomForm{}, "Price and capacity must be numbers."
	}
	in := roomInput{RoomNumber: number, Type: f.Type, PricePerNight: price, Capacity: capacity, Description: f.Description}
	if err := booking.Validator().Struct(in); err != nil {
		return api.RoomForm{}, "Price and capacity must be greater than zero."
	}
	return api.RoomForm{
		RoomNumber:    f.RoomNumber,
		Type:          f.Type,
		PricePerNight: price,
		Capacity:      capacity,
		Description:   f.Description,
	}, ""
}

func fieldsOf(r *models.Room) RoomFields {
	return RoomFields{
		RoomNumber:    r.RoomNumber,
		Type:          r.Type,
		PricePerNight: strconv.FormatFloat(r.PricePerNight, 'f', -1, 64),
		Capacity:      strconv.Itoa(r.Capacity),
		Description:   r.Description,
	}
}

// attachImage opens the image file, if any. The caller closes it.
func attachImage(form *api.RoomForm, path string) (io.Closer, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	form.ImageName = filepath.Base(path)
	form.Image = f
	return f, nil
}

// AddRoom creates a new room.
type AddRoom struct {
	base
	Form  RoomFields
	Types []string
}

func NewAddRoom(env *Env) *AddRoom {
	return &AddRoom{base: newBase(env)}
}

func (v *AddRoom) Mount(ctx context.Context) error {
	types, err := v.env.API.RoomTypes(ctx)
	if err != nil {
		v.fail(api.MessageOf(err, "Error fetching room types"))
		return nil
	}
	v.Types = types
	return nil
}

func (v *AddRoom) Submit(ctx context.Context) error {
	form, msg := v.Form.parse(true)
	if msg != "" {
		v.fail(msg)
		return nil
	}
	closer, err := attachImage(&form, v.Form.ImagePath)
	if err != nil {
		v.fail("Unable to read image: " + err.Error())
		return nil
	}
	if closer != nil {
		defer closer.Close()
	}

	if _, err := v.env.API.AddRoom(ctx, v.env.Session, form); err != nil {
		v.fail(api.MessageOf(err, "Error adding room"))
		return nil
	}
	v.succeed("Room Added successfully.", v.env.Timing.ShortSuccess)
	v.after("/"+guard.ManageRooms, v.env.Timing.RedirectDelay)
	return nil
}

func (v *AddRoom) Render(w io.Writer) {
	v.header(w, "Add Room")
	if len(v.Types) > 0 {
		fmt.Fprintf(w, "Room types: %v\n", v.Types)
	}
}

// EditRoom updates or deletes an existing room.
type EditRoom struct {
	base
	ID    int64
	Room  *models.Room
	Form  RoomFields
	Types []string
}

func NewEditRoom(env *Env, id int64) *EditRoom {
	return &EditRoom{base: newBase(env), ID: id}
}

func (v *EditRoom) Mount(ctx context.Context) error {
	room, err := v.env.API.RoomByID(ctx, v.ID)
	if err != nil {
		v.fail(api.MessageOf(err, "Error fetching room details"))
	} else {
		v.Room = room
		v.Form = fieldsOf(room)
	}

	types, err := v.env.API.RoomTypes(ctx)
	if err != nil {
		v.fail(api.MessageOf(err, "Error fetching room types"))
		return nil
	}
	v.Types = types
	return nil
}

func (v *EditRoom) Update(ctx context.Context) error {
	form, msg := v.Form.parse(false)
	if msg != "" {
		v.fail(msg)
		return nil
	}
	form.ID = v.ID
	form.RoomNumber = ""
	closer, err := attachImage(&form, v.Form.ImagePath)
	if err != nil {
		v.fail("Unable to read image: " + err.Error())
		return nil
	}
	if closer != nil {
		defer closer.Close()
	}

	if _, err := v.env.API.UpdateRoom(ctx, v.env.Session, form); err != nil {
		v.fail(api.MessageOf(err, "Error updating room"))
		return nil
	}
	v.succeed("Room updated successfully.", v.env.Timing.ShortSuccess)
	v.after("/"+guard.ManageRooms, v.env.Timing.RedirectDelay)
	return nil
}

func (v *EditRoom) Delete(ctx context.Context) error {
	if !v.env.confirm("Do you want to delete this room?") {
		return nil
	}
	if _, err := v.env.API.DeleteRoom(ctx, v.env.Session, v.ID); err != nil {
		v.fail(api.MessageOf(err, "Error deleting room"))
		return nil
	}
	v.succeed("Room deleted successfully.", v.env.Timing.ShortSuccess)
	v.after("/"+guard.ManageRooms, v.env.Timing.RedirectDelay)
	return nil
}

func (v *EditRoom) Render(w io.Writer) {
	v.header(w, "Edit Room")
	if v.Room == nil {
		return
	}
	f := v.Form
	fmt.Fprintf(w, "Room %s\nType:        %s\nPrice:       %s\nCapacity:    %s\nDescription: %s\n",
		v.Room.RoomNumber, f.Type, f.PricePerNight, f.Capacity, f.Description)
}

// ManageBookings lists every booking with reference search, pagination and
// spreadsheet export.
type ManageBookings struct {
	base
	Term  string
	pager *listing.Pager[models.Booking]
}

func NewManageBookings(env *Env) *ManageBookings {
	return &ManageBookings{base: newBase(env), pager: listing.NewPager[models.Booking](env.Pages.Bookings)}
}

func (v *ManageBookings) Mount(ctx context.Context) error {
	bookings, err := v.env.API.AllBookings(ctx, v.env.Session)
	if err != nil {
		v.fail(api.MessageOf(err, "Error fetching bookings: "+err.Error()))
		return nil
	}
	v.pager.SetItems(bookings)
	return nil
}

// Search filters by booking reference; a blank term shows everything.
func (v *ManageBookings) Search(term string) {
	v.Term = term
	v.pager.SetFilter(listing.ByReference(term))
}

func (v *ManageBookings) Page(n int) bool                       { return v.pager.GoTo(n) }
func (v *ManageBookings) Items() []models.Booking               { return v.pager.Items() }
func (v *ManageBookings) Pager() *listing.Pager[models.Booking] { return v.pager }

// Manage opens the status editor for a booking.
func (v *ManageBookings) Manage(reference string) {
	v.env.Nav.Navigate(guard.Build(guard.EditBooking, nil, reference))
}

// Export writes the loaded bookings as a spreadsheet to w.
func (v *ManageBookings) Export(w io.Writer) error {
	return export.Bookings(w, v.pager.All())
}

// ExportFile writes the spreadsheet into dir and returns its path.
func (v *ManageBookings) ExportFile(dir string) (string, error) {
	path := filepath.Join(dir, export.FileName(v.env.now()))
	f, err := os.Create(path)
	if err != nil {
		v.fail("Export failed: " + err.Error())
		return "", err
	}
	defer f.Close()

	if err := v.Export(f); err != nil {
		v.fail("Export failed: " + err.Error())
		return "", err
	}
	v.succeed(fmt.Sprintf("Exported %d bookings to %s", len(v.pager.All()), path), v.env.Timing.ShortSuccess)
	return path, nil
}

func (v *ManageBookings) Render(w io.Writer) {
	v.header(w, "Manage Bookings")
	items := v.pager.Items()
	if len(items) == 0 {
		fmt.Fprintln(w, "No bookings found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REFERENCE\tCHECK-IN\tCHECK-OUT\tSTATUS\tPAYMENT\tTOTAL")
	for _, b := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", b.BookingReference, b.CheckInDate, b.CheckOutDate,
			b.BookingStatus, b.PaymentStatus, ui.Money(b.TotalPrice))
	}
	tw.Flush()
	renderPager(w, v.pager.Current(), v.pager.Pages())
}

// UpdateBooking edits the booking and payment status of one booking.
type UpdateBooking struct {
	base
	Code    string
	Booking *models.Booking
	Form    booking.UpdateForm
}

func NewUpdateBooking(env *Env, code string) *UpdateBooking {
	return &UpdateBooking{base: newBase(env), Code: code}
}

func (v *UpdateBooking) Mount(ctx context.Context) error {
	b, err := v.env.API.BookingByReference(ctx, v.env.Session, v.Code)
	if err != nil {
		v.fail(err.Error())
		return nil
	}
	v.Booking = b
	v.Form = booking.UpdateForm{
		ID:            b.ID,
		Current:       b.BookingStatus,
		BookingStatus: b.BookingStatus,
		PaymentStatus: b.PaymentStatus,
	}
	return nil
}

// Loading reports whether the booking has not been fetched yet.
func (v *UpdateBooking) Loading() bool { return v.Booking == nil }

func (v *UpdateBooking) SetBookingStatus(s string) {
	if strings.TrimSpace(s) == "" {
		v.Form.BookingStatus = ""
		return
	}
	v.Form.BookingStatus = models.ParseBookingStatus(s)
}

func (v *UpdateBooking) SetPaymentStatus(s string) {
	if strings.TrimSpace(s) == "" {
		v.Form.PaymentStatus = ""
		return
	}
	v.Form.PaymentStatus = models.ParsePaymentStatus(s)
}

func (v *UpdateBooking) Submit(ctx context.Context) error {
	if v.Booking == nil {
		return ErrNotLoaded
	}
	if v.Form.BookingStatus == models.BookingUnknown || v.Form.PaymentStatus == models.PaymentUnknown {
		v.fail("Unknown status selected.")
		return nil
	}
	if err := v.Form.Validate(); err != nil {
		v.fail(validationText(err))
		return nil
	}

	upd := api.BookingUpdate{
		ID:            v.Form.ID,
		BookingStatus: v.Form.BookingStatus,
		PaymentStatus: v.Form.PaymentStatus,
	}
	if _, err := v.env.API.UpdateBooking(ctx, v.env.Session, upd); err != nil {
		v.fail(err.Error())
		return nil
	}
	v.succeed("Booking updated successfully.", v.env.Timing.ShortSuccess)
	v.after("/"+guard.ManageBookings, v.env.Timing.ShortSuccess)
	return nil
}

func (v *UpdateBooking) Render(w io.Writer) {
	v.header(w, "Update Booking")
	if v.Booking == nil {
		fmt.Fprintln(w, "Loading booking details...")
		return
	}
	renderBooking(w, v.Booking)
	fmt.Fprintf(w, "New booking status: %s\nNew payment status: %s\n", v.Form.BookingStatus, v.Form.PaymentStatus)
}
