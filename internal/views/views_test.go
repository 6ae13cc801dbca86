package views

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbook/internal/api"
	"hotelbook/internal/api/apitest"
	"hotelbook/internal/booking"
	"hotelbook/internal/checkout"
	"hotelbook/internal/models"
	"hotelbook/internal/session"
	"hotelbook/internal/storage"
	"hotelbook/internal/ui"
)

type harness struct {
	backend   *apitest.Backend
	env       *Env
	nav       *ui.History
	now       time.Time
	answer    bool
	questions []string
	card      *fakeCard
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := apitest.New(t)
	c, err := session.NewCipher("views-test")
	require.NoError(t, err)

	h := &harness{
		backend: b,
		nav:     ui.NewHistory("/home"),
		now:     time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		card:    &fakeCard{res: &checkout.CardResult{IntentID: "pi_123", Status: "succeeded"}},
	}
	h.env = &Env{
		API:      api.NewClient(b.URL(), 5*time.Second),
		Sessions: session.NewManager(storage.NewMemoryKV(), c, zerolog.Nop()),
		Session:  session.Absent(),
		Nav:      h.nav,
		Confirm: ui.ConfirmFunc(func(q string) bool {
			h.questions = append(h.questions, q)
			return h.answer
		}),
		Timing: ui.DefaultTiming(),
		Pages:  DefaultPageSizes(),
		Clock:  func() time.Time { return h.now },
		Logger: zerolog.Nop(),
		Card:   h.card,
	}
	return h
}

func (h *harness) login(t *testing.T, role string) *apitest.Account {
	t.Helper()
	acc := h.backend.AddAccount(strings.ToLower(role)+"@hotel.test", "pw", "token-"+role, role)
	sess, err := h.env.Sessions.Save(context.Background(), acc.Token, session.ParseRole(role))
	require.NoError(t, err)
	h.env.Session = sess
	return acc
}

func (h *harness) advance(d time.Duration) { h.now = h.now.Add(d) }

func (h *harness) sent(method, path string) bool {
	for _, p := range h.backend.Paths() {
		if p == method+" "+path {
			return true
		}
	}
	return false
}

type fakeCard struct {
	res     *checkout.CardResult
	err     error
	secrets []string
}

func (f *fakeCard) Confirm(_ context.Context, secret string, _ checkout.CardDetails) (*checkout.CardResult, error) {
	f.secrets = append(f.secrets, secret)
	return f.res, f.err
}

func date(y int, m time.Month, d int) models.Date {
	return models.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func validGuest() models.Guest {
	return models.Guest{
		FirstName:      "Ann",
		LastName:       "Lee",
		Email:          "ann@example.com",
		PhoneNumber:    "555-0100",
		IdentityNumber: "ID-1",
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.backend.AddAccount("guest@hotel.test", "secret", "tok-1", "CUSTOMER")

	v := NewLogin(h.env)
	require.NoError(t, v.Submit(ctx))
	assert.Equal(t, "Please fill all the fields correctly", v.ErrorText())
	assert.Empty(t, h.backend.Requests())

	v.Email, v.Password = "guest@hotel.test", "wrong"
	require.NoError(t, v.Submit(ctx))
	assert.Equal(t, "Invalid password", v.ErrorText())
	assert.False(t, h.env.Session.IsAuthenticated())

	v.Password = "secret"
	require.NoError(t, v.Submit(ctx))
	assert.True(t, h.env.Session.IsCustomer())
	assert.Equal(t, "/home", h.nav.Current())
	assert.Equal(t, "tok-1", h.env.Sessions.Load(ctx).Token())
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("customer", func(t *testing.T) {
		h := newHarness(t)
		v := NewRegister(h.env)
		v.Form = api.RegisterRequest{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", PhoneNumber: "555"}
		require.NoError(t, v.Submit(ctx))
		assert.Equal(t, "All fields are required", v.ErrorText())

		v.Form.Password = "pw"
		v.Form.Email = "not-an-email"
		require.NoError(t, v.Submit(ctx))
		assert.Equal(t, "Invalid email format", v.ErrorText())
		assert.Empty(t, h.backend.Requests())

		v.Form.Email = "ann@example.com"
		v.Form.Role = "ADMIN"
		require.NoError(t, v.Submit(ctx))
		assert.Equal(t, "User created successfully", v.SuccessText())
		require.NotNil(t, v.Pending())
		assert.Equal(t, "/login", v.Pending().Path)
		assert.Equal(t, "CUSTOMER", h.backend.Accounts["ann@example.com"].Role)

		assert.False(t, v.Tick())
		h.advance(h.env.Timing.RedirectDelay)
		assert.True(t, v.Tick())
		assert.Equal(t, "/login", h.nav.Current())
	})

	t.Run("admin", func(t *testing.T) {
		h := newHarness(t)
		h.login(t, "ADMIN")
		v := NewAdminRegister(h.env)
		v.Form = api.RegisterRequest{FirstName: "Bo", LastName: "Ng", Email: "bo@example.com", PhoneNumber: "555", Password: "pw"}
		require.NoError(t, v.Submit(ctx))
		assert.Equal(t, "All fields are required", v.ErrorText())

		v.Form.Role = "janitor"
		require.NoError(t, v.Submit(ctx))
		assert.Equal(t, "Role must be ADMIN or CUSTOMER", v.ErrorText())

		v.Form.Role = "ADMIN"
		require.NoError(t, v.Submit(ctx))
		assert.Equal(t, "/admin", h.nav.Current())
		assert.Equal(t, "ADMIN", h.backend.Accounts["bo@example.com"].Role)
	})
}

func TestHome_Search(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.backend.Types = []string{"SINGLE", "SUITE"}
	h.backend.Rooms = []models.Room{{ID: 1, RoomNumber: "101", Type: "SINGLE", PricePerNight: 80, Capacity: 1}}

	v := NewHome(h.env)
	require.NoError(t, v.Mount(ctx))
	assert.Equal(t, []string{"SINGLE", "SUITE"}, v.Types)

	tests := []struct {
		name    string
		search  Search
		wantErr string
		wantLen int
	}{
		{"missing field", Search{CheckIn: "2026-06-10", RoomType: "SINGLE"}, "Please select all fields", 0},
		{"bad date", Search{CheckIn: "10/06/2026", CheckOut: "2026-06-12", RoomType: "SINGLE"}, "Invalid date format", 0},
		{"none available", Search{CheckIn: "2026-06-10", CheckOut: "2026-06-12", RoomType: "SUITE"}, "Room type not currently available for the selected date", 0},
		{"found", Search{CheckIn: "2026-06-10", CheckOut: "2026-06-12", RoomType: "SINGLE"}, "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewHome(h.env)
			v.Search = tt.search
			require.NoError(t, v.Find(ctx))
			assert.Equal(t, tt.wantErr, v.ErrorText())
			assert.Len(t, v.Results, tt.wantLen)
		})
	}

	req := h.backend.Requests()
	last := req[len(req)-1]
	assert.Contains(t, last.Query, "checkInDate=2026-06-10")
	assert.Contains(t, last.Query, "roomType=SINGLE")
}

func TestRooms_PageAndFilter(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	for i := 1; i <= 10; i++ {
		typ := "SINGLE"
		if i%2 == 0 {
			typ = "DOUBLE"
		}
		h.backend.Rooms = append(h.backend.Rooms, models.Room{ID: int64(i), RoomNumber: "R", Type: typ, PricePerNight: 50, Capacity: 2})
	}

	v := NewRooms(h.env)
	require.NoError(t, v.Mount(ctx))
	assert.Len(t, v.Items(), 8)
	assert.Equal(t, 2, v.Pager().Pages())

	require.True(t, v.Page(2))
	assert.Len(t, v.Items(), 2)
	assert.False(t, v.Page(3))

	v.FilterType("DOUBLE")
	assert.Equal(t, 1, v.Pager().Current())
	assert.Len(t, v.Items(), 5)

	v.Select(4)
	assert.Equal(t, "/room-details/4", h.nav.Current())
}

func TestRoomDetails_BookingFlow(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.login(t, "CUSTOMER")
	h.backend.Rooms = []models.Room{{ID: 7, RoomNumber: "207", Type: "DOUBLE", PricePerNight: 120, Capacity: 2}}

	v := NewRoomDetails(h.env, 7)
	require.NoError(t, v.Mount(ctx))
	require.NotNil(t, v.Room)
	require.Len(t, v.Guests.Guests, 1)
	assert.Equal(t, "customer@hotel.test", v.Guests.Guests[0].Email)

	assert.True(t, v.AddGuest())
	assert.False(t, v.AddGuest(), "capacity is two")
	assert.True(t, v.RemoveGuest(1))
	assert.False(t, v.RemoveGuest(0), "at least one guest stays")

	require.NoError(t, v.Confirm())
	assert.Equal(t, "Please select both check-in and check-out dates", v.ErrorText())

	v.SetDates("2026-06-10", "2026-06-13")
	require.NoError(t, v.Confirm())
	assert.Equal(t, "Please fill all required fields for Guest 1", v.ErrorText())
	assert.Nil(t, v.Preview)

	v.SetGuest(0, validGuest())
	require.NoError(t, v.Confirm())
	require.NotNil(t, v.Preview)
	assert.Equal(t, booking.Preview{Nights: 3, Total: 360}, *v.Preview)
	assert.False(t, h.sent("POST", "/api/bookings"), "nothing is booked before acceptance")

	require.NoError(t, v.Accept(ctx))
	assert.Equal(t, bookingSuccessMessage, v.SuccessText())
	require.Len(t, h.backend.Bookings, 1)

	h.advance(7 * time.Second)
	assert.False(t, v.Tick())
	h.advance(time.Second)
	assert.True(t, v.Tick())
	assert.Equal(t, "/rooms", h.nav.Current())
}

func TestRoomDetails_RoomMissing(t *testing.T) {
	h := newHarness(t)
	h.login(t, "CUSTOMER")

	v := NewRoomDetails(h.env, 99)
	require.NoError(t, v.Mount(context.Background()))
	assert.True(t, v.Loading())
	assert.Equal(t, "Room Not Found", v.ErrorText())
	require.NoError(t, v.Accept(context.Background()))
	assert.False(t, h.sent("POST", "/api/bookings"))
}

func TestFindBooking_Cancel(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.login(t, "CUSTOMER")
	h.backend.Bookings = []models.Booking{
		{ID: 1, BookingReference: "SOON", CheckInDate: date(2026, 6, 1), CheckOutDate: date(2026, 6, 3), BookingStatus: models.BookingBooked},
		{ID: 2, BookingReference: "LATER", CheckInDate: date(2026, 6, 20), CheckOutDate: date(2026, 6, 22), BookingStatus: models.BookingBooked},
	}

	v := NewFindBooking(h.env)
	require.NoError(t, v.Search(ctx, "   "))
	assert.Equal(t, "Please enter the booking confirmation Code", v.ErrorText())

	require.NoError(t, v.Search(ctx, "MISSING"))
	assert.Equal(t, "Booking Not Found", v.ErrorText())
	assert.Nil(t, v.Booking)
	assert.ErrorIs(t, v.Cancel(ctx), ErrNotLoaded)

	require.NoError(t, v.Search(ctx, "SOON"))
	require.NoError(t, v.Cancel(ctx))
	assert.Contains(t, []string{booking.ReasonTooLate, booking.ReasonDatePassed}, v.ErrorText())
	assert.Empty(t, h.questions, "policy is checked before asking")
	assert.False(t, h.sent("DELETE", "/api/bookings/cancel/SOON"))

	require.NoError(t, v.Search(ctx, "LATER"))
	ok, _ := v.CanCancel()
	require.True(t, ok)

	h.answer = false
	require.NoError(t, v.Cancel(ctx))
	assert.Equal(t, []string{cancelQuestion}, h.questions)
	assert.False(t, h.sent("DELETE", "/api/bookings/cancel/LATER"))

	h.answer = true
	require.NoError(t, v.Cancel(ctx))
	assert.True(t, h.sent("DELETE", "/api/bookings/cancel/LATER"))
	assert.Equal(t, cancelSuccessMessage, v.SuccessText())
	assert.Equal(t, models.BookingCancelled, v.Booking.BookingStatus)
	assert.True(t, v.Flush())
	assert.Equal(t, "/profile", h.nav.Current())
}

func TestFindBooking_ServerRefusal(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.login(t, "CUSTOMER")
	h.answer = true
	h.backend.Bookings = []models.Booking{
		{ID: 1, BookingReference: "LATER", CheckInDate: date(2026, 6, 20), CheckOutDate: date(2026, 6, 22), BookingStatus: models.BookingBooked},
	}
	h.backend.Fail("DELETE /api/bookings/cancel/{code}", 400, "")

	v := NewFindBooking(h.env)
	require.NoError(t, v.Search(ctx, "LATER"))
	require.NoError(t, v.Cancel(ctx))
	assert.Equal(t, "Error Cancel Booking", v.ErrorText())
	assert.Nil(t, v.Pending())
}

func TestProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("loads profile then bookings", func(t *testing.T) {
		h := newHarness(t)
		acc := h.login(t, "CUSTOMER")
		h.backend.Bookings = []models.Booking{
			{ID: 1, BookingReference: "R1", CheckInDate: date(2026, 6, 20), CheckOutDate: date(2026, 6, 22), BookingStatus: models.BookingCancelled, User: &acc.User},
		}

		v := NewProfile(h.env)
		require.NoError(t, v.Mount(ctx))
		require.NotNil(t, v.User)
		require.Len(t, v.Bookings, 1)
		assert.Equal(t, booking.ReasonAlreadyCancelled, v.CancelHint(&v.Bookings[0]))
		assert.Equal(t, []string{"GET /api/users/account", "GET /api/users/bookings"}, h.backend.Paths())

		var out bytes.Buffer
		v.Render(&out)
		assert.Contains(t, out.String(), "R1")
	})

	t.Run("profile failure skips bookings", func(t *testing.T) {
		h := newHarness(t)
		h.login(t, "CUSTOMER")
		h.backend.Fail("GET /api/users/account", 500, "boom")

		v := NewProfile(h.env)
		require.NoError(t, v.Mount(ctx))
		assert.Equal(t, "boom", v.ErrorText())
		assert.False(t, h.sent("GET", "/api/users/bookings"))
	})

	t.Run("logout", func(t *testing.T) {
		h := newHarness(t)
		h.login(t, "CUSTOMER")
		v := NewProfile(h.env)
		require.NoError(t, v.Logout(ctx))
		assert.False(t, h.env.Session.IsAuthenticated())
		assert.False(t, h.env.Sessions.Load(ctx).IsAuthenticated())
		assert.Equal(t, "/home", h.nav.Current())
	})
}

func TestEditProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("delete account", func(t *testing.T) {
		h := newHarness(t)
		h.login(t, "CUSTOMER")
		v := NewEditProfile(h.env)
		require.NoError(t, v.Mount(ctx))

		require.NoError(t, v.Delete(ctx))
		assert.False(t, h.sent("DELETE", "/api/users/delete"))
		assert.Equal(t, []string{deleteAccountQuestion}, h.questions)

		h.answer = true
		require.NoError(t, v.Delete(ctx))
		assert.True(t, h.sent("DELETE", "/api/users/delete"))
		assert.False(t, h.env.Sessions.Load(ctx).IsAuthenticated())
		assert.Equal(t, "/login", h.nav.Current())
	})

	t.Run("logout asks first", func(t *testing.T) {
		h := newHarness(t)
		h.login(t, "CUSTOMER")
		v := NewEditProfile(h.env)

		require.NoError(t, v.Logout(ctx))
		assert.True(t, h.env.Session.IsAuthenticated())

		h.answer = true
		require.NoError(t, v.Logout(ctx))
		assert.False(t, h.env.Session.IsAuthenticated())
		assert.Equal(t, "/home", h.nav.Current())
	})
}

func TestPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("card success", func(t *testing.T) {
		h := newHarness(t)
		h.backend.Links["tok"] = apitest.PaymentLink{Status: "OK", Amount: 300, BookingReference: "ABC123"}

		s, err := Open(ctx, h.env, "/payment?token=tok")
		require.NoError(t, err)
		v, ok := s.(*Payment)
		require.True(t, ok)
		assert.Equal(t, checkout.StateMethodSelected, v.Flow().State())
		assert.Equal(t, checkout.MethodCard, v.Flow().Method())

		require.NoError(t, v.PayCard(ctx, checkout.CardDetails{PaymentMethod: "pm_card_visa"}))
		assert.Equal(t, "/payment-success/ABC123", h.nav.Current())
		assert.Equal(t, []string{"pi_123_secret_456"}, h.card.secrets)
		assert.Len(t, h.backend.Reported(), 1)

		s, err = Open(ctx, h.env, h.nav.Current())
		require.NoError(t, err)
		assert.Equal(t, "ABC123", s.(*PaymentSuccess).BookingReference)
	})

	t.Run("unknown link", func(t *testing.T) {
		h := newHarness(t)
		_, err := Open(ctx, h.env, "/payment?token=nope")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(h.nav.Current(), "/payment-failure/unknown?reason="))

		s, err := Open(ctx, h.env, h.nav.Current())
		require.NoError(t, err)
		f := s.(*PaymentFailure)
		assert.Equal(t, "unknown", f.BookingReference)
		assert.Equal(t, "Payment link not found", f.Reason)
	})

	t.Run("failure page default reason", func(t *testing.T) {
		h := newHarness(t)
		s, err := Open(ctx, h.env, "/payment-failure/XYZ")
		require.NoError(t, err)
		assert.Equal(t, "Unknown Error", s.(*PaymentFailure).Reason)
	})
}

func TestOpen_Guard(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous to login", func(t *testing.T) {
		h := newHarness(t)
		s, err := Open(ctx, h.env, "/profile")
		require.NoError(t, err)
		assert.IsType(t, &Login{}, s)
		assert.Equal(t, "/login", h.nav.Current())
		assert.Empty(t, h.backend.Requests())
	})

	t.Run("customer kept out of admin", func(t *testing.T) {
		h := newHarness(t)
		h.login(t, "CUSTOMER")
		s, err := Open(ctx, h.env, "/admin/manage-bookings")
		require.NoError(t, err)
		assert.IsType(t, &Home{}, s)
		assert.False(t, h.sent("GET", "/api/bookings/all"))
	})

	t.Run("admin room link opens editor", func(t *testing.T) {
		h := newHarness(t)
		h.login(t, "ADMIN")
		h.backend.Rooms = []models.Room{{ID: 3, RoomNumber: "303", Type: "SUITE", PricePerNight: 300, Capacity: 4, Description: "Sea view"}}

		home := NewHome(h.env)
		home.Select(3)
		s, err := Open(ctx, h.env, h.nav.Current())
		require.NoError(t, err)
		e := s.(*EditRoom)
		assert.Equal(t, "300", e.Form.PricePerNight)
		assert.Equal(t, "Sea view", e.Form.Description)
	})
}

func TestAddRoom(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.login(t, "ADMIN")

	img := filepath.Join(t.TempDir(), "room.jpg")
	require.NoError(t, os.WriteFile(img, []byte("jpeg"), 0o600))

	tests := []struct {
		name    string
		fields  RoomFields
		wantErr string
	}{
		{"missing", RoomFields{Type: "SUITE"}, "All room details must be provided."},
		{"not a number", RoomFields{RoomNumber: "1", Type: "SUITE", PricePerNight: "abc", Capacity: "2", Description: "d"}, "Price and capacity must be numbers."},
		{"zero price", RoomFields{RoomNumber: "1", Type: "SUITE", PricePerNight: "0", Capacity: "2", Description: "d"}, "Price and capacity must be greater than zero."},
		{"missing image", RoomFields{RoomNumber: "1", Type: "SUITE", PricePerNight: "10", Capacity: "2", Description: "d", ImagePath: filepath.Join(t.TempDir(), "nope.jpg")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewAddRoom(h.env)
			v.Form = tt.fields
			require.NoError(t, v.Submit(ctx))
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, v.ErrorText())
			} else {
				assert.True(t, strings.HasPrefix(v.ErrorText(), "Unable to read image"))
			}
		})
	}
	assert.False(t, h.sent("POST", "/api/rooms/add"))

	v := NewAddRoom(h.env)
	v.Form = RoomFields{RoomNumber: "401", Type: "SUITE", PricePerNight: "250.5", Capacity: "3", Description: "Top floor", ImagePath: img}
	require.NoError(t, v.Submit(ctx))
	assert.Equal(t, "Room Added successfully.", v.SuccessText())
	require.Len(t, h.backend.Rooms, 1)
	assert.Equal(t, "/images/room.jpg", h.backend.Rooms[0].ImageURL)
	assert.Equal(t, 250.5, h.backend.Rooms[0].PricePerNight)
	assert.Equal(t, "/admin/manage-rooms", v.Pending().Path)
}

func TestEditRoom(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.login(t, "ADMIN")
	h.backend.Rooms = []models.Room{{ID: 5, RoomNumber: "105", Type: "SINGLE", PricePerNight: 70, Capacity: 1, Description: "Quiet"}}

	v := NewEditRoom(h.env, 5)
	require.NoError(t, v.Mount(ctx))
	v.Form.PricePerNight = "75"
	require.NoError(t, v.Update(ctx))
	assert.Equal(t, "Room updated successfully.", v.SuccessText())

	var body string
	for _, r := range h.backend.Requests() {
		if r.Method == "PUT" && r.Path == "/api/rooms/update" {
			body = r.Body
		}
	}
	assert.Contains(t, body, `name="id"`)
	assert.Contains(t, body, "75")

	d := NewEditRoom(h.env, 5)
	require.NoError(t, d.Delete(ctx))
	assert.False(t, h.sent("DELETE", "/api/rooms/delete/5"))

	h.answer = true
	require.NoError(t, d.Delete(ctx))
	assert.True(t, h.sent("DELETE", "/api/rooms/delete/5"))
	assert.Equal(t, "Room deleted successfully.", d.SuccessText())
}

func TestManageBookings(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.login(t, "ADMIN")
	for i, ref := range []string{"ABC1", "ABC2", "XYZ1", "XYZ2", "XYZ3", "QQQ1"} {
		h.backend.Bookings = append(h.backend.Bookings, models.Booking{
			ID: int64(i + 1), BookingReference: ref,
			CheckInDate: date(2026, 7, 1), CheckOutDate: date(2026, 7, 3),
			BookingStatus: models.BookingBooked, PaymentStatus: models.PaymentPaid, TotalPrice: 200,
		})
	}

	v := NewManageBookings(h.env)
	require.NoError(t, v.Mount(ctx))
	assert.Len(t, v.Items(), 5)
	require.True(t, v.Page(2))
	assert.Len(t, v.Items(), 1)

	v.Search("xyz")
	assert.Equal(t, 1, v.Pager().Current())
	assert.Len(t, v.Items(), 3)

	var buf bytes.Buffer
	require.NoError(t, v.Export(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))

	path, err := v.ExportFile(t.TempDir())
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Contains(t, v.SuccessText(), "Exported 6 bookings")

	v.Manage("XYZ2")
	assert.Equal(t, "/admin/edit-booking/XYZ2", h.nav.Current())
}

func TestUpdateBooking(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.login(t, "ADMIN")
	h.backend.Bookings = []models.Booking{
		{ID: 1, BookingReference: "DONE", BookingStatus: models.BookingCancelled, PaymentStatus: models.PaymentRefunded},
		{ID: 2, BookingReference: "OPEN", BookingStatus: models.BookingBooked, PaymentStatus: models.PaymentPending},
	}

	v := NewUpdateBooking(h.env, "DONE")
	require.NoError(t, v.Mount(ctx))
	v.SetBookingStatus("booked")
	require.NoError(t, v.Submit(ctx))
	assert.Equal(t, "Cannot change booking status from CANCELLED to BOOKED", v.ErrorText())

	v.SetBookingStatus("")
	v.SetPaymentStatus("")
	require.NoError(t, v.Submit(ctx))
	assert.Equal(t, "Please update at least one field.", v.ErrorText())

	v.SetPaymentStatus("bogus")
	require.NoError(t, v.Submit(ctx))
	assert.Equal(t, "Unknown status selected.", v.ErrorText())
	assert.False(t, h.sent("PUT", "/api/bookings/update"))

	u := NewUpdateBooking(h.env, "OPEN")
	require.NoError(t, u.Mount(ctx))
	u.SetBookingStatus("CHECKED_IN")
	u.SetPaymentStatus("PAID")
	require.NoError(t, u.Submit(ctx))
	assert.Equal(t, "Booking updated successfully.", u.SuccessText())

	var body string
	for _, r := range h.backend.Requests() {
		if r.Method == "PUT" && r.Path == "/api/bookings/update" {
			body = r.Body
		}
	}
	assert.Contains(t, body, `"bookingStatus":"CHECKED_IN"`)
	assert.Contains(t, body, `"paymentStatus":"PAID"`)

	h.advance(3 * time.Second)
	assert.True(t, u.Tick())
	assert.Equal(t, "/admin/manage-bookings", h.nav.Current())
}

func TestBanners_Expire(t *testing.T) {
	h := newHarness(t)
	v := NewLogin(h.env)
	require.NoError(t, v.Submit(context.Background()))
	assert.NotEmpty(t, v.ErrorText())

	h.advance(h.env.Timing.ErrorTTL)
	assert.Empty(t, v.ErrorText())

	var out bytes.Buffer
	v.Render(&out)
	assert.NotContains(t, out.String(), "[error]")
}
