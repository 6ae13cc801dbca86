package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooking_Decode(t *testing.T) {
	payload := `{
		"id": 7,
		"bookingReference": "ABC123",
		"checkInDate": "2026-01-15",
		"checkOutDate": "2026-01-18",
		"bookingStatus": "booked",
		"paymentStatus": "SOMETHING_NEW",
		"totalPrice": 1200.5,
		"guests": [{"firstName": "Ann", "lastName": "Lee", "email": "ann@example.com", "phoneNumber": "1", "identityNumber": "X1"}]
	}`

	var b Booking
	require.NoError(t, json.Unmarshal([]byte(payload), &b))

	t.Run("Statuses", func(t *testing.T) {
		assert.Equal(t, BookingBooked, b.BookingStatus)
		assert.Equal(t, PaymentUnknown, b.PaymentStatus)
	})

	t.Run("Dates", func(t *testing.T) {
		assert.Equal(t, "2026-01-15", b.CheckInDate.String())
		assert.Equal(t, 3, b.Nights())
	})

	t.Run("Guests", func(t *testing.T) {
		require.Len(t, b.Guests, 1)
		assert.Equal(t, "Ann Lee", b.Guests[0].FullName())
	})
}

func TestDate_NullAndEncode(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	out, err := json.Marshal(NewDate(time.Date(2026, 3, 1, 17, 45, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-01"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"01-03-2026"`), &d))
}

func TestDaysBetween(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }

	assert.Equal(t, 0, DaysBetween(day(5), day(5)))
	assert.Equal(t, 3, DaysBetween(day(5), day(8)))
	assert.Equal(t, -2, DaysBetween(day(5), day(3)))
	assert.Equal(t, 1, DaysBetween(day(5).Add(23*time.Hour), day(6)))
	assert.Equal(t, 0, DaysBetween(time.Time{}, day(6)))
}

func TestParseStatuses(t *testing.T) {
	assert.Equal(t, BookingCheckedOut, ParseBookingStatus(" checked_out "))
	assert.Equal(t, BookingUnknown, ParseBookingStatus("gone"))
	assert.Equal(t, PaymentRefunded, ParsePaymentStatus("REFUNDED"))
	assert.Equal(t, PaymentUnknown, ParsePaymentStatus(""))
}

func TestUser_AsGuest(t *testing.T) {
	u := &User{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", PhoneNumber: "555"}
	g := u.AsGuest()
	assert.Equal(t, "Ann", g.FirstName)
	assert.Empty(t, g.IdentityNumber)

	var nilUser *User
	assert.Equal(t, Guest{}, nilUser.AsGuest())
}
