package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbook/internal/models"
)

func TestParseGuest(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    models.Guest
		wantErr bool
	}{
		{
			name: "trims fields",
			raw:  "Ann, Lee ,ann@hotel.test,555-0100, ID-1",
			want: models.Guest{FirstName: "Ann", LastName: "Lee", Email: "ann@hotel.test", PhoneNumber: "555-0100", IdentityNumber: "ID-1"},
		},
		{name: "too few fields", raw: "Ann,Lee", wantErr: true},
		{name: "too many fields", raw: "a,b,c,d,e,f", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGuest(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoomID(t *testing.T) {
	p, err := roomID("7")
	require.NoError(t, err)
	assert.Equal(t, "/room-details/7", p)

	_, err = roomID("seven")
	assert.Error(t, err)
}

func TestStatusNames(t *testing.T) {
	assert.Equal(t, []string{"BOOKED", "CHECKED_IN", "CHECKED_OUT", "CANCELLED"}, statusNames(models.BookingStatuses))
}
