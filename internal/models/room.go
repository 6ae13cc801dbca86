package models

// Room is a bookable hotel room.
type Room struct {
	ID            int64   `json:"id"`
	RoomNumber    string  `json:"roomNumber"`
	Type          string  `json:"type"`
	PricePerNight float64 `json:"pricePerNight"`
	Capacity      int     `json:"capacity"`
	Description   string  `json:"description,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
}

// User is the account profile returned by the backend.
type User struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role,omitempty"`
	Active      bool   `json:"isActive,omitempty"`
}

// AsGuest pre-fills a guest entry from the profile. Identity number is left blank.
func (u *User) AsGuest() Guest {
	if u == nil {
		return Guest{}
	}
	return Guest{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
}
