package views

import (
	"context"
	"fmt"
	"strconv"

	"hotelbook/internal/guard"
)

// Screen is a view that loads its own data.
type Screen interface {
	View
	Mount(ctx context.Context) error
}

// maxRedirects bounds guard redirect chains.
const maxRedirects = 3

// Open resolves path, applies the guard and mounts the matching screen.
// Denied paths follow the guard redirect, which is recorded on env.Nav.
func Open(ctx context.Context, env *Env, path string) (Screen, error) {
	var m guard.Match
	for i := 0; ; i++ {
		var d guard.Decision
		m, d = guard.Enter(path, env.Session)
		if d.Allowed {
			break
		}
		if i == maxRedirects {
			return nil, fmt.Errorf("too many redirects opening %s", path)
		}
		env.Logger.Debug().Str("path", path).Str("reason", d.Reason).Str("redirect", d.Redirect).Msg("navigation denied")
		path = d.Redirect
		env.Nav.Navigate(path)
	}

	s, err := build(env, m)
	if err != nil {
		return nil, err
	}
	if err := s.Mount(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func build(env *Env, m guard.Match) (Screen, error) {
	switch m.Route.Pattern {
	case guard.Login:
		return NewLogin(env), nil
	case guard.Register:
		return NewRegister(env), nil
	case guard.Home:
		return NewHome(env), nil
	case guard.Rooms:
		return NewRooms(env), nil
	case guard.RoomDetails:
		id, err := idParam(m, "id")
		if err != nil {
			return nil, err
		}
		return NewRoomDetails(env, id), nil
	case guard.FindBooking:
		return NewFindBooking(env), nil
	case guard.Profile:
		return NewProfile(env), nil
	case guard.EditProfile:
		return NewEditProfile(env), nil
	case guard.Payment:
		return NewPayment(env, m.Query.Get("token")), nil
	case guard.PaymentSuccess:
		return NewPaymentSuccess(env, m), nil
	case guard.PaymentFailure:
		return NewPaymentFailure(env, m), nil
	case guard.AdminHome:
		return NewAdminHome(env), nil
	case guard.ManageRooms:
		return NewManageRooms(env), nil
	case guard.AddRoom:
		return NewAddRoom(env), nil
	case guard.EditRoom:
		id, err := idParam(m, "id")
		if err != nil {
			return nil, err
		}
		return NewEditRoom(env, id), nil
	case guard.ManageBookings:
		return NewManageBookings(env), nil
	case guard.EditBooking:
		return NewUpdateBooking(env, m.Param("bookingCode")), nil
	case guard.AdminRegister:
		return NewAdminRegister(env), nil
	}
	return nil, fmt.Errorf("no screen for route %q", m.Route.Pattern)
}

func idParam(m guard.Match, name string) (int64, error) {
	id, err := strconv.ParseInt(m.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, m.Param(name))
	}
	return id, nil
}
