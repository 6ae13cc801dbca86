// Package guard holds the route table and the session/role check evaluated
// before a view is entered.
package guard

import (
	"net/url"
	"strings"

	"hotelbook/internal/metrics"
	"hotelbook/internal/session"
)

// Access is the requirement a route places on the session.
type Access int

const (
	Public Access = iota
	Authenticated
	AdminOnly
)

// Route names. Patterns may contain :param segments.
const (
	Login           = "login"
	Register        = "register"
	Home            = "home"
	Rooms           = "rooms"
	RoomDetails     = "room-details/:id"
	FindBooking     = "find-booking"
	Profile         = "profile"
	EditProfile     = "edit-profile"
	Payment         = "payment"
	PaymentSuccess  = "payment-success/:bookingReference"
	PaymentFailure  = "payment-failure/:bookingReference"
	AdminHome       = "admin"
	ManageRooms     = "admin/manage-rooms"
	AddRoom         = "admin/add-room"
	EditRoom        = "admin/edit-room/:id"
	ManageBookings  = "admin/manage-bookings"
	EditBooking     = "admin/edit-booking/:bookingCode"
	AdminRegister   = "admin/admin-register"
	defaultRedirect = Home
)

// Route is one entry of the navigation table.
type Route struct {
	Pattern string
	Access  Access
}

// Routes is the navigation table in match order.
var Routes = []Route{
	{Login, Public},
	{Register, Public},
	{Home, Public},
	{Rooms, Public},
	{RoomDetails, Authenticated},
	{FindBooking, Public},
	{Profile, Authenticated},
	{EditProfile, Authenticated},
	{Payment, Public},
	{PaymentSuccess, Public},
	{PaymentFailure, Public},
	{AdminHome, AdminOnly},
	{ManageRooms, AdminOnly},
	{AddRoom, AdminOnly},
	{EditRoom, AdminOnly},
	{ManageBookings, AdminOnly},
	{EditBooking, AdminOnly},
	{AdminRegister, AdminOnly},
}

// Match is a resolved navigation target.
type Match struct {
	Route  Route
	Params map[string]string
	Query  url.Values
}

// Param returns a path parameter, or "".
func (m Match) Param(name string) string {
	return m.Params[name]
}

// Resolve maps a path such as "/room-details/7?x=1" to its route. Unknown
// paths resolve to home.
func Resolve(path string) Match {
	raw, rawQuery, _ := strings.Cut(path, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	segs := split(raw)
	for _, r := range Routes {
		if params, ok := matchPattern(r.Pattern, segs); ok {
			return Match{Route: r, Params: params, Query: query}
		}
	}
	return Match{Route: lookup(defaultRedirect), Params: map[string]string{}, Query: url.Values{}}
}

func lookup(pattern string) Route {
	for _, r := range Routes {
		if r.Pattern == pattern {
			return r
		}
	}
	return Route{Pattern: pattern}
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchPattern(pattern string, segs []string) (map[string]string, bool) {
	parts := split(pattern)
	if len(parts) != len(segs) {
		return nil, false
	}
	params := map[string]string{}
	for i, part := range parts {
		if name, ok := strings.CutPrefix(part, ":"); ok {
			v, err := url.PathUnescape(segs[i])
			if err != nil || v == "" {
				return nil, false
			}
			params[name] = v
			continue
		}
		if part != segs[i] {
			return nil, false
		}
	}
	return params, true
}

// Build fills the :params of pattern in order and appends query.
func Build(pattern string, query url.Values, params ...string) string {
	parts := split(pattern)
	i := 0
	for n, part := range parts {
		if strings.HasPrefix(part, ":") && i < len(params) {
			parts[n] = url.PathEscape(params[i])
			i++
		}
	}
	out := "/" + strings.Join(parts, "/")
	if len(query) > 0 {
		out += "?" + query.Encode()
	}
	return out
}

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed  bool
	Redirect string
	Reason   string
}

// Check evaluates whether sess may enter route.
func Check(route Route, sess *session.Session) Decision {
	switch route.Access {
	case Authenticated, AdminOnly:
		if !sess.IsAuthenticated() {
			metrics.IncGuardDenied("unauthenticated")
			return Decision{Redirect: "/" + Login, Reason: "unauthenticated"}
		}
		if route.Access == AdminOnly && !sess.IsAdmin() {
			metrics.IncGuardDenied("not_admin")
			return Decision{Redirect: "/" + Home, Reason: "not_admin"}
		}
	}
	return Decision{Allowed: true}
}

// Enter resolves path and checks it in one step.
func Enter(path string, sess *session.Session) (Match, Decision) {
	m := Resolve(path)
	return m, Check(m.Route, sess)
}
