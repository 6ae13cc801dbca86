// Package session holds the client's credentials: an explicit session value
// passed to every networked call and a manager that persists it encrypted.
package session

import (
	"errors"
	"strings"
)

// ErrNoSession is returned when an operation needs an active session.
var ErrNoSession = errors.New("no active session")

// Role governs which routes a session may enter.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
	RoleNone     Role = ""
)

// ParseRole maps a stored or wire value to a known role.
func ParseRole(s string) Role {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleCustomer:
		return r
	}
	return RoleNone
}

// State is the session lifecycle: absent -> active -> cleared.
type State int

const (
	StateAbsent State = iota
	StateActive
	StateCleared
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateCleared:
		return "cleared"
	default:
		return "absent"
	}
}

// Session is the credential context handed to the API gateway.
// A nil *Session behaves like an absent one.
type Session struct {
	token string
	role  Role
	state State
}

// Absent returns a session with no credentials.
func Absent() *Session {
	return &Session{state: StateAbsent}
}

// New returns an active session. An empty token yields an absent session.
func New(token string, role Role) *Session {
	if token == "" {
		return Absent()
	}
	return &Session{token: token, role: role, state: StateActive}
}

func (s *Session) State() State {
	if s == nil {
		return StateAbsent
	}
	return s.state
}

// Token returns the bearer token, or "" unless the session is active.
func (s *Session) Token() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.token
}

func (s *Session) Role() Role {
	if !s.IsAuthenticated() {
		return RoleNone
	}
	return s.role
}

// IsAuthenticated reports whether a token is present.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.state == StateActive && s.token != ""
}

func (s *Session) IsAdmin() bool {
	return s.Role() == RoleAdmin
}

func (s *Session) IsCustomer() bool {
	return s.Role() == RoleCustomer
}

// clear drops the credentials in place so holders of the pointer see the logout.
func (s *Session) clear() {
	if s == nil {
		return
	}
	s.token = ""
	s.role = RoleNone
	s.state = StateCleared
}
