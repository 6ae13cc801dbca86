// Package views holds the screens of the terminal client. Each view loads its
// data in Mount, exposes user actions as methods and prints itself with Render.
// User-facing failures are shown as banners; an action returns an error only
// when it was called in a state where it cannot run.
package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hotelbook/internal/api"
	"hotelbook/internal/checkout"
	"hotelbook/internal/listing"
	"hotelbook/internal/session"
	"hotelbook/internal/ui"
)

// ErrNotLoaded is returned by actions that need data Mount did not load.
var ErrNotLoaded = errors.New("view data not loaded")

// PageSizes configures list pagination.
type PageSizes struct {
	Rooms      int
	AdminRooms int
	Bookings   int
}

// DefaultPageSizes matches the web client.
func DefaultPageSizes() PageSizes {
	return PageSizes{
		Rooms:      listing.PublicRoomsPerPage,
		AdminRooms: listing.AdminRoomsPerPage,
		Bookings:   listing.BookingsPerPage,
	}
}

// Env is everything a view needs from the outside world.
type Env struct {
	API      *api.Client
	Sessions *session.Manager
	Session  *session.Session

	Nav     ui.Navigator
	Confirm ui.Confirmer
	Timing  ui.Timing
	Pages   PageSizes
	Clock   func() time.Time
	Logger  zerolog.Logger

	Card   checkout.CardProvider
	Wallet checkout.WalletApprover
}

func (e *Env) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}

func (e *Env) confirm(question string) bool {
	if e.Confirm == nil {
		return false
	}
	return e.Confirm.Confirm(question)
}

// Logout asks for confirmation, clears the stored session and returns home.
func (e *Env) Logout(ctx context.Context) (bool, error) {
	if !e.confirm("Are you sure you want to logout? ") {
		return false, nil
	}
	if err := e.Sessions.Clear(ctx, e.Session); err != nil {
		return false, err
	}
	e.Nav.Navigate("/home")
	return true, nil
}

// View is anything the shell can print.
type View interface {
	Render(w io.Writer)
}

// base carries the banners and pending redirect shared by every view.
type base struct {
	env      *Env
	banners  ui.Banners
	redirect *ui.Deferred
}

func newBase(env *Env) base {
	return base{env: env}
}

func (b *base) fail(text string) {
	b.banners.Fail(text, b.env.now(), b.env.Timing.ErrorTTL)
}

func (b *base) succeed(text string, ttl time.Duration) {
	b.banners.Succeed(text, b.env.now(), ttl)
}

// after schedules a navigation once delay has passed.
func (b *base) after(path string, delay time.Duration) {
	b.redirect = &ui.Deferred{Path: path, At: b.env.now().Add(delay)}
}

// ErrorText returns the active error banner.
func (b *base) ErrorText() string { return b.banners.ErrorText(b.env.now()) }

// SuccessText returns the active success banner.
func (b *base) SuccessText() string { return b.banners.SuccessText(b.env.now()) }

// Pending returns the scheduled navigation, if any.
func (b *base) Pending() *ui.Deferred { return b.redirect }

// Tick performs the scheduled navigation when it is due.
func (b *base) Tick() bool {
	if !b.redirect.Due(b.env.now()) {
		return false
	}
	return b.Flush()
}

// Flush performs the scheduled navigation immediately.
func (b *base) Flush() bool {
	if b.redirect == nil {
		return false
	}
	path := b.redirect.Path
	b.redirect = nil
	b.env.Nav.Navigate(path)
	return true
}

func (b *base) header(w io.Writer, title string) {
	fmt.Fprintf(w, "== %s ==\n", title)
	b.banners.Render(w, b.env.now())
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
