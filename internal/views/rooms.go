package views

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"hotelbook/internal/api"
	"hotelbook/internal/guard"
	"hotelbook/internal/listing"
	"hotelbook/internal/models"
	"hotelbook/internal/ui"
)

// Search is the availability form shared by the home and rooms screens.
type Search struct {
	CheckIn  string
	CheckOut string
	RoomType string
}

// run validates the form and queries availability. On failure it returns the
// banner text. An empty availability list is returned non-nil together with
// its banner so callers can reset their results.
func (s Search) run(ctx context.Context, env *Env) ([]models.Room, string) {
	if blank(s.CheckIn, s.CheckOut, s.RoomType) {
		return nil, "Please select all fields"
	}
	loc := env.now().Location()
	in, err := models.ParseDate(s.CheckIn, loc)
	if err != nil {
		return nil, "Invalid date format"
	}
	out, err := models.ParseDate(s.CheckOut, loc)
	if err != nil {
		return nil, "Invalid date format"
	}

	rooms, err := env.API.AvailableRooms(ctx, api.AvailabilityQuery{
		CheckInDate:  in.String(),
		CheckOutDate: out.String(),
		RoomType:     s.RoomType,
	})
	if err != nil {
		return nil, err.Error()
	}
	if len(rooms) == 0 {
		return []models.Room{}, "Room type not currently available for the selected date"
	}
	return rooms, ""
}

// Home is the landing screen: availability search and its results.
type Home struct {
	base
	Search  Search
	Types   []string
	Results []models.Room
}

func NewHome(env *Env) *Home {
	return &Home{base: newBase(env)}
}

func (v *Home) Mount(ctx context.Context) error {
	types, err := v.env.API.RoomTypes(ctx)
	if err != nil {
		v.fail(api.MessageOf(err, "Error Fetching Room Types"))
		return nil
	}
	v.Types = types
	return nil
}

// Find runs the availability search.
func (v *Home) Find(ctx context.Context) error {
	rooms, msg := v.Search.run(ctx, v.env)
	if rooms != nil {
		v.Results = rooms
	}
	if msg != "" {
		v.fail(msg)
	}
	return nil
}

// Select opens a room from the results. Administrators go to the room editor.
func (v *Home) Select(id int64) {
	openRoom(v.env, id)
}

func (v *Home) Render(w io.Writer) {
	v.header(w, "Home")
	if len(v.Types) > 0 {
		fmt.Fprintf(w, "Room types: %v\n", v.Types)
	}
	renderRooms(w, v.Results)
}

// Rooms lists every room with a type filter and pagination.
type Rooms struct {
	base
	Search       Search
	Types        []string
	SelectedType string
	pager        *listing.Pager[models.Room]
}

func NewRooms(env *Env) *Rooms {
	return &Rooms{base: newBase(env), pager: listing.NewPager[models.Room](env.Pages.Rooms)}
}

func (v *Rooms) Mount(ctx context.Context) error {
	rooms, err := v.env.API.AllRooms(ctx)
	if err != nil {
		v.fail(api.MessageOf(err, "Error fetching rooms"))
		return nil
	}
	v.pager.SetItems(rooms)

	types, err := v.env.API.RoomTypes(ctx)
	if err != nil {
		v.fail(api.MessageOf(err, "Error Fetching Room Types"))
		return nil
	}
	v.Types = types
	return nil
}

// FilterType keeps rooms of type t; an empty type shows everything.
func (v *Rooms) FilterType(t string) {
	v.SelectedType = t
	v.pager.SetFilter(listing.ByRoomType(t))
}

// Find replaces the list with the availability search result.
func (v *Rooms) Find(ctx context.Context) error {
	rooms, msg := v.Search.run(ctx, v.env)
	if rooms != nil {
		v.pager.SetItems(rooms)
	}
	if msg != "" {
		v.fail(msg)
	}
	return nil
}

func (v *Rooms) Page(n int) bool { return v.pager.GoTo(n) }

func (v *Rooms) Items() []models.Room { return v.pager.Items() }

func (v *Rooms) Pager() *listing.Pager[models.Room] { return v.pager }

func (v *Rooms) Select(id int64) {
	openRoom(v.env, id)
}

func (v *Rooms) Render(w io.Writer) {
	v.header(w, "All Rooms")
	if v.SelectedType != "" {
		fmt.Fprintf(w, "Type: %s\n", v.SelectedType)
	}
	renderRooms(w, v.pager.Items())
	renderPager(w, v.pager.Current(), v.pager.Pages())
}

func openRoom(env *Env, id int64) {
	pattern := guard.RoomDetails
	if env.Session.IsAdmin() {
		pattern = guard.EditRoom
	}
	env.Nav.Navigate(guard.Build(pattern, nil, strconv.FormatInt(id, 10)))
}

func renderRooms(w io.Writer, rooms []models.Room) {
	if len(rooms) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNUMBER\tTYPE\tPRICE\tCAPACITY")
	for _, r := range rooms {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", r.ID, r.RoomNumber, r.Type, ui.Money(r.PricePerNight), r.Capacity)
	}
	tw.Flush()
}

func renderPager(w io.Writer, current, pages int) {
	if pages <= 1 {
		return
	}
	fmt.Fprintf(w, "Page %d of %d\n", current, pages)
}
