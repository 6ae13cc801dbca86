package main

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"hotelbook/internal/api"
	"hotelbook/internal/checkout"
	"hotelbook/internal/guard"
	"hotelbook/internal/models"
	"hotelbook/internal/views"
)

func (a *app) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "login",
			Usage: "sign in and store the session",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"HOTELCTL_PASSWORD"}},
			},
			Action: a.login,
		},
		{
			Name:   "register",
			Usage:  "create a customer account",
			Flags:  registerFlags(false),
			Action: a.register("/" + guard.Register),
		},
		{
			Name:  "logout",
			Usage: "clear the stored session",
			Action: func(c *cli.Context) error {
				ok, err := a.env.Logout(c.Context)
				if err != nil {
					return err
				}
				if ok {
					fmt.Fprintln(a.out, "Logged out.")
				}
				return nil
			},
		},
		{
			Name:  "whoami",
			Usage: "show the stored session",
			Action: func(*cli.Context) error {
				s := a.env.Session
				if !s.IsAuthenticated() {
					fmt.Fprintln(a.out, "Not logged in.")
					return nil
				}
				fmt.Fprintf(a.out, "Logged in as %s\n", s.Role())
				return nil
			},
		},
		{
			Name:   "profile",
			Usage:  "show your profile and bookings",
			Action: a.show("/" + guard.Profile),
		},
		{
			Name:  "rooms",
			Usage: "list rooms",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "type", Usage: "only rooms of this type"},
				&cli.IntFlag{Name: "page", Value: 1},
			},
			Action: a.rooms,
		},
		{
			Name:  "search",
			Usage: "find available rooms",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "check-in", Required: true, Usage: "YYYY-MM-DD"},
				&cli.StringFlag{Name: "check-out", Required: true, Usage: "YYYY-MM-DD"},
				&cli.StringFlag{Name: "type", Required: true},
			},
			Action: a.search,
		},
		{
			Name:      "room",
			Usage:     "show one room",
			ArgsUsage: "<id>",
			Action: func(c *cli.Context) error {
				return a.show("/room-details/" + c.Args().First())(c)
			},
		},
		{
			Name:      "book",
			Usage:     "book a room",
			ArgsUsage: "<room id>",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "check-in", Required: true, Usage: "YYYY-MM-DD"},
				&cli.StringFlag{Name: "check-out", Required: true, Usage: "YYYY-MM-DD"},
				&cli.StringSliceFlag{Name: "guest", Usage: "first,last,email,phone,identity (repeat per guest)"},
			},
			Action: a.book,
		},
		{
			Name:      "find-booking",
			Usage:     "look a booking up by its confirmation code",
			ArgsUsage: "<code>",
			Action: func(c *cli.Context) error {
				v, err := a.findBooking(c)
				if err != nil {
					return err
				}
				return a.finish(v)
			},
		},
		{
			Name:      "cancel-booking",
			Usage:     "cancel a booking",
			ArgsUsage: "<code>",
			Action: func(c *cli.Context) error {
				v, err := a.findBooking(c)
				if err != nil {
					return err
				}
				if v.Booking != nil {
					if err := v.Cancel(c.Context); err != nil {
						return err
					}
				}
				return a.finish(v)
			},
		},
		{
			Name:  "pay",
			Usage: "pay for a booking with the token from the payment link",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "token", Required: true},
				&cli.StringFlag{Name: "method", Value: "card", Usage: "card or paypal"},
				&cli.StringFlag{Name: "payment-method", Value: "pm_card_visa", Usage: "card payment method id"},
			},
			Action: a.pay,
		},
		{
			Name:  "admin",
			Usage: "administration",
			Subcommands: []*cli.Command{
				a.adminRooms(),
				a.adminBookings(),
				{
					Name:   "register",
					Usage:  "register an account with a role",
					Flags:  registerFlags(true),
					Action: a.register("/" + guard.AdminRegister),
				},
			},
		},
		{
			Name:  "shell",
			Usage: "interactive navigation",
			Action: func(c *cli.Context) error {
				if a.cfg.Monitoring.PrometheusEnabled {
					go startMetricsServer(c.Context, a.cfg.PrometheusPort(), a.logger)
				}
				return a.shell(c.Context)
			},
		},
	}
}

// show opens path and renders it.
func (a *app) show(path string) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := a.open(c.Context, path)
		if err != nil {
			return err
		}
		return a.finish(s)
	}
}

// screen opens path and requires it to land on a T, which fails when the
// guard redirected elsewhere.
func screen[T views.Screen](a *app, c *cli.Context, path string) (T, error) {
	var zero T
	s, err := a.open(c.Context, path)
	if err != nil {
		return zero, err
	}
	v, ok := s.(T)
	if !ok {
		s.Render(a.out)
		return zero, fmt.Errorf("not allowed: redirected to %s", a.env.Nav.Current())
	}
	return v, nil
}

func (a *app) login(c *cli.Context) error {
	v, err := screen[*views.Login](a, c, "/"+guard.Login)
	if err != nil {
		return err
	}
	v.Email, v.Password = c.String("email"), c.String("password")
	if err := v.Submit(c.Context); err != nil {
		return err
	}
	if err := a.finish(v); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", a.env.Session.Role())
	return nil
}

func registerFlags(admin bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "first-name"},
		&cli.StringFlag{Name: "last-name"},
		&cli.StringFlag{Name: "email"},
		&cli.StringFlag{Name: "phone"},
		&cli.StringFlag{Name: "password", EnvVars: []string{"HOTELCTL_PASSWORD"}},
	}
	if admin {
		flags = append(flags, &cli.StringFlag{Name: "role", Usage: "ADMIN or CUSTOMER"})
	}
	return flags
}

func (a *app) register(path string) cli.ActionFunc {
	return func(c *cli.Context) error {
		v, err := screen[*views.Register](a, c, path)
		if err != nil {
			return err
		}
		v.Form = api.RegisterRequest{
			FirstName:   c.String("first-name"),
			LastName:    c.String("last-name"),
			Email:       c.String("email"),
			PhoneNumber: c.String("phone"),
			Password:    c.String("password"),
			Role:        strings.ToUpper(c.String("role")),
		}
		if err := v.Submit(c.Context); err != nil {
			return err
		}
		return a.finish(v)
	}
}

func (a *app) rooms(c *cli.Context) error {
	v, err := screen[*views.Rooms](a, c, "/"+guard.Rooms)
	if err != nil {
		return err
	}
	if t := c.String("type"); t != "" {
		v.FilterType(t)
	}
	v.Page(c.Int("page"))
	return a.finish(v)
}

func (a *app) search(c *cli.Context) error {
	v, err := screen[*views.Home](a, c, "/"+guard.Home)
	if err != nil {
		return err
	}
	v.Search = views.Search{CheckIn: c.String("check-in"), CheckOut: c.String("check-out"), RoomType: c.String("type")}
	if err := v.Find(c.Context); err != nil {
		return err
	}
	return a.finish(v)
}

func (a *app) book(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("room id is required")
	}
	v, err := screen[*views.RoomDetails](a, c, guard.Build(guard.RoomDetails, nil, id))
	if err != nil {
		return err
	}
	if v.Loading() {
		return a.finish(v)
	}

	for i, raw := range c.StringSlice("guest") {
		g, err := parseGuest(raw)
		if err != nil {
			return err
		}
		if i > 0 && !v.AddGuest() {
			return fmt.Errorf("room %s takes at most %d guests", id, v.Room.Capacity)
		}
		v.SetGuest(i, g)
	}

	v.SetDates(c.String("check-in"), c.String("check-out"))
	if err := v.Confirm(); err != nil {
		return err
	}
	if v.Preview == nil {
		return a.finish(v)
	}
	v.Render(a.out)
	if !a.env.Confirm.Confirm("Accept this booking?") {
		v.CancelPreview()
		return nil
	}
	if err := v.Accept(c.Context); err != nil {
		return err
	}
	return a.finish(v)
}

func parseGuest(raw string) (models.Guest, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 5 {
		return models.Guest{}, fmt.Errorf("guest %q: want first,last,email,phone,identity", raw)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return models.Guest{
		FirstName:      parts[0],
		LastName:       parts[1],
		Email:          parts[2],
		PhoneNumber:    parts[3],
		IdentityNumber: parts[4],
	}, nil
}

func (a *app) findBooking(c *cli.Context) (*views.FindBooking, error) {
	v, err := screen[*views.FindBooking](a, c, "/"+guard.FindBooking)
	if err != nil {
		return nil, err
	}
	if err := v.Search(c.Context, c.Args().First()); err != nil {
		return nil, err
	}
	return v, nil
}

func (a *app) pay(c *cli.Context) error {
	method, err := checkout.ParseMethod(c.String("method"))
	if err != nil {
		return err
	}
	path := "/" + guard.Payment + "?" + url.Values{"token": {c.String("token")}}.Encode()
	v, err := screen[*views.Payment](a, c, path)
	if err != nil {
		return err
	}

	if v.Flow().Ready() {
		v.Render(a.out)
		if err := v.SelectMethod(method); err != nil {
			return err
		}
		switch method {
		case checkout.MethodCard:
			err = v.PayCard(c.Context, checkout.CardDetails{PaymentMethod: c.String("payment-method")})
		case checkout.MethodWallet:
			err = v.PayWallet(c.Context)
		}
		if err != nil {
			return err
		}
	}

	if a.env.Nav.Current() == path {
		return a.finish(v)
	}
	result, err := views.Open(c.Context, a.env, a.env.Nav.Current())
	if err != nil {
		return err
	}
	result.Render(a.out)
	if _, failed := result.(*views.PaymentFailure); failed {
		return errReported
	}
	return nil
}

func (a *app) adminRooms() *cli.Command {
	roomFlags := func(required bool) []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{Name: "number", Required: required},
			&cli.StringFlag{Name: "type", Required: required},
			&cli.StringFlag{Name: "price", Required: required},
			&cli.StringFlag{Name: "capacity", Required: required},
			&cli.StringFlag{Name: "description", Required: required},
			&cli.StringFlag{Name: "image", Usage: "path to an image file"},
		}
	}
	return &cli.Command{
		Name:  "rooms",
		Usage: "manage rooms",
		Subcommands: []*cli.Command{
			{
				Name: "list",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type"},
					&cli.IntFlag{Name: "page", Value: 1},
				},
				Action: func(c *cli.Context) error {
					v, err := screen[*views.ManageRooms](a, c, "/"+guard.ManageRooms)
					if err != nil {
						return err
					}
					if t := c.String("type"); t != "" {
						v.FilterType(t)
					}
					v.Page(c.Int("page"))
					return a.finish(v)
				},
			},
			{
				Name:  "add",
				Flags: roomFlags(true),
				Action: func(c *cli.Context) error {
					v, err := screen[*views.AddRoom](a, c, "/"+guard.AddRoom)
					if err != nil {
						return err
					}
					v.Form = views.RoomFields{
						RoomNumber:    c.String("number"),
						Type:          c.String("type"),
						PricePerNight: c.String("price"),
						Capacity:      c.String("capacity"),
						Description:   c.String("description"),
						ImagePath:     c.String("image"),
					}
					if err := v.Submit(c.Context); err != nil {
						return err
					}
					return a.finish(v)
				},
			},
			{
				Name:      "update",
				ArgsUsage: "<id>",
				Flags:     roomFlags(false),
				Action: func(c *cli.Context) error {
					v, err := screen[*views.EditRoom](a, c, guard.Build(guard.EditRoom, nil, c.Args().First()))
					if err != nil {
						return err
					}
					if v.Room == nil {
						return a.finish(v)
					}
					override(&v.Form.Type, c, "type")
					override(&v.Form.PricePerNight, c, "price")
					override(&v.Form.Capacity, c, "capacity")
					override(&v.Form.Description, c, "description")
					override(&v.Form.ImagePath, c, "image")
					if err := v.Update(c.Context); err != nil {
						return err
					}
					return a.finish(v)
				},
			},
			{
				Name:      "delete",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					v, err := screen[*views.EditRoom](a, c, guard.Build(guard.EditRoom, nil, c.Args().First()))
					if err != nil {
						return err
					}
					if v.Room == nil {
						return a.finish(v)
					}
					if err := v.Delete(c.Context); err != nil {
						return err
					}
					return a.finish(v)
				},
			},
		},
	}
}

func override(dst *string, c *cli.Context, flag string) {
	if c.IsSet(flag) {
		*dst = c.String(flag)
	}
}

func (a *app) adminBookings() *cli.Command {
	return &cli.Command{
		Name:  "bookings",
		Usage: "manage bookings",
		Subcommands: []*cli.Command{
			{
				Name: "list",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search", Usage: "booking reference contains"},
					&cli.IntFlag{Name: "page", Value: 1},
				},
				Action: func(c *cli.Context) error {
					v, err := screen[*views.ManageBookings](a, c, "/"+guard.ManageBookings)
					if err != nil {
						return err
					}
					v.Search(c.String("search"))
					v.Page(c.Int("page"))
					return a.finish(v)
				},
			},
			{
				Name:      "update",
				ArgsUsage: "<reference>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Usage: strings.Join(statusNames(models.BookingStatuses), ", ")},
					&cli.StringFlag{Name: "payment", Usage: strings.Join(statusNames(models.PaymentStatuses), ", ")},
				},
				Action: func(c *cli.Context) error {
					v, err := screen[*views.UpdateBooking](a, c, guard.Build(guard.EditBooking, nil, c.Args().First()))
					if err != nil {
						return err
					}
					if v.Loading() {
						return a.finish(v)
					}
					if c.IsSet("status") {
						v.SetBookingStatus(c.String("status"))
					}
					if c.IsSet("payment") {
						v.SetPaymentStatus(c.String("payment"))
					}
					if err := v.Submit(c.Context); err != nil {
						return err
					}
					return a.finish(v)
				},
			},
			{
				Name:  "export",
				Usage: "write all bookings to an .xlsx file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Value: "."},
				},
				Action: func(c *cli.Context) error {
					v, err := screen[*views.ManageBookings](a, c, "/"+guard.ManageBookings)
					if err != nil {
						return err
					}
					if v.ErrorText() != "" {
						return a.finish(v)
					}
					path, err := v.ExportFile(c.String("dir"))
					if err != nil {
						return err
					}
					a.logger.Info().Str("path", path).Int("bookings", len(v.Pager().All())).Msg("bookings exported")
					fmt.Fprintln(a.out, v.SuccessText())
					return nil
				},
			},
		},
	}
}

func statusNames[S ~string](statuses []S) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// roomID is used by the shell to turn "room 7" into a route.
func roomID(arg string) (string, error) {
	if _, err := strconv.ParseInt(arg, 10, 64); err != nil {
		return "", fmt.Errorf("invalid room id %q", arg)
	}
	return guard.Build(guard.RoomDetails, nil, arg), nil
}
