package views

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"hotelbook/internal/api"
	"hotelbook/internal/booking"
	"hotelbook/internal/session"
)

// Login signs a user in and stores the issued credentials.
type Login struct {
	base
	Email    string
	Password string
}

func NewLogin(env *Env) *Login {
	return &Login{base: newBase(env)}
}

func (v *Login) Mount(context.Context) error { return nil }

// Submit validates the form, calls the backend and persists the session.
func (v *Login) Submit(ctx context.Context) error {
	req := api.LoginRequest{Email: v.Email, Password: v.Password}
	if blank(req.Email, req.Password) {
		v.fail("Please fill all the fields correctly")
		return nil
	}

	res, err := v.env.API.Login(ctx, req)
	if err != nil {
		v.fail(api.MessageOf(err, "Unable To Login"))
		return nil
	}

	sess, err := v.env.Sessions.Save(ctx, res.Token, session.ParseRole(res.Role))
	if err != nil {
		v.env.Logger.Error().Err(err).Msg("failed to store session")
		v.fail("Unable to store your session")
		return nil
	}
	v.env.Session = sess
	v.Password = ""
	v.env.Nav.Navigate("/home")
	return nil
}

func (v *Login) Render(w io.Writer) {
	v.header(w, "Login")
	fmt.Fprintf(w, "Email: %s\n", v.Email)
}

// Register creates an account. Customers register themselves; administrators
// register other accounts with an explicit role.
type Register struct {
	base
	Admin bool
	Form  api.RegisterRequest
}

func NewRegister(env *Env) *Register {
	return &Register{base: newBase(env)}
}

func NewAdminRegister(env *Env) *Register {
	return &Register{base: newBase(env), Admin: true}
}

func (v *Register) Mount(context.Context) error { return nil }

func (v *Register) Submit(ctx context.Context) error {
	if msg := v.validate(); msg != "" {
		v.fail(msg)
		return nil
	}

	form := v.Form
	if !v.Admin {
		form.Role = ""
	}
	msg, err := v.env.API.Register(ctx, v.env.Session, form)
	if err != nil {
		v.fail(api.MessageOf(err, "Unable To Register a user"))
		return nil
	}

	v.Form.Password = ""
	if v.Admin {
		v.env.Nav.Navigate("/admin")
		return nil
	}
	if msg == "" {
		msg = "Registration successful. Please log in."
	}
	v.succeed(msg, v.env.Timing.ShortSuccess)
	v.after("/login", v.env.Timing.RedirectDelay)
	return nil
}

func (v *Register) validate() string {
	f := v.Form
	if blank(f.FirstName, f.LastName, f.Email, f.PhoneNumber, f.Password) {
		return "All fields are required"
	}
	if v.Admin {
		if blank(f.Role) {
			return "All fields are required"
		}
		if session.ParseRole(f.Role) == session.RoleNone {
			return "Role must be ADMIN or CUSTOMER"
		}
	}
	if err := booking.Validator().Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Tag() == "email" {
			return "Invalid email format"
		}
		return "All fields are required"
	}
	return ""
}

func (v *Register) Render(w io.Writer) {
	title := "Register"
	if v.Admin {
		title = "Register a user"
	}
	v.header(w, title)
	f := v.Form
	fmt.Fprintf(w, "Name:  %s %s\nEmail: %s\nPhone: %s\n", f.FirstName, f.LastName, f.Email, f.PhoneNumber)
	if v.Admin {
		fmt.Fprintf(w, "Role:  %s\n", f.Role)
	}
}
