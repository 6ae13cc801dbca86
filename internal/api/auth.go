package api

import (
	"context"
	"fmt"
	"net/http"

	"hotelbook/internal/models"
	"hotelbook/internal/session"
)

// Register creates an account. Administrators may pass a session to register
// accounts with an explicit role; customers pass nil.
func (c *Client) Register(ctx context.Context, sess *session.Session, req RegisterRequest) (string, error) {
	cl, err := c.newCall("register", http.MethodPost, "/auth/register", sess).withJSON(req)
	if err != nil {
		return "", err
	}
	var resp Response
	if err := c.do(ctx, cl, &resp); err != nil {
		return "", err
	}
	if err := checkEnvelope(&resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Login exchanges credentials for a token and role. The caller persists them.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	cl, err := c.newCall("login", http.MethodPost, "/auth/login", nil).withJSON(req)
	if err != nil {
		return nil, err
	}
	var resp Response
	if err := c.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(&resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login: %w", ErrMalformedResponse)
	}
	return &LoginResult{Token: resp.Token, Role: resp.Role, Message: resp.Message}, nil
}

// MyProfile fetches the account of the session holder.
func (c *Client) MyProfile(ctx context.Context, sess *session.Session) (*models.User, error) {
	var resp Response
	if err := c.do(ctx, c.newCall("my_profile", http.MethodGet, "/users/account", sess), &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(&resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("my_profile: %w", ErrMalformedResponse)
	}
	return resp.User, nil
}

// MyBookings lists the bookings of the session holder.
func (c *Client) MyBookings(ctx context.Context, sess *session.Session) ([]models.Booking, error) {
	var resp Response
	if err := c.do(ctx, c.newCall("my_bookings", http.MethodGet, "/users/bookings", sess), &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(&resp); err != nil {
		return nil, err
	}
	return c.validBookings("my_bookings", resp.Bookings), nil
}

// DeleteAccount removes the account of the session holder. The caller clears
// the session afterwards.
func (c *Client) DeleteAccount(ctx context.Context, sess *session.Session) (string, error) {
	var resp Response
	if err := c.do(ctx, c.newCall("delete_account", http.MethodDelete, "/users/delete", sess), &resp); err != nil {
		return "", err
	}
	if err := checkEnvelope(&resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
