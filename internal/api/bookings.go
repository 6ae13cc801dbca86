package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"hotelbook/internal/models"
	"hotelbook/internal/session"
)

// CreateBooking books a room for the session holder.
func (c *Client) CreateBooking(ctx context.Context, sess *session.Session, req BookingRequest) (*Response, error) {
	cl, err := c.newCall("create_booking", http.MethodPost, "/bookings", sess).withJSON(req)
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
	return &resp, nil
}

// AllBookings lists every booking (admin).
func (c *Client) AllBookings(ctx context.Context, sess *session.Session) ([]models.Booking, error) {
	var resp Response
	if err := c.do(ctx, c.newCall("all_bookings", http.MethodGet, "/bookings/all", sess), &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(&resp); err != nil {
		return nil, err
	}
	return c.validBookings("all_bookings", resp.Bookings), nil
}

// BookingByReference looks a booking up by its reference.
func (c *Client) BookingByReference(ctx context.Context, sess *session.Session, reference string) (*models.Booking, error) {
	var resp Response
	cl := c.newCall("booking_by_reference", http.MethodGet, "/bookings/"+url.PathEscape(reference), sess)
	if err := c.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(&resp); err != nil {
		return nil, err
	}
	if resp.Booking == nil || resp.Booking.BookingReference == "" {
		return nil, fmt.Errorf("booking_by_reference: %w", ErrMalformedResponse)
	}
	return resp.Booking, nil
}

// UpdateBooking changes booking and/or payment status (admin).
func (c *Client) UpdateBooking(ctx context.Context, sess *session.Session, upd BookingUpdate) (string, error) {
	cl, err := c.newCall("update_booking", http.MethodPut, "/bookings/update", sess).withJSON(upd)
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

// CancelBooking asks the backend to cancel a booking. The backend re-checks
// the cancellation policy.
func (c *Client) CancelBooking(ctx context.Context, sess *session.Session, reference string) (string, error) {
	var resp Response
	cl := c.newCall("cancel_booking", http.MethodDelete, "/bookings/cancel/"+url.PathEscape(reference), sess)
	if err := c.do(ctx, cl, &resp); err != nil {
		return "", err
	}
	if err := checkEnvelope(&resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) validBookings(op string, bookings []models.Booking) []models.Booking {
	out := bookings[:0:0]
	for _, b := range bookings {
		if b.BookingReference == "" {
			c.logger.Warn().Str("op", op).Int64("booking_id", b.ID).Msg("skipping booking without reference")
			continue
		}
		out = append(out, b)
	}
	return out
}
