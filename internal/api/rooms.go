package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/go-querystring/query"

	"hotelbook/internal/models"
	"hotelbook/internal/session"
)

// AllRooms lists every room.
func (c *Client) AllRooms(ctx context.Context) ([]models.Room, error) {
	var resp Response
	if err := c.do(ctx, c.newCall("all_rooms", http.MethodGet, "/rooms/all", nil), &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(&resp); err != nil {
		return nil, err
	}
	return c.validRooms("all_rooms", resp.Rooms), nil
}

// AvailableRooms lists rooms of the given type free between the two dates.
func (c *Client) AvailableRooms(ctx context.Context, q AvailabilityQuery) ([]models.Room, error) {
	values, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("encode availability query: %w", err)
	}
	var resp Response
	cl := c.newCall("available_rooms", http.MethodGet, "/rooms/available", nil).withQuery(values)
	if err := c.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(&resp); err != nil {
		return nil, err
	}
	return c.validRooms("available_rooms", resp.Rooms), nil
}

// RoomTypes lists the distinct room types.
func (c *Client) RoomTypes(ctx context.Context) ([]string, error) {
	var types []string
	if err := c.do(ctx, c.newCall("room_types", http.MethodGet, "/rooms/types", nil), &types); err != nil {
		return nil, err
	}
	return types, nil
}

// RoomByID fetches one room.
func (c *Client) RoomByID(ctx context.Context, id int64) (*models.Room, error) {
	var resp Response
	if err := c.do(ctx, c.newCall("room_by_id", http.MethodGet, "/rooms/"+strconv.FormatInt(id, 10), nil), &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(&resp); err != nil {
		return nil, err
	}
	if resp.Room == nil || resp.Room.ID == 0 {
		return nil, fmt.Errorf("room_by_id: %w", ErrMalformedResponse)
	}
	return resp.Room, nil
}

// AddRoom creates a room from a multipart form.
func (c *Client) AddRoom(ctx context.Context, sess *session.Session, form RoomForm) (string, error) {
	return c.sendRoomForm(ctx, "add_room", http.MethodPost, "/rooms/add", sess, form)
}

// UpdateRoom modifies the room identified by form.ID.
func (c *Client) UpdateRoom(ctx context.Context, sess *session.Session, form RoomForm) (string, error) {
	return c.sendRoomForm(ctx, "update_room", http.MethodPut, "/rooms/update", sess, form)
}

// DeleteRoom removes a room.
func (c *Client) DeleteRoom(ctx context.Context, sess *session.Session, id int64) (string, error) {
	var resp Response
	cl := c.newCall("delete_room", http.MethodDelete, "/rooms/delete/"+strconv.FormatInt(id, 10), sess)
	if err := c.do(ctx, cl, &resp); err != nil {
		return "", err
	}
	if err := checkEnvelope(&resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) sendRoomForm(ctx context.Context, op, method, path string, sess *session.Session, form RoomForm) (string, error) {
	body, ctype, err := encodeRoomForm(form)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	cl := c.newCall(op, method, path, sess)
	cl.body = body
	cl.ctype = ctype

	var resp Response
	if err := c.do(ctx, cl, &resp); err != nil {
		return "", err
	}
	if err := checkEnvelope(&resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func encodeRoomForm(form RoomForm) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"type", form.Type},
		{"pricePerNight", strconv.FormatFloat(form.PricePerNight, 'f', -1, 64)},
		{"capacity", strconv.Itoa(form.Capacity)},
		{"description", form.Description},
	}
	if form.RoomNumber != "" {
		fields = append(fields, struct{ name, value string }{"roomNumber", form.RoomNumber})
	}
	if form.ID != 0 {
		fields = append(fields, struct{ name, value string }{"id", strconv.FormatInt(form.ID, 10)})
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if form.Image != nil {
		name := form.ImageName
		if name == "" {
			name = "room-image"
		}
		part, err := w.CreateFormFile("imageFile", name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, form.Image); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *Client) validRooms(op string, rooms []models.Room) []models.Room {
	out := rooms[:0:0]
	for _, r := range rooms {
		if r.ID == 0 {
			c.logger.Warn().Str("op", op).Str("room_number", r.RoomNumber).Msg("skipping room without id")
			continue
		}
		out = append(out, r)
	}
	return out
}
