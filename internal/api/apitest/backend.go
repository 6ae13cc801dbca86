// Package apitest provides an in-process fake of the hotel booking backend for tests.
package apitest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"hotelbook/internal/models"
)

// Account is a registered user known to the fake backend.
type Account struct {
	Password string
	Token    string
	Role     string
	User     models.User
}

// PaymentLink is what GET /bookings/status answers for a token.
type PaymentLink struct {
	Status           string
	Message          string
	Amount           float64
	BookingReference string
}

// Request is a recorded incoming request.
type Request struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
	ReqID  string
}

// Failure forces a route to answer with Status and Message.
type Failure struct {
	Status  int
	Message string
}

// Backend is a stateful fake of the REST API mounted under /api.
type Backend struct {
	t      *testing.T
	server *httptest.Server

	mu           sync.Mutex
	Accounts     map[string]*Account // by email
	Rooms        []models.Room
	Types        []string
	Bookings     []models.Booking
	Links        map[string]PaymentLink
	StripeSecret string
	PaypalOrder  string
	CaptureOK    bool
	failures     map[string]Failure
	requests     []Request
	reported     []map[string]any
}

// New starts a backend that is closed when the test ends.
func New(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		t:            t,
		Accounts:     map[string]*Account{},
		Links:        map[string]PaymentLink{},
		StripeSecret: "pi_123_secret_456",
		PaypalOrder:  "ORDER-1",
		CaptureOK:    true,
		failures:     map[string]Failure{},
	}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	return b
}

// URL is the API base URL, ending in /api.
func (b *Backend) URL() string {
	return b.server.URL + "/api"
}

// Fail makes the route "METHOD /path-pattern" answer with the given failure.
func (b *Backend) Fail(route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = Failure{Status: status, Message: message}
}

// Requests returns a copy of the recorded requests.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// Paths returns "METHOD /path" of every recorded request, in order.
func (b *Backend) Paths() []string {
	var out []string
	for _, r := range b.Requests() {
		out = append(out, r.Method+" "+r.Path)
	}
	return out
}

// Reported returns the bodies received by PUT /stripe/update.
func (b *Backend) Reported() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any(nil), b.reported...)
}

// AddAccount registers a user that can log in.
func (b *Backend) AddAccount(email, password, token, role string) *Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := &Account{
		Password: password,
		Token:    token,
		Role:     role,
		User: models.User{
			ID:        int64(len(b.Accounts) + 1),
			FirstName: "Test",
			LastName:  "User",
			Email:     email,
			Role:      role,
			Active:    true,
		},
	}
	b.Accounts[email] = acc
	return acc
}

func (b *Backend) route(pattern string, h func(w http.ResponseWriter, r *http.Request, acc *Account)) (string, http.HandlerFunc) {
	return pattern, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			Body:   string(body),
			ReqID:  r.Header.Get("X-Request-ID"),
		})
		fail, failing := b.failures[pattern]
		acc := b.accountFor(r.Header.Get("Authorization"))
		b.mu.Unlock()

		if failing {
			writeJSON(w, fail.Status, map[string]any{"status": fail.Status, "message": fail.Message})
			return
		}
		h(w, r, acc)
	}
}

func (b *Backend) accountFor(auth string) *Account {
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" {
		return nil
	}
	for _, acc := range b.Accounts {
		if acc.Token == token {
			return acc
		}
	}
	return nil
}

func (b *Backend) routes() http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern string, h func(w http.ResponseWriter, r *http.Request, acc *Account)) {
		p, fn := b.route(pattern, h)
		mux.HandleFunc(p, fn)
	}
	authed := func(h func(w http.ResponseWriter, r *http.Request, acc *Account)) func(w http.ResponseWriter, r *http.Request, acc *Account) {
		return func(w http.ResponseWriter, r *http.Request, acc *Account) {
			if acc == nil {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"status": 401, "message": "Unauthorized"})
				return
			}
			h(w, r, acc)
		}
	}

	handle("POST /api/auth/register", b.register)
	handle("POST /api/auth/login", b.login)
	handle("GET /api/users/account", authed(func(w http.ResponseWriter, _ *http.Request, acc *Account) {
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "user": acc.User})
	}))
	handle("GET /api/users/bookings", authed(func(w http.ResponseWriter, _ *http.Request, acc *Account) {
		b.mu.Lock()
		var own []models.Booking
		for _, bk := range b.Bookings {
			if bk.User != nil && bk.User.Email == acc.User.Email {
				own = append(own, bk)
			}
		}
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "bookings": own})
	}))
	handle("DELETE /api/users/delete", authed(func(w http.ResponseWriter, _ *http.Request, acc *Account) {
		b.mu.Lock()
		delete(b.Accounts, acc.User.Email)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "message": "Account deleted"})
	}))

	handle("GET /api/rooms/all", func(w http.ResponseWriter, _ *http.Request, _ *Account) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "rooms": b.Rooms})
	})
	handle("GET /api/rooms/available", func(w http.ResponseWriter, r *http.Request, _ *Account) {
		want := r.URL.Query().Get("roomType")
		b.mu.Lock()
		var out []models.Room
		for _, room := range b.Rooms {
			if want == "" || room.Type == want {
				out = append(out, room)
			}
		}
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "rooms": out})
	})
	handle("GET /api/rooms/types", func(w http.ResponseWriter, _ *http.Request, _ *Account) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.Types)
	})
	handle("GET /api/rooms/{id}", func(w http.ResponseWriter, r *http.Request, _ *Account) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, room := range b.Rooms {
			if room.ID == id {
				writeJSON(w, http.StatusOK, map[string]any{"status": 200, "room": room})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Room Not Found"})
	})
	handle("POST /api/rooms/add", authed(b.saveRoom))
	handle("PUT /api/rooms/update", authed(b.saveRoom))
	handle("DELETE /api/rooms/delete/{id}", authed(func(w http.ResponseWriter, r *http.Request, _ *Account) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, room := range b.Rooms {
			if room.ID == id {
				b.Rooms = append(b.Rooms[:i], b.Rooms[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]any{"status": 200, "message": "Room Deleted Successfully"})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Room Not Found"})
	}))

	handle("POST /api/bookings", authed(b.createBooking))
	handle("GET /api/bookings/all", authed(func(w http.ResponseWriter, _ *http.Request, _ *Account) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "bookings": b.Bookings})
	}))
	handle("GET /api/bookings/status", func(w http.ResponseWriter, r *http.Request, _ *Account) {
		b.mu.Lock()
		link, ok := b.Links[r.URL.Query().Get("token")]
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Payment link not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":           link.Status,
			"message":          link.Message,
			"amount":           link.Amount,
			"bookingReference": link.BookingReference,
		})
	})
	handle("GET /api/bookings/{code}", authed(func(w http.ResponseWriter, r *http.Request, _ *Account) {
		code := r.PathValue("code")
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, bk := range b.Bookings {
			if bk.BookingReference == code {
				writeJSON(w, http.StatusOK, map[string]any{"status": 200, "booking": bk})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Booking Not Found"})
	}))
	handle("PUT /api/bookings/update", authed(func(w http.ResponseWriter, r *http.Request, _ *Account) {
		var upd struct {
			ID            int64  `json:"id"`
			BookingStatus string `json:"bookingStatus"`
			PaymentStatus string `json:"paymentStatus"`
		}
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "bad body"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.Bookings {
			if b.Bookings[i].ID == upd.ID {
				if upd.BookingStatus != "" {
					b.Bookings[i].BookingStatus = models.BookingStatus(upd.BookingStatus)
				}
				if upd.PaymentStatus != "" {
					b.Bookings[i].PaymentStatus = models.PaymentStatus(upd.PaymentStatus)
				}
				writeJSON(w, http.StatusOK, map[string]any{"status": 200, "message": "Booking Updated Successfully"})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Booking Not Found"})
	}))
	handle("DELETE /api/bookings/cancel/{code}", authed(func(w http.ResponseWriter, r *http.Request, _ *Account) {
		code := r.PathValue("code")
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.Bookings {
			if b.Bookings[i].BookingReference == code {
				b.Bookings[i].BookingStatus = models.BookingCancelled
				writeJSON(w, http.StatusOK, map[string]any{"status": 200, "message": "Booking cancelled successfully"})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Booking Not Found"})
	}))

	handle("POST /api/stripe/pay", func(w http.ResponseWriter, _ *http.Request, _ *Account) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"clientSecret": b.StripeSecret})
	})
	handle("PUT /api/stripe/update", func(w http.ResponseWriter, r *http.Request, _ *Account) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		b.reported = append(b.reported, body)
		b.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	handle("POST /api/paypal/create", func(w http.ResponseWriter, _ *http.Request, _ *Account) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"orderId": b.PaypalOrder})
	})
	handle("POST /api/paypal/capture", func(w http.ResponseWriter, r *http.Request, _ *Account) {
		b.mu.Lock()
		ok := b.CaptureOK && r.URL.Query().Get("orderId") == b.PaypalOrder
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"status": "FAILED", "message": "Capture declined"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "SUCCESS", "message": "Payment captured"})
	})
	return mux
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request, _ *Account) {
	var req struct {
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phoneNumber"`
		Password    string `json:"password"`
		Role        string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "bad body"})
		return
	}
	b.mu.Lock()
	_, exists := b.Accounts[req.Email]
	b.mu.Unlock()
	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "Email already exists"})
		return
	}
	role := req.Role
	if role == "" {
		role = "CUSTOMER"
	}
	acc := b.AddAccount(req.Email, req.Password, "token-"+req.Email, role)
	b.mu.Lock()
	acc.User.FirstName, acc.User.LastName, acc.User.PhoneNumber = req.FirstName, req.LastName, req.PhoneNumber
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": 200, "message": "User created successfully"})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request, _ *Account) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "bad body"})
		return
	}
	b.mu.Lock()
	acc, ok := b.Accounts[req.Email]
	b.mu.Unlock()
	if !ok || acc.Password != req.Password {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "Invalid password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": 200, "message": "Login successful", "token": acc.Token, "role": acc.Role})
}

func (b *Backend) saveRoom(w http.ResponseWriter, r *http.Request, acc *Account) {
	if acc.Role != "ADMIN" {
		writeJSON(w, http.StatusForbidden, map[string]any{"status": 403, "message": "Forbidden"})
		return
	}
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "bad form"})
		return
	}
	price, _ := strconv.ParseFloat(r.FormValue("pricePerNight"), 64)
	capacity, _ := strconv.Atoi(r.FormValue("capacity"))
	id, _ := strconv.ParseInt(r.FormValue("id"), 10, 64)

	room := models.Room{
		ID:            id,
		RoomNumber:    r.FormValue("roomNumber"),
		Type:          r.FormValue("type"),
		PricePerNight: price,
		Capacity:      capacity,
		Description:   r.FormValue("description"),
	}
	if _, hdr, err := r.FormFile("imageFile"); err == nil {
		room.ImageURL = "/images/" + hdr.Filename
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if r.Method == http.MethodPost {
		room.ID = int64(len(b.Rooms) + 100)
		b.Rooms = append(b.Rooms, room)
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "message": "Room Added Successfully"})
		return
	}
	for i := range b.Rooms {
		if b.Rooms[i].ID == room.ID {
			if room.ImageURL == "" {
				room.ImageURL = b.Rooms[i].ImageURL
			}
			b.Rooms[i] = room
			writeJSON(w, http.StatusOK, map[string]any{"status": 200, "message": "Room Updated Successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Room Not Found"})
}

func (b *Backend) createBooking(w http.ResponseWriter, r *http.Request, acc *Account) {
	var bk models.Booking
	if err := json.NewDecoder(r.Body).Decode(&bk); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "bad body"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	bk.ID = int64(len(b.Bookings) + 1)
	bk.BookingReference = "REF" + strconv.FormatInt(bk.ID, 10)
	bk.BookingStatus = models.BookingBooked
	bk.PaymentStatus = models.PaymentPending
	user := acc.User
	bk.User = &user
	b.Bookings = append(b.Bookings, bk)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  200,
		"message": "Booking is successful. A payment link has been sent to your email.",
		"booking": bk,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
