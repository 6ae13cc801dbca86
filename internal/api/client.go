// Package api is the single gateway to the hotel booking backend.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"hotelbook/internal/metrics"
	"hotelbook/internal/session"
)

// Client wraps every backend call. Each method issues exactly one request:
// no retry, no caching, no coalescing.
type Client struct {
	baseURL    string
	httpClient *http.Client

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  zerolog.Logger
}

// NewClient constructs a client for baseURL (e.g. http://localhost:8080/api).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     zerolog.Nop(),
	}
}

// UseLogger sets the logger for request tracing.
func (c *Client) UseLogger(logger zerolog.Logger) {
	c.logger = logger.With().Str("component", "api").Logger()
}

// UseHTTPClient replaces the underlying transport client.
func (c *Client) UseHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// UseRateLimit throttles outgoing requests to rps with the given burst.
func (c *Client) UseRateLimit(rps float64, burst int) {
	if rps <= 0 {
		c.limiter = nil
		return
	}
	if burst <= 0 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// UseBreaker makes the client fail fast after consecutive server-side failures.
// Client errors (4xx) do not trip it.
func (c *Client) UseBreaker(consecutiveFailures uint32, openFor time.Duration) {
	if consecutiveFailures == 0 {
		c.breaker = nil
		return
	}
	if openFor <= 0 {
		openFor = 30 * time.Second
	}
	logger := c.logger
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "hotelbook-api",
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
}

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	sess   *session.Session
	body   io.Reader
	ctype  string
}

func (c *Client) newCall(op, method, path string, sess *session.Session) *call {
	return &call{op: op, method: method, path: path, sess: sess}
}

func (cl *call) withQuery(q url.Values) *call {
	cl.query = q
	return cl
}

func (cl *call) withJSON(v any) (*call, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s body: %w", cl.op, err)
	}
	cl.body = bytes.NewReader(data)
	cl.ctype = "application/json"
	return cl, nil
}

// do sends the call and decodes a successful body into out (if non-nil).
func (c *Client) do(ctx context.Context, cl *call, out any) error {
	raw, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		metrics.IncAPIRequest(cl.op, "malformed")
		return fmt.Errorf("%s: %w", cl.op, ErrMalformedResponse)
	}
	return nil
}

// send performs the request and returns the raw body of a 2xx response.
func (c *Client) send(ctx context.Context, cl *call) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Err: err}
		}
	}

	endpoint := c.baseURL + cl.path
	if len(cl.query) > 0 {
		endpoint += "?" + cl.query.Encode()
	}
	body := cl.body
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint, body)
	if err != nil {
		return nil, &Error{Err: err}
	}
	c.addHeaders(req, cl)

	reqID := req.Header.Get("X-Request-ID")
	start := time.Now()

	var raw []byte
	exec := func() (any, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		raw = data
		if resp.StatusCode >= 300 {
			apiErr := decodeError(resp.StatusCode, data)
			if resp.StatusCode >= 500 {
				return nil, apiErr
			}
			// 4xx is a valid answer from a healthy backend.
			return apiErr, nil
		}
		return nil, nil
	}

	var result any
	if c.breaker != nil {
		result, err = c.breaker.Execute(exec)
	} else {
		result, err = exec()
	}

	logEvt := c.logger.Debug().Str("op", cl.op).Str("request_id", reqID).Dur("took", time.Since(start))
	if err != nil {
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				apiErr = &Error{Status: http.StatusServiceUnavailable, Message: "Service temporarily unavailable. Please try again later.", Err: err}
			} else {
				apiErr = &Error{Err: err}
			}
		}
		logEvt.Err(apiErr).Msg("request failed")
		metrics.IncAPIRequest(cl.op, "error")
		return nil, apiErr
	}
	if apiErr, ok := result.(*Error); ok {
		logEvt.Int("status", apiErr.Status).Msg("request rejected")
		metrics.IncAPIRequest(cl.op, "rejected")
		return nil, apiErr
	}
	logEvt.Msg("request ok")
	metrics.IncAPIRequest(cl.op, "ok")
	return raw, nil
}

func (c *Client) addHeaders(req *http.Request, cl *call) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if cl.ctype != "" {
		req.Header.Set("Content-Type", cl.ctype)
	}
	if token := cl.sess.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeError(status int, body []byte) *Error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	apiErr := &Error{Status: status}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}

// checkEnvelope turns an in-body failure status into an error.
func checkEnvelope(resp *Response) error {
	if resp.Status != 0 && resp.Status >= 300 {
		return &Error{Status: resp.Status, Message: resp.Message}
	}
	return nil
}
